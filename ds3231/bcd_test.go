package ds3231

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestBCDRoundTrip(t *testing.T) {
	c := qt.New(t)
	for n := uint8(0); n <= 99; n++ {
		c.Assert(fromBCD(toBCD(n)), qt.Equals, n, qt.Commentf("n=%d", n))
	}
}

func TestBCDValues(t *testing.T) {
	c := qt.New(t)
	tests := []struct {
		dec uint8
		bcd uint8
	}{
		{0, 0x00},
		{9, 0x09},
		{10, 0x10},
		{23, 0x23},
		{59, 0x59},
		{99, 0x99},
	}
	for _, test := range tests {
		c.Assert(toBCD(test.dec), qt.Equals, test.bcd, qt.Commentf("dec=%d", test.dec))
		c.Assert(fromBCD(test.bcd), qt.Equals, test.dec, qt.Commentf("bcd=%#x", test.bcd))
	}
}

func TestFromBCDDoesNotValidateNibbles(t *testing.T) {
	c := qt.New(t)
	c.Assert(fromBCD(0x1F), qt.Equals, uint8(25))
}
