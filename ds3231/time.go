package ds3231

import "fmt"

// HourMode is the format the chip keeps its hour registers in.
type HourMode uint8

const (
	Mode24Hour HourMode = iota
	Mode12Hour
)

func (m HourMode) String() string {
	if m == Mode12Hour {
		return "12h"
	}
	return "24h"
}

// Time is a time of day. Hour24 and Hour12/PM describe the same hour: which of them is used depends on the hour mode
// being written, and both are filled in when reading.
//
// Midnight is 12 AM (Hour24 0) and noon is 12 PM (Hour24 12).
type Time struct {
	Hour24 uint8
	Hour12 uint8
	Minute uint8
	Second uint8
	PM     bool
}

// String formats t as a 24-hour clock.
func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour24, t.Minute, t.Second)
}

// TimeOf returns a Time with both hour representations derived from a 24-hour clock value.
func TimeOf(hour, minute, second int) Time {
	t := hoursFrom24(uint8(hour))
	t.Minute = uint8(minute)
	t.Second = uint8(second)
	return t
}

// TimeOf12 returns a Time with both hour representations derived from a 12-hour clock value.
func TimeOf12(hour, minute, second int, pm bool) Time {
	t := hoursFrom12(uint8(hour), pm)
	t.Minute = uint8(minute)
	t.Second = uint8(second)
	return t
}

func hoursFrom24(h24 uint8) Time {
	t := Time{Hour24: h24, Hour12: h24, PM: h24 >= 12}
	switch {
	case h24 == 0:
		t.Hour12 = 12
	case h24 > 12:
		t.Hour12 = h24 - 12
	}
	return t
}

func hoursFrom12(h12 uint8, pm bool) Time {
	t := Time{Hour12: h12, Hour24: h12, PM: pm}
	if h12 == 12 {
		t.Hour24 = 0
	}
	if pm {
		t.Hour24 += 12
	}
	return t
}

// EncodeHours returns the hours register value for t in the given mode. The same encoding is used by the alarm hour
// registers, except for the alarm mask bit.
func EncodeHours(t Time, mode HourMode) (uint8, error) {
	if mode == Mode12Hour {
		if t.Hour12 < 1 || t.Hour12 > 12 {
			return 0, ErrInvalidHour
		}
		h := toBCD(t.Hour12)&0x1F | hourMode12
		if t.PM {
			h |= hourPM
		}
		return h, nil
	}

	if t.Hour24 > 23 {
		return 0, ErrInvalidHour
	}
	return toBCD(t.Hour24) & 0x3F, nil
}

// DecodeHours decodes an hours register in either mode. Only the hour fields of the result are set.
func DecodeHours(h uint8) Time {
	if h&hourMode12 != 0 {
		return hoursFrom12(fromBCD(h&0x1F), h&hourPM != 0)
	}
	return hoursFrom24(fromBCD(h & 0x3F))
}

// SetTime writes the hours, minutes and seconds registers, storing the hour in the configured mode.
func (d *Device) SetTime(t Time) error {
	h, err := EncodeHours(t, d.hourMode)
	if err != nil {
		return err
	}
	err = d.WriteRegister(RegHours, h)
	if err != nil {
		return err
	}
	err = d.WriteBCDRegister(RegMinutes, t.Minute)
	if err != nil {
		return err
	}
	return d.WriteBCDRegister(RegSeconds, t.Second)
}

// ReadTime reads the time of day, in whichever hour mode the chip currently holds.
func (d *Device) ReadTime() (Time, error) {
	h, err := d.ReadRegister(RegHours)
	if err != nil {
		return Time{}, err
	}
	m, err := d.ReadBCDRegister(RegMinutes)
	if err != nil {
		return Time{}, err
	}
	s, err := d.ReadBCDRegister(RegSeconds)
	if err != nil {
		return Time{}, err
	}

	t := DecodeHours(h)
	t.Minute = m
	t.Second = s
	return t, nil
}
