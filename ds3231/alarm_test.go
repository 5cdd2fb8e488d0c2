package ds3231

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/ajanata/tinygo-rtc/internal/fakebus"
)

func TestEncodeAlarm(t *testing.T) {
	c := qt.New(t)
	tests := []struct {
		about string
		a     AlarmSetting
		hours uint8
		first uint8
		want  []byte
	}{{
		about: "alarm 1 everyday ignores day and weekday",
		a: AlarmSetting{
			Time:    TimeOf(6, 30, 15),
			Day:     17,
			Weekday: 5,
			Mask:    A1M4 | A1DayOfWeek,
		},
		first: RegAlarm1Seconds,
		want:  []byte{0x15, 0x30, 0x06, 0x80},
	}, {
		about: "alarm 1 every second",
		a: AlarmSetting{
			Time: TimeOf(23, 59, 59),
			Mask: Alarm1EverySecond,
		},
		first: RegAlarm1Seconds,
		want:  []byte{0x80 | 0x59, 0x80 | 0x59, 0x80, 0x80},
	}, {
		about: "alarm 1 date match",
		a: AlarmSetting{
			Time: TimeOf(7, 0, 0),
			Day:  31,
			Mask: Alarm1MatchDate,
		},
		first: RegAlarm1Seconds,
		want:  []byte{0x00, 0x00, 0x07, 0x31},
	}, {
		about: "alarm 1 weekday match",
		a: AlarmSetting{
			Time:    TimeOf(7, 0, 0),
			Weekday: 2,
			Mask:    Alarm1MatchWeekday,
		},
		first: RegAlarm1Seconds,
		want:  []byte{0x00, 0x00, 0x07, 0x42},
	}, {
		about: "alarm 1 in 12 hour mode",
		a: AlarmSetting{
			Time: TimeOf(19, 45, 0),
			Mask: Alarm1MatchHours,
		},
		hours: 0x40 | 0x20 | 0x03,
		first: RegAlarm1Seconds,
		want:  []byte{0x00, 0x45, 0x67, 0x80},
	}, {
		about: "alarm 2 ignores seconds",
		a: AlarmSetting{
			Time: TimeOf(12, 34, 56),
			Mask: Alarm2MatchHours,
		},
		first: RegAlarm2Minutes,
		want:  []byte{0x34, 0x12, 0x80},
	}, {
		about: "alarm 2 every minute",
		a: AlarmSetting{
			Time: TimeOf(12, 34, 56),
			Mask: Alarm2EveryMinute,
		},
		first: RegAlarm2Minutes,
		want:  []byte{0x80 | 0x34, 0x80, 0x80},
	}, {
		about: "alarm 2 weekday",
		a: AlarmSetting{
			Time:    TimeOf(0, 5, 0),
			Day:     9,
			Weekday: 7,
			Mask:    Alarm2MatchWeekday,
		},
		hours: 0x40,
		first: RegAlarm2Minutes,
		want:  []byte{0x05, 0x52, 0x47},
	}, {
		about: "alarm 2 date",
		a: AlarmSetting{
			Time: TimeOf(21, 0, 0),
			Day:  9,
			Mask: Alarm2MatchDate | A2M2,
		},
		first: RegAlarm2Minutes,
		want:  []byte{0x80, 0x21, 0x09},
	}, {
		about: "alarm 1 seconds match with only seconds set, 12 hour clock",
		a: AlarmSetting{
			Time: Time{Second: 30},
			Mask: Alarm1MatchSeconds,
		},
		hours: 0x40,
		first: RegAlarm1Seconds,
		want:  []byte{0x30, 0x80, 0x80 | 0x40, 0x80},
	}, {
		about: "alarm 1 minutes match with no hour, 24 hour clock",
		a: AlarmSetting{
			Time: Time{Minute: 15},
			Mask: Alarm1MatchMinutes,
		},
		first: RegAlarm1Seconds,
		want:  []byte{0x00, 0x15, 0x80, 0x80},
	}, {
		about: "alarm 2 every minute with zero time, 12 hour clock",
		a: AlarmSetting{
			Mask: Alarm2EveryMinute,
		},
		hours: 0x40 | 0x20 | 0x03,
		first: RegAlarm2Minutes,
		want:  []byte{0x80, 0x80 | 0x40, 0x80},
	}, {
		about: "alarm 2 minutes match with no hour, 24 hour clock",
		a: AlarmSetting{
			Time: Time{Minute: 45},
			Mask: Alarm2MatchMinutes,
		},
		hours: 0x15,
		first: RegAlarm2Minutes,
		want:  []byte{0x45, 0x80, 0x80},
	}, {
		about: "alarm 2 every minute ignores an invalid hour",
		a: AlarmSetting{
			Time: Time{Hour24: 30, Hour12: 13},
			Mask: Alarm2EveryMinute,
		},
		hours: 0x40,
		first: RegAlarm2Minutes,
		want:  []byte{0x80, 0x80 | 0x40, 0x80},
	}}
	for _, test := range tests {
		c.Run(test.about, func(c *qt.C) {
			first, data, err := EncodeAlarm(test.a, test.hours)
			c.Assert(err, qt.IsNil)
			c.Assert(first, qt.Equals, test.first)
			c.Assert(data, qt.DeepEquals, test.want)

			got, err := DecodeAlarm(test.a.Mask.Alarm(), data)
			c.Assert(err, qt.IsNil)
			c.Assert(got.Mask, qt.Equals, test.a.Mask&^ignoredMaskBits(test.a.Mask))
			c.Assert(got.Time.Minute, qt.Equals, test.a.Time.Minute)
			if !hourIgnored(test.a.Mask) {
				c.Assert(got.Time.Hour24, qt.Equals, test.a.Time.Hour24)
				c.Assert(got.Time.Hour12, qt.Equals, test.a.Time.Hour12)
			}
			if test.a.Mask.Alarm() == Alarm1 {
				c.Assert(got.Time.Second, qt.Equals, test.a.Time.Second)
			}
		})
	}
}

// ignoredMaskBits returns the day selector bit when the day/date register is a wildcard, since it isn't stored.
func ignoredMaskBits(m AlarmMask) AlarmMask {
	if m.Alarm() == Alarm1 && m&A1M4 != 0 {
		return A1DayOfWeek
	}
	if m.Alarm() == Alarm2 && m&A2M4 != 0 {
		return A2DayOfWeek
	}
	return 0
}

func hourIgnored(m AlarmMask) bool {
	if m.Alarm() == Alarm2 {
		return m&A2M3 != 0
	}
	return m&A1M3 != 0
}

func TestEncodeAlarmInvalidHour(t *testing.T) {
	c := qt.New(t)
	_, _, err := EncodeAlarm(AlarmSetting{Time: Time{Hour24: 25}}, 0)
	c.Assert(err, qt.Equals, ErrInvalidHour)
	_, _, err = EncodeAlarm(AlarmSetting{Time: Time{Hour24: 5}}, hourMode12)
	c.Assert(err, qt.Equals, ErrInvalidHour)
}

func TestDecodeAlarmInvalid(t *testing.T) {
	c := qt.New(t)
	_, err := DecodeAlarm(Alarm1, []byte{0, 0, 0})
	c.Assert(err, qt.Equals, ErrInvalidAlarm)
	_, err = DecodeAlarm(Alarm2, []byte{0, 0, 0, 0})
	c.Assert(err, qt.Equals, ErrInvalidAlarm)
	_, err = DecodeAlarm(BothAlarms, []byte{0, 0, 0})
	c.Assert(err, qt.Equals, ErrInvalidAlarm)
}

func TestSetAlarmEverydayWritesDayDate0x80(t *testing.T) {
	c := qt.New(t)
	d, bus := newTestDevice(Mode24Hour)
	bus.Regs[RegAlarm1DayDate] = 0x55
	err := d.SetAlarm(AlarmSetting{
		Time:    TimeOf(8, 15, 0),
		Day:     12,
		Weekday: 3,
		Mask:    A1M4,
	})
	c.Assert(err, qt.IsNil)
	c.Assert(bus.Regs[RegAlarm1DayDate], qt.Equals, uint8(0x80))
}

func TestSetAlarmReadsClockHoursFirst(t *testing.T) {
	c := qt.New(t)
	d, bus := newTestDevice(Mode24Hour)
	// the device is configured for 24 hours but the chip holds 12 hour time
	bus.Regs[RegHours] = 0x40 | 0x11
	err := d.SetAlarm(AlarmSetting{
		Time: TimeOf(14, 0, 0),
		Mask: Alarm2MatchHours,
	})
	c.Assert(err, qt.IsNil)
	c.Assert(bus.Ops, qt.DeepEquals, []fakebus.Op{
		{Reg: RegHours, Data: []byte{0x51}},
		{Write: true, Reg: RegAlarm2Minutes, Data: []byte{0x00}},
		{Write: true, Reg: RegAlarm2Hours, Data: []byte{0x62}},
		{Write: true, Reg: RegAlarm2DayDate, Data: []byte{0x80}},
	})
}

func TestSetAlarmIgnoredHourOnTwelveHourClock(t *testing.T) {
	c := qt.New(t)
	d, bus := newTestDevice(Mode24Hour)
	// 3 PM in 12 hour mode
	bus.Regs[RegHours] = 0x63
	a := AlarmSetting{Mask: Alarm2EveryMinute}
	c.Assert(d.SetAlarm(a), qt.IsNil)
	c.Assert(bus.Regs[RegAlarm2Minutes:RegControl], qt.DeepEquals, []byte{0x80, 0xC0, 0x80})

	got, err := d.ReadAlarm(Alarm2)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, a)

	a = AlarmSetting{Time: Time{Second: 30}, Mask: Alarm1MatchSeconds}
	c.Assert(d.SetAlarm(a), qt.IsNil)
	c.Assert(bus.Regs[RegAlarm1Seconds:RegAlarm2Minutes], qt.DeepEquals, []byte{0x30, 0x80, 0xC0, 0x80})
}

func TestSetAlarmDoesNotTouchOtherAlarm(t *testing.T) {
	c := qt.New(t)
	d, bus := newTestDevice(Mode24Hour)
	err := d.SetAlarm(AlarmSetting{Time: TimeOf(1, 2, 3), Mask: Alarm1EverySecond})
	c.Assert(err, qt.IsNil)
	for reg := RegAlarm2Minutes; reg <= RegTempLSB; reg++ {
		c.Assert(bus.Regs[reg], qt.Equals, uint8(0), qt.Commentf("reg %#04x", reg))
	}
}

func TestReadAlarm(t *testing.T) {
	c := qt.New(t)
	d, _ := newTestDevice(Mode24Hour)
	a1 := AlarmSetting{Time: TimeOf(22, 10, 5), Day: 28, Mask: Alarm1MatchDate}
	a2 := AlarmSetting{Time: TimeOf(6, 45, 0), Weekday: 2, Mask: Alarm2MatchWeekday}
	c.Assert(d.SetAlarm(a1), qt.IsNil)
	c.Assert(d.SetAlarm(a2), qt.IsNil)

	got, err := d.ReadAlarm(Alarm1)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, a1)

	got, err = d.ReadAlarm(Alarm2)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, a2)

	_, err = d.ReadAlarm(NoAlarms)
	c.Assert(err, qt.Equals, ErrInvalidAlarm)
}
