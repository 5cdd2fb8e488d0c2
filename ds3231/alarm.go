package ds3231

// Alarms is a set of the chip's two alarms.
type Alarms uint8

const (
	Alarm1 Alarms = 1 << iota
	Alarm2

	NoAlarms   Alarms = 0
	BothAlarms        = Alarm1 | Alarm2
)

func (a Alarms) Has(alarm Alarms) bool {
	return a&alarm != 0
}

// AlarmMask selects an alarm and how it matches. A set AxMy bit makes that field a wildcard; see table 2 of the
// datasheet.
//
//	bit:      7  6  5  4      3      2     1     0
//	alarm 1:  0  0  0  DY/DT  A1M4   A1M3  A1M2  A1M1
//	alarm 2:  1  0  0  0      DY/DT  A2M4  A2M3  A2M2
type AlarmMask uint8

const (
	A1M1        AlarmMask = 0x01 // ignore seconds
	A1M2        AlarmMask = 0x02 // ignore minutes
	A1M3        AlarmMask = 0x04 // ignore hours
	A1M4        AlarmMask = 0x08 // ignore day/date
	A1DayOfWeek AlarmMask = 0x10 // match weekday instead of date

	A2M2        AlarmMask = 0x01 // ignore minutes
	A2M3        AlarmMask = 0x02 // ignore hours
	A2M4        AlarmMask = 0x04 // ignore day/date
	A2DayOfWeek AlarmMask = 0x08 // match weekday instead of date

	Alarm2Select AlarmMask = 0x80
)

// Alarm rates from the datasheet.
const (
	Alarm1EverySecond  = A1M4 | A1M3 | A1M2 | A1M1
	Alarm1MatchSeconds = A1M4 | A1M3 | A1M2
	Alarm1MatchMinutes = A1M4 | A1M3
	Alarm1MatchHours   = A1M4
	Alarm1MatchDate    = AlarmMask(0)
	Alarm1MatchWeekday = A1DayOfWeek
	Alarm2EveryMinute  = Alarm2Select | A2M4 | A2M3 | A2M2
	Alarm2MatchMinutes = Alarm2Select | A2M4 | A2M3
	Alarm2MatchHours   = Alarm2Select | A2M4
	Alarm2MatchDate    = Alarm2Select
	Alarm2MatchWeekday = Alarm2Select | A2DayOfWeek
)

// Alarm reports which alarm the mask configures.
func (m AlarmMask) Alarm() Alarms {
	if m&Alarm2Select != 0 {
		return Alarm2
	}
	return Alarm1
}

// AlarmSetting is the complete configuration of one alarm. Day is only used when matching the date and Weekday only
// when matching the day of the week. The seconds are ignored by alarm 2, which has no seconds register.
type AlarmSetting struct {
	Time    Time
	Day     uint8
	Weekday uint8
	Mask    AlarmMask
}

// EncodeAlarm returns the alarm registers for a, starting at register first. hours is the current content of the
// clock's Hours register: alarms only match when their hour is kept in the same 12/24-hour mode as the clock.
//
// When the mask ignores the hour, only the mode bit is stored and a.Time's hour is not checked.
func EncodeAlarm(a AlarmSetting, hours uint8) (first uint8, data []byte, err error) {
	m := a.Mask
	// alarm 2 has no seconds, so its bits sit one position lower
	shift := uint8(0)
	first = RegAlarm1Seconds
	if m&Alarm2Select != 0 {
		shift = 1
		first = RegAlarm2Minutes
	}

	h := alarmMatch | hours&hourMode12
	if m&(A1M3>>shift) == 0 {
		mode := Mode24Hour
		if hours&hourMode12 != 0 {
			mode = Mode12Hour
		}
		h, err = EncodeHours(a.Time, mode)
		if err != nil {
			return 0, nil, err
		}
	}

	data = make([]byte, 0, 4)
	if shift == 0 {
		data = append(data, matchBit(m, A1M1)|toBCD(a.Time.Second))
	}
	data = append(data,
		matchBit(m, A1M2>>shift)|toBCD(a.Time.Minute),
		h,
	)

	switch {
	case m&(A1M4>>shift) != 0:
		// every day: the rest of the register is ignored
		data = append(data, alarmMatch)
	case m&(A1DayOfWeek>>shift) != 0:
		data = append(data, toBCD(a.Weekday)|dayOfWeek)
	default:
		data = append(data, toBCD(a.Day)&^dayOfWeek)
	}
	return first, data, nil
}

func matchBit(m, bit AlarmMask) uint8 {
	if m&bit != 0 {
		return alarmMatch
	}
	return 0
}

// DecodeAlarm decodes the registers of one alarm, as returned by EncodeAlarm.
func DecodeAlarm(alarm Alarms, data []byte) (AlarmSetting, error) {
	var a AlarmSetting
	switch {
	case alarm == Alarm1 && len(data) == 4:
		a.Time.Second = fromBCD(data[0] &^ alarmMatch)
		if data[0]&alarmMatch != 0 {
			a.Mask |= A1M1
		}
		data = data[1:]
	case alarm == Alarm2 && len(data) == 3:
		a.Mask = Alarm2Select
	default:
		return AlarmSetting{}, ErrInvalidAlarm
	}

	shift := uint8(0)
	if alarm == Alarm2 {
		shift = 1
	}

	minute, hour, dd := data[0], data[1], data[2]
	if minute&alarmMatch != 0 {
		a.Mask |= A1M2 >> shift
	}
	if hour&alarmMatch != 0 {
		a.Mask |= A1M3 >> shift
	}

	tm := DecodeHours(hour &^ alarmMatch)
	tm.Minute = fromBCD(minute &^ alarmMatch)
	tm.Second = a.Time.Second
	a.Time = tm

	switch {
	case dd&alarmMatch != 0:
		a.Mask |= A1M4 >> shift
	case dd&dayOfWeek != 0:
		a.Mask |= A1DayOfWeek >> shift
		a.Weekday = fromBCD(dd & 0x0F)
	default:
		a.Day = fromBCD(dd & 0x3F)
	}
	return a, nil
}

// SetAlarm configures the alarm selected by a.Mask. The clock's Hours register is read first so the alarm hour is
// stored in the clock's current hour mode. This does not enable the alarm; see TurnAlarmOn.
func (d *Device) SetAlarm(a AlarmSetting) error {
	hours, err := d.ReadRegister(RegHours)
	if err != nil {
		return err
	}
	first, data, err := EncodeAlarm(a, hours)
	if err != nil {
		return err
	}
	for i, v := range data {
		err = d.WriteRegister(first+uint8(i), v)
		if err != nil {
			return err
		}
	}
	return nil
}

// ReadAlarm reads back the configuration of a single alarm.
func (d *Device) ReadAlarm(alarm Alarms) (AlarmSetting, error) {
	var buf []byte
	switch alarm {
	case Alarm1:
		buf = make([]byte, 4)
		err := d.readRegs(RegAlarm1Seconds, buf)
		if err != nil {
			return AlarmSetting{}, err
		}
	case Alarm2:
		buf = make([]byte, 3)
		err := d.readRegs(RegAlarm2Minutes, buf)
		if err != nil {
			return AlarmSetting{}, err
		}
	default:
		return AlarmSetting{}, ErrInvalidAlarm
	}
	return DecodeAlarm(alarm, buf)
}
