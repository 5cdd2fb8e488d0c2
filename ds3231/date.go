package ds3231

import "fmt"

// Date is a calendar date as stored by the chip. No calendar checks are made: the caller supplies a matching weekday
// and a day that exists in the month.
type Date struct {
	Year    uint16 // 2000-2199
	Month   uint8  // 1=January...12=December
	Day     uint8  // 1-31
	Weekday uint8  // 1=Sunday...7=Saturday
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// EncodeDate returns the values of the Year, MonthCentury, Date and Day registers for d.
func EncodeDate(d Date) (year, monthCentury, day, weekday uint8, err error) {
	if d.Year < 2000 || d.Year >= 2200 {
		return 0, 0, 0, 0, ErrYearOutOfRange
	}
	monthCentury = toBCD(d.Month)
	if d.Year >= 2100 {
		monthCentury |= centuryBit
	}
	return toBCD(uint8(d.Year % 100)), monthCentury, toBCD(d.Day), toBCD(d.Weekday), nil
}

// DecodeDate is the inverse of EncodeDate.
func DecodeDate(year, monthCentury, day, weekday uint8) Date {
	d := Date{
		Year:    2000 + uint16(fromBCD(year)),
		Month:   fromBCD(monthCentury & 0x1F), // bits 5 and 6 are always zero
		Day:     fromBCD(day),
		Weekday: fromBCD(weekday),
	}
	if monthCentury&centuryBit != 0 {
		d.Year += 100
	}
	return d
}

// SetDate writes the year, month and century, date and weekday registers.
func (d *Device) SetDate(date Date) error {
	y, mc, day, wd, err := EncodeDate(date)
	if err != nil {
		return err
	}

	for _, r := range [...]struct{ reg, val uint8 }{
		{RegYear, y},
		{RegMonthCentury, mc},
		{RegDate, day},
		{RegDay, wd},
	} {
		err = d.WriteRegister(r.reg, r.val)
		if err != nil {
			return err
		}
	}
	return nil
}

// ReadDate reads the year, month and century, date and weekday registers.
func (d *Device) ReadDate() (Date, error) {
	var buf [4]uint8
	for i, reg := range [...]uint8{RegYear, RegMonthCentury, RegDate, RegDay} {
		v, err := d.ReadRegister(reg)
		if err != nil {
			return Date{}, err
		}
		buf[i] = v
	}
	return DecodeDate(buf[0], buf[1], buf[2], buf[3]), nil
}
