// Package ds3231 implements a driver for the DS3231 Real-Time Clock (RTC): time, date, both alarms and the alarm
// interrupt flags, plus the temperature and aging offset registers.
//
// Every call goes straight to the chip's registers. Nothing is cached, including the alarm enables and flags.
//
// The driver does no locking. The caller must own the I2C bus for the duration of each call.
//
// Datasheet: https://datasheets.maximintegrated.com/en/ds/DS3231.pdf
package ds3231

import (
	"errors"
	"time"

	"tinygo.org/x/drivers"
)

var (
	ErrInvalidHour    = errors.New("ds3231: hour out of range")
	ErrYearOutOfRange = errors.New("ds3231: year out of range")
	ErrInvalidAlarm   = errors.New("ds3231: invalid alarm")
)

type Device struct {
	bus      drivers.I2C
	addr     uint8
	hourMode HourMode
}

type Config struct {
	Address uint8
	// HourMode selects how SetTime and Set store the hour. It does not change what the chip currently holds.
	HourMode HourMode
}

// New creates a new driver on the specified preconfigured I2C bus. The DS3231 supports up to 400 kHz.
func New(bus drivers.I2C) *Device {
	return &Device{
		bus:  bus,
		addr: Address,
	}
}

func (d *Device) Configure(c Config) {
	if c.Address == 0 {
		c.Address = Address
	}

	d.addr = c.Address
	d.hourMode = c.HourMode
}

// HourMode reports the hour format used when writing the time.
func (d *Device) HourMode() HourMode {
	return d.hourMode
}

// SetHourMode changes the hour format used by later calls to SetTime and Set.
func (d *Device) SetHourMode(m HourMode) {
	d.hourMode = m
}

// ReadRegister reads a single register.
func (d *Device) ReadRegister(reg uint8) (uint8, error) {
	buf := [1]byte{}
	err := d.readRegs(reg, buf[:])
	return buf[0], err
}

// WriteRegister writes a single register.
func (d *Device) WriteRegister(reg, val uint8) error {
	return d.writeRegs(reg, []byte{val})
}

// readRegs reads len(buf) registers starting at reg. The chip auto-increments the register pointer.
func (d *Device) readRegs(reg uint8, buf []byte) error {
	return d.bus.Tx(uint16(d.addr), []byte{reg}, buf)
}

func (d *Device) writeRegs(reg uint8, buf []byte) error {
	return d.bus.Tx(uint16(d.addr), append([]byte{reg}, buf...), nil)
}

// ReadBCDRegister reads a single register and decodes it from BCD. Only meaningful for Seconds through Year.
func (d *Device) ReadBCDRegister(reg uint8) (uint8, error) {
	val, err := d.ReadRegister(reg)
	if err != nil {
		return 0, err
	}
	return fromBCD(val), nil
}

// WriteBCDRegister encodes a value 0-99 as BCD and writes it to a single register.
func (d *Device) WriteBCDRegister(reg, val uint8) error {
	return d.WriteRegister(reg, toBCD(val))
}

// update does a read-modify-write of a single register and returns the value read.
func (d *Device) update(reg uint8, fn func(uint8) uint8) (uint8, error) {
	old, err := d.ReadRegister(reg)
	if err != nil {
		return 0, err
	}
	return old, d.WriteRegister(reg, fn(old))
}

// Set writes t, converted to UTC, to the clock in the configured hour mode and clears the oscillator stop flag.
func (d *Device) Set(t time.Time) error {
	t = t.UTC()
	err := d.SetDate(Date{
		Year:    uint16(t.Year()),
		Month:   uint8(t.Month()),
		Day:     uint8(t.Day()),
		Weekday: uint8(t.Weekday()) + 1,
	})
	if err != nil {
		return err
	}

	err = d.SetTime(TimeOf(t.Hour(), t.Minute(), t.Second()))
	if err != nil {
		return err
	}

	_, err = d.update(RegStatus, func(s uint8) uint8 {
		// don't touch the alarm flags
		return s &^ statusOSF
	})
	return err
}

// Now reads the clock and returns it as a UTC time.
//
// Date and time are read with separate transactions, so a read that straddles midnight can be off by a day.
func (d *Device) Now() (time.Time, error) {
	date, err := d.ReadDate()
	if err != nil {
		return time.Time{}, err
	}
	tm, err := d.ReadTime()
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(int(date.Year), time.Month(date.Month), int(date.Day),
		int(tm.Hour24), int(tm.Minute), int(tm.Second), 0, time.UTC), nil
}

// LostPower reports whether the oscillator stopped at some point since the time was last set, which means the time
// can't be trusted.
func (d *Device) LostPower() (bool, error) {
	s, err := d.ReadRegister(RegStatus)
	if err != nil {
		return false, err
	}
	return s&statusOSF != 0, nil
}

// Running reports whether the oscillator is enabled on battery power.
func (d *Device) Running() (bool, error) {
	c, err := d.ReadRegister(RegControl)
	if err != nil {
		return false, err
	}
	return c&controlEOSC == 0, nil
}

// ReadTemperature returns the temperature in millidegrees Celsius. The chip updates it every 64 seconds.
func (d *Device) ReadTemperature() (int32, error) {
	buf := [2]byte{}
	err := d.readRegs(RegTempMSB, buf[:])
	if err != nil {
		return 0, err
	}
	// 10-bit two's complement, 0.25 degree resolution
	raw := int32(int16(uint16(buf[0])<<8|uint16(buf[1])) >> 6)
	return raw * 250, nil
}

// AgingOffset returns the crystal aging trim. One step is roughly 0.1 ppm, positive values slow the clock.
func (d *Device) AgingOffset() (int8, error) {
	v, err := d.ReadRegister(RegAgingOffset)
	return int8(v), err
}

func (d *Device) SetAgingOffset(offset int8) error {
	return d.WriteRegister(RegAgingOffset, uint8(offset))
}

// SquareWaveRate selects the frequency of the SQW/!INT pin when it is not used for alarm interrupts.
type SquareWaveRate uint8

const (
	SquareWave1Hz SquareWaveRate = iota
	SquareWave1024Hz
	SquareWave4096Hz
	SquareWave8192Hz
)

// SetSquareWave switches the SQW/!INT pin to a square wave output. Alarms will no longer drive the pin until
// Initialize is called again, although their flags are still set.
func (d *Device) SetSquareWave(rate SquareWaveRate) error {
	_, err := d.update(RegControl, func(c uint8) uint8 {
		c &^= controlINTCN | controlRS1 | controlRS2
		if rate&0b01 != 0 {
			c |= controlRS1
		}
		if rate&0b10 != 0 {
			c |= controlRS2
		}
		return c
	})
	return err
}
