package ds3231

// TurnAlarmOn enables the interrupt for the given alarms. A flag that is already set for one of them is cleared first,
// otherwise the interrupt would fire straight away.
func (d *Device) TurnAlarmOn(alarms Alarms) error {
	alarms &= BothAlarms
	_, err := d.update(RegStatus, func(s uint8) uint8 {
		return s &^ uint8(alarms)
	})
	if err != nil {
		return err
	}
	_, err = d.update(RegControl, func(c uint8) uint8 {
		return c | uint8(alarms)
	})
	return err
}

// TurnAlarmOff disables the interrupt for the given alarms. Their flags and settings are left alone.
func (d *Device) TurnAlarmOff(alarms Alarms) error {
	alarms &= BothAlarms
	_, err := d.update(RegControl, func(c uint8) uint8 {
		return c &^ uint8(alarms)
	})
	return err
}

// AlarmStatus reports which alarm interrupts are enabled.
func (d *Device) AlarmStatus() (Alarms, error) {
	c, err := d.ReadRegister(RegControl)
	return Alarms(c) & BothAlarms, err
}

// ServiceAlarms clears both alarm flags, releasing the interrupt pin, and returns the alarms that had fired.
//
// This takes two I2C transactions and must not be called from an interrupt handler. Have the handler record the
// interrupt and call ServiceAlarms from the main loop.
func (d *Device) ServiceAlarms() (Alarms, error) {
	s, err := d.update(RegStatus, func(s uint8) uint8 {
		return s &^ (statusA1F | statusA2F)
	})
	return Alarms(s) & BothAlarms, err
}

// ToggleAlarms steps the enabled alarms through none, alarm 1, alarm 2, both, and back to none. The current step is
// whatever the chip's enable bits hold. It returns the new state.
func (d *Device) ToggleAlarms() (Alarms, error) {
	c, err := d.ReadRegister(RegControl)
	if err != nil {
		return 0, err
	}
	next := (Alarms(c) + 1) & BothAlarms
	err = d.WriteRegister(RegControl, c&^uint8(BothAlarms)|uint8(next))
	return next, err
}

// Initialize puts the clock into a known state after power-up:
//   - the time is set to 12:00:00 (the hours register is written as BCD 12, which is noon in 24-hour mode)
//   - both alarm interrupts are disabled
//   - the SQW/!INT pin is switched to interrupt output, which needs a pull-up
//
// Alarms stay disabled; call TurnAlarmOn once they are set. The date and the alarm flags are not touched.
func (d *Device) Initialize() error {
	err := d.WriteBCDRegister(RegHours, 12)
	if err != nil {
		return err
	}
	err = d.WriteBCDRegister(RegMinutes, 0)
	if err != nil {
		return err
	}
	err = d.WriteBCDRegister(RegSeconds, 0)
	if err != nil {
		return err
	}

	_, err = d.update(RegControl, func(c uint8) uint8 {
		return c&^(controlA1IE|controlA2IE) | controlINTCN
	})
	return err
}
