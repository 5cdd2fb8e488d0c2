package ds3231

const Address = 0x68 // I2C address for DS3231, hardwired

// Registers
const (
	RegSeconds       = 0x00 // Seconds, BCD 00-59
	RegMinutes       = 0x01 // Minutes, BCD 00-59
	RegHours         = 0x02 // Hours, 12/24 bit, AM/PM bit, BCD hour
	RegDay           = 0x03 // Day of week, 1-7
	RegDate          = 0x04 // Day of month, BCD 01-31
	RegMonthCentury  = 0x05 // Century bit and BCD month 01-12
	RegYear          = 0x06 // BCD year 00-99
	RegAlarm1Seconds = 0x07 // A1M1 and BCD seconds
	RegAlarm1Minutes = 0x08 // A1M2 and BCD minutes
	RegAlarm1Hours   = 0x09 // A1M3, 12/24 bit, AM/PM bit, BCD hour
	RegAlarm1DayDate = 0x0A // A1M4, DY/DT bit, BCD day or date
	RegAlarm2Minutes = 0x0B // A2M2 and BCD minutes
	RegAlarm2Hours   = 0x0C // A2M3, 12/24 bit, AM/PM bit, BCD hour
	RegAlarm2DayDate = 0x0D // A2M4, DY/DT bit, BCD day or date
	RegControl       = 0x0E // Control register
	RegStatus        = 0x0F // Control/status register
	RegAgingOffset   = 0x10 // Aging offset, two's complement
	RegTempMSB       = 0x11 // Temperature, integer part
	RegTempLSB       = 0x12 // Temperature, fraction in bits 7-6
)

// Hours register bits, shared by the alarm hour registers
const (
	hourMode12 = 0x40 // 12/!24
	hourPM     = 0x20 // !AM/PM in 12-hour mode
)

const (
	centuryBit = 0x80 // month register
	alarmMatch = 0x80 // AxMy bit in every alarm register
	dayOfWeek  = 0x40 // DY/!DT bit in the alarm day/date registers
)

// Control register bits
const (
	controlA1IE  = 0x01
	controlA2IE  = 0x02
	controlINTCN = 0x04
	controlRS1   = 0x08
	controlRS2   = 0x10
	controlEOSC  = 0x80
)

// Status register bits
const (
	statusA1F = 0x01
	statusA2F = 0x02
	statusOSF = 0x80
)
