// Package console implements a small line-oriented command interpreter for a DS3231, meant to be wired to a serial
// port. Lines are split into words with shell quoting rules.
//
// Type "help" for the list of commands.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/shlex"

	"github.com/ajanata/tinygo-rtc/ds3231"
)

var errUnknownCommand = errors.New("unknown command (try help)")

type usageError string

func (u usageError) Error() string {
	return "usage: " + string(u)
}

type command struct {
	usage string
	help  string
	run   func(c *Console, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"help":    {"help", "show this help", (*Console).help},
		"time":    {"time [hh:mm:ss [am|pm]]", "show or set the time", (*Console).clock},
		"date":    {"date [yyyy-mm-dd [weekday]]", "show or set the date, weekday 1=Sunday", (*Console).date},
		"mode":    {"mode [12|24]", "show or change the hour format", (*Console).mode},
		"alarm":   {"alarm 1|2 [hh:mm:ss [am|pm] rate [day]]", "show or set an alarm", (*Console).alarm},
		"on":      {"on 1|2|3", "enable alarm interrupts", (*Console).on},
		"off":     {"off 1|2|3", "disable alarm interrupts", (*Console).off},
		"status":  {"status", "show enabled alarms", (*Console).status},
		"service": {"service", "clear and show fired alarms", (*Console).service},
		"toggle":  {"toggle", "step through none, 1, 2, both", (*Console).toggle},
		"init":    {"init", "reset time to 12:00:00 and disable alarms", (*Console).reset},
		"temp":    {"temp", "show the temperature", (*Console).temp},
		"reg":     {"reg addr [value]", "read or write a raw register", (*Console).reg},
	}
}

type Console struct {
	dev *ds3231.Device
	out io.Writer
	// Prompt is printed before each line is read by Run.
	Prompt string
}

func New(dev *ds3231.Device, out io.Writer) *Console {
	return &Console{
		dev:    dev,
		out:    out,
		Prompt: "> ",
	}
}

// Run executes every line read from in until it is exhausted. Command errors are printed and do not stop the loop.
func (c *Console) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(c.out, c.Prompt)
		if !scanner.Scan() {
			return scanner.Err()
		}
		if err := c.Exec(scanner.Text()); err != nil {
			fmt.Fprintf(c.out, "error: %v\n", err)
		}
	}
}

// Exec runs a single command line. Blank lines do nothing.
func (c *Console) Exec(line string) error {
	words, err := shlex.Split(line)
	if err != nil {
		return err
	}
	if len(words) == 0 {
		return nil
	}
	cmd, ok := commands[strings.ToLower(words[0])]
	if !ok {
		return errUnknownCommand
	}
	return cmd.run(c, words[1:])
}

func (c *Console) help(args []string) error {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cmd := commands[name]
		fmt.Fprintf(c.out, "  %-40s %s\n", cmd.usage, cmd.help)
	}
	return nil
}

func (c *Console) clock(args []string) error {
	switch len(args) {
	case 0:
		t, err := c.dev.ReadTime()
		if err != nil {
			return err
		}
		h, err := c.dev.ReadRegister(ds3231.RegHours)
		if err != nil {
			return err
		}
		// 12/!24 bit
		fmt.Fprintln(c.out, formatTime(t, h&0x40 != 0))
		return nil
	case 1, 2:
		t, err := parseTime(args)
		if err != nil {
			return err
		}
		return c.dev.SetTime(t)
	}
	return usageError(commands["time"].usage)
}

func (c *Console) date(args []string) error {
	if len(args) == 0 {
		d, err := c.dev.ReadDate()
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "%s weekday %d\n", d, d.Weekday)
		return nil
	}
	if len(args) > 2 {
		return usageError(commands["date"].usage)
	}

	t, err := time.Parse("2006-01-02", args[0])
	if err != nil {
		return err
	}
	d := ds3231.Date{
		Year:    uint16(t.Year()),
		Month:   uint8(t.Month()),
		Day:     uint8(t.Day()),
		Weekday: uint8(t.Weekday()) + 1,
	}
	if len(args) == 2 {
		wd, err := parseUint8(args[1], 1, 7)
		if err != nil {
			return err
		}
		d.Weekday = wd
	}
	return c.dev.SetDate(d)
}

// mode changes the hour format and rewrites the current time so the chip switches format too.
func (c *Console) mode(args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(c.out, c.dev.HourMode())
		return nil
	}
	var m ds3231.HourMode
	switch {
	case len(args) == 1 && args[0] == "12":
		m = ds3231.Mode12Hour
	case len(args) == 1 && args[0] == "24":
		m = ds3231.Mode24Hour
	default:
		return usageError(commands["mode"].usage)
	}

	t, err := c.dev.ReadTime()
	if err != nil {
		return err
	}
	c.dev.SetHourMode(m)
	return c.dev.SetTime(t)
}

var alarmRates = map[ds3231.Alarms]map[string]ds3231.AlarmMask{
	ds3231.Alarm1: {
		"second":  ds3231.Alarm1EverySecond,
		"seconds": ds3231.Alarm1MatchSeconds,
		"minutes": ds3231.Alarm1MatchMinutes,
		"hours":   ds3231.Alarm1MatchHours,
		"date":    ds3231.Alarm1MatchDate,
		"weekday": ds3231.Alarm1MatchWeekday,
	},
	ds3231.Alarm2: {
		"minute":  ds3231.Alarm2EveryMinute,
		"minutes": ds3231.Alarm2MatchMinutes,
		"hours":   ds3231.Alarm2MatchHours,
		"date":    ds3231.Alarm2MatchDate,
		"weekday": ds3231.Alarm2MatchWeekday,
	},
}

func (c *Console) alarm(args []string) error {
	if len(args) == 0 {
		return usageError(commands["alarm"].usage)
	}
	which, err := parseAlarms(args[0])
	if err != nil || which == ds3231.BothAlarms {
		return usageError(commands["alarm"].usage)
	}
	args = args[1:]

	if len(args) == 0 {
		a, err := c.dev.ReadAlarm(which)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, formatAlarm(a))
		return nil
	}

	// the am/pm word is optional, so find the rate after the time
	n := 1
	if len(args) > 1 && isMeridiem(args[1]) {
		n = 2
	}
	if len(args) < n+1 {
		return usageError(commands["alarm"].usage)
	}
	t, err := parseTime(args[:n])
	if err != nil {
		return err
	}
	rate := strings.ToLower(args[n])
	mask, ok := alarmRates[which][rate]
	if !ok {
		return fmt.Errorf("unknown rate %q for alarm %d", args[n], which)
	}
	a := ds3231.AlarmSetting{Time: t, Mask: mask}

	rest := args[n+1:]
	dayRate := rate == "date" || rate == "weekday"
	switch {
	case dayRate && len(rest) == 1:
		max := uint8(31)
		if rate == "weekday" {
			max = 7
		}
		day, err := parseUint8(rest[0], 1, max)
		if err != nil {
			return err
		}
		a.Day, a.Weekday = day, day
	case len(rest) != 0 || dayRate:
		return usageError(commands["alarm"].usage)
	}
	return c.dev.SetAlarm(a)
}

func (c *Console) on(args []string) error {
	if len(args) != 1 {
		return usageError(commands["on"].usage)
	}
	a, err := parseAlarms(args[0])
	if err != nil {
		return err
	}
	return c.dev.TurnAlarmOn(a)
}

func (c *Console) off(args []string) error {
	if len(args) != 1 {
		return usageError(commands["off"].usage)
	}
	a, err := parseAlarms(args[0])
	if err != nil {
		return err
	}
	return c.dev.TurnAlarmOff(a)
}

func (c *Console) status(args []string) error {
	a, err := c.dev.AlarmStatus()
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "enabled: %s\n", formatAlarms(a))
	return nil
}

func (c *Console) service(args []string) error {
	a, err := c.dev.ServiceAlarms()
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "fired: %s\n", formatAlarms(a))
	return nil
}

func (c *Console) toggle(args []string) error {
	a, err := c.dev.ToggleAlarms()
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "enabled: %s\n", formatAlarms(a))
	return nil
}

func (c *Console) reset(args []string) error {
	return c.dev.Initialize()
}

func (c *Console) temp(args []string) error {
	mc, err := c.dev.ReadTemperature()
	if err != nil {
		return err
	}
	sign := ""
	if mc < 0 {
		sign = "-"
		mc = -mc
	}
	fmt.Fprintf(c.out, "%s%d.%02d C\n", sign, mc/1000, mc%1000/10)
	return nil
}

func (c *Console) reg(args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return usageError(commands["reg"].usage)
	}
	addr, err := parseRegValue(args[0], ds3231.RegTempLSB)
	if err != nil {
		return err
	}
	if len(args) == 2 {
		v, err := parseRegValue(args[1], 0xFF)
		if err != nil {
			return err
		}
		return c.dev.WriteRegister(addr, v)
	}
	v, err := c.dev.ReadRegister(addr)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%#04x: %#04x %08b\n", addr, v, v)
	return nil
}

func parseTime(args []string) (ds3231.Time, error) {
	parts := strings.Split(args[0], ":")
	if len(parts) != 3 {
		return ds3231.Time{}, fmt.Errorf("bad time %q, want hh:mm:ss", args[0])
	}
	var v [3]uint8
	for i, max := range [3]uint8{23, 59, 59} {
		n, err := parseUint8(parts[i], 0, max)
		if err != nil {
			return ds3231.Time{}, err
		}
		v[i] = n
	}
	if len(args) == 1 {
		return ds3231.TimeOf(int(v[0]), int(v[1]), int(v[2])), nil
	}
	if !isMeridiem(args[1]) {
		return ds3231.Time{}, fmt.Errorf("want am or pm, got %q", args[1])
	}
	if v[0] < 1 || v[0] > 12 {
		return ds3231.Time{}, ds3231.ErrInvalidHour
	}
	return ds3231.TimeOf12(int(v[0]), int(v[1]), int(v[2]), strings.EqualFold(args[1], "pm")), nil
}

func isMeridiem(s string) bool {
	return strings.EqualFold(s, "am") || strings.EqualFold(s, "pm")
}

func parseAlarms(s string) (ds3231.Alarms, error) {
	n, err := parseUint8(s, 1, 3)
	return ds3231.Alarms(n), err
}

// parseUint8 parses a decimal number, so leading zeros as in "08" are allowed.
func parseUint8(s string, min, max uint8) (uint8, error) {
	return parseUint8Base(s, 10, min, max)
}

// parseRegValue also accepts 0x and 0b prefixes.
func parseRegValue(s string, max uint8) (uint8, error) {
	return parseUint8Base(s, 0, 0, max)
}

func parseUint8Base(s string, base int, min, max uint8) (uint8, error) {
	n, err := strconv.ParseUint(s, base, 8)
	if err != nil || uint8(n) < min || uint8(n) > max {
		return 0, fmt.Errorf("%q is not a number from %d to %d", s, min, max)
	}
	return uint8(n), nil
}

func formatTime(t ds3231.Time, twelveHour bool) string {
	if !twelveHour {
		return t.String()
	}
	ampm := "AM"
	if t.PM {
		ampm = "PM"
	}
	return fmt.Sprintf("%02d:%02d:%02d %s", t.Hour12, t.Minute, t.Second, ampm)
}

func formatAlarms(a ds3231.Alarms) string {
	switch a {
	case ds3231.Alarm1:
		return "1"
	case ds3231.Alarm2:
		return "2"
	case ds3231.BothAlarms:
		return "1 2"
	}
	return "none"
}

func formatAlarm(a ds3231.AlarmSetting) string {
	which := a.Mask.Alarm()
	rate := "?"
	for name, m := range alarmRates[which] {
		if m == a.Mask {
			rate = name
			break
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "alarm %d %s %s", which, a.Time, rate)
	switch rate {
	case "date":
		fmt.Fprintf(&b, " %d", a.Day)
	case "weekday":
		fmt.Fprintf(&b, " %d", a.Weekday)
	}
	fmt.Fprintf(&b, " (mask %#04x)", uint8(a.Mask))
	return b.String()
}
