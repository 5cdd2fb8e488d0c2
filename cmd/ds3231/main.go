// The ds3231 command reads and sets a DS3231 real time clock attached to a Linux I2C bus.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"golang.org/x/exp/io/i2c"

	"github.com/ajanata/tinygo-rtc/ds3231"
	"github.com/ajanata/tinygo-rtc/ds3231/notify"
	"github.com/ajanata/tinygo-rtc/hosti2c"
)

var (
	devFlag    = flag.String("dev", "/dev/i2c-1", "I2C bus device")
	setSys     = flag.Bool("sys", false, "use RTC time to set system clock")
	twelveHour = flag.Bool("12h", false, "keep the clock in 12-hour mode when setting it")
	initFlag   = flag.Bool("init", false, "reset the time to 12:00:00 and disable alarms")
	infoFlag   = flag.Bool("info", false, "print alarms, temperature and oscillator state")
	watch      = flag.Bool("watch", false, "poll for fired alarms and publish them over MQTT")
	broker     = flag.String("broker", "tcp://localhost:1883", "MQTT broker used by -watch")
	topic      = flag.String("topic", "ds3231", "MQTT topic prefix used by -watch")
	poll       = flag.Duration("poll", time.Second, "alarm poll interval used by -watch")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: ds3231 [flags] [yyyy-mm-ddThh:mm:ssZ]\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "If the time argument is specified, the RTC time will be set\n")
	}
	flag.Parse()

	bus := hosti2c.Open(&i2c.Devfs{Dev: *devFlag})
	defer bus.Close()
	rtc := ds3231.New(bus)
	mode := ds3231.Mode24Hour
	if *twelveHour {
		mode = ds3231.Mode12Hour
	}
	rtc.Configure(ds3231.Config{HourMode: mode})

	switch {
	case *initFlag:
		if err := rtc.Initialize(); err != nil {
			log.Fatalf("cannot initialize: %v", err)
		}
		return
	case *infoFlag:
		if err := printInfo(rtc); err != nil {
			log.Fatalf("cannot read device: %v", err)
		}
		return
	case *watch:
		if err := watchAlarms(rtc); err != nil {
			log.Fatal(err)
		}
		return
	}

	if flag.NArg() > 0 {
		if err := setTime(rtc, flag.Arg(0)); err != nil {
			log.Fatalf("cannot set time: %v", err)
		}
		if !*setSys {
			return
		}
	}
	t, err := rtc.Now()
	if err != nil {
		log.Fatalf("cannot get now: %v", err)
	}
	if *setSys {
		if err := setSysTime(t); err != nil {
			log.Fatalf("cannot set system time: %v", err)
		}
		return
	}
	fmt.Println(t)
}

func setTime(rtc *ds3231.Device, tstr string) error {
	t, err := time.Parse(time.RFC3339, tstr)
	if err != nil {
		return err
	}
	return rtc.Set(t)
}

func printInfo(rtc *ds3231.Device) error {
	lost, err := rtc.LostPower()
	if err != nil {
		return err
	}
	running, err := rtc.Running()
	if err != nil {
		return err
	}
	temp, err := rtc.ReadTemperature()
	if err != nil {
		return err
	}
	aging, err := rtc.AgingOffset()
	if err != nil {
		return err
	}
	enabled, err := rtc.AlarmStatus()
	if err != nil {
		return err
	}
	fmt.Printf("oscillator running: %v, stopped since last set: %v\n", running, lost)
	fmt.Printf("temperature: %.2fC, aging offset: %d\n", float64(temp)/1000, aging)
	for _, a := range []ds3231.Alarms{ds3231.Alarm1, ds3231.Alarm2} {
		s, err := rtc.ReadAlarm(a)
		if err != nil {
			return err
		}
		fmt.Printf("alarm %d: %s mask %#04x enabled %v\n", a, s.Time, uint8(s.Mask), enabled.Has(a))
	}
	return nil
}

func watchAlarms(rtc *ds3231.Device) error {
	opts := mqtt.NewClientOptions().
		AddBroker(*broker).
		SetClientID(fmt.Sprintf("ds3231-%d", os.Getpid())).
		SetAutoReconnect(true)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("cannot connect to %s: %v", *broker, token.Error())
	}
	defer client.Disconnect(250)

	n := notify.New(rtc, client, notify.Config{Topic: *topic, QoS: 1})
	log.Printf("watching for alarms, publishing to %s and %s", n.Topic(ds3231.Alarm1), n.Topic(ds3231.Alarm2))
	for range time.Tick(*poll) {
		fired, err := n.Service()
		if err != nil {
			log.Printf("%v", err)
			continue
		}
		if fired != ds3231.NoAlarms {
			log.Printf("alarms fired: %d", fired)
		}
	}
	return nil
}
