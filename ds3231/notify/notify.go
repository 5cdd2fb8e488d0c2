// Package notify publishes DS3231 alarm events to an MQTT broker.
//
// A Notifier is driven from a normal goroutine after the alarm interrupt has fired: it services the chip's alarm
// flags and publishes one message for each alarm that went off.
package notify

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/ajanata/tinygo-rtc/ds3231"
)

// ErrTimeout is returned when the broker does not acknowledge a publish in time.
var ErrTimeout = errors.New("timed out waiting for broker")

// Publisher is the part of mqtt.Client used by a Notifier.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

type Config struct {
	// Topic is the prefix of the published topics, "ds3231" if empty.
	Topic string
	QoS   byte
	// Timeout bounds the wait for each publish, 5 seconds if zero.
	Timeout time.Duration
}

type Notifier struct {
	dev     *ds3231.Device
	pub     Publisher
	topic   string
	qos     byte
	timeout time.Duration
}

// Event is the message published for a fired alarm.
type Event struct {
	Alarm   int    `json:"alarm"`
	Date    string `json:"date"`
	Time    string `json:"time"`
	Weekday uint8  `json:"weekday"`
}

func New(dev *ds3231.Device, pub Publisher, cfg Config) *Notifier {
	n := &Notifier{
		dev:     dev,
		pub:     pub,
		topic:   cfg.Topic,
		qos:     cfg.QoS,
		timeout: cfg.Timeout,
	}
	if n.topic == "" {
		n.topic = "ds3231"
	}
	if n.timeout == 0 {
		n.timeout = 5 * time.Second
	}
	return n
}

// Topic returns the topic messages for alarm are published to.
func (n *Notifier) Topic(alarm ds3231.Alarms) string {
	return fmt.Sprintf("%s/alarm%d", n.topic, alarm)
}

// Service clears the alarm flags on the chip and publishes an Event for each alarm that had fired. It returns the
// fired alarms, even when publishing fails.
func (n *Notifier) Service() (ds3231.Alarms, error) {
	fired, err := n.dev.ServiceAlarms()
	if err != nil {
		return ds3231.NoAlarms, fmt.Errorf("cannot service alarms: %w", err)
	}
	if fired == ds3231.NoAlarms {
		return fired, nil
	}

	d, err := n.dev.ReadDate()
	if err != nil {
		return fired, fmt.Errorf("cannot read date: %w", err)
	}
	t, err := n.dev.ReadTime()
	if err != nil {
		return fired, fmt.Errorf("cannot read time: %w", err)
	}

	for _, a := range []ds3231.Alarms{ds3231.Alarm1, ds3231.Alarm2} {
		if !fired.Has(a) {
			continue
		}
		ev := Event{
			Alarm:   int(a),
			Date:    d.String(),
			Time:    t.String(),
			Weekday: d.Weekday,
		}
		if err := n.publish(n.Topic(a), ev); err != nil {
			return fired, err
		}
	}
	return fired, nil
}

func (n *Notifier) publish(topic string, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	token := n.pub.Publish(topic, n.qos, false, payload)
	if !token.WaitTimeout(n.timeout) {
		return fmt.Errorf("publish %s: %w", topic, ErrTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}
