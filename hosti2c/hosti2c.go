// Package hosti2c lets drivers written against the tinygo I2C interface run on a Linux host such as a Raspberry Pi.
package hosti2c

import (
	"sync"

	"golang.org/x/exp/io/i2c"
	"golang.org/x/exp/io/i2c/driver"
	"tinygo.org/x/drivers"
)

// Bus implements drivers.I2C. A device is opened the first time its address is used and stays open until Close.
type Bus struct {
	o driver.Opener

	mu   sync.Mutex
	devs map[uint16]*i2c.Device
}

var _ drivers.I2C = (*Bus)(nil)

// Open returns a bus using o, typically &i2c.Devfs{Dev: "/dev/i2c-1"}.
func Open(o driver.Opener) *Bus {
	return &Bus{
		o:    o,
		devs: make(map[uint16]*i2c.Device),
	}
}

// Tx writes w and then reads into r. A single byte write followed by a read is sent as one register read.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	d, err := b.device(addr)
	if err != nil {
		return err
	}
	if len(w) == 1 && len(r) > 0 {
		return d.ReadReg(w[0], r)
	}
	if len(w) > 0 {
		if err := d.Write(w); err != nil {
			return err
		}
	}
	if len(r) > 0 {
		return d.Read(r)
	}
	return nil
}

// Close closes every device opened so far. The bus can be used again afterwards.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	var first error
	for addr, d := range b.devs {
		if err := d.Close(); err != nil && first == nil {
			first = err
		}
		delete(b.devs, addr)
	}
	return first
}

func (b *Bus) device(addr uint16) (*i2c.Device, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if d, ok := b.devs[addr]; ok {
		return d, nil
	}
	d, err := i2c.Open(b.o, int(addr))
	if err != nil {
		return nil, err
	}
	b.devs[addr] = d
	return d, nil
}
