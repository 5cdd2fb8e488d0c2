// Package fakebus provides an in-memory DS3231 register file behind the tinygo drivers I2C interface.
package fakebus

import (
	"errors"
	"fmt"

	"tinygo.org/x/drivers"
)

// NumRegisters is the size of the DS3231 register file.
const NumRegisters = 0x13

var ErrNack = errors.New("fakebus: no acknowledge")

// Op is one register access seen by the bus.
type Op struct {
	Write bool
	Reg   uint8
	Data  []byte
}

func (o Op) String() string {
	if o.Write {
		return fmt.Sprintf("W %02x % x", o.Reg, o.Data)
	}
	return fmt.Sprintf("R %02x % x", o.Reg, o.Data)
}

// Bus answers a single device address. Multi-byte accesses auto-increment the register pointer and wrap at the end
// of the register file, as the chip does.
type Bus struct {
	Addr uint8
	Regs [NumRegisters]byte
	Ops  []Op
	// Err, when set, is returned by every access instead of touching the registers.
	Err error

	ptr uint8
}

var _ drivers.I2C = (*Bus)(nil)

func New(addr uint8) *Bus {
	return &Bus{Addr: addr}
}

// Tx treats the first written byte as the register pointer, like the chip. A write of only the pointer followed by
// a read is logged as a read of that register.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	if err := b.check(addr); err != nil {
		return err
	}
	if len(w) > 0 {
		if len(w) > 1 || len(r) == 0 {
			b.ptr = w[0]
			b.write(w[1:])
			b.Ops = append(b.Ops, Op{Write: true, Reg: w[0], Data: append([]byte(nil), w[1:]...)})
		} else {
			b.ptr = w[0]
		}
	}
	if len(r) > 0 {
		reg := b.ptr
		b.read(r)
		b.Ops = append(b.Ops, Op{Reg: reg, Data: append([]byte(nil), r...)})
	}
	return nil
}

// Writes returns the recorded write operations in order.
func (b *Bus) Writes() []Op {
	var ops []Op
	for _, op := range b.Ops {
		if op.Write {
			ops = append(ops, op)
		}
	}
	return ops
}

// Reset forgets the recorded operations.
func (b *Bus) Reset() {
	b.Ops = nil
}

func (b *Bus) check(addr uint16) error {
	if b.Err != nil {
		return b.Err
	}
	if addr != uint16(b.Addr) {
		return ErrNack
	}
	return nil
}

func (b *Bus) read(buf []byte) {
	b.wrap()
	for i := range buf {
		buf[i] = b.Regs[b.ptr]
		b.next()
	}
}

func (b *Bus) write(buf []byte) {
	b.wrap()
	for _, v := range buf {
		b.Regs[b.ptr] = v
		b.next()
	}
}

func (b *Bus) next() {
	b.ptr++
	b.wrap()
}

func (b *Bus) wrap() {
	if b.ptr >= NumRegisters {
		b.ptr = 0
	}
}
