// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package spi

import (
	"time"

	"github.com/pkg/errors"

	"github.com/db47h/hwbench/bench"
)

// DefaultIdle is the number of clock cycles driven with the chip deselected
// after each transaction, leaving the design time to act on the frame.
//
const DefaultIdle = 600

// A Master bit-bangs frames over the 3 wire bus. Data and clock idle low,
// chip select idles high. Data lines change while the serial clock is low
// and are stable across its rising edge.
//
type Master struct {
	CS   *bench.Signal
	COPI *bench.Signal
	SCLK *bench.Signal

	// HalfPeriod is the serial clock half period. Edges are aligned to the
	// bench clock: each one lands on the first cycle boundary strictly past
	// the half period.
	HalfPeriod time.Duration

	// Idle is the settle window after each transaction, in clock cycles.
	Idle int

	b *bench.Bench
}

// NewMaster returns a Master driving the given signals on b and sets the
// bus lines to their idle levels.
//
func NewMaster(b *bench.Bench, cs, copi, sclk *bench.Signal, halfPeriod time.Duration) (*Master, error) {
	if halfPeriod < b.Period() {
		return nil, errors.Errorf("serial half period %v shorter than one clock cycle (%v)", halfPeriod, b.Period())
	}
	cs.Set(true)
	copi.Set(false)
	sclk.Set(false)
	return &Master{
		CS:         cs,
		COPI:       copi,
		SCLK:       sclk,
		HalfPeriod: halfPeriod,
		Idle:       DefaultIdle,
		b:          b,
	}, nil
}

// Transfer shifts one frame onto the bus, MSB first, then deselects the
// chip and runs the idle window. Addresses above 0x7F do not fit the 7 bit
// field and are rejected.
//
func (m *Master) Transfer(f Frame) error {
	if f.Addr > addrMask {
		return errors.Errorf("address %#x out of range (0-127)", f.Addr)
	}
	m.b.Logger().Debug().Stringer("frame", f).Msg("serial transfer")
	word := f.Word()
	m.SCLK.Set(false)
	m.COPI.Set(false)
	m.CS.Set(false)
	m.b.Cycles(1)
	for i := 15; i >= 0; i-- {
		m.SCLK.Set(false)
		m.COPI.Set(word&(1<<uint(i)) != 0)
		m.half()
		m.SCLK.Set(true)
		m.half()
	}
	m.SCLK.Set(false)
	m.COPI.Set(false)
	m.CS.Set(true)
	m.b.Cycles(m.Idle)
	return nil
}

// Write transfers a write frame.
//
func (m *Master) Write(addr, data uint8) error {
	return m.Transfer(Frame{Write: true, Addr: addr, Data: data})
}

// Read transfers a read frame. The payload travels on the wire as usual,
// the flag alone distinguishes the transaction.
//
func (m *Master) Read(addr, data uint8) error {
	return m.Transfer(Frame{Addr: addr, Data: data})
}

func (m *Master) half() {
	start := m.b.Now()
	for {
		m.b.Cycles(1)
		if m.b.Now() > start+m.HalfPeriod {
			return
		}
	}
}
