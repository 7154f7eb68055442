// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package bench

import (
	"github.com/db47h/hwbench"
)

// A Signal is a settable input wire. The level is sampled by the circuit at
// every simulation step, so Set must only be called between steps, from the
// goroutine driving the bench.
//
type Signal struct {
	name string
	lvl  bool
}

// Set sets the signal level.
//
func (s *Signal) Set(level bool) { s.lvl = level }

// Name returns the wire name the signal drives.
//
func (s *Signal) Name() string { return s.name }

// Input declares an input wire driven by the returned Signal, low initially.
//
func (b *Bench) Input(name string) *Signal {
	b.checkStarted()
	s := &Signal{name: name}
	b.parts = append(b.parts, hwbench.Input(func() bool { return s.lvl })("out="+name))
	return s
}

// A Bus is a settable input bus.
//
type Bus struct {
	name string
	bits int
	val  int64
}

// Set sets the bus value.
//
func (u *Bus) Set(v int64) { u.val = v }

// Name returns the bus wire name.
//
func (u *Bus) Name() string { return u.name }

// Bits returns the bus width.
//
func (u *Bus) Bits() int { return u.bits }

// InputBus declares a bits wide input bus driven by the returned Bus.
//
func (b *Bench) InputBus(name string, bits int) *Bus {
	b.checkStarted()
	u := &Bus{name: name, bits: bits}
	b.parts = append(b.parts, hwbench.InputN(bits, func() int64 { return u.val })(busConn("out", name, bits)))
	return u
}

// A Probe reports the level of an output wire. The reported level lags the
// wire by one simulation step and is only stable between steps.
//
type Probe struct {
	name string
	lvl  bool
}

// Level returns the probed wire level.
//
func (p *Probe) Level() bool { return p.lvl }

// Name returns the probed wire name.
//
func (p *Probe) Name() string { return p.name }

// Output declares a probe on the named output wire.
//
func (b *Bench) Output(name string) *Probe {
	b.checkStarted()
	p := &Probe{name: name}
	b.parts = append(b.parts, hwbench.Output(func(v bool) { p.lvl = v })("in="+name))
	return p
}

// A BusProbe reports the value of an output bus.
//
type BusProbe struct {
	name string
	bits int
	val  int64
}

// Value returns the probed bus value.
//
func (p *BusProbe) Value() int64 { return p.val }

// Name returns the probed bus wire name.
//
func (p *BusProbe) Name() string { return p.name }

// Bits returns the bus width.
//
func (p *BusProbe) Bits() int { return p.bits }

// OutputBus declares a probe on the named bits wide output bus.
//
func (b *Bench) OutputBus(name string, bits int) *BusProbe {
	b.checkStarted()
	p := &BusProbe{name: name, bits: bits}
	b.parts = append(b.parts, hwbench.OutputN(bits, func(v int64) { p.val = v })(busConn("in", name, bits)))
	return p
}
