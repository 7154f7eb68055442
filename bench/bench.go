// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package bench provides a simulated-time testbench controller on top of the
// hwbench circuit substrate.
//
// A Bench owns the mapping from simulation steps to simulated time and the
// cooperative verbs used to drive and observe a design under test: named
// input and output handles, clock cycle advancement, and level polling with
// timeouts. Handles are declared before Start and are backed by regular
// circuit parts, so user parts connect to them by wire name:
//
//	b := bench.New("pwm", bench.Config{})
//	rst := b.Input("rst_n")
//	out := b.Output("pwm_out")
//	err := b.Start(dut("rst_n=rst_n, pwm=pwm_out"))
//
// The usual caveats of the substrate apply: levels set on a Signal are
// sampled by the circuit on the next simulation step, and a Probe reports
// wire levels one step late. Differences between two polled timestamps are
// exact, absolute timestamps carry that constant staging offset.
//
package bench

import (
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/db47h/hwbench"
)

// Default configuration values. The 100ns period matches a 10MHz system
// clock.
//
const (
	DefaultPeriod        = 100 * time.Nanosecond
	DefaultStepsPerCycle = 16
)

// Config holds the bench configuration. The zero value is usable.
//
type Config struct {
	// Period is the duration of one simulated clock cycle.
	// Defaults to DefaultPeriod.
	Period time.Duration
	// StepsPerCycle is the simulation step count per clock cycle, rounded up
	// to a power of two. It bounds the combinational depth of the parts on
	// the bench. Defaults to DefaultStepsPerCycle.
	StepsPerCycle uint
	// Workers is the worker goroutine count for circuit updates. Values
	// less than or equal to 0 select GOMAXPROCS.
	Workers int
	// Logger, if non nil, receives bench and stimulus events. Defaults to a
	// no-op logger.
	Logger *zerolog.Logger
}

// A Bench drives a circuit in simulated time.
//
type Bench struct {
	name    string
	period  time.Duration
	spc     uint
	workers int
	log     zerolog.Logger
	parts   hwbench.Parts
	c       *hwbench.Circuit
}

// New returns a new Bench with the given name and configuration.
//
func New(name string, cfg Config) *Bench {
	if cfg.Period <= 0 {
		cfg.Period = DefaultPeriod
	}
	if cfg.StepsPerCycle == 0 {
		cfg.StepsPerCycle = DefaultStepsPerCycle
	}
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = cfg.Logger.With().Str("bench", name).Logger()
	}
	return &Bench{
		name:    name,
		period:  cfg.Period,
		spc:     cfg.StepsPerCycle,
		workers: cfg.Workers,
		log:     log,
	}
}

// Start builds and starts the bench circuit from the declared handles and
// the given user parts. Wires are checked as in any chip: every Signal and
// Bus must be consumed by some part, every Probe and BusProbe wire must be
// driven by one.
//
func (b *Bench) Start(parts ...hwbench.Part) error {
	if b.c != nil {
		return errors.New("bench " + b.name + " already started")
	}
	all := make(hwbench.Parts, 0, len(b.parts)+len(parts))
	all = append(all, b.parts...)
	all = append(all, parts...)
	c, err := hwbench.NewCircuit(b.workers, b.spc, all)
	if err != nil {
		return errors.Wrap(err, "bench "+b.name)
	}
	b.c = c
	b.log.Info().
		Dur("period", b.period).
		Uint("spc", c.SPC()).
		Int("parts", len(all)).
		Msg("bench started")
	return nil
}

// Close disposes of the bench circuit. The bench cannot be restarted.
//
func (b *Bench) Close() {
	if b.c != nil {
		b.c.Dispose()
	}
}

// Period returns the duration of one simulated clock cycle.
//
func (b *Bench) Period() time.Duration { return b.period }

// SPC returns the effective simulation step count per clock cycle.
//
func (b *Bench) SPC() uint {
	if b.c != nil {
		return b.c.SPC()
	}
	return b.spc
}

// Circuit returns the underlying circuit, or nil before Start.
//
func (b *Bench) Circuit() *hwbench.Circuit { return b.c }

// Logger returns the bench logger.
//
func (b *Bench) Logger() *zerolog.Logger { return &b.log }

// Now returns the current simulated time.
//
func (b *Bench) Now() time.Duration {
	if b.c == nil {
		return 0
	}
	return time.Duration(b.c.Steps()) * b.period / time.Duration(b.c.SPC())
}

// Cycles advances the simulation by n whole clock cycles.
//
func (b *Bench) Cycles(n int) {
	for i := 0; i < n; i++ {
		b.c.TickTock()
	}
}

// Run advances the simulation by at least d of simulated time, in whole
// clock cycles.
//
func (b *Bench) Run(d time.Duration) {
	if d <= 0 {
		return
	}
	n := (d + b.period - 1) / b.period
	b.Cycles(int(n))
}

// Reset drives the active low reset line rst low for the given number of
// cycles, then high for the same number of cycles.
//
func (b *Bench) Reset(rst *Signal, cycles int) {
	b.log.Debug().Str("pin", rst.name).Int("cycles", cycles).Msg("reset")
	rst.Set(false)
	b.Cycles(cycles)
	rst.Set(true)
	b.Cycles(cycles)
}

// checkStarted panics when a handle is declared on a running bench.
//
func (b *Bench) checkStarted() {
	if b.c != nil {
		panic("bench " + b.name + ": handles must be declared before Start")
	}
}

func busConn(prefix, name string, bits int) string {
	hi := strconv.Itoa(bits - 1)
	return prefix + "[0.." + hi + "]=" + name + "[0.." + hi + "]"
}
