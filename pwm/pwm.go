// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package pwm measures pulse width modulated outputs: frequency, duty
// cycle and constant level checks, with a reference wave generator for
// closing the loop in tests and demos.
//
package pwm

import (
	"time"

	"github.com/pkg/errors"

	"github.com/db47h/hwbench/bench"
)

// A Measurement is one full period of a modulated output.
//
type Measurement struct {
	Period time.Duration // time between two consecutive rising edges
	High   time.Duration // time spent high within the period
}

// Frequency returns the measured frequency in Hertz.
//
func (m Measurement) Frequency() float64 {
	return float64(time.Second) / float64(m.Period)
}

// Duty returns the measured duty cycle in percent.
//
func (m Measurement) Duty() float64 {
	return float64(m.High) / float64(m.Period) * 100
}

// Measure captures one period of the signal on p: it waits for a rising
// edge, the following falling edge, then the next rising edge. The timeout
// covers the whole measurement.
//
func Measure(b *bench.Bench, p *bench.Probe, timeout time.Duration) (Measurement, error) {
	deadline := b.Now() + timeout
	t0, err := b.WaitRise(p, timeout)
	if err != nil {
		return Measurement{}, errors.Wrap(err, "first rising edge")
	}
	tf, err := b.WaitFall(p, remaining(b, deadline))
	if err != nil {
		return Measurement{}, errors.Wrap(err, "falling edge")
	}
	t1, err := b.WaitRise(p, remaining(b, deadline))
	if err != nil {
		return Measurement{}, errors.Wrap(err, "second rising edge")
	}
	m := Measurement{Period: t1 - t0, High: tf - t0}
	b.Logger().Debug().Str("pin", p.Name()).
		Dur("period", m.Period).Dur("high", m.High).Msg("period measured")
	return m, nil
}

func remaining(b *bench.Bench, deadline time.Duration) time.Duration {
	if rem := deadline - b.Now(); rem > 0 {
		return rem
	}
	return 0
}

// HoldsLow checks that p stays low for n clock cycles, sampling once per
// cycle.
//
func HoldsLow(b *bench.Bench, p *bench.Probe, n int) error {
	return holds(b, p, false, n)
}

// HoldsHigh checks that p stays high for n clock cycles, sampling once per
// cycle.
//
func HoldsHigh(b *bench.Bench, p *bench.Probe, n int) error {
	return holds(b, p, true, n)
}

func holds(b *bench.Bench, p *bench.Probe, level bool, n int) error {
	for i := 0; i < n; i++ {
		b.Cycles(1)
		if p.Level() != level {
			return errors.Errorf("pin %s not %s at %v", p.Name(), levelName(level), b.Now())
		}
	}
	return nil
}

func levelName(level bool) string {
	if level {
		return "high"
	}
	return "low"
}
