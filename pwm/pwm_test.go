package pwm_test

import (
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/db47h/hwbench/bench"
	"github.com/db47h/hwbench/hwtest"
	"github.com/db47h/hwbench/pwm"
)

func newGenBench(t *testing.T, period, high func() int) (*bench.Bench, *bench.Probe) {
	t.Helper()
	b := bench.New("pwm", bench.Config{})
	p := b.Output("pwm_out")
	if err := b.Start(pwm.Generator(period, high)("out=pwm_out")); err != nil {
		t.Fatal(err)
	}
	return b, p
}

func TestMeasure(t *testing.T) {
	b, p := newGenBench(t, func() int { return 10 }, func() int { return 3 })
	defer b.Close()

	m, err := pwm.Measure(b, p, 10*time.Microsecond)
	if err != nil {
		t.Fatal(err)
	}
	if want := 10 * b.Period(); m.Period != want {
		t.Errorf("expected period %v, got %v", want, m.Period)
	}
	if want := 3 * b.Period(); m.High != want {
		t.Errorf("expected high time %v, got %v", want, m.High)
	}
	hwtest.CheckFrequency(t, m.Frequency(), 1e6, 1)
	hwtest.CheckDuty(t, m.Duty(), 30, 0.01)
}

func TestMeasure_slow(t *testing.T) {
	// 3333 cycles at the default 100ns period is a hair over 3kHz
	b, p := newGenBench(t, func() int { return 3333 }, func() int { return 1666 })
	defer b.Close()

	m, err := pwm.Measure(b, p, 2*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	hwtest.CheckFrequency(t, m.Frequency(), 3000, 100)
	hwtest.CheckDuty(t, m.Duty(), 50, 5)
}

func TestGenerator_reshape(t *testing.T) {
	period, high := 8, 2
	b, p := newGenBench(t, func() int { return period }, func() int { return high })
	defer b.Close()

	m, err := pwm.Measure(b, p, 10*time.Microsecond)
	if err != nil {
		t.Fatal(err)
	}
	hwtest.CheckDuty(t, m.Duty(), 25, 0.01)

	high = 6
	m, err = pwm.Measure(b, p, 10*time.Microsecond)
	if err != nil {
		t.Fatal(err)
	}
	if want := 8 * b.Period(); m.Period != want {
		t.Errorf("expected period %v, got %v", want, m.Period)
	}
	hwtest.CheckDuty(t, m.Duty(), 75, 0.01)
}

func TestMeasure_timeout(t *testing.T) {
	b, p := newGenBench(t, func() int { return 8 }, func() int { return 0 })
	defer b.Close()

	start := b.Now()
	_, err := pwm.Measure(b, p, 3*time.Microsecond)
	if errors.Cause(err) != bench.ErrTimeout {
		t.Errorf("expected timeout, got %v", err)
	}
	if d := b.Now() - start; d != 3*time.Microsecond {
		t.Errorf("expected the bench to advance by the full timeout, got %v", d)
	}
}

func TestHolds(t *testing.T) {
	b, p := newGenBench(t, func() int { return 8 }, func() int { return 8 })
	defer b.Close()

	if err := pwm.HoldsHigh(b, p, 50); err != nil {
		t.Error(err)
	}
	if err := pwm.HoldsLow(b, p, 10); err == nil {
		t.Error("expected a low level violation")
	}
}
