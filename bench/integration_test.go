package bench_test

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/db47h/hwbench/bench"
	"github.com/db47h/hwbench/hwtest"
	"github.com/db47h/hwbench/pwm"
	"github.com/db47h/hwbench/spi"
	"github.com/db47h/hwbench/wave"
)

// regFile is a register map shared between parts. Parts within a step may
// run on different workers, hence the lock.
type regFile struct {
	mu   sync.Mutex
	regs [128]uint8
}

func (r *regFile) set(addr, data uint8) {
	r.mu.Lock()
	r.regs[addr] = data
	r.mu.Unlock()
}

func (r *regFile) get(addr uint8) uint8 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.regs[addr]
}

// TestBench_serial_pwm drives a small device model end to end: a serial
// monitor feeding a register map that shapes a PWM generator. Register 0
// is the global enable, register 2 the channel enable, register 4 the duty
// cycle (0-255 for 0-100%).
func TestBench_serial_pwm(t *testing.T) {
	b := bench.New("pwmdut", bench.Config{})
	cs := b.Input("cs")
	copi := b.Input("copi")
	sclk := b.Input("sclk")
	rst := b.Input("rst")
	out := b.Output("pwm")

	regs := &regFile{}
	mon := &spi.Monitor{}
	mon.OnFrame = func(f spi.Frame) {
		if f.Write {
			regs.set(f.Addr, f.Data)
		}
	}
	const period = 3333 // one PWM period in clock cycles, a hair over 3kHz
	gen := pwm.Generator(
		func() int {
			if regs.get(0)&1 != 0 && regs.get(2)&1 != 0 {
				return period
			}
			return 0
		},
		func() int { return period * int(regs.get(4)) / 255 },
	)
	var rec wave.Recorder
	err := b.Start(
		mon.Part()("cs=cs, copi=copi, sclk=sclk"),
		gen("out=pwm"),
		rec.Probe("rst")("in=rst"),
		rec.Probe("pwm")("in=pwm"),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	m, err := spi.NewMaster(b, cs, copi, sclk, 5*time.Microsecond)
	if err != nil {
		t.Fatal(err)
	}

	b.Reset(rst, 5)
	if err := pwm.HoldsLow(b, out, 1000); err != nil {
		t.Fatal(err)
	}

	// duty and global enable alone must not start the wave
	if err := m.Write(0x04, 0x80); err != nil {
		t.Fatal(err)
	}
	if err := m.Write(0x00, 0x01); err != nil {
		t.Fatal(err)
	}
	if err := pwm.HoldsLow(b, out, 1000); err != nil {
		t.Fatal(err)
	}

	if err := m.Write(0x02, 0x01); err != nil {
		t.Fatal(err)
	}
	meas, err := pwm.Measure(b, out, 5*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	hwtest.CheckFrequency(t, meas.Frequency(), 3000, 100)
	hwtest.CheckDuty(t, meas.Duty(), 50, 5)

	// duty extremes pin the output
	if err := m.Write(0x04, 0xFF); err != nil {
		t.Fatal(err)
	}
	if err := pwm.HoldsHigh(b, out, 1000); err != nil {
		t.Error(err)
	}
	if err := m.Write(0x04, 0x00); err != nil {
		t.Fatal(err)
	}
	if err := pwm.HoldsLow(b, out, 1000); err != nil {
		t.Error(err)
	}

	// disabling the channel stops the wave
	if err := m.Write(0x04, 0x80); err != nil {
		t.Fatal(err)
	}
	if err := m.Write(0x02, 0x00); err != nil {
		t.Fatal(err)
	}
	if err := pwm.HoldsLow(b, out, 1000); err != nil {
		t.Error(err)
	}

	if mon.Errors() != 0 {
		t.Errorf("expected no framing errors, got %d", mon.Errors())
	}

	var dump bytes.Buffer
	if err := rec.WriteVCD(&dump, b.Period(), b.SPC()); err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{"$var wire 1 ! rst $end", "$var wire 1 \" pwm $end", "\n1\"\n"} {
		if !strings.Contains(dump.String(), s) {
			t.Errorf("expected dump to contain %q", s)
		}
	}
}
