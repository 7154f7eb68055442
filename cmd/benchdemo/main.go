// Command benchdemo runs a complete verification scenario against a model
// device: a serial register file driving one PWM channel. The bench resets
// the device, configures it over the 3 wire bus, measures the output wave
// and checks it against the expected frequency and duty cycle. The run can
// be dumped to a VCD file for inspection in a waveform viewer.
package main

import (
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/db47h/hwbench/bench"
	"github.com/db47h/hwbench/pwm"
	"github.com/db47h/hwbench/spi"
	"github.com/db47h/hwbench/wave"
)

// device registers
const (
	regEnable  = 0x00 // bit 0: global enable
	regChannel = 0x02 // bit 0: channel enable
	regDuty    = 0x04 // duty cycle, 0-255 for 0-100%
)

// device models the design under verification: a serial register file
// driving one PWM channel. Parts within a step may run on different
// workers, hence the lock.
type device struct {
	mu   sync.Mutex
	regs [128]uint8
}

func (d *device) store(f spi.Frame) {
	if !f.Write {
		return
	}
	d.mu.Lock()
	d.regs[f.Addr] = f.Data
	d.mu.Unlock()
}

func (d *device) reg(addr uint8) uint8 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.regs[addr]
}

func (d *device) enabled() bool {
	return d.reg(regEnable)&1 != 0 && d.reg(regChannel)&1 != 0
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "benchdemo - run a serial to PWM verification scenario on a model device.\n\tUsage:\n")
		flag.PrintDefaults()
	}
	vcdOut := flag.String("o-vcd", "", "Output the run to a VCD waveform file.")
	half := flag.Duration("half", 5*time.Microsecond, "Serial clock half period.")
	period := flag.Int("period", 3333, "PWM period in clock cycles.")
	debug := flag.Bool("v", false, "Enable debug logging.")
	flag.Parse()

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Str("app", "benchdemo").Logger().Level(level)

	if err := run(logger, *vcdOut, *half, *period); err != nil {
		logger.Fatal().Err(err).Msg("scenario failed")
	}
}

func run(logger zerolog.Logger, vcdOut string, half time.Duration, period int) error {
	b := bench.New("demo", bench.Config{Logger: &logger})
	cs := b.Input("cs")
	copi := b.Input("copi")
	sclk := b.Input("sclk")
	rst := b.Input("rst")
	out := b.Output("pwm")

	dut := &device{}
	mon := &spi.Monitor{OnFrame: dut.store}
	gen := pwm.Generator(
		func() int {
			if dut.enabled() {
				return period
			}
			return 0
		},
		func() int { return period * int(dut.reg(regDuty)) / 255 },
	)
	var rec wave.Recorder
	err := b.Start(
		mon.Part()("cs=cs, copi=copi, sclk=sclk"),
		gen("out=pwm"),
		rec.Probe("rst")("in=rst"),
		rec.Probe("cs")("in=cs"),
		rec.Probe("copi")("in=copi"),
		rec.Probe("sclk")("in=sclk"),
		rec.Probe("pwm")("in=pwm"),
	)
	if err != nil {
		return err
	}
	defer b.Close()

	m, err := spi.NewMaster(b, cs, copi, sclk, half)
	if err != nil {
		return err
	}

	b.Reset(rst, 5)
	if err := pwm.HoldsLow(b, out, 1000); err != nil {
		return errors.Wrap(err, "output not idle after reset")
	}
	logger.Info().Msg("output idle after reset")

	if err := m.Write(regEnable, 0x01); err != nil {
		return err
	}
	if err := m.Write(regChannel, 0x01); err != nil {
		return err
	}

	wantHz := float64(time.Second) / (float64(period) * float64(b.Period()))
	for _, duty := range []uint8{0x80, 0xFF, 0x00, 0x40} {
		if err := m.Write(regDuty, duty); err != nil {
			return err
		}
		switch duty {
		case 0x00:
			if err := pwm.HoldsLow(b, out, 2*period); err != nil {
				return errors.Wrap(err, "zero duty")
			}
			logger.Info().Uint8("duty", duty).Msg("output pinned low")
		case 0xFF:
			if err := pwm.HoldsHigh(b, out, 2*period); err != nil {
				return errors.Wrap(err, "full duty")
			}
			logger.Info().Uint8("duty", duty).Msg("output pinned high")
		default:
			meas, err := pwm.Measure(b, out, 100*time.Duration(period)*b.Period())
			if err != nil {
				return errors.Wrapf(err, "duty %#x", duty)
			}
			logger.Info().Uint8("duty", duty).
				Float64("freq_hz", meas.Frequency()).
				Float64("duty_pct", meas.Duty()).
				Msg("wave measured")
			if f, tol := meas.Frequency(), wantHz/30; f < wantHz-tol || f > wantHz+tol {
				return errors.Errorf("frequency %.2f Hz out of range, want %.2f Hz ±%.2f", f, wantHz, tol)
			}
			want := float64(duty) / 255 * 100
			if d := meas.Duty(); d < want-5 || d > want+5 {
				return errors.Errorf("duty cycle %.1f%% out of range, want %.1f%% ±5", d, want)
			}
		}
	}

	if err := m.Write(regChannel, 0x00); err != nil {
		return err
	}
	if err := pwm.HoldsLow(b, out, 2*period); err != nil {
		return errors.Wrap(err, "output still active after disabling the channel")
	}
	logger.Info().Msg("output stopped on channel disable")

	if vcdOut != "" {
		fp, err := os.Create(vcdOut)
		if err != nil {
			return err
		}
		defer fp.Close()
		if err := rec.WriteVCD(fp, b.Period(), b.SPC()); err != nil {
			return err
		}
		logger.Info().Str("file", vcdOut).Msg("waveform written")
	}
	logger.Info().Dur("sim_time", b.Now()).Uint("steps", b.Circuit().Steps()).Msg("scenario complete")
	return nil
}
