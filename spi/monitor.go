// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package spi

import (
	"github.com/db47h/hwbench"
)

// A Monitor decodes bus traffic at the wire level. It attaches to a bench
// as a regular part with input pins cs, copi and sclk, samples the data
// line on every serial clock rising edge while the chip is selected, and
// emits a Frame when the chip select rises after exactly 16 captured bits.
// Short or long captures count as framing errors.
//
// Captured frames and counters are updated during simulation steps and
// must only be read between them.
//
type Monitor struct {
	// OnFrame, if not nil, is called for each complete frame during the
	// step that ends it. State it shares with other parts must be guarded,
	// as parts within a step may run on different workers.
	OnFrame func(Frame)

	frames []Frame
	errs   int
	stray  int
}

// Frames returns the frames captured so far.
//
func (m *Monitor) Frames() []Frame { return m.frames }

// Errors returns the framing error count.
//
func (m *Monitor) Errors() int { return m.errs }

// StrayBits returns the bit count of the last framing error.
//
func (m *Monitor) StrayBits() int { return m.stray }

// Part returns the part constructor for the monitor.
//
func (m *Monitor) Part() hwbench.NewPartFn {
	p := &hwbench.PartSpec{
		Name:   "SPIMON",
		Inputs: hwbench.In("cs, copi, sclk"),
		Mount: func(s *hwbench.Socket) []hwbench.Component {
			cs, copi, sclk := s.Pin("cs"), s.Pin("copi"), s.Pin("sclk")
			prevCS := true
			prevCLK := false
			var shift uint16
			var count int
			return []hwbench.Component{func(c *hwbench.Circuit) {
				csv, clkv := c.Get(cs), c.Get(sclk)
				switch {
				case prevCS && !csv:
					// chip selected, start a capture
					shift, count = 0, 0
				case !prevCS && csv:
					// chip deselected, end of capture
					switch {
					case count == 16:
						f := FrameFromWord(shift)
						m.frames = append(m.frames, f)
						if m.OnFrame != nil {
							m.OnFrame(f)
						}
					case count > 0:
						m.errs++
						m.stray = count
					}
					shift, count = 0, 0
				}
				if !csv && clkv && !prevCLK {
					shift <<= 1
					if c.Get(copi) {
						shift |= 1
					}
					count++
				}
				prevCS, prevCLK = csv, clkv
			}}
		},
	}
	return p.NewPart
}
