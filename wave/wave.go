// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package wave records wire activity and dumps it as a value change dump
// (VCD) file for inspection in a waveform viewer.
//
package wave

import (
	"bufio"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/db47h/hwbench"
)

type change struct {
	step uint
	id   int
	lvl  bool
}

// A Recorder collects level changes from any number of probe parts. The
// zero value is ready to use. Probes may run concurrently within a
// simulation step, so the recorder serializes its updates; changes land in
// step order.
//
type Recorder struct {
	mu      sync.Mutex
	names   []string
	changes []change
}

// Probe returns the constructor for a part recording the wire connected to
// its in pin under the given name. Each probe records the first level it
// samples, then one entry per change.
//
func (r *Recorder) Probe(name string) hwbench.NewPartFn {
	r.mu.Lock()
	id := len(r.names)
	r.names = append(r.names, name)
	r.mu.Unlock()
	ps := &hwbench.PartSpec{
		Name:   "WAVE",
		Inputs: hwbench.In("in"),
		Mount: func(s *hwbench.Socket) []hwbench.Component {
			in := s.Pin("in")
			var prev, seen bool
			return []hwbench.Component{func(c *hwbench.Circuit) {
				lvl := c.Get(in)
				if seen && lvl == prev {
					return
				}
				prev, seen = lvl, true
				r.mu.Lock()
				r.changes = append(r.changes, change{c.Steps(), id, lvl})
				r.mu.Unlock()
			}}
		},
	}
	return ps.NewPart
}

// WriteVCD writes the recorded changes to w. period and spc give the clock
// cycle period and the simulation step count per cycle, mapping steps to
// nanoseconds in the dump.
//
func (r *Recorder) WriteVCD(w io.Writer, period time.Duration, spc uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	buf := bufio.NewWriter(w)
	fmt.Fprintln(buf, "$timescale 1ns $end")
	fmt.Fprintln(buf, "$scope module bench $end")
	for id, n := range r.names {
		fmt.Fprintf(buf, "$var wire 1 %s %s $end\n", code(id), n)
	}
	fmt.Fprintln(buf, "$upscope $end")
	fmt.Fprintln(buf, "$enddefinitions $end")
	t := int64(-1)
	dump := false
	for _, ch := range r.changes {
		ct := int64(ch.step) * period.Nanoseconds() / int64(spc)
		if ct != t {
			if dump {
				fmt.Fprintln(buf, "$end")
				dump = false
			}
			fmt.Fprintf(buf, "#%d\n", ct)
			if t < 0 {
				fmt.Fprintln(buf, "$dumpvars")
				dump = true
			}
			t = ct
		}
		lvl := byte('0')
		if ch.lvl {
			lvl = '1'
		}
		fmt.Fprintf(buf, "%c%s\n", lvl, code(ch.id))
	}
	if dump {
		fmt.Fprintln(buf, "$end")
	}
	return errors.Wrap(buf.Flush(), "vcd write")
}

// code maps a variable index to a VCD identifier, one or more characters
// drawn from the printable ASCII range.
func code(id int) string {
	var b []byte
	for {
		b = append(b, byte('!'+id%94))
		id /= 94
		if id == 0 {
			return string(b)
		}
	}
}
