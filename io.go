// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwbench

import (
	"strconv"
)

// Input returns a 1 bit input driven by f. f is polled at every simulation
// step.
//
func Input(f func() bool) NewPartFn {
	p := &PartSpec{
		Name:    "in",
		Inputs:  nil,
		Outputs: Outputs{"out"},
		Mount: func(s *Socket) []Component {
			out := s.Pin("out")
			return []Component{
				func(c *Circuit) { c.Set(out, f()) },
			}
		}}
	return p.NewPart
}

// Output returns a 1 bit output. f is called with the pin state at every
// simulation step.
//
func Output(f func(value bool)) NewPartFn {
	p := &PartSpec{
		Name:    "out",
		Inputs:  Inputs{"in"},
		Outputs: nil,
		Mount: func(s *Socket) []Component {
			in := s.Pin("in")
			return []Component{
				func(c *Circuit) { f(c.Get(in)) },
			}
		}}
	return p.NewPart
}

// InputN creates an input bus of the given bits size driven by f. Bit 0 of
// f's result drives out[0].
//
func InputN(bits int, f func() int64) NewPartFn {
	bs := strconv.Itoa(bits)
	return (&PartSpec{
		Name:    "Input" + bs,
		Inputs:  nil,
		Outputs: Out("out[" + bs + "]"),
		Mount: func(s *Socket) []Component {
			pins := s.Bus("out", bits)
			return []Component{
				func(c *Circuit) { SetInt64(c, pins, f()) },
			}
		}}).NewPart
}

// OutputN creates an output bus of the given bits size. f is called with the
// bus value at every simulation step, in[0] being the least significant bit.
//
func OutputN(bits int, f func(int64)) NewPartFn {
	bs := strconv.Itoa(bits)
	return (&PartSpec{
		Name:    "Output" + bs,
		Inputs:  In("in[" + bs + "]"),
		Outputs: nil,
		Mount: func(s *Socket) []Component {
			pins := s.Bus("in", bits)
			return []Component{
				func(c *Circuit) { f(Int64(c, pins)) },
			}
		}}).NewPart
}

// Int64 returns the value of a bus as an int64, pins[0] being the least
// significant bit.
//
func Int64(c *Circuit, pins []int) int64 {
	var v int64
	for i, p := range pins {
		if c.Get(p) {
			v |= 1 << uint(i)
		}
	}
	return v
}

// SetInt64 sets the pins of a bus to the given value, pins[0] being the
// least significant bit.
//
func SetInt64(c *Circuit, pins []int, v int64) {
	for i, p := range pins {
		c.Set(p, v&(1<<uint(i)) != 0)
	}
}
