// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package logic

import "github.com/db47h/hwbench"

// Rise returns a rising edge detector.
//
//	Inputs: in
//	Outputs: out
//	Function: out(t) = in(t-1) && !in(t-2)
//
// The output is high for exactly one clock cycle after the input transitions
// from low to high.
//
func Rise(w string) hwbench.Part {
	return (&hwbench.PartSpec{
		Name:    "RISE",
		Inputs:  hwbench.Inputs{pIn},
		Outputs: hwbench.Outputs{pOut},
		Mount: func(s *hwbench.Socket) []hwbench.Component {
			in, out := s.Pin(pIn), s.Pin(pOut)
			var prev, cur bool
			return []hwbench.Component{
				func(c *hwbench.Circuit) {
					if c.AtTick() {
						prev, cur = cur, c.Get(in)
					}
					c.Set(out, cur && !prev)
				}}
		}}).NewPart(w)
}

// Fall returns a falling edge detector.
//
//	Inputs: in
//	Outputs: out
//	Function: out(t) = !in(t-1) && in(t-2)
//
// The output is high for exactly one clock cycle after the input transitions
// from high to low.
//
func Fall(w string) hwbench.Part {
	return (&hwbench.PartSpec{
		Name:    "FALL",
		Inputs:  hwbench.Inputs{pIn},
		Outputs: hwbench.Outputs{pOut},
		Mount: func(s *hwbench.Socket) []hwbench.Component {
			in, out := s.Pin(pIn), s.Pin(pOut)
			var prev, cur bool
			return []hwbench.Component{
				func(c *hwbench.Circuit) {
					if c.AtTick() {
						prev, cur = cur, c.Get(in)
					}
					c.Set(out, !cur && prev)
				}}
		}}).NewPart(w)
}

// Sync2 returns a two stage synchronizer, the usual front end for signals
// crossing into the simulated clock domain.
//
//	Inputs: in
//	Outputs: out
//	Function: out(t) = in(t-2)
//
func Sync2(w string) hwbench.Part {
	return (&hwbench.PartSpec{
		Name:    "SYNC2",
		Inputs:  hwbench.Inputs{pIn},
		Outputs: hwbench.Outputs{pOut},
		Mount: func(s *hwbench.Socket) []hwbench.Component {
			in, out := s.Pin(pIn), s.Pin(pOut)
			var q1, q2 bool
			return []hwbench.Component{
				func(c *hwbench.Circuit) {
					if c.AtTick() {
						q2, q1 = q1, c.Get(in)
					}
					c.Set(out, q2)
				}}
		}}).NewPart(w)
}
