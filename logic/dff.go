// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package logic

import "github.com/db47h/hwbench"

// DFF returns a clocked data flip flop.
//
//	Inputs: in
//	Outputs: out
//	Function: out(t) = in(t-1) // where t is the current clock cycle.
//
func DFF(w string) hwbench.Part {
	return (&hwbench.PartSpec{
		Name:    "DFF",
		Inputs:  hwbench.Inputs{pIn},
		Outputs: hwbench.Outputs{pOut},
		Mount: func(s *hwbench.Socket) []hwbench.Component {
			in, out := s.Pin(pIn), s.Pin(pOut)
			var curOut bool
			return []hwbench.Component{
				func(c *hwbench.Circuit) {
					// rising edge?
					if c.AtTick() {
						curOut = c.Get(in)
					}
					c.Set(out, curOut)
				}}
		}}).NewPart(w)
}
