// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package logic

import (
	"github.com/db47h/hwbench"
)

// Mux returns a multiplexer.
//
//	Inputs: a, b, sel
//	Outputs: out
//	Function: if sel == 0 { out = a } else { out = b }
//
func Mux(w string) hwbench.Part { return mux.NewPart(w) }

var mux = hwbench.PartSpec{
	Name:    "MUX",
	Inputs:  hwbench.Inputs{pA, pB, pSel},
	Outputs: hwbench.Outputs{pOut},
	Mount: func(s *hwbench.Socket) []hwbench.Component {
		a, b, sel, out := s.Pin(pA), s.Pin(pB), s.Pin(pSel), s.Pin(pOut)
		return []hwbench.Component{func(c *hwbench.Circuit) {
			if c.Get(sel) {
				c.Set(out, c.Get(b))
			} else {
				c.Set(out, c.Get(a))
			}
		}}
	},
}

// DMux returns a demultiplexer.
//
//	Inputs: in, sel
//	Outputs: a, b
//	Function: if sel == 0 { a = in; b = 0 } else { a = 0; b = in }
//
func DMux(w string) hwbench.Part { return dmux.NewPart(w) }

var dmux = hwbench.PartSpec{
	Name:    "DMUX",
	Inputs:  hwbench.Inputs{pIn, pSel},
	Outputs: hwbench.Outputs{pA, pB},
	Mount: func(s *hwbench.Socket) []hwbench.Component {
		in, sel, a, b := s.Pin(pIn), s.Pin(pSel), s.Pin(pA), s.Pin(pB)
		return []hwbench.Component{func(c *hwbench.Circuit) {
			if c.Get(sel) {
				c.Set(a, false)
				c.Set(b, c.Get(in))
			} else {
				c.Set(a, c.Get(in))
				c.Set(b, false)
			}
		}}
	},
}
