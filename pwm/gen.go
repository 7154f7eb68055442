// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package pwm

import (
	"github.com/db47h/hwbench"
)

// Generator returns the constructor for a part producing a pulse width
// modulated wave on its out pin. period and high give the wave shape in
// clock cycles and are read again at the start of every cycle, so a bench
// can reshape the wave while running; the cycle counter restarts whenever
// either value changes. The output is high for the first high cycles of
// each period.
//
func Generator(period, high func() int) hwbench.NewPartFn {
	ps := &hwbench.PartSpec{
		Name:    "PWMGEN",
		Outputs: hwbench.Out("out"),
		Mount: func(s *hwbench.Socket) []hwbench.Component {
			out := s.Pin("out")
			var cnt, curP, curH int
			return []hwbench.Component{func(c *hwbench.Circuit) {
				if c.AtTick() {
					np, nh := period(), high()
					if np != curP || nh != curH {
						curP, curH = np, nh
						cnt = 0
					} else if cnt++; cnt >= curP {
						cnt = 0
					}
				}
				c.Set(out, curP > 0 && cnt < curH)
			}}
		},
	}
	return ps.NewPart
}
