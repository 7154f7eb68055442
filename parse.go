package hwbench

import (
	"strconv"

	"github.com/db47h/hwbench/internal/lex"
	"github.com/db47h/hwbench/internal/pins"
	"github.com/pkg/errors"
)

// Inputs is a list of input pin names.
//
type Inputs []string

// Outputs is a list of output pin names.
//
type Outputs []string

// IO parses an input or output pin specification string and returns the
// individual pin names in a slice, expanding bus declarations:
//
//	IO("in[2], sel") // returns []string{"in[0]", "in[1]", "sel"}, nil
//
func IO(spec string) ([]string, error) {
	var out []string
	p := &pins.Parser{Input: spec}
	for {
		v, err := p.Next(false)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return out, nil
		}
		switch d := v.(type) {
		case pins.Pin:
			out = append(out, d.Name)
		case pins.PinIndex:
			// a bus declaration, the index is the bus size
			for i := 0; i < d.Index; i++ {
				out = append(out, busPinName(d.Name, i))
			}
		case pins.PinRange:
			return nil, parseError(spec, d.Pos, "unexpected bus range in pin declaration")
		}
	}
}

// In is a wrapper around IO for input pin specifications. It panics if the
// specification fails to parse and is meant to be used with constant
// specification strings:
//
//	inputs := hwbench.In("a, b, bus[4]")
//
func In(spec string) Inputs {
	r, err := IO(spec)
	if err != nil {
		panic(err)
	}
	return r
}

// Out is a wrapper around IO for output pin specifications. It panics if the
// specification fails to parse and is meant to be used with constant
// specification strings:
//
//	outputs := hwbench.Out("out[8]")
//
func Out(spec string) Outputs {
	r, err := IO(spec)
	if err != nil {
		panic(err)
	}
	return r
}

// A Connection wires a part's pin PP to the pin CP of its host chip.
//
type Connection struct {
	PP string
	CP string
}

// ParseConnections parses a connection configuration string:
//
//	Conns      = Assignment { "," Assignment } .
//	Assignment = Pin "=" Pin .
//	Pin        = identifier [ "[" Index | Range "]" ] .
//	Index      = integer .
//	Range      = integer ".." integer .
//
// The left hand side of an assignment is a pin of the part, the right hand
// side a pin of the chip hosting it. Bus ranges on both sides are expanded
// and matched pairwise, a single pin on either side is fanned out:
//
//	"in=a"              // wires chip pin a to part pin in
//	"in[4]=b"           // wires chip pin b to part pin in[4]
//	"a[0..3]=v[4..7]"   // wires chip pins v[4] to v[7] to part pins a[0] to a[3]
//	"out=x, out=y"      // wires part pin out to both chip pins x and y
//	"out=false"         // discards part output out
//
// Part inputs can also be wired to the constant pins true, false and clk.
//
func ParseConnections(c string) ([]Connection, error) {
	var conns []Connection
	p := &pins.Parser{Input: c}
	for {
		v, err := p.Next(true)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return conns, nil
		}
		a, ok := v.(pins.PinAssignment)
		if !ok {
			return nil, parseError(c, descPos(v), "expected pin assignment")
		}
		ls, err := expandDesc(c, a.LHS)
		if err != nil {
			return nil, err
		}
		rs, err := expandDesc(c, a.RHS)
		if err != nil {
			return nil, err
		}
		switch {
		case len(ls) == len(rs):
			for i := range ls {
				conns = append(conns, Connection{PP: ls[i], CP: rs[i]})
			}
		case len(ls) == 1:
			for _, r := range rs {
				conns = append(conns, Connection{PP: ls[0], CP: r})
			}
		case len(rs) == 1:
			for _, l := range ls {
				conns = append(conns, Connection{PP: l, CP: rs[0]})
			}
		default:
			return nil, parseError(c, descPos(a.LHS), "pin count mismatch in pin assignment")
		}
	}
}

// expandDesc expands a parsed pin description to individual pin names.
//
func expandDesc(in string, v interface{}) ([]string, error) {
	switch d := v.(type) {
	case pins.Pin:
		return []string{d.Name}, nil
	case pins.PinIndex:
		return []string{busPinName(d.Name, d.Index)}, nil
	case pins.PinRange:
		if d.End < d.Start {
			return nil, parseError(in, d.Pos, "invalid bus range")
		}
		r := make([]string, 0, d.End-d.Start+1)
		for i := d.Start; i <= d.End; i++ {
			r = append(r, busPinName(d.Name, i))
		}
		return r, nil
	}
	return nil, parseError(in, descPos(v), "expected pin name")
}

func descPos(v interface{}) lex.Pos {
	switch d := v.(type) {
	case pins.Pin:
		return d.Pos
	case pins.PinIndex:
		return d.Pos
	case pins.PinRange:
		return d.Pos
	}
	return 0
}

func busPinName(name string, i int) string {
	return name + "[" + strconv.Itoa(i) + "]"
}

func parseError(in string, pos lex.Pos, msg string) error {
	return errors.Errorf("in %q at pos %d: %s", in, pos+1, msg)
}
