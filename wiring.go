package hwbench

import (
	"strconv"

	"github.com/pkg/errors"
)

// a pin is identified by the part it belongs to (index in the host chip's
// part list, -1 for the chip itself) and its name in that part's interface.
//
type pin struct {
	p    int
	name string
}

type pinType int

const (
	typeUnknown pinType = iota
	typeInput
	typeOutput
)

// A node is a wire endpoint. org is the node feeding it, outs the nodes it
// feeds. Connected nodes share a single wire name.
//
type node struct {
	name string // chip internal wire name
	pin  pin
	outs []*node
	org  *node
	typ  pinType
}

func (n *node) isOutput() bool {
	return n.typ == typeOutput
}

func (n *node) setName(name string) {
	n.name = name
	for _, o := range n.outs {
		o.setName(name)
	}
}

// wiring is the connection graph of a chip under construction. root serves
// as a parent marker for chip input pins and constant wires.
//
type wiring struct {
	nodes map[pin]*node
	root  *node
}

func newWiring(ins []string, outs []string) *wiring {
	wr := &wiring{
		nodes: make(map[pin]*node, len(ins)+len(outs)+1),
		root:  &node{pin: pin{-1, "__ROOT__"}, outs: make([]*node, 0, len(ins)), typ: typeInput},
	}

	// constants are wired like chip inputs
	for _, cst := range [...]string{True, False, Clk} {
		p := pin{-1, cst}
		wr.nodes[p] = &node{pin: p, org: wr.root}
	}

	for _, in := range ins {
		p := pin{-1, in}
		n := &node{pin: p, org: wr.root}
		wr.nodes[p] = n
		wr.root.outs = append(wr.root.outs, n)
	}

	for _, out := range outs {
		p := pin{-1, out}
		wr.nodes[p] = &node{pin: p, typ: typeOutput}
	}
	return wr
}

// add wires pin in to pin out. Outputs connected to the False constant are
// silently discarded, the mount function gives those a scratch wire.
//
func (wr *wiring) add(in pin, iType pinType, out pin, oType pinType) error {
	if out.p < 0 {
		switch out.name {
		case False:
			return nil
		case Clk:
			return errors.New("output pin connected to clock signal")
		case True:
			return errors.New("output pin connected to constant true input")
		}
	}
	wi := wr.nodes[in]
	if wi == nil {
		wi = &node{pin: in, typ: iType}
		wr.nodes[in] = wi
	}
	wo := wr.nodes[out]
	switch {
	case wo == nil:
		wo = &node{pin: out, org: wi, typ: oType}
		wr.nodes[out] = wo
	case wo.org == nil:
		wo.org = wi
	case wo.org == wr.root:
		return errors.New("chip input pin used as output")
	default:
		return errors.New("output pin already used as output")
	}
	wi.outs = append(wi.outs, wo)
	return nil
}

// check validates the wiring and returns the resulting map of pins to wire
// names. Dangling internal wires are reported as errors, chip input pins
// keep their name, other wires are assigned generated names.
//
func (wr *wiring) check(spcs []*PartSpec) (map[pin]string, error) {
	pins := make(map[pin]string, len(wr.nodes))
	wireNum := 0
	for _, n := range wr.nodes {
		// error on non-output pins with no inbound connection
		if !n.isOutput() && n.org == nil {
			return nil, errors.New("pin " + pinName(spcs, n.pin) + " not connected to any output")
		}

		// remove temporary pins.
		// input pins can safely be ignored since len(n.outs) is 0 for them.
		// inspect every "next" output pin in the wire chain.
		for i := 0; i < len(n.outs); {
			next := n.outs[i]
			if len(next.outs) == 0 {
				if next.pin.p < 0 && !next.isOutput() {
					return nil, errors.New("pin " + pinName(spcs, next.pin) + " not connected to any input")
				}
				i++
				continue
			}
			// there is a wire chain: n -> next -> next.outs
			// merge it into n.outs = n.outs + next.outs
			for _, o := range next.outs {
				o.org = n
			}
			n.outs = append(n.outs, next.outs...)
			next.outs = nil
			// remove orphaned internal chip pins that are not outputs
			if next.pin.p < 0 && !next.isOutput() {
				n.outs[i] = n.outs[len(n.outs)-1]
				n.outs = n.outs[:len(n.outs)-1]
				delete(wr.nodes, next.pin)
			}
		}

		// assign a wire name to the pin tree
		if n.name == "" {
			t := n
			for prev := t.org; prev != nil && prev != wr.root; t, prev = prev, t.org {
			}
			if t.org == nil {
				t.setName("__" + strconv.Itoa(wireNum))
				wireNum++
			} else {
				// chip input pin or constant, use its name
				t.setName(t.pin.name)
			}
		}
		pins[n.pin] = n.name
	}

	return pins, nil
}
