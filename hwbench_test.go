package hwbench_test

import (
	"strings"
	"testing"

	hw "github.com/db47h/hwbench"
	"github.com/db47h/hwbench/logic"
	"github.com/pkg/errors"
)

const testTPC = 16

func trace(t *testing.T, err error) {
	t.Helper()
	if err, ok := err.(interface {
		StackTrace() errors.StackTrace
	}); ok {
		for _, f := range err.StackTrace() {
			t.Logf("%+v ", f)
		}
	}
}

// testGate drives all input combinations of a gate and compares its outputs
// to the given truth table, one row per output pin, the first input pin
// being the most significant bit of the combination index.
//
func testGate(t *testing.T, name string, gate hw.NewPartFn, result [][]bool) {
	t.Helper()
	part := gate("").PartSpec // build dummy gate just to get to the partspec
	inputs := make([]bool, len(part.Inputs))
	outputs := make([]bool, len(part.Outputs))
	var w strings.Builder
	parts := make(hw.Parts, 0, len(part.Inputs)+len(part.Outputs)+1)
	for i, n := range part.Inputs {
		w.WriteByte(',')
		w.WriteString(n)
		w.WriteByte('=')
		w.WriteString(n)
		in := &inputs[i]
		parts = append(parts, hw.Input(func() bool { return *in })("out="+n))
	}
	for i, n := range part.Outputs {
		w.WriteByte(',')
		w.WriteString(n)
		w.WriteByte('=')
		w.WriteString(n)
		out := &outputs[i]
		parts = append(parts, hw.Output(func(v bool) { *out = v })("in="+n))
	}
	wr := w.String()
	// trim first ','
	if len(wr) > 0 {
		wr = wr[1:]
	}
	parts = append(parts, gate(wr))
	c, err := hw.NewCircuit(0, testTPC, parts)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	tot := 1 << uint(len(part.Inputs))
	for i := 0; i < tot; i++ {
		for bit := range inputs {
			inputs[len(inputs)-bit-1] = (i & (1 << uint(bit))) != 0
		}
		c.TickTock()
		for o, out := range outputs {
			exp := result[o][i]
			if exp != out {
				t.Errorf("%s %v = %v, got %v", name, inputs, exp, out)
			}
		}
	}
}

func Test_gate_custom(t *testing.T) {
	and, err := hw.Chip("AND", hw.In("a, b"), hw.Out("out"),
		hw.Parts{
			logic.Nand("a=a, b=b, out=nand"),
			logic.Nand("a=nand, b=nand, out=out"),
		})
	if err != nil {
		t.Fatal(err)
	}
	or, err := hw.Chip("OR", hw.In("a, b"), hw.Out("out"),
		hw.Parts{
			logic.Nand("a=a, b=a, out=notA"),
			logic.Nand("a=b, b=b, out=notB"),
			logic.Nand("a=notA, b=notB, out=out"),
		})
	if err != nil {
		t.Fatal(err)
	}
	nor, err := hw.Chip("NOR", hw.In("a, b"), hw.Out("out"),
		hw.Parts{
			or("a=a, b=b, out=orAB"),
			logic.Nand("a=orAB, b=orAB, out=out"),
		})
	if err != nil {
		t.Fatal(err)
	}
	xor, err := hw.Chip("XOR", hw.In("a, b"), hw.Out("out"),
		hw.Parts{
			logic.Nand("a=a, b=b, out=nandAB"),
			logic.Nand("a=a, b=nandAB, out=w0"),
			logic.Nand("a=b, b=nandAB, out=w1"),
			logic.Nand("a=w0, b=w1, out=out"),
		})
	if err != nil {
		t.Fatal(err)
	}
	xnor, err := hw.Chip("XNOR", hw.In("a, b"), hw.Out("out"),
		hw.Parts{
			or("a=a, b=b, out=or"),
			logic.Nand("a=a, b=b, out=nand"),
			logic.Nand("a=or, b=nand, out=out"),
		})
	if err != nil {
		t.Fatal(err)
	}
	not, err := hw.Chip("NOT", hw.In("a"), hw.Out("out"),
		hw.Parts{
			logic.Nand("a=a, b=a, out=out"),
		})
	if err != nil {
		t.Fatal(err)
	}
	mux, err := hw.Chip("MUX", hw.In("a, b, sel"), hw.Out("out"), hw.Parts{
		logic.Not("in=sel, out=notSel"),
		logic.And("a=a, b=notSel, out=w0"),
		logic.And("a=b, b=sel, out=w1"),
		logic.Or("a=w0, b=w1, out=out"),
	})
	if err != nil {
		t.Fatal(err)
	}
	dmux, err := hw.Chip("DMUX", hw.In("in, sel"), hw.Out("a, b"), hw.Parts{
		logic.Not("in=sel, out=notSel"),
		logic.And("a=in, b=notSel, out=a"),
		logic.And("a=in, b=sel, out=b"),
	})
	if err != nil {
		t.Fatal(err)
	}
	td := []struct {
		name   string
		gate   hw.NewPartFn
		result [][]bool
	}{
		{"AND", and, [][]bool{{false, false, false, true}}},
		{"OR", or, [][]bool{{false, true, true, true}}},
		{"NOR", nor, [][]bool{{true, false, false, false}}},
		{"XOR", xor, [][]bool{{false, true, true, false}}},
		{"XNOR", xnor, [][]bool{{true, false, false, true}}},
		{"NOT", not, [][]bool{{true, false}}},
		{"MUX", mux, [][]bool{{false, false, false, true, true, false, true, true}}},
		{"DMUX", dmux, [][]bool{{false, false, true, false}, {false, false, false, true}}},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			testGate(t, d.name, d.gate, d.result)
		})
	}
}

// Test a basic clock with a Nor gate.
//
// The purpose of this test is to catch changes in propagation delays from
// Inputs and Outputs as well as testing loops between inputs and outputs.
//
// Clocks should be implemented as custom components or inputs. Really.
//
func Test_clock(t *testing.T) {
	var disable, tick bool

	check := func(v bool) {
		t.Helper()
		if tick != v {
			t.Errorf("expected %v, got %v", v, tick)
		}
	}
	// we could implement the clock directly as a Nor in the circuit (with no
	// less gate delays) but we wrap it into a stand-alone chip in order to
	// add a layer of complexity for testing purposes.
	clk, err := hw.Chip("CLK", hw.In("disable"), hw.Out("tick"), hw.Parts{
		logic.Nor("a=disable, b=tick, out=tick"),
	})
	if err != nil {
		t.Fatal(err)
	}
	c, err := hw.NewCircuit(0, testTPC, hw.Parts{
		hw.Input(func() bool { return disable })("out=disable"),
		clk("disable=disable, tick=out"),
		hw.Output(func(out bool) { tick = out })("in=out"),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	// we have two wires: "disable" and "out".
	// note that Output("out", ...) is delayed by one step after the Nor
	// updates it.

	disable = true
	c.Step()
	check(false)
	c.Step()
	// this is an expected signal change appearing in the first couple of
	// steps due to signal propagation delay
	check(true)
	c.Step()
	check(false)
	c.Step()
	check(false)

	disable = false
	c.Step()
	check(false)
	c.Step()
	check(false)
	c.Step()
	// the clock starts ticking now.
	check(true)
	c.Step()
	check(false)
	c.Step()
	check(true)
	disable = true
	c.Step()
	check(false)
	c.Step()
	check(true)
	c.Step()
	// the clock stops ticking now.
	check(false)
	c.Step()
	check(false)
}
