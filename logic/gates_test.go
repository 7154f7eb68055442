package logic_test

import (
	"strings"
	"testing"

	hw "github.com/db47h/hwbench"
	"github.com/db47h/hwbench/logic"
)

const testTPC = 8

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
				t.Errorf("%s %v = %v, got %v", part.Name, inputs, exp, out)
			}
		}
	}
}

func Test_gate_lib(t *testing.T) {
	tr, err := hw.Chip("TRUE", hw.In("a"), hw.Out("out"), hw.Parts{
		logic.And("a=true, b=true, out=out"),
	})
	if err != nil {
		t.Fatal(err)
	}
	fa, err := hw.Chip("FALSE", hw.In("a"), hw.Out("out"), hw.Parts{
		logic.Or("a=false, b=false, out=out"),
	})
	if err != nil {
		t.Fatal(err)
	}
	td := []struct {
		name   string
		gate   hw.NewPartFn
		result [][]bool // a=0 && b=0, a=0 && b=1, a=1 && b=0, a=1 && b=1
	}{
		{"NOT", logic.Not, [][]bool{{true, false}}},
		{"AND", logic.And, [][]bool{{false, false, false, true}}},
		{"NAND", logic.Nand, [][]bool{{true, true, true, false}}},
		{"OR", logic.Or, [][]bool{{false, true, true, true}}},
		{"NOR", logic.Nor, [][]bool{{true, false, false, false}}},
		{"XOR", logic.Xor, [][]bool{{false, true, true, false}}},
		{"XNOR", logic.Xnor, [][]bool{{true, false, false, true}}},
		{"TRUE", tr, [][]bool{{true, true}}},
		{"FALSE", fa, [][]bool{{false, false}}},
		{"MUX", logic.Mux, [][]bool{{false, false, false, true, true, false, true, true}}},
		{"DMUX", logic.DMux, [][]bool{{false, false, true, false}, {false, false, false, true}}},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			testGate(t, d.name, d.gate, d.result)
		})
	}
}
