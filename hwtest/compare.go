// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwtest provides utility functions for testing benches and parts.
//
package hwtest

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"testing"
	"time"

	hw "github.com/db47h/hwbench"
)

func connString(in, out []string) string {
	var b strings.Builder
	for _, n := range in {
		if b.Len() > 0 {
			b.WriteRune(',')
		}
		b.WriteString(n)
		b.WriteRune('=')
		b.WriteString(n)
	}
	for _, n := range out {
		if b.Len() > 0 {
			b.WriteRune(',')
		}
		b.WriteString(n)
		b.WriteRune('=')
		b.WriteString(n)
	}
	return b.String()
}

// pinList regroups expanded pin names back into a declaration string, turning
// "a[0], a[1], sel" into "a[2], sel".
//
func pinList(in []string) string {
	bus := make(map[string]int)
	var pins []string

	for _, n := range in {
		if b := strings.IndexRune(n, '['); b >= 0 {
			bn := n[:b]
			idx, err := strconv.Atoi(n[b+1 : strings.IndexRune(n, ']')])
			if err != nil {
				panic(err)
			}
			if bidx, ok := bus[bn]; !ok || bidx < idx {
				bus[bn] = idx
			}
		} else {
			pins = append(pins, n)
		}
	}

	var b strings.Builder
	for k, n := range bus {
		if b.Len() > 0 {
			b.WriteRune(',')
		}
		b.WriteString(k)
		b.WriteRune('[')
		b.WriteString(strconv.Itoa(n + 1))
		b.WriteRune(']')
	}
	for _, n := range pins {
		if b.Len() > 0 {
			b.WriteRune(',')
		}
		b.WriteString(n)
	}
	return b.String()
}

func randBool() bool {
	return rand.Int63()&(1<<62) != 0
}

// ComparePart drives two implementations of the same part with identical
// inputs and fails t on the first output mismatch. Both parts must have the
// same input and output interface. tpc is the step count per clock cycle and
// must accommodate the deeper of the two implementations.
//
func ComparePart(t *testing.T, tpc uint, part1 hw.NewPartFn, part2 hw.NewPartFn) {
	t.Helper()

	ps := part1("")
	conns := connString(ps.Inputs, ps.Outputs)
	ps1, ps2 := part1(conns), part2(conns)

	if len(ps1.Inputs) != len(ps2.Inputs) {
		t.Fatal("len(ps1.Inputs) != len(ps2.Inputs)")
	}
	if len(ps1.Outputs) != len(ps2.Outputs) {
		t.Fatal("len(ps1.Outputs) != len(ps2.Outputs)")
	}
	for i := range ps1.Inputs {
		if ps1.Inputs[i] != ps2.Inputs[i] {
			t.Fatalf("ps1.Inputs[i] = %q != ps2.Inputs[i] = %q", ps1.Inputs[i], ps2.Inputs[i])
		}
	}
	for i := range ps1.Outputs {
		if ps1.Outputs[i] != ps2.Outputs[i] {
			t.Fatalf("ps1.Outputs[i] = %q != ps2.Outputs[i] = %q", ps1.Outputs[i], ps2.Outputs[i])
		}
	}

	inputs := make([]bool, len(ps1.Inputs))
	outputs := make([][2]bool, len(ps1.Outputs))

	// wrap each part with its own set of output probes
	parts1 := hw.Parts{ps1}
	for i, o := range ps1.Outputs {
		n := i
		parts1 = append(parts1, hw.Output(func(b bool) { outputs[n][0] = b })("in="+o))
	}
	parts2 := hw.Parts{ps2}
	for i, o := range ps2.Outputs {
		n := i
		parts2 = append(parts2, hw.Output(func(b bool) { outputs[n][1] = b })("in="+o))
	}
	w1, err := hw.Chip("wrapper1", hw.In(pinList(ps1.Inputs)), nil, parts1)
	if err != nil {
		t.Fatal(err)
	}
	w2, err := hw.Chip("wrapper2", hw.In(pinList(ps2.Inputs)), nil, parts2)
	if err != nil {
		t.Fatal(err)
	}

	var parts hw.Parts
	for i, n := range ps1.Inputs {
		k := i
		parts = append(parts, hw.Input(func() bool { return inputs[k] })("out="+n))
	}
	cstr := connString(ps1.Inputs, nil)
	parts = append(parts, w1(cstr), w2(cstr))

	c, err := hw.NewCircuit(0, tpc, parts)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	errString := func(oname string, ex, got bool) string {
		var b strings.Builder
		for i, n := range ps1.Inputs {
			if b.Len() > 0 {
				b.WriteString(", ")
			}
			b.WriteString(n)
			b.WriteRune('=')
			if inputs[i] {
				b.WriteString("true")
			} else {
				b.WriteString("false")
			}
		}
		return fmt.Sprintf("\nExpected %s => %s=%v\nGot %v", b.String(), oname, ex, got)
	}

	compare := func() {
		c.Tock()
		c.Tick()
		for o, out := range outputs {
			if out[0] != out[1] {
				t.Fatal(errString(ps1.Outputs[o], out[0], out[1]))
			}
		}
	}

	iter := len(ps1.Inputs)
	if iter > 12 {
		iter = 12
	}
	iter = 1 << uint(iter)

	start := time.Now()
	c.Tick()

	// all inputs low, then all high, then random vectors
	compare()
	for in := range inputs {
		inputs[in] = true
	}
	compare()
	for i := 0; i < iter; i++ {
		for in := range inputs {
			inputs[in] = randBool()
		}
		compare()
	}

	elapsed := time.Since(start)
	ticks := c.Steps() / c.SPC()
	t.Logf("%d components. %d steps in %v. %d clock ticks => %.2f Hz", c.Size(), c.Steps(), elapsed, ticks, float64(ticks)/(float64(elapsed)/float64(time.Second)))
}
