package hwbench_test

import (
	"reflect"
	"testing"

	hw "github.com/db47h/hwbench"
)

func TestIO(t *testing.T) {
	data := []struct {
		name string
		spec string
		out  []string
		err  string
	}{
		{"single", "a", []string{"a"}, ""},
		{"list", "a, b", []string{"a", "b"}, ""},
		{"bus", "in[2]", []string{"in[0]", "in[1]"}, ""},
		{"mixed", "in[2], sel", []string{"in[0]", "in[1]", "sel"}, ""},
		{"empty", "", nil, ""},
		{"spaces", "  a ,\tb ", []string{"a", "b"}, ""},
		{"range", "in[0..2]", nil, `in "in[0..2]" at pos 1: unexpected bus range in pin declaration`},
		{"number", "2", nil, `in "2" at pos 1: expected pin name`},
		{"assignment", "a=b", nil, `in "a=b" at pos 2: unexpected "="`},
		{"missing_size", "in[]", nil, `in "in[]" at pos 4: integer value expected after '['`},
		{"missing_bracket", "in[2", nil, `in "in[2" at pos 4: closing ']' expected after index or range`},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			out, err := hw.IO(d.spec)
			if err == nil && d.err != "" || err != nil && err.Error() != d.err {
				t.Fatalf("Got error %q, expected %q", err, d.err)
			}
			if err == nil && !reflect.DeepEqual(out, d.out) {
				t.Errorf("Got %v, expected %v", out, d.out)
			}
		})
	}
}

func TestParseConnections(t *testing.T) {
	conn := func(pp, cp string) hw.Connection { return hw.Connection{PP: pp, CP: cp} }
	data := []struct {
		name  string
		conns string
		out   []hw.Connection
		err   string
	}{
		{"empty", "", nil, ""},
		{"single", "a=b", []hw.Connection{conn("a", "b")}, ""},
		{"list", "a=x, b=y", []hw.Connection{conn("a", "x"), conn("b", "y")}, ""},
		{"indexed", "in[4]=b", []hw.Connection{conn("in[4]", "b")}, ""},
		{"pairwise", "a[0..1]=v[2..3]", []hw.Connection{conn("a[0]", "v[2]"), conn("a[1]", "v[3]")}, ""},
		{"fanout", "out=x, out=y", []hw.Connection{conn("out", "x"), conn("out", "y")}, ""},
		{"fanout_range", "out=bus[0..1]", []hw.Connection{conn("out", "bus[0]"), conn("out", "bus[1]")}, ""},
		{"many_to_one", "in[0..1]=x", []hw.Connection{conn("in[0]", "x"), conn("in[1]", "x")}, ""},
		{"constant", "in=true", []hw.Connection{conn("in", "true")}, ""},
		{"bare_pin", "a", nil, `in "a" at pos 1: expected pin assignment`},
		{"mismatch", "a[0..1]=b[0..2]", nil, `in "a[0..1]=b[0..2]" at pos 1: pin count mismatch in pin assignment`},
		{"bad_range", "a[1..0]=b[1..0]", nil, `in "a[1..0]=b[1..0]" at pos 1: invalid bus range`},
		{"missing_lhs", "=b", nil, `in "=b" at pos 1: expected pin name`},
		{"missing_rhs", "a=", nil, `in "a=" at pos 3: expected pin name`},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			out, err := hw.ParseConnections(d.conns)
			if err == nil && d.err != "" || err != nil && err.Error() != d.err {
				t.Fatalf("Got error %q, expected %q", err, d.err)
			}
			if err == nil && !reflect.DeepEqual(out, d.out) {
				t.Errorf("Got %v, expected %v", out, d.out)
			}
		})
	}
}
