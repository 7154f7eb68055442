package hwtest_test

import (
	"testing"

	hw "github.com/db47h/hwbench"
	"github.com/db47h/hwbench/hwtest"
	"github.com/db47h/hwbench/logic"
)

func TestComparePart(t *testing.T) {
	or, err := hw.Chip("custom_or", hw.In("a, b"), hw.Out("out"), hw.Parts{
		logic.Nand("a=a, b=a, out=notA"),
		logic.Nand("a=b, b=b, out=notB"),
		logic.Nand("a=notA, b=notB, out=out"),
	})
	if err != nil {
		t.Fatal(err)
	}
	hwtest.ComparePart(t, 4, logic.Or, or)
}
