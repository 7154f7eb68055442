package hwtest_test

import (
	"testing"

	"github.com/db47h/hwbench/hwtest"
)

func TestWithin(t *testing.T) {
	if !hwtest.Within(3000.3, 2900.0, 3100.0) {
		t.Error("3000.3 should be within [2900, 3100]")
	}
	if hwtest.Within(3100.1, 2900.0, 3100.0) {
		t.Error("3100.1 should not be within [2900, 3100]")
	}
	if !hwtest.Within(2900.0, 2900.0, 3100.0) {
		t.Error("bounds are inclusive")
	}
	if !hwtest.Within(16, 2, 16) {
		t.Error("16 should be within [2, 16]")
	}
}

func TestChecks(t *testing.T) {
	hwtest.CheckFrequency(t, 3000.3, 3000, 100)
	hwtest.CheckDuty(t, 50.01, 50, 5)
}
