// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtest

import (
	"testing"

	"golang.org/x/exp/constraints"
)

// Within reports whether lo <= v <= hi.
//
func Within[T constraints.Ordered](v, lo, hi T) bool {
	return lo <= v && v <= hi
}

// CheckFrequency fails t if the measured frequency got falls outside of
// target±tol. All values in Hertz.
//
func CheckFrequency(t *testing.T, got, target, tol float64) {
	t.Helper()
	if !Within(got, target-tol, target+tol) {
		t.Errorf("frequency out of range: got %.2f Hz, want %.2f Hz ±%.2f", got, target, tol)
	}
}

// CheckDuty fails t if the measured duty cycle got falls outside of
// target±tol. All values in percent.
//
func CheckDuty(t *testing.T, got, target, tol float64) {
	t.Helper()
	if !Within(got, target-tol, target+tol) {
		t.Errorf("duty cycle out of range: got %.1f%%, want %.1f%% ±%.1f", got, target, tol)
	}
}
