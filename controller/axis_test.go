package controller

import (
	"testing"

	"chessmate/core"
)

func TestStepsForUnitsLinearity(t *testing.T) {
	clock := &core.SimClock{AutoAdvance: 50}
	axis, _ := newBenchAxis("X", testAxisConfig(), clock, 0)

	for _, u := range []int64{0, 1, 2, 7, 100, -1, -3} {
		if got := axis.StepsForUnits(u); got != u*575 {
			t.Errorf("StepsForUnits(%d) = %d, want %d", u, got, u*575)
		}
		if axis.StepsForUnits(-u) != -axis.StepsForUnits(u) {
			t.Errorf("StepsForUnits not odd-symmetric at %d", u)
		}
	}
}
