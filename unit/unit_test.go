// SPDX-License-Identifier: Unlicense OR MIT

package unit_test

import (
	"image"
	"testing"

	"github.com/loomui/loom/f32"
	"github.com/loomui/loom/unit"
)

func TestMetric_PxToDp(t *testing.T) {
	m := unit.Metric{PxPerDp: 2}

	{
		exp := unit.Dp(5)
		got := m.PxToDp(m.Dp(5))
		if got != exp {
			t.Errorf("PxToDp conversion mismatch %v != %v", exp, got)
		}
	}

	{
		exp := image.Pt(20, 7)
		got := m.Pt(f32.Pt(10, 3.5))
		if got != exp {
			t.Errorf("Pt conversion mismatch %v != %v", exp, got)
		}
	}

	{
		exp := f32.Pt(10, 3.5)
		got := m.Logical(image.Pt(20, 7))
		if got != exp {
			t.Errorf("Logical conversion mismatch %v != %v", exp, got)
		}
	}
}

func TestMetric_ZeroValue(t *testing.T) {
	var m unit.Metric
	if got := m.Dp(12); got != 12 {
		t.Errorf("zero Metric converted 12dp to %dpx, want 12px", got)
	}
	if got := unit.ScaleFactor(-3); got.PxPerDp != 1 {
		t.Errorf("ScaleFactor(-3) = %v, want 1", got.PxPerDp)
	}
}
