// SPDX-License-Identifier: Unlicense OR MIT

package f32

import "testing"

func TestPointDiv(t *testing.T) {
	got := Pt(10, 30).Div(Pt(4, 0))
	if exp := Pt(2.5, 0); got != exp {
		t.Errorf("Div mismatch %v != %v", exp, got)
	}
	if back := got.Scale(Pt(4, 1)); back.X != 10 {
		t.Errorf("Scale did not invert Div: %v", back)
	}
}

func TestRectCanon(t *testing.T) {
	r := Rect(5, 8, 1, 2)
	if exp := (Rectangle{Min: Pt(1, 2), Max: Pt(5, 8)}); r != exp {
		t.Errorf("Rect mismatch %v != %v", exp, r)
	}
	if r.Empty() {
		t.Errorf("%v reported empty", r)
	}
	if sz := r.Size(); sz != Pt(4, 6) {
		t.Errorf("Size mismatch %v", sz)
	}
}
