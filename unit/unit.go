// SPDX-License-Identifier: Unlicense OR MIT

/*

Package unit implements device independent units.

Device independent pixel, or dp, is the unit for window geometry
independent of the underlying display. Native windows report their
geometry in pixels, or px, whose size vary between displays. A Metric
converts between the two using the scale factor of the display a window
is on.

To keep a constant visual size across displays, always use dps to
describe window and webview geometry. Only use pixels for values
reported by or passed directly to the native toolkit.

*/
package unit

import (
	"fmt"
	"image"
	"math"

	"github.com/loomui/loom/f32"
)

// Metric converts Dp values to device pixels.
type Metric struct {
	// PxPerDp is the device pixels per dp, known as the scale factor
	// of the display.
	PxPerDp float32
}

// Dp represents device independent pixels. 1 dp will
// have the same apparent size across platforms and
// display resolutions.
type Dp float32

// ScaleFactor returns the Metric for a display with the given scale
// factor. Non-positive factors are treated as 1.
func ScaleFactor(s float64) Metric {
	if s <= 0 || math.IsNaN(s) {
		s = 1
	}
	return Metric{PxPerDp: float32(s)}
}

// Dp converts v to pixels, rounded to the nearest integer value.
func (c Metric) Dp(v Dp) int {
	return int(math.Round(float64(nonZero(c.PxPerDp)) * float64(v)))
}

// PxToDp converts v px to dp.
func (c Metric) PxToDp(v int) Dp {
	return Dp(float32(v) / nonZero(c.PxPerDp))
}

// Pt converts a logical point to pixels.
func (c Metric) Pt(p f32.Point) image.Point {
	return image.Point{X: c.Dp(Dp(p.X)), Y: c.Dp(Dp(p.Y))}
}

// Logical converts a pixel point to dps.
func (c Metric) Logical(p image.Point) f32.Point {
	return f32.Point{X: float32(c.PxToDp(p.X)), Y: float32(c.PxToDp(p.Y))}
}

// Rect converts a logical rectangle to pixels.
func (c Metric) Rect(r f32.Rectangle) image.Rectangle {
	return image.Rectangle{Min: c.Pt(r.Min), Max: c.Pt(r.Max)}
}

func (v Dp) String() string {
	return fmt.Sprintf("%gdp", float32(v))
}

func nonZero(v float32) float32 {
	if v == 0. {
		return 1
	}
	return v
}
