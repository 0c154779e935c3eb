package geometry

import "math"

// Band fractions used by ClassifyEdge.
const (
	EdgeBand = 0.2  // outer band on each side that snaps to that side
	MidLow   = 0.33 // lower bound of the middle third used by the fallback
	MidHigh  = 0.67 // upper bound of the middle third used by the fallback
)

const gridEpsilon = 1e-9

// ClampNonNegative returns v, or 0 if v is negative.
func ClampNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// SnapToGrid truncates v to a multiple of interval. Truncation is toward
// zero, so SnapToGrid(47, 10) is 40 and SnapToGrid(-47, 10) is -40.
// A non-positive interval disables snapping.
func SnapToGrid(v, interval float64) float64 {
	if interval <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	q := v / interval
	// q may land a hair below an integer for values that are already on the grid.
	if r := math.Round(q); math.Abs(q-r) < gridEpsilon {
		q = r
	}
	return math.Trunc(q) * interval
}

// ClassifyEdge moves p onto the boundary of r.
//
// Each axis is tested on its own: a coordinate in the outer 20% on either
// side snaps to that side and a coordinate in the middle stays put. When
// neither axis snapped, the point is moved to the midpoint of one side:
// left or right when p lies in the middle third vertically (picked by which
// half p is in), otherwise top or bottom. A rectangle without area returns p.
func ClassifyEdge(r Rect, p Point) Point {
	if r.Width <= 0 || r.Height <= 0 {
		return p
	}

	x, y := p.X, p.Y
	midX, midY := false, false

	switch {
	case x < r.X+r.Width*EdgeBand:
		x = r.X
	case x > r.X+r.Width*(1-EdgeBand):
		x = r.Right()
	default:
		midX = true
	}

	switch {
	case y < r.Y+r.Height*EdgeBand:
		y = r.Y
	case y > r.Y+r.Height*(1-EdgeBand):
		y = r.Bottom()
	default:
		midY = true
	}

	if !midX || !midY {
		return Point{X: x, Y: y}
	}

	c := r.Center()
	inMiddleThird := y > r.Y+r.Height*MidLow && y < r.Y+r.Height*MidHigh
	switch {
	case inMiddleThird && x < c.X:
		return Point{X: r.X, Y: c.Y}
	case inMiddleThird:
		return Point{X: r.Right(), Y: c.Y}
	case y < c.Y:
		return Point{X: c.X, Y: r.Y}
	default:
		return Point{X: c.X, Y: r.Bottom()}
	}
}

// OnBoundary reports whether p lies on the outline of r within tolerance.
func OnBoundary(r Rect, p Point, tolerance float64) bool {
	inX := p.X >= r.X-tolerance && p.X <= r.Right()+tolerance
	inY := p.Y >= r.Y-tolerance && p.Y <= r.Bottom()+tolerance
	if !inX || !inY {
		return false
	}
	return math.Abs(p.X-r.X) <= tolerance || math.Abs(p.X-r.Right()) <= tolerance ||
		math.Abs(p.Y-r.Y) <= tolerance || math.Abs(p.Y-r.Bottom()) <= tolerance
}
