// Package geometry holds the 2D helpers used by the relationship chart:
// points, rectangles, boundary snapping and grid snapping.
package geometry

// Point represents a 2D coordinate on the chart canvas.
type Point struct {
	X, Y float64
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Rect is an axis-aligned box given by its top-left corner and size.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.Width
}

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.Height
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{
		X: r.X + r.Width/2,
		Y: r.Y + r.Height/2,
	}
}

// Contains checks if a point is inside the rectangle. Edges count as inside,
// so an endpoint sitting on a node's outline is over that node.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() &&
		p.Y >= r.Y && p.Y <= r.Bottom()
}

// MovedTo returns the rectangle with its top-left corner at p.
func (r Rect) MovedTo(p Point) Rect {
	r.X, r.Y = p.X, p.Y
	return r
}
