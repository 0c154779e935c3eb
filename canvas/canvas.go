// Package canvas provides a character grid for drawing charts as text.
package canvas

// BoxStyle defines the characters used to draw a box.
type BoxStyle struct {
	TopLeft     rune
	TopRight    rune
	BottomLeft  rune
	BottomRight rune
	Horizontal  rune
	Vertical    rune
}

// Predefined box styles
var (
	// DefaultBoxStyle uses rounded corners
	DefaultBoxStyle = BoxStyle{
		TopLeft:     '╭',
		TopRight:    '╮',
		BottomLeft:  '╰',
		BottomRight: '╯',
		Horizontal:  '─',
		Vertical:    '│',
	}

	// SimpleBoxStyle uses ASCII characters
	SimpleBoxStyle = BoxStyle{
		TopLeft:     '+',
		TopRight:    '+',
		BottomLeft:  '+',
		BottomRight: '+',
		Horizontal:  '-',
		Vertical:    '|',
	}
)

// LineStyle holds the runes for link segments by direction.
type LineStyle struct {
	Horizontal rune
	Vertical   rune
	Rising     rune // bottom-left to top-right
	Falling    rune // top-left to bottom-right
}

var (
	DefaultLineStyle = LineStyle{Horizontal: '─', Vertical: '│', Rising: '╱', Falling: '╲'}
	SimpleLineStyle  = LineStyle{Horizontal: '-', Vertical: '|', Rising: '/', Falling: '\\'}
)

// For picks the rune for a segment from p1 to p2. Cells are about twice as
// tall as they are wide, which the thresholds account for.
func (s LineStyle) For(p1, p2 Point) rune {
	dx, dy := p2.X-p1.X, p2.Y-p1.Y
	switch {
	case abs(dy)*4 <= abs(dx):
		return s.Horizontal
	case abs(dx) <= abs(dy):
		return s.Vertical
	case (dx > 0) == (dy > 0):
		return s.Falling
	default:
		return s.Rising
	}
}
