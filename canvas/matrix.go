package canvas

import (
	"errors"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Common errors
var (
	ErrOutOfBounds = errors.New("position out of bounds")
	ErrInvalidSize = errors.New("invalid canvas size")
)

// continuation marks the second cell of a wide character.
const continuation = '\x00'

// Point is a cell position. Origin (0,0) is top-left, X grows rightward and
// Y grows downward.
type Point struct {
	X, Y int
}

// MatrixCanvas is a rune matrix with drawing primitives. Drawing outside the
// matrix is clipped silently; only Set reports out-of-bounds positions.
//
// MatrixCanvas is not safe for concurrent writes.
type MatrixCanvas struct {
	matrix [][]rune
	width  int
	height int
	merger *CharacterMerger
}

// NewMatrixCanvas creates a blank canvas. It returns nil for a non-positive size.
func NewMatrixCanvas(width, height int) *MatrixCanvas {
	if width <= 0 || height <= 0 {
		return nil
	}

	matrix := make([][]rune, height)
	for y := range matrix {
		matrix[y] = make([]rune, width)
		for x := range matrix[y] {
			matrix[y][x] = ' '
		}
	}

	return &MatrixCanvas{
		matrix: matrix,
		width:  width,
		height: height,
		merger: NewCharacterMerger(),
	}
}

// Size returns the width and height of the canvas.
func (c *MatrixCanvas) Size() (width, height int) {
	return c.width, c.height
}

// Matrix returns direct access to the underlying rune matrix.
func (c *MatrixCanvas) Matrix() [][]rune {
	return c.matrix
}

func (c *MatrixCanvas) inside(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

// Get returns the character at p, or ' ' outside the canvas.
func (c *MatrixCanvas) Get(p Point) rune {
	if !c.inside(p.X, p.Y) {
		return ' '
	}
	return c.matrix[p.Y][p.X]
}

// Set overwrites the character at p.
func (c *MatrixCanvas) Set(p Point, char rune) error {
	if !c.inside(p.X, p.Y) {
		return ErrOutOfBounds
	}
	c.matrix[p.Y][p.X] = char
	return nil
}

func (c *MatrixCanvas) setClipped(x, y int, char rune) {
	if c.inside(x, y) {
		c.matrix[y][x] = char
	}
}

func (c *MatrixCanvas) mergeClipped(x, y int, char rune) {
	if c.inside(x, y) {
		c.matrix[y][x] = c.merger.Merge(c.matrix[y][x], char)
	}
}

// Clear resets the canvas to all spaces.
func (c *MatrixCanvas) Clear() {
	for y := range c.matrix {
		for x := range c.matrix[y] {
			c.matrix[y][x] = ' '
		}
	}
}

// String returns the canvas as a string with newlines.
func (c *MatrixCanvas) String() string {
	var sb strings.Builder
	sb.Grow(c.height * (c.width + 1))

	for y, row := range c.matrix {
		for _, r := range row {
			if r == continuation {
				continue
			}
			sb.WriteRune(r)
		}
		if y < c.height-1 {
			sb.WriteRune('\n')
		}
	}
	return sb.String()
}

// Lines returns the rows of the canvas without trailing blanks.
func (c *MatrixCanvas) Lines() []string {
	lines := strings.Split(c.String(), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return lines
}

// FillRect sets every cell of the rectangle to char.
func (c *MatrixCanvas) FillRect(x, y, width, height int, char rune) {
	for row := y; row < y+height; row++ {
		for col := x; col < x+width; col++ {
			c.setClipped(col, row, char)
		}
	}
}

// DrawBox draws a rectangle outline with the given style. Boxes smaller than
// 2x2 are rejected; parts outside the canvas are clipped.
func (c *MatrixCanvas) DrawBox(x, y, width, height int, style BoxStyle) error {
	if width < 2 || height < 2 {
		return ErrInvalidSize
	}
	right, bottom := x+width-1, y+height-1

	for col := x + 1; col < right; col++ {
		c.setClipped(col, y, style.Horizontal)
		c.setClipped(col, bottom, style.Horizontal)
	}
	for row := y + 1; row < bottom; row++ {
		c.setClipped(x, row, style.Vertical)
		c.setClipped(right, row, style.Vertical)
	}
	c.setClipped(x, y, style.TopLeft)
	c.setClipped(right, y, style.TopRight)
	c.setClipped(x, bottom, style.BottomLeft)
	c.setClipped(right, bottom, style.BottomRight)
	return nil
}

// DrawLine draws a line between two points using Bresenham's algorithm.
// Crossings with existing lines are merged.
func (c *MatrixCanvas) DrawLine(p1, p2 Point, char rune) {
	dx := abs(p2.X - p1.X)
	dy := -abs(p2.Y - p1.Y)
	sx, sy := 1, 1
	if p1.X > p2.X {
		sx = -1
	}
	if p1.Y > p2.Y {
		sy = -1
	}

	x, y := p1.X, p1.Y
	e := dx + dy
	for {
		c.mergeClipped(x, y, char)
		if x == p2.X && y == p2.Y {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

// DrawText writes text starting at (x, y). Wide characters take two cells;
// a wide character that would straddle the right edge is dropped.
func (c *MatrixCanvas) DrawText(x, y int, text string) {
	if y < 0 || y >= c.height {
		return
	}

	col := x
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col >= c.width || (w == 2 && col+1 >= c.width) {
			return
		}
		if col >= 0 {
			c.matrix[y][col] = r
			if w == 2 {
				c.matrix[y][col+1] = continuation
			}
		}
		col += w
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
