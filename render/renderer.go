package render

import (
	"math"
	"strings"

	"storymap/canvas"
	"storymap/geometry"
)

// maxLabelWidth caps association labels, in cells.
const maxLabelWidth = 24

// Viewport maps chart units to canvas cells.
type Viewport struct {
	Origin geometry.Point // chart point shown in cell (0,0)
	ScaleX float64        // chart units per column
	ScaleY float64        // chart units per row
}

// ToCell returns the cell containing chart point p.
func (v Viewport) ToCell(p geometry.Point) canvas.Point {
	return canvas.Point{
		X: int(math.Floor((p.X - v.Origin.X) / v.ScaleX)),
		Y: int(math.Floor((p.Y - v.Origin.Y) / v.ScaleY)),
	}
}

// ToChart returns the chart point at the top-left corner of cell c.
func (v Viewport) ToChart(c canvas.Point) geometry.Point {
	return geometry.Point{
		X: v.Origin.X + float64(c.X)*v.ScaleX,
		Y: v.Origin.Y + float64(c.Y)*v.ScaleY,
	}
}

// Pan moves the viewport by whole cells.
func (v Viewport) Pan(cols, rows int) Viewport {
	v.Origin.X += float64(cols) * v.ScaleX
	v.Origin.Y += float64(rows) * v.ScaleY
	return v
}

// Renderer draws scenes in one style.
type Renderer struct {
	style Style
}

// NewRenderer creates a renderer.
func NewRenderer(style Style) *Renderer {
	return &Renderer{style: style}
}

// Draw paints s onto c through vp: links first, then boxes over them, then
// labels and endpoint markers on top.
func (r *Renderer) Draw(c *canvas.MatrixCanvas, s Scene, vp Viewport) {
	for _, l := range s.Links {
		from, to := vp.ToCell(l.From), vp.ToCell(l.To)
		c.DrawLine(from, to, r.style.Line.For(from, to))
	}
	for _, b := range s.Boxes {
		r.drawBox(c, b, vp)
	}
	for _, l := range s.Links {
		r.drawLabel(c, l, vp)
	}
	for _, l := range s.Links {
		c.Set(vp.ToCell(l.From), r.marker(l.FromAttached))
		c.Set(vp.ToCell(l.To), r.marker(l.ToAttached))
	}
}

func (r *Renderer) marker(attached bool) rune {
	if attached {
		return r.style.Attached
	}
	return r.style.Free
}

func (r *Renderer) drawBox(c *canvas.MatrixCanvas, b Box, vp Viewport) {
	tl := vp.ToCell(b.Rect.Origin())
	br := vp.ToCell(geometry.Point{X: b.Rect.Right(), Y: b.Rect.Bottom()})
	w := max(br.X-tl.X+1, 2)
	h := max(br.Y-tl.Y+1, 2)

	c.FillRect(tl.X+1, tl.Y+1, w-2, h-2, ' ')
	c.DrawBox(tl.X, tl.Y, w, h, r.style.Box)

	inner, rows := w-2, h-2
	if inner <= 0 || rows <= 0 {
		return
	}
	lines := canvas.WrapText(b.Name, inner)
	if len(lines) > rows {
		lines = lines[:rows]
		lines[rows-1] = canvas.FitText(lines[rows-1]+" "+r.style.Ellipsis, inner, r.style.Ellipsis)
	}
	top := tl.Y + 1 + (rows-len(lines))/2
	for i, line := range lines {
		x := tl.X + 1 + canvas.CenterOffset(inner, canvas.StringWidth(line))
		c.DrawText(x, top+i, line)
	}
}

func (r *Renderer) drawLabel(c *canvas.MatrixCanvas, l Link, vp Viewport) {
	if l.Label == "" {
		return
	}
	from, to := vp.ToCell(l.From), vp.ToCell(l.To)
	mid := canvas.Point{X: (from.X + to.X) / 2, Y: (from.Y + to.Y) / 2}
	text := canvas.FitText(l.Label, maxLabelWidth, r.style.Ellipsis)

	// beside the line, so the label does not hide it
	if r.style.Line.For(from, to) == r.style.Line.Horizontal {
		y := mid.Y - 1
		if y < 0 {
			y = mid.Y + 1
		}
		c.DrawText(mid.X-canvas.StringWidth(text)/2, y, text)
		return
	}
	c.DrawText(mid.X+2, mid.Y, text)
}

// Fit returns a viewport whose origin is the top-left corner of the scene.
func Fit(s Scene, scaleX, scaleY float64) Viewport {
	return Viewport{Origin: s.Bounds().Origin(), ScaleX: scaleX, ScaleY: scaleY}
}

// Render draws the whole scene onto a canvas just large enough for it and
// returns the text with trailing blanks removed. An empty scene renders as "".
func (r *Renderer) Render(s Scene, scaleX, scaleY float64) string {
	if len(s.Boxes) == 0 && len(s.Links) == 0 {
		return ""
	}
	vp := Fit(s, scaleX, scaleY)
	b := s.Bounds()
	size := vp.ToCell(geometry.Point{X: b.Right(), Y: b.Bottom()})

	c := canvas.NewMatrixCanvas(size.X+1, size.Y+1)
	r.Draw(c, s, vp)
	return strings.Join(c.Lines(), "\n")
}
