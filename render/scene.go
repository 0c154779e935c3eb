// Package render draws relationship charts onto a character canvas.
package render

import (
	"math"

	"storymap/diagram"
	"storymap/editor"
	"storymap/geometry"
	"storymap/uid"
)

// Box is a character node in chart units.
type Box struct {
	ID   uid.UID
	Name string
	Rect geometry.Rect
}

// Link is an association line in chart units.
type Link struct {
	ID           uid.UID
	Label        string
	From, To     geometry.Point
	FromAttached bool
	ToAttached   bool
}

// Scene is everything a renderer draws. Boxes are listed bottom first.
type Scene struct {
	Boxes []Box
	Links []Link
}

// SceneFromChart captures the current visual state of a chart, including a
// drag in progress.
func SceneFromChart(c *editor.Chart) Scene {
	var s Scene
	for _, n := range c.Nodes() {
		s.Boxes = append(s.Boxes, Box{ID: n.ID, Name: n.Name, Rect: n.Rect})
	}
	for _, a := range c.Associations() {
		s.Links = append(s.Links, Link{
			ID:           a.ID,
			Label:        a.Label,
			From:         a.Start.Position,
			To:           a.End.Position,
			FromAttached: a.Start.Attached != uid.None,
			ToAttached:   a.End.Attached != uid.None,
		})
	}
	return s
}

// SceneFromProject lays out a saved project with the given node size.
func SceneFromProject(doc *diagram.Project, nodeWidth, nodeHeight float64) Scene {
	var s Scene
	for _, ch := range doc.Characters {
		s.Boxes = append(s.Boxes, Box{
			ID:   ch.ID,
			Name: ch.Name,
			Rect: geometry.Rect{X: ch.X, Y: ch.Y, Width: nodeWidth, Height: nodeHeight},
		})
	}
	for _, a := range doc.Associations {
		s.Links = append(s.Links, Link{
			ID:           a.ID,
			Label:        a.Label,
			From:         geometry.Point{X: a.Start.X, Y: a.Start.Y},
			To:           geometry.Point{X: a.End.X, Y: a.End.Y},
			FromAttached: a.Start.Attached(),
			ToAttached:   a.End.Attached(),
		})
	}
	return s
}

// Bounds returns the smallest rectangle holding every box and link end.
// An empty scene has empty bounds.
func (s Scene) Bounds() geometry.Rect {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	grow := func(p geometry.Point) {
		minX, minY = math.Min(minX, p.X), math.Min(minY, p.Y)
		maxX, maxY = math.Max(maxX, p.X), math.Max(maxY, p.Y)
	}

	for _, b := range s.Boxes {
		grow(b.Rect.Origin())
		grow(geometry.Point{X: b.Rect.Right(), Y: b.Rect.Bottom()})
	}
	for _, l := range s.Links {
		grow(l.From)
		grow(l.To)
	}
	if math.IsInf(minX, 1) {
		return geometry.Rect{}
	}
	return geometry.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
