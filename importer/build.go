package importer

import (
	"fmt"
	"math"

	"storymap/diagram"
	"storymap/geometry"
	"storymap/model"
	"storymap/uid"

	"github.com/rs/zerolog"
)

// Options controls the placement of imported characters, in chart units.
type Options struct {
	NodeWidth  float64
	NodeHeight float64
	Grid       float64
}

// DefaultOptions matches the default chart geometry.
func DefaultOptions() Options {
	return Options{NodeWidth: 80, NodeHeight: 50, Grid: 10}
}

// Build turns a parsed graph into a project. Nodes with a position keep it;
// the rest are laid out on a grid below them. Every edge becomes an
// association attached to the facing sides of its two characters, or left
// free where the edge ends at a point node.
func Build(g *Graph, opts Options, log zerolog.Logger) (*diagram.Project, error) {
	project := model.NewProject(nil, log)
	project.Metadata.Name = g.Name

	positions := layout(g, opts)
	ids := make(map[string]uid.UID, len(g.Nodes))
	rects := make(map[string]geometry.Rect, len(g.Nodes))
	points := make(map[string]geometry.Point)

	for i, n := range g.Nodes {
		p := positions[i]
		if n.Point {
			points[n.Key] = p
			continue
		}
		ids[n.Key] = project.Relationships.NewCharacter(n.Label, "", p.X, p.Y)
		rects[n.Key] = geometry.Rect{X: p.X, Y: p.Y, Width: opts.NodeWidth, Height: opts.NodeHeight}
	}

	// anchor is where an edge should aim: a character's center or a point.
	anchor := func(key string) geometry.Point {
		if r, ok := rects[key]; ok {
			return r.Center()
		}
		return points[key]
	}
	endpoint := func(key, other string) diagram.Endpoint {
		r, ok := rects[key]
		if !ok {
			p := points[key]
			return diagram.Endpoint{X: p.X, Y: p.Y}
		}
		p := facing(r, anchor(other))
		return diagram.Endpoint{Character: ids[key], X: p.X, Y: p.Y}
	}

	for _, e := range g.Edges {
		id := project.Relationships.NewAssociation(endpoint(e.From, e.To), endpoint(e.To, e.From), e.Label)
		if id == uid.None {
			return nil, fmt.Errorf("edge %s -> %s: unknown node", e.From, e.To)
		}
	}

	log.Debug().
		Int("characters", len(ids)).
		Int("associations", len(g.Edges)).
		Msg("graph imported")
	return project.Document(), nil
}

// facing returns the point on r's outline that faces toward.
func facing(r geometry.Rect, toward geometry.Point) geometry.Point {
	p := geometry.Point{
		X: math.Min(math.Max(toward.X, r.X), r.Right()),
		Y: math.Min(math.Max(toward.Y, r.Y), r.Bottom()),
	}
	return geometry.ClassifyEdge(r, p)
}

// layout returns a chart position for every node: the top-left corner for
// characters, the point itself for point nodes.
func layout(g *Graph, opts Options) []geometry.Point {
	pos := make([]geometry.Point, len(g.Nodes))

	top := 0.0
	var pending []int
	for i, n := range g.Nodes {
		if n.Pos == nil {
			pending = append(pending, i)
			continue
		}
		pos[i] = *n.Pos
		bottom := n.Pos.Y
		if !n.Point {
			bottom += opts.NodeHeight
		}
		top = math.Max(top, bottom+opts.NodeHeight)
	}

	cols := int(math.Ceil(math.Sqrt(float64(len(pending)))))
	for k, i := range pending {
		x := float64(k%cols) * opts.NodeWidth * 2
		y := top + float64(k/cols)*opts.NodeHeight*2
		if g.Nodes[i].Point {
			x += opts.NodeWidth / 2
			y += opts.NodeHeight / 2
		}
		pos[i] = geometry.Point{X: x, Y: y}
	}

	for i, n := range g.Nodes {
		if n.Point {
			continue
		}
		pos[i].X = geometry.ClampNonNegative(geometry.SnapToGrid(pos[i].X, opts.Grid))
		pos[i].Y = geometry.ClampNonNegative(geometry.SnapToGrid(pos[i].Y, opts.Grid))
	}
	return pos
}
