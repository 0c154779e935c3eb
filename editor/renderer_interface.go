package editor

import (
	"storymap/diagram"
	"storymap/geometry"
	"storymap/uid"
)

// Surface is the drawing surface showing the chart. The chart asks it to
// redraw after every visual change.
type Surface interface {
	Refresh()
}

// Listener receives committed gesture results. It is called after the chart
// has returned to StateIdle, so it may rebuild the chart.
type Listener interface {
	NodeMoved(NodeMove)
	EndpointCommitted(EndpointCommit)
}

// EndpointCommit is the final state of one association endpoint.
type EndpointCommit struct {
	Association uid.UID
	IsEnd       bool
	Attached    uid.UID
	Position    geometry.Point
}

// Endpoint converts the commit into the model's endpoint record.
func (e EndpointCommit) Endpoint() diagram.Endpoint {
	return diagram.Endpoint{Character: e.Attached, X: e.Position.X, Y: e.Position.Y}
}

// NodeMove reports a finished node drag: the node's final position and the
// final state of every endpoint attached to it.
type NodeMove struct {
	Node      uid.UID
	Position  geometry.Point
	Endpoints []EndpointCommit
}
