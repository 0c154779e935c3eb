package editor

import (
	"storymap/geometry"
	"storymap/uid"
)

// gesture is the bookkeeping of the drag in progress. Only one exists at a time.
type gesture struct {
	node   uid.UID
	offset geometry.Point // press point relative to the node's top-left corner
	origin geometry.Point // node position before the drag

	endpoint    uid.UID
	originalPos geometry.Point
	touchedNode bool // attached at the start, or the pointer was over a node during the drag
	placing     bool // started by BeginEndpointPlacement
}

// Press starts a gesture. A zero target is resolved with HitTest. Presses
// while a gesture is running are ignored.
func (c *Chart) Press(p geometry.Point, t Target) {
	if c.state != StateIdle {
		c.log.Debug().Stringer("state", c.state).Msg("press ignored during gesture")
		return
	}
	if t.Kind == TargetNone {
		t = c.HitTest(p)
	}

	switch t.Kind {
	case TargetNode:
		n, ok := c.nodes[t.ID]
		if !ok {
			return
		}
		c.drag = gesture{
			node:   n.id,
			offset: p.Sub(n.rect.Origin()),
			origin: n.rect.Origin(),
		}
		c.state = StateDraggingNode
		c.raise(n.id)
		c.log.Debug().Int64("node", int64(n.id)).Msg("node drag started")
	case TargetEndpoint:
		ep, ok := c.endpoints[t.ID]
		if !ok {
			return
		}
		c.startEndpointDrag(ep, false)
		if c.nodeAt(p) != nil {
			c.drag.touchedNode = true
		}
	}
}

// BeginEndpointPlacement puts an endpoint under the pointer without a press,
// so that the next click places it. It is used right after an association is
// created. It returns false if a gesture is running or the association is unknown.
func (c *Chart) BeginEndpointPlacement(assoc uid.UID, isEnd bool) bool {
	if c.state != StateIdle {
		return false
	}
	eid, ok := c.EndpointID(assoc, isEnd)
	if !ok {
		return false
	}
	c.startEndpointDrag(c.endpoints[eid], true)
	return true
}

func (c *Chart) startEndpointDrag(ep *endpoint, placing bool) {
	c.drag = gesture{
		endpoint:    ep.id,
		originalPos: ep.pos,
		touchedNode: ep.attached != uid.None,
		placing:     placing,
	}
	ep.inert = true
	c.state = StateDraggingEndpoint
	c.log.Debug().
		Int64("endpoint", int64(ep.id)).
		Bool("placing", placing).
		Msg("endpoint drag started")
}

// Move updates the dragged element. Moves outside a gesture are ignored.
func (c *Chart) Move(p geometry.Point) {
	switch c.state {
	case StateDraggingNode:
		n := c.nodes[c.drag.node]
		to := p.Sub(c.drag.offset)
		to.X = geometry.ClampNonNegative(geometry.SnapToGrid(to.X, c.opts.GridInterval))
		to.Y = geometry.ClampNonNegative(geometry.SnapToGrid(to.Y, c.opts.GridInterval))
		c.moveNode(n, to)
	case StateDraggingEndpoint:
		ep := c.endpoints[c.drag.endpoint]
		if n := c.nodeAt(p); n != nil {
			ep.pos = geometry.ClassifyEdge(n.rect, p)
			c.drag.touchedNode = true
		} else {
			ep.pos = p
		}
	default:
		return
	}
	c.refresh()
}

// Release finishes the gesture and reports the result to the listener.
// Releases outside a gesture are ignored.
//
// An endpoint released over a node attaches to it at the snapped boundary
// point. Released over empty canvas it detaches at the release point, unless
// it started detached and never passed over a node; such a drag is treated as
// aborted and the endpoint returns to where it started.
func (c *Chart) Release(p geometry.Point) {
	switch c.state {
	case StateDraggingNode:
		c.releaseNode()
	case StateDraggingEndpoint:
		c.releaseEndpoint(p)
	}
}

func (c *Chart) releaseNode() {
	n := c.nodes[c.drag.node]
	c.endGesture()

	move := NodeMove{Node: n.id, Position: n.rect.Origin()}
	for _, eid := range sortedIDs(n.hosted) {
		move.Endpoints = append(move.Endpoints, c.commitOf(c.endpoints[eid]))
	}
	c.log.Debug().
		Int64("node", int64(n.id)).
		Float64("x", move.Position.X).
		Float64("y", move.Position.Y).
		Msg("node drag committed")
	c.refresh()
	if c.listener != nil {
		c.listener.NodeMoved(move)
	}
}

func (c *Chart) releaseEndpoint(p geometry.Point) {
	ep := c.endpoints[c.drag.endpoint]
	g := c.drag
	ep.inert = false
	c.endGesture()

	n := c.nodeAt(p)
	switch {
	case n != nil:
		if ep.attached != n.id {
			c.detach(ep)
			c.attach(ep, n.id)
		}
		ep.pos = geometry.ClassifyEdge(n.rect, p)
	case g.touchedNode || g.placing:
		c.detach(ep)
		ep.pos = p
	default:
		ep.pos = g.originalPos
		c.log.Debug().Int64("endpoint", int64(ep.id)).Msg("endpoint drag aborted, rolled back")
		c.refresh()
		return
	}

	commit := c.commitOf(ep)
	c.log.Debug().
		Int64("association", int64(commit.Association)).
		Bool("end", commit.IsEnd).
		Int64("attached", int64(commit.Attached)).
		Msg("endpoint committed")
	c.refresh()
	if c.listener != nil {
		c.listener.EndpointCommitted(commit)
	}
}

// Cancel aborts the gesture in progress and restores the dragged element.
func (c *Chart) Cancel() {
	switch c.state {
	case StateDraggingNode:
		c.moveNode(c.nodes[c.drag.node], c.drag.origin)
	case StateDraggingEndpoint:
		ep := c.endpoints[c.drag.endpoint]
		ep.pos = c.drag.originalPos
		ep.inert = false
	default:
		return
	}
	c.endGesture()
	c.log.Debug().Msg("gesture cancelled")
	c.refresh()
}

func (c *Chart) endGesture() {
	c.state = StateIdle
	c.drag = gesture{}
}

func (c *Chart) commitOf(ep *endpoint) EndpointCommit {
	return EndpointCommit{
		Association: ep.assoc,
		IsEnd:       ep.isEnd,
		Attached:    ep.attached,
		Position:    ep.pos,
	}
}
