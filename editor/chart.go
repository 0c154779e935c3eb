// Package editor implements the interactive relationship chart: character
// nodes, association endpoints, and the drag state machine that moves them.
package editor

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"

	"storymap/diagram"
	"storymap/geometry"
	"storymap/uid"

	"github.com/rs/zerolog"
)

// ErrGestureInProgress is returned when the chart is asked to tear down its
// nodes while a drag is running.
var ErrGestureInProgress = errors.New("gesture in progress")

// EndpointRadius is the hit radius of an endpoint control.
const EndpointRadius = 8.0

// Options controls chart geometry.
type Options struct {
	GridInterval float64 // Node positions snap to this interval
	NodeWidth    float64
	NodeHeight   float64
}

// DefaultOptions returns the standard chart geometry.
func DefaultOptions() Options {
	return Options{
		GridInterval: 10,
		NodeWidth:    80,
		NodeHeight:   50,
	}
}

// node is the visual state of a character. hosted is the reverse index of
// endpoints attached to it.
type node struct {
	id     uid.UID
	name   string
	rect   geometry.Rect
	hosted map[uid.UID]struct{}
}

type endpoint struct {
	id       uid.UID
	assoc    uid.UID
	isEnd    bool
	pos      geometry.Point
	attached uid.UID
	inert    bool // skipped by hit testing while being dragged
}

type association struct {
	id         uid.UID
	label      string
	start, end uid.UID // endpoint ids
}

// Chart holds the visual state of the relationship chart. Endpoint ids are
// drawn from the shared allocator and released again on teardown.
//
// Chart is driven from a single event loop and is not safe for concurrent use.
type Chart struct {
	ids  *uid.Allocator
	opts Options

	nodes        map[uid.UID]*node
	zorder       []uid.UID // bottom to top
	endpoints    map[uid.UID]*endpoint
	associations map[uid.UID]*association

	state State
	drag  gesture

	listener Listener
	surface  Surface
	log      zerolog.Logger
}

// NewChart creates an empty chart.
func NewChart(ids *uid.Allocator, opts Options, log zerolog.Logger) *Chart {
	if opts.NodeWidth <= 0 || opts.NodeHeight <= 0 {
		def := DefaultOptions()
		opts.NodeWidth, opts.NodeHeight = def.NodeWidth, def.NodeHeight
	}
	return &Chart{
		ids:          ids,
		opts:         opts,
		nodes:        make(map[uid.UID]*node),
		endpoints:    make(map[uid.UID]*endpoint),
		associations: make(map[uid.UID]*association),
		log:          log,
	}
}

// SetListener sets the receiver of committed gestures.
func (c *Chart) SetListener(l Listener) {
	c.listener = l
}

// SetSurface sets the surface that redraws the chart.
func (c *Chart) SetSurface(s Surface) {
	c.surface = s
}

// Options returns the chart geometry.
func (c *Chart) Options() Options {
	return c.opts
}

// State returns the current gesture state.
func (c *Chart) State() State {
	return c.state
}

func (c *Chart) refresh() {
	if c.surface != nil {
		c.surface.Refresh()
	}
}

// AddCharacter places a character node. Adding an id that is already on the
// chart renames it and moves it, carrying its attached endpoints along.
func (c *Chart) AddCharacter(id uid.UID, name string, x, y float64) {
	if n, ok := c.nodes[id]; ok {
		n.name = name
		c.SetCharacterPosition(id, x, y)
		return
	}
	c.nodes[id] = &node{
		id:   id,
		name: name,
		rect: geometry.Rect{
			X:      geometry.ClampNonNegative(x),
			Y:      geometry.ClampNonNegative(y),
			Width:  c.opts.NodeWidth,
			Height: c.opts.NodeHeight,
		},
		hosted: make(map[uid.UID]struct{}),
	}
	c.zorder = append(c.zorder, id)
}

// SetCharacterPosition moves a node and every endpoint attached to it by the
// same delta. Negative coordinates are clamped to zero.
func (c *Chart) SetCharacterPosition(id uid.UID, x, y float64) bool {
	n, ok := c.nodes[id]
	if !ok {
		return false
	}
	c.moveNode(n, geometry.Point{X: geometry.ClampNonNegative(x), Y: geometry.ClampNonNegative(y)})
	return true
}

func (c *Chart) moveNode(n *node, to geometry.Point) {
	delta := to.Sub(n.rect.Origin())
	n.rect = n.rect.MovedTo(to)
	for eid := range n.hosted {
		ep := c.endpoints[eid]
		ep.pos = ep.pos.Add(delta)
	}
}

// AddAssociation places an association and its two endpoints. Endpoints that
// refer to a character not on the chart are placed detached.
func (c *Chart) AddAssociation(id uid.UID, start, end diagram.Endpoint, label string) {
	if _, ok := c.associations[id]; ok {
		c.removeAssociation(id)
	}

	a := &association{id: id, label: label}
	a.start = c.newEndpoint(id, false, start)
	a.end = c.newEndpoint(id, true, end)
	c.associations[id] = a
}

func (c *Chart) newEndpoint(assoc uid.UID, isEnd bool, rec diagram.Endpoint) uid.UID {
	ep := &endpoint{
		id:    c.ids.Allocate(),
		assoc: assoc,
		isEnd: isEnd,
		pos:   geometry.Point{X: rec.X, Y: rec.Y},
	}
	c.endpoints[ep.id] = ep
	if rec.Attached() && !c.attach(ep, rec.Character) {
		c.log.Warn().
			Int64("association", int64(assoc)).
			Int64("character", int64(rec.Character)).
			Msg("endpoint refers to a character that is not on the chart")
	}
	return ep.id
}

func (c *Chart) removeAssociation(id uid.UID) {
	a, ok := c.associations[id]
	if !ok {
		return
	}
	for _, eid := range []uid.UID{a.start, a.end} {
		c.detach(c.endpoints[eid])
		delete(c.endpoints, eid)
		c.ids.Release(eid)
	}
	delete(c.associations, id)
}

// EndpointID returns the id of the start or end endpoint of an association.
func (c *Chart) EndpointID(assoc uid.UID, isEnd bool) (uid.UID, bool) {
	a, ok := c.associations[assoc]
	if !ok {
		return uid.None, false
	}
	if isEnd {
		return a.end, true
	}
	return a.start, true
}

// SetEndpointPosition moves a single endpoint without changing its attachment.
func (c *Chart) SetEndpointPosition(id uid.UID, x, y float64) bool {
	ep, ok := c.endpoints[id]
	if !ok {
		return false
	}
	ep.pos = geometry.Point{X: x, Y: y}
	return true
}

// AttachEndpoint attaches an endpoint to a character, detaching it from the
// character it was attached to before.
func (c *Chart) AttachEndpoint(id, character uid.UID) bool {
	ep, ok := c.endpoints[id]
	if !ok {
		return false
	}
	if _, ok := c.nodes[character]; !ok {
		return false
	}
	if ep.attached != character {
		c.detach(ep)
		c.attach(ep, character)
	}
	return true
}

// DetachEndpoint detaches an endpoint from its character, if any.
func (c *Chart) DetachEndpoint(id uid.UID) bool {
	ep, ok := c.endpoints[id]
	if !ok {
		return false
	}
	c.detach(ep)
	return true
}

// attach and detach are the only places that touch node.hosted and
// endpoint.attached, which keeps the two sides in step.
func (c *Chart) attach(ep *endpoint, character uid.UID) bool {
	n, ok := c.nodes[character]
	if !ok {
		return false
	}
	n.hosted[ep.id] = struct{}{}
	ep.attached = character
	return true
}

func (c *Chart) detach(ep *endpoint) {
	if ep.attached == uid.None {
		return
	}
	if n, ok := c.nodes[ep.attached]; ok {
		delete(n.hosted, ep.id)
	}
	ep.attached = uid.None
}

// Clear removes every node and association and releases the endpoint ids.
func (c *Chart) Clear() error {
	if c.state != StateIdle {
		return ErrGestureInProgress
	}
	for eid := range c.endpoints {
		c.ids.Release(eid)
	}
	clear(c.nodes)
	clear(c.endpoints)
	clear(c.associations)
	c.zorder = nil
	return nil
}

// Rebuild tears the chart down and reconstructs it from model records. It
// refuses to run during a drag because that would discard the dragged element.
func (c *Chart) Rebuild(characters []diagram.Character, associations []diagram.Association) error {
	if err := c.Clear(); err != nil {
		return fmt.Errorf("rebuild chart: %w", err)
	}
	for _, ch := range characters {
		c.AddCharacter(ch.ID, ch.Name, ch.X, ch.Y)
	}
	for _, a := range associations {
		c.AddAssociation(a.ID, a.Start, a.End, a.Label)
	}
	c.log.Debug().
		Int("characters", len(characters)).
		Int("associations", len(associations)).
		Msg("chart rebuilt")
	c.refresh()
	return nil
}

// raise moves a node to the top of the drawing order.
func (c *Chart) raise(id uid.UID) {
	i := slices.Index(c.zorder, id)
	if i < 0 || i == len(c.zorder)-1 {
		return
	}
	c.zorder = append(slices.Delete(c.zorder, i, i+1), id)
}

// nodeAt returns the topmost node whose box contains p.
func (c *Chart) nodeAt(p geometry.Point) *node {
	for i := len(c.zorder) - 1; i >= 0; i-- {
		n := c.nodes[c.zorder[i]]
		if n.rect.Contains(p) {
			return n
		}
	}
	return nil
}

// NodeAt returns the topmost character whose node contains p.
func (c *Chart) NodeAt(p geometry.Point) (NodeView, bool) {
	n := c.nodeAt(p)
	if n == nil {
		return NodeView{}, false
	}
	return c.nodeView(n), true
}

// HitTest returns the element under p. Endpoint controls sit above nodes;
// the nearest hit-testable endpoint within EndpointRadius wins.
func (c *Chart) HitTest(p geometry.Point) Target {
	best, bestDist := uid.None, math.Inf(1)
	for _, ep := range c.endpoints {
		if ep.inert {
			continue
		}
		d := math.Hypot(ep.pos.X-p.X, ep.pos.Y-p.Y)
		if d <= EndpointRadius && (d < bestDist || (d == bestDist && ep.id < best)) {
			best, bestDist = ep.id, d
		}
	}
	if best != uid.None {
		return EndpointTarget(best)
	}
	if n := c.nodeAt(p); n != nil {
		return NodeTarget(n.id)
	}
	return Target{}
}

// NodeView is a read-only snapshot of a character node.
type NodeView struct {
	ID     uid.UID
	Name   string
	Rect   geometry.Rect
	Hosted []uid.UID // attached endpoint ids, ascending
}

// EndpointView is a read-only snapshot of an association endpoint.
type EndpointView struct {
	ID          uid.UID
	Association uid.UID
	IsEnd       bool
	Position    geometry.Point
	Attached    uid.UID
}

// AssociationView is a read-only snapshot of an association.
type AssociationView struct {
	ID    uid.UID
	Label string
	Start EndpointView
	End   EndpointView
}

func (c *Chart) nodeView(n *node) NodeView {
	return NodeView{ID: n.id, Name: n.name, Rect: n.rect, Hosted: sortedIDs(n.hosted)}
}

func (c *Chart) endpointView(ep *endpoint) EndpointView {
	return EndpointView{
		ID:          ep.id,
		Association: ep.assoc,
		IsEnd:       ep.isEnd,
		Position:    ep.pos,
		Attached:    ep.attached,
	}
}

// Nodes returns every node in drawing order, bottom first.
func (c *Chart) Nodes() []NodeView {
	views := make([]NodeView, 0, len(c.zorder))
	for _, id := range c.zorder {
		views = append(views, c.nodeView(c.nodes[id]))
	}
	return views
}

// Node returns the node for a character.
func (c *Chart) Node(id uid.UID) (NodeView, bool) {
	n, ok := c.nodes[id]
	if !ok {
		return NodeView{}, false
	}
	return c.nodeView(n), true
}

// Hosted returns the ids of the endpoints attached to a character.
func (c *Chart) Hosted(id uid.UID) []uid.UID {
	n, ok := c.nodes[id]
	if !ok {
		return nil
	}
	return sortedIDs(n.hosted)
}

// Associations returns every association ordered by id.
func (c *Chart) Associations() []AssociationView {
	views := make([]AssociationView, 0, len(c.associations))
	for _, a := range c.associations {
		views = append(views, AssociationView{
			ID:    a.id,
			Label: a.label,
			Start: c.endpointView(c.endpoints[a.start]),
			End:   c.endpointView(c.endpoints[a.end]),
		})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].ID < views[j].ID })
	return views
}

// Endpoint returns the start or end endpoint of an association.
func (c *Chart) Endpoint(assoc uid.UID, isEnd bool) (EndpointView, bool) {
	eid, ok := c.EndpointID(assoc, isEnd)
	if !ok {
		return EndpointView{}, false
	}
	return c.endpointView(c.endpoints[eid]), true
}

// Validate checks that every node's hosted set matches the endpoints
// attached to it, and that every attachment names a node on the chart.
func (c *Chart) Validate() error {
	for eid, ep := range c.endpoints {
		if ep.attached == uid.None {
			continue
		}
		n, ok := c.nodes[ep.attached]
		if !ok {
			return fmt.Errorf("endpoint %d attached to missing node %d", eid, ep.attached)
		}
		if _, ok := n.hosted[eid]; !ok {
			return fmt.Errorf("endpoint %d attached to node %d but not hosted by it", eid, n.id)
		}
	}
	for nid, n := range c.nodes {
		for eid := range n.hosted {
			ep, ok := c.endpoints[eid]
			if !ok {
				return fmt.Errorf("node %d hosts missing endpoint %d", nid, eid)
			}
			if ep.attached != nid {
				return fmt.Errorf("node %d hosts endpoint %d attached to %d", nid, eid, ep.attached)
			}
		}
	}
	return nil
}

func sortedIDs(set map[uid.UID]struct{}) []uid.UID {
	ids := make([]uid.UID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
