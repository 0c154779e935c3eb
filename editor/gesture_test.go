package editor

import (
	"errors"
	"math/rand"
	"testing"

	"storymap/diagram"
	"storymap/geometry"
	"storymap/uid"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Drag character A to (50,50): the attached start endpoint follows by the
// same delta and stays attached.
func TestNodeDragMovesAttachedEndpoints(t *testing.T) {
	tc := newTestChart(t)

	tc.Press(pt(10, 10), NodeTarget(tc.a))
	require.Equal(t, StateDraggingNode, tc.State())
	tc.Move(pt(35, 37))
	tc.Move(pt(60, 60))
	tc.Release(pt(60, 60))

	assert.Equal(t, StateIdle, tc.State())
	n, _ := tc.Node(tc.a)
	assert.Equal(t, pt(50, 50), n.Rect.Origin())

	start := tc.endpoint(t, false)
	assert.Equal(t, pt(130, 75), start.Position)
	assert.Equal(t, tc.a, start.Attached)
	assert.Equal(t, pt(200, 25), tc.endpoint(t, true).Position)

	require.Len(t, tc.rec.moves, 1)
	move := tc.rec.moves[0]
	assert.Equal(t, tc.a, move.Node)
	assert.Equal(t, pt(50, 50), move.Position)
	assert.Equal(t, []EndpointCommit{{
		Association: tc.assoc,
		IsEnd:       false,
		Attached:    tc.a,
		Position:    pt(130, 75),
	}}, move.Endpoints)
	assert.Empty(t, tc.rec.commits)
}

func TestNodeDragSnapsToGrid(t *testing.T) {
	tc := newTestChart(t)

	tc.Press(pt(5, 5), NodeTarget(tc.a))
	tc.Move(pt(52, 68)) // 47,63 before snapping

	n, _ := tc.Node(tc.a)
	assert.Equal(t, pt(40, 60), n.Rect.Origin())
}

func TestNodeDragClampsAtOrigin(t *testing.T) {
	tc := newTestChart(t)

	tc.Press(pt(210, 10), NodeTarget(tc.b))
	tc.Move(pt(-100, -100))
	tc.Release(pt(-100, -100))

	n, _ := tc.Node(tc.b)
	assert.Equal(t, pt(0, 0), n.Rect.Origin())
	assert.Equal(t, pt(0, 25), tc.endpoint(t, true).Position)
}

// Drag the start endpoint from A onto B: it leaves A's reverse index, joins
// B's, and lands on B's boundary.
func TestEndpointDragReattaches(t *testing.T) {
	tc := newTestChart(t)

	tc.Press(pt(80, 25), EndpointTarget(tc.startEP))
	require.Equal(t, StateDraggingEndpoint, tc.State())

	tc.Move(pt(150, 30))
	assert.Equal(t, pt(150, 30), tc.endpoint(t, false).Position, "free pointer is followed unsnapped")

	tc.Move(pt(210, 25))
	assert.Equal(t, pt(200, 25), tc.endpoint(t, false).Position, "over a node the endpoint snaps to its edge")

	tc.Release(pt(205, 40))

	start := tc.endpoint(t, false)
	want := geometry.ClassifyEdge(geometry.Rect{X: 200, Y: 0, Width: 80, Height: 50}, pt(205, 40))
	assert.Equal(t, want, start.Position)
	assert.Equal(t, pt(200, 40), start.Position)
	assert.Equal(t, tc.b, start.Attached)
	assert.Empty(t, tc.Hosted(tc.a))
	assert.ElementsMatch(t, []uid.UID{tc.startEP, tc.endEP}, tc.Hosted(tc.b))
	require.NoError(t, tc.Validate())

	require.Len(t, tc.rec.commits, 1)
	assert.Equal(t, EndpointCommit{
		Association: tc.assoc,
		IsEnd:       false,
		Attached:    tc.b,
		Position:    pt(200, 40),
	}, tc.rec.commits[0])
	assert.Equal(t, diagram.Endpoint{Character: tc.b, X: 200, Y: 40}, tc.rec.commits[0].Endpoint())
}

func TestEndpointDropOnSameNodeResnaps(t *testing.T) {
	tc := newTestChart(t)

	tc.Press(pt(80, 25), EndpointTarget(tc.startEP))
	tc.Move(pt(40, 3))
	tc.Release(pt(40, 3))

	start := tc.endpoint(t, false)
	assert.Equal(t, tc.a, start.Attached)
	assert.Equal(t, pt(40, 0), start.Position)
	assert.Equal(t, []uid.UID{tc.startEP}, tc.Hosted(tc.a))
}

// Release over empty canvas: the endpoint detaches and keeps the exact
// release point.
func TestEndpointReleasedOnCanvasDetaches(t *testing.T) {
	tc := newTestChart(t)

	tc.Press(pt(80, 25), EndpointTarget(tc.startEP))
	tc.Move(pt(300, 200))
	tc.Release(pt(400.5, 300.25))

	start := tc.endpoint(t, false)
	assert.Equal(t, uid.None, start.Attached)
	assert.Equal(t, pt(400.5, 300.25), start.Position)
	assert.Empty(t, tc.Hosted(tc.a))
	require.Len(t, tc.rec.commits, 1)
	assert.Equal(t, uid.None, tc.rec.commits[0].Attached)
	assert.NoError(t, tc.Validate())
}

// An attached endpoint grabbed from just outside its node still detaches
// when dropped on empty canvas.
func TestEndpointGrabbedOutsideNodeDetaches(t *testing.T) {
	tc := newTestChart(t)
	require.Equal(t, EndpointTarget(tc.startEP), tc.HitTest(pt(85, 25)))

	tc.Press(pt(85, 25), Target{})
	require.Equal(t, StateDraggingEndpoint, tc.State())
	tc.Move(pt(300, 200))
	tc.Release(pt(400, 300))

	start := tc.endpoint(t, false)
	assert.Equal(t, uid.None, start.Attached)
	assert.Equal(t, pt(400, 300), start.Position)
	assert.Empty(t, tc.Hosted(tc.a))
	require.Len(t, tc.rec.commits, 1)
	assert.Equal(t, uid.None, tc.rec.commits[0].Attached)
	assert.NoError(t, tc.Validate())
}

func TestEndpointDragThatNeverTouchesANodeRollsBack(t *testing.T) {
	tc := newTestChart(t)
	tc.DetachEndpoint(tc.endEP)
	tc.SetEndpointPosition(tc.endEP, 500, 500)

	tc.Press(pt(500, 500), Target{})
	require.Equal(t, StateDraggingEndpoint, tc.State())
	tc.Move(pt(600, 650))
	tc.Release(pt(600, 650))

	end := tc.endpoint(t, true)
	assert.Equal(t, pt(500, 500), end.Position)
	assert.Equal(t, uid.None, end.Attached)
	assert.Empty(t, tc.rec.commits)
	assert.Equal(t, StateIdle, tc.State())
}

func TestDraggedEndpointIsNotHitTestable(t *testing.T) {
	tc := newTestChart(t)

	tc.Press(pt(80, 25), EndpointTarget(tc.startEP))
	assert.Equal(t, NodeTarget(tc.a), tc.HitTest(pt(80, 25)))

	tc.Release(pt(80, 25))
	assert.Equal(t, EndpointTarget(tc.startEP), tc.HitTest(pt(80, 25)))
}

func TestPlacementCommitsOnNextClick(t *testing.T) {
	tc := newTestChart(t)
	loose := tc.ids.Allocate()
	tc.AddAssociation(loose, diagram.Endpoint{Character: tc.a, X: 40, Y: 50}, diagram.Endpoint{X: 40, Y: 50}, "new")

	require.True(t, tc.BeginEndpointPlacement(loose, true))
	assert.False(t, tc.BeginEndpointPlacement(loose, false), "only one gesture at a time")
	assert.Equal(t, StateDraggingEndpoint, tc.State())

	tc.Move(pt(120, 300))
	tc.Press(pt(120, 300), Target{}) // the placing click; ignored as a press
	tc.Release(pt(120, 300))

	end, _ := tc.Endpoint(loose, true)
	assert.Equal(t, pt(120, 300), end.Position)
	assert.Equal(t, uid.None, end.Attached)
	require.Len(t, tc.rec.commits, 1)
	assert.True(t, tc.rec.commits[0].IsEnd)
}

func TestPlacementOntoNodeAttaches(t *testing.T) {
	tc := newTestChart(t)
	loose := tc.ids.Allocate()
	tc.AddAssociation(loose, diagram.Endpoint{Character: tc.a, X: 40, Y: 50}, diagram.Endpoint{X: 40, Y: 50}, "new")

	require.True(t, tc.BeginEndpointPlacement(loose, true))
	tc.Release(pt(240, 48))

	end, _ := tc.Endpoint(loose, true)
	assert.Equal(t, tc.b, end.Attached)
	assert.Equal(t, pt(240, 50), end.Position)
	assert.False(t, tc.BeginEndpointPlacement(999, true))
}

func TestPressDuringGestureIsIgnored(t *testing.T) {
	tc := newTestChart(t)

	tc.Press(pt(10, 10), NodeTarget(tc.a))
	tc.Press(pt(210, 10), NodeTarget(tc.b))
	tc.Press(pt(200, 25), EndpointTarget(tc.endEP))
	tc.Move(pt(110, 110))
	tc.Release(pt(110, 110))

	a, _ := tc.Node(tc.a)
	b, _ := tc.Node(tc.b)
	assert.Equal(t, pt(100, 100), a.Rect.Origin())
	assert.Equal(t, pt(200, 0), b.Rect.Origin())
	require.Len(t, tc.rec.moves, 1)
	assert.Equal(t, tc.a, tc.rec.moves[0].Node)
}

func TestEventsOutsideGestureAreIgnored(t *testing.T) {
	tc := newTestChart(t)
	before := tc.surface.refreshes

	tc.Move(pt(10, 10))
	tc.Release(pt(10, 10))
	tc.Cancel()
	tc.Press(pt(700, 700), Target{})

	assert.Equal(t, StateIdle, tc.State())
	assert.Equal(t, before, tc.surface.refreshes)
	assert.Empty(t, tc.rec.moves)
	assert.Empty(t, tc.rec.commits)
}

func TestMoveRefreshesSurface(t *testing.T) {
	tc := newTestChart(t)
	before := tc.surface.refreshes

	tc.Press(pt(10, 10), NodeTarget(tc.a))
	tc.Move(pt(20, 20))

	assert.Greater(t, tc.surface.refreshes, before)
}

func TestCancelNodeDragRestores(t *testing.T) {
	tc := newTestChart(t)

	tc.Press(pt(10, 10), NodeTarget(tc.a))
	tc.Move(pt(300, 300))
	tc.Cancel()

	n, _ := tc.Node(tc.a)
	assert.Equal(t, pt(0, 0), n.Rect.Origin())
	assert.Equal(t, pt(80, 25), tc.endpoint(t, false).Position)
	assert.Equal(t, StateIdle, tc.State())
	assert.Empty(t, tc.rec.moves)
}

func TestCancelEndpointDragRestores(t *testing.T) {
	tc := newTestChart(t)

	tc.Press(pt(80, 25), EndpointTarget(tc.startEP))
	tc.Move(pt(210, 30))
	tc.Cancel()

	start := tc.endpoint(t, false)
	assert.Equal(t, pt(80, 25), start.Position)
	assert.Equal(t, tc.a, start.Attached)
	assert.Equal(t, EndpointTarget(tc.startEP), tc.HitTest(pt(80, 25)))
}

func TestRebuildRefusedDuringGesture(t *testing.T) {
	tc := newTestChart(t)

	tc.Press(pt(10, 10), NodeTarget(tc.a))
	err := tc.Rebuild(nil, nil)

	assert.True(t, errors.Is(err, ErrGestureInProgress))
	assert.Len(t, tc.Nodes(), 2, "nothing is torn down mid-gesture")
	assert.ErrorIs(t, tc.Clear(), ErrGestureInProgress)
}

// Listener callbacks run after the chart is idle, so a listener may rebuild.
func TestListenerMayRebuild(t *testing.T) {
	ids := uid.NewAllocator()
	c := NewChart(ids, DefaultOptions(), zerolog.Nop())
	a := ids.Allocate()
	chars := []diagram.Character{{ID: a, Name: "A"}}
	require.NoError(t, c.Rebuild(chars, nil))

	var rebuildErr error
	c.SetListener(listenerFunc(func(m NodeMove) {
		chars[0].X, chars[0].Y = m.Position.X, m.Position.Y
		rebuildErr = c.Rebuild(chars, nil)
	}))

	c.Press(pt(1, 1), NodeTarget(a))
	c.Move(pt(31, 41))
	c.Release(pt(31, 41))

	require.NoError(t, rebuildErr)
	n, _ := c.Node(a)
	assert.Equal(t, pt(30, 40), n.Rect.Origin())
}

type listenerFunc func(NodeMove)

func (f listenerFunc) NodeMoved(m NodeMove)             { f(m) }
func (f listenerFunc) EndpointCommitted(EndpointCommit) {}

// Random gesture sequences must keep the reverse index consistent and every
// attached endpoint on its node's boundary.
func TestRandomGesturesKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ids := uid.NewAllocator()
	c := NewChart(ids, DefaultOptions(), zerolog.Nop())
	c.SetListener(&recorder{})
	opts := c.Options()

	var chars []diagram.Character
	for i := 0; i < 5; i++ {
		chars = append(chars, diagram.Character{
			ID: ids.Allocate(),
			X:  float64(i%3) * 150,
			Y:  float64(i/3) * 120,
		})
	}
	rectOf := func(ch diagram.Character) geometry.Rect {
		return geometry.Rect{X: ch.X, Y: ch.Y, Width: opts.NodeWidth, Height: opts.NodeHeight}
	}
	randomEndpoint := func() diagram.Endpoint {
		if rng.Intn(4) == 0 {
			return diagram.Endpoint{X: rng.Float64() * 500, Y: rng.Float64() * 400}
		}
		ch := chars[rng.Intn(len(chars))]
		p := geometry.ClassifyEdge(rectOf(ch), pt(ch.X+rng.Float64()*opts.NodeWidth, ch.Y+rng.Float64()*opts.NodeHeight))
		return diagram.Endpoint{Character: ch.ID, X: p.X, Y: p.Y}
	}
	var assocs []diagram.Association
	for i := 0; i < 6; i++ {
		assocs = append(assocs, diagram.Association{ID: ids.Allocate(), Start: randomEndpoint(), End: randomEndpoint()})
	}
	require.NoError(t, c.Rebuild(chars, assocs))

	randomPoint := func() geometry.Point {
		return pt(rng.Float64()*520-10, rng.Float64()*420-10)
	}

	for step := 0; step < 3000; step++ {
		switch r := rng.Intn(10); {
		case r < 3:
			p := randomPoint()
			if rng.Intn(2) == 0 {
				// aim at an endpoint
				views := c.Associations()
				v := views[rng.Intn(len(views))]
				p = v.Start.Position
			}
			c.Press(p, Target{})
		case r < 7:
			c.Move(randomPoint())
		case r < 9:
			c.Release(randomPoint())
		default:
			c.Cancel()
		}

		require.NoError(t, c.Validate(), "step %d", step)
		if c.State() != StateIdle {
			continue
		}
		for _, a := range c.Associations() {
			for _, ep := range []EndpointView{a.Start, a.End} {
				if ep.Attached == uid.None {
					continue
				}
				n, ok := c.Node(ep.Attached)
				require.True(t, ok)
				require.True(t, geometry.OnBoundary(n.Rect, ep.Position, 1e-6),
					"step %d: endpoint %d at %v off node %v", step, ep.ID, ep.Position, n.Rect)
			}
		}
	}
}
