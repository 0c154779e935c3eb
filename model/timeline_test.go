package model

import (
	"testing"

	"storymap/uid"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eventNames(tl *Timeline) []string {
	var names []string
	for _, e := range tl.Events() {
		names = append(names, e.Name)
	}
	return names
}

func newTestTimeline(names ...string) (*Timeline, []uid.UID) {
	tl := NewTimeline(uid.NewAllocator(), zerolog.Nop())
	var ids []uid.UID
	for _, n := range names {
		ids = append(ids, tl.NewEvent(n, ""))
	}
	return tl, ids
}

func TestTimelineOrder(t *testing.T) {
	tl, _ := newTestTimeline("A", "B", "C")
	assert.Equal(t, []string{"A", "B", "C"}, eventNames(tl))
	assert.True(t, tl.HasChanges())
}

func TestTimelineMoveEvent(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     []string
		ok       bool
	}{
		{"forward", 0, 2, []string{"B", "C", "A", "D"}, true},
		{"backward", 3, 1, []string{"A", "D", "B", "C"}, true},
		{"same", 1, 1, []string{"A", "B", "C", "D"}, true},
		{"out of range", 0, 4, []string{"A", "B", "C", "D"}, false},
		{"negative", -1, 0, []string{"A", "B", "C", "D"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl, _ := newTestTimeline("A", "B", "C", "D")
			assert.Equal(t, tt.ok, tl.MoveEvent(tt.from, tt.to))
			assert.Equal(t, tt.want, eventNames(tl))
		})
	}
}

func TestTimelineSwapEvents(t *testing.T) {
	tl, _ := newTestTimeline("A", "B", "C")
	require.True(t, tl.SwapEvents(0, 2))
	assert.Equal(t, []string{"C", "B", "A"}, eventNames(tl))
	assert.False(t, tl.SwapEvents(0, 3))
}

func TestTimelineEditDelete(t *testing.T) {
	tl, ids := newTestTimeline("A", "B", "C")
	tl.ResetChanges()

	assert.False(t, tl.EditEvent(999, "x", ""))
	assert.False(t, tl.HasChanges())

	require.True(t, tl.EditEvent(ids[1], "B2", "rewritten"))
	tl.DeleteEvent(ids[0])
	tl.DeleteEvent(ids[0])

	assert.Equal(t, []string{"B2", "C"}, eventNames(tl))
	assert.Equal(t, "rewritten", tl.Events()[0].Description)
	assert.Equal(t, 2, tl.Len())
}
