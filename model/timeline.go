package model

import (
	"fmt"
	"slices"

	"storymap/diagram"
	"storymap/uid"

	"github.com/rs/zerolog"
)

// Timeline keeps plot events in story order.
type Timeline struct {
	ids     *uid.Allocator
	events  map[uid.UID]*diagram.Event
	order   []uid.UID
	changed bool
	log     zerolog.Logger
}

// NewTimeline creates an empty timeline that draws ids from ids.
func NewTimeline(ids *uid.Allocator, log zerolog.Logger) *Timeline {
	return &Timeline{
		ids:    ids,
		events: make(map[uid.UID]*diagram.Event),
		log:    log,
	}
}

// NewEvent appends an event to the end of the timeline.
func (t *Timeline) NewEvent(name, description string) uid.UID {
	id := t.ids.Allocate()
	t.events[id] = &diagram.Event{ID: id, Name: name, Description: description}
	t.order = append(t.order, id)
	t.changed = true
	return id
}

// AddEvent appends a persisted event, registering its id.
func (t *Timeline) AddEvent(e diagram.Event) error {
	if err := t.ids.RegisterExisting(e.ID); err != nil {
		return fmt.Errorf("event %q: %w", e.Name, err)
	}
	t.events[e.ID] = &e
	t.order = append(t.order, e.ID)
	t.changed = true
	return nil
}

// EditEvent replaces the name and description of an event.
func (t *Timeline) EditEvent(id uid.UID, name, description string) bool {
	e, ok := t.events[id]
	if !ok {
		return false
	}
	e.Name, e.Description = name, description
	t.changed = true
	return true
}

// DeleteEvent removes an event and releases its id.
func (t *Timeline) DeleteEvent(id uid.UID) {
	if _, ok := t.events[id]; !ok {
		return
	}
	delete(t.events, id)
	t.order = slices.DeleteFunc(t.order, func(o uid.UID) bool { return o == id })
	t.ids.Release(id)
	t.changed = true
}

// MoveEvent moves the event at index from so that it ends up at index to.
func (t *Timeline) MoveEvent(from, to int) bool {
	if !t.inRange(from) || !t.inRange(to) {
		return false
	}
	if from == to {
		return true
	}
	id := t.order[from]
	t.order = slices.Delete(t.order, from, from+1)
	t.order = slices.Insert(t.order, to, id)
	t.changed = true
	return true
}

// SwapEvents exchanges the events at indexes i and j.
func (t *Timeline) SwapEvents(i, j int) bool {
	if !t.inRange(i) || !t.inRange(j) {
		return false
	}
	t.order[i], t.order[j] = t.order[j], t.order[i]
	t.changed = true
	return true
}

func (t *Timeline) inRange(i int) bool {
	return i >= 0 && i < len(t.order)
}

// Events returns the events in timeline order.
func (t *Timeline) Events() []diagram.Event {
	list := make([]diagram.Event, 0, len(t.order))
	for _, id := range t.order {
		list = append(list, *t.events[id])
	}
	return list
}

// Len returns the number of events.
func (t *Timeline) Len() int {
	return len(t.order)
}

// HasChanges reports whether anything changed since the last ResetChanges.
func (t *Timeline) HasChanges() bool {
	return t.changed
}

// ResetChanges clears the unsaved-changes flag.
func (t *Timeline) ResetChanges() {
	t.changed = false
}

func (t *Timeline) clear() {
	clear(t.events)
	t.order = nil
	t.changed = false
}
