// Package diagram contains the records shared by the model, the chart editor
// and the project file: characters, associations, plot events.
package diagram

import "storymap/uid"

// CurrentVersion is written into every saved project.
const CurrentVersion = "1"

// Character represents a story character and its node position on the chart.
type Character struct {
	ID          uid.UID `json:"id" validate:"required"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
}

// Endpoint is one end of an association. The position is always stored;
// Character is uid.None when the endpoint floats free.
type Endpoint struct {
	Character uid.UID `json:"character,omitempty"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

// Attached reports whether the endpoint is attached to a character.
func (e Endpoint) Attached() bool {
	return e.Character != uid.None
}

// Association represents a labeled relationship between two endpoints.
type Association struct {
	ID    uid.UID  `json:"id" validate:"required"`
	Start Endpoint `json:"start"`
	End   Endpoint `json:"end"`
	Label string   `json:"label,omitempty"`
}

// Endpoint returns the start or end endpoint.
func (a Association) Endpoint(isEnd bool) Endpoint {
	if isEnd {
		return a.End
	}
	return a.Start
}

// AttachedTo reports whether either endpoint is attached to the character.
func (a Association) AttachedTo(id uid.UID) bool {
	return id != uid.None && (a.Start.Character == id || a.End.Character == id)
}

// Event is a plot event on the timeline.
type Event struct {
	ID          uid.UID `json:"id" validate:"required"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
}

// Metadata contains optional project metadata.
type Metadata struct {
	Name     string `json:"name,omitempty"`
	Created  string `json:"created,omitempty"`
	Modified string `json:"modified,omitempty"`
}

// Project is the complete saved state of a story map. Events are listed in
// timeline order.
type Project struct {
	Version      string        `json:"version" validate:"required"`
	Metadata     Metadata      `json:"metadata,omitempty"`
	Characters   []Character   `json:"characters" validate:"dive"`
	Associations []Association `json:"associations" validate:"dive"`
	Events       []Event       `json:"events,omitempty" validate:"dive"`
}

// Clone creates a deep copy of the project.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}

	// Records hold no references, so slice copies are deep copies.
	clone := &Project{
		Version:      p.Version,
		Metadata:     p.Metadata,
		Characters:   make([]Character, len(p.Characters)),
		Associations: make([]Association, len(p.Associations)),
		Events:       make([]Event, len(p.Events)),
	}
	copy(clone.Characters, p.Characters)
	copy(clone.Associations, p.Associations)
	copy(clone.Events, p.Events)

	return clone
}
