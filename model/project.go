package model

import (
	"errors"
	"fmt"
	"time"

	"storymap/diagram"
	"storymap/uid"

	"github.com/rs/zerolog"
)

// ErrCorruptProject is returned when a project document cannot be loaded
// without breaking id uniqueness or referential integrity.
var ErrCorruptProject = errors.New("corrupt project")

// Project is the editing session: one id allocator shared by the
// relationship map and the timeline.
type Project struct {
	IDs           *uid.Allocator
	Relationships *Relationships
	Timeline      *Timeline
	Metadata      diagram.Metadata

	log zerolog.Logger
}

// NewProject creates an empty project. A nil allocator gets a fresh one.
func NewProject(ids *uid.Allocator, log zerolog.Logger) *Project {
	if ids == nil {
		ids = uid.NewAllocator(uid.WithLogger(log))
	}
	return &Project{
		IDs:           ids,
		Relationships: NewRelationships(ids, log),
		Timeline:      NewTimeline(ids, log),
		log:           log,
	}
}

// Clear empties the project and resets the allocator.
func (p *Project) Clear() {
	p.Relationships.clear()
	p.Timeline.clear()
	p.IDs.Reset()
	p.Metadata = diagram.Metadata{}
}

// Load replaces the project contents with doc. Persisted ids are registered
// with the allocator; a duplicate or a dangling reference aborts the load,
// leaves the project empty and returns an error wrapping ErrCorruptProject.
func (p *Project) Load(doc *diagram.Project) error {
	p.Clear()
	if err := p.load(doc); err != nil {
		p.Clear()
		p.log.Error().Err(err).Msg("project load aborted")
		return fmt.Errorf("%w: %w", ErrCorruptProject, err)
	}
	p.Metadata = doc.Metadata
	p.ResetChanges()
	return nil
}

func (p *Project) load(doc *diagram.Project) error {
	for _, c := range doc.Characters {
		if err := p.Relationships.AddCharacter(c); err != nil {
			return err
		}
	}
	for _, a := range doc.Associations {
		if err := p.Relationships.AddAssociation(a); err != nil {
			return err
		}
	}
	for _, e := range doc.Events {
		if err := p.Timeline.AddEvent(e); err != nil {
			return err
		}
	}
	return nil
}

// Document snapshots the project for saving.
func (p *Project) Document() *diagram.Project {
	meta := p.Metadata
	now := time.Now().UTC().Format(time.RFC3339)
	if meta.Created == "" {
		meta.Created = now
	}
	meta.Modified = now

	return &diagram.Project{
		Version:      diagram.CurrentVersion,
		Metadata:     meta,
		Characters:   p.Relationships.Characters(),
		Associations: p.Relationships.Associations(),
		Events:       p.Timeline.Events(),
	}
}

// HasChanges reports whether the project has unsaved changes.
func (p *Project) HasChanges() bool {
	return p.Relationships.HasChanges() || p.Timeline.HasChanges()
}

// MarkChanged flags the project as modified without editing it, for
// contents that arrived from outside the editor.
func (p *Project) MarkChanged() {
	p.Relationships.changed = true
}

// ResetChanges marks the project as saved.
func (p *Project) ResetChanges() {
	p.Relationships.ResetChanges()
	p.Timeline.ResetChanges()
}
