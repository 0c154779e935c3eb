// Package controller connects the relationship chart to the project model.
//
// The chart reports finished gestures; the controller writes them to the
// model and rebuilds the chart from the model, so the model stays the single
// source of truth and the view is recomputed after every change.
package controller

import (
	"errors"
	"fmt"

	"storymap/diagram"
	"storymap/editor"
	"storymap/geometry"
	"storymap/model"
	"storymap/projectfile"
	"storymap/uid"

	"github.com/rs/zerolog"
)

// ErrNoPath is returned by Save when no file name is known yet.
var ErrNoPath = errors.New("no file name")

// ErrUnknownID is returned when an operation names an id the model does not have.
var ErrUnknownID = errors.New("unknown id")

// Controller mediates between an editor.Chart and a model.Project.
type Controller struct {
	project *model.Project
	chart   *editor.Chart
	path    string
	log     zerolog.Logger
}

// New wires a controller to a project and a chart and registers itself as
// the chart's listener. The chart must draw its ids from the project's allocator.
func New(project *model.Project, chart *editor.Chart, log zerolog.Logger) *Controller {
	c := &Controller{
		project: project,
		chart:   chart,
		log:     log,
	}
	chart.SetListener(c)
	return c
}

// Project returns the model.
func (c *Controller) Project() *model.Project { return c.project }

// Chart returns the chart view.
func (c *Controller) Chart() *editor.Chart { return c.chart }

// Path returns the file the project was last opened from or saved to.
func (c *Controller) Path() string { return c.path }

// SetPath sets the file Save writes to when given no path, for a project
// that does not exist on disk yet.
func (c *Controller) SetPath(path string) { c.path = path }

// HasChanges reports whether the project has unsaved changes.
func (c *Controller) HasChanges() bool { return c.project.HasChanges() }

// Refresh rebuilds the chart from the model. It fails with
// editor.ErrGestureInProgress while a drag is running.
func (c *Controller) Refresh() error {
	rel := c.project.Relationships
	return c.chart.Rebuild(rel.Characters(), rel.Associations())
}

func (c *Controller) refresh() {
	if err := c.Refresh(); err != nil {
		c.log.Error().Err(err).Msg("chart refresh failed")
	}
}

func (c *Controller) idle() error {
	if c.chart.State() != editor.StateIdle {
		return editor.ErrGestureInProgress
	}
	return nil
}

// NodeMoved persists a finished node drag: the character position and every
// endpoint that travelled with it.
// Nothing is written unless the character and every association exist.
func (c *Controller) NodeMoved(m editor.NodeMove) {
	rel := c.project.Relationships
	if _, ok := rel.Character(m.Node); !ok {
		c.log.Warn().Int64("character", int64(m.Node)).Msg("moved node has no character")
		return
	}
	for _, ep := range m.Endpoints {
		if _, ok := rel.Association(ep.Association); !ok {
			c.log.Warn().Int64("association", int64(ep.Association)).Msg("moved endpoint has no association")
			return
		}
	}

	rel.MoveCharacter(m.Node, m.Position.X, m.Position.Y)
	for _, ep := range m.Endpoints {
		rel.EditAssociationEndpoint(ep.Association, ep.IsEnd, ep.Endpoint())
	}
	c.refresh()
}

// EndpointCommitted persists a finished endpoint drag.
func (c *Controller) EndpointCommitted(e editor.EndpointCommit) {
	if !c.project.Relationships.EditAssociationEndpoint(e.Association, e.IsEnd, e.Endpoint()) {
		c.log.Warn().
			Int64("association", int64(e.Association)).
			Int64("attached", int64(e.Attached)).
			Msg("endpoint commit rejected")
		return
	}
	c.refresh()
}

// CreateCharacter adds a character with its node at (x, y), snapped to the
// chart grid.
func (c *Controller) CreateCharacter(name, description string, x, y float64) (uid.UID, error) {
	if err := c.idle(); err != nil {
		return uid.None, err
	}
	grid := c.chart.Options().GridInterval
	x = geometry.ClampNonNegative(geometry.SnapToGrid(x, grid))
	y = geometry.ClampNonNegative(geometry.SnapToGrid(y, grid))

	id := c.project.Relationships.NewCharacter(name, description, x, y)
	c.log.Info().Int64("character", int64(id)).Str("name", name).Msg("character created")
	return id, c.Refresh()
}

// EditCharacter renames or redescribes a character.
func (c *Controller) EditCharacter(id uid.UID, name, description string) error {
	if err := c.idle(); err != nil {
		return err
	}
	if !c.project.Relationships.EditCharacter(id, name, description) {
		return fmt.Errorf("edit character %d: %w", id, ErrUnknownID)
	}
	return c.Refresh()
}

// DeleteCharacter removes a character and every association attached to it.
// It returns the ids of the removed associations.
func (c *Controller) DeleteCharacter(id uid.UID) ([]uid.UID, error) {
	if err := c.idle(); err != nil {
		return nil, err
	}
	if _, ok := c.project.Relationships.Character(id); !ok {
		return nil, fmt.Errorf("delete character %d: %w", id, ErrUnknownID)
	}
	removed := c.project.Relationships.DeleteCharacter(id)
	c.log.Info().
		Int64("character", int64(id)).
		Int("associations", len(removed)).
		Msg("character deleted")
	return removed, c.Refresh()
}

// CreateAssociation starts a new association at anchor. The start endpoint
// attaches to the character under anchor, if any; the end endpoint follows
// the pointer until the next click places it.
func (c *Controller) CreateAssociation(label string, anchor geometry.Point) (uid.UID, error) {
	if err := c.idle(); err != nil {
		return uid.None, err
	}

	start := diagram.Endpoint{X: anchor.X, Y: anchor.Y}
	if n, ok := c.chart.NodeAt(anchor); ok {
		p := geometry.ClassifyEdge(n.Rect, anchor)
		start = diagram.Endpoint{Character: n.ID, X: p.X, Y: p.Y}
	}
	end := diagram.Endpoint{X: anchor.X, Y: anchor.Y}

	id := c.project.Relationships.NewAssociation(start, end, label)
	if id == uid.None {
		return uid.None, fmt.Errorf("create association: character %d: %w", start.Character, ErrUnknownID)
	}
	if err := c.Refresh(); err != nil {
		return id, err
	}
	c.chart.BeginEndpointPlacement(id, true)
	c.log.Info().Int64("association", int64(id)).Msg("association created")
	return id, nil
}

// EditAssociationLabel changes the label of an association.
func (c *Controller) EditAssociationLabel(id uid.UID, label string) error {
	if err := c.idle(); err != nil {
		return err
	}
	if !c.project.Relationships.EditAssociationLabel(id, label) {
		return fmt.Errorf("edit association %d: %w", id, ErrUnknownID)
	}
	return c.Refresh()
}

// DeleteAssociation removes an association.
func (c *Controller) DeleteAssociation(id uid.UID) error {
	if err := c.idle(); err != nil {
		return err
	}
	if _, ok := c.project.Relationships.Association(id); !ok {
		return fmt.Errorf("delete association %d: %w", id, ErrUnknownID)
	}
	c.project.Relationships.DeleteAssociation(id)
	return c.Refresh()
}

// Delete removes whatever is under p: the association owning an endpoint, or
// a character with its associations. It reports whether anything was removed.
func (c *Controller) Delete(p geometry.Point) (bool, error) {
	if err := c.idle(); err != nil {
		return false, err
	}
	t := c.chart.HitTest(p)
	switch t.Kind {
	case editor.TargetEndpoint:
		for _, a := range c.chart.Associations() {
			if a.Start.ID == t.ID || a.End.ID == t.ID {
				return true, c.DeleteAssociation(a.ID)
			}
		}
	case editor.TargetNode:
		_, err := c.DeleteCharacter(t.ID)
		return err == nil, err
	}
	return false, nil
}

// NewEvent appends a plot event to the timeline.
func (c *Controller) NewEvent(name, description string) uid.UID {
	return c.project.Timeline.NewEvent(name, description)
}

// EditEvent renames or redescribes a plot event.
func (c *Controller) EditEvent(id uid.UID, name, description string) error {
	if !c.project.Timeline.EditEvent(id, name, description) {
		return fmt.Errorf("edit event %d: %w", id, ErrUnknownID)
	}
	return nil
}

// DeleteEvent removes a plot event.
func (c *Controller) DeleteEvent(id uid.UID) {
	c.project.Timeline.DeleteEvent(id)
}

// MoveEvent moves the event at index from to index to.
func (c *Controller) MoveEvent(from, to int) bool {
	return c.project.Timeline.MoveEvent(from, to)
}

// NewProject discards the current project.
func (c *Controller) NewProject() error {
	// The chart goes first: it returns its endpoint ids to the allocator,
	// which the project is about to reset.
	if err := c.chart.Clear(); err != nil {
		return err
	}
	c.project.Clear()
	c.path = ""
	c.log.Info().Msg("new project")
	return c.Refresh()
}

// Open replaces the current project with the one stored at path. On failure
// the editor is left with an empty project.
func (c *Controller) Open(path string) error {
	doc, err := projectfile.Load(path)
	if err != nil {
		return err
	}
	if err := c.chart.Clear(); err != nil {
		return err
	}
	if err := c.project.Load(doc); err != nil {
		c.path = ""
		c.refresh()
		return fmt.Errorf("%s: %w", path, err)
	}
	c.path = path
	c.log.Info().
		Str("path", path).
		Int("characters", len(doc.Characters)).
		Int("associations", len(doc.Associations)).
		Int("events", len(doc.Events)).
		Msg("project opened")
	return c.Refresh()
}

// Save writes the project to path, or to the last used path when path is empty.
func (c *Controller) Save(path string) error {
	if path == "" {
		path = c.path
	}
	if path == "" {
		return ErrNoPath
	}

	doc := c.project.Document()
	if err := projectfile.Save(path, doc); err != nil {
		return err
	}
	c.project.Metadata = doc.Metadata
	c.project.ResetChanges()
	c.path = path
	c.log.Info().Str("path", path).Msg("project saved")
	return nil
}

// Replace swaps in doc as the current project, keeping the file path. The
// document is checked on a scratch project first, so a corrupt doc leaves
// the current project untouched.
func (c *Controller) Replace(doc *diagram.Project) error {
	if err := c.idle(); err != nil {
		return err
	}
	if err := model.NewProject(nil, zerolog.Nop()).Load(doc); err != nil {
		return err
	}
	if err := c.chart.Clear(); err != nil {
		return err
	}
	if err := c.project.Load(doc); err != nil {
		c.refresh()
		return err
	}
	c.project.MarkChanged()
	c.log.Info().Msg("project replaced")
	return c.Refresh()
}
