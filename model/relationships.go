// Package model owns the authoritative story data: characters, the
// associations between them and the plot timeline.
package model

import (
	"fmt"
	"sort"

	"storymap/diagram"
	"storymap/uid"

	"github.com/rs/zerolog"
)

// Relationships stores characters and associations keyed by id. Attachment
// of an association endpoint is an id lookup, never ownership. Unknown ids
// make edits return false and deletes do nothing.
type Relationships struct {
	ids          *uid.Allocator
	characters   map[uid.UID]*diagram.Character
	associations map[uid.UID]*diagram.Association
	changed      bool
	log          zerolog.Logger
}

// NewRelationships creates an empty store that draws ids from ids.
func NewRelationships(ids *uid.Allocator, log zerolog.Logger) *Relationships {
	return &Relationships{
		ids:          ids,
		characters:   make(map[uid.UID]*diagram.Character),
		associations: make(map[uid.UID]*diagram.Association),
		log:          log,
	}
}

// NewCharacter creates a character and returns its id.
func (r *Relationships) NewCharacter(name, description string, x, y float64) uid.UID {
	id := r.ids.Allocate()
	r.characters[id] = &diagram.Character{
		ID:          id,
		Name:        name,
		Description: description,
		X:           x,
		Y:           y,
	}
	r.changed = true
	r.log.Debug().Int64("character", int64(id)).Str("name", name).Msg("character created")
	return id
}

// AddCharacter inserts a persisted character, registering its id.
func (r *Relationships) AddCharacter(c diagram.Character) error {
	if err := r.ids.RegisterExisting(c.ID); err != nil {
		return fmt.Errorf("character %q: %w", c.Name, err)
	}
	r.characters[c.ID] = &c
	r.changed = true
	return nil
}

// EditCharacter replaces the name and description of a character.
func (r *Relationships) EditCharacter(id uid.UID, name, description string) bool {
	c, ok := r.characters[id]
	if !ok {
		return false
	}
	c.Name = name
	c.Description = description
	r.changed = true
	return true
}

// MoveCharacter sets the chart position of a character.
func (r *Relationships) MoveCharacter(id uid.UID, x, y float64) bool {
	c, ok := r.characters[id]
	if !ok {
		return false
	}
	c.X, c.Y = x, y
	r.changed = true
	return true
}

// DeleteCharacter removes a character together with every association that
// has an endpoint attached to it, and returns the removed association ids.
func (r *Relationships) DeleteCharacter(id uid.UID) []uid.UID {
	if _, ok := r.characters[id]; !ok {
		return nil
	}

	var cascaded []uid.UID
	for aid, a := range r.associations {
		if a.AttachedTo(id) {
			cascaded = append(cascaded, aid)
		}
	}
	sort.Slice(cascaded, func(i, j int) bool { return cascaded[i] < cascaded[j] })
	for _, aid := range cascaded {
		r.DeleteAssociation(aid)
	}

	delete(r.characters, id)
	r.ids.Release(id)
	r.changed = true
	r.log.Debug().Int64("character", int64(id)).Int("associations", len(cascaded)).Msg("character deleted")
	return cascaded
}

// Character returns a copy of the character with the given id.
func (r *Relationships) Character(id uid.UID) (diagram.Character, bool) {
	c, ok := r.characters[id]
	if !ok {
		return diagram.Character{}, false
	}
	return *c, true
}

// Characters returns every character ordered by id.
func (r *Relationships) Characters() []diagram.Character {
	list := make([]diagram.Character, 0, len(r.characters))
	for _, c := range r.characters {
		list = append(list, *c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// validEndpoint reports whether an endpoint is detached or attached to a live character.
func (r *Relationships) validEndpoint(ep diagram.Endpoint) bool {
	if !ep.Attached() {
		return true
	}
	_, ok := r.characters[ep.Character]
	return ok
}

// NewAssociation creates an association and returns its id, or uid.None if an
// endpoint refers to a character that does not exist.
func (r *Relationships) NewAssociation(start, end diagram.Endpoint, label string) uid.UID {
	if !r.validEndpoint(start) || !r.validEndpoint(end) {
		r.log.Warn().
			Int64("start", int64(start.Character)).
			Int64("end", int64(end.Character)).
			Msg("association refers to unknown character")
		return uid.None
	}

	id := r.ids.Allocate()
	r.associations[id] = &diagram.Association{
		ID:    id,
		Start: start,
		End:   end,
		Label: label,
	}
	r.changed = true
	return id
}

// AddAssociation inserts a persisted association, registering its id.
// Endpoints must refer to characters that were added before.
func (r *Relationships) AddAssociation(a diagram.Association) error {
	if !r.validEndpoint(a.Start) || !r.validEndpoint(a.End) {
		return fmt.Errorf("association %d refers to an unknown character", a.ID)
	}
	if err := r.ids.RegisterExisting(a.ID); err != nil {
		return fmt.Errorf("association %d: %w", a.ID, err)
	}
	r.associations[a.ID] = &a
	r.changed = true
	return nil
}

// EditAssociation replaces both endpoints and the label of an association.
func (r *Relationships) EditAssociation(id uid.UID, start, end diagram.Endpoint, label string) bool {
	a, ok := r.associations[id]
	if !ok || !r.validEndpoint(start) || !r.validEndpoint(end) {
		return false
	}
	a.Start, a.End, a.Label = start, end, label
	r.changed = true
	return true
}

// EditAssociationEndpoint replaces one endpoint of an association.
func (r *Relationships) EditAssociationEndpoint(id uid.UID, isEnd bool, ep diagram.Endpoint) bool {
	a, ok := r.associations[id]
	if !ok {
		return false
	}
	start, end := a.Start, a.End
	if isEnd {
		end = ep
	} else {
		start = ep
	}
	return r.EditAssociation(id, start, end, a.Label)
}

// EditAssociationLabel replaces the label of an association.
func (r *Relationships) EditAssociationLabel(id uid.UID, label string) bool {
	a, ok := r.associations[id]
	if !ok {
		return false
	}
	a.Label = label
	r.changed = true
	return true
}

// DeleteAssociation removes an association and releases its id.
func (r *Relationships) DeleteAssociation(id uid.UID) {
	if _, ok := r.associations[id]; !ok {
		return
	}
	delete(r.associations, id)
	r.ids.Release(id)
	r.changed = true
}

// Association returns a copy of the association with the given id.
func (r *Relationships) Association(id uid.UID) (diagram.Association, bool) {
	a, ok := r.associations[id]
	if !ok {
		return diagram.Association{}, false
	}
	return *a, true
}

// Associations returns every association ordered by id.
func (r *Relationships) Associations() []diagram.Association {
	list := make([]diagram.Association, 0, len(r.associations))
	for _, a := range r.associations {
		list = append(list, *a)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// HasChanges reports whether anything changed since the last ResetChanges.
func (r *Relationships) HasChanges() bool {
	return r.changed
}

// ResetChanges clears the unsaved-changes flag.
func (r *Relationships) ResetChanges() {
	r.changed = false
}

// clear drops every record. The caller resets the allocator.
func (r *Relationships) clear() {
	clear(r.characters)
	clear(r.associations)
	r.changed = false
}
