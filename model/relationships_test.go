package model

import (
	"testing"

	"storymap/diagram"
	"storymap/uid"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRelationships() (*Relationships, *uid.Allocator) {
	ids := uid.NewAllocator()
	return NewRelationships(ids, zerolog.Nop()), ids
}

func TestNewCharacter(t *testing.T) {
	r, ids := newTestRelationships()

	id := r.NewCharacter("Ada", "engineer", 10, 20)

	c, ok := r.Character(id)
	require.True(t, ok)
	assert.Equal(t, diagram.Character{ID: id, Name: "Ada", Description: "engineer", X: 10, Y: 20}, c)
	assert.True(t, ids.Holds(id))
	assert.True(t, r.HasChanges())
}

func TestEditUnknownIDsReturnFalse(t *testing.T) {
	r, _ := newTestRelationships()

	assert.False(t, r.EditCharacter(99, "x", "y"))
	assert.False(t, r.MoveCharacter(99, 1, 2))
	assert.False(t, r.EditAssociation(99, diagram.Endpoint{}, diagram.Endpoint{}, ""))
	assert.False(t, r.EditAssociationEndpoint(99, true, diagram.Endpoint{}))
	assert.False(t, r.EditAssociationLabel(99, "x"))
	assert.Nil(t, r.DeleteCharacter(99))
	r.DeleteAssociation(99)
	assert.False(t, r.HasChanges(), "failed edits must not mark the model dirty")
}

func TestEditAndMoveCharacter(t *testing.T) {
	r, _ := newTestRelationships()
	id := r.NewCharacter("Ada", "", 0, 0)
	r.ResetChanges()

	require.True(t, r.EditCharacter(id, "Ada L.", "countess"))
	assert.True(t, r.HasChanges())
	require.True(t, r.MoveCharacter(id, 50, 60))

	c, _ := r.Character(id)
	assert.Equal(t, "Ada L.", c.Name)
	assert.Equal(t, "countess", c.Description)
	assert.Equal(t, 50.0, c.X)
	assert.Equal(t, 60.0, c.Y)
}

func TestNewAssociationRejectsUnknownCharacter(t *testing.T) {
	r, ids := newTestRelationships()
	a := r.NewCharacter("A", "", 0, 0)

	id := r.NewAssociation(diagram.Endpoint{Character: a}, diagram.Endpoint{Character: 12345}, "x")

	assert.Equal(t, uid.None, id)
	assert.Equal(t, 1, ids.Len())
	assert.Empty(t, r.Associations())
}

func TestDetachedAssociationAllowed(t *testing.T) {
	r, _ := newTestRelationships()

	id := r.NewAssociation(diagram.Endpoint{X: 1, Y: 2}, diagram.Endpoint{X: 3, Y: 4}, "floating")

	require.NotEqual(t, uid.None, id)
	a, ok := r.Association(id)
	require.True(t, ok)
	assert.False(t, a.Start.Attached())
	assert.False(t, a.End.Attached())
}

func TestEditAssociationEndpoint(t *testing.T) {
	r, _ := newTestRelationships()
	a := r.NewCharacter("A", "", 0, 0)
	b := r.NewCharacter("B", "", 200, 0)
	id := r.NewAssociation(diagram.Endpoint{Character: a, X: 80, Y: 25}, diagram.Endpoint{X: 150, Y: 25}, "likes")

	require.True(t, r.EditAssociationEndpoint(id, true, diagram.Endpoint{Character: b, X: 200, Y: 25}))
	assert.False(t, r.EditAssociationEndpoint(id, false, diagram.Endpoint{Character: 777}))

	got, _ := r.Association(id)
	assert.Equal(t, diagram.Endpoint{Character: a, X: 80, Y: 25}, got.Start)
	assert.Equal(t, diagram.Endpoint{Character: b, X: 200, Y: 25}, got.End)
	assert.Equal(t, "likes", got.Label)

	require.True(t, r.EditAssociationLabel(id, "loves"))
	got, _ = r.Association(id)
	assert.Equal(t, "loves", got.Label)
}

func TestDeleteCharacterCascades(t *testing.T) {
	r, ids := newTestRelationships()
	a := r.NewCharacter("A", "", 0, 0)
	b := r.NewCharacter("B", "", 200, 0)
	c := r.NewCharacter("C", "", 400, 0)

	ab := r.NewAssociation(diagram.Endpoint{Character: a}, diagram.Endpoint{Character: b}, "ab")
	ca := r.NewAssociation(diagram.Endpoint{Character: c}, diagram.Endpoint{Character: a}, "ca")
	bc := r.NewAssociation(diagram.Endpoint{Character: b, X: 280}, diagram.Endpoint{Character: c, X: 400}, "bc")
	loose := r.NewAssociation(diagram.Endpoint{X: 5}, diagram.Endpoint{X: 6}, "loose")

	removed := r.DeleteCharacter(a)

	assert.ElementsMatch(t, []uid.UID{ab, ca}, removed)
	_, ok := r.Character(a)
	assert.False(t, ok)
	assert.False(t, ids.Holds(a))
	assert.False(t, ids.Holds(ab))
	assert.False(t, ids.Holds(ca))

	left := r.Associations()
	require.Len(t, left, 2)
	got, ok := r.Association(bc)
	require.True(t, ok)
	assert.Equal(t, diagram.Endpoint{Character: b, X: 280}, got.Start)
	assert.Equal(t, diagram.Endpoint{Character: c, X: 400}, got.End)
	_, ok = r.Association(loose)
	assert.True(t, ok)

	for _, assoc := range left {
		assert.False(t, assoc.AttachedTo(a))
	}
}

func TestListsAreSortedCopies(t *testing.T) {
	r, _ := newTestRelationships()
	for _, name := range []string{"A", "B", "C", "D"} {
		r.NewCharacter(name, "", 0, 0)
	}

	list := r.Characters()
	require.Len(t, list, 4)
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].ID, list[i].ID)
	}

	list[0].Name = "changed"
	c, _ := r.Character(list[0].ID)
	assert.NotEqual(t, "changed", c.Name)
}

func TestAddCharacterDuplicateID(t *testing.T) {
	r, _ := newTestRelationships()
	require.NoError(t, r.AddCharacter(diagram.Character{ID: 7, Name: "A"}))

	err := r.AddCharacter(diagram.Character{ID: 7, Name: "B"})

	assert.ErrorIs(t, err, uid.ErrDuplicateID)
	c, _ := r.Character(7)
	assert.Equal(t, "A", c.Name, "a duplicate must never overwrite")
}
