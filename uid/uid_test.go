package uid

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequence replays the given candidates in order, then repeats the last one.
func sequence(ids ...UID) Source {
	i := 0
	return func() UID {
		id := ids[i]
		if i < len(ids)-1 {
			i++
		}
		return id
	}
}

func TestAllocateRegisters(t *testing.T) {
	a := NewAllocator()
	id := a.Allocate()

	assert.NotEqual(t, None, id)
	assert.True(t, a.Holds(id))
	assert.Equal(t, 1, a.Len())
	assert.GreaterOrEqual(t, int64(id), int64(0))
}

func TestAllocateRetriesOnCollision(t *testing.T) {
	a := NewAllocator(WithSource(sequence(7, 7, None, 7, 9)))

	first := a.Allocate()
	second := a.Allocate()

	assert.Equal(t, UID(7), first)
	assert.Equal(t, UID(9), second, "allocator must skip held ids and None")
}

func TestAllocateSkipsRegisteredIDs(t *testing.T) {
	a := NewAllocator(WithSource(sequence(3, 3, 4)))
	require.NoError(t, a.RegisterExisting(3))

	assert.Equal(t, UID(4), a.Allocate())
}

func TestReleaseIsIdempotent(t *testing.T) {
	a := NewAllocator(WithSource(sequence(5, 6)))
	id := a.Allocate()

	a.Release(id)
	a.Release(id)
	a.Release(12345)

	assert.False(t, a.Holds(id))
	assert.Equal(t, 0, a.Len())
}

func TestRegisterExistingDuplicate(t *testing.T) {
	a := NewAllocator()
	require.NoError(t, a.RegisterExisting(42))

	err := a.RegisterExisting(42)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateID))

	var dup *DuplicateIDError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, UID(42), dup.ID)
}

func TestRegisterExistingRejectsNone(t *testing.T) {
	a := NewAllocator()
	assert.ErrorIs(t, a.RegisterExisting(None), ErrDuplicateID)
}

func TestReset(t *testing.T) {
	a := NewAllocator()
	for i := 0; i < 10; i++ {
		a.Allocate()
	}
	a.Reset()

	assert.Equal(t, 0, a.Len())
	assert.Empty(t, a.IDs())
}

func TestIDsSorted(t *testing.T) {
	a := NewAllocator()
	for _, id := range []UID{30, 10, 20} {
		require.NoError(t, a.RegisterExisting(id))
	}
	assert.Equal(t, []UID{10, 20, 30}, a.IDs())
}

// A narrow source collides constantly; held ids must still be unique.
func TestUniquenessUnderRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	a := NewAllocator(WithSource(func() UID { return UID(rng.Intn(64)) }))

	live := make(map[UID]bool)
	for step := 0; step < 2000; step++ {
		if len(live) < 40 && (len(live) == 0 || rng.Intn(3) > 0) {
			id := a.Allocate()
			require.False(t, live[id], "step %d: id %d handed out twice", step, id)
			live[id] = true
			continue
		}
		for id := range live {
			a.Release(id)
			delete(live, id)
			break
		}
	}

	assert.Equal(t, len(live), a.Len())
	for id := range live {
		assert.True(t, a.Holds(id))
	}
}

func TestRandomSourceNonNegative(t *testing.T) {
	for i := 0; i < 100; i++ {
		assert.GreaterOrEqual(t, int64(RandomSource()), int64(0))
	}
}
