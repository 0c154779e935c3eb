// Package uid hands out identifiers shared by characters, associations,
// plot events and chart endpoints.
package uid

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// UID identifies a character, association, event or association endpoint.
type UID int64

// None marks an absent reference, e.g. a detached endpoint. It is never allocated.
const None UID = 0

// ErrDuplicateID is matched by every DuplicateIDError.
var ErrDuplicateID = errors.New("duplicate id")

// DuplicateIDError is returned when a caller-supplied id is already held.
type DuplicateIDError struct {
	ID UID
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("uid %d: %v", e.ID, ErrDuplicateID)
}

// Is reports whether target is ErrDuplicateID.
func (e *DuplicateIDError) Is(target error) bool {
	return target == ErrDuplicateID
}

// Source produces candidate identifiers. Candidates may collide; the
// allocator keeps drawing until it finds a free one.
type Source func() UID

// RandomSource takes the most significant 64 bits of a random UUID with the
// sign bit cleared.
func RandomSource() UID {
	u := uuid.New()
	return UID(binary.BigEndian.Uint64(u[:8]) &^ (1 << 63))
}

// Allocator tracks every identifier currently in use.
// It is not safe for concurrent use.
type Allocator struct {
	held   map[UID]struct{}
	source Source
	log    zerolog.Logger
}

// Option configures an Allocator.
type Option func(*Allocator)

// WithSource replaces the candidate generator.
func WithSource(s Source) Option {
	return func(a *Allocator) {
		a.source = s
	}
}

// WithLogger sets the logger used for collision reports.
func WithLogger(log zerolog.Logger) Option {
	return func(a *Allocator) {
		a.log = log
	}
}

// NewAllocator creates an empty allocator.
func NewAllocator(opts ...Option) *Allocator {
	a := &Allocator{
		held:   make(map[UID]struct{}),
		source: RandomSource,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Allocate returns an identifier that is not currently held and registers it.
func (a *Allocator) Allocate() UID {
	for {
		id := a.source()
		if id == None {
			continue
		}
		if _, taken := a.held[id]; taken {
			a.log.Debug().Int64("uid", int64(id)).Msg("uid collision, retrying")
			continue
		}
		a.held[id] = struct{}{}
		return id
	}
}

// Release forgets id. Releasing an id that is not held does nothing.
func (a *Allocator) Release(id UID) {
	delete(a.held, id)
}

// RegisterExisting marks a persisted id as held. It is used while loading a
// project; a collision means the project file is inconsistent.
func (a *Allocator) RegisterExisting(id UID) error {
	if id == None {
		return &DuplicateIDError{ID: id}
	}
	if _, taken := a.held[id]; taken {
		return &DuplicateIDError{ID: id}
	}
	a.held[id] = struct{}{}
	return nil
}

// Reset forgets every held id.
func (a *Allocator) Reset() {
	clear(a.held)
}

// Holds reports whether id is currently allocated.
func (a *Allocator) Holds(id UID) bool {
	_, ok := a.held[id]
	return ok
}

// Len returns the number of held ids.
func (a *Allocator) Len() int {
	return len(a.held)
}

// IDs returns the held ids in ascending order.
func (a *Allocator) IDs() []UID {
	ids := make([]UID, 0, len(a.held))
	for id := range a.held {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
