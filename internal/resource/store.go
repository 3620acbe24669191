package resource

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record conflicts with an existing one")
)

// Record is an entity stored by id. WithID returns a copy carrying the id,
// so stores can assign identity without knowing the concrete type.
type Record[T any] interface {
	RecordID() int
	WithID(id int) T
}

// Conflict reports whether candidate collides with an existing record on a
// field that must stay unique.
type Conflict[T any] func(existing, candidate T) bool

// Page is a filtered slice of a store plus the match count before the limit.
type Page[T any] struct {
	Items []T
	Total int
}

// Store is the authoritative collection for one entity kind.
type Store[T Record[T]] interface {
	// List returns matching records in insertion order. A nil match keeps
	// everything; limit <= 0 means no limit.
	List(ctx context.Context, match func(T) bool, limit int) Page[T]
	Get(ctx context.Context, id int) (T, error)
	// Insert assigns the next id and appends. ErrConflict if any guard trips.
	Insert(ctx context.Context, candidate T, unique ...Conflict[T]) (T, error)
	// Replace swaps the record for apply(current). The id never changes.
	Replace(ctx context.Context, id int, apply func(T) T, unique ...Conflict[T]) (T, error)
	Remove(ctx context.Context, id int) (T, error)
	Len(ctx context.Context) int
}
