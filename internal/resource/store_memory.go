package resource

import (
	"context"
	"sync"
)

// MemStore keeps records in a slice. Ids come from a counter that only moves
// forward, so an id freed by Remove is never handed out again.
type MemStore[T Record[T]] struct {
	mu     sync.RWMutex
	items  []T
	lastID int
}

// NewMemStore seeds the store with records that already carry ids.
func NewMemStore[T Record[T]](seed ...T) *MemStore[T] {
	s := &MemStore[T]{items: make([]T, 0, len(seed))}
	for _, v := range seed {
		s.items = append(s.items, v)
		if id := v.RecordID(); id > s.lastID {
			s.lastID = id
		}
	}
	return s
}

func (s *MemStore[T]) List(_ context.Context, match func(T) bool, limit int) Page[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, 0, len(s.items))
	total := 0
	for _, v := range s.items {
		if match != nil && !match(v) {
			continue
		}
		total++
		if limit <= 0 || len(out) < limit {
			out = append(out, v)
		}
	}
	return Page[T]{Items: out, Total: total}
}

func (s *MemStore[T]) Get(_ context.Context, id int) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.items[i], nil
	}
	var zero T
	return zero, ErrNotFound
}

func (s *MemStore[T]) Insert(_ context.Context, candidate T, unique ...Conflict[T]) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	if s.conflicts(-1, candidate, unique) {
		return zero, ErrConflict
	}

	s.lastID++
	v := candidate.WithID(s.lastID)
	s.items = append(s.items, v)
	return v, nil
}

func (s *MemStore[T]) Replace(_ context.Context, id int, apply func(T) T, unique ...Conflict[T]) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	i := s.indexOf(id)
	if i < 0 {
		return zero, ErrNotFound
	}

	updated := apply(s.items[i]).WithID(id)
	if s.conflicts(i, updated, unique) {
		return zero, ErrConflict
	}
	s.items[i] = updated
	return updated, nil
}

func (s *MemStore[T]) Remove(_ context.Context, id int) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	i := s.indexOf(id)
	if i < 0 {
		return zero, ErrNotFound
	}

	removed := s.items[i]
	s.items = append(s.items[:i], s.items[i+1:]...)
	return removed, nil
}

func (s *MemStore[T]) Len(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *MemStore[T]) indexOf(id int) int {
	for i, v := range s.items {
		if v.RecordID() == id {
			return i
		}
	}
	return -1
}

// conflicts checks candidate against every record except the one at skip.
func (s *MemStore[T]) conflicts(skip int, candidate T, unique []Conflict[T]) bool {
	if len(unique) == 0 {
		return false
	}
	for i, existing := range s.items {
		if i == skip {
			continue
		}
		for _, c := range unique {
			if c(existing, candidate) {
				return true
			}
		}
	}
	return false
}
