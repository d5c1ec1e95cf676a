// Package store holds the latest fetched snapshot of every resource collection.
// Server truth enters only through Replace; optimistic edits go through
// PatchItem/Revert. Readers always see whole snapshots: every write swaps in
// a fresh slice, so a slice returned earlier is never modified.
package store

import (
	"errors"
	"iter"
	"sync"

	"github.com/h0rv/prep/internal/domain"
)

var (
	// ErrNotFound indicates the requested item does not exist in the collection.
	ErrNotFound = errors.New("item not found")
	// ErrUnknownResource indicates a resource the store was not created with.
	ErrUnknownResource = errors.New("unknown resource")
)

// Patch records one optimistic edit so it can be reverted.
type Patch struct {
	Resource domain.ResourceID
	ID       int
	Previous domain.Item
	Patched  domain.Item
}

type collection struct {
	items []domain.Item
	seq   uint64 // Sequence of the last applied Replace
}

// Store manages resource collections keyed by ResourceID.
// It is safe for concurrent use; the coordinator is its only writer.
type Store struct {
	mu          sync.RWMutex
	collections map[domain.ResourceID]*collection
}

// New creates a store with an empty collection for each resource.
func New(resources ...domain.ResourceID) *Store {
	s := &Store{collections: make(map[domain.ResourceID]*collection, len(resources))}
	for _, res := range resources {
		s.collections[res] = &collection{items: []domain.Item{}}
	}
	return s
}

// Replace swaps in items as the whole collection for res, tagged with seq.
// It is rejected when seq is older than the last applied sequence; an equal
// sequence is accepted. Returns whether the items were applied.
func (s *Store) Replace(res domain.ResourceID, items []domain.Item, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[res]
	if !ok || seq < c.seq {
		return false
	}

	next := make([]domain.Item, 0, len(items))
	for _, it := range items {
		if it != nil {
			next = append(next, it)
		}
	}
	c.items = next
	c.seq = seq
	return true
}

// Get returns the current snapshot of res. Unknown resources yield an empty slice.
func (s *Store) Get(res domain.ResourceID) []domain.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[res]
	if !ok {
		return []domain.Item{}
	}
	return c.items
}

// Find returns the item with id in res.
func (s *Store) Find(res domain.ResourceID, id int) (domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[res]
	if !ok {
		return nil, ErrUnknownResource
	}
	if i := indexOf(c.items, id); i >= 0 {
		return c.items[i], nil
	}
	return nil, ErrNotFound
}

// PatchItem applies mutator to a copy of the item with id and swaps the copy
// in. Returns ErrNotFound when id is absent; callers treat that as a no-op.
func (s *Store) PatchItem(res domain.ResourceID, id int, mutator func(domain.Item)) (Patch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[res]
	if !ok {
		return Patch{}, ErrUnknownResource
	}
	i := indexOf(c.items, id)
	if i < 0 {
		return Patch{}, ErrNotFound
	}

	prev := c.items[i]
	patched := prev.Clone()
	mutator(patched)

	next := make([]domain.Item, len(c.items))
	copy(next, c.items)
	next[i] = patched
	c.items = next

	return Patch{Resource: res, ID: id, Previous: prev, Patched: patched}, nil
}

// Revert restores the item a patch replaced. It only applies while the stored
// item is still the patched one; after a newer Replace it does nothing and
// returns false.
func (s *Store) Revert(p Patch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[p.Resource]
	if !ok || p.Patched == nil {
		return false
	}
	i := indexOf(c.items, p.ID)
	if i < 0 || c.items[i] != p.Patched {
		return false
	}

	next := make([]domain.Item, len(c.items))
	copy(next, c.items)
	next[i] = p.Previous
	c.items = next
	return true
}

// Filter yields the items of res matching pred, in collection order.
// A nil pred matches everything. The view is over the snapshot current when
// iteration starts.
func (s *Store) Filter(res domain.ResourceID, pred Predicate) iter.Seq[domain.Item] {
	return func(yield func(domain.Item) bool) {
		for _, it := range s.Get(res) {
			if pred != nil && !pred(it) {
				continue
			}
			if !yield(it) {
				return
			}
		}
	}
}

// Seq returns the sequence of the last applied Replace for res.
func (s *Store) Seq(res domain.ResourceID) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.collections[res]; ok {
		return c.seq
	}
	return 0
}

// Len returns the number of items in res.
func (s *Store) Len(res domain.ResourceID) int {
	return len(s.Get(res))
}

// Has reports whether the store was created with res.
func (s *Store) Has(res domain.ResourceID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.collections[res]
	return ok
}

func indexOf(items []domain.Item, id int) int {
	for i, it := range items {
		if it.ItemID() == id {
			return i
		}
	}
	return -1
}
