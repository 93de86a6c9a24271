package docstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemStore is an in-memory Store with the same subscription semantics as the
// SQL-backed one. It is the substitution point for tests.
type MemStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
	hub         hub

	// Now is swappable so tests can pin server timestamps.
	Now func() time.Time
}

func NewMemStore() *MemStore {
	return &MemStore{
		collections: make(map[string]map[string]Document),
		Now:         time.Now,
	}
}

func (s *MemStore) Create(ctx context.Context, collection string, fields Fields) (string, error) {
	id := uuid.NewString()
	now := s.Now()
	s.mu.Lock()
	col := s.collections[collection]
	if col == nil {
		col = make(map[string]Document)
		s.collections[collection] = col
	}
	col[id] = Document{ID: id, Fields: cloneFields(fields), CreatedAt: now, UpdatedAt: now}
	s.mu.Unlock()

	s.notify(collection)
	return id, nil
}

func (s *MemStore) Patch(ctx context.Context, collection, id string, fields Fields) error {
	s.mu.Lock()
	col := s.collections[collection]
	d, ok := col[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	d = d.clone()
	for k, v := range fields {
		setPath(d.Fields, k, cloneValue(v))
	}
	d.UpdatedAt = s.Now()
	col[id] = d
	s.mu.Unlock()

	s.notify(collection)
	return nil
}

func (s *MemStore) Remove(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	col := s.collections[collection]
	if _, ok := col[id]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	delete(col, id)
	s.mu.Unlock()

	s.notify(collection)
	return nil
}

func (s *MemStore) Fetch(ctx context.Context, q Query) (Snapshot, error) {
	s.mu.RLock()
	col := s.collections[q.Collection]
	snap := make(Snapshot, 0, len(col))
	for _, d := range col {
		if matches(d, q.Filters) {
			snap = append(snap, d.clone())
		}
	}
	s.mu.RUnlock()

	sortSnapshot(snap, q)
	return snap, nil
}

func (s *MemStore) Subscribe(ctx context.Context, q Query, fn func(Snapshot)) (func(), error) {
	return s.hub.open(ctx, q, fn, s.Fetch)
}

func (s *MemStore) notify(collection string) {
	for _, sub := range s.hub.collect(collection) {
		snap, err := s.Fetch(context.Background(), sub.q)
		if err != nil {
			continue
		}
		sub.fn(snap)
	}
}

// sortSnapshot orders a snapshot in place by the query's OrderBy field.
// "createdAt"/"updatedAt" use the server timestamps; ids break ties so the
// order is stable across deliveries.
func sortSnapshot(snap Snapshot, q Query) {
	if q.OrderBy == "" {
		sort.SliceStable(snap, func(i, j int) bool { return snap[i].ID < snap[j].ID })
		return
	}
	less := func(i, j int) bool {
		a, b := snap[i], snap[j]
		switch q.OrderBy {
		case "createdAt":
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
		case "updatedAt":
			if !a.UpdatedAt.Equal(b.UpdatedAt) {
				return a.UpdatedAt.Before(b.UpdatedAt)
			}
		default:
			av, _ := lookupPath(a.Fields, q.OrderBy)
			bv, _ := lookupPath(b.Fields, q.OrderBy)
			if an, ok := asNumber(av); ok {
				if bn, ok := asNumber(bv); ok {
					if an != bn {
						return an < bn
					}
					break
				}
			}
			as, bs := fmt.Sprint(av), fmt.Sprint(bv)
			if as != bs {
				return as < bs
			}
		}
		return a.ID < b.ID
	}
	if q.Desc {
		sort.SliceStable(snap, func(i, j int) bool { return less(j, i) })
		return
	}
	sort.SliceStable(snap, less)
}
