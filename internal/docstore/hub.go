package docstore

import (
	"context"
	"sync"
)

// hub fans change notifications out to live subscriptions. Each subscription
// re-runs its own query and receives the full result set, never a diff.
type subscription struct {
	id int
	q  Query
	fn func(Snapshot)
}

type hub struct {
	mu   sync.Mutex
	subs map[int]*subscription
	next int
}

func (h *hub) add(q Query, fn func(Snapshot)) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs == nil {
		h.subs = make(map[int]*subscription)
	}
	h.next++
	id := h.next
	h.subs[id] = &subscription{id: id, q: q, fn: fn}
	return id
}

func (h *hub) remove(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, id)
}

// collect returns the subscriptions watching a collection. Callers invoke the
// callbacks outside the hub lock.
func (h *hub) collect(collection string) []*subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []*subscription
	for _, s := range h.subs {
		if s.q.Collection == collection {
			out = append(out, s)
		}
	}
	return out
}

func (h *hub) collections() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	seen := make(map[string]struct{})
	var out []string
	for _, s := range h.subs {
		if _, ok := seen[s.q.Collection]; ok {
			continue
		}
		seen[s.q.Collection] = struct{}{}
		out = append(out, s.q.Collection)
	}
	return out
}

// open registers fn before running the initial fetch, so a write landing
// while the fetch is in progress triggers a refresh instead of being missed.
// The subscription is rolled back when the fetch fails.
func (h *hub) open(ctx context.Context, q Query, fn func(Snapshot), fetch func(context.Context, Query) (Snapshot, error)) (func(), error) {
	id := h.add(q, fn)
	snap, err := fetch(ctx, q)
	if err != nil {
		h.remove(id)
		return nil, err
	}
	fn(snap)
	return func() { h.remove(id) }, nil
}
