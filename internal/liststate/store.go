// Package liststate holds the per-entity observable list state every admin
// screen is built on: the latest snapshot mirrored from the document store
// plus UI-local state (search, filter, sort, selection, open drafts). One
// Store instance exists per entity kind; exactly one gateway subscription
// feeds its items, and readers go through View.
package liststate

import "sync"

// Record is any entity mirrored into a Store.
type Record interface {
	RecordID() string
}

// State is the full observable state of one entity list. Items are only ever
// replaced wholesale by a gateway snapshot, never merged.
type State[T Record] struct {
	Items   []T
	Loading bool

	Search string
	Filter string
	Sort   string

	Selected map[string]struct{}

	// Editing/Adding are drafts: working copies distinct from the persisted
	// record until explicitly saved. Only one draft slot exists per kind.
	Editing *T
	Adding  *T

	Hovered        string
	UploadProgress int
	DraggingIndex  int
}

type Store[T Record] struct {
	mu    sync.RWMutex
	state State[T]

	subMu   sync.Mutex
	subs    map[int]func()
	nextSub int
}

func New[T Record](defaultFilter, defaultSort string) *Store[T] {
	return &Store[T]{
		state: State[T]{
			Loading:       true,
			Filter:        defaultFilter,
			Sort:          defaultSort,
			Selected:      make(map[string]struct{}),
			DraggingIndex: -1,
		},
	}
}

// Subscribe registers a change listener and returns its remover.
func (s *Store[T]) Subscribe(fn func()) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if s.subs == nil {
		s.subs = make(map[int]func())
	}
	s.nextSub++
	id := s.nextSub
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store[T]) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// View returns a copy of the current state safe to read concurrently.
func (s *Store[T]) View() State[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.state
	out.Items = append([]T(nil), s.state.Items...)
	out.Selected = make(map[string]struct{}, len(s.state.Selected))
	for id := range s.state.Selected {
		out.Selected[id] = struct{}{}
	}
	if s.state.Editing != nil {
		e := *s.state.Editing
		out.Editing = &e
	}
	if s.state.Adding != nil {
		a := *s.state.Adding
		out.Adding = &a
	}
	return out
}

// ReplaceAll overwrites items with a gateway snapshot and clears loading.
func (s *Store[T]) ReplaceAll(items []T) {
	s.mu.Lock()
	s.state.Items = append([]T(nil), items...)
	s.state.Loading = false
	s.mu.Unlock()
	s.notify()
}

func (s *Store[T]) SetLoading(v bool) {
	s.mu.Lock()
	s.state.Loading = v
	s.mu.Unlock()
	s.notify()
}

func (s *Store[T]) SetSearch(v string) {
	s.mu.Lock()
	s.state.Search = v
	s.mu.Unlock()
	s.notify()
}

func (s *Store[T]) SetFilter(v string) {
	s.mu.Lock()
	s.state.Filter = v
	s.mu.Unlock()
	s.notify()
}

func (s *Store[T]) SetSort(v string) {
	s.mu.Lock()
	s.state.Sort = v
	s.mu.Unlock()
	s.notify()
}

// ToggleSelect is its own inverse: applying it twice with the same id leaves
// the selection unchanged.
func (s *Store[T]) ToggleSelect(id string) {
	s.mu.Lock()
	if _, ok := s.state.Selected[id]; ok {
		delete(s.state.Selected, id)
	} else {
		s.state.Selected[id] = struct{}{}
	}
	s.mu.Unlock()
	s.notify()
}

// SelectAllVisible selects exactly the given ids (the currently projected
// set). "All visible selected" is derived by AllVisibleSelected, not stored.
func (s *Store[T]) SelectAllVisible(ids []string) {
	s.mu.Lock()
	s.state.Selected = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s.state.Selected[id] = struct{}{}
	}
	s.mu.Unlock()
	s.notify()
}

func (s *Store[T]) ClearSelection() {
	s.mu.Lock()
	s.state.Selected = make(map[string]struct{})
	s.mu.Unlock()
	s.notify()
}

// AllVisibleSelected reports whether every given id is currently selected.
// Empty input never counts as all-selected.
func (s *Store[T]) AllVisibleSelected(ids []string) bool {
	if len(ids) == 0 {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range ids {
		if _, ok := s.state.Selected[id]; !ok {
			return false
		}
	}
	return true
}

// ToggleSelectAll keeps the legacy header-checkbox contract: clear when the
// visible set is fully selected, otherwise select exactly the visible set.
func (s *Store[T]) ToggleSelectAll(ids []string) {
	if s.AllVisibleSelected(ids) {
		s.ClearSelection()
		return
	}
	s.SelectAllVisible(ids)
}

// SelectedIDs returns the selection in no particular order.
func (s *Store[T]) SelectedIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.state.Selected))
	for id := range s.state.Selected {
		out = append(out, id)
	}
	return out
}

func (s *Store[T]) StartEditing(rec T) {
	s.mu.Lock()
	cp := rec
	s.state.Editing = &cp
	s.mu.Unlock()
	s.notify()
}

func (s *Store[T]) ClearEditing() {
	s.mu.Lock()
	s.state.Editing = nil
	s.state.UploadProgress = 0
	s.state.DraggingIndex = -1
	s.mu.Unlock()
	s.notify()
}

func (s *Store[T]) StartAdding(rec T) {
	s.mu.Lock()
	cp := rec
	s.state.Adding = &cp
	s.mu.Unlock()
	s.notify()
}

func (s *Store[T]) ClearAdding() {
	s.mu.Lock()
	s.state.Adding = nil
	s.state.UploadProgress = 0
	s.state.DraggingIndex = -1
	s.mu.Unlock()
	s.notify()
}

// PatchEditing mutates the open editing draft only; the persisted record is
// untouched until an explicit save. No-op when no draft is open.
func (s *Store[T]) PatchEditing(patch func(*T)) {
	s.mu.Lock()
	if s.state.Editing != nil {
		patch(s.state.Editing)
	}
	s.mu.Unlock()
	s.notify()
}

func (s *Store[T]) PatchAdding(patch func(*T)) {
	s.mu.Lock()
	if s.state.Adding != nil {
		patch(s.state.Adding)
	}
	s.mu.Unlock()
	s.notify()
}

// PatchDraft applies to whichever draft is open, preferring the edit slot.
func (s *Store[T]) PatchDraft(patch func(*T)) {
	s.mu.Lock()
	switch {
	case s.state.Editing != nil:
		patch(s.state.Editing)
	case s.state.Adding != nil:
		patch(s.state.Adding)
	}
	s.mu.Unlock()
	s.notify()
}

// Draft returns the open draft (edit slot wins) or nil.
func (s *Store[T]) Draft() *T {
	st := s.View()
	if st.Editing != nil {
		return st.Editing
	}
	return st.Adding
}

func (s *Store[T]) SetHovered(id string) {
	s.mu.Lock()
	s.state.Hovered = id
	s.mu.Unlock()
	s.notify()
}

func (s *Store[T]) SetUploadProgress(pct int) {
	s.mu.Lock()
	s.state.UploadProgress = pct
	s.mu.Unlock()
	s.notify()
}

func (s *Store[T]) SetDraggingIndex(i int) {
	s.mu.Lock()
	s.state.DraggingIndex = i
	s.mu.Unlock()
	s.notify()
}

// RemoveItems drops the given ids from items after a confirmed delete, so the
// screen settles before the next live snapshot arrives.
func (s *Store[T]) RemoveItems(ids []string) {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	s.mu.Lock()
	kept := s.state.Items[:0]
	for _, it := range s.state.Items {
		if _, ok := drop[it.RecordID()]; !ok {
			kept = append(kept, it)
		}
	}
	s.state.Items = kept
	s.mu.Unlock()
	s.notify()
}

// PatchItem applies an in-place update to one item, if present.
func (s *Store[T]) PatchItem(id string, patch func(*T)) {
	s.mu.Lock()
	for i := range s.state.Items {
		if s.state.Items[i].RecordID() == id {
			patch(&s.state.Items[i])
			break
		}
	}
	s.mu.Unlock()
	s.notify()
}

// Reset restores the ephemeral UI-local state on navigation away; items stay.
func (s *Store[T]) Reset(defaultFilter, defaultSort string) {
	s.mu.Lock()
	s.state.Search = ""
	s.state.Filter = defaultFilter
	s.state.Sort = defaultSort
	s.state.Selected = make(map[string]struct{})
	s.state.Editing = nil
	s.state.Adding = nil
	s.state.Hovered = ""
	s.state.UploadProgress = 0
	s.state.DraggingIndex = -1
	s.mu.Unlock()
	s.notify()
}
