// Package mutate coordinates multi-step user actions: a confirmation gate,
// per-id in-flight markers, one gateway call per affected record issued
// sequentially, and a terminal success or failure notification. In-flight
// markers live here, keyed by mutation token, never inside the list items, so
// an incoming live snapshot can never erase a pending marker (it is merged at
// render time instead).
package mutate

import (
	"context"
	"errors"
	"sync"

	"github.com/oklog/ulid/v2"
)

type Phase int

const (
	PhaseConfirming Phase = iota
	PhasePending
	PhaseSucceeded
	PhaseFailed
	PhaseCancelled
)

// Token identifies one mutation. ULIDs sort by start time, which keeps
// concurrent operations on different ids distinguishable in logs.
type Token string

func NewToken() Token { return Token(ulid.Make().String()) }

type NoteKind string

const (
	NoteSuccess NoteKind = "success"
	NoteError   NoteKind = "error"
	NoteLocked  NoteKind = "locked"
)

// Notification is the user-visible outcome of an action (rendered as a toast
// or modal by the caller).
type Notification struct {
	Kind    NoteKind
	Title   string
	Message string
}

type Notifier func(Notification)

var (
	ErrNotConfirming = errors.New("mutate: mutation is not awaiting confirmation")
	ErrAborted       = errors.New("mutate: mutation aborted")
)

type Mutation struct {
	Token  Token
	Action string
	IDs    []string
	Phase  Phase
}

// Result is the typed accumulator of a sequential batch: everything before
// the failure has taken effect, nothing after it was attempted.
type Result struct {
	Token    Token
	Done     []string
	FailedID string
	Err      error
}

func (r Result) OK() bool { return r.Err == nil }

type Orchestrator struct {
	mu       sync.Mutex
	muts     map[Token]*Mutation
	inflight map[string]Token
	notify   Notifier
}

func New(notify Notifier) *Orchestrator {
	if notify == nil {
		notify = func(Notification) {}
	}
	return &Orchestrator{
		muts:     make(map[Token]*Mutation),
		inflight: make(map[string]Token),
		notify:   notify,
	}
}

// Begin opens the confirmation gate for a destructive or terminal action.
// Nothing is in flight until Confirm.
func (o *Orchestrator) Begin(action string, ids []string) *Mutation {
	m := &Mutation{
		Token:  NewToken(),
		Action: action,
		IDs:    append([]string(nil), ids...),
		Phase:  PhaseConfirming,
	}
	o.mu.Lock()
	o.muts[m.Token] = m
	o.mu.Unlock()
	return m
}

// Cancel aborts a mutation still at the confirmation gate. The phase moves
// to Cancelled so a held *Mutation can never be confirmed afterwards.
func (o *Orchestrator) Cancel(m *Mutation) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if m.Phase == PhaseConfirming {
		m.Phase = PhaseCancelled
		delete(o.muts, m.Token)
	}
}

// Get resolves a token to its pending mutation.
func (o *Orchestrator) Get(token Token) (*Mutation, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	m, ok := o.muts[token]
	return m, ok
}

// Confirm runs a gated mutation: marks its ids in flight and issues step once
// per id, in order, stopping at the first failure. success is emitted only
// when every call resolved; a failure emits an error notification carrying
// the rejection message.
func (o *Orchestrator) Confirm(ctx context.Context, m *Mutation, success Notification, step func(ctx context.Context, id string) error) Result {
	o.mu.Lock()
	if m.Phase != PhaseConfirming {
		o.mu.Unlock()
		return Result{Token: m.Token, Err: ErrNotConfirming}
	}
	m.Phase = PhasePending
	for _, id := range m.IDs {
		o.inflight[id] = m.Token
	}
	o.mu.Unlock()

	return o.finish(o.runSequential(ctx, m, step), m, success)
}

// Run executes an ungated mutation (no confirmation step) with the same
// in-flight and notification semantics.
func (o *Orchestrator) Run(ctx context.Context, action string, ids []string, success Notification, step func(ctx context.Context, id string) error) Result {
	m := o.Begin(action, ids)
	return o.Confirm(ctx, m, success, step)
}

func (o *Orchestrator) runSequential(ctx context.Context, m *Mutation, step func(ctx context.Context, id string) error) Result {
	res := Result{Token: m.Token}
	for _, id := range m.IDs {
		if err := ctx.Err(); err != nil {
			res.FailedID = id
			res.Err = err
			return res
		}
		if err := step(ctx, id); err != nil {
			res.FailedID = id
			res.Err = err
			return res
		}
		res.Done = append(res.Done, id)
	}
	return res
}

func (o *Orchestrator) finish(res Result, m *Mutation, success Notification) Result {
	o.mu.Lock()
	for _, id := range m.IDs {
		if o.inflight[id] == m.Token {
			delete(o.inflight, id)
		}
	}
	if res.Err != nil {
		m.Phase = PhaseFailed
	} else {
		m.Phase = PhaseSucceeded
	}
	delete(o.muts, m.Token)
	o.mu.Unlock()

	if res.Err != nil {
		o.notify(Notification{Kind: NoteError, Title: "Error", Message: res.Err.Error()})
	} else {
		o.notify(success)
	}
	return res
}

// InFlight reports whether a record currently has a pending mutation; views
// key their spinners on this.
func (o *Orchestrator) InFlight(id string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.inflight[id]
	return ok
}

// Locked emits the rejection notification for a terminal-state action that
// was refused locally, before any gateway call.
func (o *Orchestrator) Locked(title, message string) {
	o.notify(Notification{Kind: NoteLocked, Title: title, Message: message})
}

// Notify forwards an ad hoc notification through the orchestrator's sink.
func (o *Orchestrator) Notify(n Notification) { o.notify(n) }
