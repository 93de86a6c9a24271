package mutate

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noteRecorder struct {
	mu    sync.Mutex
	notes []Notification
}

func (r *noteRecorder) sink() Notifier {
	return func(n Notification) {
		r.mu.Lock()
		r.notes = append(r.notes, n)
		r.mu.Unlock()
	}
}

func (r *noteRecorder) all() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.notes...)
}

func TestBeginConfirmSuccess(t *testing.T) {
	rec := &noteRecorder{}
	o := New(rec.sink())

	m := o.Begin("delete-products", []string{"a", "b"})
	assert.Equal(t, PhaseConfirming, m.Phase)

	got, ok := o.Get(m.Token)
	require.True(t, ok)
	assert.Same(t, m, got)

	var called []string
	res := o.Confirm(context.Background(), m, Notification{Kind: NoteSuccess, Title: "Deleted!"},
		func(_ context.Context, id string) error {
			called = append(called, id)
			return nil
		})

	require.True(t, res.OK())
	assert.Equal(t, []string{"a", "b"}, called)
	assert.Equal(t, []string{"a", "b"}, res.Done)
	assert.Equal(t, PhaseSucceeded, m.Phase)

	notes := rec.all()
	require.Len(t, notes, 1)
	assert.Equal(t, NoteSuccess, notes[0].Kind)
	assert.Equal(t, "Deleted!", notes[0].Title)

	// the token is spent
	_, ok = o.Get(m.Token)
	assert.False(t, ok)
}

func TestConfirmStopsAtFirstFailure(t *testing.T) {
	rec := &noteRecorder{}
	o := New(rec.sink())

	boom := errors.New("write rejected")
	var called []string
	res := o.Run(context.Background(), "delete", []string{"id1", "id2", "id3"},
		Notification{Kind: NoteSuccess, Title: "Deleted!"},
		func(_ context.Context, id string) error {
			called = append(called, id)
			if id == "id2" {
				return boom
			}
			return nil
		})

	require.False(t, res.OK())
	assert.ErrorIs(t, res.Err, boom)
	// id1 succeeded, id2 failed, id3 was never attempted
	assert.Equal(t, []string{"id1", "id2"}, called)
	assert.Equal(t, []string{"id1"}, res.Done)
	assert.Equal(t, "id2", res.FailedID)

	notes := rec.all()
	require.Len(t, notes, 1)
	assert.Equal(t, NoteError, notes[0].Kind)
	assert.Contains(t, notes[0].Message, "write rejected")
}

func TestCancelDiscardsPendingMutation(t *testing.T) {
	o := New(nil)
	m := o.Begin("delete", []string{"a"})

	o.Cancel(m)
	_, ok := o.Get(m.Token)
	assert.False(t, ok)
	assert.Equal(t, PhaseCancelled, m.Phase)

	// a cancelled mutation can no longer be confirmed, not even through the
	// original *Mutation pointer
	res := o.Confirm(context.Background(), m, Notification{}, func(context.Context, string) error {
		t.Fatal("step must not run")
		return nil
	})
	assert.ErrorIs(t, res.Err, ErrNotConfirming)
	assert.Empty(t, res.Done)
	assert.False(t, o.InFlight("a"))
}

func TestConfirmTwiceIsRejected(t *testing.T) {
	o := New(nil)
	m := o.Begin("delete", []string{"a"})

	res := o.Confirm(context.Background(), m, Notification{}, func(context.Context, string) error { return nil })
	require.True(t, res.OK())

	res = o.Confirm(context.Background(), m, Notification{}, func(context.Context, string) error {
		t.Fatal("step must not run again")
		return nil
	})
	assert.ErrorIs(t, res.Err, ErrNotConfirming)
}

func TestInFlightMarkers(t *testing.T) {
	o := New(nil)
	m := o.Begin("deliver", []string{"x"})

	assert.False(t, o.InFlight("x"))

	var during bool
	res := o.Confirm(context.Background(), m, Notification{}, func(_ context.Context, id string) error {
		during = o.InFlight(id)
		return nil
	})

	require.True(t, res.OK())
	assert.True(t, during, "marker set while the step runs")
	assert.False(t, o.InFlight("x"), "marker cleared after the batch")
}

func TestMarkersClearedOnFailure(t *testing.T) {
	o := New(nil)

	res := o.Run(context.Background(), "delete", []string{"a", "b"}, Notification{},
		func(_ context.Context, id string) error {
			if id == "a" {
				return errors.New("nope")
			}
			return nil
		})

	require.False(t, res.OK())
	assert.False(t, o.InFlight("a"))
	assert.False(t, o.InFlight("b"))
}

func TestCancelledContextStopsBatch(t *testing.T) {
	o := New(nil)
	ctx, cancel := context.WithCancel(context.Background())

	var called int
	res := o.Run(ctx, "delete", []string{"a", "b"}, Notification{},
		func(context.Context, string) error {
			called++
			cancel()
			return nil
		})

	require.False(t, res.OK())
	assert.ErrorIs(t, res.Err, context.Canceled)
	assert.Equal(t, 1, called)
	assert.Equal(t, "b", res.FailedID)
}

func TestLockedNotification(t *testing.T) {
	rec := &noteRecorder{}
	o := New(rec.sink())

	o.Locked("Locked", "Delivered orders cannot be updated.")

	notes := rec.all()
	require.Len(t, notes, 1)
	assert.Equal(t, NoteLocked, notes[0].Kind)
	assert.Equal(t, "Locked", notes[0].Title)
}

func TestTokensAreUnique(t *testing.T) {
	o := New(nil)
	seen := map[Token]bool{}
	for i := 0; i < 100; i++ {
		m := o.Begin("a", nil)
		require.False(t, seen[m.Token])
		seen[m.Token] = true
	}
}
