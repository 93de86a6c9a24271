package orders

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ujaasaroma/Admin.UjaasAroma/internal/docstore"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/mutate"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/shared/apperr"
)

type noteRecorder struct {
	mu    sync.Mutex
	notes []mutate.Notification
}

func (r *noteRecorder) sink() mutate.Notifier {
	return func(n mutate.Notification) {
		r.mu.Lock()
		r.notes = append(r.notes, n)
		r.mu.Unlock()
	}
}

func (r *noteRecorder) all() []mutate.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]mutate.Notification(nil), r.notes...)
}

func newTestService(t *testing.T, rec *noteRecorder) (*Service, *docstore.MemStore) {
	t.Helper()
	st := docstore.NewMemStore()
	var sink mutate.Notifier
	if rec != nil {
		sink = rec.sink()
	}
	svc := NewService(st, mutate.New(sink), slog.New(slog.NewTextHandler(io.Discard, nil)))
	stop, err := svc.Start(context.Background())
	require.NoError(t, err)
	t.Cleanup(stop)
	return svc, st
}

func seedOrder(t *testing.T, st *docstore.MemStore, status string) string {
	t.Helper()
	id, err := st.Create(context.Background(), Collection, docstore.Fields{
		"customerInfo": map[string]any{"name": "Asha", "email": "asha@example.com"},
		"total":        499.0,
		"status":       status,
		"shipping":     map[string]any{"status": status},
	})
	require.NoError(t, err)
	return id
}

func TestTransitionImmediate(t *testing.T) {
	rec := &noteRecorder{}
	svc, st := newTestService(t, rec)
	ctx := context.Background()
	id := seedOrder(t, st, StatusPending)

	m, err := svc.Transition(ctx, id, StatusProcessing)
	require.NoError(t, err)
	assert.Nil(t, m, "non-delivered transitions need no confirmation")

	snap, err := st.Fetch(ctx, docstore.Query{Collection: Collection})
	require.NoError(t, err)
	require.Len(t, snap, 1)
	assert.Equal(t, StatusProcessing, snap[0].Str("status", ""))
	// the legacy mirror is written in the same patch
	assert.Equal(t, StatusProcessing, snap[0].Str("shipping.status", ""))

	notes := rec.all()
	require.Len(t, notes, 1)
	assert.Equal(t, mutate.NoteSuccess, notes[0].Kind)
}

func TestTransitionToDeliveredNeedsConfirm(t *testing.T) {
	svc, st := newTestService(t, nil)
	ctx := context.Background()
	id := seedOrder(t, st, StatusProcessing)

	m, err := svc.Transition(ctx, id, StatusDelivered)
	require.NoError(t, err)
	require.NotNil(t, m)

	// nothing was written yet
	snap, err := st.Fetch(ctx, docstore.Query{Collection: Collection})
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, snap[0].Str("status", ""))

	require.NoError(t, svc.ConfirmDeliver(ctx, m))

	snap, err = st.Fetch(ctx, docstore.Query{Collection: Collection})
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, snap[0].Str("status", ""))
	assert.True(t, svc.State.View().Items[0].Delivered())
}

func TestTransitionToDeliveredCancelled(t *testing.T) {
	svc, st := newTestService(t, nil)
	ctx := context.Background()
	id := seedOrder(t, st, StatusProcessing)

	m, err := svc.Transition(ctx, id, StatusDelivered)
	require.NoError(t, err)
	svc.CancelDeliver(m)

	snap, err := st.Fetch(ctx, docstore.Query{Collection: Collection})
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, snap[0].Str("status", ""))
}

// A delivered order is terminal: the rejection happens locally, with a locked
// notification, and the gateway never sees a write.
func TestDeliveredIsLocked(t *testing.T) {
	rec := &noteRecorder{}
	svc, st := newTestService(t, rec)
	ctx := context.Background()
	id := seedOrder(t, st, StatusDelivered)

	before, err := st.Fetch(ctx, docstore.Query{Collection: Collection})
	require.NoError(t, err)
	updatedBefore := before[0].UpdatedAt

	m, err := svc.Transition(ctx, id, StatusProcessing)
	assert.Nil(t, m)
	assert.ErrorIs(t, err, ErrDeliveredLocked)

	notes := rec.all()
	require.Len(t, notes, 1)
	assert.Equal(t, mutate.NoteLocked, notes[0].Kind)
	assert.Equal(t, "Locked", notes[0].Title)

	after, err := st.Fetch(ctx, docstore.Query{Collection: Collection})
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, after[0].Str("status", ""))
	assert.Equal(t, updatedBefore, after[0].UpdatedAt, "no gateway write happened")
}

func TestTransitionValidation(t *testing.T) {
	svc, st := newTestService(t, nil)
	ctx := context.Background()
	id := seedOrder(t, st, StatusPending)

	_, err := svc.Transition(ctx, id, "shipped")
	require.Error(t, err)
	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.Invalid, ae.Kind)

	_, err = svc.Transition(ctx, "missing", StatusProcessing)
	require.Error(t, err)
	ae, ok = apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.NotFound, ae.Kind)
}

func TestDecodeDefaults(t *testing.T) {
	d := docstore.Document{ID: "ord-1", Fields: docstore.Fields{}}
	o := Decode(d)

	assert.Equal(t, "ord-1", o.ID)
	assert.Equal(t, "N/A", o.Customer.Name)
	assert.Equal(t, "-", o.Customer.Phone)
	assert.Equal(t, StatusPending, o.Status)
}
