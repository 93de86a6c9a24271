package queries

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ujaasaroma/Admin.UjaasAroma/internal/docstore"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/liststate"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/mutate"
)

func newTestService(t *testing.T) (*Service, *docstore.MemStore) {
	t.Helper()
	st := docstore.NewMemStore()
	svc := NewService(st, mutate.New(nil), slog.New(slog.NewTextHandler(io.Discard, nil)))
	stop, err := svc.Start(context.Background())
	require.NoError(t, err)
	t.Cleanup(stop)
	return svc, st
}

func TestStartSkipsDeleted(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)

	_, err := st.Create(ctx, Collection, docstore.Fields{"name": "Live", "deleted": 0})
	require.NoError(t, err)
	_, err = st.Create(ctx, Collection, docstore.Fields{"name": "Gone", "deleted": 1})
	require.NoError(t, err)

	v := svc.State.View()
	require.Len(t, v.Items, 1)
	assert.Equal(t, "Live", v.Items[0].Name)
}

func TestBulkSoftDelete(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)

	id1, err := st.Create(ctx, Collection, docstore.Fields{"name": "A"})
	require.NoError(t, err)
	id2, err := st.Create(ctx, Collection, docstore.Fields{"name": "B"})
	require.NoError(t, err)

	svc.State.ToggleSelect(id1)
	svc.State.ToggleSelect(id2)

	m := svc.BeginDelete(svc.State.SelectedIDs())
	res := svc.ConfirmDelete(ctx, m)
	require.True(t, res.OK())

	assert.Empty(t, svc.State.View().Items)
	assert.Empty(t, svc.State.SelectedIDs())

	// soft delete keeps the documents
	snap, err := st.Fetch(ctx, docstore.Query{Collection: Collection}.Where("deleted", 1))
	require.NoError(t, err)
	assert.Len(t, snap, 2)
}

func TestSortMostRecent(t *testing.T) {
	proj := Projection()

	base := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)
	items := []Query{
		Decode(docstore.Document{ID: "old", CreatedAt: base}),
		Decode(docstore.Document{ID: "new", CreatedAt: base.Add(time.Hour)}),
	}

	st := liststate.State[Query]{Items: items, Sort: SortMostRecent}
	got := proj.Project(st)
	require.Len(t, got, 2)
	assert.Equal(t, "new", got[0].ID)

	st.Sort = SortOldest
	got = proj.Project(st)
	assert.Equal(t, "old", got[0].ID)
}
