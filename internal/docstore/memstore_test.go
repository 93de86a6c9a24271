package docstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStoreCreateAndFetch(t *testing.T) {
	ctx := context.Background()
	st := NewMemStore()

	id1, err := st.Create(ctx, "products", Fields{"title": "Rose Attar", "price": 120.0, "deleted": 0})
	require.NoError(t, err)
	id2, err := st.Create(ctx, "products", Fields{"title": "Oud Oil", "price": 340.0, "deleted": 1})
	require.NoError(t, err)
	require.NotEqual(t, id1, id2)

	snap, err := st.Fetch(ctx, Query{Collection: "products"})
	require.NoError(t, err)
	assert.Len(t, snap, 2)

	snap, err = st.Fetch(ctx, Query{Collection: "products"}.Where("deleted", 0))
	require.NoError(t, err)
	require.Len(t, snap, 1)
	assert.Equal(t, id1, snap[0].ID)
	assert.Equal(t, "Rose Attar", snap[0].Str("title", ""))
}

func TestMemStoreFetchOrdering(t *testing.T) {
	ctx := context.Background()
	st := NewMemStore()

	for _, title := range []string{"Banana", "Apple", "Cherry"} {
		_, err := st.Create(ctx, "products", Fields{"title": title})
		require.NoError(t, err)
	}

	snap, err := st.Fetch(ctx, Query{Collection: "products", OrderBy: "title"})
	require.NoError(t, err)
	got := make([]string, 0, len(snap))
	for _, d := range snap {
		got = append(got, d.Str("title", ""))
	}
	assert.Equal(t, []string{"Apple", "Banana", "Cherry"}, got)

	snap, err = st.Fetch(ctx, Query{Collection: "products", OrderBy: "title", Desc: true})
	require.NoError(t, err)
	got = got[:0]
	for _, d := range snap {
		got = append(got, d.Str("title", ""))
	}
	assert.Equal(t, []string{"Cherry", "Banana", "Apple"}, got)
}

func TestMemStorePatchDottedPath(t *testing.T) {
	ctx := context.Background()
	st := NewMemStore()

	id, err := st.Create(ctx, "successOrders", Fields{
		"status": "pending",
		"shipping": map[string]any{
			"status":  "pending",
			"carrier": "bluedart",
		},
	})
	require.NoError(t, err)

	err = st.Patch(ctx, "successOrders", id, Fields{
		"status":          "processing",
		"shipping.status": "processing",
	})
	require.NoError(t, err)

	snap, err := st.Fetch(ctx, Query{Collection: "successOrders"})
	require.NoError(t, err)
	require.Len(t, snap, 1)
	assert.Equal(t, "processing", snap[0].Str("status", ""))
	assert.Equal(t, "processing", snap[0].Str("shipping.status", ""))
	// siblings of the patched nested key survive
	assert.Equal(t, "bluedart", snap[0].Str("shipping.carrier", ""))
}

func TestMemStorePatchMissing(t *testing.T) {
	st := NewMemStore()
	err := st.Patch(context.Background(), "products", "nope", Fields{"title": "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemStoreRemove(t *testing.T) {
	ctx := context.Background()
	st := NewMemStore()

	id, err := st.Create(ctx, "users", Fields{"name": "A"})
	require.NoError(t, err)
	require.NoError(t, st.Remove(ctx, "users", id))

	snap, err := st.Fetch(ctx, Query{Collection: "users"})
	require.NoError(t, err)
	assert.Empty(t, snap)

	assert.ErrorIs(t, st.Remove(ctx, "users", id), ErrNotFound)
}

func TestMemStoreSubscribe(t *testing.T) {
	ctx := context.Background()
	st := NewMemStore()

	_, err := st.Create(ctx, "products", Fields{"title": "First"})
	require.NoError(t, err)

	var snaps []Snapshot
	unsub, err := st.Subscribe(ctx, Query{Collection: "products"}, func(s Snapshot) {
		snaps = append(snaps, s)
	})
	require.NoError(t, err)
	defer unsub()

	// the current result set is delivered on subscribe
	require.Len(t, snaps, 1)
	assert.Len(t, snaps[0], 1)

	_, err = st.Create(ctx, "products", Fields{"title": "Second"})
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Len(t, snaps[1], 2)

	// writes to other collections do not wake this subscription
	_, err = st.Create(ctx, "users", Fields{"name": "X"})
	require.NoError(t, err)
	assert.Len(t, snaps, 2)

	unsub()
	_, err = st.Create(ctx, "products", Fields{"title": "Third"})
	require.NoError(t, err)
	assert.Len(t, snaps, 2)
}

func TestMemStoreSubscribeFiltered(t *testing.T) {
	ctx := context.Background()
	st := NewMemStore()

	var last Snapshot
	_, err := st.Subscribe(ctx, Query{Collection: "users"}.Where("admin", 1), func(s Snapshot) {
		last = s
	})
	require.NoError(t, err)
	assert.Empty(t, last)

	_, err = st.Create(ctx, "users", Fields{"name": "A", "admin": 0})
	require.NoError(t, err)
	assert.Empty(t, last)

	_, err = st.Create(ctx, "users", Fields{"name": "B", "admin": 1})
	require.NoError(t, err)
	require.Len(t, last, 1)
	assert.Equal(t, "B", last[0].Str("name", ""))
}

func TestFormatTime(t *testing.T) {
	ts := time.Date(2025, time.March, 7, 14, 5, 0, 0, time.UTC)
	assert.Equal(t, "Mar 07, 2025, 02:05 PM", FormatTime(ts))
}

func TestDocumentDecodeHelpers(t *testing.T) {
	d := Document{Fields: Fields{
		"title":  "Attar",
		"price":  float64(99),
		"stock":  42,
		"flag":   true,
		"images": []any{"a.jpg", "b.jpg"},
		"nested": map[string]any{"inner": "v"},
	}}

	assert.Equal(t, "Attar", d.Str("title", "-"))
	assert.Equal(t, "-", d.Str("missing", "-"))
	assert.Equal(t, 99.0, d.Num("price"))
	assert.Equal(t, 42.0, d.Num("stock"))
	assert.Equal(t, 1, d.Flag01("flag"))
	assert.Equal(t, 0, d.Flag01("missing"))
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, d.Strings("images"))
	assert.Equal(t, "v", d.Str("nested.inner", ""))
}

// A write that lands while the initial fetch is running must reach the
// subscriber: the subscription registers in the hub before the fetch.
func TestSubscribeSeesWriteDuringInitialFetch(t *testing.T) {
	h := &hub{}
	var got []Snapshot

	fetch := func(context.Context, Query) (Snapshot, error) {
		// a concurrent write notifies the hub mid-fetch
		for _, sub := range h.collect("products") {
			sub.fn(Snapshot{{ID: "written-during-fetch"}})
		}
		return Snapshot{}, nil
	}

	unsub, err := h.open(context.Background(), Query{Collection: "products"},
		func(s Snapshot) { got = append(got, s) }, fetch)
	require.NoError(t, err)
	defer unsub()

	require.Len(t, got, 2)
	require.Len(t, got[0], 1)
	assert.Equal(t, "written-during-fetch", got[0][0].ID)
	assert.Empty(t, got[1])
}

func TestSubscribeFetchErrorRollsBackRegistration(t *testing.T) {
	h := &hub{}

	_, err := h.open(context.Background(), Query{Collection: "products"},
		func(Snapshot) {}, func(context.Context, Query) (Snapshot, error) {
			return nil, ErrNotFound
		})
	require.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, h.collect("products"))
}
