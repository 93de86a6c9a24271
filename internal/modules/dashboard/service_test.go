package dashboard

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ujaasaroma/Admin.UjaasAroma/internal/docstore"
)

func TestCountsTrackTheStore(t *testing.T) {
	ctx := context.Background()
	st := docstore.NewMemStore()
	svc := NewService(st, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.True(t, svc.Counts().Loading)

	require.NoError(t, svc.Start(ctx))
	defer svc.Stop()

	c := svc.Counts()
	assert.False(t, c.Loading)
	assert.Zero(t, c.TotalUsers)
	assert.Zero(t, c.TotalProducts)

	_, err := st.Create(ctx, "users", docstore.Fields{"name": "A", "admin": 0})
	require.NoError(t, err)
	_, err = st.Create(ctx, "users", docstore.Fields{"name": "B", "admin": 1})
	require.NoError(t, err)
	_, err = st.Create(ctx, "products", docstore.Fields{"title": "P"})
	require.NoError(t, err)
	_, err = st.Create(ctx, "successOrders", docstore.Fields{"total": 10.0})
	require.NoError(t, err)
	_, err = st.Create(ctx, "mobileAppContactFormQueries", docstore.Fields{"name": "Q"})
	require.NoError(t, err)

	c = svc.Counts()
	assert.Equal(t, 1, c.TotalUsers, "admins do not count as users")
	assert.Equal(t, 1, c.AdminUsers)
	assert.Equal(t, 1, c.TotalProducts)
	assert.Equal(t, 1, c.SuccessOrders)
	assert.Equal(t, 1, c.MobileQueries)
	assert.Zero(t, c.FailedOrders)
	assert.Zero(t, c.DiscountCodes)
}

func TestStopFreezesCounts(t *testing.T) {
	ctx := context.Background()
	st := docstore.NewMemStore()
	svc := NewService(st, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, svc.Start(ctx))

	_, err := st.Create(ctx, "products", docstore.Fields{"title": "P"})
	require.NoError(t, err)
	require.Equal(t, 1, svc.Counts().TotalProducts)

	svc.Stop()

	_, err = st.Create(ctx, "products", docstore.Fields{"title": "Q"})
	require.NoError(t, err)
	assert.Equal(t, 1, svc.Counts().TotalProducts)
}
