package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ujaasaroma/Admin.UjaasAroma/internal/docstore"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/http/middleware"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/modules/orders"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/modules/products"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/mutate"
)

func newProductsRig(t *testing.T) (*gin.Engine, *products.Service, *docstore.MemStore, *mutate.Orchestrator) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := docstore.NewMemStore()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	orch := mutate.New(nil)
	svc := products.NewService(st, orch, nil, log)
	stop, err := svc.Start(context.Background())
	require.NoError(t, err)
	t.Cleanup(stop)

	h := NewProductsHandler(svc, orch)
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler(log))
	r.GET("/api/products", h.List)
	r.POST("/api/products", h.Create)
	r.POST("/api/products/delete", h.Delete)
	r.POST("/api/products/delete/confirm", h.ConfirmDelete)
	r.POST("/api/products/delete/cancel", h.CancelDelete)
	return r, svc, st, orch
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestProductsCreateAndList(t *testing.T) {
	r, _, _, _ := newProductsRig(t)

	w := postJSON(r, "/api/products", `{"title":"Rose Attar","price":250,"images":["https://cdn.test/r.jpg"]}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotEmpty(t, decodeBody(t, w)["id"])

	req := httptest.NewRequest(http.MethodGet, "/api/products?search=rose", nil)
	lw := httptest.NewRecorder()
	r.ServeHTTP(lw, req)
	require.Equal(t, http.StatusOK, lw.Code)

	body := decodeBody(t, lw)
	items, ok := body["items"].([]any)
	require.True(t, ok)
	assert.Len(t, items, 1)
}

func TestProductsCreateValidationPayload(t *testing.T) {
	r, _, _, _ := newProductsRig(t)

	// discount above price is rejected with a field-level message
	w := postJSON(r, "/api/products", `{"title":"X","price":100,"discountPrice":150,"images":["a"]}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "invalid-argument", body["code"])
	fields, ok := body["fields"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, fields, "discountPrice")
}

func TestProductsDeleteConfirmFlow(t *testing.T) {
	r, svc, st, _ := newProductsRig(t)
	ctx := context.Background()

	id, err := st.Create(ctx, products.Collection, docstore.Fields{"title": "Doomed", "deleted": 0})
	require.NoError(t, err)

	w := postJSON(r, "/api/products/delete", `{"ids":["`+id+`"]}`)
	require.Equal(t, http.StatusAccepted, w.Code)
	body := decodeBody(t, w)
	token, ok := body["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)
	assert.Contains(t, body, "confirm")

	// still visible while confirmation is pending
	assert.Len(t, svc.State.View().Items, 1)

	w = postJSON(r, "/api/products/delete/confirm", `{"token":"`+token+`"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["ok"])

	assert.Empty(t, svc.State.View().Items)

	// a spent token is rejected
	w = postJSON(r, "/api/products/delete/confirm", `{"token":"`+token+`"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductsDeleteCancel(t *testing.T) {
	r, svc, st, _ := newProductsRig(t)

	id, err := st.Create(context.Background(), products.Collection, docstore.Fields{"title": "Stays", "deleted": 0})
	require.NoError(t, err)

	w := postJSON(r, "/api/products/delete", `{"ids":["`+id+`"]}`)
	require.Equal(t, http.StatusAccepted, w.Code)
	token := decodeBody(t, w)["token"].(string)

	w = postJSON(r, "/api/products/delete/cancel", `{"token":"`+token+`"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, svc.State.View().Items, 1)
}

func TestProductsDeleteNeedsSelection(t *testing.T) {
	r, _, _, _ := newProductsRig(t)

	w := postJSON(r, "/api/products/delete", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// A confirmation endpoint only accepts tokens opened for its own action; a
// token gated on another screen must neither run nor be spent here.
func TestConfirmRejectsTokenForOtherAction(t *testing.T) {
	r, _, _, orch := newProductsRig(t)

	m := orch.Begin(orders.ActionDeliver, []string{"order-1"})

	w := postJSON(r, "/api/products/delete/confirm", `{"token":"`+string(m.Token)+`"}`)
	require.Equal(t, http.StatusNotFound, w.Code)

	got, ok := orch.Get(m.Token)
	require.True(t, ok)
	assert.Equal(t, mutate.PhaseConfirming, got.Phase)
}
