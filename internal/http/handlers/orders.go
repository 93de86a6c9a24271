package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ujaasaroma/Admin.UjaasAroma/internal/http/middleware"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/liststate"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/modules/orders"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/mutate"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/shared/apperr"
)

type OrdersHandler struct {
	Svc  *orders.Service
	Orch *mutate.Orchestrator

	proj liststate.Projection[orders.Order]
}

func NewOrdersHandler(svc *orders.Service, orch *mutate.Orchestrator) *OrdersHandler {
	return &OrdersHandler{Svc: svc, Orch: orch, proj: orders.Projection()}
}

func (h *OrdersHandler) List(c *gin.Context) {
	applyViewQuery(c, h.Svc.State)
	c.JSON(http.StatusOK, listPayload(h.Svc.State, h.proj))
}

type statusInput struct {
	Status string `json:"status" binding:"required"`
}

// SetStatus moves an order through the fulfilment flow. Moving to delivered
// answers 202 with a confirmation token instead of writing immediately.
func (h *OrdersHandler) SetStatus(c *gin.Context) {
	var in statusInput
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.Fail(c, apperr.InvalidErr("A status is required.", nil))
		return
	}
	m, err := h.Svc.Transition(c.Request.Context(), c.Param("id"), in.Status)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	if m != nil {
		c.JSON(http.StatusAccepted, pendingJSON(m,
			"Mark as delivered?",
			"Delivered orders are locked and cannot be updated again."))
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *OrdersHandler) ConfirmStatus(c *gin.Context) {
	m, ok := h.pending(c)
	if !ok {
		return
	}
	if err := h.Svc.ConfirmDeliver(c.Request.Context(), m); err != nil {
		middleware.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *OrdersHandler) CancelStatus(c *gin.Context) {
	m, ok := h.pending(c)
	if !ok {
		return
	}
	h.Svc.CancelDeliver(m)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *OrdersHandler) pending(c *gin.Context) (*mutate.Mutation, bool) {
	return pendingMutation(c, h.Orch, orders.ActionDeliver)
}
