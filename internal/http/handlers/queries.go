package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ujaasaroma/Admin.UjaasAroma/internal/http/middleware"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/liststate"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/modules/queries"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/mutate"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/shared/apperr"
)

// QueriesHandler serves the mobile-app contact form inbox.
type QueriesHandler struct {
	Svc  *queries.Service
	Orch *mutate.Orchestrator

	proj liststate.Projection[queries.Query]
}

func NewQueriesHandler(svc *queries.Service, orch *mutate.Orchestrator) *QueriesHandler {
	return &QueriesHandler{Svc: svc, Orch: orch, proj: queries.Projection()}
}

func (h *QueriesHandler) List(c *gin.Context) {
	applyViewQuery(c, h.Svc.State)
	c.JSON(http.StatusOK, listPayload(h.Svc.State, h.proj))
}

func (h *QueriesHandler) ToggleSelect(c *gin.Context) {
	h.Svc.State.ToggleSelect(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"selected": h.Svc.State.SelectedIDs()})
}

func (h *QueriesHandler) SelectAll(c *gin.Context) {
	ids := h.proj.ProjectIDs(h.Svc.State.View())
	h.Svc.State.SelectAllVisible(ids)
	c.JSON(http.StatusOK, gin.H{"selected": h.Svc.State.SelectedIDs()})
}

func (h *QueriesHandler) ClearSelection(c *gin.Context) {
	h.Svc.State.ClearSelection()
	c.JSON(http.StatusOK, gin.H{"selected": []string{}})
}

func (h *QueriesHandler) Delete(c *gin.Context) {
	var in idsInput
	_ = c.ShouldBindJSON(&in)
	ids := in.IDs
	if len(ids) == 0 {
		ids = h.Svc.State.SelectedIDs()
	}
	if len(ids) == 0 {
		middleware.Fail(c, apperr.InvalidErr("Select at least one query.", nil))
		return
	}
	m := h.Svc.BeginDelete(ids)
	c.JSON(http.StatusAccepted, pendingJSON(m, "Are you sure?", "Selected queries will be deleted."))
}

func (h *QueriesHandler) ConfirmDelete(c *gin.Context) {
	m, ok := h.pending(c)
	if !ok {
		return
	}
	res := h.Svc.ConfirmDelete(c.Request.Context(), m)
	c.JSON(http.StatusOK, resultJSON(res))
}

func (h *QueriesHandler) CancelDelete(c *gin.Context) {
	m, ok := h.pending(c)
	if !ok {
		return
	}
	h.Svc.CancelDelete(m)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *QueriesHandler) pending(c *gin.Context) (*mutate.Mutation, bool) {
	return pendingMutation(c, h.Orch, queries.ActionDelete)
}
