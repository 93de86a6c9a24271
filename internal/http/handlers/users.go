package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ujaasaroma/Admin.UjaasAroma/internal/http/middleware"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/http/validation"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/liststate"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/modules/users"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/mutate"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/shared/apperr"
)

type UsersHandler struct {
	Svc  *users.Service
	Orch *mutate.Orchestrator

	proj liststate.Projection[users.User]
}

func NewUsersHandler(svc *users.Service, orch *mutate.Orchestrator) *UsersHandler {
	return &UsersHandler{Svc: svc, Orch: orch, proj: users.Projection()}
}

func (h *UsersHandler) List(c *gin.Context) {
	applyViewQuery(c, h.Svc.State)
	c.JSON(http.StatusOK, listPayload(h.Svc.State, h.proj))
}

func (h *UsersHandler) Update(c *gin.Context) {
	var in users.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		errs := validation.FromBindError(err, &in)
		middleware.Fail(c, apperr.InvalidErr("Please check the form.", errs))
		return
	}
	if err := h.Svc.Update(c.Request.Context(), c.Param("id"), in); err != nil {
		middleware.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Delete opens the confirmation gate. Deleting a user is a hard remove, so
// the prompt names the account it is about to destroy.
func (h *UsersHandler) Delete(c *gin.Context) {
	m := h.Svc.BeginDelete(c.Param("id"))
	c.JSON(http.StatusAccepted, pendingJSON(m, "Delete this user?", "This cannot be undone."))
}

func (h *UsersHandler) ConfirmDelete(c *gin.Context) {
	m, ok := h.pending(c)
	if !ok {
		return
	}
	res := h.Svc.ConfirmDelete(c.Request.Context(), m)
	c.JSON(http.StatusOK, resultJSON(res))
}

func (h *UsersHandler) CancelDelete(c *gin.Context) {
	m, ok := h.pending(c)
	if !ok {
		return
	}
	h.Svc.CancelDelete(m)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *UsersHandler) pending(c *gin.Context) (*mutate.Mutation, bool) {
	return pendingMutation(c, h.Orch, users.ActionDelete)
}
