package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ujaasaroma/Admin.UjaasAroma/internal/http/middleware"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/liststate"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/modules/resetauth"
)

type ResetHandler struct {
	Svc *resetauth.Service

	proj liststate.Projection[resetauth.LogEntry]
}

func NewResetHandler(svc *resetauth.Service) *ResetHandler {
	return &ResetHandler{Svc: svc, proj: resetauth.LogProjection()}
}

type resetInput struct {
	Email string `json:"email"`
}

// Send is the password-reset RPC behind the login screen's "forgot password"
// flow. It is reachable without a session. The response body never reveals
// more than the categorized error code already does.
func (h *ResetHandler) Send(c *gin.Context) {
	var in resetInput
	_ = c.ShouldBindJSON(&in)
	if err := h.Svc.SendReset(c.Request.Context(), in.Email, c.ClientIP()); err != nil {
		middleware.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Logs serves the reset-attempts audit screen.
func (h *ResetHandler) Logs(c *gin.Context) {
	applyViewQuery(c, h.Svc.State)
	c.JSON(http.StatusOK, listPayload(h.Svc.State, h.proj))
}
