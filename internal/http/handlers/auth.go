package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ujaasaroma/Admin.UjaasAroma/internal/auth"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/http/middleware"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/http/validation"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/shared/apperr"
)

type AuthHandler struct {
	Auth    *auth.Service
	Session middleware.SessionCfg
}

func NewAuthHandler(svc *auth.Service, cfg middleware.SessionCfg) *AuthHandler {
	return &AuthHandler{Auth: svc, Session: cfg}
}

type loginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var in loginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		errs := validation.FromBindError(err, &in)
		middleware.Fail(c, apperr.InvalidErr("Please check the form.", errs))
		return
	}

	acct, err := h.Auth.SignIn(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		middleware.Fail(c, err)
		return
	}

	if _, err := middleware.CreateSession(c, h.Session, acct.ID, acct.Email, true); err != nil {
		middleware.Fail(c, apperr.InternalErr("Could not start a session.", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{"id": acct.ID, "email": acct.Email, "admin": true},
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.DestroySession(c, h.Session)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Me reports the signed-in admin, so the client can restore a session on
// reload without re-authenticating.
func (h *AuthHandler) Me(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		middleware.Fail(c, apperr.UnauthorizedErr("Not signed in."))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{"id": u.ID, "email": u.Email, "admin": u.Admin},
	})
}
