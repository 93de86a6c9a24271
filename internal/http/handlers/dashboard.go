package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ujaasaroma/Admin.UjaasAroma/internal/modules/dashboard"
)

type DashboardHandler struct {
	Svc *dashboard.Service
}

func NewDashboardHandler(svc *dashboard.Service) *DashboardHandler {
	return &DashboardHandler{Svc: svc}
}

func (h *DashboardHandler) Counts(c *gin.Context) {
	c.JSON(http.StatusOK, h.Svc.Counts())
}
