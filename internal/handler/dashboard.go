package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/station-vendor-service/internal/service"
	"github.com/maxviazov/station-vendor-service/pkg/response"
)

type DashboardHandler struct {
	svc service.DashboardService
}

func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

func (h *DashboardHandler) Register(r *gin.RouterGroup) {
	r.GET("/dashboard", h.summary)
}

func (h *DashboardHandler) summary(c *gin.Context) {
	p, _ := principal(c)
	out, err := h.svc.Summary(c.Request.Context(), p)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, out)
}
