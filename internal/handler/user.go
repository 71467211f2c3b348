package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/station-vendor-service/internal/config"
	"github.com/maxviazov/station-vendor-service/internal/model"
	"github.com/maxviazov/station-vendor-service/internal/repository"
	"github.com/maxviazov/station-vendor-service/internal/service"
	"github.com/maxviazov/station-vendor-service/pkg/response"
)

// UserHandler serves account listings and the approval queue. Callers mount it behind RequireRoles.
type UserHandler struct {
	svc    service.UserService
	limits config.PaginationConfig
}

func NewUserHandler(svc service.UserService, limits config.PaginationConfig) *UserHandler {
	return &UserHandler{svc: svc, limits: limits}
}

func (h *UserHandler) Register(r *gin.RouterGroup) {
	r.GET("/users", h.list)
	g := r.Group("/admin/pending")
	{
		g.GET("", h.listPending)
		g.POST("/:id/approve", h.approve)
		g.POST("/:id/reject", h.reject)
	}
}

// list accepts role as a comma separated list, e.g. ?role=inspector,station_manager.
func (h *UserHandler) list(c *gin.Context) {
	stationID, err := optionalID(c, "station_id")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	f := repository.UserFilter{
		Status:    model.UserStatus(strings.TrimSpace(c.Query("status"))),
		StationID: stationID,
		Search:    c.Query("search"),
	}
	for _, r := range strings.Split(c.Query("role"), ",") {
		if r = strings.TrimSpace(r); r != "" {
			f.Roles = append(f.Roles, model.Role(r))
		}
	}
	res, err := h.svc.ListUsers(c.Request.Context(), f, pageParams(c, h.limits, resourceUsers))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}

func (h *UserHandler) listPending(c *gin.Context) {
	res, err := h.svc.ListPendingAdmins(c.Request.Context(), pageParams(c, h.limits, resourcePendingUsers))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}

func (h *UserHandler) approve(c *gin.Context) {
	h.decide(c, h.svc.ApproveAdmin)
}

func (h *UserHandler) reject(c *gin.Context) {
	h.decide(c, h.svc.RejectAdmin)
}

func (h *UserHandler) decide(c *gin.Context, fn func(ctx context.Context, id int64) (model.User, error)) {
	id, err := pathID(c, "id")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	u, err := fn(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, u)
}
