package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/station-vendor-service/internal/config"
	"github.com/maxviazov/station-vendor-service/internal/model"
	"github.com/maxviazov/station-vendor-service/internal/repository"
	"github.com/maxviazov/station-vendor-service/internal/service"
	"github.com/maxviazov/station-vendor-service/pkg/response"
)

type LicenseHandler struct {
	svc    service.LicenseService
	limits config.PaginationConfig
}

func NewLicenseHandler(svc service.LicenseService, limits config.PaginationConfig) *LicenseHandler {
	return &LicenseHandler{svc: svc, limits: limits}
}

func (h *LicenseHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/licenses")
	{
		g.GET("", h.list)
		g.POST("", RequireRoles(model.RoleVendor), h.apply)
		g.PATCH("/:id/status", RequireRoles(model.RoleRailwayAdmin, model.RoleInspector, model.RoleStationManager), h.updateStatus)
	}
}

type applyRequest struct {
	StationID  int64  `json:"station_id"`
	PlatformID *int64 `json:"platform_id"`
	StallName  string `json:"stall_name"`
	Category   string `json:"category"`
}

func (h *LicenseHandler) apply(c *gin.Context) {
	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	p, _ := principal(c)
	l, err := h.svc.Apply(c.Request.Context(), p, service.ApplyInput{
		StationID:  req.StationID,
		PlatformID: req.PlatformID,
		StallName:  req.StallName,
		Category:   req.Category,
	})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, l)
}

// list narrows by station_id, vendor_id and status; the service further scopes by caller role.
func (h *LicenseHandler) list(c *gin.Context) {
	stationID, err := optionalID(c, "station_id")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	vendorID, err := optionalID(c, "vendor_id")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	f := repository.LicenseFilter{
		StationID: stationID,
		VendorID:  vendorID,
		Status:    model.LicenseStatus(strings.TrimSpace(c.Query("status"))),
	}
	p, _ := principal(c)
	res, err := h.svc.ListLicenses(c.Request.Context(), p, f, pageParams(c, h.limits, resourceLicenses))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}

type updateStatusRequest struct {
	Status  model.LicenseStatus `json:"status" binding:"required"`
	Remarks string              `json:"remarks"`
}

func (h *LicenseHandler) updateStatus(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "status", Message: "is required"}}))
		return
	}
	p, _ := principal(c)
	l, err := h.svc.UpdateStatus(c.Request.Context(), p, id, req.Status, req.Remarks)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, l)
}
