package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/station-vendor-service/internal/config"
	"github.com/maxviazov/station-vendor-service/internal/model"
	"github.com/maxviazov/station-vendor-service/internal/repository"
	"github.com/maxviazov/station-vendor-service/internal/service"
	"github.com/maxviazov/station-vendor-service/pkg/response"
)

type StationHandler struct {
	stations  service.StationService
	platforms service.PlatformService
	limits    config.PaginationConfig
}

func NewStationHandler(stations service.StationService, platforms service.PlatformService, limits config.PaginationConfig) *StationHandler {
	return &StationHandler{stations: stations, platforms: platforms, limits: limits}
}

func (h *StationHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/stations")
	{
		g.GET("", h.list)
		g.POST("", RequireRoles(model.RoleRailwayAdmin), h.create)
		// Use a stable wildcard name (station_id) so nested platform routes can reuse it without Gin conflicts.
		g.GET("/:station_id", h.getByID)
		g.GET("/:station_id/platforms", h.listPlatforms)
		g.POST("/:station_id/platforms", RequireRoles(model.RoleRailwayAdmin, model.RoleStationManager), h.createPlatform)
	}
}

type createStationRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
	City string `json:"city"`
	Zone string `json:"zone"`
}

func (h *StationHandler) create(c *gin.Context) {
	var req createStationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	st, err := h.stations.CreateStation(c.Request.Context(), model.Station{Name: req.Name, Code: req.Code, City: req.City, Zone: req.Zone})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, st)
}

func (h *StationHandler) getByID(c *gin.Context) {
	id, err := pathID(c, "station_id")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	st, err := h.stations.GetStation(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, st)
}

func (h *StationHandler) list(c *gin.Context) {
	f := repository.StationFilter{Search: c.Query("search"), Zone: c.Query("zone")}
	res, err := h.stations.ListStations(c.Request.Context(), f, pageParams(c, h.limits, resourceStations))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}

type createPlatformRequest struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

func (h *StationHandler) createPlatform(c *gin.Context) {
	stationID, err := pathID(c, "station_id")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	var req createPlatformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	p, _ := principal(c)
	pl, err := h.platforms.CreatePlatform(c.Request.Context(), p, model.Platform{StationID: stationID, Number: req.Number, Name: req.Name})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, pl)
}

func (h *StationHandler) listPlatforms(c *gin.Context) {
	stationID, err := pathID(c, "station_id")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	res, err := h.platforms.ListPlatforms(c.Request.Context(), stationID, pageParams(c, h.limits, resourcePlatforms))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}
