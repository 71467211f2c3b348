package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/maxviazov/station-vendor-service/internal/config"
	"github.com/maxviazov/station-vendor-service/internal/model"
	"github.com/maxviazov/station-vendor-service/internal/service"
	"github.com/rs/zerolog"
)

// Deps carries everything the HTTP layer needs. Nil services leave their routes unmounted,
// which keeps health-only wiring in tests short.
type Deps struct {
	Pinger     Pinger
	Logger     zerolog.Logger
	Pagination config.PaginationConfig

	Auth      service.AuthService
	Stations  service.StationService
	Platforms service.PlatformService
	Users     service.UserService
	Licenses  service.LicenseService
	Dashboard service.DashboardService
}

// Register mounts all public routes on the given engine.
func Register(r *gin.Engine, d Deps) {
	h := NewHealthHandler(d.Pinger)

	r.Use(RequestID(), AccessLog(d.Logger))

	// Health probes
	r.GET(PathLive, h.Liveness)
	r.GET(PathReady, h.Readiness)

	// Docs endpoints (root-level)
	RegisterDocs(r)

	api := r.Group(APIV1Prefix) // Versioning added via single source of truth
	{
		health := api.Group("/health")
		{
			health.GET(PathLive, h.Liveness)
			health.GET(PathReady, h.Readiness)
		}
		if d.Auth == nil {
			return
		}
		NewAuthHandler(d.Auth).Register(api)

		authed := api.Group("", Authenticate(d.Auth))
		if d.Stations != nil && d.Platforms != nil {
			NewStationHandler(d.Stations, d.Platforms, d.Pagination).Register(authed)
		}
		if d.Users != nil {
			NewUserHandler(d.Users, d.Pagination).Register(authed.Group("", RequireRoles(model.RoleRailwayAdmin)))
		}
		if d.Licenses != nil {
			NewLicenseHandler(d.Licenses, d.Pagination).Register(authed)
		}
		if d.Dashboard != nil {
			NewDashboardHandler(d.Dashboard).Register(authed)
		}
	}
}
