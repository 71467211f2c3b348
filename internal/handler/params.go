package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/station-vendor-service/internal/config"
	"github.com/maxviazov/station-vendor-service/internal/pagination"
	"github.com/maxviazov/station-vendor-service/internal/service"
)

// Resource names used to look up per-endpoint pagination limits in config.
const (
	resourceStations     = "stations"
	resourcePlatforms    = "platforms"
	resourceUsers        = "users"
	resourcePendingUsers = "pending_admins"
	resourceLicenses     = "licenses"
)

// pageParams resolves page/limit for one list endpoint. It never fails.
func pageParams(c *gin.Context, cfg config.PaginationConfig, resource string) pagination.Params {
	def, maxLimit := cfg.Limits(resource)
	return pagination.FromValues(c.Request.URL.Query(), def, maxLimit)
}

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, service.NewInvalidInputError([]service.FieldError{{Field: name, Message: "must be a positive integer"}})
	}
	return id, nil
}

// optionalID parses an optional positive integer query value.
func optionalID(c *gin.Context, name string) (*int64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, service.NewInvalidInputError([]service.FieldError{{Field: name, Message: "must be a positive integer"}})
	}
	return &id, nil
}
