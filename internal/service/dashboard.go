package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/maxviazov/station-vendor-service/internal/cache"
	"github.com/maxviazov/station-vendor-service/internal/model"
	"github.com/maxviazov/station-vendor-service/internal/repository"
	"github.com/rs/zerolog"
)

const dashboardKeyPrefix = "dashboard:"

func systemDashboardKeys() []string {
	return []string{
		dashboardKeyPrefix + string(model.RoleRailwayAdmin),
		dashboardKeyPrefix + string(model.RoleInspector),
	}
}

func managerDashboardKey(stationID int64) string {
	return dashboardKeyPrefix + string(model.RoleStationManager) + ":" + strconv.FormatInt(stationID, 10)
}

func vendorDashboardKey(vendorID int64) string {
	return dashboardKeyPrefix + string(model.RoleVendor) + ":" + strconv.FormatInt(vendorID, 10)
}

// dashboardKey returns the cache key of the summary p would see.
func dashboardKey(p model.Principal) (string, error) {
	switch p.Role {
	case model.RoleRailwayAdmin, model.RoleInspector:
		return dashboardKeyPrefix + string(p.Role), nil
	case model.RoleStationManager:
		if p.StationID == nil {
			return "", ErrForbidden
		}
		return managerDashboardKey(*p.StationID), nil
	case model.RoleVendor:
		return vendorDashboardKey(p.UserID), nil
	default:
		return "", ErrForbidden
	}
}

// invalidateDashboards is best effort: a failed delete only means a summary stays stale until its TTL.
func invalidateDashboards(ctx context.Context, c cache.Cache, log zerolog.Logger, keys ...string) {
	if err := c.Delete(ctx, keys...); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("dashboard cache invalidation failed")
	}
}

type dashboardService struct {
	repo  repository.DashboardRepository
	cache cache.Cache
	ttl   time.Duration
	log   zerolog.Logger
	now   func() time.Time
}

func NewDashboardService(repo repository.DashboardRepository, c cache.Cache, ttl time.Duration, logger zerolog.Logger) DashboardService {
	l := logger.With().Str("module", "service").Str("component", "dashboard").Logger()
	if c == nil {
		c = cache.Noop{}
	}
	return &dashboardService{repo: repo, cache: c, ttl: ttl, log: l, now: func() time.Time { return time.Now().UTC() }}
}

func (s *dashboardService) Summary(ctx context.Context, p model.Principal) (model.DashboardSummary, error) {
	key, err := dashboardKey(p)
	if err != nil {
		return model.DashboardSummary{}, err
	}

	var cached model.DashboardSummary
	switch err := s.cache.Get(ctx, key, &cached); {
	case err == nil:
		return cached, nil
	case !errors.Is(err, cache.ErrMiss):
		s.log.Warn().Err(err).Str("key", key).Msg("dashboard cache read failed, falling back to store")
	}

	out, err := s.build(ctx, p)
	if err != nil {
		s.log.Error().Err(err).Str("role", string(p.Role)).Msg("build dashboard failed")
		return model.DashboardSummary{}, err
	}
	if s.ttl > 0 {
		if err := s.cache.Set(ctx, key, out, s.ttl); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("dashboard cache write failed")
		}
	}
	return out, nil
}

func (s *dashboardService) build(ctx context.Context, p model.Principal) (model.DashboardSummary, error) {
	out := model.DashboardSummary{Role: p.Role, GeneratedAt: s.now()}
	var f repository.LicenseFilter

	switch p.Role {
	case model.RoleRailwayAdmin, model.RoleInspector:
		t, err := s.repo.Totals(ctx)
		if err != nil {
			return model.DashboardSummary{}, err
		}
		out.Stations, out.Platforms, out.ActiveVendors = &t.Stations, &t.Platforms, &t.ActiveVendors
		if p.Role == model.RoleRailwayAdmin {
			out.Users, out.PendingAdmins = &t.Users, &t.PendingAdmins
		}
	case model.RoleStationManager:
		n, err := s.repo.PlatformCount(ctx, *p.StationID)
		if err != nil {
			return model.DashboardSummary{}, err
		}
		out.StationID, out.Platforms = p.StationID, &n
		f.StationID = p.StationID
	case model.RoleVendor:
		f.VendorID = &p.UserID
	}

	counts, err := s.repo.LicenseCounts(ctx, f)
	if err != nil {
		return model.DashboardSummary{}, err
	}
	out.Licenses = counts
	return out, nil
}
