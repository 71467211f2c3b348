package service

import (
	"context"
	"strings"

	"github.com/maxviazov/station-vendor-service/internal/cache"
	"github.com/maxviazov/station-vendor-service/internal/model"
	"github.com/maxviazov/station-vendor-service/internal/pagination"
	"github.com/maxviazov/station-vendor-service/internal/repository"
	"github.com/rs/zerolog"
)

type platformService struct {
	platforms repository.PlatformRepository
	stations  repository.StationRepository
	cache     cache.Cache
	log       zerolog.Logger
}

func NewPlatformService(platforms repository.PlatformRepository, stations repository.StationRepository, c cache.Cache, logger zerolog.Logger) PlatformService {
	l := logger.With().Str("module", "service").Str("component", "platform").Logger()
	if c == nil {
		c = cache.Noop{}
	}
	return &platformService{platforms: platforms, stations: stations, cache: c, log: l}
}

// CreatePlatform is open to railway admins and to the manager of the target station.
func (s *platformService) CreatePlatform(ctx context.Context, p model.Principal, pl model.Platform) (model.Platform, error) {
	pl.Name = strings.TrimSpace(pl.Name)

	ferrs := positiveID("station_id", pl.StationID)
	if pl.Number <= 0 {
		ferrs = append(ferrs, FieldError{Field: "number", Message: "must be > 0"})
	}
	if len([]rune(pl.Name)) > 100 {
		ferrs = append(ferrs, FieldError{Field: "name", Message: "length must be at most 100"})
	}
	if err := newInvalidInput(ferrs); err != nil {
		return model.Platform{}, err
	}
	if !p.Is(model.RoleRailwayAdmin) && !p.ManagesStation(pl.StationID) {
		return model.Platform{}, ErrForbidden
	}
	if err := s.requireStation(ctx, pl.StationID); err != nil {
		return model.Platform{}, err
	}

	out, err := s.platforms.Create(ctx, pl)
	if err != nil {
		s.log.Error().Err(err).Int64("station_id", pl.StationID).Int("number", pl.Number).Msg("create platform failed")
		return model.Platform{}, err
	}
	invalidateDashboards(ctx, s.cache, s.log, append(systemDashboardKeys(), managerDashboardKey(pl.StationID))...)
	s.log.Info().Int64("platform_id", out.ID).Int64("station_id", out.StationID).Msg("platform created")
	return out, nil
}

func (s *platformService) ListPlatforms(ctx context.Context, stationID int64, params pagination.Params) (pagination.Result[model.Platform], error) {
	if err := newInvalidInput(positiveID("station_id", stationID)); err != nil {
		return pagination.Result[model.Platform]{}, err
	}
	// An unknown station is a 404, not an empty page.
	if err := s.requireStation(ctx, stationID); err != nil {
		return pagination.Result[model.Platform]{}, err
	}
	res, err := page(params, func(p repository.Page) (repository.PageResult[model.Platform], error) {
		return s.platforms.ListByStation(ctx, stationID, p)
	})
	if err != nil {
		s.log.Error().Err(err).Int64("station_id", stationID).Msg("list platforms failed")
		return pagination.Result[model.Platform]{}, err
	}
	return res, nil
}

func (s *platformService) requireStation(ctx context.Context, id int64) error {
	ok, err := s.stations.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return repository.ErrNotFound
	}
	return nil
}
