package service

import (
	"context"
	"strings"
	"time"

	"github.com/maxviazov/station-vendor-service/internal/cache"
	"github.com/maxviazov/station-vendor-service/internal/model"
	"github.com/maxviazov/station-vendor-service/internal/pagination"
	"github.com/maxviazov/station-vendor-service/internal/repository"
	"github.com/rs/zerolog"
)

// stationService holds station use-case logic: validation + orchestration, no transport / SQL details.
type stationService struct {
	repo  repository.StationRepository
	cache cache.Cache
	log   zerolog.Logger
}

func NewStationService(repo repository.StationRepository, c cache.Cache, logger zerolog.Logger) StationService {
	l := logger.With().Str("module", "service").Str("component", "station").Logger()
	if c == nil {
		c = cache.Noop{}
	}
	return &stationService{repo: repo, cache: c, log: l}
}

func (s *stationService) CreateStation(ctx context.Context, st model.Station) (model.Station, error) {
	start := time.Now()
	st.Name = strings.TrimSpace(st.Name)
	st.Code = normalizeCode(st.Code)
	st.City = strings.TrimSpace(st.City)
	st.Zone = normalizeCode(st.Zone)

	var ferrs []FieldError
	if !lengthBetween(st.Name, 2, 100) {
		ferrs = append(ferrs, FieldError{Field: "name", Message: "length must be between 2 and 100"})
	}
	if !lengthBetween(st.Code, 1, 10) {
		ferrs = append(ferrs, FieldError{Field: "code", Message: "length must be between 1 and 10"})
	}
	if !lengthBetween(st.City, 2, 100) {
		ferrs = append(ferrs, FieldError{Field: "city", Message: "length must be between 2 and 100"})
	}
	if len([]rune(st.Zone)) > 20 {
		ferrs = append(ferrs, FieldError{Field: "zone", Message: "length must be at most 20"})
	}
	if err := newInvalidInput(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Msg("station validation failed")
		return model.Station{}, err
	}

	out, err := s.repo.Create(ctx, st)
	if err != nil {
		// Repository surfaces domain-level errors already, do not wrap.
		s.log.Error().Err(err).Str("code", st.Code).Msg("create station failed")
		return model.Station{}, err
	}
	invalidateDashboards(ctx, s.cache, s.log, systemDashboardKeys()...)
	s.log.Info().Dur("took", time.Since(start)).Int64("station_id", out.ID).Msg("station created")
	return out, nil
}

func (s *stationService) GetStation(ctx context.Context, id int64) (model.Station, error) {
	if err := newInvalidInput(positiveID("id", id)); err != nil {
		return model.Station{}, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *stationService) ListStations(ctx context.Context, f repository.StationFilter, params pagination.Params) (pagination.Result[model.Station], error) {
	f.Search = strings.TrimSpace(f.Search)
	f.Zone = normalizeCode(f.Zone)
	res, err := page(params, func(p repository.Page) (repository.PageResult[model.Station], error) {
		return s.repo.List(ctx, f, p)
	})
	if err != nil {
		s.log.Error().Err(err).Int("page", params.Page).Int("limit", params.Limit).Msg("list stations failed")
		return pagination.Result[model.Station]{}, err
	}
	return res, nil
}
