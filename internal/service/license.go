package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/maxviazov/station-vendor-service/internal/cache"
	"github.com/maxviazov/station-vendor-service/internal/model"
	"github.com/maxviazov/station-vendor-service/internal/pagination"
	"github.com/maxviazov/station-vendor-service/internal/repository"
	"github.com/rs/zerolog"
)

// licenseTerm is how long an approval stays valid.
const licenseTerm = 1

// licenseTransitions lists the statuses reachable from each status.
var licenseTransitions = map[model.LicenseStatus][]model.LicenseStatus{
	model.LicensePending:   {model.LicenseApproved, model.LicenseRejected},
	model.LicenseApproved:  {model.LicenseSuspended, model.LicenseExpired},
	model.LicenseSuspended: {model.LicenseApproved},
}

func canTransition(from, to model.LicenseStatus) bool {
	for _, s := range licenseTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type licenseService struct {
	licenses  repository.LicenseRepository
	stations  repository.StationRepository
	platforms repository.PlatformRepository
	tx        repository.TxManager
	cache     cache.Cache
	log       zerolog.Logger
	now       func() time.Time
}

func NewLicenseService(
	licenses repository.LicenseRepository,
	stations repository.StationRepository,
	platforms repository.PlatformRepository,
	tx repository.TxManager,
	c cache.Cache,
	logger zerolog.Logger,
) LicenseService {
	l := logger.With().Str("module", "service").Str("component", "license").Logger()
	if c == nil {
		c = cache.Noop{}
	}
	return &licenseService{
		licenses:  licenses,
		stations:  stations,
		platforms: platforms,
		tx:        tx,
		cache:     c,
		log:       l,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *licenseService) Apply(ctx context.Context, p model.Principal, in ApplyInput) (model.License, error) {
	if !p.Is(model.RoleVendor) {
		return model.License{}, ErrForbidden
	}
	in.StallName = strings.TrimSpace(in.StallName)
	in.Category = strings.ToLower(strings.TrimSpace(in.Category))

	ferrs := positiveID("station_id", in.StationID)
	if in.PlatformID != nil && *in.PlatformID <= 0 {
		ferrs = append(ferrs, FieldError{Field: "platform_id", Message: "must be > 0"})
	}
	if !lengthBetween(in.StallName, 2, 100) {
		ferrs = append(ferrs, FieldError{Field: "stall_name", Message: "length must be between 2 and 100"})
	}
	if !lengthBetween(in.Category, 2, 50) {
		ferrs = append(ferrs, FieldError{Field: "category", Message: "length must be between 2 and 50"})
	}
	if err := newInvalidInput(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Msg("license validation failed (structure)")
		return model.License{}, err
	}

	// Existence checks before attempting persistence.
	ok, err := s.stations.Exists(ctx, in.StationID)
	if err != nil {
		return model.License{}, err
	}
	if !ok {
		return model.License{}, newInvalidInput([]FieldError{{Field: "station_id", Message: "station does not exist"}})
	}
	if in.PlatformID != nil {
		pl, err := s.platforms.GetByID(ctx, *in.PlatformID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return model.License{}, newInvalidInput([]FieldError{{Field: "platform_id", Message: "platform does not exist"}})
		case err != nil:
			return model.License{}, err
		case pl.StationID != in.StationID:
			return model.License{}, newInvalidInput([]FieldError{{Field: "platform_id", Message: "platform belongs to another station"}})
		}
	}

	out, err := s.licenses.Create(ctx, model.License{
		VendorID:   p.UserID,
		StationID:  in.StationID,
		PlatformID: in.PlatformID,
		StallName:  in.StallName,
		Category:   in.Category,
		Status:     model.LicensePending,
	})
	if err != nil {
		s.log.Error().Err(err).Int64("vendor_id", p.UserID).Msg("create license failed")
		return model.License{}, err
	}
	s.invalidate(ctx, out)
	s.log.Info().Int64("license_id", out.ID).Int64("vendor_id", out.VendorID).Int64("station_id", out.StationID).Msg("license applied")
	return out, nil
}

// ListLicenses scopes the filter to what the caller may see: vendors their own licenses,
// station managers their station, inspectors and railway admins everything.
func (s *licenseService) ListLicenses(ctx context.Context, p model.Principal, f repository.LicenseFilter, params pagination.Params) (pagination.Result[model.License], error) {
	if f.Status != "" && !f.Status.Valid() {
		return pagination.Result[model.License]{}, newInvalidInput([]FieldError{{Field: "status", Message: "must be one of pending|approved|rejected|suspended|expired"}})
	}
	switch p.Role {
	case model.RoleVendor:
		f.VendorID = &p.UserID
	case model.RoleStationManager:
		if p.StationID == nil {
			return pagination.Result[model.License]{}, ErrForbidden
		}
		f.StationID = p.StationID
	case model.RoleInspector, model.RoleRailwayAdmin:
	default:
		return pagination.Result[model.License]{}, ErrForbidden
	}

	res, err := page(params, func(pg repository.Page) (repository.PageResult[model.License], error) {
		return s.licenses.List(ctx, f, pg)
	})
	if err != nil {
		s.log.Error().Err(err).Str("role", string(p.Role)).Msg("list licenses failed")
		return pagination.Result[model.License]{}, err
	}
	return res, nil
}

func (s *licenseService) UpdateStatus(ctx context.Context, p model.Principal, id int64, status model.LicenseStatus, remarks string) (model.License, error) {
	ferrs := positiveID("id", id)
	if !status.Valid() {
		ferrs = append(ferrs, FieldError{Field: "status", Message: "must be one of pending|approved|rejected|suspended|expired"})
	}
	remarks = strings.TrimSpace(remarks)
	if len([]rune(remarks)) > 500 {
		ferrs = append(ferrs, FieldError{Field: "remarks", Message: "length must be at most 500"})
	}
	if err := newInvalidInput(ferrs); err != nil {
		return model.License{}, err
	}
	if !p.Is(model.RoleRailwayAdmin, model.RoleInspector, model.RoleStationManager) {
		return model.License{}, ErrForbidden
	}

	var out model.License
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		l, err := s.licenses.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p.Role == model.RoleStationManager && !p.ManagesStation(l.StationID) {
			return ErrForbidden
		}
		if !canTransition(l.Status, status) {
			return fmt.Errorf("%w: license cannot move from %s to %s", repository.ErrConflict, l.Status, status)
		}
		from := l.Status
		l.Status = status
		if remarks != "" {
			l.Remarks = remarks
		}
		// A fresh approval starts a new term; reinstating a suspension keeps the original one.
		if status == model.LicenseApproved && from == model.LicensePending {
			now := s.now()
			until := now.AddDate(licenseTerm, 0, 0)
			l.ValidFrom, l.ValidUntil = &now, &until
		}
		out, err = s.licenses.UpdateStatus(ctx, l, from)
		return err
	})
	if err != nil {
		s.log.Warn().Err(err).Int64("license_id", id).Str("to", string(status)).Msg("license status update failed")
		return model.License{}, err
	}
	s.invalidate(ctx, out)
	s.log.Info().Int64("license_id", out.ID).Str("status", string(out.Status)).Int64("by", p.UserID).Msg("license status updated")
	return out, nil
}

func (s *licenseService) invalidate(ctx context.Context, l model.License) {
	keys := append(systemDashboardKeys(), managerDashboardKey(l.StationID), vendorDashboardKey(l.VendorID))
	invalidateDashboards(ctx, s.cache, s.log, keys...)
}
