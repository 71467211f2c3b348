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

// approvalRoles are the roles whose self-registrations wait in the admin queue.
var approvalRoles = []model.Role{model.RoleStationManager, model.RoleInspector}

type userService struct {
	users repository.UserRepository
	tx    repository.TxManager
	cache cache.Cache
	log   zerolog.Logger
}

func NewUserService(users repository.UserRepository, tx repository.TxManager, c cache.Cache, logger zerolog.Logger) UserService {
	l := logger.With().Str("module", "service").Str("component", "user").Logger()
	if c == nil {
		c = cache.Noop{}
	}
	return &userService{users: users, tx: tx, cache: c, log: l}
}

func (s *userService) ListUsers(ctx context.Context, f repository.UserFilter, params pagination.Params) (pagination.Result[model.User], error) {
	var ferrs []FieldError
	for _, r := range f.Roles {
		if !r.Valid() {
			ferrs = append(ferrs, FieldError{Field: "role", Message: "must be one of railway_admin|station_manager|inspector|vendor"})
			break
		}
	}
	if f.Status != "" && !f.Status.Valid() {
		ferrs = append(ferrs, FieldError{Field: "status", Message: "must be one of pending|active|rejected"})
	}
	if err := newInvalidInput(ferrs); err != nil {
		return pagination.Result[model.User]{}, err
	}
	f.Search = strings.TrimSpace(f.Search)

	res, err := page(params, func(p repository.Page) (repository.PageResult[model.User], error) {
		return s.users.List(ctx, f, p)
	})
	if err != nil {
		s.log.Error().Err(err).Msg("list users failed")
		return pagination.Result[model.User]{}, err
	}
	return res, nil
}

// ListPendingAdmins returns the approval queue, oldest request first.
func (s *userService) ListPendingAdmins(ctx context.Context, params pagination.Params) (pagination.Result[model.User], error) {
	f := repository.UserFilter{Roles: approvalRoles, Status: model.UserPending}
	return s.ListUsers(ctx, f, params)
}

func (s *userService) ApproveAdmin(ctx context.Context, id int64) (model.User, error) {
	return s.decide(ctx, id, model.UserActive)
}

func (s *userService) RejectAdmin(ctx context.Context, id int64) (model.User, error) {
	return s.decide(ctx, id, model.UserRejected)
}

// decide moves a pending station manager or inspector to its final status.
// Anything already decided, or any other role, is a conflict.
func (s *userService) decide(ctx context.Context, id int64, to model.UserStatus) (model.User, error) {
	if err := newInvalidInput(positiveID("id", id)); err != nil {
		return model.User{}, err
	}
	var out model.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		u, err := s.users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if u.Status != model.UserPending || !u.Role.NeedsApproval() {
			return repository.ErrConflict
		}
		out, err = s.users.UpdateStatus(ctx, id, model.UserPending, to)
		return err
	})
	if err != nil {
		s.log.Warn().Err(err).Int64("user_id", id).Str("to", string(to)).Msg("approval decision failed")
		return model.User{}, err
	}
	invalidateDashboards(ctx, s.cache, s.log, systemDashboardKeys()...)
	s.log.Info().Int64("user_id", id).Str("status", string(to)).Msg("approval decided")
	return out, nil
}
