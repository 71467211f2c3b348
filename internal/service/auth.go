package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/maxviazov/station-vendor-service/internal/auth"
	"github.com/maxviazov/station-vendor-service/internal/cache"
	"github.com/maxviazov/station-vendor-service/internal/model"
	"github.com/maxviazov/station-vendor-service/internal/repository"
	"github.com/rs/zerolog"
)

const minPasswordLen = 8

type authService struct {
	users    repository.UserRepository
	stations repository.StationRepository
	tokens   *auth.Tokens
	cache    cache.Cache
	log      zerolog.Logger
}

func NewAuthService(users repository.UserRepository, stations repository.StationRepository, tokens *auth.Tokens, c cache.Cache, logger zerolog.Logger) AuthService {
	l := logger.With().Str("module", "service").Str("component", "auth").Logger()
	if c == nil {
		c = cache.Noop{}
	}
	return &authService{users: users, stations: stations, tokens: tokens, cache: c, log: l}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	start := time.Now()
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)

	ferrs := validateAccount(name, email, in.Password)
	switch {
	case in.Role == model.RoleRailwayAdmin:
		ferrs = append(ferrs, FieldError{Field: "role", Message: "railway_admin accounts cannot self-register"})
	case !in.Role.Valid():
		ferrs = append(ferrs, FieldError{Field: "role", Message: "must be one of station_manager|inspector|vendor"})
	case in.Role == model.RoleStationManager && (in.StationID == nil || *in.StationID <= 0):
		ferrs = append(ferrs, FieldError{Field: "station_id", Message: "is required for station managers"})
	}
	if err := newInvalidInput(ferrs); err != nil {
		s.log.Debug().Str("email", email).Interface("field_errors", ferrs).Msg("registration validation failed")
		return model.User{}, err
	}

	u := model.User{Name: name, Email: email, Role: in.Role, Status: model.UserActive}
	if in.Role.NeedsApproval() {
		u.Status = model.UserPending
	}
	if in.Role == model.RoleStationManager {
		ok, err := s.stations.Exists(ctx, *in.StationID)
		if err != nil {
			return model.User{}, err
		}
		if !ok {
			return model.User{}, newInvalidInput([]FieldError{{Field: "station_id", Message: "station does not exist"}})
		}
		u.StationID = in.StationID
	}

	out, err := s.create(ctx, u, in.Password)
	if err != nil {
		return model.User{}, err
	}
	invalidateDashboards(ctx, s.cache, s.log, systemDashboardKeys()...)
	s.log.Info().Dur("took", time.Since(start)).Int64("user_id", out.ID).Str("role", string(out.Role)).Str("status", string(out.Status)).Msg("user registered")
	return out, nil
}

func (s *authService) CreateAdmin(ctx context.Context, name, email, password string) (model.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if err := newInvalidInput(validateAccount(name, email, password)); err != nil {
		return model.User{}, err
	}
	out, err := s.create(ctx, model.User{Name: name, Email: email, Role: model.RoleRailwayAdmin, Status: model.UserActive}, password)
	if err != nil {
		return model.User{}, err
	}
	invalidateDashboards(ctx, s.cache, s.log, systemDashboardKeys()...)
	s.log.Info().Int64("user_id", out.ID).Msg("railway admin created")
	return out, nil
}

func (s *authService) create(ctx context.Context, u model.User, password string) (model.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = hash
	out, err := s.users.Create(ctx, u)
	if err != nil {
		if !errors.Is(err, repository.ErrAlreadyExists) {
			s.log.Error().Err(err).Str("email", u.Email).Msg("create user failed")
		}
		return model.User{}, err
	}
	return out, nil
}

// Login never tells the caller whether the email or the password was wrong.
func (s *authService) Login(ctx context.Context, email, password string) (model.Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return model.Session{}, ErrUnauthorized
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Session{}, ErrUnauthorized
		}
		return model.Session{}, err
	}
	if err := auth.CheckPassword(u.PasswordHash, password); err != nil {
		s.log.Debug().Int64("user_id", u.ID).Msg("password mismatch")
		return model.Session{}, ErrUnauthorized
	}
	switch u.Status {
	case model.UserActive:
	case model.UserPending:
		return model.Session{}, fmt.Errorf("%w: account is awaiting approval", ErrForbidden)
	default:
		return model.Session{}, fmt.Errorf("%w: account is %s", ErrForbidden, u.Status)
	}

	token, exp, err := s.tokens.Issue(u)
	if err != nil {
		return model.Session{}, fmt.Errorf("issue token: %w", err)
	}
	s.log.Info().Int64("user_id", u.ID).Str("role", string(u.Role)).Msg("user logged in")
	return model.Session{Token: token, ExpiresAt: exp, User: u}, nil
}

func (s *authService) Authenticate(_ context.Context, token string) (model.Principal, error) {
	p, err := s.tokens.Parse(token)
	if err != nil {
		return model.Principal{}, ErrUnauthorized
	}
	return p, nil
}

func (s *authService) Me(ctx context.Context, p model.Principal) (model.User, error) {
	u, err := s.users.GetByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// The token outlived the account.
			return model.User{}, ErrUnauthorized
		}
		return model.User{}, err
	}
	return u, nil
}

func validateAccount(name, email, password string) []FieldError {
	var ferrs []FieldError
	if !lengthBetween(name, 2, 100) {
		ferrs = append(ferrs, FieldError{Field: "name", Message: "length must be between 2 and 100"})
	}
	if !isValidEmail(email) {
		ferrs = append(ferrs, FieldError{Field: "email", Message: "must be a valid email address"})
	}
	if len(password) < minPasswordLen || len(password) > 72 {
		ferrs = append(ferrs, FieldError{Field: "password", Message: "length must be between 8 and 72"})
	}
	return ferrs
}
