// Package service holds business logic orchestration across repositories and handlers.
// Kept intentionally lean: only use-case coordination, validation, role scoping and domain error shaping.
package service

import (
	"context"
	"errors"

	"github.com/maxviazov/station-vendor-service/internal/model"
	"github.com/maxviazov/station-vendor-service/internal/pagination"
	"github.com/maxviazov/station-vendor-service/internal/repository"
)

// ErrInvalidInput is the marker error for aggregated validation failures (maps to HTTP 400).
// Field-level details are retrieved via FieldErrors(err).
var ErrInvalidInput = errors.New("invalid input")

var (
	// ErrUnauthorized means the caller could not be identified (maps to HTTP 401).
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden means the caller is known but not allowed to perform the operation (maps to HTTP 403).
	ErrForbidden = errors.New("forbidden")
)

// FieldError describes a single invalid field in a client request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// invalidInputError aggregates multiple FieldError instances and unwraps to ErrInvalidInput.
type invalidInputError struct {
	fields []FieldError
}

func (e *invalidInputError) Error() string        { return ErrInvalidInput.Error() }
func (e *invalidInputError) Unwrap() error        { return ErrInvalidInput }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

// newInvalidInput builds an aggregated validation error if any field errors are present.
func newInvalidInput(fe []FieldError) error {
	if len(fe) == 0 { // protective case
		return nil
	}
	return &invalidInputError{fields: fe}
}

// NewInvalidInputError lets the transport layer report malformed path or body values the same way.
func NewInvalidInputError(fe []FieldError) error { return newInvalidInput(fe) }

// FieldErrors extracts field errors from an aggregated validation error.
func FieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	type feIface interface{ Fields() []FieldError }
	if v, ok := err.(feIface); ok && errors.Is(err, ErrInvalidInput) {
		return v.Fields()
	}
	return nil
}

// RegisterInput is a self-registration request. StationID is only meaningful for station managers.
type RegisterInput struct {
	Name      string
	Email     string
	Password  string
	Role      model.Role
	StationID *int64
}

// AuthService covers account registration, login and token verification.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (model.User, error)
	Login(ctx context.Context, email, password string) (model.Session, error)
	Authenticate(ctx context.Context, token string) (model.Principal, error)
	Me(ctx context.Context, p model.Principal) (model.User, error)
	// CreateAdmin provisions an active railway admin; it is not reachable over HTTP.
	CreateAdmin(ctx context.Context, name, email, password string) (model.User, error)
}

// StationService defines station-oriented use cases.
type StationService interface {
	CreateStation(ctx context.Context, s model.Station) (model.Station, error)
	GetStation(ctx context.Context, id int64) (model.Station, error)
	ListStations(ctx context.Context, f repository.StationFilter, params pagination.Params) (pagination.Result[model.Station], error)
}

// PlatformService defines platform-oriented use cases.
type PlatformService interface {
	CreatePlatform(ctx context.Context, p model.Principal, pl model.Platform) (model.Platform, error)
	ListPlatforms(ctx context.Context, stationID int64, params pagination.Params) (pagination.Result[model.Platform], error)
}

// UserService covers account listing and the approval queue for station managers and inspectors.
type UserService interface {
	ListUsers(ctx context.Context, f repository.UserFilter, params pagination.Params) (pagination.Result[model.User], error)
	ListPendingAdmins(ctx context.Context, params pagination.Params) (pagination.Result[model.User], error)
	ApproveAdmin(ctx context.Context, id int64) (model.User, error)
	RejectAdmin(ctx context.Context, id int64) (model.User, error)
}

// ApplyInput is a vendor's license application.
type ApplyInput struct {
	StationID  int64
	PlatformID *int64
	StallName  string
	Category   string
}

// LicenseService defines license use cases. Visibility and permissions depend on the caller.
type LicenseService interface {
	Apply(ctx context.Context, p model.Principal, in ApplyInput) (model.License, error)
	ListLicenses(ctx context.Context, p model.Principal, f repository.LicenseFilter, params pagination.Params) (pagination.Result[model.License], error)
	UpdateStatus(ctx context.Context, p model.Principal, id int64, status model.LicenseStatus, remarks string) (model.License, error)
}

// DashboardService builds the role-scoped landing page counters.
type DashboardService interface {
	Summary(ctx context.Context, p model.Principal) (model.DashboardSummary, error)
}

// page converts resolved request parameters into the store window and back into the envelope.
func page[T any](params pagination.Params, list func(repository.Page) (repository.PageResult[T], error)) (pagination.Result[T], error) {
	params = normalizeParams(params)
	res, err := list(repository.PageFrom(params))
	if err != nil {
		return pagination.Result[T]{}, err
	}
	return pagination.Build(res.Items, res.Total, params.Page, params.Limit), nil
}
