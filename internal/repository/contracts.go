package repository

import (
	"context"

	"github.com/maxviazov/station-vendor-service/internal/model"
)

// Pinger represents a minimal readiness probe capability.
// I use it to decouple health checks from storage implementation details.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TxFunc is the unit of work executed within a transaction boundary.
// I pass context through so nested calls can honor cancellations and deadlines.
type TxFunc func(ctx context.Context) error

// TxManager abstracts transactional execution for repositories that support it.
// I prefer a single entry point to keep transaction boundaries explicit and testable.
type TxManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// StationRepository declares persistence operations for stations.
// I return domain models and surface domain errors from errors.go rather than PG codes.
type StationRepository interface {
	Create(ctx context.Context, s model.Station) (model.Station, error)
	GetByID(ctx context.Context, id int64) (model.Station, error)
	// List orders by name then id so pages stay stable while rows are added.
	List(ctx context.Context, f StationFilter, p Page) (PageResult[model.Station], error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// PlatformRepository declares persistence operations for platforms.
type PlatformRepository interface {
	Create(ctx context.Context, p model.Platform) (model.Platform, error)
	GetByID(ctx context.Context, id int64) (model.Platform, error)
	ListByStation(ctx context.Context, stationID int64, p Page) (PageResult[model.Platform], error)
}

// UserRepository declares persistence operations for accounts.
type UserRepository interface {
	Create(ctx context.Context, u model.User) (model.User, error)
	GetByID(ctx context.Context, id int64) (model.User, error)
	// GetByEmail matches case-insensitively.
	GetByEmail(ctx context.Context, email string) (model.User, error)
	List(ctx context.Context, f UserFilter, p Page) (PageResult[model.User], error)
	// UpdateStatus moves the account from one status to another. It fails with ErrConflict
	// when the stored status is no longer from.
	UpdateStatus(ctx context.Context, id int64, from, to model.UserStatus) (model.User, error)
}

// LicenseRepository declares persistence operations for vendor licenses.
type LicenseRepository interface {
	Create(ctx context.Context, l model.License) (model.License, error)
	GetByID(ctx context.Context, id int64) (model.License, error)
	List(ctx context.Context, f LicenseFilter, p Page) (PageResult[model.License], error)
	// UpdateStatus persists Status, ValidFrom, ValidUntil and Remarks of l, but only while the
	// stored status is still from. A concurrent change yields ErrConflict.
	UpdateStatus(ctx context.Context, l model.License, from model.LicenseStatus) (model.License, error)
}

// DashboardRepository declares the read-only counters behind role dashboards.
type DashboardRepository interface {
	Totals(ctx context.Context) (model.Totals, error)
	// LicenseCounts groups licenses matching f by status. Statuses with no rows are absent.
	LicenseCounts(ctx context.Context, f LicenseFilter) (map[model.LicenseStatus]int, error)
	PlatformCount(ctx context.Context, stationID int64) (int, error)
}
