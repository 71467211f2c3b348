package repository

import (
	"github.com/maxviazov/station-vendor-service/internal/model"
	"github.com/maxviazov/station-vendor-service/internal/pagination"
)

// Page represents a simple limit/offset window for listing operations.
// I keep it intentionally small; filters live in the per-resource filter structs.
type Page struct {
	Limit  int
	Offset int
}

// PageFrom maps a resolved request window onto the store's skip/take primitive.
func PageFrom(p pagination.Params) Page {
	return Page{Limit: p.Limit, Offset: p.Skip}
}

// PageResult carries a slice of items and the total count matching the query.
// I return the total so clients can compute pagination without an extra round trip.
type PageResult[T any] struct {
	Items []T
	Total int
}

// StationFilter narrows station listings. Search matches name, code or city.
type StationFilter struct {
	Search string
	Zone   string
}

// UserFilter narrows user listings. Empty Roles means any role.
type UserFilter struct {
	Roles     []model.Role
	Status    model.UserStatus
	StationID *int64
	Search    string
}

// LicenseFilter narrows license listings.
type LicenseFilter struct {
	VendorID  *int64
	StationID *int64
	Status    model.LicenseStatus
}
