// Package model contains domain entities and DTOs used across layers.
// I keep it lean and focused on data shapes; the only behavior is role/status helpers.
package model

import "time"

// Role is the access level of a user account.
type Role string

const (
	RoleRailwayAdmin   Role = "railway_admin"
	RoleStationManager Role = "station_manager"
	RoleInspector      Role = "inspector"
	RoleVendor         Role = "vendor"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleRailwayAdmin, RoleStationManager, RoleInspector, RoleVendor:
		return true
	default:
		return false
	}
}

// NeedsApproval reports whether a self-registered account with this role starts as pending.
func (r Role) NeedsApproval() bool {
	return r == RoleStationManager || r == RoleInspector
}

// UserStatus is the lifecycle state of a user account.
type UserStatus string

const (
	UserPending  UserStatus = "pending"
	UserActive   UserStatus = "active"
	UserRejected UserStatus = "rejected"
)

func (s UserStatus) Valid() bool {
	switch s {
	case UserPending, UserActive, UserRejected:
		return true
	default:
		return false
	}
}

// LicenseStatus is the lifecycle state of a vendor license.
type LicenseStatus string

const (
	LicensePending   LicenseStatus = "pending"
	LicenseApproved  LicenseStatus = "approved"
	LicenseRejected  LicenseStatus = "rejected"
	LicenseSuspended LicenseStatus = "suspended"
	LicenseExpired   LicenseStatus = "expired"
)

func (s LicenseStatus) Valid() bool {
	switch s {
	case LicensePending, LicenseApproved, LicenseRejected, LicenseSuspended, LicenseExpired:
		return true
	default:
		return false
	}
}

// User is an account of any role. Station managers are bound to exactly one station.
type User struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	Status       UserStatus `json:"status"`
	StationID    *int64     `json:"station_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Station is a railway station vendors can be licensed at.
type Station struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	City      string    `json:"city"`
	Zone      string    `json:"zone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Platform belongs to a station; Number is unique within the station.
type Platform struct {
	ID        int64     `json:"id"`
	StationID int64     `json:"station_id"`
	Number    int       `json:"number"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// License grants a vendor the right to run a stall at a station, optionally pinned to a platform.
type License struct {
	ID         int64         `json:"id"`
	VendorID   int64         `json:"vendor_id"`
	StationID  int64         `json:"station_id"`
	PlatformID *int64        `json:"platform_id,omitempty"`
	StallName  string        `json:"stall_name"`
	Category   string        `json:"category"`
	Status     LicenseStatus `json:"status"`
	ValidFrom  *time.Time    `json:"valid_from,omitempty"`
	ValidUntil *time.Time    `json:"valid_until,omitempty"`
	Remarks    string        `json:"remarks,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID    int64  `json:"user_id"`
	Role      Role   `json:"role"`
	StationID *int64 `json:"station_id,omitempty"`
}

// Is reports whether the principal holds any of the given roles.
func (p Principal) Is(roles ...Role) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

// ManagesStation reports whether p is the station manager bound to stationID.
func (p Principal) ManagesStation(stationID int64) bool {
	return p.Role == RoleStationManager && p.StationID != nil && *p.StationID == stationID
}

// Session is returned on successful login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

// Totals holds system-wide counters read by the admin and inspector dashboards.
// It's a read-only model derived from the tables and is not persisted.
type Totals struct {
	Stations      int `json:"stations"`
	Platforms     int `json:"platforms"`
	Users         int `json:"users"`
	PendingAdmins int `json:"pending_admins"`
	ActiveVendors int `json:"active_vendors"`
}

// DashboardSummary is the role-scoped overview shown on the landing page of each role.
// Fields that don't apply to the caller's role are omitted.
type DashboardSummary struct {
	Role          Role                  `json:"role"`
	StationID     *int64                `json:"station_id,omitempty"`
	Stations      *int                  `json:"stations,omitempty"`
	Platforms     *int                  `json:"platforms,omitempty"`
	Users         *int                  `json:"users,omitempty"`
	PendingAdmins *int                  `json:"pending_admins,omitempty"`
	ActiveVendors *int                  `json:"active_vendors,omitempty"`
	Licenses      map[LicenseStatus]int `json:"licenses"`
	GeneratedAt   time.Time             `json:"generated_at"`
}
