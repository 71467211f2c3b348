// Package contract holds storage-agnostic behavior suites every repository implementation must pass.
package contract

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/maxviazov/station-vendor-service/internal/model"
	"github.com/maxviazov/station-vendor-service/internal/repository"
)

type StationFactory func(t *testing.T) (repository.StationRepository, func())

type PlatformFactory func(t *testing.T) (repo repository.PlatformRepository, mkStation func(ctx context.Context, code string) (int64, error), cleanup func())

type UserFactory func(t *testing.T) (repository.UserRepository, func())

type LicenseFactory func(t *testing.T) (repo repository.LicenseRepository, mkVendor func(ctx context.Context, email string) (int64, error), mkStation func(ctx context.Context, code string) (int64, error), cleanup func())

type TxFactory func(t *testing.T) (tx repository.TxManager, stations repository.StationRepository, cleanup func())

type PingerFactory func(t *testing.T) (repository.Pinger, func())

func RunStationRepositoryContract(t *testing.T, makeRepo StationFactory) {
	t.Helper()

	t.Run("create_and_get", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := repo.Create(ctx, model.Station{Name: "Central", Code: "CEN", City: "Mumbai", Zone: "WR"})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		got, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got.ID != created.ID || got.Code != "CEN" || got.Zone != "WR" {
			t.Fatalf("mismatch: %+v", got)
		}
		ok, err := repo.Exists(ctx, created.ID)
		if err != nil || !ok {
			t.Fatalf("expected station to exist, got ok=%v err=%v", ok, err)
		}
	})

	t.Run("get_not_found", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.GetByID(context.Background(), 999999)
		if err == nil || err != repository.ErrNotFound {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("list_pagination_total", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		for i := 0; i < 7; i++ {
			s := model.Station{Name: "S-" + string(rune('A'+i)), Code: fmt.Sprintf("C%d", i), City: "Pune", Zone: "CR"}
			if _, err := repo.Create(ctx, s); err != nil {
				t.Fatalf("seed: %v", err)
			}
		}
		res, err := repo.List(ctx, repository.StationFilter{}, repository.Page{Limit: 3, Offset: 0})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(res.Items) != 3 || res.Total != 7 {
			t.Fatalf("unexpected page: len=%d total=%d", len(res.Items), res.Total)
		}
		if res.Items[0].Name != "S-A" {
			t.Fatalf("expected name ordering, got %q first", res.Items[0].Name)
		}
		last, err := repo.List(ctx, repository.StationFilter{}, repository.Page{Limit: 3, Offset: 6})
		if err != nil {
			t.Fatalf("list last: %v", err)
		}
		if len(last.Items) != 1 || last.Total != 7 {
			t.Fatalf("unexpected last page: len=%d total=%d", len(last.Items), last.Total)
		}
	})

	t.Run("past_end_keeps_total", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		for i := 0; i < 2; i++ {
			if _, err := repo.Create(ctx, model.Station{Name: fmt.Sprintf("N%d", i), Code: fmt.Sprintf("N%d", i)}); err != nil {
				t.Fatalf("seed: %v", err)
			}
		}
		res, err := repo.List(ctx, repository.StationFilter{}, repository.Page{Limit: 10, Offset: 50})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(res.Items) != 0 || res.Total != 2 {
			t.Fatalf("unexpected page: len=%d total=%d", len(res.Items), res.Total)
		}
	})

	t.Run("list_filters", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		seed := []model.Station{
			{Name: "Dadar", Code: "DR", City: "Mumbai", Zone: "CR"},
			{Name: "Andheri", Code: "ADH", City: "Mumbai", Zone: "WR"},
			{Name: "Howrah", Code: "HWH", City: "Kolkata", Zone: "ER"},
		}
		for _, s := range seed {
			if _, err := repo.Create(ctx, s); err != nil {
				t.Fatalf("seed: %v", err)
			}
		}
		res, err := repo.List(ctx, repository.StationFilter{Search: "mumbai"}, repository.Page{Limit: 10})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if res.Total != 2 {
			t.Fatalf("expected 2 matches for search, got %d", res.Total)
		}
		res, err = repo.List(ctx, repository.StationFilter{Search: "mumbai", Zone: "WR"}, repository.Page{Limit: 10})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if res.Total != 1 || res.Items[0].Code != "ADH" {
			t.Fatalf("unexpected filtered page: %+v", res)
		}
	})

	t.Run("create_duplicate_code_conflict", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		if _, err := repo.Create(ctx, model.Station{Name: "One", Code: "DUP"}); err != nil {
			t.Fatalf("seed: %v", err)
		}
		_, err := repo.Create(ctx, model.Station{Name: "Two", Code: "DUP"})
		if err == nil || err != repository.ErrAlreadyExists {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})
}

func RunPlatformRepositoryContract(t *testing.T, makeRepo PlatformFactory) {
	t.Helper()

	t.Run("create_and_list_by_station", func(t *testing.T) {
		repo, mkStation, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		stationID, err := mkStation(ctx, "PLT")
		if err != nil {
			t.Fatalf("seed station: %v", err)
		}
		for i := 5; i >= 1; i-- {
			if _, err := repo.Create(ctx, model.Platform{StationID: stationID, Number: i}); err != nil {
				t.Fatalf("seed platform %d: %v", i, err)
			}
		}
		res, err := repo.ListByStation(ctx, stationID, repository.Page{Limit: 2, Offset: 2})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(res.Items) != 2 || res.Total != 5 {
			t.Fatalf("unexpected page: len=%d total=%d", len(res.Items), res.Total)
		}
		if res.Items[0].Number != 3 || res.Items[1].Number != 4 {
			t.Fatalf("expected platforms 3 and 4, got %+v", res.Items)
		}
		got, err := repo.GetByID(ctx, res.Items[0].ID)
		if err != nil || got.StationID != stationID {
			t.Fatalf("get: %+v err=%v", got, err)
		}
	})

	t.Run("duplicate_number_conflict", func(t *testing.T) {
		repo, mkStation, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		stationID, err := mkStation(ctx, "DPL")
		if err != nil {
			t.Fatalf("seed station: %v", err)
		}
		if _, err := repo.Create(ctx, model.Platform{StationID: stationID, Number: 1}); err != nil {
			t.Fatalf("seed: %v", err)
		}
		_, err = repo.Create(ctx, model.Platform{StationID: stationID, Number: 1})
		if err == nil || err != repository.ErrAlreadyExists {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("create_fk_violation_conflict", func(t *testing.T) {
		repo, _, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.Create(context.Background(), model.Platform{StationID: 9999999, Number: 1})
		if err == nil || err != repository.ErrConflict {
			t.Fatalf("expected ErrConflict on FK violation, got %v", err)
		}
	})
}

func RunUserRepositoryContract(t *testing.T, makeRepo UserFactory) {
	t.Helper()

	t.Run("create_get_by_email_case_insensitive", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := repo.Create(ctx, model.User{Name: "Asha", Email: "Asha@Example.com", PasswordHash: "x", Role: model.RoleVendor, Status: model.UserActive})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		got, err := repo.GetByEmail(ctx, "ASHA@example.COM")
		if err != nil {
			t.Fatalf("get by email: %v", err)
		}
		if got.ID != created.ID || got.PasswordHash != "x" || got.Role != model.RoleVendor {
			t.Fatalf("mismatch: %+v", got)
		}
		_, err = repo.Create(ctx, model.User{Name: "Dup", Email: "asha@example.com", PasswordHash: "y", Role: model.RoleVendor, Status: model.UserActive})
		if err == nil || err != repository.ErrAlreadyExists {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("list_pending_oldest_first", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		for i := 0; i < 3; i++ {
			u := model.User{Name: fmt.Sprintf("Insp %d", i), Email: fmt.Sprintf("insp%d@example.com", i), PasswordHash: "x", Role: model.RoleInspector, Status: model.UserPending}
			if _, err := repo.Create(ctx, u); err != nil {
				t.Fatalf("seed: %v", err)
			}
		}
		if _, err := repo.Create(ctx, model.User{Name: "V", Email: "v@example.com", PasswordHash: "x", Role: model.RoleVendor, Status: model.UserActive}); err != nil {
			t.Fatalf("seed vendor: %v", err)
		}
		f := repository.UserFilter{Roles: []model.Role{model.RoleInspector, model.RoleStationManager}, Status: model.UserPending}
		res, err := repo.List(ctx, f, repository.Page{Limit: 2})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if res.Total != 3 || len(res.Items) != 2 || res.Items[0].Email != "insp0@example.com" {
			t.Fatalf("unexpected page: %+v", res)
		}
	})

	t.Run("update_status", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		u, err := repo.Create(ctx, model.User{Name: "M", Email: "m@example.com", PasswordHash: "x", Role: model.RoleInspector, Status: model.UserPending})
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		out, err := repo.UpdateStatus(ctx, u.ID, model.UserPending, model.UserActive)
		if err != nil || out.Status != model.UserActive {
			t.Fatalf("update: %+v err=%v", out, err)
		}
		// a second decision based on the old pending read must not overwrite the first
		if _, err := repo.UpdateStatus(ctx, u.ID, model.UserPending, model.UserRejected); !errors.Is(err, repository.ErrConflict) {
			t.Fatalf("expected ErrConflict on stale status, got %v", err)
		}
		got, err := repo.GetByID(ctx, u.ID)
		if err != nil || got.Status != model.UserActive {
			t.Fatalf("status overwritten: %+v err=%v", got, err)
		}
		if _, err := repo.UpdateStatus(ctx, 8888888, model.UserPending, model.UserActive); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func RunLicenseRepositoryContract(t *testing.T, makeRepo LicenseFactory) {
	t.Helper()

	t.Run("create_list_filter_update", func(t *testing.T) {
		repo, mkVendor, mkStation, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		v1, err := mkVendor(ctx, "v1@example.com")
		if err != nil {
			t.Fatalf("seed vendor: %v", err)
		}
		v2, err := mkVendor(ctx, "v2@example.com")
		if err != nil {
			t.Fatalf("seed vendor: %v", err)
		}
		st, err := mkStation(ctx, "LIC")
		if err != nil {
			t.Fatalf("seed station: %v", err)
		}
		var first model.License
		for i, vendor := range []int64{v1, v1, v2} {
			l, err := repo.Create(ctx, model.License{VendorID: vendor, StationID: st, StallName: fmt.Sprintf("Stall %d", i), Category: "food", Status: model.LicensePending})
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			if i == 0 {
				first = l
			}
		}
		res, err := repo.List(ctx, repository.LicenseFilter{VendorID: &v1}, repository.Page{Limit: 10})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if res.Total != 2 {
			t.Fatalf("expected 2 licenses for vendor, got %d", res.Total)
		}

		now := time.Now().UTC().Truncate(time.Second)
		until := now.AddDate(1, 0, 0)
		first.Status, first.ValidFrom, first.ValidUntil, first.Remarks = model.LicenseApproved, &now, &until, "ok"
		updated, err := repo.UpdateStatus(ctx, first, model.LicensePending)
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.Status != model.LicenseApproved || updated.ValidUntil == nil || updated.Remarks != "ok" {
			t.Fatalf("unexpected update: %+v", updated)
		}

		stale := first
		stale.Status, stale.ValidFrom, stale.ValidUntil, stale.Remarks = model.LicenseRejected, nil, nil, "late"
		if _, err := repo.UpdateStatus(ctx, stale, model.LicensePending); !errors.Is(err, repository.ErrConflict) {
			t.Fatalf("expected ErrConflict on stale status, got %v", err)
		}
		if _, err := repo.UpdateStatus(ctx, model.License{ID: 9999999, Status: model.LicenseApproved}, model.LicensePending); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		approved, err := repo.List(ctx, repository.LicenseFilter{StationID: &st, Status: model.LicenseApproved}, repository.Page{Limit: 10})
		if err != nil {
			t.Fatalf("list approved: %v", err)
		}
		if approved.Total != 1 || approved.Items[0].ID != first.ID {
			t.Fatalf("unexpected approved page: %+v", approved)
		}
	})

	t.Run("get_not_found", func(t *testing.T) {
		repo, _, _, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.GetByID(context.Background(), 7777777)
		if err == nil || err != repository.ErrNotFound {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func RunTxManagerContract(t *testing.T, makeTx TxFactory) {
	t.Helper()

	t.Run("commit_on_nil_error", func(t *testing.T) {
		tx, stations, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		var createdID int64
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			out, err := stations.Create(ctx, model.Station{Name: "TxCommit", Code: "TXC"})
			if err != nil {
				return err
			}
			createdID = out.ID
			return nil
		})
		if err != nil {
			t.Fatalf("WithinTx: %v", err)
		}
		if _, err := stations.GetByID(ctx, createdID); err != nil {
			t.Fatalf("expected committed row visible, got err=%v", err)
		}
	})

	t.Run("rollback_on_error", func(t *testing.T) {
		tx, stations, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		var createdID int64
		errMarker := assertErr("boom")
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			out, err := stations.Create(ctx, model.Station{Name: "TxRollback", Code: "TXR"})
			if err != nil {
				return err
			}
			createdID = out.ID
			return errMarker
		})
		if err == nil || err.Error() != errMarker.Error() {
			t.Fatalf("expected marker error, got %v", err)
		}
		if _, err := stations.GetByID(ctx, createdID); err == nil || err != repository.ErrNotFound {
			t.Fatalf("expected ErrNotFound after rollback, got %v", err)
		}
	})
}

func RunPingerContract(t *testing.T, makePinger PingerFactory) {
	t.Helper()
	t.Run("ping_ok", func(t *testing.T) {
		p, cleanup := makePinger(t)
		t.Cleanup(cleanup)
		if err := p.Ping(context.Background()); err != nil {
			t.Fatalf("expected ping ok, got %v", err)
		}
	})
}

// assertErr builds a sentinel error without importing errors to keep helpers local.
func assertErr(msg string) error { return &sentinel{msg} }

type sentinel struct{ s string }

func (e *sentinel) Error() string { return e.s }
