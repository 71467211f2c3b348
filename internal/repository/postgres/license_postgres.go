package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maxviazov/station-vendor-service/internal/model"
	"github.com/maxviazov/station-vendor-service/internal/repository"
)

const licenseColumns = `id, vendor_id, station_id, platform_id, stall_name, category, status,
	valid_from, valid_until, remarks, created_at, updated_at`

type licenseRepository struct{ pool *pgxpool.Pool }

func NewLicenseRepository(pool *pgxpool.Pool) repository.LicenseRepository {
	return &licenseRepository{pool: pool}
}

func (r *licenseRepository) Create(ctx context.Context, l model.License) (model.License, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.License{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO licenses (vendor_id, station_id, platform_id, stall_name, category, status, valid_from, valid_until, remarks)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+licenseColumns,
		l.VendorID, l.StationID, l.PlatformID, l.StallName, l.Category, string(l.Status), l.ValidFrom, l.ValidUntil, l.Remarks,
	)
	out, err := scanLicense(row)
	if err != nil {
		return model.License{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *licenseRepository) GetByID(ctx context.Context, id int64) (model.License, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.License{}, err
	}
	out, err := scanLicense(getQ(ctx, r.pool).QueryRow(ctx, `SELECT `+licenseColumns+` FROM licenses WHERE id = $1`, id))
	if err != nil {
		return model.License{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *licenseRepository) List(ctx context.Context, f repository.LicenseFilter, p repository.Page) (repository.PageResult[model.License], error) {
	if err := ensurePool(r.pool); err != nil {
		return repository.PageResult[model.License]{}, err
	}
	w := licenseWhere(f)
	return listPage(ctx, getQ(ctx, r.pool),
		`SELECT `+licenseColumns+`, COUNT(*) OVER() AS total FROM licenses`,
		`SELECT COUNT(*) FROM licenses`,
		`created_at DESC, id DESC`,
		w, p,
		func(rows pgx.Rows, total *int) (model.License, error) {
			var l model.License
			var status string
			err := rows.Scan(&l.ID, &l.VendorID, &l.StationID, &l.PlatformID, &l.StallName, &l.Category, &status,
				&l.ValidFrom, &l.ValidUntil, &l.Remarks, &l.CreatedAt, &l.UpdatedAt, total)
			l.Status = model.LicenseStatus(status)
			return l, err
		},
	)
}

func (r *licenseRepository) UpdateStatus(ctx context.Context, l model.License, from model.LicenseStatus) (model.License, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.License{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`UPDATE licenses
		 SET status = $2, valid_from = $3, valid_until = $4, remarks = $5, updated_at = now()
		 WHERE id = $1 AND status = $6
		 RETURNING `+licenseColumns,
		l.ID, string(l.Status), l.ValidFrom, l.ValidUntil, l.Remarks, string(from),
	)
	out, err := scanLicense(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.License{}, missingOrStale(ctx, exec, "licenses", l.ID)
		}
		return model.License{}, repository.MapPgError(err)
	}
	return out, nil
}

func licenseWhere(f repository.LicenseFilter) *where {
	var w where
	if f.VendorID != nil {
		w.add(`vendor_id = $%d`, *f.VendorID)
	}
	if f.StationID != nil {
		w.add(`station_id = $%d`, *f.StationID)
	}
	if f.Status != "" {
		w.add(`status = $%d`, string(f.Status))
	}
	return &w
}

func scanLicense(row pgx.Row) (model.License, error) {
	var l model.License
	var status string
	err := row.Scan(&l.ID, &l.VendorID, &l.StationID, &l.PlatformID, &l.StallName, &l.Category, &status,
		&l.ValidFrom, &l.ValidUntil, &l.Remarks, &l.CreatedAt, &l.UpdatedAt)
	l.Status = model.LicenseStatus(status)
	return l, err
}

var _ repository.LicenseRepository = (*licenseRepository)(nil)
