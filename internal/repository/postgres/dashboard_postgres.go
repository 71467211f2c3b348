package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maxviazov/station-vendor-service/internal/model"
	"github.com/maxviazov/station-vendor-service/internal/repository"
)

type dashboardRepository struct{ pool *pgxpool.Pool }

func NewDashboardRepository(pool *pgxpool.Pool) repository.DashboardRepository {
	return &dashboardRepository{pool: pool}
}

// Totals reads every system-wide counter in a single round trip.
func (r *dashboardRepository) Totals(ctx context.Context) (model.Totals, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Totals{}, err
	}
	var t model.Totals
	err := getQ(ctx, r.pool).QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM stations),
			(SELECT COUNT(*) FROM platforms),
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM users WHERE status = 'pending' AND role IN ('station_manager', 'inspector')),
			(SELECT COUNT(*) FROM users WHERE status = 'active' AND role = 'vendor')
	`).Scan(&t.Stations, &t.Platforms, &t.Users, &t.PendingAdmins, &t.ActiveVendors)
	if err != nil {
		return model.Totals{}, repository.MapPgError(err)
	}
	return t, nil
}

func (r *dashboardRepository) LicenseCounts(ctx context.Context, f repository.LicenseFilter) (map[model.LicenseStatus]int, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	w := licenseWhere(f)
	rows, err := getQ(ctx, r.pool).Query(ctx, `SELECT status, COUNT(*) FROM licenses`+w.String()+` GROUP BY status`, w.args...)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	defer rows.Close()

	out := make(map[model.LicenseStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, repository.MapPgError(err)
		}
		out[model.LicenseStatus(status)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, repository.MapPgError(err)
	}
	return out, nil
}

func (r *dashboardRepository) PlatformCount(ctx context.Context, stationID int64) (int, error) {
	if err := ensurePool(r.pool); err != nil {
		return 0, err
	}
	var n int
	if err := getQ(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM platforms WHERE station_id = $1`, stationID).Scan(&n); err != nil {
		return 0, repository.MapPgError(err)
	}
	return n, nil
}

var _ repository.DashboardRepository = (*dashboardRepository)(nil)
