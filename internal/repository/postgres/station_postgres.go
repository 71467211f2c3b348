package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maxviazov/station-vendor-service/internal/model"
	"github.com/maxviazov/station-vendor-service/internal/repository"
)

const stationColumns = `id, name, code, city, zone, created_at, updated_at`

type stationRepository struct{ pool *pgxpool.Pool }

func NewStationRepository(pool *pgxpool.Pool) repository.StationRepository {
	return &stationRepository{pool: pool}
}

func (r *stationRepository) Create(ctx context.Context, s model.Station) (model.Station, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Station{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO stations (name, code, city, zone) VALUES ($1, $2, $3, $4)
		 RETURNING `+stationColumns,
		s.Name, s.Code, s.City, s.Zone,
	)
	out, err := scanStation(row)
	if err != nil {
		return model.Station{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *stationRepository) GetByID(ctx context.Context, id int64) (model.Station, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Station{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`SELECT `+stationColumns+` FROM stations WHERE id = $1`, id,
	)
	out, err := scanStation(row)
	if err != nil {
		return model.Station{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *stationRepository) List(ctx context.Context, f repository.StationFilter, p repository.Page) (repository.PageResult[model.Station], error) {
	if err := ensurePool(r.pool); err != nil {
		return repository.PageResult[model.Station]{}, err
	}
	var w where
	if f.Search != "" {
		w.add(`(name ILIKE $%[1]d OR code ILIKE $%[1]d OR city ILIKE $%[1]d)`, likePattern(f.Search))
	}
	if f.Zone != "" {
		w.add(`zone = $%d`, f.Zone)
	}
	return listPage(ctx, getQ(ctx, r.pool),
		`SELECT `+stationColumns+`, COUNT(*) OVER() AS total FROM stations`,
		`SELECT COUNT(*) FROM stations`,
		`name, id`,
		&w, p,
		func(rows pgx.Rows, total *int) (model.Station, error) {
			var s model.Station
			err := rows.Scan(&s.ID, &s.Name, &s.Code, &s.City, &s.Zone, &s.CreatedAt, &s.UpdatedAt, total)
			return s, err
		},
	)
}

// Exists performs a lightweight check to see if a station with the given ID exists.
func (r *stationRepository) Exists(ctx context.Context, id int64) (bool, error) {
	if err := ensurePool(r.pool); err != nil {
		return false, err
	}
	var exists bool
	err := getQ(ctx, r.pool).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM stations WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, repository.MapPgError(err)
	}
	return exists, nil
}

func scanStation(row pgx.Row) (model.Station, error) {
	var s model.Station
	err := row.Scan(&s.ID, &s.Name, &s.Code, &s.City, &s.Zone, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

var _ repository.StationRepository = (*stationRepository)(nil)
