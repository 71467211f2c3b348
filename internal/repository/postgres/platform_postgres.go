package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maxviazov/station-vendor-service/internal/model"
	"github.com/maxviazov/station-vendor-service/internal/repository"
)

const platformColumns = `id, station_id, number, name, created_at, updated_at`

type platformRepository struct{ pool *pgxpool.Pool }

func NewPlatformRepository(pool *pgxpool.Pool) repository.PlatformRepository {
	return &platformRepository{pool: pool}
}

func (r *platformRepository) Create(ctx context.Context, p model.Platform) (model.Platform, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Platform{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO platforms (station_id, number, name) VALUES ($1, $2, $3)
		 RETURNING `+platformColumns,
		p.StationID, p.Number, p.Name,
	)
	var out model.Platform
	if err := row.Scan(&out.ID, &out.StationID, &out.Number, &out.Name, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return model.Platform{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *platformRepository) GetByID(ctx context.Context, id int64) (model.Platform, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Platform{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx, `SELECT `+platformColumns+` FROM platforms WHERE id = $1`, id)
	var out model.Platform
	if err := row.Scan(&out.ID, &out.StationID, &out.Number, &out.Name, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return model.Platform{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *platformRepository) ListByStation(ctx context.Context, stationID int64, p repository.Page) (repository.PageResult[model.Platform], error) {
	if err := ensurePool(r.pool); err != nil {
		return repository.PageResult[model.Platform]{}, err
	}
	var w where
	w.add(`station_id = $%d`, stationID)
	return listPage(ctx, getQ(ctx, r.pool),
		`SELECT `+platformColumns+`, COUNT(*) OVER() AS total FROM platforms`,
		`SELECT COUNT(*) FROM platforms`,
		`number, id`,
		&w, p,
		func(rows pgx.Rows, total *int) (model.Platform, error) {
			var it model.Platform
			err := rows.Scan(&it.ID, &it.StationID, &it.Number, &it.Name, &it.CreatedAt, &it.UpdatedAt, total)
			return it, err
		},
	)
}

var _ repository.PlatformRepository = (*platformRepository)(nil)
