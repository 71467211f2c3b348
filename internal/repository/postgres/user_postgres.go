package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maxviazov/station-vendor-service/internal/model"
	"github.com/maxviazov/station-vendor-service/internal/repository"
)

const userColumns = `id, name, email, password_hash, role, status, station_id, created_at, updated_at`

type userRepository struct{ pool *pgxpool.Pool }

func NewUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, u model.User) (model.User, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.User{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash, role, status, station_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+userColumns,
		u.Name, strings.ToLower(u.Email), u.PasswordHash, string(u.Role), string(u.Status), u.StationID,
	)
	out, err := scanUser(row)
	if err != nil {
		return model.User{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, strings.TrimSpace(email))
}

func (r *userRepository) getOne(ctx context.Context, sql string, arg any) (model.User, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.User{}, err
	}
	out, err := scanUser(getQ(ctx, r.pool).QueryRow(ctx, sql, arg))
	if err != nil {
		return model.User{}, repository.MapPgError(err)
	}
	return out, nil
}

// List sorts newest first, except when only pending accounts are requested: the approval
// queue is served oldest first so requests are handled in arrival order.
func (r *userRepository) List(ctx context.Context, f repository.UserFilter, p repository.Page) (repository.PageResult[model.User], error) {
	if err := ensurePool(r.pool); err != nil {
		return repository.PageResult[model.User]{}, err
	}
	var w where
	if len(f.Roles) > 0 {
		roles := make([]string, len(f.Roles))
		for i, role := range f.Roles {
			roles[i] = string(role)
		}
		w.add(`role = ANY($%d)`, roles)
	}
	if f.Status != "" {
		w.add(`status = $%d`, string(f.Status))
	}
	if f.StationID != nil {
		w.add(`station_id = $%d`, *f.StationID)
	}
	if f.Search != "" {
		w.add(`(name ILIKE $%[1]d OR email ILIKE $%[1]d)`, likePattern(f.Search))
	}
	orderBy := `created_at DESC, id DESC`
	if f.Status == model.UserPending {
		orderBy = `created_at ASC, id ASC`
	}
	return listPage(ctx, getQ(ctx, r.pool),
		`SELECT `+userColumns+`, COUNT(*) OVER() AS total FROM users`,
		`SELECT COUNT(*) FROM users`,
		orderBy,
		&w, p,
		func(rows pgx.Rows, total *int) (model.User, error) {
			var u model.User
			var role, status string
			err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &status, &u.StationID, &u.CreatedAt, &u.UpdatedAt, total)
			u.Role, u.Status = model.Role(role), model.UserStatus(status)
			return u, err
		},
	)
}

func (r *userRepository) UpdateStatus(ctx context.Context, id int64, from, to model.UserStatus) (model.User, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.User{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`UPDATE users SET status = $3, updated_at = now() WHERE id = $1 AND status = $2
		 RETURNING `+userColumns,
		id, string(from), string(to),
	)
	out, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, missingOrStale(ctx, exec, "users", id)
		}
		return model.User{}, repository.MapPgError(err)
	}
	return out, nil
}

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	var role, status string
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &status, &u.StationID, &u.CreatedAt, &u.UpdatedAt)
	u.Role, u.Status = model.Role(role), model.UserStatus(status)
	return u, err
}

var _ repository.UserRepository = (*userRepository)(nil)
