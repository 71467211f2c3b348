package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/maxviazov/station-vendor-service/internal/pagination"
	"github.com/maxviazov/station-vendor-service/internal/repository"
)

// sanitizeLimitOffset is the last line of defence for callers that bypass the service layer.
func sanitizeLimitOffset(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = pagination.DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// where accumulates AND-ed predicates with positional arguments.
// Each clause is a format string whose %[1]d verb is replaced with the arg's placeholder index.
type where struct {
	clauses []string
	args    []any
}

func (w *where) add(clause string, arg any) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, fmt.Sprintf(clause, len(w.args)))
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// next returns the placeholder index the next appended argument will get.
func (w *where) next() int { return len(w.args) + 1 }

// missingOrStale explains why a guarded "UPDATE ... WHERE id = $1 AND status = $2" matched no row:
// ErrNotFound when the id is gone, ErrConflict when another writer changed the status first.
// table is always a literal from this package.
func missingOrStale(ctx context.Context, exec q, table string, id int64) error {
	var exists bool
	if err := exec.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM `+table+` WHERE id = $1)`, id).Scan(&exists); err != nil {
		return repository.MapPgError(err)
	}
	if !exists {
		return repository.ErrNotFound
	}
	return fmt.Errorf("%w: status changed concurrently", repository.ErrConflict)
}

// likePattern escapes LIKE wildcards in a user search term.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(s)) + "%"
}

// listPage runs a "SELECT cols, COUNT(*) OVER() ... ORDER BY ... LIMIT/OFFSET" query.
// selectSQL must end right before the WHERE clause; orderBy is the stable sort key.
// When the page is empty but rows may exist before it, the total is re-counted so
// clients paging past the end still see the real number of items.
func listPage[T any](
	ctx context.Context,
	exec q,
	selectSQL, countSQL, orderBy string,
	w *where,
	p repository.Page,
	scan func(row pgx.Rows, total *int) (T, error),
) (repository.PageResult[T], error) {
	limit, offset := sanitizeLimitOffset(p.Limit, p.Offset)
	args := append(append([]any{}, w.args...), limit, offset)
	sql := fmt.Sprintf("%s%s ORDER BY %s LIMIT $%d OFFSET $%d", selectSQL, w.String(), orderBy, w.next(), w.next()+1)

	rows, err := exec.Query(ctx, sql, args...)
	if err != nil {
		return repository.PageResult[T]{}, repository.MapPgError(err)
	}
	defer rows.Close()

	res := repository.PageResult[T]{Items: make([]T, 0, min(limit, 256))}
	for rows.Next() {
		var total int
		it, err := scan(rows, &total)
		if err != nil {
			return repository.PageResult[T]{}, repository.MapPgError(err)
		}
		res.Items = append(res.Items, it)
		res.Total = total
	}
	if err := rows.Err(); err != nil {
		return repository.PageResult[T]{}, repository.MapPgError(err)
	}

	if len(res.Items) == 0 && offset > 0 {
		if err := exec.QueryRow(ctx, countSQL+w.String(), w.args...).Scan(&res.Total); err != nil {
			return repository.PageResult[T]{}, repository.MapPgError(err)
		}
	}
	return res, nil
}
