package tenantstore

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	apperrors "github.com/jrsteele09/go-kv-server/internal/errors"
	"github.com/jrsteele09/go-kv-server/kv"
)

type postgresKVRepo struct {
	db *sql.DB
}

var _ kv.Repo = (*postgresKVRepo)(nil)

func (r *postgresKVRepo) List(ctx context.Context) ([]kv.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM key_values`)
	if err != nil {
		return nil, errors.Wrap(err, "db error")
	}
	defer rows.Close()

	entries := make([]kv.Entry, 0)
	for rows.Next() {
		var e kv.Entry
		if err := rows.Scan(&e.Key, &e.Value); err != nil {
			return nil, errors.Wrap(err, "db error")
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "db error")
	}
	return entries, nil
}

// Insert relies on the unique index on key as the final arbiter: of two
// concurrent inserts of the same new key, the loser gets ErrKeyExists.
func (r *postgresKVRepo) Insert(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO key_values (key, value) VALUES ($1, $2)`, key, value)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrKeyExists
		}
		return errors.Wrap(err, "db error")
	}
	return nil
}

func (r *postgresKVRepo) Update(ctx context.Context, key, value string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE key_values SET value = $2 WHERE key = $1`, key, value)
	if err != nil {
		return errors.Wrap(err, "db error")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "db error")
	}
	if affected == 0 {
		return apperrors.ErrKeyNotFound
	}
	return nil
}

func (r *postgresKVRepo) Delete(ctx context.Context, key string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM key_values WHERE key = $1`, key)
	if err != nil {
		return errors.Wrap(err, "db error")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "db error")
	}
	if affected == 0 {
		return apperrors.ErrKeyNotFound
	}
	return nil
}
