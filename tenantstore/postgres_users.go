package tenantstore

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"

	apperrors "github.com/jrsteele09/go-kv-server/internal/errors"
	"github.com/jrsteele09/go-kv-server/users"
)

const pgUniqueViolation = "23505"

type postgresUserRepo struct {
	db *sql.DB
}

var _ users.Repo = (*postgresUserRepo)(nil)

func (r *postgresUserRepo) Create(ctx context.Context, user *users.User) error {
	query := `INSERT INTO users (username, password_hash, encrypted_passphrase)
	          VALUES ($1, $2, $3)`

	_, err := r.db.ExecContext(ctx, query, user.Username, user.PasswordHash, user.EncryptedPassphrase)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrUserExists
		}
		return errors.Wrap(err, "db error")
	}
	return nil
}

func (r *postgresUserRepo) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	query := `SELECT username, password_hash, encrypted_passphrase, date_joined
	          FROM users
	          WHERE username = $1`

	user := &users.User{}
	err := r.db.QueryRowContext(ctx, query, username).
		Scan(&user.Username, &user.PasswordHash, &user.EncryptedPassphrase, &user.DateJoined)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, errors.Wrap(err, "db error")
	}
	return user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return stderrors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
