// Package tenantstore provides per-tenant storage units backed by Postgres.
// Each tenant gets its own schema, addressed by the sanitized username, so
// namespaces are physically separated within one engine - the moral
// equivalent of one database file per user. Units are opened fresh per
// request and closed at the end of it; there is no shared connection pool
// across requests.
package tenantstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"

	"github.com/jrsteele09/go-kv-server/kv"
	"github.com/jrsteele09/go-kv-server/tenantstore/migrations"
	"github.com/jrsteele09/go-kv-server/users"
)

const schemaPrefix = "tenant_"

// Unit is one tenant's open storage unit: its identity row and key-value
// namespace. Close must be called at the end of the request.
type Unit interface {
	Users() users.Repo
	Entries() kv.Repo
	Close() error
}

// Provider opens tenant storage units. Opening a unit for a username that
// has never been seen provisions an empty one (self-provisioning); callers
// can therefore probe for arbitrary usernames, which is a documented
// property of the design.
type Provider interface {
	Open(ctx context.Context, username string) (Unit, error)
}

// PostgresStore implements Provider on a single Postgres database, one
// schema per tenant.
type PostgresStore struct {
	dsn string

	provisionLock sync.Mutex
	provisioned   sync.Map // schema name -> struct{}
}

var _ Provider = (*PostgresStore)(nil)

func NewPostgresStore(dsn string) *PostgresStore {
	return &PostgresStore{dsn: dsn}
}

// Open sanitizes the username, lazily provisions the tenant's schema, and
// returns a unit bound to it via the connection's search path.
func (s *PostgresStore) Open(ctx context.Context, username string) (Unit, error) {
	name, err := users.SanitizeUsername(username)
	if err != nil {
		return nil, err
	}
	schema := schemaPrefix + name

	if err := s.ensureProvisioned(ctx, schema); err != nil {
		return nil, errors.Wrapf(err, "failed to provision tenant %q", name)
	}

	db, err := sql.Open("pgx", s.tenantDSN(schema))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open tenant %q", name)
	}

	return &postgresUnit{db: db}, nil
}

// ensureProvisioned creates the tenant schema and runs the embedded
// migration set inside it. Both steps are idempotent; the in-process map
// only skips repeat work, the goose version table makes it safe across
// processes.
func (s *PostgresStore) ensureProvisioned(ctx context.Context, schema string) error {
	if _, ok := s.provisioned.Load(schema); ok {
		return nil
	}

	// goose configuration is package-global, so provisioning is serialized.
	s.provisionLock.Lock()
	defer s.provisionLock.Unlock()

	if _, ok := s.provisioned.Load(schema); ok {
		return nil
	}

	admin, err := sql.Open("pgx", s.dsn)
	if err != nil {
		return errors.Wrap(err, "failed to open database")
	}
	if _, err := admin.ExecContext(ctx, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %q", schema)); err != nil {
		_ = admin.Close()
		return errors.Wrap(err, "failed to create schema")
	}
	if err := admin.Close(); err != nil {
		return errors.Wrap(err, "failed to close database")
	}

	db, err := sql.Open("pgx", s.tenantDSN(schema))
	if err != nil {
		return errors.Wrap(err, "failed to open schema")
	}
	defer db.Close()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return errors.Wrap(err, "failed to set goose dialect")
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return errors.Wrap(err, "failed to run migrations")
	}

	s.provisioned.Store(schema, struct{}{})
	return nil
}

// tenantDSN pins the connection's search path to the tenant schema, so no
// query run on the unit can address another tenant's tables.
func (s *PostgresStore) tenantDSN(schema string) string {
	sep := "?"
	if strings.Contains(s.dsn, "?") {
		sep = "&"
	}
	return s.dsn + sep + "search_path=" + schema
}

type postgresUnit struct {
	db *sql.DB
}

func (u *postgresUnit) Users() users.Repo {
	return &postgresUserRepo{db: u.db}
}

func (u *postgresUnit) Entries() kv.Repo {
	return &postgresKVRepo{db: u.db}
}

func (u *postgresUnit) Close() error {
	return u.db.Close()
}
