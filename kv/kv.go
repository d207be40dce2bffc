// Package kv is the bot's durable key-value store. Values are JSON documents
// kept in a single kv_store table, grouped by namespace (the bot) and name
// (the logical database, e.g. "schedule"). Access goes through scoped handles
// that wrap one SQL transaction each.
package kv

import (
	"context"
	"database/sql"
	"embed"
	"strconv"
	"strings"
	"time"

	// Import the PostgreSQL driver.
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	// Import the pure-Go SQLite driver.
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type dialect struct {
	driver string
	goose  string
	// positional rewrites "?" placeholders into "$1", "$2", ...
	positional bool
}

var dialects = map[string]dialect{
	DriverSQLite:   {driver: "sqlite", goose: "sqlite3"},
	DriverPostgres: {driver: "postgres", goose: "postgres", positional: true},
}

// DB is an open store. It is safe for concurrent use; each handle gets its
// own transaction.
type DB struct {
	db      *sql.DB
	dialect dialect
}

// Open connects to the named driver ("sqlite" or "postgres") and applies
// migrations.
func Open(ctx context.Context, driver, dsn string) (*DB, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, errors.Errorf("unknown kv driver %q: only 'sqlite' and 'postgres' are supported", driver)
	}

	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s store", driver)
	}

	if driver == DriverSQLite {
		// One writer at a time; concurrent transactions would only get SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(2)
		db.SetConnMaxLifetime(2 * time.Hour)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to ping store")
	}

	store := &DB{db: db, dialect: d}
	if err := store.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// New wraps an existing connection without running migrations.
func New(db *sql.DB, driver string) (*DB, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, errors.Errorf("unknown kv driver %q", driver)
	}
	return &DB{db: db, dialect: d}, nil
}

// Migrate brings the schema up to date.
func (s *DB) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(s.dialect.goose); err != nil {
		return errors.Wrap(err, "failed to set migration dialect")
	}
	if err := goose.UpContext(ctx, s.db, "migrations"); err != nil {
		return errors.Wrap(err, "failed to migrate store")
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *DB) Close() error {
	return s.db.Close()
}

// Open acquires a scoped handle on namespace/name. The caller must Close or
// Abort it; With does that automatically.
func (s *DB) Open(ctx context.Context, namespace, name string) (*Handle, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s/%s", namespace, name)
	}
	return &Handle{
		ctx:       ctx,
		tx:        tx,
		dialect:   s.dialect,
		namespace: namespace,
		name:      name,
	}, nil
}

// With runs fn against a handle on namespace/name. The handle is committed
// when fn returns nil and rolled back on error or panic.
func (s *DB) With(ctx context.Context, namespace, name string, fn func(h *Handle) error) (err error) {
	h, err := s.Open(ctx, namespace, name)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = h.Abort()
			panic(p)
		}
		if err != nil {
			_ = h.Abort()
			return
		}
		err = h.Close()
	}()

	return fn(h)
}

func (d dialect) rebind(query string) string {
	if !d.positional {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
