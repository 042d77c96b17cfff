package migrate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed sql/postgres/*.sql sql/sqlite/*.sql
var migrationsFS embed.FS

// LatestVersion is the schema version every store is brought up to on open.
// Version 1 holds orders, 2 adds products, 3 adds categories, owners and the
// product owner column. Each step only adds; existing rows are never touched.
const LatestVersion uint = 3

// Migrator applies the embedded schema versions to one database.
type Migrator struct {
	m *migrate.Migrate
}

// NewPostgres prepares a Migrator for the database behind pool. It opens its
// own database/sql handle so closing the Migrator leaves pool untouched.
func NewPostgres(ctx context.Context, pool *pgxpool.Pool) (*Migrator, error) {
	sqlDB, err := sql.Open("pgx", pool.Config().ConnString())
	if err != nil {
		return nil, fmt.Errorf("open sql db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping sql db: %w", err)
	}
	dbDriver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("init db driver: %w", err)
	}
	return newMigrator("sql/postgres", "pgx", dbDriver)
}

// NewSQLite prepares a Migrator for the SQLite file at path.
func NewSQLite(ctx context.Context, path string) (*Migrator, error) {
	sqlDB, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sql db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping sql db: %w", err)
	}
	dbDriver, err := sqlite3.WithInstance(sqlDB, &sqlite3.Config{})
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("init db driver: %w", err)
	}
	return newMigrator("sql/sqlite", "sqlite3", dbDriver)
}

func newMigrator(dir, dbName string, dbDriver database.Driver) (*Migrator, error) {
	srcDriver, err := iofs.New(migrationsFS, dir)
	if err != nil {
		dbDriver.Close()
		return nil, fmt.Errorf("init iofs: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", srcDriver, dbName, dbDriver)
	if err != nil {
		dbDriver.Close()
		return nil, fmt.Errorf("init migrate: %w", err)
	}
	return &Migrator{m: m}, nil
}

// Up applies every pending version in order. An up-to-date schema is not an
// error.
func (mg *Migrator) Up() error {
	return wrapUp(mg.m.Up())
}

// To migrates to exactly version v, up or down.
func (mg *Migrator) To(v uint) error {
	return wrapUp(mg.m.Migrate(v))
}

// Version returns the persisted schema version, 0 for an empty database.
func (mg *Migrator) Version() (uint, error) {
	v, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read version: %w", err)
	}
	if dirty {
		return v, fmt.Errorf("schema version %d is dirty; fix the database and force the version", v)
	}
	return v, nil
}

// Close releases the source and the migration database handle.
func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	return errors.Join(srcErr, dbErr)
}

// Apply runs all migrations up on the Postgres database behind pool.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	m, err := NewPostgres(ctx, pool)
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up()
}

// ApplySQLite runs all migrations up on the SQLite file at path.
func ApplySQLite(ctx context.Context, path string) error {
	m, err := NewSQLite(ctx, path)
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up()
}

func wrapUp(err error) error {
	if err == nil || errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("migrate up: %w (hint: ensure every migration version has both `.up.sql` and `.down.sql`; migrations are embedded in the binary)", err)
	}
	return fmt.Errorf("migrate up: %w", err)
}
