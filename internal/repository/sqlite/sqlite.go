// Package sqlite persists notification categories and presentation history
// in an embedded SQLite database.
package sqlite

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/relay-one/tray-service/internal/config"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// timeLayout stores timestamps as text; RFC 3339 keeps them sortable and
// driver-independent.
const timeLayout = time.RFC3339Nano

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

// DB wraps the sqlx connection shared by the repositories.
type DB struct {
	DB *sqlx.DB
}

// New opens (or creates) the database, applies pragmas, and runs any
// pending migrations.
func New(cfg config.DatabaseConfig) (*DB, error) {
	db, err := sqlx.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// WAL keeps concurrent reads cheap while the daemon writes history.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		fmt.Sprintf("PRAGMA busy_timeout=%d", cfg.BusyTimeout.Milliseconds()),
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying %q: %w", pragma, err)
		}
	}

	d := &DB{DB: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return d, nil
}

func (d *DB) migrate() error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading embedded migrations: %w", err)
	}

	driver, err := migratesqlite.WithInstance(d.DB.DB, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("creating migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Health pings the database for readiness probes.
func (d *DB) Health(ctx context.Context) error {
	return d.DB.PingContext(ctx)
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.DB.Close()
}
