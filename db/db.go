package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var migrations embed.FS

// ErrMenuNotFound is returned when a write targets a menu that does not exist.
var ErrMenuNotFound = errors.New("menu not found")

type MenuDB struct {
	DB  *sql.DB
	Log *zerolog.Logger
}

// NewMenuDB opens the database connection and checks it is reachable.
func NewMenuDB(driver, connStr string, log *zerolog.Logger) (*MenuDB, error) {
	if connStr == "" {
		log.Error().Msg("database connection string is not set")
		return nil, fmt.Errorf("database connection string is not set")
	}

	db, err := sql.Open(driver, connStr)
	if err != nil {
		log.Error().Err(err).Msg("Failed to open database connection")
		return nil, err
	}

	// Check we are actually connected
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Error().Err(err).Msg("Database connection failed during ping")
		db.Close()
		return nil, err
	}

	return &MenuDB{
		DB:  db,
		Log: log,
	}, nil
}

func (m *MenuDB) Close() error {
	if err := m.DB.Close(); err != nil {
		return err
	}
	m.Log.Info().Msg("database connection closed")
	return nil
}

// Migrate applies the embedded goose migrations.
func (m *MenuDB) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("error setting migration dialect: %w", err)
	}

	if err := goose.UpContext(ctx, m.DB, "migrations"); err != nil {
		return fmt.Errorf("error running migrations: %w", err)
	}

	m.Log.Info().Msg("Migrations applied successfully")
	return nil
}

// CommitTransaction commits tx, rolling it back if the commit fails.
func (m *MenuDB) CommitTransaction(tx *sql.Tx) error {
	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return err
	}
	return nil
}

func (m *MenuDB) execQuery(ctx context.Context, tx *sql.Tx, query string, args ...interface{}) (sql.Result, error) {

	if m.DB == nil {
		return nil, fmt.Errorf("database connection is not established")
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return res, nil
}
