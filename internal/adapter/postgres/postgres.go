// Package postgres implements the domain repositories using PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"nutritrack/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Options tunes the connection pool.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	// SkipMigrations leaves the schema untouched on Open.
	SkipMigrations bool
}

// DB wraps a *sqlx.DB and implements domain repository interfaces.
type DB struct {
	db *sqlx.DB
}

var (
	_ domain.UserRepository       = (*DB)(nil)
	_ domain.MealRepository       = (*DB)(nil)
	_ domain.IntakeRepository     = (*DB)(nil)
	_ domain.IngredientRepository = (*DB)(nil)
	_ domain.WaterRepository      = (*DB)(nil)
	_ domain.ActivityRepository   = (*DB)(nil)
	_ domain.BMRRepository        = (*DB)(nil)
	_ domain.ReportRepository     = (*DB)(nil)
	_ domain.OwnerLookup          = (*DB)(nil)
	_ domain.SessionRepository    = (*SessionRepo)(nil)
)

// Open connects to PostgreSQL, pings, and runs migrations.
func Open(connStr string, opts Options) (*DB, error) {
	s, err := sqlx.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = 10
	}
	if opts.MaxIdleConns <= 0 {
		opts.MaxIdleConns = 5
	}
	if opts.ConnMaxIdleTime <= 0 {
		opts.ConnMaxIdleTime = 100 * time.Second
	}
	s.SetMaxOpenConns(opts.MaxOpenConns)
	s.SetMaxIdleConns(opts.MaxIdleConns)
	s.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	s.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	if !opts.SkipMigrations {
		if err := Migrate(connStr, Up); err != nil {
			_ = s.Close()
			return nil, err
		}
	}
	return &DB{db: s}, nil
}

// New wraps an existing connection. The schema is assumed to be current.
func New(db *sql.DB) *DB {
	return &DB{db: sqlx.NewDb(db, "postgres")}
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks connectivity.
func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// mapErr translates driver errors into domain errors.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%s: %w", pqErr.Constraint, domain.ErrConflict)
	}
	return err
}

// rowsAffected returns the number of affected rows of an Exec result.
func rowsAffected(res sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, mapErr(err)
	}
	return res.RowsAffected()
}
