// Package database opens the MySQL pool used by the shared session store.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	_ "github.com/go-sql-driver/mysql"
	"github.com/willfong/bankfront/internal/config"
)

// ensureParseTime adds parseTime=true to a MySQL DSN if not already present,
// so DATETIME columns scan into time.Time.
func ensureParseTime(dsn string) string {
	lower := strings.ToLower(dsn)
	if strings.Contains(lower, "parsetime=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&parseTime=true"
	}
	return dsn + "?parseTime=true"
}

// Pool wraps a sql.DB
type Pool struct {
	db *sql.DB

	totalQueries  atomic.Int64
	failedQueries atomic.Int64
}

// NewPool opens a pool with the given configuration. No connection is made until first use.
func NewPool(cfg config.DatabaseConfig) (*Pool, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database DSN is required")
	}

	db, err := sql.Open("mysql", ensureParseTime(cfg.DSN))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return &Pool{db: db}, nil
}

// Connect verifies the database is reachable
func (p *Pool) Connect(ctx context.Context) error {
	if err := p.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// Close shuts down the pool
func (p *Pool) Close() error {
	return p.db.Close()
}

// ScanRow runs a query expected to return at most one row and scans it into
// dest. sql.ErrNoRows is returned as is and not counted as a failure.
func (p *Pool) ScanRow(ctx context.Context, query string, args []any, dest ...any) error {
	p.totalQueries.Add(1)
	err := p.db.QueryRowContext(ctx, query, args...).Scan(dest...)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		p.failedQueries.Add(1)
	}
	return err
}

// ExecContext executes a statement that returns no rows
func (p *Pool) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	p.totalQueries.Add(1)
	result, err := p.db.ExecContext(ctx, query, args...)
	if err != nil {
		p.failedQueries.Add(1)
	}
	return result, err
}

// Stats contains connection pool and statement counts
type Stats struct {
	OpenConnections int
	InUse           int
	Idle            int
	TotalQueries    int64
	FailedQueries   int64
}

// Stats returns current pool statistics
func (p *Pool) Stats() Stats {
	s := p.db.Stats()
	return Stats{
		OpenConnections: s.OpenConnections,
		InUse:           s.InUse,
		Idle:            s.Idle,
		TotalQueries:    p.totalQueries.Load(),
		FailedQueries:   p.failedQueries.Load(),
	}
}
