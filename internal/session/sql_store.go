package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/willfong/bankfront/internal/database"
)

const (
	createSessionTable = `CREATE TABLE IF NOT EXISTS bankfront_sessions (
		profile    VARCHAR(64) NOT NULL PRIMARY KEY,
		record     TEXT        NOT NULL,
		updated_at DATETIME    NOT NULL
	)`
	selectSession = `SELECT record FROM bankfront_sessions WHERE profile = ?`
	upsertSession = `INSERT INTO bankfront_sessions (profile, record, updated_at) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE record = VALUES(record), updated_at = VALUES(updated_at)`
	deleteSession = `DELETE FROM bankfront_sessions WHERE profile = ?`
)

// SQLStore keeps the record in a MySQL table keyed by profile, for terminals
// that share one session across hosts.
type SQLStore struct {
	pool    *database.Pool
	profile string
}

// NewSQLStore creates a store for profile on pool
func NewSQLStore(pool *database.Pool, profile string) *SQLStore {
	return &SQLStore{pool: pool, profile: profile}
}

// EnsureSchema checks the database is reachable and creates the session
// table if it does not exist
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	if err := s.pool.Connect(ctx); err != nil {
		return err
	}
	if _, err := s.pool.ExecContext(ctx, createSessionTable); err != nil {
		return fmt.Errorf("create session table: %w", err)
	}
	return nil
}

func (s *SQLStore) Load(ctx context.Context) ([]byte, error) {
	var record string
	err := s.pool.ScanRow(ctx, selectSession, []any{s.profile}, &record)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRecord
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return []byte(record), nil
}

func (s *SQLStore) Save(ctx context.Context, record []byte) error {
	if _, err := s.pool.ExecContext(ctx, upsertSession, s.profile, string(record), time.Now().UTC()); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SQLStore) Clear(ctx context.Context) error {
	if _, err := s.pool.ExecContext(ctx, deleteSession, s.profile); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Stats reports the pool behind the store
func (s *SQLStore) Stats() database.Stats {
	return s.pool.Stats()
}

// Close releases the pool
func (s *SQLStore) Close() error {
	return s.pool.Close()
}
