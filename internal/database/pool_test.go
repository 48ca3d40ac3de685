package database

import (
	"context"
	"testing"
	"time"

	"github.com/willfong/bankfront/internal/config"
)

func TestEnsureParseTime(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"u:p@tcp(db:3306)/bank", "u:p@tcp(db:3306)/bank?parseTime=true"},
		{"u:p@tcp(db:3306)/bank?timeout=5s", "u:p@tcp(db:3306)/bank?timeout=5s&parseTime=true"},
		{"u:p@tcp(db:3306)/bank?parseTime=false", "u:p@tcp(db:3306)/bank?parseTime=false"},
		{"u:p@tcp(db:3306)/bank?ParseTime=true", "u:p@tcp(db:3306)/bank?ParseTime=true"},
	}

	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			if got := ensureParseTime(tt.dsn); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestNewPoolRequiresDSN(t *testing.T) {
	if _, err := NewPool(config.DatabaseConfig{}); err == nil {
		t.Error("Expected error for empty DSN")
	}

	pool, err := NewPool(config.DatabaseConfig{DSN: "u:p@tcp(127.0.0.1:1)/bank", MaxOpenConns: 2})
	if err != nil {
		t.Fatalf("NewPool failed: %v", err)
	}
	defer pool.Close()

	if s := pool.Stats(); s.TotalQueries != 0 || s.OpenConnections != 0 {
		t.Errorf("Expected a fresh pool, got %+v", s)
	}
}

func TestScanRowCountsFailures(t *testing.T) {
	pool, err := NewPool(config.DatabaseConfig{DSN: "u:p@tcp(127.0.0.1:1)/bank?timeout=100ms"})
	if err != nil {
		t.Fatalf("NewPool failed: %v", err)
	}
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := pool.Connect(ctx); err == nil {
		t.Error("Expected ping to fail")
	}
	var n int
	if err := pool.ScanRow(ctx, "SELECT 1", nil, &n); err == nil {
		t.Error("Expected scan to fail")
	}
	if s := pool.Stats(); s.TotalQueries != 1 || s.FailedQueries != 1 {
		t.Errorf("Expected 1 failed query, got %+v", s)
	}
}
