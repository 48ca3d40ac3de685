package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/willfong/bankfront/internal/config"
	"github.com/willfong/bankfront/internal/database"
)

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, "nested", "session.json"))
	ctx := context.Background()

	if _, err := store.Load(ctx); !errors.Is(err, ErrNoRecord) {
		t.Fatalf("Expected ErrNoRecord before first save, got %v", err)
	}

	if err := store.Save(ctx, []byte(`{"userId":1}`)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save(ctx, []byte(`{"userId":2}`)); err != nil {
		t.Fatalf("Second save failed: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil || string(got) != `{"userId":2}` {
		t.Fatalf("Expected latest record, got %q, %v", got, err)
	}

	info, err := os.Stat(store.Path())
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("Expected mode 0600, got %v", info.Mode().Perm())
	}

	entries, _ := os.ReadDir(filepath.Dir(store.Path()))
	if len(entries) != 1 {
		t.Errorf("Expected no leftover temp files, got %d entries", len(entries))
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Errorf("Clearing twice should succeed, got %v", err)
	}
	if _, err := store.Load(ctx); !errors.Is(err, ErrNoRecord) {
		t.Errorf("Expected ErrNoRecord after clear, got %v", err)
	}
}

func TestMemoryStoreCopies(t *testing.T) {
	store := NewMemoryStore()
	buf := []byte("abc")
	store.Save(context.Background(), buf)
	buf[0] = 'x'

	got, _ := store.Load(context.Background())
	if string(got) != "abc" {
		t.Errorf("Expected stored copy to be independent, got %q", got)
	}
}

func TestConnectRedis(t *testing.T) {
	tests := []struct {
		input string
		addr  string
	}{
		{"localhost:6379", "localhost:6379"},
		{"redis://cache:6380/2", "cache:6380"},
	}

	for _, tt := range tests {
		client, err := ConnectRedis(tt.input)
		if err != nil {
			t.Fatalf("ConnectRedis(%q) failed: %v", tt.input, err)
		}
		if client.Options().Addr != tt.addr {
			t.Errorf("Expected addr %s, got %s", tt.addr, client.Options().Addr)
		}
		client.Close()
	}

	if _, err := ConnectRedis("redis://[bad"); err == nil {
		t.Error("Expected error for malformed URL")
	}
}

func TestRedisStoreUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	store := NewRedisStore(client, "default", time.Hour)
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := store.Load(ctx)
	if err == nil || errors.Is(err, ErrNoRecord) {
		t.Errorf("Expected a connection error distinct from ErrNoRecord, got %v", err)
	}
}

func TestSQLStoreUnreachable(t *testing.T) {
	pool, err := database.NewPool(config.DatabaseConfig{DSN: "u:p@tcp(127.0.0.1:1)/bankfront?timeout=100ms"})
	if err != nil {
		t.Fatalf("NewPool failed: %v", err)
	}
	store := NewSQLStore(pool, "default")
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err = store.Load(ctx)
	if err == nil || errors.Is(err, ErrNoRecord) {
		t.Errorf("Expected a connection error distinct from ErrNoRecord, got %v", err)
	}
	if st := store.Stats(); st.TotalQueries != 1 || st.FailedQueries != 1 {
		t.Errorf("Expected 1 failed query, got %+v", st)
	}

	if err := store.EnsureSchema(ctx); err == nil {
		t.Error("Expected EnsureSchema to fail when the database is unreachable")
	}
	if st := store.Stats(); st.TotalQueries != 1 {
		t.Errorf("Expected no statement after a failed ping, got %+v", st)
	}
}
