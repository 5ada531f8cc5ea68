package db

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"kidsflow/internal/config"
)

type recordingExecer struct {
	sql string
	err error
}

func (r *recordingExecer) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	r.sql = sql
	return pgconn.NewCommandTag("CREATE TABLE"), r.err
}

func TestEnsureSchema(t *testing.T) {
	rec := &recordingExecer{}
	if err := EnsureSchema(context.Background(), rec); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	if !strings.Contains(rec.sql, "CREATE TABLE IF NOT EXISTS kv_cache") {
		t.Fatalf("unexpected sql: %s", rec.sql)
	}

	rec.err = errors.New("permission denied")
	if err := EnsureSchema(context.Background(), rec); err == nil {
		t.Fatalf("expected exec error to propagate")
	}
}

func TestNewPool_RequiresURL(t *testing.T) {
	if _, err := NewPool(context.Background(), &config.Config{}); !errors.Is(err, ErrNoDatabaseURL) {
		t.Fatalf("expected ErrNoDatabaseURL, got %v", err)
	}
}
