package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/preston-bernstein/game-store-service/internal/config"
	"github.com/preston-bernstein/game-store-service/internal/dtos"
	"github.com/preston-bernstein/game-store-service/internal/seed"
	"github.com/preston-bernstein/game-store-service/internal/store"
)

// SeededCatalog returns a memory catalog holding the default seed data:
// six genres (ids 1-6) and three games (ids 1-3).
func SeededCatalog(t testing.TB) *store.MemoryStore {
	t.Helper()
	cat := store.NewMemoryStore()
	if _, err := seed.Apply(context.Background(), cat, nil); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	return cat
}

// SeededSQLiteCatalog returns a private in-memory SQLite catalog with foreign
// keys enforced, migrated and holding the same seed data as SeededCatalog.
func SeededSQLiteCatalog(t testing.TB) store.Catalog {
	t.Helper()
	ctx := context.Background()
	cat, err := store.Open(config.DatabaseConfig{
		Driver:           config.DriverSQLite,
		ConnectionString: "file::memory:?_pragma=foreign_keys(1)",
	}, nil, nil)
	if err != nil {
		t.Fatalf("open sqlite catalog: %v", err)
	}
	t.Cleanup(func() { _ = cat.Close() })
	if err := cat.Migrate(ctx); err != nil {
		t.Fatalf("migrate sqlite catalog: %v", err)
	}
	if _, err := seed.Apply(ctx, cat, nil); err != nil {
		t.Fatalf("seed sqlite catalog: %v", err)
	}
	return cat
}

// SeededBackends lists a seeded catalog constructor per store backend.
func SeededBackends() map[string]func(testing.TB) store.Catalog {
	return map[string]func(testing.TB) store.Catalog{
		"memory": func(t testing.TB) store.Catalog { return SeededCatalog(t) },
		"sqlite": SeededSQLiteCatalog,
	}
}

// SampleCreateGame returns a valid creation payload referencing the genre by name.
func SampleCreateGame(name, genre string) dtos.CreateGame {
	return dtos.CreateGame{
		Name:        name,
		Genre:       genre,
		Price:       decimal.RequireFromString("9.99"),
		ReleaseDate: "1993-12-10",
	}
}

// JSONBody encodes v for use as a request body.
func JSONBody(t testing.TB, v any) io.Reader {
	t.Helper()
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		t.Fatalf("encode body: %v", err)
	}
	return &buf
}
