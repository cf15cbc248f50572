// Package testsupport opens seeded SQLite databases for tests.
package testsupport

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/goliatone/go-cms-api/internal/models"
	"github.com/goliatone/go-cms-api/internal/storage"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

//go:embed testdata/*
var testdata embed.FS

// FixturesFile and ModelsFile name the embedded demo data.
const (
	FixturesFile = "testdata/fixtures.yml"
	ModelsFile   = "testdata/models.json"
)

var dbCounter atomic.Int64

// Testdata exposes the embedded fixture files.
func Testdata() embed.FS {
	return testdata
}

// NewSQLiteMemoryDB opens a private in-memory SQLite database. Every call
// gets its own database even though the cache is shared between connections.
func NewSQLiteMemoryDB(name string) (*sql.DB, error) {
	name = strings.NewReplacer("/", "_", " ", "_").Replace(name)
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbCounter.Add(1))
	return sql.Open("sqlite3", dsn)
}

// NewBunDB opens an empty bun database for t.
func NewBunDB(t testing.TB) *bun.DB {
	t.Helper()
	sqldb, err := NewSQLiteMemoryDB(t.Name())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// NewRegistry returns a registry holding the demo page types.
func NewRegistry(t testing.TB) *models.Registry {
	t.Helper()
	registry := models.NewRegistry()
	if _, err := models.LoadDefinitions(registry, testdata, ModelsFile); err != nil {
		t.Fatalf("load demo models: %v", err)
	}
	return registry
}

// NewFixtureDB opens a database holding the demo site: the base tables, the
// demo page tables and the rows of testdata/fixtures.yml.
func NewFixtureDB(t testing.TB) *bun.DB {
	t.Helper()
	ctx := context.Background()
	db := NewBunDB(t)

	storage.RegisterModels(db, DemoModels()...)
	if err := storage.CreateSchema(ctx, db, nil); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	if err := storage.LoadFixtures(ctx, db, testdata, storage.FixtureOptions{Recreate: true}, FixturesFile); err != nil {
		t.Fatalf("load fixtures: %v", err)
	}
	return db
}
