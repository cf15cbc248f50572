package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-cms-api/internal/pages"
	"github.com/goliatone/go-cms-api/internal/runtimeconfig"
	"github.com/goliatone/go-cms-api/internal/storage"
	"github.com/goliatone/go-cms-api/pkg/testsupport"
)

func TestNormalizeDriver(t *testing.T) {
	cases := map[string]string{
		"sqlite3":    storage.DriverSQLite,
		" SQLite ":   storage.DriverSQLite,
		"postgresql": storage.DriverPostgres,
		"pg":         storage.DriverPostgres,
		"postgres":   storage.DriverPostgres,
	}
	for input, want := range cases {
		got, err := storage.NormalizeDriver(input)
		if err != nil || got != want {
			t.Fatalf("%q: got %q, %v", input, got, err)
		}
	}
	if _, err := storage.NormalizeDriver("mysql"); !errors.Is(err, storage.ErrUnsupportedDriver) {
		t.Fatalf("expected unsupported driver, got %v", err)
	}
}

func TestOpenSQLiteMemory(t *testing.T) {
	db, err := storage.Open(context.Background(), runtimeconfig.StorageConfig{
		Driver: "sqlite3",
		DSN:    "file:storage_open?mode=memory&cache=shared",
	}, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	if got := db.Stats().MaxOpenConnections; got != 1 {
		t.Fatalf("memory databases use a single connection, got %d", got)
	}
	var one int
	if err := db.NewSelect().ColumnExpr("1").Scan(context.Background(), &one); err != nil || one != 1 {
		t.Fatalf("select 1: %d %v", one, err)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := storage.Open(context.Background(), runtimeconfig.StorageConfig{Driver: "oracle", DSN: "x"}, nil)
	if !errors.Is(err, storage.ErrUnsupportedDriver) {
		t.Fatalf("expected unsupported driver, got %v", err)
	}
}

func TestCreateSchemaBuildsDefinitionTables(t *testing.T) {
	ctx := context.Background()
	db := testsupport.NewBunDB(t)
	registry := testsupport.NewRegistry(t)

	storage.RegisterModels(db)
	if err := storage.CreateSchema(ctx, db, registry); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	if err := storage.CreateSchema(ctx, db, registry); err != nil {
		t.Fatalf("create schema twice: %v", err)
	}

	if _, err := db.NewInsert().Model(&pages.Page{ID: 1, Path: "0001", Depth: 1, Title: "Root", ContentTypeID: 1}).Exec(ctx); err != nil {
		t.Fatalf("insert page: %v", err)
	}
	if _, err := db.ExecContext(ctx, "INSERT INTO demosite_blogentrypage (page_ptr_id, date, body, feed_image_id) VALUES (?, ?, ?, ?)", 1, "2014-01-01", "<p>x</p>", nil); err != nil {
		t.Fatalf("insert specific row: %v", err)
	}
	if _, err := db.ExecContext(ctx, "INSERT INTO demosite_blogentrypagerelatedlink (page_id, title, link_external) VALUES (?, ?, ?)", 1, "a", "b"); err != nil {
		t.Fatalf("insert child row: %v", err)
	}

	var order int
	if err := db.NewSelect().TableExpr("demosite_blogentrypagerelatedlink").ColumnExpr("sort_order").Scan(ctx, &order); err != nil {
		t.Fatalf("select child row: %v", err)
	}
	if order != 0 {
		t.Fatalf("order column defaults to 0, got %d", order)
	}
}

func TestLoadFixturesRequiresFiles(t *testing.T) {
	db := testsupport.NewBunDB(t)
	if err := storage.LoadFixtures(context.Background(), db, testsupport.Testdata(), storage.FixtureOptions{}); err == nil {
		t.Fatal("expected error without fixture files")
	}
}

func TestLoadFixturesTruncate(t *testing.T) {
	ctx := context.Background()
	db := testsupport.NewFixtureDB(t)

	if err := storage.LoadFixtures(ctx, db, testsupport.Testdata(), storage.FixtureOptions{Truncate: true}, testsupport.FixturesFile); err != nil {
		t.Fatalf("reload fixtures: %v", err)
	}
	count, err := db.NewSelect().Model((*pages.Page)(nil)).Count(ctx)
	if err != nil {
		t.Fatalf("count pages: %v", err)
	}
	if count != 11 {
		t.Fatalf("expected 11 pages after reload, got %d", count)
	}
}
