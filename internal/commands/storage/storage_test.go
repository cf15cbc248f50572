package storagecmd_test

import (
	"context"
	"testing"
	"testing/fstest"

	storagecmd "github.com/goliatone/go-cms-api/internal/commands/storage"
	"github.com/goliatone/go-cms-api/internal/images"
	"github.com/goliatone/go-cms-api/internal/storage"
	"github.com/goliatone/go-cms-api/pkg/testsupport"
	goerrors "github.com/goliatone/go-errors"
)

func TestLoadFixturesCommandValidate(t *testing.T) {
	cases := []struct {
		name  string
		msg   storagecmd.LoadFixturesCommand
		valid bool
	}{
		{"files", storagecmd.LoadFixturesCommand{Files: []string{"a.yml"}}, true},
		{"no files", storagecmd.LoadFixturesCommand{}, false},
		{"blank file", storagecmd.LoadFixturesCommand{Files: []string{" "}}, false},
		{"both modes", storagecmd.LoadFixturesCommand{Files: []string{"a.yml"}, Recreate: true, Truncate: true}, false},
		{"truncate", storagecmd.LoadFixturesCommand{Files: []string{"a.yml"}, Truncate: true}, true},
	}
	for _, tc := range cases {
		if err := tc.msg.Validate(); (err == nil) != tc.valid {
			t.Fatalf("%s: unexpected validation result %v", tc.name, err)
		}
	}
}

func TestCreateSchemaAndLoadFixtures(t *testing.T) {
	ctx := context.Background()
	db := testsupport.NewBunDB(t)
	storage.RegisterModels(db, testsupport.DemoModels()...)

	create := storagecmd.NewCreateSchemaHandler(db, testsupport.NewRegistry(t), nil)
	if err := create.Execute(ctx, storagecmd.CreateSchemaCommand{Definitions: true}); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	load := storagecmd.NewLoadFixturesHandler(db, testsupport.Testdata(), nil)
	if err := load.Execute(ctx, storagecmd.LoadFixturesCommand{Files: []string{testsupport.FixturesFile}, Truncate: true}); err != nil {
		t.Fatalf("load fixtures: %v", err)
	}
	count, err := db.NewSelect().Model((*images.Image)(nil)).Count(ctx)
	if err != nil || count != 3 {
		t.Fatalf("expected 3 images, got %d (%v)", count, err)
	}
}

func TestLoadFixturesFailures(t *testing.T) {
	ctx := context.Background()
	db := testsupport.NewBunDB(t)
	storage.RegisterModels(db)
	fsys := fstest.MapFS{"broken.yml": {Data: []byte("- model: Unknown\n  rows:\n    - {id: 1}\n")}}
	load := storagecmd.NewLoadFixturesHandler(db, fsys, nil)

	err := load.Execute(ctx, storagecmd.LoadFixturesCommand{})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	err = load.Execute(ctx, storagecmd.LoadFixturesCommand{Files: []string{"broken.yml"}})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command error for an unregistered model, got %v", err)
	}
}
