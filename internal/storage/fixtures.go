package storage

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dbfixture"
)

// FixtureOptions controls how fixture files treat existing tables.
type FixtureOptions struct {
	// Recreate drops and recreates the tables of every model in the files.
	Recreate bool
	// Truncate empties those tables before inserting.
	Truncate bool
}

// LoadFixtures inserts the rows of the YAML fixture files. Every model the
// files name must be registered with db first (see RegisterModels).
func LoadFixtures(ctx context.Context, db *bun.DB, fsys fs.FS, opts FixtureOptions, files ...string) error {
	if len(files) == 0 {
		return fmt.Errorf("storage: no fixture files given")
	}
	var fixtureOpts []dbfixture.FixtureOption
	switch {
	case opts.Recreate:
		fixtureOpts = append(fixtureOpts, dbfixture.WithRecreateTables())
	case opts.Truncate:
		fixtureOpts = append(fixtureOpts, dbfixture.WithTruncateTables())
	}
	fixture := dbfixture.New(db, fixtureOpts...)
	if err := fixture.Load(ctx, fsys, files...); err != nil {
		return fmt.Errorf("storage: load fixtures: %w", err)
	}
	return nil
}
