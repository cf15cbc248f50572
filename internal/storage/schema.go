package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-cms-api/internal/documents"
	"github.com/goliatone/go-cms-api/internal/images"
	"github.com/goliatone/go-cms-api/internal/models"
	"github.com/goliatone/go-cms-api/internal/pages"
	"github.com/goliatone/go-cms-api/internal/sites"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// BaseModels lists the bun models of the tables every CMS install has.
func BaseModels() []any {
	return []any{
		(*pages.ContentType)(nil),
		(*pages.Page)(nil),
		(*pages.ViewRestriction)(nil),
		(*sites.Site)(nil),
		(*images.Image)(nil),
		(*documents.Document)(nil),
	}
}

// RegisterModels registers the base models and any extra ones with db, which
// fixture loading requires.
func RegisterModels(db *bun.DB, extra ...any) {
	db.RegisterModel(BaseModels()...)
	if len(extra) > 0 {
		db.RegisterModel(extra...)
	}
}

// CreateSchema creates the base tables, then one table per registered page
// type and child relation. Existing tables are left alone. It is meant for
// development databases; production tables belong to the CMS.
func CreateSchema(ctx context.Context, db *bun.DB, registry *models.Registry) error {
	for _, model := range BaseModels() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("storage: create table %T: %w", model, err)
		}
	}
	if registry == nil {
		return nil
	}
	for _, mt := range registry.Types() {
		if mt.Parent() == nil || mt.Table == "" {
			continue
		}
		if err := createTable(ctx, db, mt.Table, "page_ptr_id", mt.Fields, ""); err != nil {
			return fmt.Errorf("storage: create %s: %w", mt.Name(), err)
		}
		for _, rel := range mt.ChildRelations {
			if err := createTable(ctx, db, rel.Table, "", rel.Fields, rel.ForeignKey, rel.OrderBy); err != nil {
				return fmt.Errorf("storage: create %s.%s: %w", mt.Name(), rel.Name, err)
			}
		}
	}
	return nil
}

// createTable issues CREATE TABLE IF NOT EXISTS for a definition table. With
// a primaryKey the table is keyed by that column (specific page tables),
// otherwise by a generated id plus the given extra integer columns.
func createTable(ctx context.Context, db *bun.DB, table, primaryKey string, fields []models.Field, extra ...string) error {
	name := db.Dialect().Name()
	var (
		defs []string
		args = []any{bun.Ident(table)}
		seen = map[string]bool{}
	)

	if primaryKey != "" {
		defs = append(defs, "? BIGINT PRIMARY KEY")
		args = append(args, bun.Ident(primaryKey))
		seen[primaryKey] = true
	} else {
		defs = append(defs, "? "+autoIncrementKey(name))
		args = append(args, bun.Ident("id"))
		seen["id"] = true
	}

	for _, column := range extra {
		if column == "" || seen[column] {
			continue
		}
		if hasColumn(fields, column) {
			continue
		}
		defs = append(defs, "? BIGINT NOT NULL DEFAULT 0")
		args = append(args, bun.Ident(column))
		seen[column] = true
	}

	for _, field := range fields {
		column := field.ColumnName()
		if seen[column] {
			continue
		}
		defs = append(defs, "? "+columnType(name, field.Kind))
		args = append(args, bun.Ident(column))
		seen[column] = true
	}

	query := "CREATE TABLE IF NOT EXISTS ? (" + strings.Join(defs, ", ") + ")"
	_, err := db.ExecContext(ctx, query, args...)
	return err
}

func hasColumn(fields []models.Field, column string) bool {
	for _, field := range fields {
		if field.ColumnName() == column {
			return true
		}
	}
	return false
}

func autoIncrementKey(name dialect.Name) string {
	if name == dialect.PG {
		return "BIGSERIAL PRIMARY KEY"
	}
	return "INTEGER PRIMARY KEY AUTOINCREMENT"
}

func columnType(name dialect.Name, kind models.FieldKind) string {
	switch kind {
	case models.KindText:
		return "TEXT"
	case models.KindInt:
		return "BIGINT"
	case models.KindFloat:
		return "DOUBLE PRECISION"
	case models.KindBool:
		return "BOOLEAN"
	case models.KindDate:
		return "DATE"
	case models.KindDateTime:
		if name == dialect.PG {
			return "TIMESTAMPTZ"
		}
		return "TIMESTAMP"
	default:
		return "VARCHAR(255)"
	}
}
