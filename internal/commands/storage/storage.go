// Package storagecmd exposes schema creation and fixture loading as commands.
package storagecmd

import (
	"context"
	"io/fs"
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-cms-api/internal/commands"
	"github.com/goliatone/go-cms-api/internal/models"
	"github.com/goliatone/go-cms-api/internal/storage"
	"github.com/goliatone/go-cms-api/pkg/interfaces"
	"github.com/uptrace/bun"
)

const (
	createSchemaMessageType = "api.storage.create_schema"
	loadFixturesMessageType = "api.storage.load_fixtures"
)

// CreateSchemaCommand creates the CMS tables, plus the page type tables of
// the registry when Definitions is set.
type CreateSchemaCommand struct {
	Definitions bool `json:"definitions"`
}

// Type implements command.Message.
func (CreateSchemaCommand) Type() string { return createSchemaMessageType }

// Validate implements command.Message. The command has no required input.
func (CreateSchemaCommand) Validate() error { return nil }

// CreateSchemaHandler runs CreateSchemaCommand against a database.
type CreateSchemaHandler struct {
	inner *commands.Handler[CreateSchemaCommand]
}

// NewCreateSchemaHandler wires the handler to db and the page type registry.
func NewCreateSchemaHandler(db *bun.DB, registry *models.Registry, logger interfaces.Logger, opts ...commands.HandlerOption[CreateSchemaCommand]) *CreateSchemaHandler {
	exec := func(ctx context.Context, msg CreateSchemaCommand) error {
		var definitions *models.Registry
		if msg.Definitions {
			definitions = registry
		}
		return storage.CreateSchema(ctx, db, definitions)
	}
	handlerOpts := []commands.HandlerOption[CreateSchemaCommand]{
		commands.WithLogger[CreateSchemaCommand](logger),
		commands.WithOperation[CreateSchemaCommand]("storage.create_schema"),
	}
	handlerOpts = append(handlerOpts, opts...)
	return &CreateSchemaHandler{inner: commands.NewHandler[CreateSchemaCommand](exec, handlerOpts...)}
}

// Execute satisfies command.Commander[CreateSchemaCommand].
func (h *CreateSchemaHandler) Execute(ctx context.Context, msg CreateSchemaCommand) error {
	return h.inner.Execute(ctx, msg)
}

// LoadFixturesCommand loads YAML fixture files relative to Dir.
type LoadFixturesCommand struct {
	Dir      string   `json:"dir"`
	Files    []string `json:"files"`
	Recreate bool     `json:"recreate"`
	Truncate bool     `json:"truncate"`
}

// Type implements command.Message.
func (LoadFixturesCommand) Type() string { return loadFixturesMessageType }

// Validate requires at least one non-blank file and at most one table mode.
func (m LoadFixturesCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Files,
			validation.Required.Error("at least one fixture file is required"),
			validation.Each(validation.By(notBlank)),
		),
		validation.Field(&m.Truncate,
			validation.When(m.Recreate, validation.Empty.Error("recreate and truncate are exclusive")),
		),
	)
}

func notBlank(value any) error {
	if s, _ := value.(string); strings.TrimSpace(s) == "" {
		return validation.NewError("api.storage.fixture_file_blank", "fixture file cannot be blank")
	}
	return nil
}

// LoadFixturesHandler runs LoadFixturesCommand against a database.
type LoadFixturesHandler struct {
	inner *commands.Handler[LoadFixturesCommand]
}

// NewLoadFixturesHandler wires the handler to db. Files are read from fsys
// when given, otherwise from the command's Dir on the local disk. Every model
// named by the files must already be registered with db.
func NewLoadFixturesHandler(db *bun.DB, fsys fs.FS, logger interfaces.Logger, opts ...commands.HandlerOption[LoadFixturesCommand]) *LoadFixturesHandler {
	exec := func(ctx context.Context, msg LoadFixturesCommand) error {
		source := fsys
		if source == nil {
			dir := strings.TrimSpace(msg.Dir)
			if dir == "" {
				dir = "."
			}
			source = os.DirFS(dir)
		}
		return storage.LoadFixtures(ctx, db, source, storage.FixtureOptions{
			Recreate: msg.Recreate,
			Truncate: msg.Truncate,
		}, msg.Files...)
	}
	handlerOpts := []commands.HandlerOption[LoadFixturesCommand]{
		commands.WithLogger[LoadFixturesCommand](logger),
		commands.WithOperation[LoadFixturesCommand]("storage.load_fixtures"),
	}
	handlerOpts = append(handlerOpts, opts...)
	return &LoadFixturesHandler{inner: commands.NewHandler[LoadFixturesCommand](exec, handlerOpts...)}
}

// Execute satisfies command.Commander[LoadFixturesCommand].
func (h *LoadFixturesHandler) Execute(ctx context.Context, msg LoadFixturesCommand) error {
	return h.inner.Execute(ctx, msg)
}
