// Package cmsapi serves the read-only JSON API of a page-tree CMS: live pages
// scoped to the requesting site, plus the image and document libraries.
package cmsapi

import (
	"context"
	"net/http"

	storagecmd "github.com/goliatone/go-cms-api/internal/commands/storage"
	"github.com/goliatone/go-cms-api/internal/di"
	"github.com/goliatone/go-cms-api/internal/documents"
	"github.com/goliatone/go-cms-api/internal/images"
	"github.com/goliatone/go-cms-api/internal/pages"
)

// PageService exports the pages service contract.
type PageService = pages.Service

// PageScope exports the site scope passed to the pages service.
type PageScope = pages.Scope

// ImageService exports the images service contract.
type ImageService = images.Service

// DocumentService exports the documents service contract.
type DocumentService = documents.Service

// LoadFixturesCommand exports the fixture loading command.
type LoadFixturesCommand = storagecmd.LoadFixturesCommand

// Option overrides a dependency of the module.
type Option = di.Option

var (
	WithBunDB          = di.WithBunDB
	WithLoggerProvider = di.WithLoggerProvider
	WithCache          = di.WithCache
	WithRegistry       = di.WithRegistry
	WithSearchBackend  = di.WithSearchBackend
	WithModels         = di.WithModels
	WithFixturesFS     = di.WithFixturesFS
)

// Module represents the top level API runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a module from cfg, opening the configured database unless
// an option supplies one.
func New(cfg Config, opts ...Option) (*Module, error) {
	return NewWithContext(context.Background(), cfg, opts...)
}

// NewWithContext is New with a context bounding the database connection.
func NewWithContext(ctx context.Context, cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Handler returns the API as an http.Handler with request logging.
func (m *Module) Handler() http.Handler {
	return m.container.API().Handler()
}

// Register attaches the API routes to mux without the logging middleware.
func (m *Module) Register(mux *http.ServeMux) error {
	return m.container.API().Register(mux)
}

// URL reverses a route name such as "pages:detail".
func (m *Module) URL(name string, params map[string]any) (string, error) {
	return m.container.API().URL(name, params)
}

// Pages returns the configured page service.
func (m *Module) Pages() PageService {
	return m.container.PageService()
}

// Images returns the configured image service.
func (m *Module) Images() ImageService {
	return m.container.ImageService()
}

// Documents returns the configured document service.
func (m *Module) Documents() DocumentService {
	return m.container.DocumentService()
}

// CreateSchema creates the CMS tables. With definitions set it also creates
// the tables of the registered page types.
func (m *Module) CreateSchema(ctx context.Context, definitions bool) error {
	return m.container.CreateSchemaHandler().Execute(ctx, storagecmd.CreateSchemaCommand{Definitions: definitions})
}

// LoadFixtures inserts the rows of YAML fixture files.
func (m *Module) LoadFixtures(ctx context.Context, cmd LoadFixturesCommand) error {
	return m.container.LoadFixturesHandler().Execute(ctx, cmd)
}

// Close releases resources the module opened.
func (m *Module) Close() error {
	if m == nil {
		return nil
	}
	return m.container.Close()
}
