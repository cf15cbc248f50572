package di

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	storagecmd "github.com/goliatone/go-cms-api/internal/commands/storage"
	"github.com/goliatone/go-cms-api/internal/documents"
	apihttp "github.com/goliatone/go-cms-api/internal/http"
	"github.com/goliatone/go-cms-api/internal/images"
	"github.com/goliatone/go-cms-api/internal/logging"
	"github.com/goliatone/go-cms-api/internal/logging/console"
	"github.com/goliatone/go-cms-api/internal/logging/gologger"
	"github.com/goliatone/go-cms-api/internal/logging/zerolog"
	"github.com/goliatone/go-cms-api/internal/models"
	"github.com/goliatone/go-cms-api/internal/pages"
	"github.com/goliatone/go-cms-api/internal/query"
	"github.com/goliatone/go-cms-api/internal/runtimeconfig"
	"github.com/goliatone/go-cms-api/internal/search"
	"github.com/goliatone/go-cms-api/internal/sites"
	"github.com/goliatone/go-cms-api/internal/storage"
	"github.com/goliatone/go-cms-api/pkg/interfaces"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

// Container wires the read API: database, page type registry, repositories,
// services, endpoints and the development commands.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider

	bunDB    *bun.DB
	ownsDB   bool
	models   []any
	registry *models.Registry
	fixtures fs.FS

	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer
	searchBackend search.Backend

	pageRepo     *pages.BunPageRepository
	imageRepo    *images.BunImageRepository
	documentRepo *documents.BunDocumentRepository

	pageSvc      *pages.BunService
	imageSvc     *images.BunService
	documentSvc  *documents.BunService
	siteResolver *sites.Resolver

	api *apihttp.API

	createSchema *storagecmd.CreateSchemaHandler
	loadFixtures *storagecmd.LoadFixturesHandler
}

// Option mutates the container before services are built.
type Option func(*Container)

// WithBunDB supplies an open database. The container does not close it.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithLoggerProvider overrides the provider selected by the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithCache supplies the cache used by keyed repository lookups. It takes
// effect whether or not the cache is enabled in config.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithRegistry supplies the page type registry instead of loading
// Models.DefinitionsPath.
func WithRegistry(registry *models.Registry) Option {
	return func(c *Container) {
		c.registry = registry
	}
}

// WithSearchBackend overrides the backend named by the search config.
func WithSearchBackend(backend search.Backend) Option {
	return func(c *Container) {
		c.searchBackend = backend
	}
}

// WithModels registers extra bun models, such as the host's specific page
// tables, so fixture files can insert into them.
func WithModels(models ...any) Option {
	return func(c *Container) {
		c.models = append(c.models, models...)
	}
}

// WithFixturesFS makes fixture loading read from fsys instead of the disk.
func WithFixturesFS(fsys fs.FS) Option {
	return func(c *Container) {
		c.fixtures = fsys
	}
}

// NewContainer validates cfg and builds every component it enables.
func NewContainer(ctx context.Context, cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureStorage(ctx); err != nil {
		return nil, err
	}
	if err := c.configureRegistry(); err != nil {
		_ = c.closeOwned()
		return nil, err
	}
	if err := c.configureCacheDefaults(); err != nil {
		_ = c.closeOwned()
		return nil, err
	}
	if err := c.configureServices(); err != nil {
		_ = c.closeOwned()
		return nil, err
	}
	c.configureAPI()
	c.configureCommands()

	logging.ModuleLogger(c.loggerProvider, "api.di").Info("container.configured",
		"driver", cfg.Storage.Driver,
		"cache", c.cacheService != nil,
		"endpoints", strings.Join(c.api.Endpoints(), ","),
		"page_types", len(c.registry.Types()),
	)
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}

	cfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "console":
		opts := console.Options{}
		if level, ok := console.ParseLevel(cfg.Level); ok {
			opts.MinLevel = &level
		}
		c.loggerProvider = console.NewProvider(opts)
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	case "zerolog":
		provider, err := zerolog.NewProvider(zerolog.Config{
			Level:  cfg.Level,
			Format: cfg.Format,
			App:    "cmsapi",
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		return fmt.Errorf("%w: %s", runtimeconfig.ErrLoggingProviderUnknown, cfg.Provider)
	}
	return nil
}

func (c *Container) configureStorage(ctx context.Context) error {
	if c.bunDB == nil {
		db, err := storage.Open(ctx, c.Config.Storage, logging.StorageLogger(c.loggerProvider))
		if err != nil {
			return err
		}
		c.bunDB = db
		c.ownsDB = true
	}
	storage.RegisterModels(c.bunDB, c.models...)
	return nil
}

func (c *Container) configureRegistry() error {
	if c.registry != nil {
		return nil
	}
	c.registry = models.NewRegistry()
	path := strings.TrimSpace(c.Config.Models.DefinitionsPath)
	if path == "" {
		return nil
	}
	if _, err := models.LoadDefinitionsFile(c.registry, path); err != nil {
		return err
	}
	return nil
}

func (c *Container) configureCacheDefaults() error {
	if c.cacheService != nil {
		if c.keySerializer == nil {
			c.keySerializer = repocache.NewDefaultKeySerializer()
		}
		return nil
	}
	if !c.Config.Cache.Enabled {
		return nil
	}

	cfg := repocache.DefaultConfig()
	if c.Config.Cache.TTL > 0 {
		cfg.TTL = c.Config.Cache.TTL
	}
	service, err := repocache.NewCacheService(cfg)
	if err != nil {
		return fmt.Errorf("di: cache service: %w", err)
	}
	c.cacheService = service
	if c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
	return nil
}

func (c *Container) configureServices() error {
	if c.searchBackend == nil {
		backend, err := search.New(c.Config.Search.Backend)
		if err != nil {
			return err
		}
		c.searchBackend = backend
	}

	pagination := query.Options{
		DefaultLimit: c.Config.API.Pagination.DefaultLimit,
		MaxLimit:     c.Config.API.Pagination.MaxLimit,
	}

	c.pageRepo = pages.NewBunPageRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.imageRepo = images.NewBunImageRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.documentRepo = documents.NewBunDocumentRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.siteResolver = sites.NewResolverWithCache(c.bunDB, c.cacheService, c.keySerializer, logging.ModuleLogger(c.loggerProvider, "api.sites"))

	var err error
	c.pageSvc, err = pages.NewService(c.bunDB, c.registry,
		pages.WithRepository(c.pageRepo),
		pages.WithSearchBackend(c.searchBackend),
		pages.WithPagination(pagination),
		pages.WithExtraFields(c.Config.API.Pages.ExtraFields...),
		pages.WithLogger(logging.PagesLogger(c.loggerProvider)),
	)
	if err != nil {
		return err
	}
	c.imageSvc, err = images.NewService(c.bunDB,
		images.WithRepository(c.imageRepo),
		images.WithSearchBackend(c.searchBackend),
		images.WithPagination(pagination),
		images.WithExtraFields(c.Config.API.Images.ExtraFields...),
	)
	if err != nil {
		return err
	}
	c.documentSvc, err = documents.NewService(c.bunDB,
		documents.WithRepository(c.documentRepo),
		documents.WithSearchBackend(c.searchBackend),
		documents.WithPagination(pagination),
		documents.WithExtraFields(c.Config.API.Documents.ExtraFields...),
	)
	return err
}

func (c *Container) configureAPI() {
	cfg := c.Config.API
	opts := []apihttp.Option{
		apihttp.WithBasePath(cfg.BasePath),
		apihttp.WithIndent(cfg.JSONIndent),
		apihttp.WithETags(cfg.ETags),
		apihttp.WithLogger(logging.HTTPLogger(c.loggerProvider)),
	}
	if cfg.Pages.Enabled {
		opts = append(opts, apihttp.WithEndpoint(apihttp.NewPagesEndpoint(c.pageSvc, c.siteResolver)))
	}
	if cfg.Images.Enabled {
		opts = append(opts, apihttp.WithEndpoint(apihttp.NewImagesEndpoint(c.imageSvc)))
	}
	if cfg.Documents.Enabled {
		opts = append(opts, apihttp.WithEndpoint(apihttp.NewDocumentsEndpoint(c.documentSvc)))
	}
	c.api = apihttp.NewAPI(opts...)
}

func (c *Container) configureCommands() {
	logger := logging.CommandsLogger(c.loggerProvider)
	c.createSchema = storagecmd.NewCreateSchemaHandler(c.bunDB, c.registry, logger)
	c.loadFixtures = storagecmd.NewLoadFixturesHandler(c.bunDB, c.fixtures, logger)
}

// API returns the HTTP API holding the enabled endpoints.
func (c *Container) API() *apihttp.API {
	return c.api
}

// DB returns the database the services read from.
func (c *Container) DB() *bun.DB {
	return c.bunDB
}

// Registry returns the page type registry.
func (c *Container) Registry() *models.Registry {
	return c.registry
}

// LoggerProvider returns the configured logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

func (c *Container) PageService() pages.Service {
	return c.pageSvc
}

func (c *Container) ImageService() images.Service {
	return c.imageSvc
}

func (c *Container) DocumentService() documents.Service {
	return c.documentSvc
}

func (c *Container) SiteResolver() *sites.Resolver {
	return c.siteResolver
}

// CreateSchemaHandler returns the schema command handler.
func (c *Container) CreateSchemaHandler() *storagecmd.CreateSchemaHandler {
	return c.createSchema
}

// LoadFixturesHandler returns the fixture command handler.
func (c *Container) LoadFixturesHandler() *storagecmd.LoadFixturesHandler {
	return c.loadFixtures
}

// Close releases the database when the container opened it.
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	return c.closeOwned()
}

func (c *Container) closeOwned() error {
	if !c.ownsDB || c.bunDB == nil {
		return nil
	}
	c.ownsDB = false
	return c.bunDB.Close()
}
