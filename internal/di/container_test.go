package di_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"testing"

	storagecmd "github.com/goliatone/go-cms-api/internal/commands/storage"
	"github.com/goliatone/go-cms-api/internal/di"
	"github.com/goliatone/go-cms-api/internal/logging/gologger"
	"github.com/goliatone/go-cms-api/internal/runtimeconfig"
	"github.com/goliatone/go-cms-api/pkg/testsupport"
	repocache "github.com/goliatone/go-repository-cache/cache"
)

func newContainer(t *testing.T, cfg runtimeconfig.Config, opts ...di.Option) *di.Container {
	t.Helper()
	base := []di.Option{
		di.WithBunDB(testsupport.NewFixtureDB(t)),
		di.WithRegistry(testsupport.NewRegistry(t)),
		di.WithLoggerProvider(newRecordingProvider()),
	}
	container, err := di.NewContainer(context.Background(), cfg, append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })
	return container
}

func totalCount(t *testing.T, handler http.Handler, target string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Host = "localhost"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET %s: expected 200, got %d: %s", target, rec.Code, rec.Body.String())
	}
	var payload struct {
		Meta struct {
			TotalCount int `json:"total_count"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode %s: %v", target, err)
	}
	return payload.Meta.TotalCount
}

func TestContainerServesEveryEndpoint(t *testing.T) {
	container := newContainer(t, runtimeconfig.DefaultConfig())
	handler := container.API().Handler()

	cases := map[string]int{
		"/api/v1/pages/":     6,
		"/api/v1/images/":    3,
		"/api/v1/documents/": 12,
	}
	for target, want := range cases {
		if got := totalCount(t, handler, target); got != want {
			t.Fatalf("GET %s: expected total_count %d, got %d", target, want, got)
		}
	}
}

func TestContainerSkipsDisabledEndpoints(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.API.Images.Enabled = false
	cfg.API.BasePath = "/content/api"

	container := newContainer(t, cfg)
	if got, want := container.API().Endpoints(), []string{"pages", "documents"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected endpoints %v, got %v", want, got)
	}

	req := httptest.NewRequest(http.MethodGet, "/content/api/images/", nil)
	rec := httptest.NewRecorder()
	container.API().Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for disabled images endpoint, got %d", rec.Code)
	}
}

func TestContainerAppliesPaginationAndExtraFields(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.API.Pagination.DefaultLimit = 2
	cfg.API.Pagination.MaxLimit = 5
	cfg.API.Documents.ExtraFields = []string{"created_at"}

	container := newContainer(t, cfg)
	listing, err := container.DocumentService().List(context.Background(), url.Values{"fields": {"created_at"}})
	if err != nil {
		t.Fatalf("list documents: %v", err)
	}
	if len(listing.Items) != 2 {
		t.Fatalf("expected default limit of 2 items, got %d", len(listing.Items))
	}
	if _, ok := listing.Items[0].Get("created_at"); !ok {
		t.Fatalf("expected created_at extra field on listing item")
	}
}

func TestContainerRejectsUnknownExtraField(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.API.Pages.ExtraFields = []string{"body"}

	_, err := di.NewContainer(context.Background(), cfg,
		di.WithBunDB(testsupport.NewFixtureDB(t)),
		di.WithLoggerProvider(newRecordingProvider()),
	)
	if err == nil {
		t.Fatalf("expected error for non page extra field")
	}
}

func TestContainerRejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Driver = "mysql"

	_, err := di.NewContainer(context.Background(), cfg)
	if !errors.Is(err, runtimeconfig.ErrStorageDriverUnknown) {
		t.Fatalf("expected ErrStorageDriverUnknown, got %v", err)
	}
}

func TestContainerLogsConfiguration(t *testing.T) {
	rec := newRecordingProvider()
	newContainer(t, runtimeconfig.DefaultConfig(), di.WithLoggerProvider(rec))

	entry := rec.find("container.configured")
	if entry == nil {
		t.Fatalf("expected container.configured log entry, got %#v", rec.entries)
	}
	if got := entry.fields["endpoints"]; got != "pages,images,documents" {
		t.Fatalf("expected endpoints field, got %v", got)
	}
	if got := entry.fields["module"]; got != "api.di" {
		t.Fatalf("expected module api.di, got %v", got)
	}
	if got := entry.fields["cache"]; got != false {
		t.Fatalf("expected cache disabled, got %v", got)
	}
}

func TestContainerUsesConfiguredCache(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Cache.Enabled = true

	rec := newRecordingProvider()
	container := newContainer(t, cfg, di.WithLoggerProvider(rec))
	if entry := rec.find("container.configured"); entry == nil || entry.fields["cache"] != true {
		t.Fatalf("expected cache enabled in container.configured entry")
	}

	handler := container.API().Handler()
	for i := 0; i < 2; i++ {
		if got := totalCount(t, handler, "/api/v1/pages/"); got != 6 {
			t.Fatalf("pass %d: expected 6 pages, got %d", i, got)
		}
	}
}

func TestContainerAcceptsInjectedCache(t *testing.T) {
	cacheCfg := repocache.DefaultConfig()
	service, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		t.Fatalf("cache service: %v", err)
	}

	container := newContainer(t, runtimeconfig.DefaultConfig(), di.WithCache(service, nil))
	if _, err := container.ImageService().Get(context.Background(), 1); err != nil {
		t.Fatalf("get image through cache: %v", err)
	}
}

func TestContainerUsesGoLoggerProvider(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Level = "error"
	cfg.Logging.Format = "json"

	container, err := di.NewContainer(context.Background(), cfg,
		di.WithBunDB(testsupport.NewFixtureDB(t)),
	)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if _, ok := container.LoggerProvider().(*gologger.Provider); !ok {
		t.Fatalf("expected go-logger provider, got %T", container.LoggerProvider())
	}
}

func TestContainerOpensStorageAndRunsCommands(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.DSN = "file:di_container_commands?mode=memory&cache=shared"

	container, err := di.NewContainer(context.Background(), cfg,
		di.WithRegistry(testsupport.NewRegistry(t)),
		di.WithModels(testsupport.DemoModels()...),
		di.WithFixturesFS(testsupport.Testdata()),
		di.WithLoggerProvider(newRecordingProvider()),
	)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	defer container.Close()

	ctx := context.Background()
	if err := container.CreateSchemaHandler().Execute(ctx, storagecmd.CreateSchemaCommand{Definitions: true}); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	if err := container.LoadFixturesHandler().Execute(ctx, storagecmd.LoadFixturesCommand{
		Files:    []string{testsupport.FixturesFile},
		Recreate: true,
	}); err != nil {
		t.Fatalf("load fixtures: %v", err)
	}

	if got := totalCount(t, container.API().Handler(), "/api/v1/pages/?type=demosite.BlogEntryPage"); got != 2 {
		t.Fatalf("expected 2 blog entries, got %d", got)
	}
}
