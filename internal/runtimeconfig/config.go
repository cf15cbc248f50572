package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
)

var ErrLoggingProviderUnknown = errors.New("api config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("api config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("api config: logging format is invalid")
var ErrStorageDriverUnknown = errors.New("api config: storage driver is invalid")
var ErrSearchBackendUnknown = errors.New("api config: search backend is invalid")

// ErrNoEndpointsEnabled is returned when every endpoint family is switched off.
var ErrNoEndpointsEnabled = errors.New("api config: at least one endpoint must be enabled")

// Config aggregates the settings for the read API, its HTTP server and the
// database it reads from.
type Config struct {
	API     APIConfig     `toml:"api"`
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
	Cache   CacheConfig   `toml:"cache"`
	Logging LoggingConfig `toml:"logging"`
	Models  ModelsConfig  `toml:"models"`
	Search  SearchConfig  `toml:"search"`
}

// APIConfig controls the endpoints and their JSON output.
type APIConfig struct {
	BasePath   string           `toml:"base_path"`
	JSONIndent int              `toml:"json_indent"`
	ETags      bool             `toml:"etags"`
	Pagination PaginationConfig `toml:"pagination"`
	Pages      EndpointConfig   `toml:"pages"`
	Images     EndpointConfig   `toml:"images"`
	Documents  EndpointConfig   `toml:"documents"`
}

// PaginationConfig sets the listing defaults. A MaxLimit of zero disables the
// upper bound.
type PaginationConfig struct {
	DefaultLimit int `toml:"default_limit"`
	MaxLimit     int `toml:"max_limit"`
}

// EndpointConfig toggles one endpoint family. ExtraFields are appended to the
// endpoint's base API fields; for pages they name page columns shown on every
// page type.
type EndpointConfig struct {
	Enabled     bool     `toml:"enabled"`
	ExtraFields []string `toml:"extra_fields"`
}

// ServerConfig captures the HTTP listener settings used by cmd/cmsapi.
type ServerConfig struct {
	Address         string        `toml:"address"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

// StorageConfig describes the database holding the CMS tables.
type StorageConfig struct {
	Driver       string `toml:"driver"`
	DSN          string `toml:"dsn"`
	MaxOpenConns int    `toml:"max_open_conns"`
	Debug        bool   `toml:"debug"`
	Tracing      bool   `toml:"tracing"`
}

// CacheConfig captures cache behaviour toggles for keyed lookups.
type CacheConfig struct {
	Enabled bool          `toml:"enabled"`
	TTL     time.Duration `toml:"ttl"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `toml:"provider"`
	Level     string   `toml:"level"`
	Format    string   `toml:"format"`
	AddSource bool     `toml:"add_source"`
	Focus     []string `toml:"focus"`
}

// ModelsConfig points at the JSON file declaring the host's page types.
type ModelsConfig struct {
	DefinitionsPath string `toml:"definitions_path"`
}

// SearchConfig selects the search backend.
type SearchConfig struct {
	Backend string `toml:"backend"`
}

// DefaultConfig returns the settings used when no file overrides them.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BasePath:   "/api/v1",
			JSONIndent: 4,
			ETags:      true,
			Pagination: PaginationConfig{
				DefaultLimit: 20,
			},
			Pages:     EndpointConfig{Enabled: true},
			Images:    EndpointConfig{Enabled: true},
			Documents: EndpointConfig{Enabled: true},
		},
		Server: ServerConfig{
			Address:         ":8000",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Storage: StorageConfig{
			Driver: "sqlite",
			DSN:    "file:wagtail.db?cache=shared",
		},
		Cache: CacheConfig{
			Enabled: false,
			TTL:     time.Minute,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
		Search: SearchConfig{
			Backend: "database",
		},
	}
}

// Validate performs field checks with ozzo-validation and then the
// cross-field consistency checks. Field failures come back as go-errors
// validation errors.
func (cfg Config) Validate() error {
	err := validation.Errors{
		"api": validation.ValidateStruct(&cfg.API,
			validation.Field(&cfg.API.BasePath, validation.Required),
			validation.Field(&cfg.API.JSONIndent, validation.Min(0), validation.Max(16)),
		),
		"api.pagination": validation.ValidateStruct(&cfg.API.Pagination,
			validation.Field(&cfg.API.Pagination.DefaultLimit, validation.Min(1)),
			validation.Field(&cfg.API.Pagination.MaxLimit, validation.Min(0)),
		),
		"storage": validation.ValidateStruct(&cfg.Storage,
			validation.Field(&cfg.Storage.Driver, validation.Required),
			validation.Field(&cfg.Storage.DSN, validation.Required),
			validation.Field(&cfg.Storage.MaxOpenConns, validation.Min(0)),
		),
		"cache": validation.ValidateStruct(&cfg.Cache,
			validation.Field(&cfg.Cache.TTL, validation.When(cfg.Cache.Enabled, validation.Required)),
		),
	}.Filter()
	if err != nil {
		return goerrors.FromOzzoValidation(err, "invalid api configuration")
	}

	if cfg.API.Pagination.MaxLimit > 0 && cfg.API.Pagination.DefaultLimit > cfg.API.Pagination.MaxLimit {
		return goerrors.New(
			fmt.Sprintf("api config: default limit %d exceeds max limit %d", cfg.API.Pagination.DefaultLimit, cfg.API.Pagination.MaxLimit),
			goerrors.CategoryValidation,
		)
	}
	if !cfg.API.Pages.Enabled && !cfg.API.Images.Enabled && !cfg.API.Documents.Enabled {
		return ErrNoEndpointsEnabled
	}
	if !IsSupportedDriver(cfg.Storage.Driver) {
		return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, cfg.Storage.Driver)
	}
	if backend := normalize(cfg.Search.Backend); backend != "" && backend != "database" {
		return fmt.Errorf("%w: %s", ErrSearchBackendUnknown, cfg.Search.Backend)
	}

	provider := normalize(cfg.Logging.Provider)
	if provider == "" {
		return nil
	}
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if format := strings.TrimSpace(cfg.Logging.Format); format != "" && provider != "console" && !isSupportedFormat(provider, format) {
		return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
	}
	return nil
}

// IsSupportedDriver reports whether storage can open the named driver.
func IsSupportedDriver(driver string) bool {
	switch normalize(driver) {
	case "sqlite", "sqlite3", "postgres", "postgresql", "pg":
		return true
	default:
		return false
	}
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger", "zerolog":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(provider, format string) bool {
	switch provider {
	case "gologger":
		switch normalize(format) {
		case "json", "console", "pretty":
			return true
		}
	case "zerolog":
		switch normalize(format) {
		case "json", "console":
			return true
		}
	}
	return false
}
