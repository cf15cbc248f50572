package cmsapi

import "github.com/goliatone/go-cms-api/internal/runtimeconfig"

var (
	ErrLoggingProviderUnknown = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid    = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid   = runtimeconfig.ErrLoggingFormatInvalid
	ErrStorageDriverUnknown   = runtimeconfig.ErrStorageDriverUnknown
	ErrSearchBackendUnknown   = runtimeconfig.ErrSearchBackendUnknown
	ErrNoEndpointsEnabled     = runtimeconfig.ErrNoEndpointsEnabled
)

type (
	Config           = runtimeconfig.Config
	APIConfig        = runtimeconfig.APIConfig
	PaginationConfig = runtimeconfig.PaginationConfig
	EndpointConfig   = runtimeconfig.EndpointConfig
	ServerConfig     = runtimeconfig.ServerConfig
	StorageConfig    = runtimeconfig.StorageConfig
	CacheConfig      = runtimeconfig.CacheConfig
	LoggingConfig    = runtimeconfig.LoggingConfig
	ModelsConfig     = runtimeconfig.ModelsConfig
	SearchConfig     = runtimeconfig.SearchConfig
)

// DefaultConfig returns the default API configuration.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a TOML configuration file over the defaults. An empty path
// returns the defaults.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.LoadFile(path)
}
