package runtimeconfig

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// LoadFile reads a TOML file over DefaultConfig. Keys absent from the file
// keep their default; unknown keys are rejected so typos surface early.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("load api config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return Config{}, fmt.Errorf("load api config: unknown keys %s", strings.Join(keys, ", "))
	}

	// The default DSN points at a sqlite file; a postgres driver must bring its own.
	if meta.IsDefined("storage", "driver") && !meta.IsDefined("storage", "dsn") && isPostgres(cfg.Storage.Driver) {
		cfg.Storage.DSN = ""
	}
	return cfg, nil
}

func isPostgres(driver string) bool {
	switch normalize(driver) {
	case "postgres", "postgresql", "pg":
		return true
	default:
		return false
	}
}
