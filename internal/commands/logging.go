package commands

import (
	"github.com/goliatone/go-cms-api/internal/logging"
	"github.com/goliatone/go-cms-api/pkg/interfaces"
)

// Logger returns the commands logger tagged with the command name.
func Logger(provider interfaces.LoggerProvider, name string) interfaces.Logger {
	return logging.WithFields(logging.CommandsLogger(provider), map[string]any{
		"component":    "command",
		"command_name": name,
	})
}
