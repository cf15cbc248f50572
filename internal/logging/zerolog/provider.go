// Package zerolog adapts github.com/rs/zerolog to the API logging contract.
package zerolog

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-cms-api/internal/logging"
	"github.com/goliatone/go-cms-api/pkg/interfaces"
)

// Config captures the options exposed by the zerolog adapter.
type Config struct {
	Level  string
	Format string
	App    string
	Writer io.Writer
}

// Provider hands out zerolog children tagged with the requested logger name.
type Provider struct {
	root zerolog.Logger
}

// NewProvider builds the root zerolog logger. The console format renders
// through zerolog.ConsoleWriter, json writes raw events.
func NewProvider(cfg Config) (*Provider, error) {
	out := cfg.Writer
	if out == nil {
		out = os.Stdout
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "json":
	case "console", "pretty":
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	default:
		return nil, fmt.Errorf("logging: unsupported zerolog format %q", cfg.Format)
	}

	level := zerolog.InfoLevel
	if name := strings.ToLower(strings.TrimSpace(cfg.Level)); name != "" {
		if name == "warning" {
			name = "warn"
		}
		parsed, err := zerolog.ParseLevel(name)
		if err != nil {
			return nil, fmt.Errorf("logging: unsupported zerolog level %q: %w", cfg.Level, err)
		}
		level = parsed
	}

	ctx := zerolog.New(out).Level(level).With().Timestamp()
	if app := strings.TrimSpace(cfg.App); app != "" {
		ctx = ctx.Str("app", app)
	}
	return &Provider{root: ctx.Logger()}, nil
}

// GetLogger returns a child logger carrying a logger=name field.
func (p *Provider) GetLogger(name string) interfaces.Logger {
	if p == nil {
		return logging.NoOp()
	}
	inner := p.root
	if name = strings.TrimSpace(name); name != "" {
		inner = inner.With().Str("logger", name).Logger()
	}
	return &adapter{inner: inner}
}

type adapter struct {
	inner zerolog.Logger
	ctx   context.Context
}

var (
	_ interfaces.Logger       = (*adapter)(nil)
	_ interfaces.FieldsLogger = (*adapter)(nil)
)

func (l *adapter) Trace(msg string, args ...any) { l.emit(zerolog.TraceLevel, msg, args) }
func (l *adapter) Debug(msg string, args ...any) { l.emit(zerolog.DebugLevel, msg, args) }
func (l *adapter) Info(msg string, args ...any)  { l.emit(zerolog.InfoLevel, msg, args) }
func (l *adapter) Warn(msg string, args ...any)  { l.emit(zerolog.WarnLevel, msg, args) }
func (l *adapter) Error(msg string, args ...any) { l.emit(zerolog.ErrorLevel, msg, args) }

// Fatal logs at fatal level without terminating the process.
func (l *adapter) Fatal(msg string, args ...any) { l.emit(zerolog.FatalLevel, msg, args) }

func (l *adapter) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	return &adapter{inner: l.inner.With().Fields(maps.Clone(fields)).Logger(), ctx: l.ctx}
}

func (l *adapter) WithContext(ctx context.Context) interfaces.Logger {
	return &adapter{inner: l.inner, ctx: ctx}
}

func (l *adapter) emit(level zerolog.Level, msg string, args []any) {
	event := l.inner.WithLevel(level)
	if event == nil {
		return
	}
	if fields := logging.ContextFields(l.ctx); len(fields) > 0 {
		event = event.Fields(fields)
	}
	if len(args) > 0 {
		event = event.Fields(pairs(args))
	}
	event.Msg(msg)
}

// pairs turns key/value args into a field map, keeping a dangling value under
// a positional name.
func pairs(args []any) map[string]any {
	fields := make(map[string]any, len(args)/2+1)
	for i := 0; i < len(args); i += 2 {
		if i == len(args)-1 {
			fields[fmt.Sprintf("field_%d", i/2)] = args[i]
			break
		}
		key, ok := args[i].(string)
		if !ok || key == "" {
			key = fmt.Sprintf("field_%d", i/2)
		}
		fields[key] = args[i+1]
	}
	return fields
}
