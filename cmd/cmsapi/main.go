// Command cmsapi serves the read-only content API and carries the
// development tooling for its database.
//
//	cmsapi [flags] serve [flags]
//	cmsapi [flags] schema [flags]
//	cmsapi [flags] fixtures [flags] FILE...
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	cmsapi "github.com/goliatone/go-cms-api"
)

var moduleBuilder = cmsapi.NewWithContext

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("cmsapi: %v", err)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("cmsapi", flag.ContinueOnError)
	fs.SetOutput(out)
	configPath := fs.String("config", "", "Path to a TOML configuration file")
	addr := fs.String("addr", "", "Listen address, overrides server.address")
	definitions := fs.Bool("definitions", true, "schema: also create the tables of the configured page types")
	dir := fs.String("dir", ".", "fixtures: directory the fixture files are relative to")
	recreate := fs.Bool("recreate", false, "fixtures: drop and recreate the tables named by the files")
	truncate := fs.Bool("truncate", false, "fixtures: empty the tables named by the files first")

	if err := fs.Parse(args); err != nil {
		return err
	}

	command := "serve"
	rest := fs.Args()
	if len(rest) > 0 {
		command = rest[0]
		// flags may also follow the command name
		if err := fs.Parse(rest[1:]); err != nil {
			return err
		}
		rest = fs.Args()
	}
	switch command {
	case "serve", "schema", "fixtures":
	default:
		return fmt.Errorf("unknown command %q", command)
	}

	cfg, err := cmsapi.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if trimmed := strings.TrimSpace(*addr); trimmed != "" {
		cfg.Server.Address = trimmed
	}

	module, err := moduleBuilder(ctx, cfg)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	switch command {
	case "schema":
		if err := module.CreateSchema(ctx, *definitions); err != nil {
			return fmt.Errorf("execute schema command: %w", err)
		}
		fmt.Fprintln(out, "schema created")
		return nil
	case "fixtures":
		err := module.LoadFixtures(ctx, cmsapi.LoadFixturesCommand{
			Dir:      *dir,
			Files:    rest,
			Recreate: *recreate,
			Truncate: *truncate,
		})
		if err != nil {
			return fmt.Errorf("execute fixtures command: %w", err)
		}
		fmt.Fprintf(out, "loaded %d fixture file(s)\n", len(rest))
		return nil
	default:
		return serve(ctx, cfg.Server, module.Handler(), out)
	}
}

func serve(ctx context.Context, cfg cmsapi.ServerConfig, handler http.Handler, out io.Writer) error {
	server := &http.Server{
		Addr:         cfg.Address,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	fmt.Fprintf(out, "listening on %s\n", cfg.Address)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
