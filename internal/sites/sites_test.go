package sites_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-cms-api/internal/sites"
	"github.com/goliatone/go-cms-api/pkg/testsupport"
	repocache "github.com/goliatone/go-repository-cache/cache"
)

func TestSplitHost(t *testing.T) {
	cases := []struct {
		host string
		name string
		port int
	}{
		{"localhost", "localhost", 80},
		{"localhost:8000", "localhost", 8000},
		{" Example.com:443 ", "Example.com", 443},
		{"[::1]:8080", "::1", 8080},
		{"[::1]", "::1", 80},
		{"example.com:http", "example.com", 80},
	}
	for _, tc := range cases {
		name, port := sites.SplitHost(tc.host)
		if name != tc.name || port != tc.port {
			t.Fatalf("%q: got %s:%d want %s:%d", tc.host, name, port, tc.name, tc.port)
		}
	}
}

func TestFindForHost(t *testing.T) {
	resolver := sites.NewResolver(testsupport.NewFixtureDB(t), nil)
	ctx := context.Background()

	cases := []struct {
		host string
		root int64
	}{
		{"localhost", 2},
		{"localhost:80", 2},
		{"other.example.com", 12},
		{"OTHER.example.com:8080", 12},
		{"unknown.example.org", 2},
	}
	for _, tc := range cases {
		site, err := resolver.FindForHost(ctx, tc.host)
		if err != nil {
			t.Fatalf("%s: %v", tc.host, err)
		}
		if site.RootPageID != tc.root {
			t.Fatalf("%s: expected root %d, got %d", tc.host, tc.root, site.RootPageID)
		}
	}
}

func TestFindForHostWithoutDefaultSite(t *testing.T) {
	db := testsupport.NewFixtureDB(t)
	ctx := context.Background()
	if _, err := db.NewUpdate().Model((*sites.Site)(nil)).Set("is_default_site = ?", false).Where("1 = 1").Exec(ctx); err != nil {
		t.Fatalf("clear default site: %v", err)
	}

	cfg := repocache.DefaultConfig()
	cfg.TTL = time.Minute
	cacheService, err := repocache.NewCacheService(cfg)
	if err != nil {
		t.Fatalf("new cache service: %v", err)
	}
	resolver := sites.NewResolverWithCache(db, cacheService, repocache.NewDefaultKeySerializer(), nil)

	if _, err := resolver.FindForHost(ctx, "localhost:8000"); err != nil {
		t.Fatalf("a single hostname match is used whatever the port: %v", err)
	}
	_, err = resolver.FindForHost(ctx, "unknown.example.org")
	var notFound *sites.NotFoundError
	if !errors.As(err, &notFound) || notFound.Host != "unknown.example.org" {
		t.Fatalf("expected not found, got %v", err)
	}
}
