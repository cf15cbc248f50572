// Package sites maps request hosts onto the site records that root the page
// tree served to them.
package sites

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/goliatone/go-cms-api/internal/logging"
	"github.com/goliatone/go-cms-api/pkg/interfaces"
	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// DefaultPort is assumed when the request host carries no port.
const DefaultPort = 80

// Site binds a hostname and port to a root page.
type Site struct {
	bun.BaseModel `bun:"table:wagtailcore_site,alias:site"`

	ID            int64   `bun:"id,pk,autoincrement"`
	Hostname      string  `bun:"hostname,notnull"`
	Port          int     `bun:"port,notnull"`
	RootPageID    int64   `bun:"root_page_id,notnull"`
	IsDefaultSite bool    `bun:"is_default_site,notnull"`
	SiteName      *string `bun:"site_name"`
}

// NotFoundError is returned when no site serves a host.
type NotFoundError struct {
	Host string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("site for host %q not found", e.Host)
}

// NewSiteRepository creates a repository for sites keyed by hostname.
func NewSiteRepository(db *bun.DB) repository.Repository[*Site] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Site]{
		NewRecord: func() *Site { return &Site{} },
		GetID: func(*Site) uuid.UUID {
			return uuid.Nil
		},
		SetID: func(*Site, uuid.UUID) {},
		GetIdentifier: func() string {
			return "hostname"
		},
		GetIdentifierValue: func(s *Site) string {
			return s.Hostname
		},
	})
}

// Resolver finds the site serving a request host.
type Resolver struct {
	repo   repository.Repository[*Site]
	logger interfaces.Logger
}

// NewResolver creates a resolver without caching.
func NewResolver(db *bun.DB, logger interfaces.Logger) *Resolver {
	return NewResolverWithCache(db, nil, nil, logger)
}

// NewResolverWithCache creates a resolver whose site lookups go through the
// cache service.
func NewResolverWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer, logger interfaces.Logger) *Resolver {
	repo := NewSiteRepository(db)
	if cacheService != nil && keySerializer != nil {
		repo = repositorycache.New(repo, cacheService, keySerializer)
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Resolver{repo: repo, logger: logger}
}

// FindForHost returns the site matching hostname and port, else the only
// site with that hostname, else the default site.
func (r *Resolver) FindForHost(ctx context.Context, host string) (*Site, error) {
	hostname, port := SplitHost(host)

	sites, _, err := r.repo.List(ctx)
	if err != nil {
		if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return nil, &NotFoundError{Host: host}
		}
		return nil, fmt.Errorf("site repository error: %w", err)
	}

	var byHostname []*Site
	var fallback *Site
	for _, site := range sites {
		if strings.EqualFold(site.Hostname, hostname) {
			if site.Port == port {
				return site, nil
			}
			byHostname = append(byHostname, site)
		}
		if site.IsDefaultSite && fallback == nil {
			fallback = site
		}
	}
	if len(byHostname) == 1 {
		return byHostname[0], nil
	}
	if fallback != nil {
		r.logger.Debug("sites.default", "host", host, "site_id", fallback.ID)
		return fallback, nil
	}
	return nil, &NotFoundError{Host: host}
}

// SplitHost separates a Host header into hostname and port.
func SplitHost(host string) (string, int) {
	host = strings.TrimSpace(host)
	name, rawPort, err := net.SplitHostPort(host)
	if err != nil {
		return strings.Trim(host, "[]"), DefaultPort
	}
	port, err := strconv.Atoi(rawPort)
	if err != nil {
		return name, DefaultPort
	}
	return name, port
}
