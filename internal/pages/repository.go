package pages

import (
	"context"
	"fmt"
	"strconv"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewPageRepository creates a repository for pages keyed by tree path. Pages
// use integer keys, so the uuid handlers are inert.
func NewPageRepository(db *bun.DB) repository.Repository[*Page] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Page]{
		NewRecord: func() *Page { return &Page{} },
		GetID: func(*Page) uuid.UUID {
			return uuid.Nil
		},
		SetID: func(*Page, uuid.UUID) {},
		GetIdentifier: func() string {
			return "path"
		},
		GetIdentifierValue: func(p *Page) string {
			return p.Path
		},
	})
}

// Repository loads single pages regardless of their publication state. It
// serves tree lookups (parents, site roots), never the public listing.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Page, error)
	GetByPath(ctx context.Context, path string) (*Page, error)
}

// BunPageRepository implements Repository with optional caching.
type BunPageRepository struct {
	repo repository.Repository[*Page]
}

// NewBunPageRepository creates a page repository without caching.
func NewBunPageRepository(db *bun.DB) *BunPageRepository {
	return NewBunPageRepositoryWithCache(db, nil, nil)
}

// NewBunPageRepositoryWithCache creates a page repository with caching services.
func NewBunPageRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunPageRepository {
	return &BunPageRepository{
		repo: wrapWithCache(NewPageRepository(db), cacheService, keySerializer),
	}
}

func (r *BunPageRepository) GetByID(ctx context.Context, id int64) (*Page, error) {
	key := strconv.FormatInt(id, 10)
	record, err := r.repo.GetByID(ctx, key)
	if err != nil {
		return nil, mapRepositoryError(err, "page", key)
	}
	return record, nil
}

func (r *BunPageRepository) GetByPath(ctx context.Context, path string) (*Page, error) {
	record, err := r.repo.GetByIdentifier(ctx, path)
	if err != nil {
		return nil, mapRepositoryError(err, "page", path)
	}
	return record, nil
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}
