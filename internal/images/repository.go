package images

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

// NotFoundError is returned when no image has the requested id.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// NewImageRepository creates a repository for images keyed by file name.
func NewImageRepository(db *bun.DB) repository.Repository[*Image] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Image]{
		NewRecord: func() *Image { return &Image{} },
		GetID: func(*Image) uuid.UUID {
			return uuid.Nil
		},
		SetID: func(*Image, uuid.UUID) {},
		GetIdentifier: func() string {
			return "file"
		},
		GetIdentifierValue: func(i *Image) string {
			return i.File
		},
	})
}

// BunImageRepository loads single images, optionally through a cache.
type BunImageRepository struct {
	repo repository.Repository[*Image]
}

// NewBunImageRepository creates an image repository without caching.
func NewBunImageRepository(db *bun.DB) *BunImageRepository {
	return NewBunImageRepositoryWithCache(db, nil, nil)
}

// NewBunImageRepositoryWithCache creates an image repository with caching services.
func NewBunImageRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunImageRepository {
	base := NewImageRepository(db)
	if cacheService != nil && keySerializer != nil {
		base = repositorycache.New(base, cacheService, keySerializer)
	}
	return &BunImageRepository{repo: base}
}

func (r *BunImageRepository) GetByID(ctx context.Context, id int64) (*Image, error) {
	key := strconv.FormatInt(id, 10)
	record, err := r.repo.GetByID(ctx, key)
	if err != nil {
		if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return nil, &NotFoundError{Resource: "Image", Key: key}
		}
		return nil, fmt.Errorf("image repository error: %w", err)
	}
	return record, nil
}
