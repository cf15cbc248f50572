package documents

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

// NotFoundError is returned when no document has the requested id.
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

// NewDocumentRepository creates a repository for documents keyed by file name.
func NewDocumentRepository(db *bun.DB) repository.Repository[*Document] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Document]{
		NewRecord: func() *Document { return &Document{} },
		GetID: func(*Document) uuid.UUID {
			return uuid.Nil
		},
		SetID: func(*Document, uuid.UUID) {},
		GetIdentifier: func() string {
			return "file"
		},
		GetIdentifierValue: func(d *Document) string {
			return d.File
		},
	})
}

// BunDocumentRepository loads single documents, optionally through a cache.
type BunDocumentRepository struct {
	repo repository.Repository[*Document]
}

// NewBunDocumentRepository creates a document repository without caching.
func NewBunDocumentRepository(db *bun.DB) *BunDocumentRepository {
	return NewBunDocumentRepositoryWithCache(db, nil, nil)
}

// NewBunDocumentRepositoryWithCache creates a document repository with caching services.
func NewBunDocumentRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunDocumentRepository {
	base := NewDocumentRepository(db)
	if cacheService != nil && keySerializer != nil {
		base = repositorycache.New(base, cacheService, keySerializer)
	}
	return &BunDocumentRepository{repo: base}
}

func (r *BunDocumentRepository) GetByID(ctx context.Context, id int64) (*Document, error) {
	key := strconv.FormatInt(id, 10)
	record, err := r.repo.GetByID(ctx, key)
	if err != nil {
		if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return nil, &NotFoundError{Resource: "Document", Key: key}
		}
		return nil, fmt.Errorf("document repository error: %w", err)
	}
	return record, nil
}
