// Package images serves the image library over the API.
package images

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/goliatone/go-cms-api/internal/query"
	"github.com/goliatone/go-cms-api/internal/search"
	"github.com/goliatone/go-cms-api/internal/serializer"
	"github.com/uptrace/bun"
)

const alias = "image"

// DefaultAPIFields are exposed for every image.
var DefaultAPIFields = []string{"title", "width", "height"}

// Service answers the images endpoint.
type Service interface {
	List(ctx context.Context, values url.Values) (*query.Listing, error)
	Get(ctx context.Context, id int64) (*serializer.Object, error)
}

// ServiceOption configures the bun backed service.
type ServiceOption func(*BunService)

// WithSearchBackend overrides the database search backend.
func WithSearchBackend(backend search.Backend) ServiceOption {
	return func(s *BunService) {
		if backend != nil {
			s.search = backend
		}
	}
}

// WithPagination sets the listing limits.
func WithPagination(opts query.Options) ServiceOption {
	return func(s *BunService) {
		s.pagination = opts
	}
}

// WithExtraFields exposes more image columns after the defaults.
func WithExtraFields(fields ...string) ServiceOption {
	return func(s *BunService) {
		s.apiFields = append(s.apiFields, fields...)
	}
}

// WithRepository overrides the repository used for detail lookups.
func WithRepository(repo *BunImageRepository) ServiceOption {
	return func(s *BunService) {
		if repo != nil {
			s.repo = repo
		}
	}
}

// BunService lists images with bun.
type BunService struct {
	db         *bun.DB
	repo       *BunImageRepository
	search     search.Backend
	pagination query.Options
	apiFields  []string
}

// NewService builds the images service. Extra fields must name image columns.
func NewService(db *bun.DB, opts ...ServiceOption) (*BunService, error) {
	if db == nil {
		return nil, errors.New("images: database is required")
	}
	s := &BunService{
		db:        db,
		search:    search.DatabaseBackend{},
		apiFields: append([]string(nil), DefaultAPIFields...),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.repo == nil {
		s.repo = NewBunImageRepository(db)
	}
	for _, name := range s.apiFields {
		if _, ok := Type.Field(name); !ok {
			return nil, fmt.Errorf("images: api field %q is not an image field", name)
		}
	}
	s.apiFields = query.UniqueFields(s.apiFields)
	return s, nil
}

// APIFields returns the exposed image fields.
func (s *BunService) APIFields() []string {
	return append([]string(nil), s.apiFields...)
}

func (s *BunService) List(ctx context.Context, values url.Values) (*query.Listing, error) {
	var rows []*Image
	q := s.db.NewSelect().Model(&rows)
	columns := Type.Columns(alias, alias)

	q = query.ApplyFilters(q, values, columns)

	order, err := query.ParseOrder(values, query.Orderable(alias+".id", s.apiFields, query.ColumnResolver(columns)))
	if err != nil {
		return nil, err
	}
	q = query.ApplyOrder(q, order, alias+".id", alias+".id")

	if values.Has(query.ParamSearch) {
		q = s.search.Apply(q, query.SearchColumns(Type, columns), query.Value(values, query.ParamSearch))
	}

	page, err := query.ParsePagination(values, s.pagination)
	if err != nil {
		return nil, err
	}
	total, err := query.Execute(ctx, q, page)
	if err != nil {
		return nil, fmt.Errorf("images: list: %w", err)
	}

	fields := query.SelectFields(query.ParseFields(values), s.apiFields)
	items := make([]*serializer.Object, 0, len(rows))
	for _, image := range rows {
		items = append(items, image.Record().Serialize(nil, fields))
	}
	return &query.Listing{Total: total, Items: items}, nil
}

func (s *BunService) Get(ctx context.Context, id int64) (*serializer.Object, error) {
	image, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return image.Record().Serialize(nil, s.apiFields), nil
}
