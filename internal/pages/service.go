package pages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/goliatone/go-cms-api/internal/logging"
	"github.com/goliatone/go-cms-api/internal/models"
	"github.com/goliatone/go-cms-api/internal/query"
	"github.com/goliatone/go-cms-api/internal/search"
	"github.com/goliatone/go-cms-api/internal/serializer"
	"github.com/goliatone/go-cms-api/pkg/interfaces"
	"github.com/uptrace/bun"
)

const (
	pageAlias     = "page"
	specificAlias = "specific"
)

// Scope restricts the pages visible to a request to the tree under the
// site's root page.
type Scope struct {
	RootPageID int64
}

// Service answers the pages endpoint.
type Service interface {
	List(ctx context.Context, scope Scope, values url.Values) (*query.Listing, error)
	Get(ctx context.Context, scope Scope, id int64) (*serializer.Object, error)
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

// WithExtraFields exposes additional page columns on every page type.
func WithExtraFields(fields ...string) ServiceOption {
	return func(s *BunService) {
		s.extraFields = append(s.extraFields, fields...)
	}
}

// WithRepository overrides the repository used for tree lookups.
func WithRepository(repo Repository) ServiceOption {
	return func(s *BunService) {
		if repo != nil {
			s.repo = repo
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *BunService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// BunService lists live, public pages under a site root.
type BunService struct {
	db          *bun.DB
	registry    *models.Registry
	repo        Repository
	search      search.Backend
	pagination  query.Options
	extraFields []string
	logger      interfaces.Logger
}

// NewService builds the pages service. Extra fields must name page columns.
func NewService(db *bun.DB, registry *models.Registry, opts ...ServiceOption) (*BunService, error) {
	if db == nil {
		return nil, errors.New("pages: database is required")
	}
	if registry == nil {
		registry = models.NewRegistry()
	}
	s := &BunService{
		db:       db,
		registry: registry,
		search:   search.DatabaseBackend{},
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.repo == nil {
		s.repo = NewBunPageRepository(db)
	}
	for _, name := range s.extraFields {
		if _, ok := registry.Base().Field(name); !ok {
			return nil, fmt.Errorf("pages: extra field %q is not a page field", name)
		}
	}
	s.extraFields = query.UniqueFields(s.extraFields)
	return s, nil
}

// APIFields returns the fields the API exposes for pages of type mt.
func (s *BunService) APIFields(mt *models.ModelType) []string {
	fields := append([]string{"title"}, s.extraFields...)
	return query.UniqueFields(append(fields, mt.AllAPIFields()...))
}

func (s *BunService) List(ctx context.Context, scope Scope, values url.Values) (*query.Listing, error) {
	mt := s.registry.Base()
	if values.Has(query.ParamType) {
		resolved, err := s.registry.Resolve(query.Value(values, query.ParamType))
		if err != nil {
			return nil, ErrTypeNotFound
		}
		mt = resolved
	}

	root, err := s.rootPage(ctx, scope)
	if err != nil {
		return nil, err
	}

	var rows []*Page
	q := s.publicPages(s.db.NewSelect().Model(&rows).Relation("ContentType"), root)
	columns := mt.Columns(pageAlias, pageAlias)
	if mt.Table != "" {
		q = q.Join("JOIN ? AS ? ON ?.page_ptr_id = page.id", bun.Ident(mt.Table), bun.Ident(specificAlias), bun.Ident(specificAlias))
		columns = mt.Columns(specificAlias, pageAlias)
	}

	q = query.ApplyFilters(q, values, columns)

	if values.Has(query.ParamChildOf) {
		q, err = s.childOf(ctx, q, query.Value(values, query.ParamChildOf))
		if err != nil {
			return nil, err
		}
	}

	apiFields := s.APIFields(mt)
	order, err := query.ParseOrder(values, query.Orderable(pageAlias+".id", apiFields, query.ColumnResolver(columns)))
	if err != nil {
		return nil, err
	}
	q = query.ApplyOrder(q, order, pageAlias+".path", pageAlias+".id")

	if values.Has(query.ParamSearch) {
		q = s.search.Apply(q, query.SearchColumns(mt, columns), query.Value(values, query.ParamSearch))
	}

	page, err := query.ParsePagination(values, s.pagination)
	if err != nil {
		return nil, err
	}
	total, err := query.Execute(ctx, q, page)
	if err != nil {
		return nil, fmt.Errorf("pages: list: %w", err)
	}

	fields := query.SelectFields(query.ParseFields(values), apiFields)
	records, err := s.records(ctx, mt, rows, fields)
	if err != nil {
		return nil, err
	}
	items := make([]*serializer.Object, 0, len(records))
	for i, record := range records {
		items = append(items, record.Serialize(s.meta(rows[i], false, nil), fields))
	}
	return &query.Listing{Total: total, Items: items}, nil
}

func (s *BunService) Get(ctx context.Context, scope Scope, id int64) (*serializer.Object, error) {
	root, err := s.rootPage(ctx, scope)
	if err != nil {
		return nil, err
	}

	page := new(Page)
	err = s.publicPages(s.db.NewSelect().Model(page).Relation("ContentType"), root).
		Where("page.id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Resource: "Page", Key: strconv.FormatInt(id, 10)}
	}
	if err != nil {
		return nil, fmt.Errorf("pages: get %d: %w", id, err)
	}

	mt := s.specificType(page)
	fields := s.APIFields(mt)
	records, err := s.records(ctx, mt, []*Page{page}, fields)
	if err != nil {
		return nil, err
	}

	var parentID any
	if parentPath := page.ParentPath(); parentPath != "" {
		parent, err := s.repo.GetByPath(ctx, parentPath)
		if err != nil {
			var notFound *NotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
			s.logger.Warn("pages.parent.missing", "page_id", page.ID, "path", page.Path)
		} else {
			parentID = parent.ID
		}
	}
	return records[0].Serialize(s.meta(page, true, parentID), fields), nil
}

func (s *BunService) rootPage(ctx context.Context, scope Scope) (*Page, error) {
	root, err := s.repo.GetByID(ctx, scope.RootPageID)
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: %d", ErrRootPageMissing, scope.RootPageID)
		}
		return nil, err
	}
	return root, nil
}

// publicPages keeps live pages under root (inclusive) that neither carry a
// view restriction nor sit below a restricted page.
func (s *BunService) publicPages(q *bun.SelectQuery, root *Page) *bun.SelectQuery {
	restricted := s.db.NewSelect().
		Model((*ViewRestriction)(nil)).
		ColumnExpr("1").
		Join("JOIN wagtailcore_page AS restricted ON restricted.id = restriction.page_id").
		Where("page.path LIKE restricted.path || '%'")

	return q.
		Where("page.live = ?", true).
		Where("page.path LIKE ?", root.Path+"%").
		Where("NOT EXISTS (?)", restricted)
}

func (s *BunService) childOf(ctx context.Context, q *bun.SelectQuery, raw string) (*bun.SelectQuery, error) {
	parentID, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return nil, query.BadRequest("child_of must be a positive integer")
	}
	if parentID < 0 {
		return nil, ErrParentNotFound
	}
	parent, err := s.repo.GetByID(ctx, parentID)
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			return nil, ErrParentNotFound
		}
		return nil, err
	}
	return q.
		Where("page.path LIKE ?", parent.Path+"%").
		Where("page.depth = ?", parent.Depth+1), nil
}

func (s *BunService) specificType(page *Page) *models.ModelType {
	if page.ContentType != nil {
		if mt := s.registry.ForContentType(page.ContentType.AppLabel, page.ContentType.Model); mt != nil {
			return mt
		}
	}
	return s.registry.Base()
}

func (s *BunService) meta(page *Page, detail bool, parentID any) *serializer.Object {
	meta := serializer.NewObject()
	meta.Set("type", s.typeName(page))
	if detail {
		meta.Set("parent_id", parentID)
	}
	return meta
}

func (s *BunService) typeName(page *Page) string {
	if page.ContentType == nil {
		return s.registry.Base().Name()
	}
	if mt := s.registry.ForContentType(page.ContentType.AppLabel, page.ContentType.Model); mt != nil {
		return mt.Name()
	}
	return page.ContentType.AppLabel + "." + page.ContentType.Model
}

// records loads the specific columns of mt and the child rows named in fields
// for every page.
func (s *BunService) records(ctx context.Context, mt *models.ModelType, rows []*Page, fields []string) ([]*models.Record, error) {
	ids := make([]int64, 0, len(rows))
	for _, page := range rows {
		ids = append(ids, page.ID)
	}

	specific, err := s.loadSpecific(ctx, mt, ids)
	if err != nil {
		return nil, err
	}

	children := map[int64]map[string][]map[string]any{}
	for _, name := range fields {
		rel, ok := mt.ChildRelation(name)
		if !ok {
			continue
		}
		byPage, err := s.loadChildren(ctx, rel, ids)
		if err != nil {
			return nil, err
		}
		for pageID, childRows := range byPage {
			if children[pageID] == nil {
				children[pageID] = map[string][]map[string]any{}
			}
			children[pageID][rel.Name] = childRows
		}
	}

	out := make([]*models.Record, 0, len(rows))
	for _, page := range rows {
		out = append(out, &models.Record{
			ID:       page.ID,
			Type:     mt,
			Values:   models.Merge(page.Values(), specific[page.ID]),
			Children: children[page.ID],
		})
	}
	return out, nil
}

func (s *BunService) loadSpecific(ctx context.Context, mt *models.ModelType, ids []int64) (map[int64]map[string]any, error) {
	if mt.Table == "" || len(ids) == 0 {
		return nil, nil
	}
	var rows []map[string]any
	err := s.db.NewSelect().
		TableExpr("? AS ?", bun.Ident(mt.Table), bun.Ident(specificAlias)).
		ColumnExpr("?.*", bun.Ident(specificAlias)).
		Where("?.page_ptr_id IN (?)", bun.Ident(specificAlias), bun.In(ids)).
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("pages: load %s rows: %w", mt.Name(), err)
	}
	out := make(map[int64]map[string]any, len(rows))
	for _, row := range rows {
		if id, ok := models.KindInt.Normalize(row["page_ptr_id"]).(int64); ok {
			out[id] = row
		}
	}
	return out, nil
}

func (s *BunService) loadChildren(ctx context.Context, rel models.ChildRelation, ids []int64) (map[int64][]map[string]any, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []map[string]any
	q := s.db.NewSelect().
		TableExpr("? AS child", bun.Ident(rel.Table)).
		ColumnExpr("child.*").
		Where("child.? IN (?)", bun.Ident(rel.ForeignKey), bun.In(ids))
	if rel.OrderBy != "" {
		q = q.OrderExpr("child.? ASC", bun.Ident(rel.OrderBy))
	}
	if err := q.OrderExpr("child.id ASC").Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("pages: load %s: %w", rel.Name, err)
	}
	out := map[int64][]map[string]any{}
	for _, row := range rows {
		if id, ok := models.KindInt.Normalize(row[rel.ForeignKey]).(int64); ok {
			out[id] = append(out[id], row)
		}
	}
	return out, nil
}
