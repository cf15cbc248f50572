package http

import (
	"context"
	"net/http"

	"github.com/goliatone/go-cms-api/internal/documents"
	"github.com/goliatone/go-cms-api/internal/images"
	"github.com/goliatone/go-cms-api/internal/pages"
	"github.com/goliatone/go-cms-api/internal/query"
	"github.com/goliatone/go-cms-api/internal/serializer"
	"github.com/goliatone/go-cms-api/internal/sites"
)

// SiteResolver finds the site serving a request host.
type SiteResolver interface {
	FindForHost(ctx context.Context, host string) (*sites.Site, error)
}

// PagesEndpoint serves the live, public pages of the request's site.
type PagesEndpoint struct {
	service pages.Service
	sites   SiteResolver
}

// NewPagesEndpoint wires the pages service to the site resolver.
func NewPagesEndpoint(service pages.Service, resolver SiteResolver) *PagesEndpoint {
	return &PagesEndpoint{service: service, sites: resolver}
}

func (e *PagesEndpoint) Name() string     { return "pages" }
func (e *PagesEndpoint) Resource() string { return "Page" }

func (e *PagesEndpoint) Listing(r *http.Request) (*query.Listing, error) {
	scope, err := e.scope(r)
	if err != nil {
		return nil, err
	}
	return e.service.List(r.Context(), scope, r.URL.Query())
}

func (e *PagesEndpoint) Detail(r *http.Request, id int64) (*serializer.Object, error) {
	scope, err := e.scope(r)
	if err != nil {
		return nil, err
	}
	return e.service.Get(r.Context(), scope, id)
}

func (e *PagesEndpoint) scope(r *http.Request) (pages.Scope, error) {
	site, err := e.sites.FindForHost(r.Context(), r.Host)
	if err != nil {
		return pages.Scope{}, err
	}
	return pages.Scope{RootPageID: site.RootPageID}, nil
}

// ImagesEndpoint serves the image library.
type ImagesEndpoint struct {
	service images.Service
}

func NewImagesEndpoint(service images.Service) *ImagesEndpoint {
	return &ImagesEndpoint{service: service}
}

func (e *ImagesEndpoint) Name() string     { return "images" }
func (e *ImagesEndpoint) Resource() string { return "Image" }

func (e *ImagesEndpoint) Listing(r *http.Request) (*query.Listing, error) {
	return e.service.List(r.Context(), r.URL.Query())
}

func (e *ImagesEndpoint) Detail(r *http.Request, id int64) (*serializer.Object, error) {
	return e.service.Get(r.Context(), id)
}

// DocumentsEndpoint serves the document library.
type DocumentsEndpoint struct {
	service documents.Service
}

func NewDocumentsEndpoint(service documents.Service) *DocumentsEndpoint {
	return &DocumentsEndpoint{service: service}
}

func (e *DocumentsEndpoint) Name() string     { return "documents" }
func (e *DocumentsEndpoint) Resource() string { return "Document" }

func (e *DocumentsEndpoint) Listing(r *http.Request) (*query.Listing, error) {
	return e.service.List(r.Context(), r.URL.Query())
}

func (e *DocumentsEndpoint) Detail(r *http.Request, id int64) (*serializer.Object, error) {
	return e.service.Get(r.Context(), id)
}

var (
	_ Endpoint = (*PagesEndpoint)(nil)
	_ Endpoint = (*ImagesEndpoint)(nil)
	_ Endpoint = (*DocumentsEndpoint)(nil)
)
