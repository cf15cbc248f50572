package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-cms-api/internal/logging"
	"github.com/goliatone/go-cms-api/internal/query"
	"github.com/goliatone/go-cms-api/internal/serializer"
	"github.com/goliatone/go-cms-api/pkg/interfaces"
	urlkit "github.com/goliatone/go-urlkit"
)

const (
	// DefaultBasePath is where the endpoints mount unless WithBasePath says
	// otherwise.
	DefaultBasePath = "/api/v1"
	// DefaultIndent is the JSON indent width of responses.
	DefaultIndent = 4

	routeGroup = "api"
)

// Endpoint is one family of read-only routes: a listing and a detail view
// over a single kind of object. Views return their payload; the API writes
// it and turns errors into JSON responses.
type Endpoint interface {
	// Name is the URL segment and the key holding listing items.
	Name() string
	// Resource names the object kind in not found messages.
	Resource() string
	Listing(r *http.Request) (*query.Listing, error)
	Detail(r *http.Request, id int64) (*serializer.Object, error)
}

// API registers endpoints on a ServeMux.
type API struct {
	basePath  string
	indent    int
	etags     bool
	endpoints []Endpoint
	logger    interfaces.Logger
	routes    *urlkit.RouteManager
}

// Option mutates the API configuration.
type Option func(*API)

// NewAPI constructs an API with the given endpoints and options.
func NewAPI(opts ...Option) *API {
	api := &API{
		basePath: DefaultBasePath,
		indent:   DefaultIndent,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	api.routes = urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{{
			Name:  routeGroup,
			Paths: api.routePaths(),
		}},
	})
	return api
}

// WithBasePath overrides the base path (defaults to "/api/v1").
func WithBasePath(path string) Option {
	return func(api *API) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

// WithIndent sets the JSON indent width. Zero renders compact JSON.
func WithIndent(indent int) Option {
	return func(api *API) {
		if indent >= 0 {
			api.indent = indent
		}
	}
}

// WithETags toggles entity tags and conditional GETs.
func WithETags(enabled bool) Option {
	return func(api *API) {
		api.etags = enabled
	}
}

// WithEndpoint adds an endpoint. Endpoints sharing a name replace each other.
func WithEndpoint(endpoint Endpoint) Option {
	return func(api *API) {
		if endpoint == nil {
			return
		}
		for i, existing := range api.endpoints {
			if existing.Name() == endpoint.Name() {
				api.endpoints[i] = endpoint
				return
			}
		}
		api.endpoints = append(api.endpoints, endpoint)
	}
}

// WithLogger sets the logger used for request and failure logging.
func WithLogger(logger interfaces.Logger) Option {
	return func(api *API) {
		if logger != nil {
			api.logger = logger
		}
	}
}

// Endpoints returns the registered endpoint names in registration order.
func (api *API) Endpoints() []string {
	names := make([]string, 0, len(api.endpoints))
	for _, endpoint := range api.endpoints {
		names = append(names, endpoint.Name())
	}
	return names
}

// Register attaches the index and every endpoint to mux.
func (api *API) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api == nil {
		return fmt.Errorf("http: api is nil")
	}

	base := joinPath(api.basePath, "")
	if base == "/" {
		mux.HandleFunc("GET /{$}", api.handleIndex)
	} else {
		mux.HandleFunc("GET "+base, api.handleIndex)
		mux.HandleFunc("GET "+base+"/{$}", api.handleIndex)
	}

	for _, endpoint := range api.endpoints {
		root := joinPath(base, endpoint.Name())
		listing := api.listingView(endpoint)
		detail := api.detailView(endpoint)
		mux.Handle("GET "+root, listing)
		mux.Handle("GET "+root+"/{$}", listing)
		mux.Handle("GET "+root+"/{id}", detail)
		mux.Handle("GET "+root+"/{id}/{$}", detail)
	}
	return nil
}

// Handler returns a ServeMux holding the API wrapped in the request logging
// and recovery middleware.
func (api *API) Handler() http.Handler {
	mux := http.NewServeMux()
	if err := api.Register(mux); err != nil {
		api.logger.Error("http.register.failed", "error", err)
	}
	return api.Middleware(mux)
}

// URL reverses a route name such as "pages:detail".
func (api *API) URL(name string, params map[string]any) (url string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("http: route %q not found", name)
		}
	}()
	builder := api.routes.Group(routeGroup).Builder(name)
	for key, value := range params {
		builder.WithParam(key, value)
	}
	return builder.Build()
}

func (api *API) routePaths() map[string]string {
	base := joinPath(api.basePath, "")
	paths := map[string]string{"index": strings.TrimSuffix(base, "/") + "/"}
	for _, endpoint := range api.endpoints {
		root := joinPath(base, endpoint.Name())
		paths[endpoint.Name()+":listing"] = root + "/"
		paths[endpoint.Name()+":detail"] = root + "/:id/"
	}
	return paths
}

// apiView runs a view and writes its payload, or the JSON form of its error.
func (api *API) apiView(view func(r *http.Request) (any, error)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, err := view(r)
		if err != nil {
			api.writeError(w, r, err)
			return
		}
		api.writeJSON(w, r, http.StatusOK, payload)
	})
}

func (api *API) listingView(endpoint Endpoint) http.Handler {
	return api.apiView(func(r *http.Request) (any, error) {
		listing, err := endpoint.Listing(r)
		if err != nil {
			return nil, err
		}
		items := listing.Items
		if items == nil {
			items = []*serializer.Object{}
		}
		return serializer.NewObject().
			Set("meta", serializer.NewObject().Set("total_count", listing.Total)).
			Set(endpoint.Name(), items), nil
	})
}

func (api *API) detailView(endpoint Endpoint) http.Handler {
	return api.apiView(func(r *http.Request) (any, error) {
		id, ok := parseID(r.PathValue("id"))
		if !ok {
			return nil, query.NotFound(notFoundMessage(endpoint.Resource()))
		}
		return endpoint.Detail(r, id)
	})
}

func (api *API) handleIndex(w http.ResponseWriter, r *http.Request) {
	api.apiView(func(*http.Request) (any, error) {
		index := serializer.NewObject()
		for _, endpoint := range api.endpoints {
			url, err := api.URL(endpoint.Name()+":listing", nil)
			if err != nil {
				url = joinPath(api.basePath, endpoint.Name()) + "/"
			}
			index.Set(endpoint.Name(), url)
		}
		return index, nil
	}).ServeHTTP(w, r)
}
