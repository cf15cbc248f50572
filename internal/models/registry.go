package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrTypeNotFound is returned when a type name resolves to nothing.
	ErrTypeNotFound = errors.New("models: type not found")
	// ErrTypeExists is returned when a type is registered twice.
	ErrTypeExists = errors.New("models: type already registered")
	// ErrInvalidDefinition wraps every structural problem in a type definition.
	ErrInvalidDefinition = errors.New("models: invalid type definition")
)

const (
	BaseAppLabel  = "wagtailcore"
	BaseModelName = "Page"
)

// BasePageType returns the shared page type backed by the page table. Every
// column is filterable, only the title is searchable, and no API fields are
// declared (the pages endpoint always adds the title).
func BasePageType() *ModelType {
	return &ModelType{
		AppLabel:  BaseAppLabel,
		ModelName: BaseModelName,
		Fields: []Field{
			{Name: "id", Kind: KindInt},
			{Name: "path", Kind: KindString},
			{Name: "depth", Kind: KindInt},
			{Name: "numchild", Kind: KindInt},
			{Name: "title", Kind: KindString},
			{Name: "slug", Kind: KindString},
			{Name: "live", Kind: KindBool},
			{Name: "has_unpublished_changes", Kind: KindBool},
			{Name: "url_path", Kind: KindText},
			{Name: "seo_title", Kind: KindString},
			{Name: "show_in_menus", Kind: KindBool},
			{Name: "search_description", Kind: KindText},
			{Name: "go_live_at", Kind: KindDateTime},
			{Name: "expire_at", Kind: KindDateTime},
			{Name: "expired", Kind: KindBool},
			{Name: "locked", Kind: KindBool},
			{Name: "owner", Column: "owner_id", Kind: KindInt},
			{Name: "content_type", Column: "content_type_id", Kind: KindInt},
			{Name: "first_published_at", Kind: KindDateTime},
			{Name: "latest_revision_created_at", Kind: KindDateTime},
		},
		SearchFields: []string{"title"},
	}
}

// Registry holds the page types the API knows about. It is safe for
// concurrent use.
type Registry struct {
	mu    sync.RWMutex
	base  *ModelType
	types map[string]*ModelType
}

// NewRegistry returns a registry holding only the base page type.
func NewRegistry() *Registry {
	base := BasePageType()
	return &Registry{
		base:  base,
		types: map[string]*ModelType{key(base.AppLabel, base.ModelName): base},
	}
}

func key(appLabel, model string) string {
	return appLabel + "." + strings.ToLower(model)
}

// Base returns the base page type.
func (r *Registry) Base() *ModelType {
	return r.base
}

// Register adds a page type inheriting from the base type.
func (r *Registry) Register(def ModelType) (*ModelType, error) {
	mt := def
	mt.parent = r.base
	if err := mt.validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	k := key(mt.AppLabel, mt.ModelName)
	if _, exists := r.types[k]; exists {
		return nil, fmt.Errorf("%w: %s", ErrTypeExists, mt.Name())
	}
	r.types[k] = &mt
	return &mt, nil
}

// MustRegister is Register for definitions known at compile time.
func (r *Registry) MustRegister(def ModelType) *ModelType {
	mt, err := r.Register(def)
	if err != nil {
		panic(err)
	}
	return mt
}

// Resolve looks a type up by "app_label.ModelName". The app label must match
// exactly, the model name is case-insensitive.
func (r *Registry) Resolve(name string) (*ModelType, error) {
	appLabel, model, ok := strings.Cut(strings.TrimSpace(name), ".")
	if !ok || appLabel == "" || model == "" {
		return nil, fmt.Errorf("%w: %q", ErrTypeNotFound, name)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if mt, found := r.types[key(appLabel, model)]; found {
		return mt, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrTypeNotFound, name)
}

// ForContentType returns the type stored under the content type row, or nil
// when the host has a page class the registry does not describe.
func (r *Registry) ForContentType(appLabel, model string) *ModelType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.types[key(appLabel, model)]
}

// Types lists every registered type sorted by name.
func (r *Registry) Types() []*ModelType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*ModelType, 0, len(r.types))
	for _, mt := range r.types {
		out = append(out, mt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}
