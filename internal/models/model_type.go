package models

import (
	"fmt"
	"slices"
	"strings"

	"github.com/goliatone/go-cms-api/internal/serializer"
)

// Field maps an API field name onto a database column.
type Field struct {
	Name   string    `json:"name"`
	Column string    `json:"column,omitempty"`
	Kind   FieldKind `json:"kind"`
}

// ColumnName returns Column, defaulting to Name.
func (f Field) ColumnName() string {
	if f.Column != "" {
		return f.Column
	}
	return f.Name
}

// ChildRelation describes rows in another table that belong to a page
// (inline related links, gallery items and similar).
type ChildRelation struct {
	Name       string   `json:"name"`
	Table      string   `json:"table"`
	ForeignKey string   `json:"foreign_key"`
	OrderBy    string   `json:"order_by,omitempty"`
	Fields     []Field  `json:"fields"`
	APIFields  []string `json:"api_fields"`
}

// Field returns the named field of the relation.
func (r ChildRelation) Field(name string) (Field, bool) {
	for _, field := range r.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Serialize renders child rows, keyed by column, as objects holding the
// relation's API fields in declaration order.
func (r ChildRelation) Serialize(rows []map[string]any) []*serializer.Object {
	out := make([]*serializer.Object, 0, len(rows))
	for _, row := range rows {
		obj := serializer.NewObject()
		for _, name := range r.APIFields {
			field, ok := r.Field(name)
			if !ok {
				continue
			}
			obj.Set(name, field.Kind.Normalize(row[field.ColumnName()]))
		}
		out = append(out, obj)
	}
	return out
}

// ModelType describes a page type stored with multi-table inheritance: the
// shared columns live in the page table, the type's own columns in Table
// keyed by page_ptr_id.
type ModelType struct {
	AppLabel       string          `json:"app_label"`
	ModelName      string          `json:"model"`
	Table          string          `json:"table,omitempty"`
	Fields         []Field         `json:"fields,omitempty"`
	APIFields      []string        `json:"api_fields,omitempty"`
	SearchFields   []string        `json:"search_fields,omitempty"`
	ChildRelations []ChildRelation `json:"child_relations,omitempty"`

	parent *ModelType
}

// Name returns the app_label.ModelName identifier.
func (m *ModelType) Name() string {
	return m.AppLabel + "." + m.ModelName
}

// ContentTypeModel returns the model column stored in the content type table.
func (m *ModelType) ContentTypeModel() string {
	return strings.ToLower(m.ModelName)
}

// Parent returns the type this one inherits shared columns from, nil for the
// base page type.
func (m *ModelType) Parent() *ModelType {
	return m.parent
}

// OwnField returns a field declared on this type's own table.
func (m *ModelType) OwnField(name string) (Field, bool) {
	for _, field := range m.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Field looks the name up on this type, then on its ancestors.
func (m *ModelType) Field(name string) (Field, bool) {
	for current := m; current != nil; current = current.parent {
		if field, ok := current.OwnField(name); ok {
			return field, true
		}
	}
	return Field{}, false
}

// ChildRelation returns the named child relation.
func (m *ModelType) ChildRelation(name string) (ChildRelation, bool) {
	for current := m; current != nil; current = current.parent {
		for _, rel := range current.ChildRelations {
			if rel.Name == name {
				return rel, true
			}
		}
	}
	return ChildRelation{}, false
}

// AllAPIFields returns the API fields of the ancestors followed by this
// type's own.
func (m *ModelType) AllAPIFields() []string {
	var chain []*ModelType
	for current := m; current != nil; current = current.parent {
		chain = append(chain, current)
	}
	var out []string
	for i := len(chain) - 1; i >= 0; i-- {
		out = append(out, chain[i].APIFields...)
	}
	return out
}

// AllSearchFields returns the searchable fields including inherited ones.
func (m *ModelType) AllSearchFields() []string {
	var out []string
	for current := m; current != nil; current = current.parent {
		for _, name := range current.SearchFields {
			if !slices.Contains(out, name) {
				out = append(out, name)
			}
		}
	}
	return out
}

// Column is a filterable, orderable or searchable field resolved to a
// qualified column expression.
type Column struct {
	Name string
	Expr string
	Kind FieldKind
}

// Columns resolves every field of the type and its ancestors. Own fields are
// qualified with ownAlias, inherited ones with parentAlias.
func (m *ModelType) Columns(ownAlias, parentAlias string) map[string]Column {
	out := map[string]Column{}
	for current, alias := m, ownAlias; current != nil; current, alias = current.parent, parentAlias {
		for _, field := range current.Fields {
			if _, exists := out[field.Name]; exists {
				continue
			}
			out[field.Name] = Column{
				Name: field.Name,
				Expr: alias + "." + field.ColumnName(),
				Kind: field.Kind,
			}
		}
	}
	return out
}

func (m *ModelType) validate() error {
	if strings.TrimSpace(m.AppLabel) == "" || strings.TrimSpace(m.ModelName) == "" {
		return fmt.Errorf("%w: app_label and model are required", ErrInvalidDefinition)
	}
	if strings.Contains(m.AppLabel, ".") || strings.Contains(m.ModelName, ".") {
		return fmt.Errorf("%w: %s: app_label and model cannot contain dots", ErrInvalidDefinition, m.Name())
	}
	if m.parent != nil && strings.TrimSpace(m.Table) == "" {
		return fmt.Errorf("%w: %s: table is required", ErrInvalidDefinition, m.Name())
	}

	seen := map[string]bool{}
	for _, field := range m.Fields {
		if field.Name == "" {
			return fmt.Errorf("%w: %s: field name is required", ErrInvalidDefinition, m.Name())
		}
		if !field.Kind.Valid() {
			return fmt.Errorf("%w: %s.%s: unknown kind %q", ErrInvalidDefinition, m.Name(), field.Name, field.Kind)
		}
		if seen[field.Name] {
			return fmt.Errorf("%w: %s.%s: duplicate field", ErrInvalidDefinition, m.Name(), field.Name)
		}
		seen[field.Name] = true
	}

	for _, rel := range m.ChildRelations {
		if rel.Name == "" || rel.Table == "" || rel.ForeignKey == "" {
			return fmt.Errorf("%w: %s: child relation needs name, table and foreign_key", ErrInvalidDefinition, m.Name())
		}
		if _, clash := m.Field(rel.Name); clash {
			return fmt.Errorf("%w: %s.%s: child relation shadows a field", ErrInvalidDefinition, m.Name(), rel.Name)
		}
		for _, field := range rel.Fields {
			if !field.Kind.Valid() {
				return fmt.Errorf("%w: %s.%s.%s: unknown kind %q", ErrInvalidDefinition, m.Name(), rel.Name, field.Name, field.Kind)
			}
		}
		for _, name := range rel.APIFields {
			if _, ok := rel.Field(name); !ok {
				return fmt.Errorf("%w: %s.%s: api field %q is not a field", ErrInvalidDefinition, m.Name(), rel.Name, name)
			}
		}
	}

	for _, name := range m.APIFields {
		_, isField := m.Field(name)
		_, isRelation := m.ChildRelation(name)
		if !isField && !isRelation {
			return fmt.Errorf("%w: %s: api field %q is neither a field nor a child relation", ErrInvalidDefinition, m.Name(), name)
		}
	}
	for _, name := range m.SearchFields {
		field, ok := m.Field(name)
		if !ok || !field.Kind.Textual() {
			return fmt.Errorf("%w: %s: search field %q must be a string or text field", ErrInvalidDefinition, m.Name(), name)
		}
	}
	return nil
}
