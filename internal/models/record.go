package models

import "github.com/goliatone/go-cms-api/internal/serializer"

// Record is a stored row ready to be rendered: the column values of the row
// (and of the tables it inherits from) plus any loaded child relation rows.
type Record struct {
	ID       int64
	Type     *ModelType
	Values   map[string]any
	Children map[string][]map[string]any
}

// Value returns the API value of a field or child relation. Unknown names
// report false.
func (r *Record) Value(name string) (any, bool) {
	if r == nil || r.Type == nil {
		return nil, false
	}
	if field, ok := r.Type.Field(name); ok {
		return field.Kind.Normalize(r.Values[field.ColumnName()]), true
	}
	if rel, ok := r.Type.ChildRelation(name); ok {
		return rel.Serialize(r.Children[name]), true
	}
	return nil, false
}

// Serialize renders the id, meta when it holds anything, then fields in the
// given order.
func (r *Record) Serialize(meta *serializer.Object, fields []string) *serializer.Object {
	obj := serializer.NewObject().Set("id", r.ID)
	if meta.Len() > 0 {
		obj.Set("meta", meta)
	}
	for _, name := range fields {
		if value, ok := r.Value(name); ok {
			obj.Set(name, value)
		}
	}
	return obj
}

// Merge combines column maps; later maps win on shared columns.
func Merge(rows ...map[string]any) map[string]any {
	out := map[string]any{}
	for _, row := range rows {
		for column, value := range row {
			out[column] = value
		}
	}
	return out
}
