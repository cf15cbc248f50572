package query

import (
	"errors"
	"net/url"
	"sort"

	"github.com/goliatone/go-cms-api/internal/models"
	"github.com/uptrace/bun"
)

// ApplyFilters adds an exact match condition for every query parameter that
// names a filterable column. Parameters that match no column are ignored. A
// value that cannot be coerced to the column kind empties the result, except
// for unknown boolean spellings which disable the filter.
func ApplyFilters(q *bun.SelectQuery, values url.Values, columns map[string]models.Column) *bun.SelectQuery {
	names := make([]string, 0, len(values))
	for name := range values {
		if IsReserved(name) {
			continue
		}
		if _, ok := columns[name]; ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		column := columns[name]
		raw := last(values[name])
		if raw == "" {
			continue
		}
		arg, err := column.Kind.ParseFilter(raw)
		if errors.Is(err, models.ErrFilterIgnored) {
			continue
		}
		if err != nil {
			return q.Where("1 = 0")
		}
		q = q.Where("? = ?", bun.Safe(column.Expr), arg)
	}
	return q
}

func last(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[len(values)-1]
}

// ColumnResolver resolves field names against columns, for Orderable.
func ColumnResolver(columns map[string]models.Column) func(string) (string, bool) {
	return func(name string) (string, bool) {
		column, ok := columns[name]
		return column.Expr, ok
	}
}

// SearchColumns returns the column expressions of the search fields of mt.
func SearchColumns(mt *models.ModelType, columns map[string]models.Column) []string {
	names := mt.AllSearchFields()
	out := make([]string, 0, len(names))
	for _, name := range names {
		if column, ok := columns[name]; ok {
			out = append(out, column.Expr)
		}
	}
	return out
}
