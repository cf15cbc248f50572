// Package search narrows listing queries to rows matching free text.
package search

import (
	"fmt"
	"strings"

	"github.com/uptrace/bun"
)

// BackendDatabase is the name of the built-in backend.
const BackendDatabase = "database"

// Backend restricts a query to rows whose columns match the search text.
type Backend interface {
	Apply(q *bun.SelectQuery, columns []string, text string) *bun.SelectQuery
}

// New returns the backend registered under name.
func New(name string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", BackendDatabase:
		return DatabaseBackend{}, nil
	default:
		return nil, fmt.Errorf("search: unknown backend %q", name)
	}
}

// DatabaseBackend searches with case-insensitive substring matches. Every
// whitespace separated term must match at least one column. Blank text or a
// model without search columns matches nothing. The database folds the case
// of both sides, so on sqlite only ASCII letters compare case-insensitively.
type DatabaseBackend struct{}

func (DatabaseBackend) Apply(q *bun.SelectQuery, columns []string, text string) *bun.SelectQuery {
	terms := strings.Fields(text)
	if len(terms) == 0 || len(columns) == 0 {
		return q.Where("1 = 0")
	}
	for _, term := range terms {
		pattern := "%" + escapeLike(term) + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			for _, column := range columns {
				q = q.WhereOr("LOWER(?) LIKE LOWER(?) ESCAPE '\\'", bun.Safe(column), pattern)
			}
			return q
		})
	}
	return q
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}
