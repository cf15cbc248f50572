package query

import (
	"context"
	"fmt"

	"github.com/goliatone/go-cms-api/internal/serializer"
	"github.com/uptrace/bun"
)

// Execute counts the rows matched by q, then scans the requested window into
// dest. A zero limit only counts.
func Execute(ctx context.Context, q *bun.SelectQuery, page Pagination, dest ...any) (int, error) {
	total, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("query: count: %w", err)
	}
	if page.Limit == 0 || page.Offset >= total {
		return total, nil
	}

	q = q.Limit(page.Limit)
	if page.Offset > 0 {
		q = q.Offset(page.Offset)
	}
	if err := q.Scan(ctx, dest...); err != nil {
		return 0, fmt.Errorf("query: scan: %w", err)
	}
	return total, nil
}

// Listing is one window of a listing with the total match count.
type Listing struct {
	Total int
	Items []*serializer.Object
}
