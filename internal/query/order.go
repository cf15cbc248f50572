package query

import (
	"net/url"
	"strings"

	"github.com/uptrace/bun"
)

// Order is a validated order parameter.
type Order struct {
	Field      string
	Expr       string
	Descending bool
}

// ParseOrder reads the order parameter. A leading "-" reverses the order.
// orderable maps the accepted field names to column expressions; it returns
// nil when the request sets no order.
func ParseOrder(values url.Values, orderable map[string]string) (*Order, error) {
	if !values.Has(ParamOrder) {
		return nil, nil
	}
	raw := Value(values, ParamOrder)
	order := &Order{Field: raw}
	if strings.HasPrefix(raw, "-") {
		order.Descending = true
		order.Field = raw[1:]
	}

	expr, ok := orderable[order.Field]
	if !ok {
		return nil, BadRequest("cannot order by '%s' (unknown field)", order.Field)
	}
	order.Expr = expr
	return order, nil
}

// Orderable builds the orderable map from the API fields that resolve to a
// column. The id is always orderable.
func Orderable(idExpr string, apiFields []string, resolve func(name string) (string, bool)) map[string]string {
	out := map[string]string{"id": idExpr}
	for _, name := range apiFields {
		if expr, ok := resolve(name); ok {
			out[name] = expr
		}
	}
	return out
}

// ApplyOrder orders by order, or by defaultExpr when order is nil. The id
// breaks ties so pages of a listing never overlap.
func ApplyOrder(q *bun.SelectQuery, order *Order, defaultExpr, idExpr string) *bun.SelectQuery {
	if order == nil {
		q = q.OrderExpr("? ASC", bun.Safe(defaultExpr))
		if defaultExpr != idExpr {
			q = q.OrderExpr("? ASC", bun.Safe(idExpr))
		}
		return q
	}

	direction := "ASC"
	if order.Descending {
		direction = "DESC"
	}
	q = q.OrderExpr("? "+direction, bun.Safe(order.Expr))
	if order.Expr != idExpr {
		q = q.OrderExpr("? "+direction, bun.Safe(idExpr))
	}
	return q
}
