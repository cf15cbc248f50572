package pages

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-cms-api/internal/query"
)

// NotFoundError is returned when a page is missing or outside the public,
// live pages of the request's site.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

var (
	// ErrTypeNotFound answers a type parameter naming no registered page type.
	ErrTypeNotFound = query.NotFound("Type doesn't exist")
	// ErrParentNotFound answers a child_of parameter naming no page.
	ErrParentNotFound = query.NotFound("Parent page doesn't exist")
	// ErrRootPageMissing means a site points at a page that does not exist.
	ErrRootPageMissing = errors.New("pages: site root page does not exist")
)
