package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/goliatone/go-cms-api/internal/documents"
	"github.com/goliatone/go-cms-api/internal/identity"
	"github.com/goliatone/go-cms-api/internal/images"
	"github.com/goliatone/go-cms-api/internal/pages"
	"github.com/goliatone/go-cms-api/internal/serializer"
	"github.com/goliatone/go-cms-api/internal/sites"
	goerrors "github.com/goliatone/go-errors"
)

const internalErrorMessage = "internal server error"

type errorResponse struct {
	Message string `json:"message"`
}

func joinPath(base, suffix string) string {
	trimmedBase := strings.TrimSpace(base)
	trimmedSuffix := strings.TrimSpace(suffix)
	if trimmedBase == "" || trimmedBase == "/" {
		if trimmedSuffix == "" {
			return "/"
		}
		return "/" + strings.Trim(trimmedSuffix, "/")
	}
	baseClean := "/" + strings.Trim(trimmedBase, "/")
	if trimmedSuffix == "" {
		return baseClean
	}
	return baseClean + "/" + strings.Trim(trimmedSuffix, "/")
}

// parseID reads a detail id. Only unsigned decimal integers are ids.
func parseID(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "+") || strings.HasPrefix(raw, "-") {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func notFoundMessage(resource string) string {
	return fmt.Sprintf("No %s matches the given query.", resource)
}

// writeJSON renders payload with the configured indent. With etags on, a
// matching If-None-Match answers 304 without a body.
func (api *API) writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	if w == nil {
		return
	}
	body, err := serializer.Marshal(payload, api.indent)
	if err != nil {
		api.logger.Error("http.encode.failed", "error", err)
		status = http.StatusInternalServerError
		body, _ = serializer.Marshal(errorResponse{Message: internalErrorMessage}, api.indent)
	}

	w.Header().Set("Content-Type", "application/json")
	if api.etags && status == http.StatusOK {
		tag := identity.ETag(body)
		w.Header().Set("ETag", tag)
		if r != nil && identity.MatchesETag(r.Header.Get("If-None-Match"), tag) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (api *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, payload := mapError(err)
	if status == http.StatusInternalServerError {
		logger := api.logger
		if r != nil {
			logger = api.requestLogger(r)
		}
		logger.Error("http.request.failed", "error", err)
	}
	api.writeJSON(w, r, status, payload)
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Message: internalErrorMessage}
	}

	var pageNotFound *pages.NotFoundError
	if errors.As(err, &pageNotFound) {
		return http.StatusNotFound, errorResponse{Message: notFoundMessage("Page")}
	}

	var imageNotFound *images.NotFoundError
	if errors.As(err, &imageNotFound) {
		return http.StatusNotFound, errorResponse{Message: notFoundMessage("Image")}
	}

	var documentNotFound *documents.NotFoundError
	if errors.As(err, &documentNotFound) {
		return http.StatusNotFound, errorResponse{Message: notFoundMessage("Document")}
	}

	var siteNotFound *sites.NotFoundError
	if errors.As(err, &siteNotFound) {
		return http.StatusNotFound, errorResponse{Message: notFoundMessage("Site")}
	}

	var typed *goerrors.Error
	if goerrors.As(err, &typed) {
		switch typed.Category {
		case goerrors.CategoryNotFound:
			return http.StatusNotFound, errorResponse{Message: typed.Message}
		case goerrors.CategoryBadInput, goerrors.CategoryValidation:
			return http.StatusBadRequest, errorResponse{Message: typed.Message}
		}
	}

	return http.StatusInternalServerError, errorResponse{Message: internalErrorMessage}
}
