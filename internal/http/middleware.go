package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/goliatone/go-cms-api/internal/identity"
	"github.com/goliatone/go-cms-api/internal/logging"
	"github.com/goliatone/go-cms-api/pkg/interfaces"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (s *statusRecorder) WriteHeader(status int) {
	if s.status == 0 {
		s.status = status
	}
	s.ResponseWriter.WriteHeader(status)
}

func (s *statusRecorder) Write(p []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(p)
	s.bytes += n
	return n, err
}

// Middleware tags every request with an id, logs its outcome and turns
// panics into 500 responses.
func (api *API) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		requestID := identity.RequestID(r.Header.Get(RequestIDHeader))
		ctx := logging.ContextWithFields(r.Context(), logging.RequestFields(requestID, r.Method, r.URL.Path))
		r = r.WithContext(ctx)
		w.Header().Set(RequestIDHeader, requestID)

		rec := &statusRecorder{ResponseWriter: w}
		defer func() {
			if p := recover(); p != nil {
				if rec.status == 0 {
					api.writeError(rec, r, fmt.Errorf("http: panic: %v", p))
				} else {
					api.requestLogger(r).Error("http.request.panic", "panic", p)
				}
			}
			api.logRequest(r, rec, time.Since(started))
		}()
		next.ServeHTTP(rec, r)
	})
}

func (api *API) requestLogger(r *http.Request) interfaces.Logger {
	ctx := r.Context()
	return logging.WithRequestContext(api.logger, logging.RequestID(ctx), r.Method, r.URL.Path).WithContext(ctx)
}

func (api *API) logRequest(r *http.Request, rec *statusRecorder, elapsed time.Duration) {
	status := rec.status
	if status == 0 {
		status = http.StatusOK
	}
	logger := api.requestLogger(r)
	args := []any{"status", status, "bytes", rec.bytes, "duration", elapsed, "query", r.URL.RawQuery}
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("http.request", args...)
	case status >= http.StatusBadRequest:
		logger.Warn("http.request", args...)
	default:
		logger.Info("http.request", args...)
	}
}
