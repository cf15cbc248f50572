package logging

import (
	"maps"

	"github.com/goliatone/go-cms-api/pkg/interfaces"
)

// WithFields attaches structured fields to a logger when the implementation
// supports the optional FieldsLogger extension.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(maps.Clone(fields))
	}

	return logger
}

// RequestFields builds the field set the request middleware stores on the
// request context.
func RequestFields(requestID, method, path string) map[string]any {
	return map[string]any{
		fieldRequestID: requestID,
		fieldMethod:    method,
		fieldPath:      path,
	}
}
