package logging

import (
	"context"
	"maps"
)

type contextKey string

const contextFieldsKey contextKey = "api.logging.fields"

// ContextWithFields returns a context carrying structured logging fields.
// Fields already on the context are merged, new values win.
func ContextWithFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil || len(fields) == 0 {
		return ctx
	}

	existing := ContextFields(ctx)
	merged := make(map[string]any, len(existing)+len(fields))
	maps.Copy(merged, existing)
	maps.Copy(merged, fields)
	return context.WithValue(ctx, contextFieldsKey, merged)
}

// ContextFields extracts the logging fields annotated on ctx. The returned map
// is a copy.
func ContextFields(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	fields, ok := ctx.Value(contextFieldsKey).(map[string]any)
	if !ok || len(fields) == 0 {
		return nil
	}
	return maps.Clone(fields)
}

// RequestID returns the request id stored by ContextWithFields, if any.
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	fields, _ := ctx.Value(contextFieldsKey).(map[string]any)
	id, _ := fields[fieldRequestID].(string)
	return id
}
