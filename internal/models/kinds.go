package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-cms-api/internal/serializer"
)

// FieldKind tells the API how to coerce filter values and how to encode
// stored values.
type FieldKind string

const (
	KindString   FieldKind = "string"
	KindText     FieldKind = "text"
	KindInt      FieldKind = "int"
	KindFloat    FieldKind = "float"
	KindBool     FieldKind = "bool"
	KindDate     FieldKind = "date"
	KindDateTime FieldKind = "datetime"
)

// ErrFilterIgnored marks a filter value that disables the filter instead of
// failing it (unknown boolean spellings).
var ErrFilterIgnored = errors.New("models: filter value ignored")

// Valid reports whether k is a known kind.
func (k FieldKind) Valid() bool {
	switch k {
	case KindString, KindText, KindInt, KindFloat, KindBool, KindDate, KindDateTime:
		return true
	default:
		return false
	}
}

// Textual reports whether values of this kind can be searched.
func (k FieldKind) Textual() bool {
	return k == KindString || k == KindText
}

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	time.DateOnly,
}

// ParseFilter converts a query string value into a query argument for a
// column of this kind.
func (k FieldKind) ParseFilter(raw string) (any, error) {
	switch k {
	case KindInt:
		return strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	case KindFloat:
		return strconv.ParseFloat(strings.TrimSpace(raw), 64)
	case KindBool:
		switch strings.TrimSpace(raw) {
		case "true", "True", "1":
			return true, nil
		case "false", "False", "0":
			return false, nil
		default:
			return nil, ErrFilterIgnored
		}
	case KindDate:
		parsed, err := time.Parse(time.DateOnly, strings.TrimSpace(raw))
		if err != nil {
			return nil, err
		}
		return parsed.Format(time.DateOnly), nil
	case KindDateTime:
		parsed, ok := parseDateTime(strings.TrimSpace(raw))
		if !ok {
			return nil, fmt.Errorf("models: invalid datetime %q", raw)
		}
		return parsed.UTC(), nil
	default:
		return raw, nil
	}
}

// Normalize turns a value scanned from the database into a JSON friendly
// value for this kind. Drivers disagree on representations (sqlite stores
// booleans as integers, some drivers return text as bytes), so every kind
// accepts the common alternatives.
func (k FieldKind) Normalize(raw any) any {
	if raw == nil {
		return nil
	}
	if b, ok := raw.([]byte); ok {
		raw = string(b)
	}

	switch k {
	case KindInt:
		switch v := raw.(type) {
		case int64:
			return v
		case int:
			return int64(v)
		case int32:
			return int64(v)
		case float64:
			return int64(v)
		case bool:
			if v {
				return int64(1)
			}
			return int64(0)
		case string:
			if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
				return n
			}
		}
	case KindFloat:
		switch v := raw.(type) {
		case float64:
			return v
		case float32:
			return float64(v)
		case int64:
			return float64(v)
		case int:
			return float64(v)
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return f
			}
		}
	case KindBool:
		switch v := raw.(type) {
		case bool:
			return v
		case int64:
			return v != 0
		case int:
			return v != 0
		case string:
			if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
				return b
			}
		}
	case KindDate:
		switch v := raw.(type) {
		case time.Time:
			return serializer.Date(v)
		case string:
			if t, ok := parseDateTime(strings.TrimSpace(v)); ok {
				return serializer.Date(t)
			}
		}
	case KindDateTime:
		switch v := raw.(type) {
		case time.Time:
			return serializer.DateTime(v)
		case string:
			if t, ok := parseDateTime(strings.TrimSpace(v)); ok {
				return serializer.DateTime(t)
			}
		}
	default:
		if s, ok := raw.(string); ok {
			return s
		}
		return fmt.Sprint(raw)
	}
	return raw
}

func parseDateTime(value string) (time.Time, bool) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
