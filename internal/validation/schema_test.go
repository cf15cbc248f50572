package validation

import (
	"errors"
	"strings"
	"testing"
)

const testSchema = `{
	"type": "object",
	"required": ["name"],
	"properties": {
		"name": {"type": "string", "minLength": 1},
		"limit": {"type": "integer", "minimum": 0}
	},
	"additionalProperties": false
}`

func TestValidateJSONAcceptsValidDocument(t *testing.T) {
	schema := MustCompileSchema("test.json", []byte(testSchema))
	if err := schema.ValidateJSON("doc.json", []byte(`{"name": "pages", "limit": 20}`)); err != nil {
		t.Fatalf("expected document to validate, got %v", err)
	}
}

func TestValidateJSONCollectsIssues(t *testing.T) {
	schema := MustCompileSchema("test.json", []byte(testSchema))
	err := schema.ValidateJSON("doc.json", []byte(`{"limit": -1, "extra": true}`))
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}
	issues := Issues(err)
	if len(issues) < 2 {
		t.Fatalf("expected several issues, got %+v", issues)
	}
	if !strings.HasPrefix(err.Error(), "doc.json: #") {
		t.Fatalf("expected document prefix, got %q", err.Error())
	}
}

func TestValidateJSONReportsDecodeErrors(t *testing.T) {
	schema := MustCompileSchema("test.json", []byte(testSchema))
	err := schema.ValidateJSON("broken.json", []byte(`{"name": `))
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}
}

func TestCompileSchemaRejectsInvalidSchema(t *testing.T) {
	if _, err := CompileSchema("bad.json", []byte(`{"type": 12}`)); !errors.Is(err, ErrSchemaInvalid) {
		t.Fatalf("expected ErrSchemaInvalid, got %v", err)
	}
}
