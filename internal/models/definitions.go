package models

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goliatone/go-cms-api/internal/validation"
)

//go:embed definitions.schema.json
var definitionsSchemaJSON []byte

var definitionsSchema = validation.MustCompileSchema("definitions.schema.json", definitionsSchemaJSON)

// Definitions is the document format for declaring page types.
type Definitions struct {
	Types []ModelType `json:"types"`
}

// ParseDefinitions validates raw against the definitions schema and decodes it.
func ParseDefinitions(name string, raw []byte) (Definitions, error) {
	if err := definitionsSchema.ValidateJSON(name, raw); err != nil {
		return Definitions{}, err
	}
	var defs Definitions
	if err := json.Unmarshal(raw, &defs); err != nil {
		return Definitions{}, fmt.Errorf("models: decode %s: %w", name, err)
	}
	return defs, nil
}

// LoadDefinitions reads a definitions file from fsys and registers every type.
func LoadDefinitions(registry *Registry, fsys fs.FS, path string) ([]*ModelType, error) {
	raw, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("models: read %s: %w", path, err)
	}
	defs, err := ParseDefinitions(path, raw)
	if err != nil {
		return nil, err
	}
	registered := make([]*ModelType, 0, len(defs.Types))
	for _, def := range defs.Types {
		mt, err := registry.Register(def)
		if err != nil {
			return nil, fmt.Errorf("models: %s: %w", path, err)
		}
		registered = append(registered, mt)
	}
	return registered, nil
}

// LoadDefinitionsFile is LoadDefinitions for a path on the local disk.
func LoadDefinitionsFile(registry *Registry, path string) ([]*ModelType, error) {
	return LoadDefinitions(registry, os.DirFS(filepath.Dir(path)), filepath.Base(path))
}
