package schemaform

import (
	"context"

	"github.com/reoring/schemaform/jsonschema"
)

// Schema is the schema node type the compiler consumes.
type Schema = jsonschema.Schema

// ParseSchema decodes a JSON schema document, rejecting duplicate keys.
func ParseSchema(data []byte) (*Schema, error) { return jsonschema.Parse(data) }

// ParseSchemaYAML decodes a YAML schema document, rejecting duplicate keys.
func ParseSchemaYAML(data []byte) (*Schema, error) { return jsonschema.ParseYAML(data) }

// LoadSchemaFile reads a schema file, choosing YAML or JSON by extension.
func LoadSchemaFile(path string) (*Schema, error) { return jsonschema.ReadFile(path) }

// FileLoader returns a Loader reading path, for mounting a schema file
// asynchronously.
func FileLoader(path string) Loader {
	return func(ctx context.Context) (*Schema, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return jsonschema.ReadFile(path)
	}
}
