package jsonschema

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	j "github.com/goccy/go-json"

	"github.com/reoring/schemaform/internal/dupkey"
	"github.com/reoring/schemaform/jsonvalue"
)

// ErrInvalidSchema is wrapped by every conversion error.
var ErrInvalidSchema = errors.New("invalid schema")

// Parse decodes a JSON schema document. Duplicate object keys are rejected.
func Parse(data []byte) (*Schema, error) {
	if err := dupkey.Check(data); err != nil {
		return nil, fmt.Errorf("jsonschema: %w", err)
	}
	var raw any
	if err := j.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("jsonschema: %w", err)
	}
	return FromValue(raw)
}

// ParseYAML decodes the first document of a YAML schema. Duplicate mapping keys
// are rejected with their positions. Aliases of one anchor share one node.
func ParseYAML(data []byte) (*Schema, error) {
	raw, err := decodeYAML(data)
	if err != nil {
		return nil, fmt.Errorf("jsonschema: %w", err)
	}
	return FromValue(raw)
}

// ReadFile loads a schema from disk, choosing YAML for .yaml/.yml files and
// JSON otherwise.
func ReadFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return Parse(data)
	}
}

// FromValue converts a decoded JSON value (bool or map[string]any trees) into a
// Schema. A source map reached twice converts to the same *Schema, so a
// dereferenced schema that refers back to itself stays cyclic.
func FromValue(v any) (*Schema, error) {
	c := converter{seen: map[uintptr]*Schema{}}
	return c.schema(v, "")
}

type converter struct {
	seen map[uintptr]*Schema
}

func (c *converter) schema(v any, ptr string) (*Schema, error) {
	switch t := v.(type) {
	case bool:
		return &Schema{Bool: &t}, nil
	case map[string]any:
		if t == nil {
			return nil, invalid(ptr, "schema must be an object or a boolean")
		}
		id := reflect.ValueOf(t).Pointer()
		if s, ok := c.seen[id]; ok {
			return s, nil
		}
		s := &Schema{}
		c.seen[id] = s
		if err := c.fill(s, t, ptr); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, invalid(ptr, fmt.Sprintf("schema must be an object or a boolean, got %T", v))
	}
}

func (c *converter) fill(s *Schema, m map[string]any, ptr string) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var exclusiveMinFlag, exclusiveMaxFlag bool
	for _, k := range keys {
		v := m[k]
		at := ptr + "/" + escape(k)
		var err error
		switch Keyword(k) {
		case KeywordType:
			s.Type, err = typeNames(v, at)
		case KeywordProperties:
			s.Properties, err = c.schemaMap(v, at)
		case KeywordPatternProperties:
			s.PatternProperties, err = c.schemaMap(v, at)
		case KeywordRequired:
			s.Required, err = stringList(v, at)
		case KeywordItems:
			if list, ok := v.([]any); ok {
				s.TupleItems, err = c.schemaList(list, at)
			} else {
				s.Items, err = c.schema(v, at)
			}
		case KeywordAdditionalItems:
			s.AdditionalItems, err = c.schema(v, at)
		case KeywordContains:
			s.Contains, err = c.schema(v, at)
		case KeywordAdditionalProperties:
			s.AdditionalProperties, err = c.schema(v, at)
		case KeywordPropertyNames:
			s.PropertyNames, err = c.schema(v, at)
		case KeywordNot:
			s.Not, err = c.schema(v, at)
		case KeywordDefault:
			s.Default = Lit(v)
		case KeywordConst:
			s.Const = Lit(v)
		case KeywordEnum:
			list, ok := v.([]any)
			if !ok {
				return invalid(at, "enum must be an array")
			}
			s.Enum = list
		case KeywordMinLength:
			s.MinLength, err = count(v, at)
		case KeywordMaxLength:
			s.MaxLength, err = count(v, at)
		case KeywordMinItems:
			s.MinItems, err = count(v, at)
		case KeywordMaxItems:
			s.MaxItems, err = count(v, at)
		case KeywordMinProperties:
			s.MinProperties, err = count(v, at)
		case KeywordMaxProperties:
			s.MaxProperties, err = count(v, at)
		case KeywordMinimum:
			s.Minimum, err = number(v, at)
		case KeywordMaximum:
			s.Maximum, err = number(v, at)
		case KeywordExclusiveMinimum:
			// draft-04 spelled this as a flag modifying minimum
			if b, ok := v.(bool); ok {
				exclusiveMinFlag = b
				continue
			}
			s.ExclusiveMinimum, err = number(v, at)
		case KeywordExclusiveMaximum:
			if b, ok := v.(bool); ok {
				exclusiveMaxFlag = b
				continue
			}
			s.ExclusiveMaximum, err = number(v, at)
		case KeywordMultipleOf:
			s.MultipleOf, err = number(v, at)
			if err == nil && *s.MultipleOf <= 0 {
				err = invalid(at, "multipleOf must be greater than 0")
			}
		case KeywordPattern:
			p, ok := v.(string)
			if !ok {
				return invalid(at, "pattern must be a string")
			}
			s.Pattern = &p
		case KeywordUniqueItems:
			b, ok := v.(bool)
			if !ok {
				return invalid(at, "uniqueItems must be a boolean")
			}
			s.UniqueItems = &b
		case KeywordDependencies:
			s.Dependencies, err = c.dependencies(v, at)
		case KeywordAllOf:
			s.AllOf, err = c.schemaArray(v, at)
		case KeywordAnyOf:
			s.AnyOf, err = c.schemaArray(v, at)
		case KeywordOneOf:
			s.OneOf, err = c.schemaArray(v, at)
		case KeywordTitle:
			s.Title, _ = v.(string)
		case KeywordDescription:
			s.Description, _ = v.(string)
		case KeywordFormat:
			s.Format, _ = v.(string)
		}
		if err != nil {
			return err
		}
	}
	if exclusiveMinFlag && s.Minimum != nil {
		s.ExclusiveMinimum, s.Minimum = s.Minimum, nil
	}
	if exclusiveMaxFlag && s.Maximum != nil {
		s.ExclusiveMaximum, s.Maximum = s.Maximum, nil
	}
	return nil
}

func (c *converter) schemaMap(v any, ptr string) (map[string]*Schema, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, invalid(ptr, "must be an object of schemas")
	}
	out := make(map[string]*Schema, len(m))
	for k, sv := range m {
		s, err := c.schema(sv, ptr+"/"+escape(k))
		if err != nil {
			return nil, err
		}
		out[k] = s
	}
	return out, nil
}

func (c *converter) schemaArray(v any, ptr string) ([]*Schema, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, invalid(ptr, "must be an array of schemas")
	}
	return c.schemaList(list, ptr)
}

func (c *converter) schemaList(list []any, ptr string) ([]*Schema, error) {
	out := make([]*Schema, len(list))
	for i, sv := range list {
		s, err := c.schema(sv, fmt.Sprintf("%s/%d", ptr, i))
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func (c *converter) dependencies(v any, ptr string) (map[string]Dependency, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, invalid(ptr, "dependencies must be an object")
	}
	out := make(map[string]Dependency, len(m))
	for k, dv := range m {
		at := ptr + "/" + escape(k)
		if _, isList := dv.([]any); isList {
			names, err := stringList(dv, at)
			if err != nil {
				return nil, err
			}
			out[k] = Dependency{Required: names}
			continue
		}
		s, err := c.schema(dv, at)
		if err != nil {
			return nil, err
		}
		out[k] = Dependency{Schema: s}
	}
	return out, nil
}

func typeNames(v any, ptr string) ([]string, error) {
	if name, ok := v.(string); ok {
		return []string{name}, nil
	}
	names, err := stringList(v, ptr)
	if err != nil {
		return nil, invalid(ptr, "type must be a string or an array of strings")
	}
	return names, nil
}

func stringList(v any, ptr string) ([]string, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, invalid(ptr, "must be an array of strings")
	}
	out := make([]string, len(list))
	for i, e := range list {
		s, ok := e.(string)
		if !ok {
			return nil, invalid(fmt.Sprintf("%s/%d", ptr, i), "must be a string")
		}
		out[i] = s
	}
	return out, nil
}

func count(v any, ptr string) (*int, error) {
	f, ok := jsonvalue.Float(v)
	if !ok || f < 0 || f != float64(int(f)) {
		return nil, invalid(ptr, "must be a non-negative integer")
	}
	n := int(f)
	return &n, nil
}

func number(v any, ptr string) (*float64, error) {
	f, ok := jsonvalue.Float(v)
	if !ok {
		return nil, invalid(ptr, "must be a number")
	}
	return &f, nil
}

func invalid(ptr, msg string) error {
	if ptr == "" {
		ptr = "/"
	}
	return fmt.Errorf("jsonschema: %w at %s: %s", ErrInvalidSchema, ptr, msg)
}

func escape(s string) string {
	s = strings.ReplaceAll(s, "~", "~0")
	return strings.ReplaceAll(s, "/", "~1")
}
