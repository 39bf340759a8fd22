package schemaform

import (
	"context"
	"fmt"
	"strings"

	"github.com/reoring/schemaform/jsonschema"
	"github.com/reoring/schemaform/jsonvalue"
	"github.com/reoring/schemaform/rules"
	"github.com/reoring/schemaform/scaffold"
)

// RootPoint is the mount point that merges into the root object.
const RootPoint = "."

// Loader supplies a schema that is not available up front, e.g. one fetched
// remotely.
type Loader func(ctx context.Context) (*jsonschema.Schema, error)

// Mount pairs a dot-separated mount point with a schema. A mount with a Load
// function and no Schema is pending until Resolve runs it.
type Mount struct {
	Point  string
	Schema *jsonschema.Schema
	Load   Loader
}

// At mounts s at point.
func At(point string, s *jsonschema.Schema) Mount {
	return Mount{Point: point, Schema: s}
}

// Root mounts s at the root.
func Root(s *jsonschema.Schema) Mount {
	return At(RootPoint, s)
}

// Async mounts the schema load will produce at point.
func Async(point string, load Loader) Mount {
	return Mount{Point: point, Load: load}
}

// IsRoot reports whether m merges into the root object.
func (m Mount) IsRoot() bool { return m.Point == RootPoint }

// Pending reports whether m still waits for its loader.
func (m Mount) Pending() bool { return m.Schema == nil && m.Load != nil }

// Path splits the mount point into property names. The root has none.
func (m Mount) Path() []string {
	if m.IsRoot() {
		return nil
	}
	return strings.Split(m.Point, ".")
}

func (m Mount) validate() error {
	if m.Point == "" {
		return mountError(m.Point, ErrInvalidMountPoint)
	}
	for _, seg := range m.Path() {
		if seg == "" {
			return mountError(m.Point, ErrInvalidMountPoint)
		}
	}
	if m.Schema == nil && m.Load == nil {
		return mountError(m.Point, ErrNilSchema)
	}
	if !m.IsRoot() {
		return nil
	}
	if m.Load != nil {
		return mountError(m.Point, ErrAsyncRoot)
	}
	return validateRoot(m.Schema)
}

func validateRoot(s *jsonschema.Schema) error {
	if t, ok := s.SingleType(); !ok || t != jsonvalue.TypeObject {
		return mountError(RootPoint, fmt.Errorf("%w: type must be object", ErrInvalidRoot))
	}
	if s.PatternProperties != nil {
		return mountError(RootPoint, fmt.Errorf("%w: patternProperties is not supported at the root", ErrInvalidRoot))
	}
	if s.AdditionalProperties != nil && !s.AdditionalProperties.IsTrue() {
		return mountError(RootPoint, fmt.Errorf("%w: additionalProperties must be true or absent", ErrInvalidRoot))
	}
	return nil
}

func validateMounts(mounts []Mount) error {
	for _, m := range mounts {
		if err := m.validate(); err != nil {
			return err
		}
	}
	return nil
}

// Resolve runs the loaders of pending mounts in order and returns the mounts
// with their schemas filled in. The input slice is not modified.
func Resolve(ctx context.Context, mounts ...Mount) ([]Mount, error) {
	if err := validateMounts(mounts); err != nil {
		return nil, err
	}
	out := make([]Mount, len(mounts))
	for i, m := range mounts {
		if m.Pending() {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			s, err := m.Load(ctx)
			if err != nil {
				return nil, mountError(m.Point, fmt.Errorf("load schema: %w", err))
			}
			if s == nil {
				return nil, mountError(m.Point, ErrNilSchema)
			}
			m.Schema = s
		}
		out[i] = m
	}
	return out, nil
}

// Scaffold builds the initial data for mounts, folding them left to right
// into one object. Pending mounts appear as Undefined at their mount point.
func Scaffold(mounts ...Mount) (map[string]any, error) {
	if err := validateMounts(mounts); err != nil {
		return nil, err
	}
	b := scaffold.New()
	for _, m := range mounts {
		switch {
		case m.Pending():
			b.MarkUndefined(m.Path())
		case m.IsRoot():
			b.Merge(m.Schema)
		default:
			b.MergeAt(m.Path(), m.Schema)
		}
	}
	return b.Root(), nil
}

// BuildRules compiles mounts with a default Compiler.
func BuildRules(mounts ...Mount) (rules.Group, error) {
	return NewCompiler().BuildRules(mounts...)
}

// BuildRules compiles every mount and places its tree at its mount point.
// Trees sharing a point are merged, and same-named rules are combined with
// AND. Pending mounts contribute no rules.
func (c *Compiler) BuildRules(mounts ...Mount) (rules.Group, error) {
	if err := validateMounts(mounts); err != nil {
		return nil, err
	}
	tree := rules.Group{}
	for _, m := range mounts {
		if m.Pending() {
			c.logger.Debug("skipping pending mount", "point", m.Point)
			continue
		}
		var sub rules.Node = c.Compile(m.Schema, false)
		path := m.Path()
		for i := len(path) - 1; i >= 0; i-- {
			sub = rules.Group{path[i]: sub}
		}
		if merged, ok := rules.Merge(tree, sub).(rules.Group); ok {
			tree = merged
		}
	}
	return tree, nil
}
