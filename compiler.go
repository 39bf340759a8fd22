package schemaform

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/reoring/schemaform/jsonschema"
	"github.com/reoring/schemaform/rules"
	"github.com/reoring/schemaform/validators"
)

// RuleKeyPrefix prefixes the group key of every keyword rule so keyword rules
// never collide with property names.
const RuleKeyPrefix = "schema"

// RuleKey returns the group key for a rule kind, e.g. "minLength" becomes
// "schemaMinLength".
func RuleKey(kind string) string {
	if kind == "" {
		return RuleKeyPrefix
	}
	return RuleKeyPrefix + strings.ToUpper(kind[:1]) + kind[1:]
}

// Compiler turns schema nodes into rule trees. A Compiler holds no per-call
// state and is safe for concurrent use.
type Compiler struct {
	logger        *slog.Logger
	patternPolicy PatternPolicy
}

// NewCompiler returns a Compiler configured by opts.
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile builds the rule group for s. When required is set the group also
// holds a required rule for the value itself.
func (c *Compiler) Compile(s *jsonschema.Schema, required bool) rules.Group {
	return c.compile(s, required, false, nil, 0)
}

// node compiles a child schema. A child already on the recursion path is
// compiled on first use instead, which keeps compilation of cyclic schemas
// finite.
func (c *Compiler) node(s *jsonschema.Schema, required, attached bool, path []*jsonschema.Schema) rules.Node {
	if s != nil && slices.Contains(path, s) {
		c.logger.Debug("deferring cyclic schema", "depth", len(path), "title", s.Title)
		return rules.Defer(func() rules.Group {
			return c.compile(s, required, attached, nil, 0)
		})
	}
	return c.compile(s, required, attached, path, len(path))
}

// compile builds the group for s. path lists the schemas on the recursion
// path; path[level:] are the ones already applied to the same value through
// allOf.
func (c *Compiler) compile(s *jsonschema.Schema, required, attached bool, path []*jsonschema.Schema, level int) rules.Group {
	g := rules.Group{}
	if s.IsFalse() {
		g[RuleKey(validators.KindNotPresent)] = validators.NotPresent(s)
		return g
	}
	if required {
		g[RuleKey(validators.KindRequired)] = validators.Required(s, attached)
	}
	if s == nil || s.IsTrue() {
		return g
	}

	here := append(path[:len(path):len(path)], s)
	sub := func(child *jsonschema.Schema) rules.Node {
		return c.node(child, false, false, here)
	}
	same := func(child *jsonschema.Schema) rules.Node {
		return c.sameValue(child, here, level)
	}

	for _, name := range s.PropertyNamesSorted() {
		g[name] = c.node(s.Properties[name], s.IsRequired(name), true, here)
	}
	for _, name := range s.Required {
		if _, ok := g[name]; !ok {
			g[name] = rules.Group{RuleKey(validators.KindRequired): validators.Required(nil, true)}
		}
	}

	for _, kr := range keywordRules {
		if !s.Has(kr.keyword) {
			continue
		}
		compileSub := sub
		if sameValueKeywords[kr.keyword] {
			compileSub = same
		}
		if r := kr.build(c, s, compileSub); r != nil {
			g[RuleKey(r.Kind)] = r
		}
	}

	if validators.IsObjectItems(s) {
		g[rules.Each] = c.node(s.Items, true, true, here)
	}

	if len(s.AllOf) > 0 {
		g = c.mergeAllOf(g, s, attached, here, level, sub)
	}
	return g
}

// sameValue compiles a schema that applies to the value already being
// compiled. Reaching a schema that is applied to this value already never
// holds, which keeps left-recursive anyOf, oneOf, not and dependencies finite.
func (c *Compiler) sameValue(child *jsonschema.Schema, path []*jsonschema.Schema, level int) rules.Node {
	if child == nil {
		return c.compile(child, false, false, path, level)
	}
	if slices.Contains(path[level:], child) {
		c.logger.Debug("self reference on the same value never holds", "title", child.Title)
		return rules.Group{RuleKey(validators.KindNotPresent): validators.NotPresent(child)}
	}
	if slices.Contains(path, child) {
		return c.node(child, false, false, path)
	}
	return c.compile(child, false, false, path, level)
}

// mergeAllOf folds each allOf branch into g, combining same-named rules with
// AND. A branch already applied to the same value is skipped; one that points
// back to an enclosing value's schema is checked through a single allOf rule.
func (c *Compiler) mergeAllOf(g rules.Group, s *jsonschema.Schema, attached bool, path []*jsonschema.Schema, level int, sub validators.CompileFunc) rules.Group {
	var cyclic []*jsonschema.Schema
	for _, branch := range s.AllOf {
		if branch != nil && slices.Contains(path[level:], branch) {
			continue
		}
		if branch != nil && slices.Contains(path, branch) {
			cyclic = append(cyclic, branch)
			continue
		}
		merged, ok := rules.Merge(g, c.compile(branch, false, attached, path, level)).(rules.Group)
		if ok {
			g = merged
		}
	}
	if len(cyclic) > 0 {
		c.logger.Debug("checking cyclic allOf branches by reference", "count", len(cyclic))
		r := validators.AllOf(s, cyclic, sub)
		if existing, ok := g[RuleKey(r.Kind)].(*rules.Rule); ok {
			r = rules.And(existing, r)
		}
		g[RuleKey(validators.KindAllOf)] = r
	}
	return g
}

func (c *Compiler) warnInvalidPattern(s *jsonschema.Schema, keyword jsonschema.Keyword, err error) {
	c.logger.Warn("invalid regular expression, matching everything",
		"keyword", string(keyword), "title", s.Title, "error", err)
}

// keywordRule builds the rule for one keyword. A nil result adds nothing.
type keywordRule struct {
	keyword jsonschema.Keyword
	build   func(c *Compiler, s *jsonschema.Schema, sub validators.CompileFunc) *rules.Rule
}

// sameValueKeywords apply their schemas to the value that carries them rather
// than to its members or elements.
var sameValueKeywords = map[jsonschema.Keyword]bool{
	jsonschema.KeywordOneOf:        true,
	jsonschema.KeywordAnyOf:        true,
	jsonschema.KeywordNot:          true,
	jsonschema.KeywordDependencies: true,
}

var keywordRules = []keywordRule{
	{jsonschema.KeywordType, func(_ *Compiler, s *jsonschema.Schema, _ validators.CompileFunc) *rules.Rule {
		if t, ok := s.SingleType(); ok {
			return validators.Type(s, t)
		}
		if len(s.Type) == 0 {
			return nil
		}
		return validators.Types(s, s.Type)
	}},
	{jsonschema.KeywordOneOf, func(_ *Compiler, s *jsonschema.Schema, sub validators.CompileFunc) *rules.Rule {
		return validators.OneOf(s, sub)
	}},
	{jsonschema.KeywordAnyOf, func(_ *Compiler, s *jsonschema.Schema, sub validators.CompileFunc) *rules.Rule {
		return validators.AnyOf(s, sub)
	}},
	{jsonschema.KeywordNot, func(_ *Compiler, s *jsonschema.Schema, sub validators.CompileFunc) *rules.Rule {
		return validators.Not(s, sub)
	}},
	{jsonschema.KeywordAdditionalItems, func(_ *Compiler, s *jsonschema.Schema, sub validators.CompileFunc) *rules.Rule {
		return validators.AdditionalItems(s, sub)
	}},
	{jsonschema.KeywordContains, func(_ *Compiler, s *jsonschema.Schema, sub validators.CompileFunc) *rules.Rule {
		return validators.Contains(s, sub)
	}},
	{jsonschema.KeywordDependencies, func(_ *Compiler, s *jsonschema.Schema, sub validators.CompileFunc) *rules.Rule {
		return validators.Dependencies(s, sub)
	}},
	{jsonschema.KeywordMinLength, func(_ *Compiler, s *jsonschema.Schema, _ validators.CompileFunc) *rules.Rule {
		return validators.MinLength(s, *s.MinLength)
	}},
	{jsonschema.KeywordMaxLength, func(_ *Compiler, s *jsonschema.Schema, _ validators.CompileFunc) *rules.Rule {
		return validators.MaxLength(s, *s.MaxLength)
	}},
	{jsonschema.KeywordMinItems, func(_ *Compiler, s *jsonschema.Schema, _ validators.CompileFunc) *rules.Rule {
		return validators.MinItems(s, *s.MinItems)
	}},
	{jsonschema.KeywordMaxItems, func(_ *Compiler, s *jsonschema.Schema, _ validators.CompileFunc) *rules.Rule {
		return validators.MaxItems(s, *s.MaxItems)
	}},
	{jsonschema.KeywordMinimum, func(_ *Compiler, s *jsonschema.Schema, _ validators.CompileFunc) *rules.Rule {
		if s.Maximum != nil {
			return validators.Between(s, *s.Minimum, *s.Maximum)
		}
		return validators.Minimum(s, *s.Minimum)
	}},
	{jsonschema.KeywordMaximum, func(_ *Compiler, s *jsonschema.Schema, _ validators.CompileFunc) *rules.Rule {
		if s.Minimum != nil {
			return nil
		}
		return validators.Maximum(s, *s.Maximum)
	}},
	{jsonschema.KeywordExclusiveMinimum, func(_ *Compiler, s *jsonschema.Schema, _ validators.CompileFunc) *rules.Rule {
		return validators.ExclusiveMinimum(s, *s.ExclusiveMinimum)
	}},
	{jsonschema.KeywordExclusiveMaximum, func(_ *Compiler, s *jsonschema.Schema, _ validators.CompileFunc) *rules.Rule {
		return validators.ExclusiveMaximum(s, *s.ExclusiveMaximum)
	}},
	{jsonschema.KeywordMaxProperties, func(_ *Compiler, s *jsonschema.Schema, _ validators.CompileFunc) *rules.Rule {
		return validators.MaxProperties(s, *s.MaxProperties)
	}},
	{jsonschema.KeywordMinProperties, func(_ *Compiler, s *jsonschema.Schema, _ validators.CompileFunc) *rules.Rule {
		return validators.MinProperties(s, *s.MinProperties)
	}},
	{jsonschema.KeywordMultipleOf, func(_ *Compiler, s *jsonschema.Schema, _ validators.CompileFunc) *rules.Rule {
		return validators.MultipleOf(s, *s.MultipleOf)
	}},
	{jsonschema.KeywordPattern, func(c *Compiler, s *jsonschema.Schema, _ validators.CompileFunc) *rules.Rule {
		r, err := validators.Pattern(s, *s.Pattern, c.patternPolicy == PatternLenient)
		if err != nil {
			c.warnInvalidPattern(s, jsonschema.KeywordPattern, err)
		}
		return r
	}},
	{jsonschema.KeywordPatternProperties, func(c *Compiler, s *jsonschema.Schema, sub validators.CompileFunc) *rules.Rule {
		r, errs := validators.PatternProperties(s, sub)
		for _, err := range errs {
			c.warnInvalidPattern(s, jsonschema.KeywordPatternProperties, err)
		}
		return r
	}},
	{jsonschema.KeywordAdditionalProperties, func(_ *Compiler, s *jsonschema.Schema, sub validators.CompileFunc) *rules.Rule {
		// invalid patterns were already reported by patternProperties
		r, _ := validators.AdditionalProperties(s, sub)
		return r
	}},
	{jsonschema.KeywordPropertyNames, func(_ *Compiler, s *jsonschema.Schema, sub validators.CompileFunc) *rules.Rule {
		return validators.PropertyNames(s, sub)
	}},
	{jsonschema.KeywordEnum, func(_ *Compiler, s *jsonschema.Schema, _ validators.CompileFunc) *rules.Rule {
		return validators.Enum(s, s.Enum)
	}},
	{jsonschema.KeywordConst, func(_ *Compiler, s *jsonschema.Schema, _ validators.CompileFunc) *rules.Rule {
		return validators.Const(s, s.Const.Value)
	}},
	{jsonschema.KeywordUniqueItems, func(_ *Compiler, s *jsonschema.Schema, _ validators.CompileFunc) *rules.Rule {
		if !*s.UniqueItems {
			return nil
		}
		return validators.UniqueItems(s)
	}},
	{jsonschema.KeywordItems, func(_ *Compiler, s *jsonschema.Schema, sub validators.CompileFunc) *rules.Rule {
		return validators.Items(s, sub)
	}},
}
