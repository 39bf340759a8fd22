package schemaform

import "github.com/reoring/schemaform/rules"

// Validate reports whether value satisfies the rule tree.
func Validate(tree rules.Node, value any) bool {
	return rules.Validate(tree, value)
}

// Explain lists every failing rule of the tree for value. It returns nil when
// Validate would report true.
func Explain(tree rules.Node, value any) Issues {
	return rules.Explain(tree, value)
}

// Check compiles s and validates value against it, returning the issues as an
// error.
func (c *Compiler) Check(s *Schema, value any) error {
	return rules.Explain(c.Compile(s, false), value).Err()
}
