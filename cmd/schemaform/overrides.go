package main

import (
	"fmt"
	"strings"

	"github.com/reoring/schemaform"
	"github.com/reoring/schemaform/rules"
)

// applyOverrides patches the compiled tree with the configured rules. Each
// rule replaces a same-named rule at its path, or is removed when Delete is
// set.
func applyOverrides(tree rules.Group, specs []RuleConfig) (rules.Group, error) {
	for i, spec := range specs {
		if spec.Name == "" {
			return nil, fmt.Errorf("rules[%d]: name is required", i)
		}
		var leaf rules.Node = rules.Delete
		if !spec.Delete {
			if spec.Expr == "" {
				return nil, fmt.Errorf("rules[%d] %q: expr is required unless delete is set", i, spec.Name)
			}
			r, err := rules.Expr(spec.Name, spec.Expr)
			if err != nil {
				return nil, fmt.Errorf("rules[%d] %q: %w", i, spec.Name, err)
			}
			leaf = r
		}

		var patch rules.Node = rules.Group{spec.Name: leaf}
		segs := splitPath(spec.Path)
		for j := len(segs) - 1; j >= 0; j-- {
			patch = rules.Group{segs[j]: patch}
		}
		g, _ := rules.Override(tree, patch).(rules.Group)
		if g == nil {
			g = rules.Group{}
		}
		tree = g
	}
	return tree, nil
}

func splitPath(p string) []string {
	if p == "" || p == schemaform.RootPoint {
		return nil
	}
	return strings.Split(p, ".")
}
