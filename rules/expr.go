package rules

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/reoring/schemaform/jsonvalue"
)

// Expr compiles a boolean expr-lang expression into a leaf rule. The subject
// is bound to `value`; an undefined subject passes. Evaluation errors and
// non-boolean results fail the rule.
//
//	r, _ := rules.Expr("even", "value % 2 == 0")
func Expr(kind, expression string) (*Rule, error) {
	prog, err := CompileExpression(expression)
	if err != nil {
		return nil, err
	}
	return &Rule{
		Kind:   kind,
		Params: map[string]any{"expression": expression},
		Test: func(v any) bool {
			if jsonvalue.IsUndefined(v) {
				return true
			}
			out, err := expr.Run(prog, map[string]any{"value": v})
			if err != nil {
				return false
			}
			ok, _ := out.(bool)
			return ok
		},
	}, nil
}

// CompileExpression compiles an expression string into an expr-lang program.
func CompileExpression(expression string) (*vm.Program, error) {
	prog, err := expr.Compile(expression, expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile expression: %w", err)
	}
	return prog, nil
}
