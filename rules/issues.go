package rules

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType     = "invalid_type"
	CodeRequired        = "required"
	CodeUnknownKey      = "unknown_key"
	CodeTooSmall        = "too_small"
	CodeTooBig          = "too_big"
	CodeTooShort        = "too_short"
	CodeTooLong         = "too_long"
	CodeOutOfRange      = "out_of_range"
	CodePattern         = "pattern"
	CodeInvalidEnum     = "invalid_enum"
	CodeInvalidConst    = "invalid_const"
	CodeNotMultiple     = "not_multiple"
	CodeUniqueness      = "uniqueness"
	CodeNotAllowed      = "not_allowed"
	CodeDependency      = "dependency"
	CodeComposition     = "composition"
	CodeInvalidItem     = "invalid_item"
	CodeInvalidKey      = "invalid_key"
	CodeExpression      = "expression"
	CodeRuleViolation   = "rule_violation"
	CodeUnionAmbiguous  = "union_ambiguous"
	CodeUnionNoMatch    = "union_no_match"
	CodeContainsMissing = "contains_missing"
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/2/price).
	Code    string // One of the codes listed above.
	Message string
	// Params carries the rule's structured parameters (e.g., {"min":1}) for
	// i18n and observability. The owning schema is not included.
	Params map[string]any
	// Rule records the rule key that produced this issue (e.g., schemaMinLength).
	Rule string
	// Kind is the rule kind (e.g., minLength).
	Kind string
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. too_short at /name
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Err returns iss as an error, or nil when empty.
func (iss Issues) Err() error {
	if len(iss) == 0 {
		return nil
	}
	return iss
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// kindCodes maps rule kinds onto issue codes.
var kindCodes = map[string]string{
	"type":                 CodeInvalidType,
	"types":                CodeInvalidType,
	"required":             CodeRequired,
	"notPresent":           CodeNotAllowed,
	"minLength":            CodeTooShort,
	"maxLength":            CodeTooLong,
	"minItems":             CodeTooShort,
	"maxItems":             CodeTooLong,
	"minProperties":        CodeTooShort,
	"maxProperties":        CodeTooLong,
	"minimum":              CodeTooSmall,
	"exclusiveMinimum":     CodeTooSmall,
	"maximum":              CodeTooBig,
	"exclusiveMaximum":     CodeTooBig,
	"between":              CodeOutOfRange,
	"multipleOf":           CodeNotMultiple,
	"pattern":              CodePattern,
	"enum":                 CodeInvalidEnum,
	"const":                CodeInvalidConst,
	"uniqueItems":          CodeUniqueness,
	"items":                CodeInvalidItem,
	"additionalItems":      CodeInvalidItem,
	"contains":             CodeContainsMissing,
	"dependencies":         CodeDependency,
	"patternProperties":    CodeInvalidKey,
	"additionalProperties": CodeUnknownKey,
	"propertyNames":        CodeInvalidKey,
	"allOf":                CodeComposition,
	"anyOf":                CodeUnionNoMatch,
	"oneOf":                CodeUnionAmbiguous,
	"not":                  CodeComposition,
	"expression":           CodeExpression,
}

// CodeFor returns the issue code reported for a rule kind.
func CodeFor(kind string) string {
	if c, ok := kindCodes[kind]; ok {
		return c
	}
	return CodeRuleViolation
}
