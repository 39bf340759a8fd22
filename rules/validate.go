package rules

import "github.com/reoring/schemaform/jsonvalue"

// Validate reports whether value satisfies every rule in the tree.
//
// A leaf under a key tests the current subject. A nested group under key K
// tests the member K of the current subject, and passes when the subject is
// undefined or null. The Each group applies to every element when the subject
// is an array; other subjects pass it.
func Validate(n Node, value any) bool {
	return validateNode(n, value, jsonvalue.Undefined)
}

func validateNode(n Node, subject, parent any) bool {
	switch t := n.(type) {
	case *Rule:
		return t.Check(subject, parent)
	case Group:
		return validateGroup(t, subject, parent)
	case *Deferred:
		return validateGroup(t.Resolve(), subject, parent)
	default:
		return true
	}
}

func validateGroup(g Group, subject, parent any) bool {
	for key, child := range g {
		if !validateEntry(key, child, subject, parent) {
			return false
		}
	}
	return true
}

func validateEntry(key string, child Node, subject, parent any) bool {
	if r, ok := child.(*Rule); ok {
		return r.Check(subject, parent)
	}
	if !isGroupLike(child) {
		return true
	}
	if key == Each {
		elems, ok := jsonvalue.Elements(subject)
		if !ok {
			return true
		}
		for _, e := range elems {
			if !validateNode(child, e, subject) {
				return false
			}
		}
		return true
	}
	if jsonvalue.IsAbsent(subject) {
		return true
	}
	return validateNode(child, jsonvalue.Member(subject, key), subject)
}
