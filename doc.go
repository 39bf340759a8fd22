// Package schemaform compiles JSON Schemas into the two things a form or
// configuration layer needs: initial data and validation rules.
//
//   - Scaffold builds a default-populated value mirroring the schema's
//     properties (see package scaffold).
//   - BuildRules compiles a declarative rule tree keyed by property name and
//     by `schema`-prefixed keyword rules (see package rules).
//   - Validate and Explain evaluate a rule tree against data.
//
// Schemas are attached at mount points. The point "." merges into the root
// object; any other dot path nests the generated structure:
//
//	user, _ := schemaform.LoadSchemaFile("user.json")
//	prefs, _ := schemaform.LoadSchemaFile("prefs.yaml")
//	mounts := []schemaform.Mount{schemaform.Root(user), schemaform.At("settings.prefs", prefs)}
//
//	data, err := schemaform.Scaffold(mounts...)
//	tree, err := schemaform.BuildRules(mounts...)
//	ok := schemaform.Validate(tree, data)
//
// Mounts sharing a point are merged. For rules, same-named keyword rules are
// combined with AND. For data, explicit defaults win and otherwise the first
// value set is kept.
//
// Layout:
//   - jsonvalue: JSON type predicates and value access over Go values.
//   - jsonschema: the schema node and its JSON/YAML loaders.
//   - rules, validators: the rule tree, its evaluator and the keyword rules.
//   - scaffold: default values and data scaffolding.
//   - middleware: HTTP request body validation (gin and echo adapters in
//     their own modules).
//   - cmd/schemaform: the command line tool.
package schemaform
