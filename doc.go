// Package formkit provides the shared validation contracts for the formkit
// toolkit: form field state, localized validation errors, and list-view
// (pagination/search/sort/filter) state management for Go applications.
//
// FormKit is designed for backends and rich clients that own form and list
// state outside of any UI framework. It focuses on explicitness, small
// composable packages, and behavior that is cheap to test in isolation.
//
// The root package defines the pieces every subpackage agrees on:
//
//   - Schema – the asynchronous validation collaborator contract
//   - Issue / Issues – the structured validation failure model
//   - Rules / RuleSchema – a registry of named predicates and a Schema
//     implementation built on top of it
//
// Subpackages:
//
//   - pkg/form – field store, error store, and a cancellable validation runner
//   - pkg/lister – pagination/search/sort/filter state with URL codec
//   - pkg/messages – localized message table resolution
//   - pkg/fieldpath – field path normalization helpers
//   - pkg/signer – order-independent content signatures
//   - pkg/config – environment-based configuration loading
//
// Basic Usage:
//
//	schema := formkit.NewRuleSchema(nil).
//		Field("email", formkit.Rule("required"), formkit.Rule("email")).
//		Field("age", formkit.Rule("min", 18))
//
//	if _, err := schema.Validate(ctx, input); err != nil {
//		if issues, ok := formkit.AsIssues(err); ok {
//			// issues lists {Path, Rules} pairs, e.g. {"email", ["required"]}
//		}
//	}
//
// Rule names are tokens, never human-readable text; message resolution is the
// job of pkg/messages and the error store in pkg/form.
package formkit
