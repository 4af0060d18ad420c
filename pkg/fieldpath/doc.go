// Package fieldpath normalizes dotted/bracketed field paths into the three
// canonical forms the formkit stores index by: flattened ("a.0.b"), root
// ("a"), and array-wildcarded ("a.*.b").
//
// All functions are pure and total: there is no failure mode beyond returning
// the empty string for empty input.
//
// Usage:
//
//	fieldpath.Flatten("users[0].email") // "users.0.email"
//	fieldpath.Root("users[0].email")    // "users"
//	fieldpath.Wildcard("users.0.email") // "users.*.email"
package fieldpath
