// Package messages resolves localized validation messages from a
// hierarchical locale→field→rule table with wildcard fallbacks.
//
// Resolution is a strict six-step search from the most specific entry
// (exact locale, field and rule) down to the global wildcard; blank entries
// are treated as not configured. Tables can be built in code or loaded from
// YAML or JSON content.
//
// Usage:
//
//	table, _ := messages.ParseYAML(raw)
//	msg, ok := messages.Resolve(table, "email", "required", "en-US")
//
// Locale tags are matched as given first, then retried with the base
// language, so "en-US" picks up messages filed under "en".
package messages
