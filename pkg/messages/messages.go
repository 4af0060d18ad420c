package messages

import (
	"strings"

	"golang.org/x/text/language"
)

// Table is a hierarchical message tree. The outer keys are locales and/or
// field names, nested maps hold field and rule entries, and "*" acts as a
// wildcard at every level:
//
//	Table{
//		"en": map[string]any{
//			"email": map[string]any{"required": "Email is required"},
//			"*":     "Invalid value",
//		},
//		"email": map[string]any{"*": "Check the email field"},
//		"*":     "Invalid input",
//	}
type Table map[string]any

// Wildcard matches any field or rule at its level of the table.
const Wildcard = "*"

// Resolve finds the most specific message for a (field, rule, locale) triple.
// The fallback search runs in this strict order, returning the first
// candidate whose trimmed text is non-empty:
//
//  1. table[locale][field][rule]
//  2. table[locale][field]["*"]
//  3. table[field][rule]
//  4. table[field]["*"]
//  5. table[locale]["*"]
//  6. table["*"]
//
// An empty locale skips steps 1, 2 and 5. A present-but-blank candidate is
// treated as not configured and the search continues. When the exact locale
// finds nothing, the search is repeated once with the locale's base language
// ("en-US" falls back to "en").
func Resolve(table Table, field, rule, locale string) (string, bool) {
	if msg, ok := resolve(table, field, rule, locale); ok {
		return msg, true
	}

	if base := baseOf(locale); base != "" && base != locale {
		return resolve(table, field, rule, base)
	}

	return "", false
}

func resolve(table Table, field, rule, locale string) (string, bool) {
	steps := [][]string{
		{locale, field, rule},
		{locale, field, Wildcard},
		{field, rule},
		{field, Wildcard},
		{locale, Wildcard},
		{Wildcard},
	}

	for _, keys := range steps {
		if keys[0] == "" {
			continue
		}
		if msg, ok := lookup(table, keys); ok {
			return msg, true
		}
	}

	return "", false
}

// lookup walks the table along keys and accepts only non-blank string leaves.
func lookup(table Table, keys []string) (string, bool) {
	var current any = map[string]any(table)

	for _, key := range keys {
		m, ok := current.(map[string]any)
		if !ok {
			return "", false
		}
		current, ok = m[key]
		if !ok {
			return "", false
		}
	}

	msg, ok := current.(string)
	if !ok || strings.TrimSpace(msg) == "" {
		return "", false
	}
	return msg, true
}

// Normalize canonicalizes a BCP-47 locale tag ("en_us" -> "en-US").
// Unparseable input is returned verbatim so ad-hoc locale keys keep working.
func Normalize(locale string) string {
	if locale == "" {
		return ""
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return locale
	}
	return tag.String()
}

// baseOf returns the base language of a locale tag, or "" when the tag does
// not parse.
func baseOf(locale string) string {
	if locale == "" {
		return ""
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return ""
	}

	base, conf := tag.Base()
	if conf == language.No {
		return ""
	}
	return base.String()
}
