package fieldpath

import "strings"

// Flatten converts bracket-array notation to dot notation: "a[0].b" becomes
// "a.0.b". Repeated dots collapse and leading/trailing dots are stripped, so
// malformed input degrades to the closest well-formed path. Empty input
// returns the empty string.
func Flatten(path string) string {
	if path == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(path))
	for _, r := range path {
		switch r {
		case '[', ']':
			b.WriteByte('.')
		default:
			b.WriteRune(r)
		}
	}

	segments := strings.FieldsFunc(b.String(), func(r rune) bool { return r == '.' })
	return strings.Join(segments, ".")
}

// Root returns the first dot-segment of the flattened path.
func Root(path string) string {
	flat := Flatten(path)
	root, _, _ := strings.Cut(flat, ".")
	return root
}

// Wildcard returns the flattened path with every purely numeric segment
// replaced by "*", so an array-element path matches any index:
// "users.0.email" becomes "users.*.email".
func Wildcard(path string) string {
	flat := Flatten(path)
	if flat == "" {
		return ""
	}

	segments := strings.Split(flat, ".")
	for i, seg := range segments {
		if isNumeric(seg) {
			segments[i] = "*"
		}
	}
	return strings.Join(segments, ".")
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
