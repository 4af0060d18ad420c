package formkit

import (
	"errors"
	"fmt"
	"strings"
)

// Issue reports a single failed field: the field path plus the names of the
// rules that rejected it. Rule names are tokens (e.g. "required", "min"),
// never human-readable messages.
type Issue struct {
	Path  string
	Rules []string
}

// Issues aggregates validation failures across fields.
// It implements the error interface so schemas can return it directly.
type Issues []Issue

func (is Issues) Error() string {
	if len(is) == 0 {
		return "validation failed"
	}

	var parts []string
	for _, issue := range is {
		parts = append(parts, fmt.Sprintf("%s: %s", issue.Path, strings.Join(issue.Rules, ",")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether any issue was recorded for the given path.
func (is Issues) Has(path string) bool {
	for _, issue := range is {
		if issue.Path == path {
			return true
		}
	}
	return false
}

// RulesFor returns the failed rule names for a path, in recorded order.
func (is Issues) RulesFor(path string) []string {
	var rules []string
	for _, issue := range is {
		if issue.Path == path {
			rules = append(rules, issue.Rules...)
		}
	}
	return rules
}

// Merge appends issues from another collection, combining entries that share
// a path so each path appears at most once in the result.
func (is Issues) Merge(other Issues) Issues {
	merged := make(Issues, 0, len(is)+len(other))
	index := make(map[string]int)

	for _, src := range [2]Issues{is, other} {
		for _, issue := range src {
			if i, ok := index[issue.Path]; ok {
				merged[i].Rules = append(merged[i].Rules, issue.Rules...)
				continue
			}
			index[issue.Path] = len(merged)
			merged = append(merged, Issue{Path: issue.Path, Rules: append([]string(nil), issue.Rules...)})
		}
	}

	return merged
}

// Prefix returns a copy of the issues with every path nested under the given
// prefix. Issues with an empty path take the prefix itself.
func (is Issues) Prefix(prefix string) Issues {
	if prefix == "" {
		return is
	}

	out := make(Issues, len(is))
	for i, issue := range is {
		path := prefix
		if issue.Path != "" {
			path = prefix + "." + issue.Path
		}
		out[i] = Issue{Path: path, Rules: append([]string(nil), issue.Rules...)}
	}
	return out
}

// AsIssues extracts an Issues collection from an error chain.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}

	var issues Issues
	if errors.As(err, &issues) {
		return issues, true
	}

	return nil, false
}
