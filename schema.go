package formkit

import (
	"context"
	"sort"
	"strings"
)

// Schema is the validation collaborator contract consumed by pkg/form.
//
// Validate checks the value and returns the validated (possibly transformed)
// result. On failure the returned error is, or wraps, an Issues collection
// whose entries carry rule-name tokens rather than display text. Validate
// must honor context cancellation: a canceled run returns ctx.Err() without
// reporting issues.
type Schema interface {
	Validate(ctx context.Context, value any) (any, error)
}

// RuleSpec names a registered rule together with its parameters.
type RuleSpec struct {
	Name   string
	Params []any
}

// Rule is a convenience constructor for RuleSpec.
func Rule(name string, params ...any) RuleSpec {
	return RuleSpec{Name: name, Params: params}
}

// RuleSchema validates a value field-by-field against predicates from a Rules
// registry. Field paths use the dotted notation of pkg/fieldpath, so nested
// values ("address.city") are reachable. Validation never aborts early: every
// declared field is checked and all failures are reported together.
type RuleSchema struct {
	rules  *Rules
	fields map[string][]RuleSpec
	order  []string
}

// NewRuleSchema creates a schema backed by the given registry.
// A nil registry falls back to DefaultRules.
func NewRuleSchema(rules *Rules) *RuleSchema {
	if rules == nil {
		rules = DefaultRules()
	}
	return &RuleSchema{
		rules:  rules,
		fields: make(map[string][]RuleSpec),
	}
}

// Field declares rules for a dotted field path. Repeated calls for the same
// path append. Returns the schema for chaining.
func (s *RuleSchema) Field(path string, specs ...RuleSpec) *RuleSchema {
	if path == "" {
		return s
	}
	if _, ok := s.fields[path]; !ok {
		s.order = append(s.order, path)
	}
	s.fields[path] = append(s.fields[path], specs...)
	return s
}

// Validate checks every declared field. When the input is a map the returned
// value is stripped down to the declared fields (unknown keys are dropped);
// any other input is returned as-is.
//
// A rule name with no registered predicate fails its field and is reported
// under its own name, keeping registry misconfiguration visible instead of
// silently passing.
func (s *RuleSchema) Validate(ctx context.Context, value any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var issues Issues
	for _, path := range s.order {
		fieldValue, _ := dig(value, path)

		var failed []string
		for _, spec := range s.fields[path] {
			pred, ok := s.rules.Lookup(spec.Name)
			if !ok || !pred(fieldValue, spec.Params...) {
				failed = append(failed, spec.Name)
			}
		}
		if len(failed) > 0 {
			issues = append(issues, Issue{Path: path, Rules: failed})
		}
	}

	if len(issues) > 0 {
		return nil, issues
	}

	return s.strip(value), nil
}

// strip keeps only declared root keys when the value is a map.
func (s *RuleSchema) strip(value any) any {
	m, ok := value.(map[string]any)
	if !ok {
		return value
	}

	roots := make(map[string]struct{}, len(s.order))
	for _, path := range s.order {
		root, _, _ := strings.Cut(path, ".")
		roots[root] = struct{}{}
	}

	out := make(map[string]any, len(roots))
	for k, v := range m {
		if _, ok := roots[k]; ok {
			out[k] = v
		}
	}
	return out
}

// dig walks a dotted path through nested maps.
func dig(value any, path string) (any, bool) {
	if path == "" {
		return value, true
	}

	current := value
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// ValueSchema applies rules directly to the value being validated, without
// any field addressing. This is the usual shape for per-field schemas handed
// to pkg/form: the field store validates each field's own value against it.
// Failed rules are reported under an empty path; callers nest them under the
// field name via Issues.Prefix.
type ValueSchema struct {
	rules *Rules
	specs []RuleSpec
}

// NewValueSchema creates a value-level schema from the given rules.
// A nil registry falls back to DefaultRules.
func NewValueSchema(rules *Rules, specs ...RuleSpec) *ValueSchema {
	if rules == nil {
		rules = DefaultRules()
	}
	return &ValueSchema{rules: rules, specs: specs}
}

func (s *ValueSchema) Validate(ctx context.Context, value any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var failed []string
	for _, spec := range s.specs {
		pred, ok := s.rules.Lookup(spec.Name)
		if !ok || !pred(value, spec.Params...) {
			failed = append(failed, spec.Name)
		}
	}

	if len(failed) > 0 {
		return nil, Issues{{Rules: failed}}
	}
	return value, nil
}

// Group composes per-field schemas into a single whole-form schema. The input
// value must be a map of field name to field value; each sub-schema validates
// its own entry and failures are merged with paths nested under the field
// name. Fields are validated in sorted name order for deterministic output.
func Group(fields map[string]Schema) Schema {
	return groupSchema(fields)
}

type groupSchema map[string]Schema

func (g groupSchema) Validate(ctx context.Context, value any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	values, _ := value.(map[string]any)

	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)

	validated := make(map[string]any, len(g))
	var issues Issues
	for _, name := range names {
		schema := g[name]
		if schema == nil {
			validated[name] = values[name]
			continue
		}

		out, err := schema.Validate(ctx, values[name])
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if sub, ok := AsIssues(err); ok {
				issues = issues.Merge(sub.Prefix(name))
				continue
			}
			return nil, err
		}
		validated[name] = out
	}

	if len(issues) > 0 {
		return nil, issues
	}
	return validated, nil
}
