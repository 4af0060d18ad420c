package formkit

import (
	"maps"
	"net/mail"
	"reflect"
	"regexp"
	"strconv"
	"sync"
)

// Predicate checks a value against rule parameters and reports whether the
// value passes. Predicates must be pure and safe for concurrent use.
type Predicate func(value any, params ...any) bool

// Rules is a registry of named predicates. The schema layer looks predicates
// up explicitly by name; nothing is attached to third-party types at runtime.
type Rules struct {
	mu    sync.RWMutex
	preds map[string]Predicate
}

// NewRules creates an empty registry.
func NewRules() *Rules {
	return &Rules{preds: make(map[string]Predicate)}
}

// Register adds or replaces a predicate under the given name.
func (r *Rules) Register(name string, p Predicate) error {
	if name == "" {
		return ErrEmptyRuleName
	}
	if p == nil {
		return ErrNilPredicate
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.preds[name] = p
	return nil
}

// Lookup returns the predicate registered under name.
func (r *Rules) Lookup(name string) (Predicate, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.preds[name]
	return p, ok
}

// Clone returns an independent copy of the registry. Use it to extend the
// defaults without mutating the shared instance.
func (r *Rules) Clone() *Rules {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clone := &Rules{preds: make(map[string]Predicate, len(r.preds))}
	maps.Copy(clone.preds, r.preds)
	return clone
}

var (
	defaultRules     *Rules
	defaultRulesOnce sync.Once
)

// DefaultRules returns the process-wide registry preloaded with the built-in
// predicates: required, min, max, email, pattern. The returned instance is
// shared; Clone it before registering custom rules.
func DefaultRules() *Rules {
	defaultRulesOnce.Do(func() {
		defaultRules = NewRules()
		_ = defaultRules.Register("required", requiredRule)
		_ = defaultRules.Register("min", minRule)
		_ = defaultRules.Register("max", maxRule)
		_ = defaultRules.Register("email", emailRule)
		_ = defaultRules.Register("pattern", patternRule)
	})
	return defaultRules
}

func requiredRule(value any, _ ...any) bool {
	if value == nil {
		return false
	}

	switch v := value.(type) {
	case string:
		return v != ""
	case bool:
		return v
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	case reflect.Ptr, reflect.Interface:
		return !rv.IsNil()
	}

	return !rv.IsZero()
}

// minRule compares numerically for numbers and by length for strings, slices
// and maps. Missing or non-numeric parameters fail the rule.
func minRule(value any, params ...any) bool {
	limit, ok := numericParam(params)
	if !ok {
		return false
	}

	if n, ok := toFloat(value); ok {
		return n >= limit
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return float64(rv.Len()) >= limit
	}

	return false
}

func maxRule(value any, params ...any) bool {
	limit, ok := numericParam(params)
	if !ok {
		return false
	}

	if n, ok := toFloat(value); ok {
		return n <= limit
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return float64(rv.Len()) <= limit
	}

	return false
}

func emailRule(value any, _ ...any) bool {
	s, ok := value.(string)
	if !ok || s == "" {
		return false
	}
	_, err := mail.ParseAddress(s)
	return err == nil
}

func patternRule(value any, params ...any) bool {
	if len(params) == 0 {
		return false
	}

	expr, ok := params[0].(string)
	if !ok {
		return false
	}

	s, ok := value.(string)
	if !ok {
		return false
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return false
	}
	return re.MatchString(s)
}

func numericParam(params []any) (float64, bool) {
	if len(params) == 0 {
		return 0, false
	}
	return toFloat(params[0])
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}
