package form

import (
	"io"
	"log/slog"
	"maps"
	"strings"
	"sync"

	"github.com/dmitrymomot/formkit"
	"github.com/dmitrymomot/formkit/pkg/fieldpath"
	"github.com/dmitrymomot/formkit/pkg/messages"
)

// Query selects how Snapshot resolves a path.
type Query string

const (
	// QueryAbsolute looks up the flattened path, falling back to the
	// array-wildcarded path when no exact entry exists.
	QueryAbsolute Query = "absolute"

	// QueryRelative looks up the root segment of the path, which is how a
	// container subscribed at "users" observes errors on "users.0.email".
	QueryRelative Query = "relative"
)

// Message is one resolved error message. Fixed messages were supplied
// explicitly by the caller (e.g. taken from a server response) and survive
// relocalization; non-fixed messages are recomputed whenever the active
// locale or message table changes.
type Message struct {
	Text  string
	Fixed bool
}

// FieldErrors maps rule name to its message for one field path.
type FieldErrors map[string]Message

// ErrorStore is the per-form registry of validation errors, indexed by
// normalized field path with per-path change notification.
//
// One logical error is stored once, keyed by its flattened path; root and
// wildcard lookups are served by derived indexes rather than duplicate
// copies, so the three views can never drift apart. Root-level copies taken
// at invalidation time persist through Clear and disappear only on Reset,
// matching container-level semantics.
//
// All methods are safe for concurrent use.
type ErrorStore struct {
	mu sync.RWMutex

	// flattened path -> rule -> message (authoritative)
	errs map[string]FieldErrors
	// wildcard path -> set of flattened paths it covers
	wildcards map[string]map[string]struct{}
	// root segment -> rule -> message, persisted until Reset
	roots map[string]FieldErrors

	table  messages.Table
	locale string

	subs   *notifier
	logger *slog.Logger
}

// ErrorStoreOption configures an ErrorStore during construction.
type ErrorStoreOption func(*ErrorStore)

// WithMessages sets the initial message table and locale.
func WithMessages(table messages.Table, locale string) ErrorStoreOption {
	return func(s *ErrorStore) {
		s.table = table
		s.locale = messages.Normalize(locale)
	}
}

// WithErrorLogger sets the logger used for degraded-mode reporting.
func WithErrorLogger(logger *slog.Logger) ErrorStoreOption {
	return func(s *ErrorStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewErrorStore creates an empty error store. One store serves one form
// instance; there is no shared global store.
func NewErrorStore(opts ...ErrorStoreOption) *ErrorStore {
	s := &ErrorStore{
		errs:      make(map[string]FieldErrors),
		wildcards: make(map[string]map[string]struct{}),
		roots:     make(map[string]FieldErrors),
		subs:      newNotifier(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetLocalization replaces the active message table and locale, re-resolves
// every non-fixed stored message in place, and notifies all subscribers
// unconditionally.
func (s *ErrorStore) SetLocalization(table messages.Table, locale string) {
	s.mu.Lock()
	s.table = table
	s.locale = messages.Normalize(locale)

	for path, fe := range s.errs {
		s.relocalize(path, fe)
	}
	for root, fe := range s.roots {
		s.relocalize(root, fe)
	}
	s.mu.Unlock()

	s.subs.notifyAll()
}

// relocalize recomputes non-fixed messages for one entry. Caller holds the lock.
func (s *ErrorStore) relocalize(field string, fe FieldErrors) {
	for rule, msg := range fe {
		if msg.Fixed {
			continue
		}
		fe[rule] = Message{Text: s.resolve(field, rule)}
	}
}

// resolve finds the display text for a rule, trying the flattened path, then
// its root segment, and finally falling back to the rule name itself so an
// error never vanishes silently. Caller holds the lock.
func (s *ErrorStore) resolve(path, rule string) string {
	if msg, ok := messages.Resolve(s.table, path, rule, s.locale); ok {
		return msg
	}
	if root := fieldpath.Root(path); root != path {
		if msg, ok := messages.Resolve(s.table, root, rule, s.locale); ok {
			return msg
		}
	}
	return rule
}

// Invalidate records one rule failure at path. A supplied message is stored
// as fixed; otherwise the message is resolved from the active table. The
// flattened, root, and wildcard views of the path are all notified.
func (s *ErrorStore) Invalidate(path, rule string, fixed ...string) {
	flat := fieldpath.Flatten(path)
	if flat == "" || rule == "" {
		return
	}
	root := fieldpath.Root(flat)
	wild := fieldpath.Wildcard(flat)

	s.mu.Lock()

	var msg Message
	if len(fixed) > 0 && fixed[0] != "" {
		msg = Message{Text: fixed[0], Fixed: true}
	} else {
		msg = Message{Text: s.resolve(flat, rule)}
	}

	if s.errs[flat] == nil {
		s.errs[flat] = make(FieldErrors)
	}
	s.errs[flat][rule] = msg

	if wild != flat {
		if s.wildcards[wild] == nil {
			s.wildcards[wild] = make(map[string]struct{})
		}
		s.wildcards[wild][flat] = struct{}{}
	}

	// The root copy is written only when it does not coincide with the
	// flattened entry; coinciding forms collapse to the single record.
	if root != flat {
		if s.roots[root] == nil {
			s.roots[root] = make(FieldErrors)
		}
		s.roots[root][rule] = msg
	}

	s.mu.Unlock()

	s.subs.notify(flat, root, wild)
}

// Clear removes the flattened and wildcard entries for path. Root-level
// copies persist until Reset.
func (s *ErrorStore) Clear(path string) {
	flat := fieldpath.Flatten(path)
	if flat == "" {
		return
	}
	wild := fieldpath.Wildcard(flat)

	s.mu.Lock()
	delete(s.errs, flat)
	if set, ok := s.wildcards[wild]; ok {
		delete(set, flat)
		if len(set) == 0 {
			delete(s.wildcards, wild)
		}
	}
	s.mu.Unlock()

	s.subs.notify(flat, wild)
}

// Reset drops every stored error, including persisted root copies, and
// notifies all subscribers.
func (s *ErrorStore) Reset() {
	s.mu.Lock()
	clear(s.errs)
	clear(s.wildcards)
	clear(s.roots)
	s.mu.Unlock()

	s.subs.notifyAll()
}

// ParseForm replaces the whole store's contents from an aggregate validation
// error. Partial errors from a previous validation pass never linger.
// Errors that carry no Issues collection are ignored.
func (s *ErrorStore) ParseForm(err error) {
	s.Reset()

	issues, ok := formkit.AsIssues(err)
	if !ok {
		s.logger.Debug("form: ignoring non-issues validation error", "error", err)
		return
	}

	for _, issue := range issues {
		for _, rule := range issue.Rules {
			s.Invalidate(issue.Path, rule)
		}
	}
}

// ParseResponse replaces the store's contents from an external response
// shaped as path -> (rule->message map | list of rule names). Map entries
// carry server-provided text and are stored fixed; list entries get locally
// resolved messages.
func (s *ErrorStore) ParseResponse(resp map[string]any) {
	s.Reset()

	for path, entry := range resp {
		switch v := entry.(type) {
		case map[string]any:
			for rule, raw := range v {
				if text, ok := raw.(string); ok {
					s.Invalidate(path, rule, text)
				}
			}
		case map[string]string:
			for rule, text := range v {
				s.Invalidate(path, rule, text)
			}
		case []string:
			for _, rule := range v {
				s.Invalidate(path, rule)
			}
		case []any:
			for _, raw := range v {
				if rule, ok := raw.(string); ok {
					s.Invalidate(path, rule)
				}
			}
		default:
			s.logger.Debug("form: unrecognized response error entry", "path", path)
		}
	}
}

// ParseField is the scoped version of ParseForm for a single field: it clears
// that field's errors, then re-invalidates from the error, notifying only the
// touched path keys.
func (s *ErrorStore) ParseField(path string, err error) {
	s.clearSubtree(path)

	issues, ok := formkit.AsIssues(err)
	if !ok {
		return
	}

	for _, issue := range issues {
		target := path
		if issue.Path != "" {
			target = issue.Path
		}
		for _, rule := range issue.Rules {
			s.Invalidate(target, rule)
		}
	}
}

// clearSubtree removes every flattened and wildcard entry rooted at path's
// root segment, so re-invalidation after a fresh per-field validation pass
// never leaves stale nested entries behind.
func (s *ErrorStore) clearSubtree(path string) {
	root := fieldpath.Root(path)
	if root == "" {
		return
	}

	s.mu.Lock()
	touched := []string{root}
	for flat := range s.errs {
		if flat == root || strings.HasPrefix(flat, root+".") {
			wild := fieldpath.Wildcard(flat)
			delete(s.errs, flat)
			if set, ok := s.wildcards[wild]; ok {
				delete(set, flat)
				if len(set) == 0 {
					delete(s.wildcards, wild)
				}
			}
			touched = append(touched, flat, wild)
		}
	}
	s.mu.Unlock()

	s.subs.notify(touched...)
}

// Snapshot returns the stored errors visible at path for the given query
// mode, or nil when nothing is stored. The returned map is a copy.
func (s *ErrorStore) Snapshot(path string, query Query) FieldErrors {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch query {
	case QueryRelative:
		root := fieldpath.Root(path)
		out := make(FieldErrors)
		maps.Copy(out, s.roots[root])
		maps.Copy(out, s.errs[root])
		if len(out) == 0 {
			return nil
		}
		return out

	default: // QueryAbsolute
		flat := fieldpath.Flatten(path)
		if fe, ok := s.errs[flat]; ok {
			out := make(FieldErrors, len(fe))
			maps.Copy(out, fe)
			return out
		}

		// Fall back to the wildcard view: either the caller queried with a
		// wildcard path directly, or a sibling index holds the entry.
		wild := fieldpath.Wildcard(flat)
		set, ok := s.wildcards[wild]
		if !ok || len(set) == 0 {
			return nil
		}
		out := make(FieldErrors)
		for member := range set {
			maps.Copy(out, s.errs[member])
		}
		if len(out) == 0 {
			return nil
		}
		return out
	}
}

// Subscribe registers a listener for one exact path key. Root, flattened and
// wildcard forms are independent registrations; Invalidate touches all three
// keys of a logical error, so both a container subscribed at "users" and a
// row subscribed at "users.0.email" observe it.
func (s *ErrorStore) Subscribe(path string, fn func()) func() {
	return s.subs.subscribe(path, fn)
}
