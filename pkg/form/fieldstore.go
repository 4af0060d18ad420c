package form

import (
	"reflect"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/formkit"
)

// Transform is an optional pure value hook attached to a field at
// registration: Parse runs before validation, Serialize before generic
// serialization, SerializeForm before form-data serialization.
type Transform func(value any) any

// Field is the runtime context of one registered field. The store owns its
// copy exclusively; the Schema reference is externally owned and never
// mutated here.
type Field struct {
	// ID is a stable opaque identifier, minted at registration when empty.
	ID string

	// Value is the current field value.
	Value any

	// Touched becomes true once the value changes from its registration
	// value and stays true until an explicit reset.
	Touched bool

	// Schema validates the field's value; may be nil for display-only fields.
	Schema formkit.Schema

	// Initial is the value applied when the field is reset without an
	// explicit replacement.
	Initial any

	Parse         Transform
	Serialize     Transform
	SerializeForm Transform
}

// FieldStore is the per-form registry of field contexts with per-field
// change notification. All methods are safe for concurrent use.
type FieldStore struct {
	mu     sync.RWMutex
	fields map[string]*Field
	subs   *notifier
}

// NewFieldStore creates an empty field store. One store serves one form
// instance.
func NewFieldStore() *FieldStore {
	return &FieldStore{
		fields: make(map[string]*Field),
		subs:   newNotifier(),
	}
}

// SetField registers or overwrites a field's full context and notifies the
// field's subscribers. An empty ID is replaced with a fresh one.
func (s *FieldStore) SetField(name string, field Field) {
	if name == "" {
		return
	}
	if field.ID == "" {
		field.ID = uuid.NewString()
	}

	s.mu.Lock()
	s.fields[name] = &field
	s.mu.Unlock()

	s.subs.notify(name)
}

// SetValue updates a field's value. Touched is monotonic: it flips to true
// when the value differs from the previous one and then stays true until an
// explicit reset. Subscribers are notified unconditionally even when the
// field is unregistered, in which case nothing else happens.
func (s *FieldStore) SetValue(name string, value any) {
	s.mu.Lock()
	if f, ok := s.fields[name]; ok {
		f.Touched = f.Touched || !reflect.DeepEqual(f.Value, value)
		f.Value = value
	}
	s.mu.Unlock()

	s.subs.notify(name)
}

// ResetField restores a field to an untouched state. When a value is given
// it becomes the new current value, otherwise the field's Initial is used.
func (s *FieldStore) ResetField(name string, value ...any) {
	s.mu.Lock()
	if f, ok := s.fields[name]; ok {
		f.Touched = false
		if len(value) > 0 {
			f.Value = value[0]
		} else {
			f.Value = f.Initial
		}
	}
	s.mu.Unlock()

	s.subs.notify(name)
}

// Reset bulk-resets the named fields and emits a single notify-all wave at
// the end instead of one notification per field, so hosts re-render once.
func (s *FieldStore) Reset(values map[string]any) {
	s.mu.Lock()
	for name, value := range values {
		if f, ok := s.fields[name]; ok {
			f.Touched = false
			if value != nil {
				f.Value = value
			} else {
				f.Value = f.Initial
			}
		}
	}
	s.mu.Unlock()

	s.subs.notifyAll()
}

// Snapshot returns a copy of the field's context.
func (s *FieldStore) Snapshot(name string) (Field, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.fields[name]
	if !ok {
		return Field{}, false
	}
	return *f, true
}

// Names returns the registered field names in unspecified order.
func (s *FieldStore) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.fields))
	for name := range s.fields {
		names = append(names, name)
	}
	return names
}

// Subscribe registers a listener for one field name.
func (s *FieldStore) Subscribe(name string, fn func()) func() {
	return s.subs.subscribe(name, fn)
}
