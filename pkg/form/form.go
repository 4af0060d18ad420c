package form

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/dmitrymomot/formkit"
	"github.com/dmitrymomot/formkit/pkg/messages"
)

// formScope is the runner scope key for whole-form validation. The NUL
// prefix keeps it out of the field namespace.
const formScope = "\x00form"

// Form ties a FieldStore and an ErrorStore together with a cancellable
// validation runner. Validation failures are recorded in the error store and
// never surfaced as Go errors; a superseded run is discarded silently.
type Form struct {
	fields *FieldStore
	errors *ErrorStore

	debounce time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	running map[string]*validationRun
	timers  map[string]*time.Timer
}

type validationRun struct {
	cancel context.CancelFunc
}

// Option configures a Form during construction.
type Option func(*Form)

// WithLocalization sets the message table and locale used to resolve error
// text.
func WithLocalization(table messages.Table, locale string) Option {
	return func(f *Form) {
		f.errors.SetLocalization(table, locale)
	}
}

// WithDebounce delays per-field validation triggered by SetValue. A new value
// arriving within the window restarts it. Zero (the default) validates
// immediately.
func WithDebounce(d time.Duration) Option {
	return func(f *Form) {
		if d > 0 {
			f.debounce = d
		}
	}
}

// WithLogger sets the logger for degraded-mode reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Form) {
		if logger != nil {
			f.logger = logger
			f.errors.logger = logger
		}
	}
}

// New creates a form with its own field and error stores.
func New(opts ...Option) *Form {
	f := &Form{
		fields:  NewFieldStore(),
		errors:  NewErrorStore(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		running: make(map[string]*validationRun),
		timers:  make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fields exposes the underlying field store.
func (f *Form) Fields() *FieldStore { return f.fields }

// Errors exposes the underlying error store.
func (f *Form) Errors() *ErrorStore { return f.errors }

// Register adds a field to the form.
func (f *Form) Register(name string, field Field) {
	f.fields.SetField(name, field)
}

// SetValue stores a new field value and schedules validation for it,
// debounced when a window is configured.
func (f *Form) SetValue(name string, value any) {
	f.fields.SetValue(name, value)

	if f.debounce <= 0 {
		f.ValidateField(context.Background(), name)
		return
	}

	f.mu.Lock()
	if timer, ok := f.timers[name]; ok {
		timer.Stop()
	}
	f.timers[name] = time.AfterFunc(f.debounce, func() {
		f.ValidateField(context.Background(), name)
	})
	f.mu.Unlock()
}

// ValidateField validates one field against its schema and routes the
// outcome into the error store. Starting a run aborts any in-flight run for
// the same field; the stale run's result is discarded after its await point
// without touching state.
func (f *Form) ValidateField(ctx context.Context, name string) {
	field, ok := f.fields.Snapshot(name)
	if !ok {
		f.logger.Debug("form: validate for unregistered field", "field", name)
		return
	}
	if field.Schema == nil {
		f.errors.Clear(name)
		return
	}

	runCtx, done := f.begin(name, ctx)
	defer done()

	value := field.Value
	if field.Parse != nil {
		value = field.Parse(value)
	}

	_, err := field.Schema.Validate(runCtx, value)

	// Superseded or canceled: discard silently, state untouched.
	if runCtx.Err() != nil {
		return
	}

	if err == nil {
		f.errors.Clear(name)
		return
	}

	if issues, ok := formkit.AsIssues(err); ok {
		f.errors.ParseField(name, issues.Prefix(name))
		return
	}

	f.logger.Warn("form: schema failed without issues", "field", name, "error", err)
	f.errors.ParseField(name, formkit.Issues{{Rules: []string{"invalid"}}}.Prefix(name))
}

// Submit validates the whole form at once: every field schema is composed
// into one aggregate schema, validated in a single pass, and any failure is
// routed per field into the error store with whole-form replacement
// semantics. On success all stored errors are dropped and the validated
// value map is returned with ok=true.
func (f *Form) Submit(ctx context.Context) (map[string]any, bool) {
	schemas := make(map[string]formkit.Schema)
	values := make(map[string]any)
	for _, name := range f.fields.Names() {
		field, ok := f.fields.Snapshot(name)
		if !ok {
			continue
		}
		value := field.Value
		if field.Parse != nil {
			value = field.Parse(value)
		}
		values[name] = value
		schemas[name] = field.Schema
	}

	runCtx, done := f.begin(formScope, ctx)
	defer done()

	validated, err := formkit.Group(schemas).Validate(runCtx, values)

	if runCtx.Err() != nil {
		return nil, false
	}

	if err != nil {
		f.errors.ParseForm(err)
		return nil, false
	}

	f.errors.Reset()
	out, _ := validated.(map[string]any)
	return out, true
}

// Values returns the raw current value of every registered field.
func (f *Form) Values() map[string]any {
	out := make(map[string]any)
	for _, name := range f.fields.Names() {
		if field, ok := f.fields.Snapshot(name); ok {
			out[name] = field.Value
		}
	}
	return out
}

// Serialized returns field values with each field's Serialize hook applied.
func (f *Form) Serialized() map[string]any {
	out := make(map[string]any)
	for _, name := range f.fields.Names() {
		field, ok := f.fields.Snapshot(name)
		if !ok {
			continue
		}
		if field.Serialize != nil {
			out[name] = field.Serialize(field.Value)
			continue
		}
		out[name] = field.Value
	}
	return out
}

// FormValues returns field values as url.Values with each field's
// SerializeForm hook applied, for form-data style submission.
func (f *Form) FormValues() url.Values {
	out := make(url.Values)
	for _, name := range f.fields.Names() {
		field, ok := f.fields.Snapshot(name)
		if !ok {
			continue
		}
		value := field.Value
		if field.SerializeForm != nil {
			value = field.SerializeForm(value)
		}
		if value == nil {
			continue
		}
		if s, ok := value.(string); ok {
			out.Set(name, s)
			continue
		}
		out.Set(name, fmt.Sprintf("%v", value))
	}
	return out
}

// begin registers a new validation run for scope, canceling any in-flight
// run for the same scope. The returned done func releases the slot unless a
// newer run already replaced it.
func (f *Form) begin(scope string, parent context.Context) (context.Context, func()) {
	runCtx, cancel := context.WithCancel(parent)
	run := &validationRun{cancel: cancel}

	f.mu.Lock()
	if prev, ok := f.running[scope]; ok {
		prev.cancel()
	}
	f.running[scope] = run
	f.mu.Unlock()

	return runCtx, func() {
		f.mu.Lock()
		// Release the slot only while this run still owns it; a newer run
		// may have replaced it already.
		if f.running[scope] == run {
			delete(f.running, scope)
		}
		f.mu.Unlock()
		cancel()
	}
}
