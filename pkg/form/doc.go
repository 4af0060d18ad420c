// Package form manages form state: a registry of field contexts, a registry
// of validation errors with localized message resolution, and a cancellable
// validation runner tying the two together.
//
// # Stores
//
// FieldStore holds one context per registered field (value, touched flag,
// schema reference, transform hooks) with per-field change notification.
// ErrorStore holds validation errors keyed by normalized field path, indexed
// three ways per logical error — root segment, flattened path, and
// array-wildcarded path — so a container subscribed at "users" and a row
// subscribed at "users.0.email" both observe the same failure. Both stores
// are instantiated per form; there is no shared global state.
//
// # Validation
//
// Form composes the stores with per-scope cancellation: starting a new
// validation for a field (or for the whole form on Submit) aborts any
// in-flight run for the same scope, and the stale result is discarded
// silently after its await point. Failures are translated into ErrorStore
// entries and never returned to the caller; message text is resolved through
// pkg/messages, with explicitly supplied (fixed) messages surviving
// relocalization.
//
// Usage:
//
//	f := form.New(
//		form.WithLocalization(table, "en"),
//		form.WithDebounce(300*time.Millisecond),
//	)
//	f.Register("email", form.Field{
//		Schema: formkit.NewValueSchema(nil, formkit.Rule("required"), formkit.Rule("email")),
//	})
//	f.SetValue("email", "not-an-email")
//	// ...later
//	errs := f.Errors().Snapshot("email", form.QueryAbsolute)
//
// All exported types are safe for concurrent use.
package form
