package formkit

import "errors"

var (
	// ErrEmptyRuleName is returned when registering a predicate without a name.
	ErrEmptyRuleName = errors.New("formkit: rule name cannot be empty")

	// ErrNilPredicate is returned when registering a nil predicate function.
	ErrNilPredicate = errors.New("formkit: predicate cannot be nil")
)
