// Package signer computes order-independent content signatures of JSON-like
// values. Equal content yields equal digests regardless of map key insertion
// order; any content change changes the digest with overwhelming probability.
//
// The lister package uses signatures to detect no-op state transitions:
// an update whose candidate state signs identically to the current state is
// dropped without side effects.
//
// Usage:
//
//	sig, err := signer.Sign(map[string]any{"page": 2, "limit": 10})
//	same := signer.Validate(map[string]any{"limit": 10, "page": 2}, sig) // true
package signer
