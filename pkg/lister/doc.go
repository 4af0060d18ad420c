// Package lister manages the state of one paginated list view: page, limit,
// search, sorts, and arbitrary filters, plus the response-derived aggregates
// (total, page bounds, meta, records) a server reply carries.
//
// # State machine
//
// Every update path — Apply, ParseURL, ParseResponse — computes a candidate
// state, compares its content signature (pkg/signer) against the stored one,
// and only commits, persists, and invokes the callback when the content
// actually changed. Replaying the same params or the same response is a
// no-op with no side effects.
//
// A non-reentrant busy flag guards in-flight updates. A second Apply or
// ParseResponse arriving while one runs is dropped entirely rather than
// queued; Reset ignores the flag and always runs. The flag is coarse and
// non-fair on purpose — callers must not assume every call takes effect.
//
// # Wire format
//
// Encode/Decode translate params to a compact URL query string that callers
// may bookmark and share. Empty and default values are omitted; sorts encode
// as comma-joined "field:order" pairs; any non-reserved key is a filter whose
// value follows a small comma/colon grammar with literal-token type
// inference.
//
// # Persistence
//
// The limit and sort preferences survive resets through a pluggable Store
// (in-memory or Redis-backed). Storage failures degrade to no-ops.
//
// Usage:
//
//	l := lister.New(
//		lister.WithDefaults(lister.Params{Limit: 20}),
//		lister.WithStore(lister.NewMemoryStore()),
//		lister.WithCallback(func(p lister.Params, query string) {
//			go fetchPage(query)
//		}),
//	)
//	l.Apply(lister.Params{Page: 2, Filters: map[string]any{"status": "active"}})
//	l.ParseResponse(serverPayload)
package lister
