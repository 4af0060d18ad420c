package lister

import "maps"

// Order is a sort direction.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// Sort orders the result set by one field.
type Sort struct {
	Field string
	Order Order
}

// Params is the caller-controlled subset of list-view state. Page and Limit
// are positive when present; zero means absent and is never persisted or
// serialized. Filter values must be a primitive, a slice of primitives, or a
// flat map of primitives to stay encodable.
type Params struct {
	Page    int
	Limit   int
	Search  string
	Sorts   []Sort
	Filters map[string]any
}

// Data extends Params with response-derived aggregates. Sign is the content
// signature of the params subset and the sole gate for idempotent updates.
type Data struct {
	Params

	Sign    string
	Total   int
	Pages   int
	From    int
	To      int
	Meta    map[string]any
	Records []any
}

// overlay returns p with the non-empty fields of partial applied on top.
// Zero/empty values in the partial mean "leave this field alone", never
// "clear it"; filters merge per key.
func (p Params) overlay(partial Params) Params {
	next := p.clone()

	if partial.Page > 0 {
		next.Page = partial.Page
	}
	if partial.Limit > 0 {
		next.Limit = partial.Limit
	}
	if partial.Search != "" {
		next.Search = partial.Search
	}
	if len(partial.Sorts) > 0 {
		next.Sorts = append([]Sort(nil), partial.Sorts...)
	}
	if len(partial.Filters) > 0 {
		if next.Filters == nil {
			next.Filters = make(map[string]any, len(partial.Filters))
		}
		maps.Copy(next.Filters, partial.Filters)
	}

	return next
}

func (p Params) clone() Params {
	out := p
	out.Sorts = append([]Sort(nil), p.Sorts...)
	if p.Filters != nil {
		out.Filters = make(map[string]any, len(p.Filters))
		maps.Copy(out.Filters, p.Filters)
	}
	return out
}

// signable flattens the params into the canonical map the signer hashes.
func (p Params) signable() map[string]any {
	sorts := make([]any, 0, len(p.Sorts))
	for _, s := range p.Sorts {
		sorts = append(sorts, map[string]any{"field": s.Field, "order": string(s.Order)})
	}

	filters := make(map[string]any, len(p.Filters))
	maps.Copy(filters, p.Filters)

	return map[string]any{
		"page":    p.Page,
		"limit":   p.Limit,
		"search":  p.Search,
		"sorts":   sorts,
		"filters": filters,
	}
}
