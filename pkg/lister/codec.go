package lister

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Reserved query keys; everything else decodes as a filter.
const (
	keyPage   = "page"
	keyLimit  = "limit"
	keySearch = "search"
	keySorts  = "sorts"
)

// nullLiteral is the wire token for an explicit null filter value.
const nullLiteral = "[null]"

// Encode serializes params into a URL query string. Empty and default values
// are omitted entirely: zero page/limit, blank search, and empty sorts or
// filters produce no key, so the round trip is byte-stable only for
// non-default values.
func Encode(p Params) string {
	values := make(url.Values)

	if p.Page > 0 {
		values.Set(keyPage, strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		values.Set(keyLimit, strconv.Itoa(p.Limit))
	}
	if p.Search != "" {
		values.Set(keySearch, p.Search)
	}
	if encoded := encodeSorts(p.Sorts); encoded != "" {
		values.Set(keySorts, encoded)
	}

	for name, value := range p.Filters {
		if name == "" || isReserved(name) {
			continue
		}
		if encoded, ok := encodeFilter(value); ok {
			values.Set(name, encoded)
		}
	}

	return values.Encode()
}

// Decode parses a query string produced by Encode (or typed by a user) back
// into Params. Malformed fragments are dropped silently: a sort pair without
// a colon or with an unknown order disappears, an unparseable page/limit
// stays zero. Decode never fails.
func Decode(query string) Params {
	var p Params

	values, err := url.ParseQuery(strings.TrimPrefix(query, "?"))
	if err != nil || len(values) == 0 {
		return p
	}

	for name, list := range values {
		if len(list) == 0 {
			continue
		}
		raw := list[0]

		switch name {
		case keyPage:
			if n, err := strconv.Atoi(raw); err == nil && n > 0 {
				p.Page = n
			}
		case keyLimit:
			if n, err := strconv.Atoi(raw); err == nil && n > 0 {
				p.Limit = n
			}
		case keySearch:
			p.Search = raw
		case keySorts:
			p.Sorts = decodeSorts(raw)
		default:
			if p.Filters == nil {
				p.Filters = make(map[string]any)
			}
			p.Filters[name] = decodeFilter(raw)
		}
	}

	return p
}

func isReserved(name string) bool {
	switch name {
	case keyPage, keyLimit, keySearch, keySorts:
		return true
	}
	return false
}

// encodeSorts joins sorts as comma-separated "field:order" pairs.
func encodeSorts(sorts []Sort) string {
	var pairs []string
	for _, s := range sorts {
		if s.Field == "" {
			continue
		}
		if s.Order != OrderAsc && s.Order != OrderDesc {
			continue
		}
		pairs = append(pairs, s.Field+":"+string(s.Order))
	}
	return strings.Join(pairs, ",")
}

func decodeSorts(raw string) []Sort {
	var sorts []Sort
	for _, pair := range strings.Split(raw, ",") {
		field, order, ok := strings.Cut(pair, ":")
		if !ok || field == "" {
			continue
		}
		if order != string(OrderAsc) && order != string(OrderDesc) {
			continue
		}
		sorts = append(sorts, Sort{Field: field, Order: Order(order)})
	}
	return sorts
}

// encodeFilter serializes one filter value. Unsupported shapes (nested
// structures) report false and are skipped by the encoder.
func encodeFilter(value any) (string, bool) {
	switch v := value.(type) {
	case map[string]any:
		if len(v) == 0 {
			return "", false
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var pairs []string
		for _, k := range keys {
			encoded, ok := encodePrimitive(v[k])
			if !ok {
				return "", false
			}
			pairs = append(pairs, k+":"+encoded)
		}
		return strings.Join(pairs, ","), true

	case []any:
		if len(v) == 0 {
			return "", false
		}
		var items []string
		for _, item := range v {
			encoded, ok := encodePrimitive(item)
			if !ok {
				return "", false
			}
			items = append(items, encoded)
		}
		return strings.Join(items, ","), true

	case []string:
		if len(v) == 0 {
			return "", false
		}
		return strings.Join(v, ","), true

	default:
		encoded, ok := encodePrimitive(value)
		if !ok || encoded == "" {
			return "", false
		}
		return encoded, true
	}
}

func encodePrimitive(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return nullLiteral, true
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	default:
		return "", false
	}
}

// decodeFilter applies the value grammar: a colon anywhere makes the value a
// flat object, otherwise a comma makes it an array, otherwise it is a single
// inferred primitive.
func decodeFilter(raw string) any {
	if strings.Contains(raw, ":") {
		obj := make(map[string]any)
		for _, pair := range strings.Split(raw, ",") {
			k, v, ok := strings.Cut(pair, ":")
			if !ok || k == "" {
				continue
			}
			obj[k] = inferPrimitive(v)
		}
		return obj
	}

	if strings.Contains(raw, ",") {
		var arr []any
		for _, item := range strings.Split(raw, ",") {
			arr = append(arr, inferPrimitive(item))
		}
		return arr
	}

	return inferPrimitive(raw)
}

// inferPrimitive guesses the type of a decoded token. The grammar is
// ambiguous on purpose: the literal string "true" always decodes as a
// boolean. Changing this would break previously shared URLs, so the behavior
// is kept as documented.
func inferPrimitive(raw string) any {
	switch raw {
	case "true":
		return true
	case "false":
		return false
	case nullLiteral:
		return nil
	}

	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}

	return raw
}
