package lister

import (
	"io"
	"log/slog"
	"maps"
	"strconv"
	"sync"

	"github.com/goccy/go-json"

	"github.com/dmitrymomot/formkit/pkg/signer"
)

// Callback is invoked synchronously with the committed params and their
// encoded query string after every committed transition (Reset, Apply,
// ParseResponse). It never fires for dropped or no-op transitions.
type Callback func(params Params, query string)

// Lister owns the pagination/search/sort/filter state of one list view.
//
// Every update path computes a candidate state, signature-compares it
// against the stored signature, and only commits + notifies + persists when
// the content actually changed. A non-reentrant busy flag guards the region
// between the signature check and the commit: a second Apply or
// ParseResponse arriving while one is in flight is dropped entirely, not
// queued, so callers must not assume every call produces an effect. Reset
// deliberately ignores the flag and always runs.
type Lister struct {
	mu   sync.Mutex
	busy bool

	data     Data
	respSign string

	cfg      Config
	defaults Params
	store    Store
	callback Callback
	logger   *slog.Logger
}

// Option configures a Lister during construction.
type Option func(*Lister)

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(l *Lister) { l.cfg = cfg }
}

// WithDefaults sets the params the lister resets to.
func WithDefaults(defaults Params) Option {
	return func(l *Lister) { l.defaults = defaults.clone() }
}

// WithStore sets the key/value store used to remember limit and sorts.
func WithStore(store Store) Option {
	return func(l *Lister) { l.store = store }
}

// WithCallback sets the committed-transition callback.
func WithCallback(cb Callback) Option {
	return func(l *Lister) { l.callback = cb }
}

// WithListerLogger sets the logger for degraded-mode reporting.
func WithListerLogger(logger *slog.Logger) Option {
	return func(l *Lister) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates a lister and resets it to its initial state, which also fires
// the callback once with the resolved initial params.
func New(opts ...Option) *Lister {
	l := &Lister{
		cfg:    DefaultConfig(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.Reset()
	return l
}

// Reset rebuilds the state from configured defaults merged with persisted
// limit/sorts, recomputes the signature, persists, and invokes the callback.
// Reset never checks the busy flag: an in-flight Apply cannot block it.
func (l *Lister) Reset() {
	params := l.defaults.clone()
	if params.Limit <= 0 {
		params.Limit = l.cfg.DefaultLimit
	}
	if params.Page <= 0 {
		params.Page = 1
	}

	if l.store != nil {
		if l.cfg.RememberLimit {
			if raw, ok := l.store.Get(l.key("limit")); ok {
				if n, err := strconv.Atoi(raw); err == nil && n > 0 {
					params.Limit = n
				}
			}
		}
		if l.cfg.RememberSorts {
			if raw, ok := l.store.Get(l.key("sorts")); ok {
				if sorts := decodeSorts(raw); len(sorts) > 0 {
					params.Sorts = sorts
				}
			}
		}
	}

	l.mu.Lock()
	l.data = Data{Params: params, Sign: l.sign(params), Meta: map[string]any{}}
	l.respSign = ""
	l.mu.Unlock()

	l.persist(params)
	l.invoke(params)
}

// Apply overlays the non-empty fields of partial onto the current params and
// commits when the result differs by content signature. Returns true only
// for a committed transition; a dropped (busy) or no-op call returns false.
func (l *Lister) Apply(partial Params) bool {
	if !l.acquire("apply") {
		return false
	}
	defer l.release()

	l.mu.Lock()
	candidate := l.data.Params.overlay(partial)
	sign := l.sign(candidate)
	if sign == l.data.Sign {
		l.mu.Unlock()
		return false
	}

	l.data.Params = candidate
	l.data.Sign = sign
	l.mu.Unlock()

	l.persist(candidate)
	l.invoke(candidate)
	return true
}

// ParseURL decodes an encoded query string and applies it.
func (l *Lister) ParseURL(query string) bool {
	return l.Apply(Decode(query))
}

// ParseResponse ingests a server payload: a map, a JSON []byte/string, or a
// struct (normalized through JSON). A malformed payload clears only the
// response-derived aggregates and preserves the params. A well-formed one
// overlays its recognized param fields (page, limit, search, sorts) onto the
// current params, short-circuits when nothing changed, and otherwise commits
// params plus the fresh aggregates: total, pages, from, to, meta (every
// unrecognized top-level key), and records (the payload's "data" field).
func (l *Lister) ParseResponse(payload any) bool {
	if !l.acquire("parse_response") {
		return false
	}
	defer l.release()

	resp, ok := asObject(payload)
	if !ok {
		l.logger.Warn("lister: malformed response, clearing aggregates")
		l.mu.Lock()
		l.data.Total = 0
		l.data.Pages = 0
		l.data.From = 0
		l.data.To = 0
		l.data.Meta = map[string]any{}
		l.data.Records = nil
		l.respSign = ""
		l.mu.Unlock()
		return false
	}

	partial := Params{
		Page:   intField(resp, keyPage),
		Limit:  intField(resp, keyLimit),
		Search: stringField(resp, keySearch),
		Sorts:  sortsField(resp[keySorts]),
	}

	meta := make(map[string]any)
	for k, v := range resp {
		switch k {
		case keyPage, keyLimit, keySearch, keySorts, "total", "pages", "from", "to", "data":
			continue
		}
		meta[k] = v
	}
	records, _ := resp["data"].([]any)

	l.mu.Lock()
	candidate := l.data.Params.overlay(partial)
	sign := l.sign(candidate)

	// The idempotence gate covers the aggregates too: replaying the same
	// response is a no-op, but a response that only moves aggregates
	// (e.g. a changed total for unchanged params) still commits.
	respSign := l.sign(map[string]any{
		"params":  candidate.signable(),
		"total":   intField(resp, "total"),
		"pages":   intField(resp, "pages"),
		"from":    intField(resp, "from"),
		"to":      intField(resp, "to"),
		"meta":    meta,
		"records": records,
	})
	if respSign == l.respSign && sign == l.data.Sign {
		l.mu.Unlock()
		return false
	}

	l.data.Params = candidate
	l.data.Sign = sign
	l.data.Total = intField(resp, "total")
	l.data.Pages = intField(resp, "pages")
	l.data.From = intField(resp, "from")
	l.data.To = intField(resp, "to")
	l.data.Meta = meta
	l.data.Records = records
	l.respSign = respSign
	l.mu.Unlock()

	l.persist(candidate)
	l.invoke(candidate)
	return true
}

// Filter returns the current value of one filter, or nil.
func (l *Lister) Filter(name string) any {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.data.Filters[name]
}

// Snapshot returns a copy of the full current state.
func (l *Lister) Snapshot() Data {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := l.data
	out.Params = l.data.Params.clone()
	out.Meta = make(map[string]any, len(l.data.Meta))
	maps.Copy(out.Meta, l.data.Meta)
	out.Records = append([]any(nil), l.data.Records...)
	return out
}

// acquire takes the busy flag. The flag is deliberately non-fair and
// non-queueing: losers are dropped, matching the documented contract.
func (l *Lister) acquire(op string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.busy {
		l.logger.Debug("lister: concurrent call dropped", "op", op)
		return false
	}
	l.busy = true
	return true
}

// release is deferred by every acquiring path, so the flag is freed on both
// normal completion and panic propagation.
func (l *Lister) release() {
	l.mu.Lock()
	l.busy = false
	l.mu.Unlock()
}

func (l *Lister) sign(v any) string {
	if p, ok := v.(Params); ok {
		v = p.signable()
	}
	sig, err := signer.Sign(v)
	if err != nil {
		l.logger.Warn("lister: unsignable state", "error", err)
		return ""
	}
	return sig
}

func (l *Lister) key(suffix string) string {
	return l.cfg.StoragePrefix + ":" + suffix
}

// persist writes the remembered subset of params to the store. Storage
// failures degrade to a log line; the transition itself is already committed.
func (l *Lister) persist(params Params) {
	if l.store == nil {
		return
	}

	if l.cfg.RememberLimit && params.Limit > 0 {
		if !l.store.Set(l.key("limit"), strconv.Itoa(params.Limit)) {
			l.logger.Warn("lister: failed to persist limit")
		}
	}
	if l.cfg.RememberSorts {
		if encoded := encodeSorts(params.Sorts); encoded != "" {
			if !l.store.Set(l.key("sorts"), encoded) {
				l.logger.Warn("lister: failed to persist sorts")
			}
		}
	}
}

func (l *Lister) invoke(params Params) {
	if l.callback == nil {
		return
	}
	l.callback(params.clone(), Encode(params))
}

// asObject coerces a payload into a generic object map.
func asObject(payload any) (map[string]any, bool) {
	switch v := payload.(type) {
	case map[string]any:
		return v, true
	case []byte:
		var out map[string]any
		if err := json.Unmarshal(v, &out); err != nil {
			return nil, false
		}
		return out, true
	case string:
		var out map[string]any
		if err := json.Unmarshal([]byte(v), &out); err != nil {
			return nil, false
		}
		return out, true
	case nil:
		return nil, false
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, false
		}
		var out map[string]any
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, false
		}
		return out, true
	}
}

// intField reads a numeric response field, tolerating the float64 values a
// JSON decode produces. Non-positive and non-numeric values read as zero.
func intField(resp map[string]any, key string) int {
	switch v := resp[key].(type) {
	case int:
		if v > 0 {
			return v
		}
	case int64:
		if v > 0 {
			return int(v)
		}
	case float64:
		if v > 0 {
			return int(v)
		}
	case string:
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

func stringField(resp map[string]any, key string) string {
	s, _ := resp[key].(string)
	return s
}

// sortsField accepts the encoded "field:order,..." string form or a list of
// {field, order} objects.
func sortsField(v any) []Sort {
	switch sorts := v.(type) {
	case string:
		return decodeSorts(sorts)
	case []any:
		var out []Sort
		for _, item := range sorts {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			field, _ := m["field"].(string)
			order, _ := m["order"].(string)
			if field == "" || (order != string(OrderAsc) && order != string(OrderDesc)) {
				continue
			}
			out = append(out, Sort{Field: field, Order: Order(order)})
		}
		return out
	}
	return nil
}
