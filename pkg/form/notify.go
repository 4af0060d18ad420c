package form

import "sync"

// notifier maintains per-key listener sets for the stores. It has its own
// lock so stores can release their state lock before fanning out
// notifications; listeners are free to read the store again re-entrantly.
type notifier struct {
	mu   sync.Mutex
	seq  int
	keys map[string]map[int]func()
}

func newNotifier() *notifier {
	return &notifier{keys: make(map[string]map[int]func())}
}

// subscribe registers fn under key and returns an unsubscribe function.
// Unsubscribing twice is a no-op.
func (n *notifier) subscribe(key string, fn func()) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.keys[key] == nil {
		n.keys[key] = make(map[int]func())
	}
	n.seq++
	id := n.seq
	n.keys[key][id] = fn

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()

		delete(n.keys[key], id)
		if len(n.keys[key]) == 0 {
			delete(n.keys, key)
		}
	}
}

// notify invokes every listener registered under the given keys exactly once
// per listener registration. Duplicate keys collapse.
func (n *notifier) notify(keys ...string) {
	n.mu.Lock()
	var fns []func()
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		for _, fn := range n.keys[key] {
			fns = append(fns, fn)
		}
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// notifyAll invokes every registered listener.
func (n *notifier) notifyAll() {
	n.mu.Lock()
	var fns []func()
	for _, listeners := range n.keys {
		for _, fn := range listeners {
			fns = append(fns, fn)
		}
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
