package db

import (
	"sync"
)

// watcher fans out change notifications to live-query subscribers. Writes
// never block on a slow subscriber; a subscriber that misses an event still
// has a newer one pending in its buffer.
type watcher struct {
	mu   sync.Mutex
	subs []chan string
}

func newWatcher() *watcher {
	return &watcher{}
}

func (w *watcher) subscribe() (<-chan string, func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	ch := make(chan string, 16)
	w.subs = append(w.subs, ch)

	cancel := func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		for i, sub := range w.subs {
			if sub == ch {
				w.subs = append(w.subs[:i], w.subs[i+1:]...)
				return
			}
		}
	}
	return ch, cancel
}

func (w *watcher) notify(table string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, ch := range w.subs {
		select {
		case ch <- table:
		default:
		}
	}
}

// Subscribe returns a channel that receives the name of a table whenever one
// of its rows changes, plus a cancel func that releases the subscription.
// Writes are observable with no explicit refresh call.
func (db *DB) Subscribe() (<-chan string, func()) {
	return db.watcher.subscribe()
}
