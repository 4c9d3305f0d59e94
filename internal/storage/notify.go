package storage

import (
	"sync"
)

// notifier fans change notifications out to registered watchers.
// Shared by the sqlite and in-memory store implementations.
type notifier struct {
	mu       sync.Mutex
	watchers map[int]WatchFunc
	nextID   int
}

func newNotifier() *notifier {
	return &notifier{
		watchers: make(map[int]WatchFunc),
	}
}

// watch registers fn and returns a cancel function.
func (n *notifier) watch(fn WatchFunc) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	id := n.nextID
	n.watchers[id] = fn

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.watchers, id)
	}
}

// notify delivers changes to every registered watcher. Watchers run on the
// calling goroutine so a write is fully observed before Set returns.
func (n *notifier) notify(changes []Change) {
	if len(changes) == 0 {
		return
	}

	n.mu.Lock()
	fns := make([]WatchFunc, 0, len(n.watchers))
	for _, fn := range n.watchers {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(changes)
	}
}
