package tasks

import (
	"sync"
	"time"
)

// IDGenerator issues unique monotonic task ids based on creation time in
// milliseconds. Rapid successive calls within the same millisecond bump past
// the previous id instead of colliding.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
}

// NewIDGenerator creates a new id generator.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

// Next returns a fresh id strictly greater than any id it returned before.
func (g *IDGenerator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := time.Now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}

// Observe tells the generator about an existing id (e.g. from a loaded or
// imported list) so freshly issued ids stay unique against it.
func (g *IDGenerator) Observe(id int64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if id > g.last {
		g.last = id
	}
}
