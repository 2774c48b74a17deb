// Package history provides a bounded, FIFO-evicting collection used for the
// pipeline's frame and inference histories.
package history

import "sync"

// Capped holds at most limit items. Appending beyond the limit evicts the
// oldest entry. Safe for concurrent use.
type Capped[T any] struct {
	mu    sync.Mutex
	limit int
	items []T
}

// New creates a Capped collection with the given limit.
func New[T any](limit int) *Capped[T] {
	return &Capped[T]{
		limit: limit,
		items: make([]T, 0, limit),
	}
}

// Append adds an item, evicting the oldest entry if the cap is exceeded.
func (c *Capped[T]) Append(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = append(c.items, item)
	if len(c.items) > c.limit {
		c.items = c.items[1:]
	}
}

// Items returns a copy of the current contents, oldest first.
func (c *Capped[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the current number of items.
func (c *Capped[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
