package workflow

import "sync"

// ListView is the read-only view of a list that ID sources need.
type ListView interface {
	Len() int
	MaxID() int
}

// IDSource hands out the ID for a step that is about to be appended.
type IDSource interface {
	NextID(list ListView) int
}

// LengthIDs numbers a new step as the current list length plus one.
// After deletions two steps can end up with the same ID.
type LengthIDs struct{}

func (LengthIDs) NextID(list ListView) int {
	return list.Len() + 1
}

// CounterIDs hands out strictly increasing IDs. The counter never goes
// below the largest ID already present, so IDs stay unique across deletes
// and after a list is loaded.
type CounterIDs struct {
	mu   sync.Mutex
	last int
}

func (c *CounterIDs) NextID(list ListView) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if m := list.MaxID(); m > c.last {
		c.last = m
	}
	c.last++
	return c.last
}
