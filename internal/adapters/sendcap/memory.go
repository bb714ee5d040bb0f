package sendcap

import (
	"context"
	"sync"
	"time"
)

// MemoryCounter is the fallback when no Redis is configured. It is only
// accurate within a single process.
type MemoryCounter struct {
	mu    sync.Mutex
	limit int
	day   string
	used  int
}

func NewMemory(limit int) *MemoryCounter {
	return &MemoryCounter{limit: limit}
}

func (c *MemoryCounter) Reserve(_ context.Context, n int) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roll()
	if c.used+n > c.limit {
		return false, nil
	}
	c.used += n
	return true, nil
}

func (c *MemoryCounter) Release(_ context.Context, n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roll()
	c.used -= n
	if c.used < 0 {
		c.used = 0
	}
}

// roll resets the counter when the UTC day changes. Callers hold the lock.
func (c *MemoryCounter) roll() {
	day := time.Now().UTC().Format("2006-01-02")
	if day != c.day {
		c.day = day
		c.used = 0
	}
}
