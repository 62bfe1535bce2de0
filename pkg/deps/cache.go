package deps

import (
	"sync"

	"github.com/vanderheijden86/taskpeek/pkg/metrics"
	"github.com/vanderheijden86/taskpeek/pkg/model"
)

// StatusCache remembers the last known status of tasks by id. It is shared by
// the list loader and the peek controller for the whole session.
type StatusCache struct {
	mu       sync.RWMutex
	statuses map[string]model.Status
}

// NewStatusCache returns an empty cache.
func NewStatusCache() *StatusCache {
	return &StatusCache{statuses: make(map[string]model.Status)}
}

// Get returns the cached status for id.
func (c *StatusCache) Get(id string) (model.Status, bool) {
	c.mu.RLock()
	s, ok := c.statuses[id]
	c.mu.RUnlock()
	if ok {
		metrics.StatusCache.Hit()
	} else {
		metrics.StatusCache.Miss()
	}
	return s, ok
}

// Has reports whether id is cached without touching the hit counters.
func (c *StatusCache) Has(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.statuses[id]
	return ok
}

// Set records the status for id, overwriting any previous value.
func (c *StatusCache) Set(id string, s model.Status) {
	c.mu.Lock()
	c.statuses[id] = s
	c.mu.Unlock()
}

// SetTasks records the status of every task.
func (c *StatusCache) SetTasks(tasks []model.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range tasks {
		c.statuses[t.ID] = t.Status
	}
}

// Len returns the number of cached ids.
func (c *StatusCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.statuses)
}

// IsDone reports whether id is cached as done. Unknown ids are not done.
func (c *StatusCache) IsDone(id string) bool {
	s, ok := c.Get(id)
	return ok && s.IsDone()
}
