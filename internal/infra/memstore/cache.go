package memstore

import (
	"context"
	"sync"

	"github.com/aminhilali/minaret/internal/domain"
)

// ScheduleCache is a process-local schedule cache for deployments
// without redis. Entries are never evicted; keys embed the calendar
// day, so old entries simply stop being read.
type ScheduleCache struct {
	mu      sync.RWMutex
	entries map[string]*domain.Schedule
}

func NewScheduleCache() *ScheduleCache {
	return &ScheduleCache{entries: make(map[string]*domain.Schedule)}
}

func (c *ScheduleCache) Get(_ context.Context, key string) (*domain.Schedule, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	schedule, ok := c.entries[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return schedule, nil
}

func (c *ScheduleCache) Put(_ context.Context, key string, schedule *domain.Schedule) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = schedule
	return nil
}
