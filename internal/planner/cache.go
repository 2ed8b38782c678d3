package planner

import (
	"container/list"
	"sync"
)

// DefaultCacheSize is the default plan cache capacity.
const DefaultCacheSize = 256

// Cache is a size-bounded LRU plan cache keyed by profile hash. It is an
// explicit dependency of the planner service rather than process-global
// state, so tests and callers control its lifetime and capacity.
type Cache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List
}

type cacheEntry struct {
	key  string
	plan *Plan
}

// NewCache creates a plan cache holding at most capacity entries.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Get returns a copy of the cached plan for the key, if present.
func (c *Cache) Get(key string) (*Plan, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*cacheEntry).plan.Clone(), true
}

// Put stores a copy of the plan under the key, evicting the least recently
// used entry when the cache is full.
func (c *Cache) Put(key string, plan *Plan) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		elem.Value.(*cacheEntry).plan = plan.Clone()
		c.order.MoveToFront(elem)
		return
	}

	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, plan: plan.Clone()})

	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}

// Len returns the number of cached plans.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Purge removes all cached plans.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*list.Element)
	c.order.Init()
}
