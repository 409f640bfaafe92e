package filter

import (
	"container/list"
	"sync"
	"sync/atomic"
)

// resultCache is a fixed-capacity LRU cache of filter results keyed by
// (collection fingerprint, serialized filter tree). Entries hold the matched
// record slices directly; callers must treat cached results as read-only.
type resultCache struct {
	mu        sync.Mutex
	capacity  int
	items     map[string]*list.Element
	evictList *list.List

	hits   atomic.Int64
	misses atomic.Int64
}

type cacheEntry struct {
	key     string
	records []Record
}

func newResultCache(capacity int) *resultCache {
	return &resultCache{
		capacity:  capacity,
		items:     make(map[string]*list.Element),
		evictList: list.New(),
	}
}

func (c *resultCache) get(key string) ([]Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		c.hits.Add(1)
		c.evictList.MoveToFront(ent)
		return ent.Value.(*cacheEntry).records, true
	}
	c.misses.Add(1)
	return nil, false
}

func (c *resultCache) set(key string, records []Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		c.evictList.MoveToFront(ent)
		ent.Value.(*cacheEntry).records = records
		return
	}

	element := c.evictList.PushFront(&cacheEntry{key: key, records: records})
	c.items[key] = element

	for c.evictList.Len() > c.capacity {
		oldest := c.evictList.Back()
		if oldest == nil {
			break
		}
		c.evictList.Remove(oldest)
		delete(c.items, oldest.Value.(*cacheEntry).key)
	}
}

// invalidate removes entries whose key matches the predicate.
func (c *resultCache) invalidate(predicate func(key string) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var toRemove []*list.Element
	for key, element := range c.items {
		if predicate(key) {
			toRemove = append(toRemove, element)
		}
	}
	for _, e := range toRemove {
		c.evictList.Remove(e)
		delete(c.items, e.Value.(*cacheEntry).key)
	}
}

func (c *resultCache) purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.evictList.Init()
}

func (c *resultCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evictList.Len()
}

func (c *resultCache) stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
