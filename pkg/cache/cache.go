// Package cache is an in-memory LRU with per-entry TTL. It holds
// serialized values, so callers own the encoding.
package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

const defaultJanitorInterval = 2 * time.Minute

type item struct {
	key      string
	value    []byte
	deadline time.Time
}

// Cache evicts the least recently used entry once capacity is exceeded.
// Expired entries are dropped lazily on Get and swept by the janitor.
type Cache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	order    *list.List
	index    map[string]*list.Element
}

func New(capacity int, ttl time.Duration) *Cache {
	return &Cache{
		capacity: capacity,
		ttl:      ttl,
		order:    list.New(),
		index:    make(map[string]*list.Element, capacity),
	}
}

func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.index[key]
	if !ok {
		return nil, false
	}

	it := el.Value.(*item)
	if time.Now().After(it.deadline) {
		c.evict(el)
		return nil, false
	}

	c.order.MoveToFront(el)
	return it.value, true
}

func (c *Cache) Set(key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	deadline := time.Now().Add(c.ttl)

	if el, ok := c.index[key]; ok {
		it := el.Value.(*item)
		it.value = value
		it.deadline = deadline
		c.order.MoveToFront(el)
		return
	}

	c.index[key] = c.order.PushFront(&item{key: key, value: value, deadline: deadline})

	for c.order.Len() > c.capacity {
		c.evict(c.order.Back())
	}
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.index[key]; ok {
		c.evict(el)
	}
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// StartJanitor sweeps expired entries in the background until ctx is done.
func (c *Cache) StartJanitor(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(defaultJanitorInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.sweep(time.Now())
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (c *Cache) sweep(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var next *list.Element
	for el := c.order.Front(); el != nil; el = next {
		next = el.Next()
		if now.After(el.Value.(*item).deadline) {
			c.evict(el)
		}
	}
}

// evict removes the element from both the list and the index.
// Callers must hold the mutex.
func (c *Cache) evict(el *list.Element) {
	c.order.Remove(el)
	delete(c.index, el.Value.(*item).key)
}
