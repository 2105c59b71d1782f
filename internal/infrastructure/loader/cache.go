package loader

import (
	"container/list"
	"sync"

	"github.com/dop251/goja"
)

// programCache keeps compiled programs by content digest, evicting the least
// recently used entry once full. Programs are immutable and may be shared by
// many runtimes.
type programCache struct {
	mu      sync.Mutex
	limit   int
	order   *list.List
	entries map[string]*list.Element
}

type cacheEntry struct {
	digest  string
	program *goja.Program
}

func newProgramCache(limit int) *programCache {
	return &programCache{
		limit:   limit,
		order:   list.New(),
		entries: make(map[string]*list.Element, limit),
	}
}

func (c *programCache) get(digest string) (*goja.Program, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, ok := c.entries[digest]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*cacheEntry).program, true
}

func (c *programCache) put(digest string, program *goja.Program) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.entries[digest]; ok {
		c.order.MoveToFront(elem)
		return
	}
	c.entries[digest] = c.order.PushFront(&cacheEntry{digest: digest, program: program})
	for c.order.Len() > c.limit {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).digest)
	}
}

func (c *programCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
