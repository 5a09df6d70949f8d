package tilecache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/alexdremov/notate-sub003/render"
)

// Entry is one cached tile: its rendered pixels, the model_version it
// was generated from, and the byte footprint charged against the
// cache's budget. Lock/Unlock guard Buf against concurrent in-place
// mutation (spec.md §4.F "update_with_item") while a consumer blits it.
type Entry struct {
	Buf     *render.Buffer
	Version uint64
	Bytes   int

	mu sync.Mutex
}

func (e *Entry) Lock()   { e.mu.Lock() }
func (e *Entry) Unlock() { e.mu.Unlock() }

type pinnedSet map[Key]bool

type pair struct {
	key   Key
	entry *Entry
}

// Cache is a byte-budgeted, LRU-ordered store of rendered tiles. The
// zero value is not usable; construct with New.
type Cache struct {
	mu    sync.Mutex
	lru   *lru.Cache[Key, *Entry]
	bytes int
	budget int

	generating map[Key]bool
	epoch      uint64
}

// New constructs a cache with the given byte budget. capacityHint
// bounds the underlying LRU's entry count (not its byte accounting);
// it only needs to be large enough that count-based eviction never
// triggers before the byte budget does.
func New(budgetBytes int, capacityHint int) *Cache {
	l, err := lru.New[Key, *Entry](capacityHint)
	if err != nil {
		// Only returned for capacity <= 0, a programming error.
		panic(err)
	}
	return &Cache{
		lru:        l,
		budget:     budgetBytes,
		generating: make(map[Key]bool),
	}
}

// Get returns the cached entry for key, if any, and bumps it to
// most-recently-used.
func (c *Cache) Get(key Key) (*Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Get(key)
}

// Peek returns the cached entry for key without affecting recency.
func (c *Cache) Peek(key Key) (*Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Peek(key)
}

// Put installs entry for key, replacing any previous entry, then
// evicts least-recently-used entries (skipping any key present in
// pinned) until the cache is back under budget or every eligible
// entry has been considered once.
func (c *Cache) Put(key Key, entry *Entry, pinned []Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if old, ok := c.lru.Peek(key); ok {
		c.bytes -= old.Bytes
	}
	c.lru.Add(key, entry)
	c.bytes += entry.Bytes
	c.evictLocked(toPinnedSet(pinned))
}

// EvictUntilBudget runs an eviction pass without inserting anything.
func (c *Cache) EvictUntilBudget(pinned []Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.evictLocked(toPinnedSet(pinned))
}

func toPinnedSet(keys []Key) pinnedSet {
	if len(keys) == 0 {
		return nil
	}
	s := make(pinnedSet, len(keys))
	for _, k := range keys {
		s[k] = true
	}
	return s
}

// evictLocked removes least-recently-used entries until c.bytes <=
// c.budget, skipping (and restoring) any entry in pinned — "pinned for
// one eviction pass" per spec.md §4.E. If every remaining entry is
// pinned, the pass stops without reaching budget rather than evicting
// visible content.
func (c *Cache) evictLocked(pinned pinnedSet) {
	n := c.lru.Len()
	var spared []pair
	for i := 0; i < n && c.bytes > c.budget; i++ {
		key, entry, ok := c.lru.RemoveOldest()
		if !ok {
			break
		}
		if pinned[key] {
			spared = append(spared, pair{key, entry})
			continue
		}
		c.bytes -= entry.Bytes
	}
	for _, p := range spared {
		c.lru.Add(p.key, p.entry)
	}
}

// Remove drops key unconditionally, e.g. for an explicit invalidation.
func (c *Cache) Remove(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if old, ok := c.lru.Peek(key); ok {
		c.bytes -= old.Bytes
		c.lru.Remove(key)
	}
}

// Clear drops every entry and advances the epoch, so generation tasks
// started before the clear can detect staleness and drop their result.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
	c.bytes = 0
	c.epoch++
	c.generating = make(map[Key]bool)
}

// Epoch returns the cache's current epoch, bumped on every Clear.
func (c *Cache) Epoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

// Bytes reports the cache's current byte accounting.
func (c *Cache) Bytes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bytes
}

// Budget reports the cache's configured byte budget.
func (c *Cache) Budget() int {
	return c.budget
}

// SetBudget updates the byte budget and, if the cache is now over it,
// immediately runs an eviction pass with no pins.
func (c *Cache) SetBudget(budgetBytes int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.budget = budgetBytes
	c.evictLocked(nil)
}

// MarkGenerating records that key has an in-flight generation task.
// It reports false if key was already marked, so the caller can avoid
// enqueueing a duplicate task.
func (c *Cache) MarkGenerating(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generating[key] {
		return false
	}
	c.generating[key] = true
	return true
}

// UnmarkGenerating clears key's in-flight marker.
func (c *Cache) UnmarkGenerating(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.generating, key)
}

// IsGenerating reports whether key currently has an in-flight task.
func (c *Cache) IsGenerating(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generating[key]
}

// Each calls fn for every cached entry, in no particular order. fn
// must not call back into the cache.
func (c *Cache) Each(fn func(Key, *Entry)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range c.lru.Keys() {
		if e, ok := c.lru.Peek(k); ok {
			fn(k, e)
		}
	}
}
