// SPDX-License-Identifier: Unlicense OR MIT

package tilemanager

import (
	"sync"
	"time"

	"github.com/alexdremov/notate-sub003/tilecache"
)

// errorCacheCap and errorTileTTL implement spec.md §4.F's failure
// semantics: a persistently-failing region is suppressed for a short
// window instead of being retried every frame, and the suppression set
// itself is bounded so a storm of distinct failing keys can't grow
// without limit.
const errorCacheCap = 100

var errorTileTTL = time.Second

// errorCache tracks tile keys whose most recent generation attempt
// panicked or returned an error, each suppressed until its expiry.
type errorCache struct {
	mu      sync.Mutex
	expires map[tilecache.Key]time.Time
	order   []tilecache.Key
}

func newErrorCache() *errorCache {
	return &errorCache{expires: make(map[tilecache.Key]time.Time)}
}

// record marks key as failed, suppressing new generation attempts for
// errorTileTTL.
func (e *errorCache) record(key tilecache.Key) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.expires[key]; !exists {
		e.order = append(e.order, key)
		if len(e.order) > errorCacheCap {
			oldest := e.order[0]
			e.order = e.order[1:]
			delete(e.expires, oldest)
		}
	}
	e.expires[key] = time.Now().Add(errorTileTTL)
}

// suppressed reports whether key is still within its failure window.
func (e *errorCache) suppressed(key tilecache.Key) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	until, ok := e.expires[key]
	if !ok {
		return false
	}
	return time.Now().Before(until)
}
