// SPDX-License-Identifier: Unlicense OR MIT

package selection

import (
	"sync"

	"github.com/alexdremov/notate-sub003/itemmodel"
)

// clipboard is the process-wide clipboard spec.md §9 names as the only
// piece of required global mutable state: an owned structure behind a
// mutex, constructed once, holding no reference into any model.
//
// Grounded on gio's app/clipboard.Read/Write (a package-level
// singleton with simple value semantics); this clipboard carries
// structured item payloads instead of a string, since copy/paste here
// moves geometry, not text.
type clipboard struct {
	mu    sync.Mutex
	items []*itemmodel.Item
}

var (
	globalClipboard     *clipboard
	globalClipboardOnce sync.Once
)

func theClipboard() *clipboard {
	globalClipboardOnce.Do(func() { globalClipboard = &clipboard{} })
	return globalClipboard
}

func (c *clipboard) set(items []*itemmodel.Item) {
	clones := make([]*itemmodel.Item, len(items))
	for i, it := range items {
		clones[i] = it.Clone()
	}
	c.mu.Lock()
	c.items = clones
	c.mu.Unlock()
}

func (c *clipboard) get() []*itemmodel.Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*itemmodel.Item, len(c.items))
	for i, it := range c.items {
		out[i] = it.Clone()
	}
	return out
}
