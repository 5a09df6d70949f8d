// SPDX-License-Identifier: Unlicense OR MIT

package model

import (
	"sort"

	"github.com/alexdremov/notate-sub003/history"
	"github.com/alexdremov/notate-sub003/itemmodel"
	"github.com/alexdremov/notate-sub003/quadtree"
)

// CurrentSnapshotFormat is the only format tag this version of the
// model recognises. spec.md §6 leaves the wire format out of scope;
// this module's own round-trip contract only needs a tag to detect a
// future, incompatible format.
const CurrentSnapshotFormat = 1

// Snapshot is a point-in-time, independent copy of the model's
// persistable state: canvas type, page dimensions, background style,
// and the full ordered item list. Taken under a read lock (spec.md
// §6); Items are already cloned and safe to retain.
type Snapshot struct {
	FormatVersion int
	PageConfig    PageConfig
	Background    Background
	Items         []*itemmodel.Item
}

// Snapshot returns a structural copy of the model's current state,
// ordered ascending by Order.
func (m *Model) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]*itemmodel.Item, 0, len(m.items))
	for _, it := range m.items {
		items = append(items, it.Clone())
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Order < items[j].Order })

	return Snapshot{
		FormatVersion: CurrentSnapshotFormat,
		PageConfig:    m.pageConfig,
		Background:    m.background,
		Items:         items,
	}
}

// Apply replaces the model's contents atomically with s. It clears the
// undo/redo history — a loaded snapshot is a fresh baseline, not a
// continuation of the previous session's edits — and emits
// ItemsRemoved for the displaced content, ItemsAdded for the restored
// content, and BackgroundChanged/PageConfigChanged if those differ.
//
// An unrecognised FormatVersion is reported as
// ErrSnapshotVersionMismatch and leaves the model untouched, per
// spec.md §7.
//
// The caller (the controller) is responsible for clearing the tile
// cache after Apply returns successfully — spec.md §6 requires it, but
// the tile cache is not one of the model's own resources.
func (m *Model) Apply(s Snapshot) error {
	if s.FormatVersion != CurrentSnapshotFormat {
		return ErrSnapshotVersionMismatch
	}

	m.mu.Lock()
	m.checkAlive()

	oldItems := make([]*itemmodel.Item, 0, len(m.items))
	for _, it := range m.items {
		oldItems = append(oldItems, it)
	}

	m.items = make(map[int64]*itemmodel.Item, len(s.Items))
	m.tree = quadtree.New(worldBounds())
	newItems := make([]*itemmodel.Item, 0, len(s.Items))
	var maxOrder int64 = -1
	for _, it := range s.Items {
		clone := it.Clone()
		m.items[clone.Order] = clone
		m.tree.Insert(clone.Order, clone.Bounds)
		newItems = append(newItems, clone)
		if clone.Order > maxOrder {
			maxOrder = clone.Order
		}
	}
	m.nextOrder = maxOrder + 1

	cfgChanged := s.PageConfig != m.pageConfig
	bgChanged := s.Background != m.background
	m.pageConfig = s.PageConfig
	m.background = s.Background
	m.hist = history.Manager{}
	m.version++

	m.mu.Unlock()

	if len(oldItems) > 0 {
		m.emit(ItemsRemoved{Items: oldItems})
	}
	if len(newItems) > 0 {
		m.emit(ItemsAdded{Items: newItems})
	}
	if cfgChanged {
		m.emit(PageConfigChanged{Config: s.PageConfig})
	}
	if bgChanged {
		m.emit(BackgroundChanged{Background: s.Background})
	}
	return nil
}
