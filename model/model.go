// SPDX-License-Identifier: Unlicense OR MIT

// Package model implements spec.md §4.B: the thread-safe canvas model
// that owns items, their spatial index, page/background configuration,
// and the undo-aware mutation batching of spec.md §4.C.
//
// Grounded on gio's io/router: events are plain values delivered to
// observers only after the model's write lock is released, so an
// observer can never re-enter the model from inside its own routing —
// the same "deliver after, never during" shape gio's router uses for
// pointer/key event dispatch.
package model

import (
	"sort"
	"sync"

	"github.com/alexdremov/notate-sub003/f32"
	"github.com/alexdremov/notate-sub003/history"
	"github.com/alexdremov/notate-sub003/itemmodel"
	"github.com/alexdremov/notate-sub003/quadtree"
)

// WorldLimit bounds the world to a symmetric square: items whose
// bounds fall outside [-WorldLimit, WorldLimit] on either axis are
// rejected with ErrOutOfWorld (spec.md §3).
const WorldLimit float32 = 50000

// worldBounds is the full extent the model and its quadtree root
// initially cover.
func worldBounds() f32.Rectangle {
	return f32.Rect(-WorldLimit, -WorldLimit, WorldLimit, WorldLimit)
}

// Model is the thread-safe spatial model of canvas content. The zero
// value is not usable; construct with New.
type Model struct {
	mu sync.RWMutex

	tree      *quadtree.Tree
	items     map[int64]*itemmodel.Item
	nextOrder int64

	pageConfig PageConfig
	background Background

	version uint64
	hist    history.Manager

	observers   []Observer
	destroyed   bool
	delivering  bool // set while calling observers; catches re-entrancy
}

// New constructs an empty model with the given initial page
// configuration and background.
func New(cfg PageConfig, bg Background) *Model {
	return &Model{
		tree:       quadtree.New(worldBounds()),
		items:      make(map[int64]*itemmodel.Item),
		pageConfig: cfg,
		background: bg,
	}
}

// Version returns the bump counter incremented on every mutation,
// spec.md §3's model_version — tile generation tasks read it at task
// start to decide whether their result is still fresh.
func (m *Model) Version() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.version
}

func (m *Model) checkAlive() {
	if m.destroyed {
		fatalf("use of model after Destroy")
	}
}

// emit delivers event to every observer. Must be called with the write
// lock released (callers always unlock before calling emit).
func (m *Model) emit(ev ChangeEvent) {
	if m.delivering {
		fatalf("observer re-entered the model during event delivery")
	}
	m.delivering = true
	defer func() { m.delivering = false }()
	for _, obs := range m.observers {
		if obs != nil {
			obs(ev)
		}
	}
}

// Subscribe registers an observer for change events and returns an
// unsubscribe function.
func (m *Model) Subscribe(obs Observer) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, obs)
	idx := len(m.observers) - 1
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if idx < len(m.observers) {
			m.observers[idx] = nil
		}
	}
}

// validBounds reports whether b is finite, non-empty, and within
// WorldLimit.
func validBounds(b f32.Rectangle) (finite, withinWorld bool) {
	wb := worldBounds()
	finite = isFinite(b.Min.X) && isFinite(b.Min.Y) && isFinite(b.Max.X) && isFinite(b.Max.Y) && !b.Canon().Empty()
	withinWorld = finite && b.Min.X >= wb.Min.X && b.Min.Y >= wb.Min.Y && b.Max.X <= wb.Max.X && b.Max.Y <= wb.Max.Y
	return
}

func isFinite(v float32) bool {
	return v == v && v > -1e38 && v < 1e38
}

// AddItem inserts item into the model, assigning it the next Order.
// It emits ItemsAdded after the write lock is released.
func (m *Model) AddItem(item *itemmodel.Item) (*itemmodel.Item, error) {
	m.mu.Lock()
	m.checkAlive()
	finite, inWorld := validBounds(item.Bounds)
	if !finite {
		m.mu.Unlock()
		return nil, ErrInvalidBounds
	}
	if !inWorld {
		m.mu.Unlock()
		return nil, ErrOutOfWorld
	}

	inserted := item.Clone()
	inserted.Order = m.nextOrder
	m.nextOrder++
	m.items[inserted.Order] = inserted
	m.tree.Insert(inserted.Order, inserted.Bounds)
	m.version++

	m.hist.Push(history.Record{
		Undo: func() { m.removeByOrder(inserted.Order) },
		Redo: func() { m.reinsert(inserted) },
	})

	m.mu.Unlock()
	m.emit(ItemsAdded{Items: []*itemmodel.Item{inserted}})
	return inserted, nil
}

// removeByOrder removes an item during an Undo callback; the caller
// already holds (or is mid-release of) the model's write-side
// invariant because Undo/Redo are only ever invoked from within
// StartBatch/EndBatch or Undo/Redo, which themselves hold the lock.
func (m *Model) removeByOrder(order int64) {
	it, ok := m.items[order]
	if !ok {
		return
	}
	delete(m.items, order)
	m.tree.Remove(order, it.Bounds)
	m.version++
}

func (m *Model) reinsert(it *itemmodel.Item) {
	m.items[it.Order] = it
	m.tree.Insert(it.Order, it.Bounds)
	if it.Order >= m.nextOrder {
		m.nextOrder = it.Order + 1
	}
	m.version++
}

// Items returns a snapshot of every currently-present item named in
// ids, skipping ids with no corresponding item; used by the selection
// package to capture a working copy before lifting items out of the
// model.
func (m *Model) Items(ids []int64) []*itemmodel.Item {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*itemmodel.Item, 0, len(ids))
	for _, id := range ids {
		if it, ok := m.items[id]; ok {
			out = append(out, it)
		}
	}
	return out
}

// DeleteItems removes every item in ids that is currently present.
// Items not present are silently skipped, per spec.md §4.B.
func (m *Model) DeleteItems(ids []int64) {
	m.mu.Lock()
	m.checkAlive()
	var removed []*itemmodel.Item
	for _, id := range ids {
		it, ok := m.items[id]
		if !ok {
			continue
		}
		delete(m.items, id)
		m.tree.Remove(id, it.Bounds)
		removed = append(removed, it)
	}
	if len(removed) == 0 {
		m.mu.Unlock()
		return
	}
	m.version++
	// A multi-id delete is one undo unit (spec.md §4.C): group every
	// removed item's inverse record into a single batch even though no
	// caller-side StartBatch/EndBatch span is open.
	m.hist.StartBatch()
	for _, it := range removed {
		captured := it
		m.hist.Push(history.Record{
			Undo: func() { m.reinsert(captured) },
			Redo: func() { m.removeByOrder(captured.Order) },
		})
	}
	m.hist.EndBatch()
	m.mu.Unlock()
	m.emit(ItemsRemoved{Items: removed})
}

// QueryItems returns a snapshot of handles to every item intersecting
// rect, sorted ascending by (ZBucket, Order).
func (m *Model) QueryItems(rect f32.Rectangle) []*itemmodel.Item {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := m.tree.Retrieve(nil, rect)
	out := make([]*itemmodel.Item, 0, len(entries))
	for _, e := range entries {
		if it, ok := m.items[e.Handle]; ok {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return itemmodel.Less(out[i], out[j]) })
	return out
}

// HitTest returns the topmost item (highest ZBucket, then highest
// Order) whose geometry lies within slop of (x, y), or nil.
func (m *Model) HitTest(x, y, slop float32) *itemmodel.Item {
	m.mu.RLock()
	defer m.mu.RUnlock()
	pt := f32.Pt(x, y)
	query := f32.Rect(x-slop, y-slop, x+slop, y+slop)
	entries := m.tree.Retrieve(nil, query)

	var best *itemmodel.Item
	for _, e := range entries {
		it, ok := m.items[e.Handle]
		if !ok {
			continue
		}
		if it.HitDistance(pt) > slop {
			continue
		}
		if best == nil || itemmodel.Less(best, it) {
			best = it
		}
	}
	return best
}

// StartBatch opens an undo-grouping scope; see spec.md §4.B.
func (m *Model) StartBatch() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkAlive()
	m.hist.StartBatch()
}

// EndBatch closes an undo-grouping scope; unbalanced calls are fatal.
func (m *Model) EndBatch() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkAlive()
	if !m.hist.InBatch() {
		fatalf("unbalanced end_batch")
	}
	m.hist.EndBatch()
}

// Undo reverts the most recent batch, reporting whether there was one.
func (m *Model) Undo() bool {
	m.mu.Lock()
	ok := m.hist.Undo()
	m.mu.Unlock()
	return ok
}

// Redo re-applies the most recently undone batch.
func (m *Model) Redo() bool {
	m.mu.Lock()
	ok := m.hist.Redo()
	m.mu.Unlock()
	return ok
}

// UpdateLayout changes the canvas type, page geometry and background.
func (m *Model) UpdateLayout(cfg PageConfig, bg Background) {
	m.mu.Lock()
	m.checkAlive()
	cfgChanged := cfg != m.pageConfig
	bgChanged := bg != m.background
	m.pageConfig = cfg
	m.background = bg
	if cfgChanged || bgChanged {
		m.version++
	}
	m.mu.Unlock()
	if cfgChanged {
		m.emit(PageConfigChanged{Config: cfg})
	}
	if bgChanged {
		m.emit(BackgroundChanged{Background: bg})
	}
}

// PageConfig and Background return the current layout configuration.
func (m *Model) PageConfig() PageConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pageConfig
}

func (m *Model) BackgroundStyle() Background {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.background
}

// Destroy marks the model inert. Any further public call panics with a
// FatalError, per spec.md §7 ("use-after-destroy... fatal").
func (m *Model) Destroy() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.destroyed = true
	m.observers = nil
}
