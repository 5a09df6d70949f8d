// SPDX-License-Identifier: Unlicense OR MIT

package model

import (
	"github.com/alexdremov/notate-sub003/f32"
	"github.com/alexdremov/notate-sub003/history"
	"github.com/alexdremov/notate-sub003/itemmodel"
)

// EraseKind selects the eraser semantics of spec.md §4.B.1.
type EraseKind uint8

const (
	// EraseStandard clears pixels only; the model is never mutated.
	EraseStandard EraseKind = iota
	// EraseStroke removes any item whose geometry crosses path within
	// width's tolerance.
	EraseStroke
	// EraseLasso removes any item fully contained in the closed
	// polygon path.
	EraseLasso
)

// Erase applies path (a polyline, or for EraseLasso a closed polygon)
// to the model and returns the union AABB of the area affected, or
// ok=false if nothing was affected. EraseStandard never mutates the
// model and always reports ok=true with the path's own AABB — pixel
// clearing is the tile manager's responsibility (spec.md §4.B.1).
func (m *Model) Erase(path []f32.Point, kind EraseKind, width float32) (bounds f32.Rectangle, ok bool) {
	pb := pathBounds(path, width/2)
	if kind == EraseStandard {
		return pb, true
	}

	m.mu.Lock()
	m.checkAlive()
	entries := m.tree.Retrieve(nil, pb)

	var removed []*itemmodel.Item
	for _, e := range entries {
		it, present := m.items[e.Handle]
		if !present {
			continue
		}
		var hit bool
		switch kind {
		case EraseStroke:
			hit = it.CrossesPolyline(path, width/2)
		case EraseLasso:
			hit = it.FullyInside(path)
		}
		if hit {
			removed = append(removed, it)
		}
	}

	if len(removed) == 0 {
		m.mu.Unlock()
		return f32.Rectangle{}, false
	}

	union := removed[0].Bounds
	for _, it := range removed[1:] {
		union = union.Union(it.Bounds)
	}
	for _, it := range removed {
		delete(m.items, it.Order)
		m.tree.Remove(it.Order, it.Bounds)
	}
	m.version++
	// A multi-item erase is one undo unit (spec.md §4.C): group every
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
	return union, true
}

// pathBounds is the AABB of path inflated by half on every side.
func pathBounds(path []f32.Point, half float32) f32.Rectangle {
	if len(path) == 0 {
		return f32.Rectangle{}
	}
	r := f32.Rectangle{Min: path[0], Max: path[0]}
	for _, p := range path[1:] {
		if p.X < r.Min.X {
			r.Min.X = p.X
		}
		if p.Y < r.Min.Y {
			r.Min.Y = p.Y
		}
		if p.X > r.Max.X {
			r.Max.X = p.X
		}
		if p.Y > r.Max.Y {
			r.Max.Y = p.Y
		}
	}
	return f32.Rectangle{
		Min: f32.Pt(r.Min.X-half, r.Min.Y-half),
		Max: f32.Pt(r.Max.X+half, r.Max.Y+half),
	}
}
