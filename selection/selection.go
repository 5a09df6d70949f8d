// SPDX-License-Identifier: Unlicense OR MIT

// Package selection implements spec.md §4.G: a transient transform
// applied to a subset of the model's items, lifted out of the model
// while being moved and reinserted as new items on commit, plus the
// process-wide copy/paste clipboard.
//
// Grounded on f32.Affine2D (reconstructed from gio's f32 package
// contract, see DESIGN.md) for the accumulated transform, and on gio's
// app/clipboard package for the clipboard's singleton shape.
package selection

import (
	"sync"
	"sync/atomic"

	"github.com/alexdremov/notate-sub003/f32"
	"github.com/alexdremov/notate-sub003/itemmodel"
	"github.com/alexdremov/notate-sub003/model"
	"github.com/alexdremov/notate-sub003/render"
)

// Selection tracks a working set of items being transformed together.
// The zero value is not usable; construct with Select.
type Selection struct {
	m *model.Model

	ids      []int64
	original []*itemmodel.Item // snapshot captured at Select time
	bounds   f32.Rectangle
	xform    f32.Affine2D

	mu       sync.Mutex
	lifted   bool
	imposter atomic.Pointer[render.Buffer]
	ready    atomic.Bool
	onReady  func()
}

// Select snapshots the union AABB of every item in ids and starts an
// identity transform. Items not currently present are skipped, per
// the same "silently skips missing" rule delete_items uses.
func Select(m *model.Model, ids []int64) *Selection {
	items := m.Items(ids)
	s := &Selection{m: m, original: items}
	s.ids = make([]int64, 0, len(items))
	for i, it := range items {
		s.ids = append(s.ids, it.Order)
		if i == 0 {
			s.bounds = it.Bounds
		} else {
			s.bounds = s.bounds.Union(it.Bounds)
		}
	}
	return s
}

// IDs returns the order values of the items currently in the
// selection.
func (s *Selection) IDs() []int64 { return append([]int64(nil), s.ids...) }

// Bounds returns the selection's union AABB, transformed by the
// accumulated transform.
func (s *Selection) Bounds() f32.Rectangle {
	p0 := s.xform.Transform(s.bounds.Min)
	p1 := s.xform.Transform(s.bounds.Max)
	return f32.Rectangle{Min: p0, Max: p1}.Canon()
}

// Translate composes a translation into the selection's transform.
// It never touches the model, per spec.md §4.G.
func (s *Selection) Translate(dx, dy float32) {
	s.xform = s.xform.Offset(f32.Pt(dx, dy))
}

// Apply composes an arbitrary affine transform into the selection's
// transform. It never touches the model, per spec.md §4.G.
func (s *Selection) Apply(a f32.Affine2D) {
	s.xform = a.Mul(s.xform)
}

// Transform returns the selection's current accumulated transform.
func (s *Selection) Transform() f32.Affine2D { return s.xform }

// ImposterOffset is the world-space origin the consumer composes as
// viewMatrix ∘ transform ∘ imposterOffset to place the lifted
// selection's imposter bitmap, per spec.md §4.G and the glossary.
func (s *Selection) ImposterOffset() f32.Point { return s.bounds.Min }

// StartMove lifts the selection out of the model on first mutation:
// it opens an undo batch, deletes the selected items from the model
// inside it, so cached tiles visually lose them, and leaves the batch
// open for CommitMove to close; an imposter bitmap
// generation task begins on its own goroutine (spec.md §5's
// "selection-imposter generation runs on a worker"). onReady, if
// non-nil, is called once the imposter is ready to draw.
func (s *Selection) StartMove(onReady func()) {
	s.mu.Lock()
	if s.lifted {
		s.mu.Unlock()
		return
	}
	s.lifted = true
	s.onReady = onReady
	s.mu.Unlock()

	s.m.StartBatch()
	s.m.DeleteItems(s.ids)

	go s.renderImposter()
}

// renderImposter draws every originally-selected item, at unit
// transform, into a single bitmap anchored at ImposterOffset.
func (s *Selection) renderImposter() {
	w := int(s.bounds.Dx())
	h := int(s.bounds.Dy())
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	buf := render.NewBuffer(w, h, s.bounds.Min)
	for _, it := range s.original {
		render.DrawItem(buf, it, false, 1)
	}
	s.imposter.Store(buf)
	s.ready.Store(true)

	s.mu.Lock()
	onReady := s.onReady
	s.mu.Unlock()
	if onReady != nil {
		onReady()
	}
}

// Imposter returns the lifted selection's rendered bitmap and whether
// it is ready yet; it is nil and false before StartMove or while the
// render task is still running.
func (s *Selection) Imposter() (*render.Buffer, bool) {
	if !s.ready.Load() {
		return nil, false
	}
	return s.imposter.Load(), true
}

// Lifted reports whether StartMove has run.
func (s *Selection) Lifted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lifted
}

// CommitMove applies the accumulated transform to each lifted item's
// geometry, reinserts the results into the model with new orders, and
// closes the undo batch StartMove opened, so the lift and the
// reinsertion undo together as one entry. Calling CommitMove without a
// prior StartMove is a no-op.
func (s *Selection) CommitMove() []*itemmodel.Item {
	s.mu.Lock()
	lifted := s.lifted
	s.lifted = false
	s.mu.Unlock()
	if !lifted {
		return nil
	}

	defer s.m.EndBatch()

	out := make([]*itemmodel.Item, 0, len(s.original))
	for _, it := range s.original {
		moved := it.Transformed(s.xform)
		inserted, err := s.m.AddItem(moved)
		if err != nil {
			// Out-of-world or invalid bounds after the transform:
			// leave the item out of the model rather than panic: the
			// caller asked to move content, not to guarantee its
			// destination is valid.
			continue
		}
		out = append(out, inserted)
	}
	s.ids = nil
	for _, it := range out {
		s.ids = append(s.ids, it.Order)
	}
	s.xform = f32.Affine2D{}
	return out
}

// Copy serializes the selection's original geometry into the
// process-wide clipboard.
func (s *Selection) Copy() {
	theClipboard().set(s.original)
}

// Paste inserts the clipboard's contents as new items, as a single
// undo batch, translated so their collective centroid lands at
// (x, y). It reports the inserted items; a nil/empty clipboard pastes
// nothing.
func Paste(m *model.Model, x, y float32) []*itemmodel.Item {
	items := theClipboard().get()
	if len(items) == 0 {
		return nil
	}

	union := items[0].Bounds
	for _, it := range items[1:] {
		union = union.Union(it.Bounds)
	}
	centroid := f32.Pt((union.Min.X+union.Max.X)/2, (union.Min.Y+union.Max.Y)/2)
	offset := f32.Pt(x-centroid.X, y-centroid.Y)
	xform := f32.Affine2D{}.Offset(offset)

	m.StartBatch()
	defer m.EndBatch()

	out := make([]*itemmodel.Item, 0, len(items))
	for _, it := range items {
		moved := it.Transformed(xform)
		inserted, err := m.AddItem(moved)
		if err != nil {
			continue
		}
		out = append(out, inserted)
	}
	return out
}
