// SPDX-License-Identifier: Unlicense OR MIT

package selection

import (
	"image/color"
	"testing"
	"time"

	"github.com/alexdremov/notate-sub003/f32"
	"github.com/alexdremov/notate-sub003/itemmodel"
	"github.com/alexdremov/notate-sub003/model"
)

func newTestModel() *model.Model {
	return model.New(model.PageConfig{Type: model.Infinite}, model.Background{Kind: model.Blank})
}

func addStroke(t *testing.T, m *model.Model, x0, y0, x1, y1 float32) *itemmodel.Item {
	t.Helper()
	pts := []itemmodel.InputPoint{
		{Pos: f32.Pt(x0, y0), Pressure: 1},
		{Pos: f32.Pt(x1, y1), Pressure: 1},
	}
	it, err := m.AddItem(itemmodel.NewStroke(pts, color.NRGBA{A: 0xff}, 4, itemmodel.StylePen))
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	return it
}

// TestSelectCapturesUnionBounds covers the select() contract of
// spec.md §4.G: the union AABB of every selected item.
func TestSelectCapturesUnionBounds(t *testing.T) {
	m := newTestModel()
	a := addStroke(t, m, 0, 0, 10, 10)
	b := addStroke(t, m, 100, 100, 120, 120)

	sel := Select(m, []int64{a.Order, b.Order})
	want := a.Bounds.Union(b.Bounds)
	if sel.Bounds() != want {
		t.Fatalf("got bounds %v, want %v", sel.Bounds(), want)
	}
}

// TestTranslateDoesNotTouchModel covers spec.md §4.G's "does not touch
// the model" guarantee for translate/apply before a move is started.
func TestTranslateDoesNotTouchModel(t *testing.T) {
	m := newTestModel()
	it := addStroke(t, m, 0, 0, 10, 10)
	sel := Select(m, []int64{it.Order})

	sel.Translate(100, 0)

	got := m.QueryItems(f32.Rect(-1000, -1000, 1000, 1000))
	if len(got) != 1 || got[0].Bounds != it.Bounds {
		t.Fatalf("translate before start_move must not mutate the model, got %v", got)
	}
}

// TestScenarioS6SelectMoveCommit is spec.md §8's S6: select two items,
// start_move, translate, commit_move → model contains new items with
// bounds shifted by the translation, no items at the original bounds,
// and a single undo entry reverts the whole move.
func TestScenarioS6SelectMoveCommit(t *testing.T) {
	m := newTestModel()
	a := addStroke(t, m, 0, 0, 10, 10)
	b := addStroke(t, m, 20, 20, 30, 30)
	originalA, originalB := a.Bounds, b.Bounds

	sel := Select(m, []int64{a.Order, b.Order})
	sel.StartMove(nil)
	sel.Translate(100, 0)
	moved := sel.CommitMove()

	if len(moved) != 2 {
		t.Fatalf("expected 2 items reinserted, got %d", len(moved))
	}
	for i, orig := range []f32.Rectangle{originalA, originalB} {
		want := orig.Add(f32.Pt(100, 0))
		if moved[i].Bounds != want {
			t.Fatalf("item %d bounds = %v, want %v", i, moved[i].Bounds, want)
		}
		if moved[i].Order == []int64{a.Order, b.Order}[i] {
			t.Fatalf("item %d should have a new Order, kept the old one", i)
		}
	}

	all := m.QueryItems(f32.Rect(-1000, -1000, 1000, 1000))
	if len(all) != 2 {
		t.Fatalf("expected exactly 2 items on the canvas, got %d", len(all))
	}
	for _, it := range all {
		if it.Bounds == originalA || it.Bounds == originalB {
			t.Fatalf("an item still sits at the pre-move bounds: %v", it.Bounds)
		}
	}

	if !m.Undo() {
		t.Fatal("expected a single undo entry for the whole move")
	}
	after := m.QueryItems(f32.Rect(-1000, -1000, 1000, 1000))
	if len(after) != 2 {
		t.Fatalf("undo should restore exactly the original 2 items, got %d", len(after))
	}
	gotBounds := map[f32.Rectangle]bool{after[0].Bounds: true, after[1].Bounds: true}
	if !gotBounds[originalA] || !gotBounds[originalB] {
		t.Fatalf("undo did not restore original bounds, got %v", after)
	}
}

// TestStartMoveLiftsItemsImmediately covers the "lift" half of
// start_move: items disappear from the model synchronously, before
// the imposter bitmap is ready.
func TestStartMoveLiftsItemsImmediately(t *testing.T) {
	m := newTestModel()
	it := addStroke(t, m, 0, 0, 10, 10)
	sel := Select(m, []int64{it.Order})

	sel.StartMove(nil)

	got := m.QueryItems(f32.Rect(-1000, -1000, 1000, 1000))
	if len(got) != 0 {
		t.Fatalf("start_move must remove selected items synchronously, got %v", got)
	}
}

// TestImposterBecomesReady covers spec.md §5's "selection-imposter
// generation runs on a worker and signals the consumer when ready".
func TestImposterBecomesReady(t *testing.T) {
	m := newTestModel()
	it := addStroke(t, m, 0, 0, 10, 10)
	sel := Select(m, []int64{it.Order})

	ready := make(chan struct{})
	sel.StartMove(func() { close(ready) })

	select {
	case <-ready:
	case <-time.After(2 * time.Second):
		t.Fatal("imposter onReady callback never fired")
	}

	buf, ok := sel.Imposter()
	if !ok || buf == nil {
		t.Fatal("expected a ready imposter buffer")
	}
}

// TestCopyPasteTranslatesToCentroid covers copy()/paste(x,y): pasted
// items are inserted with the copied set's centroid at (x, y).
func TestCopyPasteTranslatesToCentroid(t *testing.T) {
	m := newTestModel()
	a := addStroke(t, m, 0, 0, 10, 10)
	b := addStroke(t, m, 10, 0, 20, 10)

	sel := Select(m, []int64{a.Order, b.Order})
	sel.Copy()

	pasted := Paste(m, 1000, 1000)
	if len(pasted) != 2 {
		t.Fatalf("expected 2 pasted items, got %d", len(pasted))
	}

	var union f32.Rectangle
	for i, it := range pasted {
		if i == 0 {
			union = it.Bounds
		} else {
			union = union.Union(it.Bounds)
		}
	}
	cx := (union.Min.X + union.Max.X) / 2
	cy := (union.Min.Y + union.Max.Y) / 2
	if diff := cx - 1000; diff > 0.01 || diff < -0.01 {
		t.Fatalf("pasted centroid x = %v, want ~1000", cx)
	}
	if diff := cy - 1000; diff > 0.01 || diff < -0.01 {
		t.Fatalf("pasted centroid y = %v, want ~1000", cy)
	}
}

// TestPasteEmptyClipboardIsNoOp ensures pasting with nothing copied
// inserts nothing and doesn't panic.
func TestPasteEmptyClipboardIsNoOp(t *testing.T) {
	m := newTestModel()
	// A fresh process-wide clipboard might carry state from another
	// test in this package; explicitly copy an empty selection first.
	Select(m, nil).Copy()

	pasted := Paste(m, 0, 0)
	if len(pasted) != 0 {
		t.Fatalf("expected no pasted items, got %d", len(pasted))
	}
}
