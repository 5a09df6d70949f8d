// SPDX-License-Identifier: Unlicense OR MIT

package render

import (
	"image/color"
	"testing"

	"github.com/alexdremov/notate-sub003/f32"
	"github.com/alexdremov/notate-sub003/itemmodel"
	"github.com/alexdremov/notate-sub003/model"
)

func TestDrawItemStrokePaintsAlongPath(t *testing.T) {
	buf := NewBuffer(64, 64, f32.Pt(0, 0))
	it := itemmodel.NewStroke(
		[]itemmodel.InputPoint{{Pos: f32.Pt(10, 32)}, {Pos: f32.Pt(54, 32)}},
		color.NRGBA{R: 0xff, A: 0xff}, 6, itemmodel.StylePen,
	)
	DrawItem(buf, it, false, 1)

	_, _, _, a := buf.Pix.At(32, 32).RGBA()
	if a == 0 {
		t.Fatal("expected the stroke's centerline pixel to be painted")
	}
	_, _, _, a = buf.Pix.At(32, 2).RGBA()
	if a != 0 {
		t.Fatal("expected a pixel far from the stroke to remain transparent")
	}
}

func TestDrawItemIsDeterministic(t *testing.T) {
	it := itemmodel.NewStroke(
		[]itemmodel.InputPoint{{Pos: f32.Pt(0, 0)}, {Pos: f32.Pt(40, 20)}, {Pos: f32.Pt(10, 40)}},
		color.NRGBA{G: 0xff, A: 0xff}, 4, itemmodel.StylePen,
	)
	b1 := NewBuffer(48, 48, f32.Pt(0, 0))
	b2 := NewBuffer(48, 48, f32.Pt(0, 0))
	DrawItem(b1, it, false, 1)
	DrawItem(b2, it, false, 1)
	for y := 0; y < 48; y++ {
		for x := 0; x < 48; x++ {
			if b1.Pix.At(x, y) != b2.Pix.At(x, y) {
				t.Fatalf("draw_item must be deterministic, mismatch at (%d,%d)", x, y)
			}
		}
	}
}

func TestDrawItemScalesStrokeWidth(t *testing.T) {
	it := itemmodel.NewStroke(
		[]itemmodel.InputPoint{{Pos: f32.Pt(0, 16)}, {Pos: f32.Pt(32, 16)}},
		color.NRGBA{B: 0xff, A: 0xff}, 8, itemmodel.StylePen,
	)
	buf := NewBuffer(64, 64, f32.Pt(0, 0))
	DrawItem(buf, it, false, 2)

	// At scale 2, the stroke occupies pixel rows [24,40) (centerline
	// row 32, half-width 4*2); unscaled it would cover only [28,36).
	_, _, _, a := buf.Pix.At(16, 26).RGBA()
	if a == 0 {
		t.Fatal("expected scale to widen painted coverage proportionally, row 26 is unpainted")
	}
	_, _, _, a = buf.Pix.At(16, 2).RGBA()
	if a != 0 {
		t.Fatal("expected scale to widen painted coverage proportionally, found paint far outside it")
	}
}

func TestDrawItemImageAndTextFillRect(t *testing.T) {
	buf := NewBuffer(32, 32, f32.Pt(0, 0))
	img := itemmodel.NewImage("asset", f32.Rect(4, 4, 20, 20), 0)
	DrawItem(buf, img, false, 1)
	_, _, _, a := buf.Pix.At(10, 10).RGBA()
	if a == 0 {
		t.Fatal("expected the image placeholder rect to be painted")
	}

	buf2 := NewBuffer(32, 32, f32.Pt(0, 0))
	txt := itemmodel.NewText("hi", 12, color.NRGBA{R: 0x10, A: 0xff}, f32.Rect(4, 4, 20, 20), 0)
	DrawItem(buf2, txt, false, 1)
	r, _, _, a2 := buf2.Pix.At(10, 10).RGBA()
	if a2 == 0 || r == 0 {
		t.Fatal("expected the text placeholder rect to be painted with the item's color")
	}
}

func TestDrawItemDebugOutline(t *testing.T) {
	buf := NewBuffer(32, 32, f32.Pt(0, 0))
	it := itemmodel.NewImage("asset", f32.Rect(4, 4, 20, 20), 0)
	DrawItem(buf, it, true, 1)
	// The grey image fill also covers (4,4); only the red outline
	// drawn over it leaves the green channel at zero.
	_, g, _, a := buf.Pix.At(4, 4).RGBA()
	if a == 0 || g != 0 {
		t.Fatal("expected a debug outline pixel at the bounds corner")
	}
}

func TestDrawBackgroundBlankIsNoOp(t *testing.T) {
	buf := NewBuffer(16, 16, f32.Pt(0, 0))
	DrawBackground(buf, model.Background{Kind: model.Blank}, 1)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			_, _, _, a := buf.Pix.At(x, y).RGBA()
			if a != 0 {
				t.Fatal("Blank background must not paint any pixel")
			}
		}
	}
}

func TestDrawBackgroundGridSeamsAcrossTileOrigins(t *testing.T) {
	bg := model.Background{Kind: model.Grid, Spacing: 16, Thickness: 2, Color: color.NRGBA{A: 0xff}}

	full := NewBuffer(32, 16, f32.Pt(0, 0))
	DrawBackground(full, bg, 1)

	left := NewBuffer(16, 16, f32.Pt(0, 0))
	right := NewBuffer(16, 16, f32.Pt(16, 0))
	DrawBackground(left, bg, 1)
	DrawBackground(right, bg, 1)

	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			if full.Pix.At(x, y) != left.Pix.At(x, y) {
				t.Fatalf("left tile diverges from the whole-buffer render at (%d,%d)", x, y)
			}
			if full.Pix.At(x+16, y) != right.Pix.At(x, y) {
				t.Fatalf("right tile diverges from the whole-buffer render at (%d,%d)", x, y)
			}
		}
	}
}
