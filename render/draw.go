// SPDX-License-Identifier: Unlicense OR MIT

package render

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/vector"

	"github.com/alexdremov/notate-sub003/f32"
	"github.com/alexdremov/notate-sub003/itemmodel"
)

// placeholderImageFill is the flat color an image item is drawn with.
// The core never decodes Image.Source (spec.md §4.D Non-goals), so an
// embedder-supplied renderer is expected to override this facade for
// production use; this default keeps draw_item total and deterministic.
var placeholderImageFill = color.NRGBA{R: 0xc0, G: 0xc0, B: 0xc0, A: 0xff}

// DrawItem rasterizes item onto target at scale (pixels per world
// unit) — spec.md §4.D's draw_item(target, item, debug, scale)
// contract. It is pure and stateless: the same item drawn at the same
// scale against buffers sharing an Origin always produces identical
// pixels, so two tiles that share a seam render identically on both
// sides.
func DrawItem(target *Buffer, item *itemmodel.Item, debug bool, scale float32) {
	switch item.Kind {
	case itemmodel.KindStroke:
		drawStroke(target, item.Stroke, scale)
	case itemmodel.KindImage:
		drawFlatRect(target, item.Image.Rect, scale, placeholderImageFill)
	case itemmodel.KindText:
		drawFlatRect(target, item.Text.Rect, scale, item.Text.Color)
	}
	if debug {
		drawOutline(target, item.Bounds, scale, color.NRGBA{R: 0xff, A: 0xff})
	}
}

func drawStroke(target *Buffer, s *itemmodel.Stroke, scale float32) {
	if len(s.Path) == 0 {
		return
	}
	b := target.Bounds()
	pixPath := make([]f32.Point, len(s.Path))
	for i, p := range s.Path {
		pixPath[i] = target.toPixel(p, scale)
	}
	r := vector.NewRasterizer(b.Dx(), b.Dy())
	r.DrawOp = draw.Over
	strokeOutline(r, pixPath, s.Width/2*scale)
	r.Draw(target.Pix, b, image.NewUniform(s.Color), image.Point{})
}

func drawFlatRect(target *Buffer, rect f32.Rectangle, scale float32, col color.NRGBA) {
	p0 := target.toPixel(rect.Min, scale)
	p1 := target.toPixel(rect.Max, scale)
	dst := image.Rect(int(p0.X), int(p0.Y), int(p1.X), int(p1.Y)).Canon().Intersect(target.Bounds())
	if dst.Empty() {
		return
	}
	draw.Draw(target.Pix, dst, image.NewUniform(col), image.Point{}, draw.Over)
}

// drawOutline strokes a one-pixel frame around rect, used by the tile
// manager's debug overlay (spec.md §4.F).
func drawOutline(target *Buffer, rect f32.Rectangle, scale float32, col color.NRGBA) {
	const w = 1
	p0 := target.toPixel(rect.Min, scale)
	p1 := target.toPixel(rect.Max, scale)
	b := target.Bounds()

	r := vector.NewRasterizer(b.Dx(), b.Dy())
	r.DrawOp = draw.Over
	r.MoveTo(p0.X, p0.Y)
	r.LineTo(p1.X, p0.Y)
	r.LineTo(p1.X, p1.Y)
	r.LineTo(p0.X, p1.Y)
	r.ClosePath()
	r.MoveTo(p0.X+w, p0.Y+w)
	r.LineTo(p0.X+w, p1.Y-w)
	r.LineTo(p1.X-w, p1.Y-w)
	r.LineTo(p1.X-w, p0.Y+w)
	r.ClosePath()
	r.Draw(target.Pix, b, image.NewUniform(col), image.Point{})
}
