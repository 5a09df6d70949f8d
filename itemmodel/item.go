// SPDX-License-Identifier: Unlicense OR MIT

// Package itemmodel defines the drawable items of the canvas: strokes,
// images and text, their bounds, z-order bucket and variant payloads.
//
// Items are immutable once created. An erase removes whole items, and
// a selection move that repositions items reinserts transformed copies
// with new Order values; existing Items are never mutated.
package itemmodel

import (
	"image/color"

	"github.com/alexdremov/notate-sub003/f32"
)

// ZBucket buckets items for paint order: highlighter strokes are always
// drawn below normal content, which is drawn below the top bucket.
type ZBucket uint8

const (
	ZHighlighter ZBucket = iota
	ZNormal
	ZTop
)

// Kind discriminates the variant payload carried by an Item. There is no
// subclassing relationship — all item-traversing code (the quadtree, the
// renderer facade, hit-testing) switches on Kind.
type Kind uint8

const (
	KindStroke Kind = iota
	KindImage
	KindText
)

// StyleTag is a cosmetic pen configuration for a stroke; it does not
// affect z-order (ZBucket does) except that StyleHighlighter strokes are
// always created with ZBucket == ZHighlighter.
type StyleTag uint8

const (
	StylePen StyleTag = iota
	StyleHighlighter
	StyleMarker
	StyleFountain
)

// InputPoint is one sample of raw pen input: position, pressure in
// [0,1], and a millisecond timestamp from the input device's clock.
type InputPoint struct {
	Pos         f32.Point
	Pressure    float32
	TimestampMS int64
}

// Stroke is the payload of a KindStroke item.
type Stroke struct {
	Color  color.NRGBA
	Width  float32
	Style  StyleTag
	Points []InputPoint
	// Path is the precomputed, flattened centerline geometry derived
	// from Points; the renderer facade and hit-testing both walk Path
	// rather than re-deriving it from Points on every draw.
	Path []f32.Point
}

// Image is the payload of a KindImage item.
type Image struct {
	// Source is an opaque handle resolved by the embedder (e.g. a file
	// path or asset id); the core never decodes it.
	Source   string
	Rect     f32.Rectangle
	Rotation float32
}

// Text is the payload of a KindText item.
type Text struct {
	Body     string
	FontSize float32
	Color    color.NRGBA
	Rect     f32.Rectangle
	Rotation float32
}

// Item is a single drawable object on the canvas.
//
// Invariants (enforced by the model, not by Item itself):
//   - Bounds always encloses every point the item will paint, inflated
//     by the stroke half-width for KindStroke.
//   - Order is unique and strictly increasing in creation time; among
//     items with equal ZBucket, Order determines paint order.
type Item struct {
	Order   int64
	Bounds  f32.Rectangle
	ZBucket ZBucket
	Kind    Kind

	Stroke *Stroke
	Image  *Image
	Text   *Text
}

// Less orders two items for painting: ascending ZBucket, then ascending
// Order within a bucket.
func Less(a, b *Item) bool {
	if a.ZBucket != b.ZBucket {
		return a.ZBucket < b.ZBucket
	}
	return a.Order < b.Order
}

// clonePoints returns an independent copy of pts.
func clonePoints(pts []f32.Point) []f32.Point {
	if pts == nil {
		return nil
	}
	out := make([]f32.Point, len(pts))
	copy(out, pts)
	return out
}

func cloneInputPoints(pts []InputPoint) []InputPoint {
	if pts == nil {
		return nil
	}
	out := make([]InputPoint, len(pts))
	copy(out, pts)
	return out
}

// Clone returns a deep copy of the item with the same Order. Callers
// that need a new identity (paste, selection commit) must overwrite
// Order after cloning.
func (it *Item) Clone() *Item {
	out := &Item{
		Order:   it.Order,
		Bounds:  it.Bounds,
		ZBucket: it.ZBucket,
		Kind:    it.Kind,
	}
	switch it.Kind {
	case KindStroke:
		s := *it.Stroke
		s.Points = cloneInputPoints(it.Stroke.Points)
		s.Path = clonePoints(it.Stroke.Path)
		out.Stroke = &s
	case KindImage:
		img := *it.Image
		out.Image = &img
	case KindText:
		txt := *it.Text
		out.Text = &txt
	}
	return out
}

// Transformed returns a copy of the item with its geometry transformed
// by a, keeping the same Order (the caller reassigns Order on commit,
// exactly once, per spec.md's "new items with new orders" rule). The
// returned item's Bounds is recomputed from the transformed geometry.
func (it *Item) Transformed(a f32.Affine2D) *Item {
	out := it.Clone()
	switch out.Kind {
	case KindStroke:
		for i, p := range out.Stroke.Path {
			out.Stroke.Path[i] = a.Transform(p)
		}
		for i, p := range out.Stroke.Points {
			out.Stroke.Points[i].Pos = a.Transform(p.Pos)
		}
		out.Stroke.Width *= a.ScaleFactor()
		out.Bounds = boundsOfPath(out.Stroke.Path, out.Stroke.Width/2)
	case KindImage:
		out.Image.Rect = transformedRect(out.Image.Rect, a)
		out.Bounds = out.Image.Rect
	case KindText:
		out.Text.Rect = transformedRect(out.Text.Rect, a)
		out.Bounds = out.Text.Rect
	}
	return out
}

func transformedRect(r f32.Rectangle, a f32.Affine2D) f32.Rectangle {
	p0 := a.Transform(r.Min)
	p1 := a.Transform(r.Max)
	return f32.Rectangle{Min: p0, Max: p1}.Canon()
}

// boundsOfPath computes the AABB of path, inflated by half on every
// side, so Bounds always encloses every point a stroke will paint.
func boundsOfPath(path []f32.Point, half float32) f32.Rectangle {
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

// NewStroke builds a stroke item from raw input points. Bounds and Path
// are derived from pts; Order is left zero for the model to assign.
func NewStroke(pts []InputPoint, col color.NRGBA, width float32, style StyleTag) *Item {
	path := make([]f32.Point, len(pts))
	for i, p := range pts {
		path[i] = p.Pos
	}
	zb := ZNormal
	if style == StyleHighlighter {
		zb = ZHighlighter
	}
	return &Item{
		Bounds:  boundsOfPath(path, width/2),
		ZBucket: zb,
		Kind:    KindStroke,
		Stroke: &Stroke{
			Color:  col,
			Width:  width,
			Style:  style,
			Points: cloneInputPoints(pts),
			Path:   path,
		},
	}
}

// NewImage builds an image item. Order is left zero for the model to
// assign.
func NewImage(source string, rect f32.Rectangle, rotation float32) *Item {
	return &Item{
		Bounds:  rect,
		ZBucket: ZNormal,
		Kind:    KindImage,
		Image:   &Image{Source: source, Rect: rect, Rotation: rotation},
	}
}

// NewText builds a text item. Order is left zero for the model to
// assign.
func NewText(body string, fontSize float32, col color.NRGBA, rect f32.Rectangle, rotation float32) *Item {
	return &Item{
		Bounds:  rect,
		ZBucket: ZNormal,
		Kind:    KindText,
		Text:    &Text{Body: body, FontSize: fontSize, Color: col, Rect: rect, Rotation: rotation},
	}
}
