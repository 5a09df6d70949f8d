// SPDX-License-Identifier: Unlicense OR MIT

// Package render implements spec.md §4.D: a single, stateless
// draw_item entry point shared by tile generation and any direct
// rendering path, plus the background-pattern fill of spec.md §4.F
// step 3.
//
// Grounded on gio's raster package (golang.org/x/image/vector used as
// a CPU rasterizer, draw.Draw/draw.Over for flat compositing) rather
// than gpu/stroke.go's GPU quad pipeline, since this facade never
// touches a GPU.
package render

import (
	"image"
	"image/draw"

	"github.com/alexdremov/notate-sub003/f32"
)

// Buffer is a pixel target local to one rendered tile or selection
// bitmap. Origin is the world-space coordinate of the buffer's
// top-left pixel; DrawItem maps world coordinates to pixel coordinates
// as (world - Origin) * scale, where scale is supplied per call. Scale
// is an optional bookkeeping field a caller that generates the buffer
// at one fixed scale (the tile manager) can set for its own later use;
// DrawItem never reads it, only PixelAt does.
type Buffer struct {
	Pix    *image.RGBA
	Origin f32.Point
	Scale  float32
}

// NewBuffer allocates a transparent w×h buffer anchored at origin.
func NewBuffer(w, h int, origin f32.Point) *Buffer {
	return &Buffer{
		Pix:    image.NewRGBA(image.Rect(0, 0, w, h)),
		Origin: origin,
	}
}

// NewBufferAt allocates a transparent w×h buffer anchored at origin,
// recording scale for the caller's own later bookkeeping.
func NewBufferAt(w, h int, origin f32.Point, scale float32) *Buffer {
	buf := NewBuffer(w, h, origin)
	buf.Scale = scale
	return buf
}

// Bounds returns the buffer's pixel rectangle, always starting at (0,0).
func (b *Buffer) Bounds() image.Rectangle {
	return b.Pix.Bounds()
}

// Clear resets every pixel to fully transparent.
func (b *Buffer) Clear() {
	draw.Draw(b.Pix, b.Pix.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

// toPixel maps a world-space point to this buffer's pixel space at scale.
func (b *Buffer) toPixel(p f32.Point, scale float32) f32.Point {
	return f32.Pt((p.X-b.Origin.X)*scale, (p.Y-b.Origin.Y)*scale)
}

// PixelAt maps a world-space point to this buffer's pixel space using
// its own Scale field; callers that generated the buffer at a fixed
// scale (the tile manager) use this instead of re-threading scale.
func (b *Buffer) PixelAt(p f32.Point) f32.Point {
	return b.toPixel(p, b.Scale)
}
