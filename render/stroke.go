// SPDX-License-Identifier: Unlicense OR MIT

package render

import (
	"math"

	"golang.org/x/image/vector"

	"github.com/alexdremov/notate-sub003/f32"
)

// capSegments is the polygon resolution used to approximate the round
// caps and joins at each path vertex. Fidelity beyond this is out of
// scope (spec.md Non-goals).
const capSegments = 8

// strokeOutline appends the quad-offset rectangle of every segment of
// path, plus a round cap/join polygon at every vertex, to r. This is
// gio's gpu/stroke.go quad-offset idea reduced to straight per-segment
// quads: a CPU rasterizer has no use for a curvature-aware GPU quad
// split, since vector.Rasterizer already resolves overlapping subpaths
// into one coverage mask via non-zero winding, so abutting quads never
// double-blend at a shared edge.
func strokeOutline(r *vector.Rasterizer, path []f32.Point, halfWidth float32) {
	if halfWidth <= 0 || len(path) == 0 {
		return
	}
	if len(path) == 1 {
		appendCircle(r, path[0], halfWidth)
		return
	}
	for i := 0; i+1 < len(path); i++ {
		appendSegmentQuad(r, path[i], path[i+1], halfWidth)
	}
	for _, p := range path {
		appendCircle(r, p, halfWidth)
	}
}

func appendSegmentQuad(r *vector.Rasterizer, a, b f32.Point, hw float32) {
	dx, dy := b.X-a.X, b.Y-a.Y
	length := float32(math.Hypot(float64(dx), float64(dy)))
	if length == 0 {
		return
	}
	nx, ny := -dy/length*hw, dx/length*hw
	r.MoveTo(a.X+nx, a.Y+ny)
	r.LineTo(b.X+nx, b.Y+ny)
	r.LineTo(b.X-nx, b.Y-ny)
	r.LineTo(a.X-nx, a.Y-ny)
	r.ClosePath()
}

func appendCircle(r *vector.Rasterizer, c f32.Point, radius float32) {
	r.MoveTo(c.X+radius, c.Y)
	for i := 1; i <= capSegments; i++ {
		// Negative angles wind the circle the same way as the segment
		// quads, so their overlap adds coverage instead of cancelling.
		theta := -float64(i) / float64(capSegments) * 2 * math.Pi
		r.LineTo(c.X+radius*float32(math.Cos(theta)), c.Y+radius*float32(math.Sin(theta)))
	}
	r.ClosePath()
}
