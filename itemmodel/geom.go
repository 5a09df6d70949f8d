// SPDX-License-Identifier: Unlicense OR MIT

package itemmodel

import (
	"math"

	"github.com/alexdremov/notate-sub003/f32"
)

// CrossesPolyline reports whether item's geometry comes within tolerance
// of any segment of path, used by the stroke eraser (spec.md §4.B.1).
// Images and text are tested against their rectangle's four edges.
func (it *Item) CrossesPolyline(path []f32.Point, tolerance float32) bool {
	switch it.Kind {
	case KindStroke:
		return polylineNear(it.Stroke.Path, path, tolerance+it.Stroke.Width/2)
	case KindImage:
		return polylineNear(rectEdges(it.Image.Rect), path, tolerance)
	case KindText:
		return polylineNear(rectEdges(it.Text.Rect), path, tolerance)
	}
	return false
}

// FullyInside reports whether item's geometry lies entirely within the
// closed polygon poly, used by the lasso eraser (spec.md §4.B.1, strict
// containment).
func (it *Item) FullyInside(poly []f32.Point) bool {
	switch it.Kind {
	case KindStroke:
		for _, p := range it.Stroke.Path {
			if !pointInPolygon(p, poly) {
				return false
			}
		}
		return len(it.Stroke.Path) > 0
	case KindImage:
		return rectInPolygon(it.Image.Rect, poly)
	case KindText:
		return rectInPolygon(it.Text.Rect, poly)
	}
	return false
}

// HitDistance returns the minimum distance from pt to the item's
// geometry, used by hit-testing (spec.md §4.B "hit_test").
func (it *Item) HitDistance(pt f32.Point) float32 {
	switch it.Kind {
	case KindStroke:
		return distToPolyline(pt, it.Stroke.Path) - it.Stroke.Width/2
	case KindImage:
		return distToRect(pt, it.Image.Rect)
	case KindText:
		return distToRect(pt, it.Text.Rect)
	}
	return float32(1e9)
}

func rectEdges(r f32.Rectangle) []f32.Point {
	return []f32.Point{
		{X: r.Min.X, Y: r.Min.Y},
		{X: r.Max.X, Y: r.Min.Y},
		{X: r.Max.X, Y: r.Max.Y},
		{X: r.Min.X, Y: r.Max.Y},
		{X: r.Min.X, Y: r.Min.Y},
	}
}

func rectInPolygon(r f32.Rectangle, poly []f32.Point) bool {
	corners := []f32.Point{
		{X: r.Min.X, Y: r.Min.Y}, {X: r.Max.X, Y: r.Min.Y},
		{X: r.Max.X, Y: r.Max.Y}, {X: r.Min.X, Y: r.Max.Y},
	}
	for _, c := range corners {
		if !pointInPolygon(c, poly) {
			return false
		}
	}
	return true
}

// polylineNear reports whether any segment of a passes within d of any
// segment of b.
func polylineNear(a, b []f32.Point, d float32) bool {
	for i := 0; i+1 < len(a); i++ {
		for j := 0; j+1 < len(b); j++ {
			if segmentDistance(a[i], a[i+1], b[j], b[j+1]) <= d {
				return true
			}
		}
	}
	return false
}

func distToPolyline(pt f32.Point, path []f32.Point) float32 {
	if len(path) == 0 {
		return 1e9
	}
	if len(path) == 1 {
		return dist(pt, path[0])
	}
	best := float32(1e9)
	for i := 0; i+1 < len(path); i++ {
		d := distToSegment(pt, path[i], path[i+1])
		if d < best {
			best = d
		}
	}
	return best
}

func distToRect(pt f32.Point, r f32.Rectangle) float32 {
	dx := float32(0)
	if pt.X < r.Min.X {
		dx = r.Min.X - pt.X
	} else if pt.X > r.Max.X {
		dx = pt.X - r.Max.X
	}
	dy := float32(0)
	if pt.Y < r.Min.Y {
		dy = r.Min.Y - pt.Y
	} else if pt.Y > r.Max.Y {
		dy = pt.Y - r.Max.Y
	}
	if dx == 0 && dy == 0 {
		return 0
	}
	return sqrt(dx*dx + dy*dy)
}

func dist(a, b f32.Point) float32 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return sqrt(dx*dx + dy*dy)
}

// distToSegment returns the distance from pt to the segment a-b.
func distToSegment(pt, a, b f32.Point) float32 {
	abx, aby := b.X-a.X, b.Y-a.Y
	apx, apy := pt.X-a.X, pt.Y-a.Y
	lenSq := abx*abx + aby*aby
	if lenSq == 0 {
		return dist(pt, a)
	}
	t := (apx*abx + apy*aby) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	proj := f32.Pt(a.X+t*abx, a.Y+t*aby)
	return dist(pt, proj)
}

// segmentDistance returns the minimum distance between segments p1-p2
// and p3-p4: 0 when segmentsIntersect reports a proper crossing,
// otherwise the smallest endpoint-to-segment distance in both
// directions, which is exact for segments that don't cross.
func segmentDistance(p1, p2, p3, p4 f32.Point) float32 {
	if segmentsIntersect(p1, p2, p3, p4) {
		return 0
	}
	d := distToSegment(p1, p3, p4)
	if v := distToSegment(p2, p3, p4); v < d {
		d = v
	}
	if v := distToSegment(p3, p1, p2); v < d {
		d = v
	}
	if v := distToSegment(p4, p1, p2); v < d {
		d = v
	}
	return d
}

func cross(o, a, b f32.Point) float32 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

func segmentsIntersect(p1, p2, p3, p4 f32.Point) bool {
	d1 := cross(p3, p4, p1)
	d2 := cross(p3, p4, p2)
	d3 := cross(p1, p2, p3)
	d4 := cross(p1, p2, p4)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	return false
}

// pointInPolygon reports whether pt lies inside the closed polygon poly
// (ray-casting). poly need not explicitly repeat its first point.
func pointInPolygon(pt f32.Point, poly []f32.Point) bool {
	n := len(poly)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		pi, pj := poly[i], poly[j]
		if (pi.Y > pt.Y) != (pj.Y > pt.Y) {
			xInt := (pj.X-pi.X)*(pt.Y-pi.Y)/(pj.Y-pi.Y) + pi.X
			if pt.X < xInt {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

func sqrt(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}
