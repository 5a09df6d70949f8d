// SPDX-License-Identifier: Unlicense OR MIT

package tilemanager

import (
	"image/color"
	"math"

	"github.com/alexdremov/notate-sub003/f32"
	"github.com/alexdremov/notate-sub003/itemmodel"
	"github.com/alexdremov/notate-sub003/render"
	"github.com/alexdremov/notate-sub003/tilecache"
)

// UpdateWithItem draws item onto every cached tile its bounds
// intersects, bumping that tile's version, without evicting or
// scheduling a regeneration (spec.md §4.F "update_with_item").
func (mgr *Manager) UpdateWithItem(item *itemmodel.Item) {
	mgr.eachCachedTileOverlapping(item.Bounds, func(key tilecache.Key, entry *tilecache.Entry) {
		entry.Lock()
		mgr.cfg.Draw(entry.Buf, item, mgr.cfg.Debug, entry.Buf.Scale)
		entry.Version++
		entry.Unlock()
	})
	mgr.notify.schedule()
}

// UpdateWithErasure paints transparent pixels of width along path onto
// every cached tile it intersects, used by the standard (pixel)
// eraser (spec.md §4.F "update_with_erasure"; spec.md §4.B.1).
func (mgr *Manager) UpdateWithErasure(path []f32.Point, width float32) {
	bounds := pathBounds(path, width/2)
	mgr.eachCachedTileOverlapping(bounds, func(key tilecache.Key, entry *tilecache.Entry) {
		entry.Lock()
		eraseAlongPath(entry.Buf, path, width)
		entry.Version++
		entry.Unlock()
	})
	mgr.notify.schedule()
}

// Invalidate marks every cached tile intersecting rect dirty and
// schedules its regeneration, but keeps the stale tile visible in the
// meantime (spec.md §4.F "invalidate" — double buffering).
func (mgr *Manager) Invalidate(rect f32.Rectangle) {
	mgr.invalidate(rect)
}

// Refresh behaves like Invalidate but is used after an eraser commit,
// where spec.md §4.F calls for higher scheduling priority; this
// manager has a single worker-pool priority tier, so Refresh enqueues
// immediately rather than deferring to an idle tick.
func (mgr *Manager) Refresh(rect f32.Rectangle) {
	mgr.invalidate(rect)
}

func (mgr *Manager) invalidate(rect f32.Rectangle) {
	mgr.eachKeyOverlapping(rect, func(key tilecache.Key) {
		if _, ok := mgr.cache.Peek(key); ok {
			mgr.enqueueGenerate(key)
		}
	})
}

// eachCachedTileOverlapping calls fn for every currently-cached tile,
// at every level, whose world rect intersects rect.
func (mgr *Manager) eachCachedTileOverlapping(rect f32.Rectangle, fn func(tilecache.Key, *tilecache.Entry)) {
	mgr.cache.Each(func(key tilecache.Key, entry *tilecache.Entry) {
		if !tileWorldRect(key).Intersect(rect).Empty() {
			fn(key, entry)
		}
	})
}

// eachKeyOverlapping calls fn once for every cached tile's key whose
// world rect intersects rect.
func (mgr *Manager) eachKeyOverlapping(rect f32.Rectangle, fn func(tilecache.Key)) {
	var keys []tilecache.Key
	mgr.cache.Each(func(key tilecache.Key, _ *tilecache.Entry) {
		if !tileWorldRect(key).Intersect(rect).Empty() {
			keys = append(keys, key)
		}
	})
	for _, k := range keys {
		fn(k)
	}
}

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
	return f32.Rectangle{Min: f32.Pt(r.Min.X-half, r.Min.Y-half), Max: f32.Pt(r.Max.X+half, r.Max.Y+half)}
}

// eraseAlongPath clears (sets fully transparent) every pixel of buf
// within width/2 of any segment of path, in buf's own pixel space.
func eraseAlongPath(buf *render.Buffer, path []f32.Point, width float32) {
	if len(path) == 0 || width <= 0 {
		return
	}
	half := width / 2
	b := buf.Bounds()
	pixPath := make([]f32.Point, len(path))
	for i, p := range path {
		pixPath[i] = buf.PixelAt(p)
	}
	pixHalf := half * buf.Scale

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			pt := f32.Pt(float32(x)+0.5, float32(y)+0.5)
			if distToPolylinePixels(pt, pixPath) <= pixHalf {
				buf.Pix.Set(x, y, transparentBlack)
			}
		}
	}
}

func distToPolylinePixels(pt f32.Point, path []f32.Point) float32 {
	if len(path) == 1 {
		return distPt(pt, path[0])
	}
	best := float32(math.MaxFloat32)
	for i := 0; i+1 < len(path); i++ {
		if d := distToSegmentPixels(pt, path[i], path[i+1]); d < best {
			best = d
		}
	}
	return best
}

func distToSegmentPixels(pt, a, b f32.Point) float32 {
	abx, aby := b.X-a.X, b.Y-a.Y
	lenSq := abx*abx + aby*aby
	if lenSq == 0 {
		return distPt(pt, a)
	}
	t := ((pt.X-a.X)*abx + (pt.Y-a.Y)*aby) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	proj := f32.Pt(a.X+t*abx, a.Y+t*aby)
	return distPt(pt, proj)
}

func distPt(a, b f32.Point) float32 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return float32(math.Sqrt(float64(dx*dx + dy*dy)))
}

var transparentBlack = color.NRGBA{}
