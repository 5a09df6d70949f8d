// SPDX-License-Identifier: Unlicense OR MIT

package tilemanager

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"

	"github.com/alexdremov/notate-sub003/f32"
	"github.com/alexdremov/notate-sub003/render"
	"github.com/alexdremov/notate-sub003/tilecache"
)

// blit resamples src (covering srcWorldRect at src.Scale) into target,
// clipped to the overlap of srcWorldRect and target's own visible
// world rect. Using a Scaler rather than plain draw.Draw lets the
// source and destination disagree on resolution, which is exactly
// what the fallback composition below needs.
func blit(target *render.Buffer, src *render.Buffer, srcWorldRect f32.Rectangle) {
	if target.Scale <= 0 || src.Scale <= 0 {
		return
	}
	targetWorld := f32.Rectangle{
		Min: target.Origin,
		Max: f32.Pt(
			target.Origin.X+float32(target.Bounds().Dx())/target.Scale,
			target.Origin.Y+float32(target.Bounds().Dy())/target.Scale,
		),
	}
	overlap := srcWorldRect.Intersect(targetWorld)
	if overlap.Empty() {
		return
	}

	srcRect := worldToPixelRect(overlap, src)
	dstRect := worldToPixelRect(overlap, target)
	if srcRect.Empty() || dstRect.Empty() {
		return
	}
	xdraw.CatmullRom.Scale(target.Pix, dstRect, src.Pix, srcRect, xdraw.Over, nil)
}

func worldToPixelRect(world f32.Rectangle, buf *render.Buffer) image.Rectangle {
	p0 := buf.PixelAt(world.Min)
	p1 := buf.PixelAt(world.Max)
	return image.Rect(int(p0.X), int(p0.Y), int(p1.X), int(p1.Y)).Canon().Intersect(buf.Bounds())
}

// composeFallback synthesizes a stand-in buffer for key when it isn't
// cached: first by walking up to a cached ancestor and taking its
// corresponding sub-region, else by walking down one level and
// compositing up to four cached children (spec.md §4.F "fallback
// composition").
func (mgr *Manager) composeFallback(key tilecache.Key) (*render.Buffer, bool) {
	if buf, ok := mgr.fallbackFromAncestor(key); ok {
		return buf, true
	}
	return mgr.fallbackFromChildren(key)
}

func (mgr *Manager) fallbackFromAncestor(key tilecache.Key) (*render.Buffer, bool) {
	cur := key
	for cur.Level < MaxLevel {
		cur = cur.Parent()
		entry, ok := mgr.cache.Peek(cur)
		if !ok {
			continue
		}
		rect := tileWorldRect(key)
		out := render.NewBufferAt(TileSize, TileSize, rect.Min, scaleForLevel(key.Level))
		entry.Lock()
		blit(out, entry.Buf, tileWorldRect(cur))
		entry.Unlock()
		return out, true
	}
	return nil, false
}

func (mgr *Manager) fallbackFromChildren(key tilecache.Key) (*render.Buffer, bool) {
	if key.Level <= MinLevel {
		return nil, false
	}
	children := key.Children()
	rect := tileWorldRect(key)
	out := render.NewBufferAt(TileSize, TileSize, rect.Min, scaleForLevel(key.Level))
	found := false
	for _, c := range children {
		entry, ok := mgr.cache.Peek(c)
		if !ok {
			continue
		}
		found = true
		entry.Lock()
		blit(out, entry.Buf, tileWorldRect(c))
		entry.Unlock()
	}
	if !found {
		return nil, false
	}
	return out, true
}

// installGenerated installs entry for key unless a clear or a fresher
// in-place update raced ahead of this generation task.
func (mgr *Manager) installGenerated(key tilecache.Key, entry *tilecache.Entry, startEpoch, startVersion uint64) {
	if mgr.cache.Epoch() != startEpoch {
		return
	}
	if existing, ok := mgr.cache.Peek(key); ok && existing.Version > startVersion {
		return
	}
	mgr.cache.Put(key, entry, mgr.currentPins())
}

func (mgr *Manager) currentPins() []tilecache.Key {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	return mgr.lastVisible
}

// errorFill paints buf a flat, semi-transparent red, the "error tile"
// of spec.md §4.F's failure semantics.
func errorFill(buf *render.Buffer) {
	col := color.NRGBA{R: 0xc0, A: 0x80}
	b := buf.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			buf.Pix.Set(x, y, col)
		}
	}
}
