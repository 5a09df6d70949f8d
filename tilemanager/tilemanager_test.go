// SPDX-License-Identifier: Unlicense OR MIT

package tilemanager

import (
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/alexdremov/notate-sub003/f32"
	"github.com/alexdremov/notate-sub003/itemmodel"
	"github.com/alexdremov/notate-sub003/model"
	"github.com/alexdremov/notate-sub003/render"
	"github.com/alexdremov/notate-sub003/tilecache"
)

func newTestModel() *model.Model {
	return model.New(model.PageConfig{Type: model.Infinite}, model.Background{Kind: model.Blank})
}

// waitReady blocks until fn has been called at least once or the
// timeout elapses, returning whether it fired.
func waitReady(timeout time.Duration) (wait func() bool, onReady func()) {
	ch := make(chan struct{}, 1)
	var once sync.Once
	onReady = func() {
		once.Do(func() { close(ch) })
	}
	wait = func() bool {
		select {
		case <-ch:
			return true
		case <-time.After(timeout):
			return false
		}
	}
	return wait, onReady
}

func strokeItem(x0, y0, x1, y1 float32) *itemmodel.Item {
	pts := []itemmodel.InputPoint{
		{Pos: f32.Pt(x0, y0), Pressure: 1},
		{Pos: f32.Pt(x1, y1), Pressure: 1},
	}
	return itemmodel.NewStroke(pts, color.NRGBA{A: 0xff}, 4, itemmodel.StylePen)
}

// TestDrawViewportGeneratesAndCachesTiles checks that drawing an
// uncached viewport enqueues generation, that onReady fires once it
// completes, and that the generated tile is then in the cache.
func TestDrawViewportGeneratesAndCachesTiles(t *testing.T) {
	m := newTestModel()
	if _, err := m.AddItem(strokeItem(10, 10, 100, 100)); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	wait, onReady := waitReady(2 * time.Second)
	cfg := DefaultConfig()
	mgr := New(m, cfg, onReady)
	defer mgr.Destroy()

	viewport := f32.Rect(0, 0, 512, 512)
	target := render.NewBuffer(512, 512, f32.Pt(0, 0))
	mgr.DrawViewport(target, viewport, 1)

	if !wait() {
		t.Fatal("onReady was never called after generation")
	}

	key := tilecache.Key{Level: levelForScale(1), X: 0, Y: 0}
	if _, ok := mgr.cache.Peek(key); !ok {
		t.Fatal("expected tile to be cached after generation completed")
	}
}

// TestUpdateWithItemBumpsCachedTileVersion covers spec.md §8 property 6:
// update_with_item applies directly to a cached tile and advances its
// version, so a generation task started before the update (holding a
// stale startVersion) must not be allowed to overwrite it.
func TestUpdateWithItemBumpsCachedTileVersion(t *testing.T) {
	m := newTestModel()
	cfg := DefaultConfig()
	mgr := New(m, cfg, func() {})
	defer mgr.Destroy()

	key := tilecache.Key{Level: 0, X: 0, Y: 0}
	rect := tileWorldRect(key)
	buf := render.NewBufferAt(TileSize, TileSize, rect.Min, scaleForLevel(0))
	entry := &tilecache.Entry{Buf: buf, Version: 5, Bytes: TileSize * TileSize * 4}
	mgr.cache.Put(key, entry, nil)

	item, err := m.AddItem(strokeItem(rect.Min.X+10, rect.Min.Y+10, rect.Min.X+50, rect.Min.Y+50))
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	mgr.UpdateWithItem(item)

	got, ok := mgr.cache.Peek(key)
	if !ok {
		t.Fatal("entry vanished after UpdateWithItem")
	}
	if got.Version <= 5 {
		t.Fatalf("expected version to advance past 5, got %d", got.Version)
	}

	// A generation task that started before the update (startVersion=5)
	// must not clobber the now-newer cached entry.
	stale := &tilecache.Entry{Buf: render.NewBufferAt(TileSize, TileSize, rect.Min, scaleForLevel(0)), Version: 5}
	mgr.installGenerated(key, stale, mgr.cache.Epoch(), 5)

	after, _ := mgr.cache.Peek(key)
	if after != got {
		t.Fatal("stale generation result overwrote a fresher in-place update")
	}
}

// TestClearDropsStaleGeneration ensures a Clear() between a generation
// task's start and completion (bumping the cache epoch) prevents that
// task's result from being installed — spec.md §4.F "Versioning".
func TestClearDropsStaleGeneration(t *testing.T) {
	m := newTestModel()
	cfg := DefaultConfig()
	mgr := New(m, cfg, func() {})
	defer mgr.Destroy()

	key := tilecache.Key{Level: 0, X: 0, Y: 0}
	startEpoch := mgr.cache.Epoch()
	mgr.Clear() // bumps the epoch past startEpoch

	entry := &tilecache.Entry{Buf: render.NewBuffer(TileSize, TileSize, f32.Pt(0, 0)), Version: 1}
	mgr.installGenerated(key, entry, startEpoch, 0)

	if _, ok := mgr.cache.Peek(key); ok {
		t.Fatal("generation result from before a Clear() must not be installed")
	}
}

// TestVisibleKeysFloorNegativeCoordinates covers spec.md §8 property 10:
// tile index math floors toward -infinity for negative world
// coordinates, so a viewport straddling the origin includes the tile
// one unit below zero, not a truncated-toward-zero index.
func TestVisibleKeysFloorNegativeCoordinates(t *testing.T) {
	level := int32(0)
	size := tileWorldSize(level)
	viewport := f32.Rect(-size/2, -size/2, size/2, size/2)
	keys := visibleKeys(viewport, level)

	want := map[tilecache.Key]bool{
		{Level: 0, X: -1, Y: -1}: true,
		{Level: 0, X: 0, Y: -1}:  true,
		{Level: 0, X: -1, Y: 0}:  true,
		{Level: 0, X: 0, Y: 0}:   true,
	}
	if len(keys) != len(want) {
		t.Fatalf("got %d keys, want %d: %v", len(keys), len(want), keys)
	}
	for _, k := range keys {
		if !want[k] {
			t.Fatalf("unexpected key %v", k)
		}
	}
}

// TestFallbackFromAncestorComposesSubregion covers S4: drawing a
// viewport at a level with no cached tile, but a cached coarser
// ancestor, must blit (not leave blank) a scaled sub-region of that
// ancestor rather than waiting for generation.
func TestFallbackFromAncestorComposesSubregion(t *testing.T) {
	m := newTestModel()
	cfg := DefaultConfig()
	mgr := New(m, cfg, func() {})
	defer mgr.Destroy()

	parentKey := tilecache.Key{Level: 1, X: 0, Y: 0}
	parentRect := tileWorldRect(parentKey)
	parentBuf := render.NewBufferAt(TileSize, TileSize, parentRect.Min, scaleForLevel(1))
	solidFill(parentBuf, color.NRGBA{R: 0xff, A: 0xff})
	mgr.cache.Put(parentKey, &tilecache.Entry{Buf: parentBuf, Version: 1, Bytes: 1}, nil)

	childKey := tilecache.Key{Level: 0, X: 0, Y: 0}
	buf, ok := mgr.composeFallback(childKey)
	if !ok {
		t.Fatal("expected a fallback composite from the cached ancestor")
	}
	r, g, b, a := buf.Pix.At(TileSize/2, TileSize/2).RGBA()
	if a == 0 {
		t.Fatalf("fallback tile is blank, want content blitted from ancestor: rgba=%d,%d,%d,%d", r, g, b, a)
	}
}

// TestFallbackFromChildrenComposesQuadrants covers the walk-down-one-level
// fallback of spec.md §4.F: zooming out to a tile with no cache entry
// but cached children
// composites their scaled-down content instead of leaving it blank.
func TestFallbackFromChildrenComposesQuadrants(t *testing.T) {
	m := newTestModel()
	cfg := DefaultConfig()
	mgr := New(m, cfg, func() {})
	defer mgr.Destroy()

	parentKey := tilecache.Key{Level: 1, X: 0, Y: 0}
	for _, c := range parentKey.Children() {
		rect := tileWorldRect(c)
		buf := render.NewBufferAt(TileSize, TileSize, rect.Min, scaleForLevel(c.Level))
		solidFill(buf, color.NRGBA{G: 0xff, A: 0xff})
		mgr.cache.Put(c, &tilecache.Entry{Buf: buf, Version: 1, Bytes: 1}, nil)
	}

	buf, ok := mgr.composeFallback(parentKey)
	if !ok {
		t.Fatal("expected a fallback composite from cached children")
	}
	_, _, _, a := buf.Pix.At(TileSize/2, TileSize/2).RGBA()
	if a == 0 {
		t.Fatal("fallback-from-children tile is blank")
	}
}

// TestFailedGenerationDoesNotNotify covers spec.md §7: a Renderer that
// panics must not trigger the ready notification, though it still
// installs a placeholder so the region doesn't thrash the worker pool.
func TestFailedGenerationDoesNotNotify(t *testing.T) {
	m := newTestModel()
	if _, err := m.AddItem(strokeItem(10, 10, 50, 50)); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	notified := make(chan struct{}, 1)
	cfg := DefaultConfig()
	cfg.Draw = func(*render.Buffer, *itemmodel.Item, bool, float32) {
		panic("boom")
	}
	mgr := New(m, cfg, func() { notified <- struct{}{} })
	defer mgr.Destroy()

	key := tilecache.Key{Level: levelForScale(1), X: 0, Y: 0}
	mgr.wg.Add(1)
	mgr.cache.MarkGenerating(key)
	mgr.generate(key)

	select {
	case <-notified:
		t.Fatal("a failed generation must not notify the consumer")
	case <-time.After(100 * time.Millisecond):
	}

	if _, ok := mgr.cache.Peek(key); !ok {
		t.Fatal("expected an error tile to be installed despite the panic")
	}
}

// TestUpdateWithErasureRemovesPixels exercises the in-place tile
// mutation path, UpdateWithErasure, which the controller calls for the
// standard eraser.
func TestUpdateWithErasureRemovesPixels(t *testing.T) {
	m := newTestModel()
	cfg := DefaultConfig()
	mgr := New(m, cfg, func() {})
	defer mgr.Destroy()

	key := tilecache.Key{Level: 0, X: 0, Y: 0}
	rect := tileWorldRect(key)
	buf := render.NewBufferAt(TileSize, TileSize, rect.Min, scaleForLevel(0))
	solidFill(buf, color.NRGBA{R: 0xff, A: 0xff})
	mgr.cache.Put(key, &tilecache.Entry{Buf: buf, Version: 1, Bytes: 1}, nil)

	mid := f32.Pt(rect.Min.X+float32(TileSize)/2, rect.Min.Y+float32(TileSize)/2)
	mgr.UpdateWithErasure([]f32.Point{mid}, 20)

	entry, _ := mgr.cache.Peek(key)
	_, _, _, a := entry.Buf.Pix.At(TileSize/2, TileSize/2).RGBA()
	if a != 0 {
		t.Fatalf("expected erased pixel to be transparent, alpha=%d", a)
	}
}

func solidFill(buf *render.Buffer, c color.NRGBA) {
	b := buf.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			buf.Pix.Set(x, y, c)
		}
	}
}
