// SPDX-License-Identifier: Unlicense OR MIT

package tilemanager

import (
	"github.com/alexdremov/notate-sub003/render"
	"github.com/alexdremov/notate-sub003/tilecache"
)

// generate runs one tile's generation task: it reads model_version and
// the tile's world rect, queries items, rasterizes them, and installs
// the result unless a newer version raced ahead of it (spec.md §4.F
// "Generation task").
func (mgr *Manager) generate(key tilecache.Key) {
	defer mgr.wg.Done()
	defer mgr.cache.UnmarkGenerating(key)

	if err := mgr.sem.Acquire(mgr.ctx, 1); err != nil {
		return // manager destroyed before a slot freed up
	}
	defer mgr.sem.Release(1)

	if mgr.ctx.Err() != nil {
		return
	}

	startEpoch := mgr.cache.Epoch()
	startVersion := mgr.model.Version()

	entry, failed := mgr.renderTile(key, startVersion)
	mgr.installGenerated(key, entry, startEpoch, startVersion)
	if !failed {
		// spec.md §7 "TileGenerationFailed ... consumer is not
		// notified" — the error tile is cached silently.
		mgr.notify.schedule()
	}
}

// renderTile does the actual drawing work, recovering from a panicking
// Renderer so one bad item never wedges the worker pool (spec.md §4.F
// "Failure semantics"). failed reports whether the panic path ran.
func (mgr *Manager) renderTile(key tilecache.Key, version uint64) (entry *tilecache.Entry, failed bool) {
	defer func() {
		if r := recover(); r != nil {
			logFailure(key, r)
			mgr.errs.record(key)
			entry, failed = errorTile(key, version), true
		}
	}()

	rect := tileWorldRect(key)
	items := mgr.model.QueryItems(rect)
	scale := scaleForLevel(key.Level)

	buf := render.NewBufferAt(TileSize, TileSize, rect.Min, scale)
	render.DrawBackground(buf, mgr.model.BackgroundStyle(), scale)
	for _, it := range items {
		mgr.cfg.Draw(buf, it, mgr.cfg.Debug, scale)
	}
	return &tilecache.Entry{Buf: buf, Version: version, Bytes: tileByteSize(buf)}, false
}

// errorTile is a small, cheaply-constructed red-tinted placeholder
// installed in the tile's place after a failed generation: a single
// pixel whose Scale stretches it over the tile's whole world rect.
func errorTile(key tilecache.Key, version uint64) *tilecache.Entry {
	rect := tileWorldRect(key)
	buf := render.NewBufferAt(1, 1, rect.Min, scaleForLevel(key.Level)/TileSize)
	errorFill(buf)
	return &tilecache.Entry{Buf: buf, Version: version, Bytes: tileByteSize(buf)}
}

func tileByteSize(buf *render.Buffer) int {
	b := buf.Bounds()
	return b.Dx() * b.Dy() * 4
}
