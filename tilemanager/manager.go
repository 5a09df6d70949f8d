// SPDX-License-Identifier: Unlicense OR MIT

package tilemanager

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/alexdremov/notate-sub003/f32"
	"github.com/alexdremov/notate-sub003/itemmodel"
	"github.com/alexdremov/notate-sub003/model"
	"github.com/alexdremov/notate-sub003/render"
	"github.com/alexdremov/notate-sub003/tilecache"
)

// Renderer is the pluggable draw_item collaborator of spec.md §4.D/§6.
// render.DrawItem satisfies it.
type Renderer func(target *render.Buffer, item *itemmodel.Item, debug bool, scale float32)

// Config configures a Manager. The zero value is not usable; start
// from DefaultConfig.
type Config struct {
	// CacheBudgetBytes is the tile cache's byte budget.
	CacheBudgetBytes int
	// Workers bounds concurrent generation tasks; defaults to
	// runtime.NumCPU() when <= 0.
	Workers int
	// Draw is the draw_item collaborator; defaults to render.DrawItem.
	Draw Renderer
	// Debug draws each item's bounding-box outline, for development use.
	Debug bool
}

// DefaultConfig returns a Config with a 256 MiB tile budget (roughly
// 65% of a conservative 400 MiB heap allowance — spec.md §3 leaves the
// exact split to the embedder) and one worker per CPU.
func DefaultConfig() Config {
	return Config{
		CacheBudgetBytes: 256 << 20,
		Workers:          runtime.NumCPU(),
		Draw:             render.DrawItem,
	}
}

// Manager schedules tile generation, serves cached and fallback tiles
// to a consumer's render loop, and applies in-place mutations to
// already-cached tiles, per spec.md §4.F.
type Manager struct {
	model  *model.Model
	cache  *tilecache.Cache
	cfg    Config
	errs   *errorCache
	notify *notifier

	sem    *semaphore.Weighted
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.Mutex
	destroyed   bool
	unsub       func()
	lastVisible []tilecache.Key
}

// New constructs a Manager bound to m, observing its change events to
// drive in-place tile updates. onReady is called (coalesced to ~30 Hz)
// whenever newly generated or updated tiles are ready to be drawn.
func New(m *model.Model, cfg Config, onReady func()) *Manager {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Draw == nil {
		cfg.Draw = render.DrawItem
	}
	ctx, cancel := context.WithCancel(context.Background())
	mgr := &Manager{
		model:  m,
		cache:  tilecache.New(cfg.CacheBudgetBytes, 4096),
		cfg:    cfg,
		errs:   newErrorCache(),
		notify: newNotifier(onReady),
		sem:    semaphore.NewWeighted(int64(cfg.Workers)),
		ctx:    ctx,
		cancel: cancel,
	}
	mgr.unsub = m.Subscribe(mgr.onChange)
	return mgr
}

func (mgr *Manager) onChange(ev model.ChangeEvent) {
	switch e := ev.(type) {
	case model.ItemsAdded:
		for _, it := range e.Items {
			mgr.UpdateWithItem(it)
		}
	case model.ItemsRemoved:
		for _, it := range e.Items {
			mgr.Invalidate(it.Bounds)
		}
	case model.BackgroundChanged, model.PageConfigChanged:
		mgr.Clear()
	}
}

// DrawViewport composites every tile visible in viewport at view scale
// s into target, using cached tiles where present and falling back to
// a coarser or finer composite otherwise, and enqueues generation for
// any tile not already cached or in flight.
func (mgr *Manager) DrawViewport(target *render.Buffer, viewport f32.Rectangle, s float32) {
	target.Scale = s
	level := levelForScale(s)
	keys := visibleKeys(viewport, level)

	mgr.mu.Lock()
	mgr.lastVisible = keys
	mgr.mu.Unlock()

	for _, k := range keys {
		mgr.drawOneTile(target, k)
		if _, hit := mgr.cache.Peek(k); !hit {
			mgr.enqueueGenerate(k)
		}
	}
	mgr.preCacheNeighbours(keys)
}

func (mgr *Manager) drawOneTile(target *render.Buffer, key tilecache.Key) {
	if entry, ok := mgr.cache.Get(key); ok {
		entry.Lock()
		blit(target, entry.Buf, tileWorldRect(key))
		entry.Unlock()
		return
	}
	if buf, ok := mgr.composeFallback(key); ok {
		blit(target, buf, tileWorldRect(key))
	}
}

// preCacheNeighbours enqueues the 8-connected neighbours of every
// visible key, unless the cache is already at or above its high-water
// mark (spec.md §4.F). Neighbours go through the same enqueueGenerate
// path as visible tiles; they get no lower scheduling priority.
func (mgr *Manager) preCacheNeighbours(visible []tilecache.Key) {
	if float64(mgr.cache.Bytes()) >= HighWaterFraction*float64(mgr.cache.Budget()) {
		return
	}
	seen := make(map[tilecache.Key]bool, len(visible))
	for _, k := range visible {
		seen[k] = true
	}
	for _, k := range visible {
		for _, n := range neighbours8(k) {
			if seen[n] {
				continue
			}
			seen[n] = true
			if _, hit := mgr.cache.Peek(n); !hit {
				mgr.enqueueGenerate(n)
			}
		}
	}
}

func (mgr *Manager) enqueueGenerate(key tilecache.Key) {
	if mgr.errs.suppressed(key) {
		return
	}
	if !mgr.cache.MarkGenerating(key) {
		return
	}
	mgr.wg.Add(1)
	go mgr.generate(key)
}

// Destroy cancels all outstanding generation tasks, joins the worker
// pool, and renders the manager inert.
func (mgr *Manager) Destroy() {
	mgr.mu.Lock()
	if mgr.destroyed {
		mgr.mu.Unlock()
		return
	}
	mgr.destroyed = true
	mgr.mu.Unlock()

	if mgr.unsub != nil {
		mgr.unsub()
	}
	mgr.cancel()
	mgr.wg.Wait()
	mgr.cache.Clear()
}

// Clear drops every cached tile and cancels in-flight generations'
// ability to install stale results, per spec.md §4.F "Versioning".
func (mgr *Manager) Clear() {
	mgr.cache.Clear()
	mgr.notify.schedule()
}

func logFailure(key tilecache.Key, r any) {
	slog.Error("tilemanager: generation task failed", "key", key, "panic", r)
}
