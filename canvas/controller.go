// SPDX-License-Identifier: Unlicense OR MIT

// Package canvas is the module root: it wires model.Model,
// tilemanager.Manager and selection.Selection together behind
// Controller, the narrow façade spec.md §4.H describes for the
// consumer (input layer, toolbars) to drive — the only type in this
// module a typical embedder needs to import directly.
//
// Grounded on gio's own top-level package shape: a small struct that
// owns its collaborators' lifetimes and exposes a flat method surface,
// the same shape app.Window presents over io/router, gpu and app/os.
package canvas

import (
	"image/color"
	"sync"

	"github.com/alexdremov/notate-sub003/f32"
	"github.com/alexdremov/notate-sub003/itemmodel"
	"github.com/alexdremov/notate-sub003/model"
	"github.com/alexdremov/notate-sub003/render"
	"github.com/alexdremov/notate-sub003/selection"
	"github.com/alexdremov/notate-sub003/tilemanager"
)

// Controller is the top-level façade over one canvas document. The
// zero value is not usable; construct with New.
type Controller struct {
	model *model.Model
	tiles *tilemanager.Manager

	mu  sync.Mutex
	sel *selection.Selection
}

// Config bundles everything New needs to construct a Controller.
type Config struct {
	PageConfig model.PageConfig
	Background model.Background
	Tiles      tilemanager.Config
	// OnFrameReady is called (coalesced to ~30 Hz) whenever newly
	// generated or updated tiles are ready for the consumer to redraw.
	OnFrameReady func()
}

// New constructs a Controller over a fresh, empty document.
func New(cfg Config) *Controller {
	m := model.New(cfg.PageConfig, cfg.Background)
	c := &Controller{model: m}
	c.tiles = tilemanager.New(m, cfg.Tiles, cfg.OnFrameReady)
	return c
}

// CommitStroke adds a freehand stroke built from raw input points.
// Within the calling goroutine, every cached tile the stroke's bounds
// overlaps is updated in place before CommitStroke returns — spec.md
// §8's S2 — so the caller's own redraw sees the new stroke with no
// worker-pool round trip.
func (c *Controller) CommitStroke(pts []itemmodel.InputPoint, col color.NRGBA, width float32, style itemmodel.StyleTag) (*itemmodel.Item, error) {
	return c.model.AddItem(itemmodel.NewStroke(pts, col, width, style))
}

// AddImage and AddText add non-stroke items, reusing the same
// synchronous in-place tile update path as CommitStroke.
func (c *Controller) AddImage(source string, rect f32.Rectangle, rotation float32) (*itemmodel.Item, error) {
	return c.model.AddItem(itemmodel.NewImage(source, rect, rotation))
}

func (c *Controller) AddText(body string, fontSize float32, col color.NRGBA, rect f32.Rectangle, rotation float32) (*itemmodel.Item, error) {
	return c.model.AddItem(itemmodel.NewText(body, fontSize, col, rect, rotation))
}

// PreviewEraser applies an in-progress eraser stroke's visual effect
// without committing anything: only the Standard (pixel) eraser has a
// visible preview, painted directly onto already-cached tiles (spec.md
// §4.B.1, §9 "fully ephemeral" decision in DESIGN.md). Stroke/Lasso
// erasers have no preview-time model or tile effect; the consumer is
// expected to hit-test and highlight candidates itself.
func (c *Controller) PreviewEraser(path []f32.Point, kind model.EraseKind, width float32) {
	if kind == model.EraseStandard {
		c.tiles.UpdateWithErasure(path, width)
	}
}

// CommitEraser finalizes an eraser stroke: for Stroke/Lasso erasers it
// removes the affected items from the model as a single undo entry;
// for the Standard eraser it re-applies the pixel clear (idempotent
// with the preview) since a commit may arrive without every preview
// frame having run. It reports the affected union bounds and whether
// anything was affected.
func (c *Controller) CommitEraser(path []f32.Point, kind model.EraseKind, width float32) (f32.Rectangle, bool) {
	bounds, ok := c.model.Erase(path, kind, width)
	if !ok {
		return bounds, false
	}
	if kind == model.EraseStandard {
		c.tiles.UpdateWithErasure(path, width)
	}
	return bounds, true
}

// StartBatch and EndBatch group elementary mutations into one undo
// entry; an unbalanced EndBatch panics with FatalError (spec.md §4.B).
func (c *Controller) StartBatch() { c.model.StartBatch() }
func (c *Controller) EndBatch()   { c.model.EndBatch() }

// Undo and Redo revert or re-apply the most recent batch, reporting
// whether there was one.
func (c *Controller) Undo() bool { return c.model.Undo() }
func (c *Controller) Redo() bool { return c.model.Redo() }

// Select starts a new selection over the given item ids, replacing any
// selection already in progress.
func (c *Controller) Select(ids []int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sel = selection.Select(c.model, ids)
}

// Selection returns the selection currently in progress, or nil.
func (c *Controller) Selection() *selection.Selection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sel
}

// TranslateSelection and ApplySelection mirror selection.Selection's
// own methods; both are no-ops if nothing is selected.
func (c *Controller) TranslateSelection(dx, dy float32) {
	if sel := c.Selection(); sel != nil {
		sel.Translate(dx, dy)
	}
}

func (c *Controller) ApplySelection(a f32.Affine2D) {
	if sel := c.Selection(); sel != nil {
		sel.Apply(a)
	}
}

// StartMoveSelection lifts the current selection out of the model; a
// no-op if nothing is selected.
func (c *Controller) StartMoveSelection(onReady func()) {
	if sel := c.Selection(); sel != nil {
		sel.StartMove(onReady)
	}
}

// CommitMoveSelection applies the accumulated transform and reinserts
// the lifted items, then clears the in-progress selection.
func (c *Controller) CommitMoveSelection() []*itemmodel.Item {
	sel := c.Selection()
	if sel == nil {
		return nil
	}
	out := sel.CommitMove()
	c.mu.Lock()
	c.sel = nil
	c.mu.Unlock()
	return out
}

// CopySelection serializes the current selection into the process-wide
// clipboard; a no-op if nothing is selected.
func (c *Controller) CopySelection() {
	if sel := c.Selection(); sel != nil {
		sel.Copy()
	}
}

// Paste inserts the clipboard's contents centered at (x, y).
func (c *Controller) Paste(x, y float32) []*itemmodel.Item {
	return selection.Paste(c.model, x, y)
}

// OnContentChanged registers fn to run after every committed model
// mutation — the single sink spec.md §4.H names for the consumer to
// trigger persistence — and returns an unsubscribe function. It is
// distinct from Config.OnFrameReady: this fires on every model change,
// uncoalesced, carrying no pixel-readiness guarantee.
func (c *Controller) OnContentChanged(fn func()) (unsubscribe func()) {
	return c.model.Subscribe(func(model.ChangeEvent) { fn() })
}

// DrawViewport composites the given world-space viewport at scale
// into target, using the tile manager's cache and fallback composition.
func (c *Controller) DrawViewport(target *render.Buffer, viewport f32.Rectangle, scale float32) {
	c.tiles.DrawViewport(target, viewport, scale)
}

// Snapshot returns an independent, persistable copy of the document.
func (c *Controller) Snapshot() model.Snapshot {
	return c.model.Snapshot()
}

// Apply replaces the document's contents with s, then clears the tile
// cache so every tile regenerates against the new content, per spec.md
// §6. It returns ErrSnapshotVersionMismatch and leaves the document
// untouched if s carries an unrecognised format.
func (c *Controller) Apply(s model.Snapshot) error {
	if err := c.model.Apply(s); err != nil {
		return err
	}
	c.tiles.Clear()
	return nil
}

// Destroy tears down the tile manager's worker pool and marks the
// underlying model inert. Any further call to Controller after Destroy
// is a programming error.
func (c *Controller) Destroy() {
	c.tiles.Destroy()
	c.model.Destroy()
}
