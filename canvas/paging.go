// SPDX-License-Identifier: Unlicense OR MIT

package canvas

import (
	"github.com/alexdremov/notate-sub003/f32"
	"github.com/alexdremov/notate-sub003/model"
)

// pageStride returns the world-space vertical distance between the
// start of consecutive pages: page height plus the fixed inter-page
// gap (spec.md §3 "page spacing is a single constant"). For an
// Infinite canvas there is exactly one page, spanning the whole world.
func (c *Controller) pageStride() (stride float32, paginated bool) {
	cfg := c.model.PageConfig()
	if cfg.Type != model.FixedPages || cfg.PageH <= 0 {
		return 0, false
	}
	return cfg.PageH + model.PageSpacing, true
}

// CurrentPage returns the zero-based page index containing world-space
// vertical offset viewportY.
func (c *Controller) CurrentPage(viewportY float32) int {
	stride, ok := c.pageStride()
	if !ok {
		return 0
	}
	p := int(viewportY / stride)
	if p < 0 {
		p = 0
	}
	return p
}

// TotalPages returns the number of pages spanned by the model's
// current content, computed from the furthest item's vertical extent.
// An Infinite canvas always reports a single page.
func (c *Controller) TotalPages() int {
	stride, ok := c.pageStride()
	if !ok {
		return 1
	}
	var maxY float32
	for _, it := range c.model.QueryItems(worldRect()) {
		if it.Bounds.Max.Y > maxY {
			maxY = it.Bounds.Max.Y
		}
	}
	return int(maxY/stride) + 1
}

// JumpTo returns the world-space offset the consumer should scroll its
// viewport to in order to show the top of page.
func (c *Controller) JumpTo(page int) f32.Point {
	if page < 0 {
		page = 0
	}
	stride, ok := c.pageStride()
	if !ok {
		return f32.Pt(0, 0)
	}
	return f32.Pt(0, float32(page)*stride)
}

// NextPage returns the offset to scroll to for the page after the one
// containing viewportY.
func (c *Controller) NextPage(viewportY float32) f32.Point {
	return c.JumpTo(c.CurrentPage(viewportY) + 1)
}

// PrevPage returns the offset to scroll to for the page before the one
// containing viewportY, clamped to the first page.
func (c *Controller) PrevPage(viewportY float32) f32.Point {
	return c.JumpTo(c.CurrentPage(viewportY) - 1)
}

func worldRect() f32.Rectangle {
	return f32.Rect(-model.WorldLimit, -model.WorldLimit, model.WorldLimit, model.WorldLimit)
}
