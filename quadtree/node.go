// SPDX-License-Identifier: Unlicense OR MIT

package quadtree

import "github.com/alexdremov/notate-sub003/f32"

func (n *node) insert(e Entry) {
	if n.children != nil {
		if idx, ok := n.quadrantFor(e.Bounds); ok {
			n.children[idx].insert(e)
			return
		}
		n.entries = append(n.entries, e)
		return
	}
	n.entries = append(n.entries, e)
	if len(n.entries) > maxItemsPerNode && n.depth < maxDepth {
		n.split()
	}
}

// split distributes n's entries into four new children, leaving at n
// only the entries that straddle a midline.
func (n *node) split() {
	children := &[4]*node{}
	for idx := 0; idx < 4; idx++ {
		children[idx] = &node{bounds: n.childBounds(idx), depth: n.depth + 1}
	}

	remaining := n.entries[:0]
	for _, e := range n.entries {
		if idx, ok := n.quadrantFor(e.Bounds); ok {
			children[idx].insert(e)
		} else {
			remaining = append(remaining, e)
		}
	}
	n.entries = remaining
	n.children = children
}

func (n *node) remove(handle int64, bounds f32.Rectangle) bool {
	if n.children != nil {
		if idx, ok := n.quadrantFor(bounds); ok {
			if n.children[idx].remove(handle, bounds) {
				n.tryCollapse()
				return true
			}
			return false
		}
	}
	for i, e := range n.entries {
		if e.Handle == handle {
			n.entries = append(n.entries[:i], n.entries[i+1:]...)
			return true
		}
	}
	return false
}

// tryCollapse drops n's children once every one of them is empty and
// itself childless.
func (n *node) tryCollapse() {
	if n.children == nil {
		return
	}
	for _, c := range n.children {
		if c.children != nil || len(c.entries) > 0 {
			return
		}
	}
	n.children = nil
}

func (n *node) retrieve(into []Entry, query f32.Rectangle) []Entry {
	if !rectsIntersect(n.bounds, query) {
		return into
	}
	for _, e := range n.entries {
		if rectsIntersect(e.Bounds, query) {
			into = append(into, e)
		}
	}
	if n.children != nil {
		for _, c := range n.children {
			into = c.retrieve(into, query)
		}
	}
	return into
}

// quadrantFor reports the single child quadrant that fully contains
// bounds, or ok=false if bounds straddles a midline and must live at n.
func (n *node) quadrantFor(bounds f32.Rectangle) (idx int, ok bool) {
	midX := (n.bounds.Min.X + n.bounds.Max.X) / 2
	midY := (n.bounds.Min.Y + n.bounds.Max.Y) / 2

	var xSide, ySide int
	switch {
	case bounds.Max.X <= midX:
		xSide = 0
	case bounds.Min.X >= midX:
		xSide = 1
	default:
		return 0, false
	}
	switch {
	case bounds.Max.Y <= midY:
		ySide = 0
	case bounds.Min.Y >= midY:
		ySide = 1
	default:
		return 0, false
	}
	return ySide*2 + xSide, true
}

// childBounds returns the AABB of quadrant idx (0=NW, 1=NE, 2=SW, 3=SE).
func (n *node) childBounds(idx int) f32.Rectangle {
	midX := (n.bounds.Min.X + n.bounds.Max.X) / 2
	midY := (n.bounds.Min.Y + n.bounds.Max.Y) / 2
	minX, maxX := n.bounds.Min.X, midX
	if idx&1 != 0 {
		minX, maxX = midX, n.bounds.Max.X
	}
	minY, maxY := n.bounds.Min.Y, midY
	if idx&2 != 0 {
		minY, maxY = midY, n.bounds.Max.Y
	}
	return f32.Rectangle{Min: f32.Pt(minX, minY), Max: f32.Pt(maxX, maxY)}
}
