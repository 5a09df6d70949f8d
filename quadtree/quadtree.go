// SPDX-License-Identifier: Unlicense OR MIT

// Package quadtree implements a growable spatial index over
// axis-aligned bounding boxes, keyed by a stable int64 handle (the
// owning item's Order). It has no teacher analogue in the example
// corpus — the implementation follows the invariants of spec.md §4.A
// directly: up to 16 entries per node before splitting, max depth 8,
// entries whose bounds straddle a node's midlines stay at that node,
// and the tree grows by reparenting the current root under a larger
// one when an insert falls outside it.
package quadtree

import "github.com/alexdremov/notate-sub003/f32"

const (
	maxItemsPerNode = 16
	maxDepth        = 8
)

// Entry is one indexed item: a stable handle and its bounds.
type Entry struct {
	Handle int64
	Bounds f32.Rectangle
}

type node struct {
	bounds   f32.Rectangle
	depth    int
	entries  []Entry
	children *[4]*node // nil until the node splits
}

// Tree is a quadtree index. The zero value is not usable; use New with
// a non-empty initial extent.
type Tree struct {
	root *node
}

// New creates a tree whose root covers the given initial bounds. The
// root grows automatically as items are inserted outside it.
func New(initialBounds f32.Rectangle) *Tree {
	return &Tree{root: &node{bounds: initialBounds}}
}

// Bounds returns the current root AABB.
func (t *Tree) Bounds() f32.Rectangle {
	return t.root.bounds
}

// Insert indexes handle by bounds, growing the root if necessary so
// that it encloses bounds.
func (t *Tree) Insert(handle int64, bounds f32.Rectangle) {
	for !containsRect(t.root.bounds, bounds) {
		t.growRoot(bounds)
	}
	t.root.insert(Entry{Handle: handle, Bounds: bounds})
}

// growRoot replaces the root with a new root of at least double the
// extent, whose quadrant containing the old root is set to the old
// root — growing toward whichever side of target the current root
// doesn't yet cover.
func (t *Tree) growRoot(target f32.Rectangle) {
	old := t.root
	w, h := old.bounds.Dx(), old.bounds.Dy()

	growLeft := target.Min.X < old.bounds.Min.X
	growUp := target.Min.Y < old.bounds.Min.Y

	minX := old.bounds.Min.X
	if growLeft {
		minX -= w
	}
	minY := old.bounds.Min.Y
	if growUp {
		minY -= h
	}

	newBounds := f32.Rectangle{
		Min: f32.Pt(minX, minY),
		Max: f32.Pt(minX+2*w, minY+2*h),
	}

	idx := 0
	if growLeft {
		idx |= 1
	}
	if growUp {
		idx |= 2
	}

	incrementDepth(old)
	newRoot := &node{bounds: newBounds}
	children := &[4]*node{}
	for i := 0; i < 4; i++ {
		if i == idx {
			children[i] = old
			continue
		}
		children[i] = &node{bounds: newRoot.childBounds(i), depth: old.depth}
	}
	newRoot.children = children
	t.root = newRoot
}

func incrementDepth(n *node) {
	n.depth++
	if n.children != nil {
		for _, c := range n.children {
			incrementDepth(c)
		}
	}
}

// Remove removes the entry with the given handle and bounds (the same
// bounds it was indexed with) and reports whether it was found. It
// descends with the same straddle-tolerant test Insert uses, so an
// entry indexed before a growth episode is still found afterward.
func (t *Tree) Remove(handle int64, bounds f32.Rectangle) bool {
	return t.root.remove(handle, bounds)
}

// Retrieve appends to into every entry whose bounds intersect query,
// without duplicates, and returns the extended slice.
func (t *Tree) Retrieve(into []Entry, query f32.Rectangle) []Entry {
	return t.root.retrieve(into, query)
}

func containsRect(outer, inner f32.Rectangle) bool {
	return inner.Min.X >= outer.Min.X && inner.Min.Y >= outer.Min.Y &&
		inner.Max.X <= outer.Max.X && inner.Max.Y <= outer.Max.Y
}

func rectsIntersect(a, b f32.Rectangle) bool {
	return !(a.Max.X < b.Min.X || b.Max.X < a.Min.X || a.Max.Y < b.Min.Y || b.Max.Y < a.Min.Y)
}
