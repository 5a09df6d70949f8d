// SPDX-License-Identifier: Unlicense OR MIT

// Package tilecache implements spec.md §4.E: a byte-budgeted LRU cache
// of rendered tile pixel buffers, keyed by (level, x, y), plus the
// in-flight "generating" set the tile manager consults before
// enqueueing a duplicate generation task.
//
// Grounded on github.com/hashicorp/golang-lru/v2 for recency ordering
// and single-key eviction (RemoveOldest); the byte-budget accounting,
// viewport pinning and generating-set tracking this cache needs go on
// top of plain LRU as this package's own addition, composing the
// library rather than reimplementing it.
package tilecache

// Key identifies one tile: level 0 is world-scale; each increasing
// level halves resolution (tile world-size = TileSize * 2^level).
type Key struct {
	Level int32
	X     int32
	Y     int32
}

// Parent returns the key of the tile one level coarser that covers K.
func (k Key) Parent() Key {
	return Key{Level: k.Level + 1, X: floorDiv(k.X, 2), Y: floorDiv(k.Y, 2)}
}

// Children returns the four keys one level finer that K covers, in a
// fixed NW, NE, SW, SE order.
func (k Key) Children() [4]Key {
	x, y, l := k.X*2, k.Y*2, k.Level-1
	return [4]Key{
		{Level: l, X: x, Y: y},
		{Level: l, X: x + 1, Y: y},
		{Level: l, X: x, Y: y + 1},
		{Level: l, X: x + 1, Y: y + 1},
	}
}

// floorDiv divides a by b, flooring toward negative infinity (unlike
// Go's truncating /), needed because tile coordinates are signed.
func floorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
