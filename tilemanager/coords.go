// SPDX-License-Identifier: Unlicense OR MIT

package tilemanager

import (
	"math"

	"github.com/alexdremov/notate-sub003/f32"
	"github.com/alexdremov/notate-sub003/tilecache"
)

// tileWorldRect returns the world-space rectangle covered by key.
func tileWorldRect(key tilecache.Key) f32.Rectangle {
	size := tileWorldSize(key.Level)
	return f32.Rect(
		float32(key.X)*size, float32(key.Y)*size,
		float32(key.X+1)*size, float32(key.Y+1)*size,
	)
}

// floorDivF floors a/b toward negative infinity for float operands.
func floorDivF(a, b float32) int32 {
	return int32(math.Floor(float64(a / b)))
}

// visibleKeys returns every tile key at level whose world rect
// intersects viewport, flooring negative coordinates toward -inf
// (spec.md §4.F "Negative coordinates must floor toward -infinity").
func visibleKeys(viewport f32.Rectangle, level int32) []tilecache.Key {
	size := tileWorldSize(level)
	viewport = viewport.Canon()
	x0 := floorDivF(viewport.Min.X, size)
	y0 := floorDivF(viewport.Min.Y, size)
	x1 := floorDivF(viewport.Max.X, size)
	y1 := floorDivF(viewport.Max.Y, size)

	var keys []tilecache.Key
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			keys = append(keys, tilecache.Key{Level: level, X: x, Y: y})
		}
	}
	return keys
}

// neighbours8 returns the 8-connected neighbour keys of key at the
// same level.
func neighbours8(key tilecache.Key) []tilecache.Key {
	out := make([]tilecache.Key, 0, 8)
	for dy := int32(-1); dy <= 1; dy++ {
		for dx := int32(-1); dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			out = append(out, tilecache.Key{Level: key.Level, X: key.X + dx, Y: key.Y + dy})
		}
	}
	return out
}
