// SPDX-License-Identifier: Unlicense OR MIT

// Package tilemanager implements spec.md §4.F: the scheduler that
// turns a visible world rectangle into cached pixel tiles, generating
// missing ones in a bounded worker pool, composing fallbacks from
// neighbouring levels while a tile is missing, and applying in-place
// mutations to already-cached tiles without a full regeneration.
//
// Grounded on golang.org/x/sync/semaphore (as phanxgames-willow uses
// it to bound concurrent work) for the generation worker pool, and on
// golang.org/x/image/draw for the up/down-sampling fallback composites.
package tilemanager

import "math"

// TileSize is the fixed pixel width and height of every cached tile,
// regardless of level (spec.md §4.E).
const TileSize = 512

// MinLevel and MaxLevel bound the LOD pyramid (spec.md §4.F "world
// range ±10").
const (
	MinLevel int32 = -10
	MaxLevel int32 = 10
)

// LodBias nudges level selection toward a coarser tile slightly before
// it is strictly needed, trading a touch of blur for fewer
// regenerations while zooming.
const LodBias = 0.5

// HighWaterFraction is the fraction of the cache's byte budget above
// which neighbour pre-caching stops (spec.md §4.F).
const HighWaterFraction = 0.90

// NotifyInterval bounds consumer notifications to ~30 Hz.
const NotifyInterval = 1000 / 30 // milliseconds, see notify.go

// scaleForLevel returns pixels-per-world-unit at level: 2^-level.
func scaleForLevel(level int32) float32 {
	return float32(math.Pow(2, float64(-level)))
}

// tileWorldSize returns the world-space extent of one tile at level.
func tileWorldSize(level int32) float32 {
	return TileSize / scaleForLevel(level)
}

// levelForScale picks round(-log2(s) + LodBias) for the requested view
// scale s (pixels per world unit), clamped to [MinLevel, MaxLevel]:
// the finest level whose resolution is strictly below s, so an exact
// power of two such as s = 1 selects the next coarser level (level 1).
func levelForScale(s float32) int32 {
	if s <= 0 {
		s = 1e-6
	}
	l := int32(math.Round(-math.Log2(float64(s)) + LodBias))
	if l < MinLevel {
		l = MinLevel
	}
	if l > MaxLevel {
		l = MaxLevel
	}
	return l
}
