// SPDX-License-Identifier: Unlicense OR MIT

package model

import "image/color"

// CanvasType selects whether the world is unbounded or paginated.
type CanvasType uint8

const (
	Infinite CanvasType = iota
	FixedPages
)

// PageSpacing is the constant vertical gap between pages in a
// FixedPages canvas, per spec.md §3 ("Page spacing is a single
// constant").
const PageSpacing float32 = 32

// BackgroundKind selects the background pattern drawn under items.
type BackgroundKind uint8

const (
	Blank BackgroundKind = iota
	Dots
	Lines
	Grid
)

// Background describes the page background pattern. Only the fields
// relevant to Kind are meaningful; the zero value is Blank.
type Background struct {
	Kind               BackgroundKind
	Spacing            float32
	Radius             float32 // Dots
	Thickness          float32 // Lines, Grid
	Padding            float32
	Color              color.NRGBA
	CenterHorizontally bool
}

// PageConfig bundles the canvas type and its page geometry.
type PageConfig struct {
	Type   CanvasType
	PageW  float32
	PageH  float32
}
