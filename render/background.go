// SPDX-License-Identifier: Unlicense OR MIT

package render

import (
	"image"
	"image/draw"
	"math"

	"github.com/alexdremov/notate-sub003/model"
)

// DrawBackground fills target with bg's pattern at scale, tiling it
// directly from world-space coordinates so that any two tiles
// rendered independently produce an identical, seamless pattern
// across their shared seam (spec.md §4.F step 3) — detailed pattern
// fidelity itself is an explicit Non-goal, so this stays a flat-color
// dot/line/grid primitive rather than a themeable asset pipeline.
func DrawBackground(target *Buffer, bg model.Background, scale float32) {
	switch bg.Kind {
	case model.Blank:
		return
	case model.Dots:
		drawDots(target, bg, scale)
	case model.Lines:
		drawLines(target, bg, scale)
	case model.Grid:
		drawGrid(target, bg, scale)
	}
}

func drawDots(target *Buffer, bg model.Background, scale float32) {
	b := target.Bounds()
	for py := b.Min.Y; py < b.Max.Y; py++ {
		wy := target.Origin.Y + float32(py)/scale
		if !nearGridLine(wy, bg.Spacing, bg.Radius) {
			continue
		}
		for px := b.Min.X; px < b.Max.X; px++ {
			wx := target.Origin.X + float32(px)/scale
			if !nearGridLine(wx, bg.Spacing, bg.Radius) {
				continue
			}
			target.Pix.Set(px, py, bg.Color)
		}
	}
}

func drawLines(target *Buffer, bg model.Background, scale float32) {
	b := target.Bounds()
	col := image.NewUniform(bg.Color)
	for py := b.Min.Y; py < b.Max.Y; py++ {
		wy := target.Origin.Y + float32(py)/scale
		if withinThickness(wy, bg.Spacing, bg.Thickness) {
			draw.Draw(target.Pix, image.Rect(b.Min.X, py, b.Max.X, py+1), col, image.Point{}, draw.Over)
		}
	}
}

func drawGrid(target *Buffer, bg model.Background, scale float32) {
	drawLines(target, bg, scale)
	b := target.Bounds()
	col := image.NewUniform(bg.Color)
	for px := b.Min.X; px < b.Max.X; px++ {
		wx := target.Origin.X + float32(px)/scale
		if withinThickness(wx, bg.Spacing, bg.Thickness) {
			draw.Draw(target.Pix, image.Rect(px, b.Min.Y, px+1, b.Max.Y), col, image.Point{}, draw.Over)
		}
	}
}

// nearGridLine reports whether world coordinate w falls within radius
// of the nearest multiple of spacing — used for dot centers.
func nearGridLine(w, spacing, radius float32) bool {
	if spacing <= 0 {
		return false
	}
	m := mod(w, spacing)
	d := m
	if spacing-m < d {
		d = spacing - m
	}
	return d <= radius
}

func withinThickness(w, spacing, thickness float32) bool {
	if spacing <= 0 {
		return false
	}
	half := thickness / 2
	if half <= 0 {
		half = 0.5
	}
	return nearGridLine(w, spacing, half)
}

func mod(v, m float32) float32 {
	r := float32(math.Mod(float64(v), float64(m)))
	if r < 0 {
		r += m
	}
	return r
}
