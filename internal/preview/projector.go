// Package preview projects page geometry onto an on-screen canvas and
// rasterizes single pages for thumbnails. Projections are pull-based:
// derived from current inputs on every call, never cached, so they stay
// correct across canvas resizes and parameter changes.
package preview

import (
	"math"

	"github.com/kozaktomas/photo-press/internal/paper"
)

// ContentBoxPx scales the page's content box proportionally into a pixel
// canvas: each dimension shrinks by the margin's share of the matching
// page dimension, floored at 1px.
func ContentBoxPx(canvasWidthPx, canvasHeightPx, pageWidthMM, pageHeightMM, marginMM float64) (float64, float64) {
	w := canvasWidthPx * math.Max(0, 1.0-2.0*marginMM/pageWidthMM)
	h := canvasHeightPx * math.Max(0, 1.0-2.0*marginMM/pageHeightMM)
	return math.Max(w, 1), math.Max(h, 1)
}

// AspectRatio returns width over height for a page box. Screens use it to
// constrain the canvas so the on-screen page keeps physical proportions.
func AspectRatio(pageWidthMM, pageHeightMM float64) float64 {
	return pageWidthMM / pageHeightMM
}

// Projection is everything a screen needs to lay out one page at a given
// canvas size.
type Projection struct {
	CanvasWidthPx   float64 `json:"canvas_width_px"`
	CanvasHeightPx  float64 `json:"canvas_height_px"`
	PageWidthMM     float64 `json:"page_width_mm"`
	PageHeightMM    float64 `json:"page_height_mm"`
	ContentWidthMM  float64 `json:"content_width_mm"`
	ContentHeightMM float64 `json:"content_height_mm"`
	ContentWidthPx  float64 `json:"content_width_px"`
	ContentHeightPx float64 `json:"content_height_px"`
	MarginMM        float64 `json:"margin_mm"`
	AspectRatio     float64 `json:"aspect_ratio"`
	RotationDegrees int     `json:"rotation_degrees"`
}

// Project derives the on-screen layout for a page geometry. Landscape
// pages report a 90° image rotation; the preview rotates pixels exactly
// the way the print markup does, so screen and paper agree.
func Project(g paper.Geometry, canvasWidthPx, canvasHeightPx float64) Projection {
	pageW, pageH := g.PageMM()
	contentW, contentH := g.ContentMM()
	margin := g.Margin()
	cwPx, chPx := ContentBoxPx(canvasWidthPx, canvasHeightPx, pageW, pageH, margin)

	rotation := 0
	if g.Orientation == paper.Landscape {
		rotation = 90
	}

	return Projection{
		CanvasWidthPx:   canvasWidthPx,
		CanvasHeightPx:  canvasHeightPx,
		PageWidthMM:     pageW,
		PageHeightMM:    pageH,
		ContentWidthMM:  contentW,
		ContentHeightMM: contentH,
		ContentWidthPx:  cwPx,
		ContentHeightPx: chPx,
		MarginMM:        margin,
		AspectRatio:     AspectRatio(pageW, pageH),
		RotationDegrees: rotation,
	}
}
