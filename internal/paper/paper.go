// Package paper models physical page geometry: paper sizes, orientation,
// margins and the derived content box. All values are millimetres unless a
// name says otherwise. Everything here is pure; derived dimensions are
// computed on every read and never cached.
package paper

import (
	"fmt"
	"math"
	"strings"
)

// Size identifies a supported paper size. The zero value is not valid;
// use ParseSize or one of the constants.
type Size string

const (
	SizeA4     Size = "a4"
	SizeLetter Size = "letter"
	SizeLegal  Size = "legal"
)

// Orientation selects how the paper's reference dimensions are read.
// Landscape is the 90° rotated reading: width and height swap.
type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// Portrait reference dimensions in mm.
const (
	a4WidthMM      = 210.0
	a4HeightMM     = 297.0
	letterWidthMM  = 215.9 // 8.5 in
	letterHeightMM = 279.4 // 11 in
	legalWidthMM   = 215.9 // 8.5 in
	legalHeightMM  = 355.6 // 14 in
)

// ContentFloorMM is the smallest content-box dimension ever produced,
// so a pathological margin can never collapse or invert the box.
const ContentFloorMM = 1.0

// DefaultMarginMM is the margin applied to a fresh project.
const DefaultMarginMM = 10.0

// Sizes returns the supported paper sizes in catalog order.
func Sizes() []Size {
	return []Size{SizeA4, SizeLetter, SizeLegal}
}

// ParseSize maps a user-supplied string to a Size, case-insensitively.
func ParseSize(s string) (Size, error) {
	switch Size(strings.ToLower(strings.TrimSpace(s))) {
	case SizeA4:
		return SizeA4, nil
	case SizeLetter:
		return SizeLetter, nil
	case SizeLegal:
		return SizeLegal, nil
	default:
		return "", fmt.Errorf("unknown paper size %q", s)
	}
}

// ParseOrientation maps a user-supplied string to an Orientation,
// case-insensitively. An empty string means portrait.
func ParseOrientation(s string) (Orientation, error) {
	switch Orientation(strings.ToLower(strings.TrimSpace(s))) {
	case Portrait, Orientation(""):
		return Portrait, nil
	case Landscape:
		return Landscape, nil
	default:
		return "", fmt.Errorf("unknown orientation %q", s)
	}
}

// DimensionsMM returns the portrait reference (width, height) pair.
// Unknown sizes fall back to A4 so the function stays total.
func (s Size) DimensionsMM() (float64, float64) {
	switch s {
	case SizeLetter:
		return letterWidthMM, letterHeightMM
	case SizeLegal:
		return legalWidthMM, legalHeightMM
	default:
		return a4WidthMM, a4HeightMM
	}
}

// PageDimensionsMM returns the physical page box for a size and orientation.
// Portrait returns the reference pair unchanged; landscape returns it swapped.
func PageDimensionsMM(size Size, orientation Orientation) (float64, float64) {
	w, h := size.DimensionsMM()
	if orientation == Landscape {
		return h, w
	}
	return w, h
}

// MillimetresToPoints converts mm to PostScript points (1/72 in), rounded
// half away from zero. 25.4mm = 72pt.
func MillimetresToPoints(mm float64) int {
	return int(math.Round(mm / 25.4 * 72.0))
}

// MaxMarginMM returns the largest margin accepted for a page box:
// floor(min(w,h)/2 - 1), never negative. A4 portrait: floor(210/2 - 1) = 104.
func MaxMarginMM(widthMM, heightMM float64) float64 {
	m := math.Floor(math.Min(widthMM, heightMM)/2.0 - 1.0)
	if m < 0 {
		return 0
	}
	return m
}

// ClampMarginMM clamps a user-supplied margin into [0, MaxMarginMM].
// Out-of-range input is never an error.
func ClampMarginMM(marginMM, widthMM, heightMM float64) float64 {
	if marginMM < 0 {
		return 0
	}
	if maxMM := MaxMarginMM(widthMM, heightMM); marginMM > maxMM {
		return maxMM
	}
	return marginMM
}

// ContentBoxMM returns the content region inside the margin, each dimension
// floored at ContentFloorMM. A4 portrait with a 10mm margin: 190 x 277.
func ContentBoxMM(widthMM, heightMM, marginMM float64) (float64, float64) {
	return math.Max(widthMM-2.0*marginMM, ContentFloorMM),
		math.Max(heightMM-2.0*marginMM, ContentFloorMM)
}

// Geometry bundles the user-chosen page parameters. MarginMM carries the
// raw user value; reads clamp it against the current page box.
type Geometry struct {
	Size        Size
	Orientation Orientation
	MarginMM    float64
}

// DefaultGeometry returns A4 portrait with the default margin.
func DefaultGeometry() Geometry {
	return Geometry{Size: SizeA4, Orientation: Portrait, MarginMM: DefaultMarginMM}
}

// PageMM returns the page box for the current size and orientation.
func (g Geometry) PageMM() (float64, float64) {
	return PageDimensionsMM(g.Size, g.Orientation)
}

// Margin returns the margin clamped into range for the current page box.
func (g Geometry) Margin() float64 {
	w, h := g.PageMM()
	return ClampMarginMM(g.MarginMM, w, h)
}

// MaxMargin returns the clamp ceiling for the current page box.
func (g Geometry) MaxMargin() float64 {
	w, h := g.PageMM()
	return MaxMarginMM(w, h)
}

// ContentMM returns the content box for the clamped margin.
func (g Geometry) ContentMM() (float64, float64) {
	w, h := g.PageMM()
	return ContentBoxMM(w, h, g.Margin())
}

// AspectRatio returns page width / height.
func (g Geometry) AspectRatio() float64 {
	w, h := g.PageMM()
	return w / h
}

// PagePoints returns the page box in points for renderers that speak pt.
func (g Geometry) PagePoints() (int, int) {
	w, h := g.PageMM()
	return MillimetresToPoints(w), MillimetresToPoints(h)
}
