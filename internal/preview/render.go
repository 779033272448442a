package preview

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/kozaktomas/photo-press/internal/paper"

	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// RenderPage rasterizes one page as a PNG at the requested pixel width:
// white page box, content region inset by the clamped margin, the photo
// contain-fit and centered, rotated 90° when the page is landscape. A
// photo that cannot be decoded (HEIC, camera raw) yields the empty page
// frame so previews degrade instead of failing.
func RenderPage(photoData []byte, g paper.Geometry, widthPx int) ([]byte, error) {
	if widthPx < 1 {
		return nil, fmt.Errorf("preview width must be positive, got %d", widthPx)
	}
	pageW, pageH := g.PageMM()
	heightPx := int(math.Round(float64(widthPx) * pageH / pageW))
	if heightPx < 1 {
		heightPx = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, widthPx, heightPx))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	if len(photoData) > 0 {
		src, _, err := image.Decode(bytes.NewReader(photoData))
		if err != nil {
			log.Printf("WARNING: preview decode failed, rendering empty page: %v", err)
		} else {
			drawPhoto(dst, src, g, float64(widthPx), float64(heightPx))
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode preview: %w", err)
	}
	return buf.Bytes(), nil
}

// drawPhoto maps the photo into the page's content region with a single
// affine transform: contain-fit scaling, centering, and the landscape
// rotation about the content center.
func drawPhoto(dst *image.RGBA, src image.Image, g paper.Geometry, pageWpx, pageHpx float64) {
	pageW, pageH := g.PageMM()
	cwPx, chPx := ContentBoxPx(pageWpx, pageHpx, pageW, pageH, g.Margin())
	offX := (pageWpx - cwPx) / 2.0
	offY := (pageHpx - chPx) / 2.0

	b := src.Bounds()
	srcW := float64(b.Dx())
	srcH := float64(b.Dy())
	if srcW <= 0 || srcH <= 0 {
		return
	}

	minX := float64(b.Min.X)
	maxY := float64(b.Max.Y)

	var m f64.Aff3
	if g.Orientation == paper.Landscape {
		// Rotated 90° clockwise the photo occupies srcH x srcW, so the
		// fit bounds swap.
		s := math.Min(cwPx/srcH, chPx/srcW)
		x0 := offX + (cwPx-s*srcH)/2.0
		y0 := offY + (chPx-s*srcW)/2.0
		m = f64.Aff3{
			0, -s, x0 + s*maxY,
			s, 0, y0 - s*minX,
		}
	} else {
		minY := float64(b.Min.Y)
		s := math.Min(cwPx/srcW, chPx/srcH)
		x0 := offX + (cwPx-s*srcW)/2.0
		y0 := offY + (chPx-s*srcH)/2.0
		m = f64.Aff3{
			s, 0, x0 - s*minX,
			0, s, y0 - s*minY,
		}
	}
	draw.CatmullRom.Transform(dst, m, src, b, draw.Over, nil)
}
