// Package compose turns an ordered photo sequence and a page geometry into
// a print-ready markup document and drives the export pipeline around it:
// concurrent data-URI encoding, template assembly, renderer handoff,
// structural verification and the export report.
package compose

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"math"
	"strconv"
	"text/template"

	"github.com/kozaktomas/photo-press/internal/album"
	"github.com/kozaktomas/photo-press/internal/paper"
)

// The markup goes through text/template: html/template would rewrite the
// data: URIs. User-visible strings are escaped explicitly.
//
//go:embed templates/document.html
var templateFS embed.FS

// Page is one page of the assembled document.
type Page struct {
	Number  int
	DataURI string
	// Explicit image box inside the fit bounds; zero when the photo's
	// pixel dimensions were unknown at intake.
	ImgWidthMM  float64
	ImgHeightMM float64
	IsLast      bool
}

// HasImgBox reports whether the page carries an explicit image box.
func (p Page) HasImgBox() bool {
	return p.ImgWidthMM > 0 && p.ImgHeightMM > 0
}

// Document carries everything the markup template needs. One page-size
// directive governs the whole document; the margin lives on the content
// region, never on the page box.
type Document struct {
	Title           string
	PageWidthMM     float64
	PageHeightMM    float64
	ContentWidthMM  float64
	ContentHeightMM float64
	MarginMM        float64
	Landscape       bool
	// Fit bounds for the image. Portrait: the content box. Landscape:
	// the content box swapped, because the image is rotated 90° about
	// its center after fitting.
	FitWidthMM  float64
	FitHeightMM float64
	Pages       []Page
}

// fitImage scales pixel dimensions into a fit box, contain semantics in
// both directions: the result touches the box on the tighter axis.
func fitImage(pxWidth, pxHeight int, fitWidthMM, fitHeightMM float64) (float64, float64) {
	if pxWidth <= 0 || pxHeight <= 0 {
		return 0, 0
	}
	imgAspect := float64(pxWidth) / float64(pxHeight)
	boxAspect := fitWidthMM / fitHeightMM
	if imgAspect > boxAspect {
		// Width-bound.
		return fitWidthMM, fitWidthMM / imgAspect
	}
	// Height-bound.
	return fitHeightMM * imgAspect, fitHeightMM
}

// NewDocument lays out one page per photo for the geometry. photos and
// dataURIs run in parallel: dataURIs[i] embeds photos[i].
func NewDocument(title string, g paper.Geometry, photos []album.Photo, dataURIs []string) (*Document, error) {
	if len(photos) != len(dataURIs) {
		return nil, fmt.Errorf("photo/data mismatch: %d photos, %d data URIs", len(photos), len(dataURIs))
	}
	pageW, pageH := g.PageMM()
	contentW, contentH := g.ContentMM()
	landscape := g.Orientation == paper.Landscape

	fitW, fitH := contentW, contentH
	if landscape {
		fitW, fitH = contentH, contentW
	}

	doc := &Document{
		Title:           title,
		PageWidthMM:     pageW,
		PageHeightMM:    pageH,
		ContentWidthMM:  contentW,
		ContentHeightMM: contentH,
		MarginMM:        g.Margin(),
		Landscape:       landscape,
		FitWidthMM:      fitW,
		FitHeightMM:     fitH,
		Pages:           make([]Page, 0, len(photos)),
	}
	for i, p := range photos {
		imgW, imgH := fitImage(p.Width, p.Height, fitW, fitH)
		doc.Pages = append(doc.Pages, Page{
			Number:      i + 1,
			DataURI:     dataURIs[i],
			ImgWidthMM:  imgW,
			ImgHeightMM: imgH,
			IsLast:      i == len(photos)-1,
		})
	}
	return doc, nil
}

// Markup renders the document to its markup string.
func (d *Document) Markup() (string, error) {
	funcMap := template.FuncMap{
		"mm":         formatMM,
		"htmlEscape": html.EscapeString,
	}
	tmpl, err := template.New("document.html").Funcs(funcMap).ParseFS(templateFS, "templates/document.html")
	if err != nil {
		return "", fmt.Errorf("parse document template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, d); err != nil {
		return "", fmt.Errorf("execute document template: %w", err)
	}
	return buf.String(), nil
}

// BuildDocument is the one-call form: layout plus markup rendering.
func BuildDocument(title string, g paper.Geometry, photos []album.Photo, dataURIs []string) (string, error) {
	doc, err := NewDocument(title, g, photos, dataURIs)
	if err != nil {
		return "", err
	}
	return doc.Markup()
}

// formatMM renders a millimetre value for CSS, two decimals, no
// scientific notation.
func formatMM(v float64) string {
	return strconv.FormatFloat(round2(v), 'f', 2, 64) + "mm"
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
