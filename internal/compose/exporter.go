package compose

import (
	"context"
	"fmt"

	"github.com/kozaktomas/photo-press/internal/album"
	"github.com/kozaktomas/photo-press/internal/paper"
	"github.com/kozaktomas/photo-press/internal/render"
)

// Exporter runs the export pipeline end to end: encode photos into data
// URIs, assemble the markup, verify it, and hand it to the renderer.
// Exporter itself is stateless; callers own the State machine around it.
type Exporter struct {
	reader      FileReader
	renderer    render.Renderer
	concurrency int
}

// NewExporter wires the pipeline. concurrency below 1 falls back to
// EncodeConcurrency.
func NewExporter(reader FileReader, renderer render.Renderer, concurrency int) *Exporter {
	if concurrency < 1 {
		concurrency = EncodeConcurrency
	}
	return &Exporter{
		reader:      reader,
		renderer:    renderer,
		concurrency: concurrency,
	}
}

// Export produces the document for the sequence in its current order. An
// empty sequence returns ErrNoPhotos before any work starts. The artifact
// is nil for direct-print renderer profiles; the report always describes
// what was assembled. progress, when non-nil, fires once per encoded
// photo.
func (e *Exporter) Export(ctx context.Context, title string, g paper.Geometry, photos []album.Photo, progress func()) (*render.Artifact, *Report, error) {
	if len(photos) == 0 {
		return nil, nil, ErrNoPhotos
	}

	dataURIs, err := EncodePhotos(ctx, e.reader, photos, e.concurrency, progress)
	if err != nil {
		return nil, nil, fmt.Errorf("encode photos: %w", err)
	}

	doc, err := NewDocument(title, g, photos, dataURIs)
	if err != nil {
		return nil, nil, err
	}
	markup, err := doc.Markup()
	if err != nil {
		return nil, nil, err
	}

	report := BuildReport(doc, photos, markup)

	pageW, pageH := g.PageMM()
	widthPt, heightPt := g.PagePoints()
	artifact, err := e.renderer.Render(ctx, render.Request{
		Markup:       markup,
		BaseName:     title,
		Orientation:  g.Orientation,
		PageWidthMM:  pageW,
		PageHeightMM: pageH,
		PageWidthPt:  widthPt,
		PageHeightPt: heightPt,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("render document: %w", err)
	}
	return artifact, report, nil
}
