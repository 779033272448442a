package compose

import (
	"math"
	"strings"
	"testing"

	"github.com/kozaktomas/photo-press/internal/album"
	"github.com/kozaktomas/photo-press/internal/paper"
)

const eps = 0.01

func portraitA4(margin float64) paper.Geometry {
	return paper.Geometry{Size: paper.SizeA4, Orientation: paper.Portrait, MarginMM: margin}
}

func landscapeA4(margin float64) paper.Geometry {
	return paper.Geometry{Size: paper.SizeA4, Orientation: paper.Landscape, MarginMM: margin}
}

func TestFitImage(t *testing.T) {
	t.Run("wide image is width-bound", func(t *testing.T) {
		// 800/600 = 1.333, box 190/277 = 0.686 → width 190, height 190/1.333 = 142.5
		w, h := fitImage(800, 600, 190, 277)
		if math.Abs(w-190.0) > eps || math.Abs(h-142.5) > eps {
			t.Errorf("expected 190x142.5, got %.2fx%.2f", w, h)
		}
	})
	t.Run("tall image is height-bound", func(t *testing.T) {
		// 300/900 = 0.333 < 0.686 → height 277, width 277*0.333 = 92.33
		w, h := fitImage(300, 900, 190, 277)
		if math.Abs(h-277.0) > eps || math.Abs(w-92.33) > eps {
			t.Errorf("expected 92.33x277, got %.2fx%.2f", w, h)
		}
	})
	t.Run("small image still scales up to the box", func(t *testing.T) {
		// Fit-to-box goes both directions; 4x3 fills the width.
		w, h := fitImage(4, 3, 190, 277)
		if math.Abs(w-190.0) > eps || math.Abs(h-142.5) > eps {
			t.Errorf("expected 190x142.5, got %.2fx%.2f", w, h)
		}
	})
	t.Run("unknown dimensions yield no box", func(t *testing.T) {
		w, h := fitImage(0, 0, 190, 277)
		if w != 0 || h != 0 {
			t.Errorf("expected 0x0, got %.2fx%.2f", w, h)
		}
	})
}

func TestNewDocument_PortraitA4(t *testing.T) {
	photos := []album.Photo{{Handle: "a.jpg", Width: 800, Height: 600}}
	doc, err := NewDocument("Holiday", portraitA4(10), photos, []string{"data:image/jpeg;base64,AAAA"})
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}

	if math.Abs(doc.PageWidthMM-210.0) > eps || math.Abs(doc.PageHeightMM-297.0) > eps {
		t.Errorf("page box: expected 210x297, got %.2fx%.2f", doc.PageWidthMM, doc.PageHeightMM)
	}
	if math.Abs(doc.ContentWidthMM-190.0) > eps || math.Abs(doc.ContentHeightMM-277.0) > eps {
		t.Errorf("content: expected 190x277, got %.2fx%.2f", doc.ContentWidthMM, doc.ContentHeightMM)
	}
	// Portrait fit bounds are the content box itself.
	if math.Abs(doc.FitWidthMM-190.0) > eps || math.Abs(doc.FitHeightMM-277.0) > eps {
		t.Errorf("fit bounds: expected 190x277, got %.2fx%.2f", doc.FitWidthMM, doc.FitHeightMM)
	}
	if doc.Landscape {
		t.Error("portrait document should not be marked landscape")
	}
	if len(doc.Pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(doc.Pages))
	}
	page := doc.Pages[0]
	// 800x600 contained in 190x277: 190 x 142.5
	if math.Abs(page.ImgWidthMM-190.0) > eps || math.Abs(page.ImgHeightMM-142.5) > eps {
		t.Errorf("image box: expected 190x142.5, got %.2fx%.2f", page.ImgWidthMM, page.ImgHeightMM)
	}
	if !page.IsLast {
		t.Error("single page should be the last page")
	}
}

func TestNewDocument_LandscapeSwapsFitBounds(t *testing.T) {
	photos := []album.Photo{{Handle: "a.jpg", Width: 800, Height: 600}}
	doc, err := NewDocument("Holiday", landscapeA4(10), photos, []string{"data:image/jpeg;base64,AAAA"})
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}

	if math.Abs(doc.PageWidthMM-297.0) > eps || math.Abs(doc.PageHeightMM-210.0) > eps {
		t.Errorf("page box: expected 297x210, got %.2fx%.2f", doc.PageWidthMM, doc.PageHeightMM)
	}
	if math.Abs(doc.ContentWidthMM-277.0) > eps || math.Abs(doc.ContentHeightMM-190.0) > eps {
		t.Errorf("content: expected 277x190, got %.2fx%.2f", doc.ContentWidthMM, doc.ContentHeightMM)
	}
	// The image rotates 90°, so it fits against the swapped box.
	if math.Abs(doc.FitWidthMM-190.0) > eps || math.Abs(doc.FitHeightMM-277.0) > eps {
		t.Errorf("fit bounds: expected 190x277 (swapped), got %.2fx%.2f", doc.FitWidthMM, doc.FitHeightMM)
	}
	if !doc.Landscape {
		t.Error("landscape document should be marked landscape")
	}
}

func TestNewDocument_PageOrderAndBreaks(t *testing.T) {
	photos := []album.Photo{
		{Handle: "a.jpg"},
		{Handle: "b.jpg"},
		{Handle: "c.jpg"},
	}
	uris := []string{"data:image/jpeg;base64,QQ==", "data:image/jpeg;base64,Qg==", "data:image/jpeg;base64,Qw=="}
	doc, err := NewDocument("", portraitA4(10), photos, uris)
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}
	if len(doc.Pages) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(doc.Pages))
	}
	for i, page := range doc.Pages {
		if page.Number != i+1 {
			t.Errorf("page %d numbered %d", i, page.Number)
		}
		if page.DataURI != uris[i] {
			t.Errorf("page %d carries wrong data URI", i+1)
		}
		wantLast := i == 2
		if page.IsLast != wantLast {
			t.Errorf("page %d: IsLast=%v, expected %v", i+1, page.IsLast, wantLast)
		}
	}
}

func TestNewDocument_MismatchedSlices(t *testing.T) {
	_, err := NewDocument("x", portraitA4(10), []album.Photo{{Handle: "a"}}, nil)
	if err == nil {
		t.Fatal("expected an error for mismatched slices")
	}
}

func TestMarkup_PortraitA4(t *testing.T) {
	photos := []album.Photo{{Handle: "a.jpg", Width: 800, Height: 600}}
	markup, err := BuildDocument("Holiday", portraitA4(10), photos, []string{"data:image/jpeg;base64,AAAA"})
	if err != nil {
		t.Fatalf("BuildDocument: %v", err)
	}

	for _, want := range []string{
		"size: 210.00mm 297.00mm",
		"width: 210.00mm",
		"height: 297.00mm",
		"left: 10.00mm",
		"width: 190.00mm",
		"height: 277.00mm",
		"page-break-after: always",
		`style="width: 190.00mm; height: 142.50mm;"`,
		`src="data:image/jpeg;base64,AAAA"`,
		`alt="Page 1"`,
	} {
		if !strings.Contains(markup, want) {
			t.Errorf("markup missing %q", want)
		}
	}
	if strings.Contains(markup, "rotate(90deg)") {
		t.Error("portrait markup must not rotate images")
	}
	if strings.Count(markup, "@page") != 1 {
		t.Errorf("expected exactly one @page directive, found %d", strings.Count(markup, "@page"))
	}
	// Zero page-level margin: the @page rule carries margin: 0.
	if !strings.Contains(markup, "margin: 0;") {
		t.Error("page-size directive should zero the document margin")
	}
}

func TestMarkup_LandscapeRotates(t *testing.T) {
	photos := []album.Photo{{Handle: "a.jpg", Width: 800, Height: 600}}
	markup, err := BuildDocument("x", landscapeA4(10), photos, []string{"data:image/jpeg;base64,AAAA"})
	if err != nil {
		t.Fatalf("BuildDocument: %v", err)
	}
	for _, want := range []string{
		"size: 297.00mm 210.00mm",
		"transform: rotate(90deg)",
		// Fit bounds swapped relative to the 277x190 content box.
		"max-width: 190.00mm",
		"max-height: 277.00mm",
	} {
		if !strings.Contains(markup, want) {
			t.Errorf("markup missing %q", want)
		}
	}
}

func TestMarkup_LastPageCarriesNoBreak(t *testing.T) {
	photos := []album.Photo{{Handle: "a.jpg"}, {Handle: "b.jpg"}}
	uris := []string{"data:image/jpeg;base64,QQ==", "data:image/jpeg;base64,Qg=="}
	markup, err := BuildDocument("x", portraitA4(10), photos, uris)
	if err != nil {
		t.Fatalf("BuildDocument: %v", err)
	}
	if strings.Count(markup, `<div class="page">`) != 1 {
		t.Errorf("expected exactly one breaking page, markup:\n%s", markup)
	}
	if strings.Count(markup, `<div class="page last">`) != 1 {
		t.Error("expected exactly one last page")
	}
	if !strings.Contains(markup, "page-break-after: auto") {
		t.Error("last page must cancel the page break")
	}
}

func TestMarkup_EscapesTitle(t *testing.T) {
	photos := []album.Photo{{Handle: "a.jpg"}}
	markup, err := BuildDocument(`<b>Léto & zima</b>`, portraitA4(10), photos, []string{"data:image/jpeg;base64,AAAA"})
	if err != nil {
		t.Fatalf("BuildDocument: %v", err)
	}
	if strings.Contains(markup, "<b>") {
		t.Error("title must be escaped")
	}
	if !strings.Contains(markup, "&lt;b&gt;") || !strings.Contains(markup, "&amp;") {
		t.Error("expected escaped title entities")
	}
}

func TestMarkup_UnknownDimensionsFallBackToFitBounds(t *testing.T) {
	photos := []album.Photo{{Handle: "a.jpg"}}
	markup, err := BuildDocument("x", portraitA4(10), photos, []string{"data:image/jpeg;base64,AAAA"})
	if err != nil {
		t.Fatalf("BuildDocument: %v", err)
	}
	// No explicit style attribute; the stylesheet's max bounds contain it.
	if strings.Contains(markup, `style="width:`) {
		t.Error("unknown dimensions should not emit an explicit image box")
	}
	if !strings.Contains(markup, "max-width: 190.00mm") {
		t.Error("stylesheet should bound the image to the content box")
	}
}
