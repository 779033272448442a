package compose

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/net/html"

	"github.com/kozaktomas/photo-press/internal/album"
)

// lowResDPIThreshold flags photos printed below this effective resolution.
const lowResDPIThreshold = 200.0

// Report describes a finished document for quality checks. It never
// blocks an export; problems surface as warnings.
type Report struct {
	Title      string       `json:"title"`
	PageCount  int          `json:"page_count"`
	PhotoCount int          `json:"photo_count"`
	Pages      []ReportPage `json:"pages"`
	Warnings   []string     `json:"warnings"`
}

// ReportPage describes one page of the assembled document.
type ReportPage struct {
	PageNumber   int     `json:"page_number"`
	MimeType     string  `json:"mime_type,omitempty"`
	Rotated      bool    `json:"rotated"`
	EffectiveDPI float64 `json:"effective_dpi,omitempty"`
	LowRes       bool    `json:"low_res"`
	PageBreak    bool    `json:"page_break"`
}

// parsedPage is what the markup actually contains for one page element.
type parsedPage struct {
	last    bool
	imgSrcs []string
}

// BuildReport cross-checks the assembled markup against the sequence it
// was built from and computes per-page quality data.
func BuildReport(doc *Document, photos []album.Photo, markup string) *Report {
	report := &Report{
		Title:      doc.Title,
		PageCount:  len(doc.Pages),
		PhotoCount: len(photos),
		Pages:      make([]ReportPage, 0, len(doc.Pages)),
	}

	for i, page := range doc.Pages {
		rp := ReportPage{
			PageNumber: page.Number,
			Rotated:    doc.Landscape,
			PageBreak:  !page.IsLast,
		}
		if i < len(photos) {
			photo := photos[i]
			rp.MimeType = photo.ContentType()
			if page.HasImgBox() && photo.Width > 0 {
				dpi := float64(photo.Width) / page.ImgWidthMM * 25.4
				rp.EffectiveDPI = math.Round(dpi*10) / 10
				rp.LowRes = rp.EffectiveDPI < lowResDPIThreshold
			} else {
				report.Warnings = append(report.Warnings,
					fmt.Sprintf("Page %d: unknown pixel dimensions, image box left to the renderer", page.Number))
			}
		}
		report.Pages = append(report.Pages, rp)
	}

	for _, rp := range report.Pages {
		if rp.LowRes {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("Page %d: effective DPI %.0f is below %d", rp.PageNumber, rp.EffectiveDPI, int(lowResDPIThreshold)))
		}
	}

	report.Warnings = append(report.Warnings, verifyMarkup(markup, len(photos))...)
	return report
}

// verifyMarkup parses the markup and checks its page structure: one page
// element per photo, each with exactly one embedded data URI, a break on
// every page but the last, and a single global page-size directive.
func verifyMarkup(markup string, wantPages int) []string {
	var warnings []string

	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return []string{fmt.Sprintf("markup does not parse: %v", err)}
	}

	var pages []parsedPage
	var styleText strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "style":
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					if c.Type == html.TextNode {
						styleText.WriteString(c.Data)
					}
				}
			case "div":
				if classes := attrVal(n, "class"); hasClass(classes, "page") {
					pages = append(pages, parsedPage{
						last:    hasClass(classes, "last"),
						imgSrcs: collectImgSrcs(n),
					})
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	if len(pages) != wantPages {
		warnings = append(warnings, fmt.Sprintf("markup has %d pages, expected %d", len(pages), wantPages))
	}
	for i, p := range pages {
		if len(p.imgSrcs) != 1 {
			warnings = append(warnings, fmt.Sprintf("Page %d: expected one image, found %d", i+1, len(p.imgSrcs)))
			continue
		}
		if !strings.HasPrefix(p.imgSrcs[0], "data:image/") {
			warnings = append(warnings, fmt.Sprintf("Page %d: image is not an embedded data URI", i+1))
		}
		isLast := i == len(pages)-1
		if p.last != isLast {
			warnings = append(warnings, fmt.Sprintf("Page %d: page break marker out of place", i+1))
		}
	}
	if n := strings.Count(styleText.String(), "@page"); n != 1 {
		warnings = append(warnings, fmt.Sprintf("markup has %d page-size directives, expected exactly one", n))
	}

	return warnings
}

func attrVal(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func hasClass(classAttr, class string) bool {
	for _, c := range strings.Fields(classAttr) {
		if c == class {
			return true
		}
	}
	return false
}

func collectImgSrcs(n *html.Node) []string {
	var srcs []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "img" {
			srcs = append(srcs, attrVal(n, "src"))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return srcs
}
