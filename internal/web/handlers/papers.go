package handlers

import (
	"net/http"

	"github.com/kozaktomas/photo-press/internal/paper"
)

// PapersHandler serves the paper catalog.
type PapersHandler struct{}

// NewPapersHandler creates a new papers handler.
func NewPapersHandler() *PapersHandler {
	return &PapersHandler{}
}

type paperResponse struct {
	Size        paper.Size `json:"size"`
	WidthMM     float64    `json:"width_mm"`
	HeightMM    float64    `json:"height_mm"`
	MaxMarginMM float64    `json:"max_margin_mm"`
}

type papersResponse struct {
	Papers          []paperResponse     `json:"papers"`
	Orientations    []paper.Orientation `json:"orientations"`
	DefaultMarginMM float64             `json:"default_margin_mm"`
}

// List handles GET /papers. Dimensions are the portrait reference;
// landscape swaps them.
func (h *PapersHandler) List(w http.ResponseWriter, r *http.Request) {
	sizes := paper.Sizes()
	result := make([]paperResponse, len(sizes))
	for i, size := range sizes {
		width, height := size.DimensionsMM()
		result[i] = paperResponse{
			Size:        size,
			WidthMM:     width,
			HeightMM:    height,
			MaxMarginMM: paper.MaxMarginMM(width, height),
		}
	}
	respondJSON(w, http.StatusOK, papersResponse{
		Papers:          result,
		Orientations:    []paper.Orientation{paper.Portrait, paper.Landscape},
		DefaultMarginMM: paper.DefaultMarginMM,
	})
}
