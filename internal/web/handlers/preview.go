package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/kozaktomas/photo-press/internal/constants"
	"github.com/kozaktomas/photo-press/internal/library"
	"github.com/kozaktomas/photo-press/internal/preview"
)

// PreviewHandler handles page preview endpoints.
type PreviewHandler struct {
	projects *ProjectManager
	library  *library.Library
}

// NewPreviewHandler creates a new preview handler.
func NewPreviewHandler(pm *ProjectManager, lib *library.Library) *PreviewHandler {
	return &PreviewHandler{projects: pm, library: lib}
}

// queryInt reads an integer query parameter, falling back to a default
// for missing or unparsable values.
func queryInt(r *http.Request, key string, defaultVal int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// previewWidth resolves the requested canvas width, capped so a preview
// request cannot ask for poster-sized bitmaps.
func previewWidth(r *http.Request) int {
	width := queryInt(r, "width", constants.DefaultPreviewWidth)
	if width > constants.MaxPreviewWidth {
		width = constants.MaxPreviewWidth
	}
	return width
}

// Get handles GET /projects/{id}/preview. It returns the page projection
// for a canvas of the requested width: where the content box sits and
// whether photos are rotated onto the page.
func (h *PreviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	project := getProject(h.projects, r, w)
	if project == nil {
		return
	}

	g := project.Geometry()
	width := previewWidth(r)
	pageW, pageH := g.PageMM()
	height := queryInt(r, "height", int(float64(width)*pageH/pageW+0.5))

	respondJSON(w, http.StatusOK, preview.Project(g, float64(width), float64(height)))
}

// Page handles GET /projects/{id}/preview.png. It renders one page of
// the current sequence as a bitmap; with no photos it renders the empty
// page so the client can still show paper and margins.
func (h *PreviewHandler) Page(w http.ResponseWriter, r *http.Request) {
	project := getProject(h.projects, r, w)
	if project == nil {
		return
	}

	photos := project.Album.Photos()
	page := queryInt(r, "page", 1)

	var photoData []byte
	if len(photos) > 0 {
		if page < 1 || page > len(photos) {
			respondError(w, http.StatusNotFound, "page not found")
			return
		}
		data, err := h.library.ReadFile(photos[page-1].Handle)
		if err != nil {
			log.Printf("WARNING: reading %s for preview: %v", sanitizeForLog(photos[page-1].Handle), err)
			respondError(w, http.StatusInternalServerError, "failed to read photo")
			return
		}
		photoData = data
	}

	png, err := preview.RenderPage(photoData, project.Geometry(), previewWidth(r))
	if err != nil {
		log.Printf("WARNING: rendering preview: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to render preview")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
