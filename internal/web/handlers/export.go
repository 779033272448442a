package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/kozaktomas/photo-press/internal/compose"
	"github.com/kozaktomas/photo-press/internal/render"
)

// ExportHandler handles document export, download and share endpoints.
type ExportHandler struct {
	projects    *ProjectManager
	exporter    *compose.Exporter
	renderer    render.Renderer
	share       *render.Share
	concurrency int
}

// NewExportHandler creates a new export handler.
func NewExportHandler(pm *ProjectManager, reader compose.FileReader, renderer render.Renderer, share *render.Share, concurrency int) *ExportHandler {
	return &ExportHandler{
		projects:    pm,
		exporter:    compose.NewExporter(reader, renderer, concurrency),
		renderer:    renderer,
		share:       share,
		concurrency: concurrency,
	}
}

// Start handles POST /projects/{id}/export. The export runs in the
// request; the state machine only rejects a second export while one is
// in flight.
func (h *ExportHandler) Start(w http.ResponseWriter, r *http.Request) {
	project := getProject(h.projects, r, w)
	if project == nil {
		return
	}

	photos := project.Album.Photos()
	if len(photos) == 0 {
		project.State.Fail(compose.ErrNoPhotos.Error())
		respondError(w, http.StatusBadRequest, compose.ErrNoPhotos.Error())
		return
	}

	if err := h.renderer.Available(); err != nil {
		log.Printf("WARNING: renderer unavailable: %v", err)
		respondError(w, http.StatusServiceUnavailable, "document renderer is not available on the server")
		return
	}

	if err := project.State.Begin(); err != nil {
		respondError(w, http.StatusConflict, err.Error())
		return
	}

	artifact, report, err := h.exporter.Export(r.Context(), project.Title(), project.Geometry(), photos, nil)
	if err != nil {
		log.Printf("WARNING: export of project %s failed: %v", project.ID, err)
		project.State.Fail("document generation failed")
		if errors.Is(err, render.ErrRendererUnavailable) {
			respondError(w, http.StatusServiceUnavailable, "document renderer is not available on the server")
			return
		}
		respondError(w, http.StatusInternalServerError, "document generation failed")
		return
	}

	project.State.Succeed(artifact, report)
	respondJSON(w, http.StatusOK, project.State.Snapshot())
}

// Status handles GET /projects/{id}/export.
func (h *ExportHandler) Status(w http.ResponseWriter, r *http.Request) {
	project := getProject(h.projects, r, w)
	if project == nil {
		return
	}
	respondJSON(w, http.StatusOK, project.State.Snapshot())
}

// Download handles GET /projects/{id}/document. It streams the produced
// document; before a successful export there is nothing to download.
func (h *ExportHandler) Download(w http.ResponseWriter, r *http.Request) {
	project := getProject(h.projects, r, w)
	if project == nil {
		return
	}

	artifact := project.State.Artifact()
	if artifact == nil {
		respondError(w, http.StatusNotFound, "no document has been generated yet")
		return
	}

	f, err := os.Open(artifact.Path)
	if err != nil {
		log.Printf("WARNING: opening artifact %s: %v", artifact.Path, err)
		respondError(w, http.StatusInternalServerError, "failed to open document")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", artifact.MimeType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+artifact.Name+`"`)
	w.Header().Set("Content-Length", strconv.FormatInt(artifact.Size, 10))
	w.WriteHeader(http.StatusOK)
	io.Copy(w, f)
}

// Share handles POST /projects/{id}/share. The document is copied into
// the configured hand-off directory; without one the share target counts
// as unavailable.
func (h *ExportHandler) Share(w http.ResponseWriter, r *http.Request) {
	project := getProject(h.projects, r, w)
	if project == nil {
		return
	}

	dest, err := h.share.ShareArtifact(r.Context(), project.State.Artifact())
	if err != nil {
		if errors.Is(err, render.ErrShareUnavailable) {
			respondError(w, http.StatusServiceUnavailable, "share target is not available")
			return
		}
		if errors.Is(err, render.ErrNothingToShare) {
			respondError(w, http.StatusBadRequest, "no document to share, run an export first")
			return
		}
		log.Printf("WARNING: sharing document of project %s: %v", project.ID, err)
		respondError(w, http.StatusInternalServerError, "failed to share document")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"path": dest})
}
