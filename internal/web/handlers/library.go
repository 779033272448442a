package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/kozaktomas/photo-press/internal/album"
	"github.com/kozaktomas/photo-press/internal/library"
)

// LibraryHandler exposes the photo library the picker chooses from.
type LibraryHandler struct {
	library *library.Library
}

// NewLibraryHandler creates a new library handler.
func NewLibraryHandler(lib *library.Library) *LibraryHandler {
	return &LibraryHandler{library: lib}
}

type libraryResponse struct {
	Root   string        `json:"root"`
	Assets []album.Asset `json:"assets"`
	Count  int           `json:"count"`
}

// List handles GET /library. With recursive=true it descends into
// subdirectories.
func (h *LibraryHandler) List(w http.ResponseWriter, r *http.Request) {
	recursive := r.URL.Query().Get("recursive") == "true"

	assets, err := h.library.List(recursive)
	if err != nil {
		if errors.Is(err, library.ErrPermissionDenied) {
			respondError(w, http.StatusForbidden, "photo library access denied")
			return
		}
		log.Printf("WARNING: listing library: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to list photo library")
		return
	}

	respondJSON(w, http.StatusOK, libraryResponse{
		Root:   h.library.Root(),
		Assets: assets,
		Count:  len(assets),
	})
}
