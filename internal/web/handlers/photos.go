package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/kozaktomas/photo-press/internal/album"
	"github.com/kozaktomas/photo-press/internal/constants"
	"github.com/kozaktomas/photo-press/internal/library"
)

// PhotosHandler handles the photo sequence endpoints of a project.
type PhotosHandler struct {
	projects *ProjectManager
	library  *library.Library
}

// NewPhotosHandler creates a new photos handler.
func NewPhotosHandler(pm *ProjectManager, lib *library.Library) *PhotosHandler {
	return &PhotosHandler{projects: pm, library: lib}
}

type photosResponse struct {
	Photos []album.Photo `json:"photos"`
	Count  int           `json:"count"`
	Added  int           `json:"added,omitempty"`
}

func makePhotosResponse(a *album.Album) photosResponse {
	photos := a.Photos()
	return photosResponse{Photos: photos, Count: len(photos)}
}

func makePickResponse(a *album.Album, added int) photosResponse {
	resp := makePhotosResponse(a)
	resp.Added = added
	return resp
}

// Pick handles POST /projects/{id}/photos. The handles are resolved
// against the library; already present photos keep their position, new
// ones are appended in the picked order.
func (h *PhotosHandler) Pick(w http.ResponseWriter, r *http.Request) {
	project := getProject(h.projects, r, w)
	if project == nil {
		return
	}
	var req struct {
		Handles []string `json:"handles"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	picked, err := h.library.Pick(req.Handles)
	if err != nil {
		if errors.Is(err, library.ErrPermissionDenied) {
			respondError(w, http.StatusForbidden, "photo library access denied")
			return
		}
		if errors.Is(err, library.ErrNotFound) {
			respondError(w, http.StatusNotFound, "photo not found in library")
			return
		}
		log.Printf("WARNING: picking photos: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to pick photos")
		return
	}

	added := project.Album.Add(picked)
	respondJSON(w, http.StatusOK, makePickResponse(project.Album, added))
}

// Upload handles POST /projects/{id}/photos/upload. Files land in the
// library's upload area and join the sequence like picked photos.
func (h *PhotosHandler) Upload(w http.ResponseWriter, r *http.Request) {
	project := getProject(h.projects, r, w)
	if project == nil {
		return
	}
	if err := r.ParseMultipartForm(constants.MaxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		respondError(w, http.StatusBadRequest, "no files provided")
		return
	}
	if len(files) > constants.MaxUploadFiles {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("too many files, limit is %d", constants.MaxUploadFiles))
		return
	}

	handles := make([]string, 0, len(files))
	for _, fileHeader := range files {
		file, err := fileHeader.Open()
		if err != nil {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to open file: %s", sanitizeForLog(fileHeader.Filename)))
			return
		}
		handle, err := h.library.SaveUpload(fileHeader.Filename, file)
		file.Close()
		if err != nil {
			log.Printf("WARNING: saving upload %s: %v", sanitizeForLog(fileHeader.Filename), err)
			respondError(w, http.StatusInternalServerError, "failed to save uploaded file")
			return
		}
		handles = append(handles, handle)
	}

	assets, err := h.library.Pick(handles)
	if err != nil {
		log.Printf("WARNING: probing uploads: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to read uploaded files")
		return
	}

	added := project.Album.Add(assets)
	respondJSON(w, http.StatusOK, makePickResponse(project.Album, added))
}

// Reorder handles PUT /projects/{id}/photos/order. The body must list
// every current handle exactly once; anything else leaves the order
// untouched.
func (h *PhotosHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	project := getProject(h.projects, r, w)
	if project == nil {
		return
	}
	var req struct {
		Handles []string `json:"handles"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	if err := project.Album.Reorder(req.Handles); err != nil {
		if errors.Is(err, album.ErrBadOrder) {
			respondError(w, http.StatusBadRequest, "handles are not a permutation of the current sequence")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to reorder photos")
		return
	}
	respondJSON(w, http.StatusOK, makePhotosResponse(project.Album))
}

// Remove handles DELETE /projects/{id}/photos. Unknown handles are
// ignored; removing a photo never touches the library file.
func (h *PhotosHandler) Remove(w http.ResponseWriter, r *http.Request) {
	project := getProject(h.projects, r, w)
	if project == nil {
		return
	}
	var req struct {
		Handles []string `json:"handles"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	for _, handle := range req.Handles {
		project.Album.Remove(handle)
	}
	respondJSON(w, http.StatusOK, makePhotosResponse(project.Album))
}
