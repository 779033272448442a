package handlers

import (
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kozaktomas/photo-press/internal/album"
	"github.com/kozaktomas/photo-press/internal/compose"
	"github.com/kozaktomas/photo-press/internal/paper"
)

// Project is one document in the making: a titled photo sequence plus
// page geometry and an export lifecycle. Album and State carry their own
// locks; the project lock guards title and geometry only.
type Project struct {
	ID        string
	CreatedAt time.Time

	Album *album.Album
	State *compose.State

	mu       sync.RWMutex
	title    string
	geometry paper.Geometry
}

// Title returns the project title.
func (p *Project) Title() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.title
}

// SetTitle changes the project title.
func (p *Project) SetTitle(title string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.title = title
}

// Geometry returns the current page geometry.
func (p *Project) Geometry() paper.Geometry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.geometry
}

// SetGeometry replaces the page geometry. Out-of-range margins are kept
// as given and clamped wherever the geometry is read.
func (p *Project) SetGeometry(g paper.Geometry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.geometry = g
}

// ProjectManager keeps all projects in memory. Nothing survives a
// restart; a finished document only lives in the export directory.
type ProjectManager struct {
	projects map[string]*Project
	mu       sync.RWMutex
}

// NewProjectManager creates a new project manager.
func NewProjectManager() *ProjectManager {
	return &ProjectManager{
		projects: make(map[string]*Project),
	}
}

// Create creates a new project with default geometry and an empty
// sequence.
func (m *ProjectManager) Create(title string) *Project {
	project := &Project{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		Album:     album.New(),
		State:     compose.NewState(),
		title:     title,
		geometry:  paper.DefaultGeometry(),
	}

	m.mu.Lock()
	m.projects[project.ID] = project
	m.mu.Unlock()

	return project
}

// Get retrieves a project by ID.
func (m *ProjectManager) Get(id string) *Project {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.projects[id]
}

// Delete removes a project.
func (m *ProjectManager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.projects, id)
}

// List returns all projects, oldest first.
func (m *ProjectManager) List() []*Project {
	m.mu.RLock()
	defer m.mu.RUnlock()
	projects := make([]*Project, 0, len(m.projects))
	for _, project := range m.projects {
		projects = append(projects, project)
	}
	sort.Slice(projects, func(i, j int) bool {
		if projects[i].CreatedAt.Equal(projects[j].CreatedAt) {
			return projects[i].ID < projects[j].ID
		}
		return projects[i].CreatedAt.Before(projects[j].CreatedAt)
	})
	return projects
}

// ProjectsHandler handles project endpoints
type ProjectsHandler struct {
	projects *ProjectManager
}

// NewProjectsHandler creates a new projects handler
func NewProjectsHandler(pm *ProjectManager) *ProjectsHandler {
	return &ProjectsHandler{projects: pm}
}

// getProject resolves the {id} URL parameter, answering 404 itself when
// the project does not exist.
func getProject(m *ProjectManager, r *http.Request, w http.ResponseWriter) *Project {
	project := m.Get(chi.URLParam(r, "id"))
	if project == nil {
		respondError(w, http.StatusNotFound, "project not found")
		return nil
	}
	return project
}

type geometryResponse struct {
	Size            paper.Size        `json:"size"`
	Orientation     paper.Orientation `json:"orientation"`
	MarginMM        float64           `json:"margin_mm"`
	MaxMarginMM     float64           `json:"max_margin_mm"`
	PageWidthMM     float64           `json:"page_width_mm"`
	PageHeightMM    float64           `json:"page_height_mm"`
	ContentWidthMM  float64           `json:"content_width_mm"`
	ContentHeightMM float64           `json:"content_height_mm"`
	AspectRatio     float64           `json:"aspect_ratio"`
}

func makeGeometryResponse(g paper.Geometry) geometryResponse {
	pageW, pageH := g.PageMM()
	contentW, contentH := g.ContentMM()
	return geometryResponse{
		Size:            g.Size,
		Orientation:     g.Orientation,
		MarginMM:        g.Margin(),
		MaxMarginMM:     g.MaxMargin(),
		PageWidthMM:     pageW,
		PageHeightMM:    pageH,
		ContentWidthMM:  contentW,
		ContentHeightMM: contentH,
		AspectRatio:     g.AspectRatio(),
	}
}

type projectResponse struct {
	ID         string           `json:"id"`
	Title      string           `json:"title"`
	PhotoCount int              `json:"photo_count"`
	Geometry   geometryResponse `json:"geometry"`
	Export     compose.Snapshot `json:"export"`
	CreatedAt  string           `json:"created_at"`
}

type projectDetailResponse struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Photos    []album.Photo    `json:"photos"`
	Geometry  geometryResponse `json:"geometry"`
	Export    compose.Snapshot `json:"export"`
	CreatedAt string           `json:"created_at"`
}

func makeProjectResponse(p *Project) projectResponse {
	return projectResponse{
		ID:         p.ID,
		Title:      p.Title(),
		PhotoCount: p.Album.Len(),
		Geometry:   makeGeometryResponse(p.Geometry()),
		Export:     p.State.Snapshot(),
		CreatedAt:  p.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// List handles GET /projects.
func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	projects := h.projects.List()
	result := make([]projectResponse, len(projects))
	for i, p := range projects {
		result[i] = makeProjectResponse(p)
	}
	respondJSON(w, http.StatusOK, result)
}

// Create handles POST /projects.
func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.Title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}

	project := h.projects.Create(req.Title)
	respondJSON(w, http.StatusCreated, makeProjectResponse(project))
}

// Get handles GET /projects/{id}.
func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	project := getProject(h.projects, r, w)
	if project == nil {
		return
	}
	respondJSON(w, http.StatusOK, projectDetailResponse{
		ID:        project.ID,
		Title:     project.Title(),
		Photos:    project.Album.Photos(),
		Geometry:  makeGeometryResponse(project.Geometry()),
		Export:    project.State.Snapshot(),
		CreatedAt: project.CreatedAt.Format("2006-01-02T15:04:05Z"),
	})
}

// Update handles PUT /projects/{id}.
func (h *ProjectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	project := getProject(h.projects, r, w)
	if project == nil {
		return
	}
	var req struct {
		Title *string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.Title != nil {
		if *req.Title == "" {
			respondError(w, http.StatusBadRequest, "title is required")
			return
		}
		project.SetTitle(*req.Title)
	}
	respondJSON(w, http.StatusOK, makeProjectResponse(project))
}

// Delete handles DELETE /projects/{id}.
func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	project := getProject(h.projects, r, w)
	if project == nil {
		return
	}
	h.projects.Delete(project.ID)
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// UpdateGeometry handles PUT /projects/{id}/geometry. Margins out of
// range are clamped, not rejected.
func (h *ProjectsHandler) UpdateGeometry(w http.ResponseWriter, r *http.Request) {
	project := getProject(h.projects, r, w)
	if project == nil {
		return
	}
	var req struct {
		Size        string   `json:"size"`
		Orientation string   `json:"orientation"`
		MarginMM    *float64 `json:"margin_mm"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	g := project.Geometry()
	if req.Size != "" {
		size, err := paper.ParseSize(req.Size)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		g.Size = size
	}
	if req.Orientation != "" {
		orientation, err := paper.ParseOrientation(req.Orientation)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		g.Orientation = orientation
	}
	if req.MarginMM != nil {
		g.MarginMM = *req.MarginMM
	}
	project.SetGeometry(g)

	respondJSON(w, http.StatusOK, makeGeometryResponse(project.Geometry()))
}
