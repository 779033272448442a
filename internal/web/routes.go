package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/photo-press/internal/web/handlers"
)

func (s *Server) setupRoutes() {
	// Create handlers
	papersHandler := handlers.NewPapersHandler()
	libraryHandler := handlers.NewLibraryHandler(s.library)
	projectsHandler := handlers.NewProjectsHandler(s.projects)
	photosHandler := handlers.NewPhotosHandler(s.projects, s.library)
	previewHandler := handlers.NewPreviewHandler(s.projects, s.library)
	exportHandler := handlers.NewExportHandler(s.projects, s.library, s.renderer, s.share, s.config.Export.Concurrency)

	// Health check
	s.router.Get("/api/v1/health", handlers.HealthCheck)

	// API routes
	s.router.Route("/api/v1", func(r chi.Router) {
		// Paper catalog
		r.Get("/papers", papersHandler.List)

		// Photo library (the picker source)
		r.Get("/library", libraryHandler.List)

		// Projects
		r.Get("/projects", projectsHandler.List)
		r.Post("/projects", projectsHandler.Create)
		r.Get("/projects/{id}", projectsHandler.Get)
		r.Put("/projects/{id}", projectsHandler.Update)
		r.Delete("/projects/{id}", projectsHandler.Delete)
		r.Put("/projects/{id}/geometry", projectsHandler.UpdateGeometry)

		// Photo sequence
		r.Post("/projects/{id}/photos", photosHandler.Pick)
		r.Post("/projects/{id}/photos/upload", photosHandler.Upload)
		r.Put("/projects/{id}/photos/order", photosHandler.Reorder)
		r.Delete("/projects/{id}/photos", photosHandler.Remove)

		// Preview
		r.Get("/projects/{id}/preview", previewHandler.Get)
		r.Get("/projects/{id}/preview.png", previewHandler.Page)

		// Export and share
		r.Post("/projects/{id}/export", exportHandler.Start)
		r.Get("/projects/{id}/export", exportHandler.Status)
		r.Get("/projects/{id}/document", exportHandler.Download)
		r.Post("/projects/{id}/share", exportHandler.Share)
	})

	// Landing page
	s.router.Get("/", s.serveIndex)
}

// serveIndex serves a small landing page pointing at the API.
func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`<!DOCTYPE html>
<html>
<head>
    <title>Photo Press</title>
    <style>
        body { font-family: system-ui, sans-serif; display: flex; justify-content: center; align-items: center; height: 100vh; margin: 0; background: #1a1a2e; color: #eee; }
        .container { text-align: center; }
        h1 { color: #00d9ff; }
        p { color: #aaa; }
        a { color: #00d9ff; }
        code { background: #2a2a3e; padding: 2px 8px; border-radius: 4px; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Photo Press</h1>
        <p>Turn a photo selection into a print-ready document.</p>
        <p>API is available at <a href="/api/v1/health">/api/v1/health</a></p>
    </div>
</body>
</html>`))
}
