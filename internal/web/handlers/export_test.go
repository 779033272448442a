package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kozaktomas/photo-press/internal/compose"
	"github.com/kozaktomas/photo-press/internal/library"
	"github.com/kozaktomas/photo-press/internal/render"
)

// fakeRenderer produces a real file on disk so download and share can
// stream it back.
type fakeRenderer struct {
	dir          string
	availableErr error
	renderErr    error
}

func (f *fakeRenderer) Available() error { return f.availableErr }

func (f *fakeRenderer) Render(_ context.Context, req render.Request) (*render.Artifact, error) {
	if f.renderErr != nil {
		return nil, f.renderErr
	}
	content := []byte("%PDF-1.4 test document")
	path := filepath.Join(f.dir, "out.pdf")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return nil, err
	}
	return &render.Artifact{
		ID:        "c7f2a1d4-5a4e-4b7d-9c3e-2f8b1a6d0e9f",
		Path:      path,
		Name:      req.BaseName + ".pdf",
		Size:      int64(len(content)),
		MimeType:  "application/pdf",
		CreatedAt: time.Now(),
	}, nil
}

func newExportHandler(t *testing.T, manager *ProjectManager, lib *library.Library, renderer render.Renderer, shareDir string) *ExportHandler {
	t.Helper()
	return NewExportHandler(manager, lib, renderer, render.NewShare(shareDir), 2)
}

// runExport drives a full successful export for a project.
func runExport(t *testing.T, handler *ExportHandler, projectID string) compose.Snapshot {
	t.Helper()
	req := projectRequest(t, http.MethodPost, "/api/v1/projects/"+projectID+"/export", nil, projectID)
	rec := httptest.NewRecorder()
	handler.Start(rec, req)
	assertStatusCode(t, rec, http.StatusOK)

	var snap compose.Snapshot
	parseJSONResponse(t, rec, &snap)
	return snap
}

func TestStartExport(t *testing.T) {
	lib := newTestLibrary(t)
	manager, project := newTestProject(t)
	pickIntoProject(t, project, lib, "a.png", "b.png")
	handler := newExportHandler(t, manager, lib, &fakeRenderer{dir: t.TempDir()}, "")

	snap := runExport(t, handler, project.ID)
	if snap.Status != compose.StatusSucceeded {
		t.Fatalf("expected status succeeded, got %s", snap.Status)
	}
	if snap.Artifact == nil || snap.Artifact.Name != "Holiday.pdf" {
		t.Fatalf("expected artifact Holiday.pdf, got %+v", snap.Artifact)
	}
	if snap.Report == nil || snap.Report.PageCount != 2 {
		t.Fatalf("expected a 2 page report, got %+v", snap.Report)
	}
}

func TestStartExport_EmptyProject(t *testing.T) {
	lib := newTestLibrary(t)
	manager, project := newTestProject(t)
	handler := newExportHandler(t, manager, lib, &fakeRenderer{dir: t.TempDir()}, "")

	req := projectRequest(t, http.MethodPost, "/api/v1/projects/"+project.ID+"/export", nil, project.ID)
	rec := httptest.NewRecorder()
	handler.Start(rec, req)

	assertStatusCode(t, rec, http.StatusBadRequest)
	assertJSONError(t, rec, "no photos to export")

	// The refused export is recorded on the project.
	statusReq := projectRequest(t, http.MethodGet, "/api/v1/projects/"+project.ID+"/export", nil, project.ID)
	statusRec := httptest.NewRecorder()
	handler.Status(statusRec, statusReq)

	var snap compose.Snapshot
	parseJSONResponse(t, statusRec, &snap)
	if snap.Status != compose.StatusFailed {
		t.Errorf("expected status failed, got %s", snap.Status)
	}
	if snap.Error != "no photos to export" {
		t.Errorf("unexpected error message: %q", snap.Error)
	}
}

func TestStartExport_RendererUnavailable(t *testing.T) {
	lib := newTestLibrary(t)
	manager, project := newTestProject(t)
	pickIntoProject(t, project, lib, "a.png")
	renderer := &fakeRenderer{dir: t.TempDir(), availableErr: render.ErrRendererUnavailable}
	handler := newExportHandler(t, manager, lib, renderer, "")

	req := projectRequest(t, http.MethodPost, "/api/v1/projects/"+project.ID+"/export", nil, project.ID)
	rec := httptest.NewRecorder()
	handler.Start(rec, req)

	assertStatusCode(t, rec, http.StatusServiceUnavailable)
	assertJSONError(t, rec, "document renderer is not available on the server")

	// A missing binary is no reason to touch the export state.
	if got := project.State.Status(); got != compose.StatusIdle {
		t.Errorf("expected state to stay idle, got %s", got)
	}
}

func TestStartExport_Conflict(t *testing.T) {
	lib := newTestLibrary(t)
	manager, project := newTestProject(t)
	pickIntoProject(t, project, lib, "a.png")
	handler := newExportHandler(t, manager, lib, &fakeRenderer{dir: t.TempDir()}, "")

	if err := project.State.Begin(); err != nil {
		t.Fatalf("begin: %v", err)
	}

	req := projectRequest(t, http.MethodPost, "/api/v1/projects/"+project.ID+"/export", nil, project.ID)
	rec := httptest.NewRecorder()
	handler.Start(rec, req)

	assertStatusCode(t, rec, http.StatusConflict)
	assertJSONError(t, rec, "an export is already running")
}

func TestExportStatus_InitiallyIdle(t *testing.T) {
	lib := newTestLibrary(t)
	manager, project := newTestProject(t)
	handler := newExportHandler(t, manager, lib, &fakeRenderer{dir: t.TempDir()}, "")

	req := projectRequest(t, http.MethodGet, "/api/v1/projects/"+project.ID+"/export", nil, project.ID)
	rec := httptest.NewRecorder()
	handler.Status(rec, req)

	assertStatusCode(t, rec, http.StatusOK)
	var snap compose.Snapshot
	parseJSONResponse(t, rec, &snap)
	if snap.Status != compose.StatusIdle {
		t.Errorf("expected status idle, got %s", snap.Status)
	}
	if snap.Artifact != nil {
		t.Errorf("expected no artifact before export, got %+v", snap.Artifact)
	}
}

func TestDownloadDocument(t *testing.T) {
	lib := newTestLibrary(t)
	manager, project := newTestProject(t)
	pickIntoProject(t, project, lib, "a.png")
	handler := newExportHandler(t, manager, lib, &fakeRenderer{dir: t.TempDir()}, "")

	req := projectRequest(t, http.MethodGet, "/api/v1/projects/"+project.ID+"/document", nil, project.ID)
	rec := httptest.NewRecorder()
	handler.Download(rec, req)
	assertStatusCode(t, rec, http.StatusNotFound)
	assertJSONError(t, rec, "no document has been generated yet")

	runExport(t, handler, project.ID)

	rec = httptest.NewRecorder()
	handler.Download(rec, projectRequest(t, http.MethodGet, "/api/v1/projects/"+project.ID+"/document", nil, project.ID))
	assertStatusCode(t, rec, http.StatusOK)
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("expected application/pdf, got %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="Holiday.pdf"` {
		t.Errorf("unexpected disposition: %q", cd)
	}
	if body := rec.Body.String(); body != "%PDF-1.4 test document" {
		t.Errorf("unexpected document body: %q", body)
	}
}

func TestShareDocument(t *testing.T) {
	lib := newTestLibrary(t)
	manager, project := newTestProject(t)
	pickIntoProject(t, project, lib, "a.png")
	shareDir := t.TempDir()
	handler := newExportHandler(t, manager, lib, &fakeRenderer{dir: t.TempDir()}, shareDir)

	// Nothing generated yet.
	req := projectRequest(t, http.MethodPost, "/api/v1/projects/"+project.ID+"/share", nil, project.ID)
	rec := httptest.NewRecorder()
	handler.Share(rec, req)
	assertStatusCode(t, rec, http.StatusBadRequest)
	assertJSONError(t, rec, "no document to share, run an export first")

	runExport(t, handler, project.ID)

	rec = httptest.NewRecorder()
	handler.Share(rec, projectRequest(t, http.MethodPost, "/api/v1/projects/"+project.ID+"/share", nil, project.ID))
	assertStatusCode(t, rec, http.StatusOK)

	var resp map[string]string
	parseJSONResponse(t, rec, &resp)
	data, err := os.ReadFile(resp["path"])
	if err != nil {
		t.Fatalf("shared copy missing: %v", err)
	}
	if string(data) != "%PDF-1.4 test document" {
		t.Errorf("shared copy content mismatch: %q", data)
	}
	if filepath.Dir(resp["path"]) != shareDir {
		t.Errorf("share copy landed outside the share directory: %s", resp["path"])
	}
}

func TestShareDocument_Unavailable(t *testing.T) {
	lib := newTestLibrary(t)
	manager, project := newTestProject(t)
	handler := newExportHandler(t, manager, lib, &fakeRenderer{dir: t.TempDir()}, "")

	req := projectRequest(t, http.MethodPost, "/api/v1/projects/"+project.ID+"/share", nil, project.ID)
	rec := httptest.NewRecorder()
	handler.Share(rec, req)

	assertStatusCode(t, rec, http.StatusServiceUnavailable)
	assertJSONError(t, rec, "share target is not available")
}
