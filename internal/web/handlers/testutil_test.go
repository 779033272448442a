package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/photo-press/internal/library"
)

// writePNG writes a solid PNG of the given size into dir.
func writePNG(t *testing.T, dir, name string, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", name, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", name, err)
	}
	return path
}

// newTestLibrary creates a temp library with a couple of photos.
func newTestLibrary(t *testing.T) *library.Library {
	t.Helper()
	dir := t.TempDir()
	writePNG(t, dir, "a.png", 800, 600)
	writePNG(t, dir, "b.png", 400, 400)
	lib, err := library.Open(dir)
	if err != nil {
		t.Fatalf("open test library: %v", err)
	}
	return lib
}

// newTestProject creates a manager holding one fresh project.
func newTestProject(t *testing.T) (*ProjectManager, *Project) {
	t.Helper()
	manager := NewProjectManager()
	project := manager.Create("Holiday")
	return manager, project
}

// pickIntoProject fills the project sequence from the library.
func pickIntoProject(t *testing.T, project *Project, lib *library.Library, handles ...string) {
	t.Helper()
	assets, err := lib.Pick(handles)
	if err != nil {
		t.Fatalf("pick %v: %v", handles, err)
	}
	project.Album.Add(assets)
}

// jsonRequest creates a request with a JSON body.
func jsonRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// requestWithChiParams creates a request with chi URL parameters
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// projectRequest builds a JSON request routed at the given project.
func projectRequest(t *testing.T, method, path string, body any, projectID string) *http.Request {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = jsonRequest(t, method, path, body)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	return requestWithChiParams(req, map[string]string{"id": projectID})
}

// parseJSONResponse parses a JSON response body into the target type
func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, recorder.Body.String())
	}
}

// assertStatusCode checks if the response has the expected status code
func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Errorf("expected status %d, got %d\nBody: %s", expected, recorder.Code, recorder.Body.String())
	}
}

// assertJSONError checks if the response is a JSON error with the expected message
func assertJSONError(t *testing.T, recorder *httptest.ResponseRecorder, expectedMessage string) {
	t.Helper()
	var result map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse error response: %v\nBody: %s", err, recorder.Body.String())
	}
	if result["error"] != expectedMessage {
		t.Errorf("expected error '%s', got '%s'", expectedMessage, result["error"])
	}
}

// handlesOf extracts the handle column from a photos response.
func handlesOf(resp photosResponse) []string {
	handles := make([]string, len(resp.Photos))
	for i, p := range resp.Photos {
		handles[i] = p.Handle
	}
	return handles
}

// assertHandles compares a handle sequence against the expectation.
func assertHandles(t *testing.T, got, want []string) {
	t.Helper()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("expected sequence %v, got %v", want, got)
	}
}
