// Package render hands finished markup to the external print/export
// engine and exposes the share target. The core never produces PDF bytes
// itself; a configured renderer binary does, or a direct-print profile
// swallows the document without leaving an artifact behind.
package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kozaktomas/photo-press/internal/paper"
)

// ErrRendererUnavailable means the configured renderer binary is not
// installed on this machine.
var ErrRendererUnavailable = errors.New("document renderer is not available")

// Request is one document to render.
type Request struct {
	Markup       string
	BaseName     string
	Orientation  paper.Orientation
	PageWidthMM  float64
	PageHeightMM float64
	PageWidthPt  int
	PageHeightPt int
}

// Artifact is a produced document file, kept for download and share.
type Artifact struct {
	ID        string    `json:"id"`
	Path      string    `json:"-"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	MimeType  string    `json:"mime_type"`
	CreatedAt time.Time `json:"created_at"`
}

// Renderer turns markup into a document. A nil artifact with a nil error
// means the profile printed directly and kept nothing.
type Renderer interface {
	Available() error
	Render(ctx context.Context, req Request) (*Artifact, error)
}

// Engine runs an external renderer binary. The argument list may carry
// placeholders expanded per request: {input}, {output}, {page_width_mm},
// {page_height_mm}, {page_width_pt}, {page_height_pt}, {orientation}.
type Engine struct {
	command string
	args    []string
	direct  bool
	outDir  string
}

// NewEngine builds an engine for a renderer profile. direct marks
// print-queue style profiles that never produce a file; outDir is where
// produced documents land.
func NewEngine(command string, args []string, direct bool, outDir string) *Engine {
	return &Engine{
		command: command,
		args:    args,
		direct:  direct,
		outDir:  outDir,
	}
}

// Available checks the renderer binary without running it.
func (e *Engine) Available() error {
	if e.command == "" {
		return fmt.Errorf("%w: no renderer command configured", ErrRendererUnavailable)
	}
	if _, err := exec.LookPath(e.command); err != nil {
		return fmt.Errorf("%w: %s not found in PATH", ErrRendererUnavailable, e.command)
	}
	return nil
}

// Render writes the markup to a temp file, runs the binary and collects
// the produced document. Temp files never outlive the call; a failed run
// leaves no artifact behind.
func (e *Engine) Render(ctx context.Context, req Request) (*Artifact, error) {
	if err := e.Available(); err != nil {
		return nil, err
	}

	tmpDir, err := os.MkdirTemp("", "photo-press-*")
	if err != nil {
		return nil, fmt.Errorf("create temp directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	inputPath := filepath.Join(tmpDir, "document.html")
	if err := os.WriteFile(inputPath, []byte(req.Markup), 0600); err != nil {
		return nil, fmt.Errorf("write markup: %w", err)
	}

	id := uuid.New().String()
	outputPath := ""
	if !e.direct {
		if err := os.MkdirAll(e.outDir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
		outputPath = filepath.Join(e.outDir, id+".pdf")
	}

	args := e.expandArgs(req, inputPath, outputPath)
	cmd := exec.CommandContext(ctx, e.command, args...) //nolint:gosec // command comes from the renderer profile, paths from MkdirTemp
	cmd.Dir = tmpDir
	output, err := cmd.CombinedOutput()
	if err != nil {
		if outputPath != "" {
			os.Remove(outputPath)
		}
		return nil, fmt.Errorf("%s failed: %w\n%s", e.command, err, string(output))
	}

	if e.direct {
		return nil, nil
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		return nil, fmt.Errorf("%s produced no output: %w", e.command, err)
	}

	name := NormalizeName(req.BaseName)
	if name == "" {
		name = "document"
	}
	return &Artifact{
		ID:        id,
		Path:      outputPath,
		Name:      name + ".pdf",
		Size:      info.Size(),
		MimeType:  "application/pdf",
		CreatedAt: time.Now(),
	}, nil
}

func (e *Engine) expandArgs(req Request, inputPath, outputPath string) []string {
	r := strings.NewReplacer(
		"{input}", inputPath,
		"{output}", outputPath,
		"{page_width_mm}", formatMM(req.PageWidthMM),
		"{page_height_mm}", formatMM(req.PageHeightMM),
		"{page_width_pt}", strconv.Itoa(req.PageWidthPt),
		"{page_height_pt}", strconv.Itoa(req.PageHeightPt),
		"{orientation}", string(req.Orientation),
	)
	args := make([]string, 0, len(e.args))
	for _, a := range e.args {
		args = append(args, r.Replace(a))
	}
	return args
}

func formatMM(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
