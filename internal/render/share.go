package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrShareUnavailable means no share target is configured or reachable.
// The user gets a distinct message and no retry.
var ErrShareUnavailable = errors.New("sharing is not available")

// ErrNothingToShare means no document has been generated yet.
var ErrNothingToShare = errors.New("no document to share")

// Share copies finished documents into a share directory, the stand-in
// for a platform share sheet. Callers must pre-check Available before
// offering the action.
type Share struct {
	dir string
}

// NewShare returns a share target for dir. An empty dir means sharing is
// unavailable.
func NewShare(dir string) *Share {
	return &Share{dir: dir}
}

// Available reports whether documents can be shared right now.
func (s *Share) Available() error {
	if s.dir == "" {
		return fmt.Errorf("%w: no share directory configured", ErrShareUnavailable)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("%w: %s", ErrShareUnavailable, s.dir)
	}
	return nil
}

// ShareArtifact copies the artifact into the share directory and returns
// the destination path. An existing file with the same name is kept; the
// copy gets the artifact ID folded into its name instead.
func (s *Share) ShareArtifact(ctx context.Context, artifact *Artifact) (string, error) {
	if err := s.Available(); err != nil {
		return "", err
	}
	if artifact == nil {
		return "", ErrNothingToShare
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dest := filepath.Join(s.dir, artifact.Name)
	if _, err := os.Stat(dest); err == nil {
		ext := filepath.Ext(artifact.Name)
		base := artifact.Name[:len(artifact.Name)-len(ext)]
		suffix := artifact.ID
		if len(suffix) > 8 {
			suffix = suffix[:8]
		}
		dest = filepath.Join(s.dir, base+"-"+suffix+ext)
	}

	in, err := os.Open(artifact.Path)
	if err != nil {
		return "", fmt.Errorf("open document %s: %w", artifact.Path, err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("create share copy: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return "", fmt.Errorf("copy document to share: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("copy document to share: %w", err)
	}
	return dest, nil
}
