// Package library gives the core access to the user's photos. It plays the
// picker, file-reader and permission-check collaborators over a local photo
// directory: listing image files with probed pixel dimensions, resolving a
// multi-select into assets, and reading file bytes for embedding. Handles
// handed out by a Library are paths relative to its root.
package library

import (
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kozaktomas/photo-press/internal/album"

	// Decoders for dimension probing. HEIC has no decoder here; those
	// files list with zero dimensions.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrPermissionDenied means the photo directory cannot be read. The user
// gets an explanation and no retry loop.
var ErrPermissionDenied = errors.New("photo library is not readable")

// ErrNotFound means a handle does not resolve to a file under the root.
var ErrNotFound = errors.New("no such photo in the library")

// imageExts are the file extensions listed as photos.
var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".heic": true,
	".heif": true,
	".webp": true,
	".tiff": true,
	".tif":  true,
	".bmp":  true,
}

// IsImageFile reports whether the file name has a supported photo extension.
func IsImageFile(name string) bool {
	return imageExts[strings.ToLower(filepath.Ext(name))]
}

// Library is a photo directory the user granted access to.
type Library struct {
	root string
}

// Open checks access to the photo directory and returns a Library rooted
// there. A missing or unreadable directory is a permission denial.
func Open(root string) (*Library, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve library path %s: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, abs)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrPermissionDenied, abs)
	}
	if _, err := os.ReadDir(abs); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, abs)
	}
	return &Library{root: abs}, nil
}

// Root returns the absolute library root.
func (l *Library) Root() string {
	return l.root
}

// List returns the library's photos as picker assets ordered by handle,
// optionally descending into subdirectories. Files that cannot be decoded
// still list, with zero dimensions and no declared MIME type.
func (l *Library) List(recursive bool) ([]album.Asset, error) {
	var paths []string
	if recursive {
		err := filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && IsImageFile(d.Name()) {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("cannot walk library %s: %w", l.root, err)
		}
	} else {
		entries, err := os.ReadDir(l.root)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, l.root)
		}
		for _, entry := range entries {
			if entry.IsDir() || !IsImageFile(entry.Name()) {
				continue
			}
			paths = append(paths, filepath.Join(l.root, entry.Name()))
		}
	}

	assets := make([]album.Asset, 0, len(paths))
	for _, path := range paths {
		asset := Probe(path)
		rel, err := filepath.Rel(l.root, path)
		if err != nil {
			continue
		}
		asset.Handle = filepath.ToSlash(rel)
		assets = append(assets, asset)
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].Handle < assets[j].Handle })
	return assets, nil
}

// Pick resolves a multi-select of handles into picker assets, preserving
// the given order. An empty selection returns nil, nil. Unknown handles
// are an error so a stale selection fails at intake, not mid-export.
func (l *Library) Pick(handles []string) ([]album.Asset, error) {
	if len(handles) == 0 {
		return nil, nil
	}
	assets := make([]album.Asset, 0, len(handles))
	for _, h := range handles {
		path, err := l.resolve(h)
		if err != nil {
			return nil, err
		}
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, h)
		}
		asset := Probe(path)
		asset.Handle = h
		assets = append(assets, asset)
	}
	return assets, nil
}

// ReadFile returns the raw bytes behind a handle for embedding.
func (l *Library) ReadFile(handle string) ([]byte, error) {
	path, err := l.resolve(handle)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read photo %s: %w", handle, err)
	}
	return data, nil
}

// SaveUpload stores uploaded bytes under the library's uploads directory
// and returns the new handle. The name is reduced to its base to keep
// uploads inside the root.
func (l *Library) SaveUpload(name string, r io.Reader) (string, error) {
	safeName := filepath.Base(name)
	if safeName == "." || safeName == string(filepath.Separator) {
		return "", fmt.Errorf("unusable upload name %q", name)
	}
	dir := filepath.Join(l.root, "uploads")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create uploads directory: %w", err)
	}
	path := filepath.Join(dir, safeName)
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		os.Remove(path)
		return "", fmt.Errorf("save upload %s: %w", safeName, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("save upload %s: %w", safeName, err)
	}
	return filepath.ToSlash(filepath.Join("uploads", safeName)), nil
}

// resolve maps a handle to an absolute path under the root, rejecting
// anything that escapes it.
func (l *Library) resolve(handle string) (string, error) {
	if handle == "" || filepath.IsAbs(handle) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, handle)
	}
	path := filepath.Join(l.root, filepath.FromSlash(handle))
	path = filepath.Clean(path)
	if path != l.root && !strings.HasPrefix(path, l.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, handle)
	}
	return path, nil
}

// Probe stats a file and decodes its header for pixel dimensions and a
// declared MIME type. The handle is the full path; callers relativize it
// as needed. Probe never fails: an undecodable file just yields zero
// dimensions.
func Probe(path string) album.Asset {
	asset := album.Asset{Handle: path}
	f, err := os.Open(path)
	if err != nil {
		log.Printf("WARNING: cannot open %s for probing: %v", path, err)
		return asset
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		// HEIC and camera raw formats land here.
		return asset
	}
	asset.Width = cfg.Width
	asset.Height = cfg.Height
	asset.MimeType = "image/" + format
	return asset
}
