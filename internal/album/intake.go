package album

import (
	"strings"
	"time"
)

// Asset is a raw picker result before normalization. Width, Height and
// MimeType are optional; zero values mean the source did not say.
type Asset struct {
	Handle   string `json:"handle"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
}

// Merge appends the picked assets whose handles are not already present,
// preserving their relative order from picked. Duplicates within picked
// collapse to the first occurrence. The existing photos keep their order
// and are never interleaved with new ones.
func Merge(existing []Photo, picked []Asset) []Photo {
	seen := make(map[string]struct{}, len(existing)+len(picked))
	for _, p := range existing {
		seen[p.Handle] = struct{}{}
	}
	out := make([]Photo, len(existing), len(existing)+len(picked))
	copy(out, existing)
	now := time.Now()
	for _, a := range picked {
		if _, ok := seen[a.Handle]; ok {
			continue
		}
		seen[a.Handle] = struct{}{}
		out = append(out, Photo{
			Handle:   a.Handle,
			Width:    a.Width,
			Height:   a.Height,
			MimeType: a.MimeType,
			AddedAt:  now,
		})
	}
	return out
}

// MIME types by lower-cased handle extension. Everything else embeds as JPEG.
var mimeByExt = map[string]string{
	"png":  "image/png",
	"webp": "image/webp",
	"gif":  "image/gif",
	"heic": "image/heic",
	"heif": "image/heic",
}

// MimeType classifies a photo for data-URI embedding. A declared image/*
// type wins unchanged. Otherwise the suffix after the handle's last dot
// decides, with anything from a '?' on stripped and case ignored. No
// content sniffing: the handle may point at bytes we never read.
func MimeType(declared, handle string) string {
	if strings.HasPrefix(declared, "image/") {
		return declared
	}
	i := strings.LastIndex(handle, ".")
	if i < 0 {
		return "image/jpeg"
	}
	ext := handle[i+1:]
	if j := strings.Index(ext, "?"); j >= 0 {
		ext = ext[:j]
	}
	if mt, ok := mimeByExt[strings.ToLower(ext)]; ok {
		return mt
	}
	return "image/jpeg"
}
