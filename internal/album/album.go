// Package album holds the transient photo sequence behind a project: intake
// of raw picker results, MIME classification, and the ordered mutable page
// sequence that both preview and export read. Nothing here touches disk.
package album

import (
	"errors"
	"sync"
	"time"
)

// ErrBadOrder is returned by Reorder when the requested order is not a
// permutation of the current sequence. The store keeps its prior order.
var ErrBadOrder = errors.New("new order is not a permutation of the current photos")

// Photo describes one page of the album. Identity is the Handle; the other
// fields are fixed at intake and only change by removing and re-importing.
type Photo struct {
	Handle   string    `json:"handle"`
	Width    int       `json:"width"`
	Height   int       `json:"height"`
	MimeType string    `json:"mime_type,omitempty"`
	AddedAt  time.Time `json:"added_at"`
}

// ContentType returns the MIME type used when embedding the photo,
// resolved from the declared type or the handle suffix.
func (p Photo) ContentType() string {
	return MimeType(p.MimeType, p.Handle)
}

// Album is the ordered photo sequence for one project. It is the single
// owner of page order; insertion order is page order is print order.
type Album struct {
	mu     sync.RWMutex
	photos []Photo
}

// New returns an empty album.
func New() *Album {
	return &Album{}
}

// Add merges picker results into the sequence and reports how many photos
// were actually new. Already-known handles are dropped silently.
func (a *Album) Add(picked []Asset) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	before := len(a.photos)
	a.photos = Merge(a.photos, picked)
	return len(a.photos) - before
}

// Photos returns a copy of the sequence in page order.
func (a *Album) Photos() []Photo {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]Photo, len(a.photos))
	copy(out, a.photos)
	return out
}

// Len returns the number of pages.
func (a *Album) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.photos)
}

// Reorder replaces the sequence with the given permutation of handles,
// as produced by a completed drag-and-drop. Each current handle must
// appear exactly once; on mismatch the album keeps its prior order and
// returns ErrBadOrder.
func (a *Album) Reorder(handles []string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(handles) != len(a.photos) {
		return ErrBadOrder
	}
	remaining := make(map[string]Photo, len(a.photos))
	for _, p := range a.photos {
		remaining[p.Handle] = p
	}
	next := make([]Photo, 0, len(handles))
	for _, h := range handles {
		p, ok := remaining[h]
		if !ok {
			return ErrBadOrder
		}
		delete(remaining, h)
		next = append(next, p)
	}
	a.photos = next
	return nil
}

// Remove drops the photo with the given handle. Absent handles are a no-op.
func (a *Album) Remove(handle string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, p := range a.photos {
		if p.Handle == handle {
			a.photos = append(a.photos[:i], a.photos[i+1:]...)
			return
		}
	}
}
