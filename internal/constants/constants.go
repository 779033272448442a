// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

// Preview constants
const (
	// DefaultPreviewWidth is the pixel width of rendered page previews
	DefaultPreviewWidth = 420

	// MaxPreviewWidth caps requested preview widths (A4 width at 300 dpi)
	MaxPreviewWidth = 2480
)

// Export constants
const (
	// DefaultConcurrency is the default number of parallel photo reads during an export
	DefaultConcurrency = 5
)
