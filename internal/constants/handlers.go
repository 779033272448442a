// Package constants provides shared constants used across the codebase.
package constants

// File upload constants
const (
	// MaxUploadSize is the maximum file upload size in bytes (100MB)
	MaxUploadSize = 100 << 20

	// MaxUploadFiles is the maximum number of photos accepted in one upload request
	MaxUploadFiles = 100
)

// Request body constants
const (
	// MaxJSONBodySize is the maximum JSON request body size in bytes (1MB)
	MaxJSONBodySize = 1 << 20
)
