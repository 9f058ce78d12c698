package md2docx

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyMarkdown        = errors.New("markdown content cannot be empty")
	ErrInvalidPageSize      = errors.New("invalid page size")
	ErrInvalidImageRegistry = errors.New("invalid image registry")
	ErrSerialization        = errors.New("document serialization failed")

	// Browser errors, raised only while rendering diagrams.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrDiagramRender  = errors.New("diagram rendering failed")
	ErrRasterize      = errors.New("svg rasterization failed")

	// Asset loading errors.
	ErrThemeNotFound    = errors.New("theme not found")
	ErrInvalidTheme     = errors.New("invalid theme")
	ErrInvalidAssetPath = errors.New("invalid asset path")
)
