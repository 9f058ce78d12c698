package md2docx

import (
	"errors"

	"github.com/alnah/go-md2docx/internal/assets"
)

// Asset name constants for built-in assets.
const (
	// DefaultTheme is the name of the built-in theme.
	DefaultTheme = assets.DefaultThemeName
)

// AssetLoader defines the contract for loading themes and the HTML pages
// the diagram browser hosts. Implementations may load from filesystem,
// embedded assets, a database, etc.
//
// The library provides NewAssetLoader() for filesystem-based loading with
// fallback to embedded defaults. Implement this interface for custom backends.
type AssetLoader interface {
	// LoadTheme loads a YAML theme by name (without .yaml extension).
	// Returns ErrThemeNotFound if the theme doesn't exist.
	LoadTheme(name string) ([]byte, error)

	// LoadTemplate loads an HTML host page ("mermaid" or "svg") by name.
	LoadTemplate(name string) (string, error)
}

// NewAssetLoader creates an AssetLoader for the given base path.
// If basePath is empty, returns a loader using only embedded assets.
// If basePath is set, custom assets take precedence with fallback to embedded.
//
// The basePath directory should contain:
//   - themes/{name}.yaml for themes
//   - templates/{name}.html for browser host pages
//
// Returns ErrInvalidAssetPath if basePath is set but not a valid, readable directory.
func NewAssetLoader(basePath string) (AssetLoader, error) {
	resolver, err := assets.NewAssetResolver(basePath)
	if err != nil {
		return nil, convertAssetError(err)
	}
	return &assetLoaderAdapter{resolver: resolver}, nil
}

// Themes lists the names of the embedded themes.
func Themes() []string {
	return assets.NewEmbeddedLoader().Themes()
}

// assetLoaderAdapter maps internal asset errors to public sentinels.
type assetLoaderAdapter struct {
	resolver *assets.AssetResolver
}

func (a *assetLoaderAdapter) LoadTheme(name string) ([]byte, error) {
	data, err := a.resolver.LoadTheme(name)
	if err != nil {
		return nil, convertAssetError(err)
	}
	return data, nil
}

func (a *assetLoaderAdapter) LoadTemplate(name string) (string, error) {
	content, err := a.resolver.LoadTemplate(name)
	if err != nil {
		return "", convertAssetError(err)
	}
	return content, nil
}

// convertAssetError maps internal asset errors to public errors.
func convertAssetError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, assets.ErrThemeNotFound),
		errors.Is(err, assets.ErrInvalidAssetName):
		return wrapError(ErrThemeNotFound, err)
	case errors.Is(err, assets.ErrInvalidBasePath),
		errors.Is(err, assets.ErrPathTraversal):
		return wrapError(ErrInvalidAssetPath, err)
	default:
		return err
	}
}

// wrapError creates a new error that wraps the original with a public sentinel.
// The resulting error preserves the original message via Error() and supports
// errors.Is() matching against the public sentinel via Unwrap().
func wrapError(sentinel, original error) error {
	return &wrappedAssetError{sentinel: sentinel, original: original}
}

type wrappedAssetError struct {
	sentinel error
	original error
}

func (e *wrappedAssetError) Error() string {
	return e.original.Error()
}

// Unwrap returns the public sentinel for errors.Is() matching.
// Internal errors are not exposed since they're in internal/ packages.
func (e *wrappedAssetError) Unwrap() error {
	return e.sentinel
}
