// Package assets provides document themes and browser host pages.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in themes)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// EmbeddedLoader provides the built-in themes (default, print) and the
// HTML pages the headless browser uses to render and rasterize diagrams.
//
// FilesystemLoader allows users to provide custom assets from a directory,
// with path traversal protection and symlink resolution.
//
// AssetResolver is the loader used by the converter. It tries the custom
// FilesystemLoader first, falling back to EmbeddedLoader if the asset is
// not found. This enables overriding a single theme while keeping the rest.
//
// # Directory Structure
//
//	{basePath}/
//	├── themes/
//	│   └── {name}.yaml          # fonts, colours, sizes
//	└── templates/
//	    └── {name}.html          # browser host page (mermaid, svg)
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
