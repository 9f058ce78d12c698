package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemLoader loads assets from a directory on the filesystem.
// Implements AssetLoader interface.
type FilesystemLoader struct {
	basePath string
}

// NewFilesystemLoader creates a FilesystemLoader for the given base path.
// Returns ErrInvalidBasePath if the path is not a valid, readable directory.
func NewFilesystemLoader(basePath string) (*FilesystemLoader, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}

	// Containment checks compare resolved paths.
	if realPath, err := filepath.EvalSymlinks(absPath); err == nil {
		absPath = realPath
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, absPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, absPath)
	}
	if _, err := os.ReadDir(absPath); err != nil {
		return nil, fmt.Errorf("%w: cannot read directory: %v", ErrInvalidBasePath, err)
	}

	return &FilesystemLoader{basePath: absPath}, nil
}

// LoadTheme loads a theme from {basePath}/themes/{name}.yaml.
func (f *FilesystemLoader) LoadTheme(name string) ([]byte, error) {
	content, err := f.read(themesDirectory, name, themeExtension)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %q", ErrThemeNotFound, name)
		}
		return nil, err
	}
	return content, nil
}

// LoadTemplate loads a page from {basePath}/templates/{name}.html.
func (f *FilesystemLoader) LoadTemplate(name string) (string, error) {
	content, err := f.read(templatesDirectory, name, templateExtension)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
		}
		return "", err
	}
	return string(content), nil
}

// read returns the raw content of {basePath}/{dir}/{name}{ext}. Missing
// files are reported with an error satisfying os.IsNotExist.
func (f *FilesystemLoader) read(dir, name, ext string) ([]byte, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}

	filePath := filepath.Join(f.basePath, dir, name+ext)
	if err := f.verifyPathContainment(filePath); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(filePath) // #nosec G304 -- path validated above
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return content, nil
}

// verifyPathContainment ensures the resolved file path is within basePath,
// following symlinks so a link cannot point outside it.
func (f *FilesystemLoader) verifyPathContainment(filePath string) error {
	absFilePath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve path", ErrPathTraversal)
	}

	// A missing file keeps its unresolved path; opening it fails later.
	if realPath, err := filepath.EvalSymlinks(absFilePath); err == nil {
		absFilePath = realPath
	}

	// The separator suffix rejects sibling prefixes like /base/pathevil.
	if !strings.HasPrefix(absFilePath, f.basePath+string(filepath.Separator)) {
		return fmt.Errorf("%w: path escapes base directory", ErrPathTraversal)
	}

	return nil
}

// Compile-time interface check.
var _ AssetLoader = (*FilesystemLoader)(nil)
