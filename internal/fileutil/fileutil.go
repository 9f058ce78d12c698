// Package fileutil holds the small file and path helpers shared by the
// converter and the CLI.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
)

// TempPrefix names the temporary browser host pages.
const TempPrefix = "md2docx-"

// MarkdownExtensions are the input extensions picked up from directories.
var MarkdownExtensions = []string{".md", ".markdown"}

// WriteTempFile creates a temporary file with the given content and extension.
// Returns the file path and a cleanup function to remove the file.
func WriteTempFile(content, extension string) (path string, cleanup func(), err error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}

	tmpFile, err := os.CreateTemp("", TempPrefix+"*."+extension)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}

	path = tmpFile.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, writeErr := tmpFile.WriteString(content); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", writeErr)
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", closeErr)
	}

	return path, cleanup, nil
}

// ValidateExtension checks that the extension is safe for use in temp file names.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath reports whether s looks like a path rather than an asset
// name: "print" is a name, "./print.yaml" and "themes/x" are paths.
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsURL returns true if the string looks like a URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// IsMarkdown reports whether path has a Markdown extension, ignoring case.
func IsMarkdown(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range MarkdownExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ReplaceExtension swaps the extension of path for ext (".docx").
func ReplaceExtension(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
