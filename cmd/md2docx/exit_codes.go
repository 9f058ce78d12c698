package main

import (
	"context"
	"errors"
	"os"

	md2docx "github.com/alnah/go-md2docx"
	"github.com/alnah/go-md2docx/internal/config"
	"github.com/alnah/go-md2docx/internal/hints"
)

// Exit codes for md2docx CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, md2docx.ErrBrowserConnect) ||
		errors.Is(err, md2docx.ErrPageCreate) ||
		errors.Is(err, md2docx.ErrPageLoad) {
		return ExitBrowser
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, md2docx.ErrEmptyMarkdown) ||
		errors.Is(err, md2docx.ErrInvalidPageSize) ||
		errors.Is(err, md2docx.ErrInvalidImageRegistry) ||
		errors.Is(err, md2docx.ErrThemeNotFound) ||
		errors.Is(err, md2docx.ErrInvalidTheme) ||
		errors.Is(err, md2docx.ErrInvalidAssetPath) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrWriteDOCX) ||
		errors.Is(err, ErrReadImages) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	return ExitGeneral
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	var notFound *configNotFoundError
	switch {
	case errors.Is(err, md2docx.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.As(err, &notFound):
		return hints.ForConfigNotFound(notFound.searched)
	case errors.Is(err, md2docx.ErrThemeNotFound):
		return hints.ForThemeNotFound(md2docx.Themes())
	case errors.Is(err, ErrReadImages):
		return hints.ForImagesDirectory()
	case errors.Is(err, ErrWriteDOCX):
		return hints.ForOutputDirectory()
	}
	return ""
}
