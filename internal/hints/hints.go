// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-md2docx/internal/fileutil"
)

// ConfigDir is the per-user configuration directory, relative to home.
const ConfigDir = ".config/go-md2docx"

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser connection errors, which
// only diagrams trigger.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}
	hints = append(hints, "use --no-diagrams to skip Mermaid rendering")

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for documents with many diagrams, use --timeout flag")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config and creating a config in ~/.config/go-md2docx/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(filepathSlash(p), ConfigDir) {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForThemeNotFound lists the themes that do exist.
func ForThemeNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForImagesDirectory explains how image references are resolved.
func ForImagesDirectory() string {
	return format("use --images DIR; files are matched by name with or without extension")
}

func filepathSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
