package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-md2docx/internal/fileutil"
	"github.com/alnah/go-md2docx/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppDir is the directory searched under the user config directory.
const AppDir = "go-md2docx"

// Field length limits for multi-tenant safety.
const (
	MaxPathLength     = 4096 // PATH_MAX on Linux
	MaxURLLength      = 2048 // Browser limit
	MaxPageSizeLength = 10   // "book", "a4"
	MaxThemeLength    = 100  // Theme name or path to a theme file
	MaxTimeoutLength  = 20   // "90s", "2m30s"
	MaxLabelLength    = 50   // Figure caption label
	MaxTOCTitleLength = 100  // TOC title
)

// Page dimension bounds in centimeters.
const (
	MinPageCm = 10.0 // keeps room inside the one-inch margins
	MaxPageCm = 100.0
)

// MaxWorkers bounds the worker count accepted from a config file. It
// matches the converter pool cap.
const MaxWorkers = 8

// Config holds all configuration for batch conversion.
type Config struct {
	Input    InputConfig    `yaml:"input"`
	Output   OutputConfig   `yaml:"output"`
	Page     PageConfig     `yaml:"page"`
	Code     CodeConfig     `yaml:"code"`
	Images   ImagesConfig   `yaml:"images"`
	Diagrams DiagramsConfig `yaml:"diagrams"`
	Text     TextConfig     `yaml:"text"`
	TOC      TOCConfig      `yaml:"toc"`
	Theme    string         `yaml:"theme"` // Theme name or path (empty = default)
	Assets   AssetsConfig   `yaml:"assets"`
	Timeout  string         `yaml:"timeout"` // Go duration, e.g. "45s" (empty = library default)
	Workers  int            `yaml:"workers"` // 0 = auto
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
}

// PageConfig defines the physical page. Size names a preset; Width and
// Height, when both set, take precedence over it.
type PageConfig struct {
	Size   string  `yaml:"size"`   // "book", "a4", "a5", "b5" (default: "book")
	Width  float64 `yaml:"width"`  // cm
	Height float64 `yaml:"height"` // cm
}

// CodeConfig defines code block options.
type CodeConfig struct {
	LineNumbers *bool `yaml:"lineNumbers"` // nil = shown unless the fence says otherwise
}

// ImagesConfig defines the image registry source.
type ImagesConfig struct {
	Dir         string  `yaml:"dir"`         // Directory registered by file name
	FigureLabel string  `yaml:"figureLabel"` // Caption prefix (default: "Figure")
	MaxWidthCm  float64 `yaml:"maxWidthCm"`  // 0 = engine default
	MaxHeightCm float64 `yaml:"maxHeightCm"` // 0 = engine default
}

// DiagramsConfig defines Mermaid rendering options.
type DiagramsConfig struct {
	Enabled *bool  `yaml:"enabled"` // nil = enabled
	Script  string `yaml:"script"`  // Mermaid script URL (empty = CDN default)
}

// TextConfig defines prose cleanup options.
type TextConfig struct {
	CleanCJK bool `yaml:"cleanCJK"`
}

// TOCConfig defines table of contents options.
type TOCConfig struct {
	Title string `yaml:"title"` // Empty = "Contents"
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// DiagramsEnabled reports whether Mermaid blocks should be rendered.
func (c *Config) DiagramsEnabled() bool {
	return c.Diagrams.Enabled == nil || *c.Diagrams.Enabled
}

// TimeoutDuration returns the parsed timeout, or zero when unset.
// Call Validate first; an unparsable value also yields zero.
func (c *Config) TimeoutDuration() time.Duration {
	if c.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// Validate checks field lengths and value ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually (e.g., API adapters, library users).
func (c *Config) Validate() error {
	for _, f := range []struct {
		name  string
		value string
		max   int
	}{
		{"input.defaultDir", c.Input.DefaultDir, MaxPathLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"page.size", c.Page.Size, MaxPageSizeLength},
		{"images.dir", c.Images.Dir, MaxPathLength},
		{"images.figureLabel", c.Images.FigureLabel, MaxLabelLength},
		{"diagrams.script", c.Diagrams.Script, MaxURLLength},
		{"toc.title", c.TOC.Title, MaxTOCTitleLength},
		{"theme", c.Theme, MaxThemeLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"timeout", c.Timeout, MaxTimeoutLength},
	} {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	// Validate page fields
	if (c.Page.Width == 0) != (c.Page.Height == 0) {
		return fmt.Errorf("%w: page.width and page.height must be set together", ErrInvalidValue)
	}
	if c.Page.Width != 0 {
		if err := validatePageDimension("page.width", c.Page.Width); err != nil {
			return err
		}
		if err := validatePageDimension("page.height", c.Page.Height); err != nil {
			return err
		}
	}

	// Validate image limits
	if c.Images.MaxWidthCm < 0 || c.Images.MaxHeightCm < 0 {
		return fmt.Errorf("%w: images.maxWidthCm and images.maxHeightCm must not be negative", ErrInvalidValue)
	}

	// Validate diagram script
	if c.Diagrams.Script != "" && !fileutil.IsURL(c.Diagrams.Script) {
		return fmt.Errorf("%w: diagrams.script: must be an http(s) URL, got %q", ErrInvalidValue, c.Diagrams.Script)
	}

	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return fmt.Errorf("%w: timeout: %v", ErrInvalidValue, err)
		}
		if d <= 0 {
			return fmt.Errorf("%w: timeout: must be positive, got %s", ErrInvalidValue, c.Timeout)
		}
	}

	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers: must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Workers)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

func validatePageDimension(fieldName string, cm float64) error {
	if cm < MinPageCm || cm > MaxPageCm {
		return fmt.Errorf("%w: %s: must be between %.0f and %.0f cm, got %.2f", ErrInvalidValue, fieldName, MinPageCm, MaxPageCm, cm)
	}
	return nil
}

// DefaultConfig returns a neutral configuration: book page, embedded
// assets, diagrams on.
func DefaultConfig() *Config {
	return &Config{
		Input:  InputConfig{DefaultDir: ""},
		Output: OutputConfig{DefaultDir: ""},
		Page:   PageConfig{Size: ""},
		Assets: AssetsConfig{BasePath: ""},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SearchPaths lists the files LoadConfig tries for a config name, in order:
// the current directory, then the user config directory, each with
// .yaml before .yml.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, AppDir, name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first of SearchPaths(name) that exists.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
