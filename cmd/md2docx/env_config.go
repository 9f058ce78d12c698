package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/alnah/go-md2docx/internal/config"
)

// envPrefix marks the environment variables the CLI reads.
const envPrefix = "MD2DOCX_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // MD2DOCX_CONFIG: config file name or path
	Theme      string // MD2DOCX_THEME: theme name or path
	Timeout    string // MD2DOCX_TIMEOUT: per-document timeout
	InputDir   string // MD2DOCX_INPUT_DIR: default input directory
	OutputDir  string // MD2DOCX_OUTPUT_DIR: default output directory
	Page       string // MD2DOCX_PAGE: book, a4, a5, b5
	ImagesDir  string // MD2DOCX_IMAGES_DIR: image registry directory
	AssetPath  string // MD2DOCX_ASSET_PATH: custom asset directory
	Workers    int    // MD2DOCX_WORKERS: parallel workers
}

// knownEnvVars lists valid MD2DOCX_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MD2DOCX_CONFIG":     true,
	"MD2DOCX_THEME":      true,
	"MD2DOCX_TIMEOUT":    true,
	"MD2DOCX_INPUT_DIR":  true,
	"MD2DOCX_OUTPUT_DIR": true,
	"MD2DOCX_PAGE":       true,
	"MD2DOCX_IMAGES_DIR": true,
	"MD2DOCX_ASSET_PATH": true,
	"MD2DOCX_WORKERS":    true,
}

// loadEnvConfig reads configuration from environment variables.
// Returns a struct with all recognized MD2DOCX_* values. Malformed
// numbers are logged and ignored.
func loadEnvConfig(logger zerolog.Logger) *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("MD2DOCX_CONFIG"),
		Theme:      os.Getenv("MD2DOCX_THEME"),
		Timeout:    os.Getenv("MD2DOCX_TIMEOUT"),
		InputDir:   os.Getenv("MD2DOCX_INPUT_DIR"),
		OutputDir:  os.Getenv("MD2DOCX_OUTPUT_DIR"),
		Page:       os.Getenv("MD2DOCX_PAGE"),
		ImagesDir:  os.Getenv("MD2DOCX_IMAGES_DIR"),
		AssetPath:  os.Getenv("MD2DOCX_ASSET_PATH"),
	}

	if workers := os.Getenv("MD2DOCX_WORKERS"); workers != "" {
		w, err := strconv.Atoi(workers)
		if err != nil || w < 0 {
			logger.Warn().Str("value", workers).Msg("ignoring MD2DOCX_WORKERS, not a non-negative integer")
		} else {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized MD2DOCX_* variables.
// Helps catch typos like MD2DOCX_THEMES instead of MD2DOCX_THEME.
func warnUnknownEnvVars(logger zerolog.Logger) {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			logger.Warn().Str("variable", name).Msg("unknown environment variable (typo?)")
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Theme != "" {
		cfg.Theme = env.Theme
	}
	if env.Timeout != "" {
		cfg.Timeout = env.Timeout
	}

	// I/O
	if env.InputDir != "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.ImagesDir != "" {
		cfg.Images.Dir = env.ImagesDir
	}
	if env.AssetPath != "" {
		cfg.Assets.BasePath = env.AssetPath
	}

	// Page preset replaces custom dimensions from the file
	if env.Page != "" {
		cfg.Page = config.PageConfig{Size: env.Page}
	}

	if env.Workers > 0 {
		cfg.Workers = env.Workers
	}
}
