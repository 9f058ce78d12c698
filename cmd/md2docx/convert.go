package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	md2docx "github.com/alnah/go-md2docx"
	"github.com/alnah/go-md2docx/internal/config"
	"github.com/alnah/go-md2docx/internal/fileutil"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput        = errors.New("no input specified")
	ErrReadMarkdown   = errors.New("failed to read markdown file")
	ErrWriteDOCX      = errors.New("failed to write DOCX file")
	ErrReadImages     = errors.New("failed to read images directory")
	ErrInvalidTimeout = errors.New("invalid timeout")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// imageExtensions are the files an images directory contributes.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
	".tif":  true,
	".tiff": true,
}

// configNotFoundError keeps the searched locations for the hint.
type configNotFoundError struct {
	searched []string
	err      error
}

func (e *configNotFoundError) Error() string { return e.err.Error() }
func (e *configNotFoundError) Unwrap() error { return e.err }

// conversionParams groups parameters shared across batch/file conversion.
type conversionParams struct {
	page            *md2docx.PageSettings
	showLineNumbers *bool
	images          map[string][]byte
	cleanCJK        bool
	layout          md2docx.Layout
	diagrams        bool
	logger          zerolog.Logger
}

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, logger zerolog.Logger, env *Environment) error {
	// Validate worker count early
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}
	if len(positionalArgs) > 1 {
		return fmt.Errorf("%w: expected one input, got %d", ErrUsage, len(positionalArgs))
	}

	warnUnknownEnvVars(logger)
	envCfg := loadEnvConfig(logger)

	// Load configuration: --config wins over MD2DOCX_CONFIG
	configName := flags.common.config
	if configName == "" {
		configName = envCfg.ConfigPath
	}
	cfg, err := loadConfig(configName)
	if err != nil {
		return err
	}

	// Precedence: flags > env > file > defaults
	applyEnvConfig(envCfg, cfg)
	if err := mergeFlags(flags, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	inputPath, err := resolveInputPath(positionalArgs, cfg)
	if err != nil {
		return err
	}
	outputDir := resolveOutputDir(flags.output, cfg)

	files, err := discoverFiles(inputPath, outputDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no markdown files found in %s", ErrNoInput, inputPath)
	}

	page, err := buildPageSettings(cfg)
	if err != nil {
		return err
	}

	images, err := loadImageRegistry(cfg.Images.Dir, logger)
	if err != nil {
		return err
	}

	params := &conversionParams{
		page:            page,
		showLineNumbers: cfg.Code.LineNumbers,
		images:          images,
		cleanCJK:        cfg.Text.CleanCJK,
		layout: md2docx.Layout{
			FigureLabel:      cfg.Images.FigureLabel,
			TOCTitle:         cfg.TOC.Title,
			MaxImageWidthCm:  cfg.Images.MaxWidthCm,
			MaxImageHeightCm: cfg.Images.MaxHeightCm,
		},
		diagrams: cfg.DiagramsEnabled(),
		logger:   logger,
	}

	opts := append(converterOptions(cfg, logger), md2docx.WithClock(env.Now))
	pool := env.NewPool(md2docx.ResolvePoolSize(cfg.Workers), opts...)
	defer func() {
		if err := pool.Close(); err != nil {
			logger.Debug().Err(err).Msg("closing converter pool")
		}
	}()

	logger.Debug().
		Int("files", len(files)).
		Int("workers", pool.Size()).
		Str("theme", cfg.Theme).
		Msg("starting conversion")

	results := convertBatch(ctx, pool, files, params)

	failed, firstErr := printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env)
	if failed > 0 {
		return fmt.Errorf("%d conversion(s) failed: %w", failed, firstErr)
	}
	return nil
}

// loadConfig loads the named config, or the defaults when name is empty.
func loadConfig(name string) (*config.Config, error) {
	if name == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.LoadConfig(name)
	if err != nil {
		err = fmt.Errorf("loading config: %w", err)
		if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(name) {
			return nil, &configNotFoundError{searched: config.SearchPaths(name), err: err}
		}
		return nil, err
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) error {
	if flags.workers > 0 {
		cfg.Workers = flags.workers
	}
	if flags.timeout != "" {
		if _, err := parseTimeout(flags.timeout); err != nil {
			return err
		}
		cfg.Timeout = flags.timeout
	}

	// Page: a preset flag clears custom dimensions, dimension flags clear the preset
	if flags.page.size != "" {
		cfg.Page = config.PageConfig{Size: flags.page.size}
	}
	if flags.page.width != 0 || flags.page.height != 0 {
		cfg.Page = config.PageConfig{Width: flags.page.width, Height: flags.page.height}
	}

	// Content flags
	if flags.content.noLineNumbers {
		off := false
		cfg.Code.LineNumbers = &off
	}
	if flags.content.images != "" {
		cfg.Images.Dir = flags.content.images
	}
	if flags.content.figureLabel != "" {
		cfg.Images.FigureLabel = flags.content.figureLabel
	}
	if flags.content.tocTitle != "" {
		cfg.TOC.Title = flags.content.tocTitle
	}
	if flags.content.noDiagrams {
		off := false
		cfg.Diagrams.Enabled = &off
	}
	if flags.content.cleanCJK {
		cfg.Text.CleanCJK = true
	}

	// Asset flags
	if flags.assets.theme != "" {
		cfg.Theme = flags.assets.theme
	}
	if flags.assets.assetPath != "" {
		cfg.Assets.BasePath = flags.assets.assetPath
	}
	return nil
}

// parseTimeout parses a Go duration and requires it to be positive.
func parseTimeout(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q (use a duration like 30s or 2m)", ErrInvalidTimeout, s)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %q must be positive", ErrInvalidTimeout, s)
	}
	return d, nil
}

// converterOptions maps the resolved config to converter options.
func converterOptions(cfg *config.Config, logger zerolog.Logger) []md2docx.Option {
	opts := []md2docx.Option{md2docx.WithLogger(logger)}
	if cfg.Theme != "" {
		opts = append(opts, md2docx.WithTheme(cfg.Theme))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, md2docx.WithAssetPath(cfg.Assets.BasePath))
	}
	if d := cfg.TimeoutDuration(); d > 0 {
		opts = append(opts, md2docx.WithTimeout(d))
	}
	if !cfg.DiagramsEnabled() {
		opts = append(opts, md2docx.WithoutDiagrams())
	}
	if cfg.Diagrams.Script != "" {
		opts = append(opts, md2docx.WithMermaidScript(cfg.Diagrams.Script))
	}
	return opts
}

// resolveInputPath determines the input path from args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveOutputDir determines the output directory from flags or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// buildPageSettings creates page settings from config. Custom dimensions
// take precedence over the preset; an empty preset is the book size.
func buildPageSettings(cfg *config.Config) (*md2docx.PageSettings, error) {
	if cfg.Page.Width != 0 || cfg.Page.Height != 0 {
		page := &md2docx.PageSettings{WidthCm: cfg.Page.Width, HeightCm: cfg.Page.Height}
		if err := page.Validate(); err != nil {
			return nil, err
		}
		return page, nil
	}
	if cfg.Page.Size == "" {
		return md2docx.DefaultPageSettings(), nil
	}
	return md2docx.PageSettingsFor(cfg.Page.Size)
}

// loadImageRegistry reads the image files directly inside dir. Each file
// is registered under its name and, when free, its name without extension.
// An empty dir yields a nil registry.
func loadImageRegistry(dir string, logger zerolog.Logger) (map[string][]byte, error) {
	if dir == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadImages, err)
	}

	images := make(map[string][]byte)
	stems := make(map[string][]byte)
	for _, entry := range entries {
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if !entry.Type().IsRegular() || !imageExtensions[ext] {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name)) // #nosec G304 -- user-provided directory
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReadImages, err)
		}
		if len(data) == 0 {
			logger.Warn().Str("image", name).Msg("skipping empty image file")
			continue
		}

		images[name] = data
		if stem := strings.TrimSuffix(name, filepath.Ext(name)); stem != "" {
			if _, taken := stems[stem]; !taken {
				stems[stem] = data
			}
		}
	}
	for stem, data := range stems {
		if _, taken := images[stem]; !taken {
			images[stem] = data
		}
	}

	logger.Debug().Str("dir", dir).Int("images", len(images)).Msg("loaded image registry")
	return images, nil
}
