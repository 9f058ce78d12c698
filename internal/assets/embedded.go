package assets

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed themes/*
var themes embed.FS

//go:embed templates/*
var templates embed.FS

// EmbeddedLoader loads assets from embedded filesystem.
// Implements AssetLoader interface.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadTheme loads a YAML theme from embedded assets by name.
// The name should not include the .yaml extension.
func (e *EmbeddedLoader) LoadTheme(name string) ([]byte, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}

	content, err := themes.ReadFile(themesDirectory + "/" + name + themeExtension)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrThemeNotFound, name)
	}

	return content, nil
}

// LoadTemplate loads an HTML page from embedded assets by name.
// The name should not include the .html extension.
func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := templates.ReadFile(templatesDirectory + "/" + name + templateExtension)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}

	return string(content), nil
}

// Themes lists the embedded theme names.
func (e *EmbeddedLoader) Themes() []string {
	entries, err := themes.ReadDir(themesDirectory)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if name, ok := strings.CutSuffix(entry.Name(), themeExtension); ok && name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Compile-time interface check.
var _ AssetLoader = (*EmbeddedLoader)(nil)
