package assets

// AssetLoader defines the contract for loading themes and HTML pages.
type AssetLoader interface {
	// LoadTheme loads a YAML theme by name (without .yaml extension).
	// Returns ErrThemeNotFound if the theme doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadTheme(name string) ([]byte, error)

	// LoadTemplate loads an HTML page by name (without .html extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadTemplate(name string) (string, error)
}
