package assets

// Built-in asset names.
const (
	DefaultThemeName   = "default"
	MermaidTemplate    = "mermaid"
	SVGTemplate        = "svg"
	themeExtension     = ".yaml"
	templateExtension  = ".html"
	themesDirectory    = "themes"
	templatesDirectory = "templates"
)

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadTheme loads a theme file by name using the default embedded loader.
// The name should not include the .yaml extension or path components.
// Returns ErrThemeNotFound if the theme does not exist.
// Returns ErrInvalidAssetName if the name contains path separators or traversal.
func LoadTheme(name string) ([]byte, error) {
	return defaultLoader.LoadTheme(name)
}

// LoadTemplate loads an HTML page by name using the default embedded loader.
func LoadTemplate(name string) (string, error) {
	return defaultLoader.LoadTemplate(name)
}
