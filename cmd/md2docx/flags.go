package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// errHelp reports that --help was handled and usage already printed.
var errHelp = errors.New("help requested")

// ErrUsage wraps flag parsing failures.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size   string
	width  float64
	height float64
}

// contentFlags holds flags that change how blocks render.
type contentFlags struct {
	noLineNumbers bool
	images        string
	figureLabel   string
	tocTitle      string
	noDiagrams    bool
	cleanCJK      bool
}

// assetFlags holds theme and asset directory flags.
type assetFlags struct {
	theme     string // Name or path of a YAML theme
	assetPath string // Override asset directory
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common  commonFlags
	output  string
	workers int
	timeout string
	page    pageFlags
	content contentFlags
	assets  assetFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing and debug logs")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page", "p", "", "page preset: book, a4, a5, b5")
	fs.Float64Var(&f.width, "width", 0, "page width in cm (10-100, with --height)")
	fs.Float64Var(&f.height, "height", 0, "page height in cm (10-100, with --width)")
}

// addContentFlags adds rendering flags to a FlagSet.
func addContentFlags(fs *flag.FlagSet, f *contentFlags) {
	fs.BoolVar(&f.noLineNumbers, "no-line-numbers", false, "hide code line numbers unless a fence asks for them")
	fs.StringVar(&f.images, "images", "", "directory of images referenced by file name")
	fs.StringVar(&f.figureLabel, "figure-label", "", "caption prefix (default \"Figure\")")
	fs.StringVar(&f.tocTitle, "toc-title", "", "table of contents heading (default \"Contents\")")
	fs.BoolVar(&f.noDiagrams, "no-diagrams", false, "do not launch Chrome; Mermaid blocks become markers")
	fs.BoolVar(&f.cleanCJK, "clean-cjk", false, "tidy spacing and punctuation in CJK prose")
}

// addAssetFlags adds asset-related flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.theme, "theme", "", "theme name or YAML file path")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
}

// parseConvertFlags parses convert command flags and returns positional args.
// Usage goes to stderr on error and when --help is given.
func parseConvertFlags(args []string, stderr io.Writer) (*convertFlags, []string, error) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := &convertFlags{}

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-document timeout (e.g., 30s, 2m)")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addPageFlags(fs, &f.page)
	addContentFlags(fs, &f.content)
	addAssetFlags(fs, &f.assets)

	if err := fs.Parse(args); err != nil {
		printConvertUsage(stderr)
		if errors.Is(err, flag.ErrHelp) {
			return nil, nil, errHelp
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	return f, fs.Args(), nil
}
