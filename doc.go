// Package md2docx converts Markdown documents to Word (.docx) files.
//
// # Quick Start
//
// Create a converter, convert markdown, and close when done:
//
//	conv, err := md2docx.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, md2docx.Input{
//	    Markdown: "# Hello\n\nWorld",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("output.docx", result.DOCX, 0644)
//
// The result carries the document bytes (result.DOCX) together with the
// parsed blocks and front matter for inspection.
//
// # Conversion Pipeline
//
// The conversion process follows these stages:
//
//  1. Front matter extraction (YAML between --- fences)
//  2. Block tokenization (headings, code, tables, callouts, chats, lists)
//  3. Inline styling (bold, italic, code, links, footnote markers)
//  4. Document assembly, one builder per block kind
//  5. Packaging as an Office Open XML container
//
// Parse and Generate expose stages 1-3 and 4-5 separately.
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv, err := md2docx.NewConverter(
//	    md2docx.WithTimeout(2 * time.Minute),
//	    md2docx.WithTheme("print"),
//	    md2docx.WithAssetPath("/path/to/custom/assets"),
//	)
//
// Per-conversion options are passed via Input:
//
//	result, err := conv.Convert(ctx, md2docx.Input{
//	    Markdown: content,
//	    Page:     &md2docx.PageSettings{WidthCm: 21, HeightCm: 29.7},
//	    Images:   map[string][]byte{"cover.png": data},
//	})
//
// # Diagrams
//
// Fenced ```mermaid blocks are rendered to PNG in headless Chrome, which
// is launched on the first diagram. A diagram that cannot be rendered
// becomes a visible error marker; the rest of the document is unaffected.
// Supply WithDiagramRenderer and WithRasterizer to render elsewhere, or
// WithoutDiagrams to never launch a browser.
//
// # Parallel Processing
//
// For batch conversion, use ConverterPool to manage multiple converters:
//
//	pool := md2docx.NewConverterPool(md2docx.ResolvePoolSize(0))
//	defer pool.Close()
//
//	conv, err := pool.Acquire()
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(conv)
//
// # Error Handling
//
// Errors can be checked with errors.Is:
//
//	if errors.Is(err, md2docx.ErrEmptyMarkdown) {
//	    // handle empty input
//	}
//
// Available sentinel errors: ErrEmptyMarkdown, ErrInvalidPageSize,
// ErrInvalidImageRegistry, ErrSerialization, ErrBrowserConnect,
// ErrThemeNotFound, ErrInvalidTheme, ErrInvalidAssetPath.
package md2docx
