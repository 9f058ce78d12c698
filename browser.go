package md2docx

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/google/uuid"

	"github.com/alnah/go-md2docx/internal/assets"
	"github.com/alnah/go-md2docx/internal/diagram"
	"github.com/alnah/go-md2docx/internal/fileutil"
	"github.com/alnah/go-md2docx/internal/process"
)

// DefaultMermaidScript is the Mermaid build loaded by the diagram host page.
const DefaultMermaidScript = "https://cdn.jsdelivr.net/npm/mermaid@10/dist/mermaid.min.js"

// Compile-time interface checks.
var (
	_ diagram.Renderer   = (*rodBrowser)(nil)
	_ diagram.Rasterizer = (*rodBrowser)(nil)
)

// hostPages are the HTML documents the browser loads: one runs Mermaid,
// the other mounts an SVG for an element screenshot.
type hostPages struct {
	mermaid string
	svg     string
}

// loadHostPages reads both templates through loader and fills in the
// Mermaid script URL.
func loadHostPages(loader assets.AssetLoader, scriptURL string) (hostPages, error) {
	mermaidSrc, err := loader.LoadTemplate(assets.MermaidTemplate)
	if err != nil {
		return hostPages{}, fmt.Errorf("loading %s template: %w", assets.MermaidTemplate, err)
	}
	svg, err := loader.LoadTemplate(assets.SVGTemplate)
	if err != nil {
		return hostPages{}, fmt.Errorf("loading %s template: %w", assets.SVGTemplate, err)
	}

	tmpl, err := template.New(assets.MermaidTemplate).Parse(mermaidSrc)
	if err != nil {
		return hostPages{}, fmt.Errorf("parsing %s template: %w", assets.MermaidTemplate, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ ScriptURL string }{scriptURL}); err != nil {
		return hostPages{}, fmt.Errorf("executing %s template: %w", assets.MermaidTemplate, err)
	}
	return hostPages{mermaid: buf.String(), svg: svg}, nil
}

// rodBrowser renders Mermaid source to SVG and rasterizes SVG in headless
// Chrome. Rod downloads Chromium on first run if none is found. The browser
// is started on first use, so converters that never meet a diagram never
// launch it.
type rodBrowser struct {
	pages   hostPages
	timeout time.Duration

	mu      sync.Mutex
	browser *rod.Browser
	group   *process.Group
}

func newRodBrowser(pages hostPages, timeout time.Duration) *rodBrowser {
	return &rodBrowser{pages: pages, timeout: timeout}
}

// ensureBrowser lazily launches and connects to the browser.
func (b *rodBrowser) ensureBrowser() (*rod.Browser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser != nil {
		return b.browser, nil
	}

	l := launcher.New().Headless(true)

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" || os.Getenv("ROD_NO_SANDBOX") == "1" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	group := process.NewGroup(l.PID(), func() {
		l.Kill()
		l.Cleanup()
	})

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		group.Stop()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	b.browser = browser
	b.group = group
	return browser, nil
}

// open loads html from a temporary file and returns the page bound to
// ctx, or to the browser timeout when ctx has no deadline.
func (b *rodBrowser) open(ctx context.Context, html string) (*rod.Page, func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	browser, err := b.ensureBrowser()
	if err != nil {
		return nil, nil, err
	}

	path, cleanup, err := fileutil.WriteTempFile(html, "html")
	if err != nil {
		return nil, nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "file://" + path})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	done := func() {
		_ = page.Close()
		cleanup()
	}

	scoped := page.Context(ctx)
	if _, ok := ctx.Deadline(); !ok {
		scoped = scoped.Timeout(b.timeout)
	}
	if err := scoped.WaitLoad(); err != nil {
		done()
		return nil, nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	return scoped, done, nil
}

// Render runs Mermaid on source and returns the SVG markup.
func (b *rodBrowser) Render(ctx context.Context, source string) (string, error) {
	page, done, err := b.open(ctx, b.pages.mermaid)
	if err != nil {
		return "", err
	}
	defer done()

	res, err := page.Eval(`(id, source) => window.renderDiagram(id, source)`, diagramID(), source)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDiagramRender, err)
	}
	svg := res.Value.Str()
	if strings.TrimSpace(svg) == "" {
		return "", fmt.Errorf("%w: empty svg", ErrDiagramRender)
	}
	return svg, nil
}

// Rasterize mounts svg and screenshots it as PNG at scale device pixels
// per CSS pixel.
func (b *rodBrowser) Rasterize(ctx context.Context, svg string, scale float64) ([]byte, error) {
	page, done, err := b.open(ctx, b.pages.svg)
	if err != nil {
		return nil, err
	}
	defer done()

	res, err := page.Eval(`(markup) => window.mountSVG(markup)`, svg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRasterize, err)
	}
	w, h, err := parseSize(res.Value.Str())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRasterize, err)
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             w,
		Height:            h,
		DeviceScaleFactor: scale,
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRasterize, err)
	}

	el, err := page.Element("#canvas")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRasterize, err)
	}
	data, err := el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRasterize, err)
	}
	return data, nil
}

// Close releases browser resources, killing the whole process tree.
func (b *rodBrowser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var err error
	if b.browser != nil {
		err = b.browser.Close()
		b.browser = nil
	}
	b.group.Stop()
	b.group = nil
	return err
}

// diagramID returns an element id for one Mermaid render. Ids must start
// with a letter.
func diagramID() string {
	return "mermaid-" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// parseSize reads the "WxH" string returned by the mount script.
func parseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.TrimSpace(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("malformed size %q", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed width %q", ws)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed height %q", hs)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("svg has no size %dx%d", w, h)
	}
	return w, h, nil
}
