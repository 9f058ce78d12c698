package render

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/alnah/go-md2docx/internal/block"
	"github.com/alnah/go-md2docx/internal/docx"
	"github.com/alnah/go-md2docx/internal/imaging"
)

// Diagram error marker text.
const (
	DiagramErrorText = "[Mermaid Chart Error]"
	DiagramErrorHint = " (Syntax might be invalid)"
)

func buildImage(_ context.Context, env *Env, b block.Block) []docx.Node {
	src := b.Meta.Source
	alt := b.Meta.Alt

	var data []byte
	switch {
	case imaging.IsDataURL(src):
		decoded, err := imaging.DecodeDataURL(src)
		if err != nil {
			env.warn(b, err, "image data URL rejected, dropped")
			return nil
		}
		data = decoded
	default:
		registered, ok := env.Config.Images[src]
		if !ok {
			env.warn(b, nil, "image not in registry, placeholder emitted")
			return []docx.Node{imagePlaceholder(env, alt, src)}
		}
		data = registered
	}

	img, err := imaging.Prepare(data)
	if err != nil {
		env.warn(b, err, "image cannot be decoded, dropped")
		return nil
	}

	maxHeight := env.Config.MaxImageHeightCm
	if strings.Contains(alt, FullPageToken) {
		maxHeight = min(maxHeight, FullPageImageHeightCm)
		alt = strings.TrimSpace(strings.Replace(alt, FullPageToken, "", 1))
	}
	w, h := imaging.Fit(
		float64(img.Width), float64(img.Height),
		env.Config.MaxImageWidthCm*docx.PixelsPerCm, maxHeight*docx.PixelsPerCm,
	)

	figure := env.State.NextFigure()
	pic := &docx.Paragraph{
		Align:    docx.AlignCenter,
		KeepNext: true,
		Spacing:  &docx.Spacing{Before: 200, After: 100},
	}
	pic.Add(&docx.Image{
		Data:        img.Data,
		Format:      imageFormat(img.Format),
		Width:       pixelsToEMU(w),
		Height:      pixelsToEMU(h),
		Name:        fmt.Sprintf("Figure %d", figure),
		Description: alt,
	})

	caption := &docx.Paragraph{
		Style:   "Caption",
		Align:   docx.AlignCenter,
		Spacing: &docx.Spacing{Before: 0, After: 200},
	}
	text := fmt.Sprintf("%s %d", env.Config.FigureLabel, figure)
	if alt != "" {
		text += ": " + alt
	}
	caption.Add(plain(text, docx.Run{Bold: true, Size: env.Theme.Sizes.Caption}))
	return []docx.Node{pic, caption}
}

func imagePlaceholder(env *Env, alt, src string) *docx.Paragraph {
	label := alt
	if label == "" {
		label = src
	}
	p := &docx.Paragraph{Spacing: &docx.Spacing{Before: 200, After: 200}}
	p.Add(&docx.Run{Text: "[Image: " + label + "]", Italic: true, Color: env.Theme.Colors.Muted})
	return p
}

func buildDiagram(ctx context.Context, env *Env, b block.Block) []docx.Node {
	res, err := env.Diagrams.Run(ctx, b.Content)
	if err != nil {
		env.warn(b, err, "diagram not rendered, error marker emitted")
		return []docx.Node{diagramMarker(env)}
	}

	p := &docx.Paragraph{
		Align:   docx.AlignCenter,
		Spacing: &docx.Spacing{Before: 200, After: 200},
	}
	p.Add(&docx.Image{
		Data:   res.Data,
		Format: docx.FormatPNG,
		Width:  docx.PixelsToEMU(res.Width),
		Height: docx.PixelsToEMU(res.Height),
		Name:   fmt.Sprintf("Diagram %d", env.Index+1),
	})
	return []docx.Node{p}
}

func diagramMarker(env *Env) *docx.Paragraph {
	t := env.Theme
	p := &docx.Paragraph{
		Align:   docx.AlignCenter,
		Spacing: &docx.Spacing{Before: 200, After: 200},
	}
	p.Add(
		&docx.Run{Text: DiagramErrorText, Bold: true, Color: t.Colors.Error},
		&docx.Run{Text: DiagramErrorHint, Italic: true, Size: t.Sizes.Note, Color: t.Colors.Muted},
	)
	return p
}

func imageFormat(format string) docx.ImageFormat {
	switch format {
	case imaging.FormatJPEG:
		return docx.FormatJPEG
	case imaging.FormatGIF:
		return docx.FormatGIF
	case imaging.FormatBMP:
		return docx.FormatBMP
	}
	return docx.FormatPNG
}

// pixelsToEMU converts a fractional 96 dpi pixel length to EMU.
func pixelsToEMU(px float64) int64 {
	return int64(math.Round(px * docx.EMUPerPixel))
}
