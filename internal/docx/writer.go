package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"time"
)

// Sentinel errors for serialization.
var (
	ErrNilDocument       = errors.New("nil document")
	ErrEmptyImage        = errors.New("image has no data")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrInvalidPage       = errors.New("page size must be positive")
)

// Write serializes d as a .docx container to w.
func (d *Document) Write(w io.Writer) error {
	if d == nil {
		return ErrNilDocument
	}
	if d.Page.Width <= 0 || d.Page.Height <= 0 {
		return ErrInvalidPage
	}
	if err := d.validateImages(); err != nil {
		return err
	}

	enc := &encoder{}
	doc := enc.document(d)

	zw := zip.NewWriter(w)
	parts := []struct {
		name string
		v    any
	}{
		{partContentTypes, contentTypes(enc.media)},
		{partRootRels, rootRels()},
		{partDocument, doc},
		{partDocumentRels, documentRels(enc.media)},
		{partStyles, styles(d)},
		{partNumbering, numbering(d.lists)},
		{partSettings, settings(d)},
		{partCore, coreProperties(d.Core)},
	}
	for _, p := range parts {
		if err := writeXMLPart(zw, p.name, p.v); err != nil {
			return err
		}
	}
	for _, m := range enc.media {
		if err := writePart(zw, mediaDir+m.Name, m.Data); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing archive: %w", err)
	}
	return nil
}

// Bytes returns the serialized container.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (d *Document) validateImages() error {
	check := func(img *Image) error {
		if len(img.Data) == 0 {
			return ErrEmptyImage
		}
		switch img.Format {
		case FormatPNG, FormatJPEG, FormatGIF, FormatBMP:
			return nil
		default:
			return fmt.Errorf("%w: %q", ErrUnsupportedFormat, img.Format)
		}
	}
	checkParagraph := func(p *Paragraph) error {
		for _, c := range p.Children {
			if img, ok := c.(*Image); ok {
				if err := check(img); err != nil {
					return err
				}
			}
		}
		return nil
	}

	for _, n := range d.body {
		switch n := n.(type) {
		case *Paragraph:
			if err := checkParagraph(n); err != nil {
				return err
			}
		case *Table:
			for _, r := range n.Rows {
				for _, c := range r.Cells {
					for _, p := range c.Paragraphs {
						if err := checkParagraph(p); err != nil {
							return err
						}
					}
				}
			}
		}
	}
	return nil
}

// fixedModTime keeps archives byte-identical across runs.
var fixedModTime = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)

func writeXMLPart(zw *zip.Writer, name string, v any) error {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if err := xml.NewEncoder(&buf).Encode(v); err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	return writePart(zw, name, buf.Bytes())
}

func writePart(zw *zip.Writer, name string, data []byte) error {
	fw, err := zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: fixedModTime,
	})
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	if _, err := fw.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}
