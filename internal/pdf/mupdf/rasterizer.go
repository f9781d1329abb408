// Package mupdf renders PDF pages to PNG with MuPDF through go-fitz.
package mupdf

import (
	"bytes"
	"context"
	"fmt"
	"image/png"

	fitz "github.com/gen2brain/go-fitz"
)

// DefaultDPI is the render resolution used for OCR.
const DefaultDPI = 300

// Rasterizer implements pdf.Rasterizer.
type Rasterizer struct {
	dpi float64
}

// New returns a rasterizer rendering at dpi, or DefaultDPI when dpi <= 0.
func New(dpi int) *Rasterizer {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Rasterizer{dpi: float64(dpi)}
}

// Rasterize renders pages one at a time so only a single page image is held in memory.
func (r *Rasterizer) Rasterize(ctx context.Context, path string, visit func(page int, png []byte) error) error {
	doc, err := fitz.New(path)
	if err != nil {
		return fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	for i := 0; i < doc.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		img, err := doc.ImageDPI(i, r.dpi)
		if err != nil {
			return fmt.Errorf("render page %d: %w", i+1, err)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return fmt.Errorf("encode page %d: %w", i+1, err)
		}
		if err := visit(i+1, buf.Bytes()); err != nil {
			return err
		}
	}
	return nil
}
