package pdf

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"medlens/pkg/models"
)

// TextLayerReader returns the embedded text of every page, in page order.
// Pages without content yield "".
type TextLayerReader interface {
	ReadPages(path string) ([]string, error)
}

// TextLayerStrategy is the first tier: text already embedded in the PDF.
type TextLayerStrategy struct {
	reader TextLayerReader
}

// NewTextLayerStrategy uses reader, or the ledongthuc/pdf reader when nil.
func NewTextLayerStrategy(reader TextLayerReader) *TextLayerStrategy {
	if reader == nil {
		reader = LedongthucReader{}
	}
	return &TextLayerStrategy{reader: reader}
}

func (s *TextLayerStrategy) Tier() models.Tier { return models.TierTextLayer }

// Extract concatenates every page's text, each followed by a newline.
// Any page read error fails the whole tier.
func (s *TextLayerStrategy) Extract(ctx context.Context, path string) TierResult {
	if err := ctx.Err(); err != nil {
		return failure(models.TierTextLayer, err)
	}

	texts, err := s.reader.ReadPages(path)
	if err != nil {
		return failure(models.TierTextLayer, err)
	}

	pages := make([]models.Page, 0, len(texts))
	var b strings.Builder
	for i, text := range texts {
		pages = append(pages, models.Page{Number: i + 1, Text: text, Source: models.TierTextLayer})
		b.WriteString(FormatTextLayerPage(text))
	}

	out := b.String()
	if strings.TrimSpace(out) == "" {
		return empty(models.TierTextLayer, pages)
	}
	return success(models.TierTextLayer, pages, out)
}

// LedongthucReader reads text layers with github.com/ledongthuc/pdf.
type LedongthucReader struct{}

// ReadPages opens path and returns GetPlainText for pages 1..N. Null pages read as "".
// Panics raised by malformed documents are returned as errors.
func (LedongthucReader) ReadPages(path string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("read text layer: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	total := r.NumPage()
	pages = make([]string, 0, total)
	for i := 1; i <= total; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}
