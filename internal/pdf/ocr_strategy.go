package pdf

import (
	"context"
	"fmt"
	"strings"

	"medlens/pkg/models"
)

// Rasterizer renders each page of a PDF to PNG and hands it to visit in page order.
// Page numbers are 1-indexed. An error from visit stops rendering and is returned.
type Rasterizer interface {
	Rasterize(ctx context.Context, path string, visit func(page int, png []byte) error) error
}

// PageRecognizer returns the trimmed OCR text of one rendered page.
// It is satisfied by *ocr.ImageExtractor.
type PageRecognizer interface {
	Extract(ctx context.Context, image []byte) (string, error)
}

// OCRStrategy is the second tier: rasterise every page and OCR it.
type OCRStrategy struct {
	rasterizer Rasterizer
	recognizer PageRecognizer
}

func NewOCRStrategy(rasterizer Rasterizer, recognizer PageRecognizer) *OCRStrategy {
	return &OCRStrategy{rasterizer: rasterizer, recognizer: recognizer}
}

func (s *OCRStrategy) Tier() models.Tier { return models.TierOCR }

// Extract OCRs pages in order. Pages without text get no marker; a
// rasterisation or OCR error fails the tier.
func (s *OCRStrategy) Extract(ctx context.Context, path string) TierResult {
	if s.rasterizer == nil || s.recognizer == nil {
		return failure(models.TierOCR, fmt.Errorf("ocr tier is not configured"))
	}

	var pages []models.Page
	var b strings.Builder
	err := s.rasterizer.Rasterize(ctx, path, func(number int, png []byte) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		text, err := s.recognizer.Extract(ctx, png)
		if err != nil {
			return fmt.Errorf("page %d: %w", number, err)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return nil
		}
		pages = append(pages, models.Page{Number: number, Text: text, Source: models.TierOCR})
		b.WriteString(FormatOCRPage(number, text))
		return nil
	})
	if err != nil {
		return failure(models.TierOCR, err)
	}

	if len(pages) == 0 {
		return empty(models.TierOCR, nil)
	}
	return success(models.TierOCR, pages, b.String())
}

// FormatTextLayerPage appends the page separator used by the text-layer tier.
func FormatTextLayerPage(text string) string {
	return text + "\n"
}

// FormatOCRPage renders one OCR page with its 1-indexed marker.
func FormatOCRPage(number int, text string) string {
	return fmt.Sprintf("--- Page %d ---\n%s\n\n", number, text)
}
