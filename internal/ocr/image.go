package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"strings"
	"time"

	"github.com/rs/zerolog"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"medlens/internal/logger"
)

// ImageExtractor runs a single English OCR pass over an uploaded image.
type ImageExtractor struct {
	engine   Engine
	language string
	log      zerolog.Logger
}

// NewImageExtractor wraps engine. An empty language selects DefaultLanguage.
func NewImageExtractor(engine Engine, language string) *ImageExtractor {
	if language == "" {
		language = DefaultLanguage
	}
	return &ImageExtractor{
		engine:   engine,
		language: language,
		log:      logger.WithComponent("ocr"),
	}
}

// EngineName reports the engine backing this extractor.
func (x *ImageExtractor) EngineName() string {
	return x.engine.Name()
}

// Extract decodes data, normalises it to opaque RGB and returns the trimmed OCR text.
// An image without text returns "" and no error.
func (x *ImageExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	const op = "Extract"
	start := time.Now()

	img, format, err := Decode(data)
	if err != nil {
		return "", WrapOCRError(op, err, fmt.Sprintf("%d bytes", len(data)))
	}

	normalized, err := EncodePNG(Normalize(img))
	if err != nil {
		return "", WrapOCRError(op, ErrOCRFailed, fmt.Sprintf("re-encode normalised image: %v", err))
	}

	if err := ctx.Err(); err != nil {
		return "", WrapOCRError(op, ErrContextCanceled, err.Error())
	}

	text, err := x.engine.Recognize(ctx, Input{Image: normalized, Languages: []string{x.language}})
	if err != nil {
		return "", WrapOCRError(op, fmt.Errorf("%w: %v", ErrOCRFailed, err), x.engine.Name())
	}
	text = strings.TrimSpace(text)

	x.log.Debug().
		Str("engine", x.engine.Name()).
		Str("format", format).
		Int("width", img.Bounds().Dx()).
		Int("height", img.Bounds().Dy()).
		Int("text_length", len(text)).
		Dur("duration", time.Since(start)).
		Msg("Image OCR completed")

	return text, nil
}

// Decode reads any registered raster format.
func Decode(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, format, nil
}

// Normalize flattens src onto an opaque white 8-bit RGBA canvas anchored at the origin.
// Palette, grayscale, 16-bit, CMYK and alpha images all come out fully opaque.
func Normalize(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
	return dst
}

// EncodePNG serialises img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
