// Package extraction is the entry point for turning an uploaded document into
// plain text. It dispatches on media type, keeps a temporary copy of the
// document on disk for the duration of the call and reports failures through
// a small set of sentinel errors.
package extraction

import (
	"context"
	"fmt"
	"mime"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"medlens/internal/logger"
	"medlens/internal/metrics"
	"medlens/pkg/models"
)

// DefaultMinTextLength is the shortest trimmed text Validate accepts.
const DefaultMinTextLength = 10

// PDFExtractor extracts text from a PDF on disk.
type PDFExtractor interface {
	ExtractFile(ctx context.Context, path string) (*models.ExtractionResult, error)
}

// ImageExtractor extracts text from an in-memory image.
type ImageExtractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// Config configures the orchestrator.
type Config struct {
	TempDir       string // directory for temporary copies; empty uses os.TempDir
	MinTextLength int    // threshold for Validate; 0 uses DefaultMinTextLength
}

// Service is the extraction orchestrator.
type Service struct {
	pdf   PDFExtractor
	image ImageExtractor
	cfg   Config
	log   zerolog.Logger
}

// NewService creates an orchestrator over the given extractors.
func NewService(pdf PDFExtractor, image ImageExtractor, cfg Config) *Service {
	if cfg.MinTextLength <= 0 {
		cfg.MinTextLength = DefaultMinTextLength
	}
	return &Service{
		pdf:   pdf,
		image: image,
		cfg:   cfg,
		log:   logger.WithComponent("extraction"),
	}
}

// MinTextLength returns the configured Validate threshold.
func (s *Service) MinTextLength() int {
	return s.cfg.MinTextLength
}

// NormalizeMediaType lowercases a declared content type, strips parameters
// and maps the non-standard image/jpg onto image/jpeg.
func NormalizeMediaType(contentType string) models.MediaType {
	mediaType := strings.ToLower(strings.TrimSpace(contentType))
	if parsed, _, err := mime.ParseMediaType(mediaType); err == nil {
		mediaType = parsed
	} else if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = strings.TrimSpace(mediaType[:i])
	}
	if mediaType == "image/jpg" {
		mediaType = string(models.MediaTypeJPEG)
	}
	return models.MediaType(mediaType)
}

// Supported reports whether mediaType has an extractor.
func Supported(mediaType models.MediaType) bool {
	return mediaType == models.MediaTypePDF || mediaType.IsImage()
}

// Extract returns the trimmed, non-empty text of doc.
func (s *Service) Extract(ctx context.Context, doc models.Document) (result *models.ExtractionResult, err error) {
	const op = "Extract"
	start := time.Now()
	mediaType := NormalizeMediaType(string(doc.MediaType))
	log := logger.FromContext(ctx, s.log).With().
		Str("file", doc.Filename).
		Str("media_type", string(mediaType)).
		Int("size", len(doc.Data)).
		Logger()

	defer func() {
		elapsed := time.Since(start)
		if err != nil {
			metrics.ObserveExtraction(string(mediaType), "", "error", elapsed)
			log.Error().Err(err).Dur("duration", elapsed).Msg("Extraction failed")
			return
		}
		result.Duration = elapsed
		metrics.ObserveExtraction(string(mediaType), string(result.Tier), "success", elapsed)
		log.Info().
			Str("tier", string(result.Tier)).
			Int("text_length", result.Length).
			Int("pages", result.PageCount).
			Dur("duration", elapsed).
			Msg("Extraction completed")
	}()

	if !Supported(mediaType) {
		return nil, NewError(op, mediaType, fmt.Errorf("%w: %q", ErrUnsupportedMediaType, doc.MediaType))
	}

	path, cleanup, err := s.writeTemp(doc.Data, mediaType)
	if err != nil {
		return nil, WrapError(op, mediaType, err)
	}
	defer cleanup()

	result, err = s.dispatch(ctx, path, doc.Data, mediaType)
	if err != nil {
		return nil, WrapError(op, mediaType, err)
	}
	if result.Text == "" {
		return nil, NewError(op, mediaType, ErrEmptyText)
	}
	return result, nil
}

// dispatch runs the extractor for mediaType and converts panics into ErrExtractionFailed.
func (s *Service) dispatch(ctx context.Context, path string, data []byte, mediaType models.MediaType) (result *models.ExtractionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("%w: extractor panic: %v", ErrExtractionFailed, r)
		}
	}()

	if mediaType == models.MediaTypePDF {
		if s.pdf == nil {
			return nil, fmt.Errorf("%w: no PDF extractor configured", ErrExtractionFailed)
		}
		return s.pdf.ExtractFile(ctx, path)
	}

	if s.image == nil {
		return nil, fmt.Errorf("%w: no image extractor configured", ErrExtractionFailed)
	}
	text, err := s.image.Extract(ctx, data)
	if err != nil {
		return nil, err
	}
	return models.NewExtractionResult(text, models.TierImage, 1), nil
}

// writeTemp copies data into a fresh, closed file in the configured temp dir.
// The returned cleanup removes it.
func (s *Service) writeTemp(data []byte, mediaType models.MediaType) (string, func(), error) {
	f, err := os.CreateTemp(s.cfg.TempDir, "medlens-*"+mediaType.Extension())
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.log.Warn().Err(err).Str("path", path).Msg("Failed to remove temp file")
		}
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		cleanup()
		return "", nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("close temp file: %w", err)
	}
	return path, cleanup, nil
}

// Validate rejects results whose trimmed text is shorter than minLength.
func Validate(result *models.ExtractionResult, minLength int) error {
	if result == nil {
		return ErrInsufficientContent
	}
	if len(strings.TrimSpace(result.Text)) < minLength {
		return fmt.Errorf("%w: %d characters, need at least %d", ErrInsufficientContent, len(strings.TrimSpace(result.Text)), minLength)
	}
	return nil
}
