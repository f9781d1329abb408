// Package app assembles MedLens services from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"medlens/internal/assistant"
	"medlens/internal/config"
	"medlens/internal/extraction"
	"medlens/internal/logger"
	"medlens/internal/metrics"
	"medlens/internal/ocr"
	"medlens/internal/ocr/tesseract"
	"medlens/internal/pdf"
	"medlens/internal/pdf/mupdf"
	"medlens/internal/translation"
	"medlens/internal/voice"
)

// Services holds every component the HTTP API and CLI need.
type Services struct {
	Extraction  *extraction.Service
	Assistant   *assistant.Service
	Translation *translation.Service
	Voice       *voice.Service
	OCREngine   string

	closers []io.Closer
	log     zerolog.Logger
}

// New builds the services described by cfg.
func New(ctx context.Context, cfg *config.Config) (*Services, error) {
	const op = "app.New"
	log := logger.WithComponent("app")

	engine, err := NewOCREngine(ctx, cfg.OCR())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	images := ocr.NewImageExtractor(engine, cfg.OCRLanguage)
	s := &Services{
		OCREngine: images.EngineName(),
		log:       log,
	}
	if c, ok := engine.(io.Closer); ok {
		s.closers = append(s.closers, c)
	}

	pdfs := pdf.NewDefaultExtractor(
		mupdf.New(cfg.RasterDPI),
		images,
		pdf.WithObserver(ObservePDFTier),
	)
	s.Extraction = extraction.NewService(pdfs, images, cfg.Extraction())

	llm := assistant.NewClient(cfg.AI())
	s.Assistant = assistant.NewService(llm, cfg.DemoMode)
	s.Translation = translation.NewService(llm, cfg.DemoMode)
	s.Voice = voice.New(cfg.Voice())

	log.Info().
		Str("ocr_engine", s.OCREngine).
		Bool("ai_ready", s.Assistant.Ready()).
		Bool("voice_ready", s.Voice.Ready()).
		Bool("demo_mode", cfg.DemoMode).
		Msg("Services initialized")
	return s, nil
}

// NewOCREngine selects the engine named by cfg.Engine.
func NewOCREngine(ctx context.Context, cfg ocr.Config) (ocr.Engine, error) {
	switch cfg.Engine {
	case ocr.EngineTesseract, "":
		return tesseract.New(cfg.TessdataPrefix), nil
	case ocr.EngineVision:
		engine, err := ocr.NewVisionEngine(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return engine, nil
	case ocr.EngineDocumentAI:
		engine, err := ocr.NewDocumentAIEngine(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return engine, nil
	default:
		return nil, ocr.WrapOCRError("NewOCREngine", ocr.ErrUnknownEngine, cfg.Engine)
	}
}

// ObservePDFTier records one PDF tier attempt.
func ObservePDFTier(result pdf.TierResult, _ time.Duration) {
	metrics.ObservePDFTier(string(result.Tier), result.Outcome.String())
}

// Close releases engine clients.
func (s *Services) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		s.log.Warn().Err(errors.Join(errs...)).Msg("Failed to close services")
	}
	return errors.Join(errs...)
}
