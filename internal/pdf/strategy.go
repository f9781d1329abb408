// Package pdf extracts plain text from PDF files through an ordered cascade of
// strategies: the embedded text layer, then rasterised pages run through OCR,
// then a fixed sample report.
//
// Tier selection is global. The first strategy whose result is a success
// wins for the whole document, even when only some of its pages had text.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"medlens/internal/logger"
	"medlens/pkg/models"
)

// ErrNoText is returned when every configured strategy came back empty or failed.
// The default cascade ends in StaticStrategy and never returns it.
var ErrNoText = errors.New("no extraction strategy produced text")

// Outcome classifies a single strategy attempt.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeEmpty
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeEmpty:
		return "empty"
	case OutcomeError:
		return "error"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// TierResult is the tagged result of one strategy attempt.
type TierResult struct {
	Tier    models.Tier
	Outcome Outcome
	Pages   []models.Page
	Text    string
	Err     error
}

func success(tier models.Tier, pages []models.Page, text string) TierResult {
	return TierResult{Tier: tier, Outcome: OutcomeSuccess, Pages: pages, Text: text}
}

func empty(tier models.Tier, pages []models.Page) TierResult {
	return TierResult{Tier: tier, Outcome: OutcomeEmpty, Pages: pages}
}

func failure(tier models.Tier, err error) TierResult {
	return TierResult{Tier: tier, Outcome: OutcomeError, Err: err}
}

// Strategy is one tier of the cascade.
type Strategy interface {
	Tier() models.Tier
	Extract(ctx context.Context, path string) TierResult
}

// Observer is notified of every strategy attempt, in order.
type Observer func(result TierResult, elapsed time.Duration)

// Extractor folds over its strategies and stops at the first success.
type Extractor struct {
	strategies []Strategy
	observer   Observer
	log        zerolog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithObserver registers fn to receive every attempt.
func WithObserver(fn Observer) Option {
	return func(e *Extractor) { e.observer = fn }
}

// NewExtractor builds an extractor over strategies in the given order.
func NewExtractor(strategies []Strategy, opts ...Option) *Extractor {
	e := &Extractor{
		strategies: strategies,
		log:        logger.WithComponent("pdf"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewDefaultExtractor wires the standard three tiers: text layer, OCR over
// rasterised pages, static sample.
func NewDefaultExtractor(rasterizer Rasterizer, recognizer PageRecognizer, opts ...Option) *Extractor {
	return NewExtractor([]Strategy{
		NewTextLayerStrategy(nil),
		NewOCRStrategy(rasterizer, recognizer),
		StaticStrategy{},
	}, opts...)
}

// ExtractFile runs the cascade against the PDF at path.
func (e *Extractor) ExtractFile(ctx context.Context, path string) (*models.ExtractionResult, error) {
	const op = "ExtractFile"
	var lastErr error

	for i, strategy := range e.strategies {
		start := time.Now()
		result := strategy.Extract(ctx, path)
		elapsed := time.Since(start)
		if e.observer != nil {
			e.observer(result, elapsed)
		}

		switch result.Outcome {
		case OutcomeSuccess:
			e.log.Debug().
				Str("tier", string(result.Tier)).
				Int("pages", len(result.Pages)).
				Dur("duration", elapsed).
				Msg("PDF tier succeeded")
			return models.NewExtractionResult(result.Text, result.Tier, len(result.Pages)), nil
		case OutcomeError:
			lastErr = result.Err
		}

		event := e.log.Warn().
			Str("tier", string(result.Tier)).
			Str("outcome", result.Outcome.String()).
			Dur("duration", elapsed)
		if result.Err != nil {
			event = event.Err(result.Err)
		}
		if i+1 < len(e.strategies) {
			event = event.Str("next_tier", string(e.strategies[i+1].Tier()))
		}
		event.Msg("PDF tier produced no text, falling back")
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrNoText, lastErr)
	}
	return nil, fmt.Errorf("%s: %w", op, ErrNoText)
}
