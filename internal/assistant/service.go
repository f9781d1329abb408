// Package assistant simplifies medical reports and answers questions about
// them through Gemini, falling back to canned demo content whenever the
// model call fails.
package assistant

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"medlens/internal/logger"
	"medlens/internal/metrics"
)

// Completer is the LLM call the assistant depends on. *Client implements it.
type Completer interface {
	Ready() bool
	Complete(ctx context.Context, operation, prompt string) (string, error)
}

// Reply is the text handed back to the caller.
type Reply struct {
	Text string
	// Demo is set when Text is canned content rather than a model response.
	Demo bool
}

// Service implements the simplify and ask operations.
type Service struct {
	llm      Completer
	demoMode bool
	log      zerolog.Logger
}

// NewService creates the assistant. With demoMode set, an unconfigured
// provider yields demo content instead of ErrNotConfigured.
func NewService(llm Completer, demoMode bool) *Service {
	return &Service{
		llm:      llm,
		demoMode: demoMode,
		log:      logger.WithComponent("assistant"),
	}
}

// Ready reports whether the underlying model is configured.
func (s *Service) Ready() bool {
	return s.llm != nil && s.llm.Ready()
}

// Simplify rewrites a medical report in plain language.
func (s *Service) Simplify(ctx context.Context, text string) (Reply, error) {
	if strings.TrimSpace(text) == "" {
		return Reply{}, ErrEmptyInput
	}
	return s.run(ctx, "simplify", SimplifyPrompt(text), func() string { return DemoSimplified })
}

// Answer responds to a question about the given report context.
func (s *Service) Answer(ctx context.Context, question, reportContext string) (Reply, error) {
	if strings.TrimSpace(question) == "" {
		return Reply{}, ErrEmptyInput
	}
	return s.run(ctx, "ask", AnswerPrompt(question, reportContext), func() string { return DemoAnswer(question) })
}

func (s *Service) run(ctx context.Context, operation, prompt string, demo func() string) (Reply, error) {
	log := logger.FromContext(ctx, s.log)

	if !s.Ready() {
		if !s.demoMode {
			return Reply{}, ErrNotConfigured
		}
		metrics.ObserveDemoFallback("assistant")
		return Reply{Text: demo(), Demo: true}, nil
	}

	text, err := s.llm.Complete(ctx, operation, prompt)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return Reply{}, err
		}
		log.Error().Err(err).Str("operation", operation).Msg("Model call failed, serving demo content")
		metrics.ObserveDemoFallback("assistant")
		return Reply{Text: demo(), Demo: true}, nil
	}

	log.Info().Str("operation", operation).Msg("Model call succeeded")
	return Reply{Text: text}, nil
}
