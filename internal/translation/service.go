// Package translation translates simplified reports into the patient's
// language through Gemini.
package translation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"medlens/internal/assistant"
	"medlens/internal/logger"
	"medlens/internal/metrics"
	"medlens/pkg/models"
)

var (
	// ErrNotConfigured is returned when the model has no usable API key.
	ErrNotConfigured = errors.New("translation service not configured")

	// ErrEmptyInput is returned for blank text or target language.
	ErrEmptyInput = errors.New("text and target language are required")
)

// Service translates text with the shared completion client.
type Service struct {
	llm      assistant.Completer
	demoMode bool
	log      zerolog.Logger
}

// NewService creates a translation service. With demoMode set, an
// unconfigured provider yields demo content instead of ErrNotConfigured.
func NewService(llm assistant.Completer, demoMode bool) *Service {
	return &Service{
		llm:      llm,
		demoMode: demoMode,
		log:      logger.WithComponent("translation"),
	}
}

// Ready reports whether the underlying model is configured.
func (s *Service) Ready() bool {
	return s.llm != nil && s.llm.Ready()
}

// Languages returns the supported targets sorted by name.
func Languages() []models.Language {
	out := make([]models.Language, len(languages))
	copy(out, languages)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup finds a language by name, ignoring case and surrounding space.
func Lookup(name string) (models.Language, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, lang := range languages {
		if lang.Name == key {
			return lang, true
		}
	}
	return models.Language{}, false
}

// DisplayName returns the prompt name for target. Unknown targets are used verbatim.
func DisplayName(target string) string {
	if lang, ok := Lookup(target); ok {
		return lang.DisplayName
	}
	return target
}

// Prompt builds the translation instruction for text.
func Prompt(text, target string) string {
	return fmt.Sprintf(promptTemplate, DisplayName(target), text)
}

// Demo returns canned Spanish or Urdu content, or text unchanged for any other target.
func Demo(text, target string) string {
	switch strings.ToLower(strings.TrimSpace(target)) {
	case "spanish":
		return demoSpanish
	case "urdu":
		return demoUrdu
	default:
		return text
	}
}

// Translate renders text in the target language.
func (s *Service) Translate(ctx context.Context, text, target string) (assistant.Reply, error) {
	if strings.TrimSpace(text) == "" || strings.TrimSpace(target) == "" {
		return assistant.Reply{}, ErrEmptyInput
	}
	log := logger.FromContext(ctx, s.log).With().Str("target_language", target).Logger()

	if !s.Ready() {
		if !s.demoMode {
			return assistant.Reply{}, ErrNotConfigured
		}
		metrics.ObserveDemoFallback("translation")
		return assistant.Reply{Text: Demo(text, target), Demo: true}, nil
	}

	translated, err := s.llm.Complete(ctx, "translate", Prompt(text, target))
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return assistant.Reply{}, err
		}
		log.Error().Err(err).Msg("Translation failed, serving demo content")
		metrics.ObserveDemoFallback("translation")
		return assistant.Reply{Text: Demo(text, target), Demo: true}, nil
	}

	log.Info().Str("display_name", DisplayName(target)).Msg("Translation succeeded")
	return assistant.Reply{Text: translated}, nil
}
