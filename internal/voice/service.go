// Package voice reads simplified reports aloud through ElevenLabs.
package voice

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"medlens/internal/logger"
	"medlens/internal/metrics"
)

var (
	// ErrNotConfigured is returned when no usable ElevenLabs API key is set.
	ErrNotConfigured = errors.New("voice service not configured")

	// ErrEmptyInput is returned for blank text.
	ErrEmptyInput = errors.New("text is required")
)

const provider = "elevenlabs"

// Config configures the ElevenLabs client.
type Config struct {
	APIKey   string
	VoiceID  string
	BaseURL  string
	ModelID  string
	Timeout  time.Duration
	DemoMode bool
}

// Audio is a synthesised clip.
type Audio struct {
	Data        []byte
	ContentType string
	// Demo is set when Data is the generated placeholder tone.
	Demo bool
}

// Speaker is the synthesis backend. *ElevenLabsClient implements it.
type Speaker interface {
	TextToSpeech(ctx context.Context, text string) ([]byte, string, error)
	Voices(ctx context.Context) ([]Voice, error)
}

// Service cleans text for speech and synthesises it.
type Service struct {
	speaker  Speaker
	timeout  time.Duration
	demoMode bool
	log      zerolog.Logger
}

// NewService creates the voice service. A nil speaker leaves it unconfigured.
func NewService(speaker Speaker, cfg Config) *Service {
	return &Service{
		speaker:  speaker,
		timeout:  cfg.Timeout,
		demoMode: cfg.DemoMode,
		log:      logger.WithComponent("voice"),
	}
}

// New wires an ElevenLabs-backed service from cfg. Without an API key the service is not Ready.
func New(cfg Config) *Service {
	log := logger.WithComponent("voice")
	if strings.TrimSpace(cfg.APIKey) == "" {
		log.Warn().Msg("ElevenLabs API key not found, voice features will be disabled")
		return NewService(nil, cfg)
	}
	log.Info().Str("voice_id", cfg.VoiceID).Msg("Voice service initialized")
	return NewService(NewElevenLabsClient(cfg, nil), cfg)
}

// Ready reports whether a speech backend is configured.
func (s *Service) Ready() bool {
	return s.speaker != nil
}

// Synthesize cleans text and converts it to speech. Provider failures yield demo audio.
func (s *Service) Synthesize(ctx context.Context, text string) (Audio, error) {
	if strings.TrimSpace(text) == "" {
		return Audio{}, ErrEmptyInput
	}
	log := logger.FromContext(ctx, s.log)

	if !s.Ready() {
		if !s.demoMode {
			return Audio{}, ErrNotConfigured
		}
		metrics.ObserveDemoFallback("voice")
		return demoAudio(), nil
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	cleaned := CleanForSpeech(text)
	start := time.Now()
	data, contentType, err := s.speaker.TextToSpeech(ctx, cleaned)
	metrics.ObserveAIRequest(provider, "text_to_speech", err, time.Since(start))
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return Audio{}, err
		}
		log.Error().Err(err).Msg("Speech synthesis failed, serving demo audio")
		metrics.ObserveDemoFallback("voice")
		return demoAudio(), nil
	}

	log.Info().Int("text_length", len(text)).Int("audio_bytes", len(data)).Msg("Speech generated")
	return Audio{Data: data, ContentType: contentType}, nil
}

// Voices lists the voices of the configured account.
func (s *Service) Voices(ctx context.Context) ([]Voice, error) {
	if !s.Ready() {
		return nil, ErrNotConfigured
	}
	return s.speaker.Voices(ctx)
}

func demoAudio() Audio {
	return Audio{Data: DemoTone(), ContentType: "audio/wav", Demo: true}
}

// speechReplacer expands abbreviations that text-to-speech engines read badly.
// Longer keys sharing a prefix come first so w/o is not read as "with" + "o".
var speechReplacer = strings.NewReplacer(
	"STEMI", "S-T-E-M-I",
	"PCI", "P-C-I",
	"LAD", "L-A-D",
	"ECG", "E-C-G",
	"BP", "blood pressure",
	"HR", "heart rate",
	"mg", "milligrams",
	"ml", "milliliters",
	"vs", "versus",
	"w/o", "without",
	"w/", "with",
)

var pauseReplacer = strings.NewReplacer(
	".", ". ",
	":", ": ",
	";", "; ",
)

// CleanForSpeech strips markdown emphasis, expands abbreviations and adds a
// pause after sentence punctuation.
func CleanForSpeech(text string) string {
	cleaned := strings.ReplaceAll(text, "*", "")
	cleaned = speechReplacer.Replace(cleaned)
	cleaned = pauseReplacer.Replace(cleaned)
	return strings.TrimSpace(cleaned)
}
