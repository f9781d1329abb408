// Package server exposes MedLens over HTTP.
//
// Routes:
//   - GET  /, /health, /languages, /voices, /metrics
//   - POST /upload (multipart "file"), /simplify, /ask, /translate, /text-to-speech
//
// POST routes are rate limited per client IP. Every error response uses the
// envelope written by writeError.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"

	"medlens/internal/assistant"
	"medlens/internal/logger"
	"medlens/internal/metrics"
	"medlens/internal/voice"
	"medlens/pkg/models"
)

// Extractor turns an uploaded document into text.
type Extractor interface {
	Extract(ctx context.Context, doc models.Document) (*models.ExtractionResult, error)
	MinTextLength() int
}

// Assistant simplifies reports and answers questions about them.
type Assistant interface {
	Ready() bool
	Simplify(ctx context.Context, text string) (assistant.Reply, error)
	Answer(ctx context.Context, question, reportContext string) (assistant.Reply, error)
}

// Translator renders text in another language.
type Translator interface {
	Ready() bool
	Translate(ctx context.Context, text, target string) (assistant.Reply, error)
}

// Speaker converts text to audio.
type Speaker interface {
	Ready() bool
	Synthesize(ctx context.Context, text string) (voice.Audio, error)
	Voices(ctx context.Context) ([]voice.Voice, error)
}

// Options tunes request handling.
type Options struct {
	AllowedOrigins    []string
	RateLimitPerMin   int
	MaxUploadBytes    int64
	ExtractionTimeout time.Duration
}

// Server holds handler dependencies.
type Server struct {
	Extractor  Extractor
	Assistant  Assistant
	Translator Translator
	Speaker    Speaker
	opts       Options
	log        zerolog.Logger
}

// New creates a server over the given services.
func New(extractor Extractor, asst Assistant, translator Translator, speaker Speaker, opts Options) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 20 << 20
	}
	if opts.ExtractionTimeout <= 0 {
		opts.ExtractionTimeout = 120 * time.Second
	}
	return &Server{
		Extractor:  extractor,
		Assistant:  asst,
		Translator: translator,
		Speaker:    speaker,
		opts:       opts,
		log:        logger.WithComponent("server"),
	}
}

// Router builds the HTTP handler with all middleware and routes.
func (s *Server) Router() http.Handler {
	metrics.InitMetrics()

	r := chi.NewRouter()
	r.Use(Recoverer(s.log))
	r.Use(RequestID(s.log))
	r.Use(AccessLog())
	r.Use(metrics.HTTPMetricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", s.RootHandler())
	r.Get("/health", s.HealthHandler())
	r.Get("/languages", s.LanguagesHandler())
	r.Get("/voices", s.VoicesHandler())
	r.Get("/metrics", metrics.Handler().ServeHTTP)

	r.Group(func(wr chi.Router) {
		if s.opts.RateLimitPerMin > 0 {
			wr.Use(httprate.LimitByIP(s.opts.RateLimitPerMin, time.Minute))
		}
		wr.Post("/upload", s.UploadHandler())
		wr.Post("/simplify", s.SimplifyHandler())
		wr.Post("/ask", s.AskHandler())
		wr.Post("/translate", s.TranslateHandler())
		wr.Post("/text-to-speech", s.SpeechHandler())
	})

	return SecurityHeaders(r)
}
