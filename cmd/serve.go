package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"medlens/internal/app"
	"medlens/internal/logger"
	"medlens/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MedLens HTTP API",
	Long: `Start the HTTP API that serves /upload, /simplify, /ask, /translate,
/text-to-speech, /health, /languages, /voices and /metrics.

Relevant environment variables:
  HOST, PORT                 - listen address (default 0.0.0.0:8000)
  CORS_ALLOW_ORIGINS         - comma-separated allowed origins
  GEMINI_API_KEY             - enables simplify, ask and translate
  ELEVENLABS_API_KEY         - enables text-to-speech
  OCR_ENGINE                 - tesseract (default), vision or documentai
  DEMO_MODE                  - serve canned content when providers are missing`,
	Example: `  # Listen on the configured HOST:PORT
  medlens serve

  # Override the listen address
  medlens serve --addr 127.0.0.1:9000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Listen address (default: HOST:PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("serve")

	cfg, err := requireConfig()
	if err != nil {
		return err
	}
	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = cfg.Addr()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	services, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() { _ = services.Close() }()

	api := server.New(services.Extraction, services.Assistant, services.Translation, services.Voice, server.Options{
		AllowedOrigins:    cfg.AllowedOrigins(),
		RateLimitPerMin:   cfg.RateLimitPerMin,
		MaxUploadBytes:    cfg.MaxUploadBytes(),
		ExtractionTimeout: cfg.ExtractionTimeout,
	})

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      api.Router(),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", addr).
			Str("env", cfg.AppEnv).
			Str("ocr_engine", services.OCREngine).
			Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Dur("timeout", cfg.ServerShutdownTimeout).Msg("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info().Msg("HTTP server stopped")
	return nil
}
