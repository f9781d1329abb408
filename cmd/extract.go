package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"medlens/internal/app"
	"medlens/internal/extraction"
	"medlens/internal/logger"
	"medlens/internal/ocr"
	"medlens/pkg/models"
)

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract text from a medical report (PDF, JPEG or PNG)",
	Long: `Run a single document through the extraction pipeline and print its text.

PDFs go through the tier cascade: the embedded text layer first, then OCR over
pages rasterised at RASTER_DPI, then the built-in sample report. Images are
decoded, flattened to RGB and passed to the OCR engine.

Relevant environment variables:
  OCR_ENGINE        - tesseract (default), vision or documentai
  OCR_LANGUAGE      - Tesseract language code (default: eng)
  TESSDATA_PREFIX   - optional tessdata directory
  GOOGLE_APPLICATION_CREDENTIALS / GOOGLE_CREDENTIALS - for vision and documentai
  DOCUMENTAI_PROJECT_ID, DOCUMENTAI_PROCESSOR_ID       - for OCR_ENGINE=documentai`,
	Example: `  # Print the text of report.pdf
  medlens extract report.pdf

  # Save the text of a scan to a file
  medlens extract scan.png -o scan.txt

  # JSON output with tier and timing
  medlens extract report.pdf --json -o result.json

  # Force the media type and allow more time
  medlens extract upload.bin --media-type application/pdf --timeout 5m`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

// ExtractOutput is the JSON written when --json is set.
type ExtractOutput struct {
	Text               string    `json:"text"`
	TextLength         int       `json:"text_length"`
	Tier               string    `json:"tier"`
	PageCount          int       `json:"page_count,omitempty"`
	MediaType          string    `json:"media_type"`
	ProcessedAt        time.Time `json:"processed_at"`
	ProcessingDuration string    `json:"processing_duration"`
	FileName           string    `json:"file_name"`
	FileSize           int64     `json:"file_size"`
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	extractCmd.Flags().BoolP("metadata", "m", false, "Include metadata in text output")
	extractCmd.Flags().Bool("json", false, "Output as JSON")
	extractCmd.Flags().String("media-type", "", "Media type of the file (default: detected from content)")
	extractCmd.Flags().Duration("timeout", 0, "Processing timeout (default: EXTRACTION_TIMEOUT)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("extract")

	cfg, err := requireConfig()
	if err != nil {
		return err
	}

	outputPath, _ := cmd.Flags().GetString("output")
	includeMetadata, _ := cmd.Flags().GetBool("metadata")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	declaredType, _ := cmd.Flags().GetString("media-type")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout <= 0 {
		timeout = cfg.ExtractionTimeout
	}

	path := args[0]
	log.Info().
		Str("file", path).
		Str("output", outputPath).
		Bool("json", jsonOutput).
		Dur("timeout", timeout).
		Msg("Starting extraction")

	fileInfo, err := validateInputFile(path, cfg.MaxUploadBytes(), log)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	mediaType := extraction.NormalizeMediaType(declaredType)
	if mediaType == "" {
		mediaType = extraction.NormalizeMediaType(mimetype.Detect(data).String())
	}
	if !extraction.Supported(mediaType) {
		return fmt.Errorf("file type %s not supported. Please use a PDF, JPEG, or PNG file", mediaType)
	}

	ctx, cancel := createContextWithTimeout(timeout, log)
	defer cancel()

	services, err := app.New(ctx, cfg)
	if err != nil {
		return handleExtractError(err, log)
	}
	defer func() { _ = services.Close() }()

	start := time.Now()
	result, err := services.Extraction.Extract(ctx, models.Document{
		Filename:  filepath.Base(path),
		MediaType: mediaType,
		Data:      data,
	})
	if err != nil {
		return handleExtractError(err, log)
	}
	if err := extraction.Validate(result, services.Extraction.MinTextLength()); err != nil {
		log.Warn().Err(err).Msg("Extracted text is shorter than the upload threshold")
	}

	log.Info().
		Str("tier", string(result.Tier)).
		Int("page_count", result.PageCount).
		Int("text_length", result.Length).
		Dur("duration", time.Since(start)).
		Msg("Extraction completed successfully")

	return outputResults(result, mediaType, fileInfo, outputPath, jsonOutput, includeMetadata, log)
}

// validateInputFile checks that path is a readable, non-empty regular file within the size cap.
func validateInputFile(path string, maxBytes int64, log zerolog.Logger) (os.FileInfo, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Error().Str("file", path).Msg("File not found")
			return nil, fmt.Errorf("file not found: %s", path)
		}
		if os.IsPermission(err) {
			log.Error().Str("file", path).Msg("Permission denied accessing file")
			return nil, fmt.Errorf("permission denied accessing file: %s", path)
		}
		return nil, fmt.Errorf("error accessing file: %w", err)
	}

	if !fileInfo.Mode().IsRegular() {
		return nil, fmt.Errorf("path is not a regular file: %s", path)
	}
	if fileInfo.Size() == 0 {
		return nil, fmt.Errorf("file is empty: %s", path)
	}
	if fileInfo.Size() > maxBytes {
		log.Error().
			Str("file", path).
			Int64("size", fileInfo.Size()).
			Int64("max_size", maxBytes).
			Msg("File exceeds maximum size limit")
		return nil, fmt.Errorf("file too large (%d bytes). Maximum size is %d bytes", fileInfo.Size(), maxBytes)
	}
	return fileInfo, nil
}

// createContextWithTimeout creates a context that ends on timeout or on SIGINT/SIGTERM.
func createContextWithTimeout(timeout time.Duration, log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling extraction")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// handleExtractError turns pipeline errors into actionable messages.
func handleExtractError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("Extraction failed")

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("extraction timed out. Try increasing --timeout")
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("extraction was canceled")
	case errors.Is(err, ocr.ErrUnknownEngine):
		return fmt.Errorf("unknown OCR engine. Set OCR_ENGINE to %q, %q or %q: %w", ocr.EngineTesseract, ocr.EngineVision, ocr.EngineDocumentAI, err)
	case errors.Is(err, ocr.ErrMissingCredentials):
		return fmt.Errorf("Google Cloud credentials are invalid. Set GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS, or run:\n"+
			"   gcloud auth application-default login\n\nOriginal error: %w", err)
	case errors.Is(err, ocr.ErrInvalidConfiguration):
		return fmt.Errorf("OCR engine is misconfigured. Check DOCUMENTAI_PROJECT_ID, DOCUMENTAI_LOCATION and DOCUMENTAI_PROCESSOR_ID: %w", err)
	case errors.Is(err, ocr.ErrDecode):
		return fmt.Errorf("the image could not be decoded. Please check the file integrity: %w", err)
	case errors.Is(err, extraction.ErrEmptyText):
		return fmt.Errorf("no readable text found in the image")
	case errors.Is(err, extraction.ErrExtractionFailed):
		return fmt.Errorf("text extraction failed: %w", err)
	default:
		return fmt.Errorf("extraction failed: %w", err)
	}
}

// outputResults writes the extracted text, or its JSON envelope, to outputPath or stdout.
func outputResults(result *models.ExtractionResult, mediaType models.MediaType, fileInfo os.FileInfo, outputPath string, jsonOutput, includeMetadata bool, log zerolog.Logger) error {
	var outputData []byte

	if jsonOutput {
		data, err := json.MarshalIndent(ExtractOutput{
			Text:               result.Text,
			TextLength:         result.Length,
			Tier:               string(result.Tier),
			PageCount:          result.PageCount,
			MediaType:          string(mediaType),
			ProcessedAt:        time.Now(),
			ProcessingDuration: result.Duration.String(),
			FileName:           filepath.Base(fileInfo.Name()),
			FileSize:           fileInfo.Size(),
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to create JSON output: %w", err)
		}
		outputData = data
	} else {
		var output strings.Builder
		if includeMetadata {
			fmt.Fprintf(&output, "=== Extraction Results for %s ===\n", filepath.Base(fileInfo.Name()))
			fmt.Fprintf(&output, "File size: %d bytes\n", fileInfo.Size())
			fmt.Fprintf(&output, "Media type: %s\n", mediaType)
			fmt.Fprintf(&output, "Tier: %s\n", result.Tier)
			if result.PageCount > 0 {
				fmt.Fprintf(&output, "Pages: %d\n", result.PageCount)
			}
			fmt.Fprintf(&output, "Processing time: %v\n", result.Duration)
			output.WriteString("\n=== Extracted Text ===\n\n")
		}
		output.WriteString(result.Text)
		output.WriteString("\n")
		outputData = []byte(output.String())
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, outputData, 0644); err != nil {
			log.Error().Err(err).Str("output_file", outputPath).Msg("Failed to write output file")
			return fmt.Errorf("failed to write output file: %w", err)
		}
		log.Info().
			Str("output_file", outputPath).
			Int("bytes", len(outputData)).
			Msg("Extraction results written to file")
		return nil
	}

	if _, err := os.Stdout.Write(outputData); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
