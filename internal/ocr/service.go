// Package ocr turns raster images into plain text.
//
// Every image is decoded, flattened onto an opaque 8-bit RGB canvas and
// re-encoded as PNG before it reaches an Engine, so engines never see
// palette, grayscale, 16-bit, CMYK or transparent inputs.
//
// Engines:
//   - tesseract: local Tesseract through gosseract (package ocr/tesseract)
//   - vision: Google Cloud Vision DOCUMENT_TEXT_DETECTION
//   - documentai: a Google Document AI OCR processor
//
// Vision credentials are read from GOOGLE_CREDENTIALS (inline JSON) or
// GOOGLE_APPLICATION_CREDENTIALS (file path), falling back to Application
// Default Credentials.
package ocr

import (
	"context"
)

// Engine names accepted by OCR_ENGINE.
const (
	EngineTesseract  = "tesseract"
	EngineVision     = "vision"
	EngineDocumentAI = "documentai"
)

// DefaultLanguage is the Tesseract language code used for every OCR pass.
const DefaultLanguage = "eng"

// Engine recognizes text in a single PNG-encoded image.
type Engine interface {
	// Name identifies the engine in logs and metrics.
	Name() string

	// Recognize returns the raw text found in the image.
	// An image without text yields an empty string and no error.
	Recognize(ctx context.Context, in Input) (string, error)
}

// Input is one image handed to an Engine.
type Input struct {
	// Image holds PNG-encoded, opaque RGB pixels.
	Image []byte

	// Languages lists Tesseract-style language codes, e.g. "eng".
	Languages []string
}

// Config selects and configures the OCR engine.
type Config struct {
	Engine          string // tesseract, vision or documentai
	Language        string // Tesseract language code
	TessdataPrefix  string // optional tessdata directory
	CredentialsJSON string // inline Google credentials
	CredentialsFile string // path to Google credentials file

	// Document AI processor, used when Engine is documentai.
	DocumentAIProject   string
	DocumentAILocation  string // "us" or "eu"
	DocumentAIProcessor string
}
