package models

import (
	"strings"
	"time"
)

// MediaType is the declared content type of an uploaded document.
type MediaType string

const (
	MediaTypePDF  MediaType = "application/pdf"
	MediaTypeJPEG MediaType = "image/jpeg"
	MediaTypePNG  MediaType = "image/png"
)

// IsImage reports whether the media type goes through the image OCR path.
func (m MediaType) IsImage() bool {
	return m == MediaTypeJPEG || m == MediaTypePNG
}

// Extension returns the file extension used for temporary copies of the document.
func (m MediaType) Extension() string {
	switch m {
	case MediaTypePDF:
		return ".pdf"
	case MediaTypeJPEG:
		return ".jpg"
	case MediaTypePNG:
		return ".png"
	default:
		return ".bin"
	}
}

// Tier identifies the strategy that produced an extraction result.
type Tier string

const (
	TierTextLayer Tier = "text_layer" // embedded PDF text
	TierOCR       Tier = "ocr"        // rasterised PDF pages run through OCR
	TierStatic    Tier = "static"     // fixed sample report
	TierImage     Tier = "image"      // single uploaded image run through OCR
)

// Document is an uploaded file held in memory for one extraction call.
type Document struct {
	Filename  string
	MediaType MediaType
	Data      []byte
}

// Page is one page of a PDF as seen by a single extraction tier.
type Page struct {
	Number int    // 1-indexed
	Text   string
	Source Tier
}

// ExtractionResult is the plain text produced by exactly one extractor.
type ExtractionResult struct {
	Text      string        `json:"text"`
	Length    int           `json:"length"`
	Tier      Tier          `json:"tier"`
	PageCount int           `json:"page_count,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// NewExtractionResult trims text and records its length.
func NewExtractionResult(text string, tier Tier, pageCount int) *ExtractionResult {
	text = strings.TrimSpace(text)
	return &ExtractionResult{
		Text:      text,
		Length:    len(text),
		Tier:      tier,
		PageCount: pageCount,
	}
}
