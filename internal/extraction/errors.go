package extraction

import (
	"errors"
	"fmt"

	"medlens/pkg/models"
)

// Common extraction errors
var (
	// ErrUnsupportedMediaType is returned for anything other than PDF, JPEG or PNG.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrExtractionFailed is returned when the underlying extractor failed.
	ErrExtractionFailed = errors.New("text extraction failed")

	// ErrEmptyText is returned when an image was read successfully but contained no text.
	ErrEmptyText = fmt.Errorf("%w: no text found", ErrExtractionFailed)

	// ErrInsufficientContent is returned by Validate when the text is too short to be useful.
	ErrInsufficientContent = errors.New("could not extract meaningful text from the file")
)

// Error wraps an extraction failure with the operation and media type involved.
type Error struct {
	// Op is the operation that failed (e.g., "Extract", "writeTemp").
	Op string

	// MediaType is the declared type of the document.
	MediaType models.MediaType

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.MediaType != "" {
		return fmt.Sprintf("extraction: %s failed (%s): %v", e.Op, e.MediaType, e.Err)
	}
	return fmt.Sprintf("extraction: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *Error) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewError creates a new Error.
func NewError(op string, mediaType models.MediaType, err error) *Error {
	return &Error{Op: op, MediaType: mediaType, Err: err}
}

// WrapError wraps err as an *Error if it isn't already one. Errors that do not
// already match ErrExtractionFailed or ErrUnsupportedMediaType are joined with
// ErrExtractionFailed so callers can rely on a single sentinel.
func WrapError(op string, mediaType models.MediaType, err error) error {
	if err == nil {
		return nil
	}

	var extErr *Error
	if errors.As(err, &extErr) {
		return err // Already wrapped
	}

	if !errors.Is(err, ErrExtractionFailed) && !errors.Is(err, ErrUnsupportedMediaType) {
		err = fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}
	return NewError(op, mediaType, err)
}
