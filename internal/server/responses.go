package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"medlens/internal/assistant"
	"medlens/internal/extraction"
	"medlens/internal/logger"
	"medlens/internal/translation"
	"medlens/internal/voice"
)

const (
	codeInvalidArgument  = "INVALID_ARGUMENT"
	codeUnsupportedMedia = "UNSUPPORTED_MEDIA_TYPE"
	codeInsufficientText = "INSUFFICIENT_CONTENT"
	codePayloadTooLarge  = "PAYLOAD_TOO_LARGE"
	codeNotConfigured    = "NOT_CONFIGURED"
	codeTimeout          = "TIMEOUT"
	codeInternal         = "INTERNAL"
)

var (
	errInvalidArgument = errors.New("invalid argument")
	errPayloadTooLarge = errors.New("payload too large")
)

type errorEnvelope struct {
	Success bool     `json:"success"`
	Detail  string   `json:"detail"`
	Error   apiError `json:"error"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps an error to its HTTP status and envelope code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, errPayloadTooLarge):
		return http.StatusRequestEntityTooLarge, codePayloadTooLarge
	case errors.Is(err, extraction.ErrUnsupportedMediaType):
		return http.StatusBadRequest, codeUnsupportedMedia
	case errors.Is(err, extraction.ErrInsufficientContent),
		errors.Is(err, extraction.ErrEmptyText):
		return http.StatusBadRequest, codeInsufficientText
	case errors.Is(err, errInvalidArgument),
		errors.Is(err, assistant.ErrEmptyInput),
		errors.Is(err, translation.ErrEmptyInput),
		errors.Is(err, voice.ErrEmptyInput):
		return http.StatusBadRequest, codeInvalidArgument
	case errors.Is(err, assistant.ErrNotConfigured),
		errors.Is(err, translation.ErrNotConfigured),
		errors.Is(err, voice.ErrNotConfigured):
		return http.StatusServiceUnavailable, codeNotConfigured
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, codeTimeout
	default:
		return http.StatusInternalServerError, codeInternal
	}
}

// writeError writes the error envelope. detail overrides the client-facing message when set.
func writeError(w http.ResponseWriter, r *http.Request, err error, detail string) {
	status, code := statusFor(err)
	if detail == "" {
		detail = err.Error()
	}

	log := logger.FromContext(r.Context(), logger.WithComponent("server"))
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Int("status", status).Msg("Request failed")
	} else {
		log.Warn().Err(err).Int("status", status).Msg("Request rejected")
	}

	writeJSON(w, status, errorEnvelope{
		Success: false,
		Detail:  detail,
		Error:   apiError{Code: code, Message: err.Error()},
	})
}
