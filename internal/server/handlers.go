package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"

	"medlens/internal/extraction"
	"medlens/internal/logger"
	"medlens/internal/translation"
	"medlens/pkg/models"
)

const (
	// multipartOverhead leaves room for boundaries and part headers on top of the file cap.
	multipartOverhead = 1 << 20
	maxJSONBody       = 8 << 20
	octetStream       = "application/octet-stream"

	insufficientDetail = "Could not extract meaningful text from the file. Please ensure the file contains readable text."
)

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() {
		vld = validator.New()
		vld.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return vld
}

// decodeJSON reads and validates a JSON request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errPayloadTooLarge
		}
		return fmt.Errorf("%w: invalid JSON body: %v", errInvalidArgument, err)
	}
	if err := getValidator().Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s is %s", errInvalidArgument, verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", errInvalidArgument, err)
	}
	return nil
}

// RootHandler reports that the API is up.
func (s *Server) RootHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "MedLens API is running!",
			"status":  "healthy",
		})
	}
}

// HealthHandler reports per-service readiness.
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, models.HealthResponse{
			Status: "healthy",
			Services: map[string]string{
				"ocr":         "ready",
				"ai":          readiness(s.Assistant != nil && s.Assistant.Ready()),
				"translation": readiness(s.Translator != nil && s.Translator.Ready()),
				"voice":       readiness(s.Speaker != nil && s.Speaker.Ready()),
			},
		})
	}
}

// serviceDetail prefixes internal failures. Client errors, missing providers
// and timeouts keep their own message.
func serviceDetail(prefix string, err error) string {
	if _, code := statusFor(err); code != codeInternal {
		return err.Error()
	}
	return fmt.Sprintf("%s: %v", prefix, err)
}

func readiness(ready bool) string {
	if ready {
		return "ready"
	}
	return "not_configured"
}

// LanguagesHandler lists supported translation targets.
func (s *Server) LanguagesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, models.LanguagesResponse{Languages: translation.Languages()})
	}
}

// VoicesHandler lists the voices the speech provider offers.
func (s *Server) VoicesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		voices, err := s.Speaker.Voices(r.Context())
		if err != nil {
			writeError(w, r, err, serviceDetail("Error listing voices", err))
			return
		}
		resp := models.VoicesResponse{Voices: make([]models.VoiceOption, 0, len(voices))}
		for _, v := range voices {
			resp.Voices = append(resp.Voices, models.VoiceOption{ID: v.ID, Name: v.Name})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

type extractOutcome struct {
	result *models.ExtractionResult
	err    error
}

// UploadHandler extracts the text of a multipart "file" upload.
func (s *Server) UploadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limitMB := s.opts.MaxUploadBytes >> 20
		tooLargeDetail := fmt.Sprintf("File exceeds the %d MB upload limit.", limitMB)

		r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes+multipartOverhead)
		file, header, err := r.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) || strings.Contains(strings.ToLower(err.Error()), "request body too large") {
				writeError(w, r, errPayloadTooLarge, tooLargeDetail)
				return
			}
			writeError(w, r, fmt.Errorf("%w: %v", errInvalidArgument, err), "File is required.")
			return
		}
		defer func() { _ = file.Close() }()

		if header.Size > s.opts.MaxUploadBytes {
			writeError(w, r, errPayloadTooLarge, tooLargeDetail)
			return
		}
		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: read upload: %v", errInvalidArgument, err), "")
			return
		}

		declared := header.Header.Get("Content-Type")
		mediaType := extraction.NormalizeMediaType(declared)
		if mediaType == "" || mediaType == octetStream {
			mediaType = extraction.NormalizeMediaType(mimetype.Detect(data).String())
		}
		if !extraction.Supported(mediaType) {
			writeError(w, r,
				fmt.Errorf("%w: %s", extraction.ErrUnsupportedMediaType, mediaType),
				fmt.Sprintf("File type %s not supported. Please upload PDF, JPEG, or PNG files.", mediaType))
			return
		}

		log := logger.FromContext(r.Context(), s.log)
		log.Info().Str("file", header.Filename).Str("media_type", string(mediaType)).Msg("Processing file")

		ctx, cancel := context.WithTimeout(r.Context(), s.opts.ExtractionTimeout)
		defer cancel()

		done := make(chan extractOutcome, 1)
		go func() {
			result, err := s.Extractor.Extract(ctx, models.Document{
				Filename:  header.Filename,
				MediaType: mediaType,
				Data:      data,
			})
			done <- extractOutcome{result: result, err: err}
		}()

		var out extractOutcome
		select {
		case out = <-done:
		case <-ctx.Done():
			writeError(w, r, fmt.Errorf("extract %s: %w", header.Filename, ctx.Err()),
				fmt.Sprintf("Extraction did not finish within %s.", s.opts.ExtractionTimeout))
			return
		}

		if errors.Is(out.err, extraction.ErrEmptyText) {
			writeError(w, r, out.err, insufficientDetail)
			return
		}
		if out.err != nil {
			writeError(w, r, out.err, fmt.Sprintf("Error processing file: %v", out.err))
			return
		}
		if err := extraction.Validate(out.result, s.Extractor.MinTextLength()); err != nil {
			writeError(w, r, err, insufficientDetail)
			return
		}

		log.Info().Int("text_length", out.result.Length).Str("tier", string(out.result.Tier)).Msg("Successfully extracted text")
		writeJSON(w, http.StatusOK, models.UploadResponse{
			Success:       true,
			Filename:      header.Filename,
			ExtractedText: out.result.Text,
			TextLength:    out.result.Length,
		})
	}
}

// SimplifyHandler rewrites a report in plain language.
func (s *Server) SimplifyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.SimplifyRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err, "")
			return
		}
		reply, err := s.Assistant.Simplify(r.Context(), req.Text)
		if err != nil {
			writeError(w, r, err, serviceDetail("Error simplifying text", err))
			return
		}
		writeJSON(w, http.StatusOK, models.SimplifyResponse{
			OriginalText:   req.Text,
			SimplifiedText: reply.Text,
			Success:        true,
		})
	}
}

// AskHandler answers a question about a report.
func (s *Server) AskHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.QARequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err, "Question is required")
			return
		}
		reply, err := s.Assistant.Answer(r.Context(), req.Question, req.Context)
		if err != nil {
			writeError(w, r, err, serviceDetail("Error answering question", err))
			return
		}
		writeJSON(w, http.StatusOK, models.QAResponse{
			Question: req.Question,
			Answer:   reply.Text,
			Success:  true,
		})
	}
}

// TranslateHandler translates text into the requested language.
func (s *Server) TranslateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.TranslationRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err, "")
			return
		}
		reply, err := s.Translator.Translate(r.Context(), req.Text, req.TargetLanguage)
		if err != nil {
			writeError(w, r, err, serviceDetail("Error translating text", err))
			return
		}
		writeJSON(w, http.StatusOK, models.TranslationResponse{
			OriginalText:   req.Text,
			TranslatedText: reply.Text,
			TargetLanguage: req.TargetLanguage,
			Success:        true,
		})
	}
}

// SpeechHandler converts text to base64-encoded audio.
func (s *Server) SpeechHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.SpeechRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err, "Text is required")
			return
		}
		audio, err := s.Speaker.Synthesize(r.Context(), req.Text)
		if err != nil {
			writeError(w, r, err, serviceDetail("Error generating speech", err))
			return
		}
		writeJSON(w, http.StatusOK, models.SpeechResponse{
			Success:     true,
			AudioData:   base64.StdEncoding.EncodeToString(audio.Data),
			ContentType: audio.ContentType,
			TextLength:  len(req.Text),
		})
	}
}
