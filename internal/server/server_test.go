package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medlens/internal/assistant"
	"medlens/internal/extraction"
	"medlens/internal/ocr"
	"medlens/internal/translation"
	"medlens/internal/voice"
	"medlens/pkg/models"
)

type fakeExtractor struct {
	mu    sync.Mutex
	text  string
	err   error
	block bool
	docs  []models.Document
}

func (f *fakeExtractor) Extract(ctx context.Context, doc models.Document) (*models.ExtractionResult, error) {
	f.mu.Lock()
	f.docs = append(f.docs, doc)
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return models.NewExtractionResult(f.text, models.TierTextLayer, 1), nil
}

func (f *fakeExtractor) MinTextLength() int { return extraction.DefaultMinTextLength }

func (f *fakeExtractor) calls() []models.Document {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Document(nil), f.docs...)
}

type fakeAssistant struct {
	ready bool
	err   error
}

func (f *fakeAssistant) Ready() bool { return f.ready }

func (f *fakeAssistant) Simplify(_ context.Context, text string) (assistant.Reply, error) {
	if f.err != nil {
		return assistant.Reply{}, f.err
	}
	return assistant.Reply{Text: "simple: " + text}, nil
}

func (f *fakeAssistant) Answer(_ context.Context, question, reportContext string) (assistant.Reply, error) {
	if f.err != nil {
		return assistant.Reply{}, f.err
	}
	if strings.TrimSpace(question) == "" {
		return assistant.Reply{}, assistant.ErrEmptyInput
	}
	return assistant.Reply{Text: fmt.Sprintf("answer to %q given %q", question, reportContext)}, nil
}

type fakeTranslator struct {
	ready bool
}

func (f *fakeTranslator) Ready() bool { return f.ready }

func (f *fakeTranslator) Translate(_ context.Context, text, target string) (assistant.Reply, error) {
	if !f.ready {
		return assistant.Reply{}, translation.ErrNotConfigured
	}
	return assistant.Reply{Text: target + ": " + text}, nil
}

type fakeSpeaker struct {
	ready  bool
	voices []voice.Voice
	err    error
}

func (f *fakeSpeaker) Ready() bool { return f.ready }

func (f *fakeSpeaker) Synthesize(_ context.Context, text string) (voice.Audio, error) {
	if !f.ready {
		return voice.Audio{}, voice.ErrNotConfigured
	}
	return voice.Audio{Data: []byte("mp3:" + text), ContentType: "audio/mpeg"}, nil
}

func (f *fakeSpeaker) Voices(context.Context) ([]voice.Voice, error) {
	if !f.ready {
		return nil, voice.ErrNotConfigured
	}
	return f.voices, f.err
}

type fixture struct {
	extractor *fakeExtractor
	handler   http.Handler
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	ext := &fakeExtractor{text: "Patient admitted with chest pain."}
	srv := New(ext, &fakeAssistant{ready: true}, &fakeTranslator{ready: true}, &fakeSpeaker{ready: true}, opts)
	return &fixture{extractor: ext, handler: srv.Router()}
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(t *testing.T, path string, body interface{}) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func uploadRequest(t *testing.T, filename, contentType string, data []byte) *http.Request {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.False(t, env.Success)
	return env
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestRootAndHealth(t *testing.T) {
	f := newFixture(t, Options{})

	rec := f.do(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"MedLens API is running!","status":"healthy"}`, rec.Body.String())

	srv := New(&fakeExtractor{}, &fakeAssistant{ready: true}, &fakeTranslator{}, &fakeSpeaker{}, Options{})
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var health models.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, map[string]string{
		"ocr":         "ready",
		"ai":          "ready",
		"translation": "not_configured",
		"voice":       "not_configured",
	}, health.Services)
}

func TestLanguagesHandler(t *testing.T) {
	rec := newFixture(t, Options{}).do(httptest.NewRequest(http.MethodGet, "/languages", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.LanguagesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Languages, 23)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t, Options{})
	f.do(httptest.NewRequest(http.MethodGet, "/", nil))

	rec := f.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestUploadHandler(t *testing.T) {
	t.Run("pdf", func(t *testing.T) {
		f := newFixture(t, Options{})
		rec := f.do(uploadRequest(t, "report.pdf", "application/pdf", []byte("%PDF-1.4 fake")))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp models.UploadResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "report.pdf", resp.Filename)
		assert.Equal(t, "Patient admitted with chest pain.", resp.ExtractedText)
		assert.Equal(t, len("Patient admitted with chest pain."), resp.TextLength)

		docs := f.extractor.calls()
		require.Len(t, docs, 1)
		assert.Equal(t, models.MediaTypePDF, docs[0].MediaType)
	})

	t.Run("image/jpg alias", func(t *testing.T) {
		f := newFixture(t, Options{})
		rec := f.do(uploadRequest(t, "scan.jpg", "image/jpg", []byte{0xFF, 0xD8, 0xFF}))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, models.MediaTypeJPEG, f.extractor.calls()[0].MediaType)
	})

	t.Run("octet-stream is sniffed", func(t *testing.T) {
		f := newFixture(t, Options{})
		rec := f.do(uploadRequest(t, "scan", "application/octet-stream", pngBytes(t)))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, models.MediaTypePNG, f.extractor.calls()[0].MediaType)
	})

	t.Run("unsupported type", func(t *testing.T) {
		f := newFixture(t, Options{})
		rec := f.do(uploadRequest(t, "notes.txt", "text/plain", []byte("hello world, long enough")))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, codeUnsupportedMedia, env.Error.Code)
		assert.Equal(t, "File type text/plain not supported. Please upload PDF, JPEG, or PNG files.", env.Detail)
		assert.Empty(t, f.extractor.calls())
	})

	t.Run("missing file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("not multipart"))
		req.Header.Set("Content-Type", "text/plain")
		rec := newFixture(t, Options{}).do(req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, codeInvalidArgument, decodeEnvelope(t, rec).Error.Code)
	})

	t.Run("file over limit", func(t *testing.T) {
		f := newFixture(t, Options{MaxUploadBytes: 1024})
		rec := f.do(uploadRequest(t, "big.pdf", "application/pdf", bytes.Repeat([]byte("A"), 4096)))
		require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.Equal(t, codePayloadTooLarge, decodeEnvelope(t, rec).Error.Code)
		assert.Empty(t, f.extractor.calls())
	})

	t.Run("body over limit", func(t *testing.T) {
		f := newFixture(t, Options{MaxUploadBytes: 1024})
		rec := f.do(uploadRequest(t, "big.pdf", "application/pdf", bytes.Repeat([]byte("A"), 2*multipartOverhead)))
		require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.Equal(t, codePayloadTooLarge, decodeEnvelope(t, rec).Error.Code)
	})

	t.Run("too little text", func(t *testing.T) {
		f := newFixture(t, Options{})
		f.extractor.text = "  short  "
		rec := f.do(uploadRequest(t, "scan.png", "image/png", pngBytes(t)))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, codeInsufficientText, env.Error.Code)
		assert.Contains(t, env.Detail, "Could not extract meaningful text")
	})

	t.Run("decode failure", func(t *testing.T) {
		f := newFixture(t, Options{})
		f.extractor.err = extraction.WrapError("Extract", models.MediaTypePNG, ocr.NewOCRError("Decode", ocr.ErrDecode, "png"))
		rec := f.do(uploadRequest(t, "scan.png", "image/png", []byte("not an image")))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, codeInternal, env.Error.Code)
		assert.True(t, strings.HasPrefix(env.Detail, "Error processing file: "))
	})

	t.Run("timeout", func(t *testing.T) {
		f := newFixture(t, Options{ExtractionTimeout: 20 * time.Millisecond})
		f.extractor.block = true
		rec := f.do(uploadRequest(t, "slow.pdf", "application/pdf", []byte("%PDF-1.4")))
		require.Equal(t, http.StatusGatewayTimeout, rec.Code)
		assert.Equal(t, codeTimeout, decodeEnvelope(t, rec).Error.Code)
	})
}

func TestSimplifyHandler(t *testing.T) {
	f := newFixture(t, Options{})
	rec := f.do(jsonRequest(t, "/simplify", models.SimplifyRequest{Text: "STEMI"}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"original_text":"STEMI","simplified_text":"simple: STEMI","success":true}`, rec.Body.String())

	rec = f.do(jsonRequest(t, "/simplify", map[string]string{}))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, codeInvalidArgument, env.Error.Code)
	assert.Contains(t, env.Detail, "text is required")

	srv := New(&fakeExtractor{}, &fakeAssistant{err: assistant.ErrNotConfigured}, &fakeTranslator{}, &fakeSpeaker{}, Options{})
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, jsonRequest(t, "/simplify", models.SimplifyRequest{Text: "x"}))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	env = decodeEnvelope(t, rec)
	assert.Equal(t, codeNotConfigured, env.Error.Code)
	assert.Equal(t, "AI service not configured", env.Detail)

	srv = New(&fakeExtractor{}, &fakeAssistant{err: errors.New("boom")}, &fakeTranslator{}, &fakeSpeaker{}, Options{})
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, jsonRequest(t, "/simplify", models.SimplifyRequest{Text: "x"}))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Error simplifying text: boom", decodeEnvelope(t, rec).Detail)
}

func TestAskHandler(t *testing.T) {
	f := newFixture(t, Options{})
	rec := f.do(jsonRequest(t, "/ask", models.QARequest{Question: "What is a stent?", Context: "PCI done"}))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.QAResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "What is a stent?", resp.Question)
	assert.Equal(t, `answer to "What is a stent?" given "PCI done"`, resp.Answer)

	rec = f.do(jsonRequest(t, "/ask", map[string]string{"context": "PCI done"}))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Question is required", decodeEnvelope(t, rec).Detail)

	rec = f.do(jsonRequest(t, "/ask", models.QARequest{Question: "   "}))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTranslateHandler(t *testing.T) {
	f := newFixture(t, Options{})
	rec := f.do(jsonRequest(t, "/translate", models.TranslationRequest{Text: "Rest.", TargetLanguage: "spanish"}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"original_text":"Rest.","translated_text":"spanish: Rest.","target_language":"spanish","success":true}`, rec.Body.String())

	rec = f.do(jsonRequest(t, "/translate", map[string]string{"text": "Rest."}))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeEnvelope(t, rec).Detail, "target_language is required")

	req := httptest.NewRequest(http.MethodPost, "/translate", strings.NewReader("{not json"))
	rec = f.do(req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSpeechHandler(t *testing.T) {
	f := newFixture(t, Options{})
	rec := f.do(jsonRequest(t, "/text-to-speech", models.SpeechRequest{Text: "hello"}))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.SpeechResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 5, resp.TextLength)
	assert.Equal(t, "audio/mpeg", resp.ContentType)
	audio, err := base64.StdEncoding.DecodeString(resp.AudioData)
	require.NoError(t, err)
	assert.Equal(t, "mp3:hello", string(audio))

	rec = f.do(jsonRequest(t, "/text-to-speech", map[string]string{"text": ""}))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Text is required", decodeEnvelope(t, rec).Detail)

	srv := New(&fakeExtractor{}, &fakeAssistant{}, &fakeTranslator{}, &fakeSpeaker{}, Options{})
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, jsonRequest(t, "/text-to-speech", models.SpeechRequest{Text: "hello"}))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "voice service not configured", decodeEnvelope(t, rec).Detail)
}

func TestMiddleware(t *testing.T) {
	t.Run("request id", func(t *testing.T) {
		f := newFixture(t, Options{})
		rec := f.do(httptest.NewRequest(http.MethodGet, "/", nil))
		assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(requestIDHeader, "req-123")
		rec = f.do(req)
		assert.Equal(t, "req-123", rec.Header().Get(requestIDHeader))
	})

	t.Run("security headers", func(t *testing.T) {
		rec := newFixture(t, Options{}).do(httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	})

	t.Run("cors allow list", func(t *testing.T) {
		f := newFixture(t, Options{AllowedOrigins: []string{"http://localhost:5173"}})

		req := httptest.NewRequest(http.MethodOptions, "/simplify", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := f.do(req)
		assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

		req = httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://evil.example")
		rec = f.do(req)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("rate limit on POST routes", func(t *testing.T) {
		f := newFixture(t, Options{RateLimitPerMin: 1})
		rec := f.do(jsonRequest(t, "/simplify", models.SimplifyRequest{Text: "one"}))
		require.Equal(t, http.StatusOK, rec.Code)
		rec = f.do(jsonRequest(t, "/simplify", models.SimplifyRequest{Text: "two"}))
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)

		rec = f.do(httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("recoverer", func(t *testing.T) {
		h := Recoverer(New(nil, nil, nil, nil, Options{}).log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, codeInternal, decodeEnvelope(t, rec).Error.Code)
	})
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{extraction.NewError("Extract", "text/plain", extraction.ErrUnsupportedMediaType), http.StatusBadRequest},
		{fmt.Errorf("wrap: %w", extraction.ErrInsufficientContent), http.StatusBadRequest},
		{voice.ErrEmptyInput, http.StatusBadRequest},
		{translation.ErrNotConfigured, http.StatusServiceUnavailable},
		{fmt.Errorf("x: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{extraction.NewError("Extract", models.MediaTypePNG, extraction.ErrEmptyText), http.StatusBadRequest},
		{fmt.Errorf("%w: render", extraction.ErrExtractionFailed), http.StatusInternalServerError},
		{errPayloadTooLarge, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		status, _ := statusFor(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
	}
}

type stubEngine struct {
	text string
}

func (e stubEngine) Name() string { return "stub" }

func (e stubEngine) Recognize(context.Context, ocr.Input) (string, error) { return e.text, nil }

func TestUploadHandler_ImagePipeline(t *testing.T) {
	tests := []struct {
		name     string
		ocrText  string
		wantCode int
	}{
		{"blank scan", "", http.StatusBadRequest},
		{"whitespace only", "  \n\t ", http.StatusBadRequest},
		{"too short", "abc", http.StatusBadRequest},
		{"readable", "Discharge summary: stable.", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			images := ocr.NewImageExtractor(stubEngine{text: tt.ocrText}, "")
			svc := extraction.NewService(nil, images, extraction.Config{TempDir: t.TempDir()})
			srv := New(svc, &fakeAssistant{}, &fakeTranslator{}, &fakeSpeaker{}, Options{})

			rec := httptest.NewRecorder()
			srv.Router().ServeHTTP(rec, uploadRequest(t, "scan.png", "image/png", pngBytes(t)))
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())

			if tt.wantCode == http.StatusOK {
				var resp models.UploadResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, tt.ocrText, resp.ExtractedText)
				return
			}
			env := decodeEnvelope(t, rec)
			assert.Equal(t, codeInsufficientText, env.Error.Code)
			assert.Equal(t, insufficientDetail, env.Detail)
		})
	}
}

func TestServiceDetail(t *testing.T) {
	assert.Equal(t, "AI service not configured", serviceDetail("Error simplifying text", assistant.ErrNotConfigured))
	assert.Equal(t, "voice service not configured", serviceDetail("Error generating speech", voice.ErrNotConfigured))
	assert.Equal(t, "text is required", serviceDetail("Error generating speech", voice.ErrEmptyInput))
	assert.Equal(t, "Error translating text: boom", serviceDetail("Error translating text", errors.New("boom")))
}

func TestVoicesHandler(t *testing.T) {
	speaker := &fakeSpeaker{ready: true, voices: []voice.Voice{{ID: "21m00Tcm4TlvDq8ikWAM", Name: "Rachel"}}}
	srv := New(&fakeExtractor{}, &fakeAssistant{}, &fakeTranslator{}, speaker, Options{})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/voices", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"voices":[{"voice_id":"21m00Tcm4TlvDq8ikWAM","name":"Rachel"}]}`, rec.Body.String())

	speaker.voices, speaker.err = nil, errors.New("elevenlabs returned 401: bad key")
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/voices", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Error listing voices: elevenlabs returned 401: bad key", decodeEnvelope(t, rec).Detail)

	srv = New(&fakeExtractor{}, &fakeAssistant{}, &fakeTranslator{}, &fakeSpeaker{}, Options{})
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/voices", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "voice service not configured", decodeEnvelope(t, rec).Detail)
}
