package voice

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanForSpeech(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"markdown and acronyms", "**Diagnosis:** STEMI w/o complications", "Diagnosis:  S-T-E-M-I without complications"},
		{"vitals", "BP 120/80, HR 72.", "blood pressure 120/80, heart rate 72."},
		{"units and with", "Aspirin 81mg daily;take w/ food", "Aspirin 81milligrams daily; take with food"},
		{"procedures", "PCI to LAD, ECG vs baseline", "P-C-I to L-A-D, E-C-G versus baseline"},
		{"volume", "*Saline* 500ml", "Saline 500milliliters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanForSpeech(tt.in))
		})
	}
}

func TestDemoTone(t *testing.T) {
	wav := DemoTone()
	require.Len(t, wav, 44+demoSampleRate*2)

	assert.Equal(t, "RIFF", string(wav[0:4]))
	assert.Equal(t, uint32(len(wav)-8), binary.LittleEndian.Uint32(wav[4:8]))
	assert.Equal(t, "WAVE", string(wav[8:12]))
	assert.Equal(t, "fmt ", string(wav[12:16]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(wav[20:22]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(wav[22:24]))
	assert.Equal(t, uint32(demoSampleRate), binary.LittleEndian.Uint32(wav[24:28]))
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(wav[34:36]))
	assert.Equal(t, "data", string(wav[36:40]))
	assert.Equal(t, uint32(demoSampleRate*2), binary.LittleEndian.Uint32(wav[40:44]))

	var peak int16
	for i := 44; i < len(wav); i += 2 {
		s := int16(binary.LittleEndian.Uint16(wav[i : i+2]))
		if s > peak {
			peak = s
		}
	}
	assert.Equal(t, int16(0), int16(binary.LittleEndian.Uint16(wav[44:46])))
	assert.InDelta(t, 3276, peak, 5)
}

func newElevenLabsServer(t *testing.T, status int) (*httptest.Server, *speechRequest) {
	t.Helper()
	captured := &speechRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("xi-api-key"))
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/text-to-speech/voice-1":
			assert.Equal(t, "audio/mpeg", r.Header.Get("Accept"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(captured))
			if status != http.StatusOK {
				http.Error(w, `{"detail":"quota exceeded"}`, status)
				return
			}
			w.Header().Set("Content-Type", "audio/mpeg")
			_, _ = w.Write([]byte("ID3-fake-mp3"))
		case r.Method == http.MethodGet && r.URL.Path == "/v1/voices":
			_, _ = w.Write([]byte(`{"voices":[{"voice_id":"voice-1","name":"Rachel"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, captured
}

func testConfig(baseURL string) Config {
	return Config{
		APIKey:  "test-key",
		VoiceID: "voice-1",
		BaseURL: baseURL + "/",
		ModelID: "eleven_monolingual_v1",
		Timeout: 5 * time.Second,
	}
}

func TestSynthesize(t *testing.T) {
	t.Run("provider audio", func(t *testing.T) {
		srv, captured := newElevenLabsServer(t, http.StatusOK)
		svc := New(testConfig(srv.URL))
		require.True(t, svc.Ready())

		audio, err := svc.Synthesize(context.Background(), "**BP** is fine")
		require.NoError(t, err)
		assert.False(t, audio.Demo)
		assert.Equal(t, "audio/mpeg", audio.ContentType)
		assert.Equal(t, []byte("ID3-fake-mp3"), audio.Data)

		assert.Equal(t, "blood pressure is fine", captured.Text)
		assert.Equal(t, "eleven_monolingual_v1", captured.ModelID)
		assert.Equal(t, DefaultVoiceSettings, captured.VoiceSettings)
	})

	t.Run("provider error serves demo tone", func(t *testing.T) {
		srv, _ := newElevenLabsServer(t, http.StatusTooManyRequests)
		audio, err := New(testConfig(srv.URL)).Synthesize(context.Background(), "hello")
		require.NoError(t, err)
		assert.True(t, audio.Demo)
		assert.Equal(t, "audio/wav", audio.ContentType)
		assert.Equal(t, DemoTone(), audio.Data)
	})

	t.Run("canceled context is returned", func(t *testing.T) {
		srv, _ := newElevenLabsServer(t, http.StatusOK)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := New(testConfig(srv.URL)).Synthesize(ctx, "hello")
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("not configured", func(t *testing.T) {
		svc := New(Config{})
		assert.False(t, svc.Ready())
		_, err := svc.Synthesize(context.Background(), "hello")
		assert.ErrorIs(t, err, ErrNotConfigured)

		audio, err := New(Config{DemoMode: true}).Synthesize(context.Background(), "hello")
		require.NoError(t, err)
		assert.True(t, audio.Demo)
	})

	t.Run("blank input", func(t *testing.T) {
		_, err := New(Config{DemoMode: true}).Synthesize(context.Background(), "  \n")
		assert.ErrorIs(t, err, ErrEmptyInput)
	})
}

func TestVoices(t *testing.T) {
	srv, _ := newElevenLabsServer(t, http.StatusOK)
	voices, err := New(testConfig(srv.URL)).Voices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Voice{{ID: "voice-1", Name: "Rachel"}}, voices)

	_, err = New(Config{}).Voices(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestElevenLabsClientStatusError(t *testing.T) {
	srv, _ := newElevenLabsServer(t, http.StatusUnauthorized)
	_, _, err := NewElevenLabsClient(testConfig(srv.URL), srv.Client()).TextToSpeech(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "elevenlabs returned 401")
	assert.Contains(t, err.Error(), "quota exceeded")
}
