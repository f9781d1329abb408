package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"

	"medlens/internal/assistant"
	"medlens/internal/extraction"
	"medlens/internal/logger"
	"medlens/internal/ocr"
	"medlens/internal/voice"
)

// Placeholder values shipped in the sample .env file. A key equal to its
// placeholder counts as unset.
const (
	GeminiKeyPlaceholder     = "your_gemini_api_key_here"
	ElevenLabsKeyPlaceholder = "your_elevenlabs_api_key_here"
)

type Config struct {
	// Server Configuration
	Host                  string        `env:"HOST" envDefault:"0.0.0.0"`
	Port                  int           `env:"PORT" envDefault:"8000"`
	AppEnv                string        `env:"APP_ENV" envDefault:"dev"`
	CORSAllowOrigins      string        `env:"CORS_ALLOW_ORIGINS" envDefault:"http://localhost:5173,http://localhost:3000,https://codered-w5ep.onrender.com"`
	RateLimitPerMin       int           `env:"RATE_LIMIT_PER_MIN" envDefault:"60"`
	MaxUploadMB           int64         `env:"MAX_UPLOAD_MB" envDefault:"20"`
	HTTPReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
	HTTPWriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"180s"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Extraction Configuration
	ExtractionTimeout time.Duration `env:"EXTRACTION_TIMEOUT" envDefault:"120s"`
	MinTextLength     int           `env:"MIN_TEXT_LENGTH" envDefault:"10"`
	TempDir           string        `env:"TEMP_DIR"`
	RasterDPI         int           `env:"RASTER_DPI" envDefault:"300"`

	// OCR Configuration
	OCREngine                    string `env:"OCR_ENGINE" envDefault:"tesseract"`
	OCRLanguage                  string `env:"OCR_LANGUAGE" envDefault:"eng"`
	TessdataPrefix               string `env:"TESSDATA_PREFIX"`
	GoogleCredentials            string `env:"GOOGLE_CREDENTIALS"`
	GoogleApplicationCredentials string `env:"GOOGLE_APPLICATION_CREDENTIALS"`
	DocumentAIProjectID          string `env:"DOCUMENTAI_PROJECT_ID"`
	DocumentAILocation           string `env:"DOCUMENTAI_LOCATION" envDefault:"us"`
	DocumentAIProcessorID        string `env:"DOCUMENTAI_PROCESSOR_ID"`

	// Gemini Configuration
	GeminiAPIKey string        `env:"GEMINI_API_KEY"`
	AIBaseURL    string        `env:"AI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta/openai/"`
	AIModel      string        `env:"AI_MODEL" envDefault:"gemini-2.0-flash"`
	AITimeout    time.Duration `env:"AI_TIMEOUT" envDefault:"60s"`

	// ElevenLabs Configuration
	ElevenLabsAPIKey  string `env:"ELEVENLABS_API_KEY"`
	ElevenLabsVoiceID string `env:"ELEVENLABS_VOICE_ID" envDefault:"21m00Tcm4TlvDq8ikWAM"`
	ElevenLabsBaseURL string `env:"ELEVENLABS_BASE_URL" envDefault:"https://api.elevenlabs.io"`
	ElevenLabsModelID string `env:"ELEVENLABS_MODEL_ID" envDefault:"eleven_monolingual_v1"`

	// DemoMode serves canned content when a provider is not configured.
	DemoMode bool `env:"DEMO_MODE" envDefault:"false"`

	// Logging Configuration
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat     string `env:"LOG_FORMAT" envDefault:"console"`
	LogTimeFormat string `env:"LOG_TIME_FORMAT" envDefault:"2006-01-02T15:04:05Z07:00"`
	LogOutput     string `env:"LOG_OUTPUT" envDefault:"stdout"`
}

func Load() (*Config, error) {
	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("config parse failed: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive")
	}
	if c.ExtractionTimeout <= 0 {
		return fmt.Errorf("EXTRACTION_TIMEOUT must be positive")
	}
	if c.MinTextLength < 0 {
		return fmt.Errorf("MIN_TEXT_LENGTH must not be negative")
	}
	if c.RasterDPI < 72 || c.RasterDPI > 600 {
		return fmt.Errorf("RASTER_DPI must be between 72 and 600, got %d", c.RasterDPI)
	}
	switch strings.ToLower(c.OCREngine) {
	case ocr.EngineTesseract, ocr.EngineVision:
	case ocr.EngineDocumentAI:
		if c.DocumentAIProjectID == "" || c.DocumentAIProcessorID == "" {
			return fmt.Errorf("DOCUMENTAI_PROJECT_ID and DOCUMENTAI_PROCESSOR_ID are required when OCR_ENGINE=%s", ocr.EngineDocumentAI)
		}
	default:
		return fmt.Errorf("OCR_ENGINE must be %q, %q or %q, got %q", ocr.EngineTesseract, ocr.EngineVision, ocr.EngineDocumentAI, c.OCREngine)
	}
	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be console or json, got %q", c.LogFormat)
	}
	return nil
}

// Addr returns the listen address built from HOST and PORT
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// IsProd reports whether APP_ENV names a production deployment
func (c *Config) IsProd() bool {
	return strings.EqualFold(c.AppEnv, "prod") || strings.EqualFold(c.AppEnv, "production")
}

// AllowedOrigins splits CORS_ALLOW_ORIGINS into trimmed, non-empty origins
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.CORSAllowOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// MaxUploadBytes returns the upload size cap in bytes
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

// AI returns the Gemini settings shared by the assistant and translation services
func (c *Config) AI() assistant.Config {
	return assistant.Config{
		APIKey:   credential(c.GeminiAPIKey, GeminiKeyPlaceholder),
		BaseURL:  c.AIBaseURL,
		Model:    c.AIModel,
		Timeout:  c.AITimeout,
		DemoMode: c.DemoMode,
	}
}

// Voice returns the ElevenLabs settings
func (c *Config) Voice() voice.Config {
	return voice.Config{
		APIKey:   credential(c.ElevenLabsAPIKey, ElevenLabsKeyPlaceholder),
		VoiceID:  c.ElevenLabsVoiceID,
		BaseURL:  c.ElevenLabsBaseURL,
		ModelID:  c.ElevenLabsModelID,
		Timeout:  c.AITimeout,
		DemoMode: c.DemoMode,
	}
}

// OCR returns the OCR engine settings
func (c *Config) OCR() ocr.Config {
	return ocr.Config{
		Engine:          strings.ToLower(c.OCREngine),
		Language:        c.OCRLanguage,
		TessdataPrefix:  c.TessdataPrefix,
		CredentialsJSON: c.GoogleCredentials,
		CredentialsFile: c.GoogleApplicationCredentials,

		DocumentAIProject:   c.DocumentAIProjectID,
		DocumentAILocation:  c.DocumentAILocation,
		DocumentAIProcessor: c.DocumentAIProcessorID,
	}
}

// Extraction returns the orchestrator settings
func (c *Config) Extraction() extraction.Config {
	return extraction.Config{
		TempDir:       c.TempDir,
		MinTextLength: c.MinTextLength,
	}
}

// credential returns value unless it is blank or the sample placeholder.
func credential(value, placeholder string) string {
	value = strings.TrimSpace(value)
	if value == placeholder {
		return ""
	}
	return value
}
