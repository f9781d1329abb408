package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"medlens/internal/logger"
	"medlens/internal/metrics"
)

// DefaultBaseURL is Gemini's OpenAI-compatible endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "gemini-2.0-flash"

const provider = "gemini"

var (
	// ErrNotConfigured is returned when no usable API key is set.
	ErrNotConfigured = errors.New("AI service not configured")

	// ErrEmptyInput is returned for blank text or questions.
	ErrEmptyInput = errors.New("input text is required")

	// ErrEmptyCompletion is returned when the model answers with no choices or blank content.
	ErrEmptyCompletion = errors.New("no response choices from model")
)

// Config configures the LLM client.
type Config struct {
	APIKey   string        // Gemini API key; empty disables the client
	BaseURL  string        // OpenAI-compatible endpoint
	Model    string        // chat model name
	Timeout  time.Duration // per-call deadline; 0 disables
	DemoMode bool          // serve demo content when not configured
}

// Client sends single-prompt chat completions to an OpenAI-compatible API.
type Client struct {
	openaiClient *openai.Client
	model        string
	timeout      time.Duration
	log          zerolog.Logger
}

// NewClient builds a client. Without an API key the client is created but not Ready.
func NewClient(cfg Config) *Client {
	c := &Client{
		model:   cfg.Model,
		timeout: cfg.Timeout,
		log:     logger.WithComponent("ai"),
	}
	if c.model == "" {
		c.model = DefaultModel
	}

	if strings.TrimSpace(cfg.APIKey) == "" {
		c.log.Warn().Msg("Gemini API key not found, AI features will be disabled")
		return c
	}

	openaiConfig := openai.DefaultConfig(cfg.APIKey)
	openaiConfig.BaseURL = cfg.BaseURL
	if openaiConfig.BaseURL == "" {
		openaiConfig.BaseURL = DefaultBaseURL
	}
	c.openaiClient = openai.NewClientWithConfig(openaiConfig)
	c.log.Info().Str("model", c.model).Msg("Gemini client initialized")
	return c
}

// Ready reports whether an API key was configured.
func (c *Client) Ready() bool {
	return c != nil && c.openaiClient != nil
}

// Complete sends prompt as a single user message and returns the reply text.
// operation labels the call in logs and metrics.
func (c *Client) Complete(ctx context.Context, operation, prompt string) (string, error) {
	const op = "Complete"
	if !c.Ready() {
		return "", ErrNotConfigured
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := c.complete(ctx, prompt)
	metrics.ObserveAIRequest(provider, operation, err, time.Since(start))
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", op, operation, err)
	}

	c.log.Debug().
		Str("operation", operation).
		Int("prompt_length", len(prompt)).
		Int("response_length", len(text)).
		Dur("duration", time.Since(start)).
		Msg("Completion received")
	return text, nil
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.openaiClient.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}
