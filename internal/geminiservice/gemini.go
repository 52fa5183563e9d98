package geminiservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"NutriPulse/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// --- Gemini API Configuration ---
const (
	defaultModel       = "gemini-2.5-flash"
	defaultEndpoint    = "https://generativelanguage.googleapis.com/v1beta/models"
	defaultTimeout     = 30 * time.Second
	structuredMimeType = "application/json"
	apiKeyHeader       = "x-goog-api-key"
)

// ErrUnavailable is returned by the Unavailable generator.
var ErrUnavailable = errors.New("geminiservice: AI generation is not configured")

// Generator turns a prompt into generated text. It is the only thing the
// Personalizer needs from an AI backend.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// StructuredGenerator is implemented by generators that can ask the model for
// JSON matching a schema. The schema is a hint; the output is not validated.
type StructuredGenerator interface {
	Generator
	GenerateStructured(ctx context.Context, prompt string, schema *GeminiSchema) (string, error)
}

type unavailable struct{}

func (unavailable) Generate(context.Context, string) (string, error) {
	return "", ErrUnavailable
}

// Unavailable is the generator used when no model is configured.
var Unavailable Generator = unavailable{}

// --- Structs for Gemini API Request/Response ---

type GeminiPayload struct {
	Contents         []GeminiContent   `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

type GeminiContent struct {
	Parts []GeminiPart `json:"parts"`
}

type GeminiPart struct {
	Text string `json:"text,omitempty"`
}

type GenerationConfig struct {
	ResponseMimeType string        `json:"responseMimeType"`
	ResponseSchema   *GeminiSchema `json:"responseSchema,omitempty"`
}

type GeminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// ClientConfig configures a Gemini Client.
type ClientConfig struct {
	APIKey   string
	Model    string
	Endpoint string
	Timeout  time.Duration

	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
}

// Client calls the Gemini generateContent endpoint. One call is one HTTP
// request: there is no retry and no streaming.
type Client struct {
	config ClientConfig
	client *http.Client
}

// NewClient validates the configuration and applies defaults.
func NewClient(cfg ClientConfig) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("GEMINI_API_KEY is not set")
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	u, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid Gemini endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid Gemini endpoint %q: scheme must be http or https", cfg.Endpoint)
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{config: cfg, client: httpClient}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.config.Model
}

// Generate sends a free-text prompt and returns the model's text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	return c.callGemini(ctx, prompt, nil)
}

// GenerateStructured asks for an application/json answer shaped by schema.
func (c *Client) GenerateStructured(ctx context.Context, prompt string, schema *GeminiSchema) (string, error) {
	return c.callGemini(ctx, prompt, schema)
}

// callGemini handles the actual HTTP request to the Gemini API
func (c *Client) callGemini(ctx context.Context, prompt string, schema *GeminiSchema) (string, error) {
	logger := zerolog.Ctx(ctx)

	payload := GeminiPayload{
		Contents: []GeminiContent{
			{Parts: []GeminiPart{{Text: prompt}}},
		},
	}
	if schema != nil {
		payload.GenerationConfig = &GenerationConfig{
			ResponseMimeType: structuredMimeType,
			ResponseSchema:   schema,
		}
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	// The key travels in a header so it never shows up in *url.Error text.
	endpoint := fmt.Sprintf("%s/%s:generateContent", c.config.Endpoint, url.PathEscape(c.config.Model))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, c.config.APIKey)

	logger.Debug().Str("model", c.config.Model).Bool("structured", schema != nil).Msg("Calling Gemini API...")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned non-200 status: %s, Body: %s", resp.Status, truncate(string(body), 200))
	}

	var geminiResp GeminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if geminiResp.Error != nil {
		return "", fmt.Errorf("gemini error %d: %s", geminiResp.Error.Code, geminiResp.Error.Message)
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("no content found in Gemini response")
	}

	return geminiResp.Candidates[0].Content.Parts[0].Text, nil
}

// NewGeneratorFromConfig builds the process-wide AI capability once at
// startup. Any failure leaves the service on static content for the rest of
// the process; it is never retried.
func NewGeneratorFromConfig(cfg *config.Config) Generator {
	client, err := NewClient(ClientConfig{
		APIKey:   cfg.GeminiAPIKey,
		Model:    cfg.GeminiModel,
		Endpoint: cfg.GeminiEndpoint,
		Timeout:  cfg.GeminiTimeout,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Gemini client unavailable, serving static recommendations")
		return Unavailable
	}

	log.Info().Str("model", client.Model()).Msg("Gemini client initialized")

	if cfg.AICacheSize > 0 {
		cached, err := NewCachedGenerator(client, cfg.AICacheSize)
		if err != nil {
			log.Warn().Err(err).Msg("AI response cache disabled")
			return client
		}
		return cached
	}
	return client
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
