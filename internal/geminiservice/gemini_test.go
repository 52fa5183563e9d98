package geminiservice

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"NutriPulse/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// geminiStub serves canned generateContent responses and records requests.
type geminiStub struct {
	status   int
	body     string
	calls    atomic.Int32
	mu       sync.Mutex
	lastPath string
	lastKey  string
	lastURL  string
	lastBody GeminiPayload
}

func (s *geminiStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.calls.Add(1)
	raw, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	s.lastPath = r.URL.Path
	s.lastKey = r.Header.Get("x-goog-api-key")
	s.lastURL = r.URL.String()
	_ = json.Unmarshal(raw, &s.lastBody)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(s.status)
	_, _ = io.WriteString(w, s.body)
}

func newStubClient(t *testing.T, stub *geminiStub) *Client {
	t.Helper()
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	client, err := NewClient(ClientConfig{
		APIKey:   "test-key",
		Model:    "gemini-test",
		Endpoint: srv.URL + "/v1beta/models/",
	})
	require.NoError(t, err)
	return client
}

func textResponse(text string) string {
	b, _ := json.Marshal(map[string]any{
		"candidates": []any{
			map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": text}}}},
		},
	})
	return string(b)
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(ClientConfig{})
	assert.Error(t, err)

	_, err = NewClient(ClientConfig{APIKey: "   "})
	assert.Error(t, err)

	_, err = NewClient(ClientConfig{APIKey: "k", Endpoint: "ftp://example.com"})
	assert.Error(t, err)

	_, err = NewClient(ClientConfig{APIKey: "k", Endpoint: "://bad"})
	assert.Error(t, err)

	client, err := NewClient(ClientConfig{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, defaultModel, client.Model())
	assert.Equal(t, defaultTimeout, client.client.Timeout)
}

func TestClientGenerate(t *testing.T) {
	stub := &geminiStub{status: http.StatusOK, body: textResponse("Eat more greens")}
	client := newStubClient(t, stub)

	text, err := client.Generate(context.Background(), "what should I eat?")

	require.NoError(t, err)
	assert.Equal(t, "Eat more greens", text)
	assert.EqualValues(t, 1, stub.calls.Load())

	stub.mu.Lock()
	defer stub.mu.Unlock()
	assert.Equal(t, "/v1beta/models/gemini-test:generateContent", stub.lastPath)
	assert.Equal(t, "test-key", stub.lastKey)
	assert.NotContains(t, stub.lastURL, "test-key")
	require.Len(t, stub.lastBody.Contents, 1)
	assert.Equal(t, "what should I eat?", stub.lastBody.Contents[0].Parts[0].Text)
	assert.Nil(t, stub.lastBody.GenerationConfig)
}

func TestClientGenerateStructuredSendsSchema(t *testing.T) {
	stub := &geminiStub{status: http.StatusOK, body: textResponse(`{"breakfast":"oats"}`)}
	client := newStubClient(t, stub)

	text, err := client.GenerateStructured(context.Background(), "plan my day", MealPlanSchema)

	require.NoError(t, err)
	assert.Equal(t, `{"breakfast":"oats"}`, text)

	stub.mu.Lock()
	defer stub.mu.Unlock()
	require.NotNil(t, stub.lastBody.GenerationConfig)
	assert.Equal(t, "application/json", stub.lastBody.GenerationConfig.ResponseMimeType)
	require.NotNil(t, stub.lastBody.GenerationConfig.ResponseSchema)
	assert.Equal(t, MealSlots, stub.lastBody.GenerationConfig.ResponseSchema.Required)
}

func TestClientErrorsAreNotRetried(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"error":{"code":500,"message":"boom"}}`},
		{"rate limited", http.StatusTooManyRequests, `quota`},
		{"error object", http.StatusOK, `{"error":{"code":400,"message":"API key not valid"}}`},
		{"no candidates", http.StatusOK, `{"candidates":[]}`},
		{"no parts", http.StatusOK, `{"candidates":[{"content":{"parts":[]}}]}`},
		{"not json", http.StatusOK, `<html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &geminiStub{status: tt.status, body: tt.body}
			client := newStubClient(t, stub)

			_, err := client.Generate(context.Background(), "prompt")

			assert.Error(t, err)
			assert.EqualValues(t, 1, stub.calls.Load())
		})
	}
}

func TestClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	client, err := NewClient(ClientConfig{APIKey: "SUPERSECRET", Endpoint: endpoint})
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "SUPERSECRET")
}

func TestUnavailable(t *testing.T) {
	_, err := Unavailable.Generate(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestNewGeneratorFromConfig(t *testing.T) {
	t.Run("missing key is unavailable", func(t *testing.T) {
		gen := NewGeneratorFromConfig(&config.Config{GeminiAPIKey: ""})
		assert.Equal(t, Unavailable, gen)
	})

	t.Run("bad endpoint is unavailable", func(t *testing.T) {
		gen := NewGeneratorFromConfig(&config.Config{GeminiAPIKey: "k", GeminiEndpoint: "not a url"})
		assert.Equal(t, Unavailable, gen)
	})

	t.Run("cache wraps the client", func(t *testing.T) {
		gen := NewGeneratorFromConfig(&config.Config{GeminiAPIKey: "k", AICacheSize: 4})
		cached, ok := gen.(*CachedGenerator)
		require.True(t, ok)
		assert.IsType(t, &Client{}, cached.Unwrap())
	})

	t.Run("zero cache size returns the bare client", func(t *testing.T) {
		gen := NewGeneratorFromConfig(&config.Config{GeminiAPIKey: "k", AICacheSize: 0})
		assert.IsType(t, &Client{}, gen)
	})
}
