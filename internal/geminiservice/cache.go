package geminiservice

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
)

// CachedGenerator remembers successful answers per prompt. Errors and blank
// answers are passed through and never stored.
type CachedGenerator struct {
	next  Generator
	cache *lru.Cache[string, string]
}

// NewCachedGenerator wraps next with an LRU cache holding up to size answers.
func NewCachedGenerator(next Generator, size int) (*CachedGenerator, error) {
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &CachedGenerator{next: next, cache: cache}, nil
}

// Generate implements Generator.
func (c *CachedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return c.lookup(ctx, cacheKey(prompt, nil), func() (string, error) {
		return c.next.Generate(ctx, prompt)
	})
}

// GenerateStructured implements StructuredGenerator. When the wrapped
// generator has no structured mode the prompt is sent as plain text.
func (c *CachedGenerator) GenerateStructured(ctx context.Context, prompt string, schema *GeminiSchema) (string, error) {
	sg, ok := c.next.(StructuredGenerator)
	if !ok {
		return c.Generate(ctx, prompt)
	}
	return c.lookup(ctx, cacheKey(prompt, schema), func() (string, error) {
		return sg.GenerateStructured(ctx, prompt, schema)
	})
}

// Len reports how many answers are cached.
func (c *CachedGenerator) Len() int {
	return c.cache.Len()
}

// Unwrap returns the wrapped generator.
func (c *CachedGenerator) Unwrap() Generator {
	return c.next
}

func (c *CachedGenerator) lookup(ctx context.Context, key string, generate func() (string, error)) (string, error) {
	if text, ok := c.cache.Get(key); ok {
		zerolog.Ctx(ctx).Debug().Str("cache_key", key[:12]).Msg("AI response cache hit")
		return text, nil
	}

	text, err := generate()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) != "" {
		c.cache.Add(key, text)
	}
	return text, nil
}

func cacheKey(prompt string, schema *GeminiSchema) string {
	h := sha256.New()
	if schema != nil {
		schemaJSON, _ := json.Marshal(schema)
		h.Write(schemaJSON)
	}
	h.Write([]byte{0})
	h.Write([]byte(prompt))
	return hex.EncodeToString(h.Sum(nil))
}
