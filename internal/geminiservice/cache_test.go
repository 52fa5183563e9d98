package geminiservice

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedGeneratorStoresSuccesses(t *testing.T) {
	gen := &fakeGenerator{respond: func(prompt string) (string, error) { return "answer to " + prompt, nil }}
	cached, err := NewCachedGenerator(gen, 2)
	require.NoError(t, err)
	ctx := context.Background()

	first, err := cached.Generate(ctx, "a")
	require.NoError(t, err)
	second, err := cached.Generate(ctx, "a")
	require.NoError(t, err)

	assert.Equal(t, "answer to a", first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, gen.calls())
	assert.Equal(t, 1, cached.Len())
}

func TestCachedGeneratorEvictsOldest(t *testing.T) {
	gen := &fakeGenerator{respond: func(prompt string) (string, error) { return prompt, nil }}
	cached, err := NewCachedGenerator(gen, 2)
	require.NoError(t, err)
	ctx := context.Background()

	for _, prompt := range []string{"a", "b", "c", "a"} {
		_, err := cached.Generate(ctx, prompt)
		require.NoError(t, err)
	}

	assert.Equal(t, 4, gen.calls())
	assert.Equal(t, 2, cached.Len())
}

func TestCachedGeneratorSkipsFailuresAndBlanks(t *testing.T) {
	responses := []struct {
		text string
		err  error
	}{
		{"", errors.New("down")},
		{"   ", nil},
		{"finally", nil},
	}
	i := 0
	gen := &fakeGenerator{respond: func(string) (string, error) {
		r := responses[i]
		i++
		return r.text, r.err
	}}
	cached, err := NewCachedGenerator(gen, 8)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = cached.Generate(ctx, "p")
	assert.Error(t, err)

	text, err := cached.Generate(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, "   ", text)
	assert.Zero(t, cached.Len())

	text, err = cached.Generate(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, "finally", text)
	assert.Equal(t, 1, cached.Len())
	assert.Equal(t, 3, gen.calls())
}

func TestCachedGeneratorKeysBySchema(t *testing.T) {
	gen := &structuredFake{fakeGenerator: fakeGenerator{respond: func(string) (string, error) { return "x", nil }}}
	cached, err := NewCachedGenerator(gen, 8)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = cached.Generate(ctx, "same prompt")
	require.NoError(t, err)
	_, err = cached.GenerateStructured(ctx, "same prompt", MealPlanSchema)
	require.NoError(t, err)
	_, err = cached.GenerateStructured(ctx, "same prompt", MealPlanSchema)
	require.NoError(t, err)

	assert.Equal(t, 2, gen.calls())
	assert.Len(t, gen.schemas, 1)
}

func TestCachedGeneratorPlainFallbackForStructured(t *testing.T) {
	gen := &fakeGenerator{respond: func(string) (string, error) { return "plain", nil }}
	cached, err := NewCachedGenerator(gen, 8)
	require.NoError(t, err)

	text, err := cached.GenerateStructured(context.Background(), "prompt", MealPlanSchema)

	require.NoError(t, err)
	assert.Equal(t, "plain", text)
}

func TestNewCachedGeneratorRejectsBadSize(t *testing.T) {
	_, err := NewCachedGenerator(Unavailable, 0)
	assert.Error(t, err)
}
