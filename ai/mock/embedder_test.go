package mock

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedderDeterminism(t *testing.T) {
	ctx := context.Background()
	embedder := NewMockEmbedder()

	a, err := embedder.EmbedText(ctx, "same text")
	require.NoError(t, err)
	b, err := embedder.EmbedText(ctx, "same text")
	require.NoError(t, err)
	assert.Equal(t, a, b, "same text must embed identically")

	c, err := embedder.EmbedText(ctx, "other text")
	require.NoError(t, err)
	assert.NotEqual(t, a, c, "different text should embed differently")
}

func TestMockEmbedderVectorShape(t *testing.T) {
	ctx := context.Background()
	embedder := NewMockEmbedder()

	vector, err := embedder.EmbedText(ctx, "shape check")
	require.NoError(t, err)
	require.Len(t, vector, 384)

	// Default vectors are unit length.
	var magnitude float32
	for _, v := range vector {
		magnitude += v * v
	}
	magnitude = float32(math.Sqrt(float64(magnitude)))
	assert.InDelta(t, 1.0, magnitude, 1e-5)
}

func TestMockEmbedderInjection(t *testing.T) {
	ctx := context.Background()
	embedder := NewMockEmbedder()

	injected := errors.New("provider down")
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, injected
	}

	_, err := embedder.EmbedText(ctx, "anything")
	assert.ErrorIs(t, err, injected)
	assert.Equal(t, 1, embedder.CallCount())

	embedder.Reset()
	assert.Equal(t, 0, embedder.CallCount())

	_, err = embedder.EmbedText(ctx, "anything")
	assert.NoError(t, err, "Reset must clear injected behavior")
}

func TestMockEmbedderBatch(t *testing.T) {
	ctx := context.Background()
	embedder := NewMockEmbedder()

	vectors, err := embedder.EmbedTexts(ctx, []string{"one", "two", "one"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	assert.Equal(t, vectors[0], vectors[2], "batch embedding must match per-text determinism")
	assert.NotEqual(t, vectors[0], vectors[1])
}

func TestMockProviderClose(t *testing.T) {
	provider := NewMockProvider()
	assert.NotNil(t, provider.Embedder())
	assert.False(t, provider.Closed())

	require.NoError(t, provider.Close())
	assert.True(t, provider.Closed())
}
