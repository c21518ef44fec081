package ingestion

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNeedsChunking(t *testing.T) {
	chunker := NewDefaultChunker()

	assert.False(t, chunker.NeedsChunking(""))
	assert.False(t, chunker.NeedsChunking(strings.Repeat("a", DefaultChunkThreshold)))
	assert.True(t, chunker.NeedsChunking(strings.Repeat("a", DefaultChunkThreshold+1)))
}

func TestSplitShortText(t *testing.T) {
	chunker := NewDefaultChunker()

	segments, err := chunker.Split("a short paragraph")
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, "a short paragraph", segments[0])
}

func TestSplitLongText(t *testing.T) {
	chunker := NewDefaultChunker()

	// Paragraph-separated text comfortably over the threshold
	var b strings.Builder
	for i := 0; i < 30; i++ {
		b.WriteString("This paragraph talks about a different subject each time it repeats itself in the document.")
		b.WriteString("\n\n")
	}
	text := b.String()
	require.Greater(t, len(text), DefaultChunkThreshold)

	segments, err := chunker.Split(text)
	require.NoError(t, err)
	require.Greater(t, len(segments), 1, "long text must split into multiple segments")

	for i, segment := range segments {
		assert.LessOrEqual(t, len(segment), DefaultChunkSize, "segment %d exceeds chunk size", i)
		assert.NotEmpty(t, segment)
	}
}

func TestSplitLosesNoTokens(t *testing.T) {
	chunker := NewDefaultChunker()

	// Distinct token per paragraph so a dropped paragraph is detectable
	var b strings.Builder
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&b, "Paragraph number-%d covers its own subject in a few full sentences of text.\n\n", i)
	}
	text := b.String()
	require.Greater(t, len(text), DefaultChunkThreshold)

	segments, err := chunker.Split(text)
	require.NoError(t, err)
	require.Greater(t, len(segments), 1)

	joined := strings.Join(segments, "\n")
	for _, token := range strings.Fields(text) {
		assert.Contains(t, joined, token, "splitting must not drop any token")
	}
	for i, segment := range segments {
		assert.LessOrEqual(t, len(segment), DefaultChunkSize+DefaultChunkOverlap,
			"segment %d exceeds the size bound", i)
	}
}

func TestSplitDeterminism(t *testing.T) {
	chunker := NewDefaultChunker()
	text := strings.Repeat("determinism check sentence. ", 100)

	first, err := chunker.Split(text)
	require.NoError(t, err)
	second, err := chunker.Split(text)
	require.NoError(t, err)

	assert.Equal(t, first, second, "splitting must be deterministic")
}

func TestNewChunkerParameterDefaults(t *testing.T) {
	t.Run("non-positive values select defaults", func(t *testing.T) {
		chunker := NewChunker(0, -1, -1)
		assert.Equal(t, DefaultChunkThreshold, chunker.Threshold())
	})

	t.Run("overlap at least chunk size selects default overlap", func(t *testing.T) {
		chunker := NewChunker(500, 200, 200)
		segments, err := chunker.Split(strings.Repeat("word ", 200))
		require.NoError(t, err)
		assert.NotEmpty(t, segments)
	})

	t.Run("custom threshold", func(t *testing.T) {
		chunker := NewChunker(50, 100, 10)
		assert.True(t, chunker.NeedsChunking(strings.Repeat("a", 51)))
		assert.False(t, chunker.NeedsChunking(strings.Repeat("a", 50)))
	})
}
