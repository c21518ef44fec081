package ingestion

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/poiesic/notekeep/ai"
	"github.com/poiesic/notekeep/ai/mock"
	"github.com/poiesic/notekeep/core"
	"github.com/poiesic/notekeep/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPipeline(t *testing.T) {
	noteRepo, chunkRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() { chunkRepo.Close(); noteRepo.Close(); backend.Close() }()

	provider := mock.NewMockProvider()

	t.Run("valid configuration", func(t *testing.T) {
		pipeline, err := NewPipeline(noteRepo, chunkRepo, provider)
		require.NoError(t, err)
		defer pipeline.Release()
		assert.NotNil(t, pipeline)
	})

	t.Run("nil note repository", func(t *testing.T) {
		_, err := NewPipeline(nil, chunkRepo, provider)
		assert.Equal(t, ErrNoteRepositoryRequired, err)
	})

	t.Run("nil chunk repository", func(t *testing.T) {
		_, err := NewPipeline(noteRepo, nil, provider)
		assert.Equal(t, ErrChunkRepositoryRequired, err)
	})

	t.Run("nil provider", func(t *testing.T) {
		_, err := NewPipeline(noteRepo, chunkRepo, nil)
		assert.Equal(t, ErrProviderRequired, err)
	})
}

func TestCreateNote(t *testing.T) {
	noteRepo, chunkRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() { chunkRepo.Close(); noteRepo.Close(); backend.Close() }()

	pipeline, err := NewPipeline(noteRepo, chunkRepo, mock.NewMockProvider())
	require.NoError(t, err)
	defer pipeline.Release()

	ctx := context.Background()

	id, err := pipeline.CreateNote(ctx, &core.Note{
		Title:   "Short note",
		Content: "a hundred and twenty characters of text is nowhere near the chunking threshold so this note stays in one piece entirely",
		Tags:    []string{" work ", "work", "ideas"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	stored, err := noteRepo.GetNote(ctx, id)
	require.NoError(t, err)

	assert.True(t, stored.HasEmbedding(), "note must be embedded at creation")
	assert.Equal(t, []string{"work", "ideas"}, stored.Tags, "tags must be normalized")

	// Short content produces no chunks
	chunks, err := chunkRepo.GetChunksByNote(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestCreateNote_Invalid(t *testing.T) {
	noteRepo, chunkRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() { chunkRepo.Close(); noteRepo.Close(); backend.Close() }()

	pipeline, err := NewPipeline(noteRepo, chunkRepo, mock.NewMockProvider())
	require.NoError(t, err)
	defer pipeline.Release()

	ctx := context.Background()

	_, err = pipeline.CreateNote(ctx, &core.Note{})
	assert.ErrorIs(t, err, core.ErrEmptyNote)

	_, err = pipeline.CreateNote(ctx, nil)
	assert.ErrorIs(t, err, core.ErrInvalidNote)
}

func TestCreateNote_ProviderDownPersistsWithoutVector(t *testing.T) {
	noteRepo, chunkRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() { chunkRepo.Close(); noteRepo.Close(); backend.Close() }()

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, ai.ErrProvider
	}

	pipeline, err := NewPipeline(noteRepo, chunkRepo, mock.NewMockProviderWithEmbedder(embedder))
	require.NoError(t, err)
	defer pipeline.Release()

	ctx := context.Background()

	id, err := pipeline.CreateNote(ctx, &core.Note{Content: "created while provider is down"})
	require.NoError(t, err, "a provider outage must not fail the write")

	stored, err := noteRepo.GetNote(ctx, id)
	require.NoError(t, err)
	assert.False(t, stored.HasEmbedding(), "note persists without a vector")

	// The unembedded note is now a backfill candidate
	candidates, err := noteRepo.ListWithoutEmbedding(ctx)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, id, candidates[0].Id)
}

func TestCreateNote_CallerSuppliedVectorSkipsProvider(t *testing.T) {
	noteRepo, chunkRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() { chunkRepo.Close(); noteRepo.Close(); backend.Close() }()

	embedder := mock.NewMockEmbedder()
	pipeline, err := NewPipeline(noteRepo, chunkRepo, mock.NewMockProviderWithEmbedder(embedder))
	require.NoError(t, err)
	defer pipeline.Release()

	ctx := context.Background()

	id, err := pipeline.CreateNote(ctx, &core.Note{
		Content: "pre-embedded note",
		Vector:  []float32{3, 4},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, embedder.CallCount(), "caller-supplied vectors skip the provider")

	// The supplied vector persists normalized to unit length
	stored, err := noteRepo.GetNote(ctx, id)
	require.NoError(t, err)
	require.Len(t, stored.Vector, 2)
	assert.InDelta(t, 0.6, stored.Vector[0], 1e-6)
	assert.InDelta(t, 0.8, stored.Vector[1], 1e-6)
}

func TestCreateNote_LongContentIsChunked(t *testing.T) {
	noteRepo, chunkRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() { chunkRepo.Close(); noteRepo.Close(); backend.Close() }()

	pipeline, err := NewPipeline(noteRepo, chunkRepo, mock.NewMockProvider())
	require.NoError(t, err)
	defer pipeline.Release()

	ctx := context.Background()

	var b strings.Builder
	for b.Len() < 2500 {
		b.WriteString("Every paragraph of this long document covers some aspect of the subject in detail.\n\n")
	}

	id, err := pipeline.CreateNote(ctx, &core.Note{Title: "Long document", Content: b.String()})
	require.NoError(t, err)

	chunks, err := chunkRepo.GetChunksByNote(ctx, id)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(chunks), 2, "2500 chars must produce at least two chunks")

	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Index, "chunk indices must be contiguous from zero")
		assert.Equal(t, id, chunk.NoteId)
		assert.True(t, len(chunk.Vector) > 0, "chunk %d must carry an embedding", i)
		assert.NotEmpty(t, chunk.Id)
	}
}

func TestUpdateNote_RebuildsChunksAndEmbedding(t *testing.T) {
	noteRepo, chunkRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() { chunkRepo.Close(); noteRepo.Close(); backend.Close() }()

	pipeline, err := NewPipeline(noteRepo, chunkRepo, mock.NewMockProvider())
	require.NoError(t, err)
	defer pipeline.Release()

	ctx := context.Background()

	var long strings.Builder
	for long.Len() < 2500 {
		long.WriteString("The original draft rambles on for quite a while about nothing in particular.\n\n")
	}

	id, err := pipeline.CreateNote(ctx, &core.Note{Content: long.String()})
	require.NoError(t, err)

	before, err := noteRepo.GetNote(ctx, id)
	require.NoError(t, err)
	beforeChunks, err := chunkRepo.GetChunksByNote(ctx, id)
	require.NoError(t, err)
	require.NotEmpty(t, beforeChunks)

	// Shrink the note below the chunk threshold
	before.Content = "a much shorter revision"
	require.NoError(t, pipeline.UpdateNote(ctx, before))

	after, err := noteRepo.GetNote(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "a much shorter revision", after.Content)
	assert.True(t, after.HasEmbedding(), "edit must be re-embedded")
	assert.NotEqual(t, before.Vector, nil)

	afterChunks, err := chunkRepo.GetChunksByNote(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, afterChunks, "stale chunks must not survive a shrinking edit")
}

func TestUpdateNote_RequiresID(t *testing.T) {
	noteRepo, chunkRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() { chunkRepo.Close(); noteRepo.Close(); backend.Close() }()

	pipeline, err := NewPipeline(noteRepo, chunkRepo, mock.NewMockProvider())
	require.NoError(t, err)
	defer pipeline.Release()

	err = pipeline.UpdateNote(context.Background(), &core.Note{Content: "no id"})
	assert.ErrorIs(t, err, core.ErrEmptyID)
}

func TestChunkNote_PartialEmbeddingKeepsContiguousPrefix(t *testing.T) {
	noteRepo, chunkRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() { chunkRepo.Close(); noteRepo.Close(); backend.Close() }()

	// Fail embedding for any text containing the marker word
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		if strings.Contains(text, "poison") {
			return nil, errors.New("embedding rejected")
		}
		return []float32{1, 0}, nil
	}

	pipeline, err := NewPipeline(noteRepo, chunkRepo,
		mock.NewMockProviderWithEmbedder(embedder), WithPoolSize(1))
	require.NoError(t, err)
	defer pipeline.Release()

	ctx := context.Background()

	var b strings.Builder
	for b.Len() < 1200 {
		b.WriteString("An agreeable paragraph that embeds without any trouble at all.\n\n")
	}
	b.WriteString(strings.Repeat("poison paragraph that the provider rejects. ", 30))

	id, err := pipeline.CreateNote(ctx, &core.Note{Content: b.String()})
	require.NoError(t, err, "chunk failures never fail the note")

	// The note body contains the marker too, so the note itself persists
	// unembedded and becomes a backfill candidate.
	stored, err := noteRepo.GetNote(ctx, id)
	require.NoError(t, err)
	assert.False(t, stored.HasEmbedding())

	chunks, err := chunkRepo.GetChunksByNote(ctx, id)
	require.NoError(t, err)
	require.NotEmpty(t, chunks, "segments before the failure must persist")
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Index, "persisted chunks must form a contiguous prefix")
		assert.NotContains(t, chunk.Content, "poison")
	}
}
