package ingestion

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/notekeep/ai"
	"github.com/poiesic/notekeep/core"
	"github.com/poiesic/notekeep/storage"
)

// Pipeline orchestrates the note write path: embedding at creation time,
// chunking of long bodies, and re-embedding on content edits.
// Chunk embeddings are computed concurrently on a worker pool.
type Pipeline struct {
	notes    storage.NoteRepository
	chunks   storage.ChunkRepository
	embedder ai.Embedder
	chunker  *Chunker
	pool     *ants.Pool
	logger   *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent chunk embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		p.pool = pool
		return nil
	}
}

// WithChunker sets a custom chunker.
// Default uses DefaultChunkThreshold/DefaultChunkSize/DefaultChunkOverlap.
func WithChunker(chunker *Chunker) Option {
	return func(p *Pipeline) error {
		if chunker == nil {
			chunker = NewDefaultChunker()
		}
		p.chunker = chunker
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	notes storage.NoteRepository,
	chunks storage.ChunkRepository,
	provider ai.Provider,
	opts ...Option,
) (*Pipeline, error) {
	if notes == nil {
		return nil, ErrNoteRepositoryRequired
	}
	if chunks == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}

	// Default pool size
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		notes:    notes,
		chunks:   chunks,
		embedder: provider.Embedder(),
		chunker:  NewDefaultChunker(),
		pool:     pool,
		logger:   slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// CreateNote validates and persists a note.
//
// If the caller did not supply an embedding, one is computed from the
// note's title and content; an embedding failure is logged and the note
// persists without a vector, to be picked up later by backfill. Bodies
// longer than the chunk threshold are split and each segment embedded and
// stored; chunk failures are logged and never fail the note.
func (p *Pipeline) CreateNote(ctx context.Context, note *core.Note) (core.ID, error) {
	if err := core.ValidateNote(note); err != nil {
		return "", err
	}
	note.Tags = core.NormalizeTags(note.Tags)

	if note.HasEmbedding() {
		// Persisted vectors are always unit length, caller-supplied or not.
		note.Vector = ai.NormalizeVector(note.Vector)
	} else {
		vector, err := p.embedder.EmbedText(ctx, note.EmbeddingText())
		if err != nil {
			p.logger.Warn("embedding failed during note creation, persisting without vector",
				"title", note.Title, "err", err)
		} else {
			note.Vector = ai.NormalizeVector(vector)
		}
	}

	added, err := p.notes.AddNotes(ctx, note)
	if err != nil {
		return "", err
	}
	created := added[0]

	if p.chunker.NeedsChunking(created.Content) {
		p.chunkNote(ctx, created)
	}

	return created.Id, nil
}

// UpdateNote persists content edits to an existing note, recomputing its
// embedding and rebuilding its chunks. The embedding failure policy
// matches CreateNote: the edit persists even when the provider is down.
func (p *Pipeline) UpdateNote(ctx context.Context, note *core.Note) error {
	if err := core.ValidateNote(note); err != nil {
		return err
	}
	if note.Id == "" {
		return core.ErrEmptyID
	}
	note.Tags = core.NormalizeTags(note.Tags)

	vector, err := p.embedder.EmbedText(ctx, note.EmbeddingText())
	if err != nil {
		p.logger.Warn("embedding failed during note update, persisting without vector",
			"id", note.Id, "err", err)
		note.Vector = nil
	} else {
		note.Vector = ai.NormalizeVector(vector)
	}

	if _, err := p.notes.UpdateNotes(ctx, note); err != nil {
		return err
	}

	// Stale chunks describe the old content; rebuild from scratch.
	if err := p.chunks.DeleteChunksByNote(ctx, note.Id); err != nil {
		p.logger.Warn("failed to delete stale chunks", "id", note.Id, "err", err)
	}
	if p.chunker.NeedsChunking(note.Content) {
		p.chunkNote(ctx, note)
	}

	return nil
}

// chunkNote splits the note body, embeds each segment on the worker pool,
// and persists the embedded chunks. Only the contiguous prefix of
// successfully embedded segments is stored so chunk indices stay
// contiguous from zero; the rest is left to backfill.
func (p *Pipeline) chunkNote(ctx context.Context, note *core.Note) {
	segments, err := p.chunker.Split(note.Content)
	if err != nil {
		p.logger.Warn("failed to split note content", "id", note.Id, "err", err)
		return
	}

	vectors := make([][]float32, len(segments))
	var wg sync.WaitGroup
	for i, segment := range segments {
		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			vector, err := p.embedder.EmbedText(ctx, segment)
			if err != nil {
				p.logger.Warn("chunk embedding failed", "id", note.Id, "chunk", i, "err", err)
				return
			}
			vectors[i] = ai.NormalizeVector(vector)
		})
		if submitErr != nil {
			wg.Done()
			p.logger.Warn("failed to submit chunk embedding job", "id", note.Id, "chunk", i, "err", submitErr)
		}
	}
	wg.Wait()

	chunks := make([]*core.NoteChunk, 0, len(segments))
	for i, segment := range segments {
		if vectors[i] == nil {
			p.logger.Warn("persisting partial chunk coverage", "id", note.Id, "chunks", i, "of", len(segments))
			break
		}
		chunks = append(chunks, &core.NoteChunk{
			NoteId:  note.Id,
			Content: segment,
			Vector:  vectors[i],
			Index:   i,
		})
	}
	if len(chunks) == 0 {
		return
	}

	if _, err := p.chunks.AddChunks(ctx, chunks...); err != nil {
		// The parent note persists; partial chunk coverage is an accepted
		// degradation, not a fatal error.
		p.logger.Warn("failed to persist chunks", "id", note.Id, "err", err)
	}
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
