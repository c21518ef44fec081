// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package backfill

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/notekeep/ai"
	"github.com/poiesic/notekeep/core"
	"github.com/poiesic/notekeep/ingestion"
	"github.com/poiesic/notekeep/storage"
)

// Config holds configuration for the backfill operation.
type Config struct {
	// BatchSize is the number of notes to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of notes)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for embedding calls
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Result summarizes a backfill run.
type Result struct {
	// Updated is the number of notes that gained an embedding.
	Updated int

	// Failed is the number of notes that could not be embedded this run.
	// They remain candidates for the next run.
	Failed int
}

// Backfiller finds notes without embeddings and computes them.
//
// One bad note never aborts the run: provider failures, empty bodies, and
// store write failures are counted per note and the run continues. Only a
// failure to enumerate the candidates is fatal. Notes that already carry
// an embedding are never touched, so repeated runs converge.
type Backfiller struct {
	notes    storage.NoteRepository
	chunks   storage.ChunkRepository
	embedder ai.Embedder
	chunker  *ingestion.Chunker
	config   *Config
	progress io.Writer
	logger   *slog.Logger
}

// NewBackfiller creates a new backfiller.
// progress: where to write progress output (typically os.Stderr)
// chunks may be nil to skip re-chunking of long bodies.
func NewBackfiller(
	notes storage.NoteRepository,
	chunks storage.ChunkRepository,
	provider ai.Provider,
	config *Config,
	progress io.Writer,
) (*Backfiller, error) {
	if notes == nil {
		return nil, ErrNoteRepositoryRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Backfiller{
		notes:    notes,
		chunks:   chunks,
		embedder: provider.Embedder(),
		chunker:  ingestion.NewDefaultChunker(),
		config:   config,
		progress: progress,
		logger:   slog.Default(),
	}, nil
}

// SetLogger replaces the default logger.
func (b *Backfiller) SetLogger(logger *slog.Logger) {
	if logger != nil {
		b.logger = logger
	}
}

// Run executes the backfill operation and reports how many notes gained an
// embedding and how many failed.
func (b *Backfiller) Run(ctx context.Context) (*Result, error) {
	candidates, err := b.notes.ListWithoutEmbedding(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes without embeddings: %w", err)
	}

	result := &Result{}
	if len(candidates) == 0 {
		fmt.Fprintf(b.progress, "No notes need embeddings (0 candidates)\n")
		return result, nil
	}

	fmt.Fprintf(b.progress, "Starting embedding backfill of %d notes (batch size: %d)\n",
		len(candidates), b.config.BatchSize)

	tracker := NewProgressTracker(b.progress, len(candidates), b.config.ReportInterval)
	tracker.Start()

	iterator := NewNoteIterator(candidates, b.config.BatchSize)
	err = iterator.ForEach(ctx, func(batch []*core.Note) error {
		b.processBatch(ctx, batch, result)
		tracker.Increment(len(batch))
		return nil
	})
	if err != nil {
		return result, err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(b.progress, "Backfill complete. Updated %d, failed %d of %d notes in %v\n",
		result.Updated, result.Failed, len(candidates), elapsed.Round(time.Second))

	return result, nil
}

// processBatch embeds one batch of notes. Notes with no text to embed are
// counted failed without touching the provider. The batch embedding call is
// retried with backoff; if it still fails, each note is embedded
// individually so one poisoned input cannot sink its batchmates.
func (b *Backfiller) processBatch(ctx context.Context, batch []*core.Note, result *Result) {
	embeddable := make([]*core.Note, 0, len(batch))
	texts := make([]string, 0, len(batch))
	for _, note := range batch {
		text := note.EmbeddingText()
		if text == "" {
			b.logger.Warn("note has no text to embed", "id", note.Id)
			result.Failed++
			continue
		}
		embeddable = append(embeddable, note)
		texts = append(texts, text)
	}
	if len(embeddable) == 0 {
		return
	}

	var embeddings [][]float32
	err := b.config.retryPolicy().Do(ctx, func() error {
		var embedErr error
		embeddings, embedErr = b.embedder.EmbedTexts(ctx, texts)
		return embedErr
	})

	if err != nil || len(embeddings) != len(embeddable) {
		if err != nil {
			b.logger.Warn("batch embedding failed, falling back to per-note embedding",
				"batch", len(embeddable), "err", err)
		} else {
			b.logger.Warn("batch embedding returned wrong count, falling back to per-note embedding",
				"expected", len(embeddable), "got", len(embeddings))
		}
		for i, note := range embeddable {
			b.processNote(ctx, note, texts[i], result)
		}
		return
	}

	for i, note := range embeddable {
		note.Vector = ai.NormalizeVector(embeddings[i])
		b.persistNote(ctx, note, result)
	}
}

// processNote embeds and persists a single note.
func (b *Backfiller) processNote(ctx context.Context, note *core.Note, text string, result *Result) {
	vector, err := b.embedder.EmbedText(ctx, text)
	if err != nil {
		b.logger.Warn("failed to embed note", "id", note.Id, "err", err)
		result.Failed++
		return
	}

	note.Vector = ai.NormalizeVector(vector)
	b.persistNote(ctx, note, result)
}

// persistNote writes the embedded note back and rebuilds chunks for long
// bodies. Chunk failures do not fail the note.
func (b *Backfiller) persistNote(ctx context.Context, note *core.Note, result *Result) {
	if _, err := b.notes.UpdateNotes(ctx, note); err != nil {
		b.logger.Warn("failed to persist embedded note", "id", note.Id, "err", err)
		result.Failed++
		return
	}
	result.Updated++

	if b.chunks != nil && b.chunker.NeedsChunking(note.Content) {
		b.rechunkNote(ctx, note)
	}
}

// rechunkNote rebuilds the chunk set for a long note body. A note reaching
// backfill without an embedding typically has no chunks either; any stale
// ones are replaced.
func (b *Backfiller) rechunkNote(ctx context.Context, note *core.Note) {
	if err := b.chunks.DeleteChunksByNote(ctx, note.Id); err != nil {
		b.logger.Warn("failed to delete stale chunks", "id", note.Id, "err", err)
		return
	}

	segments, err := b.chunker.Split(note.Content)
	if err != nil {
		b.logger.Warn("failed to split note content", "id", note.Id, "err", err)
		return
	}

	chunks := make([]*core.NoteChunk, 0, len(segments))
	for i, segment := range segments {
		vector, err := b.embedder.EmbedText(ctx, segment)
		if err != nil {
			b.logger.Warn("chunk embedding failed", "id", note.Id, "chunk", i, "err", err)
			break
		}
		chunks = append(chunks, &core.NoteChunk{
			NoteId:  note.Id,
			Content: segment,
			Vector:  ai.NormalizeVector(vector),
			Index:   i,
		})
	}
	if len(chunks) == 0 {
		return
	}

	if _, err := b.chunks.AddChunks(ctx, chunks...); err != nil {
		b.logger.Warn("failed to persist chunks", "id", note.Id, "err", err)
	}
}
