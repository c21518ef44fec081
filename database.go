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


package notekeep

import (
	"context"
	"io"
	"log/slog"

	"github.com/poiesic/notekeep/ai"
	"github.com/poiesic/notekeep/ai/openai"
	"github.com/poiesic/notekeep/backfill"
	"github.com/poiesic/notekeep/core"
	"github.com/poiesic/notekeep/ingestion"
	"github.com/poiesic/notekeep/search"
	"github.com/poiesic/notekeep/storage"
	"github.com/poiesic/notekeep/storage/badger"
)

type Database struct {
	backend   *badger.Backend
	noteRepo  storage.NoteRepository
	chunkRepo storage.ChunkRepository
	provider  ai.Provider
	logger    *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
	inMemory bool
}

// WithAIConfig sets the embedding provider configuration.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithProvider supplies a pre-built embedding provider instead of
// constructing one from the AI configuration. Useful for tests.
func WithProvider(provider ai.Provider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// WithInMemory opens the store in memory, discarding data on close.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	// Apply options
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	// Create note repository
	noteRepo, err := badger.NewNoteRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create chunk repository
	chunkRepo, err := badger.NewChunkRepository(backend)
	if err != nil {
		noteRepo.Close()
		backend.Close()
		return nil, err
	}

	// Create embedding provider with configured settings
	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			chunkRepo.Close()
			noteRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Database{
		backend:   backend,
		noteRepo:  noteRepo,
		chunkRepo: chunkRepo,
		provider:  provider,
		logger:    slog.Default(),
	}, nil
}

func (db *Database) Close() error {
	// Close embedding provider first
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing embedding provider", "err", err)
	}

	// Close repositories
	if err := db.chunkRepo.Close(); err != nil {
		db.logger.Error("error closing chunk repository", "err", err)
		return err
	}
	if err := db.noteRepo.Close(); err != nil {
		db.logger.Error("error closing note repository", "err", err)
		return err
	}

	// Close backend
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) NoteRepository() storage.NoteRepository {
	return db.noteRepo
}

func (db *Database) ChunkRepository() storage.ChunkRepository {
	return db.chunkRepo
}

func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(db.noteRepo, db.chunkRepo, db.provider, opts...)
}

func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(db.noteRepo, db.provider, opts...)
}

func (db *Database) NewBackfiller(config *backfill.Config, progress io.Writer) (*backfill.Backfiller, error) {
	return backfill.NewBackfiller(db.noteRepo, db.chunkRepo, db.provider, config, progress)
}

// CreateNote runs the full ingestion path for a single note and returns
// its id.
func (db *Database) CreateNote(ctx context.Context, note *core.Note) (core.ID, error) {
	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		return "", err
	}
	defer pipeline.Release()

	return pipeline.CreateNote(ctx, note)
}

// Search runs a search with the default searcher.
func (db *Database) Search(ctx context.Context, opts search.Options) ([]*core.Note, error) {
	searcher, err := db.NewSearcher()
	if err != nil {
		return nil, err
	}
	return searcher.Search(ctx, opts)
}

// Related finds notes similar to the given note.
func (db *Database) Related(ctx context.Context, id core.ID, maxResults int) ([]*core.Note, error) {
	searcher, err := db.NewSearcher()
	if err != nil {
		return nil, err
	}
	return searcher.Related(ctx, id, maxResults)
}

// RelatedByVector finds notes similar to a caller-supplied embedding
// vector.
func (db *Database) RelatedByVector(ctx context.Context, vector []float32, maxResults int) ([]*core.Note, error) {
	searcher, err := db.NewSearcher()
	if err != nil {
		return nil, err
	}
	return searcher.RelatedByVector(ctx, vector, maxResults)
}

// BackfillEmbeddings embeds all notes that lack an embedding.
func (db *Database) BackfillEmbeddings(ctx context.Context, progress io.Writer) (*backfill.Result, error) {
	backfiller, err := db.NewBackfiller(nil, progress)
	if err != nil {
		return nil, err
	}
	return backfiller.Run(ctx)
}

// CountNotes returns the total number of stored notes.
func (db *Database) CountNotes(ctx context.Context) (int, error) {
	return db.noteRepo.CountNotes(ctx)
}
