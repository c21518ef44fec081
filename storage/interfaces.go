package storage

import (
	"context"

	"github.com/poiesic/notekeep/core"
)

// NoteRepository provides operations for managing notes.
// Implementations must be thread-safe and support concurrent access.
type NoteRepository interface {
	// AddNotes adds one or more notes to storage.
	// For notes with an empty ID, generates a new random ID.
	// Sets CreatedAt/UpdatedAt timestamps.
	// Returns the notes with generated IDs and timestamps populated.
	AddNotes(ctx context.Context, notes ...*core.Note) ([]*core.Note, error)

	// UpdateNotes updates existing notes.
	// Updates the UpdatedAt timestamp automatically and preserves CreatedAt.
	// Returns ErrNotFound if any note doesn't exist.
	UpdateNotes(ctx context.Context, notes ...*core.Note) ([]*core.Note, error)

	// DeleteNotes removes notes by their IDs, cascading to their chunks.
	// Returns ErrNotFound if any note doesn't exist.
	DeleteNotes(ctx context.Context, ids ...core.ID) error

	// GetNote retrieves a single note by ID.
	// Returns ErrNotFound if the note doesn't exist.
	GetNote(ctx context.Context, id core.ID) (*core.Note, error)

	// ListWhere retrieves notes matching the predicate, ordered by most
	// recently updated first. A nil predicate matches every note. The
	// offset is applied after matching; up to limit notes are returned.
	ListWhere(ctx context.Context, pred *Predicate, limit, offset int) ([]*core.Note, error)

	// ListWithEmbedding retrieves every note that carries an embedding vector.
	ListWithEmbedding(ctx context.Context) ([]*core.Note, error)

	// ListWithoutEmbedding retrieves every note lacking an embedding vector.
	ListWithoutEmbedding(ctx context.Context) ([]*core.Note, error)

	// CountNotes returns the total number of notes in storage.
	CountNotes(ctx context.Context) (int, error)

	// Close releases resources held by the repository.
	Close() error
}

// ChunkRepository provides operations for managing note chunks.
type ChunkRepository interface {
	// AddChunks adds one or more chunks to storage.
	// For chunks with an empty ID, derives a content-based ID.
	// Sets the CreatedAt timestamp if not already set.
	// Returns the chunks with IDs and timestamps populated.
	AddChunks(ctx context.Context, chunks ...*core.NoteChunk) ([]*core.NoteChunk, error)

	// GetChunksByNote retrieves all chunks of a note, ordered by chunk index.
	// Returns an empty slice if the note has no chunks.
	GetChunksByNote(ctx context.Context, noteID core.ID) ([]*core.NoteChunk, error)

	// DeleteChunksByNote removes all chunks of a note.
	// Removing chunks of a note that has none is not an error.
	DeleteChunksByNote(ctx context.Context, noteID core.ID) error

	// Close releases resources held by the repository.
	Close() error
}
