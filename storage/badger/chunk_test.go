package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/notekeep/core"
)

func TestChunkBasics(t *testing.T) {
	noteRepo, chunkRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { chunkRepo.Close(); noteRepo.Close(); backend.Close() }()

	ctx := context.Background()

	added, err := chunkRepo.AddChunks(ctx, &core.NoteChunk{
		NoteId:  "note-1",
		Content: "the first segment",
		Index:   0,
	})
	if err != nil {
		t.Fatalf("Failed to add chunk: %v", err)
	}

	if added[0].Id == "" {
		t.Fatal("Expected chunk ID to be assigned")
	}
	if added[0].CreatedAt.IsZero() {
		t.Fatal("Expected chunk timestamp to be set")
	}

	// Deterministic ID derivation
	expected := core.ChunkID("note-1", 0, "the first segment")
	if added[0].Id != expected {
		t.Fatalf("Expected chunk ID %s, got %s", expected, added[0].Id)
	}
}

func TestChunkInvalidRejected(t *testing.T) {
	noteRepo, chunkRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { chunkRepo.Close(); noteRepo.Close(); backend.Close() }()

	ctx := context.Background()

	_, err = chunkRepo.AddChunks(ctx, &core.NoteChunk{Content: "orphan", Index: 0})
	if !errors.Is(err, core.ErrInvalidChunk) {
		t.Fatalf("Expected ErrInvalidChunk, got %v", err)
	}
}

func TestGetChunksByNoteOrdering(t *testing.T) {
	noteRepo, chunkRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { chunkRepo.Close(); noteRepo.Close(); backend.Close() }()

	ctx := context.Background()

	// Insert out of order; retrieval must come back in index order
	_, err = chunkRepo.AddChunks(ctx,
		&core.NoteChunk{NoteId: "note-1", Content: "third", Index: 2},
		&core.NoteChunk{NoteId: "note-1", Content: "first", Index: 0},
		&core.NoteChunk{NoteId: "note-1", Content: "second", Index: 1},
		&core.NoteChunk{NoteId: "note-2", Content: "other note", Index: 0},
	)
	if err != nil {
		t.Fatalf("Failed to add chunks: %v", err)
	}

	chunks, err := chunkRepo.GetChunksByNote(ctx, "note-1")
	if err != nil {
		t.Fatalf("Failed to get chunks: %v", err)
	}

	if len(chunks) != 3 {
		t.Fatalf("Expected 3 chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if chunk.Index != i {
			t.Fatalf("Expected chunk %d at position %d, got index %d", i, i, chunk.Index)
		}
	}
	if chunks[0].Content != "first" || chunks[2].Content != "third" {
		t.Fatalf("Chunks out of order: [%s %s %s]",
			chunks[0].Content, chunks[1].Content, chunks[2].Content)
	}
}

func TestDeleteChunksByNote(t *testing.T) {
	noteRepo, chunkRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { chunkRepo.Close(); noteRepo.Close(); backend.Close() }()

	ctx := context.Background()

	_, err = chunkRepo.AddChunks(ctx,
		&core.NoteChunk{NoteId: "note-1", Content: "a", Index: 0},
		&core.NoteChunk{NoteId: "note-1", Content: "b", Index: 1},
		&core.NoteChunk{NoteId: "note-2", Content: "c", Index: 0},
	)
	if err != nil {
		t.Fatalf("Failed to add chunks: %v", err)
	}

	if err := chunkRepo.DeleteChunksByNote(ctx, "note-1"); err != nil {
		t.Fatalf("Failed to delete chunks: %v", err)
	}

	chunks, err := chunkRepo.GetChunksByNote(ctx, "note-1")
	if err != nil {
		t.Fatalf("Failed to get chunks: %v", err)
	}
	if len(chunks) != 0 {
		t.Fatalf("Expected 0 chunks after delete, got %d", len(chunks))
	}

	// Other notes are untouched
	other, err := chunkRepo.GetChunksByNote(ctx, "note-2")
	if err != nil {
		t.Fatalf("Failed to get chunks: %v", err)
	}
	if len(other) != 1 {
		t.Fatalf("Expected note-2 chunks to survive, got %d", len(other))
	}
}
