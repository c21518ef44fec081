package core

//go:generate go run ../cmd/musgen

import (
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/google/uuid"
)

// ID is a unique identifier for domain entities.
// Note IDs are random; chunk IDs are derived from content.
type ID string

// NewID generates a random ID for a new note.
func NewID() ID {
	return ID(uuid.NewString())
}

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(hex.EncodeToString(sum))
}

// Note represents a single text document in the corpus.
// It may be enriched with an embedding vector during processing.
type Note struct {
	Id        ID
	Title     string
	Content   string
	Tags      []string  // Deduplicated, non-empty strings; order not significant
	Vector    []float32 // Embedding vector for semantic search (populated at creation or by backfill)
	CreatedAt time.Time // When the note was inserted into the store
	UpdatedAt time.Time // When the note was last updated
}

// EmbeddingText returns the text that is embedded for this note.
func (n *Note) EmbeddingText() string {
	return strings.TrimSpace(n.Title + " " + n.Content)
}

// HasEmbedding reports whether the note carries an embedding vector.
func (n *Note) HasEmbedding() bool {
	return len(n.Vector) > 0
}

// NoteChunk is a bounded segment of a long note's content, embedded
// independently so long documents remain searchable at sub-document
// granularity. A chunk cannot outlive its note.
type NoteChunk struct {
	Id        ID
	NoteId    ID
	Content   string
	Vector    []float32
	Index     int // Zero-based position of the chunk within its note; contiguous from 0
	CreatedAt time.Time
}

// ChunkID generates a deterministic ID for a chunk from its owning note,
// its position, and its content.
func ChunkID(noteID ID, index int, content string) ID {
	return IDFromContent(string(noteID) + "#" + strconv.Itoa(index) + "#" + content)
}

// SearchResult represents a scored note from similarity search.
type SearchResult struct {
	Note  *Note
	Score float32
}
