package core

import (
	"testing"
)

func TestNewIDUniqueness(t *testing.T) {
	seen := make(map[ID]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		if id == "" {
			t.Fatal("NewID() returned empty ID")
		}
		if seen[id] {
			t.Fatalf("NewID() returned duplicate ID %s", id)
		}
		seen[id] = true
	}
}

func TestIDFromContentDeterminism(t *testing.T) {
	a := IDFromContent("the same text")
	b := IDFromContent("the same text")
	if a != b {
		t.Fatalf("identical content produced different IDs: %s vs %s", a, b)
	}

	c := IDFromContent("different text")
	if a == c {
		t.Fatalf("different content produced the same ID: %s", a)
	}
}

func TestChunkIDDisambiguation(t *testing.T) {
	// Same content at different positions must get distinct IDs.
	a := ChunkID("note-1", 0, "repeated paragraph")
	b := ChunkID("note-1", 1, "repeated paragraph")
	if a == b {
		t.Fatal("same content at different indices produced the same chunk ID")
	}

	// Same position under different notes too.
	c := ChunkID("note-2", 0, "repeated paragraph")
	if a == c {
		t.Fatal("same content under different notes produced the same chunk ID")
	}
}

func TestEmbeddingText(t *testing.T) {
	tests := []struct {
		name string
		note Note
		want string
	}{
		{
			name: "title and content",
			note: Note{Title: "Title", Content: "body"},
			want: "Title body",
		},
		{
			name: "content only",
			note: Note{Content: "body"},
			want: "body",
		},
		{
			name: "title only",
			note: Note{Title: "Title"},
			want: "Title",
		},
		{
			name: "empty note",
			note: Note{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.note.EmbeddingText(); got != tt.want {
				t.Fatalf("EmbeddingText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHasEmbedding(t *testing.T) {
	note := &Note{Content: "text"}
	if note.HasEmbedding() {
		t.Fatal("note without vector reported an embedding")
	}

	note.Vector = []float32{0.1, 0.2}
	if !note.HasEmbedding() {
		t.Fatal("note with vector reported no embedding")
	}
}
