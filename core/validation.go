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


package core

import (
	"fmt"
	"strings"
)

// ValidateNote validates a Note according to domain rules.
//
// Validation rules:
//   - Note must not be nil
//   - Title and Content must not both be empty
//   - Tags must not contain empty or whitespace-only entries
//
// NOT validated (populated later):
//   - Vector (can be empty until embedded)
//   - ID (empty is valid; the repository assigns one on insert)
//   - Timestamps (set by the repository)
func ValidateNote(note *Note) error {
	if note == nil {
		return fmt.Errorf("%w: note is nil", ErrInvalidNote)
	}

	if note.EmbeddingText() == "" {
		return fmt.Errorf("%w: %w", ErrInvalidNote, ErrEmptyNote)
	}

	for _, tag := range note.Tags {
		if strings.TrimSpace(tag) == "" {
			return fmt.Errorf("%w: %w", ErrInvalidNote, ErrEmptyTag)
		}
	}

	return nil
}

// ValidateChunk validates a NoteChunk according to domain rules.
//
// Validation rules:
//   - Chunk must not be nil
//   - NoteId must be set (a chunk cannot exist without its note)
//   - Content must not be empty
//   - Index must not be negative
func ValidateChunk(chunk *NoteChunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.NoteId == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyID)
	}

	if chunk.Content == "" {
		return fmt.Errorf("%w: chunk content cannot be empty", ErrInvalidChunk)
	}

	if chunk.Index < 0 {
		return fmt.Errorf("%w: chunk index %d is negative", ErrInvalidChunk, chunk.Index)
	}

	return nil
}

// NormalizeTags trims whitespace, drops empty entries, and deduplicates
// while preserving first-seen order.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(tags))
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		cleaned := strings.TrimSpace(tag)
		if cleaned == "" || seen[cleaned] {
			continue
		}
		seen[cleaned] = true
		normalized = append(normalized, cleaned)
	}

	if len(normalized) == 0 {
		return nil
	}
	return normalized
}
