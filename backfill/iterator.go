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

	"github.com/poiesic/notekeep/core"
)

const (
	// DefaultBatchSize is the default number of notes to process in each batch
	DefaultBatchSize = 100
)

// NoteIterator iterates over a fixed set of candidate notes in batches.
type NoteIterator struct {
	notes     []*core.Note
	batchSize int
}

// NewNoteIterator creates a new note iterator over the candidate slice.
// batchSize: number of notes to hand to fn in each batch (must be > 0)
func NewNoteIterator(notes []*core.Note, batchSize int) *NoteIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &NoteIterator{
		notes:     notes,
		batchSize: batchSize,
	}
}

// ForEach iterates over all candidate notes, calling fn for each batch.
// Iteration stops on first error from fn or when all notes are processed.
// Context cancellation is checked between batches.
func (it *NoteIterator) ForEach(ctx context.Context, fn func([]*core.Note) error) error {
	if len(it.notes) == 0 {
		return nil
	}

	// Check context before starting
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	for i := 0; i < len(it.notes); i += it.batchSize {
		end := i + it.batchSize
		if end > len(it.notes) {
			end = len(it.notes)
		}

		if err := fn(it.notes[i:end]); err != nil {
			return err
		}

		// Check context after each batch
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	return nil
}
