package backfill

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/notekeep/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeNotes(n int) []*core.Note {
	notes := make([]*core.Note, n)
	for i := range notes {
		notes[i] = &core.Note{Id: core.NewID(), Content: "note"}
	}
	return notes
}

func TestNoteIterator_Batching(t *testing.T) {
	iterator := NewNoteIterator(makeNotes(25), 10)

	var batchSizes []int
	err := iterator.ForEach(context.Background(), func(batch []*core.Note) error {
		batchSizes = append(batchSizes, len(batch))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{10, 10, 5}, batchSizes)
}

func TestNoteIterator_Empty(t *testing.T) {
	iterator := NewNoteIterator(nil, 10)

	calls := 0
	err := iterator.ForEach(context.Background(), func(batch []*core.Note) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, calls, "no batches for an empty candidate set")
}

func TestNoteIterator_StopsOnError(t *testing.T) {
	iterator := NewNoteIterator(makeNotes(30), 10)

	expectedErr := errors.New("batch failed")
	calls := 0
	err := iterator.ForEach(context.Background(), func(batch []*core.Note) error {
		calls++
		if calls == 2 {
			return expectedErr
		}
		return nil
	})
	assert.Equal(t, expectedErr, err)
	assert.Equal(t, 2, calls, "iteration stops on first error")
}

func TestNoteIterator_ContextCancellation(t *testing.T) {
	iterator := NewNoteIterator(makeNotes(30), 10)

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := iterator.ForEach(ctx, func(batch []*core.Note) error {
		calls++
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls, "cancellation is checked between batches")
}

func TestNoteIterator_InvalidBatchSizeUsesDefault(t *testing.T) {
	iterator := NewNoteIterator(makeNotes(3), 0)

	calls := 0
	err := iterator.ForEach(context.Background(), func(batch []*core.Note) error {
		calls++
		assert.Len(t, batch, 3)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
