package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/notekeep/core"
	"github.com/poiesic/notekeep/storage"
)

// ChunkRepository implements storage.ChunkRepository for BadgerDB.
type ChunkRepository struct {
	backend *Backend
}

var _ storage.ChunkRepository = (*ChunkRepository)(nil)

// NewChunkRepository creates a new ChunkRepository.
func NewChunkRepository(backend *Backend) (*ChunkRepository, error) {
	return &ChunkRepository{backend: backend}, nil
}

// Close releases resources held by the repository.
func (r *ChunkRepository) Close() error {
	return nil
}

// AddChunks adds one or more chunks to storage.
func (r *ChunkRepository) AddChunks(ctx context.Context, chunks ...*core.NoteChunk) ([]*core.NoteChunk, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, chunk := range chunks {
			if err := core.ValidateChunk(chunk); err != nil {
				return err
			}
			if chunk.Id == "" {
				chunk.Id = core.ChunkID(chunk.NoteId, chunk.Index, chunk.Content)
			}
			if chunk.CreatedAt.IsZero() {
				chunk.CreatedAt = now
			}

			key := makeChunkKey(chunk.NoteId, chunk.Index)
			value := storage.MarshalNoteChunk(chunk)
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return chunks, err
}

// GetChunksByNote retrieves all chunks of a note, ordered by chunk index.
// The zero-padded key layout makes index order equal to key order.
func (r *ChunkRepository) GetChunksByNote(ctx context.Context, noteID core.ID) ([]*core.NoteChunk, error) {
	var chunks []*core.NoteChunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makePartialChunkKey(noteID)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.ValidForPrefix(prefix); iter.Next() {
			var chunk *core.NoteChunk
			err := iter.Item().Value(func(val []byte) error {
				var err error
				chunk, err = storage.UnmarshalNoteChunk(val)
				return err
			})
			if err != nil {
				return err
			}
			if chunk != nil {
				chunks = append(chunks, chunk)
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return chunks, nil
}

// DeleteChunksByNote removes all chunks of a note.
func (r *ChunkRepository) DeleteChunksByNote(ctx context.Context, noteID core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := deleteChunks(tx, noteID); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// deleteChunks removes all chunk keys of a note within a transaction.
// Shared with the note repository's cascade delete.
func deleteChunks(tx *badger.Txn, noteID core.ID) error {
	prefix := makePartialChunkKey(noteID)
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	iter := tx.NewIterator(opts)

	var keys [][]byte
	for iter.Rewind(); iter.ValidForPrefix(prefix); iter.Next() {
		keys = append(keys, iter.Item().KeyCopy(nil))
	}
	iter.Close()

	for _, key := range keys {
		if err := tx.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
