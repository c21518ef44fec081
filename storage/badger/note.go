package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/notekeep/core"
	"github.com/poiesic/notekeep/storage"
)

// NoteRepository implements storage.NoteRepository for BadgerDB.
type NoteRepository struct {
	backend *Backend
}

var _ storage.NoteRepository = (*NoteRepository)(nil)

// NewNoteRepository creates a new NoteRepository.
func NewNoteRepository(backend *Backend) (*NoteRepository, error) {
	return &NoteRepository{backend: backend}, nil
}

// Close releases resources held by the repository.
func (r *NoteRepository) Close() error {
	return nil
}

// AddNotes adds one or more notes to storage.
func (r *NoteRepository) AddNotes(ctx context.Context, notes ...*core.Note) ([]*core.Note, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, note := range notes {
			if note.Id == "" {
				note.Id = core.NewID()
			}
			if note.CreatedAt.IsZero() {
				note.CreatedAt = now
			}
			note.UpdatedAt = now

			// Store primary record
			key := makeNoteKey(note.Id)
			value := storage.MarshalNote(note)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Update the updated-at index
			updatedKey := makeNoteUpdatedKey(note.UpdatedAt, note.Id)
			if err := tx.Set(updatedKey, storage.MarshalID(note.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return notes, err
}

// UpdateNotes updates existing notes.
func (r *NoteRepository) UpdateNotes(ctx context.Context, notes ...*core.Note) ([]*core.Note, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, note := range notes {
			key := makeNoteKey(note.Id)

			// Read old record to detect changes
			old, err := r.readNote(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			// Preserve creation time, refresh update time
			note.CreatedAt = old.CreatedAt
			note.UpdatedAt = time.Now().UTC()

			// Store updated record
			value := storage.MarshalNote(note)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Move the updated-at index entry
			oldUpdatedKey := makeNoteUpdatedKey(old.UpdatedAt, old.Id)
			if err := tx.Delete(oldUpdatedKey); err != nil {
				return err
			}
			newUpdatedKey := makeNoteUpdatedKey(note.UpdatedAt, note.Id)
			if err := tx.Set(newUpdatedKey, storage.MarshalID(note.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return notes, err
}

// DeleteNotes removes notes by their IDs, cascading to their chunks.
func (r *NoteRepository) DeleteNotes(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeNoteKey(id)

			note, err := r.readNote(tx, key)
			if err != nil {
				return err
			}
			if note == nil {
				return storage.ErrNotFound
			}

			if err := tx.Delete(key); err != nil {
				return err
			}
			if err := tx.Delete(makeNoteUpdatedKey(note.UpdatedAt, note.Id)); err != nil {
				return err
			}

			// Chunks cannot outlive their note
			if err := deleteChunks(tx, id); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetNote retrieves a single note by ID.
func (r *NoteRepository) GetNote(ctx context.Context, id core.ID) (*core.Note, error) {
	var note *core.Note
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		note, err = r.readNote(tx, makeNoteKey(id))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, storage.ErrNotFound
	}
	return note, nil
}

// ListWhere retrieves notes matching the predicate, most recently updated
// first. Walks the updated-at index in reverse so ordering comes from the
// index rather than a sort.
func (r *NoteRepository) ListWhere(ctx context.Context, pred *storage.Predicate, limit, offset int) ([]*core.Note, error) {
	if offset < 0 {
		offset = 0
	}

	var notes []*core.Note
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := noteUpdatedIndexPrefix()
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek past the last possible index key so reverse iteration
		// starts at the newest entry.
		seek := append(append([]byte{}, prefix...), 0xFF)

		skipped := 0
		for iter.Seek(seek); iter.ValidForPrefix(prefix); iter.Next() {
			key := iter.Item().Key()
			id := core.ID(key[len(prefix)+8:])

			note, err := r.readNote(tx, makeNoteKey(id))
			if err != nil {
				return err
			}
			if note == nil {
				continue
			}

			if !pred.Match(note) {
				continue
			}

			if skipped < offset {
				skipped++
				continue
			}

			notes = append(notes, note)
			if limit > 0 && len(notes) >= limit {
				break
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return notes, nil
}

// ListWithEmbedding retrieves every note that carries an embedding vector.
func (r *NoteRepository) ListWithEmbedding(ctx context.Context) ([]*core.Note, error) {
	return r.listByEmbedding(true)
}

// ListWithoutEmbedding retrieves every note lacking an embedding vector.
func (r *NoteRepository) ListWithoutEmbedding(ctx context.Context) ([]*core.Note, error) {
	return r.listByEmbedding(false)
}

func (r *NoteRepository) listByEmbedding(withEmbedding bool) ([]*core.Note, error) {
	var notes []*core.Note
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := []byte(noteRecordPrefix + ":")
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.ValidForPrefix(prefix); iter.Next() {
			var note *core.Note
			err := iter.Item().Value(func(val []byte) error {
				var err error
				note, err = storage.UnmarshalNote(val)
				return err
			})
			if err != nil {
				return err
			}
			if note == nil {
				continue
			}
			if note.HasEmbedding() == withEmbedding {
				notes = append(notes, note)
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return notes, nil
}

// CountNotes returns the total number of notes in storage.
func (r *NoteRepository) CountNotes(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := []byte(noteRecordPrefix + ":")
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.ValidForPrefix(prefix); iter.Next() {
			count++
		}
		return nil
	}, false)

	if err != nil {
		return 0, err
	}
	return count, nil
}

// readNote reads and unmarshals a note within a transaction.
// Returns nil (no error) if the key does not exist.
func (r *NoteRepository) readNote(tx *badger.Txn, key []byte) (*core.Note, error) {
	item, err := tx.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var note *core.Note
	err = item.Value(func(val []byte) error {
		var err error
		note, err = storage.UnmarshalNote(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return note, nil
}
