package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/poiesic/notekeep/core"
)

// Key prefixes for different data types
const (
	noteRecordPrefix  = "noterec"
	noteUpdatedPrefix = "noteupd"
	chunkRecordPrefix = "chunkrec"
)

// makeNoteKey generates a key for a note by ID.
func makeNoteKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%s", noteRecordPrefix, id))
}

// makeNoteUpdatedKey generates a composite key for the updated-at index.
// Format: prefix:timestamp:id
func makeNoteUpdatedKey(timestamp time.Time, id core.ID) []byte {
	prefix := noteUpdatedPrefix + ":"
	idBytes := []byte(id)
	buf := make([]byte, len(prefix)+8+len(idBytes))
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	copy(buf[offset:], idBytes)
	return buf
}

// noteUpdatedIndexPrefix returns the prefix shared by all updated-at index keys.
func noteUpdatedIndexPrefix() []byte {
	return []byte(noteUpdatedPrefix + ":")
}

// makeChunkKey generates a composite key for a chunk.
// Format: prefix:noteID:index
// The zero-padded index keeps lexicographic order equal to chunk order.
func makeChunkKey(noteID core.ID, index int) []byte {
	return []byte(fmt.Sprintf("%s:%s:%010d", chunkRecordPrefix, noteID, index))
}

// makePartialChunkKey generates a prefix key for all chunks of a note.
func makePartialChunkKey(noteID core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%s:", chunkRecordPrefix, noteID))
}
