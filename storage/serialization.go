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


package storage

import (
	"github.com/poiesic/notekeep/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalNote serializes a Note to bytes.
func MarshalNote(note *core.Note) []byte {
	buf := make([]byte, core.NoteMUS.Size(*note))
	core.NoteMUS.Marshal(*note, buf)
	return buf
}

// UnmarshalNote deserializes a Note from bytes.
func UnmarshalNote(data []byte) (*core.Note, error) {
	note, _, err := core.NoteMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// MarshalNoteChunk serializes a NoteChunk to bytes.
func MarshalNoteChunk(chunk *core.NoteChunk) []byte {
	buf := make([]byte, core.NoteChunkMUS.Size(*chunk))
	core.NoteChunkMUS.Marshal(*chunk, buf)
	return buf
}

// UnmarshalNoteChunk deserializes a NoteChunk from bytes.
func UnmarshalNoteChunk(data []byte) (*core.NoteChunk, error) {
	chunk, _, err := core.NoteChunkMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &chunk, nil
}
