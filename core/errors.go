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

import "errors"

// Domain validation errors
var (
	// ErrInvalidNote indicates a Note failed validation.
	ErrInvalidNote = errors.New("invalid note")

	// ErrEmptyNote indicates a note has neither title nor content.
	ErrEmptyNote = errors.New("note must have a title or content")

	// ErrEmptyTag indicates a tag is empty or whitespace-only.
	ErrEmptyTag = errors.New("tag cannot be empty")

	// ErrEmptyID indicates an ID is empty where one is required.
	ErrEmptyID = errors.New("id cannot be empty")

	// ErrEmptyVector indicates an embedding vector is empty where one is required.
	ErrEmptyVector = errors.New("vector cannot be empty")

	// ErrInvalidChunk indicates a NoteChunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")
)
