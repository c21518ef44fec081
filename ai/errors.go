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


package ai

import "errors"

var (
	// ErrProvider indicates the embedding backend failed, timed out, or
	// returned a malformed response.
	ErrProvider = errors.New("embedding provider failure")

	// ErrEmptyEmbedding indicates the provider returned an empty vector.
	ErrEmptyEmbedding = errors.New("provider returned empty embedding")

	// ErrEmbeddingCountMismatch indicates a batch call returned a different
	// number of vectors than texts submitted.
	ErrEmbeddingCountMismatch = errors.New("embedding count does not match input count")
)
