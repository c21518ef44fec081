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


// Package ai defines the embedding service abstraction for notekeep.
//
// This package contains the Embedder and Provider interfaces, the
// similarity primitives used throughout the retrieval core
// (CosineSimilarity, NormalizeVector), and provider configuration.
//
// Implementations live in subpackages:
//
//   - ai/openai: OpenAI-compatible embedding APIs (Ollama, LocalAI, vLLM, ...)
//   - ai/mock: deterministic test doubles
//
// # Failure model
//
// Every provider call is a network round trip that may fail or be slow.
// Implementations wrap failures in ErrProvider and bound every call with
// the configured timeout. Callers in the search and relatedness engines
// treat any Embedder error as a signal to fall back to keyword retrieval;
// the write path persists notes without a vector and leaves the embedding
// to the backfill operation.
//
// # Thread Safety
//
// All Embedder and Provider implementations must be safe for concurrent use.
package ai
