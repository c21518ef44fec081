// Package ingestion implements the note write path: validation, embedding
// at creation time, chunking of long bodies, and re-embedding on edits.
//
// Embedding failures on the write path never fail the write. Notes persist
// without a vector and are picked up by the backfill operation; chunk
// failures are logged and leave partial chunk coverage at worst.
package ingestion
