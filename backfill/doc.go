// Package backfill computes embeddings for notes that were persisted
// without one, typically because the embedding provider was unavailable at
// write time.
//
// The operation is failure-tolerant per note and idempotent across runs:
// notes that already carry an embedding are never candidates, each failed
// note is counted and skipped rather than aborting the run, and repeated
// runs make forward progress as the provider recovers.
package backfill
