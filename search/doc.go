// Package search implements keyword and semantic retrieval over the note
// corpus, including the fallback policy between them and the relatedness
// engine ("find notes similar to this note").
//
// Semantic search is attempted first when a query is present: the query is
// embedded and every embedded note is ranked by cosine similarity, with
// tag filtering applied before scoring. Any failure on that path degrades
// to keyword matching rather than reaching the caller. Keyword matching
// tokenizes the query into OR-ed keywords checked against title, content,
// and tags, AND-ed with any supplied tag conditions, and orders hits by
// most recently updated.
//
// Similarity scoring is an exact brute-force scan over every embedded
// note. That is acceptable at small corpus sizes; larger corpora would
// need an approximate nearest-neighbor index.
package search
