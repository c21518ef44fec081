package search

import "github.com/poiesic/notekeep/core"

// SearchMonitor receives callbacks at each stage of the search process.
// Implementations can use it for debugging, tracing, or UI progress.
type SearchMonitor interface {
	// Start is called when a search begins, with the trimmed query.
	Start(query string)

	// AfterQueryEmbedding is called when the query has been embedded.
	AfterQueryEmbedding(vector []float32)

	// AfterScoring is called with the number of candidates scored semantically.
	AfterScoring(candidates int)

	// FallbackToKeyword is called when the semantic attempt failed and the
	// search degrades to keyword matching.
	FallbackToKeyword(reason error)

	// Finish is called with the final ranked results.
	Finish(results []*core.Note)
}

// noopMonitor ignores all callbacks.
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (*noopMonitor) Start(string)                  {}
func (*noopMonitor) AfterQueryEmbedding([]float32) {}
func (*noopMonitor) AfterScoring(int)              {}
func (*noopMonitor) FallbackToKeyword(error)       {}
func (*noopMonitor) Finish([]*core.Note)           {}
