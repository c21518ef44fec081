package ingestion

import (
	"github.com/tmc/langchaingo/textsplitter"
)

const (
	// DefaultChunkThreshold is the content length above which a note is chunked.
	DefaultChunkThreshold = 1000

	// DefaultChunkSize is the target chunk length in characters.
	DefaultChunkSize = 1000

	// DefaultChunkOverlap is how much consecutive chunks overlap.
	DefaultChunkOverlap = 100
)

// Chunker splits long note bodies into overlapping, bounded-length
// segments suitable for individual embedding. Splitting is deterministic
// for identical input and parameters, loses no text, and keeps every
// segment within the configured size.
type Chunker struct {
	threshold int
	size      int
	overlap   int
	splitter  textsplitter.RecursiveCharacter
}

// NewChunker creates a chunker. Non-positive parameters select the defaults.
func NewChunker(threshold, size, overlap int) *Chunker {
	if threshold <= 0 {
		threshold = DefaultChunkThreshold
	}
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = DefaultChunkOverlap
	}

	return &Chunker{
		threshold: threshold,
		size:      size,
		overlap:   overlap,
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(size),
			textsplitter.WithChunkOverlap(overlap),
		),
	}
}

// NewDefaultChunker creates a chunker with the default parameters.
func NewDefaultChunker() *Chunker {
	return NewChunker(DefaultChunkThreshold, DefaultChunkSize, DefaultChunkOverlap)
}

// NeedsChunking reports whether the text is long enough to be chunked.
func (c *Chunker) NeedsChunking(text string) bool {
	return len(text) > c.threshold
}

// Split splits text into ordered, overlapping segments.
func (c *Chunker) Split(text string) ([]string, error) {
	return c.splitter.SplitText(text)
}

// Threshold returns the configured chunking threshold.
func (c *Chunker) Threshold() int {
	return c.threshold
}
