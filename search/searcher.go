package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/poiesic/notekeep/ai"
	"github.com/poiesic/notekeep/core"
	"github.com/poiesic/notekeep/storage"
)

const (
	// DefaultLimit is used when Options.Limit is zero.
	DefaultLimit = 10

	// MaxLimit caps the number of results a single search can return.
	MaxLimit = 100
)

// Options holds search parameters.
type Options struct {
	// Query is the free-text query. Empty means "no text condition".
	Query string

	// Tags restricts results: every tag must match one of a note's tags.
	Tags []string

	// Limit is clamped to [1, MaxLimit]; zero selects DefaultLimit.
	Limit int

	// Offset skips that many ranked results; negative is treated as zero.
	Offset int

	// KeywordOnly skips the semantic attempt and goes straight to keyword
	// matching. The zero value gives semantic-first behavior.
	KeywordOnly bool
}

// Searcher answers keyword and semantic queries over the note corpus,
// degrading from semantic to keyword matching whenever the embedding
// provider is unavailable.
type Searcher struct {
	notes    storage.NoteRepository
	embedder ai.Embedder
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(notes storage.NoteRepository, provider ai.Provider, opts ...Option) (*Searcher, error) {
	if notes == nil {
		return nil, ErrNoteRepositoryRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}

	s := &Searcher{
		notes:    notes,
		embedder: provider.Embedder(),
		logger:   slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search runs a query against the corpus.
//
// With a non-empty query and semantic search enabled, the query is embedded
// and every embedded note is ranked by cosine similarity. Any failure on
// that path (provider down, malformed vector, store failure) degrades to
// keyword matching with the same parameters instead of surfacing an error:
// retrieval never hard-fails merely because the embedding provider is
// unavailable. With no query and no tags, the most recently updated notes
// are returned.
func (s *Searcher) Search(ctx context.Context, opts Options) ([]*core.Note, error) {
	return s.SearchWithMonitor(ctx, opts, nil)
}

// SearchWithMonitor runs a search, reporting each stage to the monitor.
func (s *Searcher) SearchWithMonitor(ctx context.Context, opts Options, monitor SearchMonitor) ([]*core.Note, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	limit := clampLimit(opts.Limit, DefaultLimit, MaxLimit)
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	query := strings.TrimSpace(opts.Query)
	monitor.Start(query)

	if !opts.KeywordOnly && query != "" {
		notes, err := s.semantic(ctx, query, opts.Tags, limit, offset, monitor)
		if err == nil {
			monitor.Finish(notes)
			return notes, nil
		}
		s.logger.Warn("semantic search failed, falling back to keyword search", "query", query, "err", err)
		monitor.FallbackToKeyword(err)
	}

	notes, err := s.keyword(ctx, query, opts.Tags, limit, offset)
	if err != nil {
		// Read paths stay usable through transient storage failures.
		s.logger.Warn("keyword search failed, returning empty result", "err", err)
		notes = []*core.Note{}
	}
	monitor.Finish(notes)
	return notes, nil
}

// semantic embeds the query and ranks every embedded note by cosine
// similarity. Tag filtering happens before scoring so ranking never spends
// work on excluded notes.
func (s *Searcher) semantic(ctx context.Context, query string, tags []string, limit, offset int, monitor SearchMonitor) ([]*core.Note, error) {
	vector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, err
	}
	monitor.AfterQueryEmbedding(vector)

	candidates, err := s.notes.ListWithEmbedding(ctx)
	if err != nil {
		return nil, err
	}

	if len(tags) > 0 {
		candidates = filterByTags(candidates, tags)
	}

	results := make([]core.SearchResult, 0, len(candidates))
	for _, note := range candidates {
		// CosineSimilarity returns 0 for dimension mismatches and zero
		// vectors, so a bad note degrades its own score, never the search.
		score := ai.CosineSimilarity(vector, note.Vector)
		results = append(results, core.SearchResult{Note: note, Score: score})
	}
	monitor.AfterScoring(len(results))

	// Stable sort keeps repository order deterministic on score ties.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return paginate(results, limit, offset), nil
}

// keyword compiles the query and tags into a predicate and lists matches
// ordered by most recently updated. An empty predicate yields the corpus's
// recent default view.
func (s *Searcher) keyword(ctx context.Context, query string, tags []string, limit, offset int) ([]*core.Note, error) {
	pred := buildPredicate(query, tags)
	if pred.Empty() {
		return s.notes.ListWhere(ctx, nil, limit, offset)
	}
	return s.notes.ListWhere(ctx, pred, limit, offset)
}

// filterByTags keeps notes whose tags satisfy every supplied tag.
func filterByTags(notes []*core.Note, tags []string) []*core.Note {
	pred := &storage.Predicate{}
	for _, tag := range tags {
		cleaned := strings.ToLower(strings.TrimSpace(tag))
		if cleaned != "" {
			pred.Tags = append(pred.Tags, cleaned)
		}
	}
	if pred.Empty() {
		return notes
	}

	filtered := make([]*core.Note, 0, len(notes))
	for _, note := range notes {
		if pred.Match(note) {
			filtered = append(filtered, note)
		}
	}
	return filtered
}

// paginate applies offset and limit with bounds clamped to the result
// length: an over-large offset returns empty instead of failing.
func paginate(results []core.SearchResult, limit, offset int) []*core.Note {
	if offset >= len(results) {
		return []*core.Note{}
	}

	end := offset + limit
	if end > len(results) {
		end = len(results)
	}

	notes := make([]*core.Note, 0, end-offset)
	for _, result := range results[offset:end] {
		notes = append(notes, result.Note)
	}
	return notes
}

// clampLimit maps zero to def and clamps the result to [1, max].
func clampLimit(limit, def, max int) int {
	if limit == 0 {
		limit = def
	}
	if limit < 1 {
		return 1
	}
	if limit > max {
		return max
	}
	return limit
}
