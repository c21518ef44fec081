package search

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/poiesic/notekeep/ai"
	"github.com/poiesic/notekeep/core"
	"github.com/poiesic/notekeep/storage"
)

const (
	// DefaultRelatedLimit is used when maxResults is zero.
	DefaultRelatedLimit = 5

	// MaxRelatedLimit caps the number of related notes returned.
	MaxRelatedLimit = 50

	// relatedKeywordCap bounds how many keywords are extracted from a
	// note's content for keyword relatedness.
	relatedKeywordCap = 10
)

// Related finds notes similar to the given note.
//
// A note with an embedding is compared against every other embedded note
// by cosine similarity. A note without one falls back to keyword overlap
// on its content, and a note with no extractable keywords falls back
// further to the most recently updated notes. A missing note yields an
// empty result, not an error. Any failure on the embedding path degrades
// to the keyword path; keyword relatedness itself never calls the
// embedding provider.
func (s *Searcher) Related(ctx context.Context, id core.ID, maxResults int) ([]*core.Note, error) {
	if id == "" {
		return nil, fmt.Errorf("related: %w", core.ErrEmptyID)
	}
	limit := clampLimit(maxResults, DefaultRelatedLimit, MaxRelatedLimit)

	note, err := s.notes.GetNote(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		// Relatedness for a nonexistent note is degenerate but valid.
		return []*core.Note{}, nil
	}
	if err != nil {
		s.logger.Warn("failed to load source note for relatedness", "id", id, "err", err)
		return []*core.Note{}, nil
	}

	if !note.HasEmbedding() {
		return s.keywordRelated(ctx, note, limit)
	}

	results, err := s.scoreAgainst(ctx, note.Vector, limit, note.Id)
	if err != nil {
		s.logger.Warn("embedding relatedness failed, falling back to keyword relatedness", "id", id, "err", err)
		return s.keywordRelated(ctx, note, limit)
	}
	return results, nil
}

// RelatedByVector ranks embedded notes against a caller-supplied vector.
// Unlike Related there is no source note to extract keywords from, so
// failures propagate instead of degrading.
func (s *Searcher) RelatedByVector(ctx context.Context, vector []float32, maxResults int) ([]*core.Note, error) {
	if len(vector) == 0 {
		return nil, fmt.Errorf("related by vector: %w", core.ErrEmptyVector)
	}
	limit := clampLimit(maxResults, DefaultRelatedLimit, MaxRelatedLimit)

	results, err := s.scoreAgainst(ctx, vector, limit, "")
	if err != nil {
		return nil, fmt.Errorf("related by vector: %w", err)
	}
	return results, nil
}

// scoreAgainst ranks every embedded note (excluding the given ID) by
// cosine similarity to the vector and returns the top limit notes.
func (s *Searcher) scoreAgainst(ctx context.Context, vector []float32, limit int, exclude core.ID) ([]*core.Note, error) {
	candidates, err := s.notes.ListWithEmbedding(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]core.SearchResult, 0, len(candidates))
	for _, note := range candidates {
		if exclude != "" && note.Id == exclude {
			continue
		}
		score := ai.CosineSimilarity(vector, note.Vector)
		results = append(results, core.SearchResult{Note: note, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return paginate(results, limit, 0), nil
}

// keywordRelated finds notes sharing distinctive keywords with the source
// note's content. With no extractable keywords the most recently updated
// notes are returned as a last resort. The source note is always excluded.
func (s *Searcher) keywordRelated(ctx context.Context, note *core.Note, limit int) ([]*core.Note, error) {
	keywords := relatedKeywords(note.Content, relatedKeywordCap)

	var pred *storage.Predicate
	if len(keywords) > 0 {
		pred = &storage.Predicate{Keywords: keywords}
	}

	// Fetch one extra so excluding the source note still fills the limit.
	notes, err := s.notes.ListWhere(ctx, pred, limit+1, 0)
	if err != nil {
		s.logger.Warn("keyword relatedness failed, returning empty result", "id", note.Id, "err", err)
		return []*core.Note{}, nil
	}

	related := make([]*core.Note, 0, limit)
	for _, candidate := range notes {
		if candidate.Id == note.Id {
			continue
		}
		related = append(related, candidate)
		if len(related) >= limit {
			break
		}
	}
	return related, nil
}
