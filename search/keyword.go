package search

import (
	"strings"

	"github.com/poiesic/notekeep/storage"
)

// minKeywordLength is the exclusive lower bound on keyword token length;
// shorter tokens are dropped during query tokenization.
const minKeywordLength = 2

// extractKeywords lowercases the query, splits it on whitespace, and keeps
// tokens longer than minKeywordLength characters.
func extractKeywords(query string) []string {
	tokens := strings.Fields(strings.ToLower(query))
	keywords := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if len(token) > minKeywordLength {
			keywords = append(keywords, token)
		}
	}
	return keywords
}

// buildPredicate compiles a query and tag filter into a storage predicate.
//
// Keywords are OR-ed against title, content, and tags; supplied tags are
// each AND-ed against the tags field. When tokenization yields no keywords
// (an all-short-words query), the raw query string becomes a single
// substring pattern against title and content instead.
func buildPredicate(query string, tags []string) *storage.Predicate {
	pred := &storage.Predicate{}

	query = strings.ToLower(strings.TrimSpace(query))
	if query != "" {
		keywords := extractKeywords(query)
		if len(keywords) > 0 {
			pred.Keywords = keywords
		} else {
			pred.Pattern = query
		}
	}

	for _, tag := range tags {
		cleaned := strings.ToLower(strings.TrimSpace(tag))
		if cleaned != "" {
			pred.Tags = append(pred.Tags, cleaned)
		}
	}

	return pred
}
