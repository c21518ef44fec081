package search

import "strings"

// Stop words to filter out when deriving relatedness keywords
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true,
}

// tokenizeAndFilter splits text into words, lowercases, trims punctuation, and removes stop words
func tokenizeAndFilter(text string) []string {
	words := strings.Fields(text)
	filtered := make([]string, 0, len(words))

	for _, word := range words {
		// Lowercase and trim punctuation
		cleaned := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}"))

		// Skip stop words and empty strings
		if cleaned != "" && !stopWords[cleaned] {
			filtered = append(filtered, cleaned)
		}
	}

	return filtered
}

// relatedKeywords derives up to max distinctive keywords from note content
// for keyword-based relatedness. Tokens must be longer than 2 characters.
func relatedKeywords(content string, max int) []string {
	tokens := tokenizeAndFilter(content)

	seen := make(map[string]bool, len(tokens))
	keywords := make([]string, 0, max)
	for _, token := range tokens {
		if len(token) <= 2 || seen[token] {
			continue
		}
		seen[token] = true
		keywords = append(keywords, token)
		if len(keywords) >= max {
			break
		}
	}

	return keywords
}
