package storage

import (
	"strings"

	"github.com/poiesic/notekeep/core"
)

// Predicate describes a keyword match condition evaluated against notes
// during a repository scan. Matching is case-insensitive literal substring
// matching; no pattern metacharacters exist, so a query containing "%" or
// "_" can only match notes that literally contain those characters.
//
// The net logic is:
//
//	(keyword1 OR keyword2 OR ... OR pattern) AND tag1 AND tag2 AND ...
//
// where each keyword matches against title, content, or any tag; the
// pattern (if set) matches against title or content; and each required
// tag must be a substring of one of the note's tags.
type Predicate struct {
	// Keywords are OR-ed: any keyword hit on title, content, or a tag
	// makes the note a candidate. Keywords must be lowercase.
	Keywords []string

	// Pattern is the raw-query fallback used when tokenization yields no
	// keywords. Matched as a single substring against title and content.
	// Must be lowercase.
	Pattern string

	// Tags are AND-ed: every entry must match one of the note's tags as a
	// substring. Must be lowercase.
	Tags []string
}

// Empty reports whether the predicate imposes no condition at all.
func (p *Predicate) Empty() bool {
	return p == nil || (len(p.Keywords) == 0 && p.Pattern == "" && len(p.Tags) == 0)
}

// Match reports whether the note satisfies the predicate.
// A nil or empty predicate matches every note.
func (p *Predicate) Match(note *core.Note) bool {
	if p.Empty() {
		return true
	}
	if note == nil {
		return false
	}

	title := strings.ToLower(note.Title)
	content := strings.ToLower(note.Content)
	tags := make([]string, len(note.Tags))
	for i, tag := range note.Tags {
		tags[i] = strings.ToLower(tag)
	}

	// Every required tag must match some note tag.
	for _, required := range p.Tags {
		if !anyContains(tags, required) {
			return false
		}
	}

	if len(p.Keywords) == 0 && p.Pattern == "" {
		// Tag-only predicate.
		return true
	}

	for _, keyword := range p.Keywords {
		if strings.Contains(title, keyword) ||
			strings.Contains(content, keyword) ||
			anyContains(tags, keyword) {
			return true
		}
	}

	if p.Pattern != "" &&
		(strings.Contains(title, p.Pattern) || strings.Contains(content, p.Pattern)) {
		return true
	}

	return false
}

func anyContains(values []string, substr string) bool {
	for _, v := range values {
		if strings.Contains(v, substr) {
			return true
		}
	}
	return false
}
