// Package tokenizer provides text tokenisation for the search engine.
// It splits input on whitespace, lower-cases every token and strips the
// punctuation runs at either edge, producing a set of terms.
package tokenizer

import (
	"regexp"
	"sort"
	"strings"
)

// edgePunct matches a leading punctuation run (plus any whitespace after it)
// or a trailing punctuation run (plus any whitespace before it).
var edgePunct = regexp.MustCompile(`^\p{P}+\s*|\s*\p{P}+$`)

// TermSet is an unordered set of normalised terms.
type TermSet map[string]struct{}

// Contains reports whether term is in the set.
func (s TermSet) Contains(term string) bool {
	_, ok := s[term]
	return ok
}

// Sorted returns the terms in lexical order.
func (s TermSet) Sorted() []string {
	terms := make([]string, 0, len(s))
	for term := range s {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}

// Split breaks text into whitespace-delimited tokens and returns the set of
// their non-empty normalised forms.
func Split(text string) TermSet {
	words := strings.Fields(text)
	terms := make(TermSet, len(words))
	for _, word := range words {
		term := Normalize(word)
		if term == "" {
			continue
		}
		terms[term] = struct{}{}
	}
	return terms
}

// Normalize lower-cases s and strips its outermost punctuation runs.
// Punctuation inside the token is kept, so "don't" stays "don't" while
// "(hello)," becomes "hello". Stripping repeats until nothing changes, which
// makes Normalize idempotent even for strings with interior whitespace.
func Normalize(s string) string {
	s = strings.ToLower(s)
	for {
		stripped := edgePunct.ReplaceAllString(s, "")
		if stripped == s {
			return s
		}
		s = stripped
	}
}
