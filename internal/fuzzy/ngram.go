// Package fuzzy implements approximate matching based on n-gram overlap.
package fuzzy

import (
	"sort"
	"strings"
)

// Transform rewrites a single n-gram. Returning false drops the n-gram.
type Transform func(ngram string) (string, bool)

// Identity keeps every n-gram unchanged.
func Identity(ngram string) (string, bool) {
	return ngram, true
}

// SortCharacters replaces an n-gram with its characters in ascending order,
// which makes adjacent transpositions produce the same n-gram.
func SortCharacters(ngram string) (string, bool) {
	runes := []rune(ngram)
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })
	return string(runes), true
}

// DefaultTransform drops n-grams ending with marker, sorts n-grams that do not
// contain marker and keeps the others. marker is the padding character used by
// the n-gram normalizer ('$' by default).
func DefaultTransform(marker rune) Transform {
	suffix := string(marker)
	return func(ngram string) (string, bool) {
		if strings.HasSuffix(ngram, suffix) {
			return "", false
		}
		if !strings.ContainsRune(ngram, marker) {
			return SortCharacters(ngram)
		}
		return ngram, true
	}
}

// NgramComputer slices strings into overlapping windows of n characters.
type NgramComputer struct {
	n         int
	transform Transform
}

// NewNgramComputer creates a computer for windows of n runes. A nil transform keeps n-grams as they are.
func NewNgramComputer(n int, transform Transform) *NgramComputer {
	if transform == nil {
		transform = Identity
	}
	return &NgramComputer{n: n, transform: transform}
}

// N returns the window size.
func (c *NgramComputer) N() int {
	return c.n
}

// Compute returns the transformed n-grams of input from left to right.
// Input of at most n characters yields a single n-gram.
func (c *NgramComputer) Compute(input string) []string {
	if input == "" {
		return []string{}
	}

	runes := []rune(input)
	if len(runes) <= c.n {
		if ngram, ok := c.transform(input); ok {
			return []string{ngram}
		}
		return []string{}
	}

	ngrams := make([]string, 0, len(runes)-c.n+1)
	for i := 0; i+c.n <= len(runes); i++ {
		if ngram, ok := c.transform(string(runes[i : i+c.n])); ok {
			ngrams = append(ngrams, ngram)
		}
	}
	return ngrams
}
