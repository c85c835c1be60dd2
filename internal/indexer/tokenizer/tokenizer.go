// Package tokenizer turns raw whitespace-delimited words into index
// keywords. A keyword is the lower-cased word with its trailing punctuation
// removed, made only of letters, and not listed as a noise word.
package tokenizer

import (
	"strings"
	"unicode"
)

// Tokenizer normalises words against a fixed noise-word set. It is safe for
// concurrent use once constructed.
type Tokenizer struct {
	noiseWords map[string]struct{}
}

// New returns a Tokenizer that rejects every word in noiseWords. Noise words
// are compared after lower-casing.
func New(noiseWords []string) *Tokenizer {
	set := make(map[string]struct{}, len(noiseWords))
	for _, w := range noiseWords {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		set[w] = struct{}{}
	}
	return &Tokenizer{noiseWords: set}
}

// Keyword returns the normalised keyword for word, or false when word is
// not a keyword.
func (t *Tokenizer) Keyword(word string) (string, bool) {
	word = strings.TrimRightFunc(strings.ToLower(word), isPunctuation)
	if word == "" {
		return "", false
	}
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return "", false
		}
	}
	if t.IsNoiseWord(word) {
		return "", false
	}
	return word, true
}

// IsNoiseWord reports whether word is in the noise-word set.
func (t *Tokenizer) IsNoiseWord(word string) bool {
	_, ok := t.noiseWords[word]
	return ok
}

// NoiseWordCount returns the size of the noise-word set.
func (t *Tokenizer) NoiseWordCount() int {
	return len(t.noiseWords)
}

func isPunctuation(r rune) bool {
	switch r {
	case '.', ',', '?', ':', ';', '!':
		return true
	}
	return false
}
