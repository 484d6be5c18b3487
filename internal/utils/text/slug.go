// Package text provides utilities for text normalization.
// This package includes the slug derivation and timestamp parsing rules shared
// by every provider adapter, so that normalization behaves identically
// regardless of which channel an article arrived on.
package text

import "strings"

// asciiPunctuation is the exact set of characters stripped during slug
// derivation. Note that "-" itself is in the set, so hyphens inside words
// ("COVID-19") collapse away before spaces become hyphens.
const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Slugify lowercases the sentence, strips ASCII punctuation, and replaces
// each single space with a hyphen. Consecutive hyphens are intentionally not
// collapsed; slugs must stay a deterministic pure function of the input.
//
// Examples:
//
//	Slugify("This is a Test Sentence")  // "this-is-a-test-sentence"
//	Slugify("COVID-19 pandemic")        // "covid19-pandemic"
func Slugify(sentence string) string {
	var b strings.Builder
	b.Grow(len(sentence))

	for _, r := range strings.ToLower(sentence) {
		switch {
		case r == ' ':
			b.WriteRune('-')
		case strings.ContainsRune(asciiPunctuation, r):
			// stripped
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}
