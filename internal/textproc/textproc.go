// Package textproc provides the tokenization and normalization shared by
// the evaluation scorers and the dataset builder.
package textproc

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Tokenize normalizes a sentence and splits it into word tokens: NFKC
// normalization, lowercasing, punctuation split off as separate tokens,
// whitespace-delimited.
func Tokenize(s string) []string {
	s = norm.NFKC.String(s)
	s = strings.ToLower(s)

	var sb strings.Builder
	sb.Grow(len(s) + 8)
	for _, r := range s {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			sb.WriteByte(' ')
			sb.WriteRune(r)
			sb.WriteByte(' ')
		} else {
			sb.WriteRune(r)
		}
	}
	return strings.Fields(sb.String())
}

// TokenizeBasic splits on whitespace only, preserving the original casing
// and punctuation. Used when the configuration asks for raw tokenization.
func TokenizeBasic(s string) []string {
	return strings.Fields(s)
}

// NGrams returns the n-gram counts of a token sequence. N-grams are keyed
// by their space-joined form.
func NGrams(tokens []string, n int) map[string]int {
	counts := map[string]int{}
	if n <= 0 || len(tokens) < n {
		return counts
	}
	for i := 0; i+n <= len(tokens); i++ {
		counts[strings.Join(tokens[i:i+n], " ")]++
	}
	return counts
}
