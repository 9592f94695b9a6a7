package textproc

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"simple sentence", "the cat sat", []string{"the", "cat", "sat"}},
		{"lowercasing", "The CAT", []string{"the", "cat"}},
		{"punctuation split", "hello, world!", []string{"hello", ",", "world", "!"}},
		{"extra whitespace", "  a   b  ", []string{"a", "b"}},
		{"empty", "", []string{}},
		{"unicode", "café bien", []string{"café", "bien"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNGrams(t *testing.T) {
	tokens := []string{"a", "b", "a", "b"}

	unigrams := NGrams(tokens, 1)
	if unigrams["a"] != 2 || unigrams["b"] != 2 {
		t.Errorf("unexpected unigram counts: %v", unigrams)
	}

	bigrams := NGrams(tokens, 2)
	if bigrams["a b"] != 2 {
		t.Errorf("expected 'a b' count 2, got %d", bigrams["a b"])
	}
	if bigrams["b a"] != 1 {
		t.Errorf("expected 'b a' count 1, got %d", bigrams["b a"])
	}

	if got := NGrams([]string{"a"}, 2); len(got) != 0 {
		t.Errorf("expected no bigrams for single token, got %v", got)
	}
}

func TestStemmer(t *testing.T) {
	en := NewStemmer("en")
	if got := en.Stem("running"); got != "run" {
		t.Errorf("expected stem 'run', got %q", got)
	}
	if got := en.Stem("cats"); got != "cat" {
		t.Errorf("expected stem 'cat', got %q", got)
	}

	// Unsupported language falls back to identity
	zz := NewStemmer("zz")
	if got := zz.Stem("running"); got != "running" {
		t.Errorf("expected identity stem, got %q", got)
	}
}
