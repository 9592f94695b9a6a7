package textproc

import (
	"github.com/kljensen/snowball"
)

// snowball language names keyed by the two-letter codes the evaluator
// accepts on the command line.
var stemmerLanguages = map[string]string{
	"en": "english",
	"es": "spanish",
	"fr": "french",
	"ru": "russian",
	"sv": "swedish",
	"no": "norwegian",
	"hu": "hungarian",
}

// Stemmer reduces words to stems for a fixed language.
type Stemmer struct {
	language string
}

// NewStemmer returns a stemmer for a two-letter language code. Codes
// without snowball support get an identity stemmer, so scoring degrades
// to exact matching instead of failing.
func NewStemmer(code string) *Stemmer {
	return &Stemmer{language: stemmerLanguages[code]}
}

// Stem returns the stem of word, or the word itself when the language is
// unsupported or stemming fails.
func (s *Stemmer) Stem(word string) string {
	if s.language == "" {
		return word
	}
	stemmed, err := snowball.Stem(word, s.language, true)
	if err != nil {
		return word
	}
	return stemmed
}
