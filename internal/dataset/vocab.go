package dataset

import "sort"

// Reserved vocabulary slots. Index 0 pads, 1 and 2 delimit sentences,
// 3 absorbs out-of-vocabulary words.
const (
	PadToken     = "<pad>"
	StartToken   = "<s>"
	EndToken     = "</s>"
	UnknownToken = "<unk>"
)

// Vocabulary maps words to dense indices and back.
type Vocabulary struct {
	Words []string
	Index map[string]int
}

// NewVocabulary builds a vocabulary from word frequency counts, most
// frequent first, capped at maxSize entries including the four reserved
// tokens. maxSize <= 0 keeps every word.
func NewVocabulary(counts map[string]int, maxSize int) *Vocabulary {
	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})

	v := &Vocabulary{
		Words: []string{PadToken, StartToken, EndToken, UnknownToken},
		Index: map[string]int{PadToken: 0, StartToken: 1, EndToken: 2, UnknownToken: 3},
	}
	for _, w := range words {
		if maxSize > 0 && len(v.Words) >= maxSize {
			break
		}
		v.add(w)
	}
	return v
}

func (v *Vocabulary) add(word string) {
	if _, ok := v.Index[word]; ok {
		return
	}
	v.Index[word] = len(v.Words)
	v.Words = append(v.Words, word)
}

// Len returns the vocabulary size including reserved tokens.
func (v *Vocabulary) Len() int { return len(v.Words) }

// Encode maps tokens to indices, substituting the unknown index for
// out-of-vocabulary words.
func (v *Vocabulary) Encode(tokens []string) []int {
	ids := make([]int, len(tokens))
	for i, tok := range tokens {
		if id, ok := v.Index[tok]; ok {
			ids[i] = id
		} else {
			ids[i] = v.Index[UnknownToken]
		}
	}
	return ids
}

// Decode maps indices back to words. Out-of-range indices decode to the
// unknown token.
func (v *Vocabulary) Decode(ids []int) []string {
	tokens := make([]string, len(ids))
	for i, id := range ids {
		if id >= 0 && id < len(v.Words) {
			tokens[i] = v.Words[id]
		} else {
			tokens[i] = UnknownToken
		}
	}
	return tokens
}

// OOVRate reports the fraction of tokens that encode to the unknown
// index. Used by the builder to log vocabulary coverage.
func (v *Vocabulary) OOVRate(sentences [][]string) float64 {
	var total, oov int
	unk := v.Index[UnknownToken]
	for _, tokens := range sentences {
		for _, id := range v.Encode(tokens) {
			total++
			if id == unk {
				oov++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(oov) / float64(total)
}
