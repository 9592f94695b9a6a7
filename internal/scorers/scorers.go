// Package scorers implements the text-generation evaluation metrics:
// BLEU, METEOR, TER, ROUGE-L and CIDEr. All scorers share the same
// corpus-level contract modeled after the coco-caption evaluation tools.
package scorers

import (
	"fmt"
	"sort"
	"strings"
)

// Corpus maps a 0-based sentence index to the acceptable sentences at
// that index. The evaluator supplies exactly one sentence per index, but
// every scorer handles multiple references.
type Corpus map[int][]string

// Scorer computes one metric over an aligned reference/hypothesis corpus.
// The returned slice matches Labels element for element; BLEU yields four
// values, every other scorer one.
type Scorer interface {
	Labels() []string
	ComputeScore(refs, hyps Corpus) ([]float64, error)
}

// Select resolves a metric name list to scorer instances. Matching is
// case-insensitive, "rouge" is accepted as an alias for "rouge_l", and
// unrecognized names are ignored. An empty list selects all five metrics.
func Select(names []string, language string) []Scorer {
	requested := map[string]bool{}
	for _, name := range names {
		requested[strings.ToLower(name)] = true
	}
	all := len(names) == 0

	var selected []Scorer
	if all || requested["bleu"] {
		selected = append(selected, NewBLEU(4))
	}
	if all || requested["meteor"] {
		selected = append(selected, NewMETEOR(language))
	}
	if all || requested["ter"] {
		selected = append(selected, NewTER())
	}
	if all || requested["rouge_l"] || requested["rouge"] {
		selected = append(selected, NewROUGE())
	}
	if all || requested["cider"] {
		selected = append(selected, NewCIDEr())
	}
	return selected
}

// Score runs every selected scorer over the corpus and collects the
// labeled results into a single mapping.
func Score(refs, hyps Corpus, names []string, language string) (map[string]float64, error) {
	final := map[string]float64{}
	for _, s := range Select(names, language) {
		values, err := s.ComputeScore(refs, hyps)
		if err != nil {
			return nil, err
		}
		labels := s.Labels()
		if len(values) != len(labels) {
			return nil, fmt.Errorf("scorer %v returned %d values for %d labels", labels, len(values), len(labels))
		}
		for i, label := range labels {
			final[label] = values[i]
		}
	}
	return final, nil
}

// sortedIDs returns the corpus sentence indices in ascending order.
func sortedIDs(c Corpus) []int {
	ids := make([]int, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
