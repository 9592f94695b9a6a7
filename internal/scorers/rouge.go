package scorers

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/seqpipe/seqpipe/internal/textproc"
)

// rougeBeta weights recall over precision in the LCS F-measure, matching
// the coco-caption ROUGE-L scorer.
const rougeBeta = 1.2

// ROUGE computes ROUGE-L: an F-measure over the longest common
// subsequence between hypothesis and reference, maximized over the
// available references and averaged over the corpus.
type ROUGE struct{}

func NewROUGE() *ROUGE { return &ROUGE{} }

func (r *ROUGE) Labels() []string { return []string{"ROUGE_L"} }

func (r *ROUGE) ComputeScore(refs, hyps Corpus) ([]float64, error) {
	if len(refs) != len(hyps) {
		return nil, fmt.Errorf("rouge_l: corpus size mismatch: %d references vs %d hypotheses", len(refs), len(hyps))
	}

	scores := make([]float64, 0, len(hyps))
	for _, id := range sortedIDs(hyps) {
		refSents, ok := refs[id]
		if !ok {
			return nil, fmt.Errorf("rouge_l: missing reference for sentence %d", id)
		}
		hyp := textproc.Tokenize(hyps[id][0])

		var precMax, recMax float64
		for _, rs := range refSents {
			ref := textproc.Tokenize(rs)
			lcs := float64(lcsLength(hyp, ref))
			if len(hyp) > 0 {
				if p := lcs / float64(len(hyp)); p > precMax {
					precMax = p
				}
			}
			if len(ref) > 0 {
				if rec := lcs / float64(len(ref)); rec > recMax {
					recMax = rec
				}
			}
		}

		score := 0.0
		if precMax > 0 && recMax > 0 {
			b2 := rougeBeta * rougeBeta
			score = (1 + b2) * precMax * recMax / (recMax + b2*precMax)
		}
		scores = append(scores, score)
	}
	if len(scores) == 0 {
		return []float64{0}, nil
	}
	return []float64{stat.Mean(scores, nil)}, nil
}

// lcsLength is the longest common subsequence length between two token
// sequences.
func lcsLength(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
		for j := range curr {
			curr[j] = 0
		}
	}
	return prev[len(b)]
}
