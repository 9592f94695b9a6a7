package scorers

import (
	"fmt"
	"math"

	"github.com/seqpipe/seqpipe/internal/textproc"
)

// smoothing constants from the coco-caption BLEU scorer
const (
	bleuSmall = 1e-9
	bleuTiny  = 1e-15
)

// BLEU computes corpus-level BLEU with modified n-gram precision for
// orders 1..N and a closest-reference-length brevity penalty.
type BLEU struct {
	order int
}

func NewBLEU(order int) *BLEU {
	if order <= 0 {
		order = 4
	}
	return &BLEU{order: order}
}

func (b *BLEU) Labels() []string {
	labels := make([]string, b.order)
	for i := range labels {
		labels[i] = fmt.Sprintf("Bleu_%d", i+1)
	}
	return labels
}

func (b *BLEU) ComputeScore(refs, hyps Corpus) ([]float64, error) {
	if len(refs) != len(hyps) {
		return nil, fmt.Errorf("bleu: corpus size mismatch: %d references vs %d hypotheses", len(refs), len(hyps))
	}

	correct := make([]float64, b.order+1)
	guess := make([]float64, b.order+1)
	var totalHypLen, totalRefLen float64

	for _, id := range sortedIDs(hyps) {
		refSents, ok := refs[id]
		if !ok {
			return nil, fmt.Errorf("bleu: missing reference for sentence %d", id)
		}
		hyp := textproc.Tokenize(hyps[id][0])
		refTokens := make([][]string, len(refSents))
		for i, r := range refSents {
			refTokens[i] = textproc.Tokenize(r)
		}

		totalHypLen += float64(len(hyp))
		totalRefLen += float64(closestLength(refTokens, len(hyp)))

		for n := 1; n <= b.order; n++ {
			hypCounts := textproc.NGrams(hyp, n)
			maxRef := map[string]int{}
			for _, rt := range refTokens {
				for g, c := range textproc.NGrams(rt, n) {
					if c > maxRef[g] {
						maxRef[g] = c
					}
				}
			}
			for g, c := range hypCounts {
				m := c
				if maxRef[g] < m {
					m = maxRef[g]
				}
				correct[n] += float64(m)
			}
			if window := len(hyp) - n + 1; window > 0 {
				guess[n] += float64(window)
			}
		}
	}

	bp := 1.0
	if totalHypLen < totalRefLen && totalHypLen > 0 {
		bp = math.Exp(1 - totalRefLen/totalHypLen)
	}

	scores := make([]float64, b.order)
	product := 1.0
	for k := 1; k <= b.order; k++ {
		product *= (correct[k] + bleuTiny) / (guess[k] + bleuSmall)
		scores[k-1] = bp * math.Pow(product, 1/float64(k))
	}
	return scores, nil
}

// closestLength picks the reference length closest to the hypothesis
// length, breaking ties toward the shorter reference.
func closestLength(refs [][]string, hypLen int) int {
	best := 0
	bestDiff := math.MaxInt
	for _, r := range refs {
		diff := len(r) - hypLen
		if diff < 0 {
			diff = -diff
		}
		if diff < bestDiff || (diff == bestDiff && len(r) < best) {
			best = len(r)
			bestDiff = diff
		}
	}
	return best
}
