package scorers

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/seqpipe/seqpipe/internal/textproc"
)

const (
	ciderOrder = 4
	ciderSigma = 6.0
)

// CIDEr computes consensus-based image-description evaluation: tf-idf
// weighted n-gram cosine similarity between hypothesis and references,
// with a gaussian length penalty, averaged over n-gram orders and scaled
// by 10. Document frequencies come from the reference corpus itself, so
// single-sentence corpora legitimately score 0.
type CIDEr struct{}

func NewCIDEr() *CIDEr { return &CIDEr{} }

func (c *CIDEr) Labels() []string { return []string{"CIDEr"} }

// ngramVector is a tf-idf vector per n-gram order together with its norm
// and the underlying sentence length.
type ngramVector struct {
	weights []map[string]float64
	norms   []float64
	length  int
}

func (c *CIDEr) ComputeScore(refs, hyps Corpus) ([]float64, error) {
	if len(refs) != len(hyps) {
		return nil, fmt.Errorf("cider: corpus size mismatch: %d references vs %d hypotheses", len(refs), len(hyps))
	}
	if len(refs) == 0 {
		return []float64{0}, nil
	}

	ids := sortedIDs(hyps)

	// Document frequency of each n-gram over the reference corpus: the
	// number of sentence indices whose reference set contains it.
	df := make([]map[string]float64, ciderOrder+1)
	for n := 1; n <= ciderOrder; n++ {
		df[n] = map[string]float64{}
	}
	for _, id := range ids {
		refSents, ok := refs[id]
		if !ok {
			return nil, fmt.Errorf("cider: missing reference for sentence %d", id)
		}
		for n := 1; n <= ciderOrder; n++ {
			seen := map[string]bool{}
			for _, r := range refSents {
				for g := range textproc.NGrams(textproc.Tokenize(r), n) {
					seen[g] = true
				}
			}
			for g := range seen {
				df[n][g]++
			}
		}
	}
	logCorpusSize := math.Log(float64(len(ids)))

	scores := make([]float64, 0, len(ids))
	for _, id := range ids {
		hypVec := tfidfVector(textproc.Tokenize(hyps[id][0]), df, logCorpusSize)

		var simSum float64
		for _, r := range refs[id] {
			refVec := tfidfVector(textproc.Tokenize(r), df, logCorpusSize)
			simSum += similarity(hypVec, refVec)
		}
		scores = append(scores, 10*simSum/float64(len(refs[id])))
	}
	return []float64{stat.Mean(scores, nil)}, nil
}

// tfidfVector builds the per-order tf-idf vectors of a token sequence.
func tfidfVector(tokens []string, df []map[string]float64, logCorpusSize float64) ngramVector {
	v := ngramVector{
		weights: make([]map[string]float64, ciderOrder+1),
		norms:   make([]float64, ciderOrder+1),
		length:  len(tokens),
	}
	for n := 1; n <= ciderOrder; n++ {
		v.weights[n] = map[string]float64{}
		var normSq float64
		for g, count := range textproc.NGrams(tokens, n) {
			idf := logCorpusSize - math.Log(math.Max(1, df[n][g]))
			w := float64(count) * idf
			v.weights[n][g] = w
			normSq += w * w
		}
		v.norms[n] = math.Sqrt(normSq)
	}
	return v
}

// similarity is the length-penalized cosine similarity averaged over
// n-gram orders, clipping hypothesis weights at the reference weight.
func similarity(hyp, ref ngramVector) float64 {
	delta := float64(hyp.length - ref.length)
	penalty := math.Exp(-delta * delta / (2 * ciderSigma * ciderSigma))

	var total float64
	for n := 1; n <= ciderOrder; n++ {
		var val float64
		for g, hw := range hyp.weights[n] {
			rw := ref.weights[n][g]
			val += math.Min(hw, rw) * rw
		}
		if hyp.norms[n] > 0 && ref.norms[n] > 0 {
			val /= hyp.norms[n] * ref.norms[n]
		}
		total += val * penalty
	}
	return total / ciderOrder
}
