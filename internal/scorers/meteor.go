package scorers

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/seqpipe/seqpipe/internal/textproc"
)

// METEOR parameters (alpha weights precision vs recall in the harmonic
// mean, beta and gamma shape the fragmentation penalty).
const (
	meteorAlpha = 0.9
	meteorBeta  = 3.0
	meteorGamma = 0.5
)

// METEOR aligns hypothesis and reference unigrams in two stages, exact
// match then stem match, and scores the alignment with a fragmentation
// penalty. The corpus score is the mean sentence score.
type METEOR struct {
	stemmer *textproc.Stemmer
}

func NewMETEOR(language string) *METEOR {
	return &METEOR{stemmer: textproc.NewStemmer(language)}
}

func (m *METEOR) Labels() []string { return []string{"METEOR"} }

func (m *METEOR) ComputeScore(refs, hyps Corpus) ([]float64, error) {
	if len(refs) != len(hyps) {
		return nil, fmt.Errorf("meteor: corpus size mismatch: %d references vs %d hypotheses", len(refs), len(hyps))
	}

	scores := make([]float64, 0, len(hyps))
	for _, id := range sortedIDs(hyps) {
		refSents, ok := refs[id]
		if !ok {
			return nil, fmt.Errorf("meteor: missing reference for sentence %d", id)
		}
		hyp := textproc.Tokenize(hyps[id][0])
		best := 0.0
		for _, r := range refSents {
			if s := m.sentenceScore(textproc.Tokenize(r), hyp); s > best {
				best = s
			}
		}
		scores = append(scores, best)
	}
	if len(scores) == 0 {
		return []float64{0}, nil
	}
	return []float64{stat.Mean(scores, nil)}, nil
}

func (m *METEOR) sentenceScore(ref, hyp []string) float64 {
	if len(ref) == 0 || len(hyp) == 0 {
		return 0
	}

	pairs := m.align(ref, hyp)
	matches := float64(len(pairs))
	if matches == 0 {
		return 0
	}

	precision := matches / float64(len(hyp))
	recall := matches / float64(len(ref))
	fmean := precision * recall / (meteorAlpha*precision + (1-meteorAlpha)*recall)

	chunks := countChunks(pairs)
	penalty := 0.0
	if chunks > 1 {
		penalty = meteorGamma * math.Pow(float64(chunks)/matches, meteorBeta)
	}
	return fmean * (1 - penalty)
}

// matchPair records an aligned (reference position, hypothesis position).
type matchPair struct {
	ref int
	hyp int
}

// align matches hypothesis unigrams to reference unigrams greedily, exact
// forms first and stems for whatever remains.
func (m *METEOR) align(ref, hyp []string) []matchPair {
	refUsed := make([]bool, len(ref))
	hypUsed := make([]bool, len(hyp))
	var pairs []matchPair

	for hi, h := range hyp {
		for ri, r := range ref {
			if !refUsed[ri] && r == h {
				refUsed[ri] = true
				hypUsed[hi] = true
				pairs = append(pairs, matchPair{ref: ri, hyp: hi})
				break
			}
		}
	}

	for hi, h := range hyp {
		if hypUsed[hi] {
			continue
		}
		hs := m.stemmer.Stem(h)
		for ri, r := range ref {
			if !refUsed[ri] && m.stemmer.Stem(r) == hs {
				refUsed[ri] = true
				hypUsed[hi] = true
				pairs = append(pairs, matchPair{ref: ri, hyp: hi})
				break
			}
		}
	}
	return pairs
}

// countChunks counts maximal runs of matches that are contiguous in both
// the hypothesis and the reference.
func countChunks(pairs []matchPair) int {
	if len(pairs) == 0 {
		return 0
	}
	byHyp := make([]matchPair, len(pairs))
	copy(byHyp, pairs)
	for i := 1; i < len(byHyp); i++ {
		for j := i; j > 0 && byHyp[j].hyp < byHyp[j-1].hyp; j-- {
			byHyp[j], byHyp[j-1] = byHyp[j-1], byHyp[j]
		}
	}

	chunks := 1
	for i := 1; i < len(byHyp); i++ {
		if byHyp[i].hyp != byHyp[i-1].hyp+1 || byHyp[i].ref != byHyp[i-1].ref+1 {
			chunks++
		}
	}
	return chunks
}
