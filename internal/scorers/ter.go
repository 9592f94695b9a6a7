package scorers

import (
	"fmt"

	"github.com/seqpipe/seqpipe/internal/textproc"
)

// terMaxShiftLoops bounds the greedy shift search per sentence.
const terMaxShiftLoops = 20

// TER computes Translation Edit Rate: word-level edits (insertions,
// deletions, substitutions and greedy block shifts, each cost 1) needed
// to turn the hypothesis into the closest reference, divided by the
// reference length. The corpus score is total edits over total reference
// words, so 0 is perfect and scores above 1 are possible.
type TER struct{}

func NewTER() *TER { return &TER{} }

func (t *TER) Labels() []string { return []string{"TER"} }

func (t *TER) ComputeScore(refs, hyps Corpus) ([]float64, error) {
	if len(refs) != len(hyps) {
		return nil, fmt.Errorf("ter: corpus size mismatch: %d references vs %d hypotheses", len(refs), len(hyps))
	}

	var totalEdits, totalWords float64
	for _, id := range sortedIDs(hyps) {
		refSents, ok := refs[id]
		if !ok {
			return nil, fmt.Errorf("ter: missing reference for sentence %d", id)
		}
		hyp := textproc.Tokenize(hyps[id][0])

		bestEdits := -1
		bestLen := 0
		for _, r := range refSents {
			ref := textproc.Tokenize(r)
			edits := shiftedEditDistance(hyp, ref)
			if bestEdits < 0 || edits < bestEdits {
				bestEdits = edits
				bestLen = len(ref)
			}
		}
		totalEdits += float64(bestEdits)
		totalWords += float64(bestLen)
	}

	if totalWords == 0 {
		if totalEdits == 0 {
			return []float64{0}, nil
		}
		return []float64{1}, nil
	}
	return []float64{totalEdits / totalWords}, nil
}

// shiftedEditDistance runs the TER greedy loop: as long as some block
// shift lowers the plain edit distance by more than the shift cost of 1,
// take the best such shift and charge it one edit.
func shiftedEditDistance(hyp, ref []string) int {
	current := append([]string(nil), hyp...)
	shifts := 0

	for loop := 0; loop < terMaxShiftLoops; loop++ {
		base := editDistance(current, ref)
		if base == 0 {
			break
		}
		improved, next := bestShift(current, ref, base)
		if !improved {
			break
		}
		current = next
		shifts++
	}
	return editDistance(current, ref) + shifts
}

// bestShift tries moving every block of up to five words to every other
// position and returns the variant with the largest distance reduction,
// if any reduction beats the cost of the shift itself.
func bestShift(hyp, ref []string, base int) (bool, []string) {
	bestDist := base - 1 // must beat the shift cost
	var best []string

	maxBlock := 5
	if len(hyp) < maxBlock {
		maxBlock = len(hyp)
	}
	for size := 1; size <= maxBlock; size++ {
		for start := 0; start+size <= len(hyp); start++ {
			rest := make([]string, 0, len(hyp)-size)
			rest = append(rest, hyp[:start]...)
			rest = append(rest, hyp[start+size:]...)
			block := hyp[start : start+size]

			for pos := 0; pos <= len(rest); pos++ {
				if pos == start {
					continue
				}
				candidate := make([]string, 0, len(hyp))
				candidate = append(candidate, rest[:pos]...)
				candidate = append(candidate, block...)
				candidate = append(candidate, rest[pos:]...)
				if d := editDistance(candidate, ref); d < bestDist {
					bestDist = d
					best = candidate
				}
			}
		}
	}
	return best != nil, best
}

// editDistance is the word-level Levenshtein distance with unit costs.
func editDistance(a, b []string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			min := del
			if ins < min {
				min = ins
			}
			if sub < min {
				min = sub
			}
			curr[j] = min
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
