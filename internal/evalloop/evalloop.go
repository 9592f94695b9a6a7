// Package evalloop drives corpus evaluation: it aligns a hypotheses file
// with the reference sentences stored in a dataset object and runs the
// selected scorers, either over the whole corpus or over growing
// prefixes.
package evalloop

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/seqpipe/seqpipe/internal/dataset"
	"github.com/seqpipe/seqpipe/internal/logger"
	"github.com/seqpipe/seqpipe/internal/scorers"
)

// Options selects what to evaluate and how.
type Options struct {
	HypothesesPath string
	Split          string
	Metrics        []string
	Language       string
	StepSize       int
}

// CountMismatchError reports a reference/hypothesis cardinality mismatch.
type CountMismatchError struct {
	References int
	Hypotheses int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("sentence number mismatch between the inputs: %d references vs %d hypotheses",
		e.References, e.Hypotheses)
}

// LoadHypotheses reads one hypothesis per line, order preserved, with
// surrounding whitespace stripped.
func LoadHypotheses(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open hypotheses file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read hypotheses file %s: %w", path, err)
	}
	return lines, nil
}

// Align converts equally sized reference and hypothesis sentence lists
// into the index-keyed corpora the scorers expect, each sentence wrapped
// as a single-element sequence.
func Align(refs, hyps []string) (scorers.Corpus, scorers.Corpus, error) {
	if len(refs) != len(hyps) {
		return nil, nil, &CountMismatchError{References: len(refs), Hypotheses: len(hyps)}
	}
	refCorpus := make(scorers.Corpus, len(refs))
	hypCorpus := make(scorers.Corpus, len(hyps))
	for i := range refs {
		refCorpus[i] = []string{refs[i]}
		hypCorpus[i] = []string{hyps[i]}
	}
	return refCorpus, hypCorpus, nil
}

// Run evaluates the hypotheses file against the dataset's stored
// references for the requested split, writing results to out.
func Run(ds *dataset.Dataset, opts Options, out io.Writer, log *logger.Logger) error {
	hyps, err := LoadHypotheses(opts.HypothesesPath)
	if err != nil {
		return err
	}
	refs, err := ds.ExtraVariable(opts.Split)
	if err != nil {
		return err
	}
	log.Info("evaluating",
		"split", opts.Split,
		"sentences", len(hyps),
		"step_size", opts.StepSize)

	refCorpus, hypCorpus, err := Align(refs, hyps)
	if err != nil {
		return err
	}

	if opts.StepSize < 1 {
		scores, err := scorers.Score(refCorpus, hypCorpus, opts.Metrics, opts.Language)
		if err != nil {
			return err
		}
		printScores(out, scores)
		return nil
	}
	return runStepped(refCorpus, hypCorpus, opts, out)
}

// runStepped scores growing prefixes of the corpus. The window advances
// by the step size and is capped at the corpus size; termination is
// checked after printing, so the final full-corpus window is evaluated
// once more than strictly necessary. Callers rely on the resulting step
// count (for example prefix sizes 10, 20, 25 for 25 sentences at step
// size 10).
func runStepped(refs, hyps scorers.Corpus, opts Options, out io.Writer) error {
	total := len(refs)
	n := 0
	for {
		n += opts.StepSize
		limit := n
		if limit > total {
			limit = total
		}

		partialRefs := make(scorers.Corpus, limit)
		partialHyps := make(scorers.Corpus, limit)
		for i := 0; i < limit; i++ {
			partialRefs[i] = refs[i]
			partialHyps[i] = hyps[i]
		}

		scores, err := scorers.Score(partialRefs, partialHyps, opts.Metrics, opts.Language)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%d \tScore: %v\n", limit, scores)

		if n > total {
			return nil
		}
	}
}

// printScores writes the whole-corpus score table: labels sorted
// alphabetically, padded to the longest label, values to five decimals.
func printScores(out io.Writer, scores map[string]float64) {
	labels := make([]string, 0, len(scores))
	maxLen := 0
	for label := range scores {
		labels = append(labels, label)
		if len(label) > maxLen {
			maxLen = len(label)
		}
	}
	sort.Strings(labels)

	fmt.Fprintln(out, "Scores: ")
	for _, label := range labels {
		fmt.Fprintf(out, "\t %-*s: %.5f\n", maxLen, label, scores[label])
	}
}
