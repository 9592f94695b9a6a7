// evaluate computes BLEU, TER, METEOR, ROUGE-L and CIDEr for a
// hypotheses file against the reference sentences stored in a dataset
// object.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/seqpipe/seqpipe/internal/dataset"
	"github.com/seqpipe/seqpipe/internal/evalloop"
	"github.com/seqpipe/seqpipe/internal/logger"
)

// metricsFlag collects metric names, accepting both repeated flags and
// comma-separated lists.
type metricsFlag []string

func (m *metricsFlag) String() string { return strings.Join(*m, ",") }

func (m *metricsFlag) Set(v string) error {
	for _, name := range strings.Split(v, ",") {
		if name = strings.TrimSpace(name); name != "" {
			*m = append(*m, name)
		}
	}
	return nil
}

func main() {
	var (
		hypotheses  string
		metrics     metricsFlag
		split       string
		language    string
		stepSize    int
		datasetPath string
		logLevel    string
		logFormat   string
	)
	flag.StringVar(&hypotheses, "t", "", "hypotheses file (required)")
	flag.StringVar(&hypotheses, "hypotheses", "", "alias for -t")
	flag.Var(&metrics, "m", "metrics to evaluate on: bleu, ter, meteor, rouge_l, cider (default all)")
	flag.Var(&metrics, "metrics", "alias for -m")
	flag.StringVar(&split, "s", "val", "split to evaluate; must be included in the dataset object")
	flag.StringVar(&split, "split", "val", "alias for -s")
	flag.StringVar(&language, "l", "en", "METEOR language")
	flag.StringVar(&language, "language", "en", "alias for -l")
	flag.IntVar(&stepSize, "n", 0, "step size; 0 evaluates all sentences at once")
	flag.IntVar(&stepSize, "step-size", 0, "alias for -n")
	flag.StringVar(&datasetPath, "ds", "", "dataset instance with the reference data (required)")
	flag.StringVar(&datasetPath, "dataset", "", "alias for -ds")
	flag.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flag.StringVar(&logFormat, "log-format", "console", "log format (console, json)")
	flag.Parse()

	log := logger.New(logLevel, logFormat)

	if hypotheses == "" || datasetPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -t/--hypotheses and -ds/--dataset are required")
		flag.Usage()
		os.Exit(1)
	}

	ds, err := dataset.Load(datasetPath)
	if err != nil {
		log.Fatal("failed to load dataset", "path", datasetPath, "error", err)
	}

	opts := evalloop.Options{
		HypothesesPath: hypotheses,
		Split:          split,
		Metrics:        metrics,
		Language:       language,
		StepSize:       stepSize,
	}
	if err := evalloop.Run(ds, opts, os.Stdout, log); err != nil {
		log.Fatal("evaluation failed", "error", err)
	}
}
