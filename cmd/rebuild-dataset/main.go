// rebuild-dataset rebuilds a stored dataset object from a configuration,
// optionally mutated by key=value overrides given on the command line.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/seqpipe/seqpipe/internal/config"
	"github.com/seqpipe/seqpipe/internal/dataset"
	"github.com/seqpipe/seqpipe/internal/logger"
)

// defaultConfigFile is consulted when no snapshot is given.
const defaultConfigFile = "config.yaml"

// sliceFlag collects repeated flag values.
type sliceFlag []string

func (s *sliceFlag) String() string { return fmt.Sprintf("%v", []string(*s)) }

func (s *sliceFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	var (
		configPath string
		changes    sliceFlag
		logLevel   string
		logFormat  string
	)
	flag.StringVar(&configPath, "c", "", "config snapshot for loading the model configuration; if not specified, parameters are read from "+defaultConfigFile+" or built-in defaults")
	flag.StringVar(&configPath, "config", "", "alias for -c")
	flag.Var(&changes, "ch", "changes to the config, following the syntax key=value (repeatable)")
	flag.Var(&changes, "changes", "alias for -ch")
	flag.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flag.StringVar(&logFormat, "log-format", "console", "log format (console, json)")
	flag.Parse()

	log := logger.New(logLevel, logFormat)

	var params config.Params
	var err error
	switch {
	case configPath != "":
		log.Info("loading parameters from snapshot", "path", configPath)
		params, err = config.LoadSnapshot(configPath)
	default:
		if _, statErr := os.Stat(defaultConfigFile); statErr == nil {
			log.Info("reading parameters from config file", "path", defaultConfigFile)
			params, err = config.LoadFile(defaultConfigFile)
		} else {
			log.Info("reading default parameters")
			params = config.Default()
		}
	}
	if err != nil {
		log.Fatal("failed to load configuration", "error", err)
	}

	// Trailing positional arguments are accepted as override tokens too,
	// so `rebuild-dataset -ch A=1 B=2` works the same as repeating -ch.
	tokens := append([]string(changes), flag.Args()...)

	overrides, err := config.ParseOverrides(tokens)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Overwritten arguments must have the form key=value.\nCurrently are: %v\n", tokens)
		os.Exit(1)
	}
	if err := params.Apply(overrides); err != nil {
		var applyErr *config.ApplyError
		if errors.As(err, &applyErr) {
			fmt.Fprintf(os.Stderr, "Error processing arguments: (%s, %s)\n", applyErr.Key, applyErr.Value)
		} else {
			fmt.Fprintf(os.Stderr, "Error processing arguments: %v\n", err)
		}
		os.Exit(2)
	}
	params.ForceRebuild()

	ds, err := dataset.Build(params, log)
	if err != nil {
		log.Fatal("dataset build failed", "error", err)
	}
	log.Info("dataset rebuilt",
		"name", ds.Name,
		"build_id", ds.BuildID,
		"splits", len(ds.Splits))
}
