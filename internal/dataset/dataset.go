// Package dataset implements the serialized dataset object shared by the
// rebuild and evaluation tools: tokenized splits, vocabularies and the
// per-split extra variables that hold raw reference sentences.
package dataset

import (
	"fmt"
	"sort"
	"time"
)

// Split holds the aligned source/target sentences of one named partition.
type Split struct {
	Source []string
	Target []string
}

// Dataset is the on-disk artifact produced by the builder. ExtraVariables
// maps split name to variable name to raw sentences; the evaluator reads
// its reference translations from there.
type Dataset struct {
	Name      string
	BuildID   string
	CreatedAt time.Time
	SrcLang   string
	TrgLang   string

	Splits         map[string]*Split
	SrcVocab       *Vocabulary
	TrgVocab       *Vocabulary
	ExtraVariables map[string]map[string][]string
}

// ExtraVariable returns the sentences stored under the first variable
// name (in sorted order) of the given split.
func (d *Dataset) ExtraVariable(split string) ([]string, error) {
	vars, ok := d.ExtraVariables[split]
	if !ok || len(vars) == 0 {
		return nil, fmt.Errorf("dataset %s has no extra variables for split %q", d.Name, split)
	}
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return vars[names[0]], nil
}

// SetExtraVariable registers raw sentences under a named variable of a
// split, creating the split entry as needed.
func (d *Dataset) SetExtraVariable(split, name string, sentences []string) {
	if d.ExtraVariables == nil {
		d.ExtraVariables = map[string]map[string][]string{}
	}
	if d.ExtraVariables[split] == nil {
		d.ExtraVariables[split] = map[string][]string{}
	}
	d.ExtraVariables[split][name] = sentences
}
