package dataset

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/seqpipe/seqpipe/internal/config"
	"github.com/seqpipe/seqpipe/internal/logger"
	"github.com/seqpipe/seqpipe/internal/textproc"
)

// extra variable name registered for every split's raw target text
const TargetTextVariable = "target_text"

// ArtifactPath returns where the dataset object for the given parameters
// lives on disk.
func ArtifactPath(params config.Params) string {
	name := params.String("DATASET_NAME", "dataset")
	src := params.String("SRC_LAN", "src")
	trg := params.String("TRG_LAN", "trg")
	dir := params.String("DATASETS_PATH", "datasets")
	return filepath.Join(dir, fmt.Sprintf("Dataset_%s_%s%s.arrow", name, src, trg))
}

// Build constructs the dataset object described by the parameter set:
// it reads the configured parallel text files per split, builds source
// and target vocabularies from the training split, registers raw target
// text as each split's extra variable and persists the artifact. When
// REBUILD_DATASET is false and the artifact already exists, the stored
// object is reused instead.
func Build(params config.Params, log *logger.Logger) (*Dataset, error) {
	path := ArtifactPath(params)

	if !params.Bool("REBUILD_DATASET", false) {
		if _, err := os.Stat(path); err == nil {
			log.Info("reusing stored dataset", "path", path)
			return Load(path)
		}
	}

	srcLan := params.String("SRC_LAN", "")
	trgLan := params.String("TRG_LAN", "")
	root := params.String("DATA_ROOT_PATH", ".")
	files := params.StringMap("TEXT_FILES")
	if srcLan == "" || trgLan == "" {
		return nil, fmt.Errorf("SRC_LAN and TRG_LAN must be set")
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("TEXT_FILES must map split names to file bases")
	}

	tokenize := textproc.Tokenize
	if params.String("TOKENIZATION_METHOD", "") == "tokenize_basic" {
		tokenize = textproc.TokenizeBasic
	}

	d := &Dataset{
		Name:      params.String("DATASET_NAME", "dataset"),
		BuildID:   uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		SrcLang:   srcLan,
		TrgLang:   trgLan,
		Splits:    map[string]*Split{},
	}

	for split, base := range files {
		srcPath := filepath.Join(root, base+"."+srcLan)
		trgPath := filepath.Join(root, base+"."+trgLan)
		source, err := readLines(srcPath)
		if err != nil {
			return nil, fmt.Errorf("split %s: %w", split, err)
		}
		target, err := readLines(trgPath)
		if err != nil {
			return nil, fmt.Errorf("split %s: %w", split, err)
		}
		if len(source) != len(target) {
			return nil, fmt.Errorf("split %s is not parallel: %d source vs %d target sentences",
				split, len(source), len(target))
		}
		d.Splits[split] = &Split{Source: source, Target: target}
		d.SetExtraVariable(split, TargetTextVariable, target)
		log.Info("loaded split", "split", split, "sentences", len(source))
	}

	train, ok := d.Splits["train"]
	if !ok {
		return nil, fmt.Errorf("TEXT_FILES must include a train split to build vocabularies")
	}
	d.SrcVocab = buildVocab(train.Source, tokenize, params.Int("INPUT_VOCABULARY_SIZE", 0))
	d.TrgVocab = buildVocab(train.Target, tokenize, params.Int("OUTPUT_VOCABULARY_SIZE", 0))
	log.Info("built vocabularies",
		"src_words", d.SrcVocab.Len(),
		"trg_words", d.TrgVocab.Len())

	if val, ok := d.Splits["val"]; ok {
		tokens := make([][]string, len(val.Target))
		for i, s := range val.Target {
			tokens[i] = tokenize(s)
		}
		log.Info("target vocabulary coverage on val split",
			"oov_rate", d.TrgVocab.OOVRate(tokens))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create datasets directory: %w", err)
	}
	if err := Save(d, path); err != nil {
		return nil, err
	}
	log.Info("dataset stored", "path", path, "build_id", d.BuildID)
	return d, nil
}

func buildVocab(sentences []string, tokenize func(string) []string, maxSize int) *Vocabulary {
	counts := map[string]int{}
	for _, s := range sentences {
		for _, tok := range tokenize(s) {
			counts[tok]++
		}
	}
	return NewVocabulary(counts, maxSize)
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open text file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read text file %s: %w", path, err)
	}
	return lines, nil
}
