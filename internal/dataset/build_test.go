package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/seqpipe/seqpipe/internal/config"
	"github.com/seqpipe/seqpipe/internal/logger"
)

func writeCorpus(t *testing.T, dir, base, ext string, lines []string) {
	t.Helper()
	path := filepath.Join(dir, base+"."+ext)
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func buildParams(t *testing.T) config.Params {
	t.Helper()
	dir := t.TempDir()
	writeCorpus(t, dir, "training", "es", []string{"una frase corta", "otra frase larga"})
	writeCorpus(t, dir, "training", "en", []string{"a short sentence", "another long sentence"})
	writeCorpus(t, dir, "dev", "es", []string{"hola mundo"})
	writeCorpus(t, dir, "dev", "en", []string{"hello world"})

	p := config.Default()
	p["DATA_ROOT_PATH"] = dir
	p["DATASETS_PATH"] = filepath.Join(dir, "datasets")
	p["TEXT_FILES"] = map[string]interface{}{"train": "training", "val": "dev"}
	p["REBUILD_DATASET"] = true
	return p
}

func TestBuild(t *testing.T) {
	p := buildParams(t)
	log := logger.New("error", "console")

	d, err := Build(p, log)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if len(d.Splits["train"].Source) != 2 {
		t.Errorf("expected 2 train sentences, got %d", len(d.Splits["train"].Source))
	}
	if d.BuildID == "" {
		t.Error("expected a build id to be assigned")
	}

	refs, err := d.ExtraVariable("val")
	if err != nil {
		t.Fatalf("ExtraVariable returned error: %v", err)
	}
	if len(refs) != 1 || refs[0] != "hello world" {
		t.Errorf("expected val target text [hello world], got %v", refs)
	}

	// Artifact must exist and load back
	if _, err := os.Stat(ArtifactPath(p)); err != nil {
		t.Fatalf("expected dataset artifact on disk: %v", err)
	}
	loaded, err := Load(ArtifactPath(p))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Name != d.Name {
		t.Errorf("expected name %q, got %q", d.Name, loaded.Name)
	}
}

func TestBuildReusesArtifactWhenNotForced(t *testing.T) {
	p := buildParams(t)
	log := logger.New("error", "console")

	first, err := Build(p, log)
	if err != nil {
		t.Fatalf("first Build returned error: %v", err)
	}

	p["REBUILD_DATASET"] = false
	second, err := Build(p, log)
	if err != nil {
		t.Fatalf("second Build returned error: %v", err)
	}
	if second.BuildID != first.BuildID {
		t.Error("expected stored dataset to be reused, not rebuilt")
	}

	p["REBUILD_DATASET"] = true
	third, err := Build(p, log)
	if err != nil {
		t.Fatalf("third Build returned error: %v", err)
	}
	if third.BuildID == first.BuildID {
		t.Error("expected forced rebuild to produce a fresh build id")
	}
}

func TestBuildRejectsNonParallelSplit(t *testing.T) {
	p := buildParams(t)
	dir := p.String("DATA_ROOT_PATH", "")
	writeCorpus(t, dir, "dev", "en", []string{"hello world", "extra line"})
	log := logger.New("error", "console")

	if _, err := Build(p, log); err == nil {
		t.Error("expected error for non-parallel split")
	}
}

func TestBuildRequiresTrainSplit(t *testing.T) {
	p := buildParams(t)
	p["TEXT_FILES"] = map[string]interface{}{"val": "dev"}
	log := logger.New("error", "console")

	if _, err := Build(p, log); err == nil {
		t.Error("expected error when train split is missing")
	}
}

func TestBuildMissingCorpusFile(t *testing.T) {
	p := buildParams(t)
	p["TEXT_FILES"] = map[string]interface{}{"train": "nonexistent"}
	log := logger.New("error", "console")

	if _, err := Build(p, log); err == nil {
		t.Error("expected error for missing corpus file")
	}
}
