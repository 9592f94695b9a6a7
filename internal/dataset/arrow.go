package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Every row of the IPC file is one sentence-level entry; the section
// column tells which part of the dataset it belongs to.
const (
	sectionSplit    = "split"
	sectionExtra    = "extra"
	sectionVocabSrc = "vocab_src"
	sectionVocabTrg = "vocab_trg"

	nameSource = "source"
	nameTarget = "target"
)

// schema metadata keys
const (
	metaName      = "dataset_name"
	metaBuildID   = "build_id"
	metaCreatedAt = "created_at"
	metaSrcLang   = "src_lang"
	metaTrgLang   = "trg_lang"
)

func fileSchema(d *Dataset) *arrow.Schema {
	md := arrow.NewMetadata(
		[]string{metaName, metaBuildID, metaCreatedAt, metaSrcLang, metaTrgLang},
		[]string{d.Name, d.BuildID, d.CreatedAt.UTC().Format(time.RFC3339), d.SrcLang, d.TrgLang},
	)
	return arrow.NewSchema([]arrow.Field{
		{Name: "section", Type: arrow.BinaryTypes.String},
		{Name: "split", Type: arrow.BinaryTypes.String},
		{Name: "name", Type: arrow.BinaryTypes.String},
		{Name: "idx", Type: arrow.PrimitiveTypes.Int64},
		{Name: "text", Type: arrow.BinaryTypes.String},
	}, &md)
}

// Save writes the dataset as an Arrow IPC file, one record batch per
// section so large splits never force a single giant batch.
func Save(d *Dataset, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dataset file: %w", err)
	}
	defer f.Close()

	mem := memory.DefaultAllocator
	schema := fileSchema(d)
	w, err := ipc.NewFileWriter(f, ipc.WithSchema(schema), ipc.WithAllocator(mem))
	if err != nil {
		return fmt.Errorf("open ipc writer: %w", err)
	}

	write := func(rows []fileRow) error {
		if len(rows) == 0 {
			return nil
		}
		bld := array.NewRecordBuilder(mem, schema)
		defer bld.Release()
		for _, row := range rows {
			bld.Field(0).(*array.StringBuilder).Append(row.section)
			bld.Field(1).(*array.StringBuilder).Append(row.split)
			bld.Field(2).(*array.StringBuilder).Append(row.name)
			bld.Field(3).(*array.Int64Builder).Append(row.idx)
			bld.Field(4).(*array.StringBuilder).Append(row.text)
		}
		rec := bld.NewRecord()
		defer rec.Release()
		return w.Write(rec)
	}

	for _, split := range sortedKeys(d.Splits) {
		s := d.Splits[split]
		rows := make([]fileRow, 0, len(s.Source)+len(s.Target))
		for i, text := range s.Source {
			rows = append(rows, fileRow{sectionSplit, split, nameSource, int64(i), text})
		}
		for i, text := range s.Target {
			rows = append(rows, fileRow{sectionSplit, split, nameTarget, int64(i), text})
		}
		if err := write(rows); err != nil {
			return fmt.Errorf("write split %s: %w", split, err)
		}
	}

	for _, split := range sortedKeys(d.ExtraVariables) {
		for _, varName := range sortedKeys(d.ExtraVariables[split]) {
			sentences := d.ExtraVariables[split][varName]
			rows := make([]fileRow, 0, len(sentences))
			for i, text := range sentences {
				rows = append(rows, fileRow{sectionExtra, split, varName, int64(i), text})
			}
			if err := write(rows); err != nil {
				return fmt.Errorf("write extra variable %s/%s: %w", split, varName, err)
			}
		}
	}

	if err := write(vocabRows(sectionVocabSrc, d.SrcVocab)); err != nil {
		return fmt.Errorf("write source vocabulary: %w", err)
	}
	if err := write(vocabRows(sectionVocabTrg, d.TrgVocab)); err != nil {
		return fmt.Errorf("write target vocabulary: %w", err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("close ipc writer: %w", err)
	}
	return nil
}

// Load reads a dataset artifact written by Save.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset file: %w", err)
	}
	defer f.Close()

	r, err := ipc.NewFileReader(f, ipc.WithAllocator(memory.DefaultAllocator))
	if err != nil {
		return nil, fmt.Errorf("open ipc reader: %w", err)
	}
	defer r.Close()

	d := &Dataset{
		Splits:         map[string]*Split{},
		ExtraVariables: map[string]map[string][]string{},
	}
	md := r.Schema().Metadata()
	if i := md.FindKey(metaName); i >= 0 {
		d.Name = md.Values()[i]
	}
	if i := md.FindKey(metaBuildID); i >= 0 {
		d.BuildID = md.Values()[i]
	}
	if i := md.FindKey(metaCreatedAt); i >= 0 {
		if t, err := time.Parse(time.RFC3339, md.Values()[i]); err == nil {
			d.CreatedAt = t
		}
	}
	if i := md.FindKey(metaSrcLang); i >= 0 {
		d.SrcLang = md.Values()[i]
	}
	if i := md.FindKey(metaTrgLang); i >= 0 {
		d.TrgLang = md.Values()[i]
	}

	var srcWords, trgWords []string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record batch: %w", err)
		}

		sections := rec.Column(0).(*array.String)
		splits := rec.Column(1).(*array.String)
		names := rec.Column(2).(*array.String)
		texts := rec.Column(4).(*array.String)

		// Rows within a batch are written in index order, so a plain
		// append reconstructs each sequence.
		for row := 0; row < int(rec.NumRows()); row++ {
			section := sections.Value(row)
			split := splits.Value(row)
			name := names.Value(row)
			text := texts.Value(row)

			switch section {
			case sectionSplit:
				s := d.Splits[split]
				if s == nil {
					s = &Split{}
					d.Splits[split] = s
				}
				if name == nameSource {
					s.Source = append(s.Source, text)
				} else {
					s.Target = append(s.Target, text)
				}
			case sectionExtra:
				if d.ExtraVariables[split] == nil {
					d.ExtraVariables[split] = map[string][]string{}
				}
				d.ExtraVariables[split][name] = append(d.ExtraVariables[split][name], text)
			case sectionVocabSrc:
				srcWords = append(srcWords, text)
			case sectionVocabTrg:
				trgWords = append(trgWords, text)
			default:
				return nil, fmt.Errorf("unknown section %q in dataset file", section)
			}
		}
	}

	if len(srcWords) > 0 {
		d.SrcVocab = vocabFromWords(srcWords)
	}
	if len(trgWords) > 0 {
		d.TrgVocab = vocabFromWords(trgWords)
	}
	return d, nil
}

type fileRow struct {
	section string
	split   string
	name    string
	idx     int64
	text    string
}

func vocabRows(section string, v *Vocabulary) []fileRow {
	if v == nil {
		return nil
	}
	rows := make([]fileRow, len(v.Words))
	for i, w := range v.Words {
		rows[i] = fileRow{section, "", "", int64(i), w}
	}
	return rows
}

func vocabFromWords(words []string) *Vocabulary {
	v := &Vocabulary{Words: words, Index: make(map[string]int, len(words))}
	for i, w := range words {
		v.Index[w] = i
	}
	return v
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
