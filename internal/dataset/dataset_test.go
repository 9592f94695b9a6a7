package dataset

import (
	"reflect"
	"testing"
)

func TestExtraVariable(t *testing.T) {
	d := &Dataset{Name: "test"}
	d.SetExtraVariable("val", "target_text", []string{"a", "b"})

	got, err := d.ExtraVariable("val")
	if err != nil {
		t.Fatalf("ExtraVariable returned error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("expected [a b], got %v", got)
	}
}

func TestExtraVariablePicksFirstNameSorted(t *testing.T) {
	d := &Dataset{}
	d.SetExtraVariable("val", "z_other", []string{"wrong"})
	d.SetExtraVariable("val", "a_text", []string{"right"})

	got, err := d.ExtraVariable("val")
	if err != nil {
		t.Fatalf("ExtraVariable returned error: %v", err)
	}
	if got[0] != "right" {
		t.Errorf("expected first variable in sorted order, got %v", got)
	}
}

func TestExtraVariableMissingSplit(t *testing.T) {
	d := &Dataset{Name: "test"}
	if _, err := d.ExtraVariable("test"); err == nil {
		t.Error("expected error for absent split")
	}
}

func TestVocabularyBuild(t *testing.T) {
	counts := map[string]int{"the": 10, "cat": 5, "sat": 3, "rare": 1}

	v := NewVocabulary(counts, 0)
	if v.Len() != 8 {
		t.Fatalf("expected 8 entries (4 reserved + 4 words), got %d", v.Len())
	}
	// Most frequent word gets the first free index.
	if v.Index["the"] != 4 {
		t.Errorf("expected 'the' at index 4, got %d", v.Index["the"])
	}
	if v.Index["rare"] != 7 {
		t.Errorf("expected 'rare' at index 7, got %d", v.Index["rare"])
	}
}

func TestVocabularyCap(t *testing.T) {
	counts := map[string]int{"a": 5, "b": 4, "c": 3, "d": 2, "e": 1}

	v := NewVocabulary(counts, 6)
	if v.Len() != 6 {
		t.Fatalf("expected capped size 6, got %d", v.Len())
	}
	if _, ok := v.Index["a"]; !ok {
		t.Error("most frequent word should survive the cap")
	}
	if _, ok := v.Index["e"]; ok {
		t.Error("least frequent word should be dropped by the cap")
	}
}

func TestVocabularyEncodeDecode(t *testing.T) {
	v := NewVocabulary(map[string]int{"cat": 2, "sat": 1}, 0)

	ids := v.Encode([]string{"cat", "sat", "flew"})
	if ids[2] != v.Index[UnknownToken] {
		t.Errorf("OOV word should encode to unknown index, got %d", ids[2])
	}

	tokens := v.Decode(ids)
	if tokens[0] != "cat" || tokens[1] != "sat" || tokens[2] != UnknownToken {
		t.Errorf("unexpected decode result: %v", tokens)
	}

	if got := v.Decode([]int{9999})[0]; got != UnknownToken {
		t.Errorf("out-of-range index should decode to unknown, got %q", got)
	}
}

func TestVocabularyOOVRate(t *testing.T) {
	v := NewVocabulary(map[string]int{"a": 1, "b": 1}, 0)

	rate := v.OOVRate([][]string{{"a", "b", "x", "y"}})
	if rate != 0.5 {
		t.Errorf("expected OOV rate 0.5, got %v", rate)
	}
	if got := v.OOVRate(nil); got != 0 {
		t.Errorf("expected OOV rate 0 for empty input, got %v", got)
	}
}
