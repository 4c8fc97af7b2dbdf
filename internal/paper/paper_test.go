package paper

import (
	"errors"
	"testing"
)

func TestSetValue_StringFields(t *testing.T) {
	d := New("10.1234/x")
	fields := []string{FieldDOI, FieldTitle, FieldAuthors, FieldPubTime, FieldPublication,
		FieldVolume, FieldNumber, FieldPages, FieldPublisher}

	for _, f := range fields {
		if err := d.SetValue(f, "v-"+f); err != nil {
			t.Fatalf("SetValue(%q) error = %v", f, err)
		}
		got, err := d.Value(f)
		if err != nil {
			t.Fatalf("Value(%q) error = %v", f, err)
		}
		if got != "v-"+f {
			t.Errorf("Value(%q) = %v, want %q", f, got, "v-"+f)
		}
	}
}

func TestSetValue_PubType(t *testing.T) {
	d := New("")
	if d.PubType != Other {
		t.Fatalf("New() PubType = %v, want Other", d.PubType)
	}

	if err := d.SetValue(FieldPubType, Conference); err != nil {
		t.Fatalf("SetValue(PubType) error = %v", err)
	}
	if d.PubType != Conference {
		t.Errorf("PubType = %v, want Conference", d.PubType)
	}

	if err := d.SetValue(FieldPubType, 0); err != nil {
		t.Fatalf("SetValue(int) error = %v", err)
	}
	if d.PubType != Journal {
		t.Errorf("PubType = %v, want Journal", d.PubType)
	}

	if err := d.SetValue(FieldPubType, 7); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("SetValue(7) error = %v, want ErrInvalidValue", err)
	}
}

func TestSetValue_Errors(t *testing.T) {
	d := New("")

	if err := d.SetValue("tags", "x"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("SetValue(tags) error = %v, want ErrUnknownField", err)
	}
	if err := d.SetValue(FieldTitle, 42); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("SetValue(title, 42) error = %v, want ErrInvalidValue", err)
	}
	if _, err := d.Value("nope"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("Value(nope) error = %v, want ErrUnknownField", err)
	}
}

func TestPatchApply_AllOrNothing(t *testing.T) {
	d := &Draft{Title: "Old", Volume: "3"}

	var p Patch
	p.Set(FieldTitle, "New")
	p.Set(FieldVolume, 12) // wrong type

	if err := p.Apply(d); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("Apply() error = %v, want ErrInvalidValue", err)
	}
	if d.Title != "Old" || d.Volume != "3" {
		t.Errorf("draft mutated on failed apply: %+v", d)
	}
}

func TestPatchApply_PreservesOtherFields(t *testing.T) {
	d := &Draft{Title: "Old", Tags: []string{"ml"}, Note: "read later", Pages: "1-2"}

	var p Patch
	p.Set(FieldTitle, "New")
	p.Set(FieldPubType, Journal)

	if err := p.Apply(d); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if d.Title != "New" {
		t.Errorf("Title = %q, want New", d.Title)
	}
	if d.Pages != "1-2" || d.Note != "read later" || len(d.Tags) != 1 || d.Tags[0] != "ml" {
		t.Errorf("untouched fields changed: %+v", d)
	}

	want := []string{FieldTitle, FieldPubType}
	got := p.Fields()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Fields() = %v, want %v", got, want)
	}
}

func TestClone_DeepCopiesTags(t *testing.T) {
	d := &Draft{Tags: []string{"a"}}
	c := d.Clone()
	c.Tags[0] = "b"
	if d.Tags[0] != "a" {
		t.Errorf("Clone() shares Tags backing array")
	}
}

func TestPubTypeString(t *testing.T) {
	if Journal.String() != "journal" || Conference.String() != "conference" || Other.String() != "other" {
		t.Errorf("unexpected PubType names: %s %s %s", Journal, Conference, Other)
	}
}

func TestParsePubType(t *testing.T) {
	for _, want := range []PubType{Journal, Conference, Other} {
		got, err := ParsePubType(want.String())
		if err != nil || got != want {
			t.Errorf("ParsePubType(%q) = %v, %v", want.String(), got, err)
		}
	}
	if _, err := ParsePubType("book"); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("ParsePubType(book) error = %v, want ErrInvalidValue", err)
	}
}
