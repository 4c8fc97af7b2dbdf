package storage

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/matsen/bipscrape/internal/paper"
)

func TestReadAll_NonExistentFile(t *testing.T) {
	drafts, err := ReadAll("/nonexistent/path/papers.jsonl")
	if err != nil {
		t.Fatalf("ReadAll() error = %v (should return nil for nonexistent file)", err)
	}
	if len(drafts) != 0 {
		t.Errorf("ReadAll() returned %v, want empty", drafts)
	}
}

func TestReadAll_SkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papers.jsonl")
	content := `{"id":"Lovelace1843-na","doi":"10.1/ada","title":"Notes","authors":"Ada Lovelace","pubTime":"1843","pubType":0,"publication":"Scientific Memoirs"}

{"id":"Turing1950-cm","doi":"10.1093/mind/lix.236.433","title":"Computing Machinery and Intelligence","authors":"A. M. Turing","pubTime":"1950","pubType":0,"publication":"Mind","tags":["ai"]}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	drafts, err := ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(drafts) != 2 {
		t.Fatalf("ReadAll() returned %d drafts, want 2", len(drafts))
	}
	if drafts[1].Publication != "Mind" || drafts[1].PubType != paper.Journal || drafts[1].Tags[0] != "ai" {
		t.Errorf("drafts[1] = %+v", drafts[1])
	}
}

func TestReadAll_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papers.jsonl")
	if err := os.WriteFile(path, []byte("{\"id\":\"a\"}\n{not json}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadAll(path); err == nil {
		t.Error("ReadAll() error = nil for invalid line")
	}
}

func TestAppendAndWriteAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papers.jsonl")

	a := paper.Draft{ID: "A2020-xx", DOI: "10.1/a", Title: "A"}
	b := paper.Draft{ID: "B2021-xx", DOI: "10.1/b", Title: "B", Pages: "1-3"}
	if err := Append(path, a); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := Append(path, b); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	drafts, err := ReadAll(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(drafts) != 2 || drafts[1].Pages != "1-3" {
		t.Fatalf("after Append: %+v", drafts)
	}

	drafts[0].Title = "A revised"
	if err := WriteAll(path, drafts[:1]); err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}
	drafts, err = ReadAll(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(drafts) != 1 || drafts[0].Title != "A revised" {
		t.Errorf("after WriteAll: %+v", drafts)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}
}

func TestFindByDOI_Normalized(t *testing.T) {
	drafts := []paper.Draft{{ID: "x", DOI: "10.1038/Nature12373"}}

	if i, ok := FindByDOI(drafts, "https://doi.org/10.1038/nature12373"); !ok || i != 0 {
		t.Errorf("FindByDOI() = %d, %v", i, ok)
	}
	if _, ok := FindByDOI(drafts, ""); ok {
		t.Error("FindByDOI(\"\") matched")
	}
}

func TestGenerateUniqueID(t *testing.T) {
	drafts := []paper.Draft{{ID: "Smith2020-ab"}, {ID: "Smith2020-ab-2"}}
	if got := GenerateUniqueID(drafts, "Smith2020-ab"); got != "Smith2020-ab-3" {
		t.Errorf("GenerateUniqueID() = %q", got)
	}
	if got := GenerateUniqueID(drafts, "Jones2020-cd"); got != "Jones2020-cd" {
		t.Errorf("GenerateUniqueID() = %q", got)
	}
}

func TestUpsert(t *testing.T) {
	drafts := []paper.Draft{
		{ID: "Lovelace1843-na", DOI: "10.1/ada", Title: "Old", Tags: []string{"history"}, PDFPath: "ada.pdf"},
	}

	var patch paper.Patch
	patch.Set(paper.FieldTitle, "Notes")
	patch.Set(paper.FieldAuthors, "Ada Lovelace")
	patch.Set(paper.FieldPubTime, "1843")

	drafts, action, got, err := Upsert(drafts, paper.Draft{DOI: "10.1/ADA", Tags: []string{"math"}}, patch)
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if action != ActionUpdated {
		t.Fatalf("action = %q, want updated", action)
	}
	if len(drafts) != 1 || got.ID != "Lovelace1843-na" || drafts[0].Title != "Notes" {
		t.Errorf("after update: %+v", drafts)
	}
	if drafts[0].PDFPath != "ada.pdf" || len(drafts[0].Tags) != 2 {
		t.Errorf("caller-owned fields lost: %+v", drafts[0])
	}

	var addPatch paper.Patch
	addPatch.Set(paper.FieldTitle, "Notes Again")
	addPatch.Set(paper.FieldAuthors, "Ada Lovelace")
	addPatch.Set(paper.FieldPubTime, "1843")

	drafts, action, got, err = Upsert(drafts, *paper.New("10.1/other"), addPatch)
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if action != ActionAdded {
		t.Fatalf("action = %q, want added", action)
	}
	if got.ID != "Lovelace1843-na-2" || got.Title != "Notes Again" {
		t.Errorf("added draft = %+v, want ID Lovelace1843-na-2", got)
	}
	if len(drafts) != 2 {
		t.Errorf("len = %d, want 2", len(drafts))
	}
}

func TestUpsert_KeepsStoredFieldsAbsentFromPatch(t *testing.T) {
	drafts := []paper.Draft{{
		ID: "Knuth1974-cp", DOI: "10.1/x", Title: "Old title",
		PubType: paper.Journal, Publication: "CACM",
		Volume: "7", Number: "2", Pages: "1-9", Publisher: "ACM",
	}}

	// A resolver response carrying only the required fields.
	var patch paper.Patch
	patch.Set(paper.FieldTitle, "Computer Programming as an Art")
	patch.Set(paper.FieldAuthors, "Donald E. Knuth")
	patch.Set(paper.FieldPubTime, "1974")
	patch.Set(paper.FieldPubType, paper.Journal)

	fresh := paper.New("10.1/x")
	if err := patch.Apply(fresh); err != nil {
		t.Fatal(err)
	}

	drafts, action, got, err := Upsert(drafts, *fresh, patch)
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if action != ActionUpdated {
		t.Fatalf("action = %q, want updated", action)
	}
	want := paper.Draft{
		ID: "Knuth1974-cp", DOI: "10.1/x", Title: "Computer Programming as an Art",
		Authors: "Donald E. Knuth", PubTime: "1974", PubType: paper.Journal,
		Publication: "CACM", Volume: "7", Number: "2", Pages: "1-9", Publisher: "ACM",
	}
	if !reflect.DeepEqual(got, want) || !reflect.DeepEqual(drafts[0], want) {
		t.Errorf("stored draft = %+v, want %+v", drafts[0], want)
	}
}

func TestUpsert_InvalidPatchLeavesLibrary(t *testing.T) {
	drafts := []paper.Draft{{ID: "a", DOI: "10.1/a", Title: "Keep"}}

	var patch paper.Patch
	patch.Set(paper.FieldTitle, "Changed")
	patch.Set("abstract", "unknown field")

	drafts, _, _, err := Upsert(drafts, *paper.New("10.1/a"), patch)
	if err == nil {
		t.Fatal("Upsert() error = nil for unknown field")
	}
	if drafts[0].Title != "Keep" {
		t.Errorf("Title = %q, want Keep", drafts[0].Title)
	}
}
