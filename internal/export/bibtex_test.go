package export

import (
	"strings"
	"testing"

	"github.com/matsen/bipscrape/internal/paper"
)

func TestToBibTeX_Conference(t *testing.T) {
	d := paper.Draft{
		ID:          "He2016-dr",
		DOI:         "10.1109/CVPR.2016.90",
		Title:       "Deep Residual Learning for Image Recognition",
		Authors:     "Kaiming He, Xiangyu Zhang, Shaoqing Ren",
		PubTime:     "2016",
		PubType:     paper.Conference,
		Publication: "CVPR",
		Pages:       "770-778",
		Publisher:   "IEEE",
	}

	want := `@inproceedings{He2016-dr,
  author = {He, Kaiming and Zhang, Xiangyu and Ren, Shaoqing},
  title = {Deep Residual Learning for Image Recognition},
  booktitle = {CVPR},
  year = {2016},
  pages = {770--778},
  publisher = {IEEE},
  doi = {10.1109/CVPR.2016.90},
}
`
	if got := ToBibTeX(d); got != want {
		t.Errorf("ToBibTeX() =\n%s\nwant\n%s", got, want)
	}
}

func TestToBibTeX_JournalFields(t *testing.T) {
	d := paper.Draft{
		ID: "Turing1950-cm", Title: "Computing Machinery & Intelligence", Authors: "A. M. Turing",
		PubTime: "1950", PubType: paper.Journal, Publication: "Mind", Volume: "LIX", Number: "236",
	}
	got := ToBibTeX(d)

	for _, want := range []string{
		"@article{Turing1950-cm,",
		"author = {Turing, A. M.}",
		`title = {Computing Machinery \& Intelligence}`,
		"journal = {Mind}",
		"volume = {LIX}",
		"number = {236}",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("ToBibTeX() missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "doi =") || strings.Contains(got, "publisher =") {
		t.Errorf("ToBibTeX() wrote empty optional fields:\n%s", got)
	}
}

func TestToBibTeX_Other(t *testing.T) {
	got := ToBibTeX(paper.Draft{ID: "x", Title: "T", PubType: paper.Other, Publication: "Blog"})
	if !strings.HasPrefix(got, "@misc{x,") || !strings.Contains(got, "howpublished = {Blog}") {
		t.Errorf("ToBibTeX() =\n%s", got)
	}
}

func TestToBibTeX_Pages(t *testing.T) {
	tests := []struct {
		pages string
		want  string
	}{
		{"770-778", "770--778"},
		{"770--778", "770--778"},
		{"770---778", "770--778"},
		{"e1234", "e1234"},
	}

	for _, tt := range tests {
		got := ToBibTeX(paper.Draft{ID: "x", Title: "T", Pages: tt.pages})
		want := "pages = {" + tt.want + "}"
		if !strings.Contains(got, want) {
			t.Errorf("ToBibTeX(pages=%q) missing %q:\n%s", tt.pages, want, got)
		}
	}
}

func TestFormatAuthors(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ada Lovelace", "Lovelace, Ada"},
		{"A B, C D", "B, A and D, C"},
		{"Euclid", "Euclid"},
		{"Jean-Paul van Sartre, ", "Sartre, Jean-Paul van"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := formatAuthors(tt.in); got != tt.want {
			t.Errorf("formatAuthors(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestToBibTeXList(t *testing.T) {
	got := ToBibTeXList([]paper.Draft{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}})
	if strings.Count(got, "@article{") != 2 {
		t.Errorf("ToBibTeXList() =\n%s", got)
	}
}
