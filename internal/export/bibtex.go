// Package export provides functions to export papers to various formats.
package export

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/matsen/bipscrape/internal/paper"
)

// ToBibTeX converts a paper to a BibTeX entry.
func ToBibTeX(d paper.Draft) string {
	entryType := entryTypes[d.PubType]
	var b strings.Builder

	fmt.Fprintf(&b, "@%s{%s,\n", entryType, d.ID)

	if d.Authors != "" {
		fmt.Fprintf(&b, "  author = {%s},\n", formatAuthors(d.Authors))
	}
	fmt.Fprintf(&b, "  title = {%s},\n", escapeLatex(d.Title))

	if d.Publication != "" {
		fieldName := "journal"
		switch d.PubType {
		case paper.Conference:
			fieldName = "booktitle"
		case paper.Other:
			fieldName = "howpublished"
		}
		fmt.Fprintf(&b, "  %s = {%s},\n", fieldName, escapeLatex(d.Publication))
	}

	writeOptional(&b, "year", d.PubTime)
	writeOptional(&b, "volume", d.Volume)
	writeOptional(&b, "number", d.Number)
	writeOptional(&b, "pages", pageRange(d.Pages))
	writeOptional(&b, "publisher", escapeLatex(d.Publisher))
	writeOptional(&b, "doi", d.DOI)

	b.WriteString("}\n")
	return b.String()
}

// ToBibTeXList converts multiple papers to BibTeX format.
func ToBibTeXList(drafts []paper.Draft) string {
	entries := make([]string, 0, len(drafts))
	for _, d := range drafts {
		entries = append(entries, ToBibTeX(d))
	}
	return strings.Join(entries, "\n")
}

var entryTypes = map[paper.PubType]string{
	paper.Journal:    "article",
	paper.Conference: "inproceedings",
	paper.Other:      "misc",
}

func writeOptional(b *strings.Builder, field, value string) {
	if value != "" {
		fmt.Fprintf(b, "  %s = {%s},\n", field, value)
	}
}

// formatAuthors turns "Given Family, Given Family" into the BibTeX form
// "Family, Given and Family, Given". The last word is taken as the family name.
func formatAuthors(authors string) string {
	var formatted []string
	for _, name := range strings.Split(authors, ",") {
		parts := strings.Fields(name)
		switch len(parts) {
		case 0:
			continue
		case 1:
			formatted = append(formatted, escapeLatex(parts[0]))
		default:
			last := parts[len(parts)-1]
			first := strings.Join(parts[:len(parts)-1], " ")
			formatted = append(formatted, escapeLatex(last+", "+first))
		}
	}
	return strings.Join(formatted, " and ")
}

// escapeLatex escapes special LaTeX characters.
func escapeLatex(s string) string {
	replacer := strings.NewReplacer(
		"&", `\&`,
		"%", `\%`,
		"$", `\$`,
		"#", `\#`,
		"_", `\_`,
		"{", `\{`,
		"}", `\}`,
		"~", `\textasciitilde{}`,
		"^", `\textasciicircum{}`,
	)
	return replacer.Replace(s)
}

var hyphenRun = regexp.MustCompile(`-+`)

// pageRange writes a range with a single en-dash ("--") however many
// hyphens the source used.
func pageRange(pages string) string {
	return hyphenRun.ReplaceAllString(pages, "--")
}
