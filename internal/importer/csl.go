// Package importer provides functions to import papers from external formats.
package importer

import (
	"encoding/json"
	"fmt"

	"github.com/matsen/bipscrape/internal/paper"
)

// Normalizer turns one CSL-JSON work into draft field updates.
// *scraper.DOI satisfies it.
type Normalizer interface {
	Normalize(body []byte) (paper.Patch, error)
}

// cslEntry holds the identity fields of a CSL-JSON work that the
// normalizer does not map.
type cslEntry struct {
	DOI         string `json:"DOI"`
	CitationKey string `json:"citation-key"`
}

// Entry is one imported work: the draft it describes and the field updates
// that produced it, for applying to a paper already in the library.
type Entry struct {
	Draft paper.Draft
	Patch paper.Patch
}

// ParseCSL parses a CSL-JSON export (a list of works, as written by Zotero,
// Paperpile or `curl -H "Accept: application/json" https://doi.org/...`)
// into entries. Works that fail validation are reported and skipped.
func ParseCSL(data []byte, n Normalizer) ([]Entry, []error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		// A single work, as returned by the resolver.
		var one map[string]json.RawMessage
		if json.Unmarshal(data, &one) != nil {
			return nil, []error{fmt.Errorf("parsing CSL-JSON: %w", err)}
		}
		raws = []json.RawMessage{data}
	}

	var entries []Entry
	var errs []error
	for i, raw := range raws {
		e, err := parseEntry(raw, n)
		if err != nil {
			errs = append(errs, fmt.Errorf("entry %d: %w", i+1, err))
			continue
		}
		entries = append(entries, e)
	}
	return entries, errs
}

func parseEntry(raw json.RawMessage, n Normalizer) (Entry, error) {
	var entry cslEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return Entry{}, fmt.Errorf("reading identity fields: %w", err)
	}

	patch, err := n.Normalize(raw)
	if err != nil {
		return Entry{}, err
	}

	d := paper.New(paper.StripDOIPrefix(entry.DOI))
	d.ID = entry.CitationKey
	if err := patch.Apply(d); err != nil {
		return Entry{}, err
	}
	return Entry{Draft: *d, Patch: patch}, nil
}
