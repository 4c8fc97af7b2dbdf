// Package storage handles library persistence in JSONL and SQLite formats.
package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/matsen/bipscrape/internal/paper"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// ReadAll reads all drafts from a JSONL file.
func ReadAll(path string) ([]paper.Draft, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening papers file: %w", err)
	}
	defer f.Close()

	var drafts []paper.Draft
	scanner := bufio.NewScanner(f)
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var d paper.Draft
		if err := json.Unmarshal(line, &d); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		drafts = append(drafts, d)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading papers file: %w", err)
	}

	return drafts, nil
}

// Append adds a draft to the end of a JSONL file.
func Append(path string, d paper.Draft) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening papers file for append: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encoding draft: %w", err)
	}
	data = append(data, '\n')

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing draft: %w", err)
	}
	return nil
}

// WriteAll writes all drafts to a JSONL file, replacing existing content.
// The file is written to a temporary sibling and renamed into place.
func WriteAll(path string, drafts []paper.Draft) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating papers file: %w", err)
	}

	w := bufio.NewWriter(f)
	for i, d := range drafts {
		data, err := json.Marshal(d)
		if err != nil {
			f.Close()
			os.Remove(tmp)
			return fmt.Errorf("encoding draft %d: %w", i, err)
		}
		w.Write(data)
		w.WriteByte('\n')
	}

	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("writing papers file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing papers file: %w", err)
	}
	return os.Rename(tmp, path)
}

// FindByDOI searches for a draft by DOI. DOIs are compared normalized.
func FindByDOI(drafts []paper.Draft, doi string) (int, bool) {
	want := paper.NormalizeDOI(doi)
	if want == "" {
		return -1, false
	}
	for i, d := range drafts {
		if paper.NormalizeDOI(d.DOI) == want {
			return i, true
		}
	}
	return -1, false
}

// FindByID searches for a draft by ID.
func FindByID(drafts []paper.Draft, id string) (int, bool) {
	for i, d := range drafts {
		if d.ID == id {
			return i, true
		}
	}
	return -1, false
}

// GenerateUniqueID returns an ID that doesn't conflict with existing drafts.
// If the base ID exists, appends -2, -3, etc.
func GenerateUniqueID(drafts []paper.Draft, baseID string) string {
	if _, found := FindByID(drafts, baseID); !found {
		return baseID
	}

	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", baseID, i)
		if _, found := FindByID(drafts, candidate); !found {
			return candidate
		}
	}
}

// Upsert actions.
const (
	ActionAdded   = "added"
	ActionUpdated = "updated"
)

// Upsert applies patch to the draft with the same DOI as d, or adds d with
// patch applied when the DOI is new. Fields the patch does not name keep
// their stored values. Tags on d are added to an existing draft, and a note
// or PDF path on d replaces the stored one. New drafts without an ID get a
// unique cite key.
func Upsert(drafts []paper.Draft, d paper.Draft, patch paper.Patch) ([]paper.Draft, string, paper.Draft, error) {
	if i, found := FindByDOI(drafts, d.DOI); found {
		stored := drafts[i].Clone()
		if err := patch.Apply(stored); err != nil {
			return drafts, "", paper.Draft{}, fmt.Errorf("updating %s: %w", stored.ID, err)
		}
		for _, tag := range d.Tags {
			if !containsString(stored.Tags, tag) {
				stored.Tags = append(stored.Tags, tag)
			}
		}
		if d.Note != "" {
			stored.Note = d.Note
		}
		if d.PDFPath != "" {
			stored.PDFPath = d.PDFPath
		}
		drafts[i] = *stored
		return drafts, ActionUpdated, *stored, nil
	}

	added := d.Clone()
	if err := patch.Apply(added); err != nil {
		return drafts, "", paper.Draft{}, fmt.Errorf("adding %s: %w", d.DOI, err)
	}
	if added.ID == "" {
		added.ID = paper.CiteKey(added)
	}
	added.ID = GenerateUniqueID(drafts, added.ID)
	return append(drafts, *added), ActionAdded, *added, nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
