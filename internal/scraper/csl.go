package scraper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// cslWork is the subset of the CSL-JSON document returned by the DOI
// resolver that the DOI scraper reads. JSON keys are fixed by the resolver.
type cslWork struct {
	Title          textList    `json:"title"`
	Author         []cslAuthor `json:"author"`
	Published      *cslDate    `json:"published"`
	Type           string      `json:"type"`
	ContainerTitle textList    `json:"container-title"`
	Publisher      looseString `json:"publisher"`
	Page           looseString `json:"page"`
	Volume         looseString `json:"volume"`
	Issue          looseString `json:"issue"`
}

type cslAuthor struct {
	Given   string `json:"given"`
	Family  string `json:"family"`
	Literal string `json:"literal"` // Organisations and consortia
}

type cslDate struct {
	DateParts [][]looseString `json:"date-parts"`
}

// displayName formats an author as "Given Family". Authors with only one
// name part, or only a literal name, use that part alone.
func (a cslAuthor) displayName() string {
	given := strings.TrimSpace(a.Given)
	family := strings.TrimSpace(a.Family)
	switch {
	case given != "" && family != "":
		return given + " " + family
	case family != "":
		return family
	case given != "":
		return given
	}
	return strings.TrimSpace(a.Literal)
}

// year returns the first entry of the first date-parts element.
func (d *cslDate) year() string {
	if d == nil || len(d.DateParts) == 0 || len(d.DateParts[0]) == 0 {
		return ""
	}
	return string(d.DateParts[0][0])
}

// looseString decodes a JSON string or number into its text form. Null
// decodes to the empty string.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("want string or number, got %s", data)
	}
	*s = looseString(n.String())
	return nil
}

// textList decodes either a single JSON string or a list of strings. Crossref
// uses lists for titles; the CSL served by doi.org usually uses a string.
type textList []string

func (t *textList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = nil
		return nil
	case len(data) > 0 && data[0] == '[':
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*t = list
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = textList{s}
	return nil
}

// first returns the first non-blank entry.
func (t textList) first() string {
	for _, s := range t {
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}
