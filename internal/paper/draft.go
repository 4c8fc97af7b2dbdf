// Package paper defines the paper draft record that scrapers enrich.
package paper

import (
	"errors"
	"fmt"
)

// PubType classifies where a paper was published.
type PubType int

const (
	Journal    PubType = 0
	Conference PubType = 1
	Other      PubType = 2
)

// String returns the lower-case name of the publication type.
func (t PubType) String() string {
	switch t {
	case Journal:
		return "journal"
	case Conference:
		return "conference"
	default:
		return "other"
	}
}

// ParsePubType parses the name returned by PubType.String.
func ParsePubType(s string) (PubType, error) {
	switch s {
	case "journal":
		return Journal, nil
	case "conference":
		return Conference, nil
	case "other":
		return Other, nil
	}
	return Other, fmt.Errorf("%w: publication type %q", ErrInvalidValue, s)
}

// Field names accepted by SetValue. They match the JSON keys of Draft.
const (
	FieldDOI         = "doi"
	FieldTitle       = "title"
	FieldAuthors     = "authors"
	FieldPubTime     = "pubTime"
	FieldPubType     = "pubType"
	FieldPublication = "publication"
	FieldVolume      = "volume"
	FieldNumber      = "number"
	FieldPages       = "pages"
	FieldPublisher   = "publisher"
)

var (
	// ErrUnknownField is returned by SetValue for a field the draft does not have.
	ErrUnknownField = errors.New("unknown draft field")

	// ErrInvalidValue is returned by SetValue when the value has the wrong type.
	ErrInvalidValue = errors.New("invalid value for draft field")
)

// Draft is the in-progress record for one paper. It is owned by the caller;
// scrapers only borrow it for the duration of one scrape.
type Draft struct {
	ID  string `json:"id"`
	DOI string `json:"doi"`

	Title       string  `json:"title"`
	Authors     string  `json:"authors"` // "Given Family, Given Family"
	PubTime     string  `json:"pubTime"` // year
	PubType     PubType `json:"pubType"`
	Publication string  `json:"publication"`
	Volume      string  `json:"volume,omitempty"`
	Number      string  `json:"number,omitempty"`
	Pages       string  `json:"pages,omitempty"`
	Publisher   string  `json:"publisher,omitempty"`

	// Caller-owned fields; no scraper writes these.
	Tags    []string `json:"tags,omitempty"`
	Note    string   `json:"note,omitempty"`
	PDFPath string   `json:"pdf_path,omitempty"`
}

// New returns an empty draft for the given DOI. PubType starts as Other.
func New(doi string) *Draft {
	return &Draft{DOI: doi, PubType: Other}
}

// SetValue assigns a single field by name. String fields take a string and
// pubType takes a PubType or an int in [0, 2].
func (d *Draft) SetValue(field string, value any) error {
	if field == FieldPubType {
		t, err := toPubType(value)
		if err != nil {
			return err
		}
		d.PubType = t
		return nil
	}

	target := d.stringField(field)
	if target == nil {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("%w: %s wants a string, got %T", ErrInvalidValue, field, value)
	}
	*target = s
	return nil
}

// Value returns the current value of a field by name.
func (d *Draft) Value(field string) (any, error) {
	if field == FieldPubType {
		return d.PubType, nil
	}
	target := d.stringField(field)
	if target == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return *target, nil
}

func (d *Draft) stringField(field string) *string {
	switch field {
	case FieldDOI:
		return &d.DOI
	case FieldTitle:
		return &d.Title
	case FieldAuthors:
		return &d.Authors
	case FieldPubTime:
		return &d.PubTime
	case FieldPublication:
		return &d.Publication
	case FieldVolume:
		return &d.Volume
	case FieldNumber:
		return &d.Number
	case FieldPages:
		return &d.Pages
	case FieldPublisher:
		return &d.Publisher
	}
	return nil
}

func toPubType(value any) (PubType, error) {
	var t PubType
	switch v := value.(type) {
	case PubType:
		t = v
	case int:
		t = PubType(v)
	default:
		return 0, fmt.Errorf("%w: pubType wants a PubType, got %T", ErrInvalidValue, value)
	}
	if t < Journal || t > Other {
		return 0, fmt.Errorf("%w: pubType %d out of range", ErrInvalidValue, int(t))
	}
	return t, nil
}

// Clone returns a deep copy of the draft.
func (d *Draft) Clone() *Draft {
	c := *d
	if d.Tags != nil {
		c.Tags = append([]string(nil), d.Tags...)
	}
	return &c
}
