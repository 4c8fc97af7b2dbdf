package scraper

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/matsen/bipscrape/internal/paper"
)

const (
	// DOIName is the name the DOI scraper is enabled under.
	DOIName = "doi"

	// DOIResolverURL is the base address identifiers are appended to.
	DOIResolverURL = "https://dx.doi.org/"

	// ieeeLongName is rewritten to "IEEE" in the publisher field.
	ieeeLongName = "Institute of Electrical and Electronics Engineers (IEEE)"
)

// DOI scrapes metadata from the DOI resolver using JSON content negotiation.
type DOI struct {
	enabler  Enabler
	progress ProgressSink
	baseURL  string
}

// DOIOption configures a DOI scraper.
type DOIOption func(*DOI)

// WithBaseURL sets the resolver base address (for testing).
func WithBaseURL(url string) DOIOption {
	return func(s *DOI) {
		s.baseURL = url
	}
}

// NewDOI creates a DOI scraper. A nil progress sink discards messages.
func NewDOI(enabler Enabler, progress ProgressSink, opts ...DOIOption) *DOI {
	if progress == nil {
		progress = discardProgress{}
	}
	s := &DOI{
		enabler:  enabler,
		progress: progress,
		baseURL:  DOIResolverURL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns DOIName.
func (s *DOI) Name() string { return DOIName }

// Plan builds the resolver request for d. It is enabled only when the draft
// has a DOI that is not blank after cleanup and the scraper is enabled in
// configuration.
func (s *DOI) Plan(d *paper.Draft) Request {
	id := paper.CleanIdentifier(d.DOI)
	enabled := id != "" && s.enabler.IsEnabled(DOIName)
	req := Request{
		URL: s.baseURL + id,
		Headers: map[string]string{
			"Accept": "application/json",
		},
		Enabled: enabled,
	}

	if enabled {
		s.progress.Progress("Scraping metadata by DOI ...")
	}
	return req
}

// Parse normalizes body into d and returns d. On error d is left unchanged.
func (s *DOI) Parse(body []byte, d *paper.Draft) (*paper.Draft, error) {
	patch, err := s.Normalize(body)
	if err != nil {
		return d, err
	}
	if err := patch.Apply(d); err != nil {
		return d, err
	}
	return d, nil
}

// Normalize validates body and returns the field updates it implies,
// without touching any draft.
func (s *DOI) Normalize(body []byte) (paper.Patch, error) {
	work, err := decodeWork(body)
	if err != nil {
		return nil, err
	}

	var p paper.Patch
	p.Set(paper.FieldTitle, work.Title.first())
	p.Set(paper.FieldAuthors, formatAuthors(work.Author))
	p.Set(paper.FieldPubTime, work.Published.year())
	p.Set(paper.FieldPubType, classifyType(work.Type))

	if venue := work.ContainerTitle.first(); venue != "" {
		p.Set(paper.FieldPublication, venue)
	}
	if work.Volume != "" {
		p.Set(paper.FieldVolume, string(work.Volume))
	}
	if work.Issue != "" {
		p.Set(paper.FieldNumber, string(work.Issue))
	}
	if work.Page != "" {
		p.Set(paper.FieldPages, string(work.Page))
	}
	if work.Publisher != "" {
		p.Set(paper.FieldPublisher, canonicalPublisher(string(work.Publisher)))
	}
	return p, nil
}

// decodeWork parses body and checks the fields every enabled response must
// carry.
func decodeWork(body []byte) (*cslWork, error) {
	var work cslWork
	if err := json.Unmarshal(body, &work); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &ParseError{Scraper: DOIName, Field: typeErr.Field, Err: err}
		}
		return nil, &ParseError{Scraper: DOIName, Err: err}
	}

	if work.Title.first() == "" {
		return nil, &ParseError{Scraper: DOIName, Field: "title"}
	}
	if formatAuthors(work.Author) == "" {
		return nil, &ParseError{Scraper: DOIName, Field: "author"}
	}
	for i, a := range work.Author {
		if a.displayName() == "" {
			return nil, &ParseError{Scraper: DOIName, Field: fmt.Sprintf("author[%d]", i)}
		}
	}
	if work.Published.year() == "" {
		return nil, &ParseError{Scraper: DOIName, Field: "published.date-parts"}
	}
	return &work, nil
}

// formatAuthors joins author names with ", " in response order.
func formatAuthors(authors []cslAuthor) string {
	names := make([]string, 0, len(authors))
	for _, a := range authors {
		if name := a.displayName(); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

// classifyType maps a CSL type onto a PubType.
func classifyType(t string) paper.PubType {
	switch t {
	case "proceedings-article":
		return paper.Conference
	case "journal-article":
		return paper.Journal
	default:
		return paper.Other
	}
}

func canonicalPublisher(name string) string {
	if name == ieeeLongName {
		return "IEEE"
	}
	return name
}
