// Package scraper defines the plan/parse contract that metadata sources
// implement, and the DOI resolver scraper.
package scraper

import (
	"context"
	"fmt"

	"github.com/matsen/bipscrape/internal/paper"
)

// Request describes the HTTP request a scraper wants issued. It is built
// fresh for every draft and consumed by a Fetcher.
type Request struct {
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
	Enabled bool              `json:"enabled"`
}

// Scraper is one external metadata source.
//
// Plan decides whether the source applies to d and describes the request.
// Parse reads a response body into d and returns d. Parse must not be called
// for a request that was not enabled or whose fetch failed.
type Scraper interface {
	Name() string
	Plan(d *paper.Draft) Request
	Parse(body []byte, d *paper.Draft) (*paper.Draft, error)
}

// Enabler reports whether a scraper is administratively enabled.
type Enabler interface {
	IsEnabled(name string) bool
}

// EnablerFunc adapts a function to Enabler.
type EnablerFunc func(name string) bool

// IsEnabled calls f(name).
func (f EnablerFunc) IsEnabled(name string) bool { return f(name) }

// ProgressSink receives human-readable progress messages.
type ProgressSink interface {
	Progress(msg string)
}

type discardProgress struct{}

func (discardProgress) Progress(string) {}

// Normalizer is a Scraper that can report the field updates a response
// implies without applying them.
type Normalizer interface {
	Scraper
	Normalize(body []byte) (paper.Patch, error)
}

// Fetcher performs the network call a Request describes.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) ([]byte, error)
}

// Run executes one scrape cycle of s against d: plan, fetch, parse.
// It reports whether the scraper applied. A disabled plan is not an error and
// never reaches f.
func Run(ctx context.Context, s Scraper, f Fetcher, d *paper.Draft) (bool, error) {
	req := s.Plan(d)
	if !req.Enabled {
		return false, nil
	}

	body, err := f.Fetch(ctx, req)
	if err != nil {
		return true, fmt.Errorf("%s: fetching %s: %w", s.Name(), req.URL, err)
	}

	if _, err := s.Parse(body, d); err != nil {
		return true, err
	}
	return true, nil
}

// RunPatch plans and fetches for d like Run, but returns the normalized
// patch instead of applying it. d is not modified, so the caller can apply
// the patch to a stored copy of the same paper.
func RunPatch(ctx context.Context, s Normalizer, f Fetcher, d *paper.Draft) (paper.Patch, bool, error) {
	req := s.Plan(d)
	if !req.Enabled {
		return nil, false, nil
	}

	body, err := f.Fetch(ctx, req)
	if err != nil {
		return nil, true, fmt.Errorf("%s: fetching %s: %w", s.Name(), req.URL, err)
	}

	patch, err := s.Normalize(body)
	if err != nil {
		return nil, true, err
	}
	return patch, true, nil
}
