package scraper

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse indicates a response body that is not valid JSON or
// lacks a required field.
var ErrMalformedResponse = errors.New("malformed response")

// ParseError describes why a scraper rejected a response body.
type ParseError struct {
	Scraper string
	Field   string // Offending field, empty when the body is not JSON
	Err     error  // Underlying decode error, if any
}

func (e *ParseError) Error() string {
	switch {
	case e.Field != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: field %s: %v", e.Scraper, ErrMalformedResponse, e.Field, e.Err)
	case e.Field != "":
		return fmt.Sprintf("%s: %s: missing %s", e.Scraper, ErrMalformedResponse, e.Field)
	default:
		return fmt.Sprintf("%s: %s: %v", e.Scraper, ErrMalformedResponse, e.Err)
	}
}

// Unwrap exposes both ErrMalformedResponse and the decode error.
func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedResponse}
	}
	return []error{ErrMalformedResponse, e.Err}
}

// IsMalformed returns true if err came from rejecting a response body.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformedResponse)
}
