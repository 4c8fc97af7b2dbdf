package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/matsen/bipscrape/internal/paper"
)

const (
	DefaultSearchLimit = 50 // Default limit for search
	SearchTitleMaxLen  = 70 // Used in search result summaries
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
	Count  int    `json:"count,omitempty"`
}

// DraftResult is the JSON output for commands that produce one paper.
type DraftResult struct {
	Action string       `json:"action"` // scraped, added, updated
	Paper  *paper.Draft `json:"paper"`
}

// printDraftHuman prints a paper in human-readable format.
func printDraftHuman(action string, d *paper.Draft) {
	if d.ID != "" {
		fmt.Printf("%s: %s\n", capitalizeFirst(action), d.ID)
	} else {
		fmt.Printf("%s: %s\n", capitalizeFirst(action), d.DOI)
	}
	fmt.Printf("  Title: %s\n", d.Title)
	fmt.Printf("  Authors: %s\n", d.Authors)
	fmt.Printf("  Year: %s\n", d.PubTime)
	fmt.Printf("  Type: %s\n", d.PubType)
	if d.Publication != "" {
		fmt.Printf("  Publication: %s\n", d.Publication)
	}
	if d.Volume != "" || d.Number != "" || d.Pages != "" {
		fmt.Printf("  Volume/Number/Pages: %s / %s / %s\n", orDash(d.Volume), orDash(d.Number), orDash(d.Pages))
	}
	if d.Publisher != "" {
		fmt.Printf("  Publisher: %s\n", d.Publisher)
	}
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
