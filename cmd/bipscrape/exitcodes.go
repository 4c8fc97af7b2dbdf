package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (missing config, no library)
	ExitDataError   = 3 // Data error (malformed resolver response, bad papers.jsonl)
	ExitNotFound    = 4 // DOI not known to the resolver, or no DOI in PDF
	ExitDisabled    = 5 // Scraper disabled in configuration
	ExitAPIError    = 6 // Network error, rate limit or unexpected HTTP status
)
