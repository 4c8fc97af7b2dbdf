package main

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/matsen/bipscrape/internal/fetch"
	"github.com/matsen/bipscrape/internal/paper"
	"github.com/matsen/bipscrape/internal/scraper"
)

// errNotApplicable is returned when the scraper declined the draft.
var errNotApplicable = errors.New("scraper not applicable (no DOI, or disabled in config)")

// scrapeOne runs s against d and treats a declined plan as an error. It
// returns the patch it applied so that the same updates can be applied to a
// stored copy of the paper.
func scrapeOne(ctx context.Context, s scraper.Normalizer, f scraper.Fetcher, d *paper.Draft) (paper.Patch, error) {
	patch, applied, err := scraper.RunPatch(ctx, s, f, d)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, errNotApplicable
	}
	if err := patch.Apply(d); err != nil {
		return nil, err
	}
	return patch, nil
}

// scrapeExitCode maps a scrape error to a CLI exit code.
func scrapeExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, errNotApplicable):
		return ExitDisabled
	case scraper.IsMalformed(err):
		return ExitDataError
	case fetch.IsNotFound(err):
		return ExitNotFound
	default:
		return ExitAPIError
	}
}

// EnrichOutcome records what happened to one paper during enrich.
type EnrichOutcome struct {
	ID     string `json:"id"`
	DOI    string `json:"doi,omitempty"`
	Status string `json:"status"` // enriched, skipped, failed
	Error  string `json:"error,omitempty"`
}

// Enrich statuses.
const (
	statusEnriched = "enriched"
	statusSkipped  = "skipped"
	statusFailed   = "failed"
)

// enrichDrafts runs s over drafts in place. Only the draft with onlyID is
// visited when onlyID is set. Per-paper failures are recorded, not returned;
// a rate-limit response ends the run early.
func enrichDrafts(ctx context.Context, log zerolog.Logger, s scraper.Scraper, f scraper.Fetcher, drafts []paper.Draft, onlyID string) []EnrichOutcome {
	var outcomes []EnrichOutcome
	for i := range drafts {
		d := &drafts[i]
		if onlyID != "" && d.ID != onlyID {
			continue
		}
		if ctx.Err() != nil {
			break
		}

		outcome := EnrichOutcome{ID: d.ID, DOI: d.DOI}
		applied, err := scraper.Run(ctx, s, f, d)
		switch {
		case err != nil:
			outcome.Status = statusFailed
			outcome.Error = err.Error()
			log.Warn().Err(err).Str("id", d.ID).Msg("enrich failed")
			if fetch.IsRateLimited(err) {
				// Every following request would be refused too.
				outcomes = append(outcomes, outcome)
				log.Warn().Msg("resolver rate limit reached, stopping")
				return outcomes
			}
		case !applied:
			outcome.Status = statusSkipped
			log.Debug().Str("id", d.ID).Msg("no DOI or scraper disabled")
		default:
			outcome.Status = statusEnriched
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}
