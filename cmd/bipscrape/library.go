package main

import (
	"github.com/rs/zerolog"

	"github.com/matsen/bipscrape/internal/config"
	"github.com/matsen/bipscrape/internal/paper"
	"github.com/matsen/bipscrape/internal/storage"
)

// mustReadPapers loads papers.jsonl, exits on error.
func mustReadPapers(root string) []paper.Draft {
	drafts, err := storage.ReadAll(config.PapersPath(root))
	if err != nil {
		exitWithError(ExitDataError, "reading papers: %v", err)
	}
	return drafts
}

// mustWritePapers replaces papers.jsonl and refreshes the index. A failed
// index rebuild is only logged since the JSONL file is authoritative.
func mustWritePapers(root string, drafts []paper.Draft, log zerolog.Logger) {
	if err := storage.WriteAll(config.PapersPath(root), drafts); err != nil {
		exitWithError(ExitError, "writing papers: %v", err)
	}

	db := mustOpenDatabase(root)
	defer db.Close()
	if _, err := db.RebuildFromJSONL(config.PapersPath(root)); err != nil {
		log.Warn().Err(err).Msg("index rebuild failed; run 'bipscrape rebuild'")
	}
}

// addToLibrary applies patch to the library copy of d, or adds d when its
// DOI is new, and returns the action taken and the stored draft.
func addToLibrary(cfg *config.GlobalConfig, d *paper.Draft, patch paper.Patch, log zerolog.Logger) (string, *paper.Draft) {
	root := mustFindLibrary(cfg)
	drafts := mustReadPapers(root)

	drafts, action, stored, err := storage.Upsert(drafts, *d, patch)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	mustWritePapers(root, drafts, log)
	log.Debug().Str("id", stored.ID).Str("action", action).Msg("library updated")
	return action, &stored
}
