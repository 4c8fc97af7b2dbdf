package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/matsen/bipscrape/internal/storage"
)

var enrichID string

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Refresh metadata for library papers that have a DOI",
	Long: `Run the DOI scraper over every paper in the library that has a DOI.

Fields the resolver does not return are left as they are, as are tags,
notes and PDF paths. A paper that fails is reported and skipped.

Examples:
  bipscrape enrich
  bipscrape enrich --id He2016-dr --human`,
	Args: cobra.NoArgs,
	RunE: runEnrich,
}

func init() {
	rootCmd.AddCommand(enrichCmd)
	enrichCmd.Flags().StringVar(&enrichID, "id", "", "Only enrich the paper with this ID")
}

// EnrichResult is the JSON output for the enrich command.
type EnrichResult struct {
	Enriched int             `json:"enriched"`
	Skipped  int             `json:"skipped"`
	Failed   int             `json:"failed"`
	Papers   []EnrichOutcome `json:"papers"`
}

func runEnrich(cmd *cobra.Command, args []string) error {
	cfg := mustLoadGlobalConfig()
	log := newLogger()
	root := mustFindLibrary(cfg)
	drafts := mustReadPapers(root)

	if enrichID != "" {
		if _, found := storage.FindByID(drafts, enrichID); !found {
			exitWithError(ExitNotFound, "paper not found: %s", enrichID)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	outcomes := enrichDrafts(ctx, log, newDOIScraper(cfg, log), newFetcher(cfg), drafts, enrichID)
	mustWritePapers(root, drafts, log)

	result := EnrichResult{Papers: outcomes}
	for _, o := range outcomes {
		switch o.Status {
		case statusEnriched:
			result.Enriched++
		case statusSkipped:
			result.Skipped++
		case statusFailed:
			result.Failed++
		}
	}

	if humanOutput {
		for _, o := range outcomes {
			if o.Status == statusFailed {
				fmt.Printf("  failed  %s: %s\n", o.ID, o.Error)
			}
		}
		fmt.Printf("Enriched %d, skipped %d, failed %d\n", result.Enriched, result.Skipped, result.Failed)
		return nil
	}
	return outputJSON(result)
}
