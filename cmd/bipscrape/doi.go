package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matsen/bipscrape/internal/paper"
)

var doiAdd bool

var doiCmd = &cobra.Command{
	Use:   "doi <identifier>",
	Short: "Fetch metadata for a DOI",
	Long: `Fetch metadata for a DOI from the DOI resolver and print the resulting paper.

The identifier may include a resolver URL or "doi:" label and stray
whitespace; both are removed before the lookup.

Examples:
  bipscrape doi 10.1109/CVPR.2016.90
  bipscrape doi https://doi.org/10.1038/nature14539 --add
  bipscrape doi 10.1093/sysbio/syy032 --human`,
	Args: cobra.ExactArgs(1),
	RunE: runDOI,
}

func init() {
	rootCmd.AddCommand(doiCmd)
	doiCmd.Flags().BoolVarP(&doiAdd, "add", "a", false, "Add or update the paper in the library")
}

func runDOI(cmd *cobra.Command, args []string) error {
	cfg := mustLoadGlobalConfig()
	log := newLogger()

	d := paper.New(paper.StripDOIPrefix(args[0]))
	patch, err := scrapeOne(context.Background(), newDOIScraper(cfg, log), newFetcher(cfg), d)
	if err != nil {
		exitWithError(scrapeExitCode(err), "%v", err)
	}

	action := "scraped"
	if doiAdd {
		action, d = addToLibrary(cfg, d, patch, log)
	}

	if humanOutput {
		printDraftHuman(action, d)
		return nil
	}
	return outputJSON(DraftResult{Action: action, Paper: d})
}
