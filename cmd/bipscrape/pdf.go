package main

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matsen/bipscrape/internal/paper"
	"github.com/matsen/bipscrape/internal/pdf"
)

var (
	pdfAdd      bool
	pdfMaxPages int
)

var pdfCmd = &cobra.Command{
	Use:   "pdf <file>",
	Short: "Find the DOI in a PDF and fetch its metadata",
	Long: `Search the first pages of a PDF for a DOI, then fetch metadata for it.

Examples:
  bipscrape pdf ~/Downloads/resnet.pdf
  bipscrape pdf paper.pdf --add --pages 5`,
	Args: cobra.ExactArgs(1),
	RunE: runPDF,
}

func init() {
	rootCmd.AddCommand(pdfCmd)
	pdfCmd.Flags().BoolVarP(&pdfAdd, "add", "a", false, "Add or update the paper in the library")
	pdfCmd.Flags().IntVar(&pdfMaxPages, "pages", pdf.DefaultMaxPages, "Number of leading pages to search")
}

func runPDF(cmd *cobra.Command, args []string) error {
	cfg := mustLoadGlobalConfig()
	log := newLogger()

	path, err := filepath.Abs(args[0])
	if err != nil {
		exitWithError(ExitError, "resolving path: %v", err)
	}

	doi, err := pdf.ExtractDOI(path, pdfMaxPages)
	if err != nil {
		exitWithError(ExitDataError, "reading %s: %v", path, err)
	}
	if doi == "" {
		exitWithError(ExitNotFound, "no DOI found in the first %d pages of %s", pdfMaxPages, path)
	}
	log.Debug().Str("doi", doi).Str("file", path).Msg("found DOI")

	d := paper.New(doi)
	d.PDFPath = path
	patch, err := scrapeOne(context.Background(), newDOIScraper(cfg, log), newFetcher(cfg), d)
	if err != nil {
		exitWithError(scrapeExitCode(err), "%v", err)
	}

	action := "scraped"
	if pdfAdd {
		action, d = addToLibrary(cfg, d, patch, log)
	}

	if humanOutput {
		printDraftHuman(action, d)
		return nil
	}
	return outputJSON(DraftResult{Action: action, Paper: d})
}
