package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/bipscrape/internal/importer"
	"github.com/matsen/bipscrape/internal/paper"
	"github.com/matsen/bipscrape/internal/storage"
)

var importDryRun bool

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import papers from a CSL-JSON export",
	Long: `Import papers from a CSL-JSON file, such as a Zotero or Paperpile export
or a saved resolver response. Works are normalized exactly as the DOI scraper
normalizes resolver responses; invalid works are reported and skipped.

Examples:
  bipscrape import library.json
  bipscrape import library.json --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Report what would be imported without writing")
}

// ImportResult is the JSON response for the import command.
type ImportResult struct {
	Added   int      `json:"added"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg := mustLoadGlobalConfig()
	log := newLogger()
	root := mustFindLibrary(cfg)

	data, err := os.ReadFile(args[0])
	if err != nil {
		exitWithError(ExitError, "reading %s: %v", args[0], err)
	}

	imported, errs := importer.ParseCSL(data, newDOIScraper(cfg, log))
	if len(imported) == 0 && len(errs) > 0 {
		exitWithError(ExitDataError, "%v", errs[0])
	}

	drafts := mustReadPapers(root)
	result, err := importInto(&drafts, imported)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	result.Skipped = len(errs)
	for _, e := range errs {
		result.Errors = append(result.Errors, e.Error())
		log.Warn().Err(e).Msg("skipped entry")
	}

	if !importDryRun {
		mustWritePapers(root, drafts, log)
	}

	if humanOutput {
		prefix := ""
		if importDryRun {
			prefix = "Dry run: "
		}
		fmt.Printf("%sadded %d, updated %d, skipped %d\n", prefix, result.Added, result.Updated, result.Skipped)
		return nil
	}
	return outputJSON(result)
}

// importInto upserts every imported entry into drafts. Papers already in the
// library only receive the fields the imported work carries.
func importInto(drafts *[]paper.Draft, imported []importer.Entry) (ImportResult, error) {
	var result ImportResult
	for _, e := range imported {
		var action string
		var err error
		*drafts, action, _, err = storage.Upsert(*drafts, e.Draft, e.Patch)
		if err != nil {
			return result, err
		}
		if action == storage.ActionAdded {
			result.Added++
		} else {
			result.Updated++
		}
	}
	return result, nil
}
