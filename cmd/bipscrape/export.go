package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/bipscrape/internal/clipboard"
	"github.com/matsen/bipscrape/internal/export"
	"github.com/matsen/bipscrape/internal/paper"
	"github.com/matsen/bipscrape/internal/storage"
)

var (
	exportBibTeX bool
	exportCopy   bool
)

var exportCmd = &cobra.Command{
	Use:   "export [id...]",
	Short: "Export library papers",
	Long: `Export papers from the library, all of them when no IDs are given.

Examples:
  bipscrape export --bibtex > refs.bib
  bipscrape export He2016-dr Turing1950-cm
  bipscrape export He2016-dr --copy`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().BoolVar(&exportBibTeX, "bibtex", false, "Export as BibTeX instead of JSON")
	exportCmd.Flags().BoolVarP(&exportCopy, "copy", "c", false, "Copy BibTeX to the clipboard instead of printing")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := mustLoadGlobalConfig()
	root := mustFindLibrary(cfg)
	drafts := mustReadPapers(root)

	if len(args) > 0 {
		selected := make([]paper.Draft, 0, len(args))
		for _, id := range args {
			i, found := storage.FindByID(drafts, id)
			if !found {
				exitWithError(ExitNotFound, "paper not found: %s", id)
			}
			selected = append(selected, drafts[i])
		}
		drafts = selected
	}

	if exportCopy {
		if err := clipboard.Copy(export.ToBibTeXList(drafts)); err != nil {
			exitWithError(ExitError, "copying to clipboard: %v", err)
		}
		return outputJSON(StatusResponse{Status: "copied", Count: len(drafts)})
	}
	if exportBibTeX {
		fmt.Print(export.ToBibTeXList(drafts))
		return nil
	}
	if drafts == nil {
		drafts = []paper.Draft{}
	}
	return outputJSON(drafts)
}
