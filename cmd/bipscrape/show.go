package main

import (
	"github.com/spf13/cobra"

	"github.com/matsen/bipscrape/internal/paper"
)

var showCmd = &cobra.Command{
	Use:   "show <id-or-doi>",
	Short: "Show one library paper",
	Long: `Show one library paper, looked up by ID first and then by DOI.

Examples:
  bipscrape show Vaswani2017-at
  bipscrape show https://doi.org/10.48550/arXiv.1706.03762`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg := mustLoadGlobalConfig()
	root := mustFindLibrary(cfg)
	db := mustOpenDatabase(root)
	defer db.Close()

	key := paper.CleanIdentifier(args[0])
	d, err := db.GetByID(key)
	if err != nil {
		exitWithError(ExitError, "looking up %s: %v", key, err)
	}
	if d == nil {
		d, err = db.GetByDOI(key)
		if err != nil {
			exitWithError(ExitError, "looking up %s: %v", key, err)
		}
	}
	if d == nil {
		exitWithError(ExitNotFound, "paper not found: %s", key)
	}

	if humanOutput {
		printDraftHuman("paper", d)
		return nil
	}
	return outputJSON(d)
}
