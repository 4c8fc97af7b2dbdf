package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/bipscrape/internal/config"
)

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the search index from papers.jsonl",
	Long: `Rebuild the SQLite search index from the JSONL source file.

Use this after editing papers.jsonl by hand or pulling changes from git.`,
	Args: cobra.NoArgs,
	RunE: runRebuild,
}

// RebuildResult is the response for the rebuild command.
type RebuildResult struct {
	Status string `json:"status"`
	Papers int    `json:"papers"`
}

func runRebuild(cmd *cobra.Command, args []string) error {
	cfg := mustLoadGlobalConfig()
	root := mustFindLibrary(cfg)

	db := mustOpenDatabase(root)
	defer db.Close()

	count, err := db.RebuildFromJSONL(config.PapersPath(root))
	if err != nil {
		exitWithError(ExitDataError, "rebuilding database: %v", err)
	}

	if humanOutput {
		fmt.Printf("Rebuilt search index with %d papers\n", count)
		return nil
	}
	return outputJSON(RebuildResult{Status: "rebuilt", Papers: count})
}
