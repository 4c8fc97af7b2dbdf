package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/bipscrape/internal/config"
	"github.com/matsen/bipscrape/internal/conflict"
)

var (
	resolveOurs   bool
	resolveTheirs bool
	resolveDryRun bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve git merge conflicts in papers.jsonl",
	Long: `Resolve git merge conflicts in papers.jsonl.

Papers on both sides of a conflict are matched by DOI, then by ID. The more
complete version is kept, complementary fields are merged and tags are
combined. Papers that disagree on a field need --ours or --theirs to pick
the winning side for those fields.

Examples:
  bipscrape resolve --dry-run
  bipscrape resolve --theirs`,
	Args: cobra.NoArgs,
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().BoolVar(&resolveOurs, "ours", false, "Take conflicting fields from our side")
	resolveCmd.Flags().BoolVar(&resolveTheirs, "theirs", false, "Take conflicting fields from their side")
	resolveCmd.Flags().BoolVar(&resolveDryRun, "dry-run", false, "Report the resolution without writing")
	resolveCmd.MarkFlagsMutuallyExclusive("ours", "theirs")
}

// ResolveResult is the JSON response for the resolve command.
type ResolveResult struct {
	Status string                    `json:"status"` // clean, resolved, unresolved
	Papers int                       `json:"papers"`
	Plans  []conflict.ResolutionPlan `json:"plans,omitempty"`
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg := mustLoadGlobalConfig()
	log := newLogger()
	root := mustFindLibrary(cfg)

	f, err := os.Open(config.PapersPath(root))
	if err != nil {
		exitWithError(ExitDataError, "opening papers: %v", err)
	}
	parsed, err := conflict.Parse(f)
	f.Close()
	if err != nil {
		exitWithError(ExitDataError, "parsing papers: %v", err)
	}

	if !parsed.HasConflicts() {
		if humanOutput {
			fmt.Println("No conflicts found")
			return nil
		}
		return outputJSON(ResolveResult{Status: "clean", Papers: len(parsed.CleanLines)})
	}

	prefer := conflict.SideNone
	if resolveOurs {
		prefer = conflict.SideOurs
	} else if resolveTheirs {
		prefer = conflict.SideTheirs
	}

	drafts, plans, err := conflict.ResolveAll(parsed, prefer)
	result := ResolveResult{Status: "resolved", Papers: len(drafts), Plans: plans}
	if errors.Is(err, conflict.ErrUnresolved) {
		result.Status = "unresolved"
	} else if err != nil {
		exitWithError(ExitDataError, "resolving: %v", err)
	}

	if result.Status == "resolved" && !resolveDryRun {
		mustWritePapers(root, drafts, log)
	}

	if humanOutput {
		for _, p := range plans {
			fmt.Printf("%-12s %s (%s)\n", p.Action, p.PaperID, p.Reason)
			for _, c := range p.Conflicts {
				fmt.Printf("    %s: %q vs %q\n", c.FieldName, truncateString(c.OursValue, 40), truncateString(c.TheirsValue, 40))
			}
		}
		fmt.Printf("%s: %d papers\n", capitalizeFirst(result.Status), result.Papers)
	} else if err := outputJSON(result); err != nil {
		return err
	}

	if result.Status == "unresolved" {
		os.Exit(ExitDataError)
	}
	return nil
}
