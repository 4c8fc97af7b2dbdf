package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/bipscrape/internal/author"
	"github.com/matsen/bipscrape/internal/paper"
	"github.com/matsen/bipscrape/internal/storage"
)

var (
	searchLimit   int
	searchAuthors []string
	searchType    string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search library papers by title, authors or publication",
	Long: `Search library papers by keyword, author or publication type.

Examples:
  bipscrape search attention
  bipscrape search transformer -a Vaswani
  bipscrape search -a "Yu, Timothy" -a Bloom
  bipscrape search --type conference`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", DefaultSearchLimit, "Maximum number of results")
	searchCmd.Flags().StringArrayVarP(&searchAuthors, "author", "a", nil, "Filter by author (repeatable, all must match)")
	searchCmd.Flags().StringVar(&searchType, "type", "", "Filter by publication type (journal, conference, other)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" && len(searchAuthors) == 0 && searchType == "" {
		exitWithError(ExitError, "give a query, --author or --type")
	}

	var filter searchFilter
	for _, a := range searchAuthors {
		filter.authors = append(filter.authors, author.ParseQuery(a))
	}
	if searchType != "" {
		t, err := paper.ParsePubType(searchType)
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		filter.pubType = &t
	}

	cfg := mustLoadGlobalConfig()
	root := mustFindLibrary(cfg)

	var candidates []paper.Draft
	switch {
	case query != "":
		candidates = mustSearchIndex(root, func(db *storage.DB) ([]paper.Draft, error) {
			return db.SearchWithFilters(query, searchLimit, filter.storageFilter())
		})
	case filter.pubType != nil && len(filter.authors) == 0:
		candidates = mustSearchIndex(root, func(db *storage.DB) ([]paper.Draft, error) {
			return db.ListByPubType(*filter.pubType, searchLimit)
		})
	default:
		candidates = mustReadPapers(root)
	}

	results := filter.apply(candidates, searchLimit)

	if humanOutput {
		if len(results) == 0 {
			fmt.Println("No papers found")
			return nil
		}
		for _, p := range results {
			fmt.Printf("%s  %s\n", p.ID, truncateString(p.Title, SearchTitleMaxLen))
			fmt.Printf("    %s (%s) %s\n", truncateString(p.Authors, SearchTitleMaxLen), p.PubTime, p.Publication)
		}
		return nil
	}
	return outputJSON(results)
}

func mustSearchIndex(root string, fn func(*storage.DB) ([]paper.Draft, error)) []paper.Draft {
	db := mustOpenDatabase(root)
	defer db.Close()

	results, err := fn(db)
	if err != nil {
		exitWithError(ExitError, "searching: %v", err)
	}
	return results
}

// searchFilter narrows search candidates by author and publication type.
type searchFilter struct {
	authors []author.Query
	pubType *paper.PubType
}

// apply returns at most limit drafts matching every filter. The result is
// never nil so that JSON output is an empty list.
func (f searchFilter) apply(drafts []paper.Draft, limit int) []paper.Draft {
	results := []paper.Draft{}
	for _, d := range drafts {
		if limit > 0 && len(results) >= limit {
			break
		}
		if f.matches(d) {
			results = append(results, d)
		}
	}
	return results
}

func (f searchFilter) matches(d paper.Draft) bool {
	if f.pubType != nil && d.PubType != *f.pubType {
		return false
	}
	return author.AllMatch(f.authors, d.Authors)
}

// storageFilter pushes the filter into the index query so the limit counts
// only matching papers.
func (f searchFilter) storageFilter() storage.SearchFilter {
	sf := storage.SearchFilter{PubType: f.pubType}
	if len(f.authors) > 0 {
		sf.Match = f.matches
	}
	return sf
}
