// Package conflict resolves git merge conflicts in papers.jsonl by matching
// drafts on both sides and merging their fields.
package conflict

import (
	"errors"
	"fmt"

	"github.com/matsen/bipscrape/internal/paper"
)

// ErrUnresolved is returned when matched drafts disagree on a field and no
// side was preferred.
var ErrUnresolved = errors.New("unresolved field conflicts")

// ConflictRegion represents a single git conflict region in a JSONL file.
type ConflictRegion struct {
	// Line numbers in original file (1-indexed)
	StartLine int // Line of <<<<<<< marker
	EndLine   int // Line of >>>>>>> marker

	Ours   []paper.Draft // Drafts from "ours" (HEAD) side
	Theirs []paper.Draft // Drafts from "theirs" side

	OursRaw   string
	TheirsRaw string
}

// PaperMatch represents a paper that appears on both sides of a conflict.
type PaperMatch struct {
	Ours      paper.Draft
	Theirs    paper.Draft
	MatchedBy string // "doi" or "id"
}

// FieldConflict represents a true conflict for a specific field.
type FieldConflict struct {
	FieldName   string `json:"field"`
	OursValue   string `json:"ours"`
	TheirsValue string `json:"theirs"`
}

// ResolutionAction indicates the type of resolution applied.
type ResolutionAction string

const (
	ActionKeepOurs   ResolutionAction = "keep_ours"   // Ours is more complete
	ActionKeepTheirs ResolutionAction = "keep_theirs" // Theirs is more complete
	ActionMerge      ResolutionAction = "merge"       // Complementary metadata merged
	ActionAddOurs    ResolutionAction = "add_ours"    // Paper only in ours
	ActionAddTheirs  ResolutionAction = "add_theirs"  // Paper only in theirs
	ActionConflict   ResolutionAction = "conflict"    // True conflict
)

// ResolutionPlan describes how a paper in a conflict region is resolved.
type ResolutionPlan struct {
	PaperID   string           `json:"id"`
	DOI       string           `json:"doi,omitempty"`
	Action    ResolutionAction `json:"action"`
	Reason    string           `json:"reason"`
	Conflicts []FieldConflict  `json:"conflicts,omitempty"`
}

// Side selects which version wins a true conflict.
type Side string

const (
	SideNone   Side = ""
	SideOurs   Side = "ours"
	SideTheirs Side = "theirs"
)

// ParseError represents an error while parsing conflict markers or JSONL.
type ParseError struct {
	Line    int    // Line number where error occurred (1-indexed)
	Message string // Description of the error
	Context string // Surrounding content for debugging
}

func (e ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// ParseResult contains the result of parsing a conflicted file.
type ParseResult struct {
	CleanLines []CleanLine
	Conflicts  []ConflictRegion
}

// CleanLine represents a line outside of any conflict region.
type CleanLine struct {
	LineNum int
	Content string
}

// MatchResult contains the result of matching papers in a conflict region.
type MatchResult struct {
	Matches    []PaperMatch
	OursOnly   []paper.Draft
	TheirsOnly []paper.Draft
}
