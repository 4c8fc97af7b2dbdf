package conflict

import (
	"fmt"
	"math"
	"strings"

	"github.com/matsen/bipscrape/internal/author"
	"github.com/matsen/bipscrape/internal/paper"
)

// Field completeness weights (higher = more important)
const (
	weightAuthors     = 4
	weightPublication = 3
	weightPubTime     = 2
	weightDOI         = 1
	weightDetail      = 1 // volume, number, pages, publisher
)

// Resolve determines the resolution plan for a matched paper pair.
func Resolve(match PaperMatch) ResolutionPlan {
	plan := ResolutionPlan{
		PaperID: match.Ours.ID,
		DOI:     match.Ours.DOI,
	}

	if _, conflicts := MergeDrafts(match.Ours, match.Theirs); len(conflicts) > 0 {
		plan.Action = ActionConflict
		plan.Conflicts = conflicts
		plan.Reason = "true conflicts on: " + conflictFieldNames(conflicts)
		return plan
	}

	if isComplementary(match.Ours, match.Theirs) {
		plan.Action = ActionMerge
		plan.Reason = "complementary metadata merged"
		return plan
	}

	oursScore := ComputeCompleteness(match.Ours)
	theirsScore := ComputeCompleteness(match.Theirs)

	// Longer author list breaks ties
	if oursScore == theirsScore {
		oursAuthors := len(author.Names(match.Ours.Authors))
		theirsAuthors := len(author.Names(match.Theirs.Authors))
		if theirsAuthors > oursAuthors {
			plan.Action = ActionKeepTheirs
			plan.Reason = "theirs has more authors"
			return plan
		} else if oursAuthors > theirsAuthors {
			plan.Action = ActionKeepOurs
			plan.Reason = "ours has more authors"
			return plan
		}
	}

	switch {
	case oursScore > theirsScore:
		plan.Action = ActionKeepOurs
		plan.Reason = "ours is more complete"
	case oursScore < theirsScore:
		plan.Action = ActionKeepTheirs
		plan.Reason = "theirs is more complete"
	default:
		// Tags and notes may still differ; merging keeps both.
		plan.Action = ActionMerge
		plan.Reason = "same metadata, merging tags"
	}
	return plan
}

// textFields lists the draft fields merged as plain strings, in output
// order. Authors are handled separately.
var textFields = []struct {
	name string
	get  func(*paper.Draft) *string
}{
	{paper.FieldTitle, func(d *paper.Draft) *string { return &d.Title }},
	{paper.FieldPubTime, func(d *paper.Draft) *string { return &d.PubTime }},
	{paper.FieldPublication, func(d *paper.Draft) *string { return &d.Publication }},
	{paper.FieldVolume, func(d *paper.Draft) *string { return &d.Volume }},
	{paper.FieldNumber, func(d *paper.Draft) *string { return &d.Number }},
	{paper.FieldPages, func(d *paper.Draft) *string { return &d.Pages }},
	{paper.FieldPublisher, func(d *paper.Draft) *string { return &d.Publisher }},
	{"note", func(d *paper.Draft) *string { return &d.Note }},
	{"pdf_path", func(d *paper.Draft) *string { return &d.PDFPath }},
}

// isComplementary reports whether each side has a field the other lacks.
func isComplementary(ours, theirs paper.Draft) bool {
	oursHasExtra, theirsHasExtra := false, false

	for _, f := range textFields {
		o, t := *f.get(&ours), *f.get(&theirs)
		if o != "" && t == "" {
			oursHasExtra = true
		}
		if t != "" && o == "" {
			theirsHasExtra = true
		}
	}
	if ours.Authors != "" && theirs.Authors == "" {
		oursHasExtra = true
	}
	if theirs.Authors != "" && ours.Authors == "" {
		theirsHasExtra = true
	}
	if ours.PubType != paper.Other && theirs.PubType == paper.Other {
		oursHasExtra = true
	}
	if theirs.PubType != paper.Other && ours.PubType == paper.Other {
		theirsHasExtra = true
	}

	return oursHasExtra && theirsHasExtra
}

// MergeDrafts merges two versions of a draft field by field, returning the
// merged draft and any fields on which both sides set different values.
func MergeDrafts(ours, theirs paper.Draft) (paper.Draft, []FieldConflict) {
	merged := paper.Draft{
		ID:  ours.ID,
		DOI: nonEmpty(ours.DOI, theirs.DOI),
	}
	var conflicts []FieldConflict

	for _, f := range textFields {
		val, c := mergeString(f.name, *f.get(&ours), *f.get(&theirs))
		*f.get(&merged) = val
		if c != nil {
			conflicts = append(conflicts, *c)
		}
	}

	authors, c := mergeAuthors(ours.Authors, theirs.Authors)
	merged.Authors = authors
	if c != nil {
		conflicts = append(conflicts, *c)
	}

	// Other is the unclassified default, so a classified side wins.
	switch {
	case ours.PubType == theirs.PubType || theirs.PubType == paper.Other:
		merged.PubType = ours.PubType
	case ours.PubType == paper.Other:
		merged.PubType = theirs.PubType
	default:
		merged.PubType = ours.PubType
		conflicts = append(conflicts, FieldConflict{
			FieldName:   paper.FieldPubType,
			OursValue:   ours.PubType.String(),
			TheirsValue: theirs.PubType.String(),
		})
	}

	merged.Tags = unionStrings(ours.Tags, theirs.Tags)

	return merged, conflicts
}

// mergeString merges two string values, returning the merged value and any conflict.
func mergeString(fieldName, ours, theirs string) (string, *FieldConflict) {
	if ours == "" {
		return theirs, nil
	}
	if theirs == "" || ours == theirs {
		return ours, nil
	}
	return ours, &FieldConflict{
		FieldName:   fieldName,
		OursValue:   ours,
		TheirsValue: theirs,
	}
}

// mergeAuthors returns the longer author list, or a conflict if both lists
// have the same length but different names.
func mergeAuthors(ours, theirs string) (string, *FieldConflict) {
	if ours == "" {
		return theirs, nil
	}
	if theirs == "" {
		return ours, nil
	}

	oursNames, theirsNames := author.Names(ours), author.Names(theirs)
	if len(oursNames) > len(theirsNames) {
		return ours, nil
	}
	if len(theirsNames) > len(oursNames) {
		return theirs, nil
	}
	if namesEqual(oursNames, theirsNames) {
		return ours, nil
	}
	return ours, &FieldConflict{
		FieldName:   paper.FieldAuthors,
		OursValue:   ours,
		TheirsValue: theirs,
	}
}

// namesEqual compares author names case-insensitively.
func namesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !strings.EqualFold(a[i], b[i]) {
			return false
		}
	}
	return true
}

// unionStrings returns the union of two string slices, preserving order.
func unionStrings(a, b []string) []string {
	seen := make(map[string]bool)
	var result []string
	for _, list := range [][]string{a, b} {
		for _, s := range list {
			if !seen[s] {
				seen[s] = true
				result = append(result, s)
			}
		}
	}
	return result
}

// nonEmpty returns the first non-empty string.
func nonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// conflictFieldNames returns a comma-separated list of field names with conflicts.
func conflictFieldNames(conflicts []FieldConflict) string {
	var names []string
	for _, c := range conflicts {
		names = append(names, c.FieldName)
	}
	return strings.Join(names, ", ")
}

// ComputeCompleteness returns a completeness score for a draft.
// Higher scores indicate more complete metadata.
func ComputeCompleteness(d paper.Draft) int {
	score := 0
	if d.Authors != "" {
		score += weightAuthors
	}
	if d.Publication != "" {
		score += weightPublication
	}
	if d.PubTime != "" {
		score += weightPubTime
	}
	if d.DOI != "" {
		score += weightDOI
	}
	for _, s := range []string{d.Volume, d.Number, d.Pages, d.Publisher} {
		if s != "" {
			score += weightDetail
		}
	}
	return score
}

// ApplyResolution produces the resolved draft for a plan. True conflicts
// take every conflicting field from the preferred side.
func ApplyResolution(match PaperMatch, plan ResolutionPlan, prefer Side) paper.Draft {
	switch plan.Action {
	case ActionKeepOurs:
		return withTags(match.Ours, match.Theirs.Tags)
	case ActionKeepTheirs:
		return withTags(match.Theirs, match.Ours.Tags)
	case ActionMerge:
		merged, _ := MergeDrafts(match.Ours, match.Theirs)
		return merged
	}
	if prefer == SideTheirs {
		merged, _ := MergeDrafts(match.Theirs, match.Ours)
		merged.ID = match.Ours.ID
		return merged
	}
	merged, _ := MergeDrafts(match.Ours, match.Theirs)
	return merged
}

func withTags(d paper.Draft, extra []string) paper.Draft {
	d.Tags = unionStrings(d.Tags, extra)
	return d
}

// ResolveAll rebuilds the papers list from a parsed conflicted file. Clean
// lines and conflict regions keep their file order. When a matched pair
// has true conflicts and prefer is SideNone, ResolveAll returns the plans
// along with an error wrapping ErrUnresolved.
func ResolveAll(result *ParseResult, prefer Side) ([]paper.Draft, []ResolutionPlan, error) {
	var drafts []paper.Draft
	var plans []ResolutionPlan
	unresolved := 0

	ci := 0
	emitClean := func(before int) error {
		for ; ci < len(result.CleanLines) && result.CleanLines[ci].LineNum < before; ci++ {
			line := result.CleanLines[ci]
			d, ok, err := parseLine(line.Content, line.LineNum)
			if err != nil {
				return err
			}
			if ok {
				drafts = append(drafts, d)
			}
		}
		return nil
	}

	for _, region := range result.Conflicts {
		if err := emitClean(region.StartLine); err != nil {
			return nil, nil, err
		}

		m := MatchPapers(region)
		for _, match := range m.Matches {
			plan := Resolve(match)
			if plan.Action == ActionConflict && prefer == SideNone {
				unresolved++
			}
			plans = append(plans, plan)
			drafts = append(drafts, ApplyResolution(match, plan, prefer))
		}
		for _, d := range m.OursOnly {
			plans = append(plans, ResolutionPlan{PaperID: d.ID, DOI: d.DOI, Action: ActionAddOurs, Reason: "only in ours"})
			drafts = append(drafts, d)
		}
		for _, d := range m.TheirsOnly {
			plans = append(plans, ResolutionPlan{PaperID: d.ID, DOI: d.DOI, Action: ActionAddTheirs, Reason: "only in theirs"})
			drafts = append(drafts, d)
		}
	}
	if err := emitClean(math.MaxInt); err != nil {
		return nil, nil, err
	}

	if unresolved > 0 {
		return drafts, plans, fmt.Errorf("%w: %d paper(s); rerun with --ours or --theirs", ErrUnresolved, unresolved)
	}
	return drafts, plans, nil
}
