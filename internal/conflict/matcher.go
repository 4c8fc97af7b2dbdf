package conflict

import (
	"github.com/matsen/bipscrape/internal/paper"
)

// MatchPapers matches drafts between the ours and theirs sides of a conflict
// region, by normalized DOI first and then by ID.
func MatchPapers(region ConflictRegion) MatchResult {
	result := MatchResult{}

	oursByDOI := make(map[string]int)
	oursByID := make(map[string]int)
	for i, d := range region.Ours {
		if doi := paper.NormalizeDOI(d.DOI); doi != "" {
			if _, dup := oursByDOI[doi]; !dup {
				oursByDOI[doi] = i
			}
		}
		if d.ID != "" {
			if _, dup := oursByID[d.ID]; !dup {
				oursByID[d.ID] = i
			}
		}
	}

	oursMatched := make([]bool, len(region.Ours))
	theirsMatched := make([]bool, len(region.Theirs))

	match := func(oi, ti int, by string) {
		result.Matches = append(result.Matches, PaperMatch{
			Ours:      region.Ours[oi],
			Theirs:    region.Theirs[ti],
			MatchedBy: by,
		})
		oursMatched[oi] = true
		theirsMatched[ti] = true
	}

	for ti, theirs := range region.Theirs {
		if oi, ok := oursByDOI[paper.NormalizeDOI(theirs.DOI)]; ok && !oursMatched[oi] {
			match(oi, ti, "doi")
		}
	}
	for ti, theirs := range region.Theirs {
		if theirsMatched[ti] || theirs.ID == "" {
			continue
		}
		if oi, ok := oursByID[theirs.ID]; ok && !oursMatched[oi] {
			match(oi, ti, "id")
		}
	}

	for i, d := range region.Ours {
		if !oursMatched[i] {
			result.OursOnly = append(result.OursOnly, d)
		}
	}
	for i, d := range region.Theirs {
		if !theirsMatched[i] {
			result.TheirsOnly = append(result.TheirsOnly, d)
		}
	}
	return result
}
