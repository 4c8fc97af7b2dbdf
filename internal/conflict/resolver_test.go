package conflict

import (
	"errors"
	"reflect"
	"testing"

	"github.com/matsen/bipscrape/internal/paper"
)

func TestResolve(t *testing.T) {
	base := paper.Draft{ID: "He2016-dr", DOI: "10.1109/CVPR.2016.90", Title: "Deep Residual Learning"}

	full := base
	full.Authors = "Kaiming He, Xiangyu Zhang"
	full.PubTime = "2016"
	full.Publication = "CVPR"

	withPages := base
	withPages.Pages = "770-778"

	moreAuthors := full
	moreAuthors.Authors = "Kaiming He, Xiangyu Zhang, Shaoqing Ren"

	otherTitle := base
	otherTitle.Title = "Deep Residual Learning for Image Recognition"

	tests := []struct {
		name   string
		ours   paper.Draft
		theirs paper.Draft
		want   ResolutionAction
	}{
		{"ours more complete", full, base, ActionKeepOurs},
		{"theirs more complete", base, full, ActionKeepTheirs},
		{"complementary", full, withPages, ActionMerge},
		{"longer author list wins", full, moreAuthors, ActionKeepTheirs},
		{"identical", base, base, ActionMerge},
		{"true conflict", base, otherTitle, ActionConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := Resolve(PaperMatch{Ours: tt.ours, Theirs: tt.theirs, MatchedBy: "doi"})
			if plan.Action != tt.want {
				t.Errorf("Action = %s (%s), want %s", plan.Action, plan.Reason, tt.want)
			}
			if plan.PaperID != "He2016-dr" {
				t.Errorf("PaperID = %q", plan.PaperID)
			}
		})
	}
}

func TestMergeDrafts_Complementary(t *testing.T) {
	ours := paper.Draft{ID: "a", Title: "T", Authors: "A B", Tags: []string{"ml"}, PubType: paper.Conference}
	theirs := paper.Draft{ID: "a", DOI: "10.1/a", Title: "T", Pages: "1-2", Tags: []string{"cv", "ml"}, PubType: paper.Other}

	merged, conflicts := MergeDrafts(ours, theirs)
	if len(conflicts) != 0 {
		t.Fatalf("conflicts = %+v, want none", conflicts)
	}
	if merged.DOI != "10.1/a" || merged.Authors != "A B" || merged.Pages != "1-2" {
		t.Errorf("merged = %+v", merged)
	}
	if merged.PubType != paper.Conference {
		t.Errorf("PubType = %v, want conference", merged.PubType)
	}
	if !reflect.DeepEqual(merged.Tags, []string{"ml", "cv"}) {
		t.Errorf("Tags = %v, want [ml cv]", merged.Tags)
	}
}

func TestMergeDrafts_Conflicts(t *testing.T) {
	ours := paper.Draft{Authors: "A B, C D", PubType: paper.Journal, Volume: "1"}
	theirs := paper.Draft{Authors: "A B, E F", PubType: paper.Conference, Volume: "2"}

	_, conflicts := MergeDrafts(ours, theirs)
	var names []string
	for _, c := range conflicts {
		names = append(names, c.FieldName)
	}
	want := []string{paper.FieldVolume, paper.FieldAuthors, paper.FieldPubType}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("conflict fields = %v, want %v", names, want)
	}
}

func TestMergeDrafts_AuthorCaseInsensitive(t *testing.T) {
	_, conflicts := MergeDrafts(paper.Draft{Authors: "Ada Lovelace"}, paper.Draft{Authors: "ada lovelace"})
	if len(conflicts) != 0 {
		t.Errorf("conflicts = %+v, want none", conflicts)
	}
}

func TestComputeCompleteness(t *testing.T) {
	if got := ComputeCompleteness(paper.Draft{}); got != 0 {
		t.Errorf("empty draft score = %d, want 0", got)
	}
	d := paper.Draft{Authors: "A", Publication: "P", PubTime: "2000", DOI: "10.1/x", Pages: "1"}
	if got := ComputeCompleteness(d); got != 11 {
		t.Errorf("score = %d, want 11", got)
	}
}

func TestApplyResolution_PreferSide(t *testing.T) {
	match := PaperMatch{
		Ours:   paper.Draft{ID: "ours-id", Title: "Ours", Pages: "1-2"},
		Theirs: paper.Draft{ID: "theirs-id", Title: "Theirs", Volume: "3"},
	}
	plan := Resolve(match)
	if plan.Action != ActionConflict {
		t.Fatalf("Action = %s, want conflict", plan.Action)
	}

	got := ApplyResolution(match, plan, SideTheirs)
	if got.ID != "ours-id" || got.Title != "Theirs" || got.Pages != "1-2" || got.Volume != "3" {
		t.Errorf("prefer theirs = %+v", got)
	}

	got = ApplyResolution(match, plan, SideOurs)
	if got.Title != "Ours" || got.Volume != "3" {
		t.Errorf("prefer ours = %+v", got)
	}
}

func TestResolveAll(t *testing.T) {
	result, err := ParseString(simpleConflict)
	if err != nil {
		t.Fatal(err)
	}

	drafts, plans, err := ResolveAll(result, SideNone)
	if err != nil {
		t.Fatalf("ResolveAll() error = %v", err)
	}
	if len(drafts) != 3 {
		t.Fatalf("len(drafts) = %d, want 3", len(drafts))
	}
	ids := []string{drafts[0].ID, drafts[1].ID, drafts[2].ID}
	if !reflect.DeepEqual(ids, []string{"Vaswani2017-at", "He2016-dr", "Turing1950-cm"}) {
		t.Errorf("order = %v", ids)
	}
	if drafts[1].Publication != "CVPR" {
		t.Errorf("resolved draft = %+v, want ours version", drafts[1])
	}
	if len(plans) != 1 || plans[0].Action != ActionKeepOurs {
		t.Errorf("plans = %+v", plans)
	}
}

func TestResolveAll_Unresolved(t *testing.T) {
	content := `<<<<<<< HEAD
{"id":"a","doi":"10.1/a","title":"One title"}
{"id":"b","title":"Only ours"}
=======
{"id":"a","doi":"10.1/a","title":"Another title"}
>>>>>>> branch
`
	result, err := ParseString(content)
	if err != nil {
		t.Fatal(err)
	}

	drafts, plans, err := ResolveAll(result, SideNone)
	if !errors.Is(err, ErrUnresolved) {
		t.Fatalf("error = %v, want ErrUnresolved", err)
	}
	if len(plans) != 2 || plans[0].Action != ActionConflict || plans[1].Action != ActionAddOurs {
		t.Errorf("plans = %+v", plans)
	}
	if len(drafts) != 2 {
		t.Errorf("len(drafts) = %d, want 2", len(drafts))
	}

	drafts, _, err = ResolveAll(result, SideTheirs)
	if err != nil {
		t.Fatalf("ResolveAll(theirs) error = %v", err)
	}
	if drafts[0].Title != "Another title" {
		t.Errorf("Title = %q, want theirs", drafts[0].Title)
	}
}
