package paper

import "testing"

func TestCleanIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10.1145/3292500.3330701", "10.1145/3292500.3330701"},
		{" 10.1145/3292500\n.3330701 ", "10.1145/3292500.3330701"},
		{"10.1109/\r\nCVPR.\t2016.90", "10.1109/CVPR.2016.90"},
		{"\n \t", ""},
	}

	for _, tt := range tests {
		if got := CleanIdentifier(tt.in); got != tt.want {
			t.Errorf("CleanIdentifier(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeDOI(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10.1038/Nature12373", "10.1038/nature12373"},
		{"https://doi.org/10.1038/nature12373", "10.1038/nature12373"},
		{"https://dx.doi.org/10.1038/nature12373", "10.1038/nature12373"},
		{"DOI:10.1038/nature12373", "10.1038/nature12373"},
		{" doi.org/10.1038/\nnature12373", "10.1038/nature12373"},
	}

	for _, tt := range tests {
		if got := NormalizeDOI(tt.in); got != tt.want {
			t.Errorf("NormalizeDOI(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStripDOIPrefix(t *testing.T) {
	if got := StripDOIPrefix("https://doi.org/10.1109/CVPR.2016.90"); got != "10.1109/CVPR.2016.90" {
		t.Errorf("StripDOIPrefix() = %q", got)
	}
	if got := StripDOIPrefix("doi:10.1109/CVPR.2016.90"); got != "10.1109/CVPR.2016.90" {
		t.Errorf("StripDOIPrefix() = %q", got)
	}
}

func TestCiteKey(t *testing.T) {
	tests := []struct {
		name string
		d    Draft
		want string
	}{
		{"full", Draft{Authors: "Ashish Vaswani, Noam Shazeer", PubTime: "2017", Title: "Attention Is All You Need"}, "Vaswani2017-ai"},
		{"stop words", Draft{Authors: "Ada Lovelace", PubTime: "1843", Title: "The Notes on the Analytical Engine"}, "Lovelace1843-na"},
		{"no authors", Draft{PubTime: "2020", Title: "Untitled"}, "Unknown2020-ux"},
		{"no year", Draft{Authors: "Grace O'Hopper", Title: "A"}, "OHopper9999-xx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CiteKey(&tt.d); got != tt.want {
				t.Errorf("CiteKey() = %q, want %q", got, tt.want)
			}
		})
	}
}
