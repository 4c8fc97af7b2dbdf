package paper

import (
	"fmt"
	"strings"
	"unicode"
)

// CleanIdentifier removes every whitespace rune, newlines included, from an
// identifier pasted in by a user.
func CleanIdentifier(id string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, id)
}

var doiPrefixes = []string{"https://doi.org/", "http://doi.org/", "https://dx.doi.org/", "http://dx.doi.org/", "doi.org/", "doi:"}

// StripDOIPrefix removes whitespace and a leading resolver URL or "doi:"
// label from a DOI, keeping its case.
func StripDOIPrefix(doi string) string {
	doi = CleanIdentifier(doi)
	lower := strings.ToLower(doi)
	for _, prefix := range doiPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return doi[len(prefix):]
		}
	}
	return doi
}

// NormalizeDOI normalizes a DOI to a consistent format for comparison.
func NormalizeDOI(doi string) string {
	return strings.ToLower(StripDOIPrefix(doi))
}

var citeKeyStopWords = map[string]bool{"a": true, "an": true, "the": true, "of": true, "and": true, "in": true, "on": true, "for": true, "to": true, "with": true}

// CiteKey generates a citation key from draft metadata.
// Format: FamilyName + Year + "-" + two title letters (e.g., "Vaswani2017-ai").
// Not guaranteed unique; see storage.GenerateUniqueID.
func CiteKey(d *Draft) string {
	lastName := "Unknown"
	if first, _, _ := strings.Cut(d.Authors, ","); strings.TrimSpace(first) != "" {
		parts := strings.Fields(first)
		if name := sanitizeForCiteKey(parts[len(parts)-1]); name != "" {
			lastName = name
		}
	}

	year := strings.TrimSpace(d.PubTime)
	if year == "" {
		year = "9999"
	}

	return fmt.Sprintf("%s%s-%s", lastName, year, titleSuffix(d.Title))
}

// sanitizeForCiteKey removes non-alphanumeric characters.
func sanitizeForCiteKey(s string) string {
	var result strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// titleSuffix takes the first letters of the first two significant words.
func titleSuffix(title string) string {
	var suffix strings.Builder
	for _, word := range strings.Fields(strings.ToLower(title)) {
		if citeKeyStopWords[word] {
			continue
		}
		r := []rune(word)[0]
		if r < 'a' || r > 'z' {
			continue
		}
		suffix.WriteRune(r)
		if suffix.Len() >= 2 {
			break
		}
	}
	for suffix.Len() < 2 {
		suffix.WriteByte('x')
	}
	return suffix.String()
}
