package conflict

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"

	"github.com/matsen/bipscrape/internal/paper"
)

type parserState int

const (
	stateNormal parserState = iota
	stateInOurs
	stateInTheirs
)

// Conflict marker prefixes
const (
	oursMarker      = "<<<<<<<"
	separatorMarker = "======="
	theirsMarker    = ">>>>>>>"
)

// Parse reads a conflicted papers file and returns its clean lines and
// conflict regions.
func Parse(r io.Reader) (*ParseResult, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	result := &ParseResult{}

	state := stateNormal
	lineNum := 0
	var current *ConflictRegion
	var oursLines, theirsLines []string

	unexpected := func(msg, line string) error {
		return ParseError{Line: lineNum, Message: msg, Context: line}
	}

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		isOurs := strings.HasPrefix(line, oursMarker)
		isSep := strings.HasPrefix(line, separatorMarker)
		isTheirs := strings.HasPrefix(line, theirsMarker)

		switch state {
		case stateNormal:
			switch {
			case isOurs:
				current = &ConflictRegion{StartLine: lineNum}
				oursLines, theirsLines = nil, nil
				state = stateInOurs
			case isSep:
				return nil, unexpected("unexpected separator marker outside conflict region", line)
			case isTheirs:
				return nil, unexpected("unexpected end marker outside conflict region", line)
			default:
				result.CleanLines = append(result.CleanLines, CleanLine{LineNum: lineNum, Content: line})
			}

		case stateInOurs:
			switch {
			case isOurs:
				return nil, unexpected("nested conflict markers not allowed", line)
			case isSep:
				state = stateInTheirs
			case isTheirs:
				return nil, unexpected("unexpected end marker before separator", line)
			default:
				oursLines = append(oursLines, line)
			}

		case stateInTheirs:
			switch {
			case isOurs:
				return nil, unexpected("nested conflict markers not allowed", line)
			case isSep:
				return nil, unexpected("duplicate separator marker in conflict region", line)
			case isTheirs:
				current.EndLine = lineNum
				current.OursRaw = strings.Join(oursLines, "\n")
				current.TheirsRaw = strings.Join(theirsLines, "\n")

				var err error
				current.Ours, err = parseJSONLContent(oursLines, current.StartLine+1)
				if err != nil {
					return nil, err
				}
				current.Theirs, err = parseJSONLContent(theirsLines, current.StartLine+len(oursLines)+2)
				if err != nil {
					return nil, err
				}

				result.Conflicts = append(result.Conflicts, *current)
				current = nil
				state = stateNormal
			default:
				theirsLines = append(theirsLines, line)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if state != stateNormal {
		return nil, ParseError{Line: lineNum, Message: "unterminated conflict region at end of file"}
	}
	return result, nil
}

// parseJSONLContent parses JSONL lines into drafts. startLine is the file
// line number of lines[0].
func parseJSONLContent(lines []string, startLine int) ([]paper.Draft, error) {
	var drafts []paper.Draft
	for i, line := range lines {
		d, ok, err := parseLine(line, startLine+i)
		if err != nil {
			return nil, err
		}
		if ok {
			drafts = append(drafts, d)
		}
	}
	return drafts, nil
}

func parseLine(line string, lineNum int) (paper.Draft, bool, error) {
	var d paper.Draft
	line = strings.TrimSpace(line)
	if line == "" {
		return d, false, nil
	}
	if err := json.Unmarshal([]byte(line), &d); err != nil {
		return d, false, ParseError{
			Line:    lineNum,
			Message: "invalid JSON: " + err.Error(),
			Context: truncate(line, 50),
		}
	}
	return d, true, nil
}

// truncate truncates a string to maxLen characters, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// ParseString is a convenience function that parses from a string.
func ParseString(content string) (*ParseResult, error) {
	return Parse(strings.NewReader(content))
}

// HasConflicts returns true if the parse result contains any conflict regions.
func (r *ParseResult) HasConflicts() bool {
	return len(r.Conflicts) > 0
}
