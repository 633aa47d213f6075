package textscan

import (
	"strings"
	"unicode/utf8"
)

// DefaultContextLen is the number of runes of surrounding text captured
// on each side of a match.
const DefaultContextLen = 50

// Match is a located occurrence of a phrase in a line of text. Columns
// are rune offsets; StartColumn is inclusive, EndColumn exclusive.
type Match struct {
	Text        string
	LineNumber  int
	StartColumn int
	EndColumn   int
	Context     string
}

func newMatch(lineText string, lineNumber, startByte, endByte, contextLen int) Match {
	start := utf8.RuneCountInString(lineText[:startByte])
	matched := lineText[startByte:endByte]
	end := start + utf8.RuneCountInString(matched)

	runes := []rune(lineText)
	ctxStart := start - contextLen
	if ctxStart < 0 {
		ctxStart = 0
	}
	ctxEnd := end + contextLen
	if ctxEnd > len(runes) {
		ctxEnd = len(runes)
	}

	return Match{
		Text:        strings.TrimSpace(matched),
		LineNumber:  lineNumber,
		StartColumn: start,
		EndColumn:   end,
		Context:     strings.TrimSpace(string(runes[ctxStart:ctxEnd])),
	}
}

// ScanMagicWords returns every bracketed phrase in each line.
func ScanMagicWords(lines []string) []Match {
	var matches []Match
	for i, line := range lines {
		for _, loc := range MagicWordRe.FindAllStringIndex(line, -1) {
			matches = append(matches, newMatch(line, i, loc[0], loc[1], DefaultContextLen))
		}
	}
	return matches
}

// Scan returns matches of the compiled phrase set in each line. The
// boundary classes around the phrase are not part of the match columns.
func (m *Matcher) Scan(lines []string) []Match {
	var matches []Match
	for i, line := range lines {
		matches = append(matches, m.ScanLine(line, i)...)
	}
	return matches
}

func (m *Matcher) ScanLine(line string, lineNumber int) []Match {
	var matches []Match
	// Index pairs 2,3 address the phrase capture group.
	for _, loc := range m.re.FindAllStringSubmatchIndex(line, -1) {
		if loc[2] < 0 {
			continue
		}
		matches = append(matches, newMatch(line, lineNumber, loc[2], loc[3], DefaultContextLen))
	}
	return matches
}
