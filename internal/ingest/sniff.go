package ingest

import (
	"strings"
)

// SniffSampleSize is the number of leading bytes inspected for the delimiter
const SniffSampleSize = 2048

// DefaultDelimiter is used whenever detection is ambiguous
const DefaultDelimiter = ','

// delimiterCandidates in preference order for ties
var delimiterCandidates = []rune{',', '\t', ';', '|', ':'}

// minConsistency is the share of sample lines that must agree on a count
const minConsistency = 0.9

// DetectDelimiter guesses the field delimiter from a text sample. For each
// candidate it counts unquoted occurrences per line and takes the most common
// non-zero count; the candidate whose count is shared by the largest share of
// lines wins. If no candidate reaches minConsistency the comma is returned.
//
// When truncated is true the last line of the sample is assumed to be cut off
// and is ignored.
func DetectDelimiter(sample string, truncated bool) rune {
	lines := sampleLines(sample, truncated)
	if len(lines) == 0 {
		return DefaultDelimiter
	}

	best := DefaultDelimiter
	bestScore := 0.0
	for _, cand := range delimiterCandidates {
		score := consistency(lines, cand)
		if score >= minConsistency && score > bestScore {
			best = cand
			bestScore = score
		}
	}
	return best
}

func sampleLines(sample string, truncated bool) []string {
	sample = strings.ReplaceAll(sample, "\r\n", "\n")
	sample = strings.ReplaceAll(sample, "\r", "\n")
	raw := strings.Split(sample, "\n")
	if truncated && len(raw) > 1 {
		raw = raw[:len(raw)-1]
	}
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// consistency returns the share of lines carrying the modal non-zero count of
// delim, or 0 when delim never appears
func consistency(lines []string, delim rune) float64 {
	freq := make(map[int]int)
	for _, l := range lines {
		freq[countUnquoted(l, delim)]++
	}
	modeCount, modeLines := 0, 0
	for count, n := range freq {
		if count == 0 {
			continue
		}
		if n > modeLines || (n == modeLines && count < modeCount) {
			modeCount, modeLines = count, n
		}
	}
	if modeCount == 0 {
		return 0
	}
	return float64(modeLines) / float64(len(lines))
}

func countUnquoted(line string, delim rune) int {
	n := 0
	quoted := false
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
		case r == delim && !quoted:
			n++
		}
	}
	return n
}
