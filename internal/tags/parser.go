package tags

import (
	"regexp"
	"strings"
)

// recordRe is the cross-reference format printed by "global -x":
// symbol, line number, path, then the rest of the source line. Leading
// blanks before the symbol are skipped.
var recordRe = regexp.MustCompile(`(\S+)\s+(\S+)\s+(\S+)\s+(.*)$`)

// ParseRecord parses one line of "global -x" output.
// Lines that do not have four fields are rejected.
func ParseRecord(line string) (TagMatch, bool) {
	line = strings.TrimSuffix(line, "\r")
	m := recordRe.FindStringSubmatch(line)
	if m == nil {
		return TagMatch{}, false
	}
	return TagMatch{
		Symbol:     m[1],
		LineNumber: m[2],
		Path:       m[3],
		Signature:  m[4],
	}, true
}

// ParseRecords parses every line of output in order, skipping lines that
// do not match the record format.
func ParseRecords(output string) []TagMatch {
	matches := []TagMatch{}
	for _, line := range strings.Split(output, "\n") {
		if m, ok := ParseRecord(line); ok {
			matches = append(matches, m)
		}
	}
	return matches
}

// parseSymbols returns one symbol per non-empty line of "global -c" output.
func parseSymbols(output string) []string {
	symbols := []string{}
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		symbols = append(symbols, line)
	}
	return symbols
}
