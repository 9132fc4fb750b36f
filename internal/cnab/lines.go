package cnab

import "strings"

// SplitLines splits file content into lines. Both "\n" and "\r\n" endings
// are accepted, and a terminating newline does not produce a trailing empty
// line. Blank lines in the middle of the content are preserved so they can be
// reported against their line number.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}

	content = strings.TrimSuffix(content, "\n")
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
