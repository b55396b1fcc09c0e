package ui

import "strings"

// Line is one line of wrapped text and its measured width in pixels.
type Line struct {
	Text  string
	Width int
}

// Wrap breaks text into lines no wider than maxWidth as measured by
// measure. Explicit line breaks are kept, runs of other whitespace collapse
// to a single space, and words are never split: a word wider than maxWidth
// gets a line of its own.
func Wrap(text string, maxWidth int, measure func(string) int) []Line {
	if text == "" {
		return nil
	}

	var lines []Line
	for _, para := range strings.Split(text, "\n") {
		line, width := "", 0
		for _, word := range strings.Fields(para) {
			if line == "" {
				line, width = word, measure(word)
				continue
			}
			candidate := line + " " + word
			if w := measure(candidate); w <= maxWidth {
				line, width = candidate, w
				continue
			}
			lines = append(lines, Line{Text: line, Width: width})
			line, width = word, measure(word)
		}
		lines = append(lines, Line{Text: line, Width: width})
	}
	return lines
}
