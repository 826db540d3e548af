package slides

import (
	"strings"
	"unicode/utf8"
)

const (
	// DefaultWrapWidth is the line budget in characters. It stands in for
	// the measured width of the visual box at the body font size.
	DefaultWrapWidth = 80

	// DefaultMaxLines is how many wrapped lines fit in the visual box.
	// Lines past it are dropped without an ellipsis.
	DefaultMaxLines = 8
)

// WrapLines breaks s into lines of at most width characters, splitting on
// whitespace. Words are never split, so a word longer than width gets a line
// of its own. Joining the result with single spaces gives back s with its
// whitespace collapsed.
func WrapLines(s string, width int) []string {
	var (
		lines   []string
		current strings.Builder
		length  int
	)

	for _, word := range strings.Fields(s) {
		n := utf8.RuneCountInString(word)
		if length > 0 && length+1+n > width {
			lines = append(lines, current.String())
			current.Reset()
			length = 0
		}
		if length > 0 {
			current.WriteByte(' ')
			length++
		}
		current.WriteString(word)
		length += n
	}
	if length > 0 {
		lines = append(lines, current.String())
	}
	return lines
}

// Wrap is WrapLines keeping at most maxLines lines.
func Wrap(s string, width, maxLines int) []string {
	lines := WrapLines(s, width)
	if maxLines < 0 {
		maxLines = 0
	}
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}
