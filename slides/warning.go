package slides

import "fmt"

// WarningKind classifies an overflow that was tolerated while rendering.
type WarningKind int

const (
	// WarnVisualTruncated means the visual wrapped to more than MaxLines
	// lines and the rest were dropped.
	WarnVisualTruncated WarningKind = iota

	// WarnLongWord means a single word was longer than the wrap width and
	// overflows its line.
	WarnLongWord

	// WarnSentenceOverflow means the centred sentence is wider than the page.
	WarnSentenceOverflow

	// WarnTitleOverflow means the title runs past the right margin.
	WarnTitleOverflow
)

// String returns the kind name
func (k WarningKind) String() string {
	switch k {
	case WarnVisualTruncated:
		return "visual_truncated"
	case WarnLongWord:
		return "long_word"
	case WarnSentenceOverflow:
		return "sentence_overflow"
	case WarnTitleOverflow:
		return "title_overflow"
	default:
		return fmt.Sprintf("WarningKind(%d)", int(k))
	}
}

// Warning is a non-fatal layout problem on one slide.
type Warning struct {
	Slide   int // 1-based
	Role    Role
	Kind    WarningKind
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("slide %d (%s): %s: %s", w.Slide, w.Role, w.Kind, w.Message)
}
