package askweb

import (
	"strings"
	"time"
)

// TimestampLayout is how query timestamps are shown in history lists.
const TimestampLayout = "Jan 2, 2006 • 3:04 PM"

// Paragraph is one line of a rendered answer. Blank lines are kept as
// spacing blocks so the answer's layout survives rendering.
type Paragraph struct {
	Text  string
	Blank bool
}

// SplitParagraphs splits an answer on newline characters.
// Lines that are empty or whitespace-only become Blank paragraphs.
func SplitParagraphs(text string) []Paragraph {
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	paragraphs := make([]Paragraph, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			paragraphs = append(paragraphs, Paragraph{Blank: true})
			continue
		}
		paragraphs = append(paragraphs, Paragraph{Text: line})
	}
	return paragraphs
}

// FormatTimestamp formats t for display in history lists.
// The zero time formats as an empty string.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(TimestampLayout)
}
