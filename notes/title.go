package notes

import (
	"strings"
	"unicode/utf8"
)

const (
	// UntitledNote is the placeholder title.
	UntitledNote  = "Untitled Note"
	maxTitleRunes = 50
)

// DeriveTitle returns the trimmed title when given, otherwise the first
// sentence of summary cut to 50 characters, otherwise UntitledNote.
func DeriveTitle(title, summary string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	first := summary
	if i := strings.IndexAny(summary, ".!?"); i >= 0 {
		first = summary[:i]
	}
	first = strings.TrimSpace(first)
	if utf8.RuneCountInString(first) > maxTitleRunes {
		first = string([]rune(first)[:maxTitleRunes])
	}
	if first == "" {
		return UntitledNote
	}
	return first
}
