package speech

import (
	"regexp"
	"strings"
)

var (
	asteriskRuns = regexp.MustCompile(`\*+`)
	hashRuns     = regexp.MustCompile(`#+`)
	markdownLink = regexp.MustCompile(`\[([^\]]+)\]\([^\)]+\)`)
	separators   = regexp.MustCompile("[-_`]")
	whitespace   = regexp.MustCompile(`\s+`)
)

// CleanForSpeech strips markup noise that reads badly when spoken: pipes,
// asterisk/hash runs, markdown links (collapsed to their label), stray
// separators, and whitespace runs.
func CleanForSpeech(text string) string {
	text = strings.ReplaceAll(text, "|", " ")
	text = asteriskRuns.ReplaceAllString(text, "")
	text = hashRuns.ReplaceAllString(text, "")
	text = markdownLink.ReplaceAllString(text, "$1")
	text = separators.ReplaceAllString(text, " ")
	text = whitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
