package analysis

import (
	"regexp"
	"strings"
)

// fenceLine matches a markdown code fence on its own line, with or without
// a language tag.
var fenceLine = regexp.MustCompile("(?m)^[ \t]*```[A-Za-z0-9_+.-]*[ \t]*\r?$")

// Repair turns noisy model output into a best-effort JSON string. It strips
// code fences, trims whitespace and keeps the text between the first '{' and
// the last '}'. The result may still fail to parse.
func Repair(raw string) string {
	text := fenceLine.ReplaceAllString(raw, "")
	text = strings.TrimSpace(text)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}
	return text
}
