package travel

import (
	"html"
	"regexp"
	"strings"
)

var (
	prePattern    = regexp.MustCompile(`(?s)<pre[^>]*>.*?</pre>`)
	tagPattern    = regexp.MustCompile(`<[^>]*>`)
	entityPattern = regexp.MustCompile(`&[a-zA-Z0-9#]+;`)
	fencePattern  = regexp.MustCompile("(?s)```[^`]*```")
	inlinePattern = regexp.MustCompile("`[^`]*`")
	spacePattern  = regexp.MustCompile(`\s+`)
)

// CleanText strips markup from an answer before it reaches the user. Pre
// blocks and fenced code drop with their content; other tags drop but keep
// their text. Line structure survives.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	s = prePattern.ReplaceAllString(s, "")
	s = tagPattern.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = html.UnescapeString(s)
	s = fencePattern.ReplaceAllString(s, "")
	s = inlinePattern.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// cleanField flattens one display value: tags and entities go, whitespace
// collapses to single spaces.
func cleanField(s string) string {
	if s == "" {
		return ""
	}
	s = tagPattern.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = html.UnescapeString(s)
	s = entityPattern.ReplaceAllString(s, "")
	s = spacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
