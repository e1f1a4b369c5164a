// Package format holds the presentation helpers shared by pages, feeds and the previewer.
package format

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
)

// WordsPerMinute is the reading speed used by ReadingTime.
const WordsPerMinute = 200

// DateLayout renders dates as "Jan 05, 2024".
const DateLayout = "Jan 02, 2006"

var (
	tagPattern    = regexp.MustCompile(`<[^>]+>`)
	entityPattern = regexp.MustCompile(`(?i)&[#a-z0-9]+;`)
)

// FormatDate formats t as "Jan 05, 2024" in t's own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// dateLayouts are tried in order by ParseDate.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses the date formats accepted in content frontmatter.
// Dates without a zone are taken as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// StripTags removes markup tags and turns character entities into spaces.
func StripTags(html string) string {
	text := tagPattern.ReplaceAllString(html, "")
	return entityPattern.ReplaceAllString(text, " ")
}

// WordCount counts the whitespace separated words in the text of an HTML fragment.
func WordCount(html string) int {
	return len(strings.Fields(StripTags(html)))
}

// ReadingTime estimates how long an HTML body takes to read at WordsPerMinute.
// Short and empty bodies report "1 min read".
func ReadingTime(html string) string {
	minutes := int(math.Ceil(float64(WordCount(html)) / WordsPerMinute))
	if minutes <= 1 {
		return "1 min read"
	}
	return fmt.Sprintf("%d min read", minutes)
}
