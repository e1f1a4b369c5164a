// Package preview provides an interactive preview of site entries using Bubble Tea TUI.
package preview

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/lepinkainen/folio/pkg/content"
	"github.com/lepinkainen/folio/pkg/feed"
	"github.com/lepinkainen/folio/pkg/format"
)

var itemRegex = regexp.MustCompile(`(?s)<item>.*?</item>`)

// wrapText wraps text to the specified width, breaking at word boundaries when possible
func wrapText(text string, width int) string {
	if width <= 0 {
		width = 70
	}

	var result strings.Builder
	var line strings.Builder
	lineLen := 0

	words := strings.Fields(text)
	for i, word := range words {
		wordLen := len([]rune(word))

		if lineLen > 0 && lineLen+1+wordLen > width {
			result.WriteString(line.String())
			result.WriteString("\n")
			line.Reset()
			lineLen = 0
		}

		if lineLen > 0 {
			line.WriteString(" ")
			lineLen++
		}

		line.WriteString(word)
		lineLen += wordLen

		if i == len(words)-1 {
			result.WriteString(line.String())
		}
	}

	return result.String()
}

// FormatCompactListItem formats a single entry in compact list format
// Example: " 1. [notes   ] Jan 05, 2024  1 min read  Hello World"
func FormatCompactListItem(index int, e content.Entry) string {
	title := e.Title

	const maxTitleLength = 60
	if r := []rune(title); len(r) > maxTitleLength {
		title = string(r[:maxTitleLength-3]) + "..."
	}

	return fmt.Sprintf("%2d. [%-8s] %s  %-10s  %s",
		index+1, e.Collection, format.FormatDate(e.Date), format.ReadingTime(e.Body), title)
}

// FormatDetailedItem formats a single entry with all metadata
func FormatDetailedItem(e content.Entry) string {
	var b strings.Builder

	b.WriteString("═══════════════════════════════════════════════════════════════════════\n")
	fmt.Fprintf(&b, "Title: %s\n", e.Title)
	fmt.Fprintf(&b, "Path: %s\n", e.Path())
	fmt.Fprintf(&b, "Published: %s | %s\n", format.FormatDate(e.Date), format.ReadingTime(e.Body))

	if e.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", e.Description)
	}

	if e.Project != nil {
		if e.Project.Repo != "" {
			fmt.Fprintf(&b, "Repository: %s\n", e.Project.Repo)
		}
		if e.Project.Demo != "" {
			fmt.Fprintf(&b, "Demo: %s\n", e.Project.Demo)
		}
	}

	if text := format.StripTags(e.Body); strings.TrimSpace(text) != "" {
		const maxContentLength = 1000
		if r := []rune(text); len(r) > maxContentLength {
			text = string(r[:maxContentLength]) + "..."
		}
		fmt.Fprintf(&b, "\nContent:\n%s\n", wrapText(text, 70))
	}

	b.WriteString("═══════════════════════════════════════════════════════════════════════\n")

	return b.String()
}

// FormatXMLItem renders the entry as it appears in the site's RSS feed.
func FormatXMLItem(e content.Entry, gen *feed.Generator) string {
	items, err := feed.Assemble(gen.Link, []content.Entry{e})
	if err != nil {
		return fmt.Sprintf("Error building feed item: %s", err)
	}

	f, err := gen.Generate(items, feed.RSS)
	if err != nil {
		return fmt.Sprintf("Error generating feed: %s", err)
	}

	var buf bytes.Buffer
	if err := feed.Write(&buf, f, feed.RSS); err != nil {
		return fmt.Sprintf("Error writing feed: %s", err)
	}

	match := itemRegex.FindString(buf.String())
	if match == "" {
		return "No item found in generated feed"
	}

	return wrapXMLContent(match, 80)
}

// wrapXMLContent wraps only the content inside tags, not the tags themselves
func wrapXMLContent(xml string, width int) string {
	var result strings.Builder
	lines := strings.Split(xml, "\n")

	for _, line := range lines {
		if len(line) <= width {
			result.WriteString(line)
			result.WriteString("\n")
			continue
		}

		remaining := line
		for len(remaining) > width {
			breakPoint := width
			for i := width; i > width-20 && i > 0; i-- {
				if remaining[i] == ' ' || remaining[i] == '>' {
					breakPoint = i + 1
					break
				}
			}
			result.WriteString(remaining[:breakPoint])
			result.WriteString("\n")
			remaining = remaining[breakPoint:]
		}
		if remaining != "" {
			result.WriteString(remaining)
			result.WriteString("\n")
		}
	}

	return result.String()
}
