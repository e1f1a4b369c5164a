package feed

import (
	"html"
	"text/template"
	"time"
)

// TemplateFuncs returns a map of template helper functions
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"xmlEscape": xmlEscape,
		"w3cDate":   w3cDate,
	}
}

// xmlEscape escapes XML special characters while avoiding double-encoding
func xmlEscape(s string) string {
	s = html.UnescapeString(s)
	return html.EscapeString(s)
}

// w3cDate formats the date part of t as used in sitemap <lastmod>.
func w3cDate(t time.Time) string {
	return t.Format("2006-01-02")
}
