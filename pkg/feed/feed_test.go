package feed

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/SlyMarbo/rss"
	"github.com/gorilla/feeds"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/folio/pkg/content"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 12, 0, 0, 0, time.UTC)
}

func testGenerator() *Generator {
	return NewGenerator("Home", "Daniel Larsen's personal website about software engineering.",
		"https://itsdaniel.dk/", "itsdaniel", "hey@itsdaniel.dk")
}

func TestAssemble(t *testing.T) {
	notes := []content.Entry{
		{Collection: content.Notes, Slug: "three", Title: "Three", Description: "d3", Date: day(3)},
		{Collection: content.Notes, Slug: "one", Title: "One", Description: "d1", Date: day(1)},
	}
	projects := []content.Entry{
		{Collection: content.Projects, Slug: "two", Title: "Two", Description: "d2", Date: day(2)},
	}

	items, err := Assemble("https://itsdaniel.dk/", notes, projects)
	require.NoError(t, err)

	want := []Item{
		{Title: "Three", Description: "d3", PubDate: day(3), Link: "https://itsdaniel.dk/notes/three/"},
		{Title: "Two", Description: "d2", PubDate: day(2), Link: "https://itsdaniel.dk/projects/two/"},
		{Title: "One", Description: "d1", PubDate: day(1), Link: "https://itsdaniel.dk/notes/one/"},
	}
	assert.Equal(t, want, items)
}

func TestAssemble_Links(t *testing.T) {
	entry := []content.Entry{{Collection: content.Notes, Slug: "x", Date: day(1)}}

	tests := []struct {
		site string
		want string
	}{
		{"https://itsdaniel.dk/", "https://itsdaniel.dk/notes/x/"},
		{"https://itsdaniel.dk", "https://itsdaniel.dk/notes/x/"},
		{"http://localhost:4321/", "http://localhost:4321/notes/x/"},
	}

	for _, tt := range tests {
		t.Run(tt.site, func(t *testing.T) {
			items, err := Assemble(tt.site, entry)
			require.NoError(t, err)
			assert.Equal(t, tt.want, items[0].Link)
		})
	}
}

func TestAssemble_Empty(t *testing.T) {
	items, err := Assemble("https://itsdaniel.dk/")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestGenerate(t *testing.T) {
	g := testGenerator()
	items := []Item{
		{Title: "Three", PubDate: day(3), Link: "https://itsdaniel.dk/notes/three/"},
		{Title: "One", PubDate: day(1), Link: "https://itsdaniel.dk/notes/one/"},
	}

	f, err := g.Generate(items, RSS)
	require.NoError(t, err)
	require.NoError(t, g.ValidateFeed(f))

	assert.True(t, f.Updated.Equal(day(3)), "feed time is the newest item date")
	assert.True(t, f.Created.Equal(day(3)))
	require.Len(t, f.Items, 2)
	assert.Equal(t, "Three", f.Items[0].Title)
	assert.Equal(t, "https://itsdaniel.dk/notes/three/", f.Items[0].Id)

	meta := g.GetMetadata(f)
	assert.Equal(t, 2, meta.ItemCount)
	assert.True(t, meta.OldestItem.Equal(day(1)))
	assert.True(t, meta.NewestItem.Equal(day(3)))
}

func TestGenerate_AtomIDsAreStable(t *testing.T) {
	g := testGenerator()
	items := []Item{{Title: "One", PubDate: day(1), Link: "https://itsdaniel.dk/notes/one/"}}

	first, err := g.Generate(items, Atom)
	require.NoError(t, err)
	items[0].Title = "Renamed"
	items[0].PubDate = day(2)
	second, err := g.Generate(items, Atom)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(first.Items[0].Id, "urn:uuid:"))
	assert.Equal(t, first.Items[0].Id, second.Items[0].Id)
}

func TestGenerate_UnsupportedType(t *testing.T) {
	_, err := testGenerator().Generate(nil, FeedType("opml"))
	assert.Error(t, err)
}

func TestValidateFeed(t *testing.T) {
	g := testGenerator()

	tests := []struct {
		name    string
		feed    *feeds.Feed
		wantErr bool
	}{
		{"nil", nil, true},
		{"no title", &feeds.Feed{Link: &feeds.Link{Href: "x"}, Description: "d"}, true},
		{"no link", &feeds.Feed{Title: "t", Description: "d"}, true},
		{"no description", &feeds.Feed{Title: "t", Link: &feeds.Link{Href: "x"}}, true},
		{"empty feed is valid", &feeds.Feed{Title: "t", Link: &feeds.Link{Href: "x"}, Description: "d"}, false},
		{"item without id", &feeds.Feed{
			Title: "t", Link: &feeds.Link{Href: "x"}, Description: "d",
			Items: []*feeds.Item{{Title: "i", Link: &feeds.Link{Href: "y"}}},
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.ValidateFeed(tt.feed)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFeed() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWrite_RSSParsesInOrder(t *testing.T) {
	g := testGenerator()
	items := []Item{
		{Title: "Three", Description: "third", PubDate: day(3), Link: "https://itsdaniel.dk/notes/three/"},
		{Title: "Two", Description: "second", PubDate: day(2), Link: "https://itsdaniel.dk/projects/two/"},
		{Title: "One", Description: "first", PubDate: day(1), Link: "https://itsdaniel.dk/notes/one/"},
	}
	f, err := g.Generate(items, RSS)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, f, RSS))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", RSS.ContentType())
		_, _ = w.Write(buf.Bytes())
	}))
	defer srv.Close()

	parsed, err := rss.FetchByClient(srv.URL, srv.Client())
	require.NoError(t, err)

	assert.Equal(t, "Home", parsed.Title)
	require.Len(t, parsed.Items, 3)
	for i, want := range items {
		assert.Equal(t, want.Title, parsed.Items[i].Title)
		assert.Equal(t, want.Link, parsed.Items[i].Link)
		assert.True(t, parsed.Items[i].Date.Equal(want.PubDate), "item %d date", i)
	}
}

func TestWrite_JSON(t *testing.T) {
	g := testGenerator()
	f, err := g.Generate([]Item{{Title: "One", PubDate: day(1), Link: "https://itsdaniel.dk/notes/one/"}}, JSON)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, f, JSON))

	var doc struct {
		Title string `json:"title"`
		Items []struct {
			ID  string `json:"id"`
			URL string `json:"url"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "Home", doc.Title)
	require.Len(t, doc.Items, 1)
	assert.Equal(t, "https://itsdaniel.dk/notes/one/", doc.Items[0].URL)
}

func TestFeedType_ContentType(t *testing.T) {
	assert.Equal(t, "application/xml", RSS.ContentType())
	assert.Equal(t, "application/atom+xml", Atom.ContentType())
	assert.Equal(t, "application/feed+json", JSON.ContentType())
}

func TestTemplateGenerator(t *testing.T) {
	fallback := fstest.MapFS{
		"robots.txt.tmpl":   {Data: []byte("Sitemap: {{ .SitemapURL }}")},
		"page.xml.tmpl":     {Data: []byte("<p>{{ xmlEscape .Title }}</p>")},
		"ignored.html.tmpl": {Data: []byte("{{ .Nope }}")},
	}
	override := fstest.MapFS{
		"robots.txt.tmpl": {Data: []byte("Overridden: {{ .SitemapURL }}")},
	}

	tg := NewTemplateGenerator(WithOverrideFS(override), WithFallbackFS(fallback))
	require.NoError(t, tg.LoadTemplates("*.txt.tmpl"))
	require.NoError(t, tg.LoadTemplates("*.xml.tmpl"))
	assert.Equal(t, []string{"page.xml", "robots.txt"}, tg.GetAvailableTemplates())

	var buf bytes.Buffer
	require.NoError(t, tg.GenerateFromTemplate("robots.txt", map[string]string{"SitemapURL": "https://x/s.xml"}, &buf))
	assert.Equal(t, "Overridden: https://x/s.xml", buf.String())

	buf.Reset()
	require.NoError(t, tg.GenerateFromTemplate("page.xml", map[string]string{"Title": "a & b"}, &buf))
	assert.Equal(t, "<p>a &amp; b</p>", buf.String())

	assert.Error(t, tg.GenerateFromTemplate("missing", nil, &buf))
	assert.Error(t, tg.LoadTemplates("*.json.tmpl"), "no matches")
}

func TestTemplateGenerator_Embedded(t *testing.T) {
	tg := NewTemplateGenerator(WithOverrideFS(nil))
	require.NoError(t, tg.LoadTemplates("*.xml.tmpl"))
	assert.Equal(t, []string{"sitemap-index.xml", "sitemap.xml"}, tg.GetAvailableTemplates())
}

func TestTemplateFuncs(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"xmlEscape", xmlEscape(`<a href="x">&amp;</a>`), "&lt;a href=&#34;x&#34;&gt;&amp;&lt;/a&gt;"},
		{"w3cDate", w3cDate(time.Date(2024, 1, 5, 23, 0, 0, 0, time.UTC)), "2024-01-05"},
		{"xmlEscape keeps entities single", xmlEscape("a &amp; b"), "a &amp; b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}
