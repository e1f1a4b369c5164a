package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/lepinkainen/folio/pkg/format"
)

// yamlFormat parses "---" delimited frontmatter with yaml.v3.
var yamlFormat = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

// frontMatter is the metadata block at the top of a content file.
type frontMatter struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Date        string `yaml:"date"`
	Draft       bool   `yaml:"draft"`
	Slug        string `yaml:"slug"`
	Repo        string `yaml:"repo"`
	Demo        string `yaml:"demo"`
}

// FileStore reads Markdown files laid out as <root>/<collection>/<slug>.md.
type FileStore struct {
	root string
	md   goldmark.Markdown
}

// NewFileStore creates a store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{
		root: dir,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
	}
}

// Root returns the content directory.
func (s *FileStore) Root() string {
	return s.root
}

// Fetch reads every Markdown file of the collection in lexical filename order.
func (s *FileStore) Fetch(ctx context.Context, c Collection) ([]Entry, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, c)
	}

	dir := filepath.Join(s.root, string(c))
	files, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: no directory %s", ErrUnknownCollection, dir)
		}
		return nil, fmt.Errorf("failed to read collection directory %s: %w", dir, err)
	}

	names := make([]string, 0, len(files))
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(strings.ToLower(f.Name()), ".md") {
			continue
		}
		names = append(names, f.Name())
	}
	slices.Sort(names)

	entries := make([]Entry, 0, len(names))
	seen := make(map[string]string, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := filepath.Join(dir, name)
		entry, err := s.readEntry(c, path)
		if err != nil {
			return nil, err
		}
		if first, ok := seen[entry.Slug]; ok {
			return nil, fmt.Errorf("%w: %q in %s and %s", ErrDuplicateSlug, entry.Slug, first, path)
		}
		seen[entry.Slug] = path
		entries = append(entries, entry)
	}

	slog.Debug("Loaded collection from disk", "collection", c, "dir", dir, "entries", len(entries))
	return entries, nil
}

func (s *FileStore) readEntry(c Collection, path string) (Entry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var fm frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(raw), &fm, yamlFormat)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to parse frontmatter in %s: %w", path, err)
	}

	date, err := format.ParseDate(fm.Date)
	if err != nil {
		return Entry{}, fmt.Errorf("invalid date in %s: %w", path, err)
	}

	var rendered bytes.Buffer
	if err := s.md.Convert(body, &rendered); err != nil {
		return Entry{}, fmt.Errorf("failed to render markdown in %s: %w", path, err)
	}

	slug := fm.Slug
	if slug == "" {
		slug = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := ValidateSlug(slug); err != nil {
		return Entry{}, fmt.Errorf("bad slug in %s: %w", path, err)
	}

	entry := Entry{
		Collection:  c,
		Slug:        slug,
		Title:       fm.Title,
		Description: fm.Description,
		Date:        date,
		Draft:       fm.Draft,
		Body:        rendered.String(),
	}

	if entry.Title == "" {
		entry.Title = titleFromSlug(slug)
	}
	if entry.Description == "" {
		entry.Description = firstParagraph(entry.Body)
	}
	if c == Projects {
		entry.Project = &ProjectLinks{Repo: fm.Repo, Demo: fm.Demo}
	}

	return entry, nil
}

// titleFromSlug turns "my-first_note" into "My First Note".
func titleFromSlug(slug string) string {
	words := strings.NewReplacer("-", " ", "_", " ").Replace(slug)
	return cases.Title(language.English).String(words)
}

// firstParagraph returns the text of the first <p> element in the HTML fragment.
func firstParagraph(fragment string) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return ""
	}

	var p *html.Node
	var find func(*html.Node)
	find = func(n *html.Node) {
		if p != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == "p" {
			p = n
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			find(child)
		}
	}
	find(doc)
	if p == nil {
		return ""
	}

	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			collect(child)
		}
	}
	collect(p)

	return strings.Join(strings.Fields(b.String()), " ")
}
