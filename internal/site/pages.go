package site

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"log/slog"

	"github.com/lepinkainen/folio/internal/config"
	"github.com/lepinkainen/folio/pkg/collections"
	"github.com/lepinkainen/folio/pkg/content"
	"github.com/lepinkainen/folio/pkg/feed"
	"github.com/lepinkainen/folio/pkg/format"
)

const layoutTemplate = "layout.html.tmpl"

// Page templates, one per kind of page.
const (
	homePage     = "home.html.tmpl"
	notesPage    = "notes.html.tmpl"
	projectsPage = "projects.html.tmpl"
	entryPage    = "entry.html.tmpl"
	aboutPage    = "about.html.tmpl"
)

// pageSet holds one parsed template per page, each combined with the shared layout.
type pageSet struct {
	templates map[string]*template.Template
}

func pageFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate":  format.FormatDate,
		"readingTime": format.ReadingTime,
		// Bodies are rendered by goldmark without raw HTML passthrough.
		"safeHTML": func(s string) template.HTML { return template.HTML(s) },
	}
}

// loadPages parses the page templates through a feed.TemplateGenerator so page
// templates share its override and embedded lookup.
func loadPages(opts ...feed.TemplateOption) (*pageSet, error) {
	src := feed.NewTemplateGenerator(opts...)

	layout, err := src.ReadTemplate(layoutTemplate)
	if err != nil {
		return nil, err
	}

	set := &pageSet{templates: make(map[string]*template.Template)}
	for _, name := range []string{homePage, notesPage, projectsPage, entryPage, aboutPage} {
		body, err := src.ReadTemplate(name)
		if err != nil {
			return nil, err
		}

		tmpl, err := template.New(name).Funcs(pageFuncs()).Parse(string(layout))
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", layoutTemplate, err)
		}
		if _, err := tmpl.Parse(string(body)); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		set.templates[name] = tmpl
	}

	return set, nil
}

func (p *pageSet) execute(w io.Writer, name string, data pageData) error {
	tmpl, ok := p.templates[name]
	if !ok {
		return fmt.Errorf("page template %s not found", name)
	}
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	return nil
}

// pageData is passed to every page template.
type pageData struct {
	Site        *config.Site
	Title       string
	Description string
	Canonical   string
	Notes       []content.Entry
	Projects    []content.Entry
	Groups      collections.YearGroups
	Entry       *content.Entry
}

func (r *Renderer) newPageData(meta config.Metadata, path string) (pageData, error) {
	canonical, err := r.site.AbsoluteURL(path)
	if err != nil {
		return pageData{}, fmt.Errorf("failed to build canonical url for %s: %w", path, err)
	}
	return pageData{
		Site:        r.site,
		Title:       meta.Title,
		Description: meta.Description,
		Canonical:   canonical,
	}, nil
}

// Home writes the home page with the latest notes and projects.
func (r *Renderer) Home(ctx context.Context, w io.Writer) error {
	notes, err := collections.Notes(ctx, r.store)
	if err != nil {
		return err
	}
	projects, err := collections.Projects(ctx, r.store)
	if err != nil {
		return err
	}

	data, err := r.newPageData(r.site.Pages.Home, "/")
	if err != nil {
		return err
	}
	data.Notes = collections.Latest(notes, r.site.NumNotesOnHomepage)
	data.Projects = collections.Latest(projects, r.site.NumProjectsOnHomepage)

	return r.pages.execute(w, homePage, data)
}

// About writes the about page. It reads only the site config.
func (r *Renderer) About(w io.Writer) error {
	data, err := r.newPageData(r.site.Pages.About, "/about/")
	if err != nil {
		return err
	}
	return r.pages.execute(w, aboutPage, data)
}

// Listing writes the index page of a collection. Notes are grouped by year.
func (r *Renderer) Listing(ctx context.Context, w io.Writer, c content.Collection) error {
	entries, err := collections.Published(ctx, r.store, c)
	if err != nil {
		return err
	}

	switch c {
	case content.Notes:
		data, err := r.newPageData(r.site.Pages.Notes, "/notes/")
		if err != nil {
			return err
		}
		data.Notes = entries
		data.Groups = collections.GroupByYear(entries)
		return r.pages.execute(w, notesPage, data)

	case content.Projects:
		data, err := r.newPageData(r.site.Pages.Projects, "/projects/")
		if err != nil {
			return err
		}
		data.Projects = entries
		return r.pages.execute(w, projectsPage, data)
	}

	return fmt.Errorf("%w: %q", content.ErrUnknownCollection, c)
}

// Entry writes the page of a single published entry.
func (r *Renderer) Entry(ctx context.Context, w io.Writer, c content.Collection, slug string) error {
	entries, err := collections.Published(ctx, r.store, c)
	if err != nil {
		return err
	}

	for i := range entries {
		if entries[i].Slug != slug {
			continue
		}

		e := entries[i]
		data, err := r.newPageData(config.Metadata{Title: e.Title, Description: e.Description}, e.Path())
		if err != nil {
			return err
		}
		data.Entry = &e
		return r.pages.execute(w, entryPage, data)
	}

	slog.Debug("Entry not found", "collection", c, "slug", slug)
	return fmt.Errorf("%w: %s/%s", ErrNotFound, c, slug)
}
