// Package site renders every document of the website from the site config and a content store.
package site

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/lepinkainen/folio/internal/config"
	"github.com/lepinkainen/folio/pkg/collections"
	"github.com/lepinkainen/folio/pkg/content"
	"github.com/lepinkainen/folio/pkg/feed"
)

// ErrNotFound is returned when a requested entry does not exist or is a draft.
var ErrNotFound = errors.New("not found")

// Sitemap file names, relative to the site root.
const (
	SitemapIndexFile = "sitemap-index.xml"
	SitemapFile      = "sitemap-0.xml"
)

// Renderer produces the site's documents. It holds no per-request state.
type Renderer struct {
	site  *config.Site
	store content.Store
	docs  *feed.TemplateGenerator
	pages *pageSet
}

// Option configures a Renderer.
type Option func(*rendererOptions)

type rendererOptions struct {
	templateOpts []feed.TemplateOption
}

// WithTemplateOptions passes options to the document and page template loaders.
func WithTemplateOptions(opts ...feed.TemplateOption) Option {
	return func(o *rendererOptions) {
		o.templateOpts = append(o.templateOpts, opts...)
	}
}

// NewRenderer loads the templates and returns a renderer over store.
func NewRenderer(site *config.Site, store content.Store, opts ...Option) (*Renderer, error) {
	var o rendererOptions
	for _, opt := range opts {
		opt(&o)
	}

	docs := feed.NewTemplateGenerator(o.templateOpts...)
	for _, pattern := range []string{"*.txt.tmpl", "*.xml.tmpl"} {
		if err := docs.LoadTemplates(pattern); err != nil {
			return nil, fmt.Errorf("failed to load document templates: %w", err)
		}
	}

	pages, err := loadPages(o.templateOpts...)
	if err != nil {
		return nil, err
	}

	return &Renderer{
		site:  site,
		store: store,
		docs:  docs,
		pages: pages,
	}, nil
}

// Site returns the site configuration.
func (r *Renderer) Site() *config.Site {
	return r.site
}

// Robots writes the robots.txt policy.
func (r *Renderer) Robots(w io.Writer) error {
	sitemapURL, err := r.site.AbsoluteURL(SitemapIndexFile)
	if err != nil {
		return fmt.Errorf("failed to build sitemap url: %w", err)
	}

	data := struct{ SitemapURL string }{SitemapURL: sitemapURL}
	return r.docs.GenerateFromTemplate("robots.txt", data, w)
}

// Feed writes the site-wide feed of published notes and projects, newest first.
func (r *Renderer) Feed(ctx context.Context, w io.Writer, feedType feed.FeedType) error {
	notes, err := collections.Notes(ctx, r.store)
	if err != nil {
		return err
	}
	projects, err := collections.Projects(ctx, r.store)
	if err != nil {
		return err
	}

	items, err := feed.Assemble(r.site.URL, notes, projects)
	if err != nil {
		return err
	}

	home := r.site.Pages.Home
	gen := feed.NewGenerator(home.Title, home.Description, r.site.URL, r.site.Name, r.site.Email)
	f, err := gen.Generate(items, feedType)
	if err != nil {
		return err
	}
	if err := gen.ValidateFeed(f); err != nil {
		return fmt.Errorf("invalid %s feed: %w", feedType, err)
	}

	meta := gen.GetMetadata(f)
	slog.Debug("Rendering feed", "type", feedType, "items", meta.ItemCount, "newest", meta.NewestItem)
	return feed.Write(w, f, feedType)
}

// SitemapIndex writes the sitemap index pointing at the single sitemap file.
func (r *Renderer) SitemapIndex(w io.Writer) error {
	loc, err := r.site.AbsoluteURL(SitemapFile)
	if err != nil {
		return fmt.Errorf("failed to build sitemap url: %w", err)
	}

	data := struct{ Sitemaps []string }{Sitemaps: []string{loc}}
	return r.docs.GenerateFromTemplate("sitemap-index.xml", data, w)
}

// sitemapURL is a single <url> of the sitemap.
type sitemapURL struct {
	Loc     string
	LastMod time.Time
}

// Sitemap writes every page URL: the top-level pages followed by all published entries.
func (r *Renderer) Sitemap(ctx context.Context, w io.Writer) error {
	all, err := collections.All(ctx, r.store)
	if err != nil {
		return err
	}

	paths := []string{"/", "/notes/", "/projects/", "/about/"}
	urls := make([]sitemapURL, 0, len(paths)+len(all))
	for _, p := range paths {
		loc, err := r.site.AbsoluteURL(p)
		if err != nil {
			return err
		}
		urls = append(urls, sitemapURL{Loc: loc})
	}
	for _, e := range all {
		loc, err := r.site.AbsoluteURL(e.Path())
		if err != nil {
			return err
		}
		urls = append(urls, sitemapURL{Loc: loc, LastMod: e.Date})
	}

	data := struct{ URLs []sitemapURL }{URLs: urls}
	return r.docs.GenerateFromTemplate("sitemap.xml", data, w)
}
