package site

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/lepinkainen/folio/pkg/collections"
	"github.com/lepinkainen/folio/pkg/content"
	"github.com/lepinkainen/folio/pkg/feed"
	"github.com/lepinkainen/folio/pkg/filesystem"
)

// document is one output file and the function that renders it.
type document struct {
	path   string
	render func(w io.Writer) error
}

// Build renders the whole site into outDir and returns the number of files written.
func (r *Renderer) Build(ctx context.Context, outDir string) (int, error) {
	docs := []document{
		{"robots.txt", r.Robots},
		{"rss.xml", func(w io.Writer) error { return r.Feed(ctx, w, feed.RSS) }},
		{"atom.xml", func(w io.Writer) error { return r.Feed(ctx, w, feed.Atom) }},
		{"feed.json", func(w io.Writer) error { return r.Feed(ctx, w, feed.JSON) }},
		{SitemapIndexFile, r.SitemapIndex},
		{SitemapFile, func(w io.Writer) error { return r.Sitemap(ctx, w) }},
		{"index.html", func(w io.Writer) error { return r.Home(ctx, w) }},
		{filepath.Join("about", "index.html"), r.About},
	}

	for _, c := range content.Collections() {
		entries, err := collections.Published(ctx, r.store, c)
		if err != nil {
			return 0, err
		}

		docs = append(docs, document{
			path:   filepath.Join(string(c), "index.html"),
			render: func(w io.Writer) error { return r.Listing(ctx, w, c) },
		})
		for _, e := range entries {
			// Slugs become directory names under outDir.
			if err := content.ValidateSlug(e.Slug); err != nil {
				return 0, fmt.Errorf("failed to build %s entry: %w", c, err)
			}
			docs = append(docs, document{
				path:   filepath.Join(string(c), e.Slug, "index.html"),
				render: func(w io.Writer) error { return r.Entry(ctx, w, c, e.Slug) },
			})
		}
	}

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if err := writeDocument(filepath.Join(outDir, doc.path), doc.render); err != nil {
			return 0, err
		}
	}

	slog.Info("Site built", "dir", outDir, "files", len(docs))
	return len(docs), nil
}

// writeDocument renders into memory first so a failed render leaves no partial file.
func writeDocument(path string, render func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return fmt.Errorf("failed to render %s: %w", path, err)
	}

	if err := filesystem.WriteFileAtomic(path, buf.Bytes()); err != nil {
		return err
	}

	slog.Debug("Wrote document", "path", path, "bytes", buf.Len())
	return nil
}
