// Package main provides the CLI entry point for folio.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	kongyaml "github.com/alecthomas/kong-yaml"

	"github.com/lepinkainen/folio/internal/config"
	"github.com/lepinkainen/folio/internal/server"
	"github.com/lepinkainen/folio/internal/site"
	"github.com/lepinkainen/folio/pkg/collections"
	"github.com/lepinkainen/folio/pkg/content"
	"github.com/lepinkainen/folio/pkg/database"
	"github.com/lepinkainen/folio/pkg/feed"
	"github.com/lepinkainen/folio/pkg/preview"
)

// CLI structure
var CLI struct {
	Config   string `help:"Site configuration file path" default:"site.yaml"`
	Debug    bool   `help:"Enable debug logging" default:"false"`
	Content  string `help:"Content directory" default:"content"`
	Store    string `help:"Content store backend (file or sqlite)" enum:"file,sqlite" default:"file"`
	Database string `help:"SQLite database path" default:"folio.db"`

	Serve struct {
		Addr string `help:"Listen address" default:":4321"`
	} `cmd:"serve" help:"Serve the site over HTTP."`

	Build struct {
		Outdir string `help:"Output directory" short:"o" default:"dist"`
		Watch  bool   `help:"Rebuild when content or templates change" default:"false"`
	} `cmd:"build" help:"Render the site into a directory."`

	Import struct{} `cmd:"import" help:"Copy the content directory into the SQLite database."`

	Preview struct {
		Index int `help:"Output the RSS XML for a specific entry index (0-based) to stdout" default:"-1"`
	} `cmd:"preview" help:"Preview published entries interactively."`
}

func main() {
	// Parse CLI with Kong YAML configuration file loading
	ctx := kong.Parse(&CLI,
		kong.Configuration(kongyaml.Loader, "folio.yaml", "~/.folio/folio.yaml"),
	)

	if CLI.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	} else {
		slog.SetLogLoggerLevel(slog.LevelWarn)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch ctx.Command() {
	case "serve":
		err = serve(runCtx)
	case "build":
		err = build(runCtx)
	case "import":
		err = importContent(runCtx)
	case "preview":
		err = previewSite(runCtx)
	default:
		panic(ctx.Command())
	}

	if err != nil {
		slog.Error("Command failed", "command", ctx.Command(), "error", err)
		stop()
		os.Exit(1)
	}
}

// openStore creates the configured content store. The returned func releases it.
func openStore(ctx context.Context) (content.Store, func(), error) {
	store, err := content.DefaultRegistry.Create(ctx, CLI.Store, content.Options{
		ContentDir:   CLI.Content,
		DatabasePath: CLI.Database,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s store: %w", CLI.Store, err)
	}

	release := func() {
		if c, ok := store.(io.Closer); ok {
			if err := c.Close(); err != nil {
				slog.Warn("Failed to close store", "store", CLI.Store, "error", err)
			}
		}
	}
	return store, release, nil
}

// newRenderer loads the site config and templates over store.
func newRenderer(store content.Store) (*site.Renderer, error) {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return nil, err
	}
	return site.NewRenderer(cfg, store)
}

func serve(ctx context.Context) error {
	store, release, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer release()

	renderer, err := newRenderer(store)
	if err != nil {
		return err
	}

	return server.New(renderer).ListenAndServe(ctx, CLI.Serve.Addr)
}

func build(ctx context.Context) error {
	store, release, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer release()

	rebuild := func(ctx context.Context) error {
		// Config and templates are reloaded so edits to them show up in watch mode.
		renderer, err := newRenderer(store)
		if err != nil {
			return err
		}
		n, err := renderer.Build(ctx, CLI.Build.Outdir)
		if err != nil {
			return err
		}
		fmt.Printf("Built %d files into %s\n", n, CLI.Build.Outdir)
		return nil
	}

	if err := rebuild(ctx); err != nil {
		return err
	}
	if !CLI.Build.Watch {
		return nil
	}

	slog.Warn("Watching for changes", "content", CLI.Content)
	return site.Watch(ctx, []string{CLI.Content, "templates"}, site.DefaultDebounce, rebuild)
}

func importContent(ctx context.Context) error {
	files := content.NewFileStore(CLI.Content)

	var entries []content.Entry
	for _, c := range content.Collections() {
		list, err := files.Fetch(ctx, c)
		if err != nil {
			return err
		}
		entries = append(entries, list...)
	}

	existed := database.Exists(CLI.Database)

	store, err := content.OpenSQLiteStore(ctx, CLI.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("Failed to close database", "error", err)
		}
	}()

	if existed {
		backup, err := store.Database().Backup(ctx)
		if err != nil {
			return err
		}
		slog.Info("Backed up database", "path", backup)
	}

	if err := store.Replace(ctx, entries); err != nil {
		return err
	}
	if err := store.Database().Vacuum(ctx); err != nil {
		return err
	}
	if info, err := store.Database().Info(ctx); err == nil {
		slog.Info("Database ready", "sqlite_version", info["sqlite_version"], "bytes", info["file_size_bytes"])
	}

	fmt.Printf("Imported %d entries into %s\n", len(entries), CLI.Database)
	return nil
}

func previewSite(ctx context.Context) error {
	store, release, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer release()

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return err
	}

	notes, err := collections.Notes(ctx, store)
	if err != nil {
		return err
	}
	projects, err := collections.Projects(ctx, store)
	if err != nil {
		return err
	}
	entries := collections.Merge(notes, projects)

	home := cfg.Pages.Home
	gen := feed.NewGenerator(home.Title, home.Description, cfg.URL, cfg.Name, cfg.Email)

	// If index is specified, output XML directly to stdout
	if CLI.Preview.Index >= 0 {
		if CLI.Preview.Index >= len(entries) {
			return fmt.Errorf("index %d out of range, %d entries", CLI.Preview.Index, len(entries))
		}
		fmt.Println(preview.FormatXMLItem(entries[CLI.Preview.Index], gen))
		return nil
	}

	return preview.Run(entries, cfg.Name, gen)
}
