// Package server serves the rendered site over HTTP.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/lepinkainen/folio/internal/site"
	"github.com/lepinkainen/folio/pkg/content"
	"github.com/lepinkainen/folio/pkg/feed"
)

// Content types of the served documents.
const (
	contentTypeText = "text/plain; charset=utf-8"
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeXML  = "application/xml"
)

// ShutdownTimeout bounds how long in-flight requests may run after shutdown starts.
const ShutdownTimeout = 5 * time.Second

// Server routes requests to a site.Renderer.
type Server struct {
	renderer *site.Renderer
	mux      *http.ServeMux
}

// New returns a server with all routes registered.
func New(renderer *site.Renderer) *Server {
	s := &Server{
		renderer: renderer,
		mux:      http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	s.mux.HandleFunc("GET /robots.txt", s.document(contentTypeText, func(_ *http.Request, w io.Writer) error {
		return s.renderer.Robots(w)
	}))

	for _, path := range []string{"/rss.xml", "/feed.xml"} {
		s.mux.HandleFunc("GET "+path, s.feed(feed.RSS))
	}
	s.mux.HandleFunc("GET /atom.xml", s.feed(feed.Atom))
	s.mux.HandleFunc("GET /feed.json", s.feed(feed.JSON))

	s.mux.HandleFunc("GET /"+site.SitemapIndexFile, s.document(contentTypeXML, func(_ *http.Request, w io.Writer) error {
		return s.renderer.SitemapIndex(w)
	}))
	s.mux.HandleFunc("GET /"+site.SitemapFile, s.document(contentTypeXML, func(r *http.Request, w io.Writer) error {
		return s.renderer.Sitemap(r.Context(), w)
	}))

	s.mux.HandleFunc("GET /{$}", s.document(contentTypeHTML, func(r *http.Request, w io.Writer) error {
		return s.renderer.Home(r.Context(), w)
	}))
	s.mux.HandleFunc("GET /about/{$}", s.document(contentTypeHTML, func(_ *http.Request, w io.Writer) error {
		return s.renderer.About(w)
	}))
	for _, c := range content.Collections() {
		s.mux.HandleFunc(fmt.Sprintf("GET /%s/{$}", c), s.document(contentTypeHTML, func(r *http.Request, w io.Writer) error {
			return s.renderer.Listing(r.Context(), w, c)
		}))
		s.mux.HandleFunc(fmt.Sprintf("GET /%s/{slug}/{$}", c), s.document(contentTypeHTML, func(r *http.Request, w io.Writer) error {
			return s.renderer.Entry(r.Context(), w, c, r.PathValue("slug"))
		}))
	}
}

func (s *Server) feed(feedType feed.FeedType) http.HandlerFunc {
	return s.document(feedType.ContentType(), func(r *http.Request, w io.Writer) error {
		return s.renderer.Feed(r.Context(), w, feedType)
	})
}

// document renders into a buffer and only writes the response once rendering succeeded.
func (s *Server) document(contentType string, render func(*http.Request, io.Writer) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := render(r, &buf); err != nil {
			if errors.Is(err, site.ErrNotFound) {
				http.NotFound(w, r)
				return
			}
			slog.Error("Failed to render document", "path", r.URL.Path, "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", contentType)
		if _, err := buf.WriteTo(w); err != nil {
			slog.Debug("Failed to write response", "path", r.URL.Path, "error", err)
		}
	}
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Handler returns the routes wrapped with request logging.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		s.mux.ServeHTTP(rec, r)
		slog.Debug("Request served",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

// Serve accepts connections on l until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Serving site", "addr", l.Addr().String())
		errCh <- srv.Serve(l)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	<-errCh
	return nil
}

// ListenAndServe listens on addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	l, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, l)
}
