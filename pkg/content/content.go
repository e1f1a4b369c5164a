// Package content defines the site's typed content collections and the stores they are read from.
package content

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Content errors
var (
	ErrUnknownCollection = errors.New("unknown collection")
	ErrInvalidSlug       = errors.New("invalid slug")
	ErrDuplicateSlug     = errors.New("duplicate slug")
)

// Collection identifies one of the site's content collections.
type Collection string

// Supported collections
const (
	Notes    Collection = "notes"
	Projects Collection = "projects"
)

// Collections returns every collection in canonical order.
func Collections() []Collection {
	return []Collection{Notes, Projects}
}

// Valid reports whether c is one of the known collections.
func (c Collection) Valid() bool {
	switch c {
	case Notes, Projects:
		return true
	}
	return false
}

func (c Collection) String() string {
	return string(c)
}

// ParseCollection converts a name into a Collection.
func ParseCollection(name string) (Collection, error) {
	c := Collection(name)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCollection, name)
	}
	return c, nil
}

// ProjectLinks holds the outbound links a project entry may carry.
type ProjectLinks struct {
	Repo string
	Demo string
}

// Entry is a single piece of content from either collection.
type Entry struct {
	Collection  Collection
	Slug        string
	Title       string
	Description string
	Date        time.Time
	Draft       bool
	// Body is the rendered HTML body.
	Body string
	// Project is nil for notes.
	Project *ProjectLinks
}

// Path returns the site-relative URL path of the entry.
func (e Entry) Path() string {
	return "/" + string(e.Collection) + "/" + e.Slug + "/"
}

// Year returns the four-digit year of the entry date in the date's own location.
func (e Entry) Year() string {
	return fmt.Sprintf("%04d", e.Date.Year())
}

// ValidateSlug rejects slugs that cannot be a single URL path segment or directory name.
func ValidateSlug(slug string) error {
	switch {
	case slug == "":
		return fmt.Errorf("%w: empty", ErrInvalidSlug)
	case slug == "." || slug == "..":
		return fmt.Errorf("%w: %q", ErrInvalidSlug, slug)
	case strings.ContainsAny(slug, `/\`):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidSlug, slug)
	}
	return nil
}

// Store is the source of content entries.
// Entries are returned in store order, which breaks ties between equal dates.
type Store interface {
	Fetch(ctx context.Context, c Collection) ([]Entry, error)
}
