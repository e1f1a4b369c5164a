// Package feed assembles site content into syndication feeds and renders crawler documents.
package feed

import (
	"time"
)

// Generator handles RSS, Atom and JSON feed generation
type Generator struct {
	Title       string
	Description string
	Link        string
	Author      string
	Email       string
}

// NewGenerator creates a new feed generator
func NewGenerator(title, description, link, author, email string) *Generator {
	return &Generator{
		Title:       title,
		Description: description,
		Link:        link,
		Author:      author,
		Email:       email,
	}
}

// Item is one entry of the site feed.
type Item struct {
	Title       string
	Description string
	PubDate     time.Time
	// Link is absolute: the site URL resolved against the entry path.
	Link string
}

// Metadata contains metadata about a generated feed
type Metadata struct {
	Title       string
	Description string
	ItemCount   int
	Created     time.Time
	Updated     time.Time
	OldestItem  time.Time
	NewestItem  time.Time
}

// FeedType represents the type of feed to generate
type FeedType string

// Supported feed types
const (
	RSS  FeedType = "rss"
	Atom FeedType = "atom"
	JSON FeedType = "json"
)

// ContentType returns the HTTP media type a feed of this type is served with.
func (t FeedType) ContentType() string {
	switch t {
	case Atom:
		return "application/atom+xml"
	case JSON:
		return "application/feed+json"
	default:
		return "application/xml"
	}
}
