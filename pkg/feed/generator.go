package feed

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/gorilla/feeds"
)

// Generate creates a feed from the provided items, keeping their order.
// The feed's created and updated times are the newest item's date.
func (g *Generator) Generate(items []Item, feedType FeedType) (*feeds.Feed, error) {
	switch feedType {
	case RSS, Atom, JSON:
	default:
		return nil, fmt.Errorf("unsupported feed type: %s", feedType)
	}

	feed := &feeds.Feed{
		Title:       g.Title,
		Link:        &feeds.Link{Href: g.Link},
		Description: g.Description,
		Id:          g.Link,
	}
	if g.Author != "" || g.Email != "" {
		feed.Author = &feeds.Author{Name: g.Author, Email: g.Email}
	}

	for _, item := range items {
		if item.PubDate.After(feed.Updated) {
			feed.Updated = item.PubDate
		}

		feed.Items = append(feed.Items, &feeds.Item{
			Title:       item.Title,
			Link:        &feeds.Link{Href: item.Link},
			Description: item.Description,
			Created:     item.PubDate,
			Id:          itemID(item.Link, feedType),
		})
	}
	feed.Created = feed.Updated

	slog.Debug("Generated feed", "type", feedType, "items", len(feed.Items))
	return feed, nil
}

// itemID is the link itself for RSS and JSON. Atom gets a stable urn:uuid
// derived from the link so entry ids survive title and date edits.
func itemID(link string, feedType FeedType) string {
	if feedType == Atom {
		return uuid.NewSHA1(uuid.NameSpaceURL, []byte(link)).URN()
	}
	return link
}

// Write serializes feed in the requested format.
func Write(w io.Writer, feed *feeds.Feed, feedType FeedType) error {
	var err error
	switch feedType {
	case RSS:
		err = feed.WriteRss(w)
	case Atom:
		err = feed.WriteAtom(w)
	case JSON:
		err = feed.WriteJSON(w)
	default:
		return fmt.Errorf("unsupported feed type: %s", feedType)
	}

	if err != nil {
		return fmt.Errorf("failed to write %s feed: %w", feedType, err)
	}
	return nil
}

// ValidateFeed validates the generated feed structure
func (g *Generator) ValidateFeed(feed *feeds.Feed) error {
	if feed == nil {
		return fmt.Errorf("feed is nil")
	}

	if feed.Title == "" {
		return fmt.Errorf("feed title is empty")
	}

	if feed.Link == nil || feed.Link.Href == "" {
		return fmt.Errorf("feed link is empty")
	}

	if feed.Description == "" {
		return fmt.Errorf("feed description is empty")
	}

	for i, item := range feed.Items {
		if err := validateFeedItem(item); err != nil {
			return fmt.Errorf("item %d validation failed: %w", i, err)
		}
	}

	return nil
}

func validateFeedItem(item *feeds.Item) error {
	if item.Title == "" {
		return fmt.Errorf("item title is empty")
	}

	if item.Link == nil || item.Link.Href == "" {
		return fmt.Errorf("item link is empty")
	}

	if item.Id == "" {
		return fmt.Errorf("item ID is empty")
	}

	return nil
}

// GetMetadata returns metadata about the generated feed
func (g *Generator) GetMetadata(feed *feeds.Feed) *Metadata {
	if feed == nil {
		return nil
	}

	metadata := &Metadata{
		Title:       feed.Title,
		Description: feed.Description,
		ItemCount:   len(feed.Items),
		Created:     feed.Created,
		Updated:     feed.Updated,
	}

	if len(feed.Items) > 0 {
		oldest := feed.Items[0].Created
		newest := feed.Items[0].Created

		for _, item := range feed.Items {
			if item.Created.Before(oldest) {
				oldest = item.Created
			}
			if item.Created.After(newest) {
				newest = item.Created
			}
		}

		metadata.OldestItem = oldest
		metadata.NewestItem = newest
	}

	return metadata
}
