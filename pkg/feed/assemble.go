package feed

import (
	"fmt"

	"github.com/lepinkainen/folio/pkg/collections"
	"github.com/lepinkainen/folio/pkg/content"
	"github.com/lepinkainen/folio/pkg/urlutils"
)

// Assemble merges the lists newest first and projects every entry into a feed item.
// Item links are siteURL resolved against "/{collection}/{slug}/".
func Assemble(siteURL string, lists ...[]content.Entry) ([]Item, error) {
	merged := collections.Merge(lists...)

	items := make([]Item, 0, len(merged))
	for _, e := range merged {
		link, err := urlutils.ResolveURL(siteURL, e.Path())
		if err != nil {
			return nil, fmt.Errorf("failed to build link for %s: %w", e.Path(), err)
		}

		items = append(items, Item{
			Title:       e.Title,
			Description: e.Description,
			PubDate:     e.Date,
			Link:        link,
		})
	}

	return items, nil
}
