// Package collections derives the published, sorted and grouped views of site content.
package collections

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/lepinkainen/folio/pkg/content"
)

// YearGroups maps a four-digit year to the entries published in it.
type YearGroups map[string][]content.Entry

// Years returns the group keys, newest year first.
func (g YearGroups) Years() []string {
	years := lo.Keys(map[string][]content.Entry(g))
	slices.SortFunc(years, func(a, b string) int {
		ai, _ := strconv.Atoi(a)
		bi, _ := strconv.Atoi(b)
		return bi - ai
	})
	return years
}

// SortNewestFirst stable-sorts entries by date, newest first, in place.
func SortNewestFirst(entries []content.Entry) {
	slices.SortStableFunc(entries, func(a, b content.Entry) int {
		return b.Date.Compare(a.Date)
	})
}

// Published fetches a collection and returns its non-draft entries, newest first.
// Entries with equal dates keep their store order.
func Published(ctx context.Context, store content.Store, c content.Collection) ([]content.Entry, error) {
	entries, err := store.Fetch(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", c, err)
	}

	published := lo.Filter(entries, func(e content.Entry, _ int) bool {
		return !e.Draft
	})
	SortNewestFirst(published)

	slog.Debug("Loaded published entries", "collection", c, "total", len(entries), "published", len(published))
	return published, nil
}

// Notes returns the published notes, newest first.
func Notes(ctx context.Context, store content.Store) ([]content.Entry, error) {
	return Published(ctx, store, content.Notes)
}

// Projects returns the published projects, newest first.
func Projects(ctx context.Context, store content.Store) ([]content.Entry, error) {
	return Published(ctx, store, content.Projects)
}

// All reads the given collections concurrently and merges them.
// With no collections it reads every collection. The first error fails the whole view.
func All(ctx context.Context, store content.Store, cs ...content.Collection) ([]content.Entry, error) {
	if len(cs) == 0 {
		cs = content.Collections()
	}

	lists := make([][]content.Entry, len(cs))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range cs {
		g.Go(func() error {
			entries, err := Published(gctx, store, c)
			if err != nil {
				return err
			}
			lists[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Merge(lists...), nil
}

// Merge concatenates the lists in argument order and sorts the result newest first.
// Equal dates keep their concatenation order.
func Merge(lists ...[]content.Entry) []content.Entry {
	merged := lo.Flatten(lists)
	SortNewestFirst(merged)
	return merged
}

// GroupByYear buckets entries by year in a single pass.
// Each bucket keeps the relative order of the input.
func GroupByYear(entries []content.Entry) YearGroups {
	return YearGroups(lo.GroupBy(entries, content.Entry.Year))
}

// Latest returns the first n entries. It returns none when n <= 0 and all of
// them when n exceeds the length.
func Latest(entries []content.Entry, n int) []content.Entry {
	if n <= 0 {
		return []content.Entry{}
	}
	if n >= len(entries) {
		return entries
	}
	return entries[:n]
}
