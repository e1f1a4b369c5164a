package content

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := OpenSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "content.db"))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })
	return store
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestSQLiteStore(t)

	offset := time.FixedZone("", 2*60*60)
	entries := []Entry{
		{Collection: Notes, Slug: "b", Title: "B", Date: time.Date(2024, 1, 5, 10, 0, 0, 0, offset), Body: "<p>b</p>"},
		{Collection: Projects, Slug: "p", Title: "P", Date: time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC),
			Project: &ProjectLinks{Repo: "https://example.com/repo"}},
		{Collection: Notes, Slug: "a", Title: "A", Date: time.Date(2024, 1, 5, 10, 0, 0, 0, offset), Draft: true},
	}
	require.NoError(t, store.Replace(ctx, entries))

	notes, err := store.Fetch(ctx, Notes)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "b", notes[0].Slug, "insertion order is store order")
	assert.Equal(t, "a", notes[1].Slug)
	assert.True(t, notes[1].Draft)
	assert.Equal(t, "<p>b</p>", notes[0].Body)
	assert.True(t, notes[0].Date.Equal(entries[0].Date))
	_, gotOffset := notes[0].Date.Zone()
	assert.Equal(t, 2*60*60, gotOffset)
	assert.Nil(t, notes[0].Project)

	projects, err := store.Fetch(ctx, Projects)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	require.NotNil(t, projects[0].Project)
	assert.Equal(t, "https://example.com/repo", projects[0].Project.Repo)
}

func TestSQLiteStore_ReplaceIsAtomic(t *testing.T) {
	ctx := context.Background()
	store := openTestSQLiteStore(t)

	first := []Entry{{Collection: Notes, Slug: "keep", Date: time.Now()}}
	require.NoError(t, store.Replace(ctx, first))

	bad := []Entry{
		{Collection: Notes, Slug: "new", Date: time.Now()},
		{Collection: "posts", Slug: "x", Date: time.Now()},
	}
	assert.ErrorIs(t, store.Replace(ctx, bad), ErrUnknownCollection)

	notes, err := store.Fetch(ctx, Notes)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "keep", notes[0].Slug)
}

func TestSQLiteStore_RejectsInvalidSlug(t *testing.T) {
	ctx := context.Background()
	store := openTestSQLiteStore(t)

	bad := []Entry{{Collection: Notes, Slug: "../escaped", Date: time.Now()}}
	assert.ErrorIs(t, store.Replace(ctx, bad), ErrInvalidSlug)
}

func TestSQLiteStore_UnknownCollection(t *testing.T) {
	store := openTestSQLiteStore(t)

	_, err := store.Fetch(context.Background(), Collection("posts"))
	assert.ErrorIs(t, err, ErrUnknownCollection)
}

func TestSQLiteStore_ImportFromFiles(t *testing.T) {
	ctx := context.Background()
	files := NewFileStore("testdata/content")
	store := openTestSQLiteStore(t)

	var all []Entry
	for _, c := range Collections() {
		entries, err := files.Fetch(ctx, c)
		require.NoError(t, err)
		all = append(all, entries...)
	}
	require.NoError(t, store.Replace(ctx, all))

	for _, c := range Collections() {
		want, err := files.Fetch(ctx, c)
		require.NoError(t, err)
		got, err := store.Fetch(ctx, c)
		require.NoError(t, err)

		require.Len(t, got, len(want))
		for i := range want {
			assert.Equal(t, want[i].Path(), got[i].Path())
			assert.True(t, want[i].Date.Equal(got[i].Date))
			assert.Equal(t, want[i].Body, got[i].Body)
		}
	}
}
