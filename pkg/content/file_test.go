package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Notes(t *testing.T) {
	store := NewFileStore("testdata/content")

	notes, err := store.Fetch(context.Background(), Notes)
	require.NoError(t, err)
	require.Len(t, notes, 3)

	// lexical filename order
	assert.Equal(t, "go-generics_notes", notes[0].Slug)
	assert.Equal(t, "hello-world", notes[1].Slug)
	assert.Equal(t, "unfinished", notes[2].Slug)

	hello := notes[1]
	assert.Equal(t, Notes, hello.Collection)
	assert.Equal(t, "Hello World", hello.Title)
	assert.Equal(t, "The first note.", hello.Description)
	assert.True(t, hello.Date.Equal(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)))
	assert.False(t, hello.Draft)
	assert.Contains(t, hello.Body, `<h1 id="hello">Hello</h1>`)
	assert.Contains(t, hello.Body, "<em>first</em>")
	assert.Nil(t, hello.Project)

	generics := notes[0]
	assert.Equal(t, "Go Generics Notes", generics.Title, "title falls back to the slug")
	assert.Equal(t, "Generics landed in Go 1.18 and changed how collections are written.", generics.Description)
	assert.Equal(t, "2023", generics.Year())

	assert.True(t, notes[2].Draft)
}

func TestFileStore_Projects(t *testing.T) {
	store := NewFileStore("testdata/content")

	projects, err := store.Fetch(context.Background(), Projects)
	require.NoError(t, err)
	require.Len(t, projects, 1, "non-markdown files are skipped")

	p := projects[0]
	assert.Equal(t, "folio-site", p.Slug, "frontmatter slug wins over the filename")
	assert.Equal(t, "/projects/folio-site/", p.Path())
	require.NotNil(t, p.Project)
	assert.Equal(t, "https://github.com/lepinkainen/folio", p.Project.Repo)
	assert.Equal(t, "https://itsdaniel.dk", p.Project.Demo)
}

func TestFileStore_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown collection", func(t *testing.T) {
		_, err := NewFileStore("testdata/content").Fetch(ctx, Collection("posts"))
		assert.ErrorIs(t, err, ErrUnknownCollection)
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := NewFileStore(t.TempDir()).Fetch(ctx, Notes)
		assert.ErrorIs(t, err, ErrUnknownCollection)
	})

	t.Run("bad date names the file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "notes"), 0o755))
		bad := filepath.Join(dir, "notes", "bad.md")
		require.NoError(t, os.WriteFile(bad, []byte("---\ntitle: Bad\ndate: yesterday\n---\nbody\n"), 0o644))

		_, err := NewFileStore(dir).Fetch(ctx, Notes)
		require.Error(t, err)
		assert.Contains(t, err.Error(), bad)
	})

	for _, slug := range []string{"../../escaped", "nested/slug", `back\\slash`, "..", "."} {
		t.Run("rejects slug "+slug, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.MkdirAll(filepath.Join(dir, "notes"), 0o755))
			bad := filepath.Join(dir, "notes", "bad.md")
			doc := "---\ntitle: Bad\ndate: 2024-01-05\nslug: " + slug + "\n---\nbody\n"
			require.NoError(t, os.WriteFile(bad, []byte(doc), 0o644))

			_, err := NewFileStore(dir).Fetch(ctx, Notes)
			assert.ErrorIs(t, err, ErrInvalidSlug)
			assert.ErrorContains(t, err, bad)
		})
	}

	t.Run("duplicate slug", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "notes"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes", "hello.md"),
			[]byte("---\ndate: 2024-01-05\n---\nbody\n"), 0o644))
		other := filepath.Join(dir, "notes", "other.md")
		require.NoError(t, os.WriteFile(other,
			[]byte("---\ndate: 2024-01-06\nslug: hello\n---\nbody\n"), 0o644))

		_, err := NewFileStore(dir).Fetch(ctx, Notes)
		assert.ErrorIs(t, err, ErrDuplicateSlug)
		assert.ErrorContains(t, err, other)
	})
}

func TestTitleFromSlug(t *testing.T) {
	tests := map[string]string{
		"hello-world":     "Hello World",
		"snake_case_slug": "Snake Case Slug",
		"single":          "Single",
	}
	for in, want := range tests {
		assert.Equal(t, want, titleFromSlug(in), in)
	}
}

func TestFirstParagraph(t *testing.T) {
	assert.Equal(t, "one two", firstParagraph("<h1>Title</h1><p>one\n  <a href=\"#\">two</a></p><p>three</p>"))
	assert.Equal(t, "", firstParagraph("<h1>No paragraphs</h1>"))
}
