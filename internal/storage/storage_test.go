package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tesh254/tabdown/internal/deliver"
)

func openArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := Open(filepath.Join(t.TempDir(), "data", "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestArchive_SaveGetList(t *testing.T) {
	a := openArchive(t)
	ctx := context.Background()

	first, err := a.Save(ctx, "https://example.com", "1. a\n", "list - Example.md", deliver.MIMEMarkdown)
	require.NoError(t, err)
	second, err := a.Save(ctx, "https://example.com", "a|b\n---|---\n", "table - Example.md", deliver.MIMEMarkdown)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, first.Checksum, 64)

	got, err := a.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Content, got.Content)
	assert.Equal(t, first.Checksum, got.Checksum)
	assert.True(t, first.CreatedAt.Equal(got.CreatedAt))

	entries, err := a.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, second.ID, entries[0].ID)

	entries, err = a.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestArchive_ForDelivers(t *testing.T) {
	a := openArchive(t)
	ctx := context.Background()

	d := a.For(ctx, "page.html")
	require.NoError(t, d.Deliver("x|y\n", "t - p.md", deliver.MIMEMarkdown))

	entries, err := a.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "page.html", entries[0].Source)
	assert.Equal(t, "t - p.md", entries[0].Filename)
}

func TestArchive_DeleteAndClean(t *testing.T) {
	a := openArchive(t)
	ctx := context.Background()

	e, err := a.Save(ctx, "s", "c", "f.md", deliver.MIMEMarkdown)
	require.NoError(t, err)
	_, err = a.Save(ctx, "s", "c", "g.md", deliver.MIMEMarkdown)
	require.NoError(t, err)

	require.NoError(t, a.Delete(ctx, e.ID))
	assert.ErrorIs(t, a.Delete(ctx, e.ID), ErrNotFound)

	_, err = a.Get(ctx, e.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := a.Clean(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	entries, err := a.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestArchive_Sources(t *testing.T) {
	a := openArchive(t)
	ctx := context.Background()

	for _, src := range []string{"b.html", "a.html", "b.html"} {
		_, err := a.Save(ctx, src, "c", "f.md", deliver.MIMEMarkdown)
		require.NoError(t, err)
	}

	sources, err := a.Sources(ctx)
	require.NoError(t, err)
	assert.Equal(t, []SourceCount{{Source: "b.html", Count: 2}, {Source: "a.html", Count: 1}}, sources)
}
