package api

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tesh254/tabdown/internal/deliver"
	"github.com/tesh254/tabdown/internal/logger"
	"github.com/tesh254/tabdown/internal/scraper"
	"github.com/tesh254/tabdown/internal/storage"
)

const page = `<html><head><title>Price List</title></head><body>
<main>
<h2>Fruit</h2>
<table>
<tr><th>Name</th><th>Price</th></tr>
<tr><td>Apple</td><td>1</td></tr>
<tr><td>Pear</td><td>2</td></tr>
</table>
<h3>Notes</h3>
<ul><li>fresh</li><li><em>local</em></li></ul>
<ol><li>only</li></ol>
</main>
</body></html>`

func setup(t *testing.T, withArchive bool) (*API, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "prices.html")
	require.NoError(t, os.WriteFile(path, []byte(page), 0o644))

	var archive *storage.Archive
	if withArchive {
		var err error
		archive, err = storage.Open(filepath.Join(dir, "archive.db"))
		require.NoError(t, err)
		t.Cleanup(func() { archive.Close() })
	}
	return NewAPI(scraper.New(nil, nil), archive, nil), path
}

func TestScan(t *testing.T) {
	a, path := setup(t, false)

	res, err := a.Scan(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Price List", res.Title)
	require.Len(t, res.Candidates, 2)

	assert.Equal(t, Candidate{Index: 0, Kind: "table", Title: "Fruit", Size: 3, Frame: -1, Label: "Download Table as Markdown"}, res.Candidates[0])
	assert.Equal(t, Candidate{Index: 1, Kind: "ul", Title: "Notes", Size: 2, Frame: -1, Label: "Download List as Markdown"}, res.Candidates[1])

	_, err = res.Trigger(2)
	assert.ErrorIs(t, err, ErrNoCandidate)
}

func TestExport_AllToDirAndArchive(t *testing.T) {
	a, path := setup(t, true)
	ctx := context.Background()

	res, err := a.Scan(ctx, path)
	require.NoError(t, err)

	out := &deliver.Dir{Path: t.TempDir()}
	exports := a.Export(ctx, res, nil, out)
	require.Len(t, exports, 2)
	for _, e := range exports {
		require.NoError(t, e.Err)
		assert.True(t, e.Delivered)
	}

	assert.Equal(t, "Fruit - Price_List.md", exports[0].Download.Filename)
	assert.Equal(t, "Name|Price\n---|---\nApple|1\nPear|2\n", exports[0].Download.Content)
	assert.Equal(t, 1, exports[0].Shape.Tables)
	assert.Equal(t, 2, exports[0].Shape.Columns)
	assert.Equal(t, "1. fresh\n2. *local*\n", exports[1].Download.Content)
	assert.Equal(t, 2, exports[1].Shape.ListItems)

	assert.Len(t, out.Saved, 2)

	history, err := a.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, path, history[0].Source)
}

func TestExport_BadIndexDoesNotStopOthers(t *testing.T) {
	a, path := setup(t, false)
	ctx := context.Background()

	res, err := a.Scan(ctx, path)
	require.NoError(t, err)

	var names []string
	exports := a.Export(ctx, res, []int{5, 1}, deliver.Func(func(_, name, _ string) error {
		names = append(names, name)
		return nil
	}))
	require.Len(t, exports, 2)
	assert.ErrorIs(t, exports[0].Err, ErrNoCandidate)
	assert.NoError(t, exports[1].Err)
	assert.Equal(t, []string{"Notes - Price_List.md"}, names)
}

func TestExport_ArchiveFailureKeepsDelivery(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prices.html")
	require.NoError(t, os.WriteFile(path, []byte(page), 0o644))

	archive, err := storage.Open(filepath.Join(dir, "archive.db"))
	require.NoError(t, err)
	require.NoError(t, archive.Close())

	var logs bytes.Buffer
	a := NewAPI(scraper.New(nil, nil), archive, logger.New(&logs))
	ctx := context.Background()

	res, err := a.Scan(ctx, path)
	require.NoError(t, err)

	out := &deliver.Dir{Path: t.TempDir()}
	exports := a.Export(ctx, res, []int{0}, out)
	require.Len(t, exports, 1)
	assert.NoError(t, exports[0].Err)
	assert.True(t, exports[0].Delivered)
	assert.Len(t, out.Saved, 1)
	assert.Contains(t, logs.String(), "archive failed")
	assert.Contains(t, logs.String(), "Fruit - Price_List.md")
}

func TestExtract(t *testing.T) {
	a, path := setup(t, true)
	ctx := context.Background()

	e, err := a.Extract(ctx, path, 0)
	require.NoError(t, err)
	assert.Equal(t, "Fruit - Price_List.md", e.Download.Filename)

	_, err = a.Extract(ctx, path, 9)
	assert.ErrorIs(t, err, ErrNoCandidate)

	history, err := a.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)

	got, err := a.Entry(ctx, history[0].ID)
	require.NoError(t, err)
	assert.Equal(t, e.Download.Content, got.Content)

	require.NoError(t, a.Delete(ctx, got.ID))
	n, err := a.Clean(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestArchiveDisabled(t *testing.T) {
	a, _ := setup(t, false)
	ctx := context.Background()

	_, err := a.History(ctx, 0)
	assert.ErrorIs(t, err, ErrNoArchive)
	_, err = a.Clean(ctx)
	assert.ErrorIs(t, err, ErrNoArchive)
}

func TestPage(t *testing.T) {
	a, path := setup(t, false)

	md, err := a.Page(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, md, "## Fruit")
	assert.Contains(t, md, "| Name")
	assert.NotContains(t, md, "Price List")
}
