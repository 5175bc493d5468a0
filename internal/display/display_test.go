package display

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/tesh254/tabdown/internal/api"
	"github.com/tesh254/tabdown/internal/extract"
	"github.com/tesh254/tabdown/internal/markdown"
	"github.com/tesh254/tabdown/internal/scraper"
	"github.com/tesh254/tabdown/internal/storage"
)

func init() {
	color.NoColor = true
}

func TestCandidates(t *testing.T) {
	var buf bytes.Buffer
	Candidates(&buf, &api.ScanResult{
		Title:  "Shop",
		Frames: 1,
		Candidates: []api.Candidate{
			{Index: 0, Kind: "table", Title: "Prices", Size: 4, Frame: -1},
			{Index: 1, Kind: "dl", Title: "list", Size: 2, Frame: 0},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "Shop (1 frames)")
	assert.Contains(t, out, "Prices")
	assert.Contains(t, out, "frame 0")
	assert.Contains(t, out, "page")
}

func TestCandidates_Empty(t *testing.T) {
	var buf bytes.Buffer
	Candidates(&buf, &api.ScanResult{})
	assert.Equal(t, "No tables or lists found.\n", buf.String())
}

func TestExports(t *testing.T) {
	var buf bytes.Buffer
	Exports(&buf, []api.Export{
		{Index: 0, Delivered: true, Download: extract.Download{Filename: "Prices - Shop.md"}, Shape: markdown.Shape{Tables: 1, Rows: 4, Columns: 2}},
		{Index: 1, Delivered: true, Download: extract.Download{Filename: "list - Shop.md"}, Shape: markdown.Shape{ListItems: 3}},
		{Index: 2},
		{Index: 3, Err: errors.New("boom")},
	})

	out := buf.String()
	assert.Contains(t, out, "4 rows × 2 cols")
	assert.Contains(t, out, "3 items")
	assert.Contains(t, out, "skipped")
	assert.Contains(t, out, "failed")
}

func TestHistoryAndSources(t *testing.T) {
	var buf bytes.Buffer
	History(&buf, nil)
	Sources(&buf, nil)
	assert.Equal(t, "No exports found.\nNo sources found in the archive.\n", buf.String())

	buf.Reset()
	History(&buf, []*storage.Entry{{ID: "abc", Filename: "t - p.md", Source: "p.html", Content: "12345", CreatedAt: time.Now()}})
	Sources(&buf, []storage.SourceCount{{Source: "p.html", Count: 7}})
	out := buf.String()
	assert.Contains(t, out, "abc")
	assert.Contains(t, out, "t - p.md")
	assert.Contains(t, out, "7")
}

func TestBanner(t *testing.T) {
	var buf bytes.Buffer
	Banner(&buf, "https://example.com", scraper.DefaultConfig())
	assert.Contains(t, buf.String(), "Request Delay")

	buf.Reset()
	Banner(&buf, "page.html", scraper.DefaultConfig())
	assert.NotContains(t, buf.String(), "Request Delay")
}

func TestSpinner_StopWritesFinalLine(t *testing.T) {
	var buf bytes.Buffer
	stop := Spinner(&buf, "Loading")
	stop()
	stop()

	assert.True(t, strings.HasSuffix(buf.String(), "\rLoading... [✔]\n"))
}
