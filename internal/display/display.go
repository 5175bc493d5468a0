// Package display renders command output for the terminal.
package display

import (
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/tesh254/tabdown/internal/api"
	"github.com/tesh254/tabdown/internal/scraper"
	"github.com/tesh254/tabdown/internal/storage"
)

const rule = "=============================================================================="

// Banner prints the source and fetch settings before a scan.
func Banner(w io.Writer, source string, cfg *scraper.Config) {
	green := color.New(color.FgGreen).SprintFunc()
	banner := rule + "\n"
	banner += green("       📋 tabdown 📋\n")
	banner += rule + "\n"
	banner += fmt.Sprintf("Source: %s\n", source)
	if scraper.IsRemote(source) {
		banner += "Configuration:\n"
		banner += fmt.Sprintf("  - Timeout: %s\n", cfg.Timeout)
		banner += fmt.Sprintf("  - Request Delay: %s\n", cfg.RequestDelay)
		banner += fmt.Sprintf("  - Frames: %t\n", cfg.Frames)
	}
	banner += rule
	fmt.Fprintln(w, banner)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

// frameLabel names where a candidate lives.
func frameLabel(frame int) string {
	if frame < 0 {
		return "page"
	}
	return "frame " + strconv.Itoa(frame)
}

// Candidates prints the page metadata and one row per candidate.
func Candidates(w io.Writer, res *api.ScanResult) {
	if len(res.Candidates) == 0 {
		fmt.Fprintln(w, color.YellowString("No tables or lists found."))
		return
	}

	t := newTable(w)
	t.SetTitle("%s (%d frames)", res.Title, res.Frames)
	t.AppendHeader(table.Row{"#", "Kind", "Title", "Size", "Where"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, Align: text.AlignLeft},
		{Number: 3, Align: text.AlignLeft, WidthMax: 50},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignLeft},
	})
	for _, c := range res.Candidates {
		t.AppendRow(table.Row{c.Index, c.Kind, c.Title, c.Size, frameLabel(c.Frame)})
	}
	t.Render()
}

// Exports prints the outcome of every activated candidate.
func Exports(w io.Writer, exports []api.Export) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	t := newTable(w)
	t.AppendHeader(table.Row{"#", "File", "Shape", "Status"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignLeft, WidthMax: 60},
	})
	for _, e := range exports {
		var status, shape string
		switch {
		case e.Err != nil:
			status = red("failed")
		case !e.Delivered:
			status = yellow("skipped")
		default:
			status = green("✔ saved")
			if e.Shape.Tables > 0 {
				shape = fmt.Sprintf("%d rows × %d cols", e.Shape.Rows, e.Shape.Columns)
			} else {
				shape = fmt.Sprintf("%d items", e.Shape.ListItems)
			}
		}
		t.AppendRow(table.Row{e.Index, e.Download.Filename, shape, status})
	}
	t.Render()
}

// History prints archived exports.
func History(w io.Writer, entries []*storage.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No exports found.")
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "File", "Source", "Size", "Exported"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignLeft, WidthMax: 40},
		{Number: 3, Align: text.AlignLeft, WidthMax: 40},
		{Number: 4, Align: text.AlignRight},
	})
	for _, e := range entries {
		t.AppendRow(table.Row{e.ID, e.Filename, e.Source, len(e.Content), e.CreatedAt.Local().Format(time.DateTime)})
	}
	t.Render()
}

// Sources prints how many exports each source has in the archive.
func Sources(w io.Writer, sources []storage.SourceCount) {
	if len(sources) == 0 {
		fmt.Fprintln(w, "No sources found in the archive.")
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Source", "Exports"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, WidthMax: 80},
		{Number: 2, Align: text.AlignRight},
	})
	for _, s := range sources {
		t.AppendRow(table.Row{s.Source, s.Count})
	}
	t.Render()
}

// Spinner animates message on w until the returned stop func is called. stop
// waits for the final line to be written.
func Spinner(w io.Writer, message string) (stop func()) {
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		spinner := `|/-\`
		i := 0
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				fmt.Fprintf(w, "\r%s... [%s]", color.YellowString("%s", message), string(spinner[i]))
				i = (i + 1) % len(spinner)
			case <-done:
				fmt.Fprintf(w, "\r%s... [%s]\n", color.GreenString("%s", message), "✔")
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
		wg.Wait()
	}
}
