// Package api ties loading, extraction, delivery and the archive together for
// the CLI and the MCP server.
package api

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/tesh254/tabdown/internal/deliver"
	"github.com/tesh254/tabdown/internal/extract"
	"github.com/tesh254/tabdown/internal/logger"
	"github.com/tesh254/tabdown/internal/markdown"
	"github.com/tesh254/tabdown/internal/scraper"
	"github.com/tesh254/tabdown/internal/storage"
)

var (
	// ErrNoCandidate is returned for an index that does not name a candidate.
	ErrNoCandidate = errors.New("no such candidate")
	// ErrNoArchive is returned by archive operations when archiving is disabled.
	ErrNoArchive = errors.New("archive is disabled")
)

// API provides methods to scan pages and export their tables and lists.
type API struct {
	scraper *scraper.Scraper
	parser  *scraper.Parser
	archive *storage.Archive
	log     *logger.Logger
}

// NewAPI creates a new API instance. archive may be nil.
func NewAPI(s *scraper.Scraper, archive *storage.Archive, log *logger.Logger) *API {
	if log == nil {
		log = logger.Discard()
	}
	return &API{
		scraper: s,
		parser:  scraper.NewParser(),
		archive: archive,
		log:     log,
	}
}

// Candidate describes one exportable table or list.
type Candidate struct {
	Index int    `json:"index"`
	Kind  string `json:"kind"`
	Title string `json:"title"`
	Size  int    `json:"size"`
	Frame int    `json:"frame"`
	Label string `json:"label"`
}

// ScanResult is the outcome of scanning a source.
type ScanResult struct {
	Source     string      `json:"source"`
	Title      string      `json:"title"`
	Frames     int         `json:"frames"`
	Candidates []Candidate `json:"candidates"`

	triggers []*extract.Trigger
}

// Trigger returns the trigger for a candidate index.
func (r *ScanResult) Trigger(index int) (*extract.Trigger, error) {
	if index < 0 || index >= len(r.triggers) {
		return nil, errors.Wrapf(ErrNoCandidate, "index %d of %d", index, len(r.triggers))
	}
	return r.triggers[index], nil
}

// Scan loads source and lists its candidates. When the scan fails part way,
// the candidates found so far are returned with the error.
func (a *API) Scan(ctx context.Context, source string) (*ScanResult, error) {
	doc, err := a.scraper.Load(ctx, source)
	if err != nil {
		return nil, err
	}

	triggers, err := extract.Scan(doc, a.log)
	res := &ScanResult{
		Source:     source,
		Title:      doc.Title(),
		Frames:     len(doc.Frames),
		Candidates: make([]Candidate, 0, len(triggers)),
		triggers:   triggers,
	}
	for _, t := range triggers {
		c := t.Candidate
		res.Candidates = append(res.Candidates, Candidate{
			Index: t.Index,
			Kind:  c.Kind.String(),
			Title: c.Title(),
			Size:  c.Size(),
			Frame: c.Frame,
			Label: t.Label,
		})
	}
	return res, err
}

// Export is the outcome of activating one candidate.
type Export struct {
	Index     int              `json:"index"`
	Download  extract.Download `json:"download"`
	Delivered bool             `json:"delivered"`
	Shape     markdown.Shape   `json:"shape"`
	Err       error            `json:"-"`
}

// Export activates the candidates at indexes, or all of them when indexes is
// empty, and delivers each result to d and the archive. Every candidate is
// attempted; failures are reported in Export.Err.
func (a *API) Export(ctx context.Context, res *ScanResult, indexes []int, d deliver.Deliverer) []Export {
	if len(indexes) == 0 {
		for i := range res.triggers {
			indexes = append(indexes, i)
		}
	}

	target := a.deliverer(ctx, res.Source, d)
	exports := make([]Export, 0, len(indexes))
	for _, i := range indexes {
		e := Export{Index: i}
		t, err := res.Trigger(i)
		if err != nil {
			e.Err = err
			exports = append(exports, e)
			continue
		}

		e.Download, e.Delivered, e.Err = t.Fire(target)
		if e.Delivered {
			e.Shape = markdown.Inspect(e.Download.Content)
			a.log.Delivered(e.Download.Filename, len(e.Download.Content))
		} else if e.Err == nil {
			a.log.CandidateSkipped(t.Candidate.Kind.String(), "below minimum at activation")
		}
		exports = append(exports, e)
	}
	return exports
}

// Extract activates a single candidate of source and archives the result.
func (a *API) Extract(ctx context.Context, source string, index int) (*Export, error) {
	res, err := a.Scan(ctx, source)
	if err != nil && res == nil {
		return nil, err
	}
	if _, terr := res.Trigger(index); terr != nil {
		if err != nil {
			return nil, err
		}
		return nil, terr
	}

	e := a.Export(ctx, res, []int{index}, nil)[0]
	if e.Err != nil {
		return nil, e.Err
	}
	if !e.Delivered {
		return nil, fmt.Errorf("candidate %d: %w", index, extract.ErrBelowMinimum)
	}
	return &e, nil
}

// deliverer sends to d, then records in the archive. An archive failure is
// logged and does not fail a document d already received.
func (a *API) deliverer(ctx context.Context, source string, d deliver.Deliverer) deliver.Deliverer {
	var m deliver.Multi
	if d != nil {
		m = append(m, d)
	}
	if a.archive != nil {
		archive := a.archive.For(ctx, source)
		m = append(m, deliver.Func(func(content, filename, mime string) error {
			if err := archive.Deliver(content, filename, mime); err != nil {
				a.log.ArchiveFailed(filename, err)
			}
			return nil
		}))
	}
	return m
}

// Page converts the main content of source to Markdown.
func (a *API) Page(ctx context.Context, source string) (string, error) {
	doc, err := a.scraper.Load(ctx, source)
	if err != nil {
		return "", err
	}
	return a.parser.ToMarkdown(doc)
}

// History lists archived exports, newest first.
func (a *API) History(ctx context.Context, limit int) ([]*storage.Entry, error) {
	if a.archive == nil {
		return nil, ErrNoArchive
	}
	return a.archive.List(ctx, limit)
}

// Entry retrieves one archived export.
func (a *API) Entry(ctx context.Context, id string) (*storage.Entry, error) {
	if a.archive == nil {
		return nil, ErrNoArchive
	}
	return a.archive.Get(ctx, id)
}

// Delete removes one archived export.
func (a *API) Delete(ctx context.Context, id string) error {
	if a.archive == nil {
		return ErrNoArchive
	}
	return a.archive.Delete(ctx, id)
}

// Clean removes every archived export.
func (a *API) Clean(ctx context.Context) (int64, error) {
	if a.archive == nil {
		return 0, ErrNoArchive
	}
	return a.archive.Clean(ctx)
}

// Sources lists archived sources with their export counts.
func (a *API) Sources(ctx context.Context) ([]storage.SourceCount, error) {
	if a.archive == nil {
		return nil, ErrNoArchive
	}
	return a.archive.Sources(ctx)
}
