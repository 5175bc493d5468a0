// Package extract finds tables and lists in a page and turns each into a
// Markdown document on demand.
//
// Scan runs once per loaded page and returns one Trigger per candidate:
// tables first, then lists, each group in document order with frame contents
// after the page's own. Activating a trigger re-reads the tree, converts every
// cell or item through markdown.Converter and names the file after the
// nearest preceding h2/h3 and the page title.
package extract

import (
	"time"

	"github.com/tesh254/tabdown/internal/dom"
	"github.com/tesh254/tabdown/internal/logger"
	"github.com/tesh254/tabdown/internal/markdown"
	"github.com/tesh254/tabdown/internal/report"
)

// Scan returns a trigger for every table with at least MinTableRows rows and
// every list with at least MinListItems items that is not empty. If something
// fails part way, the triggers built so far are returned with the error.
func Scan(page *dom.Document, log *logger.Logger) (triggers []*Trigger, err error) {
	defer report.Recover(&err)

	if log == nil {
		log = logger.Discard()
	}
	start := time.Now()

	converters := make(map[*dom.Document]*markdown.Converter)
	converterFor := func(doc *dom.Document) *markdown.Converter {
		conv, ok := converters[doc]
		if !ok {
			conv = markdown.NewConverter(doc)
			converters[doc] = conv
		}
		return conv
	}

	tables := FindTables(page)
	lists := FindLists(page)

	for _, loc := range append(tables, lists...) {
		kind, ok := KindOf(loc.Node)
		if !ok {
			continue
		}
		if IsEmpty(loc.Node) {
			log.CandidateSkipped(kind.String(), "empty")
			continue
		}
		if Size(loc.Node, kind) < kind.Minimum() {
			log.CandidateSkipped(kind.String(), "too small")
			continue
		}

		triggers = append(triggers, &Trigger{
			Index:     len(triggers),
			Label:     kind.Label(),
			Candidate: &Candidate{Kind: kind, Node: loc.Node, Doc: loc.Doc, Frame: loc.Frame},
			page:      page,
			conv:      converterFor(loc.Doc),
		})
	}

	log.ScanCompleted(len(tables), len(lists), len(triggers), time.Since(start))
	return triggers, nil
}
