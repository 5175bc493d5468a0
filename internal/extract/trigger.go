package extract

import (
	"errors"
	"fmt"

	"golang.org/x/net/html"

	"github.com/tesh254/tabdown/internal/deliver"
	"github.com/tesh254/tabdown/internal/dom"
	"github.com/tesh254/tabdown/internal/markdown"
	"github.com/tesh254/tabdown/internal/report"
)

// Candidate is a table or list that passed the size and emptiness checks.
type Candidate struct {
	Kind Kind
	Node *html.Node
	// Doc owns Node: the page or one of its frames
	Doc *dom.Document
	// Frame is the index in the page's Frames, -1 for the page itself
	Frame int
}

// Title returns the text of the nearest preceding h2/h3 sibling, or the
// kind's default title.
func (c *Candidate) Title() string {
	return InferTitle(c.Node, c.Kind.DefaultTitle())
}

// Size is the current row or item count.
func (c *Candidate) Size() int {
	return Size(c.Node, c.Kind)
}

// Download is a finished Markdown document ready for delivery.
type Download struct {
	Content  string
	Filename string
	MIME     string
}

// Error describes a failed activation.
type Error struct {
	Index int
	Kind  Kind
	Frame int
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("extracting %s #%d: %v", e.Kind, e.Index, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Fields reports the candidate the failure belongs to.
func (e *Error) Fields() map[string]any {
	return map[string]any{
		"index": e.Index,
		"kind":  e.Kind.String(),
		"frame": e.Frame,
	}
}

// Trigger is the activation entry point bound to one candidate.
type Trigger struct {
	Index     int
	Label     string
	Candidate *Candidate

	page *dom.Document
	conv *markdown.Converter
}

// Activate converts the candidate as the document stands now. Nothing is
// cached: every call walks the tree again. ErrBelowMinimum is returned
// unwrapped when the element has shrunk since the scan.
func (t *Trigger) Activate() (Download, error) {
	dl, err := t.activate()
	if err != nil && !errors.Is(err, ErrBelowMinimum) {
		return Download{}, &Error{Index: t.Index, Kind: t.Candidate.Kind, Frame: t.Candidate.Frame, Err: err}
	}
	return dl, err
}

func (t *Trigger) activate() (dl Download, err error) {
	defer report.Recover(&err)

	c := t.Candidate
	var content string
	if c.Kind == Table {
		content, err = TableMarkdown(t.conv, c.Node)
	} else {
		content, err = ListMarkdown(t.conv, c.Node, c.Kind)
	}
	if err != nil {
		return Download{}, err
	}

	return Download{
		Content:  content,
		Filename: Filename(c.Title(), t.page.Title()),
		MIME:     deliver.MIMEMarkdown,
	}, nil
}

// Fire activates the trigger and hands the result to d. Below-minimum
// elements are skipped silently and reported as delivered=false.
func (t *Trigger) Fire(d deliver.Deliverer) (dl Download, delivered bool, err error) {
	dl, err = t.Activate()
	if errors.Is(err, ErrBelowMinimum) {
		return Download{}, false, nil
	}
	if err != nil {
		return Download{}, false, err
	}
	if derr := d.Deliver(dl.Content, dl.Filename, dl.MIME); derr != nil {
		return dl, false, &Error{Index: t.Index, Kind: t.Candidate.Kind, Frame: t.Candidate.Frame, Err: derr}
	}
	return dl, true, nil
}
