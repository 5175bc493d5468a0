package extract

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/tesh254/tabdown/internal/dom"
)

// Kind classifies a candidate element.
type Kind int

const (
	Table Kind = iota
	UnorderedList
	OrderedList
	DescriptionList
)

const (
	// MinTableRows is the smallest table worth a trigger.
	MinTableRows = 3
	// MinListItems is the smallest list worth a trigger, counted in li or dt elements.
	MinListItems = 2
)

func (k Kind) String() string {
	switch k {
	case Table:
		return "table"
	case UnorderedList:
		return "ul"
	case OrderedList:
		return "ol"
	case DescriptionList:
		return "dl"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsList reports whether k is one of the list kinds.
func (k Kind) IsList() bool {
	return k == UnorderedList || k == OrderedList || k == DescriptionList
}

// DefaultTitle is used when no heading precedes the element.
func (k Kind) DefaultTitle() string {
	if k.IsList() {
		return "list"
	}
	return "table"
}

// Label is the caption of the trigger control.
func (k Kind) Label() string {
	if k.IsList() {
		return "Download List as Markdown"
	}
	return "Download Table as Markdown"
}

// Minimum is the row or item count below which the element is ignored.
func (k Kind) Minimum() int {
	if k.IsList() {
		return MinListItems
	}
	return MinTableRows
}

// KindOf classifies an element by its tag.
func KindOf(n *html.Node) (Kind, bool) {
	switch dom.Tag(n) {
	case "table":
		return Table, true
	case "ul":
		return UnorderedList, true
	case "ol":
		return OrderedList, true
	case "dl":
		return DescriptionList, true
	}
	return 0, false
}
