package extract

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/tesh254/tabdown/internal/dom"
	"github.com/tesh254/tabdown/internal/markdown"
)

// ErrBelowMinimum is returned when an element no longer has enough rows or
// items to be exported. Nothing should be delivered for it.
var ErrBelowMinimum = errors.New("element is below the minimum size")

// TableMarkdown renders a table as pipe-delimited rows with a --- separator
// line after the first row. The first row is always treated as the header.
func TableMarkdown(conv *markdown.Converter, table *html.Node) (string, error) {
	rows := TableRows(table)
	if len(rows) < MinTableRows {
		return "", ErrBelowMinimum
	}

	var b strings.Builder
	for i, row := range rows {
		cells := RowCells(row)
		parts := make([]string, len(cells))
		for j, cell := range cells {
			if IsEmpty(cell) {
				continue
			}
			parts[j] = conv.Convert(dom.InnerHTML(cell))
		}
		b.WriteString(strings.Join(parts, "|"))
		b.WriteString("\n")

		if i == 0 {
			sep := make([]string, len(cells))
			for j := range sep {
				sep[j] = "---"
			}
			b.WriteString(strings.Join(sep, "|"))
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

// ListMarkdown renders a ul or ol as a numbered list and a dl as bold terms
// each followed by its definition.
func ListMarkdown(conv *markdown.Converter, list *html.Node, kind Kind) (string, error) {
	items := ListItems(list, kind)
	if len(items) < MinListItems {
		return "", ErrBelowMinimum
	}

	var b strings.Builder
	switch kind {
	case UnorderedList, OrderedList:
		n := 1
		for _, li := range items {
			if IsEmpty(li) {
				continue
			}
			fmt.Fprintf(&b, "%d. %s\n", n, conv.Convert(dom.InnerHTML(li)))
			n++
		}
	case DescriptionList:
		// terms and definitions pair up by index
		defs := dom.ElementsByTag(list, "dd")
		for i, dt := range items {
			if IsEmpty(dt) {
				continue
			}
			fmt.Fprintf(&b, "**%s**\n", conv.Convert(dom.InnerHTML(dt)))
			if i < len(defs) && !IsEmpty(defs[i]) {
				fmt.Fprintf(&b, "%s\n", conv.Convert(dom.InnerHTML(defs[i])))
			}
		}
	default:
		return "", fmt.Errorf("%s is not a list", kind)
	}
	return b.String(), nil
}

// Filename builds "<title> - <pageTitle>.md" with spaces in both halves
// replaced by underscores.
func Filename(title, pageTitle string) string {
	return strings.ReplaceAll(title, " ", "_") + " - " + strings.ReplaceAll(pageTitle, " ", "_") + ".md"
}
