package extract

import (
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/tesh254/tabdown/internal/dom"
)

// Located is an element together with the document that owns it.
type Located struct {
	Node *html.Node
	Doc  *dom.Document
	// Frame is the index in the page's Frames, -1 for the page itself
	Frame int
}

// FindTables returns every table of the page followed by the tables of each
// loaded frame, in frame order.
func FindTables(page *dom.Document) []Located {
	return find(page, "table")
}

// FindLists returns every ul, ol and dl of the page in document order,
// followed by those of each loaded frame.
func FindLists(page *dom.Document) []Located {
	return find(page, "ul, ol, dl")
}

func find(page *dom.Document, selector string) []Located {
	found := selectIn(page, selector, -1)
	// frames that failed to load are simply absent from page.Frames
	for i, frame := range page.Frames {
		found = append(found, selectIn(frame, selector, i)...)
	}
	return found
}

func selectIn(doc *dom.Document, selector string, frame int) []Located {
	sel := goquery.NewDocumentFromNode(doc.Root).Find(selector)
	found := make([]Located, 0, sel.Length())
	for _, n := range sel.Nodes {
		found = append(found, Located{Node: n, Doc: doc, Frame: frame})
	}
	return found
}

// TableRows returns the rows of a table in HTMLTableElement.rows order: thead
// rows, then rows of tbody elements and direct tr children in tree order,
// then tfoot rows. Rows of nested tables are not included.
func TableRows(table *html.Node) []*html.Node {
	var head, body, foot []*html.Node
	for c := table.FirstChild; c != nil; c = c.NextSibling {
		switch dom.Tag(c) {
		case "thead":
			head = append(head, dom.ChildElements(c, "tr")...)
		case "tbody":
			body = append(body, dom.ChildElements(c, "tr")...)
		case "tr":
			body = append(body, c)
		case "tfoot":
			foot = append(foot, dom.ChildElements(c, "tr")...)
		}
	}
	rows := append(head, body...)
	return append(rows, foot...)
}

// RowCells returns the td and th children of a row.
func RowCells(row *html.Node) []*html.Node {
	return dom.ChildElements(row, "td", "th")
}

// ListItems returns the item elements counted for a list: every descendant li
// of ul/ol, every descendant dt of dl.
func ListItems(list *html.Node, kind Kind) []*html.Node {
	if kind == DescriptionList {
		return dom.ElementsByTag(list, "dt")
	}
	return dom.ElementsByTag(list, "li")
}

// Size is the row count of a table or the item count of a list.
func Size(n *html.Node, kind Kind) int {
	if kind == Table {
		return len(TableRows(n))
	}
	return len(ListItems(n, kind))
}

// InferTitle walks the previous element siblings of n and returns the rendered
// text of the nearest h2 or h3, or fallback when there is none.
func InferTitle(n *html.Node, fallback string) string {
	for p := dom.PreviousElementSibling(n); p != nil; p = dom.PreviousElementSibling(p) {
		switch dom.Tag(p) {
		case "h2", "h3":
			return dom.InnerText(p)
		}
	}
	return fallback
}
