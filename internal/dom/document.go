// Package dom holds the parsed page tree that tables and lists are extracted from.
//
// A Document wraps a golang.org/x/net/html tree together with the URL it was
// loaded from, so that link and image targets can be resolved the way a
// browser resolves a.href and img.src. Frame sub-documents are loaded by the
// scraper and attached through Frames.
package dom

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a parsed HTML page.
type Document struct {
	// Root is the document node returned by html.Parse
	Root *html.Node
	// URL is the address the page was loaded from, nil for stdin or unknown sources
	URL *url.URL
	// Frames holds the sub-documents of the page's iframes that could be loaded,
	// in frame order
	Frames []*Document

	base *url.URL
	body *html.Node
}

// Parse reads an HTML page. pageURL may be empty when the source has no address.
func Parse(r io.Reader, pageURL string) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var u *url.URL
	if pageURL != "" {
		u, err = url.Parse(pageURL)
		if err != nil {
			return nil, fmt.Errorf("invalid page URL: %w", err)
		}
	}

	return New(root, u), nil
}

// New wraps an already parsed tree.
func New(root *html.Node, u *url.URL) *Document {
	d := &Document{Root: root, URL: u}
	d.body = findElement(root, atom.Body)
	if d.body == nil {
		// html.Parse always synthesizes a body; trees built by hand may not have one.
		d.body = &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
		root.AppendChild(d.body)
	}
	d.base = d.resolveBase()
	return d
}

// Body returns the body element.
func (d *Document) Body() *html.Node {
	return d.body
}

// Title returns the text of the first title element with whitespace collapsed,
// the same value a browser reports as document.title.
func (d *Document) Title() string {
	t := findElement(d.Root, atom.Title)
	if t == nil {
		return ""
	}
	return collapseSpace(TextContent(t))
}

// Description returns the content of the description meta tag.
func (d *Document) Description() string {
	var desc string
	Walk(d.Root, func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.DataAtom != atom.Meta {
			return true
		}
		if strings.EqualFold(Attr(n, "name"), "description") {
			desc = Attr(n, "content")
			return false
		}
		return true
	})
	return desc
}

// BaseURL returns the URL relative references are resolved against: the first
// base element's href resolved against the page URL, or the page URL itself.
func (d *Document) BaseURL() *url.URL {
	return d.base
}

func (d *Document) resolveBase() *url.URL {
	b := findElement(d.Root, atom.Base)
	if b == nil {
		return d.URL
	}
	href, ok := AttrOK(b, "href")
	if !ok {
		return d.URL
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return d.URL
	}
	if d.URL == nil {
		if ref.IsAbs() {
			return ref
		}
		return nil
	}
	return d.URL.ResolveReference(ref)
}

// Resolve resolves ref against the base URL. Without a base, or when ref
// cannot be parsed, ref is returned unchanged.
func (d *Document) Resolve(ref string) string {
	ref = strings.TrimSpace(ref)
	if d == nil || d.base == nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return d.base.ResolveReference(u).String()
}

// Attach appends a detached node to the body for as long as the caller needs
// it to be part of the live tree. The returned release func detaches it again
// and is safe to call more than once.
func (d *Document) Attach(n *html.Node) (release func()) {
	d.body.AppendChild(n)
	return func() {
		if n.Parent == d.body {
			d.body.RemoveChild(n)
		}
	}
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

// asciiSpace is the HTML definition of whitespace. U+00A0 is not part of it.
const asciiSpace = " \t\n\f\r"

func isASCIISpace(r rune) bool {
	return strings.ContainsRune(asciiSpace, r)
}

func collapseSpace(s string) string {
	return strings.Join(strings.FieldsFunc(s, isASCIISpace), " ")
}
