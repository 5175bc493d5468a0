// Package markdown converts the inner markup of table cells and list items
// into inline Markdown.
//
// Fragments are parsed with golang.org/x/net/html into the Node sum type and
// rendered through a fixed tag → rule table. Tags without a rule are
// transparent: their children are rendered and the tag is dropped.
package markdown

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tesh254/tabdown/internal/dom"
)

// LineBreak is emitted for br and around paragraphs. The trailing double space
// keeps the break in renderers that ignore inline HTML.
const LineBreak = "<br>  "

// rule renders an element given the already rendered content of its children.
type rule func(c *Converter, el *Element, inner string) string

func wrap(open, close string) rule {
	return func(_ *Converter, _ *Element, inner string) string {
		return open + inner + close
	}
}

func transparent(_ *Converter, _ *Element, inner string) string {
	return inner
}

var rules = map[string]rule{
	"br": func(_ *Converter, _ *Element, _ string) string {
		return LineBreak
	},
	"p": func(_ *Converter, _ *Element, inner string) string {
		return LineBreak + "\n" + inner + LineBreak + "\n"
	},
	"b":      wrap("**", "**"),
	"strong": wrap("**", "**"),
	"i":      wrap("*", "*"),
	"em":     wrap("*", "*"),
	"u":      wrap("<u>", "</u>"),
	"s":      wrap("~~", "~~"),
	"strike": wrap("~~", "~~"),
	"del":    wrap("~~", "~~"),
	"a": func(c *Converter, el *Element, inner string) string {
		return "[" + inner + "](" + c.resolveAttr(el, "href") + ")"
	},
	"img": func(c *Converter, el *Element, _ string) string {
		alt, _ := el.Attr("alt")
		if alt == "" {
			alt = "Image"
		}
		return "![" + alt + "](" + c.resolveAttr(el, "src") + ")"
	},
	"span": transparent,
}

// Converter renders fragments in the context of a host document, which
// supplies the base URL for links and images and the body fragments are
// attached to while they are converted.
type Converter struct {
	doc *dom.Document
}

// NewConverter returns a converter bound to doc. doc may be nil, in which case
// fragments are converted detached and URLs are left as written.
func NewConverter(doc *dom.Document) *Converter {
	return &Converter{doc: doc}
}

// Convert is a shortcut for converting a fragment without a host document.
func Convert(fragment string) string {
	return NewConverter(nil).Convert(fragment)
}

// Convert renders an HTML fragment as Markdown. It never fails: the parser
// accepts any input.
func (c *Converter) Convert(fragment string) string {
	host, release := c.materialize(fragment)
	defer release()

	return c.Render(Build(host))
}

// Render converts an already built fragment tree.
func (c *Converter) Render(n Node) string {
	switch n := n.(type) {
	case *Text:
		return n.Content
	case *Element:
		var inner strings.Builder
		for _, child := range n.Children {
			inner.WriteString(c.Render(child))
		}
		if r, ok := rules[strings.ToLower(n.Tag)]; ok {
			return r(c, n, inner.String())
		}
		return inner.String()
	}
	return ""
}

// Decorate renders a fragment with the style-based decorator instead of the
// tag rules: every top-level element is replaced by its styled text content.
func (c *Converter) Decorate(fragment string) string {
	host, release := c.materialize(fragment)
	defer release()

	var b strings.Builder
	for n := host.FirstChild; n != nil; n = n.NextSibling {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
		case html.ElementNode:
			b.WriteString(StyleText(n))
		}
	}
	return b.String()
}

// materialize parses fragment into a detached div and attaches it to the host
// document until release is called.
func (c *Converter) materialize(fragment string) (*html.Node, func()) {
	host := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}

	nodes, err := html.ParseFragment(strings.NewReader(fragment), host)
	if err != nil {
		// only reachable through a failing reader; keep the input as text
		nodes = []*html.Node{{Type: html.TextNode, Data: fragment}}
	}
	for _, n := range nodes {
		host.AppendChild(n)
	}

	if c.doc == nil {
		return host, func() {}
	}
	return host, c.doc.Attach(host)
}

func (c *Converter) resolveAttr(el *Element, key string) string {
	v, ok := el.Attr(key)
	if !ok {
		return ""
	}
	if c.doc == nil {
		return strings.TrimSpace(v)
	}
	return c.doc.Resolve(v)
}
