package markdown

import (
	"strings"

	"golang.org/x/net/html"
)

// Node is a converted fragment node: either *Text or *Element.
type Node interface {
	node()
}

// Text is a text node's content, entity-decoded.
type Text struct {
	Content string
}

// Element is a tag with its attributes and children.
type Element struct {
	Tag      string
	Attrs    map[string]string
	Children []Node
}

func (*Text) node()    {}
func (*Element) node() {}

// Attr returns an attribute value and whether it is present.
func (e *Element) Attr(key string) (string, bool) {
	v, ok := e.Attrs[key]
	return v, ok
}

// Build converts an x/net/html subtree into the fragment sum type. Comments,
// doctypes and other node kinds are dropped; the result is nil for them.
func Build(n *html.Node) Node {
	switch n.Type {
	case html.TextNode:
		return &Text{Content: n.Data}
	case html.ElementNode:
		el := &Element{
			Tag:   strings.ToLower(n.Data),
			Attrs: make(map[string]string, len(n.Attr)),
		}
		for _, a := range n.Attr {
			key := strings.ToLower(a.Key)
			if _, dup := el.Attrs[key]; !dup {
				el.Attrs[key] = a.Val
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if child := Build(c); child != nil {
				el.Children = append(el.Children, child)
			}
		}
		return el
	}
	return nil
}
