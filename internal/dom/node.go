package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Tag returns the lower-cased tag name of an element, or "" for other nodes.
func Tag(n *html.Node) string {
	if n == nil || n.Type != html.ElementNode {
		return ""
	}
	return strings.ToLower(n.Data)
}

// Attr returns the value of an attribute, or "" when it is missing.
func Attr(n *html.Node, key string) string {
	v, _ := AttrOK(n, key)
	return v
}

// AttrOK returns the value of an attribute and whether it is present.
func AttrOK(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

// Walk visits n and its descendants in document order. Returning false from
// fn stops the walk.
func Walk(n *html.Node, fn func(*html.Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !Walk(c, fn) {
			return false
		}
	}
	return true
}

// ElementsByTag returns the descendants of n (excluding n) whose tag is one of
// tags, in document order, like getElementsByTagName.
func ElementsByTag(n *html.Node, tags ...string) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		Walk(c, func(m *html.Node) bool {
			t := Tag(m)
			for _, want := range tags {
				if t == want {
					out = append(out, m)
					break
				}
			}
			return true
		})
	}
	return out
}

// ChildElements returns the element children of n whose tag is one of tags.
func ChildElements(n *html.Node, tags ...string) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		t := Tag(c)
		for _, want := range tags {
			if t == want {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// PreviousElementSibling returns the nearest preceding sibling that is an element.
func PreviousElementSibling(n *html.Node) *html.Node {
	for p := n.PrevSibling; p != nil; p = p.PrevSibling {
		if p.Type == html.ElementNode {
			return p
		}
	}
	return nil
}

// TextContent concatenates the data of every descendant text node.
func TextContent(n *html.Node) string {
	var b strings.Builder
	Walk(n, func(m *html.Node) bool {
		if m.Type == html.TextNode {
			b.WriteString(m.Data)
		}
		return true
	})
	return b.String()
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ", "\f", " ")

// InnerText approximates the rendered text of an element: whitespace runs
// collapse to one space, br becomes a newline and script/style content is
// dropped.
func InnerText(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(m *html.Node) {
		switch m.Type {
		case html.TextNode:
			b.WriteString(lineBreaks.Replace(m.Data))
			return
		case html.ElementNode:
			switch m.DataAtom {
			case atom.Script, atom.Style, atom.Template, atom.Noscript:
				return
			case atom.Br:
				b.WriteString("\n")
				return
			}
		}
		for c := m.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)

	lines := strings.Split(b.String(), "\n")
	for i, line := range lines {
		lines[i] = collapseSpace(line)
	}
	return strings.Trim(strings.Join(lines, "\n"), asciiSpace)
}
