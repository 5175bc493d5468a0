package markdown

import (
	"strconv"
	"strings"

	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"

	"github.com/tesh254/tabdown/internal/dom"
)

// Style is the subset of an element's computed style the decorator reads.
type Style struct {
	// FontWeight is numeric: "400" for normal, "700" for bold
	FontWeight string
	// FontStyle is "normal", "italic" or "oblique"
	FontStyle string
	// TextDecorationLine is "none" or a space separated list of lines
	TextDecorationLine string
}

// user agent defaults for the tags the decorator cares about
var tagDefaults = map[string]map[string]string{
	"b":       {"font-weight": "bold"},
	"strong":  {"font-weight": "bold"},
	"th":      {"font-weight": "bold"},
	"h1":      {"font-weight": "bold"},
	"h2":      {"font-weight": "bold"},
	"h3":      {"font-weight": "bold"},
	"h4":      {"font-weight": "bold"},
	"h5":      {"font-weight": "bold"},
	"h6":      {"font-weight": "bold"},
	"i":       {"font-style": "italic"},
	"em":      {"font-style": "italic"},
	"cite":    {"font-style": "italic"},
	"var":     {"font-style": "italic"},
	"dfn":     {"font-style": "italic"},
	"address": {"font-style": "italic"},
	"s":       {"text-decoration-line": "line-through"},
	"strike":  {"text-decoration-line": "line-through"},
	"del":     {"text-decoration-line": "line-through"},
	"u":       {"text-decoration-line": "underline"},
	"ins":     {"text-decoration-line": "underline"},
}

// declarations merges an element's tag defaults with its inline style.
func declarations(n *html.Node) map[string]string {
	decl := make(map[string]string)
	for k, v := range tagDefaults[dom.Tag(n)] {
		decl[k] = v
	}

	style, ok := dom.AttrOK(n, "style")
	if !ok || strings.TrimSpace(style) == "" {
		return decl
	}
	parsed, err := parser.ParseDeclarations(style)
	if err != nil {
		return decl
	}
	for _, d := range parsed {
		decl[strings.ToLower(strings.TrimSpace(d.Property))] = strings.ToLower(strings.TrimSpace(d.Value))
	}
	return decl
}

// ComputedStyle resolves the style of n from tag defaults and inline style
// attributes. font-weight and font-style inherit from ancestors, so the result
// depends on where n is attached; text-decoration-line does not inherit.
func ComputedStyle(n *html.Node) Style {
	s := Style{FontWeight: "400", FontStyle: "normal", TextDecorationLine: "none"}

	own := declarations(n)
	if v, ok := own["text-decoration-line"]; ok {
		s.TextDecorationLine = v
	} else if v, ok := own["text-decoration"]; ok {
		s.TextDecorationLine = decorationLines(v)
	}

	weightSet, styleSet := false, false
	for m := n; m != nil && !(weightSet && styleSet); m = m.Parent {
		if m.Type != html.ElementNode {
			continue
		}
		d := own
		if m != n {
			d = declarations(m)
		}
		if v, ok := d["font-weight"]; ok && !weightSet && v != "inherit" {
			s.FontWeight = normalizeWeight(v)
			weightSet = true
		}
		if v, ok := d["font-style"]; ok && !styleSet && v != "inherit" {
			s.FontStyle = v
			styleSet = true
		}
	}
	return s
}

func normalizeWeight(v string) string {
	switch v {
	case "normal":
		return "400"
	case "bold", "bolder":
		return "700"
	case "lighter":
		return "100"
	}
	return v
}

func decorationLines(shorthand string) string {
	var lines []string
	for _, tok := range strings.Fields(shorthand) {
		switch tok {
		case "underline", "overline", "line-through":
			lines = append(lines, tok)
		}
	}
	if len(lines) == 0 {
		return "none"
	}
	return strings.Join(lines, " ")
}

// IsBold reports a weight of at least 700.
func (s Style) IsBold() bool {
	if s.FontWeight == "bold" {
		return true
	}
	w, err := strconv.Atoi(s.FontWeight)
	return err == nil && w >= 700
}

// StyleText wraps the text content of n in Markdown according to its computed
// style: bold, then italic, then strikethrough, then underline.
func StyleText(n *html.Node) string {
	s := ComputedStyle(n)
	text := dom.TextContent(n)

	if s.IsBold() {
		text = "**" + text + "**"
	}
	if s.FontStyle == "italic" {
		text = "*" + text + "*"
	}
	if strings.Contains(s.TextDecorationLine, "line-through") {
		text = "~~" + text + "~~"
	}
	// Markdown has no underline
	if strings.Contains(s.TextDecorationLine, "underline") {
		text = "<u>" + text + "</u>"
	}
	return text
}
