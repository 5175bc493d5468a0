package markdown

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// Shape summarizes how a GFM renderer reads a produced document.
type Shape struct {
	Tables    int
	Rows      int
	Columns   int
	ListItems int
	Headings  int
}

var gfm = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Inspect parses md as GitHub Flavored Markdown and counts its blocks. Rows
// include the header row; Columns is the widest table seen.
func Inspect(md string) Shape {
	var s Shape
	src := []byte(md)
	doc := gfm.Parser().Parse(text.NewReader(src))

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case extast.KindTable:
			s.Tables++
			if t, ok := n.(*extast.Table); ok && len(t.Alignments) > s.Columns {
				s.Columns = len(t.Alignments)
			}
		case extast.KindTableHeader, extast.KindTableRow:
			s.Rows++
		case ast.KindListItem:
			s.ListItems++
		case ast.KindHeading:
			s.Headings++
		}
		return ast.WalkContinue, nil
	})
	return s
}
