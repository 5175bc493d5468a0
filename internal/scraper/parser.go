package scraper

import (
	"fmt"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"github.com/tesh254/tabdown/internal/dom"
)

// Parser converts a whole page to Markdown. Unlike the table and list export
// it keeps headings, code blocks and GFM tables.
type Parser struct {
	conv *converter.Converter
}

// NewParser creates a Parser with the commonmark and table plugins.
func NewParser() *Parser {
	return &Parser{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// ToMarkdown converts the main content of doc. Relative links are made
// absolute against the page URL.
func (p *Parser) ToMarkdown(doc *dom.Document) (string, error) {
	var opts []converter.ConvertOptionFunc
	if u := doc.BaseURL(); u != nil {
		opts = append(opts, converter.WithDomain(u.String()))
	}

	out, err := p.conv.ConvertNode(MainContent(doc), opts...)
	if err != nil {
		return "", fmt.Errorf("failed to convert page: %w", err)
	}
	return string(out), nil
}
