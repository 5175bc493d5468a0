package dom

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func mustParse(t *testing.T, src, pageURL string) *Document {
	t.Helper()
	doc, err := Parse(strings.NewReader(src), pageURL)
	require.NoError(t, err)
	return doc
}

func TestParse_TitleAndDescription(t *testing.T) {
	doc := mustParse(t, `<html><head>
		<title>  Quarterly
		Report </title>
		<meta name="Description" content="Numbers for Q1">
	</head><body></body></html>`, "")

	assert.Equal(t, "Quarterly Report", doc.Title())
	assert.Equal(t, "Numbers for Q1", doc.Description())
	assert.Nil(t, doc.URL)
}

func TestParse_TitleKeepsNonBreakingSpace(t *testing.T) {
	doc := mustParse(t, `<html><head><title>Price&nbsp;List  2024</title></head><body></body></html>`, "")

	assert.Equal(t, "Price\u00a0List 2024", doc.Title())
}

func TestParse_InvalidURL(t *testing.T) {
	_, err := Parse(strings.NewReader("<p>x</p>"), "http://[::1")
	require.Error(t, err)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		pageURL string
		ref     string
		want    string
	}{
		{"relative", `<p></p>`, "https://example.com/docs/page.html", "img/a.png", "https://example.com/docs/img/a.png"},
		{"absolute", `<p></p>`, "https://example.com/", "https://other.org/x", "https://other.org/x"},
		{"empty resolves to page", `<p></p>`, "https://example.com/a?b=1", "", "https://example.com/a?b=1"},
		{"base element", `<head><base href="/static/"></head>`, "https://example.com/docs/", "a.png", "https://example.com/static/a.png"},
		{"no page url", `<p></p>`, "", "img/a.png", "img/a.png"},
		{"absolute base without page url", `<head><base href="https://cdn.example.com/"></head>`, "", "a.png", "https://cdn.example.com/a.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, tt.src, tt.pageURL)
			assert.Equal(t, tt.want, doc.Resolve(tt.ref))
		})
	}
}

func TestAttach_ReleaseDetaches(t *testing.T) {
	doc := mustParse(t, `<body><p>one</p></body>`, "")
	n := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}

	release := doc.Attach(n)
	assert.Equal(t, doc.Body(), n.Parent)
	assert.Equal(t, n, doc.Body().LastChild)

	release()
	assert.Nil(t, n.Parent)
	assert.Equal(t, "<p>one</p>", InnerHTML(doc.Body()))

	// Releasing twice is harmless.
	release()
	assert.Nil(t, n.Parent)
}

func TestNew_WithoutBody(t *testing.T) {
	root := &html.Node{Type: html.DocumentNode}
	doc := New(root, nil)
	require.NotNil(t, doc.Body())
	assert.Equal(t, "", doc.Title())
}
