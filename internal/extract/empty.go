package extract

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/tesh254/tabdown/internal/dom"
)

var (
	tagPattern = regexp.MustCompile(`<[^>]*>`)
	// quotes plus the whitespace a JavaScript \s matches
	blankPattern = regexp.MustCompile("['\"“”„«»‘’`「」《》\\t\\n\\v\\f\\r\\p{Z}\\x{FEFF}]")
)

// IsEmpty reports whether an element's inner markup is blank once tags, quote
// characters and whitespace are removed. The markup is serialized like
// innerHTML, so a non-breaking space counts as content.
func IsEmpty(n *html.Node) bool {
	text := tagPattern.ReplaceAllString(dom.InnerHTML(n), "")
	text = blankPattern.ReplaceAllString(text, "")
	return strings.TrimSpace(text) == ""
}
