package extract

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTMLText extracts readable text from an HTML document. Block elements end
// a line and list items are prefixed with "- " so bullet structure survives.
func HTMLText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script, style, noscript, head").Remove()
	doc.Find("li").PrependHtml("- ")
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, div, li, tr, h1, h2, h3, h4, h5, h6, section, article").AppendHtml("\n")
	return Normalize(doc.Text()), nil
}

// HTMLFragmentText is HTMLText for markup embedded in JSON payloads, which
// job boards often send entity-escaped.
func HTMLFragmentText(fragment string) (string, error) {
	if strings.Contains(fragment, "&lt;") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
		if err != nil {
			return "", fmt.Errorf("parse html: %w", err)
		}
		fragment = doc.Text()
	}
	return HTMLText(strings.NewReader(fragment))
}
