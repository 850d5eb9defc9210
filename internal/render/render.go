// Package render converts raw section payloads (XHTML) into plain text
// wrapped at a display width, with paragraph structure preserved as blank
// lines.
package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/net/html"
)

// blockTags start a new paragraph when entered or left.
var blockTags = map[string]bool{
	"p": true, "div": true, "section": true, "article": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "ul": true, "ol": true, "dt": true, "dd": true,
	"blockquote": true, "pre": true, "table": true, "tr": true,
	"header": true, "footer": true, "figcaption": true, "br": true, "hr": true,
}

// skipTags contribute no readable text.
var skipTags = map[string]bool{
	"script": true, "style": true, "head": true,
}

// Render parses raw as HTML and returns its text content wrapped at width,
// one paragraph per block element, paragraphs separated by a blank line.
// Non-UTF-8 payloads are rejected as undecodable.
func Render(raw []byte, width int) (string, error) {
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("section content is not valid UTF-8 text")
	}
	if width < 1 {
		width = 1
	}

	doc, err := html.Parse(strings.NewReader(string(raw)))
	if err != nil {
		return "", fmt.Errorf("parse section content: %w", err)
	}

	paragraphs := extractParagraphs(doc)
	wrapped := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		wrapped = append(wrapped, wordwrap.String(p, width))
	}
	return strings.Join(wrapped, "\n\n"), nil
}

// extractParagraphs walks the parse tree collecting text nodes, flushing the
// accumulated run into a new paragraph at every block element boundary.
func extractParagraphs(doc *html.Node) []string {
	var paragraphs []string
	var current strings.Builder

	flush := func() {
		if text := strings.TrimSpace(current.String()); text != "" {
			paragraphs = append(paragraphs, text)
		}
		current.Reset()
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skipTags[n.Data] {
			return
		}
		block := n.Type == html.ElementNode && blockTags[n.Data]
		if block {
			flush()
		}
		if n.Type == html.TextNode {
			if t := strings.Join(strings.Fields(n.Data), " "); t != "" {
				if current.Len() > 0 {
					current.WriteString(" ")
				}
				current.WriteString(t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			flush()
		}
	}
	walk(doc)
	flush()

	return paragraphs
}
