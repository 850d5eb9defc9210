package document

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/html"
)

// openPlainText wraps any file as a single-section document, one <p> per
// blank-line-separated paragraph so the shared HTML render path applies.
func openPlainText(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	id, err := ContentHash(path)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	for _, p := range strings.Split(string(data), "\n\n") {
		if strings.TrimSpace(p) == "" {
			continue
		}
		sb.WriteString("<p>")
		sb.WriteString(html.EscapeString(p))
		sb.WriteString("</p>\n")
	}

	return &PlainTextDocument{id: id, content: []byte(sb.String())}, nil
}

// PlainTextDocument is the fallback for unregistered file extensions.
type PlainTextDocument struct {
	id      string
	content []byte
}

func (d *PlainTextDocument) SectionCount() int { return 1 }

func (d *PlainTextDocument) Section(index int) ([]byte, error) {
	if index != 0 {
		return nil, fmt.Errorf("no section at index %d", index)
	}
	return d.content, nil
}

func (d *PlainTextDocument) UniqueID() string           { return d.id }
func (d *PlainTextDocument) TableOfContents() []TOCNode { return nil }
func (d *PlainTextDocument) Close() error               { return nil }
