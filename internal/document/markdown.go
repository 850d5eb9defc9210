package document

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
)

// MarkdownFormat opens Markdown files as sectioned documents, one section
// per heading.
type MarkdownFormat struct{}

func init() {
	Register(&MarkdownFormat{})
}

func (f *MarkdownFormat) Name() string         { return "Markdown" }
func (f *MarkdownFormat) Extensions() []string { return []string{".md", ".markdown"} }

// headerRegex matches markdown headers (# to ######)
var headerRegex = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

func (f *MarkdownFormat) Open(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	id, err := ContentHash(path)
	if err != nil {
		return nil, err
	}

	doc := &MarkdownDocument{
		id: id,
		md: goldmark.New(),
	}
	doc.split(string(data))
	return doc, nil
}

// MarkdownDocument holds heading-delimited source chunks. Sections convert
// to HTML lazily so the renderer sees the same input type as for EPUB.
type MarkdownDocument struct {
	id       string
	sections []string
	toc      []TOCNode
	md       goldmark.Markdown
}

type heading struct {
	level   int
	title   string
	section int
}

// split cuts the source at every heading. Content before the first heading
// becomes section 0 with no TOC entry.
func (d *MarkdownDocument) split(source string) {
	var headings []heading
	var current []string

	flush := func() {
		chunk := strings.Join(current, "\n")
		if strings.TrimSpace(chunk) != "" {
			d.sections = append(d.sections, chunk)
		}
		current = nil
	}

	for _, line := range strings.Split(source, "\n") {
		if match := headerRegex.FindStringSubmatch(line); match != nil {
			flush()
			headings = append(headings, heading{
				level:   len(match[1]),
				title:   strings.TrimSpace(match[2]),
				section: len(d.sections),
			})
		}
		current = append(current, line)
	}
	flush()

	d.toc = buildHeadingTree(headings)
}

// buildHeadingTree nests headings by level: a deeper heading becomes a child
// of the nearest shallower one before it.
func buildHeadingTree(headings []heading) []TOCNode {
	type frame struct {
		level int
		node  *TOCNode
	}
	var roots []TOCNode
	var stack []frame

	for _, h := range headings {
		for len(stack) > 0 && stack[len(stack)-1].level >= h.level {
			stack = stack[:len(stack)-1]
		}
		node := TOCNode{Label: h.title, SectionIndex: h.section}
		if len(stack) == 0 {
			roots = append(roots, node)
			stack = append(stack, frame{h.level, &roots[len(roots)-1]})
		} else {
			parent := stack[len(stack)-1].node
			parent.Children = append(parent.Children, node)
			stack = append(stack, frame{h.level, &parent.Children[len(parent.Children)-1]})
		}
	}
	return roots
}

func (d *MarkdownDocument) SectionCount() int { return len(d.sections) }

func (d *MarkdownDocument) Section(index int) ([]byte, error) {
	if index < 0 || index >= len(d.sections) {
		return nil, fmt.Errorf("no section at index %d", index)
	}
	var buf bytes.Buffer
	if err := d.md.Convert([]byte(d.sections[index]), &buf); err != nil {
		return nil, fmt.Errorf("convert markdown section %d: %w", index, err)
	}
	return buf.Bytes(), nil
}

func (d *MarkdownDocument) UniqueID() string           { return d.id }
func (d *MarkdownDocument) TableOfContents() []TOCNode { return d.toc }
func (d *MarkdownDocument) Close() error               { return nil }
