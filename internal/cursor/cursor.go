package cursor

import (
	"fmt"

	"github.com/skimreader/skim/internal/document"
	"github.com/skimreader/skim/internal/state"
)

// DocumentCursor owns a document and the single materialized SectionCursor
// for the section being read. Word and line movement is delegated to the
// section cursor; this type drives section transitions, lazy re-rendering on
// width changes, and table-of-contents resolution.
type DocumentCursor struct {
	doc     document.Document
	render  RenderFunc
	policy  Policy
	width   int
	section *SectionCursor
	toc     []tocEntry
}

// tocEntry is one node of the flattened table of contents. Children are
// indices back into the same slice, which keeps traversal iterative.
type tocEntry struct {
	label    string
	section  int
	depth    int
	children []int
}

// TOCItem is a display-ready table-of-contents row in flattened order.
type TOCItem struct {
	Label   string
	Section int
	Depth   int
}

// NewDocumentCursor materializes the first section of doc at the given
// width. A document with no sections yields a cursor over an empty section.
func NewDocumentCursor(doc document.Document, render RenderFunc, width int, policy Policy) (*DocumentCursor, error) {
	c := &DocumentCursor{
		doc:    doc,
		render: render,
		policy: policy,
		width:  width,
	}
	c.toc = flattenTOC(doc.TableOfContents())
	if doc.SectionCount() == 0 {
		c.section = &SectionCursor{render: render, width: width, policy: policy}
		return c, nil
	}
	section, err := c.materialize(0)
	if err != nil {
		return nil, err
	}
	c.section = section
	return c, nil
}

func flattenTOC(nodes []document.TOCNode) []tocEntry {
	var entries []tocEntry
	var add func(nodes []document.TOCNode, depth int) []int
	add = func(nodes []document.TOCNode, depth int) []int {
		ids := make([]int, 0, len(nodes))
		for _, n := range nodes {
			id := len(entries)
			entries = append(entries, tocEntry{
				label:   n.Label,
				section: n.SectionIndex,
				depth:   depth,
			})
			ids = append(ids, id)
			entries[id].children = add(n.Children, depth+1)
		}
		return ids
	}
	add(nodes, 0)
	return entries
}

func (c *DocumentCursor) materialize(index int) (*SectionCursor, error) {
	raw, err := c.doc.Section(index)
	if err != nil {
		return nil, fmt.Errorf("section %d unavailable: %w", index, err)
	}
	section, err := NewSectionCursor(index, raw, c.render, c.width, c.policy)
	if err != nil {
		return nil, fmt.Errorf("section %d unavailable: %w", index, err)
	}
	return section, nil
}

// SectionIndex returns the index of the section being read.
func (c *DocumentCursor) SectionIndex() int { return c.section.Index() }

// SectionCount returns the number of sections in the document.
func (c *DocumentCursor) SectionCount() int { return c.doc.SectionCount() }

// CurrentSection returns the active section cursor.
func (c *DocumentCursor) CurrentSection() *SectionCursor { return c.section }

// CurrentSectionOrResize returns the active section cursor, reflowing it
// first if the requested width differs from the width it was rendered at.
// This is the single read path for the presentation layer, so resizing is
// always lazy. If re-rendering fails the section keeps its previous width.
func (c *DocumentCursor) CurrentSectionOrResize(width int) *SectionCursor {
	if width != c.section.Width() {
		if err := c.section.Reflow(width); err == nil {
			c.width = width
		}
	}
	return c.section
}

// NextSection advances to the following section. It returns (false, nil)
// when there is none, which is the terminal condition of the document, and
// (false, err) leaving state unchanged when the section cannot be loaded.
func (c *DocumentCursor) NextSection() (bool, error) {
	return c.GotoSection(c.section.Index() + 1)
}

// PrevSection moves to the preceding section, with the same contract as
// NextSection.
func (c *DocumentCursor) PrevSection() (bool, error) {
	return c.GotoSection(c.section.Index() - 1)
}

// GotoSection jumps to an absolute section index. Out-of-range indices
// return (false, nil) and leave the cursor in place.
func (c *DocumentCursor) GotoSection(index int) (bool, error) {
	if index < 0 || index >= c.doc.SectionCount() {
		return false, nil
	}
	section, err := c.materialize(index)
	if err != nil {
		return false, err
	}
	c.section = section
	return true, nil
}

// Restore moves the cursor to a previously persisted position. A section
// index the document no longer has falls back to the first section; a word
// index past the section's words falls back to the section start.
func (c *DocumentCursor) Restore(pos state.Position) error {
	ok, err := c.GotoSection(pos.SectionIndex)
	if err != nil {
		return err
	}
	if ok {
		c.section.SeekWord(pos.WordIndex)
	}
	return nil
}

// TOCItems returns the table of contents flattened in reading order, with
// nesting depth preserved for display.
func (c *DocumentCursor) TOCItems() []TOCItem {
	items := make([]TOCItem, len(c.toc))
	for i, e := range c.toc {
		items[i] = TOCItem{Label: e.label, Section: e.section, Depth: e.depth}
	}
	return items
}

// TOCPath returns the root-to-node path, as indices into TOCItems order, of
// the table-of-contents branch covering the current section. A node covers
// the range from its own section index up to its next sibling's. The result
// is empty when the current section precedes every top-level node.
func (c *DocumentCursor) TOCPath() []int {
	current := c.section.Index()
	var path []int
	candidates := c.topLevel()
	for len(candidates) > 0 {
		pick := -1
		for _, id := range candidates {
			if c.toc[id].section <= current {
				pick = id
			}
		}
		if pick == -1 {
			break
		}
		path = append(path, pick)
		candidates = c.toc[pick].children
	}
	return path
}

func (c *DocumentCursor) topLevel() []int {
	var ids []int
	for i, e := range c.toc {
		if e.depth == 0 {
			ids = append(ids, i)
		}
	}
	return ids
}

// DocState snapshots the current reading position for persistence.
func (c *DocumentCursor) DocState() state.Position {
	return state.Position{
		Identifier:   c.doc.UniqueID(),
		SectionIndex: c.section.Index(),
		WordIndex:    c.section.WordIndex(),
	}
}
