package document

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/taylorskalyo/goreader/epub"
)

// EPUBFormat opens EPUB containers as sectioned documents.
type EPUBFormat struct{}

func init() {
	Register(&EPUBFormat{})
}

func (f *EPUBFormat) Name() string         { return "EPUB" }
func (f *EPUBFormat) Extensions() []string { return []string{".epub"} }

func (f *EPUBFormat) Open(path string) (Document, error) {
	rc, err := epub.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open epub: %w", err)
	}
	if len(rc.Rootfiles) == 0 {
		rc.Close()
		return nil, fmt.Errorf("no rootfiles found in epub")
	}

	id, err := ContentHash(path)
	if err != nil {
		rc.Close()
		return nil, err
	}

	doc := &EPUBDocument{
		rc:   rc,
		book: rc.Rootfiles[0],
		id:   id,
	}
	// A broken or absent NCX degrades to an empty TOC, not a failed open.
	doc.toc, _ = parseNCX(path, doc.book)
	return doc, nil
}

// EPUBDocument exposes the spine of an EPUB as the section sequence.
type EPUBDocument struct {
	rc   *epub.ReadCloser
	book *epub.Rootfile
	id   string
	toc  []TOCNode
}

func (d *EPUBDocument) SectionCount() int { return len(d.book.Spine.Itemrefs) }

func (d *EPUBDocument) Section(index int) ([]byte, error) {
	if index < 0 || index >= len(d.book.Spine.Itemrefs) {
		return nil, fmt.Errorf("no spine item at index %d", index)
	}
	ref := d.book.Spine.Itemrefs[index]
	if ref.Item == nil {
		return nil, fmt.Errorf("spine item %d has no manifest entry", index)
	}
	r, err := ref.Item.Open()
	if err != nil {
		return nil, fmt.Errorf("open spine item %d: %w", index, err)
	}
	defer r.Close()
	return io.ReadAll(r)
}

func (d *EPUBDocument) UniqueID() string           { return d.id }
func (d *EPUBDocument) TableOfContents() []TOCNode { return d.toc }
func (d *EPUBDocument) Close() error               { d.rc.Close(); return nil }

// NCX XML structures for parsing toc.ncx
type ncx struct {
	NavMap navMap `xml:"navMap"`
}

type navMap struct {
	NavPoints []navPoint `xml:"navPoint"`
}

type navPoint struct {
	Label    navLabel   `xml:"navLabel"`
	Content  navContent `xml:"content"`
	Children []navPoint `xml:"navPoint"`
}

type navLabel struct {
	Text string `xml:"text"`
}

type navContent struct {
	Src string `xml:"src,attr"`
}

// parseNCX reads the EPUB's NCX and maps its nav tree onto spine indices,
// preserving nesting.
func parseNCX(filename string, book *epub.Rootfile) ([]TOCNode, error) {
	ncxData, err := findAndReadNCX(filename, book)
	if err != nil {
		return nil, err
	}

	var toc ncx
	if err := xml.Unmarshal(ncxData, &toc); err != nil {
		return nil, fmt.Errorf("failed to parse NCX: %w", err)
	}

	spineIndex := buildSpineIndex(book)
	last := 0
	return buildTOCNodes(toc.NavMap.NavPoints, spineIndex, &last), nil
}

// buildSpineIndex maps manifest hrefs (full and basename) to spine indices.
func buildSpineIndex(book *epub.Rootfile) map[string]int {
	m := make(map[string]int)
	for i, ref := range book.Spine.Itemrefs {
		if ref.Item == nil || ref.Item.HREF == "" {
			continue
		}
		if _, ok := m[ref.Item.HREF]; !ok {
			m[ref.Item.HREF] = i
		}
		base := path.Base(ref.Item.HREF)
		if _, ok := m[base]; !ok {
			m[base] = i
		}
	}
	return m
}

// buildTOCNodes resolves nav point hrefs to section indices. Hrefs that do
// not match a spine item keep the last resolved index, so the tree stays
// ordered even when entries point at fragments of a merged file.
func buildTOCNodes(points []navPoint, spineIndex map[string]int, last *int) []TOCNode {
	var nodes []TOCNode
	for _, np := range points {
		href := np.Content.Src
		if idx := strings.Index(href, "#"); idx != -1 {
			href = href[:idx]
		}
		if i, ok := spineIndex[href]; ok {
			*last = i
		} else if i, ok := spineIndex[path.Base(href)]; ok {
			*last = i
		}
		// Capture before recursing: descendants advance *last, and the
		// parent must keep its own section index.
		section := *last
		nodes = append(nodes, TOCNode{
			Label:        strings.TrimSpace(np.Label.Text),
			SectionIndex: section,
			Children:     buildTOCNodes(np.Children, spineIndex, last),
		})
	}
	return nodes
}

func findAndReadNCX(filename string, book *epub.Rootfile) ([]byte, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var ncxPath string
	for _, item := range book.Manifest.Items {
		if item.MediaType == "application/x-dtbncx+xml" {
			ncxPath = item.HREF
			break
		}
	}
	if ncxPath == "" {
		for _, f := range zr.File {
			if strings.HasSuffix(strings.ToLower(f.Name), ".ncx") {
				ncxPath = f.Name
				break
			}
		}
	}

	if ncxPath == "" {
		return nil, fmt.Errorf("no NCX file found in EPUB")
	}

	for _, f := range zr.File {
		if f.Name == ncxPath || strings.HasSuffix(f.Name, "/"+ncxPath) || path.Base(f.Name) == path.Base(ncxPath) {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}

	return nil, fmt.Errorf("NCX file %s not found in archive", ncxPath)
}
