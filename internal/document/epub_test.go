package document_test

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skimreader/skim/internal/document"
)

const containerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

const contentOPF = `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="2.0" unique-identifier="bookid">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Test Book</dc:title>
    <dc:identifier id="bookid">test-book-1</dc:identifier>
    <dc:language>en</dc:language>
  </metadata>
  <manifest>
    <item id="ncx" href="toc.ncx" media-type="application/x-dtbncx+xml"/>
    <item id="ch1" href="ch1.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch2" href="ch2.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch3" href="ch3.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine toc="ncx">
    <itemref idref="ch1"/>
    <itemref idref="ch2"/>
    <itemref idref="ch3"/>
  </spine>
</package>`

const tocNCX = `<?xml version="1.0" encoding="UTF-8"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">
  <navMap>
    <navPoint id="n1" playOrder="1">
      <navLabel><text>Part One</text></navLabel>
      <content src="ch1.xhtml"/>
      <navPoint id="n2" playOrder="2">
        <navLabel><text>Second Chapter</text></navLabel>
        <content src="ch2.xhtml#start"/>
      </navPoint>
    </navPoint>
    <navPoint id="n3" playOrder="3">
      <navLabel><text>Part Two</text></navLabel>
      <content src="ch3.xhtml"/>
    </navPoint>
  </navMap>
</ncx>`

var chapterBodies = []string{
	`<html><body><p>Words of chapter one.</p></body></html>`,
	`<html><body><p id="start">Words of chapter two.</p></body></html>`,
	`<html><body><p>Words of chapter three.</p></body></html>`,
}

func writeEPUB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.epub")

	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)

	files := []struct {
		name string
		body string
	}{
		{"mimetype", "application/epub+zip"},
		{"META-INF/container.xml", containerXML},
		{"OEBPS/content.opf", contentOPF},
		{"OEBPS/toc.ncx", tocNCX},
		{"OEBPS/ch1.xhtml", chapterBodies[0]},
		{"OEBPS/ch2.xhtml", chapterBodies[1]},
		{"OEBPS/ch3.xhtml", chapterBodies[2]},
	}
	for _, file := range files {
		w, err := zw.Create(file.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(file.body))
		require.NoError(t, err)
	}

	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func openEPUB(t *testing.T) document.Document {
	t.Helper()
	doc, err := document.Open(writeEPUB(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = doc.Close() })
	return doc
}

func TestEPUBSpineBecomesSections(t *testing.T) {
	doc := openEPUB(t)

	require.IsType(t, &document.EPUBDocument{}, doc)
	assert.Equal(t, 3, doc.SectionCount())

	for i, want := range []string{"chapter one", "chapter two", "chapter three"} {
		raw, err := doc.Section(i)
		require.NoError(t, err)
		assert.Contains(t, string(raw), want)
	}

	_, err := doc.Section(3)
	assert.Error(t, err)
	_, err = doc.Section(-1)
	assert.Error(t, err)
}

func TestEPUBTableOfContents(t *testing.T) {
	doc := openEPUB(t)

	toc := doc.TableOfContents()
	require.Len(t, toc, 2)

	assert.Equal(t, "Part One", toc[0].Label)
	assert.Equal(t, 0, toc[0].SectionIndex)
	require.Len(t, toc[0].Children, 1)
	assert.Equal(t, "Second Chapter", toc[0].Children[0].Label)
	assert.Equal(t, 1, toc[0].Children[0].SectionIndex, "fragment hrefs resolve to their file's spine index")

	assert.Equal(t, "Part Two", toc[1].Label)
	assert.Equal(t, 2, toc[1].SectionIndex)
	assert.Empty(t, toc[1].Children)
}

func TestEPUBUniqueID(t *testing.T) {
	doc := openEPUB(t)
	assert.Len(t, doc.UniqueID(), 32)
}
