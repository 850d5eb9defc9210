package document_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skimreader/skim/internal/document"
)

func TestOpenFallsBackToPlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	content := "First paragraph with words.\n\nSecond paragraph, a < b && c > d.\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	doc, err := document.Open(path)
	require.NoError(t, err)
	defer doc.Close()

	require.IsType(t, &document.PlainTextDocument{}, doc)
	assert.Equal(t, 1, doc.SectionCount())
	assert.Empty(t, doc.TableOfContents())

	raw, err := doc.Section(0)
	require.NoError(t, err)
	html := string(raw)
	assert.Contains(t, html, "<p>First paragraph with words.</p>")
	assert.Contains(t, html, "&lt;", "markup characters are escaped")
	assert.NotContains(t, html, "a < b")

	_, err = doc.Section(1)
	assert.Error(t, err)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := document.Open(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestSupportedFormats(t *testing.T) {
	formats := document.SupportedFormats()
	assert.Contains(t, formats, "EPUB (.epub)")
	assert.Contains(t, formats, "Markdown (.md, .markdown)")
}

func TestContentHash(t *testing.T) {
	dir := t.TempDir()
	one := filepath.Join(dir, "one.txt")
	two := filepath.Join(dir, "two.txt")
	copyOfOne := filepath.Join(dir, "copy.txt")

	require.NoError(t, os.WriteFile(one, []byte("Hello, World!"), 0644))
	require.NoError(t, os.WriteFile(two, []byte("Different content"), 0644))
	require.NoError(t, os.WriteFile(copyOfOne, []byte("Hello, World!"), 0644))

	h1, err := document.ContentHash(one)
	require.NoError(t, err)
	h2, err := document.ContentHash(two)
	require.NoError(t, err)
	h3, err := document.ContentHash(copyOfOne)
	require.NoError(t, err)

	assert.Equal(t, h1, h3, "same content, same identity")
	assert.NotEqual(t, h1, h2)
	assert.Len(t, h1, 32)
}
