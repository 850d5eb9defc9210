package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderParagraphs(t *testing.T) {
	raw := []byte(`
	<html><body>
		<h1>Chapter 1</h1>
		<p>This is the <b>first</b> paragraph.</p>
		<p>
			This is the second paragraph
			with a newline in the source.
		</p>
		<div>Some <span>nested</span> text.</div>
	</body></html>`)

	text, err := Render(raw, 100)
	require.NoError(t, err)

	blocks := strings.Split(text, "\n\n")
	require.Len(t, blocks, 4)
	assert.Equal(t, "Chapter 1", blocks[0])
	assert.Equal(t, "This is the first paragraph.", blocks[1])
	assert.Equal(t, "This is the second paragraph with a newline in the source.", blocks[2])
	assert.Equal(t, "Some nested text.", blocks[3])
}

func TestRenderWrapsAtWidth(t *testing.T) {
	raw := []byte("<p>the quick brown fox jumps over the lazy dog</p>")

	text, err := Render(raw, 10)
	require.NoError(t, err)

	lines := strings.Split(text, "\n")
	assert.Greater(t, len(lines), 1)
	for _, l := range lines {
		assert.LessOrEqual(t, len(l), 10, "line %q", l)
	}
	assert.Equal(t, "the quick brown fox jumps over the lazy dog",
		strings.Join(strings.Fields(text), " "), "wrapping preserves the words")
}

func TestRenderInlineMarkupDoesNotSplit(t *testing.T) {
	raw := []byte("<p>one <em>two</em> <strong>three</strong> four</p>")

	text, err := Render(raw, 80)
	require.NoError(t, err)
	assert.Equal(t, "one two three four", text)
}

func TestRenderSkipsNonContent(t *testing.T) {
	raw := []byte(`<html><head><title>Metadata</title><style>p{color:red}</style></head>
	<body><script>var x = 1;</script><p>visible words</p></body></html>`)

	text, err := Render(raw, 80)
	require.NoError(t, err)
	assert.Equal(t, "visible words", text)
}

func TestRenderRejectsNonText(t *testing.T) {
	_, err := Render([]byte{0xff, 0xfe, 0x00, 0x89}, 80)
	assert.Error(t, err)
}

func TestRenderDegenerateWidth(t *testing.T) {
	raw := []byte("<p>tiny</p>")

	text, err := Render(raw, 0)
	require.NoError(t, err)
	assert.Equal(t, "tiny", text)
}

func TestRenderEmptyDocument(t *testing.T) {
	text, err := Render([]byte(""), 80)
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestRenderListItemsBecomeLines(t *testing.T) {
	raw := []byte("<ul><li>first item</li><li>second item</li></ul>")

	text, err := Render(raw, 80)
	require.NoError(t, err)

	blocks := strings.Split(text, "\n\n")
	require.Len(t, blocks, 2)
	assert.Equal(t, "first item", blocks[0])
	assert.Equal(t, "second item", blocks[1])
}
