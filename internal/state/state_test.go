package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionRoundTrip(t *testing.T) {
	dir := t.TempDir()

	pos := Position{Identifier: "x", SectionIndex: 3, WordIndex: 12}
	require.NoError(t, pos.Store(dir))

	got := Load(dir, "x")
	assert.Equal(t, pos, got)
}

func TestLoadUnknownIdentifier(t *testing.T) {
	got := Load(t.TempDir(), "never-stored")
	assert.Equal(t, Position{Identifier: "never-stored"}, got)
}

func TestLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.json"), []byte("{not json"), 0644))

	got := Load(dir, "x")
	assert.Equal(t, Position{Identifier: "x"}, got, "corrupt data reads as absent")
}

func TestLoadRejectsNegativeIndices(t *testing.T) {
	dir := t.TempDir()
	data := []byte(`{"identifier":"x","section_index":-2,"word_index":7}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.json"), data, 0644))

	got := Load(dir, "x")
	assert.Equal(t, Position{Identifier: "x"}, got)
}

func TestStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")

	pos := Position{Identifier: "abc123", SectionIndex: 1, WordIndex: 2}
	require.NoError(t, pos.Store(dir))

	assert.Equal(t, pos, Load(dir, "abc123"))
}

func TestStoreReportsWriteFailure(t *testing.T) {
	// A file where the state directory should be makes the write fail.
	parent := t.TempDir()
	blocked := filepath.Join(parent, "occupied")
	require.NoError(t, os.WriteFile(blocked, []byte("file"), 0644))

	err := Position{Identifier: "x"}.Store(blocked)
	assert.Error(t, err)
}

func TestUnsafeIdentifiersGetHashedFilenames(t *testing.T) {
	dir := t.TempDir()
	id := "urn:isbn:978-0-00/000?weird"

	pos := Position{Identifier: id, SectionIndex: 2, WordIndex: 9}
	require.NoError(t, pos.Store(dir))

	got := Load(dir, id)
	assert.Equal(t, pos, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].Name(), "/")
	assert.NotContains(t, entries[0].Name(), ":")
}

func TestPositionsAreKeyedPerDocument(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, Position{Identifier: "a", SectionIndex: 1, WordIndex: 1}.Store(dir))
	require.NoError(t, Position{Identifier: "b", SectionIndex: 2, WordIndex: 2}.Store(dir))

	assert.Equal(t, 1, Load(dir, "a").SectionIndex)
	assert.Equal(t, 2, Load(dir, "b").SectionIndex)
}

func TestDefaultDirHonorsXDG(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/xdg-state")
	assert.Equal(t, filepath.Join("/tmp/xdg-state", "skim"), DefaultDir())
}
