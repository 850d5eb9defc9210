// Package document opens reading material as an ordered sequence of opaque
// content sections plus a table of contents. Formats register themselves by
// file extension; unknown extensions fall back to plain text.
package document

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// TOCNode is one entry of the table-of-contents tree, ordered by reading
// order. SectionIndex points at the section the entry starts on.
type TOCNode struct {
	Label        string
	SectionIndex int
	Children     []TOCNode
}

// Document is an ordered, indexable sequence of raw content sections.
type Document interface {
	// SectionCount returns the number of sections in reading order.
	SectionCount() int
	// Section returns the raw payload of the section at index.
	Section(index int) ([]byte, error)
	// UniqueID returns a stable identifier for persisting reading positions.
	UniqueID() string
	// TableOfContents returns the document's navigation tree, which may be
	// empty. Every SectionIndex in it refers to a section of this document.
	TableOfContents() []TOCNode
	// Close releases any underlying resources.
	Close() error
}

// Format opens documents for a set of file extensions.
type Format interface {
	Name() string
	Extensions() []string
	Open(path string) (Document, error)
}

var registry []Format

// Register adds a format to the registry. Called from format init functions.
func Register(f Format) {
	registry = append(registry, f)
}

// Open opens path with the format registered for its extension, or as plain
// text if no format matches.
func Open(path string) (Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, f := range registry {
		for _, e := range f.Extensions() {
			if ext == e {
				return f.Open(path)
			}
		}
	}
	return openPlainText(path)
}

// SupportedFormats returns registered format names with their extensions.
func SupportedFormats() []string {
	var out []string
	for _, f := range registry {
		out = append(out, f.Name()+" ("+strings.Join(f.Extensions(), ", ")+")")
	}
	return out
}

const hashBytes = 8192 // first 8KB is enough to tell documents apart

// ContentHash derives a document identifier from the head of the file.
func ContentHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := make([]byte, hashBytes)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}

	hash := sha256.Sum256(buf[:n])
	return hex.EncodeToString(hash[:16]), nil
}
