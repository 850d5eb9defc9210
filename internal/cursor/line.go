// Package cursor implements the navigation core of a section-based reader:
// it turns rendered text blocks into an addressable (section, line, word)
// coordinate space and supports bidirectional movement, reflow at a new
// rendering width, and table-of-contents resolution.
package cursor

import (
	"strings"
	"unicode"
)

// Policy selects which whitespace-delimited tokens receive a word position.
type Policy int

const (
	// IndexAllTokens assigns a position to every whitespace token. This is
	// the default and matches how word counts are usually reported.
	IndexAllTokens Policy = iota
	// IndexAlphabetic assigns positions only to tokens containing at least
	// one letter, skipping bare punctuation and numbers during playback.
	IndexAlphabetic
)

// Indexes reports whether a token receives a word position under p.
func (p Policy) Indexes(token string) bool {
	if p != IndexAlphabetic {
		return true
	}
	for _, r := range token {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// Line is one non-empty rendered row of a section. Words holds the global
// (section-local, zero-based) word positions present in the line, in order.
type Line struct {
	Index int
	Words []int
	Text  string
}

// FirstWord returns the first word position of the line.
func (l Line) FirstWord() int { return l.Words[0] }

// LastWord returns the last word position of the line.
func (l Line) LastWord() int { return l.Words[len(l.Words)-1] }

// Contains reports whether the line covers the given word position.
func (l Line) Contains(word int) bool {
	return word >= l.FirstWord() && word <= l.LastWord()
}

// indexLines splits rendered text into indexed lines. Lines that are blank
// after trimming are dropped entirely: they consume no line index and are
// invisible to navigation. Word positions start at 0 and are contiguous
// across the section. The returned words slice maps each assigned position
// to its token text.
//
// A retained line whose tokens are all filtered out by the policy keeps a
// single degenerate position equal to the next unassigned index, so that
// line stepping still has a word to snap to.
func indexLines(text string, policy Policy) (lines []Line, words []string) {
	next := 0
	for _, raw := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		var positions []int
		for _, tok := range strings.Fields(trimmed) {
			if !policy.Indexes(tok) {
				continue
			}
			positions = append(positions, next)
			words = append(words, tok)
			next++
		}
		if len(positions) == 0 {
			positions = []int{next}
		}
		lines = append(lines, Line{
			Index: len(lines),
			Words: positions,
			Text:  raw,
		})
	}
	return lines, words
}
