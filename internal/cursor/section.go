package cursor

// RenderFunc converts a section's raw payload into plain text wrapped at the
// given width. Implementations live outside this package; see internal/render.
type RenderFunc func(raw []byte, width int) (string, error)

// SectionCursor holds one section's indexed lines plus a live (line, word)
// pointer. Raw bytes are retained so the section can be re-rendered at a
// different width without refetching from the document.
type SectionCursor struct {
	index   int
	content string
	raw     []byte
	lines   []Line
	words   []string
	lineIdx int
	wordIdx int
	width   int
	policy  Policy
	render  RenderFunc
}

// NewSectionCursor renders raw at the given width and indexes the result.
// The pointer starts at the first word of the first line.
func NewSectionCursor(index int, raw []byte, render RenderFunc, width int, policy Policy) (*SectionCursor, error) {
	content, err := render(raw, width)
	if err != nil {
		return nil, err
	}
	s := &SectionCursor{
		index:  index,
		raw:    raw,
		width:  width,
		policy: policy,
		render: render,
	}
	s.reindex(content)
	return s, nil
}

func (s *SectionCursor) reindex(content string) {
	s.content = content
	s.lines, s.words = indexLines(content, s.policy)
	s.lineIdx = 0
	s.wordIdx = 0
	if len(s.lines) > 0 {
		s.wordIdx = s.lines[0].FirstWord()
	}
}

// Index returns the section's position in the document.
func (s *SectionCursor) Index() int { return s.index }

// Content returns the rendered text at the current width.
func (s *SectionCursor) Content() string { return s.content }

// Lines returns the indexed lines of the section.
func (s *SectionCursor) Lines() []Line { return s.lines }

// Width returns the width the section was last rendered at.
func (s *SectionCursor) Width() int { return s.width }

// LineIndex returns the current line pointer.
func (s *SectionCursor) LineIndex() int { return s.lineIdx }

// WordIndex returns the current word pointer.
func (s *SectionCursor) WordIndex() int { return s.wordIdx }

// WordCount returns the number of indexed words in the section.
func (s *SectionCursor) WordCount() int { return len(s.words) }

// CurrentLine returns the line under the pointer, if any.
func (s *SectionCursor) CurrentLine() (Line, bool) {
	if s.lineIdx < 0 || s.lineIdx >= len(s.lines) {
		return Line{}, false
	}
	return s.lines[s.lineIdx], true
}

// CurrentWord returns the text of the word under the pointer, if any. A
// section with no indexed words has no current word.
func (s *SectionCursor) CurrentWord() (string, bool) {
	if _, ok := s.CurrentLine(); !ok {
		return "", false
	}
	if s.wordIdx < 0 || s.wordIdx >= len(s.words) {
		return "", false
	}
	return s.words[s.wordIdx], true
}

// NextWord advances to the next word position of the current line, chaining
// to NextLine at the line edge. It returns false when the move would cross
// the section boundary; the document cursor owns that transition.
func (s *SectionCursor) NextWord() bool {
	line, ok := s.CurrentLine()
	if !ok {
		return false
	}
	if s.wordIdx >= line.FirstWord() && s.wordIdx < line.LastWord() {
		s.wordIdx++
		return true
	}
	return s.NextLine()
}

// PrevWord steps back one word position, chaining to PrevLine at the line
// edge. It returns false when the move would cross the section boundary.
func (s *SectionCursor) PrevWord() bool {
	line, ok := s.CurrentLine()
	if !ok {
		return false
	}
	if s.wordIdx > line.FirstWord() && s.wordIdx <= line.LastWord() {
		s.wordIdx--
		return true
	}
	return s.PrevLine()
}

// NextLine moves the line pointer down one line, snapping the word pointer
// to that line's first position. Returns false at the section boundary.
func (s *SectionCursor) NextLine() bool {
	if s.lineIdx+1 >= len(s.lines) {
		return false
	}
	s.lineIdx++
	s.wordIdx = s.lines[s.lineIdx].FirstWord()
	return true
}

// PrevLine moves the line pointer up one line, snapping the word pointer to
// that line's last position. Returns false at the section boundary.
func (s *SectionCursor) PrevLine() bool {
	if s.lineIdx == 0 || len(s.lines) == 0 {
		return false
	}
	s.lineIdx--
	s.wordIdx = s.lines[s.lineIdx].LastWord()
	return true
}

// SeekWord moves the pointer directly to the line containing the given word
// position. Returns false, leaving the pointer unchanged, if no line covers
// the position.
func (s *SectionCursor) SeekWord(word int) bool {
	for i, l := range s.lines {
		if l.Contains(word) {
			s.lineIdx = i
			s.wordIdx = word
			return true
		}
	}
	return false
}

// Reflow re-renders the retained raw content at the new width and rebuilds
// the line index. The word position under the pointer is preserved; the line
// pointer relocates to whichever new line covers it, falling back to the
// start of the section if the position no longer exists. A reflow at the
// current width is a no-op.
func (s *SectionCursor) Reflow(width int) error {
	if width == s.width {
		return nil
	}
	content, err := s.render(s.raw, width)
	if err != nil {
		return err
	}
	word := s.wordIdx
	s.width = width
	s.reindex(content)
	s.SeekWord(word)
	return nil
}
