package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/skimreader/skim/internal/cursor"
)

const (
	minWPM  = 100
	maxWPM  = 1500
	stepWPM = 50
)

var (
	orpStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF0000"))

	wordStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	readWordStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color("#FFDD66"))

	dimLineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Padding(0, 1)

	controlsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true)

	pausedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFAA00")).
			Bold(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF8888"))

	tocStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#999999"))

	tocActiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true)

	tocSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#000000")).
				Background(lipgloss.Color("#FFAA00"))
)

type keyMap struct {
	Quit        key.Binding
	Pause       key.Binding
	PrevWord    key.Binding
	NextWord    key.Binding
	PrevLine    key.Binding
	NextLine    key.Binding
	PrevSection key.Binding
	NextSection key.Binding
	Faster      key.Binding
	Slower      key.Binding
	TOC         key.Binding
	TOCUp       key.Binding
	TOCDown     key.Binding
	TOCSelect   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c")),
		Pause:       key.NewBinding(key.WithKeys(" ")),
		PrevWord:    key.NewBinding(key.WithKeys("left")),
		NextWord:    key.NewBinding(key.WithKeys("right")),
		PrevLine:    key.NewBinding(key.WithKeys("up")),
		NextLine:    key.NewBinding(key.WithKeys("down")),
		PrevSection: key.NewBinding(key.WithKeys("pgup", "[")),
		NextSection: key.NewBinding(key.WithKeys("pgdown", "]")),
		Faster:      key.NewBinding(key.WithKeys("+", "=")),
		Slower:      key.NewBinding(key.WithKeys("-")),
		TOC:         key.NewBinding(key.WithKeys("t")),
		TOCUp:       key.NewBinding(key.WithKeys("w", "k")),
		TOCDown:     key.NewBinding(key.WithKeys("s", "j")),
		TOCSelect:   key.NewBinding(key.WithKeys("enter")),
	}
}

type model struct {
	cursor   *cursor.DocumentCursor
	keys     keyMap
	policy   cursor.Policy
	stateDir string

	wpm      int
	paused   bool
	showTOC  bool
	tocSel   int
	width    int
	height   int
	notice   string
	quitting bool
}

type tickMsg time.Time

func newModel(c *cursor.DocumentCursor, wpm int, policy cursor.Policy, stateDir string) model {
	return model{
		cursor:   c,
		keys:     defaultKeyMap(),
		policy:   policy,
		stateDir: stateDir,
		wpm:      wpm,
		paused:   true,
		width:    80,
		height:   24,
	}
}

func (m model) delay() time.Duration {
	return time.Duration(60.0/float64(m.wpm)*1000) * time.Millisecond
}

func (m model) Init() tea.Cmd {
	return tick(m.delay())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		if m.paused {
			return m, nil
		}
		m.advanceWord()
		if m.paused {
			return m, nil
		}
		return m, tick(m.delay())
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.saveState()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
		if !m.paused {
			m.notice = ""
			return m, tick(m.delay())
		}
		return m, nil

	case key.Matches(msg, m.keys.Faster):
		if m.wpm < maxWPM {
			m.wpm += stepWPM
		}
		return m, nil

	case key.Matches(msg, m.keys.Slower):
		if m.wpm > minWPM {
			m.wpm -= stepWPM
		}
		return m, nil

	case key.Matches(msg, m.keys.NextWord):
		m.advanceWord()
		return m, nil

	case key.Matches(msg, m.keys.PrevWord):
		m.retreatWord()
		return m, nil

	case key.Matches(msg, m.keys.NextLine):
		if !m.cursor.CurrentSection().NextLine() {
			m.gotoAdjacentSection(+1)
		}
		return m, nil

	case key.Matches(msg, m.keys.PrevLine):
		if !m.cursor.CurrentSection().PrevLine() {
			m.gotoAdjacentSection(-1)
		}
		return m, nil

	case key.Matches(msg, m.keys.NextSection):
		m.gotoAdjacentSection(+1)
		return m, nil

	case key.Matches(msg, m.keys.PrevSection):
		m.gotoAdjacentSection(-1)
		return m, nil

	case key.Matches(msg, m.keys.TOC):
		m.showTOC = !m.showTOC
		if m.showTOC {
			m.paused = true
			if path := m.cursor.TOCPath(); len(path) > 0 {
				m.tocSel = path[len(path)-1]
			}
		}
		return m, nil

	case m.showTOC && key.Matches(msg, m.keys.TOCUp):
		if m.tocSel > 0 {
			m.tocSel--
		}
		return m, nil

	case m.showTOC && key.Matches(msg, m.keys.TOCDown):
		if m.tocSel < len(m.cursor.TOCItems())-1 {
			m.tocSel++
		}
		return m, nil

	case m.showTOC && key.Matches(msg, m.keys.TOCSelect):
		items := m.cursor.TOCItems()
		if m.tocSel >= 0 && m.tocSel < len(items) {
			if _, err := m.cursor.GotoSection(items[m.tocSel].Section); err != nil {
				m.setNotice(err)
			}
		}
		m.showTOC = false
		return m, nil
	}

	return m, nil
}

// advanceWord moves forward one word, crossing into the next section when
// the active section reports a boundary. Running out of document pauses
// playback rather than quitting.
func (m *model) advanceWord() {
	if m.cursor.CurrentSection().NextWord() {
		return
	}
	m.gotoAdjacentSection(+1)
}

func (m *model) retreatWord() {
	if m.cursor.CurrentSection().PrevWord() {
		return
	}
	m.gotoAdjacentSection(-1)
}

func (m *model) gotoAdjacentSection(dir int) {
	var (
		ok  bool
		err error
	)
	if dir > 0 {
		ok, err = m.cursor.NextSection()
	} else {
		ok, err = m.cursor.PrevSection()
	}
	if err != nil {
		m.setNotice(err)
		return
	}
	if !ok {
		m.paused = true
		if dir > 0 {
			m.notice = "End of document"
		} else {
			m.notice = "Start of document"
		}
	}
}

func (m *model) setNotice(err error) {
	m.paused = true
	m.notice = err.Error()
	log.Warn().Err(err).Msg("navigation failed")
}

func (m *model) saveState() {
	pos := m.cursor.DocState()
	if err := pos.Store(m.stateDir); err != nil {
		log.Warn().Err(err).Str("dir", m.stateDir).Msg("failed to save reading position")
	}
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	tocWidth := 0
	if m.showTOC {
		tocWidth = m.width / 4
	}
	contentWidth := m.width - tocWidth - 2
	if contentWidth < 1 {
		contentWidth = 1
	}

	section := m.cursor.CurrentSectionOrResize(contentWidth)

	banner := m.wordBanner(section)
	body := m.contentPane(section, contentWidth)
	if m.showTOC {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.tocPane(tocWidth), " ", body)
	}

	var sb strings.Builder
	sb.WriteString(banner)
	sb.WriteString("\n\n")
	sb.WriteString(body)
	sb.WriteString("\n")
	sb.WriteString(m.statusBar(section))
	sb.WriteString("\n")
	sb.WriteString(controlsStyle.Render("SPACE pause  ←/→ word  ↑/↓ line  PgUp/PgDn section  T contents  +/- speed  Q quit"))
	return sb.String()
}

// wordBanner renders the current word anchored on its optimal recognition
// point at the horizontal center of the display.
func (m model) wordBanner(section *cursor.SectionCursor) string {
	word, ok := section.CurrentWord()
	if !ok {
		return ""
	}
	return anchorORPText(formatWord(word), word, m.width)
}

// contentPane shows the section's lines around the cursor with the current
// word highlighted in place, the way the text will read after the reflow.
func (m model) contentPane(section *cursor.SectionCursor, width int) string {
	lines := section.Lines()
	if len(lines) == 0 {
		return dimLineStyle.Render("(empty section)")
	}

	avail := m.height - 6
	if avail < 3 {
		avail = 3
	}
	start := section.LineIndex() - 3
	if start < 0 {
		start = 0
	}

	var out []string
	for _, line := range lines[start:] {
		if len(out) >= avail {
			break
		}
		if line.Index == section.LineIndex() {
			offset := section.WordIndex() - line.FirstWord()
			out = append(out, highlightWord(line.Text, offset, m.policy))
		} else {
			out = append(out, dimLineStyle.Render(strings.TrimSpace(line.Text)))
		}
	}
	return strings.Join(out, "\n")
}

// highlightWord re-renders a line with its offset-th indexed token marked.
func highlightWord(text string, offset int, policy cursor.Policy) string {
	fields := strings.Fields(text)
	indexed := 0
	for i, f := range fields {
		if !policy.Indexes(f) {
			continue
		}
		if indexed == offset {
			fields[i] = readWordStyle.Render(f)
			break
		}
		indexed++
	}
	return strings.Join(fields, " ")
}

func (m model) tocPane(width int) string {
	items := m.cursor.TOCItems()
	if len(items) == 0 {
		return tocStyle.Render("(no contents)")
	}

	active := -1
	if path := m.cursor.TOCPath(); len(path) > 0 {
		active = path[len(path)-1]
	}

	var out []string
	for i, item := range items {
		label := strings.Repeat("  ", item.Depth) + item.Label
		if runes := []rune(label); len(runes) > width && width > 1 {
			label = string(runes[:width-1]) + "…"
		}
		switch i {
		case m.tocSel:
			label = tocSelectedStyle.Render(label)
		case active:
			label = tocActiveStyle.Render(label)
		default:
			label = tocStyle.Render(label)
		}
		out = append(out, label)
	}
	return strings.Join(out, "\n")
}

func (m model) statusBar(section *cursor.SectionCursor) string {
	pause := ""
	if m.paused {
		pause = pausedStyle.Render(" [PAUSED]")
	}
	notice := ""
	if m.notice != "" {
		notice = noticeStyle.Render("  " + m.notice)
	}
	// A document or section with nothing in it has no ordinal position.
	sectionNum := m.cursor.SectionIndex() + 1
	if m.cursor.SectionCount() == 0 {
		sectionNum = 0
	}
	wordNum := section.WordIndex() + 1
	if section.WordCount() == 0 {
		wordNum = 0
	}
	return statusStyle.Render(fmt.Sprintf(
		"Section %d/%d | Word %d/%d | %d WPM%s%s",
		sectionNum,
		m.cursor.SectionCount(),
		wordNum,
		section.WordCount(),
		m.wpm,
		pause,
		notice,
	))
}

// orpIndex returns the Optimal Recognition Point of a word: the rune the
// eye should fixate on for fastest recognition.
func orpIndex(word string) int {
	length := len([]rune(word))
	if length <= 1 {
		return 0
	} else if length <= 5 {
		return 1
	}
	return length / 3
}

func formatWord(word string) string {
	runes := []rune(word)
	if len(runes) == 0 {
		return ""
	}
	orp := orpIndex(word)

	return wordStyle.Render(string(runes[:orp])) +
		orpStyle.Render(string(runes[orp])) +
		wordStyle.Render(string(runes[orp+1:]))
}

func anchorORPText(text string, word string, width int) string {
	anchor := width / 2
	pad := anchor - orpIndex(word)
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + text
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
