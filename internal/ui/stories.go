package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/johnwakley/hn/internal/hn"
)

// storyList is the left pane: a cursor/viewport list over the top
// stories. It renders what it is given and never fetches.
type storyList struct {
	stories  []hn.Story
	cursor   int
	width    int
	height   int
	viewport int // index of first visible story
}

// SetStories replaces the displayed stories.
func (m *storyList) SetStories(stories []hn.Story) {
	m.stories = stories
	if m.cursor >= len(stories) {
		m.cursor = max(0, len(stories)-1)
	}
}

// SetSize updates the pane dimensions.
func (m *storyList) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Selected returns the story under the cursor.
func (m *storyList) Selected() (hn.Story, bool) {
	if m.cursor >= 0 && m.cursor < len(m.stories) {
		return m.stories[m.cursor], true
	}
	return hn.Story{}, false
}

// Update handles navigation keys. Reports whether the selection moved
// so the root model can restart the comment stream.
func (m *storyList) Update(msg tea.KeyMsg) bool {
	before := m.cursor
	switch {
	case key.Matches(msg, listKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, listKeys.Down):
		if m.cursor < len(m.stories)-1 {
			m.cursor++
		}
	case key.Matches(msg, listKeys.Home):
		m.cursor = 0
	case key.Matches(msg, listKeys.End):
		if len(m.stories) > 0 {
			m.cursor = len(m.stories) - 1
		}
	}
	m.ensureCursorVisible()
	return m.cursor != before
}

func (m *storyList) ensureCursorVisible() {
	visible := m.visibleLines()
	if visible <= 0 {
		return
	}
	if m.cursor < m.viewport {
		m.viewport = m.cursor
	}
	if m.cursor >= m.viewport+visible {
		m.viewport = m.cursor - visible + 1
	}
}

func (m *storyList) visibleLines() int {
	return max(1, m.height)
}

// View renders the story list.
func (m *storyList) View() string {
	if len(m.stories) == 0 {
		return helpStyle.Render("  No stories yet.")
	}

	var b strings.Builder
	end := min(m.viewport+m.visibleLines(), len(m.stories))
	for i := m.viewport; i < end; i++ {
		b.WriteString(m.renderStory(i, m.stories[i], i == m.cursor))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *storyList) renderStory(rank int, s hn.Story, selected bool) string {
	meta := fmt.Sprintf("%d pts by %s, %s", s.Score, s.By, formatAge(s.Time))
	line := fmt.Sprintf("%2d. %s", rank+1, s.Title)

	// Meta goes on the same line when it fits, otherwise title wins.
	avail := m.width - 4
	line = truncate(line, avail)

	if selected {
		return selectedItemStyle.Width(m.width).Render(line)
	}
	rest := avail - runewidth.StringWidth(line) - 2
	if rest > 8 {
		return normalItemStyle.Render(line) + "  " + metaStyle.Render(truncate(meta, rest))
	}
	return normalItemStyle.Render(line)
}

// formatAge returns a human-readable age string.
func formatAge(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// Key bindings for the list pane.
var listKeys = struct {
	Up   key.Binding
	Down key.Binding
	Home key.Binding
	End  key.Binding
}{
	Up:   key.NewBinding(key.WithKeys("up", "k")),
	Down: key.NewBinding(key.WithKeys("down", "j")),
	Home: key.NewBinding(key.WithKeys("home", "g")),
	End:  key.NewBinding(key.WithKeys("end", "G")),
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
