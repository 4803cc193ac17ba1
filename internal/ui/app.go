// Package ui is the terminal surface: a split-pane bubbletea app with
// the top-story list on the left and the selected story's comment tree
// on the right.
//
// The UI never blocks on network I/O. Story loads run as tea.Cmds and
// comment trees arrive incrementally from the stream pipeline over a
// channel; selecting a new story cancels the previous pipeline before
// starting the next one.
package ui

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/johnwakley/hn/internal/config"
	"github.com/johnwakley/hn/internal/hn"
	"github.com/johnwakley/hn/internal/logging"
	"github.com/johnwakley/hn/internal/stream"
)

// Model is the root Bubble Tea model.
type Model struct {
	client *hn.Client
	cfg    *config.Config

	list     storyList
	comments commentPane

	// Stream state. gen guards against events from a cancelled run
	// reaching the tree after a new selection.
	streamCancel context.CancelFunc
	streamCh     <-chan stream.Event
	streamGen    int

	// UI state
	width     int
	height    int
	spinner   spinner.Model
	loading   bool
	statusMsg string
	loadErr   error

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates the app model.
func New(client *hn.Client, cfg *config.Config) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorPrimary)

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		client:    client,
		cfg:       cfg,
		comments:  newCommentPane(),
		spinner:   s,
		loading:   true,
		statusMsg: "Loading top stories...",
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Message types for tea.Cmd.
type storiesMsg []hn.Story
type storiesErrMsg struct{ err error }
type streamEventMsg struct {
	gen int
	ev  stream.Event
}
type streamClosedMsg struct{ gen int }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadStories())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.stopStream()
			m.cancel()
			return m, tea.Quit
		case key.Matches(msg, keys.Refresh):
			m.loading = true
			m.loadErr = nil
			m.statusMsg = "Refreshing..."
			cmds = append(cmds, m.loadStories())
		case key.Matches(msg, keys.Open):
			if story, ok := m.list.Selected(); ok {
				if err := openURL(story.Link()); err != nil {
					m.statusMsg = fmt.Sprintf("Open failed: %v", err)
				}
			}
		case key.Matches(msg, keys.Comments):
			if story, ok := m.list.Selected(); ok {
				if err := openURL(story.CommentsURL()); err != nil {
					m.statusMsg = fmt.Sprintf("Open failed: %v", err)
				}
			}
		case key.Matches(msg, keys.ScrollUp):
			m.comments.vp.SetYOffset(m.comments.vp.YOffset - 3)
		case key.Matches(msg, keys.ScrollDown):
			m.comments.vp.SetYOffset(m.comments.vp.YOffset + 3)
		default:
			if m.list.Update(msg) {
				cmds = append(cmds, m.selectStory())
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case storiesMsg:
		m.loading = false
		m.loadErr = nil
		m.list.SetStories(msg)
		m.statusMsg = fmt.Sprintf("%d stories", len(msg))
		cmds = append(cmds, m.selectStory())

	case storiesErrMsg:
		m.loading = false
		m.loadErr = msg.err
		m.statusMsg = "Load failed. Press r to retry."
		logging.Error("Top stories load failed", "err", msg.err)

	case streamEventMsg:
		if msg.gen == m.streamGen {
			m.comments.Apply(msg.ev)
			m.updateStreamStatus()
			cmds = append(cmds, m.listenStream(msg.gen))
		}

	case streamClosedMsg:
		// Pipeline exited; nothing further to listen for.
	}

	return m, tea.Batch(cmds...)
}

// selectStory cancels any running pipeline and starts one for the
// story under the cursor.
func (m *Model) selectStory() tea.Cmd {
	story, ok := m.list.Selected()
	if !ok {
		return nil
	}

	m.stopStream()
	m.streamGen++
	m.comments.SetStory(story)

	ctx, cancel := context.WithCancel(m.ctx)
	m.streamCancel = cancel
	m.streamCh = stream.Comments(ctx, m.client, story, stream.Options{Buffer: m.cfg.StreamBuffer})
	m.updateStreamStatus()
	return m.listenStream(m.streamGen)
}

func (m *Model) stopStream() {
	if m.streamCancel != nil {
		m.streamCancel()
		m.streamCancel = nil
	}
}

// listenStream waits for the next pipeline event.
func (m Model) listenStream(gen int) tea.Cmd {
	ch := m.streamCh
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return streamClosedMsg{gen: gen}
		}
		return streamEventMsg{gen: gen, ev: ev}
	}
}

func (m *Model) updateStreamStatus() {
	got, total, done := m.comments.Progress()
	switch {
	case done:
		m.statusMsg = fmt.Sprintf("%d comments", got)
	case total > 0:
		m.statusMsg = fmt.Sprintf("Loading comments %d/%d", got, total)
	default:
		m.statusMsg = "Loading comments..."
	}
}

// loadStories fetches the ranked story list in the background.
func (m Model) loadStories() tea.Cmd {
	client, ctx, limit := m.client, m.ctx, m.cfg.StoryLimit
	return func() tea.Msg {
		stories, err := client.TopStories(ctx, limit)
		if err != nil {
			return storiesErrMsg{err: err}
		}
		return storiesMsg(stories)
	}
}

func (m *Model) layout() {
	contentHeight := max(1, m.height-3) // header + status bar
	listWidth := m.width * 2 / 5
	if listWidth < 30 {
		listWidth = min(30, m.width)
	}
	m.list.SetSize(listWidth, contentHeight)
	m.comments.SetSize(max(1, m.width-listWidth-3), contentHeight)
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if m.loadErr != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("  Error: %v", m.loadErr)))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("  Press r to retry, q to quit."))
	} else {
		left := lipgloss.NewStyle().Width(m.list.width).Height(m.list.height).Render(m.list.View())
		right := paneBorderStyle.Height(m.comments.height).Render(m.comments.View())
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m Model) renderHeader() string {
	title := headerStyle.Render("HACKER NEWS")
	right := ""
	if m.loading {
		right = m.spinner.View() + " " + m.statusMsg
	}
	padding := m.width - lipgloss.Width(title) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}
	return " " + title + strings.Repeat(" ", padding) + right
}

func (m Model) renderStatusBar() string {
	help := "j/k: navigate  J/K: scroll comments  o: open  c: discussion  r: refresh  q: quit"
	return statusBarStyle.Render(fmt.Sprintf("%s │ %s", m.statusMsg, help))
}

// openURL opens a link in the default browser.
func openURL(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}

// Key bindings
var keys = struct {
	Quit       key.Binding
	Refresh    key.Binding
	Open       key.Binding
	Comments   key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
}{
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c")),
	Refresh:    key.NewBinding(key.WithKeys("r")),
	Open:       key.NewBinding(key.WithKeys("o", "enter")),
	Comments:   key.NewBinding(key.WithKeys("c")),
	ScrollUp:   key.NewBinding(key.WithKeys("K", "pgup")),
	ScrollDown: key.NewBinding(key.WithKeys("J", "pgdown")),
}
