package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("208") // HN orange
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("215") // Light orange
	colorError     = lipgloss.Color("196") // Red
)

// selectedItemStyle for the currently highlighted story.
var selectedItemStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// normalItemStyle for unselected stories.
var normalItemStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Padding(0, 1)

// metaStyle for scores, authors, and ages.
var metaStyle = lipgloss.NewStyle().
	Foreground(colorSecondary)

// headerStyle for the top bar.
var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorPrimary)

// statusBarStyle for the bottom status bar.
var statusBarStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// paneBorderStyle frames the comment pane.
var paneBorderStyle = lipgloss.NewStyle().
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(colorMuted).
	PaddingLeft(1)

// commentAuthorStyle for comment author lines.
var commentAuthorStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)

// commentDeadStyle for deleted and dead comments.
var commentDeadStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Italic(true)

// errorStyle for error states and failed-subtree markers.
var errorStyle = lipgloss.NewStyle().
	Foreground(colorError).
	Bold(true)

// helpStyle for key hints.
var helpStyle = lipgloss.NewStyle().
	Foreground(colorMuted)
