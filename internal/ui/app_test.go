package ui

import (
	"testing"
	"time"

	"github.com/johnwakley/hn/internal/config"
	"github.com/johnwakley/hn/internal/hn"
	"github.com/johnwakley/hn/internal/stream"
)

// TestAppModelSmoke verifies the model constructs with its critical
// fields wired. A full lifecycle test would need a terminal.
func TestAppModelSmoke(t *testing.T) {
	cfg := config.DefaultConfig()
	m := New(nil, cfg)

	if !m.loading {
		t.Error("model should start in loading state")
	}
	if m.ctx == nil || m.cancel == nil {
		t.Error("root context not initialized")
	}

	// Compile-time field checks.
	_ = m.list
	_ = m.comments
	_ = m.streamGen
}

func TestStoryListSelection(t *testing.T) {
	var l storyList
	l.SetSize(80, 10)
	l.SetStories([]hn.Story{{ID: 1, Title: "one"}, {ID: 2, Title: "two"}})

	s, ok := l.Selected()
	if !ok || s.ID != 1 {
		t.Errorf("expected first story selected, got %+v ok=%v", s, ok)
	}
}

func TestStoryListCursorClamp(t *testing.T) {
	var l storyList
	l.SetSize(80, 10)
	l.SetStories([]hn.Story{{ID: 1}, {ID: 2}, {ID: 3}})
	l.cursor = 2

	// Shrinking the list pulls the cursor back into range.
	l.SetStories([]hn.Story{{ID: 1}})
	if l.cursor != 0 {
		t.Errorf("cursor not clamped: %d", l.cursor)
	}

	l.SetStories(nil)
	if _, ok := l.Selected(); ok {
		t.Error("empty list should have no selection")
	}
}

func TestStaleStreamEventsIgnored(t *testing.T) {
	cfg := config.DefaultConfig()
	m := New(nil, cfg)
	m.comments.SetStory(hn.Story{ID: 100, Kids: []int{1}})
	m.streamGen = 2

	ev := stream.Event{Kind: stream.NodeReady, ID: 1, Parent: 100, Index: 0,
		Comment: hn.Comment{ID: 1, By: "alice"}}

	// An event from a cancelled run carries the old generation and
	// must never reach the tree.
	um, _ := m.Update(streamEventMsg{gen: 1, ev: ev})
	m = um.(Model)
	if m.comments.tree.ready != 0 {
		t.Error("stale stream event reached the comment tree")
	}

	// The live generation still applies.
	um, _ = m.Update(streamEventMsg{gen: 2, ev: ev})
	m = um.(Model)
	if m.comments.tree.ready != 1 {
		t.Error("current-generation event was dropped")
	}
}

func TestFormatAge(t *testing.T) {
	if got := formatAge(time.Time{}); got != "unknown" {
		t.Errorf("zero time should format as unknown, got %q", got)
	}
}
