package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"

	"github.com/johnwakley/hn/internal/hn"
	"github.com/johnwakley/hn/internal/stream"
)

// commentNode is one slot in the assembled tree. Slots exist as soon as
// their parent resolves; they fill in as stream events arrive.
type commentNode struct {
	comment  hn.Comment
	ready    bool
	failed   bool
	err      error
	children []*commentNode // sized by the parent's declared kid count
}

// commentTree reassembles stream events into the story's tree. Events
// arrive breadth-first but display order is depth-first, so nodes land
// in pre-allocated (parent, index) slots and rendering walks the tree.
type commentTree struct {
	storyID int
	nodes   map[int]*commentNode // by comment ID, for parent lookup
	roots   []*commentNode
	done    bool
	ready   int // nodes resolved so far
	failed  int
}

func newCommentTree(story hn.Story) *commentTree {
	return &commentTree{
		storyID: story.ID,
		nodes:   make(map[int]*commentNode),
		roots:   make([]*commentNode, len(story.Kids)),
	}
}

// Apply folds one stream event into the tree.
func (t *commentTree) Apply(ev stream.Event) {
	switch ev.Kind {
	case stream.Complete:
		t.done = true
		return
	case stream.NodeReady:
		node := &commentNode{
			comment:  ev.Comment,
			ready:    true,
			children: make([]*commentNode, len(ev.Comment.Kids)),
		}
		t.nodes[ev.ID] = node
		t.place(ev, node)
		t.ready++
	case stream.SubtreeFailed:
		t.place(ev, &commentNode{failed: true, err: ev.Err})
		t.failed++
	}
}

func (t *commentTree) place(ev stream.Event, node *commentNode) {
	if ev.Parent == t.storyID {
		if ev.Index >= 0 && ev.Index < len(t.roots) {
			t.roots[ev.Index] = node
		}
		return
	}
	if parent, ok := t.nodes[ev.Parent]; ok {
		if ev.Index >= 0 && ev.Index < len(parent.children) {
			parent.children[ev.Index] = node
		}
	}
}

// render walks the tree depth-first into indented terminal lines.
func (t *commentTree) render(width int) string {
	var b strings.Builder
	for _, root := range t.roots {
		renderNode(&b, root, 0, width)
	}
	return b.String()
}

const indentStep = 2

func renderNode(b *strings.Builder, n *commentNode, depth, width int) {
	indent := strings.Repeat(" ", depth*indentStep)
	bodyWidth := max(16, width-depth*indentStep)

	switch {
	case n == nil:
		// Still in flight; the slot fills when its event arrives.
		b.WriteString(indent + helpStyle.Render("…") + "\n")
		return
	case n.failed:
		b.WriteString(indent + errorStyle.Render(fmt.Sprintf("[unavailable: %v]", n.err)) + "\n")
		return
	case n.comment.Deleted || n.comment.Dead:
		b.WriteString(indent + commentDeadStyle.Render("[deleted]") + "\n")
	default:
		b.WriteString(indent + commentAuthorStyle.Render(n.comment.By) +
			" " + metaStyle.Render(formatAge(n.comment.Time)) + "\n")
		for _, line := range wrap(renderHTML(n.comment.Text), bodyWidth) {
			b.WriteString(indent + line + "\n")
		}
	}
	b.WriteString("\n")

	for _, child := range n.children {
		renderNode(b, child, depth+1, width)
	}
}

// commentPane is the right pane: the assembled tree inside a scrolling
// viewport.
type commentPane struct {
	tree     *commentTree
	story    hn.Story
	hasStory bool
	vp       viewport.Model
	width    int
	height   int
}

func newCommentPane() commentPane {
	return commentPane{vp: viewport.New(0, 0)}
}

// SetStory resets the pane for a newly selected story.
func (p *commentPane) SetStory(story hn.Story) {
	p.story = story
	p.hasStory = true
	p.tree = newCommentTree(story)
	p.vp.GotoTop()
	p.refresh()
}

// Apply folds a stream event in and re-renders.
func (p *commentPane) Apply(ev stream.Event) {
	if p.tree == nil {
		return
	}
	p.tree.Apply(ev)
	p.refresh()
}

// SetSize updates the pane dimensions.
func (p *commentPane) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.vp.Width = width
	p.vp.Height = height
	p.refresh()
}

// Progress reports resolved nodes against the story's descendant count.
func (p *commentPane) Progress() (got, total int, done bool) {
	if p.tree == nil {
		return 0, 0, false
	}
	return p.tree.ready + p.tree.failed, p.story.Descendants, p.tree.done
}

func (p *commentPane) refresh() {
	if !p.hasStory || p.width <= 0 {
		return
	}
	var b strings.Builder

	b.WriteString(headerStyle.Render(truncate(p.story.Title, p.width)) + "\n")
	b.WriteString(metaStyle.Render(truncate(p.story.Link(), p.width)) + "\n\n")
	if p.story.Text != "" {
		for _, line := range wrap(renderHTML(p.story.Text), p.width) {
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(p.tree.render(p.width))

	p.vp.SetContent(b.String())
}

// View renders the pane.
func (p *commentPane) View() string {
	if !p.hasStory {
		return helpStyle.Render("  Select a story to load comments.")
	}
	return p.vp.View()
}
