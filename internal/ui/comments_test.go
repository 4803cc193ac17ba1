package ui

import (
	"strings"
	"testing"

	"github.com/johnwakley/hn/internal/hn"
	"github.com/johnwakley/hn/internal/stream"
)

func TestCommentTreeAssemblesDepthFirst(t *testing.T) {
	story := hn.Story{ID: 100, Kids: []int{1, 2}}
	tree := newCommentTree(story)

	// Events arrive breadth-first.
	tree.Apply(stream.Event{Kind: stream.NodeReady, ID: 1, Parent: 100, Index: 0,
		Comment: hn.Comment{ID: 1, By: "alice", Text: "top one", Kids: []int{3}}})
	tree.Apply(stream.Event{Kind: stream.NodeReady, ID: 2, Parent: 100, Index: 1,
		Comment: hn.Comment{ID: 2, By: "bob", Text: "top two"}})
	tree.Apply(stream.Event{Kind: stream.NodeReady, ID: 3, Parent: 1, Index: 0,
		Comment: hn.Comment{ID: 3, By: "carol", Text: "reply to one"}})
	tree.Apply(stream.Event{Kind: stream.Complete})

	out := tree.render(80)

	// Display is depth-first: carol's reply sits between alice and bob.
	alice := strings.Index(out, "alice")
	carol := strings.Index(out, "carol")
	bob := strings.Index(out, "bob")
	if alice < 0 || carol < 0 || bob < 0 {
		t.Fatalf("missing authors in render: %q", out)
	}
	if !(alice < carol && carol < bob) {
		t.Errorf("depth-first order violated: alice=%d carol=%d bob=%d", alice, carol, bob)
	}
	if !tree.done {
		t.Error("Complete event should mark the tree done")
	}
}

func TestCommentTreeFailedSubtreeMarker(t *testing.T) {
	story := hn.Story{ID: 100, Kids: []int{1}}
	tree := newCommentTree(story)
	tree.Apply(stream.Event{Kind: stream.SubtreeFailed, ID: 1, Parent: 100, Index: 0,
		Err: hn.ErrNotFound})

	out := tree.render(80)
	if !strings.Contains(out, "unavailable") {
		t.Errorf("expected inline failure marker, got %q", out)
	}
}

func TestCommentTreeDeletedComment(t *testing.T) {
	story := hn.Story{ID: 100, Kids: []int{1}}
	tree := newCommentTree(story)
	tree.Apply(stream.Event{Kind: stream.NodeReady, ID: 1, Parent: 100, Index: 0,
		Comment: hn.Comment{ID: 1, Deleted: true}})

	out := tree.render(80)
	if !strings.Contains(out, "[deleted]") {
		t.Errorf("expected deleted marker, got %q", out)
	}
}

func TestCommentTreePendingSlot(t *testing.T) {
	story := hn.Story{ID: 100, Kids: []int{1, 2}}
	tree := newCommentTree(story)
	tree.Apply(stream.Event{Kind: stream.NodeReady, ID: 1, Parent: 100, Index: 0,
		Comment: hn.Comment{ID: 1, By: "alice", Text: "here"}})

	// Slot for id 2 has no event yet; render must not panic and the
	// progress count reflects only resolved nodes.
	_ = tree.render(80)
	if tree.ready != 1 {
		t.Errorf("expected 1 ready node, got %d", tree.ready)
	}
}
