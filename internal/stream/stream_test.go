package stream

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/johnwakley/hn/internal/hn"
)

// fakeFetcher resolves ids from a fixed tree. It mimics the client's
// FetchMany contract: one outcome per distinct id, failures isolated.
type fakeFetcher struct {
	mu       sync.Mutex
	comments map[int]hn.Comment
	failing  map[int]error
	batches  [][]int
	delay    time.Duration
}

func (f *fakeFetcher) FetchMany(ctx context.Context, ids []int) map[int]hn.Result {
	f.mu.Lock()
	batch := make([]int, len(ids))
	copy(batch, ids)
	f.batches = append(f.batches, batch)
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	out := make(map[int]hn.Result, len(ids))
	for _, id := range ids {
		if _, ok := out[id]; ok {
			continue
		}
		if err, ok := f.failing[id]; ok {
			out[id] = hn.Result{Err: err}
		} else if c, ok := f.comments[id]; ok {
			out[id] = hn.Result{Comment: c}
		} else {
			out[id] = hn.Result{Err: hn.ErrNotFound}
		}
	}
	return out
}

func (f *fakeFetcher) batchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.batches)
}

func collect(t *testing.T, ch <-chan Event) []Event {
	t.Helper()
	var events []Event
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return events
			}
			events = append(events, ev)
		case <-timeout:
			t.Fatal("timed out draining event channel")
		}
	}
}

func TestBreadthFirstDeclaredOrder(t *testing.T) {
	// story -> [c1, c2]; c1 -> [g1]; c2 -> [].
	f := &fakeFetcher{comments: map[int]hn.Comment{
		1: {ID: 1, By: "a", Kids: []int{3}},
		2: {ID: 2, By: "b"},
		3: {ID: 3, By: "c"},
	}}
	story := hn.Story{ID: 100, Kids: []int{1, 2}}

	events := collect(t, Comments(context.Background(), f, story, Options{}))

	want := []struct {
		kind Kind
		id   int
	}{
		{NodeReady, 1},
		{NodeReady, 2},
		{NodeReady, 3},
		{Complete, 0},
	}
	if len(events) != len(want) {
		t.Fatalf("expected %d events, got %d: %+v", len(want), len(events), events)
	}
	for i, w := range want {
		if events[i].Kind != w.kind || events[i].ID != w.id {
			t.Errorf("event %d: got kind=%v id=%d, want kind=%v id=%d",
				i, events[i].Kind, events[i].ID, w.kind, w.id)
		}
	}

	// g1 is attributed to its parent c1 at index 0.
	if events[2].Parent != 1 || events[2].Index != 0 {
		t.Errorf("g1 placement: parent=%d index=%d", events[2].Parent, events[2].Index)
	}
}

func TestEmptyTreeCompletesImmediately(t *testing.T) {
	f := &fakeFetcher{}
	story := hn.Story{ID: 100}

	events := collect(t, Comments(context.Background(), f, story, Options{}))
	if len(events) != 1 || events[0].Kind != Complete {
		t.Fatalf("expected lone Complete, got %+v", events)
	}
	if f.batchCount() != 0 {
		t.Errorf("no fetches expected for an empty tree, got %d batches", f.batchCount())
	}
}

func TestFailedSubtreeNeverDescends(t *testing.T) {
	// c1 fails; its child g1 must never be requested.
	f := &fakeFetcher{
		comments: map[int]hn.Comment{
			2: {ID: 2, By: "b"},
			3: {ID: 3, By: "g1-should-not-appear"},
		},
		failing: map[int]error{1: errors.New("boom")},
	}
	story := hn.Story{ID: 100, Kids: []int{1, 2}}

	events := collect(t, Comments(context.Background(), f, story, Options{}))

	var sawFailed, sawOrphan bool
	for _, ev := range events {
		if ev.Kind == SubtreeFailed && ev.ID == 1 {
			sawFailed = true
		}
		if ev.Kind == NodeReady && ev.ID == 3 {
			sawOrphan = true
		}
	}
	if !sawFailed {
		t.Error("expected SubtreeFailed for id 1")
	}
	if sawOrphan {
		t.Error("descendant of a failed subtree was emitted")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, batch := range f.batches {
		for _, id := range batch {
			if id == 3 {
				t.Error("descendant of a failed subtree was fetched")
			}
		}
	}
}

func TestCancellationStopsEmission(t *testing.T) {
	// A deep chain with slow batches so cancellation lands mid-run.
	comments := map[int]hn.Comment{}
	for i := 1; i <= 50; i++ {
		c := hn.Comment{ID: i}
		if i < 50 {
			c.Kids = []int{i + 1}
		}
		comments[i] = c
	}
	f := &fakeFetcher{comments: comments, delay: 20 * time.Millisecond}
	story := hn.Story{ID: 100, Kids: []int{1}}

	ctx, cancel := context.WithCancel(context.Background())
	ch := Comments(ctx, f, story, Options{Buffer: 1})

	// Read a couple of events, then cancel.
	<-ch
	<-ch
	cancel()

	// Drain: the channel must close within a bounded window, and any
	// residue is limited to events emitted before the cancel landed.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("pipeline did not stop after cancellation")
		}
	}
}

func TestConsumerSeesNothingAfterCancel(t *testing.T) {
	// Deep chain with a small buffer so residue is queued when the
	// cancel lands.
	comments := map[int]hn.Comment{}
	for i := 1; i <= 30; i++ {
		c := hn.Comment{ID: i}
		if i < 30 {
			c.Kids = []int{i + 1}
		}
		comments[i] = c
	}
	f := &fakeFetcher{comments: comments, delay: 5 * time.Millisecond}
	story := hn.Story{ID: 100, Kids: []int{1}}

	ctx, cancel := context.WithCancel(context.Background())
	ch := Comments(ctx, f, story, Options{Buffer: 8})

	<-ch
	<-ch
	cancel()

	// Every surface gates deliveries on the run's context; queued
	// residue must never get through that gate.
	delivered := 0
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				if delivered != 0 {
					t.Errorf("%d events delivered after cancellation", delivered)
				}
				return
			}
			if ctx.Err() == nil {
				delivered++
			}
		case <-deadline:
			t.Fatal("pipeline did not close after cancellation")
		}
	}
}

func TestCancelledContextEmitsNothing(t *testing.T) {
	f := &fakeFetcher{comments: map[int]hn.Comment{1: {ID: 1}}}
	story := hn.Story{ID: 100, Kids: []int{1}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	events := collect(t, Comments(ctx, f, story, Options{}))
	if len(events) != 0 {
		t.Errorf("expected no events on a pre-cancelled context, got %+v", events)
	}
}

func TestBackpressureDropsNothing(t *testing.T) {
	// 40 comments through a buffer of 2 with a slow consumer: every
	// node must still arrive.
	comments := map[int]hn.Comment{}
	kids := make([]int, 40)
	for i := range kids {
		id := i + 1
		kids[i] = id
		comments[id] = hn.Comment{ID: id}
	}
	f := &fakeFetcher{comments: comments}
	story := hn.Story{ID: 100, Kids: kids}

	ch := Comments(context.Background(), f, story, Options{Buffer: 2})

	var got []Event
	for ev := range ch {
		time.Sleep(time.Millisecond)
		got = append(got, ev)
	}

	ready := 0
	for _, ev := range got {
		if ev.Kind == NodeReady {
			ready++
		}
	}
	if ready != 40 {
		t.Errorf("expected all 40 nodes despite slow consumer, got %d", ready)
	}
	if got[len(got)-1].Kind != Complete {
		t.Error("expected Complete as the final event")
	}
}

func TestSiblingOrderWithinParentPreserved(t *testing.T) {
	f := &fakeFetcher{comments: map[int]hn.Comment{
		1: {ID: 1, Kids: []int{10, 11, 12}},
		10: {ID: 10}, 11: {ID: 11}, 12: {ID: 12},
	}}
	story := hn.Story{ID: 100, Kids: []int{1}}

	events := collect(t, Comments(context.Background(), f, story, Options{}))

	var siblings []Event
	for _, ev := range events {
		if ev.Kind == NodeReady && ev.Parent == 1 {
			siblings = append(siblings, ev)
		}
	}
	if len(siblings) != 3 {
		t.Fatalf("expected 3 siblings, got %d", len(siblings))
	}
	for i, ev := range siblings {
		if ev.Index != i || ev.ID != 10+i {
			t.Errorf("sibling %d out of order: id=%d index=%d", i, ev.ID, ev.Index)
		}
	}
}
