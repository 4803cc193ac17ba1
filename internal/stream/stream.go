// Package stream resolves a story's comment tree in the background and
// delivers nodes to a consumer over a bounded channel.
//
// The traversal is breadth-first. Concurrency inside a batch affects
// when fetches complete, never the order events surface: each level is
// emitted in the parents' declared child order. Context cancellation is
// the only stop mechanism; after cancellation no further events are
// delivered and the producer exits within one batch cycle.
package stream

import (
	"context"

	"github.com/johnwakley/hn/internal/hn"
	"github.com/johnwakley/hn/internal/logging"
)

// DefaultBuffer is the event channel capacity. A consumer slower than
// production suspends the producer; events are never dropped.
const DefaultBuffer = 64

// Kind tags a stream event.
type Kind int

const (
	// NodeReady carries one resolved comment.
	NodeReady Kind = iota
	// SubtreeFailed marks a comment that could not be fetched. Its
	// descendants are unknown and are never attempted.
	SubtreeFailed
	// Complete is the final event before the channel closes.
	Complete
)

// Event is one pipeline emission. Parent is the enclosing comment ID
// (the story ID for top-level comments) and Index the position among
// that parent's declared children.
type Event struct {
	Kind    Kind
	Comment hn.Comment // NodeReady only
	ID      int        // NodeReady and SubtreeFailed
	Parent  int
	Index   int
	Err     error // SubtreeFailed only
}

// BatchFetcher is the slice of the client the pipeline needs.
type BatchFetcher interface {
	FetchMany(ctx context.Context, ids []int) map[int]hn.Result
}

// Options tunes a pipeline run.
type Options struct {
	Buffer int // event channel capacity, DefaultBuffer if <= 0
}

// frontier entry: one comment ID awaiting resolution, with its place
// in the parent's child list.
type pending struct {
	id     int
	parent int
	index  int
}

// Comments starts resolving story's comment tree and returns the event
// channel. The channel is closed when the tree is exhausted or the
// context is cancelled; cancel the context before starting a run for a
// new selection so only one pipeline targets a story at a time.
func Comments(ctx context.Context, f BatchFetcher, story hn.Story, opts Options) <-chan Event {
	buffer := opts.Buffer
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	events := make(chan Event, buffer)

	frontier := make([]pending, 0, len(story.Kids))
	for i, id := range story.Kids {
		frontier = append(frontier, pending{id: id, parent: story.ID, index: i})
	}

	go produce(ctx, f, frontier, events)
	return events
}

func produce(ctx context.Context, f BatchFetcher, frontier []pending, events chan<- Event) {
	defer close(events)

	for len(frontier) > 0 {
		if ctx.Err() != nil {
			return
		}

		ids := make([]int, len(frontier))
		for i, p := range frontier {
			ids[i] = p.id
		}
		results := f.FetchMany(ctx, ids)

		var next []pending
		for _, p := range frontier {
			res, ok := results[p.id]
			if !ok {
				// FetchMany guarantees one outcome per requested ID;
				// treat a hole as a failed subtree rather than panic.
				logging.Warn("Batch result missing id", "id", p.id)
				res = hn.Result{Err: hn.ErrNotFound}
			}

			if res.Err != nil {
				ev := Event{Kind: SubtreeFailed, ID: p.id, Parent: p.parent, Index: p.index, Err: res.Err}
				if !send(ctx, events, ev) {
					return
				}
				continue
			}

			ev := Event{Kind: NodeReady, Comment: res.Comment, ID: p.id, Parent: p.parent, Index: p.index}
			if !send(ctx, events, ev) {
				return
			}
			for i, kid := range res.Comment.Kids {
				next = append(next, pending{id: kid, parent: p.id, index: i})
			}
		}
		frontier = next
	}

	send(ctx, events, Event{Kind: Complete})
}

// send delivers one event, suspending while the consumer is behind.
// Returns false once the context is cancelled; the event is discarded.
func send(ctx context.Context, events chan<- Event, ev Event) bool {
	if ctx.Err() != nil {
		return false
	}
	select {
	case <-ctx.Done():
		return false
	case events <- ev:
		return true
	}
}
