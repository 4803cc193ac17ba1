//go:build js && wasm

// Command hn-wasm is the browser surface. It compiles the shared core
// to WebAssembly and exposes it on the JS global object:
//
//	hnFetchTopStories(limit) -> Promise<Story[]>
//	hnStreamComments(storyId, onEvent) -> cancel function
//
// The page loads the module once; the client is initialized exactly
// once behind sync.Once no matter how many calls race in first.
package main

import (
	"context"
	"sync"
	"syscall/js"

	"github.com/johnwakley/hn/internal/config"
	"github.com/johnwakley/hn/internal/hn"
	"github.com/johnwakley/hn/internal/logging"
	"github.com/johnwakley/hn/internal/stream"
	"github.com/johnwakley/hn/internal/transport"
)

var (
	initOnce sync.Once
	client   *hn.Client
	cfg      *config.Config
)

// core returns the shared client, initializing it on first use.
func core() (*hn.Client, *config.Config) {
	initOnce.Do(func() {
		logging.InitConsole()
		cfg = config.DefaultConfig()
		cfg.ApplyEnv()
		client = hn.New(transport.New(cfg.RequestTimeout()), hn.Options{
			BaseURL:       cfg.BaseURL,
			Concurrency:   cfg.Concurrency,
			RatePerSecond: cfg.RatePerSecond,
		})
		logging.Info("hn wasm core initialized", "base_url", cfg.BaseURL)
	})
	return client, cfg
}

func main() {
	js.Global().Set("hnFetchTopStories", js.FuncOf(fetchTopStories))
	js.Global().Set("hnStreamComments", js.FuncOf(streamComments))

	// Park the main goroutine; exported functions keep the module alive.
	select {}
}

// fetchTopStories returns a Promise resolving to an array of stories.
func fetchTopStories(_ js.Value, args []js.Value) any {
	limit := 0
	if len(args) > 0 && args[0].Type() == js.TypeNumber {
		limit = args[0].Int()
	}

	return promise(func(resolve, reject js.Value) {
		c, conf := core()
		if limit <= 0 {
			limit = conf.StoryLimit
		}
		stories, err := c.TopStories(context.Background(), limit)
		if err != nil {
			reject.Invoke(err.Error())
			return
		}
		out := make([]any, len(stories))
		for i, s := range stories {
			out[i] = storyValue(s)
		}
		resolve.Invoke(js.ValueOf(out))
	})
}

// streamComments fetches the story and pumps stream events into the
// supplied callback. Returns a function the page calls to cancel.
func streamComments(_ js.Value, args []js.Value) any {
	if len(args) < 2 || args[0].Type() != js.TypeNumber || args[1].Type() != js.TypeFunction {
		return js.ValueOf(nil)
	}
	id := args[0].Int()
	onEvent := args[1]

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		c, conf := core()
		story, err := c.FetchStory(ctx, id)
		if err != nil {
			if ctx.Err() == nil {
				onEvent.Invoke(map[string]any{"kind": "error", "error": err.Error()})
			}
			return
		}
		// Buffered residue may still be queued when cancel lands; the
		// consumer must see nothing after that point.
		for ev := range stream.Comments(ctx, c, story, stream.Options{Buffer: conf.StreamBuffer}) {
			if ctx.Err() != nil {
				return
			}
			onEvent.Invoke(eventValue(ev))
		}
	}()

	var cancelFn js.Func
	cancelFn = js.FuncOf(func(js.Value, []js.Value) any {
		cancel()
		cancelFn.Release()
		return nil
	})
	return cancelFn
}

// promise runs fn on a goroutine behind a new JS Promise.
func promise(fn func(resolve, reject js.Value)) js.Value {
	handler := js.FuncOf(func(_ js.Value, args []js.Value) any {
		resolve, reject := args[0], args[1]
		go fn(resolve, reject)
		return nil
	})
	return js.Global().Get("Promise").New(handler)
}

// storyValue marshals a Story to a plain JS object.
func storyValue(s hn.Story) map[string]any {
	kids := make([]any, len(s.Kids))
	for i, k := range s.Kids {
		kids[i] = k
	}
	var unix int64
	if !s.Time.IsZero() {
		unix = s.Time.Unix()
	}
	return map[string]any{
		"id":          s.ID,
		"title":       s.Title,
		"by":          s.By,
		"score":       s.Score,
		"url":         s.Link(),
		"time":        unix,
		"kids":        kids,
		"descendants": s.Descendants,
	}
}

// eventValue marshals a stream event to a plain JS object.
func eventValue(ev stream.Event) map[string]any {
	switch ev.Kind {
	case stream.NodeReady:
		kids := make([]any, len(ev.Comment.Kids))
		for i, k := range ev.Comment.Kids {
			kids[i] = k
		}
		return map[string]any{
			"kind":    "node",
			"id":      ev.ID,
			"parent":  ev.Parent,
			"index":   ev.Index,
			"by":      ev.Comment.By,
			"text":    ev.Comment.Text,
			"kids":    kids,
			"deleted": ev.Comment.Deleted || ev.Comment.Dead,
		}
	case stream.SubtreeFailed:
		return map[string]any{
			"kind":   "failed",
			"id":     ev.ID,
			"parent": ev.Parent,
			"index":  ev.Index,
			"error":  ev.Err.Error(),
		}
	default:
		return map[string]any{"kind": "complete"}
	}
}
