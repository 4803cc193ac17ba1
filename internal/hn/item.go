package hn

import (
	"fmt"
	"time"
)

// Story is a top-level submission. Values are freshly owned by the
// caller; re-fetching the same ID yields a new equal value, never a
// mutation of an old one.
type Story struct {
	ID          int
	Title       string
	By          string
	Score       int
	URL         string // empty for discussion-only posts
	Time        time.Time
	Text        string
	Kids        []int // direct child comment IDs, in ranked order
	Descendants int   // total comment count
}

// CommentsURL returns the discussion page for the story. For posts
// without an external URL this is the canonical link both surfaces
// should open.
func (s Story) CommentsURL() string {
	return fmt.Sprintf("https://news.ycombinator.com/item?id=%d", s.ID)
}

// Link returns the story's external URL, falling back to the
// discussion page for URL-less posts.
func (s Story) Link() string {
	if s.URL != "" {
		return s.URL
	}
	return s.CommentsURL()
}

// Comment is a node in a story's comment tree. Deleted and Dead are
// distinct from an absent body: the API keeps the node (and its child
// links) but blanks the author and text.
type Comment struct {
	ID      int
	By      string
	Text    string // raw HTML as served by the API
	Kids    []int
	Time    time.Time
	Deleted bool
	Dead    bool
}

// Result is the outcome for one ID in a FetchMany batch. Exactly one
// of Comment or Err is meaningful.
type Result struct {
	Comment Comment
	Err     error
}

// rawItem is the wire shape of /v0/item/{id}.json. Stories and
// comments share the same identifier space and are distinguished by
// type and field presence, so both decode through this struct.
type rawItem struct {
	ID          int    `json:"id"`
	Type        string `json:"type"`
	By          string `json:"by"`
	Title       string `json:"title"`
	Score       int    `json:"score"`
	URL         string `json:"url"`
	Time        int64  `json:"time"`
	Text        string `json:"text"`
	Kids        []int  `json:"kids"`
	Descendants int    `json:"descendants"`
	Deleted     bool   `json:"deleted"`
	Dead        bool   `json:"dead"`
}

func (r *rawItem) validate() error {
	if r.ID <= 0 {
		return fmt.Errorf("%w: missing or non-positive id", ErrMalformed)
	}
	return nil
}

func (r *rawItem) story() Story {
	return Story{
		ID:          r.ID,
		Title:       r.Title,
		By:          r.By,
		Score:       r.Score,
		URL:         r.URL,
		Time:        itemTime(r.Time),
		Text:        r.Text,
		Kids:        r.Kids,
		Descendants: r.Descendants,
	}
}

func (r *rawItem) comment() Comment {
	return Comment{
		ID:      r.ID,
		By:      r.By,
		Text:    r.Text,
		Kids:    r.Kids,
		Time:    itemTime(r.Time),
		Deleted: r.Deleted,
		Dead:    r.Dead,
	}
}

func itemTime(unix int64) time.Time {
	if unix == 0 {
		return time.Time{}
	}
	return time.Unix(unix, 0).UTC()
}
