package ui

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mattn/go-runewidth"
)

// renderHTML converts HN comment HTML to plain terminal text. The API
// serves bodies as a flat run of <p>, <a>, <i> and <pre><code>
// fragments; anything unparseable falls back to the raw string.
func renderHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}

	// Paragraph and code blocks become blank-line separated chunks.
	doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
		sel.PrependHtml("\n\n")
	})
	doc.Find("pre").Each(func(_ int, sel *goquery.Selection) {
		sel.PrependHtml("\n\n")
	})

	// Bare links render as their href; anchor text on HN is usually a
	// shortened duplicate of it.
	doc.Find("a").Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok {
			sel.SetText(href)
		}
	})

	text := doc.Text()
	return collapseBlankLines(strings.TrimSpace(text))
}

func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	var out []string
	blank := false
	for _, line := range lines {
		trimmed := strings.TrimRight(line, " \t")
		if strings.TrimSpace(trimmed) == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, trimmed)
	}
	return strings.Join(out, "\n")
}

// truncate shortens a string to maxWidth terminal cells, appending "…" if cut.
// Width-aware so CJK and emoji don't overflow the pane.
func truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth == 1 {
		return "…"
	}
	return runewidth.Truncate(s, maxWidth-1, "") + "…"
}

// wrap breaks text into lines no wider than width, preserving existing
// newlines. Long unbreakable words are hard-cut.
func wrap(s string, width int) []string {
	if width <= 0 {
		return nil
	}
	var out []string
	for _, para := range strings.Split(s, "\n") {
		if para == "" {
			out = append(out, "")
			continue
		}
		var line string
		for _, word := range strings.Fields(para) {
			for runewidth.StringWidth(word) > width {
				head := runewidth.Truncate(word, width, "")
				out = append(out, head)
				word = strings.TrimPrefix(word, head)
			}
			switch {
			case line == "":
				line = word
			case runewidth.StringWidth(line)+1+runewidth.StringWidth(word) <= width:
				line += " " + word
			default:
				out = append(out, line)
				line = word
			}
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
