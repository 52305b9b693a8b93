package webpage

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	// minContentLength gates the selector chain: the first selector
	// whose text exceeds this wins.
	minContentLength = 100

	// TruncationMarker is appended whenever extracted text is cut to a
	// size budget.
	TruncationMarker = "... [truncated]"
)

// contentSelectors is the ordered fallback chain for locating the main
// article body. The order is behavior-visible; do not reorder.
var contentSelectors = []string{
	"article",
	"main",
	`div[itemprop="articleBody"]`,
	"div.content",
	"div.post-content",
	"div.entry-content",
	"body",
}

// strippedSelectors are removed before content extraction.
const strippedSelectors = "script, style, header, footer, nav, aside"

var whitespaceRe = regexp.MustCompile(`\s+`)

// extractMainContent strips non-content elements, walks the selector
// chain accepting the first match above the minimum length, and falls
// back to raw body text when no selector satisfies the threshold. The
// result is whitespace-collapsed and truncated to limit.
func extractMainContent(doc *goquery.Document, limit int) string {
	doc.Find(strippedSelectors).Remove()

	var content string

	for _, selector := range contentSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}

		text := collapseWhitespace(sel.Text())
		if len(text) > minContentLength {
			content = text

			break
		}
	}

	if content == "" {
		content = collapseWhitespace(doc.Find("body").Text())
	}

	if content == "" {
		return "No content extracted"
	}

	return Truncate(content, limit)
}

// extractForumContent pulls thread/post/comment text, but only for URLs
// that look like forums. Returns "" for non-forum URLs.
func extractForumContent(doc *goquery.Document, rawURL string, limit int) string {
	if !isForumURL(rawURL) {
		return ""
	}

	var parts []string

	doc.Find(".thread, .topic, .post, .comment").Each(func(_ int, s *goquery.Selection) {
		text := collapseWhitespace(s.Text())
		if text != "" {
			parts = append(parts, text)
		}
	})

	if len(parts) == 0 {
		return "No forum threads detected"
	}

	return Truncate(strings.Join(parts, "\n\n"), limit)
}

var forumKeywords = []string{"forum", "community", "board", "discussion"}

func isForumURL(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, kw := range forumKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}

	return false
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// Truncate cuts s to limit runes and appends the truncation marker when
// it was cut.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	return string(runes[:limit]) + TruncationMarker
}
