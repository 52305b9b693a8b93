package compose

import (
	"fmt"
	"strings"

	"github.com/aiassistant/telegram-web-bot/internal/channelfeed"
	"github.com/aiassistant/telegram-web-bot/internal/search"
	"github.com/aiassistant/telegram-web-bot/internal/webpage"
)

// NoResultsFallback is rendered in place of the search block when every
// provider came back empty. The marker is deliberate: the backend must
// see that a search happened and found nothing, rather than seeing no
// context at all.
const NoResultsFallback = "⚠️ No search results found"

// RenderSearchResults renders the aggregated search block.
func RenderSearchResults(results []search.Result) string {
	if len(results) == 0 {
		return NoResultsFallback + "\n\n"
	}

	var sb strings.Builder

	sb.WriteString("## 🔍 Web Search Results\n")

	for i, res := range results {
		sb.WriteString(fmt.Sprintf("%d. [%s](%s)\n   %s\n\n", i+1, res.Title, res.URL, res.Description))
	}

	return sb.String()
}

// RenderPage renders one fetched webpage, including its download-link
// and forum blocks when present. Error sentinel pages render the same
// way, surfacing the failure text inline.
func RenderPage(page webpage.Page) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("## Webpage Content: [%s](%s)\n%s\n\n", page.Title, page.URL, page.Body))

	if len(page.DownloadLinks) > 0 {
		sb.WriteString("## 🔽 Download Links:\n")

		for _, dl := range page.DownloadLinks {
			sb.WriteString(fmt.Sprintf("- [%s](%s)\n", dl.Label, dl.URL))
		}

		sb.WriteString("\n")
	}

	if page.ForumExcerpt != "" {
		sb.WriteString("## 💬 Forum Content:\n")
		sb.WriteString(page.ForumExcerpt)
		sb.WriteString("\n\n")
	}

	return sb.String()
}

// RenderChannel renders one fetched channel feed.
func RenderChannel(feed channelfeed.Feed) string {
	return fmt.Sprintf("## Telegram Channel: [%s](%s)\n%s\n\n", feed.Title, feed.URL, feed.Content)
}
