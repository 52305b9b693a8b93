// Package pipeline ties the stages together: route the message, gather
// web context, compose the backend request, generate, and record the
// exchange. Each incoming message runs this sequentially in its own
// task; stages suspend on network I/O without blocking other users.
package pipeline

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"github.com/aiassistant/telegram-web-bot/internal/channelfeed"
	"github.com/aiassistant/telegram-web-bot/internal/compose"
	"github.com/aiassistant/telegram-web-bot/internal/history"
	"github.com/aiassistant/telegram-web-bot/internal/observability"
	"github.com/aiassistant/telegram-web-bot/internal/router"
	"github.com/aiassistant/telegram-web-bot/internal/search"
	"github.com/aiassistant/telegram-web-bot/internal/webpage"
)

// Searcher is the aggregated search entry point.
type Searcher interface {
	Aggregate(ctx context.Context, query string, tor bool) []search.Result
}

// PageFetcher retrieves one webpage, sentinel-on-failure.
type PageFetcher interface {
	Fetch(ctx context.Context, url string, tor bool) webpage.Page
}

// FeedFetcher retrieves one channel feed, sentinel-on-failure.
type FeedFetcher interface {
	Fetch(ctx context.Context, channel string, tor bool) channelfeed.Feed
}

// Generator produces the reply text. Always returns displayable text.
type Generator interface {
	Generate(ctx context.Context, messages []openai.ChatCompletionMessage) string
}

type Pipeline struct {
	store    *history.Store
	composer *compose.Composer
	searcher Searcher
	pages    PageFetcher
	feeds    FeedFetcher
	gen      Generator
	logger   *zerolog.Logger
}

func New(
	store *history.Store,
	composer *compose.Composer,
	searcher Searcher,
	pages PageFetcher,
	feeds FeedFetcher,
	gen Generator,
	logger *zerolog.Logger,
) *Pipeline {
	return &Pipeline{
		store:    store,
		composer: composer,
		searcher: searcher,
		pages:    pages,
		feeds:    feeds,
		gen:      gen,
		logger:   logger,
	}
}

// Respond runs the full exchange for one user message and returns the
// reply text. It never fails: every stage degrades to renderable text.
func (p *Pipeline) Respond(ctx context.Context, userID int64, text string) string {
	observability.MessagesHandled.Inc()

	sess := p.store.Get(userID)
	webEnabled := sess.WebEnabled || sess.TorEnabled

	intent := router.Detect(text, webEnabled)
	webContext := p.gatherContext(ctx, intent, sess.TorEnabled)

	messages := p.composer.Compose(webContext, sess.Turns, text)

	reply := p.gen.Generate(ctx, messages)

	p.store.AppendExchange(userID, text, reply)

	return reply
}

// gatherContext executes the single action the router chose. The
// branches are mutually exclusive by construction.
func (p *Pipeline) gatherContext(ctx context.Context, intent router.Intent, tor bool) string {
	switch intent.Action {
	case router.ActionChannel:
		feed := p.feeds.Fetch(ctx, intent.Channel, tor)

		return compose.RenderChannel(feed)

	case router.ActionFetch:
		var sb strings.Builder

		for _, u := range intent.URLs {
			page := p.pages.Fetch(ctx, u, tor)
			sb.WriteString(compose.RenderPage(page))
		}

		return sb.String()

	case router.ActionSearch:
		results := p.searcher.Aggregate(ctx, intent.Query, tor)

		return compose.RenderSearchResults(results)

	default:
		return ""
	}
}
