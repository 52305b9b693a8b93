// Package app wires the pipeline together and runs it.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aiassistant/telegram-web-bot/internal/bot"
	"github.com/aiassistant/telegram-web-bot/internal/channelfeed"
	"github.com/aiassistant/telegram-web-bot/internal/compose"
	"github.com/aiassistant/telegram-web-bot/internal/config"
	"github.com/aiassistant/telegram-web-bot/internal/history"
	"github.com/aiassistant/telegram-web-bot/internal/llm"
	"github.com/aiassistant/telegram-web-bot/internal/observability"
	"github.com/aiassistant/telegram-web-bot/internal/pipeline"
	"github.com/aiassistant/telegram-web-bot/internal/ratelimit"
	"github.com/aiassistant/telegram-web-bot/internal/search"
	"github.com/aiassistant/telegram-web-bot/internal/transport"
	"github.com/aiassistant/telegram-web-bot/internal/webpage"
)

type App struct {
	cfg    *config.Config
	logger *zerolog.Logger

	bot       *bot.Bot
	health    *observability.Server
	keepAlive *observability.KeepAlive

	startTime time.Time
}

func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	searchClients, err := transport.NewClients(cfg.SearchTimeout, cfg.TorProxyAddr)
	if err != nil {
		return nil, fmt.Errorf("building search clients: %w", err)
	}

	fetchClients, err := transport.NewClients(cfg.FetchTimeout, cfg.TorProxyAddr)
	if err != nil {
		return nil, fmt.Errorf("building fetch clients: %w", err)
	}

	limiter := ratelimit.New(cfg.LLMRPM, cfg.SearchRPS)

	providers := []search.Provider{
		search.NewDuckDuckGoProvider(search.DuckDuckGoConfig{}, searchClients, logger),
		search.NewSearxNGProvider(cfg.SearxNGBaseURL, searchClients),
	}

	channelProvider := search.NewChannelProvider(cfg.ChannelSearchBaseURL, searchClients)
	if channelProvider.Enabled() {
		providers = append(providers, channelProvider)
	}

	aggregator := search.NewAggregator(providers, limiter, cfg.MaxSearchResults, logger)

	pageFetcher := webpage.NewFetcher(fetchClients, cfg.PageBodyLimit, cfg.ForumBodyLimit, cfg.MaxDownloadLinks, logger)
	feedFetcher := channelfeed.NewFetcher(fetchClients, cfg.MaxChannelMessages, logger)

	store := history.NewStore(cfg.HistoryMaxTurns)
	composer := compose.NewComposer(cfg.SystemPrompt(), cfg.HistoryMaxTurns, cfg.HistoryCharBudget)

	llmClient := llm.New(llm.Config{
		APIKey:      cfg.LLMAPIKey,
		BaseURL:     cfg.LLMBaseURL,
		Model:       cfg.LLMModel,
		MaxTokens:   cfg.LLMMaxTokens,
		Temperature: cfg.LLMTemperature,
		Timeout:     cfg.LLMTimeout,
	}, limiter, logger)

	pipe := pipeline.New(store, composer, aggregator, pageFetcher, feedFetcher, llmClient, logger)

	tgBot, err := bot.New(cfg.BotToken, pipe, store, llmClient, logger)
	if err != nil {
		return nil, fmt.Errorf("building telegram bot: %w", err)
	}

	app := &App{
		cfg:       cfg,
		logger:    logger,
		bot:       tgBot,
		keepAlive: observability.NewKeepAlive(cfg.HealthPort, cfg.KeepAliveInterval, logger),
		startTime: time.Now(),
	}

	app.health = observability.NewServer(cfg.HealthPort, app.statusLine, logger)

	return app, nil
}

// Run starts the health server and keep-alive pinger in the background
// and blocks on the bot loop.
func (a *App) Run(ctx context.Context) error {
	go func() {
		if err := a.health.Start(ctx); err != nil {
			a.logger.Error().Err(err).Msg("health check server error")
		}
	}()

	go a.keepAlive.Run(ctx)

	return a.bot.Run(ctx)
}

func (a *App) statusLine() string {
	return fmt.Sprintf("🤖 AI Telegram Bot is running!\n• Uptime: %s\n• Features: Dual search, Telegram channel access, Download detection, Forum parsing",
		time.Since(a.startTime).Round(time.Second))
}
