// Package bot is the Telegram transport: it parses commands, dispatches
// one task per update, and chunks outbound replies. It carries no
// pipeline logic of its own.
package bot

import (
	"context"
	"sync/atomic"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aiassistant/telegram-web-bot/internal/history"
	"github.com/aiassistant/telegram-web-bot/internal/llm"
	"github.com/aiassistant/telegram-web-bot/internal/pipeline"
)

const (
	updateTimeout = 60

	// maxMessageLength is Telegram's hard per-message limit.
	maxMessageLength = 4096
)

type Bot struct {
	api       *tgbotapi.BotAPI
	pipe      *pipeline.Pipeline
	store     *history.Store
	llmClient llm.Client
	logger    *zerolog.Logger

	startTime    time.Time
	requestCount atomic.Int64
}

func New(token string, pipe *pipeline.Pipeline, store *history.Store, llmClient llm.Client, logger *zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	return &Bot{
		api:       api,
		pipe:      pipe,
		store:     store,
		llmClient: llmClient,
		logger:    logger,
		startTime: time.Now(),
	}, nil
}

// Run polls for updates until the context is cancelled, dispatching one
// goroutine per update.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = updateTimeout

	updates := b.api.GetUpdatesChan(u)

	b.logger.Info().Str("username", b.api.Self.UserName).Msg("Bot is running")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()

			return ctx.Err()
		case update := <-updates:
			go b.dispatch(ctx, update)
		}
	}
}

func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update) {
	logger := b.logger.With().Str("request_id", uuid.NewString()).Logger()

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery, &logger)
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(update.Message, &logger)
	case update.Message != nil && update.Message.Text != "":
		b.handleText(ctx, update.Message, &logger)
	}
}

func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message, logger *zerolog.Logger) {
	b.requestCount.Add(1)

	userID := msg.From.ID
	logger.Info().Int64("user_id", userID).Msg("Handling message")

	typing := tgbotapi.NewChatAction(msg.Chat.ID, tgbotapi.ChatTyping)
	if _, err := b.api.Request(typing); err != nil {
		logger.Warn().Err(err).Msg("failed to send typing action")
	}

	reply := b.pipe.Respond(ctx, userID, msg.Text)

	b.reply(msg.Chat.ID, reply, logger)
}

// reply sends text chunked to Telegram's per-message limit, with web
// previews disabled.
func (b *Bot) reply(chatID int64, text string, logger *zerolog.Logger) {
	for _, part := range SplitMessage(text, maxMessageLength) {
		msg := tgbotapi.NewMessage(chatID, part)
		msg.ParseMode = tgbotapi.ModeMarkdown
		msg.DisableWebPagePreview = true

		if _, err := b.api.Send(msg); err != nil {
			// Markdown from the model is occasionally unbalanced;
			// retry the part as plain text before giving up.
			msg.ParseMode = ""
			if _, err := b.api.Send(msg); err != nil {
				logger.Error().Err(err).Msg("failed to send reply")
			}
		}
	}
}
