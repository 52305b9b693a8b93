package bot

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

const welcomeText = `🤖 Welcome to the AI Assistant with Real Web Access

🔍 *Key Features:*
- Real-time webpage content extraction from URLs
- Dual search engine (DuckDuckGo + SearXNG)
- Telegram channel content access
- Download link detection
- Forum content parsing
- Tor support for anonymous browsing

💡 *How to use:*
1. Enable web search with /neton or /toron
2. Ask questions requiring real-time info
3. Include URLs or Telegram channel links
4. The AI will automatically search the web when needed

📋 *Commands:*
/toron - Enable Tor search
/toroff - Disable Tor
/neton - Enable Clearnet search
/netoff - Disable Clearnet
/clear - Reset conversation history
/status - Show bot status`

func (b *Bot) handleCommand(msg *tgbotapi.Message, logger *zerolog.Logger) {
	logger.Info().Str("command", msg.Command()).Int64("user_id", msg.From.ID).Msg("Handling command")

	switch msg.Command() {
	case "start":
		b.handleStart(msg, logger)
	case "clear":
		b.store.Clear(msg.From.ID)
		b.reply(msg.Chat.ID, "🗑️ Conversation history completely cleared!", logger)
	case "status":
		b.handleStatus(msg, logger)
	case "toron":
		b.store.SetTor(msg.From.ID, true)
		b.reply(msg.Chat.ID, "✅ Tor search ACTIVATED\nClearnet search disabled", logger)
	case "toroff":
		b.store.SetTor(msg.From.ID, false)
		b.reply(msg.Chat.ID, "🔒 Tor search DEACTIVATED", logger)
	case "neton":
		b.store.SetWeb(msg.From.ID, true)
		b.reply(msg.Chat.ID, "🌐 Clearnet search ACTIVATED\nTor search disabled", logger)
	case "netoff":
		b.store.SetWeb(msg.From.ID, false)
		b.reply(msg.Chat.ID, "🚫 Clearnet search DEACTIVATED", logger)
	default:
		b.reply(msg.Chat.ID, "Unknown command", logger)
	}
}

func (b *Bot) handleStart(msg *tgbotapi.Message, logger *zerolog.Logger) {
	sess := b.store.Get(msg.From.ID)

	text := welcomeText + "\n\n" + modeStatus(sess.TorEnabled, sess.WebEnabled)

	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	reply.ParseMode = tgbotapi.ModeMarkdown
	reply.DisableWebPagePreview = true
	reply.ReplyMarkup = modeKeyboard()

	if _, err := b.api.Send(reply); err != nil {
		logger.Error().Err(err).Msg("failed to send welcome message")
	}
}

func (b *Bot) handleStatus(msg *tgbotapi.Message, logger *zerolog.Logger) {
	sess := b.store.Get(msg.From.ID)

	uptime := time.Since(b.startTime).Round(time.Second)
	turns := len(sess.Turns)

	text := fmt.Sprintf(
		"🤖 *Bot Status*\n"+
			"• Uptime: `%s`\n"+
			"• Requests: `%d`\n"+
			"• API Calls (last min): `%d`\n"+
			"• Tor: %s\n"+
			"• Clearnet: %s\n"+
			"• History: `%d` messages (`%d` exchanges)",
		uptime,
		b.requestCount.Load(),
		b.llmClient.CallsLastMinute(),
		onOff(sess.TorEnabled, "🔓", "🔒"),
		onOff(sess.WebEnabled, "🌐", "🚫"),
		turns,
		turns/2, //nolint:mnd // two turns per exchange
	)

	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	reply.ParseMode = tgbotapi.ModeMarkdown

	if _, err := b.api.Send(reply); err != nil {
		logger.Error().Err(err).Msg("failed to send status message")
	}
}

func (b *Bot) handleCallback(query *tgbotapi.CallbackQuery, logger *zerolog.Logger) {
	userID := query.From.ID

	var response string

	switch query.Data {
	case "tor_on":
		b.store.SetTor(userID, true)
		response = "✅ Tor search ACTIVATED\nClearnet search disabled"
	case "tor_off":
		b.store.SetTor(userID, false)
		response = "🔒 Tor search DEACTIVATED"
	case "net_on":
		b.store.SetWeb(userID, true)
		response = "🌐 Clearnet search ACTIVATED\nTor search disabled"
	case "net_off":
		b.store.SetWeb(userID, false)
		response = "🚫 Clearnet search DEACTIVATED"
	default:
		return
	}

	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		logger.Warn().Err(err).Msg("failed to answer callback query")
	}

	sess := b.store.Get(userID)

	edit := tgbotapi.NewEditMessageText(
		query.Message.Chat.ID,
		query.Message.MessageID,
		response+"\n\n"+modeStatus(sess.TorEnabled, sess.WebEnabled),
	)
	markup := modeKeyboard()
	edit.ReplyMarkup = &markup

	if _, err := b.api.Send(edit); err != nil {
		logger.Error().Err(err).Msg("failed to edit mode message")
	}
}

func modeKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔓 Tor ON", "tor_on"),
			tgbotapi.NewInlineKeyboardButtonData("🌐 Clearnet ON", "net_on"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔒 Tor OFF", "tor_off"),
			tgbotapi.NewInlineKeyboardButtonData("🚫 Clearnet OFF", "net_off"),
		),
	)
}

func modeStatus(tor, web bool) string {
	return fmt.Sprintf("⚙️ Current status:\nTor: %s\nClearnet: %s",
		onOff(tor, "🔓", "🔒"),
		onOff(web, "🌐", "🚫"))
}

func onOff(on bool, onMark, offMark string) string {
	if on {
		return "ON " + onMark
	}

	return "OFF " + offMark
}
