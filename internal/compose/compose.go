// Package compose renders gathered web context and bounded conversation
// history into the message list sent to the generation backend. The
// output ordering is load-bearing: it determines what the backend
// treats as background versus active conversation.
package compose

import (
	"github.com/sashabaranov/go-openai"

	"github.com/aiassistant/telegram-web-bot/internal/history"
)

// groundingInstruction is appended after any web context so the backend
// actually uses it.
const groundingInstruction = "IMPORTANT: Use the provided web context to answer the user's question. " +
	"Be concise - limit your response to 5-7 sentences. " +
	"Include relevant links from the search results or webpage content in your response using markdown format. " +
	"Pay special attention to download links and forum content when requested."

const historyHeader = "## Conversation History"

type Composer struct {
	systemPrompt string
	maxTurns     int
	charBudget   int
}

func NewComposer(systemPrompt string, maxTurns, charBudget int) *Composer {
	return &Composer{
		systemPrompt: systemPrompt,
		maxTurns:     maxTurns,
		charBudget:   charBudget,
	}
}

// Compose builds the backend message list: system prompt, then web
// context plus the grounding instruction when any context was gathered,
// then a recency-bounded history window in chronological order, then
// the current user turn.
func (c *Composer) Compose(webContext string, turns []history.Turn, userText string) []openai.ChatCompletionMessage {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: c.systemPrompt},
	}

	if webContext != "" {
		messages = append(messages,
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: webContext},
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: groundingInstruction},
		)
	}

	window := c.historyWindow(turns)
	if len(window) > 0 {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: historyHeader,
		})

		for _, turn := range window {
			messages = append(messages, openai.ChatCompletionMessage{
				Role:    string(turn.Role),
				Content: turn.Content,
			})
		}
	}

	return append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userText,
	})
}

// historyWindow walks turns newest first, accumulating until the turn
// cap or the character budget triggers, then restores chronological
// order. Recency wins over completeness when the budget is tight.
func (c *Composer) historyWindow(turns []history.Turn) []history.Turn {
	var (
		window []history.Turn
		chars  int
	)

	for i := len(turns) - 1; i >= 0; i-- {
		if len(window) >= c.maxTurns {
			break
		}

		if chars+len(turns[i].Content) > c.charBudget {
			break
		}

		window = append(window, turns[i])
		chars += len(turns[i].Content)
	}

	// Reverse back into chronological order.
	for i, j := 0, len(window)-1; i < j; i, j = i+1, j-1 {
		window[i], window[j] = window[j], window[i]
	}

	return window
}
