package compose

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiassistant/telegram-web-bot/internal/history"
)

func exchange(n int) []history.Turn {
	return []history.Turn{
		{Role: history.RoleUser, Content: fmt.Sprintf("q%d", n)},
		{Role: history.RoleAssistant, Content: fmt.Sprintf("a%d", n)},
	}
}

func TestCompose_MinimalMessage(t *testing.T) {
	c := NewComposer("You are helpful.", 20, 10000)

	messages := c.Compose("", nil, "hello")

	require.Len(t, messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, messages[0].Role)
	assert.Equal(t, "You are helpful.", messages[0].Content)
	assert.Equal(t, openai.ChatMessageRoleUser, messages[1].Role)
	assert.Equal(t, "hello", messages[1].Content)
}

func TestCompose_WebContextWithGrounding(t *testing.T) {
	c := NewComposer("prompt", 20, 10000)

	messages := c.Compose("## Web Search Results\nsome context", nil, "hello")

	require.Len(t, messages, 4)
	assert.Contains(t, messages[1].Content, "some context")
	assert.Equal(t, groundingInstruction, messages[2].Content)
	assert.Equal(t, openai.ChatMessageRoleSystem, messages[2].Role)
}

func TestCompose_NoGroundingWithoutContext(t *testing.T) {
	c := NewComposer("prompt", 20, 10000)

	for _, msg := range c.Compose("", exchange(1), "hello") {
		assert.NotEqual(t, groundingInstruction, msg.Content)
	}
}

func TestCompose_HistoryChronologicalUserLast(t *testing.T) {
	c := NewComposer("prompt", 20, 10000)

	var turns []history.Turn
	for i := 0; i < 3; i++ {
		turns = append(turns, exchange(i)...)
	}

	messages := c.Compose("", turns, "current question")

	// prompt, history header, 6 turns, current user message
	require.Len(t, messages, 9)
	assert.Equal(t, historyHeader, messages[1].Content)
	assert.Equal(t, "q0", messages[2].Content)
	assert.Equal(t, string(history.RoleUser), messages[2].Role)
	assert.Equal(t, "a2", messages[7].Content)

	last := messages[len(messages)-1]
	assert.Equal(t, openai.ChatMessageRoleUser, last.Role)
	assert.Equal(t, "current question", last.Content)
}

func TestCompose_HistoryTurnCap(t *testing.T) {
	c := NewComposer("prompt", 4, 10000)

	var turns []history.Turn
	for i := 0; i < 10; i++ {
		turns = append(turns, exchange(i)...)
	}

	messages := c.Compose("", turns, "now")

	// prompt, header, 4 most recent turns, user message
	require.Len(t, messages, 7)
	assert.Equal(t, "q8", messages[2].Content)
	assert.Equal(t, "a9", messages[5].Content)
}

func TestCompose_HistoryCharBudgetPrefersRecency(t *testing.T) {
	c := NewComposer("prompt", 20, 30)

	turns := []history.Turn{
		{Role: history.RoleUser, Content: strings.Repeat("x", 25)},
		{Role: history.RoleAssistant, Content: "short old answer"},
		{Role: history.RoleUser, Content: "recent q"},
		{Role: history.RoleAssistant, Content: "recent a"},
	}

	messages := c.Compose("", turns, "now")

	// Only the two recent turns fit the 30-char budget; the walk stops
	// at the first turn that would overflow, dropping everything older.
	require.Len(t, messages, 5)
	assert.Equal(t, "recent q", messages[2].Content)
	assert.Equal(t, "recent a", messages[3].Content)
}

func TestCompose_EmptyHistoryOmitsHeader(t *testing.T) {
	c := NewComposer("prompt", 20, 10000)

	for _, msg := range c.Compose("ctx", nil, "hello") {
		assert.NotEqual(t, historyHeader, msg.Content)
	}
}
