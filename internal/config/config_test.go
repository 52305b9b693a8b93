package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()

	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("LLM_API_KEY", "test-key")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.AppEnv)
	assert.Equal(t, "https://api.together.xyz/v1", cfg.LLMBaseURL)
	assert.Equal(t, 60, cfg.LLMRPM)
	assert.Equal(t, 2.0, cfg.SearchRPS)
	assert.Equal(t, "https://searx.be", cfg.SearxNGBaseURL)
	assert.Equal(t, 7, cfg.MaxSearchResults)
	assert.Equal(t, 3000, cfg.PageBodyLimit)
	assert.Equal(t, 2000, cfg.ForumBodyLimit)
	assert.Equal(t, 5, cfg.MaxDownloadLinks)
	assert.Equal(t, 15, cfg.MaxChannelMessages)
	assert.Equal(t, 20, cfg.HistoryMaxTurns)
	assert.Equal(t, 10000, cfg.HistoryCharBudget)
	assert.Equal(t, 4*time.Minute, cfg.KeepAliveInterval)
	assert.Empty(t, cfg.ChannelSearchBaseURL)
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("LLM_API_KEY", "")
	os.Unsetenv("BOT_TOKEN")
	os.Unsetenv("LLM_API_KEY")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LLM_TIMEOUT", "30s")
	t.Setenv("MAX_SEARCH_RESULTS", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.LLMTimeout)
	assert.Equal(t, 3, cfg.MaxSearchResults)
}

func TestSystemPrompt(t *testing.T) {
	t.Run("missing file falls back to default", func(t *testing.T) {
		cfg := &Config{SystemPromptPath: filepath.Join(t.TempDir(), "absent.txt")}

		assert.Equal(t, defaultSystemPrompt, cfg.SystemPrompt())
	})

	t.Run("blank file falls back to default", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "prompt.txt")
		require.NoError(t, os.WriteFile(path, []byte("  \n\t"), 0o600))

		cfg := &Config{SystemPromptPath: path}

		assert.Equal(t, defaultSystemPrompt, cfg.SystemPrompt())
	})

	t.Run("file contents win", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "prompt.txt")
		require.NoError(t, os.WriteFile(path, []byte("You are terse.\n"), 0o600))

		cfg := &Config{SystemPromptPath: path}

		assert.Equal(t, "You are terse.", cfg.SystemPrompt())
	})
}
