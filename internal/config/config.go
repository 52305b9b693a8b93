package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// defaultSystemPrompt is used when no prompt file is present.
const defaultSystemPrompt = "You are a helpful AI assistant. Be concise - limit responses to 5-7 sentences. " +
	"Always format code in markdown code blocks. " +
	"When providing links, ensure they are real and clickable using markdown format. " +
	"You can fetch content from webpages when provided with URLs. " +
	"Maintain context from the conversation history to provide coherent responses. " +
	"IMPORTANT: When web search is enabled, use real-time internet data to answer questions. " +
	"Always verify URLs are functional and include them in responses when possible. " +
	"When citing sources, provide the actual URL using markdown formatting: [Title](URL). " +
	"Pay special attention to finding download links and forum content when requested."

type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"local"`
	BotToken string `env:"BOT_TOKEN,required"`

	LLMAPIKey      string        `env:"LLM_API_KEY,required"`
	LLMBaseURL     string        `env:"LLM_BASE_URL" envDefault:"https://api.together.xyz/v1"`
	LLMModel       string        `env:"LLM_MODEL" envDefault:"meta-llama/Llama-3.3-70B-Instruct-Turbo-Free"`
	LLMMaxTokens   int           `env:"LLM_MAX_TOKENS" envDefault:"1024"`
	LLMTemperature float32       `env:"LLM_TEMPERATURE" envDefault:"0.7"`
	LLMTimeout     time.Duration `env:"LLM_TIMEOUT" envDefault:"60s"`
	LLMRPM         int           `env:"LLM_RPM" envDefault:"60"`

	SearchRPS            float64       `env:"SEARCH_RPS" envDefault:"2"`
	SearchTimeout        time.Duration `env:"SEARCH_TIMEOUT" envDefault:"15s"`
	SearxNGBaseURL       string        `env:"SEARXNG_BASE_URL" envDefault:"https://searx.be"`
	ChannelSearchBaseURL string        `env:"CHANNEL_SEARCH_BASE_URL"`
	MaxSearchResults     int           `env:"MAX_SEARCH_RESULTS" envDefault:"7"`

	FetchTimeout     time.Duration `env:"FETCH_TIMEOUT" envDefault:"20s"`
	TorProxyAddr     string        `env:"TOR_PROXY_ADDR" envDefault:"localhost:9050"`
	PageBodyLimit    int           `env:"PAGE_BODY_LIMIT" envDefault:"3000"`
	ForumBodyLimit   int           `env:"FORUM_BODY_LIMIT" envDefault:"2000"`
	MaxDownloadLinks int           `env:"MAX_DOWNLOAD_LINKS" envDefault:"5"`

	MaxChannelMessages int `env:"MAX_CHANNEL_MESSAGES" envDefault:"15"`

	HistoryMaxTurns   int `env:"HISTORY_MAX_TURNS" envDefault:"20"`
	HistoryCharBudget int `env:"HISTORY_CHAR_BUDGET" envDefault:"10000"`

	HealthPort        int           `env:"HEALTH_PORT" envDefault:"8080"`
	KeepAliveInterval time.Duration `env:"KEEP_ALIVE_INTERVAL" envDefault:"4m"`

	SystemPromptPath string `env:"SYSTEM_PROMPT_PATH" envDefault:"prompt.txt"`
}

func Load() (*Config, error) {
	_ = godotenv.Load() //nolint:errcheck // .env file is optional, error is expected when not present

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment config: %w", err)
	}

	return cfg, nil
}

// SystemPrompt returns the contents of the prompt file, or the built-in
// default when the file is missing or empty.
func (c *Config) SystemPrompt() string {
	data, err := os.ReadFile(c.SystemPromptPath)
	if err != nil {
		return defaultSystemPrompt
	}

	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return defaultSystemPrompt
	}

	return prompt
}
