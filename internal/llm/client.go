// Package llm wraps the OpenAI-compatible generation backend. Generate
// is total: the caller always receives displayable text, never an error.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"github.com/aiassistant/telegram-web-bot/internal/observability"
	"github.com/aiassistant/telegram-web-bot/internal/ratelimit"
)

const (
	// rawDumpLimit bounds the diagnostic dump of a malformed response.
	rawDumpLimit = 300

	callWindow = time.Minute
)

// Client generates a reply for a composed message list.
type Client interface {
	Generate(ctx context.Context, messages []openai.ChatCompletionMessage) string
	CallsLastMinute() int
}

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
}

type openaiClient struct {
	cfg     Config
	client  *openai.Client
	limiter *ratelimit.Limiter
	logger  *zerolog.Logger

	// Rolling per-minute call counter, observability only. Enforcement
	// is the rate limiter's job.
	mu          sync.Mutex
	callCount   int
	windowStart time.Time
}

func New(cfg Config, limiter *ratelimit.Limiter, logger *zerolog.Logger) Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &openaiClient{
		cfg:     cfg,
		client:  openai.NewClientWithConfig(clientCfg),
		limiter: limiter,
		logger:  logger,
	}
}

// Generate issues one backend request. Transport failures and
// structurally malformed responses both surface as warning-prefixed
// diagnostic strings in place of the reply.
func (c *openaiClient) Generate(ctx context.Context, messages []openai.ChatCompletionMessage) string {
	if err := c.limiter.Acquire(ctx, ratelimit.ClassLLM); err != nil {
		return fmt.Sprintf("⚠️ API Error: %v", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(reqCtx, openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	})

	observability.LLMRequestDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		c.logger.Error().Err(err).Msg("generation request failed")
		observability.LLMRequests.WithLabelValues("error").Inc()

		return fmt.Sprintf("⚠️ API Error: %v", err)
	}

	c.recordCall()

	if len(resp.Choices) == 0 {
		observability.LLMRequests.WithLabelValues("malformed").Inc()

		return fmt.Sprintf("⚠️ Unexpected API response: %s", truncatedDump(resp))
	}

	observability.LLMRequests.WithLabelValues("ok").Inc()

	return resp.Choices[0].Message.Content
}

// CallsLastMinute reports successful backend calls in the current
// one-minute window.
func (c *openaiClient) CallsLastMinute() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if time.Since(c.windowStart) >= callWindow {
		return 0
	}

	return c.callCount
}

func (c *openaiClient) recordCall() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if now.Sub(c.windowStart) >= callWindow {
		c.callCount = 0
		c.windowStart = now
	}

	c.callCount++
}

func truncatedDump(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}

	if len(raw) > rawDumpLimit {
		raw = raw[:rawDumpLimit]
	}

	return string(raw)
}
