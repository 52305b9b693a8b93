package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const keepAliveRequestTimeout = 10 * time.Second

// KeepAlive pings the local health endpoint on an interval so hosting
// platforms that idle out quiet processes keep the bot alive.
type KeepAlive struct {
	url      string
	interval time.Duration
	client   *http.Client
	logger   *zerolog.Logger
}

func NewKeepAlive(port int, interval time.Duration, logger *zerolog.Logger) *KeepAlive {
	return &KeepAlive{
		url:      fmt.Sprintf("http://localhost:%d/ping", port),
		interval: interval,
		client:   &http.Client{Timeout: keepAliveRequestTimeout},
		logger:   logger,
	}
}

func (k *KeepAlive) Run(ctx context.Context) {
	ticker := time.NewTicker(k.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			k.ping(ctx)
		}
	}
}

func (k *KeepAlive) ping(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.url, nil)
	if err != nil {
		k.logger.Error().Err(err).Msg("keep-alive request build failed")

		return
	}

	resp, err := k.client.Do(req)
	if err != nil {
		k.logger.Warn().Err(err).Msg("keep-alive ping failed")

		return
	}

	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		k.logger.Warn().Int("status", resp.StatusCode).Msg("keep-alive ping returned non-OK status")

		return
	}

	k.logger.Debug().Msg("keep-alive ping successful")
}
