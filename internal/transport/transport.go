// Package transport builds the HTTP clients shared by the fetchers and
// search providers: a plain client and, when a SOCKS5 proxy address is
// configured, a Tor client routed through it.
package transport

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/proxy"
)

const (
	// UserAgent is sent on every scraping request. Some targets
	// (DuckDuckGo HTML, t.me previews) refuse default Go user agents.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	maxRedirects = 5
)

// Clients holds the plain and Tor HTTP clients. Tor is nil when no proxy
// address was configured.
type Clients struct {
	plain *http.Client
	tor   *http.Client
}

func NewClients(timeout time.Duration, torProxyAddr string) (*Clients, error) {
	c := &Clients{plain: newClient(timeout, nil)}

	if torProxyAddr != "" {
		dialer, err := proxy.SOCKS5("tcp", torProxyAddr, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("building socks5 dialer for %s: %w", torProxyAddr, err)
		}

		c.tor = newClient(timeout, dialer)
	}

	return c, nil
}

// Pick returns the Tor client when requested and available, otherwise the
// plain client. Falling back keeps the pipeline total: a missing proxy
// degrades to a direct fetch rather than an error.
func (c *Clients) Pick(tor bool) *http.Client {
	if tor && c.tor != nil {
		return c.tor
	}

	return c.plain
}

func newClient(timeout time.Duration, dialer proxy.Dialer) *http.Client {
	client := &http.Client{
		Timeout: timeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("too many redirects")
			}

			return nil
		},
	}

	if dialer != nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.Proxy = nil
		transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			if cd, ok := dialer.(proxy.ContextDialer); ok {
				return cd.DialContext(ctx, network, addr)
			}

			return dialer.Dial(network, addr)
		}
		client.Transport = transport
	}

	return client
}
