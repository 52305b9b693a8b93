package channelfeed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/aiassistant/telegram-web-bot/internal/transport"
)

func newTestFetcher(t *testing.T, maxMessages int) *Fetcher {
	t.Helper()

	clients, err := transport.NewClients(5*time.Second, "")
	if err != nil {
		t.Fatalf("building clients: %v", err)
	}

	logger := zerolog.Nop()

	return NewFetcher(clients, maxMessages, &logger)
}

func previewMessage(text, datetime, extra string) string {
	return fmt.Sprintf(`
		<div class="tgme_widget_message_wrap">
			<div class="tgme_widget_message_text">%s</div>
			%s
			<a class="tgme_widget_message_date"><time datetime="%s"></time></a>
		</div>`, text, extra, datetime)
}

func previewPage(title string, messages ...string) string {
	return `<html><body>
		<div class="tgme_channel_info_header_title"><span>` + title + `</span></div>` +
		strings.Join(messages, "\n") + `</body></html>`
}

func TestFetch_ParsesMessages(t *testing.T) {
	page := previewPage("Go Updates",
		previewMessage("Release 1.23 is out", "2024-08-13T10:30:00+00:00", ""),
		previewMessage("With a photo", "2024-08-14T09:00:00+00:00", `<div class="tgme_widget_message_photo_wrap"></div>`),
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/gonews" {
			http.NotFound(w, r)

			return
		}

		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	feed := newTestFetcher(t, 15).WithBaseURL(server.URL).Fetch(context.Background(), "@gonews", false)

	if feed.Title != "Go Updates" {
		t.Errorf("title: got %q", feed.Title)
	}

	if !strings.Contains(feed.Content, "2024-08-13 10:30: Release 1.23 is out") {
		t.Errorf("first message missing or misformatted:\n%s", feed.Content)
	}

	if !strings.Contains(feed.Content, "With a photo [Photo]") {
		t.Errorf("photo marker missing:\n%s", feed.Content)
	}
}

func TestFetch_CapsMessages(t *testing.T) {
	var messages []string
	for i := 0; i < 20; i++ {
		messages = append(messages, previewMessage(fmt.Sprintf("message %d", i), "2024-08-13T10:30:00+00:00", ""))
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(previewPage("Busy Channel", messages...)))
	}))
	defer server.Close()

	feed := newTestFetcher(t, 15).WithBaseURL(server.URL).Fetch(context.Background(), "busy", false)

	if got := strings.Count(feed.Content, "message "); got != 15 {
		t.Errorf("message count: got %d, want 15", got)
	}
}

func TestFetch_EmptyChannel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(previewPage("Quiet Channel")))
	}))
	defer server.Close()

	feed := newTestFetcher(t, 15).WithBaseURL(server.URL).Fetch(context.Background(), "quiet", false)

	if feed.Content != "No messages found" {
		t.Errorf("content: got %q", feed.Content)
	}
}

func TestFetch_FailureReturnsSentinel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	feed := newTestFetcher(t, 15).WithBaseURL(server.URL).Fetch(context.Background(), "missing", false)

	if feed.Title != "Error" {
		t.Errorf("sentinel title: got %q", feed.Title)
	}

	if !strings.HasPrefix(feed.Content, "⚠️ Failed to fetch Telegram channel:") {
		t.Errorf("sentinel content: got %q", feed.Content)
	}
}

func TestFormatMessageDate(t *testing.T) {
	if got := formatMessageDate("2024-08-13T10:30:00+02:00"); got != "2024-08-13 08:30" {
		t.Errorf("got %q", got)
	}

	// Unparseable values pass through untouched.
	if got := formatMessageDate("whenever"); got != "whenever" {
		t.Errorf("got %q", got)
	}
}
