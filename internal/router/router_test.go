package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		webEnabled bool
		want       Intent
	}{
		{
			name:       "web disabled yields no action",
			text:       "search for go releases https://go.dev",
			webEnabled: false,
			want:       Intent{Action: ActionNone},
		},
		{
			name:       "plain question becomes search",
			text:       "what is new in go 1.23",
			webEnabled: true,
			want:       Intent{Action: ActionSearch, Query: "what is new in go 1.23"},
		},
		{
			name:       "url becomes fetch",
			text:       "summarize https://example.com/article please",
			webEnabled: true,
			want:       Intent{Action: ActionFetch, URLs: []string{"https://example.com/article"}},
		},
		{
			name:       "channel link beats generic url",
			text:       "compare t.me/gonews with https://example.com/article",
			webEnabled: true,
			want:       Intent{Action: ActionChannel, Channel: "gonews"},
		},
		{
			name:       "channel preview link",
			text:       "check https://t.me/s/gonews",
			webEnabled: true,
			want:       Intent{Action: ActionChannel, Channel: "gonews"},
		},
		{
			name:       "telegram.me alias",
			text:       "see telegram.me/updates_channel",
			webEnabled: true,
			want:       Intent{Action: ActionChannel, Channel: "updates_channel"},
		},
		{
			name:       "at most two urls fetched",
			text:       "read https://a.example.com https://b.example.com https://c.example.com",
			webEnabled: true,
			want:       Intent{Action: ActionFetch, URLs: []string{"https://a.example.com", "https://b.example.com"}},
		},
		{
			name:       "www url gets https scheme",
			text:       "open www.example.com/page",
			webEnabled: true,
			want:       Intent{Action: ActionFetch, URLs: []string{"https://www.example.com/page"}},
		},
		{
			name:       "trailing punctuation stripped",
			text:       "is https://example.com/doc. the right link?",
			webEnabled: true,
			want:       Intent{Action: ActionFetch, URLs: []string{"https://example.com/doc"}},
		},
		{
			name:       "download keyword sets cue on search",
			text:       "where can I download the latest installer",
			webEnabled: true,
			want:       Intent{Action: ActionSearch, Query: "where can I download the latest installer", WantsDownloads: true},
		},
		{
			name:       "download keyword set even when disabled",
			text:       "download link please",
			webEnabled: false,
			want:       Intent{Action: ActionNone, WantsDownloads: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.text, tt.webEnabled))
		})
	}
}
