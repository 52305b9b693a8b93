// Package router classifies a user message into exactly one context
// action: fetch a channel feed, fetch webpages, search, or nothing. It
// performs no network I/O.
package router

import (
	"regexp"
	"strings"
)

// Action is the single context-gathering path chosen for a message.
// Mutual exclusivity is deliberate: it keeps backend request size
// bounded.
type Action int

const (
	// ActionNone gathers no web context (web access disabled, or
	// nothing detected).
	ActionNone Action = iota
	// ActionChannel fetches one Telegram channel feed.
	ActionChannel
	// ActionFetch fetches up to two webpages.
	ActionFetch
	// ActionSearch runs the aggregated web search.
	ActionSearch
)

// maxURLs bounds how many URLs are fetched per message.
const maxURLs = 2

// Intent is the routing decision for one message.
type Intent struct {
	Action  Action
	Channel string   // set for ActionChannel
	URLs    []string // set for ActionFetch, normalized to https://
	Query   string   // set for ActionSearch

	// WantsDownloads is a keyword cue: the composer reinforces
	// download-link attention when set. It never changes the action.
	WantsDownloads bool
}

var (
	channelRe = regexp.MustCompile(`(?:https?://)?t(?:elegram)?\.me/(?:s/)?([A-Za-z0-9_]+)`)
	urlRe     = regexp.MustCompile(`(?:https?://|www\.)[^\s<>"]+`)
)

var downloadKeywords = []string{"download", "installer", "setup file"}

// Detect classifies text. Priority: channel reference beats generic
// URLs beats search; search runs only when the user's web mode is
// enabled. Exactly one action is ever scheduled.
func Detect(text string, webEnabled bool) Intent {
	intent := Intent{Action: ActionNone, WantsDownloads: wantsDownloads(text)}

	if !webEnabled {
		return intent
	}

	if m := channelRe.FindStringSubmatch(text); m != nil {
		intent.Action = ActionChannel
		intent.Channel = m[1]

		return intent
	}

	if urls := findURLs(text); len(urls) > 0 {
		intent.Action = ActionFetch
		intent.URLs = urls

		return intent
	}

	intent.Action = ActionSearch
	intent.Query = text

	return intent
}

// findURLs returns up to maxURLs generic URLs in order of appearance,
// prefixing scheme-less www. matches with https.
func findURLs(text string) []string {
	matches := urlRe.FindAllString(text, -1)

	var urls []string

	for _, m := range matches {
		m = strings.TrimRight(m, ".,;:!?)")
		if !strings.HasPrefix(m, "http") {
			m = "https://" + m
		}

		urls = append(urls, m)
		if len(urls) == maxURLs {
			break
		}
	}

	return urls
}

func wantsDownloads(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range downloadKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}

	return false
}
