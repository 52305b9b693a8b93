package bot

import "strings"

// SplitMessage splits reply text into parts within Telegram's per-message
// limit, preferring paragraph and line boundaries, then spaces, before
// cutting mid-word.
func SplitMessage(text string, limit int) []string {
	if len([]rune(text)) <= limit {
		return []string{text}
	}

	var parts []string

	remaining := text
	for len([]rune(remaining)) > limit {
		head := string([]rune(remaining)[:limit])

		cut := len(head)
		if pos := strings.LastIndex(head, "\n\n"); pos > 0 {
			cut = pos + 2
		} else if pos := strings.LastIndex(head, "\n"); pos > 0 {
			cut = pos + 1
		} else if pos := strings.LastIndex(head, " "); pos > 0 {
			cut = pos + 1
		}

		parts = append(parts, strings.TrimRight(remaining[:cut], " \t\n"))
		remaining = strings.TrimLeft(remaining[cut:], " \t\n")
	}

	if remaining != "" {
		parts = append(parts, remaining)
	}

	return parts
}
