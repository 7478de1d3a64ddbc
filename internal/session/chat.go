package session

import (
	"strings"
	"unicode/utf8"

	"secrethitler/internal/engine"
	"secrethitler/internal/protocol"
)

// MaxChatLength is the longest chat message accepted, in runes.
const MaxChatLength = 500

// chatLog keeps the most recent chat entries in a fixed-size ring.
type chatLog struct {
	entries []protocol.ChatEntry
	start   int
	size    int
}

func newChatLog(size int) *chatLog {
	if size < 1 {
		size = 1
	}
	return &chatLog{size: size}
}

func (c *chatLog) add(e protocol.ChatEntry) {
	if len(c.entries) < c.size {
		c.entries = append(c.entries, e)
		return
	}
	c.entries[c.start] = e
	c.start = (c.start + 1) % c.size
}

// list returns the entries oldest first.
func (c *chatLog) list() []protocol.ChatEntry {
	out := make([]protocol.ChatEntry, 0, len(c.entries))
	out = append(out, c.entries[c.start:]...)
	return append(out, c.entries[:c.start]...)
}

func normalizeChat(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", engine.Reject(engine.KindInvalidChoice, "Your message cannot be empty.")
	}
	if utf8.RuneCountInString(text) > MaxChatLength {
		return "", engine.Reject(engine.KindInvalidChoice, "Your message can be at most %d characters.", MaxChatLength)
	}
	return text, nil
}
