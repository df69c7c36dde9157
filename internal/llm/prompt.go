package llm

import (
	"strings"

	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/domain"
)

const (
	DefaultMaxTokens = 256
	MinMaxTokens     = 32
	MaxMaxTokens     = 1024

	DefaultTemperature = 0.2
)

// Flat prompt speaker labels.
const (
	systemLabel    = "سیستم:"
	userLabel      = "کاربر:"
	assistantLabel = "دستیار:"
)

// ClampMaxTokens maps 0 to DefaultMaxTokens and bounds the rest to
// [MinMaxTokens, MaxMaxTokens].
func ClampMaxTokens(n int) int {
	if n == 0 {
		n = DefaultMaxTokens
	}
	return max(MinMaxTokens, min(MaxMaxTokens, n))
}

// FlatPrompt renders a transcript for plain text-generation models: an
// optional system line, one line per user or assistant turn, and an open
// assistant marker. Other roles are dropped.
func FlatPrompt(system string, messages []domain.Message) string {
	lines := make([]string, 0, len(messages)+2)
	if system != "" {
		lines = append(lines, systemLabel+" "+system)
	}
	for _, m := range messages {
		switch m.Role {
		case domain.RoleUser:
			lines = append(lines, userLabel+" "+m.Content)
		case domain.RoleAssistant:
			lines = append(lines, assistantLabel+" "+m.Content)
		}
	}
	lines = append(lines, assistantLabel)
	return strings.Join(lines, "\n")
}

// chatMessages is the role-tagged form sent to chat backends. The system
// prompt, when present, leads as its own message.
func chatMessages(system string, messages []domain.Message) []chatMessage {
	out := make([]chatMessage, 0, len(messages)+1)
	if system != "" {
		out = append(out, chatMessage{Role: domain.RoleSystem, Content: system})
	}
	for _, m := range messages {
		out = append(out, chatMessage{Role: m.Role, Content: m.Content})
	}
	return out
}
