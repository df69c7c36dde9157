package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultLogUser is recorded when a log request carries no user.
const DefaultLogUser = "manager"

var ErrLogMessageRequired = errors.New("message is required")

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ConversationLogEntry records one resolved exchange. Entries are append-only.
type ConversationLogEntry struct {
	ID        uuid.UUID  `json:"id"`
	User      string     `json:"user"`
	Message   string     `json:"message"`
	Reply     string     `json:"reply"`
	MemoryID  *uuid.UUID `json:"memory_id"`
	CreatedAt time.Time  `json:"created_at"`
}

type LogRequest struct {
	User     string     `json:"user,omitempty"`
	Message  string     `json:"message"`
	Reply    string     `json:"reply,omitempty"`
	MemoryID *uuid.UUID `json:"memory_id,omitempty"`
}

func NewConversationLogEntry(req LogRequest) (*ConversationLogEntry, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrLogMessageRequired
	}
	user := strings.TrimSpace(req.User)
	if user == "" {
		user = DefaultLogUser
	}
	var memoryID *uuid.UUID
	if req.MemoryID != nil && *req.MemoryID != uuid.Nil {
		id := *req.MemoryID
		memoryID = &id
	}
	return &ConversationLogEntry{
		User:     user,
		Message:  req.Message,
		Reply:    req.Reply,
		MemoryID: memoryID,
	}, nil
}

// Turn is one side of an exchange held in a session transcript.
type Turn struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

type CompletionRequest struct {
	System      string    `json:"system,omitempty"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature"`
}

// CompletionResult never carries a Go error: failures are reported through
// OK=false and a message in Error.
type CompletionResult struct {
	OK    bool   `json:"ok"`
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
	Tier  string `json:"tier,omitempty"`
}
