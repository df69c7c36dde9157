package domain

import (
	"context"
)

// KnowledgeStore holds taught records. List must return them in insertion order.
type KnowledgeStore interface {
	Create(ctx context.Context, m *MemoryRecord) error
	List(ctx context.Context) ([]MemoryRecord, error)
}

type ConversationLogStore interface {
	Create(ctx context.Context, e *ConversationLogEntry) error
	// ListRecent returns up to limit entries, newest first.
	ListRecent(ctx context.Context, limit int) ([]ConversationLogEntry, error)
}

type MemberStore interface {
	List(ctx context.Context) ([]Member, error)
}

type AttendanceStore interface {
	ListAll(ctx context.Context) ([]AttendanceLog, error)
}

type InvoiceStore interface {
	List(ctx context.Context) ([]Invoice, error)
}

type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) CompletionResult
}
