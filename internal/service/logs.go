package service

import (
	"context"
	"fmt"

	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/domain"
	"go.uber.org/zap"
)

const (
	DefaultLogLimit = 50
	MaxLogLimit     = 500
)

type LogService struct {
	store  domain.ConversationLogStore
	logger *zap.Logger
}

func NewLogService(ls domain.ConversationLogStore, logger *zap.Logger) *LogService {
	return &LogService{store: ls, logger: logger}
}

func (s *LogService) Record(ctx context.Context, req domain.LogRequest) (*domain.ConversationLogEntry, error) {
	entry, err := domain.NewConversationLogEntry(req)
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("create conversation log: %w", err)
	}
	return entry, nil
}

// ListRecent returns up to limit entries, newest first. Out of range limits
// fall back to DefaultLogLimit or MaxLogLimit.
func (s *LogService) ListRecent(ctx context.Context, limit int) ([]domain.ConversationLogEntry, error) {
	if limit <= 0 {
		limit = DefaultLogLimit
	}
	if limit > MaxLogLimit {
		limit = MaxLogLimit
	}
	entries, err := s.store.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list conversation logs: %w", err)
	}
	return entries, nil
}
