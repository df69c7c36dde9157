package service

import (
	"context"
	"fmt"

	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/domain"
	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/intent"
	"go.uber.org/zap"
)

// KnowledgeService teaches and lists operator-supplied answers.
type KnowledgeService struct {
	store  domain.KnowledgeStore
	logger *zap.Logger
}

func NewKnowledgeService(ks domain.KnowledgeStore, logger *zap.Logger) *KnowledgeService {
	return &KnowledgeService{store: ks, logger: logger}
}

// Teach stores a new record. Intent keys are not checked against the known
// set; a record naming an unknown intent answers with the not-understood
// reply when matched.
func (s *KnowledgeService) Teach(ctx context.Context, req domain.TeachRequest) (*domain.MemoryRecord, error) {
	rec, err := domain.NewMemoryRecord(req)
	if err != nil {
		return nil, err
	}
	if rec.Intent != "" && !intent.Known(rec.Intent) {
		s.logger.Info("taught record names an unknown intent", zap.String("intent", string(rec.Intent)))
	}

	if err := s.store.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("create memory record: %w", err)
	}

	s.logger.Debug("memory record taught",
		zap.String("id", rec.ID.String()),
		zap.String("pattern", rec.Pattern),
		zap.String("intent", string(rec.Intent)),
	)
	return rec, nil
}

// List returns every record in insertion order.
func (s *KnowledgeService) List(ctx context.Context) ([]domain.MemoryRecord, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list memory records: %w", err)
	}
	return records, nil
}
