package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/domain"
	"github.com/google/uuid"
)

var errStoreDown = errors.New("store down")

// mockKnowledgeStore implements domain.KnowledgeStore for testing.
type mockKnowledgeStore struct {
	mu      sync.Mutex
	records []domain.MemoryRecord
	listErr error
	err     error
}

func newMockKnowledgeStore() *mockKnowledgeStore {
	return &mockKnowledgeStore{}
}

func (m *mockKnowledgeStore) Create(ctx context.Context, rec *domain.MemoryRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	rec.ID = uuid.New()
	rec.CreatedAt = time.Now()
	m.records = append(m.records, *rec)
	return nil
}

func (m *mockKnowledgeStore) List(ctx context.Context) ([]domain.MemoryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]domain.MemoryRecord, len(m.records))
	copy(out, m.records)
	return out, nil
}

// mockLogStore implements domain.ConversationLogStore for testing.
type mockLogStore struct {
	mu      sync.Mutex
	entries []domain.ConversationLogEntry
	err     error
	limits  []int
}

func newMockLogStore() *mockLogStore {
	return &mockLogStore{}
}

func (m *mockLogStore) Create(ctx context.Context, e *domain.ConversationLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	e.ID = uuid.New()
	e.CreatedAt = time.Now()
	m.entries = append(m.entries, *e)
	return nil
}

func (m *mockLogStore) ListRecent(ctx context.Context, limit int) ([]domain.ConversationLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.limits = append(m.limits, limit)
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.ConversationLogEntry
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}

func (m *mockLogStore) all() []domain.ConversationLogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.ConversationLogEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// mockGymStore implements the three gym read interfaces for testing.
type mockGymStore struct {
	mu         sync.Mutex
	members    []domain.Member
	attendance []domain.AttendanceLog
	invoices   []domain.Invoice
	memberErr  error
	reads      int
}

func (m *mockGymStore) List(ctx context.Context) ([]domain.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.memberErr != nil {
		return nil, m.memberErr
	}
	return m.members, nil
}

func (m *mockGymStore) ListAll(ctx context.Context) ([]domain.AttendanceLog, error) {
	return m.attendance, nil
}

type mockInvoiceStore struct {
	invoices []domain.Invoice
}

func (m *mockInvoiceStore) List(ctx context.Context) ([]domain.Invoice, error) {
	return m.invoices, nil
}

func (m *mockGymStore) aggregator() *ContextAggregator {
	return NewContextAggregator(m, m, &mockInvoiceStore{invoices: m.invoices})
}

func (m *mockGymStore) readCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

// blockingCompletion parks every call until release is closed.
type blockingCompletion struct {
	entered chan struct{}
	release chan struct{}
	result  domain.CompletionResult
}

func (b *blockingCompletion) Complete(ctx context.Context, req domain.CompletionRequest) domain.CompletionResult {
	b.entered <- struct{}{}
	<-b.release
	return b.result
}

type resolutionLog struct {
	mu      sync.Mutex
	sources []string
}

func (r *resolutionLog) ObserveResolution(source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources = append(r.sources, source)
}
