package sqlite

import (
	"context"
	"time"

	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/domain"
	"github.com/google/uuid"
)

type KnowledgeStore struct {
	db *DB
}

func NewKnowledgeStore(db *DB) *KnowledgeStore {
	return &KnowledgeStore{db: db}
}

func (s *KnowledgeStore) Create(ctx context.Context, m *domain.MemoryRecord) error {
	id := uuid.New()
	now := time.Now()
	_, err := s.db.db.ExecContext(ctx,
		`INSERT INTO chat_memory (id, pattern, intent, answer, created_at) VALUES (?, ?, ?, ?, ?)`,
		id.String(), m.Pattern, string(m.Intent), m.Answer, formatTime(now),
	)
	if err != nil {
		return mapError(err)
	}
	m.ID = id
	m.CreatedAt = now
	return nil
}

// List returns records in insertion order.
func (s *KnowledgeStore) List(ctx context.Context) ([]domain.MemoryRecord, error) {
	rows, err := s.db.db.QueryContext(ctx,
		`SELECT id, pattern, intent, answer, created_at FROM chat_memory ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.MemoryRecord
	for rows.Next() {
		var (
			m                 domain.MemoryRecord
			id, intent, stamp string
		)
		if err := rows.Scan(&id, &m.Pattern, &intent, &m.Answer, &stamp); err != nil {
			return nil, err
		}
		if m.ID, err = uuid.Parse(id); err != nil {
			return nil, err
		}
		if m.CreatedAt, err = parseTime(stamp); err != nil {
			return nil, err
		}
		m.Intent = domain.IntentKey(intent)
		out = append(out, m)
	}
	return out, rows.Err()
}
