package store

import (
	"context"

	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type KnowledgeStore struct {
	db *pgxpool.Pool
}

func NewKnowledgeStore(db *pgxpool.Pool) *KnowledgeStore {
	return &KnowledgeStore{db: db}
}

func (s *KnowledgeStore) Create(ctx context.Context, m *domain.MemoryRecord) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO chat_memory (pattern, intent, answer) VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		m.Pattern, string(m.Intent), m.Answer,
	).Scan(&m.ID, &m.CreatedAt)
	return mapError(err)
}

// List returns records in insertion order.
func (s *KnowledgeStore) List(ctx context.Context) ([]domain.MemoryRecord, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, pattern, intent, answer, created_at FROM chat_memory ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.MemoryRecord
	for rows.Next() {
		var m domain.MemoryRecord
		var intent string
		if err := rows.Scan(&m.ID, &m.Pattern, &intent, &m.Answer, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Intent = domain.IntentKey(intent)
		out = append(out, m)
	}
	return out, rows.Err()
}
