package store

import (
	"context"

	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ConversationLogStore struct {
	db *pgxpool.Pool
}

func NewConversationLogStore(db *pgxpool.Pool) *ConversationLogStore {
	return &ConversationLogStore{db: db}
}

func (s *ConversationLogStore) Create(ctx context.Context, e *domain.ConversationLogEntry) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO chat_logs (username, message, reply, memory_id) VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		e.User, e.Message, e.Reply, e.MemoryID,
	).Scan(&e.ID, &e.CreatedAt)
	return mapError(err)
}

func (s *ConversationLogStore) ListRecent(ctx context.Context, limit int) ([]domain.ConversationLogEntry, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, username, message, reply, memory_id, created_at
		 FROM chat_logs ORDER BY seq DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ConversationLogEntry
	for rows.Next() {
		var e domain.ConversationLogEntry
		if err := rows.Scan(&e.ID, &e.User, &e.Message, &e.Reply, &e.MemoryID, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
