package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/domain"
	"github.com/google/uuid"
)

type ConversationLogStore struct {
	db *DB
}

func NewConversationLogStore(db *DB) *ConversationLogStore {
	return &ConversationLogStore{db: db}
}

func (s *ConversationLogStore) Create(ctx context.Context, e *domain.ConversationLogEntry) error {
	id := uuid.New()
	now := time.Now()

	var memoryID sql.NullString
	if e.MemoryID != nil {
		memoryID = sql.NullString{String: e.MemoryID.String(), Valid: true}
	}

	_, err := s.db.db.ExecContext(ctx,
		`INSERT INTO chat_logs (id, username, message, reply, memory_id, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id.String(), e.User, e.Message, e.Reply, memoryID, formatTime(now),
	)
	if err != nil {
		return mapError(err)
	}
	e.ID = id
	e.CreatedAt = now
	return nil
}

func (s *ConversationLogStore) ListRecent(ctx context.Context, limit int) ([]domain.ConversationLogEntry, error) {
	rows, err := s.db.db.QueryContext(ctx,
		`SELECT id, username, message, reply, memory_id, created_at
		 FROM chat_logs ORDER BY seq DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ConversationLogEntry
	for rows.Next() {
		var (
			e         domain.ConversationLogEntry
			id, stamp string
			memoryID  sql.NullString
		)
		if err := rows.Scan(&id, &e.User, &e.Message, &e.Reply, &memoryID, &stamp); err != nil {
			return nil, err
		}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, err
		}
		if memoryID.Valid {
			mid, err := uuid.Parse(memoryID.String)
			if err != nil {
				return nil, err
			}
			e.MemoryID = &mid
		}
		if e.CreatedAt, err = parseTime(stamp); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
