package store

import (
	"context"

	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Gym tables are written by the management app; these stores only read.

type MemberStore struct {
	db *pgxpool.Pool
}

func NewMemberStore(db *pgxpool.Pool) *MemberStore {
	return &MemberStore{db: db}
}

func (s *MemberStore) List(ctx context.Context) ([]domain.Member, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, COALESCE(first_name, ''), COALESCE(last_name, ''), COALESCE(name, ''), status, created_at
		 FROM members ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Member, error) {
		var m domain.Member
		err := row.Scan(&m.ID, &m.FirstName, &m.LastName, &m.Name, &m.Status, &m.CreatedAt)
		return m, err
	})
}

type AttendanceStore struct {
	db *pgxpool.Pool
}

func NewAttendanceStore(db *pgxpool.Pool) *AttendanceStore {
	return &AttendanceStore{db: db}
}

func (s *AttendanceStore) ListAll(ctx context.Context) ([]domain.AttendanceLog, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, member_id, type, at FROM attendance_logs ORDER BY at`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.AttendanceLog, error) {
		var l domain.AttendanceLog
		err := row.Scan(&l.ID, &l.MemberID, &l.Type, &l.At)
		return l, err
	})
}

type InvoiceStore struct {
	db *pgxpool.Pool
}

func NewInvoiceStore(db *pgxpool.Pool) *InvoiceStore {
	return &InvoiceStore{db: db}
}

func (s *InvoiceStore) List(ctx context.Context) ([]domain.Invoice, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, member_id, COALESCE(payment_id, ''), amount, currency, created_at
		 FROM invoices ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Invoice, error) {
		var inv domain.Invoice
		err := row.Scan(&inv.ID, &inv.MemberID, &inv.PaymentID, &inv.Amount, &inv.Currency, &inv.CreatedAt)
		return inv, err
	})
}
