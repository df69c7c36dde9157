package sqlite

import (
	"context"
	"database/sql"

	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/domain"
)

// Gym tables are written by the management app; these stores only read.

type MemberStore struct {
	db *DB
}

func NewMemberStore(db *DB) *MemberStore {
	return &MemberStore{db: db}
}

func (s *MemberStore) List(ctx context.Context) ([]domain.Member, error) {
	rows, err := s.db.db.QueryContext(ctx,
		`SELECT id, COALESCE(first_name, ''), COALESCE(last_name, ''), COALESCE(name, ''), status, created_at
		 FROM members ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Member
	for rows.Next() {
		var (
			m      domain.Member
			status string
			stamp  string
		)
		if err := rows.Scan(&m.ID, &m.FirstName, &m.LastName, &m.Name, &status, &stamp); err != nil {
			return nil, err
		}
		m.Status = domain.MemberStatus(status)
		if m.CreatedAt, err = parseTime(stamp); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

type AttendanceStore struct {
	db *DB
}

func NewAttendanceStore(db *DB) *AttendanceStore {
	return &AttendanceStore{db: db}
}

func (s *AttendanceStore) ListAll(ctx context.Context) ([]domain.AttendanceLog, error) {
	rows, err := s.db.db.QueryContext(ctx,
		`SELECT id, member_id, type, at FROM attendance_logs ORDER BY at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AttendanceLog
	for rows.Next() {
		var (
			l          domain.AttendanceLog
			typ, stamp string
		)
		if err := rows.Scan(&l.ID, &l.MemberID, &typ, &stamp); err != nil {
			return nil, err
		}
		l.Type = domain.AttendanceType(typ)
		if l.At, err = parseTime(stamp); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

type InvoiceStore struct {
	db *DB
}

func NewInvoiceStore(db *DB) *InvoiceStore {
	return &InvoiceStore{db: db}
}

func (s *InvoiceStore) List(ctx context.Context) ([]domain.Invoice, error) {
	rows, err := s.db.db.QueryContext(ctx,
		`SELECT id, member_id, payment_id, amount, currency, created_at
		 FROM invoices ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Invoice
	for rows.Next() {
		var (
			inv       domain.Invoice
			paymentID sql.NullString
			stamp     string
		)
		if err := rows.Scan(&inv.ID, &inv.MemberID, &paymentID, &inv.Amount, &inv.Currency, &stamp); err != nil {
			return nil, err
		}
		inv.PaymentID = paymentID.String
		if inv.CreatedAt, err = parseTime(stamp); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}
