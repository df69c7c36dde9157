package domain

import (
	"strings"
	"time"
)

type MemberStatus string

const (
	MemberStatusActive   MemberStatus = "active"
	MemberStatusInactive MemberStatus = "inactive"
)

type Member struct {
	ID        string       `json:"id"`
	FirstName string       `json:"first_name,omitempty"`
	LastName  string       `json:"last_name,omitempty"`
	Name      string       `json:"name,omitempty"`
	Status    MemberStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}

// Active reports whether the member counts toward attendance figures.
// Anything other than an explicit inactive status is active.
func (m Member) Active() bool {
	return m.Status != MemberStatusInactive
}

// DisplayName prefers "first last", then Name, then ID.
func (m Member) DisplayName() string {
	if full := strings.TrimSpace(m.FirstName + " " + m.LastName); full != "" {
		return full
	}
	if name := strings.TrimSpace(m.Name); name != "" {
		return name
	}
	return m.ID
}

type AttendanceType string

const (
	AttendanceEnter AttendanceType = "enter"
	AttendanceExit  AttendanceType = "exit"
)

type AttendanceLog struct {
	ID       string         `json:"id"`
	MemberID string         `json:"member_id"`
	Type     AttendanceType `json:"type"`
	At       time.Time      `json:"at"`
}

// Invoice mirrors a recorded payment. Amount is in rials.
type Invoice struct {
	ID        string    `json:"id"`
	MemberID  string    `json:"member_id"`
	PaymentID string    `json:"payment_id,omitempty"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
}

// Snapshot is a point-in-time read of gym data used to compute one answer.
// It is never cached between queries.
type Snapshot struct {
	Members    []Member        `json:"members"`
	Attendance []AttendanceLog `json:"attendance"`
	Invoices   []Invoice       `json:"invoices"`
}
