package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrMemoryPatternOrIntentRequired = errors.New("at least one of pattern or intent is required")

// IntentKey identifies a question type the assistant can answer without a
// generative model.
type IntentKey string

const (
	IntentAttendanceTodayAbsent       IntentKey = "attendance.today.absent"
	IntentAttendanceTodayPresentCount IntentKey = "attendance.today.present.count"
	IntentFinanceLastMonthStatus      IntentKey = "finance.lastMonth.status"
	IntentFinanceMemberPayments       IntentKey = "finance.member.payments"
)

// MemoryRecord is an operator-taught mapping from a question pattern to a
// fixed answer and/or an intent. Records are immutable once stored.
type MemoryRecord struct {
	ID        uuid.UUID `json:"id"`
	Pattern   string    `json:"pattern,omitempty"`
	Intent    IntentKey `json:"intent,omitempty"`
	Answer    string    `json:"answer,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TeachRequest is the operator input for creating a MemoryRecord.
type TeachRequest struct {
	Pattern string `json:"pattern,omitempty" yaml:"pattern"`
	Intent  string `json:"intent,omitempty" yaml:"intent"`
	Answer  string `json:"answer,omitempty" yaml:"answer"`
}

// NewMemoryRecord trims the request fields and builds an unsaved record.
// ID and CreatedAt are assigned by the store.
func NewMemoryRecord(req TeachRequest) (*MemoryRecord, error) {
	pattern := strings.TrimSpace(req.Pattern)
	intent := strings.TrimSpace(req.Intent)
	if pattern == "" && intent == "" {
		return nil, ErrMemoryPatternOrIntentRequired
	}
	return &MemoryRecord{
		Pattern: pattern,
		Intent:  IntentKey(intent),
		Answer:  strings.TrimSpace(req.Answer),
	}, nil
}
