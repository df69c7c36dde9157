package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/domain"
	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/intent"
	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/llm"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrMessageEmpty = errors.New("message is required")

const (
	// ReplyApology replaces any failed or empty generative completion.
	ReplyApology = "پرسش شما مشخص نیست. می‌توانید الگوی پاسخ را اضافه کنید."
	// ReplyError is shown when gym data could not be read.
	ReplyError = "خطایی رخ داد."
)

// Where a reply came from.
const (
	SourceMemory     = "memory"
	SourceIntent     = "intent"
	SourceCompletion = "completion"
	SourceApology    = "apology"
	SourceError      = "error"
)

type ResolutionObserver interface {
	ObserveResolution(source string)
}

type AskRequest struct {
	SessionID string `json:"session_id,omitempty"`
	User      string `json:"user,omitempty"`
	Message   string `json:"message"`
}

type AskResult struct {
	Reply    string           `json:"reply"`
	Source   string           `json:"source"`
	Intent   domain.IntentKey `json:"intent,omitempty"`
	MemoryID *uuid.UUID       `json:"memory_id,omitempty"`
	Tier     string           `json:"tier,omitempty"`
	LogID    *uuid.UUID       `json:"log_id,omitempty"`
	// Superseded is set when a newer question in the same session started
	// before this one finished. The reply is logged but kept out of the
	// transcript and should not be shown.
	Superseded bool `json:"superseded"`
}

// Assistant resolves operator questions: taught answers first, then rule
// intents over a fresh snapshot, then the completion gateway.
type Assistant struct {
	knowledge  domain.KnowledgeStore
	aggregator *ContextAggregator
	completion domain.CompletionClient
	logs       *LogService
	sessions   *SessionRegistry
	logger     *zap.Logger

	defaultUser string
	observer    ResolutionObserver
	now         func() time.Time
}

func NewAssistant(ks domain.KnowledgeStore, agg *ContextAggregator, cc domain.CompletionClient, logs *LogService, sessions *SessionRegistry, logger *zap.Logger) *Assistant {
	return &Assistant{
		knowledge:   ks,
		aggregator:  agg,
		completion:  cc,
		logs:        logs,
		sessions:    sessions,
		logger:      logger,
		defaultUser: domain.DefaultLogUser,
		now:         time.Now,
	}
}

func (a *Assistant) SetDefaultUser(user string) {
	if user = strings.TrimSpace(user); user != "" {
		a.defaultUser = user
	}
}

func (a *Assistant) SetObserver(o ResolutionObserver) {
	a.observer = o
}

func (a *Assistant) SetClock(now func() time.Time) {
	a.now = now
}

func (a *Assistant) Sessions() *SessionRegistry {
	return a.sessions
}

// Ask answers one question and records it. The log entry is written for
// every resolved question, including failed completions and stale replies.
func (a *Assistant) Ask(ctx context.Context, req AskRequest) (*AskResult, error) {
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		return nil, ErrMessageEmpty
	}

	sess := a.sessions.Get(req.SessionID)
	ticket := sess.Begin()
	history := sess.Messages()

	res := a.resolve(ctx, msg, history)

	user := strings.TrimSpace(req.User)
	if user == "" {
		user = a.defaultUser
	}
	if a.logs != nil {
		entry, err := a.logs.Record(ctx, domain.LogRequest{
			User:     user,
			Message:  msg,
			Reply:    res.Reply,
			MemoryID: res.MemoryID,
		})
		if err != nil {
			a.logger.Warn("failed to record conversation log",
				zap.String("session_id", sess.ID()),
				zap.Error(err))
		} else {
			res.LogID = &entry.ID
		}
	}

	now := a.now()
	res.Superseded = !sess.Commit(ticket,
		domain.Turn{Role: domain.RoleUser, Content: msg, At: now},
		domain.Turn{Role: domain.RoleAssistant, Content: res.Reply, At: now},
	)
	if res.Superseded {
		a.logger.Debug("reply superseded by a newer question", zap.String("session_id", sess.ID()))
	}

	if a.observer != nil {
		a.observer.ObserveResolution(res.Source)
	}
	return res, nil
}

func (a *Assistant) resolve(ctx context.Context, msg string, history []domain.Message) *AskResult {
	records, err := a.knowledge.List(ctx)
	if err != nil {
		a.logger.Warn("failed to list knowledge, continuing without taught answers", zap.Error(err))
		records = nil
	}

	det := intent.Detect(msg, records)
	if det.Memory != nil && det.Memory.Answer != "" {
		id := det.Memory.ID
		return &AskResult{
			Reply:    det.Memory.Answer,
			Source:   SourceMemory,
			Intent:   det.Key,
			MemoryID: &id,
		}
	}

	snap, err := a.aggregator.Snapshot(ctx)
	if err != nil {
		a.logger.Error("failed to read gym snapshot", zap.Error(err))
		return &AskResult{Reply: ReplyError, Source: SourceError, Intent: det.Key}
	}

	if det.Key != "" {
		return &AskResult{
			Reply: intent.Answer(det.Key, intent.Input{
				Question: msg,
				Snapshot: snap,
				Now:      a.now(),
			}),
			Source: SourceIntent,
			Intent: det.Key,
		}
	}

	if a.completion == nil {
		return &AskResult{Reply: ReplyApology, Source: SourceApology}
	}

	messages := make([]domain.Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, domain.Message{Role: domain.RoleUser, Content: msg})

	cr := a.completion.Complete(ctx, domain.CompletionRequest{
		System:      llm.GroundingPrompt(len(snap.Members), len(snap.Attendance), len(snap.Invoices)),
		Messages:    messages,
		MaxTokens:   llm.DefaultMaxTokens,
		Temperature: llm.DefaultTemperature,
	})
	text := strings.TrimSpace(cr.Text)
	if !cr.OK || text == "" {
		a.logger.Warn("completion failed, replying with apology", zap.String("error", cr.Error))
		return &AskResult{Reply: ReplyApology, Source: SourceApology}
	}
	return &AskResult{Reply: text, Source: SourceCompletion, Tier: cr.Tier}
}

// Transcript returns the visible turns of a session.
func (a *Assistant) Transcript(sessionID string) ([]domain.Turn, bool) {
	sess, ok := a.sessions.Lookup(sessionID)
	if !ok {
		return nil, false
	}
	return sess.Transcript(), true
}

// Dismiss clears a session's transcript.
func (a *Assistant) Dismiss(sessionID string) bool {
	return a.sessions.Dismiss(sessionID)
}
