package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/domain"
	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/llm"
	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEnv struct {
	app    *App
	stores *Stores
	llm    *llm.MockClient
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	stores, err := OpenSQLite(context.Background(), ":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(stores.Close)

	mock := llm.NewMockClient()
	return &testEnv{app: newApp(stores, mock, zap.NewNop()), stores: stores, llm: mock}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.app.Router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Contains(t, body, "build")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestHealth_StoreDown(t *testing.T) {
	env := newTestEnv(t)
	env.stores.Ping = func(context.Context) error { return errors.New("db gone") }
	env.app = newApp(env.stores, env.llm, zap.NewNop())

	rec := env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "error", decode[map[string]any](t, rec)["status"])
}

func TestAsk_TaughtAnswerIsLoggedWithMemoryID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/v1/memory", domain.TeachRequest{Pattern: "ساعت کاری", Answer: "هر روز از ۸ تا ۲۲"})
	require.Equal(t, http.StatusCreated, rec.Code)
	taught := decode[domain.MemoryRecord](t, rec)

	rec = env.do(t, http.MethodPost, "/v1/sessions/front-desk/messages", map[string]string{"message": "ساعت کاری باشگاه؟"})
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[service.AskResult](t, rec)
	assert.Equal(t, "هر روز از ۸ تا ۲۲", res.Reply)
	assert.Equal(t, service.SourceMemory, res.Source)
	require.NotNil(t, res.MemoryID)
	assert.Equal(t, taught.ID, *res.MemoryID)
	assert.Empty(t, env.llm.Calls)

	rec = env.do(t, http.MethodGet, "/v1/logs?limit=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	logs := decode[listLogs](t, rec)
	require.Len(t, logs.Entries, 1)
	assert.Equal(t, "manager", logs.Entries[0].User)
	require.NotNil(t, logs.Entries[0].MemoryID)
	assert.Equal(t, taught.ID, *logs.Entries[0].MemoryID)
}

type listLogs struct {
	Entries []domain.ConversationLogEntry `json:"entries"`
}

func TestAsk_RuleIntent(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/v1/sessions/s1/messages", map[string]string{"message": "چه کسانی امروز غیبت داشتند؟"})
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[service.AskResult](t, rec)
	assert.Equal(t, service.SourceIntent, res.Source)
	assert.Equal(t, domain.IntentAttendanceTodayAbsent, res.Intent)
	assert.Nil(t, res.MemoryID)
}

func TestAsk_CompletionAndTranscript(t *testing.T) {
	env := newTestEnv(t)
	env.llm.Response = domain.CompletionResult{OK: true, Text: "سلام!", Tier: llm.TierPrimary}

	rec := env.do(t, http.MethodPost, "/v1/sessions/s1/messages", map[string]string{"message": "سلام", "user": "owner"})
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[service.AskResult](t, rec)
	assert.Equal(t, "سلام!", res.Reply)
	assert.Equal(t, service.SourceCompletion, res.Source)
	assert.Equal(t, llm.TierPrimary, res.Tier)

	require.Len(t, env.llm.Calls, 1)
	call := env.llm.Calls[0]
	assert.Equal(t, llm.DefaultMaxTokens, call.MaxTokens)
	assert.InDelta(t, llm.DefaultTemperature, call.Temperature, 1e-9)
	assert.Contains(t, call.System, "0")

	rec = env.do(t, http.MethodGet, "/v1/sessions/s1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	tr := decode[transcript](t, rec)
	require.Len(t, tr.Turns, 2)
	assert.Equal(t, domain.RoleUser, tr.Turns[0].Role)
	assert.Equal(t, "سلام!", tr.Turns[1].Content)

	rec = env.do(t, http.MethodDelete, "/v1/sessions/s1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(t, http.MethodGet, "/v1/sessions/s1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = env.do(t, http.MethodDelete, "/v1/sessions/s1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type transcript struct {
	SessionID string        `json:"session_id"`
	Turns     []domain.Turn `json:"turns"`
}

func TestAsk_FailedCompletionApologizes(t *testing.T) {
	env := newTestEnv(t)
	env.llm.Response = domain.CompletionResult{OK: false, Error: "all tiers failed"}

	rec := env.do(t, http.MethodPost, "/v1/sessions/s1/messages", map[string]string{"message": "یک سوال نامشخص"})
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[service.AskResult](t, rec)
	assert.Equal(t, service.ReplyApology, res.Reply)
	assert.NotContains(t, rec.Body.String(), "all tiers failed")

	logs := decode[listLogs](t, env.do(t, http.MethodGet, "/v1/logs", nil))
	require.Len(t, logs.Entries, 1)
	assert.Equal(t, service.ReplyApology, logs.Entries[0].Reply)
}

func TestAsk_Validation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/v1/sessions/s1/messages", map[string]string{"message": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/v1/sessions/s1/messages", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/v1/sessions/"+strings.Repeat("x", 200)+"/messages", map[string]string{"message": "hi"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMemory_TeachValidationAndList(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/v1/memory", domain.TeachRequest{Pattern: "  ", Intent: " ", Answer: "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/v1/memory", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"records":[]}`, rec.Body.String())

	env.do(t, http.MethodPost, "/v1/memory", domain.TeachRequest{Intent: string(domain.IntentFinanceLastMonthStatus)})
	rec = env.do(t, http.MethodGet, "/v1/memory", nil)
	var body struct {
		Records []domain.MemoryRecord `json:"records"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Records, 1)
	assert.Equal(t, domain.IntentFinanceLastMonthStatus, body.Records[0].Intent)
}

func TestLogs_CreateAndLimit(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/v1/logs", domain.LogRequest{Message: "پرسش", Reply: "پاسخ"})
	require.Equal(t, http.StatusCreated, rec.Code)
	entry := decode[domain.ConversationLogEntry](t, rec)
	assert.Equal(t, domain.DefaultLogUser, entry.User)

	rec = env.do(t, http.MethodPost, "/v1/logs", domain.LogRequest{Reply: "no message"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/v1/logs?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompletions_AlwaysResultShaped(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/v1/completions", map[string]any{
		"messages": []domain.Message{{Role: domain.RoleUser, Content: "hi"}},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[domain.CompletionResult](t, rec)
	assert.True(t, res.OK)
	assert.Equal(t, "Mock completion", res.Text)
	require.Len(t, env.llm.Calls, 1)
	assert.InDelta(t, llm.DefaultTemperature, env.llm.Calls[0].Temperature, 1e-9)

	rec = env.do(t, http.MethodPost, "/v1/completions", map[string]any{
		"messages":    []domain.Message{{Role: domain.RoleUser, Content: "hi"}},
		"temperature": 0,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, env.llm.Calls[1].Temperature)

	env.llm.Response = domain.CompletionResult{OK: false, Error: "primary: upstream unavailable"}
	rec = env.do(t, http.MethodPost, "/v1/completions", map[string]any{
		"messages": []domain.Message{{Role: domain.RoleUser, Content: "hi"}},
	})
	assert.JSONEq(t, `{"ok":false,"error":"primary: upstream unavailable"}`, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/v1/completions", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"ok":false,"error":"messages are required"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/v1/sessions/s1/messages", map[string]string{"message": "سلام"})

	rec := env.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `gymchat_resolutions_total{source="completion"} 1`)
	assert.Contains(t, body, `route="/v1/sessions/{id}/messages"`)
	assert.Contains(t, body, "gymchat_active_sessions 1")
}
