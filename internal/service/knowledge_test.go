package service

import (
	"context"
	"errors"
	"testing"

	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/domain"
	"go.uber.org/zap"
)

func TestKnowledgeService_Teach(t *testing.T) {
	ks := newMockKnowledgeStore()
	svc := NewKnowledgeService(ks, zap.NewNop())

	rec, err := svc.Teach(context.Background(), domain.TeachRequest{
		Pattern: "  ساعت کاری ",
		Answer:  " ۸ تا ۲۲ ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Pattern != "ساعت کاری" || rec.Answer != "۸ تا ۲۲" {
		t.Fatalf("fields should be trimmed, got %+v", rec)
	}
	if rec.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Fatal("store should assign an id")
	}
}

func TestKnowledgeService_Teach_RequiresPatternOrIntent(t *testing.T) {
	ks := newMockKnowledgeStore()
	svc := NewKnowledgeService(ks, zap.NewNop())

	_, err := svc.Teach(context.Background(), domain.TeachRequest{Pattern: "  ", Answer: "orphan"})
	if !errors.Is(err, domain.ErrMemoryPatternOrIntentRequired) {
		t.Fatalf("expected ErrMemoryPatternOrIntentRequired, got %v", err)
	}
	if len(ks.records) != 0 {
		t.Fatal("invalid records must not be stored")
	}
}

func TestKnowledgeService_Teach_IntentOnly(t *testing.T) {
	svc := NewKnowledgeService(newMockKnowledgeStore(), zap.NewNop())

	rec, err := svc.Teach(context.Background(), domain.TeachRequest{Intent: " finance.lastMonth.status "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Intent != domain.IntentFinanceLastMonthStatus {
		t.Fatalf("unexpected intent %q", rec.Intent)
	}
}

func TestKnowledgeService_Teach_StoreError(t *testing.T) {
	ks := newMockKnowledgeStore()
	ks.err = errStoreDown
	svc := NewKnowledgeService(ks, zap.NewNop())

	_, err := svc.Teach(context.Background(), domain.TeachRequest{Pattern: "x"})
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestKnowledgeService_ListKeepsInsertionOrder(t *testing.T) {
	svc := NewKnowledgeService(newMockKnowledgeStore(), zap.NewNop())
	for _, p := range []string{"b", "a", "c"} {
		if _, err := svc.Teach(context.Background(), domain.TeachRequest{Pattern: p}); err != nil {
			t.Fatalf("teach %s: %v", p, err)
		}
	}

	got, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 || got[0].Pattern != "b" || got[2].Pattern != "c" {
		t.Fatalf("unexpected order %+v", got)
	}
}

func TestLogService_Record(t *testing.T) {
	ls := newMockLogStore()
	svc := NewLogService(ls, zap.NewNop())

	entry, err := svc.Record(context.Background(), domain.LogRequest{Message: "سلام", Reply: "درود"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.User != domain.DefaultLogUser || entry.MemoryID != nil {
		t.Fatalf("unexpected entry %+v", entry)
	}

	_, err = svc.Record(context.Background(), domain.LogRequest{Reply: "no question"})
	if !errors.Is(err, domain.ErrLogMessageRequired) {
		t.Fatalf("expected ErrLogMessageRequired, got %v", err)
	}
}

func TestLogService_ListRecentLimits(t *testing.T) {
	ls := newMockLogStore()
	svc := NewLogService(ls, zap.NewNop())
	for _, m := range []string{"1", "2", "3"} {
		_, _ = svc.Record(context.Background(), domain.LogRequest{Message: m})
	}

	got, err := svc.ListRecent(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Message != "3" {
		t.Fatalf("expected newest first, got %+v", got)
	}

	_, _ = svc.ListRecent(context.Background(), 0)
	_, _ = svc.ListRecent(context.Background(), 10_000)
	if ls.limits[1] != DefaultLogLimit || ls.limits[2] != MaxLogLimit {
		t.Fatalf("unexpected limits %v", ls.limits)
	}
}

func TestContextAggregator_Snapshot(t *testing.T) {
	gym := twoMemberGym()

	snap, err := gym.aggregator().Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Members) != 2 || len(snap.Attendance) != 1 || len(snap.Invoices) != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestContextAggregator_Error(t *testing.T) {
	gym := twoMemberGym()
	gym.memberErr = errStoreDown

	_, err := gym.aggregator().Snapshot(context.Background())
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestContextAggregator_NilStores(t *testing.T) {
	snap, err := NewContextAggregator(nil, nil, nil).Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Members) != 0 {
		t.Fatal("expected empty snapshot")
	}
}
