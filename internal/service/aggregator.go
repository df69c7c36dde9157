package service

import (
	"context"
	"fmt"

	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/domain"
	"golang.org/x/sync/errgroup"
)

// ContextAggregator reads a fresh snapshot of gym data for one query.
// Nothing is cached between calls. A nil store contributes an empty list.
type ContextAggregator struct {
	members    domain.MemberStore
	attendance domain.AttendanceStore
	invoices   domain.InvoiceStore
}

func NewContextAggregator(ms domain.MemberStore, as domain.AttendanceStore, is domain.InvoiceStore) *ContextAggregator {
	return &ContextAggregator{members: ms, attendance: as, invoices: is}
}

// Snapshot fetches the three collections concurrently. The first failure
// cancels the other reads.
func (a *ContextAggregator) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	snap := &domain.Snapshot{}
	g, ctx := errgroup.WithContext(ctx)

	if a.members != nil {
		g.Go(func() error {
			members, err := a.members.List(ctx)
			if err != nil {
				return fmt.Errorf("list members: %w", err)
			}
			snap.Members = members
			return nil
		})
	}
	if a.attendance != nil {
		g.Go(func() error {
			logs, err := a.attendance.ListAll(ctx)
			if err != nil {
				return fmt.Errorf("list attendance: %w", err)
			}
			snap.Attendance = logs
			return nil
		})
	}
	if a.invoices != nil {
		g.Go(func() error {
			invoices, err := a.invoices.List(ctx)
			if err != nil {
				return fmt.Errorf("list invoices: %w", err)
			}
			snap.Invoices = invoices
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}
