package repository

import (
	"context"
	"testing"
	"time"

	"clinic-timesheet-bot/internal/models"
)

func TestOutboxLifecycle(t *testing.T) {
	ctx := context.Background()
	repo, err := NewGormOutboxRepository(newTestDB(t))
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}

	event := models.NotificationEvent{
		EmployeeName: "Ana",
		RangeLabel:   "30/12/2024 - 02/01/2025",
		RecordType:   models.RecordTypeUnplannedLeave,
		DaysCreated:  2,
		IsFuture:     true,
		IsRange:      true,
	}
	first, err := repo.Enqueue(ctx, event)
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	second, err := repo.Enqueue(ctx, models.NotificationEvent{EmployeeName: "Luis", Date: "14/10/2025"})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	pending, err := repo.ListPending(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pending) != 2 || pending[0].ID != first.ID {
		t.Fatalf("expected both events in order, got %+v", pending)
	}
	if pending[0].Payload != event {
		t.Fatalf("payload did not round-trip: %+v", pending[0].Payload)
	}

	if err := repo.MarkDelivered(ctx, first.ID, time.Now()); err != nil {
		t.Fatalf("mark delivered: %v", err)
	}
	if err := repo.MarkAttempt(ctx, second.ID, 3, "smtp down", true); err != nil {
		t.Fatalf("mark attempt: %v", err)
	}

	pending, err = repo.ListPending(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending events, got %d", len(pending))
	}

	counts, err := repo.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if counts[models.OutboxDelivered] != 1 || counts[models.OutboxFailed] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}
