package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"clinic-timesheet-bot/internal/models"
)

func TestDrainOnceDelivers(t *testing.T) {
	env := newTestEnv(t, models.Day(2025, 10, 15))
	ctx := context.Background()

	for _, name := range []string{"Ana", "Luis"} {
		if err := env.notifications.Enqueue(ctx, models.NotificationEvent{EmployeeName: name, Date: "14/10/2025"}); err != nil {
			t.Fatalf("Enqueue: %v", err)
		}
	}

	delivered, err := env.notifications.DrainOnce(ctx)
	if err != nil {
		t.Fatalf("DrainOnce: %v", err)
	}
	if delivered != 2 {
		t.Errorf("delivered = %d, want 2", delivered)
	}

	got := env.notifier.delivered()
	if len(got) != 2 || got[0].EmployeeName != "Ana" || got[1].EmployeeName != "Luis" {
		t.Errorf("unexpected delivery order %+v", got)
	}
	if pending := env.queued(t); len(pending) != 0 {
		t.Errorf("outbox must be empty, got %d", len(pending))
	}
}

func TestDrainOnceRetriesThenFails(t *testing.T) {
	env := newTestEnv(t, models.Day(2025, 10, 15))
	ctx := context.Background()

	if err := env.notifications.Enqueue(ctx, models.NotificationEvent{EmployeeName: "Ana"}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	env.notifier.fail(errors.New("smtp unavailable"))

	// maxAttempts = 3 в тестовом окружении
	for attempt := 1; attempt <= 3; attempt++ {
		delivered, err := env.notifications.DrainOnce(ctx)
		if err != nil {
			t.Fatalf("DrainOnce attempt %d: %v", attempt, err)
		}
		if delivered != 0 {
			t.Fatalf("attempt %d delivered %d", attempt, delivered)
		}
	}

	if pending := env.queued(t); len(pending) != 0 {
		t.Fatalf("event must leave the queue after max attempts, %d pending", len(pending))
	}

	admin := env.login(t, "Dra. Lopez", models.RoleAdmin)
	stats, err := env.notifications.Stats(ctx, admin)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats[models.OutboxFailed] != 1 {
		t.Errorf("failed = %d, want 1", stats[models.OutboxFailed])
	}
}

func TestDrainOnceRecoversAfterFailure(t *testing.T) {
	env := newTestEnv(t, models.Day(2025, 10, 15))
	ctx := context.Background()

	if err := env.notifications.Enqueue(ctx, models.NotificationEvent{EmployeeName: "Ana"}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	env.notifier.fail(errors.New("timeout"))
	if _, err := env.notifications.DrainOnce(ctx); err != nil {
		t.Fatalf("DrainOnce: %v", err)
	}

	env.notifier.fail(nil)
	delivered, err := env.notifications.DrainOnce(ctx)
	if err != nil {
		t.Fatalf("DrainOnce: %v", err)
	}
	if delivered != 1 {
		t.Errorf("delivered = %d, want 1", delivered)
	}
}

func TestNotificationWorkerStopsOnCancel(t *testing.T) {
	env := newTestEnv(t, models.Day(2025, 10, 15))
	ctx, cancel := context.WithCancel(context.Background())

	if err := env.notifications.Enqueue(ctx, models.NotificationEvent{EmployeeName: "Ana"}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	env.notifications.Start(ctx)

	deadline := time.Now().Add(5 * time.Second)
	for len(env.notifier.delivered()) == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	cancel()

	done := make(chan struct{})
	go func() {
		env.notifications.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}

	if len(env.notifier.delivered()) != 1 {
		t.Errorf("expected the queued event to be delivered on start")
	}
}

func TestIntakeSurvivesQueueFailure(t *testing.T) {
	env := newTestEnv(t, models.Day(2025, 10, 15))
	session := env.login(t, "Ana", models.RoleEmployee)

	env.attendance.events = failingQueue{}

	record, err := env.attendance.CreateDayRecord(context.Background(), session, DayRecordInput{
		Date:  models.Day(2025, 10, 14),
		Entry: "09:00",
		Exit:  "17:00",
		Type:  models.RecordTypeForgottenCorrection,
	})
	if err != nil {
		t.Fatalf("queue failure must not fail intake: %v", err)
	}
	if record.ID == 0 {
		t.Error("record must be stored")
	}
}

type failingQueue struct{}

func (failingQueue) Enqueue(context.Context, models.NotificationEvent) error {
	return errors.New("outbox unavailable")
}
