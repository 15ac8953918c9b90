package repository

import (
	"context"
	"testing"
	"time"

	"clinic-timesheet-bot/internal/models"
)

func TestSessionRevoke(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	employees, err := NewGormEmployeeRepository(db)
	if err != nil {
		t.Fatalf("employee repo: %v", err)
	}
	sessions, err := NewGormSessionRepository(db)
	if err != nil {
		t.Fatalf("session repo: %v", err)
	}
	ana := newTestEmployee(t, employees, "Ana")

	for _, token := range []string{"token-a", "token-b"} {
		if err := sessions.Create(ctx, &models.Session{Token: token, EmployeeID: ana.ID, IssuedAt: time.Now()}); err != nil {
			t.Fatalf("create session: %v", err)
		}
	}

	got, err := sessions.GetByToken(ctx, "token-a")
	if err != nil || got == nil {
		t.Fatalf("get: %v, %v", got, err)
	}
	if !got.IsActive() || got.Employee.Name != "Ana" {
		t.Fatalf("unexpected session: %+v", got)
	}

	revoked, err := sessions.Revoke(ctx, "token-a", time.Now())
	if err != nil || !revoked {
		t.Fatalf("revoke: %v, %v", revoked, err)
	}
	revoked, err = sessions.Revoke(ctx, "token-a", time.Now())
	if err != nil || revoked {
		t.Fatalf("second revoke should be a no-op: %v, %v", revoked, err)
	}

	n, err := sessions.RevokeByEmployee(ctx, ana.ID, time.Now())
	if err != nil || n != 1 {
		t.Fatalf("expected 1 remaining session revoked, got %d, %v", n, err)
	}

	if missing, err := sessions.GetByToken(ctx, "nope"); err != nil || missing != nil {
		t.Fatalf("expected nil for unknown token, got %v, %v", missing, err)
	}
}
