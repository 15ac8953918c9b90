package service

import (
	"context"
	"testing"

	"clinic-timesheet-bot/internal/models"
)

func TestMonthSummary(t *testing.T) {
	env := newTestEnv(t, models.Day(2025, 10, 15), models.Day(2025, 10, 9))
	admin := env.login(t, "Dra. Lopez", models.RoleAdmin)
	ana := env.login(t, "Ana", models.RoleEmployee)
	ctx := context.Background()

	// сегодня: 8 часов минус перерыв
	if _, err := env.attendance.CreateDayRecord(ctx, ana, DayRecordInput{
		Date: models.Day(2025, 10, 15), Entry: "08:00", Exit: "16:00",
	}); err != nil {
		t.Fatalf("CreateDayRecord today: %v", err)
	}
	rejected := newPendingRecord(t, env, ana, 14)
	if _, err := env.approval.Reject(ctx, admin, rejected.ID, ""); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if _, err := env.attendance.CreateDayRecord(ctx, ana, DayRecordInput{
		Date: models.Day(2025, 10, 13), Type: models.RecordTypePersonalDay,
	}); err != nil {
		t.Fatalf("CreateDayRecord personal day: %v", err)
	}

	summaries, err := env.reports.MonthSummary(ctx, admin, 2025, 10)
	if err != nil {
		t.Fatalf("MonthSummary: %v", err)
	}
	if len(summaries) != 2 || summaries[0].EmployeeName != "Ana" {
		t.Fatalf("unexpected summaries %+v", summaries)
	}

	got := summaries[0]
	if got.Workdays != 22 {
		t.Errorf("workdays = %d, want 22", got.Workdays)
	}
	if got.Recorded != 3 || got.Approved != 1 || got.Pending != 1 || got.Rejected != 1 {
		t.Errorf("counts = %+v", got)
	}
	if got.AbsenceDays != 1 {
		t.Errorf("absence days = %d, want 1", got.AbsenceDays)
	}
	if got.WorkedHours != 7 {
		t.Errorf("worked hours = %v, want 7", got.WorkedHours)
	}
	// пропуски с 1 по 14 октября без 9-го, минус 13 и 14
	if got.Missing != 7 {
		t.Errorf("missing = %d, want 7", got.Missing)
	}

	_, err = env.reports.MonthSummary(ctx, ana, 2025, 10)
	assertErrorIs(t, err, models.ErrForbidden)

	mine, err := env.reports.MySummary(ctx, ana)
	if err != nil {
		t.Fatalf("MySummary: %v", err)
	}
	if mine.Recorded != 3 || mine.EmployeeName != "Ana" {
		t.Errorf("unexpected own summary %+v", mine)
	}
}

func TestExport(t *testing.T) {
	env := newTestEnv(t, models.Day(2025, 10, 15))
	admin := env.login(t, "Dra. Lopez", models.RoleAdmin)
	ana := env.login(t, "Ana", models.RoleEmployee)
	ctx := context.Background()

	newPendingRecord(t, env, ana, 14)
	newPendingRecord(t, env, ana, 13)

	rows, err := env.reports.Export(ctx, admin)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].EmployeeName != "Ana" || rows[0].Date.Day() != 13 {
		t.Errorf("unexpected first row %+v", rows[0])
	}

	_, err = env.reports.Export(ctx, ana)
	assertErrorIs(t, err, models.ErrForbidden)
}
