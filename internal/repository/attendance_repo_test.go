package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"clinic-timesheet-bot/internal/models"
)

func newAttendanceFixture(t *testing.T) (*GormAttendanceRepository, *models.Employee) {
	t.Helper()

	db := newTestDB(t)
	employees, err := NewGormEmployeeRepository(db)
	if err != nil {
		t.Fatalf("employee repo: %v", err)
	}
	records, err := NewGormAttendanceRepository(db)
	if err != nil {
		t.Fatalf("attendance repo: %v", err)
	}
	return records, newTestEmployee(t, employees, "Ana")
}

func workRecord(employeeID uint, date time.Time) *models.AttendanceRecord {
	entry, exit := "10:00", "20:00"
	return &models.AttendanceRecord{
		EmployeeID: employeeID,
		Date:       date,
		EntryTime:  &entry,
		ExitTime:   &exit,
		BreakHours: 1,
		RecordType: models.RecordTypeWork,
		Status:     models.StatusApproved,
		CreatedBy:  employeeID,
	}
}

func absenceRecord(employeeID uint, date time.Time) *models.AttendanceRecord {
	return &models.AttendanceRecord{
		EmployeeID: employeeID,
		Date:       date,
		RecordType: models.RecordTypeUnplannedLeave,
		Status:     models.StatusPending,
		CreatedBy:  employeeID,
	}
}

func TestInsertRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	repo, ana := newAttendanceFixture(t)
	day := models.Day(2025, 10, 14)

	if err := repo.Insert(ctx, workRecord(ana.ID, day)); err != nil {
		t.Fatalf("first insert: %v", err)
	}

	second := workRecord(ana.ID, day)
	second.Status = models.StatusPending
	err := repo.Insert(ctx, second)
	if !errors.Is(err, models.ErrDuplicateRecord) {
		t.Fatalf("expected ErrDuplicateRecord, got %v", err)
	}

	// первая запись не перезаписана
	stored, err := repo.FindByEmployeeAndDate(ctx, ana.ID, day)
	if err != nil || stored == nil {
		t.Fatalf("find: %v, %v", stored, err)
	}
	if stored.Status != models.StatusApproved {
		t.Fatalf("expected existing APPROVED record, got %s", stored.Status)
	}
	if !models.SameDay(stored.Date, day) {
		t.Fatalf("expected date %s, got %s", day, stored.Date)
	}
}

func TestInsertRejectsInvalidRecord(t *testing.T) {
	repo, ana := newAttendanceFixture(t)

	record := absenceRecord(ana.ID, models.Day(2025, 10, 20))
	entry := "09:00"
	record.EntryTime = &entry

	if err := repo.Insert(context.Background(), record); !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for absence with shift time, got %v", err)
	}
}

func TestInsertRangeSkipsDuplicatesWithinTransaction(t *testing.T) {
	ctx := context.Background()
	repo, ana := newAttendanceFixture(t)

	taken := models.Day(2025, 11, 4)
	if err := repo.Insert(ctx, absenceRecord(ana.ID, taken)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	request := &models.AbsenceRequest{
		EmployeeID: ana.ID,
		StartDate:  models.Day(2025, 11, 3),
		EndDate:    models.Day(2025, 11, 5),
		RecordType: models.RecordTypeUnplannedLeave,
	}
	records := []*models.AttendanceRecord{
		absenceRecord(ana.ID, models.Day(2025, 11, 3)),
		absenceRecord(ana.ID, taken),
		absenceRecord(ana.ID, models.Day(2025, 11, 5)),
	}

	out, err := repo.InsertRange(ctx, request, records)
	if err != nil {
		t.Fatalf("insert range: %v", err)
	}
	if len(out.Created) != 2 || len(out.Duplicates) != 1 {
		t.Fatalf("expected 2 created and 1 duplicate, got %d and %d", len(out.Created), len(out.Duplicates))
	}
	if !models.SameDay(out.Duplicates[0], taken) {
		t.Fatalf("expected duplicate %s, got %s", taken, out.Duplicates[0])
	}
	if request.ID == 0 || request.CreatedCount != 2 {
		t.Fatalf("expected stored request with 2 days, got %+v", request)
	}
	for _, r := range out.Created {
		if r.AbsenceRequestID == nil || *r.AbsenceRequestID != request.ID {
			t.Fatalf("record %d not linked to request", r.ID)
		}
	}

	stored, err := repo.ListByEmployeeAndRange(ctx, ana.ID, models.Day(2025, 11, 1), models.Day(2025, 11, 30))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(stored) != 3 {
		t.Fatalf("expected 3 records in November, got %d", len(stored))
	}
}

func TestInsertRangeNothingCreatedLeavesNoRequest(t *testing.T) {
	ctx := context.Background()
	repo, ana := newAttendanceFixture(t)

	day := models.Day(2025, 11, 3)
	if err := repo.Insert(ctx, absenceRecord(ana.ID, day)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	request := &models.AbsenceRequest{EmployeeID: ana.ID, StartDate: day, EndDate: day, RecordType: models.RecordTypeUnplannedLeave}
	out, err := repo.InsertRange(ctx, request, []*models.AttendanceRecord{absenceRecord(ana.ID, day)})
	if err != nil {
		t.Fatalf("insert range: %v", err)
	}
	if len(out.Created) != 0 || len(out.Duplicates) != 1 {
		t.Fatalf("unexpected result: %+v", out)
	}
	if request.ID != 0 {
		t.Fatalf("expected request to be rolled back, got id %d", request.ID)
	}

	var count int64
	repo.db.Model(&models.AbsenceRequest{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no absence requests, got %d", count)
	}
}

func TestDecideIsConditionalOnStatus(t *testing.T) {
	ctx := context.Background()
	repo, ana := newAttendanceFixture(t)

	entry, exit := "09:00", "17:00"
	record := &models.AttendanceRecord{
		EmployeeID: ana.ID,
		Date:       models.Day(2025, 10, 13),
		EntryTime:  &entry,
		ExitTime:   &exit,
		BreakHours: 1,
		RecordType: models.RecordTypeForgottenCorrection,
		Status:     models.StatusPending,
		CreatedBy:  ana.ID,
	}
	if err := repo.Insert(ctx, record); err != nil {
		t.Fatalf("insert: %v", err)
	}

	newType := models.RecordTypeUnplannedLeave
	updated, err := repo.Decide(ctx, record.ID, StatusChange{
		From:    models.StatusPending,
		To:      models.StatusApproved,
		Note:    "vacaciones",
		NewType: &newType,
	})
	if err != nil || !updated {
		t.Fatalf("decide: %v, %v", updated, err)
	}

	stored, err := repo.GetByID(ctx, record.ID)
	if err != nil || stored == nil {
		t.Fatalf("get: %v, %v", stored, err)
	}
	if stored.Status != models.StatusApproved || stored.RecordType != newType || stored.Note() != "vacaciones" {
		t.Fatalf("unexpected record after decision: %+v", stored)
	}
	if stored.EntryTime != nil || stored.ExitTime != nil || stored.BreakHours != 0 {
		t.Fatalf("expected shift fields cleared for absence type, got %+v", stored)
	}
	if stored.Employee.Name != "Ana" {
		t.Fatalf("expected employee preloaded, got %q", stored.Employee.Name)
	}

	updated, err = repo.Decide(ctx, record.ID, StatusChange{From: models.StatusPending, To: models.StatusRejected})
	if err != nil {
		t.Fatalf("second decide: %v", err)
	}
	if updated {
		t.Fatal("expected second decision to update nothing")
	}
}

func TestListPendingAndExportRows(t *testing.T) {
	ctx := context.Background()
	repo, ana := newAttendanceFixture(t)

	if err := repo.Insert(ctx, workRecord(ana.ID, models.Day(2025, 10, 1))); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := repo.Insert(ctx, absenceRecord(ana.ID, models.Day(2025, 10, 20))); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := repo.Insert(ctx, absenceRecord(ana.ID, models.Day(2025, 10, 21))); err != nil {
		t.Fatalf("insert: %v", err)
	}

	pending, err := repo.ListPending(ctx)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending, got %d", len(pending))
	}
	if !models.SameDay(pending[0].Date, models.Day(2025, 10, 21)) {
		t.Fatalf("expected newest date first, got %s", pending[0].Date)
	}

	rows, err := repo.ExportRows(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 export rows, got %d", len(rows))
	}
	first := rows[0]
	if first.EmployeeName != "Ana" || first.RecordType != models.RecordTypeWork || first.EntryTime == nil || *first.EntryTime != "10:00" {
		t.Fatalf("unexpected first export row: %+v", first)
	}
	if !models.SameDay(first.Date, models.Day(2025, 10, 1)) {
		t.Fatalf("expected first row dated 2025-10-01, got %s", first.Date)
	}
}
