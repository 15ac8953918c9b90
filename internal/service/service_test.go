package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"clinic-timesheet-bot/internal/calendar"
	"clinic-timesheet-bot/internal/models"
	"clinic-timesheet-bot/internal/repository"
)

type testEnv struct {
	employees *repository.GormEmployeeRepository
	sessions  *repository.GormSessionRepository
	records   *repository.GormAttendanceRepository
	requests  *repository.GormAbsenceRequestRepository
	outbox    *repository.GormOutboxRepository
	holidays  *repository.GormNonWorkingDayRepository
	oracle    *calendar.Oracle
	clock     Clock

	auth          *AuthService
	staff         *EmployeeService
	attendance    *AttendanceService
	approval      *ApprovalService
	notifications *NotificationService
	reports       *ReportService
	notifier      *recordingNotifier
}

// fixedClock возвращает часы, у которых сегодня всегда today
func fixedClock(today time.Time) Clock {
	return Clock{
		loc: time.UTC,
		now: func() time.Time { return today.Add(10 * time.Hour) },
	}
}

func newTestEnv(t *testing.T, today time.Time, holidays ...time.Time) *testEnv {
	t.Helper()

	db, err := repository.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = repository.Close(db) })

	env := &testEnv{
		oracle:   calendar.NewOracle(holidays),
		clock:    fixedClock(today),
		notifier: &recordingNotifier{},
	}

	if env.employees, err = repository.NewGormEmployeeRepository(db); err != nil {
		t.Fatalf("employee repo: %v", err)
	}
	if env.sessions, err = repository.NewGormSessionRepository(db); err != nil {
		t.Fatalf("session repo: %v", err)
	}
	if env.records, err = repository.NewGormAttendanceRepository(db); err != nil {
		t.Fatalf("attendance repo: %v", err)
	}
	if env.requests, err = repository.NewGormAbsenceRequestRepository(db); err != nil {
		t.Fatalf("absence request repo: %v", err)
	}
	if env.outbox, err = repository.NewGormOutboxRepository(db); err != nil {
		t.Fatalf("outbox repo: %v", err)
	}
	if env.holidays, err = repository.NewGormNonWorkingDayRepository(db); err != nil {
		t.Fatalf("non working day repo: %v", err)
	}

	env.auth = NewAuthService(env.employees, env.sessions, env.clock)
	env.staff = NewEmployeeService(env.employees, env.sessions, env.clock)
	env.notifications = NewNotificationService(env.outbox, env.notifier, env.clock, time.Hour, 3)
	env.attendance = NewAttendanceService(env.records, env.requests, env.employees, env.oracle, env.notifications, env.clock, 1.0)
	env.approval = NewApprovalService(env.records, env.clock)
	env.reports = NewReportService(env.records, env.employees, env.oracle, env.clock)

	return env
}

// login создает сотрудника и открывает для него сессию
func (e *testEnv) login(t *testing.T, name string, role models.Role) *models.Session {
	t.Helper()

	ctx := context.Background()
	employee := &models.Employee{Name: name, PIN: "1234", Active: true, Role: role}
	if err := e.employees.Create(ctx, employee); err != nil {
		t.Fatalf("create employee %s: %v", name, err)
	}

	session, err := e.auth.Login(ctx, name, "1234")
	if err != nil {
		t.Fatalf("login %s: %v", name, err)
	}
	return session
}

// queued возвращает события, ожидающие доставки
func (e *testEnv) queued(t *testing.T) []*models.OutboxEvent {
	t.Helper()

	events, err := e.outbox.ListPending(context.Background(), 0)
	if err != nil {
		t.Fatalf("list outbox: %v", err)
	}
	return events
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []models.NotificationEvent
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, event models.NotificationEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.err != nil {
		return n.err
	}
	n.events = append(n.events, event)
	return nil
}

func (n *recordingNotifier) fail(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.err = err
}

func (n *recordingNotifier) delivered() []models.NotificationEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]models.NotificationEvent(nil), n.events...)
}

func assertErrorIs(t *testing.T, err, target error) {
	t.Helper()

	if !errors.Is(err, target) {
		t.Fatalf("expected %v, got %v", target, err)
	}
}

func dates(values ...time.Time) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, v.Format(models.DateLayout))
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func hours(v float64) *float64 {
	return &v
}
