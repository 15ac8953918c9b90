package service

import (
	"context"
	"sort"
	"time"

	"clinic-timesheet-bot/internal/calendar"
	"clinic-timesheet-bot/internal/models"
	"clinic-timesheet-bot/internal/repository"

	"github.com/sirupsen/logrus"
)

// MonthSummary - сводка сотрудника за месяц
type MonthSummary struct {
	EmployeeID   uint
	EmployeeName string
	Year         int
	Month        time.Month
	Workdays     int
	Recorded     int
	Approved     int
	Pending      int
	Rejected     int
	AbsenceDays  int
	Missing      int
	WorkedHours  float64
}

// Coverage - доля рабочих дней месяца, на которые есть запись
func (m *MonthSummary) Coverage() float64 {
	if m.Workdays == 0 {
		return 0
	}
	return float64(m.Recorded) / float64(m.Workdays) * 100
}

type ReportService struct {
	records   repository.AttendanceRepository
	employees repository.EmployeeRepository
	workdays  calendar.Workdays
	clock     Clock
	logger    *logrus.Logger
}

func NewReportService(
	records repository.AttendanceRepository,
	employees repository.EmployeeRepository,
	workdays calendar.Workdays,
	clock Clock,
) *ReportService {
	return &ReportService{
		records:   records,
		employees: employees,
		workdays:  workdays,
		clock:     clock,
		logger:    newLogger(),
	}
}

// MySummary - сводка сотрудника за текущий месяц
func (s *ReportService) MySummary(ctx context.Context, session *models.Session) (*MonthSummary, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}

	today := s.clock.Today()
	from, to := monthBounds(today.Year(), today.Month())

	records, err := s.records.ListByEmployeeAndRange(ctx, session.EmployeeID, from, to)
	if err != nil {
		return nil, err
	}

	summary := s.summarize(session.EmployeeID, session.Employee.Name, today.Year(), today.Month(), today, records)
	return &summary, nil
}

// MonthSummary - сводка по всем активным сотрудникам за месяц, по алфавиту
func (s *ReportService) MonthSummary(ctx context.Context, session *models.Session, year int, month time.Month) ([]MonthSummary, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}

	employees, err := s.employees.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	from, to := monthBounds(year, month)
	records, err := s.records.ListByRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	byEmployee := make(map[uint][]*models.AttendanceRecord)
	for _, r := range records {
		byEmployee[r.EmployeeID] = append(byEmployee[r.EmployeeID], r)
	}

	today := s.clock.Today()
	summaries := make([]MonthSummary, 0, len(employees))
	for _, e := range employees {
		summaries = append(summaries, s.summarize(e.ID, e.Name, year, month, today, byEmployee[e.ID]))
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].EmployeeName < summaries[j].EmployeeName
	})

	s.logger.WithFields(logrus.Fields{
		"year":      year,
		"month":     int(month),
		"employees": len(summaries),
	}).Info("Month summary built")

	return summaries, nil
}

// Export возвращает все записи для выгрузки
func (s *ReportService) Export(ctx context.Context, session *models.Session) ([]models.ExportRow, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}

	rows, err := s.records.ExportRows(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.WithField("rows", len(rows)).Info("Records exported")
	return rows, nil
}

func (s *ReportService) summarize(
	employeeID uint,
	name string,
	year int,
	month time.Month,
	today time.Time,
	records []*models.AttendanceRecord,
) MonthSummary {
	summary := MonthSummary{
		EmployeeID:   employeeID,
		EmployeeName: name,
		Year:         year,
		Month:        month,
		Workdays:     calendar.WorkdaysInMonth(s.workdays, year, month),
		Recorded:     len(records),
	}

	recorded := calendar.NewDateSet()
	for _, r := range records {
		recorded.Add(r.Date)

		switch r.Status {
		case models.StatusApproved:
			summary.Approved++
			summary.WorkedHours += r.WorkedHours()
		case models.StatusPending:
			summary.Pending++
		case models.StatusRejected:
			summary.Rejected++
		}
		if r.RecordType.IsAbsence() {
			summary.AbsenceDays++
		}
	}

	summary.Missing = len(calendar.MissingDays(s.workdays, year, month, today, recorded))
	return summary
}

func monthBounds(year int, month time.Month) (time.Time, time.Time) {
	return models.Day(year, month, 1), models.Day(year, month, models.DaysInMonth(year, month))
}
