package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"clinic-timesheet-bot/internal/calendar"
	"clinic-timesheet-bot/internal/models"
	"clinic-timesheet-bot/internal/repository"

	"github.com/sirupsen/logrus"
)

// MaxRangeDays ограничивает длину одного периода отсутствия
const MaxRangeDays = 366

// EventQueue принимает уведомления для администратора
type EventQueue interface {
	Enqueue(ctx context.Context, event models.NotificationEvent) error
}

// DayRecordInput - данные записи за один день.
// BreakHours == nil означает перерыв по умолчанию.
type DayRecordInput struct {
	Date       time.Time
	Entry      string
	Exit       string
	BreakHours *float64
	Type       models.RecordType
}

// GapCloseInput - закрытие пропуска администратором
type GapCloseInput struct {
	EmployeeID uint
	DayRecordInput
	Note string
}

// RangeInput - заявка на будущий период отсутствия
type RangeInput struct {
	Start time.Time
	End   time.Time
	Type  models.RecordType
	Note  string
}

type SkipReason string

const (
	SkipNonWorkday    SkipReason = "NON_WORKDAY"
	SkipAlreadyExists SkipReason = "ALREADY_EXISTS"
)

type SkippedDay struct {
	Date   time.Time
	Reason SkipReason
}

// RangeResult - итог заявки на период
type RangeResult struct {
	RequestID    uint
	Start        time.Time
	End          time.Time
	CreatedCount int
	Created      []time.Time
	Skipped      []SkippedDay
}

// NothingToDo - в периоде не нашлось ни одного дня для записи
func (r *RangeResult) NothingToDo() bool {
	return r.CreatedCount == 0
}

// SkippedBy возвращает пропущенные дни с указанной причиной
func (r *RangeResult) SkippedBy(reason SkipReason) []time.Time {
	var days []time.Time
	for _, s := range r.Skipped {
		if s.Reason == reason {
			days = append(days, s.Date)
		}
	}
	return days
}

type AttendanceService struct {
	records      repository.AttendanceRepository
	requests     repository.AbsenceRequestRepository
	employees    repository.EmployeeRepository
	workdays     calendar.Workdays
	events       EventQueue
	clock        Clock
	defaultBreak float64
	logger       *logrus.Logger
}

func NewAttendanceService(
	records repository.AttendanceRepository,
	requests repository.AbsenceRequestRepository,
	employees repository.EmployeeRepository,
	workdays calendar.Workdays,
	events EventQueue,
	clock Clock,
	defaultBreak float64,
) *AttendanceService {
	return &AttendanceService{
		records:      records,
		requests:     requests,
		employees:    employees,
		workdays:     workdays,
		events:       events,
		clock:        clock,
		defaultBreak: defaultBreak,
		logger:       newLogger(),
	}
}

// CreateDayRecord создает запись сотрудника за один день.
// Запись за сегодня сразу одобрена и всегда имеет тип WORK.
// Запись за прошедший рабочий день текущего месяца ждет решения администратора.
func (s *AttendanceService) CreateDayRecord(ctx context.Context, session *models.Session, in DayRecordInput) (*models.AttendanceRecord, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}

	today := s.clock.Today()
	date := models.DateOf(in.Date, nil)

	record := &models.AttendanceRecord{
		EmployeeID: session.EmployeeID,
		Date:       date,
		CreatedBy:  session.EmployeeID,
	}

	sameDay := date.Equal(today)
	if sameDay {
		record.RecordType = models.RecordTypeWork
		record.Status = models.StatusApproved
		if err := s.fillShift(record, in); err != nil {
			return nil, err
		}
	} else {
		if !s.isOpenGap(date, today, true) {
			return nil, fmt.Errorf("%w: %s is not a past workday of the current month",
				models.ErrDateNotEligible, date.Format(models.DateLayout))
		}
		if err := s.fillCorrection(record, in, false); err != nil {
			return nil, err
		}
	}

	if err := s.records.Insert(ctx, record); err != nil {
		return nil, err
	}

	if !sameDay {
		s.enqueue(ctx, models.NotificationEvent{
			EmployeeName:  session.Employee.Name,
			Date:          date.Format(models.DisplayLayout),
			RecordType:    record.RecordType,
			ProposedEntry: record.Entry(),
			ProposedExit:  record.Exit(),
		})
	}

	return record, nil
}

// CloseGap - администратор закрывает пропуск сотрудника за любой прошедший рабочий день.
// Заметка обязательна. Уведомление не отправляется.
func (s *AttendanceService) CloseGap(ctx context.Context, session *models.Session, in GapCloseInput) (*models.AttendanceRecord, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}

	note := strings.TrimSpace(in.Note)
	if note == "" {
		return nil, fmt.Errorf("%w: note is required", models.ErrInvalidInput)
	}

	employee, err := s.employees.GetByID(ctx, in.EmployeeID)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, fmt.Errorf("%w: employee %d", models.ErrNotFound, in.EmployeeID)
	}

	today := s.clock.Today()
	date := models.DateOf(in.Date, nil)
	if !s.isOpenGap(date, today, false) {
		return nil, fmt.Errorf("%w: %s is not a past workday",
			models.ErrDateNotEligible, date.Format(models.DateLayout))
	}

	record := &models.AttendanceRecord{
		EmployeeID: employee.ID,
		Date:       date,
		AdminNote:  &note,
		CreatedBy:  session.EmployeeID,
	}
	if err := s.fillCorrection(record, in.DayRecordInput, true); err != nil {
		return nil, err
	}

	if err := s.records.Insert(ctx, record); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"record_id":   record.ID,
		"employee_id": employee.ID,
		"admin_id":    session.EmployeeID,
	}).Info("Gap closed by admin")

	return record, nil
}

// RequestAbsenceRange раскладывает будущий период на записи по рабочим дням.
// Выходные, праздники и уже занятые дни пропускаются.
func (s *AttendanceService) RequestAbsenceRange(ctx context.Context, session *models.Session, in RangeInput) (*RangeResult, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}

	today := s.clock.Today()
	start := models.DateOf(in.Start, nil)
	end := models.DateOf(in.End, nil)

	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date is before start date", models.ErrInvalidRange)
	}
	if !start.After(today) {
		return nil, fmt.Errorf("%w: period must start after today", models.ErrInvalidRange)
	}
	if end.Sub(start) >= MaxRangeDays*24*time.Hour {
		return nil, fmt.Errorf("%w: period is longer than %d days", models.ErrInvalidRange, MaxRangeDays)
	}
	if in.Type != models.RecordTypeUnplannedLeave && in.Type != models.RecordTypePersonalDay {
		return nil, fmt.Errorf("%w: %s cannot be requested for a period", models.ErrInvalidType, in.Type)
	}

	label := models.RangeLabel(start, end)
	tag := "Periodo " + label
	note := strings.TrimSpace(in.Note)
	if note != "" {
		tag += ": " + note
	}

	result := &RangeResult{Start: start, End: end}

	var records []*models.AttendanceRecord
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if !s.workdays.IsWorkday(d) {
			result.Skipped = append(result.Skipped, SkippedDay{Date: d, Reason: SkipNonWorkday})
			continue
		}

		dayTag := tag
		records = append(records, &models.AttendanceRecord{
			EmployeeID: session.EmployeeID,
			Date:       d,
			RecordType: in.Type,
			Status:     models.StatusPending,
			AdminNote:  &dayTag,
			CreatedBy:  session.EmployeeID,
		})
	}

	if len(records) > 0 {
		request := &models.AbsenceRequest{
			EmployeeID: session.EmployeeID,
			StartDate:  start,
			EndDate:    end,
			RecordType: in.Type,
			Note:       note,
		}

		inserted, err := s.records.InsertRange(ctx, request, records)
		if err != nil {
			return nil, err
		}

		for _, d := range inserted.Duplicates {
			result.Skipped = append(result.Skipped, SkippedDay{Date: d, Reason: SkipAlreadyExists})
		}
		for _, r := range inserted.Created {
			result.Created = append(result.Created, r.Date)
		}
		result.CreatedCount = len(inserted.Created)
		result.RequestID = request.ID
	}

	sort.Slice(result.Skipped, func(i, j int) bool {
		return result.Skipped[i].Date.Before(result.Skipped[j].Date)
	})

	if result.NothingToDo() {
		s.logger.WithFields(logrus.Fields{
			"employee_id": session.EmployeeID,
			"range":       label,
		}).Info("Absence range has no days to record")
		return result, nil
	}

	s.enqueue(ctx, models.NotificationEvent{
		EmployeeName: session.Employee.Name,
		RangeLabel:   label,
		RecordType:   in.Type,
		Note:         note,
		DaysCreated:  result.CreatedCount,
		IsFuture:     true,
		IsRange:      true,
	})

	return result, nil
}

// MissingDays - пропуски сотрудника в текущем месяце
func (s *AttendanceService) MissingDays(ctx context.Context, session *models.Session) ([]time.Time, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}

	today := s.clock.Today()
	return s.FindMissingDays(ctx, session.EmployeeID, today.Year(), today.Month(), today)
}

// AdminMissingDays - пропуски любого сотрудника за любой месяц
func (s *AttendanceService) AdminMissingDays(ctx context.Context, session *models.Session, employeeID uint, year int, month time.Month) ([]time.Time, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	return s.FindMissingDays(ctx, employeeID, year, month, s.clock.Today())
}

// FindMissingDays возвращает рабочие дни месяца до today без записи, по возрастанию
func (s *AttendanceService) FindMissingDays(ctx context.Context, employeeID uint, year int, month time.Month, today time.Time) ([]time.Time, error) {
	recorded, err := s.recordedDays(ctx, employeeID, year, month)
	if err != nil {
		return nil, err
	}
	return calendar.MissingDays(s.workdays, year, month, today, recorded), nil
}

// MonthCalendar раскладывает дни текущего месяца сотрудника по категориям
func (s *AttendanceService) MonthCalendar(ctx context.Context, session *models.Session) ([]calendar.DayCell, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}

	today := s.clock.Today()
	return s.monthCalendar(ctx, session.EmployeeID, today.Year(), today.Month(), today)
}

// AdminMonthCalendar - календарь любого сотрудника за любой месяц
func (s *AttendanceService) AdminMonthCalendar(ctx context.Context, session *models.Session, employeeID uint, year int, month time.Month) ([]calendar.DayCell, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	return s.monthCalendar(ctx, employeeID, year, month, s.clock.Today())
}

// History возвращает записи сотрудника за месяц
func (s *AttendanceService) History(ctx context.Context, session *models.Session, year int, month time.Month) ([]*models.AttendanceRecord, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}

	from, to := monthBounds(year, month)
	return s.records.ListByEmployeeAndRange(ctx, session.EmployeeID, from, to)
}

// AbsenceRequests возвращает последние заявки сотрудника на периоды
func (s *AttendanceService) AbsenceRequests(ctx context.Context, session *models.Session, limit int) ([]models.AbsenceRequest, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	return s.requests.GetByEmployeeID(ctx, session.EmployeeID, limit)
}

// TodayRecord возвращает запись сотрудника за сегодня или nil
func (s *AttendanceService) TodayRecord(ctx context.Context, session *models.Session) (*models.AttendanceRecord, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	return s.records.FindByEmployeeAndDate(ctx, session.EmployeeID, s.clock.Today())
}

func (s *AttendanceService) Today() time.Time {
	return s.clock.Today()
}

func (s *AttendanceService) monthCalendar(ctx context.Context, employeeID uint, year int, month time.Month, today time.Time) ([]calendar.DayCell, error) {
	recorded, err := s.recordedDays(ctx, employeeID, year, month)
	if err != nil {
		return nil, err
	}
	return calendar.MonthBuckets(s.workdays, year, month, today, recorded), nil
}

func (s *AttendanceService) recordedDays(ctx context.Context, employeeID uint, year int, month time.Month) (calendar.DateSet, error) {
	from, to := monthBounds(year, month)

	records, err := s.records.ListByEmployeeAndRange(ctx, employeeID, from, to)
	if err != nil {
		return nil, err
	}

	recorded := calendar.NewDateSet()
	for _, r := range records {
		recorded.Add(r.Date)
	}
	return recorded, nil
}

// isOpenGap - день в прошлом и рабочий. Для сотрудника еще и в текущем месяце.
func (s *AttendanceService) isOpenGap(date, today time.Time, currentMonthOnly bool) bool {
	if !date.Before(today) || !s.workdays.IsWorkday(date) {
		return false
	}
	if currentMonthOnly && (date.Year() != today.Year() || date.Month() != today.Month()) {
		return false
	}
	return true
}

// fillCorrection заполняет запись за прошедший день: FORGOTTEN_CORRECTION со сменой
// или PERSONAL_DAY без времени. Администратор может не указывать время смены.
func (s *AttendanceService) fillCorrection(record *models.AttendanceRecord, in DayRecordInput, timesOptional bool) error {
	record.Status = models.StatusPending
	record.RecordType = in.Type

	switch in.Type {
	case models.RecordTypeForgottenCorrection:
		if timesOptional && in.Entry == "" && in.Exit == "" {
			return nil
		}
		return s.fillShift(record, in)
	case models.RecordTypePersonalDay:
		record.EntryTime = nil
		record.ExitTime = nil
		record.BreakHours = 0
		return nil
	default:
		return fmt.Errorf("%w: %s cannot be used to correct a past day", models.ErrInvalidType, in.Type)
	}
}

func (s *AttendanceService) fillShift(record *models.AttendanceRecord, in DayRecordInput) error {
	if in.Entry == "" || in.Exit == "" {
		return fmt.Errorf("%w: entry and exit times are required", models.ErrInvalidInput)
	}

	entry, entryAt, err := parseTimeOfDay(in.Entry)
	if err != nil {
		return err
	}
	exit, exitAt, err := parseTimeOfDay(in.Exit)
	if err != nil {
		return err
	}
	if !exitAt.After(entryAt) {
		return fmt.Errorf("%w: exit time must be after entry time", models.ErrInvalidInput)
	}

	breakHours := s.defaultBreak
	if in.BreakHours != nil {
		breakHours = *in.BreakHours
	}
	if breakHours < 0 {
		return fmt.Errorf("%w: break cannot be negative", models.ErrInvalidInput)
	}
	if breakHours >= exitAt.Sub(entryAt).Hours() {
		return fmt.Errorf("%w: break is longer than the shift", models.ErrInvalidInput)
	}

	record.EntryTime = &entry
	record.ExitTime = &exit
	record.BreakHours = breakHours
	return nil
}

// enqueue ставит уведомление в очередь. Ошибка очереди не отменяет созданную запись.
func (s *AttendanceService) enqueue(ctx context.Context, event models.NotificationEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Enqueue(ctx, event); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"employee": event.EmployeeName,
			"when":     event.When(),
		}).Error("Failed to enqueue notification")
	}
}
