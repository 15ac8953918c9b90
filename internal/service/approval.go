package service

import (
	"context"
	"fmt"
	"strings"

	"clinic-timesheet-bot/internal/models"
	"clinic-timesheet-bot/internal/repository"

	"github.com/sirupsen/logrus"
)

// PendingItem - запись, ожидающая решения, с именем сотрудника
type PendingItem struct {
	Record       *models.AttendanceRecord
	EmployeeName string
	IsFuture     bool
}

type ApprovalService struct {
	records repository.AttendanceRepository
	clock   Clock
	logger  *logrus.Logger
}

func NewApprovalService(records repository.AttendanceRepository, clock Clock) *ApprovalService {
	return &ApprovalService{
		records: records,
		clock:   clock,
		logger:  newLogger(),
	}
}

// Decide применяет решение администратора к записи.
// newType вместе с APPROVE переклассифицирует запись перед одобрением.
func (s *ApprovalService) Decide(
	ctx context.Context,
	session *models.Session,
	recordID uint,
	decision models.Decision,
	note string,
	newType models.RecordType,
) (*models.AttendanceRecord, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}

	var reclassify *models.RecordType
	if newType != "" {
		if decision != models.DecisionApprove {
			return nil, fmt.Errorf("%w: a record can only be reclassified when approved", models.ErrInvalidType)
		}
		if !newType.Valid() {
			return nil, fmt.Errorf("%w: unknown record type %q", models.ErrInvalidType, newType)
		}
		reclassify = &newType
	}

	record, err := s.records.GetByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("%w: record %d", models.ErrNotFound, recordID)
	}

	next, err := models.Transition(record.Status, decision)
	if err != nil {
		return nil, err
	}

	updated, err := s.records.Decide(ctx, recordID, repository.StatusChange{
		From:    record.Status,
		To:      next,
		Note:    strings.TrimSpace(note),
		NewType: reclassify,
	})
	if err != nil {
		return nil, err
	}
	if !updated {
		// другой администратор успел принять решение раньше
		return nil, fmt.Errorf("%w: record %d was already decided", models.ErrInvalidState, recordID)
	}

	s.logger.WithFields(logrus.Fields{
		"record_id": recordID,
		"decision":  decision,
		"status":    next,
		"admin_id":  session.EmployeeID,
	}).Info("Record decided")

	return s.records.GetByID(ctx, recordID)
}

func (s *ApprovalService) Approve(ctx context.Context, session *models.Session, recordID uint, note string) (*models.AttendanceRecord, error) {
	return s.Decide(ctx, session, recordID, models.DecisionApprove, note, "")
}

func (s *ApprovalService) Reject(ctx context.Context, session *models.Session, recordID uint, note string) (*models.AttendanceRecord, error) {
	return s.Decide(ctx, session, recordID, models.DecisionReject, note, "")
}

// ReclassifyAndApprove меняет тип записи и одобряет ее
func (s *ApprovalService) ReclassifyAndApprove(ctx context.Context, session *models.Session, recordID uint, newType models.RecordType, note string) (*models.AttendanceRecord, error) {
	return s.Decide(ctx, session, recordID, models.DecisionApprove, note, newType)
}

// ListPending возвращает записи на рассмотрении, новые даты первыми
func (s *ApprovalService) ListPending(ctx context.Context, session *models.Session) ([]PendingItem, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}

	records, err := s.records.ListPending(ctx)
	if err != nil {
		return nil, err
	}

	today := s.clock.Today()
	items := make([]PendingItem, 0, len(records))
	for _, r := range records {
		items = append(items, PendingItem{
			Record:       r,
			EmployeeName: r.Employee.Name,
			IsFuture:     r.Date.After(today),
		})
	}
	return items, nil
}
