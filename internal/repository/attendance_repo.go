package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"clinic-timesheet-bot/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttendanceRepository interface {
	Insert(ctx context.Context, record *models.AttendanceRecord) error
	InsertRange(ctx context.Context, request *models.AbsenceRequest, records []*models.AttendanceRecord) (*RangeInsert, error)
	GetByID(ctx context.Context, id uint) (*models.AttendanceRecord, error)
	FindByEmployeeAndDate(ctx context.Context, employeeID uint, date time.Time) (*models.AttendanceRecord, error)
	ListByEmployeeAndRange(ctx context.Context, employeeID uint, from, to time.Time) ([]*models.AttendanceRecord, error)
	ListByRange(ctx context.Context, from, to time.Time) ([]*models.AttendanceRecord, error)
	ListPending(ctx context.Context) ([]*models.AttendanceRecord, error)
	Decide(ctx context.Context, id uint, change StatusChange) (bool, error)
	ExportRows(ctx context.Context) ([]models.ExportRow, error)
}

// RangeInsert - итог вставки периода: созданные записи и дни, где запись уже была
type RangeInsert struct {
	Created    []*models.AttendanceRecord
	Duplicates []time.Time
}

// StatusChange - условное обновление решения по записи.
// Обновление проходит только если текущий статус равен From.
type StatusChange struct {
	From    models.RecordStatus
	To      models.RecordStatus
	Note    string
	NewType *models.RecordType
}

var errNothingInserted = errors.New("no records inserted")

type GormAttendanceRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormAttendanceRepository(db *gorm.DB) (*GormAttendanceRepository, error) {
	logger := newLogger()

	// Автомиграция
	if err := db.AutoMigrate(&models.AbsenceRequest{}, &models.AttendanceRecord{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate attendance tables")
		return nil, err
	}

	logger.Info("Attendance repository initialized")

	return &GormAttendanceRepository{
		db:     db,
		logger: logger,
	}, nil
}

// Insert вставляет запись. Уникальный индекс (employee_id, date) - единственный
// источник истины о дубликатах: при гонке двух сессий одна получит ErrDuplicateRecord.
func (r *GormAttendanceRepository) Insert(ctx context.Context, record *models.AttendanceRecord) error {
	fields := logrus.Fields{
		"employee_id": record.EmployeeID,
		"date":        record.Date.Format(models.DateLayout),
	}

	if !record.IsValid() {
		r.logger.WithFields(fields).Warn("Invalid attendance record data")
		return fmt.Errorf("%w: invalid attendance record", models.ErrInvalidInput)
	}

	result := r.db.WithContext(ctx).Omit(clause.Associations).Create(record)
	if isUniqueViolation(result.Error) {
		r.logger.WithFields(fields).Warn("Attendance record already exists for this date")
		return fmt.Errorf("%w: %s", models.ErrDuplicateRecord, record.Date.Format(models.DateLayout))
	}
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to create attendance record")
		return storeError(result.Error)
	}

	r.logger.WithFields(logrus.Fields{
		"id":          record.ID,
		"employee_id": record.EmployeeID,
		"status":      record.Status,
		"type":        record.RecordType,
	}).Info("Attendance record created")

	return nil
}

// InsertRange создает заявку и записи по дням в одной транзакции.
// Каждый день вставляется в своей точке сохранения, поэтому занятый день
// не отменяет остальные. Если не создано ни одной записи, заявка не сохраняется.
func (r *GormAttendanceRepository) InsertRange(ctx context.Context, request *models.AbsenceRequest, records []*models.AttendanceRecord) (*RangeInsert, error) {
	out := &RangeInsert{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(request).Error; err != nil {
			return err
		}

		for _, record := range records {
			if !record.IsValid() {
				return fmt.Errorf("%w: invalid attendance record", models.ErrInvalidInput)
			}
			record.AbsenceRequestID = &request.ID

			err := tx.Transaction(func(sp *gorm.DB) error {
				return sp.Omit(clause.Associations).Create(record).Error
			})
			if isUniqueViolation(err) {
				record.ID = 0
				record.AbsenceRequestID = nil
				out.Duplicates = append(out.Duplicates, record.Date)
				continue
			}
			if err != nil {
				return err
			}
			out.Created = append(out.Created, record)
		}

		if len(out.Created) == 0 {
			return errNothingInserted
		}

		request.CreatedCount = len(out.Created)
		return tx.Model(request).Update("created_count", request.CreatedCount).Error
	})

	if errors.Is(err, errNothingInserted) {
		request.ID = 0
		return out, nil
	}
	if errors.Is(err, models.ErrInvalidInput) {
		return nil, err
	}
	if err != nil {
		r.logger.WithError(err).Error("Failed to insert absence range")
		return nil, storeError(err)
	}

	r.logger.WithFields(logrus.Fields{
		"request_id":  request.ID,
		"employee_id": request.EmployeeID,
		"created":     len(out.Created),
		"duplicates":  len(out.Duplicates),
	}).Info("Absence range inserted")

	return out, nil
}

func (r *GormAttendanceRepository) GetByID(ctx context.Context, id uint) (*models.AttendanceRecord, error) {
	var record models.AttendanceRecord
	result := r.db.WithContext(ctx).Preload("Employee").First(&record, id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithField("id", id).Debug("Attendance record not found")
		return nil, nil
	}
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get attendance record by ID")
		return nil, storeError(result.Error)
	}

	return &record, nil
}

func (r *GormAttendanceRepository) FindByEmployeeAndDate(ctx context.Context, employeeID uint, date time.Time) (*models.AttendanceRecord, error) {
	var record models.AttendanceRecord
	result := r.db.WithContext(ctx).
		Where("employee_id = ? AND date = ?", employeeID, models.DateOf(date, nil)).
		First(&record)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get attendance record by employee and date")
		return nil, storeError(result.Error)
	}

	return &record, nil
}

func (r *GormAttendanceRepository) ListByEmployeeAndRange(ctx context.Context, employeeID uint, from, to time.Time) ([]*models.AttendanceRecord, error) {
	var records []*models.AttendanceRecord

	result := r.db.WithContext(ctx).
		Where("employee_id = ? AND date BETWEEN ? AND ?", employeeID, models.DateOf(from, nil), models.DateOf(to, nil)).
		Order("date").
		Find(&records)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to list attendance records by employee and range")
		return nil, storeError(result.Error)
	}

	r.logger.WithFields(logrus.Fields{
		"employee_id": employeeID,
		"from":        from.Format(models.DateLayout),
		"to":          to.Format(models.DateLayout),
		"count":       len(records),
	}).Debug("Retrieved attendance records by employee and range")

	return records, nil
}

func (r *GormAttendanceRepository) ListByRange(ctx context.Context, from, to time.Time) ([]*models.AttendanceRecord, error) {
	var records []*models.AttendanceRecord

	result := r.db.WithContext(ctx).
		Where("date BETWEEN ? AND ?", models.DateOf(from, nil), models.DateOf(to, nil)).
		Order("employee_id, date").
		Find(&records)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to list attendance records by range")
		return nil, storeError(result.Error)
	}

	return records, nil
}

func (r *GormAttendanceRepository) ListPending(ctx context.Context) ([]*models.AttendanceRecord, error) {
	var records []*models.AttendanceRecord

	result := r.db.WithContext(ctx).
		Preload("Employee").
		Where("status = ?", models.StatusPending).
		Order("date DESC, id").
		Find(&records)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to list pending attendance records")
		return nil, storeError(result.Error)
	}

	return records, nil
}

// Decide применяет решение, только если статус записи все еще change.From.
// Возвращает false, если ни одна строка не обновлена.
func (r *GormAttendanceRepository) Decide(ctx context.Context, id uint, change StatusChange) (bool, error) {
	updates := map[string]interface{}{
		"status":     change.To,
		"admin_note": change.Note,
	}
	if change.NewType != nil {
		updates["record_type"] = *change.NewType
		// отсутствие не несет времени смены
		if change.NewType.IsAbsence() {
			updates["entry_time"] = nil
			updates["exit_time"] = nil
			updates["break_hours"] = 0
		}
	}

	result := r.db.WithContext(ctx).Model(&models.AttendanceRecord{}).
		Where("id = ? AND status = ?", id, change.From).
		Updates(updates)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to update attendance record status")
		return false, storeError(result.Error)
	}

	r.logger.WithFields(logrus.Fields{
		"id":      id,
		"from":    change.From,
		"to":      change.To,
		"updated": result.RowsAffected,
	}).Info("Attendance record decision applied")

	return result.RowsAffected > 0, nil
}

// ExportRows выгружает все записи вместе с именами сотрудников
func (r *GormAttendanceRepository) ExportRows(ctx context.Context) ([]models.ExportRow, error) {
	var records []*models.AttendanceRecord

	result := r.db.WithContext(ctx).
		Preload("Employee").
		Order("date, employee_id").
		Find(&records)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to export attendance records")
		return nil, storeError(result.Error)
	}

	rows := make([]models.ExportRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, models.ExportRow{
			ID:               rec.ID,
			EmployeeID:       rec.EmployeeID,
			EmployeeName:     rec.Employee.Name,
			Date:             rec.Date,
			EntryTime:        rec.EntryTime,
			ExitTime:         rec.ExitTime,
			BreakHours:       rec.BreakHours,
			RecordType:       rec.RecordType,
			Status:           rec.Status,
			AdminNote:        rec.AdminNote,
			AbsenceRequestID: rec.AbsenceRequestID,
			CreatedBy:        rec.CreatedBy,
			CreatedAt:        rec.CreatedAt,
			UpdatedAt:        rec.UpdatedAt,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		return rows[i].EmployeeName < rows[j].EmployeeName
	})

	return rows, nil
}
