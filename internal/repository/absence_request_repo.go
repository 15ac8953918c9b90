package repository

import (
	"context"
	"errors"

	"clinic-timesheet-bot/internal/models"

	"gorm.io/gorm"
)

type AbsenceRequestRepository interface {
	GetByID(ctx context.Context, id uint) (*models.AbsenceRequest, error)
	GetByEmployeeID(ctx context.Context, employeeID uint, limit int) ([]models.AbsenceRequest, error)
}

type GormAbsenceRequestRepository struct {
	db *gorm.DB
}

func NewGormAbsenceRequestRepository(db *gorm.DB) (*GormAbsenceRequestRepository, error) {
	if err := db.AutoMigrate(&models.AbsenceRequest{}); err != nil {
		return nil, err
	}
	return &GormAbsenceRequestRepository{db: db}, nil
}

// GetByID возвращает заявку вместе с ее записями по дням
func (r *GormAbsenceRequestRepository) GetByID(ctx context.Context, id uint) (*models.AbsenceRequest, error) {
	var request models.AbsenceRequest
	err := r.db.WithContext(ctx).
		Preload("Records", func(db *gorm.DB) *gorm.DB { return db.Order("date") }).
		First(&request, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError(err)
	}
	return &request, nil
}

func (r *GormAbsenceRequestRepository) GetByEmployeeID(ctx context.Context, employeeID uint, limit int) ([]models.AbsenceRequest, error) {
	var requests []models.AbsenceRequest

	query := r.db.WithContext(ctx).
		Preload("Records", func(db *gorm.DB) *gorm.DB { return db.Order("date") }).
		Where("employee_id = ?", employeeID).
		Order("start_date DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&requests).Error; err != nil {
		return nil, storeError(err)
	}
	return requests, nil
}
