package repository

import (
	"context"
	"errors"
	"time"

	"clinic-timesheet-bot/internal/models"

	"gorm.io/gorm"
)

type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByToken(ctx context.Context, token string) (*models.Session, error)
	Revoke(ctx context.Context, token string, at time.Time) (bool, error)
	RevokeByEmployee(ctx context.Context, employeeID uint, at time.Time) (int64, error)
}

type GormSessionRepository struct {
	db *gorm.DB
}

func NewGormSessionRepository(db *gorm.DB) (*GormSessionRepository, error) {
	if err := db.AutoMigrate(&models.Session{}); err != nil {
		return nil, err
	}
	return &GormSessionRepository{db: db}, nil
}

func (r *GormSessionRepository) Create(ctx context.Context, session *models.Session) error {
	return storeError(r.db.WithContext(ctx).Omit("Employee").Create(session).Error)
}

// GetByToken возвращает сессию вместе с сотрудником
func (r *GormSessionRepository) GetByToken(ctx context.Context, token string) (*models.Session, error) {
	var session models.Session
	err := r.db.WithContext(ctx).Preload("Employee").Where("token = ?", token).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError(err)
	}
	return &session, nil
}

// Revoke отзывает активную сессию. false - сессии нет или она уже отозвана.
func (r *GormSessionRepository) Revoke(ctx context.Context, token string, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Session{}).
		Where("token = ? AND revoked_at IS NULL", token).
		Update("revoked_at", at)
	if result.Error != nil {
		return false, storeError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

// RevokeByEmployee отзывает все активные сессии сотрудника
func (r *GormSessionRepository) RevokeByEmployee(ctx context.Context, employeeID uint, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Session{}).
		Where("employee_id = ? AND revoked_at IS NULL", employeeID).
		Update("revoked_at", at)
	if result.Error != nil {
		return 0, storeError(result.Error)
	}
	return result.RowsAffected, nil
}
