package repository

import (
	"context"
	"time"

	"clinic-timesheet-bot/internal/models"

	"gorm.io/gorm"
)

type NonWorkingDayRepository interface {
	ReplaceAll(ctx context.Context, days []models.NonWorkingDay) error
	GetByYearMonth(ctx context.Context, year, month int) ([]models.NonWorkingDay, error)
	GetAll(ctx context.Context) ([]models.NonWorkingDay, error)
	IsNonWorkingDay(ctx context.Context, date time.Time) (bool, error)
}

type GormNonWorkingDayRepository struct {
	db *gorm.DB
}

func NewGormNonWorkingDayRepository(db *gorm.DB) (*GormNonWorkingDayRepository, error) {
	// Автомиграция для таблицы non_working_days
	if err := db.AutoMigrate(&models.NonWorkingDay{}); err != nil {
		return nil, err
	}

	return &GormNonWorkingDayRepository{db: db}, nil
}

// ReplaceAll заменяет список праздников целиком в одной транзакции
func (r *GormNonWorkingDayRepository) ReplaceAll(ctx context.Context, days []models.NonWorkingDay) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM non_working_days").Error; err != nil {
			return err
		}
		if len(days) == 0 {
			return nil
		}
		return tx.Create(&days).Error
	})
	return storeError(err)
}

func (r *GormNonWorkingDayRepository) GetByYearMonth(ctx context.Context, year, month int) ([]models.NonWorkingDay, error) {
	var days []models.NonWorkingDay
	err := r.db.WithContext(ctx).Where("year = ? AND month = ?", year, month).Order("date").Find(&days).Error
	return days, storeError(err)
}

func (r *GormNonWorkingDayRepository) GetAll(ctx context.Context) ([]models.NonWorkingDay, error) {
	var days []models.NonWorkingDay
	err := r.db.WithContext(ctx).Order("date").Find(&days).Error
	return days, storeError(err)
}

func (r *GormNonWorkingDayRepository) IsNonWorkingDay(ctx context.Context, date time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.NonWorkingDay{}).
		Where("date = ?", models.DateOf(date, nil)).
		Count(&count).Error
	return count > 0, storeError(err)
}
