package repository

import (
	"context"
	"time"

	"clinic-timesheet-bot/internal/models"

	"gorm.io/gorm"
)

type OutboxRepository interface {
	Enqueue(ctx context.Context, event models.NotificationEvent) (*models.OutboxEvent, error)
	ListPending(ctx context.Context, limit int) ([]*models.OutboxEvent, error)
	MarkDelivered(ctx context.Context, id uint, at time.Time) error
	MarkAttempt(ctx context.Context, id uint, attempts int, lastError string, final bool) error
	CountByStatus(ctx context.Context) (map[models.OutboxStatus]int64, error)
}

type GormOutboxRepository struct {
	db *gorm.DB
}

func NewGormOutboxRepository(db *gorm.DB) (*GormOutboxRepository, error) {
	if err := db.AutoMigrate(&models.OutboxEvent{}); err != nil {
		return nil, err
	}
	return &GormOutboxRepository{db: db}, nil
}

func (r *GormOutboxRepository) Enqueue(ctx context.Context, event models.NotificationEvent) (*models.OutboxEvent, error) {
	row := &models.OutboxEvent{
		Payload: event,
		Status:  models.OutboxPending,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, storeError(err)
	}
	return row, nil
}

// ListPending возвращает недоставленные события в порядке постановки
func (r *GormOutboxRepository) ListPending(ctx context.Context, limit int) ([]*models.OutboxEvent, error) {
	var events []*models.OutboxEvent

	query := r.db.WithContext(ctx).Where("status = ?", models.OutboxPending).Order("id")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&events).Error; err != nil {
		return nil, storeError(err)
	}
	return events, nil
}

func (r *GormOutboxRepository) MarkDelivered(ctx context.Context, id uint, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&models.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       models.OutboxDelivered,
			"delivered_at": at,
			"last_error":   "",
		}).Error
	return storeError(err)
}

// MarkAttempt записывает неудачную попытку; final переводит событие в failed
func (r *GormOutboxRepository) MarkAttempt(ctx context.Context, id uint, attempts int, lastError string, final bool) error {
	status := models.OutboxPending
	if final {
		status = models.OutboxFailed
	}

	err := r.db.WithContext(ctx).Model(&models.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"attempts":   attempts,
			"last_error": lastError,
		}).Error
	return storeError(err)
}

func (r *GormOutboxRepository) CountByStatus(ctx context.Context) (map[models.OutboxStatus]int64, error) {
	var rows []struct {
		Status models.OutboxStatus
		Total  int64
	}

	err := r.db.WithContext(ctx).Model(&models.OutboxEvent{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, storeError(err)
	}

	counts := make(map[models.OutboxStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}
