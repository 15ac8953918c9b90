package service

import (
	"context"
	"sync"
	"time"

	"clinic-timesheet-bot/internal/models"
	"clinic-timesheet-bot/internal/repository"

	"github.com/sirupsen/logrus"
)

const defaultBatchSize = 20

// Notifier доставляет событие администратору
type Notifier interface {
	Notify(ctx context.Context, event models.NotificationEvent) error
}

// NotificationService складывает события в очередь и доставляет их в фоне.
// Доставка повторяется до maxAttempts раз, после чего событие помечается как failed.
type NotificationService struct {
	outbox      repository.OutboxRepository
	notifier    Notifier
	clock       Clock
	interval    time.Duration
	maxAttempts int
	batchSize   int
	logger      *logrus.Logger

	mu sync.Mutex
	wg sync.WaitGroup
}

func NewNotificationService(
	outbox repository.OutboxRepository,
	notifier Notifier,
	clock Clock,
	interval time.Duration,
	maxAttempts int,
) *NotificationService {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if maxAttempts <= 0 {
		maxAttempts = 5
	}

	return &NotificationService{
		outbox:      outbox,
		notifier:    notifier,
		clock:       clock,
		interval:    interval,
		maxAttempts: maxAttempts,
		batchSize:   defaultBatchSize,
		logger:      newLogger(),
	}
}

// Enqueue сохраняет событие в очереди
func (s *NotificationService) Enqueue(ctx context.Context, event models.NotificationEvent) error {
	queued, err := s.outbox.Enqueue(ctx, event)
	if err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"event_id": queued.ID,
		"employee": event.EmployeeName,
		"when":     event.When(),
	}).Debug("Notification queued")

	return nil
}

// Start запускает фоновую доставку до отмены ctx
func (s *NotificationService) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()
}

// Wait ждет завершения фоновой доставки после отмены контекста
func (s *NotificationService) Wait() {
	s.wg.Wait()
}

func (s *NotificationService) run(ctx context.Context) {
	s.logger.WithField("interval", s.interval.String()).Info("Notification dispatcher started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if _, err := s.DrainOnce(ctx); err != nil && ctx.Err() == nil {
			s.logger.WithError(err).Error("Failed to drain notification outbox")
		}

		select {
		case <-ctx.Done():
			s.logger.Info("Notification dispatcher stopped")
			return
		case <-ticker.C:
		}
	}
}

// DrainOnce пытается доставить все ожидающие события.
// Возвращает количество доставленных.
func (s *NotificationService) DrainOnce(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending, err := s.outbox.ListPending(ctx, s.batchSize)
	if err != nil {
		return 0, err
	}

	delivered := 0
	for _, event := range pending {
		if ctx.Err() != nil {
			return delivered, ctx.Err()
		}

		fields := logrus.Fields{
			"event_id": event.ID,
			"attempt":  event.Attempts + 1,
		}

		if err := s.notifier.Notify(ctx, event.Payload); err != nil {
			attempts := event.Attempts + 1
			final := attempts >= s.maxAttempts

			s.logger.WithError(err).WithFields(fields).Warn("Notification delivery failed")
			if markErr := s.outbox.MarkAttempt(ctx, event.ID, attempts, err.Error(), final); markErr != nil {
				return delivered, markErr
			}
			if final {
				s.logger.WithFields(fields).Error("Notification dropped after max attempts")
			}
			continue
		}

		if err := s.outbox.MarkDelivered(ctx, event.ID, s.clock.Now()); err != nil {
			return delivered, err
		}
		delivered++
		s.logger.WithFields(fields).Info("Notification delivered")
	}

	return delivered, nil
}

// Stats возвращает количество событий по статусам
func (s *NotificationService) Stats(ctx context.Context, session *models.Session) (map[models.OutboxStatus]int64, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	return s.outbox.CountByStatus(ctx)
}
