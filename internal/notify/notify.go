// Package notify доставляет уведомления о новых заявках администраторам клиники.
package notify

import (
	"context"
	"errors"
	"fmt"

	"clinic-timesheet-bot/internal/models"
)

// Notifier - один канал доставки
type Notifier interface {
	Notify(ctx context.Context, event models.NotificationEvent) error
}

// Multi рассылает событие во все каналы и объединяет их ошибки.
// При повторной доставке успешные каналы получат событие еще раз.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, event models.NotificationEvent) error {
	if len(m) == 0 {
		return errors.New("no notification channels configured")
	}

	var errs []error
	for i, n := range m {
		if err := n.Notify(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("channel %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
