package notify

import (
	"context"

	"clinic-timesheet-bot/internal/models"

	"github.com/sirupsen/logrus"
)

// Log пишет уведомления в журнал. Используется, когда другие каналы не настроены.
type Log struct {
	logger *logrus.Logger
}

func NewLog(logger *logrus.Logger) *Log {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Log{logger: logger}
}

func (l *Log) Notify(_ context.Context, event models.NotificationEvent) error {
	l.logger.WithFields(logrus.Fields{
		"employee": event.EmployeeName,
		"when":     event.When(),
		"type":     event.RecordType,
		"future":   event.IsFuture,
		"days":     event.DaysCreated,
	}).Info(Subject(event))
	return nil
}
