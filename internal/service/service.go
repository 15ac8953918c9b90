package service

import (
	"fmt"
	"time"

	"clinic-timesheet-bot/internal/models"

	"github.com/sirupsen/logrus"
)

// Clock - текущее время в часовом поясе клиники
type Clock struct {
	loc *time.Location
	now func() time.Time
}

func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return Clock{loc: loc, now: time.Now}
}

func (c Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// Today возвращает сегодняшний календарный день клиники
func (c Clock) Today() time.Time {
	return models.DateOf(c.now(), c.loc)
}

func (c Clock) Location() *time.Location {
	return c.loc
}

// requireSession проверяет, что вызов сделан с действующей сессией
func requireSession(session *models.Session) error {
	if session == nil || !session.IsActive() || session.EmployeeID == 0 {
		return models.ErrUnauthorized
	}
	return nil
}

// requireAdmin проверяет сессию администратора
func requireAdmin(session *models.Session) error {
	if err := requireSession(session); err != nil {
		return err
	}
	if !session.IsAdmin() {
		return models.ErrForbidden
	}
	return nil
}

func parseTimeOfDay(value string) (string, time.Time, error) {
	t, err := time.Parse(models.TimeOfDayLayout, value)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: time %q must be HH:MM", models.ErrInvalidInput, value)
	}
	return t.Format(models.TimeOfDayLayout), t, nil
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.GetLevel())
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return logger
}
