package service

import (
	"context"
	"fmt"
	"time"

	"clinic-timesheet-bot/internal/calendar"
	"clinic-timesheet-bot/internal/models"
	"clinic-timesheet-bot/internal/repository"
	"clinic-timesheet-bot/pkg/holidays"

	"github.com/sirupsen/logrus"
)

// HolidayService хранит праздничные дни клиники и держит календарь в актуальном состоянии
type HolidayService struct {
	repo   repository.NonWorkingDayRepository
	oracle *calendar.Oracle
	logger *logrus.Logger
}

func NewHolidayService(repo repository.NonWorkingDayRepository, oracle *calendar.Oracle) *HolidayService {
	return &HolidayService{
		repo:   repo,
		oracle: oracle,
		logger: newLogger(),
	}
}

// LoadFromJSON заменяет праздники в базе данными из файла и обновляет календарь
func (s *HolidayService) LoadFromJSON(ctx context.Context, filePath string) (int, error) {
	parsed, err := holidays.ParseFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", models.ErrInvalidInput, err)
	}

	days := make([]models.NonWorkingDay, 0, len(parsed))
	for _, h := range parsed {
		days = append(days, models.NonWorkingDay{
			Date:  h.Date,
			Year:  h.Year,
			Month: h.Month,
			Day:   h.Day,
		})
	}

	if err := s.repo.ReplaceAll(ctx, days); err != nil {
		return 0, err
	}

	if _, err := s.Refresh(ctx); err != nil {
		return 0, err
	}

	s.logger.WithFields(logrus.Fields{
		"file":  filePath,
		"count": len(days),
	}).Info("Holidays loaded from file")

	return len(days), nil
}

// Reload - перезагрузка праздников по команде администратора
func (s *HolidayService) Reload(ctx context.Context, session *models.Session, filePath string) (int, error) {
	if err := requireAdmin(session); err != nil {
		return 0, err
	}
	return s.LoadFromJSON(ctx, filePath)
}

// Refresh перечитывает праздники из базы в календарь
func (s *HolidayService) Refresh(ctx context.Context) (int, error) {
	days, err := s.repo.GetAll(ctx)
	if err != nil {
		return 0, err
	}

	dates := make([]time.Time, 0, len(days))
	for _, d := range days {
		dates = append(dates, d.Date)
	}
	s.oracle.SetHolidays(dates)

	return len(dates), nil
}

// ForMonth возвращает праздники месяца
func (s *HolidayService) ForMonth(ctx context.Context, year int, month time.Month) ([]models.NonWorkingDay, error) {
	return s.repo.GetByYearMonth(ctx, year, int(month))
}
