package service

import (
	"context"
	"fmt"
	"strings"

	"clinic-timesheet-bot/internal/models"
	"clinic-timesheet-bot/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AuthService выдает и отзывает сессии сотрудников
type AuthService struct {
	employees repository.EmployeeRepository
	sessions  repository.SessionRepository
	clock     Clock
	logger    *logrus.Logger
}

func NewAuthService(
	employees repository.EmployeeRepository,
	sessions repository.SessionRepository,
	clock Clock,
) *AuthService {
	return &AuthService{
		employees: employees,
		sessions:  sessions,
		clock:     clock,
		logger:    newLogger(),
	}
}

// Login проверяет имя и PIN и выдает новую сессию.
// Неактивные сотрудники войти не могут.
func (s *AuthService) Login(ctx context.Context, name, pin string) (*models.Session, error) {
	name = strings.TrimSpace(name)

	employee, err := s.employees.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if employee == nil || !employee.Active || !employee.CheckPIN(pin) {
		s.logger.WithField("name", name).Warn("Failed login attempt")
		return nil, models.ErrInvalidCredentials
	}

	session := &models.Session{
		Token:      uuid.NewString(),
		EmployeeID: employee.ID,
		IssuedAt:   s.clock.Now(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	session.Employee = *employee

	s.logger.WithFields(logrus.Fields{
		"employee_id": employee.ID,
		"role":        employee.Role,
	}).Info("Employee logged in")

	return session, nil
}

// Authenticate возвращает действующую сессию по токену
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, models.ErrUnauthorized
	}

	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil || !session.IsActive() || !session.Employee.Active {
		return nil, models.ErrUnauthorized
	}
	return session, nil
}

// Logout отзывает сессию. Повторный выход возвращает ErrUnauthorized.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	revoked, err := s.sessions.Revoke(ctx, token, s.clock.Now())
	if err != nil {
		return err
	}
	if !revoked {
		return models.ErrUnauthorized
	}

	s.logger.Info("Session revoked")
	return nil
}

// LoginNames возвращает имена активных сотрудников для списка входа
func (s *AuthService) LoginNames(ctx context.Context) ([]string, error) {
	employees, err := s.employees.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(employees))
	for _, e := range employees {
		names = append(names, e.Name)
	}
	return names, nil
}
