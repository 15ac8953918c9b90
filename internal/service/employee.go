package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"clinic-timesheet-bot/internal/models"
	"clinic-timesheet-bot/internal/repository"

	"github.com/sirupsen/logrus"
)

type EmployeeService struct {
	employees repository.EmployeeRepository
	sessions  repository.SessionRepository
	clock     Clock
	logger    *logrus.Logger
}

func NewEmployeeService(
	employees repository.EmployeeRepository,
	sessions repository.SessionRepository,
	clock Clock,
) *EmployeeService {
	return &EmployeeService{
		employees: employees,
		sessions:  sessions,
		clock:     clock,
		logger:    newLogger(),
	}
}

// InitializeAdmin создает администратора при первом запуске.
// Если сотрудник с таким именем уже есть, ему выдается роль администратора.
func (s *EmployeeService) InitializeAdmin(ctx context.Context, name, pin string) error {
	name = strings.TrimSpace(name)
	if name == "" || pin == "" {
		s.logger.Warn("Admin name or PIN is not configured, skipping admin initialization")
		return nil
	}

	existing, err := s.employees.GetByName(ctx, name)
	if err != nil {
		return err
	}

	if existing != nil {
		if existing.IsAdmin() {
			return nil
		}
		if err := s.employees.SetRole(ctx, existing.ID, models.RoleAdmin); err != nil {
			return fmt.Errorf("failed to promote admin: %w", err)
		}
		s.logger.WithField("employee_id", existing.ID).Info("Existing employee promoted to admin")
		return nil
	}

	admin := &models.Employee{
		Name:   name,
		PIN:    pin,
		Active: true,
		Role:   models.RoleAdmin,
	}
	if err := s.employees.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	s.logger.WithField("employee_id", admin.ID).Info("Admin initialized")
	return nil
}

// Create регистрирует нового сотрудника
func (s *EmployeeService) Create(ctx context.Context, session *models.Session, name, pin string) (*models.Employee, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	pin = strings.TrimSpace(pin)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", models.ErrInvalidInput)
	}
	if len(pin) < 4 {
		return nil, fmt.Errorf("%w: PIN must have at least 4 characters", models.ErrInvalidInput)
	}

	employee := &models.Employee{
		Name:   name,
		PIN:    pin,
		Active: true,
		Role:   models.RoleEmployee,
	}
	if err := s.employees.Create(ctx, employee); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"employee_id": employee.ID,
		"created_by":  session.EmployeeID,
	}).Info("Employee created")

	return employee, nil
}

// Deactivate снимает сотрудника с учета и отзывает все его сессии.
// Записи сотрудника сохраняются.
func (s *EmployeeService) Deactivate(ctx context.Context, session *models.Session, name string) (*models.Employee, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}

	employee, err := s.employees.GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, fmt.Errorf("%w: employee %q", models.ErrNotFound, name)
	}
	if employee.ID == session.EmployeeID {
		return nil, fmt.Errorf("%w: cannot deactivate yourself", models.ErrInvalidInput)
	}

	if err := s.employees.SetActive(ctx, employee.ID, false); err != nil {
		return nil, err
	}
	employee.Active = false

	revoked, err := s.sessions.RevokeByEmployee(ctx, employee.ID, s.clock.Now())
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"employee_id":      employee.ID,
		"revoked_sessions": revoked,
	}).Info("Employee deactivated")

	return employee, nil
}

// List возвращает всех сотрудников, включая неактивных
func (s *EmployeeService) List(ctx context.Context, session *models.Session) ([]*models.Employee, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	return s.employees.ListAll(ctx)
}

// Find ищет сотрудника по имени
func (s *EmployeeService) Find(ctx context.Context, session *models.Session, name string) (*models.Employee, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}

	employee, err := s.employees.GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, fmt.Errorf("%w: employee %q", models.ErrNotFound, name)
	}
	return employee, nil
}

// BindChat запоминает чат сотрудника, чтобы бот мог писать администраторам
func (s *EmployeeService) BindChat(ctx context.Context, session *models.Session, chatID int64) error {
	if err := requireSession(session); err != nil {
		return err
	}

	err := s.employees.SetChatID(ctx, session.EmployeeID, chatID)
	if errors.Is(err, models.ErrNotFound) {
		return models.ErrUnauthorized
	}
	return err
}

// AdminChatIDs возвращает чаты активных администраторов
func (s *EmployeeService) AdminChatIDs(ctx context.Context) ([]int64, error) {
	admins, err := s.employees.ListAdmins(ctx)
	if err != nil {
		return nil, err
	}

	var ids []int64
	for _, a := range admins {
		if a.Active && a.ChatID != nil {
			ids = append(ids, *a.ChatID)
		}
	}
	return ids, nil
}
