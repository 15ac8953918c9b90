package repository

import (
	"context"
	"errors"
	"fmt"

	"clinic-timesheet-bot/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type EmployeeRepository interface {
	Create(ctx context.Context, employee *models.Employee) error
	GetByID(ctx context.Context, id uint) (*models.Employee, error)
	GetByName(ctx context.Context, name string) (*models.Employee, error)
	ListActive(ctx context.Context) ([]*models.Employee, error)
	ListAll(ctx context.Context) ([]*models.Employee, error)
	ListAdmins(ctx context.Context) ([]*models.Employee, error)
	SetActive(ctx context.Context, id uint, active bool) error
	SetRole(ctx context.Context, id uint, role models.Role) error
	SetChatID(ctx context.Context, id uint, chatID int64) error
}

type GormEmployeeRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormEmployeeRepository(db *gorm.DB) (*GormEmployeeRepository, error) {
	// Автомиграция - создает таблицы если их нет
	if err := db.AutoMigrate(&models.Employee{}); err != nil {
		return nil, err
	}

	return &GormEmployeeRepository{db: db, logger: newLogger()}, nil
}

func (r *GormEmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	if employee.Role == "" {
		employee.Role = models.RoleEmployee
	}

	result := r.db.WithContext(ctx).Create(employee)
	if isUniqueViolation(result.Error) {
		return fmt.Errorf("%w: employee %q already exists", models.ErrDuplicateRecord, employee.Name)
	}
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to create employee")
		return storeError(result.Error)
	}

	r.logger.WithFields(logrus.Fields{
		"id":   employee.ID,
		"name": employee.Name,
		"role": employee.Role,
	}).Info("Employee created")

	return nil
}

func (r *GormEmployeeRepository) GetByID(ctx context.Context, id uint) (*models.Employee, error) {
	var employee models.Employee
	result := r.db.WithContext(ctx).First(&employee, id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, storeError(result.Error)
	}

	return &employee, nil
}

func (r *GormEmployeeRepository) GetByName(ctx context.Context, name string) (*models.Employee, error) {
	var employee models.Employee
	result := r.db.WithContext(ctx).Where("name = ?", name).First(&employee)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, storeError(result.Error)
	}

	return &employee, nil
}

func (r *GormEmployeeRepository) ListActive(ctx context.Context) ([]*models.Employee, error) {
	var employees []*models.Employee
	result := r.db.WithContext(ctx).Where("active = ?", true).Order("name").Find(&employees)
	if result.Error != nil {
		return nil, storeError(result.Error)
	}
	return employees, nil
}

func (r *GormEmployeeRepository) ListAll(ctx context.Context) ([]*models.Employee, error) {
	var employees []*models.Employee
	result := r.db.WithContext(ctx).Order("name").Find(&employees)
	if result.Error != nil {
		return nil, storeError(result.Error)
	}
	return employees, nil
}

func (r *GormEmployeeRepository) ListAdmins(ctx context.Context) ([]*models.Employee, error) {
	var admins []*models.Employee
	result := r.db.WithContext(ctx).
		Where("role = ? AND active = ?", models.RoleAdmin, true).
		Find(&admins)
	if result.Error != nil {
		return nil, storeError(result.Error)
	}
	return admins, nil
}

func (r *GormEmployeeRepository) SetActive(ctx context.Context, id uint, active bool) error {
	return r.update(ctx, id, "active", active)
}

func (r *GormEmployeeRepository) SetRole(ctx context.Context, id uint, role models.Role) error {
	return r.update(ctx, id, "role", role)
}

func (r *GormEmployeeRepository) SetChatID(ctx context.Context, id uint, chatID int64) error {
	return r.update(ctx, id, "chat_id", chatID)
}

func (r *GormEmployeeRepository) update(ctx context.Context, id uint, column string, value interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Employee{}).
		Where("id = ?", id).
		Update(column, value)

	if result.Error != nil {
		r.logger.WithError(result.Error).WithField("column", column).Error("Failed to update employee")
		return storeError(result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: employee %d", models.ErrNotFound, id)
	}

	return nil
}
