package repository

import (
	"context"
	"path/filepath"
	"testing"

	"clinic-timesheet-bot/internal/models"

	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func newTestEmployee(t *testing.T, repo EmployeeRepository, name string) *models.Employee {
	t.Helper()

	employee := &models.Employee{Name: name, PIN: "1234", Active: true}
	if err := repo.Create(context.Background(), employee); err != nil {
		t.Fatalf("create employee %s: %v", name, err)
	}
	return employee
}
