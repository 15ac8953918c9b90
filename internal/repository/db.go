package repository

import (
	"errors"
	"fmt"
	"strings"

	"clinic-timesheet-bot/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open открывает SQLite базу и проверяет соединение.
// Ошибка здесь фатальна для запуска.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true, // SQLite ограничения
		TranslateError:                           true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrConnectivity, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrConnectivity, err)
	}

	// Одно соединение: SQLite не любит параллельных писателей
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrConnectivity, err)
	}

	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		logrus.Warnf("Failed to enable foreign keys: %v", err)
	}
	if _, err := sqlDB.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logrus.Warnf("Failed to set busy timeout: %v", err)
	}

	return db, nil
}

// Close закрывает соединение с базой
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// storeError помечает неожиданную ошибку базы как ErrConnectivity
func storeError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", models.ErrConnectivity, err)
}

// isUniqueViolation - вставка нарушила уникальный индекс
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
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
