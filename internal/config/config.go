package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type BotConfig struct {
	TelegramToken string
	AdminChatID   int64
	DatabaseURL   string
	Debug         bool
	LogLevel      logrus.Level

	// Первый администратор
	AdminName string
	AdminPIN  string

	Location          *time.Location
	HolidaysFile      string
	DefaultBreakHours float64

	NotifyInterval    time.Duration
	NotifyMaxAttempts int

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
	SMTPTo       string
}

var instance *BotConfig
var once sync.Once

// GetBotConfig загружает настройки один раз за процесс.
// Без токена бота работать нельзя, поэтому ошибка завершает процесс.
func GetBotConfig() *BotConfig {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			logrus.Warnf(".env file not loaded: %s", err.Error())
		}

		cfg, err := Load()
		if err != nil {
			logrus.Fatalf("invalid configuration: %s", err.Error())
		}
		instance = cfg
	})

	return instance
}

// Load читает настройки из переменных окружения
func Load() (*BotConfig, error) {
	cfg := &BotConfig{}

	cfg.TelegramToken = getEnv("TELEGRAM_BOT_TOKEN", "")
	if cfg.TelegramToken == "" {
		return nil, errors.New("could not get bot token")
	}

	cfg.AdminChatID = getEnvAsInt("ADMIN_CHAT_ID", 0)
	cfg.DatabaseURL = getEnv("DATABASE_URL", "clinic.db")
	cfg.Debug = getEnvAsBool("BOT_DEBUG", false)

	level, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	cfg.AdminName = getEnv("ADMIN_NAME", "")
	cfg.AdminPIN = getEnv("ADMIN_PIN", "")

	tz := getEnv("CLINIC_TIMEZONE", "Europe/Madrid")
	cfg.Location, err = time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid CLINIC_TIMEZONE %q: %w", tz, err)
	}

	cfg.HolidaysFile = getEnv("HOLIDAYS_FILE", "holidays.json")

	cfg.DefaultBreakHours = getEnvAsFloat("DEFAULT_BREAK_HOURS", 1.0)
	if cfg.DefaultBreakHours < 0 {
		return nil, errors.New("DEFAULT_BREAK_HOURS cannot be negative")
	}

	cfg.NotifyInterval = getEnvAsDuration("NOTIFY_INTERVAL", 30*time.Second)
	if cfg.NotifyInterval <= 0 {
		return nil, errors.New("NOTIFY_INTERVAL must be positive")
	}
	cfg.NotifyMaxAttempts = int(getEnvAsInt("NOTIFY_MAX_ATTEMPTS", 5))
	if cfg.NotifyMaxAttempts < 1 {
		return nil, errors.New("NOTIFY_MAX_ATTEMPTS must be at least 1")
	}

	cfg.SMTPHost = getEnv("SMTP_HOST", "")
	cfg.SMTPPort = int(getEnvAsInt("SMTP_PORT", 587))
	cfg.SMTPUser = getEnv("SMTP_USER", "")
	cfg.SMTPPassword = getEnv("SMTP_PASSWORD", "")
	cfg.SMTPFrom = getEnv("SMTP_FROM", cfg.SMTPUser)
	cfg.SMTPTo = getEnv("SMTP_TO", "")

	return cfg, nil
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}

	return defaultVal
}

func getEnvAsBool(name string, defaultVal bool) bool {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}

	return defaultVal
}

func getEnvAsInt(name string, defaultVal int64) int64 {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseInt(valStr, 10, 64); err == nil {
		return val
	}

	return defaultVal
}

func getEnvAsFloat(name string, defaultVal float64) float64 {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseFloat(valStr, 64); err == nil {
		return val
	}

	return defaultVal
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valStr := getEnv(name, "")
	if val, err := time.ParseDuration(valStr); err == nil {
		return val
	}

	return defaultVal
}
