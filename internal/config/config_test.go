package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	for _, key := range []string{
		"ADMIN_CHAT_ID", "DATABASE_URL", "BOT_DEBUG", "LOG_LEVEL", "CLINIC_TIMEZONE",
		"HOLIDAYS_FILE", "DEFAULT_BREAK_HOURS", "NOTIFY_INTERVAL", "NOTIFY_MAX_ATTEMPTS",
		"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_FROM", "SMTP_TO",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DatabaseURL != "clinic.db" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.Location.String() != "Europe/Madrid" {
		t.Errorf("Location = %s", cfg.Location)
	}
	if cfg.DefaultBreakHours != 1.0 {
		t.Errorf("DefaultBreakHours = %v", cfg.DefaultBreakHours)
	}
	if cfg.NotifyInterval != 30*time.Second || cfg.NotifyMaxAttempts != 5 {
		t.Errorf("notify settings = %v, %d", cfg.NotifyInterval, cfg.NotifyMaxAttempts)
	}
	if cfg.LogLevel != logrus.InfoLevel || cfg.Debug {
		t.Errorf("log settings = %v, debug %v", cfg.LogLevel, cfg.Debug)
	}
	if cfg.SMTPPort != 587 || cfg.AdminChatID != 0 {
		t.Errorf("SMTPPort = %d, AdminChatID = %d", cfg.SMTPPort, cfg.AdminChatID)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("ADMIN_CHAT_ID", "-100200300")
	t.Setenv("DATABASE_URL", "/data/clinic.db")
	t.Setenv("BOT_DEBUG", "true")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CLINIC_TIMEZONE", "UTC")
	t.Setenv("DEFAULT_BREAK_HOURS", "0.5")
	t.Setenv("NOTIFY_INTERVAL", "1m")
	t.Setenv("NOTIFY_MAX_ATTEMPTS", "3")
	t.Setenv("SMTP_USER", "bot@clinica.test")
	t.Setenv("SMTP_FROM", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.AdminChatID != -100200300 || cfg.DatabaseURL != "/data/clinic.db" || !cfg.Debug {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.LogLevel != logrus.DebugLevel || cfg.Location != time.UTC {
		t.Errorf("LogLevel = %v, Location = %v", cfg.LogLevel, cfg.Location)
	}
	if cfg.DefaultBreakHours != 0.5 || cfg.NotifyInterval != time.Minute || cfg.NotifyMaxAttempts != 3 {
		t.Errorf("unexpected numeric settings %+v", cfg)
	}
	if cfg.SMTPFrom != "bot@clinica.test" {
		t.Errorf("SMTPFrom must default to SMTP_USER, got %q", cfg.SMTPFrom)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing token", env: map[string]string{"TELEGRAM_BOT_TOKEN": ""}},
		{name: "bad timezone", env: map[string]string{"CLINIC_TIMEZONE": "Mars/Olympus"}},
		{name: "bad log level", env: map[string]string{"LOG_LEVEL": "loud"}},
		{name: "negative break", env: map[string]string{"DEFAULT_BREAK_HOURS": "-1"}},
		{name: "zero attempts", env: map[string]string{"NOTIFY_MAX_ATTEMPTS": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			if _, err := Load(); err == nil {
				t.Error("expected error")
			}
		})
	}
}
