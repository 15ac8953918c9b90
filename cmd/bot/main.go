package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"clinic-timesheet-bot/internal/calendar"
	"clinic-timesheet-bot/internal/config"
	"clinic-timesheet-bot/internal/handler"
	"clinic-timesheet-bot/internal/notify"
	"clinic-timesheet-bot/internal/repository"
	"clinic-timesheet-bot/internal/service"
	"clinic-timesheet-bot/pkg/telegram"

	"github.com/sirupsen/logrus"
)

func main() {
	logrus.Info("Initializing config...")
	cfg := config.GetBotConfig()
	logrus.SetLevel(cfg.LogLevel)
	logrus.Info("Config initialized...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := repository.Open(cfg.DatabaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	defer func() {
		if err := repository.Close(db); err != nil {
			logrus.WithError(err).Warn("Error closing database")
		}
	}()

	employeeRepo, err := repository.NewGormEmployeeRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create employee repository")
	}
	sessionRepo, err := repository.NewGormSessionRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create session repository")
	}
	attendanceRepo, err := repository.NewGormAttendanceRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create attendance repository")
	}
	requestRepo, err := repository.NewGormAbsenceRequestRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create absence request repository")
	}
	holidayRepo, err := repository.NewGormNonWorkingDayRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create non working day repository")
	}
	outboxRepo, err := repository.NewGormOutboxRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create outbox repository")
	}

	clock := service.NewClock(cfg.Location)
	oracle := calendar.NewOracle(nil)

	// Праздники: файл, если он есть, иначе то, что уже лежит в базе
	holidayService := service.NewHolidayService(holidayRepo, oracle)
	if _, err := os.Stat(cfg.HolidaysFile); err == nil {
		if _, err := holidayService.LoadFromJSON(ctx, cfg.HolidaysFile); err != nil {
			logrus.WithError(err).Fatal("Failed to load holidays")
		}
	} else {
		if !errors.Is(err, fs.ErrNotExist) {
			logrus.WithError(err).Warn("Holidays file is not readable")
		}
		count, err := holidayService.Refresh(ctx)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to read holidays from database")
		}
		logrus.Warnf("Holidays file %s not found, using %d holidays from database", cfg.HolidaysFile, count)
	}

	authService := service.NewAuthService(employeeRepo, sessionRepo, clock)
	employeeService := service.NewEmployeeService(employeeRepo, sessionRepo, clock)

	if err := employeeService.InitializeAdmin(ctx, cfg.AdminName, cfg.AdminPIN); err != nil {
		logrus.WithError(err).Warn("Failed to initialize admin")
	}

	client, err := telegram.NewClient(cfg.TelegramToken, cfg.Debug)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create Telegram client")
	}
	logrus.Infof("Authorized on account %s", client.Bot.Self.UserName)

	// Уведомления администраторам: Telegram, почта (если настроена) и журнал
	notifiers := notify.Multi{
		notify.NewTelegram(client, cfg.AdminChatID, employeeService.AdminChatIDs),
		notify.NewLog(logrus.StandardLogger()),
	}
	smtpConfig := notify.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		To:       cfg.SMTPTo,
	}
	if smtpConfig.Enabled() {
		notifiers = append(notifiers, notify.NewMail(smtpConfig))
		logrus.WithField("to", cfg.SMTPTo).Info("Email notifications enabled")
	}

	notificationService := service.NewNotificationService(outboxRepo, notifiers, clock, cfg.NotifyInterval, cfg.NotifyMaxAttempts)
	attendanceService := service.NewAttendanceService(
		attendanceRepo,
		requestRepo,
		employeeRepo,
		oracle,
		notificationService,
		clock,
		cfg.DefaultBreakHours,
	)
	approvalService := service.NewApprovalService(attendanceRepo, clock)
	reportService := service.NewReportService(attendanceRepo, employeeRepo, oracle, clock)

	botHandler := handler.NewHandler(
		client,
		authService,
		employeeService,
		attendanceService,
		approvalService,
		reportService,
		holidayService,
		notificationService,
		cfg.HolidaysFile,
	)

	notificationService.Start(ctx)

	done := make(chan struct{})
	go func() {
		defer close(done)
		botHandler.HandleUpdates(client.Updates())
	}()

	logrus.Info("Bot started. Press Ctrl+C to stop.")
	<-ctx.Done()

	logrus.Info("Shutting down...")
	client.Stop()
	<-done
	notificationService.Wait()

	logrus.Info("Bot stopped gracefully")
}
