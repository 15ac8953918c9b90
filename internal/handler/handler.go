package handler

import (
	"context"
	"strings"
	"sync"
	"time"

	"clinic-timesheet-bot/internal/models"
	"clinic-timesheet-bot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

const (
	stateAwaitingPIN = "awaiting_pin:"

	callbackLogin   = "login:"
	callbackApprove = "approve:"
	callbackReject  = "reject:"

	requestTimeout = 30 * time.Second
)

// Messenger - отправка сообщений в Telegram.
// Request нужен для методов, которые возвращают не сообщение (callback, удаление).
type Messenger interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Handler struct {
	bot                 Messenger
	authService         *service.AuthService
	employeeService     *service.EmployeeService
	attendanceService   *service.AttendanceService
	approvalService     *service.ApprovalService
	reportService       *service.ReportService
	holidayService      *service.HolidayService
	notificationService *service.NotificationService
	holidaysFile        string
	logger              *logrus.Logger

	mu         sync.Mutex
	sessions   map[int64]string // чат -> токен сессии
	userStates map[int64]string
}

func NewHandler(
	bot Messenger,
	authService *service.AuthService,
	employeeService *service.EmployeeService,
	attendanceService *service.AttendanceService,
	approvalService *service.ApprovalService,
	reportService *service.ReportService,
	holidayService *service.HolidayService,
	notificationService *service.NotificationService,
	holidaysFile string,
) *Handler {
	logger := logrus.New()
	logger.SetLevel(logrus.GetLevel())
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &Handler{
		bot:                 bot,
		authService:         authService,
		employeeService:     employeeService,
		attendanceService:   attendanceService,
		approvalService:     approvalService,
		reportService:       reportService,
		holidayService:      holidayService,
		notificationService: notificationService,
		holidaysFile:        holidaysFile,
		logger:              logger,
		sessions:            make(map[int64]string),
		userStates:          make(map[int64]string),
	}
}

// HandleUpdates обрабатывает обновления по одному, пока канал не закрыт
func (h *Handler) HandleUpdates(updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		h.HandleUpdate(update)
	}
}

func (h *Handler) HandleUpdate(update tgbotapi.Update) {
	// Обработка callback query (для inline кнопок)
	if update.CallbackQuery != nil {
		h.handleCallbackQuery(update.CallbackQuery)
		return
	}

	if update.Message == nil {
		return
	}

	h.handleMessage(update.Message)
}

// handleCallbackQuery обрабатывает inline кнопки
func (h *Handler) handleCallbackQuery(callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil {
		return
	}
	chatID := callback.Message.Chat.ID
	data := callback.Data

	// Убираем клавиатуру, чтобы кнопку нельзя было нажать повторно
	h.send(tgbotapi.NewEditMessageReplyMarkup(chatID, callback.Message.MessageID, tgbotapi.NewInlineKeyboardMarkup()))

	switch {
	case strings.HasPrefix(data, callbackLogin):
		name := strings.TrimPrefix(data, callbackLogin)
		h.setState(chatID, stateAwaitingPIN+name)
		h.reply(chatID, "🔑 "+name+", escribe tu PIN:")

	case strings.HasPrefix(data, callbackApprove):
		h.decide(chatID, strings.TrimPrefix(data, callbackApprove), models.DecisionApprove, "", "")

	case strings.HasPrefix(data, callbackReject):
		h.decide(chatID, strings.TrimPrefix(data, callbackReject), models.DecisionReject, "", "")
	}

	// Отвечаем на callback (убираем "часики" у кнопки)
	h.request(tgbotapi.NewCallback(callback.ID, ""))
}

func (h *Handler) handleMessage(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	username := ""
	if message.From != nil {
		username = message.From.UserName
	}

	// Проверяем, ждет ли бот PIN от этого чата
	if state, exists := h.state(chatID); exists && !message.IsCommand() {
		h.handleState(message, state)
		return
	}

	if message.IsCommand() {
		h.logger.WithFields(logrus.Fields{
			"chat_id":  chatID,
			"username": username,
			"command":  message.Command(),
		}).Info("Command received")

		h.clearState(chatID)
		h.handleCommand(message)
		return
	}

	h.reply(chatID, "🤖 Usa /help para ver las órdenes disponibles.")
}

func (h *Handler) handleState(message *tgbotapi.Message, state string) {
	chatID := message.Chat.ID
	h.clearState(chatID)

	if strings.HasPrefix(state, stateAwaitingPIN) {
		name := strings.TrimPrefix(state, stateAwaitingPIN)
		h.deleteMessage(chatID, message.MessageID)
		h.login(chatID, name, strings.TrimSpace(message.Text))
	}
}

// session возвращает действующую сессию чата или сообщает пользователю, что нужно войти
func (h *Handler) session(ctx context.Context, chatID int64) (*models.Session, bool) {
	h.mu.Lock()
	token := h.sessions[chatID]
	h.mu.Unlock()

	session, err := h.authService.Authenticate(ctx, token)
	if err != nil {
		h.forgetSession(chatID)
		h.replyError(chatID, err)
		return nil, false
	}
	return session, true
}

// adminSession - то же, что session, но только для администраторов
func (h *Handler) adminSession(ctx context.Context, chatID int64) (*models.Session, bool) {
	session, ok := h.session(ctx, chatID)
	if !ok {
		return nil, false
	}
	if !session.IsAdmin() {
		h.logger.WithField("chat_id", chatID).Warn("Unauthorized access to admin command")
		h.replyError(chatID, models.ErrForbidden)
		return nil, false
	}
	return session, true
}

func (h *Handler) rememberSession(chatID int64, token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[chatID] = token
}

func (h *Handler) forgetSession(chatID int64) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	token := h.sessions[chatID]
	delete(h.sessions, chatID)
	return token
}

func (h *Handler) state(chatID int64) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	state, ok := h.userStates[chatID]
	return state, ok
}

func (h *Handler) setState(chatID int64, state string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.userStates[chatID] = state
}

func (h *Handler) clearState(chatID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.userStates, chatID)
}

func (h *Handler) reply(chatID int64, text string) {
	h.send(tgbotapi.NewMessage(chatID, text))
}

func (h *Handler) replyError(chatID int64, err error) {
	if !isExpected(err) {
		h.logger.WithError(err).WithField("chat_id", chatID).Error("Request failed")
	}
	h.reply(chatID, userMessage(err))
}

func (h *Handler) deleteMessage(chatID int64, messageID int) {
	h.request(tgbotapi.NewDeleteMessage(chatID, messageID))
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.WithError(err).Warn("Failed to send telegram message")
	}
}

func (h *Handler) request(c tgbotapi.Chattable) {
	if _, err := h.bot.Request(c); err != nil {
		h.logger.WithError(err).Debug("Telegram request failed")
	}
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}
