package handler

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// startLogin показывает список сотрудников или сразу входит по "/login Nombre PIN"
func (h *Handler) startLogin(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	if name, pin := splitNameAndLast(args); pin != "" {
		h.deleteMessage(chatID, message.MessageID)
		h.login(chatID, name, pin)
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	names, err := h.authService.LoginNames(ctx)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	if len(names) == 0 {
		h.reply(chatID, "ℹ️ Todavía no hay empleados dados de alta.")
		return
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, name := range names {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👤 "+name, callbackLogin+name),
		))
	}

	msg := tgbotapi.NewMessage(chatID, "¿Quién eres?")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	h.send(msg)
}

func (h *Handler) login(chatID int64, name, pin string) {
	ctx, cancel := requestContext()
	defer cancel()

	session, err := h.authService.Login(ctx, name, pin)
	if err != nil {
		h.replyError(chatID, err)
		return
	}

	// Предыдущая сессия этого чата больше не нужна
	if old := h.forgetSession(chatID); old != "" {
		if err := h.authService.Logout(ctx, old); err != nil {
			h.logger.WithError(err).Debug("Previous session was already closed")
		}
	}
	h.rememberSession(chatID, session.Token)

	if err := h.employeeService.BindChat(ctx, session, chatID); err != nil {
		h.logger.WithError(err).WithField("chat_id", chatID).Warn("Failed to bind chat to employee")
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id":     chatID,
		"employee_id": session.EmployeeID,
	}).Info("Chat logged in")

	text := "✅ Hola, " + session.Employee.Name + ". Sesión iniciada."
	if session.IsAdmin() {
		text += "\n👑 Tienes permisos de administración: /helpadmin"
	}
	h.reply(chatID, text)
}

func (h *Handler) logout(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	token := h.forgetSession(chatID)
	if strings.TrimSpace(token) == "" {
		h.reply(chatID, "ℹ️ No hay ninguna sesión abierta.")
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	if err := h.authService.Logout(ctx, token); err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, "👋 Sesión cerrada.")
}
